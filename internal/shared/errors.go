package shared

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Data errors
	ErrNotFound           = fmt.Errorf("item not found")
	ErrStorage            = fmt.Errorf("local storage failure")
	ErrNetwork            = fmt.Errorf("network request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrStoreClosed        = fmt.Errorf("store closed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

// Error kinds reported by [ErrorKind].
const (
	KindNotFound    = "not_found"
	KindStorage     = "storage"
	KindNetwork     = "network"
	KindUnavailable = "unavailable"
	KindInvalid     = "invalid"
	KindCanceled    = "canceled"
	KindUnknown     = "unknown"
)

// ErrorKind classifies err into one of the Kind* constants.
//
// NotFound wins over the transport kind, so a 404 from the remote API reports "not_found".
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrServiceUnavailable):
		return KindUnavailable
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	case errors.Is(err, ErrStorage), errors.Is(err, ErrStoreClosed):
		return KindStorage
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrMissingArgument):
		return KindInvalid
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindUnknown
	}
}
