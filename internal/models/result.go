package models

import "fmt"

// Result is the outcome of a data-layer operation: a Success carrying a value or an Error carrying a cause.
//
// The zero value is not meaningful; build one with [Success] or [Error].
type Result[T any] struct {
	value T
	err   error
}

// Success wraps v as a successful outcome.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Error wraps cause as a failed outcome. A nil cause is a programming error.
func Error[T any](cause error) Result[T] {
	if cause == nil {
		panic("models: Error called with nil cause")
	}
	return Result[T]{err: cause}
}

// Succeeded reports whether r is the Success variant.
func (r Result[T]) Succeeded() bool {
	return r.err == nil
}

// Value returns the payload of a Success. Calling it on an Error panics.
func (r Result[T]) Value() T {
	if r.err != nil {
		panic(fmt.Sprintf("models: Value called on Error result: %v", r.err))
	}
	return r.value
}

// Err returns the cause of an Error, or nil for a Success.
func (r Result[T]) Err() error {
	return r.err
}

// Unwrap returns the payload and cause in the usual Go (value, error) shape.
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.err
}

// String implements [fmt.Stringer].
func (r Result[T]) String() string {
	if r.err != nil {
		return fmt.Sprintf("Error(%v)", r.err)
	}
	return fmt.Sprintf("Success(%v)", r.value)
}

// FromPair builds a Result from a (value, error) pair.
func FromPair[T any](v T, err error) Result[T] {
	if err != nil {
		return Error[T](err)
	}
	return Success(v)
}
