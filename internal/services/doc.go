// Package services defines the [Service] interface for remote character providers and implements it for the Marvel public API.
//
// # Marvel Implementation
//
// [MarvelService] signs every request with the server-side scheme the API requires:
// ts, apikey and hash = md5(ts + privateKey + publicKey). Requests are paced by a [rate.Limiter]
// configured from requests_per_second, and the HTTP client timeout comes from timeout_seconds.
//
// # Error Handling
//
// Services use sentinel errors from the shared package:
//   - [shared.ErrNetwork] : transport failure or non-2xx response
//   - [shared.ErrNotFound] : additionally matched when the API answered 404
//   - [shared.ErrMissingCredentials] : keys missing, or rejected by the API (401/403/409)
//   - [shared.ErrServiceUnavailable] : rate limited or down (429/503)
//
// # API Mappings
//
// Results map to [models.MarvelCharacter]: the numeric id becomes the id string, the thumbnail URL is
// path + "." + extension over https, and the "image_not_available" placeholder maps to no thumbnail.
package services
