// Package errs defines the error type returned by handlers and the JSON
// envelope every error response uses.
//
// All error bodies share one shape, {"detail": ...}, where detail is a
// message string or, for validation failures, a list of field errors.
package errs
