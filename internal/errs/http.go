package errs

import "net/http"

// NewNotFoundError creates a 404 with a plain message detail.
func NewNotFoundError(message string) *HTTPError {
	return &HTTPError{Status: http.StatusNotFound, Detail: message}
}

// NewValidationError creates a 422 listing every field that failed.
func NewValidationError(fields ...FieldError) *HTTPError {
	return &HTTPError{Status: http.StatusUnprocessableEntity, Detail: fields}
}

// NewServiceUnavailableError creates a 503 with a plain message detail.
func NewServiceUnavailableError(message string, cause error) *HTTPError {
	return &HTTPError{Status: http.StatusServiceUnavailable, Detail: message, Err: cause}
}

// NewInternalServerError creates a 500. The client only sees the generic
// status text; cause is kept for the log.
func NewInternalServerError(cause error) *HTTPError {
	return &HTTPError{
		Status: http.StatusInternalServerError,
		Detail: http.StatusText(http.StatusInternalServerError),
		Err:    cause,
	}
}

// FromStatus creates an error whose detail is the standard status text.
func FromStatus(status int) *HTTPError {
	return &HTTPError{Status: status, Detail: http.StatusText(status)}
}

// Missing reports a required field that was absent or null.
func Missing(loc ...string) FieldError {
	return FieldError{Loc: loc, Msg: "field required", Type: "value_error.missing"}
}

// WrongType reports a value of the wrong JSON type. kind is the expected
// type name as clients know it ("str", "integer", "dict").
func WrongType(kind string, loc ...string) FieldError {
	msg := kind + " type expected"
	switch kind {
	case "integer":
		msg = "value is not a valid integer"
	case "dict":
		msg = "value is not a valid dict"
	}
	return FieldError{Loc: loc, Msg: msg, Type: "type_error." + kind}
}

// InvalidJSON reports a request body that could not be decoded.
func InvalidJSON(reason string) FieldError {
	return FieldError{Loc: []string{"body"}, Msg: reason, Type: "value_error.jsondecode"}
}
