package errs

import "fmt"

// FieldError locates one validation problem. Loc is the path to the
// offending value starting with its source ("body", "path").
//
//	{"loc": ["body", "name"], "msg": "field required", "type": "value_error.missing"}
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// Body is the serialized form of every error response.
type Body struct {
	Detail any `json:"detail"`
}

// HTTPError is an error that knows the response it should produce.
// Err keeps the underlying cause for logging and is never serialized.
type HTTPError struct {
	Status int
	Detail any
	Err    error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %v: %v", e.Status, e.Detail, e.Err)
	}
	return fmt.Sprintf("%d %v", e.Status, e.Detail)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// Body returns the JSON payload for the response.
func (e *HTTPError) Body() Body {
	return Body{Detail: e.Detail}
}

// WithCause returns a copy of e carrying err as its cause.
func (e *HTTPError) WithCause(err error) *HTTPError {
	return &HTTPError{Status: e.Status, Detail: e.Detail, Err: err}
}
