package api

import (
	"errors"
	"fmt"
)

// StatusError is a non-success response from the remote API.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
}

// SchemaError means a response body did not match the expected shape.
type SchemaError struct {
	Path string
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("unexpected response from %s: %v", e.Path, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// TransportError wraps network failures; views surface it like a StatusError.
type TransportError struct {
	Path string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsAPIError reports whether err came from the remote API or the network path to it.
func IsAPIError(err error) bool {
	var se *StatusError
	var sc *SchemaError
	var te *TransportError
	return errors.As(err, &se) || errors.As(err, &sc) || errors.As(err, &te)
}
