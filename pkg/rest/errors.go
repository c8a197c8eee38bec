package rest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrReservedParameter is returned when an endpoint declares a query parameter whose
// name the transport reserves for its credential.
var ErrReservedParameter = errors.New("query parameter name is reserved by the client")

// ValidationError means an endpoint rejected its own fields before the request was built.
type ValidationError struct {
	Endpoint string
	Err      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s request: %v", e.Endpoint, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// URLResolutionError means an endpoint path could not be joined to the base URL.
type URLResolutionError struct {
	Path string
	Err  error
}

func (e *URLResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve endpoint %q: %v", e.Path, e.Err)
}

func (e *URLResolutionError) Unwrap() error { return e.Err }

// TransportError is a network failure below the HTTP layer.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: request failed: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means a response body matched neither the expected result type nor,
// for a failed request, the server error shapes.
type DecodeError struct {
	Status int
	Body   []byte
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response (status %d): %v", e.Status, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EntityError is a single invalid field reported by the server.
type EntityError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// UnprocessableEntityError is returned when the server cannot process the request
// because of the caller's input, e.g. an unsupported field value.
type UnprocessableEntityError struct {
	Status  int           `json:"-"`
	Code    uint64        `json:"code"`
	Message string        `json:"message"`
	Errors  []EntityError `json:"errors"`
}

func (e *UnprocessableEntityError) Error() string {
	if len(e.Errors) == 0 {
		return e.Message
	}
	fields := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		fields = append(fields, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(fields, "; "))
}

// BadRequestError is returned when the server cannot satisfy the request,
// e.g. insufficient liquidity.
type BadRequestError struct {
	Status  int    `json:"-"`
	Code    uint64 `json:"code"`
	Message string `json:"message"`
}

func (e *BadRequestError) Error() string {
	return e.Message
}
