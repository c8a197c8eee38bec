package rest

import (
	"encoding/json"
	"fmt"
)

// ContentTypeJSON is the content type of JSON request bodies.
const ContentTypeJSON = "application/json"

// Endpoint describes a single REST API call without performing it.
//
// Path returns the path relative to the client's base URL, with any path parameters
// already substituted.
type Endpoint interface {
	Method() string
	Path() string
}

// ParameterizedEndpoint is implemented by endpoints that declare query parameters.
// Endpoints that don't implement it send no parameters of their own.
type ParameterizedEndpoint interface {
	Endpoint
	Parameters() *QueryParams
}

// BodyEndpoint is implemented by endpoints that send a request body.
// Endpoints that don't implement it send an empty payload.
type BodyEndpoint interface {
	Endpoint
	Body() (*Body, error)
}

// Validator is implemented by endpoints that can check their own fields. The
// dispatcher calls Validate before anything is sent.
type Validator interface {
	Validate() error
}

// Body is a serialized request payload together with its content type.
type Body struct {
	ContentType string
	Data        []byte
}

// JSONBody serializes v as an application/json request body.
func JSONBody(v any) (*Body, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return &Body{ContentType: ContentTypeJSON, Data: data}, nil
}
