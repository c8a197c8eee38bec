// Package rest describes REST endpoints independently of the transport that calls them
// and dispatches them to typed results.
package rest

import (
	"context"
	"net/http"
	"net/url"
)

// Client is a transport that can talk to a REST API.
//
// Implementations own the base URL and any credentials. They must be safe for
// concurrent use by multiple goroutines.
type Client interface {
	// Endpoint resolves a relative endpoint path against the base URL.
	// It returns a *URLResolutionError when the path cannot be joined.
	Endpoint(path string) (*url.URL, error)

	// Send executes a single request. A non-2xx status is not an error here;
	// only failures below HTTP are, reported as *TransportError.
	Send(ctx context.Context, req *Request) (*Response, error)
}

// Request is a raw outgoing request built by the dispatcher.
type Request struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   []byte
}

// Response is a raw response as returned by a Client.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsSuccess reports whether the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
