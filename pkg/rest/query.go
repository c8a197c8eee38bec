package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// Query performs the API call described by e against c and decodes a successful
// response body into T.
//
// A non-2xx response never produces a value: it is decoded as an
// *UnprocessableEntityError or a *BadRequestError, or reported as a *DecodeError
// when the body matches neither shape.
func Query[T any](ctx context.Context, c Client, e Endpoint) (T, error) {
	var zero T

	resp, err := do(ctx, c, e)
	if err != nil {
		return zero, err
	}

	var out T
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return zero, &DecodeError{Status: resp.StatusCode, Body: resp.Body, Err: err}
	}
	return out, nil
}

// Ignore is like Query for endpoints without a typed response: it only checks that
// the call succeeded and discards the body.
func Ignore(ctx context.Context, c Client, e Endpoint) error {
	_, err := do(ctx, c, e)
	return err
}

// do runs one request/response cycle and returns the response only when its
// status is 2xx.
func do(ctx context.Context, c Client, e Endpoint) (*Response, error) {
	if v, ok := e.(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, &ValidationError{Endpoint: e.Path(), Err: err}
		}
	}

	u, err := c.Endpoint(e.Path())
	if err != nil {
		return nil, err
	}

	if pe, ok := e.(ParameterizedEndpoint); ok {
		pe.Parameters().AddToURL(u)
	}

	req := &Request{
		Method: e.Method(),
		URL:    u,
		Header: make(http.Header),
	}

	if be, ok := e.(BodyEndpoint); ok {
		body, err := be.Body()
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", body.ContentType)
			req.Body = body.Data
		}
	}

	resp, err := c.Send(ctx, req)
	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		return nil, decodeServerError(resp)
	}
	return resp, nil
}

// serverError is the union of the error shapes the server reports.
type serverError struct {
	Code    *uint64        `json:"code"`
	Message *string        `json:"message"`
	Errors  *[]EntityError `json:"errors"`
}

var errUnknownErrorShape = errors.New("error body has no code or message")

func decodeServerError(resp *Response) error {
	var se serverError
	if err := json.Unmarshal(resp.Body, &se); err != nil {
		return &DecodeError{Status: resp.StatusCode, Body: resp.Body, Err: err}
	}
	if se.Code == nil || se.Message == nil {
		return &DecodeError{Status: resp.StatusCode, Body: resp.Body, Err: errUnknownErrorShape}
	}

	if se.Errors != nil {
		return &UnprocessableEntityError{
			Status:  resp.StatusCode,
			Code:    *se.Code,
			Message: *se.Message,
			Errors:  *se.Errors,
		}
	}
	return &BadRequestError{
		Status:  resp.StatusCode,
		Code:    *se.Code,
		Message: *se.Message,
	}
}
