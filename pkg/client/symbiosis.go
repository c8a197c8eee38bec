package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"symbiosis-swap/pkg/rest"
)

const (
	// DefaultBaseURL is the production Symbiosis cross-chain API.
	DefaultBaseURL = "https://api-v2.symbiosis.finance/crosschain/"
	// DefaultTimeout bounds a single request when no http.Client is supplied.
	DefaultTimeout = 30 * time.Second
	// PartnerIDParam is the query parameter carrying the partner id on every request.
	PartnerIDParam = "partnerId"
)

// Options configures a Symbiosis client. Zero values fall back to the defaults above.
type Options struct {
	BaseURL    string
	PartnerID  string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
}

// Symbiosis is the HTTP transport for the Symbiosis API. It implements rest.Client
// and is safe for concurrent use.
type Symbiosis struct {
	base      *url.URL
	partnerID string
	http      *http.Client
	log       logrus.FieldLogger
}

var _ rest.Client = (*Symbiosis)(nil)

// New creates a new Symbiosis API client
func New(opts Options) (*Symbiosis, error) {
	raw := opts.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", opts.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", opts.BaseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: missing host", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	return &Symbiosis{
		base:      base,
		partnerID: opts.PartnerID,
		http:      httpClient,
		log:       log.WithField("component", "symbiosis"),
	}, nil
}

// BaseURL returns the base every endpoint path is resolved against.
func (c *Symbiosis) BaseURL() string {
	return c.base.String()
}

// Endpoint resolves a relative endpoint path against the base URL.
func (c *Symbiosis) Endpoint(path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, &rest.URLResolutionError{Path: path, Err: err}
	}
	if ref.IsAbs() || ref.Host != "" {
		return nil, &rest.URLResolutionError{Path: path, Err: fmt.Errorf("endpoint path must be relative")}
	}
	return c.base.ResolveReference(ref), nil
}

// Send executes req with the partner id appended to its query.
func (c *Symbiosis) Send(ctx context.Context, req *rest.Request) (*rest.Response, error) {
	u := *req.URL
	if u.Query().Has(PartnerIDParam) {
		return nil, fmt.Errorf("%w: %s", rest.ErrReservedParameter, PartnerIDParam)
	}
	rest.AppendRawQuery(&u, url.QueryEscape(PartnerIDParam)+"="+url.QueryEscape(c.partnerID))

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, &rest.TransportError{Method: req.Method, URL: redact(&u), Err: err}
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Accept", rest.ContentTypeJSON)

	log := c.log.WithFields(logrus.Fields{
		"method": req.Method,
		"url":    redact(&u),
	})
	log.WithField("bytes", len(req.Body)).Debug("sending request")

	start := time.Now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		log.WithError(err).Debug("request failed")
		return nil, &rest.TransportError{Method: req.Method, URL: redact(&u), Err: err}
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		log.WithError(err).Debug("failed to read response body")
		return nil, &rest.TransportError{Method: req.Method, URL: redact(&u), Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	log.WithFields(logrus.Fields{
		"status":   httpResp.StatusCode,
		"bytes":    len(data),
		"duration": time.Since(start).Round(time.Millisecond),
	}).Debug("received response")

	return &rest.Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
	}, nil
}

// redact hides the partner id in URLs that end up in logs and errors.
func redact(u *url.URL) string {
	q := u.Query()
	if !q.Has(PartnerIDParam) {
		return u.String()
	}
	c := *u
	q.Set(PartnerIDParam, "***")
	c.RawQuery = q.Encode()
	return c.String()
}
