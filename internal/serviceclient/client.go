// Package serviceclient is the typed HTTP caller every downstream
// client (catalog, inventory, customer, client, geocoding) builds on
// top of. One Client per target service, each with its own pooled
// transport and timeout, mapping downstream status codes onto the
// shared errs taxonomy at a single point.
package serviceclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/errs"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/telemetry"
)

// Client calls a single downstream service over HTTP.
type Client struct {
	name       string
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for the named target, with its own connection
// pool and a per-request timeout.
func New(name, baseURL string, timeout time.Duration) *Client {
	transport := &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		name:    name,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Get sends a GET request and decodes a JSON response into out. out may
// be nil to discard the body (e.g. existence checks).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post sends a POST request with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Patch sends a PATCH request with a JSON body and decodes the response into out.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	start := time.Now()
	outcome := "ok"
	defer func() {
		telemetry.ServiceClientDuration.WithLabelValues(c.name, method, outcome).Observe(time.Since(start).Seconds())
	}()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			outcome = "error"
			return errs.Wrap(err, "marshalling request body")
		}
		reader = bytes.NewReader(raw)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		outcome = "error"
		return errs.Wrap(err, "building downstream request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		kind, msg := classifyTransportError(err, c.name)
		outcome = string(kind)
		return errs.New(kind, msg)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				outcome = "error"
				return errs.Wrap(err, fmt.Sprintf("decoding %s response", c.name))
			}
		}
		return nil
	}

	kind := classifyStatus(resp.StatusCode)
	outcome = string(kind)
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return errs.Newf(kind, "%s returned HTTP %d: %s", c.name, resp.StatusCode, string(raw))
}

// classifyStatus maps a downstream HTTP status to the shared error
// taxonomy (C1's error-kind mapping table).
func classifyStatus(status int) errs.Kind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return errs.ValidationRejected
	case http.StatusNotFound:
		return errs.NotFound
	case http.StatusConflict:
		return errs.Conflict
	default:
		return errs.RemoteError
	}
}

// classifyTransportError distinguishes a connect/DNS failure (Unreachable)
// from a request deadline (Timeout).
func classifyTransportError(err error, target string) (errs.Kind, string) {
	var netErr net.Error
	if ok := asNetError(err, &netErr); ok && netErr.Timeout() {
		return errs.Timeout, fmt.Sprintf("%s timed out", target)
	}
	return errs.Unreachable, fmt.Sprintf("%s unreachable: %v", target, err)
}

func asNetError(err error, target *net.Error) bool {
	for err != nil {
		if ne, ok := err.(net.Error); ok {
			*target = ne
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
