package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"
)

const (
	connectTimeout = 10 * time.Second
	requestTimeout = 30 * time.Second
)

// Response is the uniform outcome of a vendor call: the HTTP status and the
// raw body. Decode unmarshals the body into a vendor-specific shape.
type Response struct {
	StatusCode int
	Body       []byte
}

// Decode unmarshals the response body as JSON into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &MalformedResponseError{Err: err}
	}
	return nil
}

// Client executes single HTTP calls against vendor APIs. One attempt per
// call; retry policy is a caller concern.
type Client struct {
	http *http.Client
}

// NewClient creates a transport with a 10s connect timeout and a 30s overall
// request timeout.
func NewClient() *Client {
	return &Client{
		http: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
			},
		},
	}
}

// NewClientWithHTTP creates a transport around an existing http.Client (for
// tests).
func NewClientWithHTTP(h *http.Client) *Client {
	return &Client{http: h}
}

// Call performs one HTTP request. A nil payload sends no body; otherwise the
// payload is JSON-encoded without HTML escaping (vendor documents carry
// Vietnamese text and embedded markup). Network failures return a
// *TransportError, HTTP >= 400 a *RemoteRejectionError; otherwise the status
// and raw body are returned uniformly.
func (c *Client) Call(ctx context.Context, method, url string, headers map[string]string, payload any) (*Response, error) {
	var body io.Reader
	if payload != nil {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(payload); err != nil {
			return nil, &MalformedResponseError{Err: err}
		}
		body = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &RemoteRejectionError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}
