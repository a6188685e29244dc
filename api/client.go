// Package api is the typed client for the billing REST backend. Every
// endpoint returns the uniform envelope {success, message, data, errors}.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Envelope wraps every response body.
type Envelope[T any] struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    T                   `json:"data"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Client talks to one backend. The zero value is not usable; use New.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New returns a client for baseURL, e.g. "http://localhost:5000/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithToken returns a copy of c that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// call performs one request and returns the envelope's data.
func call[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return zero, &Error{Kind: KindDecode, Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return zero, &Error{Kind: KindTransport, Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, &Error{Kind: KindTransport, Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, &Error{Kind: KindTransport, Op: op, Status: resp.StatusCode, Err: err}
	}

	var env Envelope[T]
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode == http.StatusUnauthorized {
		return zero, &Error{Kind: KindUnauthorized, Op: op, Status: resp.StatusCode, Message: env.Message}
	}
	if resp.StatusCode >= 400 {
		if decodeErr != nil || (env.Message == "" && len(env.Errors) == 0) {
			return zero, &Error{Kind: KindTransport, Op: op, Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
		}
		return zero, &Error{Kind: KindBusiness, Op: op, Status: resp.StatusCode, Message: env.Message, Fields: env.Errors}
	}
	if decodeErr != nil {
		return zero, &Error{Kind: KindDecode, Op: op, Status: resp.StatusCode, Err: decodeErr}
	}
	if !env.Success {
		return zero, &Error{Kind: KindBusiness, Op: op, Status: resp.StatusCode, Message: env.Message, Fields: env.Errors}
	}
	return env.Data, nil
}

// Empty stands in for endpoints whose data carries nothing useful.
type Empty struct{}

func (*Empty) UnmarshalJSON([]byte) error { return nil }
