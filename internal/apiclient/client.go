// Package apiclient implements the console's data sources against a remote
// coconsole REST API, so a console can run in front of another deployment.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

// maxBody caps how much of a response is read.
const maxBody = 4 << 20

// TokenFunc returns the bearer token to send for the operator in ctx. An
// empty token sends the request anonymously.
type TokenFunc func(ctx context.Context) (string, error)

// Client talks to one remote API root such as https://host/api/v1.
type Client struct {
	base   string
	http   *http.Client
	token  TokenFunc
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the bearer token source.
func WithToken(fn TokenFunc) Option {
	return func(c *Client) { c.token = fn }
}

// WithLogger sets the logger of failed calls.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a Client for baseURL. timeout bounds every request.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		base:   strings.TrimRight(baseURL, "/"),
		http:   &http.Client{Timeout: timeout},
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// envelope is the JSON body of every API response.
type envelope struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Details []string          `json:"details"`
	Errors  map[string]string `json:"errors"`
}

// StatusError is a non-2xx answer of the remote API.
type StatusError struct {
	Status  int
	Message string
	Details []string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote api: %d %s", e.Status, e.Message)
}

// do sends one request and decodes the data of the envelope into out. out
// may be nil when the data is not needed.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		tok, err := c.token(ctx)
		if err != nil {
			return fmt.Errorf("resolve token: %w", err)
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "remote api call failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			if resp.StatusCode >= 300 {
				return &StatusError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
			}
			return fmt.Errorf("decode response: %w", err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serr := &StatusError{Status: resp.StatusCode, Message: env.Message, Details: env.Details}
		if len(serr.Details) == 0 && len(env.Errors) > 0 {
			serr.Details = fieldDetails(env.Errors)
		}
		c.logger.DebugContext(ctx, "remote api rejected call", "method", method, "path", path, "status", resp.StatusCode)
		return serr
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// fieldDetails turns a validation error map into messages ordered by field.
func fieldDetails(errs map[string]string) []string {
	out := make([]string, 0, len(errs))
	for _, field := range slices.Sorted(maps.Keys(errs)) {
		out = append(out, field+": "+errs[field])
	}
	return out
}

func idPath(resource string, id uint) string {
	return resource + "/" + strconv.FormatUint(uint64(id), 10)
}

// asStatus unwraps a *StatusError.
func asStatus(err error) (*StatusError, bool) {
	var se *StatusError
	ok := errors.As(err, &se)
	return se, ok
}
