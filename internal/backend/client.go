// Package backend is a client for the storefront REST backend that owns the
// catalog, the vehicle registry and order placement.
package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8081/api"

// UserIDHeader identifies the acting user on mutating and "me" requests.
const UserIDHeader = "X-User-Id"

// StatusError is a non-2xx backend response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend: status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend: status %d: %s", e.StatusCode, e.Message)
}

func isStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Client talks to the backend over HTTP.
type Client struct {
	base *url.URL
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// New creates a Client for baseURL, e.g. "http://localhost:8081/api".
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		base: u,
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type request struct {
	method string
	path   []string
	query  url.Values
	userID string
	body   []byte
}

// do sends req and hands a successful response body to decode, which may be
// nil when the body is not needed.
func (c *Client) do(ctx context.Context, req request, decode func(d *jx.Decoder) error) error {
	u := c.base.JoinPath(req.path...)
	u.RawQuery = req.query.Encode()

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}
	r, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	r.Header.Set("Accept", "application/json")
	if req.body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if req.userID != "" {
		r.Header.Set(UserIDHeader, req.userID)
	}

	resp, err := c.http.Do(r)
	if err != nil {
		return errors.Wrapf(err, "%s %s", req.method, u.Path)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}
	if decode == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := decode(jx.DecodeBytes(data)); err != nil {
		return errors.Wrapf(err, "decode %s %s", req.method, u.Path)
	}
	return nil
}

// errorMessage extracts the "message" field of an error body, if any.
func errorMessage(data []byte) string {
	var msg string
	d := jx.DecodeBytes(data)
	if d.Next() != jx.Object {
		return ""
	}
	_ = d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) == "message" && d.Next() == jx.String {
			s, err := d.Str()
			msg = s
			return err
		}
		return d.Skip()
	})
	return msg
}

// decodeText reads a string, number or null as text.
func decodeText(d *jx.Decoder) (string, error) {
	switch d.Next() {
	case jx.String:
		return d.Str()
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return "", err
		}
		return n.String(), nil
	case jx.Null:
		return "", d.Null()
	default:
		return "", d.Skip()
	}
}

func decodeInt(d *jx.Decoder) (int, error) {
	if d.Next() == jx.Null {
		return 0, d.Null()
	}
	return d.Int()
}

func decodeBool(d *jx.Decoder) (bool, error) {
	if d.Next() == jx.Null {
		return false, d.Null()
	}
	return d.Bool()
}
