// Package fetch retrieves API documents over HTTP or from local files and
// decodes them into the ordered document model. Failures are reported as
// typed errors so callers can distinguish unreachable servers, non-2xx
// answers, and malformed bodies.
package fetch

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Dicklesworthstone/hal_browser/pkg/model"
)

const (
	defaultTimeout = 10 * time.Second
	// Bodies beyond this are truncated rather than read whole; a browsable
	// API document should never get anywhere near it.
	maxBodySize = 1024 * 1024 * 32 // 32MB
)

// Client fetches and decodes documents. The zero value is not usable;
// construct with NewClient.
type Client struct {
	http     *http.Client
	username string
	password string
	insecure bool
	timeout  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithCredentials attaches HTTP basic auth to every request. An empty
// username disables auth entirely.
func WithCredentials(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithInsecureTLS disables certificate verification, for servers with
// self-signed certificates.
func WithInsecureTLS(insecure bool) Option {
	return func(c *Client) {
		c.insecure = insecure
	}
}

// WithHTTPClient substitutes the underlying HTTP client wholesale. Mainly
// for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// NewClient builds a document client with the given options applied.
func NewClient(opts ...Option) *Client {
	c := &Client{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if c.insecure {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
		c.http = &http.Client{Timeout: c.timeout, Transport: transport}
	}
	return c
}

// Fetch retrieves the resource behind the URI and decodes it. http and
// https URIs go over the network; file URIs and bare paths are read from
// disk so an API snapshot can be browsed offline.
func (c *Client) Fetch(ctx context.Context, uri string) (model.Document, error) {
	u, err := url.Parse(uri)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			return c.fetchHTTP(ctx, uri)
		case "file":
			return c.fetchFile(uri, u.Path)
		case "":
			return c.fetchFile(uri, uri)
		}
	}
	return c.fetchHTTP(ctx, uri)
}

func (c *Client) fetchHTTP(ctx context.Context, uri string) (model.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return model.Document{}, &NetworkError{URI: uri, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Document{}, &NetworkError{URI: uri, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return model.Document{}, &HTTPStatusError{URI: uri, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return model.Document{}, &NetworkError{URI: uri, Err: err}
	}

	root, err := model.ParseValue(body)
	if err != nil {
		return model.Document{}, &DecodeError{URI: uri, Err: err}
	}

	// Redirects move the document; report where it actually came from so
	// relative links resolve against the right base.
	final := uri
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}
	return model.Document{URI: final, Root: root}, nil
}

func (c *Client) fetchFile(uri, path string) (model.Document, error) {
	path = strings.TrimPrefix(path, "file://")
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Document{}, &NetworkError{URI: uri, Err: err}
	}
	root, err := model.ParseValue(data)
	if err != nil {
		return model.Document{}, &DecodeError{URI: uri, Err: err}
	}
	return model.Document{URI: uri, Root: root}, nil
}
