// Package client is the HTTP client for a running skautis-gate server,
// used by the CLI commands and usable by content-platform plugins that
// call the gate remotely.
package client

import (
	"net/http"
	"strings"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// urlBuilder assembles request URLs from route templates.
type urlBuilder struct {
	base string
	path string
}

func (c *Client) url() *urlBuilder {
	return &urlBuilder{base: c.baseURL}
}

func (u *urlBuilder) setPath(path string) *urlBuilder {
	u.path = path
	return u
}

// setPathParam substitutes a "{name}" segment in the route template.
func (u *urlBuilder) setPathParam(name, value string) *urlBuilder {
	u.path = strings.ReplaceAll(u.path, "{"+name+"}", value)
	return u
}

func (u *urlBuilder) build() string {
	return u.base + u.path
}
