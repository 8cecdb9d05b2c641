// Package provider is the HTTP client for the remote content-management
// backend. It is deliberately dumb transport: no retries and no timeout
// layer beyond the injected http.Client's own; failure policy lives in the
// lifecycle package.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tendant/content-gateway/pkg/lifecycle"
)

const defaultTimeout = 30 * time.Second

// Client implements lifecycle.Provider over HTTP.
type Client struct {
	base   *url.URL
	client *http.Client
	apiKey string
	log    *slog.Logger
}

// Option represents a functional option for configuring the client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (and with it the
// transport timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithAPIKey sets the bearer token sent to the provider.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a provider client for the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse provider base URL: %w", err)
	}
	c := &Client{
		base:   base,
		client: &http.Client{Timeout: defaultTimeout},
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Search(ctx context.Context, body interface{}, headers http.Header) (*lifecycle.ProviderResponse, error) {
	return c.do(ctx, http.MethodPost, "/composite/v3/search", nil, body, headers)
}

func (c *Client) GetByID(ctx context.Context, id string, query url.Values, headers http.Header) (*lifecycle.ProviderResponse, error) {
	return c.do(ctx, http.MethodGet, "/content/v3/read/"+url.PathEscape(id), query, nil, headers)
}

func (c *Client) Create(ctx context.Context, body interface{}, headers http.Header) (*lifecycle.ProviderResponse, error) {
	return c.do(ctx, http.MethodPost, "/content/v3/create", nil, body, headers)
}

func (c *Client) Update(ctx context.Context, body interface{}, id string, headers http.Header) (*lifecycle.ProviderResponse, error) {
	return c.do(ctx, http.MethodPatch, "/content/v3/update/"+url.PathEscape(id), nil, body, headers)
}

func (c *Client) Review(ctx context.Context, body interface{}, id string, headers http.Header) (*lifecycle.ProviderResponse, error) {
	return c.do(ctx, http.MethodPost, "/content/v3/review/"+url.PathEscape(id), nil, body, headers)
}

func (c *Client) Publish(ctx context.Context, body interface{}, id string, headers http.Header) (*lifecycle.ProviderResponse, error) {
	return c.do(ctx, http.MethodPost, "/content/v3/publish/"+url.PathEscape(id), nil, body, headers)
}

func (c *Client) UnlistedPublish(ctx context.Context, body interface{}, id string, headers http.Header) (*lifecycle.ProviderResponse, error) {
	return c.do(ctx, http.MethodPost, "/content/v3/unlisted/publish/"+url.PathEscape(id), nil, body, headers)
}

func (c *Client) Reject(ctx context.Context, body interface{}, id string, headers http.Header) (*lifecycle.ProviderResponse, error) {
	return c.do(ctx, http.MethodPost, "/content/v3/reject/"+url.PathEscape(id), nil, body, headers)
}

func (c *Client) Retire(ctx context.Context, id string, headers http.Header) (*lifecycle.ProviderResponse, error) {
	return c.do(ctx, http.MethodDelete, "/content/v3/retire/"+url.PathEscape(id), nil, nil, headers)
}

func (c *Client) Copy(ctx context.Context, body interface{}, id string, headers http.Header) (*lifecycle.ProviderResponse, error) {
	return c.do(ctx, http.MethodPost, "/content/v3/copy/"+url.PathEscape(id), nil, body, headers)
}

func (c *Client) Flag(ctx context.Context, body interface{}, id string, headers http.Header) (*lifecycle.ProviderResponse, error) {
	return c.do(ctx, http.MethodPost, "/content/v3/flag/"+url.PathEscape(id), nil, body, headers)
}

func (c *Client) AcceptFlag(ctx context.Context, body interface{}, id string, headers http.Header) (*lifecycle.ProviderResponse, error) {
	return c.do(ctx, http.MethodPost, "/content/v3/flag/accept/"+url.PathEscape(id), nil, body, headers)
}

func (c *Client) RejectFlag(ctx context.Context, body interface{}, id string, headers http.Header) (*lifecycle.ProviderResponse, error) {
	return c.do(ctx, http.MethodPost, "/content/v3/flag/reject/"+url.PathEscape(id), nil, body, headers)
}

func (c *Client) GetFrameworkByID(ctx context.Context, id string, headers http.Header) (*lifecycle.ProviderResponse, error) {
	return c.do(ctx, http.MethodGet, "/framework/v3/read/"+url.PathEscape(id), nil, nil, headers)
}

func (c *Client) SystemUpdate(ctx context.Context, body interface{}, id string, headers http.Header) (*lifecycle.ProviderResponse, error) {
	return c.do(ctx, http.MethodPatch, "/system/v3/content/update/"+url.PathEscape(id), nil, body, headers)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, headers http.Header) (*lifecycle.ProviderResponse, error) {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal provider request: %w", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build provider request: %w", err)
	}
	copyForwardHeaders(req.Header, headers)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var envelope lifecycle.ProviderResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%s %s: decode response (status %d): %w", method, path, resp.StatusCode, err)
	}
	envelope.Status = resp.StatusCode
	c.log.Debug("provider call", "method", method, "path", path,
		"status", resp.StatusCode, "response_code", envelope.ResponseCode)
	return &envelope, nil
}

// Hop-by-hop and body-describing headers are managed per request; all
// other caller headers (identity, channel, trace ids) pass through.
var skipHeaders = map[string]struct{}{
	"Content-Type":      {},
	"Content-Length":    {},
	"Connection":        {},
	"Transfer-Encoding": {},
	"Accept-Encoding":   {},
	"Authorization":     {},
	"Host":              {},
}

func copyForwardHeaders(dst, src http.Header) {
	for name, values := range src {
		if _, skip := skipHeaders[http.CanonicalHeaderKey(name)]; skip {
			continue
		}
		for _, v := range values {
			dst.Add(name, v)
		}
	}
}
