// Package client talks to the products REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/floware/stockview/internal/product"
)

const (
	DefaultBaseURL = "http://localhost:9090/api"
	DefaultTimeout = 5 * time.Second
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
	Errors     product.ValidationErrors
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}

	return fmt.Sprintf("api error: %d %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an API 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client is a products API client.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. A nil client is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout. It is applied to a copy of the
// HTTP client, so a client passed through WithHTTPClient is left untouched.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

// New returns a client for the API rooted at baseURL ("http://host:port/api").
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}

	return c
}

// List returns the full product snapshot.
func (c *Client) List(ctx context.Context) ([]product.Product, error) {
	var products []product.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, fmt.Errorf("cannot list products: %w", err)
	}

	return products, nil
}

func (c *Client) Create(ctx context.Context, draft product.Draft) (product.Product, error) {
	var p product.Product
	if err := c.do(ctx, http.MethodPost, "/products", draft, &p); err != nil {
		return product.Product{}, fmt.Errorf("cannot create product: %w", err)
	}

	return p, nil
}

func (c *Client) Update(ctx context.Context, id int, draft product.Draft) (product.Product, error) {
	var p product.Product
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), draft, &p); err != nil {
		return product.Product{}, fmt.Errorf("cannot update product %d: %w", id, err)
	}

	return p, nil
}

func (c *Client) Delete(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil); err != nil {
		return fmt.Errorf("cannot delete product %d: %w", id, err)
	}

	return nil
}

// ToggleStock marks the product in stock (PUT .../instock) or out of stock
// (POST .../outofstock).
func (c *Client) ToggleStock(ctx context.Context, id int, inStock bool) error {
	method, path := http.MethodPost, fmt.Sprintf("/products/%d/outofstock", id)
	if inStock {
		method, path = http.MethodPut, fmt.Sprintf("/products/%d/instock", id)
	}

	if err := c.do(ctx, method, path, nil, nil); err != nil {
		return fmt.Errorf("cannot change stock of product %d: %w", id, err)
	}

	return nil
}

func (c *Client) Metrics(ctx context.Context) (product.Metrics, error) {
	var m product.Metrics
	if err := c.do(ctx, http.MethodGet, "/products/metrics", nil, &m); err != nil {
		return product.Metrics{}, fmt.Errorf("cannot get metrics: %w", err)
	}

	return m, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Message string                   `json:"message"`
		Errors  product.ValidationErrors `json:"errors"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err == nil {
		apiErr.Message = body.Message
		apiErr.Errors = body.Errors
	}

	return apiErr
}
