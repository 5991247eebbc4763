// Package backend provides the HTTP client for the store REST API.
// It fetches the orders, customers, products, and payments collections and
// exposes the two order mutations the bot needs. Every call is a single
// attempt bounded by the configured timeout: the backend lives next to this
// service, so a failed call becomes a user-facing failure reply immediately
// rather than being retried.
package backend

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

	domerrors "github.com/mercabot/mercabot-go/internal/errors"
	"github.com/mercabot/mercabot-go/internal/metrics"
)

// Client is the store backend client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *metrics.Metrics
}

// NewClient creates a backend client for the given base URL
// (e.g. http://localhost:3000/api).
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL: baseURL,
	}
}

// WithMetrics enables request instrumentation. Returns the client for
// chaining at construction time; not safe to call once requests are in
// flight.
func (c *Client) WithMetrics(m *metrics.Metrics) *Client {
	c.metrics = m
	return c
}

// Ping checks that the backend is reachable. Any HTTP response counts as
// reachable; only transport failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domerrors.NewBackendError(c.baseURL, 0, err)
	}
	_ = resp.Body.Close()
	return nil
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Orders fetches all orders.
func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.getJSON(ctx, "/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Order fetches a single order by id.
func (c *Client) Order(ctx context.Context, id string) (*Order, error) {
	var order Order
	if err := c.getJSON(ctx, "/orders/"+id, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// OrdersByCustomer fetches the orders belonging to a customer.
// The backend accepts a customer id; the original bot also passed phone
// numbers here, which the API resolves the same way.
func (c *Client) OrdersByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	var orders []Order
	if err := c.getJSON(ctx, "/orders/customer/"+customerID, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Customers fetches all customers.
func (c *Client) Customers(ctx context.Context) ([]Customer, error) {
	var customers []Customer
	if err := c.getJSON(ctx, "/customers", &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// Customer fetches a single customer by id.
func (c *Client) Customer(ctx context.Context, id string) (*Customer, error) {
	var customer Customer
	if err := c.getJSON(ctx, "/customers/"+id, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// Products fetches all products.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.getJSON(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Payments fetches all payments.
func (c *Client) Payments(ctx context.Context) ([]Payment, error) {
	var payments []Payment
	if err := c.getJSON(ctx, "/payments", &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// CancelOrder cancels an order. The result is success/failure only;
// the backend owns the state transition rules (a delivered order
// cannot be cancelled, surfacing here as a 400).
func (c *Client) CancelOrder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/orders/"+id+"/cancel", nil, nil)
}

// UpdateOrderStatus sets a new status on an order.
func (c *Client) UpdateOrderStatus(ctx context.Context, id, status string) error {
	body := map[string]string{"status": status}
	return c.do(ctx, http.MethodPatch, "/orders/"+id+"/status", body, nil)
}

// getJSON performs a GET request and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// do performs a single HTTP request against the backend. Non-2xx statuses
// and transport failures are returned as *errors.BackendError; a 404
// additionally matches errors.ErrNotFound.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	url := c.baseURL + path

	start := time.Now()
	err := c.doOnce(ctx, method, url, body, out)
	c.record(path, err, time.Since(start))
	return err
}

func (c *Client) doOnce(ctx context.Context, method, url string, body, out any) error {

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domerrors.NewBackendError(url, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

		if resp.StatusCode == http.StatusNotFound {
			return domerrors.NewBackendError(url, resp.StatusCode, domerrors.ErrNotFound)
		}
		return domerrors.NewBackendError(url, resp.StatusCode,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domerrors.NewBackendError(url, resp.StatusCode,
			fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// record updates the backend request metrics. The collection label is the
// first path segment (orders, customers, products, payments).
func (c *Client) record(path string, err error, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}

	collection, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")

	status := "success"
	switch {
	case err == nil:
	case errors.Is(err, domerrors.ErrNotFound):
		status = "not_found"
	default:
		status = "error"
		if errors.Is(err, context.DeadlineExceeded) {
			c.metrics.RecordHTTPError("timeout", "backend")
		} else {
			c.metrics.RecordHTTPError("request_failed", "backend")
		}
	}

	c.metrics.RecordBackendRequest(collection, status, elapsed.Seconds())
}
