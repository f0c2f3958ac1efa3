package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/novamart/storefront/internal/config"
	"github.com/novamart/storefront/internal/domain"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new order API client
func NewClient(cfg config.OrderAPIConfig, logger *zap.Logger) *Client {
	// Normalize base URL - remove trailing slashes
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// envelope is the common response wrapper of the order API.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
}

// GetOrders fetches the current user's orders. Any failure degrades to an
// empty list so list views never hard-fail; the failure is logged.
func (c *Client) GetOrders(ctx context.Context, userID string) []domain.Order {
	path := fmt.Sprintf("/api/v1/orders?userId=%s", url.QueryEscape(userID))

	var raw []backendOrder
	if err := c.get(ctx, path, &raw); err != nil {
		c.logger.Error("Failed to fetch orders", zap.String("user_id", userID), zap.Error(err))
		return []domain.Order{}
	}

	orders := make([]domain.Order, len(raw))
	for i, b := range raw {
		orders[i] = c.normalizeOrder(b)
	}
	return orders
}

// GetOrderByID fetches one order. A 404 is a valid absence and returns
// (nil, nil); any other failure returns a descriptive error.
func (c *Client) GetOrderByID(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	path := fmt.Sprintf("/api/v1/orders/%s?userId=%s", url.PathEscape(orderID), url.QueryEscape(userID))
	return c.getOrder(ctx, path)
}

// GetOrderByNumber has the same contract as GetOrderByID, keyed by the
// human-facing order number.
func (c *Client) GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	path := fmt.Sprintf("/api/v1/orders/number/%s", url.PathEscape(orderNumber))
	return c.getOrder(ctx, path)
}

func (c *Client) getOrder(ctx context.Context, path string) (*domain.Order, error) {
	var raw backendOrder
	err := c.get(ctx, path, &raw)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}
	order := c.normalizeOrder(raw)
	return &order, nil
}

// CreateOrder submits the checkout result to the order API. Any failure is
// propagated; no partial order is kept on the client.
func (c *Client) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	var raw backendOrder
	if err := c.do(ctx, http.MethodPost, "/api/v1/orders", req, &raw); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	order := c.normalizeOrder(raw)
	return &order, nil
}

// CancelOrder requests cancellation. On success the caller applies the
// optimistic CANCELLED patch pending the next full refetch.
func (c *Client) CancelOrder(ctx context.Context, orderID, reason string) (*domain.Order, error) {
	path := fmt.Sprintf("/api/v1/orders/%s/cancel", url.PathEscape(orderID))
	body := map[string]string{"reason": reason}

	var raw backendOrder
	if err := c.do(ctx, http.MethodPut, path, body, &raw); err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}
	order := c.normalizeOrder(raw)
	return &order, nil
}

// UpdateOrderStatus changes an order's status (admin/employee initiated).
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	path := fmt.Sprintf("/api/v1/orders/%s/status", url.PathEscape(orderID))
	body := map[string]domain.OrderStatus{"status": status}

	var raw backendOrder
	if err := c.do(ctx, http.MethodPut, path, body, &raw); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order := c.normalizeOrder(raw)
	return &order, nil
}

// GetOrderTracking fetches shipment tracking metadata for an order.
func (c *Client) GetOrderTracking(ctx context.Context, orderID string) (*domain.Tracking, error) {
	path := fmt.Sprintf("/api/v1/orders/%s/tracking", url.PathEscape(orderID))

	var raw backendTracking
	if err := c.get(ctx, path, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch order tracking: %w", err)
	}
	tracking := normalizeTracking(raw)
	return &tracking, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// do executes one request against the order API and unmarshals the envelope's
// data field into out.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: messageFromBody(respBody)}
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to unmarshal response data: %w", err)
		}
	}
	return nil
}

// messageFromBody extracts the backend's message field from an error body,
// if the body is a well-formed envelope.
func messageFromBody(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Message
}
