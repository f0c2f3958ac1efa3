package orderapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/novamart/storefront/internal/config"
	"github.com/novamart/storefront/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(config.OrderAPIConfig{BaseURL: srv.URL}, zap.NewNop())
	return client, srv
}

const orderJSON = `{
	"id": "ord-1",
	"userId": "user-1",
	"orderNumber": "ORD-1001",
	"status": "PENDING",
	"items": [
		{
			"id": "item-1",
			"productId": "p1",
			"product": {"id": "p1", "name": "Widget", "price": 19.99},
			"quantity": 2,
			"price": 19.99,
			"totalPrice": 39.98
		}
	],
	"subtotal": 39.98,
	"tax": 3.20,
	"shipping": 5.99,
	"discount": 0,
	"total": 49.17,
	"shippingAddress": {"street": "42 Elm Street", "city": "Springfield", "state": "IL", "zipCode": "62701", "country": "United States"},
	"paymentMethod": "card",
	"paymentStatus": "PAID",
	"createdAt": "2025-06-01T10:00:00Z",
	"updatedAt": "2025-06-01T10:00:00Z"
}`

func TestGetOrders_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/orders", r.URL.Path)
		assert.Equal(t, "user-1", r.URL.Query().Get("userId"))
		w.Write([]byte(`{"success": true, "data": [` + orderJSON + `]}`))
	})

	orders := client.GetOrders(context.Background(), "user-1")
	require.Len(t, orders, 1)
	assert.Equal(t, "ord-1", orders[0].ID)
	assert.Equal(t, domain.OrderStatusPending, orders[0].Status)
	assert.Equal(t, "Widget", orders[0].Items[0].Product.Name)
}

func TestGetOrders_FailureDegradesToEmptyList(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server_error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
		},
		{
			name: "malformed_body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, tt.handler)
			orders := client.GetOrders(context.Background(), "user-1")
			assert.NotNil(t, orders)
			assert.Empty(t, orders)
		})
	}
}

func TestGetOrders_NetworkFailureReturnsEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client := NewClient(config.OrderAPIConfig{BaseURL: srv.URL}, zap.NewNop())
	srv.Close() // connection refused from here on

	orders := client.GetOrders(context.Background(), "user-1")
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestGetOrderByID_NotFoundReturnsNil(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	order, err := client.GetOrderByID(context.Background(), "missing", "user-1")
	require.NoError(t, err)
	assert.Nil(t, order)
}

func TestGetOrderByID_ServerErrorPropagates(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	order, err := client.GetOrderByID(context.Background(), "ord-1", "user-1")
	assert.Error(t, err)
	assert.Nil(t, order)
}

func TestGetOrderByID_Unauthorized(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.GetOrderByID(context.Background(), "ord-1", "user-1")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGetOrderByNumber(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/orders/number/ORD-1001", r.URL.Path)
		w.Write([]byte(`{"success": true, "data": ` + orderJSON + `}`))
	})

	order, err := client.GetOrderByNumber(context.Background(), "ORD-1001")
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, "ORD-1001", order.OrderNumber)
}

func TestCreateOrder_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/orders", r.URL.Path)
		w.Write([]byte(`{"success": true, "data": ` + orderJSON + `}`))
	})

	order, err := client.CreateOrder(context.Background(), domain.CreateOrderRequest{
		Items:           []domain.CreateOrderRequestItem{{ProductID: "p1", Quantity: 2}},
		ShippingAddress: domain.Address{Street: "42 Elm Street", City: "Springfield", State: "IL", ZipCode: "62701", Country: "United States"},
		PaymentMethod:   "card",
	})
	require.NoError(t, err)
	assert.Equal(t, "ord-1", order.ID)
}

func TestCreateOrder_FailureUsesBackendMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success": false, "message": "product p1 is out of stock"}`))
	})

	_, err := client.CreateOrder(context.Background(), domain.CreateOrderRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product p1 is out of stock")
}

func TestCreateOrder_EnvelopeFailure(t *testing.T) {
	// A 200 with success=false is still a failure.
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "message": "cart expired"}`))
	})

	_, err := client.CreateOrder(context.Background(), domain.CreateOrderRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cart expired")
}

func TestCancelOrder(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/orders/ord-1/cancel", r.URL.Path)
		w.Write([]byte(`{"success": true, "data": ` + orderJSON + `}`))
	})

	order, err := client.CancelOrder(context.Background(), "ord-1", "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, "ord-1", order.ID)
}

func TestUpdateOrderStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/orders/ord-1/status", r.URL.Path)
		w.Write([]byte(`{"success": true, "data": ` + orderJSON + `}`))
	})

	_, err := client.UpdateOrderStatus(context.Background(), "ord-1", domain.OrderStatusConfirmed)
	require.NoError(t, err)
}

func TestGetOrderTracking(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/orders/ord-1/tracking", r.URL.Path)
		w.Write([]byte(`{"success": true, "data": {"trackingNumber": "TRK-9", "status": "in_transit"}}`))
	})

	tracking, err := client.GetOrderTracking(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, "TRK-9", tracking.TrackingNumber)
	assert.Equal(t, "in_transit", tracking.Status)
}

func TestGetOrderTracking_FailurePropagates(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetOrderTracking(context.Background(), "ord-1")
	assert.Error(t, err)
}

func TestNormalize_MissingProductAndAddress(t *testing.T) {
	// Missing nested objects default instead of failing the whole order.
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": {
			"id": "ord-2",
			"userId": "user-1",
			"orderNumber": "ORD-1002",
			"status": "PENDING",
			"items": [{"id": "item-1", "productId": "p1", "quantity": 1, "price": 12.50, "totalPrice": 12.50}],
			"subtotal": 12.50,
			"tax": 1.00,
			"shipping": 5.99,
			"discount": 0,
			"total": 19.49,
			"paymentMethod": "card",
			"paymentStatus": "PENDING",
			"createdAt": "2025-06-01T10:00:00Z",
			"updatedAt": "2025-06-01T10:00:00Z"
		}}`))
	})

	order, err := client.GetOrderByID(context.Background(), "ord-2", "user-1")
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, "p1", order.Items[0].Product.ID)
	assert.Equal(t, 12.50, order.Items[0].Product.Price)
	assert.Equal(t, domain.Address{}, order.ShippingAddress)
	assert.Equal(t, domain.Address{}, order.BillingAddress)
}

func TestNormalize_TotalMismatchIsNotAnError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": {
			"id": "ord-3",
			"userId": "user-1",
			"orderNumber": "ORD-1003",
			"status": "PENDING",
			"items": [],
			"subtotal": 10,
			"tax": 1,
			"shipping": 5.99,
			"discount": 0,
			"total": 99,
			"paymentStatus": "PENDING",
			"createdAt": "2025-06-01T10:00:00Z",
			"updatedAt": "2025-06-01T10:00:00Z"
		}}`))
	})

	order, err := client.GetOrderByID(context.Background(), "ord-3", "user-1")
	require.NoError(t, err)
	require.NotNil(t, order)
	// The server stays authoritative for the total.
	assert.Equal(t, 99.0, order.Total)
}

func TestAPIError_Message(t *testing.T) {
	withMessage := &APIError{StatusCode: 400, Message: "bad request body"}
	assert.Equal(t, "bad request body", withMessage.Error())

	withoutMessage := &APIError{StatusCode: 500}
	assert.Contains(t, withoutMessage.Error(), "500")

	var target *APIError
	assert.True(t, errors.As(error(withMessage), &target))
}
