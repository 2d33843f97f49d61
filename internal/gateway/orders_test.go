package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/StorefrontGo/internal/domain"
	apperrors "github.com/utafrali/StorefrontGo/pkg/errors"
)

const ordersBody = `[
	{
		"id": 7,
		"status": "pending",
		"status_display": "Pending",
		"total": "64.90",
		"created_at": "2026-08-30T10:15:00.123456Z",
		"items": [
			{
				"id": 11,
				"product": 3,
				"product_name": "Espresso Cup",
				"product_price": "12.45",
				"product_image": "/media/products/cup.jpg",
				"quantity": 2
			}
		]
	},
	{
		"id": 5,
		"status": "delivered",
		"status_display": "Delivered",
		"total": "40.00",
		"created_at": "2026-08-01T08:00:00Z",
		"items": []
	}
]`

func TestListOrders_BareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/", r.URL.Path)
		assert.Equal(t, "Bearer access-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(ordersBody))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &fakeTokens{pair: TokenPair{Access: "access-token", Refresh: "r"}})

	orders, err := client.ListOrders(context.Background())

	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, "7", orders[0].ID, "newest order first")
	assert.Equal(t, domain.OrderStatusPending, orders[0].Status)
	assert.Equal(t, "Pending", orders[0].StatusDisplay)
	assert.InDelta(t, 64.90, orders[0].Total, 1e-9)

	require.Len(t, orders[0].Items, 1)
	item := orders[0].Items[0]
	assert.Equal(t, "Espresso Cup", item.ProductName)
	assert.Equal(t, 2, item.Quantity)
	assert.InDelta(t, 12.45, item.UnitPrice, 1e-9)
	assert.Equal(t, srv.URL+"/media/products/cup.jpg", item.ImageURL, "relative paths get the media base")

	assert.Equal(t, "5", orders[1].ID)
	assert.Empty(t, orders[1].Items)
}

func TestListOrders_PaginatedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count": 2, "next": null, "previous": null, "results": ` + ordersBody + `}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &fakeTokens{pair: TokenPair{Access: "a", Refresh: "r"}})

	orders, err := client.ListOrders(context.Background())

	require.NoError(t, err)
	assert.Len(t, orders, 2, "paginated and bare responses normalize identically")
}

func TestListOrders_ImageFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{
			"id": 1, "status": "pending", "total": "1.00",
			"created_at": "2026-08-30T10:00:00Z",
			"items": [
				{"id": 1, "product_name": "A", "product_price": "1.00", "quantity": 1,
				 "image": "/media/fallback.jpg"},
				{"id": 2, "product_name": "B", "product_price": "1.00", "quantity": 1,
				 "product_image": {"image": "/media/nested.jpg"}},
				{"id": 3, "product_name": "C", "product_price": "1.00", "quantity": 1}
			]
		}]`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &fakeTokens{pair: TokenPair{Access: "a"}})

	orders, err := client.ListOrders(context.Background())

	require.NoError(t, err)
	require.Len(t, orders[0].Items, 3)
	assert.Equal(t, srv.URL+"/media/fallback.jpg", orders[0].Items[0].ImageURL, "image field used when product_image absent")
	assert.Equal(t, srv.URL+"/media/nested.jpg", orders[0].Items[1].ImageURL, "object-shaped image reference unwrapped")
	assert.Empty(t, orders[0].Items[2].ImageURL, "no reference resolves to empty")
}

func TestListOrders_EmbeddedProductObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{
			"id": 1, "status": "pending", "total": "5.00",
			"created_at": "2026-08-30T10:00:00Z",
			"items": [
				{"id": 1, "product": {"id": 9, "primary_image": {"image": "/media/widget.jpg"}},
				 "product_name": "Widget", "product_price": "5.00", "quantity": 1},
				{"id": 2, "product": {"id": 10, "image": "/media/gadget.jpg"},
				 "product_name": "Gadget", "product_price": "3.00", "quantity": 1}
			]
		}]`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &fakeTokens{pair: TokenPair{Access: "a"}})

	orders, err := client.ListOrders(context.Background())

	require.NoError(t, err, "an object-shaped product must not sink the whole list")
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 2)

	widget := orders[0].Items[0]
	assert.Equal(t, "9", widget.ProductID)
	assert.Equal(t, srv.URL+"/media/widget.jpg", widget.ImageURL, "embedded product image is the last fallback")

	gadget := orders[0].Items[1]
	assert.Equal(t, "10", gadget.ProductID)
	assert.Equal(t, srv.URL+"/media/gadget.jpg", gadget.ImageURL)
}

func TestListOrders_UnrecognizedShapeReportsArrayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`42`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &fakeTokens{pair: TokenPair{Access: "a"}})

	_, err := client.ListOrders(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "[]gateway.wireOrder", "the list error names the real cause, not the envelope fallback")
}

func TestListOrders_UnknownStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 1, "status": "teleported", "total": "1.00", "created_at": "2026-08-30T10:00:00Z", "items": []}]`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &fakeTokens{pair: TokenPair{Access: "a"}})

	_, err := client.ListOrders(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown status")
}

func TestListOrders_NotSignedIn(t *testing.T) {
	client := newTestClient("http://127.0.0.1:0", &fakeTokens{})

	_, err := client.ListOrders(context.Background())

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestListOrders_RefreshRetryOn401(t *testing.T) {
	var listCalls, refreshCalls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/orders/":
			if listCalls.Add(1) == 1 {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail": "Given token not valid for any token type"}`))
				return
			}
			assert.Equal(t, "Bearer new-access", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`[]`))
		case "/api/accounts/token/refresh/":
			refreshCalls.Add(1)
			_, _ = w.Write([]byte(`{"access": "new-access"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	tokens := &fakeTokens{pair: TokenPair{Access: "stale-access", Refresh: "refresh-token"}}
	client := newTestClient(srv.URL, tokens)

	orders, err := client.ListOrders(context.Background())

	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Equal(t, int32(2), listCalls.Load(), "request replayed exactly once")
	assert.Equal(t, int32(1), refreshCalls.Load())

	pair, _ := tokens.snapshot()
	assert.Equal(t, "new-access", pair.Access, "refreshed access token persisted")
}

func TestListOrders_RejectedRefreshClearsTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "Token is blacklisted"}`))
	}))
	defer srv.Close()

	tokens := &fakeTokens{pair: TokenPair{Access: "stale", Refresh: "dead"}}
	client := newTestClient(srv.URL, tokens)

	_, err := client.ListOrders(context.Background())

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	pair, cleared := tokens.snapshot()
	assert.True(t, cleared, "unusable credentials dropped")
	assert.Empty(t, pair.Access)
}

func TestCancelOrder_Success(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders/42/cancel/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"detail": "Order cancelled"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &fakeTokens{pair: TokenPair{Access: "a"}})

	err := client.CancelOrder(context.Background(), "42")

	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCancelOrder_RefusalCarriesBackendDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "Cannot cancel order in shipped status"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, &fakeTokens{pair: TokenPair{Access: "a"}})

	err := client.CancelOrder(context.Background(), "42")

	require.Error(t, err)
	assert.Equal(t, "Cannot cancel order in shipped status",
		apperrors.UserMessage(err, "fallback"),
		"the backend's reason survives for display")
}
