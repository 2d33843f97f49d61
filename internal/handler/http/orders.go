package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/StorefrontGo/internal/orders"
	"github.com/utafrali/StorefrontGo/pkg/httputil"
)

// OrdersHandler exposes the order lifecycle manager.
type OrdersHandler struct {
	manager *orders.Manager
	logger  *slog.Logger
}

// NewOrdersHandler creates an orders HTTP handler.
func NewOrdersHandler(manager *orders.Manager, logger *slog.Logger) *OrdersHandler {
	return &OrdersHandler{manager: manager, logger: logger}
}

// List handles GET /api/v1/orders. The first call loads the history; later
// calls serve the cached view.
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	view := h.manager.EnsureLoaded(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// Refresh handles POST /api/v1/orders/refresh.
func (h *OrdersHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	view := h.manager.Refresh(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// RequestCancellation handles POST /api/v1/orders/{orderID}/cancellation.
func (h *OrdersHandler) RequestCancellation(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	view, err := h.manager.RequestCancellation(orderID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// ConfirmCancellation handles POST /api/v1/orders/cancellation/confirm.
func (h *OrdersHandler) ConfirmCancellation(w http.ResponseWriter, r *http.Request) {
	view, err := h.manager.ConfirmCancellation(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// DismissCancellation handles DELETE /api/v1/orders/cancellation.
func (h *OrdersHandler) DismissCancellation(w http.ResponseWriter, r *http.Request) {
	view, err := h.manager.DismissCancellation()
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}
