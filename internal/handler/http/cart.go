package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/StorefrontGo/internal/cart"
	"github.com/utafrali/StorefrontGo/internal/domain"
	"github.com/utafrali/StorefrontGo/pkg/httputil"
	"github.com/utafrali/StorefrontGo/pkg/validator"
)

// CartHandler exposes the cart store.
type CartHandler struct {
	store  *cart.Store
	logger *slog.Logger
}

// NewCartHandler creates a cart HTTP handler.
func NewCartHandler(store *cart.Store, logger *slog.Logger) *CartHandler {
	return &CartHandler{store: store, logger: logger}
}

// AddItemRequest is the JSON request body for adding a line to the cart.
type AddItemRequest struct {
	ProductID  string  `json:"product_id" validate:"required"`
	VariantKey string  `json:"variant_key"`
	Name       string  `json:"name" validate:"required,min=1,max=500"`
	Slug       string  `json:"slug"`
	UnitPrice  float64 `json:"unit_price" validate:"gte=0"`
	Quantity   int     `json:"quantity" validate:"required,gte=1"`
	ImageURL   string  `json:"image_url"`
}

// UpdateQuantityRequest is the JSON request body for changing a line's
// quantity. Zero removes the line.
type UpdateQuantityRequest struct {
	VariantKey string `json:"variant_key"`
	Quantity   int    `json:"quantity" validate:"gte=0"`
}

// GetCart handles GET /api/v1/cart.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.store.Snapshot()})
}

// AddItem handles POST /api/v1/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	updated, err := h.store.AddItem(r.Context(), domain.CartLine{
		ProductID:  req.ProductID,
		VariantKey: req.VariantKey,
		Name:       req.Name,
		Slug:       req.Slug,
		UnitPrice:  req.UnitPrice,
		Quantity:   req.Quantity,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: updated})
}

// UpdateQuantity handles PUT /api/v1/cart/items/{productID}.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	updated, err := h.store.UpdateQuantity(r.Context(), productID, req.VariantKey, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: updated})
}

// RemoveItem handles DELETE /api/v1/cart/items/{productID}?variant=...
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	variantKey := r.URL.Query().Get("variant")

	updated := h.store.RemoveItem(r.Context(), productID, variantKey)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: updated})
}

// ClearCart handles DELETE /api/v1/cart.
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	updated := h.store.Clear(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: updated})
}

// OpenDrawer handles POST /api/v1/cart/open.
func (h *CartHandler) OpenDrawer(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.store.Open()})
}

// CloseDrawer handles POST /api/v1/cart/close.
func (h *CartHandler) CloseDrawer(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.store.Close()})
}

// ToggleDrawer handles POST /api/v1/cart/toggle.
func (h *CartHandler) ToggleDrawer(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.store.Toggle()})
}
