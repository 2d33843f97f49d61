package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/utafrali/StorefrontGo/internal/domain"
)

// wireImage accepts the backend's image field in either shape: a plain path
// string, or an object carrying the path under "image" or "url".
type wireImage string

func (w *wireImage) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*w = wireImage(s)
		return nil
	}

	var obj struct {
		Image string `json:"image"`
		URL   string `json:"url"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		if obj.Image != "" {
			*w = wireImage(obj.Image)
		} else {
			*w = wireImage(obj.URL)
		}
		return nil
	}

	// Unrecognized shape (null, array). Treat as absent rather than failing
	// the whole list.
	*w = ""
	return nil
}

// wireProduct accepts the backend's product reference in either shape: a bare
// numeric id, or an embedded product object carrying its own image.
type wireProduct struct {
	ID    json.Number
	Image wireImage
}

func (p *wireProduct) UnmarshalJSON(data []byte) error {
	var id json.Number
	if err := json.Unmarshal(data, &id); err == nil {
		p.ID = id
		return nil
	}

	var obj struct {
		ID           json.Number `json:"id"`
		PrimaryImage wireImage   `json:"primary_image"`
		Image        wireImage   `json:"image"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		p.ID = obj.ID
		p.Image = obj.PrimaryImage
		if p.Image == "" {
			p.Image = obj.Image
		}
		return nil
	}

	// Unrecognized shape. Treat as absent rather than failing the whole list.
	*p = wireProduct{}
	return nil
}

// wireOrderItem mirrors the backend's order item serializer. Prices arrive as
// decimal strings, IDs as integers; json.Number absorbs both.
type wireOrderItem struct {
	ID           json.Number `json:"id"`
	Product      wireProduct `json:"product"`
	ProductName  string      `json:"product_name"`
	ProductPrice json.Number `json:"product_price"`
	ProductImage wireImage   `json:"product_image"`
	Image        wireImage   `json:"image"`
	Quantity     int         `json:"quantity"`
}

type wireOrder struct {
	ID            json.Number     `json:"id"`
	Status        string          `json:"status"`
	StatusDisplay string          `json:"status_display"`
	Total         json.Number     `json:"total"`
	CreatedAt     string          `json:"created_at"`
	Items         []wireOrderItem `json:"items"`
}

// itemImage picks the first usable image reference for an order item:
// the denormalized product_image, then the item's own image, then the
// embedded product's image.
func (i wireOrderItem) itemImage() string {
	if i.ProductImage != "" {
		return string(i.ProductImage)
	}
	if i.Image != "" {
		return string(i.Image)
	}
	return string(i.Product.Image)
}

func (c *Client) normalizeOrder(w wireOrder) (domain.Order, error) {
	status := domain.OrderStatus(w.Status)
	if !status.Valid() {
		return domain.Order{}, fmt.Errorf("order %s has unknown status %q", w.ID.String(), w.Status)
	}

	createdAt, err := time.Parse(time.RFC3339, w.CreatedAt)
	if err != nil {
		return domain.Order{}, fmt.Errorf("order %s has unparseable created_at %q: %w", w.ID.String(), w.CreatedAt, err)
	}

	order := domain.Order{
		ID:            w.ID.String(),
		Status:        status,
		StatusDisplay: w.StatusDisplay,
		Total:         numberToFloat(w.Total),
		CreatedAt:     createdAt,
		Items:         make([]domain.OrderItem, 0, len(w.Items)),
	}

	for _, item := range w.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:          item.ID.String(),
			ProductID:   item.Product.ID.String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   numberToFloat(item.ProductPrice),
			ImageURL:    c.images.Resolve(item.itemImage()),
		})
	}

	return order, nil
}

// ListOrders fetches the current user's orders. The backend returns either a
// bare JSON array or a paginated {"results": [...]} envelope depending on
// configuration; both are accepted. Orders come back newest first.
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	resp, err := c.do(ctx, http.MethodGet, "/orders/", nil, true)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := decodeJSON(resp, "list orders", &raw); err != nil {
		return nil, err
	}

	var wireOrders []wireOrder
	if arrayErr := json.Unmarshal(raw, &wireOrders); arrayErr != nil {
		var envelope struct {
			Results []wireOrder `json:"results"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			// The array error names the real problem; the envelope attempt
			// was only a fallback.
			return nil, fmt.Errorf("unrecognized orders response shape: %w", arrayErr)
		}
		wireOrders = envelope.Results
	}

	orders := make([]domain.Order, 0, len(wireOrders))
	for _, w := range wireOrders {
		order, err := c.normalizeOrder(w)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return orders, nil
}

// CancelOrder asks the backend to cancel the order. The backend enforces the
// lifecycle rules; on refusal the returned error carries the backend's reason
// for display.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	path := "/orders/" + orderID + "/cancel/"

	resp, err := c.do(ctx, http.MethodPost, path, nil, true)
	if err != nil {
		return err
	}
	return decodeJSON(resp, "cancel order", nil)
}

func numberToFloat(n json.Number) float64 {
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return 0
	}
	return f
}
