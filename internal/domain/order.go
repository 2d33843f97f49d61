package domain

import "time"

// OrderStatus is the lifecycle state of an order as reported by the backend.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// allowedTransitions captures the forward edges of the order lifecycle.
// The client never drives transitions other than cancellation, but it uses
// this map to sanity-check refreshed data and to decide what actions to offer.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Valid reports whether the status is one the client knows about.
func (s OrderStatus) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// OrderItem is a line of a placed order. Product details are denormalized at
// order time by the backend, so they stay stable even if the catalog changes.
type OrderItem struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id,omitempty"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// Subtotal returns the item total.
func (i OrderItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Order is a placed order owned by the current user. The backend is the
// source of truth; this struct is the client's normalized copy.
type Order struct {
	ID            string      `json:"id"`
	Status        OrderStatus `json:"status"`
	StatusDisplay string      `json:"status_display,omitempty"`
	Total         float64     `json:"total"`
	CreatedAt     time.Time   `json:"created_at"`
	Items         []OrderItem `json:"items"`
}

// CanCancel reports whether the order is still in a cancellable state.
// Only orders the backend has not yet shipped may be cancelled.
func (o Order) CanCancel() bool {
	return CanTransition(o.Status, OrderStatusCancelled)
}

// OrderStats is an aggregate view over a list of orders.
type OrderStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	InTransit int `json:"in_transit"`
	Delivered int `json:"delivered"`
}

// ComputeOrderStats derives aggregate counts from the given orders.
// InTransit covers orders that are being prepared or are on the way.
func ComputeOrderStats(orders []Order) OrderStats {
	stats := OrderStats{Total: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case OrderStatusPending:
			stats.Pending++
		case OrderStatusProcessing, OrderStatusShipped:
			stats.InTransit++
		case OrderStatusDelivered:
			stats.Delivered++
		}
	}
	return stats
}

// CancellationIntent tracks the two-phase cancellation flow. TargetOrderID is
// set while the confirmation dialog is open; SubmittedOrderID is set while a
// cancellation request is in flight. At most one of each exists at a time.
type CancellationIntent struct {
	TargetOrderID    string `json:"target_order_id,omitempty"`
	SubmittedOrderID string `json:"submitted_order_id,omitempty"`
}

// AwaitingConfirmation reports whether a confirmation dialog should be shown.
func (c CancellationIntent) AwaitingConfirmation() bool {
	return c.TargetOrderID != ""
}

// InFlight reports whether a cancellation request is currently running.
func (c CancellationIntent) InFlight() bool {
	return c.SubmittedOrderID != ""
}
