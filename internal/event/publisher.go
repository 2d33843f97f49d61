// Package event publishes storefront activity to Kafka. Publishing is fire
// and forget: the async producer never blocks a store mutation, and failures
// are logged rather than surfaced to the user.
package event

import (
	"context"
	"log/slog"

	"github.com/utafrali/StorefrontGo/internal/domain"
	"github.com/utafrali/StorefrontGo/pkg/kafka"
)

// Event types emitted by the storefront.
const (
	TypeCartUpdated           = "storefront.cart.updated"
	TypeCartCleared           = "storefront.cart.cleared"
	TypeSessionStarted        = "storefront.session.started"
	TypeSessionEnded          = "storefront.session.ended"
	TypeCancellationRequested = "storefront.order.cancellation_requested"
	TypeOrderCancelled        = "storefront.order.cancelled"
)

const source = "storefront"

// Publisher emits storefront activity events.
type Publisher interface {
	CartUpdated(ctx context.Context, cart domain.Cart)
	CartCleared(ctx context.Context)
	SessionStarted(ctx context.Context, userID string)
	SessionEnded(ctx context.Context)
	CancellationRequested(ctx context.Context, orderID string)
	OrderCancelled(ctx context.Context, orderID string)
}

// KafkaPublisher publishes events to a single activity topic.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
	logger   *slog.Logger
}

// NewKafkaPublisher creates a publisher writing to the given topic.
func NewKafkaPublisher(producer *kafka.Producer, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger}
}

// cartPayload is the data carried by cart events.
type cartPayload struct {
	ItemCount   int     `json:"item_count"`
	TotalAmount float64 `json:"total_amount"`
}

type sessionPayload struct {
	UserID string `json:"user_id,omitempty"`
}

type orderPayload struct {
	OrderID string `json:"order_id"`
}

// emit builds the envelope and publishes it, logging any failure.
func (p *KafkaPublisher) emit(ctx context.Context, eventType, aggregateID, aggregateType string, data any) {
	evt, err := kafka.NewEvent(eventType, aggregateID, aggregateType, source, data)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		return
	}

	// Publish errors are already logged by the producer.
	_ = p.producer.Publish(ctx, p.topic, evt)
}

func (p *KafkaPublisher) CartUpdated(ctx context.Context, cart domain.Cart) {
	p.emit(ctx, TypeCartUpdated, "cart", "cart", cartPayload{
		ItemCount:   cart.ItemCount(),
		TotalAmount: cart.TotalAmount(),
	})
}

func (p *KafkaPublisher) CartCleared(ctx context.Context) {
	p.emit(ctx, TypeCartCleared, "cart", "cart", cartPayload{})
}

func (p *KafkaPublisher) SessionStarted(ctx context.Context, userID string) {
	p.emit(ctx, TypeSessionStarted, userID, "session", sessionPayload{UserID: userID})
}

func (p *KafkaPublisher) SessionEnded(ctx context.Context) {
	p.emit(ctx, TypeSessionEnded, "session", "session", sessionPayload{})
}

func (p *KafkaPublisher) CancellationRequested(ctx context.Context, orderID string) {
	p.emit(ctx, TypeCancellationRequested, orderID, "order", orderPayload{OrderID: orderID})
}

func (p *KafkaPublisher) OrderCancelled(ctx context.Context, orderID string) {
	p.emit(ctx, TypeOrderCancelled, orderID, "order", orderPayload{OrderID: orderID})
}

// NopPublisher discards all events. Used in tests and when Kafka is not
// configured.
type NopPublisher struct{}

func (NopPublisher) CartUpdated(context.Context, domain.Cart)      {}
func (NopPublisher) CartCleared(context.Context)                   {}
func (NopPublisher) SessionStarted(context.Context, string)        {}
func (NopPublisher) SessionEnded(context.Context)                  {}
func (NopPublisher) CancellationRequested(context.Context, string) {}
func (NopPublisher) OrderCancelled(context.Context, string)        {}
