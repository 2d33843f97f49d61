// Package orders manages the order history: loading it from the backend,
// deriving aggregate stats, and driving the two-phase cancellation flow.
package orders

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/utafrali/StorefrontGo/internal/domain"
	"github.com/utafrali/StorefrontGo/internal/event"
	apperrors "github.com/utafrali/StorefrontGo/pkg/errors"
)

// LoadState tracks how much the manager knows about the order history.
// A failed load is distinct from an empty one: "you have no orders" must
// never be shown when the truth is "the fetch failed".
type LoadState string

const (
	LoadNotLoaded LoadState = "not_loaded"
	LoadLoading   LoadState = "loading"
	LoadLoaded    LoadState = "loaded"
	LoadFailed    LoadState = "failed"
)

// Backend is the slice of the gateway client the manager uses.
type Backend interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	CancelOrder(ctx context.Context, orderID string) error
}

// ViewState is everything a consumer needs to render the orders screen.
type ViewState struct {
	State  LoadState                 `json:"state"`
	Orders []domain.Order            `json:"orders"`
	Error  string                    `json:"error,omitempty"`
	Stats  domain.OrderStats         `json:"stats"`
	Intent domain.CancellationIntent `json:"intent"`
}

// Manager is the shared order state. All order reads and every step of the
// cancellation flow go through it.
type Manager struct {
	mu      sync.Mutex
	orders  []domain.Order
	state   LoadState
	loadErr string
	intent  domain.CancellationIntent

	backend       Backend
	events        event.Publisher
	logger        *slog.Logger
	cancelTimeout time.Duration

	subMu   sync.Mutex
	subs    map[int]func(ViewState)
	nextSub int
}

// NewManager creates a manager that has not loaded anything yet.
func NewManager(backend Backend, events event.Publisher, logger *slog.Logger, cancelTimeout time.Duration) *Manager {
	return &Manager{
		state:         LoadNotLoaded,
		backend:       backend,
		events:        events,
		logger:        logger,
		cancelTimeout: cancelTimeout,
		subs:          make(map[int]func(ViewState)),
	}
}

// View returns the current view state.
func (m *Manager) View() ViewState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewLocked()
}

// viewLocked builds a snapshot. Callers must hold m.mu.
func (m *Manager) viewLocked() ViewState {
	orders := make([]domain.Order, len(m.orders))
	copy(orders, m.orders)

	return ViewState{
		State:  m.state,
		Orders: orders,
		Error:  m.loadErr,
		Stats:  domain.ComputeOrderStats(orders),
		Intent: m.intent,
	}
}

// Subscribe registers a callback invoked after every state change with the
// new view. The returned function unsubscribes.
func (m *Manager) Subscribe(fn func(ViewState)) func() {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn

	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs, id)
	}
}

func (m *Manager) notify(view ViewState) {
	m.subMu.Lock()
	fns := make([]func(ViewState), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(view)
	}
}

// EnsureLoaded fetches the order history if it was never loaded. A previous
// failure is not retried here; that takes an explicit Refresh.
func (m *Manager) EnsureLoaded(ctx context.Context) ViewState {
	m.mu.Lock()
	if m.state != LoadNotLoaded {
		view := m.viewLocked()
		m.mu.Unlock()
		return view
	}
	m.mu.Unlock()

	return m.Refresh(ctx)
}

// Refresh fetches the order history from the backend. While a fetch is in
// flight, further calls return the loading view instead of stacking fetches.
// On failure the previous list is kept so the screen can show stale data next
// to the error.
func (m *Manager) Refresh(ctx context.Context) ViewState {
	m.mu.Lock()
	if m.state == LoadLoading {
		view := m.viewLocked()
		m.mu.Unlock()
		return view
	}
	m.state = LoadLoading
	m.loadErr = ""
	loadingView := m.viewLocked()
	m.mu.Unlock()

	m.notify(loadingView)

	fetched, err := m.backend.ListOrders(ctx)

	m.mu.Lock()
	if err != nil {
		m.state = LoadFailed
		m.loadErr = apperrors.UserMessage(err, "could not load your orders")
		m.logger.WarnContext(ctx, "order refresh failed",
			slog.String("error", err.Error()))
	} else {
		m.state = LoadLoaded
		m.orders = fetched
		m.loadErr = ""
	}
	view := m.viewLocked()
	m.mu.Unlock()

	m.notify(view)
	return view
}

// refreshAsync re-fetches in the background, detached from the caller's
// deadline. Used after a successful cancellation to reconcile with the
// backend's authoritative state.
func (m *Manager) refreshAsync(ctx context.Context) {
	detached := context.WithoutCancel(ctx)
	go func() {
		refreshCtx, cancel := context.WithTimeout(detached, 30*time.Second)
		defer cancel()
		m.Refresh(refreshCtx)
	}()
}

// RequestCancellation opens the confirmation step for the given order.
// Requesting a different order while a dialog is already open re-targets the
// dialog; requesting while a cancellation is in flight is rejected.
func (m *Manager) RequestCancellation(orderID string) (ViewState, error) {
	m.mu.Lock()

	if m.intent.InFlight() {
		view := m.viewLocked()
		m.mu.Unlock()
		return view, apperrors.Conflict("a cancellation is already in progress")
	}

	order, ok := m.findLocked(orderID)
	if !ok {
		view := m.viewLocked()
		m.mu.Unlock()
		return view, apperrors.NotFound("order", orderID)
	}
	if !order.CanCancel() {
		view := m.viewLocked()
		m.mu.Unlock()
		return view, apperrors.Conflict("this order can no longer be cancelled")
	}

	m.intent.TargetOrderID = orderID
	view := m.viewLocked()
	m.mu.Unlock()

	m.notify(view)
	return view, nil
}

// DismissCancellation closes the confirmation step without cancelling.
// A cancellation that was already submitted cannot be dismissed.
func (m *Manager) DismissCancellation() (ViewState, error) {
	m.mu.Lock()

	if m.intent.InFlight() {
		view := m.viewLocked()
		m.mu.Unlock()
		return view, apperrors.Conflict("the cancellation was already submitted")
	}

	m.intent.TargetOrderID = ""
	view := m.viewLocked()
	m.mu.Unlock()

	m.notify(view)
	return view, nil
}

// ConfirmCancellation submits the pending cancellation to the backend. At
// most one submission runs at a time; confirming again while one is in
// flight is rejected without touching the backend. The call is bounded by
// the configured cancel timeout so the in-flight guard always resets.
//
// On success the local order is patched to cancelled immediately and a
// background refresh reconciles with the backend. On failure the returned
// error carries the backend's reason for display.
func (m *Manager) ConfirmCancellation(ctx context.Context) (ViewState, error) {
	m.mu.Lock()

	if m.intent.InFlight() {
		view := m.viewLocked()
		m.mu.Unlock()
		return view, apperrors.Conflict("a cancellation is already in progress")
	}
	if !m.intent.AwaitingConfirmation() {
		view := m.viewLocked()
		m.mu.Unlock()
		return view, apperrors.Conflict("no cancellation awaiting confirmation")
	}

	orderID := m.intent.TargetOrderID
	m.intent.SubmittedOrderID = orderID
	submittedView := m.viewLocked()
	m.mu.Unlock()

	m.notify(submittedView)
	m.events.CancellationRequested(ctx, orderID)

	cancelCtx, cancel := context.WithTimeout(ctx, m.cancelTimeout)
	defer cancel()

	err := m.backend.CancelOrder(cancelCtx, orderID)

	m.mu.Lock()
	// A failure keeps the target so the dialog stays open for a retry.
	m.intent.SubmittedOrderID = ""
	if err == nil {
		m.intent.TargetOrderID = ""
		// Patch only when the local copy can still legally move to
		// cancelled; a refresh may have already landed the real state.
		if order, ok := m.findLocked(orderID); ok &&
			domain.CanTransition(order.Status, domain.OrderStatusCancelled) {
			order.Status = domain.OrderStatusCancelled
			order.StatusDisplay = "Cancelled"
		}
	}
	view := m.viewLocked()
	m.mu.Unlock()

	m.notify(view)

	if err != nil {
		m.logger.WarnContext(ctx, "order cancellation failed",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()))
		return view, err
	}

	m.logger.InfoContext(ctx, "order cancelled",
		slog.String("order_id", orderID))
	m.events.OrderCancelled(ctx, orderID)
	m.refreshAsync(ctx)

	return view, nil
}

// Reset drops all order state. Called when the session ends so the next user
// never sees the previous user's history.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.orders = nil
	m.state = LoadNotLoaded
	m.loadErr = ""
	m.intent = domain.CancellationIntent{}
	view := m.viewLocked()
	m.mu.Unlock()

	m.notify(view)
}

// findLocked returns a pointer into the order slice. Callers must hold m.mu.
func (m *Manager) findLocked(orderID string) (*domain.Order, bool) {
	for i := range m.orders {
		if m.orders[i].ID == orderID {
			return &m.orders[i], true
		}
	}
	return nil, false
}
