// Package cart owns the shared cart state: one store that every consumer
// reads from and writes through, with best-effort persistence and activity
// events on each mutation.
package cart

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/utafrali/StorefrontGo/internal/domain"
	"github.com/utafrali/StorefrontGo/internal/event"
	apperrors "github.com/utafrali/StorefrontGo/pkg/errors"
)

// persistTimeout bounds the background writes to the repository.
const persistTimeout = 5 * time.Second

// Store is the shared cart. Mutations are serialized through its lock, so two
// concurrent adds of the same variant always merge instead of duplicating a
// line.
type Store struct {
	mu   sync.Mutex
	cart domain.Cart

	repo   Repository
	events event.Publisher
	logger *slog.Logger

	subMu   sync.Mutex
	subs    map[int]func(domain.Cart)
	nextSub int
}

// NewStore creates an empty cart store.
func NewStore(repo Repository, events event.Publisher, logger *slog.Logger) *Store {
	return &Store{
		repo:   repo,
		events: events,
		logger: logger,
		subs:   make(map[int]func(domain.Cart)),
	}
}

// Snapshot returns a copy of the current cart.
func (s *Store) Snapshot() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyCart()
}

// copyCart clones the cart so callers can never alias the internal slice.
// Callers must hold s.mu.
func (s *Store) copyCart() domain.Cart {
	cp := s.cart
	cp.Lines = make([]domain.CartLine, len(s.cart.Lines))
	copy(cp.Lines, s.cart.Lines)
	return cp
}

// Subscribe registers a callback invoked after every cart change with the new
// snapshot. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(domain.Cart)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(cart domain.Cart) {
	s.subMu.Lock()
	fns := make([]func(domain.Cart), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(cart)
	}
}

// persist saves the cart in the background, detached from the caller's
// deadline and logging failures instead of surfacing them. A dead or slow
// Redis must never hold up a mutation that already happened in memory.
func (s *Store) persist(ctx context.Context, cart domain.Cart) {
	detached := context.WithoutCancel(ctx)
	go func() {
		saveCtx, cancel := context.WithTimeout(detached, persistTimeout)
		defer cancel()
		if err := s.repo.Save(saveCtx, cart); err != nil {
			s.logger.WarnContext(saveCtx, "cart persist failed",
				slog.String("error", err.Error()))
		}
	}()
}

// Hydrate loads the persisted cart into the store. Called once at startup,
// before the store is shared; a missing persisted cart leaves it empty.
func (s *Store) Hydrate(ctx context.Context) {
	saved, err := s.repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "cart hydrate failed, starting empty",
				slog.String("error", err.Error()))
		}
		return
	}

	s.mu.Lock()
	s.cart.Lines = saved.Lines
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "cart hydrated",
		slog.Int("lines", len(saved.Lines)))
}

// AddItem adds a line to the cart. Adding a product variant that is already
// present merges the quantities into the existing line.
func (s *Store) AddItem(ctx context.Context, line domain.CartLine) (domain.Cart, error) {
	if line.ProductID == "" {
		return s.Snapshot(), apperrors.InvalidInput("product id is required")
	}
	if line.Quantity < 1 {
		return s.Snapshot(), apperrors.InvalidInput("quantity must be at least 1")
	}

	s.mu.Lock()
	if i := s.cart.FindLine(line.ProductID, line.VariantKey); i >= 0 {
		s.cart.Lines[i].Quantity += line.Quantity
	} else {
		s.cart.Lines = append(s.cart.Lines, line)
	}
	snapshot := s.copyCart()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.events.CartUpdated(ctx, snapshot)
	s.notify(snapshot)
	return snapshot, nil
}

// UpdateQuantity sets the quantity of an existing line. Zero removes the
// line; negative quantities are rejected.
func (s *Store) UpdateQuantity(ctx context.Context, productID, variantKey string, quantity int) (domain.Cart, error) {
	if quantity < 0 {
		return s.Snapshot(), apperrors.InvalidInput("quantity cannot be negative")
	}

	s.mu.Lock()
	i := s.cart.FindLine(productID, variantKey)
	if i < 0 {
		s.mu.Unlock()
		return s.Snapshot(), apperrors.NotFound("cart line", productID)
	}
	if quantity == 0 {
		s.cart.Lines = append(s.cart.Lines[:i], s.cart.Lines[i+1:]...)
	} else {
		s.cart.Lines[i].Quantity = quantity
	}
	snapshot := s.copyCart()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.events.CartUpdated(ctx, snapshot)
	s.notify(snapshot)
	return snapshot, nil
}

// RemoveItem deletes a line. Removing a line that is not there is a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID, variantKey string) domain.Cart {
	s.mu.Lock()
	i := s.cart.FindLine(productID, variantKey)
	if i < 0 {
		snapshot := s.copyCart()
		s.mu.Unlock()
		return snapshot
	}
	s.cart.Lines = append(s.cart.Lines[:i], s.cart.Lines[i+1:]...)
	snapshot := s.copyCart()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.events.CartUpdated(ctx, snapshot)
	s.notify(snapshot)
	return snapshot
}

// Clear empties the cart and drops the persisted copy.
func (s *Store) Clear(ctx context.Context) domain.Cart {
	s.mu.Lock()
	s.cart.Lines = nil
	snapshot := s.copyCart()
	s.mu.Unlock()

	detached := context.WithoutCancel(ctx)
	go func() {
		delCtx, cancel := context.WithTimeout(detached, persistTimeout)
		defer cancel()
		if err := s.repo.Delete(delCtx); err != nil {
			s.logger.WarnContext(delCtx, "cart delete failed",
				slog.String("error", err.Error()))
		}
	}()
	s.events.CartCleared(ctx)
	s.notify(snapshot)
	return snapshot
}

// Open shows the cart drawer.
func (s *Store) Open() domain.Cart { return s.setOpen(true) }

// Close hides the cart drawer.
func (s *Store) Close() domain.Cart { return s.setOpen(false) }

// Toggle flips the cart drawer.
func (s *Store) Toggle() domain.Cart {
	s.mu.Lock()
	s.cart.IsOpen = !s.cart.IsOpen
	snapshot := s.copyCart()
	s.mu.Unlock()

	s.notify(snapshot)
	return snapshot
}

func (s *Store) setOpen(open bool) domain.Cart {
	s.mu.Lock()
	changed := s.cart.IsOpen != open
	s.cart.IsOpen = open
	snapshot := s.copyCart()
	s.mu.Unlock()

	if changed {
		s.notify(snapshot)
	}
	return snapshot
}
