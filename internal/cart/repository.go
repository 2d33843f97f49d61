package cart

import (
	"context"

	"github.com/utafrali/StorefrontGo/internal/domain"
)

// Repository persists the cart across restarts. Persistence is best effort:
// the in-memory store is the source of truth while the process runs.
type Repository interface {
	// Load returns the persisted cart, or apperrors.ErrNotFound when none
	// has been saved.
	Load(ctx context.Context) (*domain.Cart, error)

	// Save persists the cart.
	Save(ctx context.Context, cart domain.Cart) error

	// Delete removes the persisted cart.
	Delete(ctx context.Context) error
}
