package session

import (
	"context"

	"github.com/utafrali/StorefrontGo/internal/gateway"
)

// TokenRepository persists the backend credential pair across restarts.
// It extends gateway.TokenSource with full-pair storage used at login.
type TokenRepository interface {
	gateway.TokenSource

	// Store persists a complete token pair.
	Store(ctx context.Context, pair gateway.TokenPair) error
}
