package session

import (
	"context"
	"sync"

	"github.com/utafrali/StorefrontGo/internal/gateway"
)

// MemoryTokenRepository keeps the credential pair in process memory. Used in
// tests and when running without Redis; the session then does not survive a
// restart.
type MemoryTokenRepository struct {
	mu   sync.Mutex
	pair gateway.TokenPair
}

// NewMemoryTokenRepository creates an in-memory token repository.
func NewMemoryTokenRepository() *MemoryTokenRepository {
	return &MemoryTokenRepository{}
}

func (r *MemoryTokenRepository) Tokens(context.Context) (gateway.TokenPair, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pair, nil
}

func (r *MemoryTokenRepository) Store(_ context.Context, pair gateway.TokenPair) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pair = pair
	return nil
}

func (r *MemoryTokenRepository) StoreAccess(_ context.Context, access string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pair.Access = access
	return nil
}

func (r *MemoryTokenRepository) Clear(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pair = gateway.TokenPair{}
	return nil
}
