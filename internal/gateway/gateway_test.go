package gateway

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// fakeTokens is an in-memory TokenSource for tests.
type fakeTokens struct {
	mu      sync.Mutex
	pair    TokenPair
	cleared bool
}

func (f *fakeTokens) Tokens(context.Context) (TokenPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pair, nil
}

func (f *fakeTokens) StoreAccess(_ context.Context, access string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pair.Access = access
	return nil
}

func (f *fakeTokens) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pair = TokenPair{}
	f.cleared = true
	return nil
}

func (f *fakeTokens) snapshot() (TokenPair, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pair, f.cleared
}

// newTestClient points a gateway client at a test server.
func newTestClient(serverURL string, tokens TokenSource) *Client {
	return New(Config{
		BaseURL:      serverURL + "/api",
		MediaBaseURL: serverURL,
		Timeout:      2 * time.Second,
	}, tokens, slog.Default())
}
