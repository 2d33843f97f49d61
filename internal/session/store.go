// Package session owns the client's identity state: a single shared store
// that restores persisted credentials on startup, performs login and logout
// against the backend, and lets other components react to identity changes.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/utafrali/StorefrontGo/internal/domain"
	"github.com/utafrali/StorefrontGo/internal/gateway"
	apperrors "github.com/utafrali/StorefrontGo/pkg/errors"
)

// Backend is the slice of the gateway client the session store uses.
type Backend interface {
	Login(ctx context.Context, creds gateway.Credentials) (gateway.TokenPair, error)
	Logout(ctx context.Context, refresh string) error
	Profile(ctx context.Context) (*domain.User, error)
}

// Store is the shared session state. All reads and writes go through it, so
// every consumer sees the same identity at the same time.
//
// The zero session starts in the loading state and stays there until Restore
// settles it. Guards must not treat a loading session as anonymous.
type Store struct {
	mu      sync.RWMutex
	session domain.Session

	backend Backend
	tokens  TokenRepository
	logger  *slog.Logger

	restoreOnce sync.Once

	subMu   sync.Mutex
	subs    map[int]func(domain.Session)
	nextSub int

	logoutHooks []func(context.Context)
}

// NewStore creates a session store in the loading state.
func NewStore(backend Backend, tokens TokenRepository, logger *slog.Logger) *Store {
	return &Store{
		session: domain.Session{IsLoading: true},
		backend: backend,
		tokens:  tokens,
		logger:  logger,
		subs:    make(map[int]func(domain.Session)),
	}
}

// Snapshot returns the current session.
func (s *Store) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Subscribe registers a callback invoked after every session change with the
// new snapshot. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(domain.Session)) func() {
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

// OnLogout registers a hook invoked when an explicit logout ends the session.
// A restore that finds rejected credentials only clears the stored tokens;
// there is no established session to tear down, so hooks do not run then.
// Hooks must be registered before the store is first used.
func (s *Store) OnLogout(hook func(context.Context)) {
	s.logoutHooks = append(s.logoutHooks, hook)
}

// set replaces the session and notifies subscribers outside the lock.
func (s *Store) set(session domain.Session) {
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	s.subMu.Lock()
	fns := make([]func(domain.Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(session)
	}
}

// Restore settles the session from persisted credentials. It runs its work at
// most once; later calls return the settled state immediately. Until the
// first call completes, the session reports IsLoading.
func (s *Store) Restore(ctx context.Context) domain.Session {
	s.restoreOnce.Do(func() {
		s.restore(ctx)
	})
	return s.Snapshot()
}

func (s *Store) restore(ctx context.Context) {
	pair, err := s.tokens.Tokens(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "token restore failed, starting anonymous",
			slog.String("error", err.Error()))
		s.set(domain.Anonymous())
		return
	}
	if pair.Access == "" && pair.Refresh == "" {
		s.set(domain.Anonymous())
		return
	}

	user, err := s.backend.Profile(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			// Credentials are dead. The gateway already cleared them if the
			// refresh was rejected; clear again to cover the direct 401 path.
			if clearErr := s.tokens.Clear(ctx); clearErr != nil {
				s.logger.WarnContext(ctx, "failed to clear rejected tokens",
					slog.String("error", clearErr.Error()))
			}
		} else {
			s.logger.WarnContext(ctx, "profile fetch failed during restore, starting anonymous",
				slog.String("error", err.Error()))
		}
		s.set(domain.Anonymous())
		return
	}

	s.logger.InfoContext(ctx, "session restored", slog.String("user_id", user.ID))
	s.set(domain.Authenticated(*user))
}

// Login authenticates against the backend, persists the issued tokens, and
// settles the session as authenticated. The returned error's user message is
// safe to display.
func (s *Store) Login(ctx context.Context, creds gateway.Credentials) (domain.Session, error) {
	pair, err := s.backend.Login(ctx, creds)
	if err != nil {
		return s.Snapshot(), err
	}

	if err := s.tokens.Store(ctx, pair); err != nil {
		// The session still works for this process lifetime; it just will
		// not survive a restart.
		s.logger.WarnContext(ctx, "failed to persist tokens",
			slog.String("error", err.Error()))
	}

	user, err := s.backend.Profile(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "profile fetch failed after login",
			slog.String("error", err.Error()))
		session := domain.Authenticated(domain.User{Email: creds.Email})
		s.set(session)
		return session, nil
	}

	s.logger.InfoContext(ctx, "login succeeded", slog.String("user_id", user.ID))
	session := domain.Authenticated(*user)
	s.set(session)
	return session, nil
}

// Logout ends the session. The backend is told to blacklist the refresh
// token, but local state is dropped even if that call fails; the visitor
// asked to leave and gets to leave.
func (s *Store) Logout(ctx context.Context) domain.Session {
	pair, err := s.tokens.Tokens(ctx)
	if err == nil && pair.Refresh != "" {
		if err := s.backend.Logout(ctx, pair.Refresh); err != nil {
			s.logger.WarnContext(ctx, "backend logout failed",
				slog.String("error", err.Error()))
		}
	}

	if err := s.tokens.Clear(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to clear tokens on logout",
			slog.String("error", err.Error()))
	}

	session := domain.Anonymous()
	s.set(session)

	for _, hook := range s.logoutHooks {
		hook(ctx)
	}

	return session
}
