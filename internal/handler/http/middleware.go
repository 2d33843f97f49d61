package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/StorefrontGo/internal/guard"
	"github.com/utafrali/StorefrontGo/internal/session"
	"github.com/utafrali/StorefrontGo/pkg/httputil"
	"github.com/utafrali/StorefrontGo/pkg/logger"
)

// ContentTypeJSON ensures all responses in the group have a JSON content type.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// RequireSession gates a route group on the session state, mirroring the
// navigation guard. A loading session answers 503 with Retry-After rather
// than 401, because an undecided session must never be treated as anonymous.
func RequireSession(store *session.Store, g *guard.Guard, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := g.Decide(store.Snapshot(), r.URL.Path)

			switch decision.Action {
			case guard.ActionWait:
				w.Header().Set("Retry-After", "1")
				httputil.WriteJSON(w, http.StatusServiceUnavailable, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:    "SESSION_LOADING",
						Message: "session is still being restored, retry shortly",
					},
				})
				return

			case guard.ActionRedirect:
				log.InfoContext(r.Context(), "guard redirected anonymous visitor",
					slog.String("target", decision.ReturnTo))
				httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
					Data: decision,
					Error: &httputil.ErrorResponse{
						Code:    "UNAUTHORIZED",
						Message: "sign in to view this page",
					},
				})
				return
			}

			ctx := r.Context()
			if s := store.Snapshot(); s.User != nil {
				ctx = logger.WithUserID(ctx, s.User.ID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
