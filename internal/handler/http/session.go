package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/StorefrontGo/internal/gateway"
	"github.com/utafrali/StorefrontGo/internal/guard"
	"github.com/utafrali/StorefrontGo/internal/session"
	"github.com/utafrali/StorefrontGo/pkg/httputil"
	"github.com/utafrali/StorefrontGo/pkg/validator"
)

// SessionHandler exposes the session store and the navigation guard.
type SessionHandler struct {
	store  *session.Store
	guard  *guard.Guard
	logger *slog.Logger
}

// NewSessionHandler creates a session HTTP handler.
func NewSessionHandler(store *session.Store, g *guard.Guard, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{store: store, guard: g, logger: logger}
}

// LoginRequest is the JSON request body for signing in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GetSession handles GET /api/v1/session.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.store.Snapshot()})
}

// Login handles POST /api/v1/session/login.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sess, err := h.store.Login(r.Context(), gateway.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess})
}

// Logout handles POST /api/v1/session/logout.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := h.store.Logout(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess})
}

// CheckGuard handles GET /api/v1/guard?to=/orders. It answers with the
// guard's verdict for navigating to the target route; it never blocks.
func (h *SessionHandler) CheckGuard(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("to")
	if target == "" {
		target = "/"
	}

	decision := h.guard.Decide(h.store.Snapshot(), target)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: decision})
}
