package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/StorefrontGo/internal/cart"
	"github.com/utafrali/StorefrontGo/internal/guard"
	"github.com/utafrali/StorefrontGo/internal/orders"
	"github.com/utafrali/StorefrontGo/internal/session"
	"github.com/utafrali/StorefrontGo/pkg/health"
	"github.com/utafrali/StorefrontGo/pkg/middleware"
)

// RouterConfig carries the router's middleware knobs.
type RouterConfig struct {
	Environment        string
	CORSAllowedOrigins []string
	RateLimitRPS       int
	RateLimitBurst     int
	PprofAllowedCIDRs  []string
}

// NewRouter creates a chi router with the full view surface registered.
func NewRouter(
	cfg RouterConfig,
	sessionStore *session.Store,
	cartStore *cart.Store,
	ordersManager *orders.Manager,
	g *guard.Guard,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Environment:    cfg.Environment,
	}))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	sessionHandler := NewSessionHandler(sessionStore, g, logger)
	cartHandler := NewCartHandler(cartStore, logger)
	ordersHandler := NewOrdersHandler(ordersManager, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", sessionHandler.GetSession)
			r.Post("/login", sessionHandler.Login)
			r.Post("/logout", sessionHandler.Logout)
		})

		r.Get("/guard", sessionHandler.CheckGuard)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)

			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productID}", cartHandler.UpdateQuantity)
			r.Delete("/items/{productID}", cartHandler.RemoveItem)

			r.Post("/open", cartHandler.OpenDrawer)
			r.Post("/close", cartHandler.CloseDrawer)
			r.Post("/toggle", cartHandler.ToggleDrawer)
		})

		// The order history is only visible to a signed-in session.
		r.Route("/orders", func(r chi.Router) {
			r.Use(RequireSession(sessionStore, g, logger))

			r.Get("/", ordersHandler.List)
			r.Post("/refresh", ordersHandler.Refresh)

			r.Post("/{orderID}/cancellation", ordersHandler.RequestCancellation)
			r.Post("/cancellation/confirm", ordersHandler.ConfirmCancellation)
			r.Delete("/cancellation", ordersHandler.DismissCancellation)
		})
	})

	return r
}
