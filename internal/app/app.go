// Package app wires the storefront runtime together and runs it.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/StorefrontGo/internal/cart"
	"github.com/utafrali/StorefrontGo/internal/config"
	"github.com/utafrali/StorefrontGo/internal/domain"
	"github.com/utafrali/StorefrontGo/internal/event"
	"github.com/utafrali/StorefrontGo/internal/gateway"
	"github.com/utafrali/StorefrontGo/internal/guard"
	handler "github.com/utafrali/StorefrontGo/internal/handler/http"
	"github.com/utafrali/StorefrontGo/internal/orders"
	"github.com/utafrali/StorefrontGo/internal/session"
	"github.com/utafrali/StorefrontGo/pkg/database"
	"github.com/utafrali/StorefrontGo/pkg/health"
	pkgkafka "github.com/utafrali/StorefrontGo/pkg/kafka"
	"github.com/utafrali/StorefrontGo/pkg/tracing"
)

// App wires together all dependencies and runs the storefront runtime.
type App struct {
	cfg          *config.Config
	logger       *slog.Logger
	rdb          *redis.Client
	producer     *pkgkafka.Producer
	sessionStore *session.Store
	cartStore    *cart.Store
	httpServer   *http.Server

	shutdownTracing func(context.Context) error
}

// NewApp creates the application, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Tracing (no-op unless enabled).
	shutdownTracing, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.TracingEndpoint,
		SampleRate:     cfg.TracingSampleRate,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// Redis holds the persisted session tokens and cart.
	rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Kafka carries storefront activity events.
	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	publisher := event.NewKafkaPublisher(producer, cfg.KafkaTopic, logger)
	logger.Info("kafka producer initialized",
		slog.Any("brokers", cfg.KafkaBrokers),
		slog.String("topic", cfg.KafkaTopic),
	)

	// Build the dependency graph.
	tokenRepo := session.NewRedisTokenRepository(rdb)

	backend := gateway.New(gateway.Config{
		BaseURL:      cfg.APIBaseURL,
		MediaBaseURL: cfg.MediaBaseURL,
		Timeout:      cfg.APITimeout,
	}, tokenRepo, logger)

	sessionStore := session.NewStore(backend, tokenRepo, logger)
	cartStore := cart.NewStore(cart.NewRedisRepository(rdb, cfg.CartTTL), publisher, logger)
	ordersManager := orders.NewManager(backend, publisher, logger, cfg.CancelTimeout)
	g := guard.New(cfg.LoginPath)

	// An ended session must not leak the previous user's cart or order
	// history to the next sign-in on the same device.
	sessionStore.OnLogout(func(ctx context.Context) {
		cartStore.Clear(ctx)
		ordersManager.Reset()
		publisher.SessionEnded(ctx)
	})
	sessionStore.Subscribe(func(s domain.Session) {
		if s.IsAuthenticated && s.User != nil {
			publisher.SessionStarted(context.Background(), s.User.ID)
		}
	})

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", producer.Ping)

	router := handler.NewRouter(handler.RouterConfig{
		Environment:        cfg.Environment,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
		PprofAllowedCIDRs:  cfg.PprofAllowedCIDRs,
	}, sessionStore, cartStore, ordersManager, g, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		rdb:             rdb,
		producer:        producer,
		sessionStore:    sessionStore,
		cartStore:       cartStore,
		httpServer:      httpServer,
		shutdownTracing: shutdownTracing,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
// The persisted cart is hydrated before the server accepts traffic; the
// session restores in the background while the guard holds protected routes.
func (a *App) Run(ctx context.Context) error {
	a.cartStore.Hydrate(ctx)

	go func() {
		restoreCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		a.sessionStore.Restore(restoreCtx)
	}()

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	if err := a.shutdownTracing(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
