// Package gateway is the storefront's client for the commerce backend API.
// It owns the HTTP boundary: bearer token injection, a single transparent
// refresh-and-retry on expired credentials, and normalization of the
// backend's wire formats into domain types.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/utafrali/StorefrontGo/pkg/errors"
	"github.com/utafrali/StorefrontGo/pkg/httpclient"
)

// TokenPair holds the backend-issued JWT credentials.
type TokenPair struct {
	Access  string
	Refresh string
}

// TokenSource provides and persists the credentials the gateway attaches to
// authenticated requests. The session store's token repository satisfies it.
type TokenSource interface {
	// Tokens returns the current token pair. Both fields empty means the
	// visitor is anonymous.
	Tokens(ctx context.Context) (TokenPair, error)

	// StoreAccess replaces the access token after a successful refresh.
	StoreAccess(ctx context.Context, access string) error

	// Clear drops both tokens. Called when a refresh is rejected, since the
	// credentials are then unusable.
	Clear(ctx context.Context) error
}

// Config holds gateway configuration.
type Config struct {
	// BaseURL is the backend API root, e.g. "http://localhost:8000/api".
	BaseURL string

	// MediaBaseURL resolves relative image paths returned by the backend.
	MediaBaseURL string

	// Timeout bounds each outbound request.
	Timeout time.Duration
}

// Client talks to the commerce backend. All methods normalize backend error
// bodies into AppErrors so upstream layers can surface the backend's reason.
type Client struct {
	baseURL string
	http    *httpclient.CircuitBreakerClient
	tokens  TokenSource
	images  *ImageResolver
	logger  *slog.Logger
}

// New creates a backend client with retrying transport and circuit breaker
// protection.
func New(cfg Config, tokens TokenSource, logger *slog.Logger) *Client {
	clientCfg := httpclient.DefaultConfig()
	if cfg.Timeout > 0 {
		clientCfg.Timeout = cfg.Timeout
	}

	inner := httpclient.New(clientCfg)
	breaker := httpclient.NewCircuitBreakerClient(inner, httpclient.DefaultCircuitBreakerConfig("commerce-backend"), logger)

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    breaker,
		tokens:  tokens,
		images:  NewImageResolver(cfg.MediaBaseURL),
		logger:  logger,
	}
}

// Images returns the resolver used to normalize backend image references.
func (c *Client) Images() *ImageResolver {
	return c.images
}

// do sends a request to the backend. For authenticated requests it attaches
// the bearer token and, on a 401, refreshes the access token and retries the
// request exactly once. A rejected refresh clears the stored credentials.
func (c *Client) do(ctx context.Context, method, path string, payload any, authed bool) (*http.Response, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s %s payload: %w", method, path, err)
		}
	}

	send := func(access string) (*http.Response, error) {
		var reader *bytes.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		} else {
			reader = bytes.NewReader(nil)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, fmt.Errorf("create %s %s request: %w", method, path, err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		if access != "" {
			req.Header.Set("Authorization", "Bearer "+access)
		}
		return c.http.Do(ctx, req)
	}

	if !authed {
		return send("")
	}

	pair, err := c.tokens.Tokens(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tokens: %w", err)
	}
	if pair.Access == "" {
		return nil, apperrors.Unauthorized("not signed in")
	}

	resp, err := send(pair.Access)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	// Expired access token. Refresh once and replay the request.
	_ = resp.Body.Close()

	access, refreshErr := c.refreshAccess(ctx, pair.Refresh)
	if refreshErr != nil {
		if clearErr := c.tokens.Clear(ctx); clearErr != nil {
			c.logger.WarnContext(ctx, "failed to clear tokens after rejected refresh",
				slog.String("error", clearErr.Error()))
		}
		return nil, refreshErr
	}
	if err := c.tokens.StoreAccess(ctx, access); err != nil {
		c.logger.WarnContext(ctx, "failed to persist refreshed access token",
			slog.String("error", err.Error()))
	}

	return send(access)
}

// decodeJSON reads a 2xx response body into out and closes the body.
// Non-2xx responses are translated into AppErrors with the backend's detail.
func decodeJSON(resp *http.Response, endpoint string, out any) error {
	if resp.StatusCode >= 400 {
		return httpclient.ParseResponseError(resp, endpoint)
	}
	defer func() { _ = resp.Body.Close() }()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
