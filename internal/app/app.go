package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/taskboard-backend/internal/action"
	"github.com/heartmarshall/taskboard-backend/internal/auth"
	"github.com/heartmarshall/taskboard-backend/internal/config"
	"github.com/heartmarshall/taskboard-backend/internal/transport/dataloader"
	"github.com/heartmarshall/taskboard-backend/internal/transport/middleware"
	"github.com/heartmarshall/taskboard-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, wires storage,
// services and the HTTP surface, and serves until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		buildInfo(),
		slog.String("log_level", cfg.Log.Level),
		slog.String("storage", cfg.Storage.Driver),
	)

	be, err := newBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer be.close()

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer limiter.Stop()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      newHandler(cfg, logger, be, limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return serve(ctx, srv, cfg.Server.ShutdownTimeout, logger)
}

// newHandler builds the routed, fully wrapped HTTP handler. Logger wraps
// Auth so request logs carry the caller.
func newHandler(cfg *config.Config, logger *slog.Logger, be *backend, limiter *middleware.RateLimiter) http.Handler {
	registry := action.NewRegistry()
	registry.Register(be.boards.Actions()...)

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	mux := http.NewServeMux()
	rest.Handlers{
		Health:      rest.NewHealthHandler(be.pinger, Version),
		Actions:     rest.NewActionHandler(registry, logger),
		Boards:      rest.NewBoardHandler(be.boards, be.audit, be.quota, be.identity, logger),
		WrapActions: limiter.Limit(cfg.RateLimit.ActionsPerMinute),
	}.Register(mux)

	// An empty origin list serves the browser client from the same origin only.
	var cors middleware.Middleware
	if cfg.CORS.AllowedOrigins != "" {
		cors = middleware.CORS(cfg.CORS)
	}

	chain := middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		cors,
		middleware.Auth(tokens),
		dataloader.Middleware(be.loaders),
	)
	return chain(mux)
}

// serve runs srv until ctx is cancelled or the listener fails, then shuts
// it down within shutdownTimeout.
func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("shutting down http server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})

	return g.Wait()
}
