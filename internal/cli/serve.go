package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/identify-labs/marquee"
	"github.com/identify-labs/marquee/internal/config"
	httpAdapter "github.com/identify-labs/marquee/pkg/adapters/http"
	"github.com/identify-labs/marquee/pkg/adapters/memory"
	redisAdapter "github.com/identify-labs/marquee/pkg/adapters/redis"
	"github.com/identify-labs/marquee/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// shutdownTimeout bounds how long outstanding requests get on shutdown.
const shutdownTimeout = 5 * time.Second

// Serve listens on cfg.Addr until ctx is cancelled.
func Serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
	}
	return ServeListener(ctx, ln, cfg, logger)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down gracefully.
func ServeListener(ctx context.Context, ln net.Listener, cfg config.Config, logger *slog.Logger) error {
	store, locker, closeStore := buildStore(cfg, logger)
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := []httpAdapter.Option{
		httpAdapter.WithSiteDir(cfg.SiteDir),
		httpAdapter.WithMaintenance(cfg.Maintenance),
		httpAdapter.WithLogger(logger),
		httpAdapter.WithRegistry(reg),
		httpAdapter.WithSnapshotStore(store),
		httpAdapter.WithBaseContext(ctx),
		httpAdapter.WithSessionTTL(cfg.SessionTTL),
		httpAdapter.WithPlayerOptions(marquee.WithReplayDelay(cfg.ReplayDelay)),
	}
	if locker != nil {
		opts = append(opts, httpAdapter.WithLocker(locker))
	}
	handler, server := httpAdapter.NewHandler(opts...)
	defer server.Close()

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("marquee server listening", "addr", ln.Addr().String(), "site_dir", cfg.SiteDir, "maintenance", cfg.Maintenance)
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("shutting down")

		// A fresh context: ctx is already done.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("failed to close server: %w", err)
			}
		}
		logger.Info("server stopped gracefully")
		return nil
	}
}

func buildStore(cfg config.Config, logger *slog.Logger) (ports.SnapshotStore, ports.DistributedLocker, func()) {
	if cfg.Redis.Addr == "" {
		return memory.NewStore(memory.WithStoreTTL(cfg.SessionTTL)), nil, func() {}
	}

	store := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
		redisAdapter.WithPrefix(cfg.Redis.Prefix),
		redisAdapter.WithTTL(cfg.SessionTTL),
	)
	locker := redisAdapter.NewLocker(store.Client(), cfg.Redis.Prefix)
	logger.Info("using redis session store", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)

	return store, locker, func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close redis client", "err", err)
		}
	}
}
