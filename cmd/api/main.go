package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/Jeevannn11/CareerFlow/internal/app/migrate"
	httpx "github.com/Jeevannn11/CareerFlow/internal/http"
	"github.com/Jeevannn11/CareerFlow/internal/repository"
	"github.com/Jeevannn11/CareerFlow/internal/repository/memory"
	"github.com/Jeevannn11/CareerFlow/internal/repository/postgres"
	"github.com/Jeevannn11/CareerFlow/internal/service/analytics"
	"github.com/Jeevannn11/CareerFlow/internal/service/application"
	"github.com/Jeevannn11/CareerFlow/internal/service/auth"
	"github.com/Jeevannn11/CareerFlow/internal/service/discovery"
	"github.com/Jeevannn11/CareerFlow/internal/service/status"
	"github.com/Jeevannn11/CareerFlow/pkg/config"
	"github.com/Jeevannn11/CareerFlow/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type store interface {
	repository.AccountRepository
	repository.ApplicationRepository
	repository.Pinger
}

func main() {
	cfg := config.LoadAPIConfig()
	log := logger.New("api", logger.ParseLevel(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	policy, err := status.PolicyByName(cfg.StatusPolicy)
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open store", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	authSvc := auth.New(st, log, cfg)
	jobSvc := application.New(st, status.New(policy), log)
	analyticsSvc := analytics.New(jobSvc, log)
	feedSvc := discovery.New(cfg.DiscoveryFeedURL, cfg.DiscoveryTimeout, log)

	limiter := httpx.NewMemoryRateLimiter()
	if addr := strings.TrimSpace(cfg.RateLimitRedisAddr); addr != "" {
		redisLimiter, err := httpx.NewRedisRateLimiter(addr, cfg.RateLimitRedisPass, cfg.RateLimitRedisDB, log)
		if err != nil {
			log.Warn("redis rate limiter unavailable", "error", err)
		} else {
			limiter.Close()
			limiter = redisLimiter
		}
	}

	router := httpx.NewRouter(log, httpx.Services{
		Auth:         authSvc,
		Applications: jobSvc,
		Analytics:    analyticsSvc,
		Discovery:    feedSvc,
	}, limiter, cfg.CORSAllowedOrigin, st.Ping)
	defer router.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("api server starting", "addr", cfg.Addr, "driver", cfg.StorageDriver, "status_policy", cfg.StatusPolicy)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		log.Info("api server stopped")
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openStore builds the configured storage backend. The returned func
// releases it.
func openStore(ctx context.Context, cfg config.APIConfig, log *slog.Logger) (store, func(), error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		log.Warn("using in-memory store, data is lost on restart")
		return memory.New(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	if cfg.AutoMigrate {
		runner, err := migrate.New(cfg.DatabaseURL, cfg.MigrationsDir, log)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("configure migrations: %w", err)
		}
		if err := runner.Ensure(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("apply migrations: %w", err)
		}
	}
	return postgres.New(pool, cfg.StoreTimeout), pool.Close, nil
}
