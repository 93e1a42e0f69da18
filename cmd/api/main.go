package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	fileconfig "feed-aggregator/internal/config"
	hhttp "feed-aggregator/internal/handler/http"
	hauth "feed-aggregator/internal/handler/http/auth"
	hfeed "feed-aggregator/internal/handler/http/feed"
	hpolling "feed-aggregator/internal/handler/http/polling"
	"feed-aggregator/internal/handler/http/requestid"
	hsrc "feed-aggregator/internal/handler/http/source"
	"feed-aggregator/internal/infra/adapter/persistence/memory"
	pgRepo "feed-aggregator/internal/infra/adapter/persistence/postgres"
	"feed-aggregator/internal/infra/db"
	"feed-aggregator/internal/infra/scraper"
	"feed-aggregator/internal/observability/logging"
	"feed-aggregator/internal/observability/tracing"
	"feed-aggregator/internal/pkg/config"
	"feed-aggregator/internal/repository"
	"feed-aggregator/internal/resilience/circuitbreaker"
	"feed-aggregator/internal/usecase/poll"
	"feed-aggregator/internal/usecase/reader"
	srcUC "feed-aggregator/internal/usecase/source"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logger := initLogger()
	if err := run(logger); err != nil {
		logger.Error("api server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func initLogger() *slog.Logger {
	logger := logging.NewLogger(os.Stdout)
	slog.SetDefault(logger)
	return logger
}

type components struct {
	handler  http.Handler
	poller   *poll.Poller
	limiters []*hhttp.RateLimiter
	database *sql.DB
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	secret := os.Getenv("JWT_SECRET")
	if err := hauth.ValidateSecret(secret); err != nil {
		return err
	}
	users, err := hauth.UsersFromEnv()
	if err != nil {
		return err
	}

	cfg := loadAPIConfig(logger, config.NewConfigMetrics("api", prometheus.DefaultRegisterer))
	logger.Info("api configuration loaded",
		slog.Int("port", cfg.Port),
		slog.Duration("request_timeout", cfg.RequestTimeout),
		slog.Int("search_rate_limit", cfg.SearchRateLimit),
		slog.Int("read_parallelism", cfg.ReadParallelism),
		slog.Duration("poll_interval_unit", cfg.PollIntervalUnit))

	shutdownTracing := tracing.Init()
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", slog.Any("error", err))
		}
	}()

	c, err := setupServer(ctx, logger, cfg, users, []byte(secret))
	if err != nil {
		return err
	}
	if c.database != nil {
		defer func() {
			if err := c.database.Close(); err != nil {
				logger.Error("failed to close database", slog.Any("error", err))
			}
		}()
	}

	for _, rl := range c.limiters {
		go rl.StartCleanup(ctx, 5*time.Minute, 10*time.Minute, logger)
	}

	if cfg.PollOnStart {
		if err := c.poller.Start(ctx); err != nil {
			return err
		}
	}

	return runServer(ctx, logger, cfg, c)
}

// initStore returns the Postgres store when DATABASE_URL is set, the in-memory store otherwise.
func initStore(ctx context.Context, logger *slog.Logger) (repository.SourceRepository, *sql.DB, error) {
	database, err := db.Open(ctx)
	if errors.Is(err, db.ErrNoDSN) {
		logger.Info("DATABASE_URL not set, using in-memory source store")
		return memory.NewSourceRepo(), nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if err := db.MigrateUp(ctx, database); err != nil {
		_ = database.Close()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}
	logger.Info("using postgres source store")
	repo := circuitbreaker.NewSourceRepository(pgRepo.NewSourceRepo(database), circuitbreaker.DBConfig())
	return repo, database, nil
}

func setupServer(ctx context.Context, logger *slog.Logger, cfg apiConfig, users *hauth.Users, secret []byte) (*components, error) {
	repo, database, err := initStore(ctx, logger)
	if err != nil {
		return nil, err
	}

	registry := &srcUC.Service{Repo: repo, Logger: logger}
	readerSvc := &reader.Service{
		Registry:    registry,
		Fetcher:     scraper.NewRSSFetcher(cfg.Fetch, scraper.WithLogger(logger)),
		Parallelism: cfg.ReadParallelism,
		Logger:      logger,
	}
	poller := poll.New(readerSvc, registry, poll.LogSink{Logger: logger},
		poll.WithLogger(logger),
		poll.WithIntervalUnit(cfg.PollIntervalUnit))
	registry.Observer = poller

	if cfg.SourcesFile != "" {
		sources, err := fileconfig.LoadSources(cfg.SourcesFile)
		if err != nil {
			return nil, err
		}
		if err := fileconfig.Seed(ctx, registry, sources); err != nil {
			return nil, err
		}
		logger.Info("sources seeded", slog.String("file", cfg.SourcesFile), slog.Int("count", len(sources)))
	}

	searchLimiter := hhttp.NewRateLimiter(cfg.SearchRateLimit, time.Minute)
	authLimiter := hhttp.NewRateLimiter(5, time.Minute)

	health := hhttp.NewHealthHandler(getVersion(), logger)
	health.AddCheck("registry", func(ctx context.Context) error {
		_, err := registry.GetAll(ctx)
		return err
	})
	if database != nil {
		health.AddCheck("database", database.PingContext)
	}

	privateMux := http.NewServeMux()
	hsrc.Register(privateMux, registry)
	hfeed.Register(privateMux, readerSvc, searchLimiter.Limit)
	hpolling.Register(privateMux, poller, cfg.ShutdownTimeout)

	rootMux := http.NewServeMux()
	rootMux.Handle("POST /auth/token", authLimiter.Limit(hauth.TokenHandler(users, secret, hauth.DefaultTokenTTL)))
	rootMux.Handle("GET /health", health)
	rootMux.Handle("GET /health/ready", health)
	rootMux.Handle("GET /metrics", hhttp.MetricsHandler())
	rootMux.Handle("/", hhttp.Chain(privateMux,
		hauth.Authz(secret),
		hhttp.Timeout(cfg.RequestTimeout),
	))

	handler := hhttp.Chain(rootMux,
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Recover(logger),
		hhttp.Logging(logger),
		hhttp.InputValidation(),
		hhttp.LimitRequestBody(1<<20),
		hhttp.MetricsMiddleware,
	)

	return &components{
		handler:  handler,
		poller:   poller,
		limiters: []*hhttp.RateLimiter{searchLimiter, authLimiter},
		database: database,
	}, nil
}

func getVersion() string {
	if v := os.Getenv("VERSION"); v != "" {
		return v
	}
	return "dev"
}

func runServer(ctx context.Context, logger *slog.Logger, cfg apiConfig, c *components) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           c.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", srv.Addr), slog.String("version", getVersion()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	if err := c.poller.Stop(shutdownCtx); err != nil {
		logger.Error("poller shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
	return nil
}
