package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	fileconfig "feed-aggregator/internal/config"
	"feed-aggregator/internal/infra/adapter/persistence/memory"
	pgRepo "feed-aggregator/internal/infra/adapter/persistence/postgres"
	"feed-aggregator/internal/infra/db"
	"feed-aggregator/internal/infra/scraper"
	workerPkg "feed-aggregator/internal/infra/worker"
	"feed-aggregator/internal/observability/logging"
	"feed-aggregator/internal/observability/tracing"
	"feed-aggregator/internal/pkg/config"
	"feed-aggregator/internal/repository"
	"feed-aggregator/internal/resilience/circuitbreaker"
	"feed-aggregator/internal/usecase/poll"
	"feed-aggregator/internal/usecase/reader"
	srcUC "feed-aggregator/internal/usecase/source"
)

func main() {
	logger := initLogger()
	if err := run(logger); err != nil {
		logger.Error("worker failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// initLogger initializes the JSON logger and installs it as the default.
func initLogger() *slog.Logger {
	logger := logging.NewLogger(os.Stdout)
	slog.SetDefault(logger)
	return logger
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := workerPkg.NewWorkerMetrics(prometheus.DefaultRegisterer)
	cfg, err := workerPkg.LoadConfigFromEnv(logger, metrics)
	if err != nil {
		return fmt.Errorf("load worker configuration: %w", err)
	}
	logger.Info("worker configuration loaded",
		slog.String("reconcile_schedule", cfg.ReconcileSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.Int("read_parallelism", cfg.ReadParallelism),
		slog.Duration("poll_interval_unit", cfg.PollIntervalUnit),
		slog.Int("health_port", cfg.HealthPort))

	shutdownTracing := tracing.Init()
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", slog.Any("error", err))
		}
	}()

	repo, database, err := initStore(ctx, logger)
	if err != nil {
		return err
	}
	if database != nil {
		defer func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", slog.Any("error", err))
			}
		}()
	}

	registry := &srcUC.Service{Repo: repo, Logger: logger}
	if file := config.LoadEnvString("SOURCES_FILE", ""); file != "" {
		if err := seedSources(ctx, logger, registry, file); err != nil {
			return err
		}
	}

	readerSvc := &reader.Service{
		Registry:    registry,
		Fetcher:     scraper.NewRSSFetcher(cfg.Fetch, scraper.WithLogger(logger)),
		Parallelism: cfg.ReadParallelism,
		Logger:      logger,
	}
	poller := poll.New(readerSvc, registry,
		poll.MultiSink{poll.LogSink{Logger: logger}, metrics},
		poll.WithLogger(logger),
		poll.WithIntervalUnit(cfg.PollIntervalUnit))
	registry.Observer = poller

	healthServer := workerPkg.NewHealthServer(fmt.Sprintf(":%d", cfg.HealthPort), logger)
	healthServer.AddCheck("registry", func(ctx context.Context) error {
		_, err := registry.GetAll(ctx)
		return err
	})
	healthServer.AddCheck("poller", func(context.Context) error {
		if !poller.Running() {
			return errors.New("poller not running")
		}
		return nil
	})
	if database != nil {
		healthServer.AddCheck("database", database.PingContext)
	}

	if err := poller.Start(ctx); err != nil {
		return err
	}
	metrics.ScheduledSources.Set(float64(len(poller.Scheduled())))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := healthServer.Start(gctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("health server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return runMetricsServer(gctx, logger, poller)
	})
	g.Go(func() error {
		return runReconciler(gctx, logger, cfg, poller, metrics, healthServer)
	})

	err = g.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if stopErr := poller.Stop(shutdownCtx); stopErr != nil {
		logger.Error("poller shutdown failed", slog.Any("error", stopErr))
	}
	logger.Info("worker stopped")
	return err
}

// initStore opens Postgres when DATABASE_URL is set and waits for the API to migrate
// the schema. Without DATABASE_URL the worker polls an in-memory registry.
func initStore(ctx context.Context, logger *slog.Logger) (repository.SourceRepository, *sql.DB, error) {
	database, err := db.Open(ctx)
	if errors.Is(err, db.ErrNoDSN) {
		logger.Info("DATABASE_URL not set, using in-memory source store")
		return memory.NewSourceRepo(), nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if err := db.WaitForSchema(ctx, database, 10, 3*time.Second); err != nil {
		_ = database.Close()
		return nil, nil, err
	}
	repo := circuitbreaker.NewSourceRepository(pgRepo.NewSourceRepo(database), circuitbreaker.DBConfig())
	return repo, database, nil
}

func seedSources(ctx context.Context, logger *slog.Logger, registry fileconfig.SourceAdder, file string) error {
	sources, err := fileconfig.LoadSources(file)
	if err != nil {
		return err
	}
	if err := fileconfig.Seed(ctx, registry, sources); err != nil {
		return err
	}
	logger.Info("sources seeded", slog.String("file", file), slog.Int("count", len(sources)))
	return nil
}

// runReconciler re-reads the registry on the configured cron schedule so that
// changes made through the API process reach this poller.
func runReconciler(ctx context.Context, logger *slog.Logger, cfg *workerPkg.WorkerConfig, poller *poll.Poller, metrics *workerPkg.WorkerMetrics, health *workerPkg.HealthServer) error {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(cfg.ReconcileSchedule, func() {
		start := time.Now()
		err := poller.Reconcile(ctx)
		scheduled := len(poller.Scheduled())
		metrics.RecordReconcile(err, scheduled)
		if err != nil {
			logger.Warn("reconcile failed", slog.Any("error", err))
			return
		}
		logger.Info("reconcile completed",
			slog.Int("scheduled", scheduled),
			slog.Duration("duration", time.Since(start)))
	})
	if err != nil {
		return fmt.Errorf("add reconcile job: %w", err)
	}

	c.Start()
	health.SetReady(true)
	logger.Info("reconciler started", slog.String("schedule", cfg.ReconcileSchedule), slog.String("timezone", cfg.Timezone))

	<-ctx.Done()
	health.SetReady(false)
	<-c.Stop().Done()
	return nil
}
