package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"

	"hrinsight/internal/domain/audit"
	"hrinsight/internal/domain/auth"
	"hrinsight/internal/domain/benchmark"
	"hrinsight/internal/domain/integrity"
	"hrinsight/internal/domain/readers"
	"hrinsight/internal/domain/reports"
	"hrinsight/internal/platform/config"
	"hrinsight/internal/platform/db"
	"hrinsight/internal/platform/jobs"
	"hrinsight/internal/platform/metrics"
	audithandler "hrinsight/internal/transport/http/handlers/audit"
	benchmarkhandler "hrinsight/internal/transport/http/handlers/benchmark"
	integrityhandler "hrinsight/internal/transport/http/handlers/integrity"
	reportshandler "hrinsight/internal/transport/http/handlers/reports"
	"hrinsight/internal/transport/http/middleware"
)

type App struct {
	Config     config.Config
	DB         *db.Pool
	Redis      *goredis.Client
	Router     http.Handler
	Metrics    *metrics.Collector
	Jobs       *jobs.Service
	Reports    *reports.Service
	Benchmarks *benchmark.Service
	Integrity  *integrity.Service
	Audit      *audit.Service

	cancelJobs context.CancelFunc
}

// New connects to storage, applies migrations and wires every service and
// route. Background jobs are not started until Start is called.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	app := &App{Config: cfg, DB: pool}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			app.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if err := db.Seed(ctx, pool); err != nil {
		app.Close()
		return nil, fmt.Errorf("seed: %w", err)
	}

	if cfg.MetricsEnabled {
		app.Metrics = metrics.New()
	}

	logger := slog.Default()
	reader := readers.NewStore(pool)
	history := reports.NewStore(pool)

	var cache reports.Cache = reports.NewPGCache(pool)
	if cfg.RedisAddr != "" {
		app.Redis = goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := app.Redis.Ping(ctx).Err(); err != nil {
			app.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		cache = reports.NewRedisCache(app.Redis)
	}

	app.Reports = reports.NewService(reader, logger, reports.Options{
		Window:     cfg.ReportWindow,
		CacheTTL:   cfg.ReportCacheTTL,
		HistoryTTL: cfg.ExportHistoryTTL,
	}).WithCache(cache).WithHistory(history)
	app.Benchmarks = benchmark.NewService(reader, benchmark.NewStore(pool), logger)
	app.Integrity = integrity.NewService(reader, logger)
	app.Audit = audit.New(pool)

	var jobRecorder jobs.Recorder
	if app.Metrics != nil {
		app.Reports.WithRecorder(app.Metrics)
		jobRecorder = app.Metrics
	}
	app.Jobs = jobs.New(pool, cfg, app.Reports, app.Benchmarks, jobRecorder)

	app.Router = app.routes(history)
	return app, nil
}

func (a *App) routes(jobRuns reportshandler.JobRuns) http.Handler {
	cfg := a.Config
	perms := auth.NewStore(a.DB)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	if a.Metrics != nil {
		router.Use(middleware.Metrics(a.Metrics))
	}
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.DB.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if a.Redis != nil {
			if err := a.Redis.Ping(ctx).Err(); err != nil {
				http.Error(w, "cache not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if a.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", a.Metrics.Handler())
	}

	var limits []middleware.RateLimitOption
	if a.Redis != nil {
		limits = append(limits, middleware.WithCounter(middleware.NewRedisCounter(a.Redis, "hrinsight:ratelimit:")))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute, limits...))
		r.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute, limits...))

		reportshandler.NewHandler(a.Reports, jobRuns, a.Audit, perms).RegisterRoutes(r)
		benchmarkhandler.NewHandler(a.Benchmarks, a.Audit, perms).RegisterRoutes(r)
		integrityhandler.NewHandler(a.Integrity, perms).RegisterRoutes(r)
		audithandler.NewHandler(a.Audit, perms).RegisterRoutes(r)
	})

	return router
}

// Start launches the job worker and the configured schedules.
func (a *App) Start(ctx context.Context) {
	ctx, a.cancelJobs = context.WithCancel(ctx)
	a.Jobs.Start(ctx)
}

func (a *App) Close() {
	if a.cancelJobs != nil {
		a.cancelJobs()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

func Run() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer app.Close()
	app.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("report server listening", "addr", cfg.Addr, "env", cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
		}
	case <-ctx.Done():
		slog.Info("shutting down", "grace", cfg.ShutdownGracePeriod)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "err", err)
		}
	}
}
