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
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"teamstats/internal/domain/dashboard"
	"teamstats/internal/domain/reports"
	"teamstats/internal/platform/breaker"
	"teamstats/internal/platform/cache"
	"teamstats/internal/platform/config"
	"teamstats/internal/platform/jobs"
	"teamstats/internal/platform/metrics"
	"teamstats/internal/platform/sheets"
	dashboardhandler "teamstats/internal/transport/http/handlers/dashboard"
	employeeshandler "teamstats/internal/transport/http/handlers/employees"
	jobshandler "teamstats/internal/transport/http/handlers/jobs"
	reportshandler "teamstats/internal/transport/http/handlers/reports"
	"teamstats/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	Router  http.Handler
	Source  *sheets.Source
	Jobs    *jobs.Service
	Metrics *metrics.Collector

	cancel  context.CancelFunc
	closers []func() error
}

// New wires the sheet source, its cache, the refresh worker and every HTTP route.
// The refresh worker runs until Close is called.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	collector := metrics.New()
	app := &App{Config: cfg, Metrics: collector}

	store, err := newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		app.closers = append(app.closers, closer.Close)
	}

	app.Source = sheets.New(sheets.Options{
		Location: cfg.SourceURL,
		Timeout:  cfg.SourceTimeout,
		CacheTTL: cfg.SourceCacheTTL,
		Cache:    store,
		Breaker: breaker.Settings{
			Failures: uint32(cfg.BreakerFailures),
			Timeout:  cfg.BreakerTimeout,
		},
		Metrics: collector,
	})

	app.Jobs = jobs.New(jobs.Options{
		RefreshInterval: cfg.SourceRefreshInterval,
		Refresh:         refreshSheet(app.Source),
		Metrics:         collector,
	})
	workerCtx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	app.Jobs.Start(workerCtx)

	app.Router = app.routes()
	return app, nil
}

func newCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	if cfg.RedisURL != "" {
		store, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return store, nil
	}
	return cache.NewLRU(cfg.CacheSize)
}

// refreshSheet drops the cached export and reloads it, reporting how many employees were built.
func refreshSheet(source *sheets.Source) jobs.RunFunc {
	return func(ctx context.Context) (any, error) {
		if err := source.Invalidate(ctx); err != nil {
			return nil, err
		}
		list, err := source.Employees(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]int{"employees": len(list)}, nil
	}
}

func (a *App) routes() http.Handler {
	cfg := a.Config
	viewOpts := dashboard.Options{
		MinTasks:        cfg.TopMinTasks,
		TopLimit:        cfg.TopLimit,
		DetailTaskLimit: cfg.DetailTaskLimit,
	}
	reportOpts := reports.DefaultOptions()
	reportOpts.MinTasks = cfg.TopMinTasks
	reportOpts.TopLimit = cfg.TopLimit

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(a.Metrics))
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if _, err := a.Source.Rows(ctx); err != nil {
			slog.Warn("readiness check failed", "err", err)
			http.Error(w, "source not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Handle("/metrics", a.Metrics.Handler())
	}

	employeesHandler := employeeshandler.NewHandler(a.Source, viewOpts)
	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.CORS)
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.MutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

		employeesHandler.RegisterRawRoutes(r)

		r.Route("/v1", func(r chi.Router) {
			employeesHandler.RegisterRoutes(r)
			reportshandler.NewHandler(a.Source, reportOpts, reports.PDFOptions{FontPath: cfg.PDFFontPath}).RegisterRoutes(r)
			jobshandler.NewHandler(a.Jobs).RegisterRoutes(r)
		})
	})

	dashboardhandler.NewHandler(a.Source, viewOpts).RegisterRoutes(router)
	return router
}

// Close stops the refresh worker and releases the cache connection.
func (a *App) Close() error {
	if a.cancel != nil {
		a.cancel()
	}
	var errs []error
	for _, closer := range a.closers {
		if err := closer(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func Run() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			slog.Warn("shutdown cleanup failed", "err", err)
		}
		slog.Info("server stopped", "metrics", app.Metrics.Snapshot())
	}()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("teamstats server listening", "addr", cfg.Addr, "source", app.Source.Location())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("graceful shutdown failed", "err", err)
		}
	}
}
