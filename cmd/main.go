package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/solen/qflick/internal/adapters/catalog"
	"github.com/solen/qflick/internal/adapters/http/api"
	"github.com/solen/qflick/internal/adapters/http/swagger"
	"github.com/solen/qflick/internal/adapters/refine"
	"github.com/solen/qflick/internal/adapters/soundtrack"
	app "github.com/solen/qflick/internal/app"
	"github.com/solen/qflick/internal/config"
	"github.com/solen/qflick/pkg/logger"
	"github.com/solen/qflick/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 15 * time.Second
	writeTimeout           = 30 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	systemMetricsInterval  = 10 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics;
	// system metrics are collected by the updater below instead.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Local development keys live in .env; absence is fine.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	upstreamTimeout := time.Duration(cfg.UpstreamTimeoutMS) * time.Millisecond

	tmdb := catalog.New(
		catalog.WithAPIKey(cfg.TMDBAPIKey),
		catalog.WithBaseURL(cfg.TMDBBaseURL),
		catalog.WithTimeout(upstreamTimeout),
	)
	lastfm := soundtrack.New(
		soundtrack.WithAPIKey(cfg.LastFMAPIKey),
		soundtrack.WithBaseURL(cfg.LastFMBaseURL),
		soundtrack.WithTimeout(upstreamTimeout),
	)
	refiner := refine.New(cfg.OpenAIAPIKey, refine.WithModel(cfg.OpenAIModel))
	if !refiner.Enabled() {
		log.Warn(ctx, "openai key not configured; refinement and enrichment disabled")
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithCatalog(tmdb),
		app.WithRefiner(refiner),
		app.WithSoundtrack(lastfm),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.HistoryQueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithRecentSize(cfg.RecentSize),
		app.WithRankingWeights(cfg.MatchWeight, cfg.PopularityWeight, cfg.TunnelingMargin),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	apiServer := api.NewServer(svc, svc, cfg.MaxLeaderboardLimit)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater updates memory and goroutine gauges on a timer.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			metrics.UpdateSystemMemoryUsage(m.Alloc)
			metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
		}
	}
}

// startServiceMetricsUpdater mirrors service stats into gauges on a timer.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := svc.GetStats()
			metrics.UpdateQueueSize(stats.QueueLength)
			metrics.UpdateWorkerCount(stats.WorkerCount)
		}
	}
}
