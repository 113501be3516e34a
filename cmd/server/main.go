package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	echoapi "github.com/pilab-dev/taiga-bridge/api/echo"
	"github.com/pilab-dev/taiga-bridge/config"
	"github.com/pilab-dev/taiga-bridge/internal/metrics"
	"github.com/pilab-dev/taiga-bridge/internal/ratelimit"
	"github.com/pilab-dev/taiga-bridge/internal/reaper"
	"github.com/pilab-dev/taiga-bridge/internal/session"
	"github.com/pilab-dev/taiga-bridge/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		l.Fatal().Err(err).Msg("Failed to load configuration")
	}

	initLogger(cfg)
	log.Info().
		Str("http_port", cfg.HTTPPort).
		Str("log_level", cfg.LogLevel).
		Msg("Starting taiga-bridge server")

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.Register(registry)

	// Shared state
	store := session.NewStore()
	limiter := ratelimit.NewLimiter()

	// Services
	authSvc := services.NewAuthService(store, limiter)
	projectSvc := services.NewProjectService(store)
	storySvc := services.NewStoryService(store)
	taskSvc := services.NewTaskService(store)
	issueSvc := services.NewIssueService(store)
	epicSvc := services.NewEpicService(store)
	milestoneSvc := services.NewMilestoneService(store)
	wikiSvc := services.NewWikiService(store)

	// Background reapers. They have no shutdown hook; process exit ends them.
	sessionReaper := &reaper.Reaper{
		Name:     "session_cleanup",
		Interval: config.SessionCleanupInterval,
		Sweep: func() int {
			n := store.SweepExpired()
			if n > 0 {
				metrics.SessionsReapedTotal.Add(float64(n))
			}
			metrics.ActiveSessionsGauge.Set(float64(store.Len()))
			return n
		},
	}
	rateLimitReaper := &reaper.Reaper{
		Name:     "rate_limit_cleanup",
		Interval: config.RateLimitCleanupInterval,
		Sweep:    limiter.Sweep,
	}
	go sessionReaper.Run()
	go rateLimitReaper.Run()

	// HTTP server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomw.Recover())

	toolAPI := echoapi.NewToolAPI(
		authSvc, projectSvc, storySvc, taskSvc,
		issueSvc, epicSvc, milestoneSvc, wikiSvc)
	toolAPI.RegisterRoutes(e)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("HTTP server listening")
		if err := e.Start(":" + cfg.HTTPPort); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	log.Info().Msg("Server gracefully stopped")
}

func initLogger(cfg *config.ServerConfig) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		l.Warn().
			Str("configured_log_level", cfg.LogLevel).
			Msg("Invalid LOG_LEVEL configured, defaulting to 'info'")
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
