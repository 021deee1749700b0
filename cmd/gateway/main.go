package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"shareit/internal/gateway"
	"shareit/internal/platform/config"
	"shareit/internal/platform/httpx"
	"shareit/internal/platform/logging"
	"shareit/internal/platform/metrics"
)

func main() {
	configPath := flag.String("config", "config/gateway.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, closer, err := logging.New(cfg.Logging, "shareit-gateway")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	if cfg.Gateway.BackendURL == "" {
		logger.Fatal().Msg("gateway backend_url is not set")
	}
	logger.Info().Str("backend", cfg.Gateway.BackendURL).Msg("starting gateway")

	client := gateway.NewClient(cfg.Gateway.BackendURL, time.Duration(cfg.Gateway.TimeoutSec)*time.Second)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	_ = r.SetTrustedProxies(nil)

	metrics.Register()
	r.Use(httpx.RequestID(), httpx.RequestLogger(logger), metrics.Middleware(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", metrics.Handler())

	gateway.RegisterRoutes(r, client)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Gateway.Port),
		Handler: r,
	}

	go func() {
		logger.Info().Int("port", cfg.Gateway.Port).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}
