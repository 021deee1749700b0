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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"

	"shareit/internal/bookings"
	"shareit/internal/items"
	"shareit/internal/platform/config"
	"shareit/internal/platform/db"
	"shareit/internal/platform/httpx"
	"shareit/internal/platform/logging"
	"shareit/internal/platform/metrics"
	"shareit/internal/requests"
	"shareit/internal/users"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, closer, err := logging.New(cfg.Logging, "shareit-server")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	logger.Info().Str("mode", cfg.Mode).Msg("starting server")

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to database")
	}
	defer conn.Close()
	logger.Info().Str("db", cfg.DB.DBName).Msg("connected to database")

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	_ = r.SetTrustedProxies(nil)

	metrics.Register()
	r.Use(httpx.RequestID(), httpx.RequestLogger(logger), metrics.Middleware(), gin.Recovery())

	if cfg.Mode == "dev" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  []string{"http://localhost:3000"},
			AllowHeaders:  []string{"Origin", "Content-Type", httpx.HeaderUserID, httpx.HeaderRequestID},
			ExposeHeaders: []string{"Content-Length", httpx.HeaderRequestID},
			AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", metrics.Handler())

	users.RegisterRoutes(r, users.NewService(conn, logger))
	items.RegisterRoutes(r, items.NewService(conn, logger))
	bookings.RegisterRoutes(r, bookings.NewService(conn, logger))
	requests.RegisterRoutes(r, requests.NewService(conn, logger))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("listening")
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
