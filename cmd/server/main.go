package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gbridge/server/internal/cache"
	"github.com/gbridge/server/internal/config"
	"github.com/gbridge/server/internal/database"
	"github.com/gbridge/server/internal/game"
	"github.com/gbridge/server/internal/handlers"
	"github.com/gbridge/server/internal/room"
	"github.com/gbridge/server/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	if cfg.Env == "development" {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Postgres and Redis are optional: without them the server runs
	// in-memory only, with no move log or game archive.
	if cfg.DatabaseURL != "" {
		if err := database.Connect(context.Background(), cfg.DatabaseURL); err != nil {
			logrus.WithError(err).Warn("postgres unavailable, continuing without persistence")
		} else {
			defer database.Close()
		}
	}
	if cfg.RedisAddr != "" {
		if err := cache.InitRedis(cfg.RedisAddr); err != nil {
			logrus.WithError(err).Warn("redis unavailable, continuing without move log")
		}
	}

	rooms := room.NewService()
	registry := game.NewRegistry()

	api := &handlers.API{
		JWTSecret:  cfg.JWTSecret,
		CORSOrigin: cfg.CORSOrigin,
		Rooms:      rooms,
	}
	wsServer := ws.NewServer(cfg.JWTSecret, rooms, registry)

	mux := http.NewServeMux()
	mux.Handle("/ws", wsServer)
	handler := api.Register(mux)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	go func() {
		logrus.WithField("addr", cfg.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logrus.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
}
