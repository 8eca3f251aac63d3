package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoreira/pulse/internal/config"
	"github.com/jmoreira/pulse/internal/database"
	"github.com/jmoreira/pulse/internal/deliver"
	"github.com/jmoreira/pulse/internal/presence"
	"github.com/jmoreira/pulse/internal/router"
	"github.com/jmoreira/pulse/internal/server"
	"github.com/jmoreira/pulse/internal/session"
	"github.com/jmoreira/pulse/internal/store"
	"github.com/jmoreira/pulse/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/pulse.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting pulsed",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Postgres.Host,
		"port", cfg.Database.Postgres.Port,
		"database", cfg.Database.Postgres.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Durable stores (writes happen strictly before any push attempt)
	messageStore := store.NewMessages(pool, logger)
	notificationStore := store.NewNotifications(pool, logger)

	// Realtime core
	registry := presence.NewRegistry(cfg.Presence.ChangeBuffer, logger)
	broadcaster := presence.NewBroadcaster(registry, logger)
	eventRouter := router.New(registry, logger)
	messages := deliver.NewMessages(eventRouter, logger)
	notifications := deliver.NewNotifications(eventRouter, logger)

	if err := broadcaster.Start(ctx); err != nil {
		logger.Error("failed to start presence broadcaster", "error", err)
		os.Exit(1)
	}

	// HTTP surface
	srv := server.New(server.Options{
		Registry:          registry,
		Router:            eventRouter,
		Messages:          messages,
		Notifications:     notifications,
		MessageStore:      messageStore,
		NotificationStore: notificationStore,
		Sessions: session.Config{
			WriteTimeout: cfg.Sessions.WriteTimeout,
			PingInterval: cfg.Sessions.PingInterval,
			PongTimeout:  cfg.Sessions.PongTimeout,
			MaxFrameSize: cfg.Sessions.MaxFrameSize,
		},
		DB:     pool,
		Logger: logger,
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: srv.Handler(),
	}

	go func() {
		logger.Info("listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	httpServer.Shutdown(shutdownCtx)

	// Closing sessions ends each /ws handler, which unbinds as it returns.
	for _, sess := range registry.Sessions() {
		sess.Close()
	}

	broadcaster.Stop(shutdownCtx)

	logger.Info("pulsed stopped")
}
