package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gwi.com/voicepilot/internal/api"
	"gwi.com/voicepilot/internal/config"
	"gwi.com/voicepilot/internal/store"
)

func main() {
	pushSchemaOnly := flag.Bool("push-schema", false, "Push the schema to the database and exit")
	flag.Parse()

	if err := config.LoadConfig(); err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	cfg := config.AppConfig

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	opts := cfg.Client
	opts.Logger = logger
	client, err := store.New(opts)
	if err != nil {
		logger.Error("failed to create database client", "error", err)
		os.Exit(1)
	}
	defer client.Disconnect()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = client.Connect(ctx)
	if err == nil {
		err = client.PushSchema(ctx)
	}
	cancel()
	if err != nil {
		logger.Error("failed to initialize database", "provider", client.Provider(), "error", err)
		os.Exit(1)
	}
	if *pushSchemaOnly {
		logger.Info("schema pushed", "provider", client.Provider())
		return
	}

	router := api.NewRouter(api.NewAPIHandler(client, logger))

	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting server", "addr", serverAddr, "provider", client.Provider())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("could not listen", "addr", serverAddr, "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return
	}
	logger.Info("server exiting gracefully")
}
