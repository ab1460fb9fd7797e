package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"ideaflow-backend/infrastructure/config"
	"ideaflow-backend/infrastructure/di"
	"ideaflow-backend/interfaces/http/rest"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	router := rest.NewRouter(container)
	handler := router.Setup()

	// WriteTimeout has to outlast the synchronous generation deadline,
	// otherwise long answers get cut off mid-response.
	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Generation.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		watcher := config.NewWatcher(path, func(updated *config.Config) {
			container.Logger.Info("Configuration file reloaded",
				zap.String("path", path),
				zap.String("log_level", updated.LogLevel),
			)
		}, container.Logger)
		go func() {
			if err := watcher.Watch(ctx); err != nil {
				container.Logger.Warn("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	go func() {
		container.Logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	container.Logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Server shutdown error", zap.Error(err))
	}

	if err := container.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Server stopped")
}
