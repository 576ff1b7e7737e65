package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mindcare/mindcare-be/internal/config"
	"github.com/mindcare/mindcare-be/internal/logging"
	"github.com/mindcare/mindcare-be/internal/server"
	"github.com/mindcare/mindcare-be/internal/storage"
	"github.com/mindcare/mindcare-be/internal/storage/memory"
	"github.com/mindcare/mindcare-be/internal/storage/postgres"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Info("no .env file found; relying on existing environment")
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("init storage", "storage", cfg.Storage, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	srv := server.New(cfg, server.Options{Store: store, Log: logger})

	go func() {
		logger.Info("MindCare backend listening", "addr", cfg.HTTPAddress(), "storage", cfg.Storage)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("graceful shutdown error", "error", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	if cfg.Storage == config.StorageMemory {
		return memory.New(), nil
	}
	return postgres.NewStore(ctx, cfg.DatabaseURL)
}
