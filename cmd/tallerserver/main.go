package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jetsetgo/taller-orders/internal/api"
	"github.com/jetsetgo/taller-orders/internal/catalog"
	"github.com/jetsetgo/taller-orders/internal/config"
	"github.com/jetsetgo/taller-orders/internal/logging"
	"github.com/jetsetgo/taller-orders/internal/workshop"
)

func main() {
	fmt.Println("Taller de autos - servidor de órdenes")
	fmt.Println("=====================================")

	envFiles := config.LoadDotEnv()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load config file: %v", err)
		log.Println("Using default configuration")
		cfg = config.Default()
		cfg.ConfigPath = "config.yaml"
	}
	cfg.ApplyEnv()

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Logger error: %v", err)
	}
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.String("config_path", cfg.ConfigPath),
		zap.Strings("env_files", envFiles),
		zap.String("storage", cfg.Storage.Driver),
		zap.Int("workers", cfg.Workshop.Workers))

	store, err := workshop.OpenStore(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		logger.Fatal("open order store", zap.Error(err))
	}
	defer store.Close()

	ws := workshop.New(store, catalog.New(workshop.DefaultTasks()), cfg.Workshop, logger)
	server := api.NewServer(cfg, ws, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("\nStarting server on http://localhost:%d\n", cfg.Server.Port)
	fmt.Println("Press Ctrl+C to stop")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	ws.Close()
}
