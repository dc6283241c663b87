// Package main provides the entry point for the Cost Service API server
// @title Hosterizer Cost Service
// @version 0.1.0
// @description Cost management and tracking service
// @BasePath /
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"costservice/internal/api/server"
	"costservice/internal/config"
	"costservice/internal/logger"
	"costservice/internal/models"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cost service: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Variables already in the environment take precedence over .env
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logCfg := logger.Config{Level: cfg.Log.Level}
	log, err := logger.New(logCfg)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	info := models.CostService
	if err := announce(logCfg, cfg.API.Port, info); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, info, log)
	if err := srv.Run(ctx); err != nil {
		log.Error("Server failed", logger.Error(err))
		return err
	}
	return nil
}

// announce writes the startup line at info level whatever LOG_LEVEL is
func announce(cfg logger.Config, port int, info models.ServiceInfo) error {
	startup, err := logger.New(cfg.CapLevel("info"))
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	startup.Info("Cost Service starting",
		logger.Int("port", port),
		logger.String("version", info.Version),
	)
	_ = startup.Sync()
	return nil
}
