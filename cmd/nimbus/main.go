// Package main is the entry point for the Nimbus terrain viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/nimbus/internal/app"
	"github.com/Faultbox/nimbus/internal/config"
	"github.com/Faultbox/nimbus/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Nimbus ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if path := config.ExportHeightmapPath(); path != "" {
		if err := app.ExportHeightmap(cfg, path); err != nil {
			logger.Error("heightmap export failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	a, err := app.New(cfg)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
