package main

import (
	"fmt"
	"os"

	"github.com/LT1923/4c2025/internal/app"
	"github.com/LT1923/4c2025/internal/config"
	"github.com/LT1923/4c2025/internal/logger"
	"github.com/LT1923/4c2025/internal/server"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.GetLogger()

	a, err := app.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize")
	}
	defer a.Close()

	srv := server.New(a, log, version)

	log.Info().Str("version", version).Str("storage", cfg.Storage.Backend).Msg("Starting photo album web front...")

	// Start HTTP server (this blocks)
	if err := srv.Start(); err != nil {
		log.Error().Err(err).Msg("Server failed")
		os.Exit(1)
	}
}
