package main

import (
	"os"

	"github.com/yigit/qpaper/internal/pkg/logger"
	"github.com/yigit/qpaper/internal/server"
)

func main() {
	// NewServer loads the configuration, opens and migrates the database and builds the router
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until SIGINT/SIGTERM or a listener failure
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
