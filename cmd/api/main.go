package main

import (
	"os"

	"github.com/yigit/coursehub/internal/pkg/logger"
	"github.com/yigit/coursehub/internal/server"
)

// @title CourseHub API
// @version 1.0
// @description Course records CRUD and filtered course reports

// @BasePath /
// @schemes http https

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
