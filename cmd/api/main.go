package main

import (
	"os"

	"github.com/yigit/registrar/internal/pkg/logger"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Use the default logger setup by the logger package's init
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
