package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"sessionctl/internal/config"
	"sessionctl/internal/logging"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "sessionctl",
	Short: "Bulk terminal-session import and inventory export",
	Long: `sessionctl creates terminal-session configuration entries in bulk
from delimited text files, and exports monitored-device inventory into
the session formats of common terminal clients.`,
	SilenceUsage: true,
}

// Execute runs the root command, exiting non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

// initConfig loads .env (when present) and the environment config
// before any subcommand runs.
func initConfig() {
	// Missing .env is fine; explicit settings win over the file.
	_ = godotenv.Load()

	loaded, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sessionctl: %v\n", err)
		os.Exit(1)
	}
	cfg = loaded

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
}
