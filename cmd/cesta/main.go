package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dukerupert/cesta/internal/config"
	"github.com/dukerupert/cesta/internal/logging"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "cesta",
	Short: "Cesta - shared shopping lists with price tracking",
	Long: `Cesta keeps a catalog of products and the prices they sell for at
different stores, and shared shopping lists that remember which store each
item should be bought at.

Configuration comes from CESTA_* environment variables, optionally loaded
from a .env file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load when present")

	rootCmd.AddCommand(serveCmd, migrateCmd, userCmd)
}

// loadConfig reads configuration and installs the default logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel)
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
