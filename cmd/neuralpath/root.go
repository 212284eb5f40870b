package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonnyWalker81/neuralpath/backend/internal/config"
	"github.com/JonnyWalker81/neuralpath/backend/internal/logger"
)

// cfg is loaded once before any subcommand runs
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "neuralpath",
	Short: "NeuralPath API server and analysis tools",
	Long: `NeuralPath tracks daily mood, anxiety and lifestyle factors and
analyzes what helps. Run "serve" for the HTTP API, or use the offline
commands to generate, analyze and export record files.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(exportCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg = loaded

	logger.SetDefault(logger.New(logger.Config{
		Level:     logger.ParseLevel(cfg.Logging.Level),
		Format:    cfg.Logging.Format,
		Backend:   cfg.Logging.Backend,
		AddSource: cfg.Logging.AddSource,
		Output:    os.Stderr,
	}))
	return nil
}
