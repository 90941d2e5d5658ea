package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dosada05/swiss-tournament/config"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "swiss",
		Short: "Swiss-system tournament server",
		Long: `swiss keeps players, tournaments and match results, reports standings
and proposes Swiss pairings for the next round over a JSON API.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newHashPasswordCmd())

	return rootCmd
}

func newLogger(cfg *config.Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	return logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
