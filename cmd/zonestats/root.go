// cmd/zonestats/root.go

package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"denguecero/internal/config"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "zonestats",
	Short: "Offline zone statistics for exported self-assessments",
	Long:  "Clusters a JSON export of self-assessment records with the same pipeline as the API and prints zone statistics.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.InitLogger(config.LogConfig{Level: logLevel, Format: "console"}); err != nil {
			return eris.Wrap(err, "init logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
