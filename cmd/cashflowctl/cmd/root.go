// Package cmd provides the cashflowctl commands.
package cmd

import (
	"context"
	"database/sql"

	"cashflow_backend/internal/config"
	"cashflow_backend/internal/database"
	"cashflow_backend/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	envFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "cashflowctl",
	Short: "Administer the cash flow database",
	Long: `cashflowctl applies the database schema and loads fixture data.

Example:
  cashflowctl migrate
  cashflowctl seed --file fixtures.yaml`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.InitLogger(logLevel, true)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "env file to load (default is .env when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// openDB loads configuration and connects to the configured database.
func openDB(ctx context.Context) (*config.Config, *sql.DB, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
