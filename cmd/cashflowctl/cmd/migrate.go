package cmd

import (
	"fmt"

	"cashflow_backend/internal/database"

	"github.com/spf13/cobra"
)

var schemaFile string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Apply the schema script. The script is idempotent and safe to re-run.

Example:
  cashflowctl migrate
  cashflowctl migrate --schema ./schema.sql`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&schemaFile, "schema", "", "schema file (default is the embedded schema or DB_SCHEMA_PATH)")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	path := schemaFile
	if path == "" {
		path = cfg.Database.SchemaPath
	}
	if err := database.ApplySchema(ctx, db, path); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
	return nil
}
