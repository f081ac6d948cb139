package cmd

import (
	"fmt"

	"cashflow_backend/internal/database"

	"github.com/spf13/cobra"
)

var (
	seedFile    string
	seedMigrate bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load fixture users, contacts, inventory and transactions",
	Long: `Insert fixture rows that are not already present.

Without --file the built-in demo data is used: an admin and an employee
account, two contacts, two inventory items and one sale.

Example:
  cashflowctl seed
  cashflowctl seed --file fixtures.yaml --migrate`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML fixture file")
	seedCmd.Flags().BoolVar(&seedMigrate, "migrate", false, "apply the schema before seeding")
}

func runSeed(cmd *cobra.Command, args []string) error {
	data, err := loadSeed()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	cfg, db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if seedMigrate {
		if err := database.ApplySchema(ctx, db, cfg.Database.SchemaPath); err != nil {
			return err
		}
	}

	summary, err := database.Seed(ctx, db, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "inserted users=%d contacts=%d inventory=%d transactions=%d\n",
		summary.Users, summary.Contacts, summary.Inventory, summary.Transactions)
	return nil
}

func loadSeed() (*database.SeedData, error) {
	if seedFile == "" {
		return database.DefaultSeed()
	}
	return database.LoadSeedFile(seedFile)
}
