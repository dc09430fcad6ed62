package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/roster/internal/export"
	"github.com/Rana718/roster/internal/seeder"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with sample records",
	Long: `
Generate fake consultants and customers and insert them. A fixed --seed gives
the same records every run. With --fixtures the records are read from a
JSON or YAML file instead.

Examples:
  roster seed
  roster seed --customers 500 --consultants 20 --seed 42
  roster seed --fixtures data/fixtures.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		dbURL, _ := cmd.Flags().GetString("db")
		adapter, err := openDatabase(ctx, cfg, dbURL)
		if err != nil {
			return err
		}
		defer adapter.Close()

		if cmd.Flags().Changed("fixtures") {
			path, _ := cmd.Flags().GetString("fixtures")
			// a bare --fixtures means the configured file
			if path = strings.TrimSpace(path); path == "" {
				path = cfg.FixturesPath
			}
			ds, err := export.LoadFixtures(path)
			if err != nil {
				return err
			}
			if err := adapter.InsertConsultants(ctx, ds.Consultants); err != nil {
				return fmt.Errorf("failed to load consultants: %w", err)
			}
			if err := adapter.InsertCustomers(ctx, ds.Customers); err != nil {
				return fmt.Errorf("failed to load customers: %w", err)
			}
			color.Green("✅ Loaded %d consultants and %d customers from %s",
				len(ds.Consultants), len(ds.Customers), path)
			return nil
		}

		customers, _ := cmd.Flags().GetInt("customers")
		consultants, _ := cmd.Flags().GetInt("consultants")
		seed, _ := cmd.Flags().GetInt64("seed")
		if customers < 0 || consultants < 0 {
			return fmt.Errorf("record counts cannot be negative")
		}

		_, err = seeder.NewSeeder(adapter, cmd.OutOrStdout()).Seed(ctx, seeder.SeedConfig{
			Customers:   customers,
			Consultants: consultants,
			Seed:        seed,
		})
		if err != nil {
			return err
		}
		color.Green("🎉 Seeding completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().Int("customers", 50, "Number of customers to generate")
	seedCmd.Flags().Int("consultants", 8, "Number of consultants to generate")
	seedCmd.Flags().Int64("seed", 0, "Random seed (0 picks one)")
	seedCmd.Flags().String("fixtures", "", "Load records from a JSON or YAML file instead (default from config)")
	seedCmd.Flags().Lookup("fixtures").NoOptDefVal = " "
	seedCmd.Flags().String("db", "", "Database URL (overrides config/env)")
}
