package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/roster/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all customers and consultants",
	Long: `
Export every customer and consultant to a timestamped file under export_path.
Supported formats: json (default), yaml, csv, sqlite

Examples:
  roster export
  roster export --sqlite
  roster export --csv
  roster export --format yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err := cfg.EnsureDirectories(); err != nil {
			return fmt.Errorf("failed to create directories: %w", err)
		}

		// Determine format from flags
		name, _ := cmd.Flags().GetString("format")
		if csv, _ := cmd.Flags().GetBool("csv"); csv {
			name = "csv"
		} else if sqlite, _ := cmd.Flags().GetBool("sqlite"); sqlite {
			name = "sqlite"
		} else if jsonFlag, _ := cmd.Flags().GetBool("json"); jsonFlag {
			name = "json"
		}
		format, err := export.ParseFormat(name)
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

		exportPath, err := export.PerformExport(ctx, adapter, cfg.ExportPath, format, time.Now())
		if err != nil {
			return err
		}

		color.Green("✅ Export completed: %s", exportPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("format", "json", "Export format (json, yaml, csv, sqlite)")
	exportCmd.Flags().BoolP("json", "j", false, "Export as JSON")
	exportCmd.Flags().BoolP("csv", "c", false, "Export as CSV")
	exportCmd.Flags().BoolP("sqlite", "s", false, "Export as SQLite")
	exportCmd.Flags().String("db", "", "Database URL (overrides config/env)")
}
