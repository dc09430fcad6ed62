package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Rana718/roster/internal/logger"
	"github.com/Rana718/roster/internal/models"
	"github.com/Rana718/roster/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse [customers|consultants]",
	Short: "Browse a table in the terminal",
	Long: `
Page through and search customers or consultants in the terminal.

Keys:
  ←/→      previous / next page
  g / G    first / last page
  1-9      jump to page
  /        search (enter applies now, esc leaves the box)
  q        quit

Examples:
  roster browse
  roster browse consultants --search anna
  roster browse customers --consultant 6f1c...`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(models.TableCustomers), string(models.TableConsultants)},
	RunE: func(cmd *cobra.Command, args []string) error {
		table, opts, err := tableArgs(cmd, args)
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dbURL, _ := cmd.Flags().GetString("db")
		adapter, err := openDatabase(cmd.Context(), cfg, dbURL)
		if err != nil {
			return err
		}
		defer adapter.Close()

		opts.PageSize = cfg.Table.PageSize
		opts.Debounce = cfg.Debounce()
		opts.Logger = logger.L().Named("tui")
		return tui.Run(cmd.Context(), adapter, table, opts)
	},
}

var listCmd = &cobra.Command{
	Use:   "list [customers|consultants]",
	Short: "Print one page of a table",
	Long: `
Print one page of customers or consultants and exit. A page past the end
prints the last page.

Examples:
  roster list --page 2
  roster list consultants --search sales --page-size 10`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(models.TableCustomers), string(models.TableConsultants)},
	RunE: func(cmd *cobra.Command, args []string) error {
		table, opts, err := tableArgs(cmd, args)
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dbURL, _ := cmd.Flags().GetString("db")
		adapter, err := openDatabase(cmd.Context(), cfg, dbURL)
		if err != nil {
			return err
		}
		defer adapter.Close()

		opts.PageSize = cfg.Table.PageSize
		if n, _ := cmd.Flags().GetInt("page-size"); n > 0 {
			opts.PageSize = n
		}

		width := 0
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
		return tui.Print(cmd.Context(), cmd.OutOrStdout(), adapter, table, opts, width)
	},
}

// tableArgs reads the table argument and the flags browse and list share.
func tableArgs(cmd *cobra.Command, args []string) (models.Table, tui.Options, error) {
	name, _ := cmd.Flags().GetString("table")
	if len(args) > 0 {
		name = args[0]
	}
	table, err := models.ParseTable(name)
	if err != nil {
		return "", tui.Options{}, fmt.Errorf("%w (want customers or consultants)", err)
	}

	var opts tui.Options
	opts.Page, _ = cmd.Flags().GetInt("page")
	opts.Search, _ = cmd.Flags().GetString("search")
	opts.Consultant, _ = cmd.Flags().GetString("consultant")
	return table, opts, nil
}

func init() {
	for _, c := range []*cobra.Command{browseCmd, listCmd} {
		rootCmd.AddCommand(c)
		c.Flags().StringP("table", "t", string(models.TableCustomers), "Table to show (customers or consultants)")
		c.Flags().IntP("page", "p", 1, "Page to open (1-based)")
		c.Flags().StringP("search", "s", "", "Initial search text")
		c.Flags().String("consultant", "", "Only customers of this internal consultant")
		c.Flags().String("db", "", "Database URL (overrides config/env)")
	}
	listCmd.Flags().Int("page-size", 0, "Rows per page (default from config)")
}
