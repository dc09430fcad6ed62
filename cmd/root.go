package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Rana718/roster/internal/config"
	"github.com/Rana718/roster/internal/database"
	"github.com/Rana718/roster/internal/logger"
)

var (
	cfgFile string
	verbose bool
	Version = "0.3.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"",
		"   ██████╗  ██████╗ ███████╗████████╗███████╗██████╗ ",
		"   ██╔══██╗██╔═══██╗██╔════╝╚══██╔══╝██╔════╝██╔══██╗",
		"   ██████╔╝██║   ██║███████╗   ██║   █████╗  ██████╔╝",
		"   ██╔══██╗██║   ██║╚════██║   ██║   ██╔══╝  ██╔══██╗",
		"   ██║  ██║╚██████╔╝███████║   ██║   ███████╗██║  ██║",
		"   ╚═╝  ╚═╝ ╚═════╝ ╚══════╝   ╚═╝   ╚══════╝╚═╝  ╚═╝",
		"",
		"      Customers and consultants, page by page",
		"",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("                    ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "roster",
	Short: "Browse, search and export customer and consultant records",
	Long: `
roster keeps customer and consultant records in SQLite, PostgreSQL or MySQL
and lets you page through and search them from a web console or the terminal.

Database Support:
- PostgreSQL
- MySQL
- SQLite (embedded databases)`,

	SilenceUsage:      true,
	PersistentPreRunE: setupLogger,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("roster CLI version %s\n", Version)
			return
		}

		showBanner()
		fmt.Println()
		cmd.Help()
	},
}

func Execute() error {
	defer logger.Sync()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./roster.config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Log at debug level")
	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env")
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("roster.config")
	}

	viper.SetEnvPrefix("roster")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setupLogger(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return logger.Init(logger.Options{
		Level:     cfg.Log.Level,
		Verbose:   verbose,
		File:      cfg.Log.File,
		MaxSizeMB: cfg.Log.MaxSizeMB,
	})
}

// loadConfig reads and validates the project config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openDatabase connects to the configured database. A non-empty dbURL
// overrides the URL taken from the environment.
func openDatabase(ctx context.Context, cfg *config.Config, dbURL string) (database.Adapter, error) {
	if dbURL != "" {
		os.Setenv(cfg.Database.URLEnv, dbURL)
		fmt.Printf("📊 Using database: %s\n", maskDBURL(dbURL))
	}

	url, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, err
	}
	adapter, err := database.Open(ctx, cfg.Database.Provider, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return adapter, nil
}

// maskDBURL masks the middle of a database URL for display
func maskDBURL(url string) string {
	if len(url) < 20 {
		return "***"
	}
	return url[:10] + "***" + url[len(url)-10:]
}
