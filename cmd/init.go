package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/roster/internal/config"
	"github.com/Rana718/roster/template"
)

var (
	sqliteFlag     bool
	postgresqlFlag bool
	mysqlFlag      bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new roster project",
	Long:  `Write roster.config.json, a DATABASE_URL entry in .env and the data directories.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbType := template.SQLite
		flagCount := 0

		if sqliteFlag {
			dbType = template.SQLite
			flagCount++
		}
		if postgresqlFlag {
			dbType = template.PostgreSQL
			flagCount++
		}
		if mysqlFlag {
			dbType = template.MySQL
			flagCount++
		}

		if flagCount > 1 {
			return fmt.Errorf("please specify only one database type (--sqlite, --postgresql, or --mysql)")
		}

		if err := config.InitializeProject(string(dbType)); err != nil {
			return err
		}

		color.Green("✅ Successfully initialized roster project with %s database support", dbType)
		fmt.Println()
		fmt.Println("📁 Project structure created:")
		for _, dir := range template.NewProjectTemplate(dbType).GetDirectoryStructure() {
			fmt.Printf("   %s/\n", dir)
		}
		fmt.Println()
		fmt.Println("📝 Configuration file created:")
		fmt.Printf("   %s\n", config.FileName)

		if os.Getenv("DATABASE_URL") != "" {
			fmt.Println()
			fmt.Println("ℹ️  Using existing DATABASE_URL from environment")
		}

		fmt.Println()
		fmt.Printf("🚀 Next steps:\n")
		fmt.Printf("   roster seed      # Fill the database with sample records\n")
		fmt.Printf("   roster serve     # Open the web console\n")
		fmt.Printf("   roster browse    # Browse from the terminal\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&sqliteFlag, "sqlite", false, "Initialize project for SQLite database")
	initCmd.Flags().BoolVar(&postgresqlFlag, "postgresql", false, "Initialize project for PostgreSQL database")
	initCmd.Flags().BoolVar(&mysqlFlag, "mysql", false, "Initialize project for MySQL database")
}
