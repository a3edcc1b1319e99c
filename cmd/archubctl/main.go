// archubctl is the operator CLI for the portfolio catalogue: seeding,
// stats, clearing data, and asset orphan inspection.
package main

import (
	"database/sql"
	"os"

	"github.com/archub/portfolio/internal/config"
	"github.com/archub/portfolio/portfolio/media"
	"github.com/archub/portfolio/shared/db/sqlite"
	"github.com/spf13/cobra"
)

var appConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "archubctl",
	Short: "Manage the portfolio catalogue database and asset store",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		appConfig = config.Load()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(orphansCmd)
}

// openDatabase connects and migrates; the caller owns the close.
func openDatabase() (*sqlite.SQLiteDB, *sql.DB, error) {
	database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: appConfig.DatabasePath})
	if err := database.Connect(); err != nil {
		return nil, nil, err
	}
	return database, database.DB(), nil
}

func openStore() (*media.Sandbox, *media.Store, error) {
	sandbox, err := media.NewSandbox(appConfig.UploadRoot)
	if err != nil {
		return nil, nil, err
	}
	return sandbox, media.NewStore(sandbox, appConfig.AllowedExtensions, appConfig.MaxUploadBytes), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
