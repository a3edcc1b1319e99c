package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print row counts for every table",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	database, sqlDB, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	tables := []string{"project", "photo", "users", "project_likes", "carousel_image", "contact_messages"}
	for _, table := range tables {
		var count int
		if err := sqlDB.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			return fmt.Errorf("failed to count %s: %w", table, err)
		}
		fmt.Printf("%-18s %d\n", table, count)
	}

	return nil
}
