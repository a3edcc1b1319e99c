package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all catalogue data",
	Long: `Delete every project, photo, like, carousel slide, and contact
message. Accounts are kept. Asset files on disk are not touched; run
"archubctl orphans --prune" afterwards to remove them.`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation prompt")
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		fmt.Print("This deletes all projects, photos, likes, slides, and messages. Continue? [y/N] ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return err
		}
		if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
			fmt.Println("Aborted")
			return nil
		}
	}

	database, sqlDB, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	// Likes and photos cascade from project, but clear them explicitly
	// so the counts reported below are exact.
	for _, table := range []string{"project_likes", "photo", "project", "carousel_image", "contact_messages"} {
		res, err := sqlDB.Exec("DELETE FROM " + table)
		if err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
		affected, _ := res.RowsAffected()
		fmt.Printf("Cleared %-18s %d rows\n", table, affected)
	}

	return nil
}
