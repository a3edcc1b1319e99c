package main

import (
	"database/sql"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/archub/portfolio/portfolio/media"
	"github.com/dfryer1193/mjolnir/utils/set"
	"github.com/spf13/cobra"
)

var orphansPrune bool

var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "List asset files no row references",
	Long: `Walk the upload root and report files that no project, photo, or
carousel row references. With --prune the orphaned files are deleted.

Rows are the source of truth: a file without a row is waste, never
data, so pruning is always safe.`,
	RunE: runOrphans,
}

func init() {
	orphansCmd.Flags().BoolVar(&orphansPrune, "prune", false, "delete the orphaned files")
}

func runOrphans(cmd *cobra.Command, args []string) error {
	database, sqlDB, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	sandbox, store, err := openStore()
	if err != nil {
		return err
	}

	referenced, err := collectReferences(sqlDB)
	if err != nil {
		return err
	}

	orphans := make([]string, 0)
	err = filepath.WalkDir(sandbox.Root(), func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		rel, err := filepath.Rel(sandbox.Root(), path)
		if err != nil {
			return err
		}
		reference := media.URLPrefix + "/" + filepath.ToSlash(rel)
		if !referenced.Contains(reference) {
			orphans = append(orphans, reference)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk upload root: %w", err)
	}

	if len(orphans) == 0 {
		fmt.Println("No orphaned files")
		return nil
	}

	for _, reference := range orphans {
		if orphansPrune {
			if store.Delete(reference) {
				fmt.Printf("Pruned %s\n", reference)
			} else {
				fmt.Printf("Failed to prune %s\n", reference)
			}
		} else {
			fmt.Println(reference)
		}
	}

	if !orphansPrune {
		fmt.Printf("%d orphaned file(s); re-run with --prune to delete\n", len(orphans))
	}

	return nil
}

func collectReferences(sqlDB *sql.DB) (set.Set[string], error) {
	references := set.New[string]()

	queries := []string{
		"SELECT main_image_url FROM project WHERE main_image_url IS NOT NULL AND main_image_url != ''",
		"SELECT url FROM photo",
		"SELECT url FROM carousel_image",
	}
	for _, query := range queries {
		rows, err := sqlDB.Query(query)
		if err != nil {
			return nil, fmt.Errorf("failed to collect references: %w", err)
		}
		for rows.Next() {
			var url string
			if err := rows.Scan(&url); err != nil {
				rows.Close()
				return nil, err
			}
			references.Add(strings.TrimPrefix(url, "/"))
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}

	return references, nil
}
