package sqlite

import (
	"database/sql"
	"fmt"
)

// migration represents a single database migration
type migration struct {
	version int
	name    string
	up      string
}

// migrations is the ordered list of all database migrations
// Each migration should be idempotent and safe to run multiple times
var migrations = []migration{
	{
		version: 1,
		name:    "create_catalogue_tables",
		up: `
			CREATE TABLE IF NOT EXISTS project (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				area TEXT NOT NULL,
				main_image_url TEXT NOT NULL DEFAULT ''
			);

			CREATE TABLE IF NOT EXISTS photo (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				url TEXT NOT NULL,
				project_id INTEGER NOT NULL
					REFERENCES project(id) ON DELETE CASCADE
			);

			CREATE INDEX IF NOT EXISTS idx_photo_project_id
			ON photo(project_id);
		`,
	},
	{
		version: 2,
		name:    "create_users_and_likes",
		up: `
			CREATE TABLE IF NOT EXISTS users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				username TEXT NOT NULL UNIQUE,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				is_admin INTEGER NOT NULL DEFAULT 0
			);

			CREATE TABLE IF NOT EXISTS project_likes (
				user_id INTEGER NOT NULL
					REFERENCES users(id) ON DELETE CASCADE,
				project_id INTEGER NOT NULL
					REFERENCES project(id) ON DELETE CASCADE,
				PRIMARY KEY (user_id, project_id)
			);

			CREATE INDEX IF NOT EXISTS idx_project_likes_project_id
			ON project_likes(project_id);
		`,
	},
	{
		version: 3,
		name:    "create_carousel_images",
		up: `
			CREATE TABLE IF NOT EXISTS carousel_image (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				url TEXT NOT NULL,
				display_order INTEGER NOT NULL DEFAULT 0,
				is_active INTEGER NOT NULL DEFAULT 1,
				created_at TIMESTAMP NOT NULL
			);

			CREATE INDEX IF NOT EXISTS idx_carousel_image_order
			ON carousel_image(display_order)
			WHERE is_active = 1;
		`,
	},
	{
		version: 4,
		name:    "create_contact_messages",
		up: `
			CREATE TABLE IF NOT EXISTS contact_messages (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				sender_email TEXT NOT NULL,
				message TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL
			);
		`,
	},
}

// runMigrations executes all pending migrations
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	currentVersion := 0
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue // Already applied
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", m.version, err)
		}

		_, err = tx.Exec(m.up)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %d (%s): %w", m.version, m.name, err)
		}

		_, err = tx.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			m.version,
			m.name,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
		}
	}

	return nil
}
