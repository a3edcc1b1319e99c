package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/archub/portfolio/portfolio/domain"
	"github.com/archub/portfolio/shared/db"
	"github.com/dfryer1193/mjolnir/utils/set"
)

var _ domain.LikeRepository = (*SQLiteLikeRepository)(nil)

// SQLiteLikeRepository implements domain.LikeRepository using SQL
// database (SQLite). Counts are always computed from project_likes;
// there is no cached counter to drift.
type SQLiteLikeRepository struct {
	db *sql.DB
}

// NewLikeRepository creates a new SQLiteLikeRepository from a standard sql.DB
func NewLikeRepository(sqlDB *sql.DB) *SQLiteLikeRepository {
	return &SQLiteLikeRepository{
		db: sqlDB,
	}
}

const likeExistsQuery = `
	SELECT 1 FROM project_likes WHERE user_id = ? AND project_id = ?
`

const insertLikeQuery = `
	INSERT INTO project_likes (user_id, project_id) VALUES (?, ?)
`

const deleteLikeQuery = `
	DELETE FROM project_likes WHERE user_id = ? AND project_id = ?
`

const countLikesQuery = `
	SELECT COUNT(*) FROM project_likes WHERE project_id = ?
`

// ToggleLike flips the (user, project) pair inside one transaction and
// returns the resulting state with the recomputed count. Toggling twice
// restores the original membership.
func (r *SQLiteLikeRepository) ToggleLike(ctx context.Context, userID, projectID int64) (bool, int, error) {
	var liked bool
	var count int

	err := db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)

		var exists int
		err := executor.QueryRowContext(txCtx, likeExistsQuery, userID, projectID).Scan(&exists)
		switch {
		case err == sql.ErrNoRows:
			if _, err := executor.ExecContext(txCtx, insertLikeQuery, userID, projectID); err != nil {
				return fmt.Errorf("failed to insert like: %w", err)
			}
			liked = true
		case err != nil:
			return fmt.Errorf("failed to check like: %w", err)
		default:
			if _, err := executor.ExecContext(txCtx, deleteLikeQuery, userID, projectID); err != nil {
				return fmt.Errorf("failed to delete like: %w", err)
			}
			liked = false
		}

		if err := executor.QueryRowContext(txCtx, countLikesQuery, projectID).Scan(&count); err != nil {
			return fmt.Errorf("failed to count likes: %w", err)
		}

		return nil
	})

	if err != nil {
		return false, 0, err
	}

	return liked, count, nil
}

// CountsForProjects returns like counts for all given projects with a
// single grouped query, whatever the batch size.
func (r *SQLiteLikeRepository) CountsForProjects(ctx context.Context, projectIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int)
	if len(projectIDs) == 0 {
		return counts, nil
	}

	placeholders := strings.Repeat("?,", len(projectIDs))
	placeholders = placeholders[:len(placeholders)-1]

	query := fmt.Sprintf(`
		SELECT project_id, COUNT(*)
		FROM project_likes
		WHERE project_id IN (%s)
		GROUP BY project_id
	`, placeholders)

	args := make([]any, len(projectIDs))
	for i, id := range projectIDs {
		args[i] = id
	}

	executor := db.GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var projectID int64
		var count int
		if err := rows.Scan(&projectID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan like count row: %w", err)
		}
		counts[projectID] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating like count rows: %w", err)
	}

	return counts, nil
}

const likedProjectIDsQuery = `
	SELECT project_id FROM project_likes WHERE user_id = ?
`

// LikedProjectIDs returns the user's liked-project set in one query
func (r *SQLiteLikeRepository) LikedProjectIDs(ctx context.Context, userID int64) (set.Set[int64], error) {
	executor := db.GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, likedProjectIDsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list liked projects: %w", err)
	}
	defer rows.Close()

	liked := set.New[int64]()
	for rows.Next() {
		var projectID int64
		if err := rows.Scan(&projectID); err != nil {
			return nil, fmt.Errorf("failed to scan liked project row: %w", err)
		}
		liked.Add(projectID)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating liked project rows: %w", err)
	}

	return liked, nil
}
