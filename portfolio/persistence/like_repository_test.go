package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
)

func seedUser(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()
	res, err := db.Exec(
		"INSERT INTO users (username, email, password_hash) VALUES (?, ?, 'x')",
		name, name+"@example.com",
	)
	if err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func seedProject(t *testing.T, db *sql.DB, area string) int64 {
	t.Helper()
	res, err := db.Exec("INSERT INTO project (area) VALUES (?)", area)
	if err != nil {
		t.Fatalf("Failed to seed project: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func TestLikeRepository_ToggleTwiceRestoresState(t *testing.T) {
	db := setupCatalogueDB(t)
	defer db.Close()

	repo := NewLikeRepository(db)
	ctx := context.Background()

	userID := seedUser(t, db, "ana")
	projectID := seedProject(t, db, "120 sqm")

	liked, count, err := repo.ToggleLike(ctx, userID, projectID)
	if err != nil {
		t.Fatalf("First toggle failed: %v", err)
	}
	if !liked || count != 1 {
		t.Errorf("First toggle = (%v, %d), want (true, 1)", liked, count)
	}

	liked, count, err = repo.ToggleLike(ctx, userID, projectID)
	if err != nil {
		t.Fatalf("Second toggle failed: %v", err)
	}
	if liked || count != 0 {
		t.Errorf("Second toggle = (%v, %d), want (false, 0)", liked, count)
	}

	var pairs int
	if err := db.QueryRow("SELECT COUNT(*) FROM project_likes").Scan(&pairs); err != nil {
		t.Fatalf("Failed to count pairs: %v", err)
	}
	if pairs != 0 {
		t.Errorf("Pairs after double toggle = %d, want 0", pairs)
	}
}

func TestLikeRepository_CountsForProjects(t *testing.T) {
	db := setupCatalogueDB(t)
	defer db.Close()

	repo := NewLikeRepository(db)
	ctx := context.Background()

	// Seed an arbitrary like matrix: project i liked by the first i users.
	var users []int64
	for i := 0; i < 4; i++ {
		users = append(users, seedUser(t, db, fmt.Sprintf("user%d", i)))
	}
	var projects []int64
	for i := 0; i < 4; i++ {
		projects = append(projects, seedProject(t, db, fmt.Sprintf("p%d", i)))
	}
	for i, projectID := range projects {
		for _, userID := range users[:i] {
			if _, err := db.Exec("INSERT INTO project_likes (user_id, project_id) VALUES (?, ?)", userID, projectID); err != nil {
				t.Fatalf("Failed to seed like: %v", err)
			}
		}
	}

	counts, err := repo.CountsForProjects(ctx, projects)
	if err != nil {
		t.Fatalf("CountsForProjects failed: %v", err)
	}

	// Bulk counts must match a direct per-project count.
	for _, projectID := range projects {
		var direct int
		if err := db.QueryRow("SELECT COUNT(*) FROM project_likes WHERE project_id = ?", projectID).Scan(&direct); err != nil {
			t.Fatalf("Failed to count directly: %v", err)
		}
		if counts[projectID] != direct {
			t.Errorf("counts[%d] = %d, want %d", projectID, counts[projectID], direct)
		}
	}
}

func TestLikeRepository_CountsForProjects_EmptyBatch(t *testing.T) {
	db := setupCatalogueDB(t)
	defer db.Close()

	repo := NewLikeRepository(db)

	counts, err := repo.CountsForProjects(context.Background(), nil)
	if err != nil {
		t.Fatalf("CountsForProjects failed: %v", err)
	}
	if len(counts) != 0 {
		t.Errorf("Counts for empty batch = %v, want empty", counts)
	}
}

func TestLikeRepository_LikedProjectIDs(t *testing.T) {
	db := setupCatalogueDB(t)
	defer db.Close()

	repo := NewLikeRepository(db)
	ctx := context.Background()

	userID := seedUser(t, db, "nino")
	otherID := seedUser(t, db, "gio")
	liked := seedProject(t, db, "liked")
	unliked := seedProject(t, db, "unliked")

	if _, _, err := repo.ToggleLike(ctx, userID, liked); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if _, _, err := repo.ToggleLike(ctx, otherID, unliked); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	ids, err := repo.LikedProjectIDs(ctx, userID)
	if err != nil {
		t.Fatalf("LikedProjectIDs failed: %v", err)
	}

	if !ids.Contains(liked) {
		t.Errorf("Expected project %d in liked set", liked)
	}
	if ids.Contains(unliked) {
		t.Errorf("Did not expect project %d in liked set", unliked)
	}
}
