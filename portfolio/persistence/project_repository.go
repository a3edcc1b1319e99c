package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/archub/portfolio/portfolio/domain"
	"github.com/archub/portfolio/shared/db"
)

var _ domain.ProjectRepository = (*SQLiteProjectRepository)(nil)

// SQLiteProjectRepository implements domain.ProjectRepository using SQL
// database (SQLite). It touches rows only; asset files are the media
// store's business.
type SQLiteProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new SQLiteProjectRepository from a standard sql.DB
func NewProjectRepository(sqlDB *sql.DB) *SQLiteProjectRepository {
	return &SQLiteProjectRepository{
		db: sqlDB,
	}
}

const insertProjectQuery = `
	INSERT INTO project (area, main_image_url)
	VALUES (?, ?)
`

// InsertProject creates a project row and returns its ID
func (r *SQLiteProjectRepository) InsertProject(ctx context.Context, area, mainImageURL string) (int64, error) {
	if area == "" {
		return 0, &domain.ValidationError{Message: "project area cannot be empty"}
	}

	executor := db.GetExecutor(ctx, r.db)
	res, err := executor.ExecContext(ctx, insertProjectQuery, area, mainImageURL)
	if err != nil {
		return 0, fmt.Errorf("failed to insert project: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read project id: %w", err)
	}

	return id, nil
}

const getProjectQuery = `
	SELECT id, area, main_image_url
	FROM project
	WHERE id = ?
`

const listPhotosForProjectQuery = `
	SELECT id, url, project_id
	FROM photo
	WHERE project_id = ?
	ORDER BY id
`

// GetProject retrieves a project with its photos in insertion order
func (r *SQLiteProjectRepository) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	executor := db.GetExecutor(ctx, r.db)

	project := &domain.Project{}
	err := executor.QueryRowContext(ctx, getProjectQuery, id).Scan(
		&project.ID,
		&project.Area,
		&project.MainImageURL,
	)

	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("project %d not found", id)}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	rows, err := executor.QueryContext(ctx, listPhotosForProjectQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		photo := &domain.Photo{}
		if err := rows.Scan(&photo.ID, &photo.URL, &photo.ProjectID); err != nil {
			return nil, fmt.Errorf("failed to scan photo row: %w", err)
		}
		project.Photos = append(project.Photos, photo)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photo rows: %w", err)
	}

	return project, nil
}

const listProjectsQuery = `
	SELECT id, area, main_image_url
	FROM project
	ORDER BY id
`

const listAllPhotosQuery = `
	SELECT id, url, project_id
	FROM photo
	ORDER BY project_id, id
`

// ListProjects retrieves every project with its photos attached. Photos
// are fetched in one query for the whole result, not per project.
func (r *SQLiteProjectRepository) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	executor := db.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, listProjectsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]*domain.Project, 0)
	byID := make(map[int64]*domain.Project)
	for rows.Next() {
		project := &domain.Project{}
		if err := rows.Scan(&project.ID, &project.Area, &project.MainImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, project)
		byID[project.ID] = project
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	photoRows, err := executor.QueryContext(ctx, listAllPhotosQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer photoRows.Close()

	for photoRows.Next() {
		photo := &domain.Photo{}
		if err := photoRows.Scan(&photo.ID, &photo.URL, &photo.ProjectID); err != nil {
			return nil, fmt.Errorf("failed to scan photo row: %w", err)
		}
		if project, ok := byID[photo.ProjectID]; ok {
			project.Photos = append(project.Photos, photo)
		}
	}

	if err = photoRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photo rows: %w", err)
	}

	return projects, nil
}

const updateAreaQuery = `
	UPDATE project SET area = ? WHERE id = ?
`

// UpdateArea changes a project's display label
func (r *SQLiteProjectRepository) UpdateArea(ctx context.Context, id int64, area string) error {
	if area == "" {
		return &domain.ValidationError{Message: "project area cannot be empty"}
	}

	executor := db.GetExecutor(ctx, r.db)
	res, err := executor.ExecContext(ctx, updateAreaQuery, area, id)
	if err != nil {
		return fmt.Errorf("failed to update project area: %w", err)
	}

	return requireRowAffected(res, fmt.Sprintf("project %d not found", id))
}

const updateMainImageQuery = `
	UPDATE project SET main_image_url = ? WHERE id = ?
`

// UpdateMainImage sets (or clears, with an empty url) the main image reference
func (r *SQLiteProjectRepository) UpdateMainImage(ctx context.Context, id int64, url string) error {
	executor := db.GetExecutor(ctx, r.db)
	res, err := executor.ExecContext(ctx, updateMainImageQuery, url, id)
	if err != nil {
		return fmt.Errorf("failed to update main image: %w", err)
	}

	return requireRowAffected(res, fmt.Sprintf("project %d not found", id))
}

const deleteProjectQuery = `
	DELETE FROM project WHERE id = ?
`

// DeleteProject removes the project row. Photo rows cascade at the
// relational layer (ON DELETE CASCADE), so no separate photo delete
// runs here.
func (r *SQLiteProjectRepository) DeleteProject(ctx context.Context, id int64) error {
	executor := db.GetExecutor(ctx, r.db)
	res, err := executor.ExecContext(ctx, deleteProjectQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return requireRowAffected(res, fmt.Sprintf("project %d not found", id))
}

const insertPhotoQuery = `
	INSERT INTO photo (url, project_id)
	VALUES (?, ?)
`

// InsertPhoto attaches a gallery photo row to a project
func (r *SQLiteProjectRepository) InsertPhoto(ctx context.Context, projectID int64, url string) (int64, error) {
	if url == "" {
		return 0, &domain.ValidationError{Message: "photo url cannot be empty"}
	}

	executor := db.GetExecutor(ctx, r.db)
	res, err := executor.ExecContext(ctx, insertPhotoQuery, url, projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert photo: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read photo id: %w", err)
	}

	return id, nil
}

const getPhotoByURLQuery = `
	SELECT id, url, project_id
	FROM photo
	WHERE url = ? AND project_id = ?
`

// GetPhotoByURL resolves a photo by reference within one project. A
// matching url under a different project is not found for this one.
func (r *SQLiteProjectRepository) GetPhotoByURL(ctx context.Context, projectID int64, url string) (*domain.Photo, error) {
	if url == "" {
		return nil, &domain.ValidationError{Message: "photo url cannot be empty"}
	}

	executor := db.GetExecutor(ctx, r.db)

	photo := &domain.Photo{}
	err := executor.QueryRowContext(ctx, getPhotoByURLQuery, url, projectID).Scan(
		&photo.ID,
		&photo.URL,
		&photo.ProjectID,
	)

	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("photo %s not found in project %d", url, projectID)}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}

	return photo, nil
}

const deletePhotoQuery = `
	DELETE FROM photo WHERE id = ?
`

// DeletePhoto removes a single photo row
func (r *SQLiteProjectRepository) DeletePhoto(ctx context.Context, id int64) error {
	executor := db.GetExecutor(ctx, r.db)
	res, err := executor.ExecContext(ctx, deletePhotoQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	return requireRowAffected(res, fmt.Sprintf("photo %d not found", id))
}

// requireRowAffected converts a zero-row mutation into a NotFoundError
func requireRowAffected(res sql.Result, message string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return &domain.NotFoundError{Message: message}
	}
	return nil
}
