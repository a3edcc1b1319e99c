package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/archub/portfolio/portfolio/domain"
	"github.com/archub/portfolio/shared/db"
)

var _ domain.CarouselRepository = (*SQLiteCarouselRepository)(nil)

// SQLiteCarouselRepository implements domain.CarouselRepository using
// SQL database (SQLite)
type SQLiteCarouselRepository struct {
	db *sql.DB
}

// NewCarouselRepository creates a new SQLiteCarouselRepository from a standard sql.DB
func NewCarouselRepository(sqlDB *sql.DB) *SQLiteCarouselRepository {
	return &SQLiteCarouselRepository{
		db: sqlDB,
	}
}

const insertCarouselImageQuery = `
	INSERT INTO carousel_image (url, display_order, is_active, created_at)
	VALUES (?, ?, ?, ?)
`

// InsertImage creates a carousel slide row and returns its ID
func (r *SQLiteCarouselRepository) InsertImage(ctx context.Context, img *domain.CarouselImage) (int64, error) {
	if img == nil || img.URL == "" {
		return 0, &domain.ValidationError{Message: "carousel image url cannot be empty"}
	}

	createdAt := img.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	executor := db.GetExecutor(ctx, r.db)
	res, err := executor.ExecContext(ctx, insertCarouselImageQuery,
		img.URL,
		img.DisplayOrder,
		img.IsActive,
		createdAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert carousel image: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read carousel image id: %w", err)
	}

	return id, nil
}

const getCarouselImageQuery = `
	SELECT id, url, display_order, is_active, created_at
	FROM carousel_image
	WHERE id = ?
`

// GetImage retrieves a single carousel slide by ID
func (r *SQLiteCarouselRepository) GetImage(ctx context.Context, id int64) (*domain.CarouselImage, error) {
	executor := db.GetExecutor(ctx, r.db)

	var row carouselRow
	err := executor.QueryRowContext(ctx, getCarouselImageQuery, id).Scan(
		&row.ID,
		&row.URL,
		&row.DisplayOrder,
		&row.IsActive,
		&row.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("carousel image %d not found", id)}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get carousel image: %w", err)
	}

	return row.toDomain(), nil
}

const listActiveCarouselQuery = `
	SELECT id, url, display_order, is_active, created_at
	FROM carousel_image
	WHERE is_active = 1
	ORDER BY display_order, id
`

const listAllCarouselQuery = `
	SELECT id, url, display_order, is_active, created_at
	FROM carousel_image
	ORDER BY display_order, id
`

// ListActive returns active slides in display order
func (r *SQLiteCarouselRepository) ListActive(ctx context.Context) ([]*domain.CarouselImage, error) {
	return r.list(ctx, listActiveCarouselQuery)
}

// ListAll returns every slide in display order, active or not
func (r *SQLiteCarouselRepository) ListAll(ctx context.Context) ([]*domain.CarouselImage, error) {
	return r.list(ctx, listAllCarouselQuery)
}

func (r *SQLiteCarouselRepository) list(ctx context.Context, query string) ([]*domain.CarouselImage, error) {
	executor := db.GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list carousel images: %w", err)
	}
	defer rows.Close()

	images := make([]*domain.CarouselImage, 0)
	for rows.Next() {
		var row carouselRow
		if err := rows.Scan(&row.ID, &row.URL, &row.DisplayOrder, &row.IsActive, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan carousel row: %w", err)
		}
		images = append(images, row.toDomain())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating carousel rows: %w", err)
	}

	return images, nil
}

const setCarouselActiveQuery = `
	UPDATE carousel_image SET is_active = ? WHERE id = ?
`

// SetActive toggles whether a slide is shown
func (r *SQLiteCarouselRepository) SetActive(ctx context.Context, id int64, active bool) error {
	executor := db.GetExecutor(ctx, r.db)
	res, err := executor.ExecContext(ctx, setCarouselActiveQuery, active, id)
	if err != nil {
		return fmt.Errorf("failed to update carousel image: %w", err)
	}

	return requireRowAffected(res, fmt.Sprintf("carousel image %d not found", id))
}

const deleteCarouselImageQuery = `
	DELETE FROM carousel_image WHERE id = ?
`

// DeleteImage removes a slide row
func (r *SQLiteCarouselRepository) DeleteImage(ctx context.Context, id int64) error {
	executor := db.GetExecutor(ctx, r.db)
	res, err := executor.ExecContext(ctx, deleteCarouselImageQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete carousel image: %w", err)
	}

	return requireRowAffected(res, fmt.Sprintf("carousel image %d not found", id))
}

// carouselRow is a private struct used to scan database rows
type carouselRow struct {
	ID           int64        `db:"id"`
	URL          string       `db:"url"`
	DisplayOrder int          `db:"display_order"`
	IsActive     bool         `db:"is_active"`
	CreatedAt    sql.NullTime `db:"created_at"`
}

// toDomain converts a carouselRow to a domain.CarouselImage
func (cr *carouselRow) toDomain() *domain.CarouselImage {
	img := &domain.CarouselImage{
		ID:           cr.ID,
		URL:          cr.URL,
		DisplayOrder: cr.DisplayOrder,
		IsActive:     cr.IsActive,
	}

	if cr.CreatedAt.Valid {
		img.CreatedAt = cr.CreatedAt.Time
	}

	return img
}
