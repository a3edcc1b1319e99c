package domain

import (
	"context"
	"time"
)

// CarouselImage is a landing-page slide. Its lifecycle is independent
// of any project; only the asset reference ties it to the store.
type CarouselImage struct {
	ID           int64
	URL          string
	DisplayOrder int
	IsActive     bool
	CreatedAt    time.Time
}

type CarouselRepository interface {
	InsertImage(ctx context.Context, img *CarouselImage) (int64, error)
	GetImage(ctx context.Context, id int64) (*CarouselImage, error)

	// ListActive returns active slides ordered by display order.
	ListActive(ctx context.Context) ([]*CarouselImage, error)
	ListAll(ctx context.Context) ([]*CarouselImage, error)
	SetActive(ctx context.Context, id int64, active bool) error
	DeleteImage(ctx context.Context, id int64) error
}
