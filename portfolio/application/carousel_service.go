package application

import (
	"context"
	"database/sql"
	"time"

	"github.com/archub/portfolio/portfolio/domain"
	"github.com/archub/portfolio/portfolio/media"
	"github.com/archub/portfolio/shared/db"
	"github.com/rs/zerolog/log"
)

// CarouselService manages landing-page slides with the same
// store-before-insert and delete-row-then-file ordering as the
// catalogue.
type CarouselService struct {
	db       *sql.DB
	carousel domain.CarouselRepository
	store    UploadStore
}

// NewCarouselService wires the service over the carousel repository and
// the upload store.
func NewCarouselService(sqlDB *sql.DB, carousel domain.CarouselRepository, store UploadStore) *CarouselService {
	return &CarouselService{
		db:       sqlDB,
		carousel: carousel,
		store:    store,
	}
}

// AddSlide stores the upload and inserts the slide row. A row failure
// discards the freshly stored file.
func (s *CarouselService) AddSlide(ctx context.Context, upload *domain.Upload, displayOrder int) (*domain.CarouselImage, error) {
	if upload == nil {
		return nil, &domain.ValidationError{Message: "carousel image file is required"}
	}

	url, err := s.store.Save(upload, media.CategoryCarousel)
	if err != nil {
		return nil, err
	}

	img := &domain.CarouselImage{
		URL:          url,
		DisplayOrder: displayOrder,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	err = db.RunInTransaction(ctx, s.db, func(txCtx context.Context) error {
		id, err := s.carousel.InsertImage(txCtx, img)
		if err != nil {
			return err
		}
		img.ID = id
		return nil
	})
	if err != nil {
		if !s.store.Delete(url) {
			log.Warn().Str("reference", url).Msg("Failed to discard stored file after rollback")
		}
		return nil, err
	}

	return img, nil
}

// ActiveSlides returns the active slides in display order.
func (s *CarouselService) ActiveSlides(ctx context.Context) ([]*domain.CarouselImage, error) {
	return s.carousel.ListActive(ctx)
}

// AllSlides returns every slide, active or not.
func (s *CarouselService) AllSlides(ctx context.Context) ([]*domain.CarouselImage, error) {
	return s.carousel.ListAll(ctx)
}

// SetSlideActive toggles a slide's visibility.
func (s *CarouselService) SetSlideActive(ctx context.Context, id int64, active bool) error {
	return db.RunInTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.carousel.SetActive(txCtx, id, active)
	})
}

// DeleteSlide removes the row, commits, then deletes the file. A file
// failure surfaces as a warning reference, never an error.
func (s *CarouselService) DeleteSlide(ctx context.Context, id int64) (warning string, err error) {
	img, err := s.carousel.GetImage(ctx, id)
	if err != nil {
		return "", err
	}

	err = db.RunInTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.carousel.DeleteImage(txCtx, id)
	})
	if err != nil {
		return "", err
	}

	if !s.store.Delete(img.URL) {
		log.Warn().Str("reference", img.URL).Msg("Failed to delete carousel file")
		return img.URL, nil
	}

	return "", nil
}
