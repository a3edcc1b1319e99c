package application

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/archub/portfolio/portfolio/domain"
	"github.com/archub/portfolio/portfolio/media"
	"github.com/archub/portfolio/shared/db"
	"github.com/dfryer1193/mjolnir/utils/set"
	"github.com/rs/zerolog/log"
)

// UploadStore is what the catalogue needs from the asset layer.
type UploadStore interface {
	Save(upload *domain.Upload, category string) (string, error)
	Delete(reference string) bool
}

// CatalogueService coordinates asset files with project and photo rows.
// Row mutations run in one transaction per operation; file operations
// are issued adjacent to the transaction, never inside it, and once the
// transaction commits no file failure can undo it. The row is the
// source of truth.
type CatalogueService struct {
	db       *sql.DB
	projects domain.ProjectRepository
	store    UploadStore
}

// NewCatalogueService wires the service over a project repository and
// an upload store sharing the same database handle.
func NewCatalogueService(sqlDB *sql.DB, projects domain.ProjectRepository, store UploadStore) *CatalogueService {
	return &CatalogueService{
		db:       sqlDB,
		projects: projects,
		store:    store,
	}
}

// ProjectResult is the outcome of a project mutation. Warnings carry
// references whose files could not be removed after the rows committed;
// they accompany a successful result and are never a reason to fail.
type ProjectResult struct {
	Project      *domain.Project
	StoredAssets []string
	DeletedFiles []string
	Warnings     []string
}

// CreateProject stores the uploads and creates the project with its
// gallery in a single transaction. A failed main upload fails the whole
// operation; a failed gallery upload is skipped so one bad file cannot
// block the rest.
func (s *CatalogueService) CreateProject(ctx context.Context, area string, mainUpload *domain.Upload, gallery []*domain.Upload) (*ProjectResult, error) {
	if area == "" {
		return nil, &domain.ValidationError{Message: "area field is required"}
	}

	mainImageURL := ""
	if mainUpload != nil {
		url, err := s.store.Save(mainUpload, media.CategoryMain)
		if err != nil {
			return nil, err
		}
		mainImageURL = url
	}

	galleryURLs := make([]string, 0, len(gallery))
	for _, upload := range gallery {
		if upload == nil {
			continue
		}
		url, err := s.store.Save(upload, media.CategoryGallery)
		if err != nil {
			log.Warn().Err(err).Str("filename", upload.Filename).Msg("Skipping gallery upload")
			continue
		}
		galleryURLs = append(galleryURLs, url)
	}

	var projectID int64
	err := db.RunInTransaction(ctx, s.db, func(txCtx context.Context) error {
		id, err := s.projects.InsertProject(txCtx, area, mainImageURL)
		if err != nil {
			return err
		}
		projectID = id

		for _, url := range galleryURLs {
			if _, err := s.projects.InsertPhoto(txCtx, id, url); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		// The rows rolled back; remove the files written for them so
		// the failure leaves no orphans behind.
		s.discardStored(mainImageURL, galleryURLs)
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	project, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	stored := galleryURLs
	if mainImageURL != "" {
		stored = append([]string{mainImageURL}, galleryURLs...)
	}

	return &ProjectResult{Project: project, StoredAssets: stored}, nil
}

// CreateEmptyProject creates a project with a default label and no images.
func (s *CatalogueService) CreateEmptyProject(ctx context.Context, area string) (*ProjectResult, error) {
	if area == "" {
		area = "New project"
	}

	var projectID int64
	err := db.RunInTransaction(ctx, s.db, func(txCtx context.Context) error {
		id, err := s.projects.InsertProject(txCtx, area, "")
		if err != nil {
			return err
		}
		projectID = id
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	project, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &ProjectResult{Project: project}, nil
}

// GetProject returns a project with its photos.
func (s *CatalogueService) GetProject(ctx context.Context, projectID int64) (*domain.Project, error) {
	return s.projects.GetProject(ctx, projectID)
}

// UpdateArea edits the project's display label.
func (s *CatalogueService) UpdateArea(ctx context.Context, projectID int64, area string) (*ProjectResult, error) {
	if area == "" {
		return nil, &domain.ValidationError{Message: "area field is required"}
	}

	err := db.RunInTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.projects.UpdateArea(txCtx, projectID, area)
	})
	if err != nil {
		return nil, err
	}

	project, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &ProjectResult{Project: project}, nil
}

// ReplaceMainImage stores the new upload, points the row at it, and only
// after the commit deletes the old file. The old asset is never removed
// before the new reference is durable, so the row cannot point at a
// missing file in between.
func (s *CatalogueService) ReplaceMainImage(ctx context.Context, projectID int64, upload *domain.Upload) (*ProjectResult, error) {
	if upload == nil {
		return nil, &domain.ValidationError{Message: "main image file is required"}
	}

	existing, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	oldURL := existing.MainImageURL

	newURL, err := s.store.Save(upload, media.CategoryMain)
	if err != nil {
		return nil, err
	}

	err = db.RunInTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.projects.UpdateMainImage(txCtx, projectID, newURL)
	})
	if err != nil {
		s.discardStored(newURL, nil)
		return nil, err
	}

	result := &ProjectResult{StoredAssets: []string{newURL}}
	if oldURL != "" {
		if s.store.Delete(oldURL) {
			result.DeletedFiles = append(result.DeletedFiles, oldURL)
		} else {
			log.Warn().Str("reference", oldURL).Msg("Failed to delete replaced main image")
			result.Warnings = append(result.Warnings, oldURL)
		}
	}

	project, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	result.Project = project

	return result, nil
}

// ClearMainImage removes the main image file and empties the reference.
// The row is cleared whether or not the file deletion succeeded; a
// missing file must not block clearing the reference.
func (s *CatalogueService) ClearMainImage(ctx context.Context, projectID int64) (*ProjectResult, error) {
	existing, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if existing.MainImageURL == "" {
		return nil, &domain.ValidationError{Message: "project does not have a main image"}
	}

	oldURL := existing.MainImageURL

	result := &ProjectResult{}
	if s.store.Delete(oldURL) {
		result.DeletedFiles = append(result.DeletedFiles, oldURL)
	} else {
		log.Warn().Str("reference", oldURL).Msg("Failed to delete main image file")
		result.Warnings = append(result.Warnings, oldURL)
	}

	err = db.RunInTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.projects.UpdateMainImage(txCtx, projectID, "")
	})
	if err != nil {
		return nil, err
	}

	project, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	result.Project = project

	return result, nil
}

// DeleteProject collects every asset reference the project owns,
// deletes the rows in one transaction (photos cascade), and only then
// removes the files, accumulating per-file failures without aborting.
func (s *CatalogueService) DeleteProject(ctx context.Context, projectID int64) (*ProjectResult, error) {
	project, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	references := set.New[string]()
	if project.MainImageURL != "" {
		references.Add(project.MainImageURL)
	}
	for _, photo := range project.Photos {
		references.Add(photo.URL)
	}

	err = db.RunInTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.projects.DeleteProject(txCtx, projectID)
	})
	if err != nil {
		return nil, err
	}

	result := &ProjectResult{Project: project}
	for _, reference := range references.Items() {
		if s.store.Delete(reference) {
			result.DeletedFiles = append(result.DeletedFiles, reference)
		} else {
			log.Warn().Str("reference", reference).Int64("projectID", projectID).Msg("Failed to delete asset file")
			result.Warnings = append(result.Warnings, reference)
		}
	}

	return result, nil
}

// AddPhotos stores the uploads and attaches a photo row for each one
// that stored successfully, committing once. Individual upload failures
// are skipped, matching CreateProject's gallery behaviour.
func (s *CatalogueService) AddPhotos(ctx context.Context, projectID int64, uploads []*domain.Upload) (*ProjectResult, error) {
	if len(uploads) == 0 {
		return nil, &domain.ValidationError{Message: "no photos provided"}
	}

	// Existence check up front so validation failures precede any write.
	if _, err := s.projects.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	stored := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		if upload == nil {
			continue
		}
		url, err := s.store.Save(upload, media.CategoryGallery)
		if err != nil {
			log.Warn().Err(err).Str("filename", upload.Filename).Msg("Skipping photo upload")
			continue
		}
		stored = append(stored, url)
	}

	err := db.RunInTransaction(ctx, s.db, func(txCtx context.Context) error {
		for _, url := range stored {
			if _, err := s.projects.InsertPhoto(txCtx, projectID, url); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.discardStored("", stored)
		return nil, fmt.Errorf("failed to add photos: %w", err)
	}

	project, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &ProjectResult{Project: project, StoredAssets: stored}, nil
}

// DeletePhotoByURL removes a photo row scoped to its project, then
// deletes the file after the commit. A reference owned by another
// project is not found here.
func (s *CatalogueService) DeletePhotoByURL(ctx context.Context, projectID int64, url string) (*ProjectResult, error) {
	photo, err := s.projects.GetPhotoByURL(ctx, projectID, url)
	if err != nil {
		return nil, err
	}

	err = db.RunInTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.projects.DeletePhoto(txCtx, photo.ID)
	})
	if err != nil {
		return nil, err
	}

	result := &ProjectResult{}
	if s.store.Delete(photo.URL) {
		result.DeletedFiles = append(result.DeletedFiles, photo.URL)
	} else {
		log.Warn().Str("reference", photo.URL).Msg("Failed to delete photo file")
		result.Warnings = append(result.Warnings, photo.URL)
	}

	project, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	result.Project = project

	return result, nil
}

// discardStored best-effort deletes files written for a transaction
// that rolled back.
func (s *CatalogueService) discardStored(mainURL string, galleryURLs []string) {
	if mainURL != "" && !s.store.Delete(mainURL) {
		log.Warn().Str("reference", mainURL).Msg("Failed to discard stored file after rollback")
	}
	for _, url := range galleryURLs {
		if !s.store.Delete(url) {
			log.Warn().Str("reference", url).Msg("Failed to discard stored file after rollback")
		}
	}
}
