package application

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/archub/portfolio/portfolio/domain"
	"github.com/archub/portfolio/portfolio/media"
	"github.com/archub/portfolio/portfolio/persistence"
	"github.com/archub/portfolio/shared/db/sqlite"
)

type fixture struct {
	db        *sql.DB
	sandbox   *media.Sandbox
	store     *media.Store
	catalogue *CatalogueService
	likes     *LikeService
	likeRepo  domain.LikeRepository
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	if err := database.Connect(); err != nil {
		t.Fatalf("Failed to connect database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	sandbox, err := media.NewSandbox(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create sandbox: %v", err)
	}
	store := media.NewStore(sandbox, []string{"png", "jpg", "jpeg", "gif", "webp"}, 16<<20)

	sqlDB := database.DB()
	projectRepo := persistence.NewProjectRepository(sqlDB)
	likeRepo := persistence.NewLikeRepository(sqlDB)

	return &fixture{
		db:        sqlDB,
		sandbox:   sandbox,
		store:     store,
		catalogue: NewCatalogueService(sqlDB, projectRepo, store),
		likes:     NewLikeService(likeRepo, projectRepo),
		likeRepo:  likeRepo,
	}
}

func validUpload(t *testing.T, name string) *domain.Upload {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return &domain.Upload{Filename: name, Content: buf.Bytes()}
}

func corruptUpload(name string) *domain.Upload {
	return &domain.Upload{Filename: name, Content: []byte("definitely not an image")}
}

// removeFile deletes the file behind a reference out from under the
// service, simulating manual cleanup on disk.
func (f *fixture) removeFile(t *testing.T, reference string) {
	t.Helper()
	abs, err := f.sandbox.Validate(reference)
	if err != nil {
		t.Fatalf("Failed to resolve %q: %v", reference, err)
	}
	if err := os.Remove(abs); err != nil {
		t.Fatalf("Failed to remove %q: %v", reference, err)
	}
}

func (f *fixture) fileExists(t *testing.T, reference string) bool {
	t.Helper()
	abs, err := f.sandbox.Validate(reference)
	if err != nil {
		t.Fatalf("Failed to resolve %q: %v", reference, err)
	}
	_, err = os.Stat(abs)
	return err == nil
}

func TestCatalogueService_CreateProject_SkipsCorruptGalleryUpload(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	result, err := f.catalogue.CreateProject(ctx, "120 sqm",
		validUpload(t, "main.png"),
		[]*domain.Upload{
			validUpload(t, "gallery1.png"),
			corruptUpload("gallery2.png"),
		},
	)
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	// Main plus the one valid gallery photo: the corrupt upload is
	// silently skipped, not fatal.
	if len(result.StoredAssets) != 2 {
		t.Errorf("StoredAssets = %d, want 2", len(result.StoredAssets))
	}
	if result.Project.MainImageURL == "" {
		t.Error("Expected main image reference on created project")
	}
	if len(result.Project.Photos) != 1 {
		t.Errorf("Photos = %d, want 1", len(result.Project.Photos))
	}

	for _, ref := range result.StoredAssets {
		if !f.fileExists(t, ref) {
			t.Errorf("Stored asset %q missing on disk", ref)
		}
	}
}

func TestCatalogueService_CreateProject_FailsOnInvalidMainImage(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, err := f.catalogue.CreateProject(ctx, "85 sqm", corruptUpload("main.png"), nil)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("CreateProject error = %v, want ValidationError", err)
	}

	// No rows were written.
	var count int
	if err := f.db.QueryRow("SELECT COUNT(*) FROM project").Scan(&count); err != nil {
		t.Fatalf("Failed to count projects: %v", err)
	}
	if count != 0 {
		t.Errorf("Project rows = %d, want 0", count)
	}
}

func TestCatalogueService_CreateProject_MissingArea(t *testing.T) {
	f := setupFixture(t)

	_, err := f.catalogue.CreateProject(context.Background(), "", validUpload(t, "main.png"), nil)
	if err == nil {
		t.Fatal("Expected error for missing area, got nil")
	}
}

func TestCatalogueService_ReplaceMainImage_OldFileAlreadyGone(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	created, err := f.catalogue.CreateProject(ctx, "120 sqm", validUpload(t, "old.png"), nil)
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	oldRef := created.Project.MainImageURL

	// The old file disappears out of band.
	f.removeFile(t, oldRef)

	result, err := f.catalogue.ReplaceMainImage(ctx, created.Project.ID, validUpload(t, "new.png"))
	if err != nil {
		t.Fatalf("ReplaceMainImage failed despite missing old file: %v", err)
	}

	if result.Project.MainImageURL == oldRef || result.Project.MainImageURL == "" {
		t.Errorf("MainImageURL = %q, want a fresh reference", result.Project.MainImageURL)
	}
	if !f.fileExists(t, result.Project.MainImageURL) {
		t.Error("New main image missing on disk")
	}
	// The failed old-file deletion is a warning, not an error.
	if len(result.Warnings) != 1 || result.Warnings[0] != oldRef {
		t.Errorf("Warnings = %v, want [%q]", result.Warnings, oldRef)
	}
}

func TestCatalogueService_ReplaceMainImage_DeletesOldFileAfterCommit(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	created, err := f.catalogue.CreateProject(ctx, "120 sqm", validUpload(t, "old.png"), nil)
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	oldRef := created.Project.MainImageURL

	result, err := f.catalogue.ReplaceMainImage(ctx, created.Project.ID, validUpload(t, "new.png"))
	if err != nil {
		t.Fatalf("ReplaceMainImage failed: %v", err)
	}

	if f.fileExists(t, oldRef) {
		t.Error("Old main image still on disk after replacement")
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", result.Warnings)
	}
}

func TestCatalogueService_ClearMainImage_MissingFileStillClearsRow(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	created, err := f.catalogue.CreateProject(ctx, "120 sqm", validUpload(t, "main.png"), nil)
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	f.removeFile(t, created.Project.MainImageURL)

	result, err := f.catalogue.ClearMainImage(ctx, created.Project.ID)
	if err != nil {
		t.Fatalf("ClearMainImage failed: %v", err)
	}

	if result.Project.MainImageURL != "" {
		t.Errorf("MainImageURL = %q, want empty", result.Project.MainImageURL)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("Warnings = %v, want one entry", result.Warnings)
	}
}

func TestCatalogueService_ClearMainImage_NoMainImage(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	created, err := f.catalogue.CreateEmptyProject(ctx, "")
	if err != nil {
		t.Fatalf("CreateEmptyProject failed: %v", err)
	}

	_, err = f.catalogue.ClearMainImage(ctx, created.Project.ID)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("ClearMainImage error = %v, want ValidationError", err)
	}
}

func TestCatalogueService_DeleteProject_SurvivesFileFailure(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	created, err := f.catalogue.CreateProject(ctx, "doomed",
		validUpload(t, "main.png"),
		[]*domain.Upload{validUpload(t, "g1.png"), validUpload(t, "g2.png")},
	)
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	// One gallery file is already gone; its deletion will fail.
	goneRef := created.Project.Photos[0].URL
	f.removeFile(t, goneRef)

	result, err := f.catalogue.DeleteProject(ctx, created.Project.ID)
	if err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}

	// Rows are gone regardless, photos included (cascade).
	var count int
	if err := f.db.QueryRow("SELECT COUNT(*) FROM project").Scan(&count); err != nil {
		t.Fatalf("Failed to count projects: %v", err)
	}
	if count != 0 {
		t.Errorf("Project rows = %d, want 0", count)
	}
	if err := f.db.QueryRow("SELECT COUNT(*) FROM photo").Scan(&count); err != nil {
		t.Fatalf("Failed to count photos: %v", err)
	}
	if count != 0 {
		t.Errorf("Photo rows = %d, want 0", count)
	}

	if len(result.Warnings) != 1 || result.Warnings[0] != goneRef {
		t.Errorf("Warnings = %v, want [%q]", result.Warnings, goneRef)
	}
	if len(result.DeletedFiles) != 2 {
		t.Errorf("DeletedFiles = %d, want 2", len(result.DeletedFiles))
	}
}

func TestCatalogueService_AddPhotos_SkipsInvalidUploads(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	created, err := f.catalogue.CreateEmptyProject(ctx, "growing")
	if err != nil {
		t.Fatalf("CreateEmptyProject failed: %v", err)
	}

	result, err := f.catalogue.AddPhotos(ctx, created.Project.ID, []*domain.Upload{
		validUpload(t, "ok.png"),
		corruptUpload("bad.png"),
		validUpload(t, "also-ok.jpg"),
	})
	if err != nil {
		t.Fatalf("AddPhotos failed: %v", err)
	}

	if len(result.StoredAssets) != 2 {
		t.Errorf("StoredAssets = %d, want 2", len(result.StoredAssets))
	}
	if len(result.Project.Photos) != 2 {
		t.Errorf("Photos = %d, want 2", len(result.Project.Photos))
	}
}

func TestCatalogueService_AddPhotos_UnknownProject(t *testing.T) {
	f := setupFixture(t)

	_, err := f.catalogue.AddPhotos(context.Background(), 404, []*domain.Upload{validUpload(t, "a.png")})
	var nferr *domain.NotFoundError
	if !errors.As(err, &nferr) {
		t.Errorf("AddPhotos error = %v, want NotFoundError", err)
	}
}

func TestCatalogueService_DeletePhotoByURL(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	created, err := f.catalogue.CreateProject(ctx, "owner", nil,
		[]*domain.Upload{validUpload(t, "photo.png")})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	other, err := f.catalogue.CreateEmptyProject(ctx, "other")
	if err != nil {
		t.Fatalf("CreateEmptyProject failed: %v", err)
	}

	ref := created.Project.Photos[0].URL

	// Deleting through the wrong project is not found.
	_, err = f.catalogue.DeletePhotoByURL(ctx, other.Project.ID, ref)
	var nferr *domain.NotFoundError
	if !errors.As(err, &nferr) {
		t.Errorf("Cross-project delete error = %v, want NotFoundError", err)
	}
	if !f.fileExists(t, ref) {
		t.Fatal("File deleted through the wrong project")
	}

	result, err := f.catalogue.DeletePhotoByURL(ctx, created.Project.ID, ref)
	if err != nil {
		t.Fatalf("DeletePhotoByURL failed: %v", err)
	}
	if f.fileExists(t, ref) {
		t.Error("Photo file still on disk after delete")
	}
	if len(result.Project.Photos) != 0 {
		t.Errorf("Photos = %d, want 0", len(result.Project.Photos))
	}
}
