package media

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"strings"
	"testing"

	"github.com/archub/portfolio/portfolio/domain"
)

func pngUpload(t *testing.T, name string) *domain.Upload {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return &domain.Upload{Filename: name, Content: buf.Bytes()}
}

func newTestStore(t *testing.T) (*Store, *Sandbox) {
	t.Helper()
	sb := newTestSandbox(t)
	return NewStore(sb, []string{"png", "jpg", "jpeg", "gif", "webp"}, 16<<20), sb
}

func TestStore_SaveAndDelete(t *testing.T) {
	store, sb := newTestStore(t)

	ref, err := store.Save(pngUpload(t, "house.png"), CategoryMain)
	if err != nil {
		t.Fatalf("Failed to save upload: %v", err)
	}

	if !strings.HasPrefix(ref, URLPrefix+"/main/") {
		t.Errorf("Reference = %q, want prefix %q", ref, URLPrefix+"/main/")
	}
	if !strings.HasSuffix(ref, ".png") {
		t.Errorf("Reference = %q, want .png suffix", ref)
	}

	abs, err := sb.Validate(ref)
	if err != nil {
		t.Fatalf("Returned reference failed validation: %v", err)
	}
	if _, err := os.Stat(abs); err != nil {
		t.Fatalf("Stored file missing: %v", err)
	}

	// First delete removes the file, second is a safe no-op failure.
	if !store.Delete(ref) {
		t.Error("First delete returned false, want true")
	}
	if _, err := os.Stat(abs); !os.IsNotExist(err) {
		t.Errorf("File still present after delete: %v", err)
	}
	if store.Delete(ref) {
		t.Error("Second delete returned true, want false")
	}
}

func TestStore_Save_UniqueNames(t *testing.T) {
	store, _ := newTestStore(t)

	first, err := store.Save(pngUpload(t, "a.png"), CategoryGallery)
	if err != nil {
		t.Fatalf("Failed to save first upload: %v", err)
	}
	second, err := store.Save(pngUpload(t, "a.png"), CategoryGallery)
	if err != nil {
		t.Fatalf("Failed to save second upload: %v", err)
	}

	if first == second {
		t.Errorf("Two uploads in the same second produced the same reference %q", first)
	}
}

func TestStore_Save_DisallowedExtension(t *testing.T) {
	store, _ := newTestStore(t)

	upload := pngUpload(t, "script.sh")
	_, err := store.Save(upload, CategoryMain)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("Save with .sh extension error = %v, want ValidationError", err)
	}
}

func TestStore_Save_MissingExtension(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Save(pngUpload(t, "noext"), CategoryMain)
	if err == nil {
		t.Error("Expected error for missing extension, got nil")
	}
}

func TestStore_Save_ExtensionCaseInsensitive(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.Save(pngUpload(t, "HOUSE.PNG"), CategoryMain); err != nil {
		t.Errorf("Save with uppercase extension failed: %v", err)
	}
}

func TestStore_Save_RejectsDisguisedPayload(t *testing.T) {
	store, _ := newTestStore(t)

	upload := &domain.Upload{
		Filename: "innocent.png",
		Content:  []byte("#!/bin/sh\nrm -rf /\n"),
	}

	_, err := store.Save(upload, CategoryMain)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("Save with non-image content error = %v, want ValidationError", err)
	}
}

func TestStore_Save_EnforcesMaxSize(t *testing.T) {
	sb := newTestSandbox(t)
	store := NewStore(sb, []string{"png"}, 8)

	_, err := store.Save(pngUpload(t, "big.png"), CategoryMain)
	if err == nil {
		t.Error("Expected error for oversized upload, got nil")
	}
}

func TestStore_Delete_RejectsTraversal(t *testing.T) {
	store, sb := newTestStore(t)

	// Plant a file just outside the root to prove it survives.
	outside := sb.Root() + "_outside"
	if err := os.WriteFile(outside, []byte("keep"), 0644); err != nil {
		t.Fatalf("Failed to plant file: %v", err)
	}
	defer os.Remove(outside)

	if store.Delete("static/uploads/main/../../" + strings.TrimPrefix(outside, "/")) {
		t.Error("Delete of traversal reference returned true, want false")
	}
	if _, err := os.Stat(outside); err != nil {
		t.Errorf("File outside root was touched: %v", err)
	}
}
