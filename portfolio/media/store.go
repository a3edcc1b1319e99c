package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Registered container decoders for upload verification.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/archub/portfolio/portfolio/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Store persists uploaded image content under the sandbox root. It is
// the only component that writes or deletes files there, and it owns
// the mapping from asset references to bytes on disk.
type Store struct {
	sandbox     *Sandbox
	allowedExts map[string]bool
	maxBytes    int64
}

// NewStore creates a store confined to the given sandbox. Extensions
// are matched case-insensitively; maxBytes bounds a single upload.
func NewStore(sandbox *Sandbox, allowedExts []string, maxBytes int64) *Store {
	exts := make(map[string]bool, len(allowedExts))
	for _, e := range allowedExts {
		exts[strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}
	return &Store{
		sandbox:     sandbox,
		allowedExts: exts,
		maxBytes:    maxBytes,
	}
}

// Save validates the upload and writes it under the category directory,
// returning the canonical asset reference. The stored filename is
// <timestamp>_<uuid>.<ext>; the timestamp exists for human sortability,
// uniqueness comes from the UUID. An existing file is never
// overwritten because names are unique by construction.
func (s *Store) Save(upload *domain.Upload, category string) (string, error) {
	if upload == nil || len(upload.Content) == 0 {
		return "", &domain.ValidationError{Message: "upload is empty"}
	}

	ext, err := s.allowedExtension(upload.Filename)
	if err != nil {
		return "", err
	}

	if s.maxBytes > 0 && int64(len(upload.Content)) > s.maxBytes {
		return "", &domain.ValidationError{Message: fmt.Sprintf("upload exceeds maximum size of %d bytes", s.maxBytes)}
	}

	// Decode the container rather than trusting the extension or a
	// client-declared content type.
	if !verifyImageContainer(upload.Content) {
		return "", &domain.ValidationError{Message: "content is not a valid image"}
	}

	filename := fmt.Sprintf("%s_%s.%s", time.Now().Format("20060102_150405"), uuid.NewString(), ext)

	dest, err := s.sandbox.Resolve(category, filename)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	if err := os.WriteFile(dest, upload.Content, 0644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	return Reference(category, filename), nil
}

// Delete removes the file behind a stored reference. It reports
// success as a bool instead of an error because deletion failures are
// recoverable for every caller: a missing file means a repeated delete
// and a sandbox rejection must not abort the surrounding row-level
// work. Escape attempts are logged loudly here and nowhere else.
func (s *Store) Delete(reference string) bool {
	abs, err := s.sandbox.Validate(reference)
	if err != nil {
		if errors.Is(err, domain.ErrPathEscape) {
			log.Error().Str("reference", reference).Msg("Rejected asset reference outside upload root")
		}
		return false
	}

	if err := os.Remove(abs); err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("reference", reference).Msg("Failed to delete asset file")
		}
		return false
	}

	return true
}

// allowedExtension extracts and checks the extension of the original
// client filename. Only the extension is ever taken from the client.
func (s *Store) allowedExtension(filename string) (string, error) {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return "", &domain.ValidationError{Message: "filename has no extension"}
	}
	ext := strings.ToLower(filename[idx+1:])
	if !s.allowedExts[ext] {
		return "", &domain.ValidationError{Message: fmt.Sprintf("file extension %q is not allowed", ext)}
	}
	return ext, nil
}

// verifyImageContainer reports whether the bytes parse as one of the
// registered image formats.
func verifyImageContainer(content []byte) bool {
	_, _, err := image.DecodeConfig(bytes.NewReader(content))
	return err == nil
}
