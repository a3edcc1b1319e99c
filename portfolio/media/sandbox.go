package media

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/archub/portfolio/portfolio/domain"
)

// URLPrefix is the root marker every asset reference starts with.
// References are stored in rows and returned to clients in the form
// URLPrefix/<category>/<filename>.
const URLPrefix = "static/uploads"

// Upload categories. Each one maps to a subdirectory of the upload root.
const (
	CategoryMain     = "main"
	CategoryGallery  = "gallery"
	CategoryCarousel = "carousel"
)

var categories = map[string]bool{
	CategoryMain:     true,
	CategoryGallery:  true,
	CategoryCarousel: true,
}

// Sandbox translates asset references to absolute filesystem paths and
// refuses any path that would land outside the configured upload root.
// It never touches the filesystem itself.
type Sandbox struct {
	root string
}

// NewSandbox creates a sandbox confined to root. The root is made
// absolute once at construction so later containment checks compare
// against a stable prefix.
func NewSandbox(root string) (*Sandbox, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload root %q: %w", root, err)
	}
	return &Sandbox{root: filepath.Clean(abs)}, nil
}

// Root returns the absolute upload root.
func (s *Sandbox) Root() string {
	return s.root
}

// Resolve builds the absolute path for a store-generated filename in
// the given category. The filename is trusted to come from the store,
// not from a client.
func (s *Sandbox) Resolve(category, filename string) (string, error) {
	if !categories[category] {
		return "", &domain.ValidationError{Message: fmt.Sprintf("unknown upload category %q", category)}
	}
	if filename == "" || filename != filepath.Base(filename) {
		return "", &domain.ValidationError{Message: "invalid asset filename"}
	}
	return filepath.Join(s.root, category, filename), nil
}

// Validate takes an arbitrary stored reference and returns the absolute
// path it resolves to, or ErrPathEscape when the reference is not a
// descendant of the upload root. The check is pure string manipulation;
// no filesystem call is ever made with the unresolved input.
func (s *Sandbox) Validate(reference string) (string, error) {
	ref := strings.ReplaceAll(strings.TrimSpace(reference), "\\", "/")
	ref = strings.TrimPrefix(ref, "/")

	if !strings.HasPrefix(ref, URLPrefix+"/") {
		return "", fmt.Errorf("reference %q lacks upload-root marker: %w", reference, domain.ErrPathEscape)
	}

	rel := strings.TrimPrefix(ref, URLPrefix+"/")
	if rel == "" || rel == "." {
		return "", fmt.Errorf("reference %q names no file: %w", reference, domain.ErrPathEscape)
	}

	// Parent segments are rejected outright, even ones that would
	// normalize back under the root.
	for _, seg := range strings.Split(rel, "/") {
		if seg == ".." {
			return "", fmt.Errorf("reference %q contains a parent segment: %w", reference, domain.ErrPathEscape)
		}
	}

	rel = path.Clean(rel)

	candidate := filepath.Clean(filepath.Join(s.root, filepath.FromSlash(rel)))
	if candidate != s.root && !strings.HasPrefix(candidate, s.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("reference %q resolves outside upload root: %w", reference, domain.ErrPathEscape)
	}
	if candidate == s.root {
		return "", fmt.Errorf("reference %q names the upload root itself: %w", reference, domain.ErrPathEscape)
	}

	return candidate, nil
}

// Reference builds the canonical stored reference for a category and
// store-generated filename.
func Reference(category, filename string) string {
	return path.Join(URLPrefix, category, filename)
}
