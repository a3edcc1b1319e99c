package domain

import (
	"context"
)

// Project represents one portfolio entry. A project owns an optional
// main image and an insertion-ordered gallery of photos; all image
// fields hold asset references (URLs under the upload root), never
// filesystem paths.
type Project struct {
	ID           int64
	Area         string
	MainImageURL string
	Photos       []*Photo
}

// Photo is a gallery image owned by exactly one project. Photos are
// created as children of a project and are never re-parented.
type Photo struct {
	ID        int64
	URL       string
	ProjectID int64
}

type ProjectRepository interface {
	InsertProject(ctx context.Context, area, mainImageURL string) (int64, error)
	GetProject(ctx context.Context, id int64) (*Project, error)
	ListProjects(ctx context.Context) ([]*Project, error)
	UpdateArea(ctx context.Context, id int64, area string) error
	UpdateMainImage(ctx context.Context, id int64, url string) error

	// DeleteProject removes the project row; photo rows go with it via
	// ON DELETE CASCADE at the relational layer.
	DeleteProject(ctx context.Context, id int64) error

	InsertPhoto(ctx context.Context, projectID int64, url string) (int64, error)

	// GetPhotoByURL resolves a photo by its reference, scoped to one
	// project. A reference that exists under a different project is
	// not found for this one.
	GetPhotoByURL(ctx context.Context, projectID int64, url string) (*Photo, error)
	DeletePhoto(ctx context.Context, id int64) error
}
