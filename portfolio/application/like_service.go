package application

import (
	"context"

	"github.com/archub/portfolio/portfolio/domain"
)

// ProjectView is a project decorated with like data for one viewer.
type ProjectView struct {
	ID           int64    `json:"id"`
	Area         string   `json:"area"`
	MainImageURL string   `json:"main_image_url"`
	Photos       []string `json:"photos"`
	IsLiked      bool     `json:"is_liked"`
	LikesCount   int      `json:"likes_count"`
}

// LikeService manages the user-project like relation and decorates
// project listings with like data in a bounded number of queries.
type LikeService struct {
	likes    domain.LikeRepository
	projects domain.ProjectRepository
}

// NewLikeService wires the service over like and project repositories.
func NewLikeService(likes domain.LikeRepository, projects domain.ProjectRepository) *LikeService {
	return &LikeService{
		likes:    likes,
		projects: projects,
	}
}

// Toggle flips the user's like on a project and returns the new state
// with the recomputed count. Toggling twice restores the original state;
// there is no "already liked" error.
func (s *LikeService) Toggle(ctx context.Context, userID, projectID int64) (bool, int, error) {
	if _, err := s.projects.GetProject(ctx, projectID); err != nil {
		return false, 0, err
	}
	return s.likes.ToggleLike(ctx, userID, projectID)
}

// ListProjects returns every project decorated for the viewer. Whatever
// the list length, like data comes from two aggregate queries: one
// grouped count and one membership set. viewerID <= 0 means anonymous.
func (s *LikeService) ListProjects(ctx context.Context, viewerID int64) ([]*ProjectView, error) {
	projects, err := s.projects.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	return s.decorate(ctx, projects, viewerID, false)
}

// LikedProjects returns only the projects the given user has liked,
// each decorated with its count.
func (s *LikeService) LikedProjects(ctx context.Context, userID int64) ([]*ProjectView, error) {
	projects, err := s.projects.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	return s.decorate(ctx, projects, userID, true)
}

func (s *LikeService) decorate(ctx context.Context, projects []*domain.Project, viewerID int64, likedOnly bool) ([]*ProjectView, error) {
	ids := make([]int64, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}

	counts, err := s.likes.CountsForProjects(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]*ProjectView, 0, len(projects))
	for _, p := range projects {
		view := &ProjectView{
			ID:           p.ID,
			Area:         p.Area,
			MainImageURL: p.MainImageURL,
			Photos:       make([]string, 0, len(p.Photos)),
			LikesCount:   counts[p.ID],
		}
		for _, photo := range p.Photos {
			view.Photos = append(view.Photos, photo.URL)
		}
		views = append(views, view)
	}

	if viewerID <= 0 {
		if likedOnly {
			return []*ProjectView{}, nil
		}
		return views, nil
	}

	liked, err := s.likes.LikedProjectIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	filtered := make([]*ProjectView, 0, len(views))
	for _, view := range views {
		view.IsLiked = liked.Contains(view.ID)
		if likedOnly && !view.IsLiked {
			continue
		}
		filtered = append(filtered, view)
	}

	return filtered, nil
}
