package domain

import (
	"context"

	"github.com/dfryer1193/mjolnir/utils/set"
)

// LikeRepository manages the (user, project) like relation. Pairs are
// unique and only ever created or removed by toggling; counts are
// always computed from the relation, never cached.
type LikeRepository interface {
	// ToggleLike flips the pair: removes it when present, inserts it
	// otherwise. Returns the resulting liked state and the project's
	// like count after the flip.
	ToggleLike(ctx context.Context, userID, projectID int64) (liked bool, likesCount int, err error)

	// CountsForProjects returns like counts for every given project in
	// a single grouped query. Projects with no likes are absent from
	// the map.
	CountsForProjects(ctx context.Context, projectIDs []int64) (map[int64]int, error)

	// LikedProjectIDs returns the set of project IDs the user has
	// liked, in a single query.
	LikedProjectIDs(ctx context.Context, userID int64) (set.Set[int64], error)
}
