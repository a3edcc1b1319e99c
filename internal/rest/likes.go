package rest

import (
	"net/http"

	"github.com/archub/portfolio/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ToggleLike flips the authenticated user's like on a project and
// returns the new state with the recomputed count.
func (a *API) ToggleLike(c *gin.Context) {
	projectID, ok := paramID(c, "projectId")
	if !ok {
		return
	}

	liked, count, err := a.likes.Toggle(c.Request.Context(), middleware.UserID(c), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_liked": liked, "likes_count": count})
}

// LikedProjects lists the projects the authenticated user has liked.
func (a *API) LikedProjects(c *gin.Context) {
	views, err := a.likes.LikedProjects(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// UserLikedProjects is the admin view of another user's liked projects.
func (a *API) UserLikedProjects(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	if _, err := a.accounts.GetUser(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	views, err := a.likes.LikedProjects(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}
