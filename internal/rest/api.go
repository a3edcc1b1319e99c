package rest

import (
	"github.com/archub/portfolio/internal/middleware"
	"github.com/archub/portfolio/portfolio/application"
	"github.com/archub/portfolio/portfolio/domain"
	"github.com/gin-gonic/gin"
)

// API bundles the services the HTTP handlers depend on.
type API struct {
	catalogue   *application.CatalogueService
	likes       *application.LikeService
	carousel    *application.CarouselService
	accounts    *application.AccountService
	contacts    domain.ContactRepository
	tokenSecret string
}

func NewApi(router *gin.Engine, catalogue *application.CatalogueService, likes *application.LikeService, carousel *application.CarouselService, accounts *application.AccountService, contacts domain.ContactRepository, tokenSecret string) {
	api := &API{
		catalogue:   catalogue,
		likes:       likes,
		carousel:    carousel,
		accounts:    accounts,
		contacts:    contacts,
		tokenSecret: tokenSecret,
	}

	auth := middleware.RequireAuth(tokenSecret)
	optionalAuth := middleware.OptionalAuth(tokenSecret)
	admin := middleware.RequireAdmin()

	authV1 := router.Group("auth/v1")
	{
		authV1.POST("/register", api.Register)
		authV1.POST("/login", api.Login)
		authV1.GET("/status", optionalAuth, api.AuthStatus)
	}

	projectsV1 := router.Group("projects/v1")
	{
		projectsV1.GET("/", optionalAuth, api.ListProjects)
		projectsV1.GET("/liked", auth, api.LikedProjects)
		projectsV1.GET("/:projectId", api.GetProject)
		projectsV1.POST("/:projectId/like", auth, api.ToggleLike)

		projectsV1.POST("/", auth, admin, api.CreateProject)
		projectsV1.POST("/empty", auth, admin, api.CreateEmptyProject)
		projectsV1.PUT("/:projectId", auth, admin, api.UpdateArea)
		projectsV1.DELETE("/:projectId", auth, admin, api.DeleteProject)

		projectsV1.POST("/:projectId/photos", auth, admin, api.AddPhotos)
		projectsV1.DELETE("/:projectId/photos", auth, admin, api.DeletePhoto)
		projectsV1.PUT("/:projectId/main-image", auth, admin, api.ReplaceMainImage)
		projectsV1.DELETE("/:projectId/main-image", auth, admin, api.ClearMainImage)
	}

	carouselV1 := router.Group("carousel/v1")
	{
		carouselV1.GET("/", api.ActiveSlides)
		carouselV1.GET("/all", auth, admin, api.AllSlides)
		carouselV1.POST("/", auth, admin, api.AddSlide)
		carouselV1.PATCH("/:imageId", auth, admin, api.SetSlideActive)
		carouselV1.DELETE("/:imageId", auth, admin, api.DeleteSlide)
	}

	contactV1 := router.Group("contact/v1")
	{
		contactV1.POST("/", api.SubmitContact)
		contactV1.GET("/", auth, admin, api.ListContactMessages)
	}

	usersV1 := router.Group("users/v1")
	{
		usersV1.GET("/", auth, admin, api.ListUsers)
		usersV1.GET("/:userId/likes", auth, admin, api.UserLikedProjects)
	}
}
