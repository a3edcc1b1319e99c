package rest

import (
	"net/http"
	"strconv"

	"github.com/archub/portfolio/portfolio/domain"
	"github.com/gin-gonic/gin"
)

func (a *API) ActiveSlides(c *gin.Context) {
	slides, err := a.carousel.ActiveSlides(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slidesJSON(slides))
}

func (a *API) AllSlides(c *gin.Context) {
	slides, err := a.carousel.AllSlides(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slidesJSON(slides))
}

// AddSlide accepts a multipart form with an "image" file and an
// optional numeric "display_order" field.
func (a *API) AddSlide(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	upload, err := uploadFromFileHeader(fh)
	if err != nil {
		respondError(c, err)
		return
	}

	displayOrder := 0
	if raw := c.PostForm("display_order"); raw != "" {
		displayOrder, err = strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "display_order must be a number"})
			return
		}
	}

	slide, err := a.carousel.AddSlide(c.Request.Context(), upload, displayOrder)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slideJSON(slide))
}

func (a *API) SetSlideActive(c *gin.Context) {
	imageID, ok := paramID(c, "imageId")
	if !ok {
		return
	}

	var body struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.IsActive == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_active field is required"})
		return
	}

	if err := a.carousel.SetSlideActive(c.Request.Context(), imageID, *body.IsActive); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_active": *body.IsActive})
}

func (a *API) DeleteSlide(c *gin.Context) {
	imageID, ok := paramID(c, "imageId")
	if !ok {
		return
	}

	warning, err := a.carousel.DeleteSlide(c.Request.Context(), imageID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := gin.H{}
	if warning != "" {
		out["warnings"] = []string{warning}
	}
	c.JSON(http.StatusOK, out)
}

func slideJSON(img *domain.CarouselImage) gin.H {
	return gin.H{
		"id":            img.ID,
		"url":           img.URL,
		"display_order": img.DisplayOrder,
		"is_active":     img.IsActive,
	}
}

func slidesJSON(slides []*domain.CarouselImage) []gin.H {
	out := make([]gin.H, 0, len(slides))
	for _, img := range slides {
		out = append(out, slideJSON(img))
	}
	return out
}
