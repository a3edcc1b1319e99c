package rest

import (
	"net/http"
	"strconv"

	"github.com/archub/portfolio/internal/middleware"
	"github.com/archub/portfolio/portfolio/application"
	"github.com/archub/portfolio/portfolio/domain"
	"github.com/gin-gonic/gin"
)

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// ListProjects returns every project decorated with like data for the
// viewer, anonymous included.
func (a *API) ListProjects(c *gin.Context) {
	views, err := a.likes.ListProjects(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (a *API) GetProject(c *gin.Context) {
	projectID, ok := paramID(c, "projectId")
	if !ok {
		return
	}

	project, err := a.catalogue.GetProject(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projectJSON(project))
}

// CreateProject accepts a multipart form with an "area" field, an
// optional "main_image" file, and any number of "photos" files.
func (a *API) CreateProject(c *gin.Context) {
	area := c.PostForm("area")

	var mainUpload *domain.Upload
	if fh, err := c.FormFile("main_image"); err == nil {
		upload, err := uploadFromFileHeader(fh)
		if err != nil {
			respondError(c, err)
			return
		}
		mainUpload = upload
	}

	var gallery []*domain.Upload
	if form, err := c.MultipartForm(); err == nil {
		for _, fh := range form.File["photos"] {
			upload, err := uploadFromFileHeader(fh)
			if err != nil {
				respondError(c, err)
				return
			}
			gallery = append(gallery, upload)
		}
	}

	result, err := a.catalogue.CreateProject(c.Request.Context(), area, mainUpload, gallery)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resultJSON(result))
}

func (a *API) CreateEmptyProject(c *gin.Context) {
	var body struct {
		Area string `json:"area"`
	}
	// An empty body is fine; the service fills in a default label.
	_ = c.ShouldBindJSON(&body)

	result, err := a.catalogue.CreateEmptyProject(c.Request.Context(), body.Area)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resultJSON(result))
}

func (a *API) UpdateArea(c *gin.Context) {
	projectID, ok := paramID(c, "projectId")
	if !ok {
		return
	}

	var body struct {
		Area string `json:"area"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := a.catalogue.UpdateArea(c.Request.Context(), projectID, body.Area)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resultJSON(result))
}

func (a *API) DeleteProject(c *gin.Context) {
	projectID, ok := paramID(c, "projectId")
	if !ok {
		return
	}

	result, err := a.catalogue.DeleteProject(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"deleted_files": result.DeletedFiles,
		"warnings":      result.Warnings,
	})
}

func (a *API) AddPhotos(c *gin.Context) {
	projectID, ok := paramID(c, "projectId")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}

	uploads := make([]*domain.Upload, 0, len(form.File["photos"]))
	for _, fh := range form.File["photos"] {
		upload, err := uploadFromFileHeader(fh)
		if err != nil {
			respondError(c, err)
			return
		}
		uploads = append(uploads, upload)
	}

	result, err := a.catalogue.AddPhotos(c.Request.Context(), projectID, uploads)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resultJSON(result))
}

// DeletePhoto removes a single photo identified by its asset reference,
// scoped to the project in the path.
func (a *API) DeletePhoto(c *gin.Context) {
	projectID, ok := paramID(c, "projectId")
	if !ok {
		return
	}

	var body struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo url is required"})
		return
	}

	result, err := a.catalogue.DeletePhotoByURL(c.Request.Context(), projectID, body.URL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resultJSON(result))
}

func (a *API) ReplaceMainImage(c *gin.Context) {
	projectID, ok := paramID(c, "projectId")
	if !ok {
		return
	}

	fh, err := c.FormFile("main_image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "main_image file is required"})
		return
	}
	upload, err := uploadFromFileHeader(fh)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := a.catalogue.ReplaceMainImage(c.Request.Context(), projectID, upload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resultJSON(result))
}

func (a *API) ClearMainImage(c *gin.Context) {
	projectID, ok := paramID(c, "projectId")
	if !ok {
		return
	}

	result, err := a.catalogue.ClearMainImage(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resultJSON(result))
}

func projectJSON(p *domain.Project) gin.H {
	photos := make([]gin.H, 0, len(p.Photos))
	for _, photo := range p.Photos {
		photos = append(photos, gin.H{"id": photo.ID, "url": photo.URL})
	}
	return gin.H{
		"id":             p.ID,
		"area":           p.Area,
		"main_image_url": p.MainImageURL,
		"photos":         photos,
	}
}

func resultJSON(r *application.ProjectResult) gin.H {
	out := gin.H{"project": projectJSON(r.Project)}
	if len(r.StoredAssets) > 0 {
		out["stored_assets"] = r.StoredAssets
	}
	if len(r.DeletedFiles) > 0 {
		out["deleted_files"] = r.DeletedFiles
	}
	if len(r.Warnings) > 0 {
		out["warnings"] = r.Warnings
	}
	return out
}
