package rest

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/archub/portfolio/portfolio/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// respondError maps domain errors to their HTTP status. Anything
// without a status is a 500 and its details stay in the log.
func respondError(c *gin.Context, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		c.JSON(httpErr.StatusCode(), gin.H{"error": httpErr.Error()})
		return
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// uploadFromFileHeader reads a multipart file into an in-memory upload.
func uploadFromFileHeader(fh *multipart.FileHeader) (*domain.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return &domain.Upload{Filename: fh.Filename, Content: content}, nil
}
