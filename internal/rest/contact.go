package rest

import (
	"net/http"

	"github.com/archub/portfolio/portfolio/domain"
	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type contactRequest struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (r contactRequest) validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Message, validation.Required, validation.Length(1, 5000)),
	)
}

// SubmitContact stores a contact-form submission.
func (a *API) SubmitContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg := &domain.ContactMessage{
		SenderEmail: req.Email,
		Message:     req.Message,
	}
	id, err := a.contacts.InsertMessage(c.Request.Context(), msg)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (a *API) ListContactMessages(c *gin.Context) {
	messages, err := a.contacts.ListMessages(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(messages))
	for _, m := range messages {
		out = append(out, gin.H{
			"id":         m.ID,
			"email":      m.SenderEmail,
			"message":    m.Message,
			"created_at": m.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}
