package domain

import (
	"context"
	"time"
)

// ContactMessage is a stored contact-form submission.
type ContactMessage struct {
	ID          int64
	SenderEmail string
	Message     string
	CreatedAt   time.Time
}

type ContactRepository interface {
	InsertMessage(ctx context.Context, m *ContactMessage) (int64, error)
	ListMessages(ctx context.Context) ([]*ContactMessage, error)
}
