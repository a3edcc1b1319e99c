package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/archub/portfolio/portfolio/domain"
	"github.com/archub/portfolio/shared/db"
)

var _ domain.ContactRepository = (*SQLiteContactRepository)(nil)

// SQLiteContactRepository implements domain.ContactRepository using SQL
// database (SQLite)
type SQLiteContactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new SQLiteContactRepository from a standard sql.DB
func NewContactRepository(sqlDB *sql.DB) *SQLiteContactRepository {
	return &SQLiteContactRepository{
		db: sqlDB,
	}
}

const insertContactMessageQuery = `
	INSERT INTO contact_messages (sender_email, message, created_at)
	VALUES (?, ?, ?)
`

// InsertMessage stores a contact-form submission
func (r *SQLiteContactRepository) InsertMessage(ctx context.Context, m *domain.ContactMessage) (int64, error) {
	if m == nil || m.SenderEmail == "" || m.Message == "" {
		return 0, &domain.ValidationError{Message: "sender email and message are required"}
	}

	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	executor := db.GetExecutor(ctx, r.db)
	res, err := executor.ExecContext(ctx, insertContactMessageQuery, m.SenderEmail, m.Message, createdAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert contact message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read contact message id: %w", err)
	}

	return id, nil
}

const listContactMessagesQuery = `
	SELECT id, sender_email, message, created_at
	FROM contact_messages
	ORDER BY created_at DESC
`

// ListMessages returns submissions, newest first
func (r *SQLiteContactRepository) ListMessages(ctx context.Context) ([]*domain.ContactMessage, error) {
	executor := db.GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, listContactMessagesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*domain.ContactMessage, 0)
	for rows.Next() {
		var createdAt sql.NullTime
		m := &domain.ContactMessage{}
		if err := rows.Scan(&m.ID, &m.SenderEmail, &m.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact message row: %w", err)
		}
		if createdAt.Valid {
			m.CreatedAt = createdAt.Time
		}
		messages = append(messages, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact message rows: %w", err)
	}

	return messages, nil
}
