package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/archub/portfolio/portfolio/domain"
	"github.com/archub/portfolio/shared/db"
)

var _ domain.UserRepository = (*SQLiteUserRepository)(nil)

// SQLiteUserRepository implements domain.UserRepository using SQL
// database (SQLite)
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLiteUserRepository from a standard sql.DB
func NewUserRepository(sqlDB *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{
		db: sqlDB,
	}
}

const insertUserQuery = `
	INSERT INTO users (username, email, password_hash, is_admin)
	VALUES (?, ?, ?, ?)
`

// InsertUser creates an account row and returns its ID
func (r *SQLiteUserRepository) InsertUser(ctx context.Context, u *domain.User) (int64, error) {
	if u == nil {
		return 0, fmt.Errorf("user cannot be nil")
	}
	if u.Username == "" || u.Email == "" || u.PasswordHash == "" {
		return 0, &domain.ValidationError{Message: "username, email and password are required"}
	}

	executor := db.GetExecutor(ctx, r.db)
	res, err := executor.ExecContext(ctx, insertUserQuery,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.IsAdmin,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read user id: %w", err)
	}

	return id, nil
}

const getUserQuery = `
	SELECT id, username, email, password_hash, is_admin
	FROM users
	WHERE id = ?
`

const getUserByEmailQuery = `
	SELECT id, username, email, password_hash, is_admin
	FROM users
	WHERE email = ?
`

const getUserByUsernameQuery = `
	SELECT id, username, email, password_hash, is_admin
	FROM users
	WHERE username = ?
`

// GetUser retrieves a user by ID
func (r *SQLiteUserRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, getUserQuery, id)
}

// GetUserByEmail retrieves a user by email
func (r *SQLiteUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, getUserByEmailQuery, email)
}

// GetUserByUsername retrieves a user by username
func (r *SQLiteUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, getUserByUsernameQuery, username)
}

func (r *SQLiteUserRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	executor := db.GetExecutor(ctx, r.db)

	user := &domain.User{}
	err := executor.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.IsAdmin,
	)

	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Message: "user not found"}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

const listUsersQuery = `
	SELECT id, username, email, password_hash, is_admin
	FROM users
	ORDER BY id
`

// ListUsers retrieves every account
func (r *SQLiteUserRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	executor := db.GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, listUsersQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user := &domain.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsAdmin); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}
