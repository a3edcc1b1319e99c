package application

import (
	"context"
	"errors"

	"github.com/archub/portfolio/portfolio/domain"
	"golang.org/x/crypto/bcrypt"
)

// AccountService handles registration and credential checks. It exists
// so the likes relation has real accounts behind its foreign key; the
// session mechanics live at the HTTP boundary.
type AccountService struct {
	users domain.UserRepository
}

// NewAccountService wires the service over a user repository.
func NewAccountService(users domain.UserRepository) *AccountService {
	return &AccountService{
		users: users,
	}
}

// Register creates an account with a bcrypt-hashed password.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, &domain.ValidationError{Message: "username, email and password are required"}
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, &domain.ConflictError{Message: "a user with this email already exists"}
	} else if !isNotFound(err) {
		return nil, err
	}

	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, &domain.ConflictError{Message: "a user with this username already exists"}
	} else if !isNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}

	id, err := s.users.InsertUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	return user, nil
}

// Authenticate verifies credentials and returns the account. Invalid
// email and invalid password are indistinguishable to the caller.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, &domain.ValidationError{Message: "email and password are required"}
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, &domain.UnauthorizedError{Message: "invalid email or password"}
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, &domain.UnauthorizedError{Message: "invalid email or password"}
	}

	return user, nil
}

// GetUser returns an account by ID.
func (s *AccountService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetUser(ctx, id)
}

// ListUsers returns every account.
func (s *AccountService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.ListUsers(ctx)
}

func isNotFound(err error) bool {
	var nferr *domain.NotFoundError
	return errors.As(err, &nferr)
}
