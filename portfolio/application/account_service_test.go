package application

import (
	"context"
	"errors"
	"testing"

	"github.com/archub/portfolio/portfolio/domain"
	"github.com/archub/portfolio/portfolio/persistence"
)

func setupAccounts(t *testing.T) *AccountService {
	t.Helper()
	f := setupFixture(t)
	return NewAccountService(persistence.NewUserRepository(f.db))
}

func TestAccountService_RegisterAndAuthenticate(t *testing.T) {
	accounts := setupAccounts(t)
	ctx := context.Background()

	user, err := accounts.Register(ctx, "alice", "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ID == 0 {
		t.Error("Expected a user ID after registration")
	}
	if user.PasswordHash == "s3cret" {
		t.Error("Password stored without hashing")
	}

	got, err := accounts.Authenticate(ctx, "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("Authenticated user ID = %d, want %d", got.ID, user.ID)
	}
}

func TestAccountService_Authenticate_InvalidCredentials(t *testing.T) {
	accounts := setupAccounts(t)
	ctx := context.Background()

	if _, err := accounts.Register(ctx, "alice", "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Wrong password and unknown email produce the same error shape.
	for _, tc := range []struct{ email, password string }{
		{"alice@example.com", "wrong"},
		{"nobody@example.com", "s3cret"},
	} {
		_, err := accounts.Authenticate(ctx, tc.email, tc.password)
		var uerr *domain.UnauthorizedError
		if !errors.As(err, &uerr) {
			t.Errorf("Authenticate(%q) error = %v, want UnauthorizedError", tc.email, err)
		}
	}
}

func TestAccountService_Register_Conflicts(t *testing.T) {
	accounts := setupAccounts(t)
	ctx := context.Background()

	if _, err := accounts.Register(ctx, "alice", "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	var cerr *domain.ConflictError
	if _, err := accounts.Register(ctx, "alice2", "alice@example.com", "pw"); !errors.As(err, &cerr) {
		t.Errorf("Duplicate email error = %v, want ConflictError", err)
	}
	if _, err := accounts.Register(ctx, "alice", "other@example.com", "pw"); !errors.As(err, &cerr) {
		t.Errorf("Duplicate username error = %v, want ConflictError", err)
	}
}
