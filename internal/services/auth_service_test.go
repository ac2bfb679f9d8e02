package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hisakawa/tsunagari/internal/entities"
)

const testSecret = "test-secret"

func newTestAuthService(repo *mockUserRepository) *AuthService {
	return NewAuthService(repo, testSecret, time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	repo := newMockUserRepository()
	service := newTestAuthService(repo)
	ctx := context.Background()

	user, token, err := service.Register(ctx, "  Alice ", "Alice@Example.com", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("expected lowercase username, got %q", user.Username)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("expected lowercase email, got %q", user.Email)
	}
	if user.PasswordHash == "secret1" || user.PasswordHash == "" {
		t.Error("expected password to be hashed")
	}
	if user.Graph.Followers.Len() != 0 {
		t.Error("expected empty graph at registration")
	}
	if token == "" {
		t.Error("expected signed token")
	}

	// Token resolves back to the new account.
	gotID, err := service.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != user.ID {
		t.Errorf("expected subject %s, got %s", user.ID, gotID)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"missing username", "", "a@example.com", "secret1"},
		{"missing email", "alice", "", "secret1"},
		{"missing password", "alice", "a@example.com", ""},
		{"short password", "alice", "a@example.com", "12345"},
		{"email without at sign", "alice", "example.com", "secret1"},
	}

	service := newTestAuthService(newMockUserRepository())
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := service.Register(ctx, tt.username, tt.email, tt.password)
			if !errors.Is(err, entities.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got: %v", err)
			}
		})
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	service := newTestAuthService(newMockUserRepository())
	ctx := context.Background()

	if _, _, err := service.Register(ctx, "alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, _, err := service.Register(ctx, "alice", "other@example.com", "secret1")
	if !errors.Is(err, entities.ErrConflict) {
		t.Errorf("duplicate username: expected ErrConflict, got: %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	service := newTestAuthService(newMockUserRepository())
	ctx := context.Background()

	registered, _, err := service.Register(ctx, "alice", "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		user, token, err := service.Login(ctx, "Alice@Example.com", "secret1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ID != registered.ID {
			t.Errorf("expected user %s, got %s", registered.ID, user.ID)
		}
		if token == "" {
			t.Error("expected signed token")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := service.Login(ctx, "alice@example.com", "wrong")
		if !errors.Is(err, entities.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got: %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := service.Login(ctx, "ghost@example.com", "secret1")
		if !errors.Is(err, entities.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got: %v", err)
		}
	})
}

func TestAuthService_Authenticate_Errors(t *testing.T) {
	repo := newMockUserRepository()
	service := newTestAuthService(repo)
	ctx := context.Background()

	t.Run("garbage token", func(t *testing.T) {
		if _, err := service.Authenticate(ctx, "not-a-token"); !errors.Is(err, entities.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got: %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewAuthService(repo, "other-secret", time.Hour)
		_, token, err := service.Register(ctx, "alice", "alice@example.com", "secret1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := other.Authenticate(ctx, token); !errors.Is(err, entities.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got: %v", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewAuthService(repo, testSecret, -time.Hour)
		_, token, err := expired.Register(ctx, "bob", "bob@example.com", "secret1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := service.Authenticate(ctx, token); !errors.Is(err, entities.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got: %v", err)
		}
	})

	t.Run("deleted account", func(t *testing.T) {
		user, token, err := service.Register(ctx, "carol", "carol@example.com", "secret1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		delete(repo.users, user.ID)
		if _, err := service.Authenticate(ctx, token); !errors.Is(err, entities.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got: %v", err)
		}
	})
}
