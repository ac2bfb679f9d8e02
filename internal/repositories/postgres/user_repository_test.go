package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/hisakawa/tsunagari/internal/entities"
)

func newTestUser(id, username string) *entities.User {
	return &entities.User{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$2a$10$testhash",
		Graph:        entities.NewUserGraph(),
	}
}

func TestUserRepository_Create(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := NewPostgresUserRepository(db)
	ctx := context.Background()

	t.Run("正常系: ユーザー作成成功", func(t *testing.T) {
		if err := repo.Create(ctx, newTestUser("u1", "alice")); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		got, err := repo.GetByID(ctx, "u1")
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if got == nil {
			t.Fatal("Expected user, got nil")
		}
		if got.Username != "alice" {
			t.Errorf("Expected username alice, got %s", got.Username)
		}
		if got.Graph.Followers.Len() != 0 {
			t.Errorf("Expected empty followers, got %d", got.Graph.Followers.Len())
		}
	})

	t.Run("異常系: ユーザー名重複でConflict", func(t *testing.T) {
		dup := newTestUser("u2", "alice")
		err := repo.Create(ctx, dup)
		if !errors.Is(err, entities.ErrConflict) {
			t.Fatalf("Expected ErrConflict, got: %v", err)
		}
	})

	t.Run("異常系: 不完全なレコードでInvalidArgument", func(t *testing.T) {
		bad := newTestUser("u3", "carol")
		bad.Email = ""
		err := repo.Create(ctx, bad)
		if !errors.Is(err, entities.ErrInvalidArgument) {
			t.Fatalf("Expected ErrInvalidArgument, got: %v", err)
		}
	})
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := NewPostgresUserRepository(db)

	got, err := repo.GetByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for missing user, got %+v", got)
	}
}

func TestUserRepository_UpdatePair(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := NewPostgresUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, newTestUser("u1", "alice")); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if err := repo.Create(ctx, newTestUser("u2", "bob")); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	t.Run("正常系: 両レコードのグラフを同時更新", func(t *testing.T) {
		err := repo.UpdatePair(ctx, "u1", "u2", func(a, b *entities.User) error {
			b.Graph.Followers.Add(a.ID)
			a.Graph.Following.Add(b.ID)
			return nil
		})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		alice, _ := repo.GetByID(ctx, "u1")
		bob, _ := repo.GetByID(ctx, "u2")
		if !alice.Graph.Following.Has("u2") {
			t.Error("Expected u2 in alice.following")
		}
		if !bob.Graph.Followers.Has("u1") {
			t.Error("Expected u1 in bob.followers")
		}
	})

	t.Run("正常系: mutatorのエラーでロールバック", func(t *testing.T) {
		boom := errors.New("boom")
		err := repo.UpdatePair(ctx, "u1", "u2", func(a, b *entities.User) error {
			a.Graph.Friends.Add(b.ID)
			b.Graph.Friends.Add(a.ID)
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("Expected mutator error, got: %v", err)
		}

		alice, _ := repo.GetByID(ctx, "u1")
		if alice.Graph.Friends.Has("u2") {
			t.Error("Expected friends unchanged after rollback")
		}
	})

	t.Run("異常系: 相手が存在しない場合NotFound", func(t *testing.T) {
		err := repo.UpdatePair(ctx, "u1", "missing", func(a, b *entities.User) error {
			return nil
		})
		if !errors.Is(err, entities.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound, got: %v", err)
		}
	})

	t.Run("異常系: 同一IDペアでInvalidArgument", func(t *testing.T) {
		err := repo.UpdatePair(ctx, "u1", "u1", func(a, b *entities.User) error {
			return nil
		})
		if !errors.Is(err, entities.ErrInvalidArgument) {
			t.Fatalf("Expected ErrInvalidArgument, got: %v", err)
		}
	})
}

func TestUserRepository_UpdatePair_ArgumentOrder(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := NewPostgresUserRepository(db)
	ctx := context.Background()

	// Lock order is by ascending id, but a/b must follow argument order.
	if err := repo.Create(ctx, newTestUser("z9", "zoe")); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if err := repo.Create(ctx, newTestUser("a1", "amy")); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	err := repo.UpdatePair(ctx, "z9", "a1", func(a, b *entities.User) error {
		if a.ID != "z9" || b.ID != "a1" {
			t.Errorf("Expected argument order (z9, a1), got (%s, %s)", a.ID, b.ID)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := NewPostgresUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, newTestUser("u1", "alice")); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	t.Run("正常系: プロフィール更新成功", func(t *testing.T) {
		user, _ := repo.GetByID(ctx, "u1")
		user.Bio = "hello"
		user.ProfilePicture = "data:image/png;base64,xxx"

		if err := repo.UpdateProfile(ctx, user); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		got, _ := repo.GetByID(ctx, "u1")
		if got.Bio != "hello" {
			t.Errorf("Expected bio hello, got %s", got.Bio)
		}
		if got.ProfilePicture == "" {
			t.Error("Expected profile picture to be set")
		}
	})

	t.Run("異常系: 存在しないユーザーでNotFound", func(t *testing.T) {
		ghost := newTestUser("missing", "ghost")
		err := repo.UpdateProfile(ctx, ghost)
		if !errors.Is(err, entities.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound, got: %v", err)
		}
	})
}
