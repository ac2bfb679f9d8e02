package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/hisakawa/tsunagari/internal/entities"
)

func TestGroupRepository_CreateAndGet(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	userRepo := NewPostgresUserRepository(db)
	repo := NewPostgresGroupRepository(db)
	ctx := context.Background()

	if err := userRepo.Create(ctx, newTestUser("u1", "alice")); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	t.Run("正常系: グループ作成成功", func(t *testing.T) {
		group := &entities.Group{
			ID:          "g1",
			Name:        "Hikers",
			Description: "weekend hikes",
			OwnerID:     "u1",
			Members:     entities.NewIDSet("u1"),
		}
		if err := repo.Create(ctx, group); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		got, err := repo.GetByID(ctx, "g1")
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if got == nil {
			t.Fatal("Expected group, got nil")
		}
		if got.Name != "Hikers" {
			t.Errorf("Expected name Hikers, got %s", got.Name)
		}
		if !got.Members.Has("u1") {
			t.Error("Expected owner in members")
		}
	})

	t.Run("正常系: 存在しないグループはnil", func(t *testing.T) {
		got, err := repo.GetByID(ctx, "missing")
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if got != nil {
			t.Errorf("Expected nil for missing group, got %+v", got)
		}
	})
}

func TestGroupRepository_Update(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	userRepo := NewPostgresUserRepository(db)
	repo := NewPostgresGroupRepository(db)
	ctx := context.Background()

	if err := userRepo.Create(ctx, newTestUser("u1", "alice")); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	group := &entities.Group{
		ID:      "g1",
		Name:    "Hikers",
		OwnerID: "u1",
		Members: entities.NewIDSet("u1"),
	}
	if err := repo.Create(ctx, group); err != nil {
		t.Fatalf("Failed to create group: %v", err)
	}

	t.Run("正常系: メンバー追加が永続化される", func(t *testing.T) {
		err := repo.Update(ctx, "g1", func(g *entities.Group) error {
			g.Members.Add("u2")
			return nil
		})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		got, _ := repo.GetByID(ctx, "g1")
		if got.MemberCount() != 2 {
			t.Errorf("Expected 2 members, got %d", got.MemberCount())
		}
	})

	t.Run("正常系: mutatorのエラーでロールバック", func(t *testing.T) {
		boom := errors.New("boom")
		err := repo.Update(ctx, "g1", func(g *entities.Group) error {
			g.Members.Add("u3")
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("Expected mutator error, got: %v", err)
		}

		got, _ := repo.GetByID(ctx, "g1")
		if got.Members.Has("u3") {
			t.Error("Expected members unchanged after rollback")
		}
	})

	t.Run("異常系: 存在しないグループでNotFound", func(t *testing.T) {
		err := repo.Update(ctx, "missing", func(g *entities.Group) error {
			return nil
		})
		if !errors.Is(err, entities.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound, got: %v", err)
		}
	})
}

func TestGroupRepository_List(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	userRepo := NewPostgresUserRepository(db)
	repo := NewPostgresGroupRepository(db)
	ctx := context.Background()

	if err := userRepo.Create(ctx, newTestUser("u1", "alice")); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	for _, g := range []*entities.Group{
		{ID: "g1", Name: "Hikers", OwnerID: "u1", Members: entities.NewIDSet("u1")},
		{ID: "g2", Name: "Readers", OwnerID: "u1", Members: entities.NewIDSet("u1")},
	} {
		if err := repo.Create(ctx, g); err != nil {
			t.Fatalf("Failed to create group: %v", err)
		}
	}

	groups, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
}
