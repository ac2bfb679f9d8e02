package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hisakawa/tsunagari/internal/entities"
	"github.com/hisakawa/tsunagari/pkg/cache/memorycache"
)

func strPtr(s string) *string { return &s }

func newTestProfileCache(t *testing.T) *memorycache.Cache {
	t.Helper()
	c, err := memorycache.New(&memorycache.Config{
		MaxEntries:    100,
		DefaultTTL:    time.Minute,
		EnableMetrics: true,
	})
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	return c
}

func TestUserService_GetProfile(t *testing.T) {
	repo := newMockUserRepository()
	repo.add("u1", "alice")
	profileCache := newTestProfileCache(t)
	service := NewUserService(repo, profileCache, time.Minute)
	ctx := context.Background()

	user, err := service.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("expected alice, got %s", user.Username)
	}

	// Second read is served from cache.
	if _, err := service.GetProfile(ctx, "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profileCache.Metrics().Hits != 1 {
		t.Errorf("expected 1 cache hit, got %d", profileCache.Metrics().Hits)
	}
}

func TestUserService_GetProfile_Errors(t *testing.T) {
	service := NewUserService(newMockUserRepository(), nil, time.Minute)
	ctx := context.Background()

	if _, err := service.GetProfile(ctx, "missing"); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
	if _, err := service.GetProfile(ctx, ""); !errors.Is(err, entities.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got: %v", err)
	}
}

func TestUserService_GetProfile_NilCache(t *testing.T) {
	repo := newMockUserRepository()
	repo.add("u1", "alice")
	service := NewUserService(repo, nil, time.Minute)

	if _, err := service.GetProfile(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	repo := newMockUserRepository()
	repo.add("u1", "alice")
	profileCache := newTestProfileCache(t)
	service := NewUserService(repo, profileCache, time.Minute)
	ctx := context.Background()

	// Prime the cache so the update has something to invalidate.
	if _, err := service.GetProfile(ctx, "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user, err := service.UpdateProfile(ctx, "u1", "u1", ProfilePatch{
		Bio:            strPtr("  hello  "),
		ProfilePicture: strPtr("data:image/png;base64,xxx"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Bio != "hello" {
		t.Errorf("expected trimmed bio, got %q", user.Bio)
	}
	if user.Username != "alice" {
		t.Error("expected untouched fields to survive a partial patch")
	}

	if _, ok := profileCache.Get(ctx, ProfileCacheKey("u1")); ok {
		t.Error("expected cached profile to be invalidated")
	}
}

func TestUserService_UpdateProfile_Errors(t *testing.T) {
	repo := newMockUserRepository()
	repo.add("u1", "alice")
	service := NewUserService(repo, nil, time.Minute)
	ctx := context.Background()

	if _, err := service.UpdateProfile(ctx, "u2", "u1", ProfilePatch{}); !errors.Is(err, entities.ErrForbidden) {
		t.Errorf("other user's profile: expected ErrForbidden, got: %v", err)
	}
	if _, err := service.UpdateProfile(ctx, "missing", "missing", ProfilePatch{}); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("missing user: expected ErrNotFound, got: %v", err)
	}
	if _, err := service.UpdateProfile(ctx, "u1", "u1", ProfilePatch{Username: strPtr("  ")}); !errors.Is(err, entities.ErrInvalidArgument) {
		t.Errorf("blank username: expected ErrInvalidArgument, got: %v", err)
	}
}
