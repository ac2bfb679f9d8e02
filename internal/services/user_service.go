package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hisakawa/tsunagari/internal/entities"
	"github.com/hisakawa/tsunagari/internal/repositories"
	"github.com/hisakawa/tsunagari/pkg/cache"
)

// ProfileCacheKey returns the cache key for a user profile. The graph change
// listener uses the same key to invalidate profiles across instances.
func ProfileCacheKey(userID string) string {
	return "profile:" + userID
}

// ProfilePatch carries a partial profile update. Nil fields are left
// unchanged.
type ProfilePatch struct {
	Username       *string
	Bio            *string
	ProfilePicture *string
}

// UserServiceInterface defines the interface for profile operations
type UserServiceInterface interface {
	GetProfile(ctx context.Context, id string) (*entities.User, error)
	UpdateProfile(ctx context.Context, actorID string, id string, patch ProfilePatch) (*entities.User, error)
}

// UserService serves user profiles, backed by an optional read-through
// cache. Profiles are cached whole, including the relationship graph, and
// invalidated whenever the graph or the profile changes.
type UserService struct {
	userRepo repositories.UserRepository
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewUserService creates a new UserService. cache may be nil to disable
// profile caching.
func NewUserService(userRepo repositories.UserRepository, profileCache cache.Cache, cacheTTL time.Duration) *UserService {
	return &UserService{
		userRepo: userRepo,
		cache:    profileCache,
		cacheTTL: cacheTTL,
	}
}

// GetProfile retrieves a user with its full relationship graph.
func (s *UserService) GetProfile(ctx context.Context, id string) (*entities.User, error) {
	if id == "" {
		return nil, fmt.Errorf("get profile: %w: user id is required", entities.ErrInvalidArgument)
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, ProfileCacheKey(id)); ok {
			if user, ok := cached.(*entities.User); ok {
				return user, nil
			}
		}
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("get profile: %w: user %s", entities.ErrNotFound, id)
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, ProfileCacheKey(id), user, s.cacheTTL)
	}
	return user, nil
}

// UpdateProfile applies a partial update to the caller's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, actorID string, id string, patch ProfilePatch) (*entities.User, error) {
	if actorID != id {
		return nil, fmt.Errorf("update profile: %w: cannot edit another user's profile", entities.ErrForbidden)
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("update profile: %w: user %s", entities.ErrNotFound, id)
	}

	if patch.Username != nil {
		username := strings.ToLower(strings.TrimSpace(*patch.Username))
		if username == "" {
			return nil, fmt.Errorf("update profile: %w: username cannot be empty", entities.ErrInvalidArgument)
		}
		user.Username = username
	}
	if patch.Bio != nil {
		user.Bio = strings.TrimSpace(*patch.Bio)
	}
	if patch.ProfilePicture != nil {
		user.ProfilePicture = *patch.ProfilePicture
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, ProfileCacheKey(id))
	}
	return user, nil
}
