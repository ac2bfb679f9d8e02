package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hisakawa/tsunagari/internal/entities"
	"github.com/hisakawa/tsunagari/internal/repositories"
)

// GroupServiceInterface defines the interface for group membership operations
type GroupServiceInterface interface {
	CreateGroup(ctx context.Context, ownerID string, name string, description string) (*entities.Group, error)
	GetGroup(ctx context.Context, groupID string) (*entities.Group, error)
	ListGroups(ctx context.Context) ([]*entities.Group, error)
	Join(ctx context.Context, userID string, groupID string) error
	Leave(ctx context.Context, userID string, groupID string) error
}

// GroupService handles group creation and membership
type GroupService struct {
	groupRepo repositories.GroupRepository
	userRepo  repositories.UserRepository
}

// NewGroupService creates a new GroupService
func NewGroupService(groupRepo repositories.GroupRepository, userRepo repositories.UserRepository) *GroupService {
	return &GroupService{
		groupRepo: groupRepo,
		userRepo:  userRepo,
	}
}

// CreateGroup creates a group with the owner as its sole member.
func (s *GroupService) CreateGroup(ctx context.Context, ownerID string, name string, description string) (*entities.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("create group: %w: group name is required", entities.ErrInvalidArgument)
	}

	exists, err := s.userRepo.Exists(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check owner: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("create group: %w: user %s", entities.ErrNotFound, ownerID)
	}

	group := &entities.Group{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		OwnerID:     ownerID,
		Members:     entities.NewIDSet(ownerID),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return group, nil
}

// GetGroup retrieves a group by id.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*entities.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return nil, fmt.Errorf("get group: %w: group %s", entities.ErrNotFound, groupID)
	}
	return group, nil
}

// ListGroups returns all groups, newest first.
func (s *GroupService) ListGroups(ctx context.Context) ([]*entities.Group, error) {
	groups, err := s.groupRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// Join adds the user to the group's member set. Fails with Conflict when the
// user is already a member.
func (s *GroupService) Join(ctx context.Context, userID string, groupID string) error {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return fmt.Errorf("join group: %w: user %s", entities.ErrNotFound, userID)
	}

	err = s.groupRepo.Update(ctx, groupID, func(group *entities.Group) error {
		if group.Members.Has(userID) {
			return fmt.Errorf("%w: already a member", entities.ErrConflict)
		}
		group.Members.Add(userID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to join group: %w", err)
	}
	return nil
}

// Leave removes the user from the group's member set. Leaving a group the
// user is not in succeeds without change; the owner may leave like any other
// member and the group keeps existing.
func (s *GroupService) Leave(ctx context.Context, userID string, groupID string) error {
	err := s.groupRepo.Update(ctx, groupID, func(group *entities.Group) error {
		group.Members.Remove(userID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to leave group: %w", err)
	}
	return nil
}
