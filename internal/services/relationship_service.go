package services

import (
	"context"
	"fmt"

	"github.com/hisakawa/tsunagari/internal/entities"
	"github.com/hisakawa/tsunagari/internal/repositories"
)

// RelationshipServiceInterface defines the interface for social graph operations
type RelationshipServiceInterface interface {
	Follow(ctx context.Context, actorID string, targetID string) error
	Unfollow(ctx context.Context, actorID string, targetID string) error
	SendFriendRequest(ctx context.Context, actorID string, targetID string) error
	AcceptFriendRequest(ctx context.Context, actorID string, requesterID string) error
	RemoveFriend(ctx context.Context, actorID string, targetID string) error
}

// RelationshipService enforces the follow, friendship and request
// invariants across both user records of each pair. Every mutation runs
// through UserRepository.UpdatePair, so the two graphs are persisted
// atomically and the mirroring invariants of entities.UserGraph hold after
// every completed call.
type RelationshipService struct {
	userRepo repositories.UserRepository
}

// NewRelationshipService creates a new RelationshipService
func NewRelationshipService(userRepo repositories.UserRepository) *RelationshipService {
	return &RelationshipService{
		userRepo: userRepo,
	}
}

// Follow adds actor to target's followers and target to actor's following.
// Calling it again for an established relation is a no-op.
func (s *RelationshipService) Follow(ctx context.Context, actorID string, targetID string) error {
	if actorID == targetID {
		return fmt.Errorf("follow: %w: cannot follow yourself", entities.ErrInvalidArgument)
	}

	err := s.userRepo.UpdatePair(ctx, actorID, targetID, func(actor, target *entities.User) error {
		if target.Graph.Followers.Has(actor.ID) {
			return nil
		}
		target.Graph.Followers.Add(actor.ID)
		actor.Graph.Following.Add(target.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to follow: %w", err)
	}
	return nil
}

// Unfollow removes the follow relation in both records. Removing a relation
// that does not exist succeeds without change.
func (s *RelationshipService) Unfollow(ctx context.Context, actorID string, targetID string) error {
	if actorID == targetID {
		return fmt.Errorf("unfollow: %w: cannot unfollow yourself", entities.ErrInvalidArgument)
	}

	err := s.userRepo.UpdatePair(ctx, actorID, targetID, func(actor, target *entities.User) error {
		target.Graph.Followers.Remove(actor.ID)
		actor.Graph.Following.Remove(target.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to unfollow: %w", err)
	}
	return nil
}

// SendFriendRequest records a pending request from actor to target. When the
// target already has a pending request toward the actor, the two requests
// cancel out and the pair becomes friends immediately instead of holding two
// opposite pending edges.
func (s *RelationshipService) SendFriendRequest(ctx context.Context, actorID string, targetID string) error {
	if actorID == targetID {
		return fmt.Errorf("send friend request: %w: cannot friend yourself", entities.ErrInvalidArgument)
	}

	err := s.userRepo.UpdatePair(ctx, actorID, targetID, func(actor, target *entities.User) error {
		if actor.Graph.Friends.Has(target.ID) {
			return fmt.Errorf("%w: already friends", entities.ErrConflict)
		}
		if actor.Graph.OutgoingRequests.Has(target.ID) {
			return fmt.Errorf("%w: request already sent", entities.ErrConflict)
		}
		if actor.Graph.IncomingRequests.Has(target.ID) {
			// Mirrored request: target already asked, so accept.
			befriend(actor, target)
			return nil
		}
		actor.Graph.OutgoingRequests.Add(target.ID)
		target.Graph.IncomingRequests.Add(actor.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to send friend request: %w", err)
	}
	return nil
}

// AcceptFriendRequest converts a pending request from requester into a
// friendship. Fails with InvalidArgument when no such request is pending.
func (s *RelationshipService) AcceptFriendRequest(ctx context.Context, actorID string, requesterID string) error {
	if actorID == requesterID {
		return fmt.Errorf("accept friend request: %w: cannot friend yourself", entities.ErrInvalidArgument)
	}

	err := s.userRepo.UpdatePair(ctx, actorID, requesterID, func(actor, requester *entities.User) error {
		if !actor.Graph.IncomingRequests.Has(requester.ID) {
			return fmt.Errorf("%w: no pending request from %s", entities.ErrInvalidArgument, requester.ID)
		}
		befriend(actor, requester)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to accept friend request: %w", err)
	}
	return nil
}

// RemoveFriend clears every friendship and pending-request edge between the
// two users, in both directions. It serves as unfriend, reject and cancel at
// once and succeeds regardless of the pair's current state.
func (s *RelationshipService) RemoveFriend(ctx context.Context, actorID string, targetID string) error {
	if actorID == targetID {
		return fmt.Errorf("remove friend: %w: cannot unfriend yourself", entities.ErrInvalidArgument)
	}

	err := s.userRepo.UpdatePair(ctx, actorID, targetID, func(actor, target *entities.User) error {
		actor.Graph.Friends.Remove(target.ID)
		target.Graph.Friends.Remove(actor.ID)
		actor.Graph.IncomingRequests.Remove(target.ID)
		actor.Graph.OutgoingRequests.Remove(target.ID)
		target.Graph.IncomingRequests.Remove(actor.ID)
		target.Graph.OutgoingRequests.Remove(actor.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove friend: %w", err)
	}
	return nil
}

// befriend replaces any pending edges between the two users with a mutual
// friendship.
func befriend(a, b *entities.User) {
	a.Graph.IncomingRequests.Remove(b.ID)
	a.Graph.OutgoingRequests.Remove(b.ID)
	b.Graph.IncomingRequests.Remove(a.ID)
	b.Graph.OutgoingRequests.Remove(a.ID)
	a.Graph.Friends.Add(b.ID)
	b.Graph.Friends.Add(a.ID)
}
