package entities

import (
	"fmt"
	"strings"
	"time"
)

// User represents a registered account together with its relationship graph.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profilePicture"`
	Graph          UserGraph `json:"graph"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// UserGraph holds the five relationship sets of a user.
//
// Cross-record invariants, enforced by the relationship service on every
// write (the storage layer does not enforce them):
//
//	B ∈ A.Followers        ⟺ A ∈ B.Following
//	B ∈ A.Friends          ⟺ A ∈ B.Friends
//	B ∈ A.OutgoingRequests ⟺ A ∈ B.IncomingRequests
//
// For an ordered pair (A,B) exactly one of holds: no relation, a pending
// request in one direction, or friendship. A pair is never simultaneously
// friends and pending.
type UserGraph struct {
	Followers        *IDSet `json:"followers"`
	Following        *IDSet `json:"following"`
	Friends          *IDSet `json:"friends"`
	IncomingRequests *IDSet `json:"incomingRequests"`
	OutgoingRequests *IDSet `json:"outgoingRequests"`
}

// NewUserGraph returns an empty relationship graph.
func NewUserGraph() UserGraph {
	return UserGraph{
		Followers:        NewIDSet(),
		Following:        NewIDSet(),
		Friends:          NewIDSet(),
		IncomingRequests: NewIDSet(),
		OutgoingRequests: NewIDSet(),
	}
}

// Validate checks if the user record is complete enough to persist.
func (u *User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user ID is required")
	}
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("username is required")
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("password hash is required")
	}
	return nil
}

// FollowerCount returns the number of followers.
func (u *User) FollowerCount() int { return u.Graph.Followers.Len() }

// FollowingCount returns the number of followed users.
func (u *User) FollowingCount() int { return u.Graph.Following.Len() }

// FriendCount returns the number of friends.
func (u *User) FriendCount() int { return u.Graph.Friends.Len() }
