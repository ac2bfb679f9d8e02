package entities

import (
	"fmt"
	"strings"
	"time"
)

// Group represents a user group. OwnerID is immutable after creation and is
// kept even if the owner later leaves the member set.
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"ownerId"`
	Members     *IDSet    `json:"members"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate checks if the group record is complete enough to persist.
func (g *Group) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("group ID is required")
	}
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("group name is required")
	}
	if g.OwnerID == "" {
		return fmt.Errorf("owner ID is required")
	}
	return nil
}

// MemberCount returns the number of members.
func (g *Group) MemberCount() int { return g.Members.Len() }
