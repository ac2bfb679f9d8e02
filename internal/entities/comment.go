package entities

import (
	"fmt"
	"strings"
	"time"
)

// Comment represents a comment on a post, with its own like set.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"authorId"`
	Text      string    `json:"text"`
	Likes     *IDSet    `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate checks if the comment record is complete enough to persist.
func (c *Comment) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("comment ID is required")
	}
	if c.PostID == "" {
		return fmt.Errorf("post ID is required")
	}
	if c.AuthorID == "" {
		return fmt.Errorf("author ID is required")
	}
	if strings.TrimSpace(c.Text) == "" {
		return fmt.Errorf("text is required")
	}
	return nil
}

// LikeCount returns the number of users who liked the comment.
func (c *Comment) LikeCount() int { return c.Likes.Len() }
