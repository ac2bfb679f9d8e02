package entities

import (
	"fmt"
	"time"
)

// Post represents an image post. Image is an opaque data-URL string blob
// stored and returned unchanged.
type Post struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"authorId"`
	Image        string    `json:"image"`
	Caption      string    `json:"caption"`
	Likes        *IDSet    `json:"likes"`
	CommentCount int       `json:"commentCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Validate checks if the post record is complete enough to persist.
func (p *Post) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("post ID is required")
	}
	if p.AuthorID == "" {
		return fmt.Errorf("author ID is required")
	}
	if p.Image == "" {
		return fmt.Errorf("image is required")
	}
	return nil
}

// LikeCount returns the number of users who liked the post.
func (p *Post) LikeCount() int { return p.Likes.Len() }
