package entity

import (
	"time"

	"github.com/samber/lo"
)

// Post is a content unit owned by AuthorID. At least one of Content and
// ImageURL is non-empty.
type Post struct {
	ID        string
	AuthorID  string
	Content   string
	ImageURL  string
	Likes     []string
	Comments  []Comment
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment is an entry in a post's append-only comment log.
type Comment struct {
	ID        string
	PostID    string
	UserID    string
	Content   string
	CreatedAt time.Time
}

// HasBody reports whether the post carries text or an image.
func (p *Post) HasBody() bool {
	return p.Content != "" || p.ImageURL != ""
}

// IsLikedBy reports whether userID is in the like set.
func (p *Post) IsLikedBy(userID string) bool {
	return lo.Contains(p.Likes, userID)
}
