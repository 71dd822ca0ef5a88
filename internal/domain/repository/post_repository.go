package repository

import (
	"context"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
)

// PostRepository defines the persistence operations for posts, likes and comments.
// Read methods return posts with Likes and Comments populated, comments in insertion order.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	// List returns posts newest-first along with the total count.
	List(ctx context.Context, offset, limit int) ([]entity.Post, int, error)
	ListByAuthor(ctx context.Context, authorID string, limit int) ([]entity.Post, error)
	// Update persists Content and ImageURL and refreshes UpdatedAt.
	Update(ctx context.Context, p *entity.Post) error
	Delete(ctx context.Context, id string) error

	// ToggleLike flips userID's membership in the like set and returns the new state.
	ToggleLike(ctx context.Context, postID, userID string) (bool, error)
	// AddComment appends c to the post's comment log, filling ID and CreatedAt.
	AddComment(ctx context.Context, c *entity.Comment) error
}
