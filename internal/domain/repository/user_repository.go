package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a unique constraint would be violated.
	ErrConflict = errors.New("record conflict")
)

// UserRepository defines the persistence operations for accounts and the follow graph.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]entity.User, error)
	// List returns users newest-first along with the total count.
	List(ctx context.Context, offset, limit int) ([]entity.User, int, error)
	// SearchByUsername matches fragment case-insensitively anywhere in the username.
	SearchByUsername(ctx context.Context, fragment string, limit int) ([]entity.User, error)

	// Follow inserts the edge and reports false if it already existed.
	Follow(ctx context.Context, followerID, followeeID string) (bool, error)
	// Unfollow removes the edge and reports false if there was none.
	Unfollow(ctx context.Context, followerID, followeeID string) (bool, error)
	// FollowEdges returns every edge touching any of the given users.
	FollowEdges(ctx context.Context, userIDs []string) ([]entity.Follow, error)
}
