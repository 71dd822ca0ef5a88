package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Password holds a bcrypt hash and is never serialized outward.
type User struct {
	ID        string
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Bio       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Follow is a directed edge: FollowerID follows FolloweeID.
// Both the followers and following lists of a user are read from these edges.
type Follow struct {
	FollowerID string
	FolloweeID string
	CreatedAt  time.Time
}
