package application

import (
	"time"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
)

// UserSummary is the display identity embedded wherever a user is referenced.
type UserSummary struct {
	ID        string `json:"_id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Bio       string `json:"bio,omitempty"`
}

// UserView is a user without the password; follow relations as id lists.
type UserView struct {
	ID        string    `json:"_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Bio       string    `json:"bio"`
	Followers []string  `json:"followers"`
	Following []string  `json:"following"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProfileUserView is a user with follow relations resolved to display identities.
type ProfileUserView struct {
	ID        string        `json:"_id"`
	Username  string        `json:"username"`
	Email     string        `json:"email"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Bio       string        `json:"bio"`
	Followers []UserSummary `json:"followers"`
	Following []UserSummary `json:"following"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type CommentView struct {
	ID        string      `json:"_id"`
	User      UserSummary `json:"user"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
}

type PostView struct {
	ID           string        `json:"_id"`
	Author       UserSummary   `json:"author"`
	Content      string        `json:"content"`
	ImageURL     *string       `json:"imageUrl"`
	Likes        []string      `json:"likes"`
	LikeCount    int           `json:"likeCount"`
	Comments     []CommentView `json:"comments"`
	CommentCount int           `json:"commentCount"`
	// IsLiked is set only when the viewer is known.
	IsLiked   *bool     `json:"isLiked,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func summaryOf(u entity.User) UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, FirstName: u.FirstName, LastName: u.LastName}
}

func userView(u entity.User, followers, following []string) UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Followers: followers,
		Following: following,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
