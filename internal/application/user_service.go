package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
	repo "github.com/oksasatya/go-social-api/internal/domain/repository"
)

const (
	profilePostLimit = 10
	searchLimit      = 10
	reindexBatch     = 200
)

type UserList struct {
	Users       []UserView `json:"users"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
	TotalUsers  int        `json:"totalUsers"`
}

type Profile struct {
	User  ProfileUserView `json:"user"`
	Posts []PostView      `json:"posts"`
}

type UserService struct {
	Users     repo.UserRepository
	Posts     repo.PostRepository
	Presenter *Presenter
	Index     UserIndex
	Notify    *Notifications
	Logger    *logrus.Logger
	MaxLimit  int
}

func NewUserService(users repo.UserRepository, posts repo.PostRepository, presenter *Presenter, index UserIndex, notify *Notifications, logger *logrus.Logger, maxLimit int) *UserService {
	return &UserService{Users: users, Posts: posts, Presenter: presenter, Index: index, Notify: notify, Logger: logger, MaxLimit: maxLimit}
}

// splitEdges groups edges into follower and following id lists per user.
func splitEdges(edges []entity.Follow) (followers, following map[string][]string) {
	followers = make(map[string][]string)
	following = make(map[string][]string)
	for _, e := range edges {
		followers[e.FolloweeID] = append(followers[e.FolloweeID], e.FollowerID)
		following[e.FollowerID] = append(following[e.FollowerID], e.FolloweeID)
	}
	return followers, following
}

func viewsWithFollows(ctx context.Context, users repo.UserRepository, list []entity.User) ([]UserView, error) {
	ids := lo.Map(list, func(u entity.User, _ int) string { return u.ID })
	edges, err := users.FollowEdges(ctx, ids)
	if err != nil {
		return nil, err
	}
	followers, following := splitEdges(edges)
	return lo.Map(list, func(u entity.User, _ int) UserView {
		return userView(u, nonNil(followers[u.ID]), nonNil(following[u.ID]))
	}), nil
}

func viewWithFollows(ctx context.Context, users repo.UserRepository, u entity.User) (UserView, error) {
	views, err := viewsWithFollows(ctx, users, []entity.User{u})
	if err != nil {
		return UserView{}, err
	}
	return views[0], nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

// canonicalID returns the lower-case form of a uuid id, or false if id
// cannot name a stored record.
func canonicalID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

func (s *UserService) getUser(ctx context.Context, id string) (*entity.User, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, ErrUserNotFound
	}
	u, err := s.Users.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *UserService) List(ctx context.Context, page, limit string) (*UserList, error) {
	p := ParsePage(page, limit, s.MaxLimit)
	users, total, err := s.Users.List(ctx, p.Offset(), p.Limit)
	if err != nil {
		return nil, err
	}
	views, err := viewsWithFollows(ctx, s.Users, users)
	if err != nil {
		return nil, err
	}
	return &UserList{
		Users:       views,
		CurrentPage: p.Number,
		TotalPages:  TotalPages(total, p.Limit),
		TotalUsers:  total,
	}, nil
}

func (s *UserService) GetProfile(ctx context.Context, id string) (*Profile, error) {
	u, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	edges, err := s.Users.FollowEdges(ctx, []string{u.ID})
	if err != nil {
		return nil, err
	}
	followers, following := splitEdges(edges)
	followerViews, err := s.Presenter.Summaries(ctx, followers[u.ID], false)
	if err != nil {
		return nil, err
	}
	followingViews, err := s.Presenter.Summaries(ctx, following[u.ID], false)
	if err != nil {
		return nil, err
	}

	posts, err := s.Posts.ListByAuthor(ctx, u.ID, profilePostLimit)
	if err != nil {
		return nil, err
	}
	postViews, err := s.Presenter.Posts(ctx, posts, "")
	if err != nil {
		return nil, err
	}

	return &Profile{
		User: ProfileUserView{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Bio:       u.Bio,
			Followers: followerViews,
			Following: followingViews,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
		},
		Posts: postViews,
	}, nil
}

// Search matches fragment case-insensitively inside usernames. The index is
// consulted first; the repository serves when it is absent, failing or has
// no hit, since users created while it was unreachable are missing from it.
func (s *UserService) Search(ctx context.Context, fragment string) ([]UserView, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return []UserView{}, nil
	}

	if s.Index != nil {
		ids, err := s.Index.SearchUsernames(ctx, fragment, searchLimit)
		switch {
		case err != nil:
			if s.Logger != nil {
				s.Logger.WithError(err).Warn("user index search failed, falling back to store")
			}
		case len(ids) > 0:
			found, err := s.Users.FindByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			if len(found) > 0 {
				return viewsWithFollows(ctx, s.Users, orderByIDs(found, ids))
			}
		}
	}

	users, err := s.Users.SearchByUsername(ctx, fragment, searchLimit)
	if err != nil {
		return nil, err
	}
	return viewsWithFollows(ctx, s.Users, users)
}

func orderByIDs(users []entity.User, ids []string) []entity.User {
	byID := lo.KeyBy(users, func(u entity.User) string { return u.ID })
	out := make([]entity.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out
}

// Reindex pushes every stored user to the index and returns how many were sent.
func (s *UserService) Reindex(ctx context.Context) (int, error) {
	if s.Index == nil {
		return 0, nil
	}
	sent := 0
	for offset := 0; ; offset += reindexBatch {
		users, total, err := s.Users.List(ctx, offset, reindexBatch)
		if err != nil {
			return sent, err
		}
		for _, u := range users {
			if err := s.Index.IndexUser(ctx, u); err != nil {
				return sent, fmt.Errorf("index user %s: %w", u.ID, err)
			}
			sent++
		}
		if len(users) == 0 || offset+len(users) >= total {
			return sent, nil
		}
	}
}

func (s *UserService) Follow(ctx context.Context, targetID, actorID string) error {
	if targetID == actorID {
		return ErrSelfFollow
	}
	target, err := s.getUser(ctx, targetID)
	if err != nil {
		return err
	}
	// the path id may differ from the stored one only in case
	if target.ID == actorID {
		return ErrSelfFollow
	}
	created, err := s.Users.Follow(ctx, actorID, target.ID)
	if err != nil {
		return err
	}
	if !created {
		return ErrAlreadyFollowing
	}
	if actor, err := s.Users.GetByID(ctx, actorID); err == nil {
		s.Notify.NewFollower(ctx, target, actor)
	}
	return nil
}

func (s *UserService) Unfollow(ctx context.Context, targetID, actorID string) error {
	target, err := s.getUser(ctx, targetID)
	if err != nil {
		return err
	}
	removed, err := s.Users.Unfollow(ctx, actorID, target.ID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFollowing
	}
	return nil
}

func (s *UserService) Followers(ctx context.Context, id string) ([]UserSummary, error) {
	return s.relations(ctx, id, true)
}

func (s *UserService) Following(ctx context.Context, id string) ([]UserSummary, error) {
	return s.relations(ctx, id, false)
}

func (s *UserService) relations(ctx context.Context, id string, wantFollowers bool) ([]UserSummary, error) {
	u, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	edges, err := s.Users.FollowEdges(ctx, []string{u.ID})
	if err != nil {
		return nil, err
	}
	followers, following := splitEdges(edges)
	ids := following[u.ID]
	if wantFollowers {
		ids = followers[u.ID]
	}
	return s.Presenter.Summaries(ctx, ids, true)
}
