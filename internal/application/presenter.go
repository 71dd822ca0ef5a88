package application

import (
	"context"

	"github.com/samber/lo"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
	repo "github.com/oksasatya/go-social-api/internal/domain/repository"
)

// IdentityCache keeps recently resolved users. Entries never carry a password.
type IdentityCache interface {
	Get(ctx context.Context, id string) (entity.User, bool)
	Set(ctx context.Context, u entity.User)
}

// Presenter expands stored references into display identities.
type Presenter struct {
	Users repo.UserRepository
	Cache IdentityCache
}

func NewPresenter(users repo.UserRepository, cache IdentityCache) *Presenter {
	return &Presenter{Users: users, Cache: cache}
}

func (p *Presenter) identities(ctx context.Context, ids []string) (map[string]entity.User, error) {
	ids = lo.Uniq(ids)
	out := make(map[string]entity.User, len(ids))
	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if p.Cache != nil {
			if u, ok := p.Cache.Get(ctx, id); ok {
				out[id] = u
				continue
			}
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}
	users, err := p.Users.FindByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.Password = ""
		out[u.ID] = u
		if p.Cache != nil {
			p.Cache.Set(ctx, u)
		}
	}
	return out, nil
}

// Summaries resolves ids in order; ids with no matching user are skipped.
func (p *Presenter) Summaries(ctx context.Context, ids []string, withBio bool) ([]UserSummary, error) {
	known, err := p.identities(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]UserSummary, 0, len(ids))
	for _, id := range ids {
		u, ok := known[id]
		if !ok {
			continue
		}
		s := summaryOf(u)
		if withBio {
			s.Bio = u.Bio
		}
		out = append(out, s)
	}
	return out, nil
}

// Posts renders posts with author and comment authors resolved. viewerID may be empty.
func (p *Presenter) Posts(ctx context.Context, posts []entity.Post, viewerID string) ([]PostView, error) {
	ids := make([]string, 0, len(posts))
	for _, post := range posts {
		ids = append(ids, post.AuthorID)
		for _, c := range post.Comments {
			ids = append(ids, c.UserID)
		}
	}
	known, err := p.identities(ctx, ids)
	if err != nil {
		return nil, err
	}
	summary := func(id string) UserSummary {
		if u, ok := known[id]; ok {
			return summaryOf(u)
		}
		return UserSummary{ID: id}
	}

	out := make([]PostView, 0, len(posts))
	for i := range posts {
		post := &posts[i]
		v := PostView{
			ID:           post.ID,
			Author:       summary(post.AuthorID),
			Content:      post.Content,
			Likes:        append([]string{}, post.Likes...),
			LikeCount:    len(post.Likes),
			CommentCount: len(post.Comments),
			CreatedAt:    post.CreatedAt,
			UpdatedAt:    post.UpdatedAt,
		}
		if post.ImageURL != "" {
			v.ImageURL = lo.ToPtr(post.ImageURL)
		}
		v.Comments = lo.Map(post.Comments, func(c entity.Comment, _ int) CommentView {
			return CommentView{ID: c.ID, User: summary(c.UserID), Content: c.Content, CreatedAt: c.CreatedAt}
		})
		if viewerID != "" {
			v.IsLiked = lo.ToPtr(post.IsLikedBy(viewerID))
		}
		out = append(out, v)
	}
	return out, nil
}

// Post renders a single post.
func (p *Presenter) Post(ctx context.Context, post *entity.Post, viewerID string) (*PostView, error) {
	views, err := p.Posts(ctx, []entity.Post{*post}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
