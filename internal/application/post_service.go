package application

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
	repo "github.com/oksasatya/go-social-api/internal/domain/repository"
)

const (
	maxPostLen    = 1000
	maxCommentLen = 500
)

var (
	errPostBody      = invalid("Post must have text or an image.")
	errPostTooLong   = invalid("Post content cannot exceed 1000 characters")
	errCommentBody   = invalid("Comment content is required")
	errCommentLength = invalid("Comment cannot exceed 500 characters")
	errImageURL      = invalid("Image URL must be a valid http(s) URL")
)

type PostList struct {
	Posts       []PostView `json:"posts"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
	TotalPosts  int        `json:"totalPosts"`
}

// PostChanges is a partial update. A nil field is left untouched; an empty
// ImageURL clears the image.
type PostChanges struct {
	Content  *string
	ImageURL *string
}

type PostService struct {
	Posts     repo.PostRepository
	Users     repo.UserRepository
	Presenter *Presenter
	Notify    *Notifications
	Logger    *logrus.Logger
	MaxLimit  int
}

func NewPostService(posts repo.PostRepository, users repo.UserRepository, presenter *Presenter, notify *Notifications, logger *logrus.Logger, maxLimit int) *PostService {
	return &PostService{Posts: posts, Users: users, Presenter: presenter, Notify: notify, Logger: logger, MaxLimit: maxLimit}
}

func checkImageURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errImageURL
	}
	return nil
}

func checkPost(p *entity.Post) error {
	if !p.HasBody() {
		return errPostBody
	}
	if runeLen(p.Content) > maxPostLen {
		return errPostTooLong
	}
	return checkImageURL(p.ImageURL)
}

func (s *PostService) getPost(ctx context.Context, id string) (*entity.Post, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, ErrPostNotFound
	}
	p, err := s.Posts.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	return p, err
}

func (s *PostService) owned(ctx context.Context, id, actorID string) (*entity.Post, error) {
	p, err := s.getPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != actorID {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *PostService) List(ctx context.Context, page, limit, viewerID string) (*PostList, error) {
	pg := ParsePage(page, limit, s.MaxLimit)
	posts, total, err := s.Posts.List(ctx, pg.Offset(), pg.Limit)
	if err != nil {
		return nil, err
	}
	views, err := s.Presenter.Posts(ctx, posts, viewerID)
	if err != nil {
		return nil, err
	}
	return &PostList{
		Posts:       views,
		CurrentPage: pg.Number,
		TotalPages:  TotalPages(total, pg.Limit),
		TotalPosts:  total,
	}, nil
}

func (s *PostService) Get(ctx context.Context, id, viewerID string) (*PostView, error) {
	p, err := s.getPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Presenter.Post(ctx, p, viewerID)
}

func (s *PostService) Create(ctx context.Context, content, imageURL, actorID string) (*PostView, error) {
	p := &entity.Post{
		AuthorID: actorID,
		Content:  strings.TrimSpace(content),
		ImageURL: strings.TrimSpace(imageURL),
	}
	if err := checkPost(p); err != nil {
		return nil, err
	}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.Presenter.Post(ctx, p, actorID)
}

func (s *PostService) Update(ctx context.Context, id string, changes PostChanges, actorID string) (*PostView, error) {
	p, err := s.owned(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	if changes.Content != nil {
		p.Content = strings.TrimSpace(*changes.Content)
	}
	if changes.ImageURL != nil {
		p.ImageURL = strings.TrimSpace(*changes.ImageURL)
	}
	if err := checkPost(p); err != nil {
		return nil, err
	}
	if err := s.Posts.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return s.Presenter.Post(ctx, p, actorID)
}

func (s *PostService) Delete(ctx context.Context, id, actorID string) error {
	p, err := s.owned(ctx, id, actorID)
	if err != nil {
		return err
	}
	if err := s.Posts.Delete(ctx, p.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	return nil
}

// ToggleLike flips the actor's like and reports whether the post is now liked.
func (s *PostService) ToggleLike(ctx context.Context, id, actorID string) (bool, error) {
	id, ok := canonicalID(id)
	if !ok {
		return false, ErrPostNotFound
	}
	liked, err := s.Posts.ToggleLike(ctx, id, actorID)
	if errors.Is(err, repo.ErrNotFound) {
		return false, ErrPostNotFound
	}
	return liked, err
}

func (s *PostService) Comment(ctx context.Context, id, content, actorID string) (*PostView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errCommentBody
	}
	if runeLen(content) > maxCommentLen {
		return nil, errCommentLength
	}
	p, err := s.getPost(ctx, id)
	if err != nil {
		return nil, err
	}
	c := &entity.Comment{PostID: p.ID, UserID: actorID, Content: content}
	if err := s.Posts.AddComment(ctx, c); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	updated, err := s.Posts.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != actorID {
		s.notifyComment(ctx, p.AuthorID, actorID, p.ID, content)
	}
	return s.Presenter.Post(ctx, updated, actorID)
}

func (s *PostService) notifyComment(ctx context.Context, authorID, actorID, postID, content string) {
	if s.Notify == nil || !s.Notify.Enabled {
		return
	}
	author, err := s.Users.GetByID(ctx, authorID)
	if err != nil {
		return
	}
	actor, err := s.Users.GetByID(ctx, actorID)
	if err != nil {
		return
	}
	s.Notify.NewComment(ctx, author, actor, postID, content)
}
