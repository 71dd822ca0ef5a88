package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
	"github.com/oksasatya/go-social-api/internal/domain/repository"
)

type postRecord struct {
	post entity.Post
	seq  int
}

type PostRepository struct {
	mu    sync.RWMutex
	seq   int
	posts map[string]*postRecord
	now   func() time.Time
}

func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[string]*postRecord), now: time.Now}
}

// clonePost copies the slices so callers cannot mutate stored state.
func clonePost(p entity.Post) entity.Post {
	p.Likes = append(make([]string, 0, len(p.Likes)), p.Likes...)
	p.Comments = append(make([]entity.Comment, 0, len(p.Comments)), p.Comments...)
	return p
}

func (r *PostRepository) Create(_ context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	now := r.now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Likes = []string{}
	p.Comments = []entity.Comment{}
	r.posts[p.ID] = &postRecord{post: clonePost(*p), seq: r.seq}
	return nil
}

func (r *PostRepository) GetByID(_ context.Context, id string) (*entity.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p := clonePost(rec.post)
	return &p, nil
}

func (r *PostRepository) newestFirst(match func(p *entity.Post) bool) []entity.Post {
	recs := make([]*postRecord, 0, len(r.posts))
	for _, rec := range r.posts {
		if match == nil || match(&rec.post) {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq > recs[j].seq })
	return lo.Map(recs, func(rec *postRecord, _ int) entity.Post { return clonePost(rec.post) })
}

func (r *PostRepository) List(_ context.Context, offset, limit int) ([]entity.Post, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.newestFirst(nil)
	return append([]entity.Post{}, window(all, offset, limit)...), len(all), nil
}

func (r *PostRepository) ListByAuthor(_ context.Context, authorID string, limit int) ([]entity.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mine := r.newestFirst(func(p *entity.Post) bool { return p.AuthorID == authorID })
	return append([]entity.Post{}, window(mine, 0, limit)...), nil
}

func (r *PostRepository) Update(_ context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.posts[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	rec.post.Content = p.Content
	rec.post.ImageURL = p.ImageURL
	rec.post.UpdatedAt = r.now().UTC()
	p.UpdatedAt = rec.post.UpdatedAt
	return nil
}

func (r *PostRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *PostRepository) ToggleLike(_ context.Context, postID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.posts[postID]
	if !ok {
		return false, repository.ErrNotFound
	}
	liked := !lo.Contains(rec.post.Likes, userID)
	if liked {
		rec.post.Likes = append(rec.post.Likes, userID)
	} else {
		rec.post.Likes = lo.Without(rec.post.Likes, userID)
	}
	rec.post.UpdatedAt = r.now().UTC()
	return liked, nil
}

func (r *PostRepository) AddComment(_ context.Context, c *entity.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.posts[c.PostID]
	if !ok {
		return repository.ErrNotFound
	}
	c.ID = uuid.NewString()
	c.CreatedAt = r.now().UTC()
	rec.post.Comments = append(rec.post.Comments, *c)
	rec.post.UpdatedAt = c.CreatedAt
	return nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
