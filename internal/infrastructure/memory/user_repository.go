// Package memory provides map-backed repositories for local development and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
	"github.com/oksasatya/go-social-api/internal/domain/repository"
)

type userRecord struct {
	user entity.User
	seq  int
}

type followKey struct {
	follower string
	followee string
}

type UserRepository struct {
	mu      sync.RWMutex
	seq     int
	users   map[string]*userRecord
	follows map[followKey]entity.Follow
	now     func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[string]*userRecord),
		follows: make(map[followKey]entity.Follow),
		now:     time.Now,
	}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.users {
		if rec.user.Username == u.Username || rec.user.Email == u.Email {
			return repository.ErrConflict
		}
	}
	r.seq++
	now := r.now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.users[u.ID] = &userRecord{user: *u, seq: r.seq}
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := rec.user
	return &u, nil
}

func (r *UserRepository) findOne(match func(u *entity.User) bool) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.users {
		if match(&rec.user) {
			u := rec.user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.findOne(func(u *entity.User) bool { return u.Email == email })
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.findOne(func(u *entity.User) bool { return u.Username == username })
}

func (r *UserRepository) FindByIDs(_ context.Context, ids []string) ([]entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.User, 0, len(ids))
	for _, id := range ids {
		if rec, ok := r.users[id]; ok {
			out = append(out, rec.user)
		}
	}
	return out, nil
}

// newestFirst returns every record ordered by creation, newest first.
func (r *UserRepository) newestFirst() []*userRecord {
	recs := make([]*userRecord, 0, len(r.users))
	for _, rec := range r.users {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq > recs[j].seq })
	return recs
}

func (r *UserRepository) List(_ context.Context, offset, limit int) ([]entity.User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	recs := r.newestFirst()
	out := make([]entity.User, 0)
	for _, rec := range window(recs, offset, limit) {
		out = append(out, rec.user)
	}
	return out, len(recs), nil
}

func (r *UserRepository) SearchByUsername(_ context.Context, fragment string, limit int) ([]entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	needle := strings.ToLower(fragment)
	out := make([]entity.User, 0)
	for _, rec := range r.users {
		if strings.Contains(strings.ToLower(rec.user.Username), needle) {
			out = append(out, rec.user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *UserRepository) Follow(_ context.Context, followerID, followeeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[followerID]; !ok {
		return false, repository.ErrNotFound
	}
	if _, ok := r.users[followeeID]; !ok {
		return false, repository.ErrNotFound
	}
	key := followKey{follower: followerID, followee: followeeID}
	if _, ok := r.follows[key]; ok {
		return false, nil
	}
	r.follows[key] = entity.Follow{FollowerID: followerID, FolloweeID: followeeID, CreatedAt: r.now().UTC()}
	return true, nil
}

func (r *UserRepository) Unfollow(_ context.Context, followerID, followeeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := followKey{follower: followerID, followee: followeeID}
	if _, ok := r.follows[key]; !ok {
		return false, nil
	}
	delete(r.follows, key)
	return true, nil
}

func (r *UserRepository) FollowEdges(_ context.Context, userIDs []string) ([]entity.Follow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wanted := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = struct{}{}
	}
	out := make([]entity.Follow, 0)
	for key, f := range r.follows {
		_, a := wanted[key.follower]
		_, b := wanted[key.followee]
		if a || b {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		if out[i].FollowerID != out[j].FollowerID {
			return out[i].FollowerID < out[j].FollowerID
		}
		return out[i].FolloweeID < out[j].FolloweeID
	})
	return out, nil
}

func window[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) || limit <= 0 {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

var _ repository.UserRepository = (*UserRepository)(nil)
