// Package cache holds short-lived copies of user identities in process memory.
package cache

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
	gocache "github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
)

const keyPrefix = "identity#"

// IdentityCache is a ristretto-backed cache of users keyed by id.
type IdentityCache struct {
	marshal *marshaler.Marshaler
	ttl     time.Duration
}

func NewIdentityCache(ttl time.Duration) (*IdentityCache, error) {
	rc, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     1e4,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	manager := gocache.New[any](ristretto_store.NewRistretto(rc))
	return &IdentityCache{marshal: marshaler.New(manager), ttl: ttl}, nil
}

func (c *IdentityCache) Get(ctx context.Context, id string) (entity.User, bool) {
	v, err := c.marshal.Get(ctx, keyPrefix+id, new(entity.User))
	if err != nil {
		return entity.User{}, false
	}
	u, ok := v.(*entity.User)
	if !ok {
		return entity.User{}, false
	}
	return *u, true
}

// Set stores u without its password hash.
func (c *IdentityCache) Set(ctx context.Context, u entity.User) {
	u.Password = ""
	_ = c.marshal.Set(ctx, keyPrefix+u.ID, u, store.WithExpiration(c.ttl), store.WithCost(1))
}
