package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
)

func TestIdentityCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewIdentityCache(time.Minute)
	require.NoError(t, err)

	_, ok := c.Get(ctx, "u1")
	assert.False(t, ok)

	c.Set(ctx, entity.User{ID: "u1", Username: "alice", Password: "hash"})

	var got entity.User
	require.Eventually(t, func() bool {
		got, ok = c.Get(ctx, "u1")
		return ok
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "alice", got.Username)
	assert.Empty(t, got.Password)
}
