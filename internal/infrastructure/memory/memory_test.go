package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
	"github.com/oksasatya/go-social-api/internal/domain/repository"
)

func TestUserRepositoryUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	require.NoError(t, repo.Create(ctx, &entity.User{Username: "alice", Email: "alice@example.com"}))
	err := repo.Create(ctx, &entity.User{Username: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, repository.ErrConflict)
	err = repo.Create(ctx, &entity.User{Username: "other", Email: "alice@example.com"})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestUserRepositoryFollowEdges(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	a := &entity.User{Username: "alice", Email: "a@example.com"}
	b := &entity.User{Username: "bob", Email: "b@example.com"}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	created, err := repo.Follow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Follow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, created)

	edges, err := repo.FollowEdges(ctx, []string{b.ID})
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, a.ID, edges[0].FollowerID)

	removed, err := repo.Unfollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	edges, err = repo.FollowEdges(ctx, []string{a.ID, b.ID})
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestUserRepositorySearchIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	require.NoError(t, repo.Create(ctx, &entity.User{Username: "AliceW", Email: "a@example.com"}))
	require.NoError(t, repo.Create(ctx, &entity.User{Username: "bob", Email: "b@example.com"}))

	users, err := repo.SearchByUsername(ctx, "lic", 10)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "AliceW", users[0].Username)
}

func TestPostRepositoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepository()
	for _, c := range []string{"one", "two", "three"} {
		require.NoError(t, repo.Create(ctx, &entity.Post{AuthorID: "u1", Content: c}))
	}

	posts, total, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, posts, 2)
	assert.Equal(t, "three", posts[0].Content)
	assert.Equal(t, "two", posts[1].Content)

	posts, _, err = repo.List(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostRepositoryToggleLikeAndComments(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepository()
	p := &entity.Post{AuthorID: "u1", Content: "hello"}
	require.NoError(t, repo.Create(ctx, p))

	liked, err := repo.ToggleLike(ctx, p.ID, "u2")
	require.NoError(t, err)
	assert.True(t, liked)
	liked, err = repo.ToggleLike(ctx, p.ID, "u2")
	require.NoError(t, err)
	assert.False(t, liked)

	for _, c := range []string{"first", "second"} {
		require.NoError(t, repo.AddComment(ctx, &entity.Comment{PostID: p.ID, UserID: "u2", Content: c}))
	}
	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Likes)
	require.Len(t, got.Comments, 2)
	assert.Equal(t, "first", got.Comments[0].Content)
	assert.Equal(t, "second", got.Comments[1].Content)

	_, err = repo.ToggleLike(ctx, "missing", "u2")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
