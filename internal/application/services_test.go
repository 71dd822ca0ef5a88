package application

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
	"github.com/oksasatya/go-social-api/internal/infrastructure/memory"
	"github.com/oksasatya/go-social-api/pkg/helpers"
	"github.com/oksasatya/go-social-api/pkg/mailer"
	tpl "github.com/oksasatya/go-social-api/pkg/mailer/templates"
)

func TestMain(m *testing.M) {
	helpers.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type recordingNotifier struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
}

func (r *recordingNotifier) PublishJSON(_ context.Context, body any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, body.(mailer.EmailJob))
	return nil
}

type fakeIndex struct {
	ids     []string
	err     error
	indexed []string
}

func (f *fakeIndex) IndexUser(_ context.Context, u entity.User) error {
	f.indexed = append(f.indexed, u.Username)
	return nil
}

func (f *fakeIndex) SearchUsernames(context.Context, string, int) ([]string, error) {
	return f.ids, f.err
}

type fakeStore struct {
	paths []string
}

func (f *fakeStore) Put(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	f.paths = append(f.paths, objectPath)
	return "https://cdn.test/" + objectPath, nil
}

type fixture struct {
	auth     *AuthService
	users    *UserService
	posts    *PostService
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	userRepo := memory.NewUserRepository()
	postRepo := memory.NewPostRepository()
	presenter := NewPresenter(userRepo, nil)
	rec := &recordingNotifier{}
	notify := &Notifications{Pub: rec, Enabled: true, AppName: "social", AppURL: "http://app.test"}
	logger := helpers.NewDiscardLogger()
	jwt := helpers.NewJWTManager("a", "r", time.Hour, 2*time.Hour)
	return &fixture{
		auth:     NewAuthService(userRepo, jwt, nil, nil, logger),
		users:    NewUserService(userRepo, postRepo, presenter, nil, notify, logger, 0),
		posts:    NewPostService(postRepo, userRepo, presenter, notify, logger, 0),
		notifier: rec,
	}
}

func (f *fixture) register(t *testing.T, username string) UserView {
	t.Helper()
	res, err := f.auth.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	return res.User
}

func TestRegisterNormalizesAndRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.auth.Register(ctx, RegisterInput{Username: "  alice ", Email: " Alice@Example.COM ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", res.User.Username)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.NotEmpty(t, res.Token)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Empty(t, res.User.Followers)

	_, err = f.auth.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	_, err = f.auth.Register(ctx, RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = f.auth.Register(ctx, RegisterInput{Username: "ab", Email: "ab@example.com", Password: "secret1"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	_, err = f.auth.Register(ctx, RegisterInput{Username: "bob", Email: "not-an-email", Password: "secret1"})
	assert.ErrorAs(t, err, &verr)
}

func TestLoginAndResolveToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	_, err := f.auth.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := f.auth.Login(ctx, "ALICE@example.com", "secret1")
	require.NoError(t, err)

	u, err := f.auth.ResolveAccessToken(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, u.ID)

	_, err = f.auth.ResolveAccessToken(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	rotated, err := f.auth.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, rotated.User.ID)
}

func TestCreatePostRequiresBody(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	_, err := f.posts.Create(ctx, "   ", "", alice.ID)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Post must have text or an image.", verr.Message)

	_, err = f.posts.Create(ctx, strings.Repeat("x", 1001), "", alice.ID)
	assert.ErrorAs(t, err, &verr)

	_, err = f.posts.Create(ctx, "", "ftp://files.test/a.png", alice.ID)
	assert.ErrorAs(t, err, &verr)

	post, err := f.posts.Create(ctx, "", "https://cdn.test/a.png", alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "", post.Content)
	require.NotNil(t, post.ImageURL)
	assert.Equal(t, alice.ID, post.Author.ID)
	assert.Equal(t, "alice", post.Author.Username)
	require.NotNil(t, post.IsLiked)
	assert.False(t, *post.IsLiked)
}

func TestUpdatePost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	post, err := f.posts.Create(ctx, "hello", "https://cdn.test/a.png", alice.ID)
	require.NoError(t, err)

	_, err = f.posts.Update(ctx, post.ID, PostChanges{Content: strPtr("hijack")}, bob.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.posts.Update(ctx, "not-an-id", PostChanges{}, alice.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	updated, err := f.posts.Update(ctx, post.ID, PostChanges{ImageURL: strPtr("")}, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", updated.Content)
	assert.Nil(t, updated.ImageURL)

	_, err = f.posts.Update(ctx, post.ID, PostChanges{Content: strPtr("  ")}, alice.ID)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	got, err := f.posts.Get(ctx, post.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
	assert.Nil(t, got.IsLiked)
}

func TestDeletePost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	post, err := f.posts.Create(ctx, "hello", "", alice.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, f.posts.Delete(ctx, post.ID, bob.ID), ErrForbidden)
	require.NoError(t, f.posts.Delete(ctx, post.ID, alice.ID))
	assert.ErrorIs(t, f.posts.Delete(ctx, post.ID, alice.ID), ErrPostNotFound)
}

func TestToggleLikeTwiceRestoresState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	post, err := f.posts.Create(ctx, "hello", "", alice.ID)
	require.NoError(t, err)

	liked, err := f.posts.ToggleLike(ctx, post.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	got, err := f.posts.Get(ctx, post.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, got.Likes)
	assert.Equal(t, 1, got.LikeCount)
	assert.True(t, *got.IsLiked)

	liked, err = f.posts.ToggleLike(ctx, post.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	got, err = f.posts.Get(ctx, post.ID, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Likes)

	_, err = f.posts.ToggleLike(ctx, "bogus", bob.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestCommentAppendsAndNotifiesAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	post, err := f.posts.Create(ctx, "hello", "", alice.ID)
	require.NoError(t, err)

	_, err = f.posts.Comment(ctx, post.ID, "   ", bob.ID)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Comment content is required", verr.Message)
	_, err = f.posts.Comment(ctx, post.ID, strings.Repeat("y", 501), bob.ID)
	assert.ErrorAs(t, err, &verr)

	_, err = f.posts.Comment(ctx, post.ID, " first ", bob.ID)
	require.NoError(t, err)
	view, err := f.posts.Comment(ctx, post.ID, "mine", alice.ID)
	require.NoError(t, err)

	require.Len(t, view.Comments, 2)
	assert.Equal(t, "first", view.Comments[0].Content)
	assert.Equal(t, "bob", view.Comments[0].User.Username)
	assert.Equal(t, "mine", view.Comments[1].Content)
	assert.Equal(t, 2, view.CommentCount)

	require.Len(t, f.notifier.jobs, 1)
	job := f.notifier.jobs[0]
	assert.Equal(t, tpl.NewComment, job.Template)
	assert.Equal(t, "alice@example.com", job.To)
	assert.Equal(t, "first", job.Data["Excerpt"])
}

func TestListPostsPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	for _, c := range []string{"p1", "p2", "p3"} {
		_, err := f.posts.Create(ctx, c, "", alice.ID)
		require.NoError(t, err)
	}

	list, err := f.posts.List(ctx, "1", "2", "")
	require.NoError(t, err)
	assert.Equal(t, 1, list.CurrentPage)
	assert.Equal(t, 2, list.TotalPages)
	assert.Equal(t, 3, list.TotalPosts)
	require.Len(t, list.Posts, 2)
	assert.Equal(t, "p3", list.Posts[0].Content)

	list, err = f.posts.List(ctx, "5", "2", "")
	require.NoError(t, err)
	assert.Empty(t, list.Posts)

	list, err = f.posts.List(ctx, "abc", "-1", "")
	require.NoError(t, err)
	assert.Equal(t, 1, list.CurrentPage)
	assert.Len(t, list.Posts, 3)
}

func TestFollowRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	assert.ErrorIs(t, f.users.Follow(ctx, alice.ID, alice.ID), ErrSelfFollow)
	assert.ErrorIs(t, f.users.Follow(ctx, strings.ToUpper(alice.ID), alice.ID), ErrSelfFollow)
	assert.ErrorIs(t, f.users.Follow(ctx, "0b8a4b8e-0000-4000-8000-000000000000", alice.ID), ErrUserNotFound)
	assert.ErrorIs(t, f.users.Follow(ctx, "garbage", alice.ID), ErrUserNotFound)

	require.NoError(t, f.users.Follow(ctx, bob.ID, alice.ID))
	assert.ErrorIs(t, f.users.Follow(ctx, bob.ID, alice.ID), ErrAlreadyFollowing)

	require.Len(t, f.notifier.jobs, 1)
	assert.Equal(t, tpl.NewFollower, f.notifier.jobs[0].Template)
	assert.Equal(t, "bob@example.com", f.notifier.jobs[0].To)

	followers, err := f.users.Followers(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].Username)

	following, err := f.users.Following(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, bob.ID, following[0].ID)

	profile, err := f.users.GetProfile(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, profile.User.Followers, 1)
	assert.Equal(t, alice.ID, profile.User.Followers[0].ID)
	assert.Empty(t, profile.User.Following)

	require.NoError(t, f.users.Unfollow(ctx, bob.ID, alice.ID))
	assert.ErrorIs(t, f.users.Unfollow(ctx, bob.ID, alice.ID), ErrNotFollowing)
	followers, err = f.users.Followers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, followers)
}

func TestProfileListsNewestTenPosts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	for i := 0; i < 12; i++ {
		_, err := f.posts.Create(ctx, "post", "", alice.ID)
		require.NoError(t, err)
	}
	profile, err := f.users.GetProfile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, profile.Posts, 10)
	assert.Equal(t, "alice", profile.Posts[0].Author.Username)

	_, err = f.users.GetProfile(ctx, "nope")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSearchFallsBackWhenIndexFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "AliceW")
	bob := f.register(t, "bob")

	f.users.Index = &fakeIndex{err: errors.New("es down")}
	users, err := f.users.Search(ctx, "LIC")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "AliceW", users[0].Username)

	f.users.Index = &fakeIndex{ids: []string{bob.ID}}
	users, err = f.users.Search(ctx, "b")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, bob.ID, users[0].ID)
}

func TestSearchFallsBackWhenIndexHasNoHit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "jane-doe")

	f.users.Index = &fakeIndex{}
	users, err := f.users.Search(ctx, "E-D")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "jane-doe", users[0].Username)

	f.users.Index = &fakeIndex{ids: []string{"0b8a4b8e-0000-4000-8000-000000000000"}}
	users, err = f.users.Search(ctx, "jane")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "jane-doe", users[0].Username)
}

func TestReindexSendsEveryUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < reindexBatch+3; i++ {
		f.register(t, "user"+strconv.Itoa(i))
	}

	idx := &fakeIndex{}
	f.users.Index = idx
	sent, err := f.users.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, reindexBatch+3, sent)
	assert.Len(t, idx.indexed, reindexBatch+3)
	assert.Contains(t, idx.indexed, "user0")
	assert.Contains(t, idx.indexed, "user202")

	f.users.Index = nil
	sent, err = f.users.Reindex(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestUpperCaseIDsResolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	profile, err := f.users.GetProfile(ctx, strings.ToUpper(alice.ID))
	require.NoError(t, err)
	assert.Equal(t, alice.ID, profile.User.ID)
}

func TestListUsers(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")
	f.register(t, "bob")

	list, err := f.users.List(context.Background(), "", "1")
	require.NoError(t, err)
	assert.Equal(t, 2, list.TotalUsers)
	assert.Equal(t, 2, list.TotalPages)
	require.Len(t, list.Users, 1)
	assert.Equal(t, "bob", list.Users[0].Username)
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestUploadImage(t *testing.T) {
	store := &fakeStore{}
	svc := NewUploadService(store, 1024)
	ctx := context.Background()

	res, err := svc.UploadImage(ctx, "u1", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.PublicID, "posts/u1/"))
	assert.True(t, strings.HasSuffix(res.PublicID, ".png"))
	assert.Equal(t, "https://cdn.test/"+res.PublicID, res.URL)

	_, err = svc.UploadImage(ctx, "u1", strings.NewReader("just some text"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = svc.UploadImage(ctx, "u1", bytes.NewReader(append(pngHeader, make([]byte, 2048)...)))
	assert.ErrorIs(t, err, ErrImageTooLarge)

	_, err = svc.UploadImage(ctx, "u1", bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrNoImage)

	_, err = NewUploadService(nil, 1024).UploadImage(ctx, "u1", bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, ErrUploadUnavailable)
	assert.Len(t, store.paths, 1)
}

func strPtr(s string) *string { return &s }
