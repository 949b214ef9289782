package reconcile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studenthub/studenthub/internal/client"
	"github.com/studenthub/studenthub/internal/ideaservice"
	"github.com/studenthub/studenthub/internal/models"
)

var errRemoteDown = errors.New("connection refused")

// fakeRemote counts calls and returns scripted results, so tests can assert
// exactly when the controller consults the server.
type fakeRemote struct {
	fetchCalls  int
	fetchPosts  []models.Post
	fetchErr    error
	createCalls int
	createPost  *models.Post
	createErr   error
	likeCalls   int
	likePost    *models.Post
	likeErr     error
	commentErr  error
	comment     *models.Comment
	deleteErr   error
}

func (f *fakeRemote) FetchIdeas(context.Context) ([]models.Post, error) {
	f.fetchCalls++
	return f.fetchPosts, f.fetchErr
}

func (f *fakeRemote) CreateIdea(context.Context, ideaservice.CreateInput) (*models.Post, error) {
	f.createCalls++
	return f.createPost, f.createErr
}

func (f *fakeRemote) ToggleLike(context.Context, int) (*models.Post, error) {
	f.likeCalls++
	return f.likePost, f.likeErr
}

func (f *fakeRemote) AddComment(context.Context, int, string) (*models.Comment, error) {
	return f.comment, f.commentErr
}

func (f *fakeRemote) DeleteIdea(context.Context, int) error {
	return f.deleteErr
}

func newTestController(t *testing.T, remote Remote) (*Controller, *client.Cache) {
	t.Helper()
	cache, err := client.NewCache(t.TempDir())
	require.NoError(t, err)
	return New(remote, cache), cache
}

func warmPosts() []models.Post {
	return []models.Post{
		{ID: 7, Title: "Cached Post", Comments: []models.Comment{}, Likes: 2},
		{ID: 3, Title: "Older Cached Post", Comments: []models.Comment{}},
	}
}

func TestBootstrap_CachePresent_NeverFetches(t *testing.T) {
	remote := &fakeRemote{}
	ctrl, cache := newTestController(t, remote)
	require.NoError(t, cache.Put(client.CacheKeyIdeas, warmPosts()))

	snap, err := ctrl.Bootstrap()
	require.NoError(t, err)

	assert.Equal(t, StateCacheLoaded, snap.State)
	require.Len(t, snap.Posts, 2)
	assert.Equal(t, "Cached Post", snap.Posts[0].Title)
	assert.Zero(t, remote.fetchCalls, "bootstrap with a cache must not hit the server")
}

func TestBootstrap_NoCache_SeedsDemoWithoutFetching(t *testing.T) {
	remote := &fakeRemote{}
	ctrl, cache := newTestController(t, remote)

	snap, err := ctrl.Bootstrap()
	require.NoError(t, err)

	assert.Equal(t, StateCacheLoaded, snap.State)
	assert.Len(t, snap.Posts, len(models.SeedClientPosts()))
	assert.Zero(t, remote.fetchCalls)

	// The demo dataset is persisted, so the next session adopts it too.
	var cached []models.Post
	hit, err := cache.Get(client.CacheKeyIdeas, &cached)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Len(t, cached, len(models.SeedClientPosts()))
}

func TestRefresh_NonEmptyResultReplacesStateAndCache(t *testing.T) {
	serverPosts := []models.Post{{ID: 42, Title: "From Server", Comments: []models.Comment{}}}
	remote := &fakeRemote{fetchPosts: serverPosts}
	ctrl, cache := newTestController(t, remote)
	require.NoError(t, cache.Put(client.CacheKeyIdeas, warmPosts()))
	_, err := ctrl.Bootstrap()
	require.NoError(t, err)

	snap, err := ctrl.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateSynced, snap.State)
	require.Len(t, snap.Posts, 1)
	assert.Equal(t, "From Server", snap.Posts[0].Title)
	assert.Equal(t, 1, remote.fetchCalls)

	var cached []models.Post
	_, err = cache.Get(client.CacheKeyIdeas, &cached)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, 42, cached[0].ID)
}

func TestRefresh_EmptyResultLeavesStateAndCacheUntouched(t *testing.T) {
	remote := &fakeRemote{fetchPosts: []models.Post{}}
	ctrl, cache := newTestController(t, remote)
	require.NoError(t, cache.Put(client.CacheKeyIdeas, warmPosts()))
	_, err := ctrl.Bootstrap()
	require.NoError(t, err)

	before, err := cache.Bytes(client.CacheKeyIdeas)
	require.NoError(t, err)

	snap, err := ctrl.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, remote.fetchCalls, "manual refresh always consults the server")
	require.Len(t, snap.Posts, 2, "empty server response is not authoritative")

	after, err := cache.Bytes(client.CacheKeyIdeas)
	require.NoError(t, err)
	assert.Equal(t, before, after, "cache must be byte-identical after an empty refresh")
}

func TestRefresh_CacheReadFailureRestoresPriorState(t *testing.T) {
	dir := t.TempDir()
	cache, err := client.NewCache(dir)
	require.NoError(t, err)
	remote := &fakeRemote{fetchPosts: []models.Post{{ID: 42, Comments: []models.Comment{}}}}
	ctrl := New(remote, cache)

	require.NoError(t, cache.Put(client.CacheKeyIdeas, warmPosts()))
	_, err = ctrl.Bootstrap()
	require.NoError(t, err)

	// Corrupt the cached post list behind the controller's back.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ideas.json"), []byte("{not json"), 0o644))

	_, err = ctrl.Refresh(context.Background())
	require.Error(t, err)

	snap := ctrl.Snapshot()
	assert.Equal(t, StateCacheLoaded, snap.State, "a failed refresh must not leave the controller syncing")
	assert.Len(t, snap.Posts, 2)
}

func TestRefresh_FailureFallsBackToWarmCache(t *testing.T) {
	remote := &fakeRemote{fetchErr: errRemoteDown}
	ctrl, cache := newTestController(t, remote)
	require.NoError(t, cache.Put(client.CacheKeyIdeas, warmPosts()))
	_, err := ctrl.Bootstrap()
	require.NoError(t, err)

	snap, err := ctrl.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateCacheLoaded, snap.State)
	assert.Len(t, snap.Posts, 2)
	assert.Empty(t, snap.Err, "error indicator is cleared when the cache covers")
}

func TestRefresh_FailureWithColdCacheSurfacesError(t *testing.T) {
	remote := &fakeRemote{fetchErr: errRemoteDown}
	cache, err := client.NewCache(t.TempDir())
	require.NoError(t, err)
	ctrl := New(remote, cache)
	// No bootstrap: a session that never seeded anything.

	snap, err := ctrl.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateError, snap.State)
	assert.Empty(t, snap.Posts)
	assert.Equal(t, ErrFetchFailed, snap.Err)
}

func TestCreate_RemoteSuccessPrepends(t *testing.T) {
	created := &models.Post{ID: 100, Title: "Server Assigned", Comments: []models.Comment{}}
	remote := &fakeRemote{createPost: created}
	ctrl, cache := newTestController(t, remote)
	require.NoError(t, cache.Put(client.CacheKeyIdeas, warmPosts()))
	_, err := ctrl.Bootstrap()
	require.NoError(t, err)

	post, err := ctrl.Create(context.Background(), ideaservice.CreateInput{Title: "t", Description: "d"})
	require.NoError(t, err)
	assert.Equal(t, 100, post.ID)
	assert.Empty(t, post.ClientID)

	snap := ctrl.Snapshot()
	require.Len(t, snap.Posts, 3)
	assert.Equal(t, 100, snap.Posts[0].ID)

	var cached []models.Post
	_, err = cache.Get(client.CacheKeyIdeas, &cached)
	require.NoError(t, err)
	assert.Equal(t, 100, cached[0].ID)
}

func TestCreate_RemoteFailureSynthesizesOfflinePost(t *testing.T) {
	remote := &fakeRemote{createErr: errRemoteDown}
	ctrl, cache := newTestController(t, remote)
	require.NoError(t, cache.Put(client.CacheKeyIdeas, warmPosts()))
	_, err := ctrl.Bootstrap()
	require.NoError(t, err)

	post, err := ctrl.Create(context.Background(), ideaservice.CreateInput{Title: "Offline", Description: "d"})
	require.NoError(t, err)

	assert.Equal(t, 8, post.ID, "offline id is max(local ids)+1")
	assert.NotEmpty(t, post.ClientID, "offline posts carry a client UUID")
	assert.Equal(t, 0, post.Likes)
	assert.False(t, post.Liked)
	assert.Empty(t, post.Comments)

	snap := ctrl.Snapshot()
	assert.Equal(t, post.ID, snap.Posts[0].ID)

	var cached []models.Post
	_, err = cache.Get(client.CacheKeyIdeas, &cached)
	require.NoError(t, err)
	assert.Len(t, cached, 3, "offline post is persisted with the rest")
}

func TestCreate_InvalidInputRejectedLocally(t *testing.T) {
	remote := &fakeRemote{}
	ctrl, _ := newTestController(t, remote)
	_, err := ctrl.Bootstrap()
	require.NoError(t, err)

	_, err = ctrl.Create(context.Background(), ideaservice.CreateInput{Title: ""})
	require.Error(t, err)
	assert.Zero(t, remote.createCalls)
}

func TestToggleLike_AppliesRemoteConfirmedState(t *testing.T) {
	remote := &fakeRemote{likePost: &models.Post{ID: 7, Likes: 3, Liked: true}}
	ctrl, cache := newTestController(t, remote)
	require.NoError(t, cache.Put(client.CacheKeyIdeas, warmPosts()))
	_, err := ctrl.Bootstrap()
	require.NoError(t, err)

	require.NoError(t, ctrl.ToggleLike(context.Background(), 7))

	snap := ctrl.Snapshot()
	assert.Equal(t, 3, snap.Posts[0].Likes)
	assert.True(t, snap.Posts[0].Liked)
}

func TestToggleLike_FailureLeavesStateUnchanged(t *testing.T) {
	remote := &fakeRemote{likeErr: errRemoteDown}
	ctrl, cache := newTestController(t, remote)
	require.NoError(t, cache.Put(client.CacheKeyIdeas, warmPosts()))
	_, err := ctrl.Bootstrap()
	require.NoError(t, err)
	before := ctrl.Snapshot()

	err = ctrl.ToggleLike(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, before.Posts, ctrl.Snapshot().Posts)
}

func TestAddComment_AppendsRemoteConfirmedComment(t *testing.T) {
	remote := &fakeRemote{comment: &models.Comment{ID: 555, Author: "You", Text: "nice"}}
	ctrl, cache := newTestController(t, remote)
	require.NoError(t, cache.Put(client.CacheKeyIdeas, warmPosts()))
	_, err := ctrl.Bootstrap()
	require.NoError(t, err)

	comment, err := ctrl.AddComment(context.Background(), 7, "nice")
	require.NoError(t, err)
	assert.Equal(t, int64(555), comment.ID)

	snap := ctrl.Snapshot()
	require.Len(t, snap.Posts[0].Comments, 1)
	assert.Equal(t, "nice", snap.Posts[0].Comments[0].Text)
}

func TestDelete_FailureAborts(t *testing.T) {
	remote := &fakeRemote{deleteErr: errRemoteDown}
	ctrl, cache := newTestController(t, remote)
	require.NoError(t, cache.Put(client.CacheKeyIdeas, warmPosts()))
	_, err := ctrl.Bootstrap()
	require.NoError(t, err)

	err = ctrl.Delete(context.Background(), 7)
	require.Error(t, err)
	assert.Len(t, ctrl.Snapshot().Posts, 2)
}

func TestDelete_SuccessRemovesPost(t *testing.T) {
	remote := &fakeRemote{}
	ctrl, cache := newTestController(t, remote)
	require.NoError(t, cache.Put(client.CacheKeyIdeas, warmPosts()))
	_, err := ctrl.Bootstrap()
	require.NoError(t, err)

	require.NoError(t, ctrl.Delete(context.Background(), 7))

	snap := ctrl.Snapshot()
	require.Len(t, snap.Posts, 1)
	assert.Equal(t, 3, snap.Posts[0].ID)

	var cached []models.Post
	_, err = cache.Get(client.CacheKeyIdeas, &cached)
	require.NoError(t, err)
	assert.Len(t, cached, 1)
}

func TestSession_LoginLogout(t *testing.T) {
	ctrl, _ := newTestController(t, &fakeRemote{})

	profile, err := ctrl.Login("sam", "sam@example.edu")
	require.NoError(t, err)
	assert.Equal(t, "sam", profile.Name)
	assert.NotZero(t, profile.ID)

	current, err := ctrl.CurrentUser()
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "sam@example.edu", current.Email)

	require.NoError(t, ctrl.Logout())
	current, err = ctrl.CurrentUser()
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestStateString(t *testing.T) {
	names := map[State]string{
		StateEmpty:       "empty",
		StateCacheLoaded: "cache-loaded",
		StateSyncing:     "syncing",
		StateSynced:      "synced",
		StateError:       "error",
	}
	for state, want := range names {
		assert.Equal(t, want, state.String())
	}
}
