package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/studenthub/studenthub/internal/client"
	"github.com/studenthub/studenthub/internal/ideaservice"
	"github.com/studenthub/studenthub/internal/identity"
	"github.com/studenthub/studenthub/internal/models"
)

// Remote is the subset of the API client the controller depends on.
type Remote interface {
	FetchIdeas(ctx context.Context) ([]models.Post, error)
	CreateIdea(ctx context.Context, in ideaservice.CreateInput) (*models.Post, error)
	ToggleLike(ctx context.Context, id int) (*models.Post, error)
	AddComment(ctx context.Context, id int, text string) (*models.Comment, error)
	DeleteIdea(ctx context.Context, id int) error
}

// Controller owns the displayed state and the local cache, updating both in
// the same step after every resolved remote call so they never diverge.
type Controller struct {
	remote Remote
	cache  *client.Cache
	snap   Snapshot
}

// New creates a controller. Call Bootstrap before any other operation.
func New(remote Remote, cache *client.Cache) *Controller {
	return &Controller{
		remote: remote,
		cache:  cache,
		snap:   Snapshot{State: StateEmpty, Posts: []models.Post{}},
	}
}

// Snapshot returns a copy of the current displayed state.
func (c *Controller) Snapshot() Snapshot {
	posts := make([]models.Post, len(c.snap.Posts))
	copy(posts, c.snap.Posts)
	return Snapshot{State: c.snap.State, Posts: posts, Err: c.snap.Err}
}

// Bootstrap loads the initial displayed state. Whenever any cache exists
// (including a demo dataset persisted by an earlier run) it is adopted as-is
// and the remote service is not consulted.
func (c *Controller) Bootstrap() (Snapshot, error) {
	cached, hit, err := c.loadCachedPosts()
	if err != nil {
		return c.snap, err
	}
	next, persist := bootstrapTransition(cached, hit)
	if err := c.apply(next, persist); err != nil {
		return c.snap, err
	}
	return c.Snapshot(), nil
}

// Refresh is the explicit user action that consults the remote service
// regardless of cache presence.
func (c *Controller) Refresh(ctx context.Context) (Snapshot, error) {
	prev := c.snap
	c.snap.State = StateSyncing

	fetched, fetchErr := c.remote.FetchIdeas(ctx)
	cached, hit, cacheErr := c.loadCachedPosts()
	if cacheErr != nil {
		// Do not leave the controller stuck in the syncing state.
		c.snap = prev
		return c.Snapshot(), cacheErr
	}

	next, persist := refreshTransition(prev, fetched, fetchErr, cached, hit)
	if err := c.apply(next, persist); err != nil {
		return c.snap, err
	}
	return c.Snapshot(), nil
}

// Create submits a new post to the remote service. When the server is
// unreachable an offline post is synthesized locally in the max(local)+1 id
// namespace, tagged with a client UUID so it can be distinguished from a
// server-assigned post whose id may collide after reconnection.
func (c *Controller) Create(ctx context.Context, in ideaservice.CreateInput) (*models.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	post, err := c.remote.CreateIdea(ctx, in)
	if err != nil {
		post = c.offlinePost(in)
	}

	next := Snapshot{
		State: c.snap.State,
		Posts: append([]models.Post{*post}, c.snap.Posts...),
	}
	if err := c.apply(next, true); err != nil {
		return nil, err
	}
	return post, nil
}

// ToggleLike applies the remote-confirmed like state. A remote failure is
// returned and the displayed state is left unchanged.
func (c *Controller) ToggleLike(ctx context.Context, id int) error {
	updated, err := c.remote.ToggleLike(ctx, id)
	if err != nil {
		return err
	}

	posts := make([]models.Post, len(c.snap.Posts))
	copy(posts, c.snap.Posts)
	for i := range posts {
		if posts[i].ID == id {
			posts[i].Likes = updated.Likes
			posts[i].Liked = updated.Liked
		}
	}
	return c.apply(Snapshot{State: c.snap.State, Posts: posts}, true)
}

// AddComment appends the remote-confirmed comment. A remote failure is
// returned and the displayed state is left unchanged.
func (c *Controller) AddComment(ctx context.Context, id int, text string) (*models.Comment, error) {
	comment, err := c.remote.AddComment(ctx, id, text)
	if err != nil {
		return nil, err
	}

	posts := make([]models.Post, len(c.snap.Posts))
	copy(posts, c.snap.Posts)
	for i := range posts {
		if posts[i].ID == id {
			posts[i].Comments = append(posts[i].Comments, *comment)
		}
	}
	if err := c.apply(Snapshot{State: c.snap.State, Posts: posts}, true); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a post after remote confirmation. A remote failure aborts
// the delete.
func (c *Controller) Delete(ctx context.Context, id int) error {
	if err := c.remote.DeleteIdea(ctx, id); err != nil {
		return err
	}

	posts := make([]models.Post, 0, len(c.snap.Posts))
	for _, p := range c.snap.Posts {
		if p.ID != id {
			posts = append(posts, p)
		}
	}
	return c.apply(Snapshot{State: c.snap.State, Posts: posts}, true)
}

// Login stores a mock profile locally. No credential is verified.
func (c *Controller) Login(name, email string) (*models.Profile, error) {
	profile := &models.Profile{
		ID:    time.Now().UnixMilli(),
		Name:  name,
		Email: email,
	}
	if err := c.cache.Put(client.CacheKeyUser, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Logout removes the locally stored profile.
func (c *Controller) Logout() error {
	return c.cache.Delete(client.CacheKeyUser)
}

// CurrentUser returns the locally stored profile, or nil when logged out.
func (c *Controller) CurrentUser() (*models.Profile, error) {
	var profile models.Profile
	hit, err := c.cache.Get(client.CacheKeyUser, &profile)
	if err != nil || !hit {
		return nil, err
	}
	return &profile, nil
}

// apply installs the next snapshot, persisting the post sequence in the
// same step when it changed.
func (c *Controller) apply(next Snapshot, persist bool) error {
	if persist {
		if err := c.cache.Put(client.CacheKeyIdeas, next.Posts); err != nil {
			return err
		}
	}
	c.snap = next
	return nil
}

func (c *Controller) loadCachedPosts() ([]models.Post, bool, error) {
	var cached []models.Post
	hit, err := c.cache.Get(client.CacheKeyIdeas, &cached)
	if err != nil {
		return nil, false, err
	}
	return cached, hit, nil
}

func (c *Controller) offlinePost(in ideaservice.CreateInput) *models.Post {
	author := identity.DefaultUser
	if profile, err := c.CurrentUser(); err == nil && profile != nil {
		author = profile.Name
	}

	category := in.Category
	if category == "" {
		category = ideaservice.DefaultCategory
	}
	postType := in.Type
	if postType == "" {
		postType = ideaservice.TypeIdea
	}

	return &models.Post{
		ID:          nextLocalID(c.snap.Posts),
		Title:       in.Title,
		Description: in.Description,
		Category:    category,
		Type:        postType,
		CreatedAt:   models.Today(),
		Likes:       0,
		Liked:       false,
		Comments:    []models.Comment{},
		Author:      author,
		ClientID:    uuid.NewString(),
	}
}
