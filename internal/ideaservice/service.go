// Package ideaservice implements the post operations over the record store.
package ideaservice

import (
	"context"
	"fmt"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/studenthub/studenthub/internal/apperr"
	"github.com/studenthub/studenthub/internal/identity"
	"github.com/studenthub/studenthub/internal/models"
	"github.com/studenthub/studenthub/internal/store"
)

// Post types.
const (
	TypeIdea = "idea"
	TypeTask = "task"
)

// DefaultCategory is assigned when a create request carries no category.
const DefaultCategory = "Other"

// CreateInput is the payload for creating a post.
type CreateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Type        string `json:"type"`
}

// Validate checks the required fields.
func (in CreateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Description, validation.Required),
		validation.Field(&in.Type, validation.In(TypeIdea, TypeTask)),
	)
}

// CommentInput is the payload for commenting on a post.
type CommentInput struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// Validate checks the required fields.
func (in CommentInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Text, validation.Required),
	)
}

// Service coordinates post operations. Every mutation is a full
// load-mutate-save cycle over the store; the mutex keeps those cycles from
// interleaving so no update is lost to a concurrent writer.
type Service struct {
	mu    sync.Mutex
	store store.Provider
	now   func() time.Time
}

// NewService creates a new idea service.
func NewService(st store.Provider) *Service {
	return &Service{store: st, now: time.Now}
}

// List returns all posts, most-recent-first as stored.
func (s *Service) List(_ context.Context) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	return col.Ideas, nil
}

// Create validates the input, assigns the next id and inserts the post at
// the front of the collection. The author is the requesting identity.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	category := in.Category
	if category == "" {
		category = DefaultCategory
	}
	postType := in.Type
	if postType == "" {
		postType = TypeIdea
	}

	post := models.Post{
		ID:          col.NextID,
		Title:       in.Title,
		Description: in.Description,
		Category:    category,
		Type:        postType,
		CreatedAt:   s.now().Format(models.DateLayout),
		Likes:       0,
		Liked:       false,
		Comments:    []models.Comment{},
		Author:      identity.FromContext(ctx).Name,
	}

	col.Ideas = append([]models.Post{post}, col.Ideas...)
	col.NextID++

	if err := s.store.Save(col); err != nil {
		return nil, err
	}
	return &post, nil
}

// ToggleLike flips the liked flag and adjusts the like count by one in the
// same step, so the two can never drift apart.
func (s *Service) ToggleLike(_ context.Context, id int) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	idx := indexOf(col.Ideas, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: idea %d", apperr.ErrNotFound, id)
	}

	post := &col.Ideas[idx]
	if post.Liked {
		post.Likes--
		post.Liked = false
	} else {
		post.Likes++
		post.Liked = true
	}

	if err := s.store.Save(col); err != nil {
		return nil, err
	}
	return post, nil
}

// AddComment appends a comment with a timestamp-derived id.
func (s *Service) AddComment(_ context.Context, id int, in CommentInput) (*models.Comment, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	idx := indexOf(col.Ideas, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: idea %d", apperr.ErrNotFound, id)
	}

	author := in.Author
	if author == "" {
		author = "You"
	}
	comment := models.Comment{
		ID:        s.now().UnixMilli(),
		Author:    author,
		Text:      in.Text,
		CreatedAt: s.now().Format(models.DateLayout),
	}

	col.Ideas[idx].Comments = append(col.Ideas[idx].Comments, comment)

	if err := s.store.Save(col); err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete removes a post. Only its author may delete it.
func (s *Service) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.store.Load()
	if err != nil {
		return err
	}

	idx := indexOf(col.Ideas, id)
	if idx < 0 {
		return fmt.Errorf("%w: idea %d", apperr.ErrNotFound, id)
	}

	requester := identity.FromContext(ctx)
	if !requester.Is(col.Ideas[idx].Author) {
		return fmt.Errorf("%w: you can only delete your own posts", apperr.ErrForbidden)
	}

	col.Ideas = append(col.Ideas[:idx], col.Ideas[idx+1:]...)
	return s.store.Save(col)
}

func indexOf(posts []models.Post, id int) int {
	for i := range posts {
		if posts[i].ID == id {
			return i
		}
	}
	return -1
}
