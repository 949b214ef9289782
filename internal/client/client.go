// Package client provides the remote API client and the local post cache
// used by the sync controller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/studenthub/studenthub/internal/apperr"
	"github.com/studenthub/studenthub/internal/ideaservice"
	"github.com/studenthub/studenthub/internal/models"
)

// Client is a thin HTTP wrapper over the StudentHub API.
type Client struct {
	base string
	http *http.Client
	user string
}

// New creates a client for the API at baseURL (e.g. "http://localhost:8080/api").
func New(baseURL string) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// SetUser sets the identity sent with every request via the X-User header.
func (c *Client) SetUser(name string) { c.user = name }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// FetchIdeas returns all posts from the server.
func (c *Client) FetchIdeas(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, "/ideas", nil, &posts); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

// CreateIdea creates a new post remotely.
func (c *Client) CreateIdea(ctx context.Context, in ideaservice.CreateInput) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodPost, "/ideas", in, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// ToggleLike flips the like state of a post and returns the updated post.
func (c *Client) ToggleLike(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/ideas/%d/like", id), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// AddComment appends a comment to a post and returns the created comment.
func (c *Client) AddComment(ctx context.Context, id int, text string) (*models.Comment, error) {
	var comment models.Comment
	in := ideaservice.CommentInput{Text: text}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/ideas/%d/comments", id), in, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteIdea deletes a post.
func (c *Client) DeleteIdea(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/ideas/%d", id), nil, nil)
}

// Health checks the server health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("client: health check status %d", resp.StatusCode)
	}
	return nil
}

// do performs a request, decodes the response envelope and unmarshals the
// data payload into out (if non-nil). Error statuses map onto the apperr
// taxonomy with the server's message attached.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.user != "" {
		req.Header.Set("X-User", c.user)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		return statusError(resp.StatusCode, env.Message)
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("client: decode data: %w", err)
		}
	}
	return nil
}

func statusError(status int, msg string) error {
	if msg == "" {
		msg = http.StatusText(status)
	}
	switch status {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", apperr.ErrValidation, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, msg)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", apperr.ErrForbidden, msg)
	default:
		return fmt.Errorf("client: server error (%d): %s", status, msg)
	}
}
