package api

import (
	"github.com/studenthub/studenthub/internal/ideaservice"
	"github.com/studenthub/studenthub/internal/models"
)

// CreateIdeaRequest is the request body for creating an idea or task
// (aliased from the service layer, which owns validation).
type CreateIdeaRequest = ideaservice.CreateInput

// AddCommentRequest is the request body for commenting on an idea.
type AddCommentRequest = ideaservice.CommentInput

// Post is the wire representation of an idea or task.
type Post = models.Post

// Comment is the wire representation of a comment.
type Comment = models.Comment

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
