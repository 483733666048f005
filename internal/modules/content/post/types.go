package post

import (
	"errors"
	"time"

	"github.com/lensfeed/core/internal/models"
)

var (
	errPostNotFound = errors.New("post not found")
	errEmptyCaption = errors.New("post caption is required")
)

// CreatePostDTO is the payload for publishing a post.
type CreatePostDTO struct {
	Author  string `json:"author"`
	Caption string `json:"caption" binding:"required"`
}

// postResponse carries a post with its derived comment counts. The counts
// are recomputed from comment states on every read, never stored.
type postResponse struct {
	ID           string    `json:"id"`
	Author       string    `json:"author"`
	Caption      string    `json:"caption"`
	CommentCount int64     `json:"comment_count"`
	HiddenCount  int64     `json:"hidden_count"`
	Created      time.Time `json:"created"`
	Modified     time.Time `json:"modified"`
}

func toResponse(p *models.PostModel, visible, hidden int64) postResponse {
	return postResponse{
		ID:           p.ID,
		Author:       p.Author,
		Caption:      p.Caption,
		CommentCount: visible,
		HiddenCount:  hidden,
		Created:      p.CreatedAt,
		Modified:     p.UpdatedAt,
	}
}
