package comment

import (
	"errors"
	"time"

	"github.com/lensfeed/core/internal/models"
	"github.com/lensfeed/core/internal/modules/moderation"
)

var (
	errCommentNotFound = errors.New("comment not found")
	errPostNotFound    = errors.New("post not found")
	errEmptyText       = errors.New("comment text is required")
)

// CreateCommentDTO is the payload for posting a comment.
type CreateCommentDTO struct {
	Author string `json:"author"`
	Text   string `json:"text" binding:"required"`
}

type commentResponse struct {
	ID              string              `json:"id"`
	PostID          string              `json:"post_id"`
	Author          string              `json:"author"`
	Text            string              `json:"text"`
	State           models.CommentState `json:"state"`
	SpamProbability float64             `json:"spam_probability"`
	LikeCount       int                 `json:"like_count"`
	Created         time.Time           `json:"created"`
	Modified        time.Time           `json:"modified"`
}

// moderationResponse reports how the policy handled a new comment.
type moderationResponse struct {
	Action          moderation.Action `json:"action"`
	SpamProbability float64           `json:"spam_probability"`
	Threshold       float64           `json:"threshold"`
}

// createResponse is the envelope for POST /posts/:id/comments.
type createResponse struct {
	Comment    commentResponse    `json:"comment"`
	Moderation moderationResponse `json:"moderation"`
}

func toResponse(cm *models.CommentModel) commentResponse {
	return commentResponse{
		ID:              cm.ID,
		PostID:          cm.PostID,
		Author:          cm.Author,
		Text:            cm.Text,
		State:           cm.State,
		SpamProbability: cm.SpamProbability,
		LikeCount:       cm.LikeCount,
		Created:         cm.CreatedAt,
		Modified:        cm.UpdatedAt,
	}
}

func toResponses(comments []models.CommentModel) []commentResponse {
	items := make([]commentResponse, len(comments))
	for i := range comments {
		items[i] = toResponse(&comments[i])
	}
	return items
}
