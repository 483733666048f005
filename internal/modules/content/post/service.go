package post

import (
	"context"
	"strings"

	"github.com/lensfeed/core/internal/models"
	"github.com/lensfeed/core/internal/modules/content/comment"
	"github.com/lensfeed/core/internal/pkg/pagination"
	"github.com/lensfeed/core/internal/pkg/response"
)

const defaultAuthor = "Anonymous"

// Service manages posts. Deleting a post cascades to its comments through
// the comment store so the post and its thread disappear together.
type Service struct {
	store    Store
	comments comment.Store
}

func NewService(store Store, comments comment.Store) *Service {
	return &Service{store: store, comments: comments}
}

func (s *Service) Create(ctx context.Context, dto *CreatePostDTO) (*models.PostModel, error) {
	caption := strings.TrimSpace(dto.Caption)
	if caption == "" {
		return nil, errEmptyCaption
	}
	author := strings.TrimSpace(dto.Author)
	if author == "" {
		author = defaultAuthor
	}

	p := &models.PostModel{Author: author, Caption: caption}
	if err := s.store.CreatePost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.PostModel, error) {
	p, err := s.store.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errPostNotFound
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, q pagination.Query) ([]models.PostModel, response.Pagination, error) {
	return s.store.ListPosts(ctx, q)
}

// Delete removes a post and every comment under it. Idempotent.
func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.comments.DeletePostCascade(ctx, id)
	return err
}

// CountsFor derives the visible and hidden comment counts for a post.
func (s *Service) CountsFor(ctx context.Context, postID string) (visible, hidden int64, err error) {
	counts, err := s.comments.CountByState(ctx, postID)
	if err != nil {
		return 0, 0, err
	}
	visible = counts[models.CommentVisible]
	hidden = counts[models.CommentHiddenAuto] + counts[models.CommentHiddenManual]
	return visible, hidden, nil
}
