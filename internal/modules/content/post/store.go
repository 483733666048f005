package post

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lensfeed/core/internal/models"
	"github.com/lensfeed/core/internal/pkg/pagination"
	"github.com/lensfeed/core/internal/pkg/response"
)

// Store persists posts. Listing is newest-first.
type Store interface {
	CreatePost(ctx context.Context, p *models.PostModel) error

	// GetPost fetches a live post. Returns (nil, nil) for unknown or
	// deleted ids.
	GetPost(ctx context.Context, id string) (*models.PostModel, error)

	// ListPosts returns one page of live posts, newest first.
	ListPosts(ctx context.Context, q pagination.Query) ([]models.PostModel, response.Pagination, error)
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) CreatePost(ctx context.Context, p *models.PostModel) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *gormStore) GetPost(ctx context.Context, id string) (*models.PostModel, error) {
	var p models.PostModel
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *gormStore) ListPosts(ctx context.Context, q pagination.Query) ([]models.PostModel, response.Pagination, error) {
	var posts []models.PostModel
	query := s.db.WithContext(ctx).Model(&models.PostModel{}).
		Order("created_at DESC, id DESC")
	page, err := pagination.Paginate(query, q, &posts)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return posts, page, nil
}
