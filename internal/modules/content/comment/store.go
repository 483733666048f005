package comment

import (
	"context"
	"errors"

	"github.com/lensfeed/core/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persistence collaborator for the comment lifecycle. The
// lifecycle manager does not assume a storage engine; any implementation
// providing these atomic operations suffices (tests use an in-memory one).
type Store interface {
	// PostExists reports whether a live post with the given id exists.
	PostExists(ctx context.Context, postID string) (bool, error)

	// CreateComment persists a new comment with its state and probability
	// already assigned. The write is atomic: the comment is never readable
	// without its state.
	CreateComment(ctx context.Context, cm *models.CommentModel) error

	// GetComment fetches a live comment. Returns (nil, nil) for unknown or
	// deleted ids.
	GetComment(ctx context.Context, id string) (*models.CommentModel, error)

	// SetState transitions a comment from any of the `from` states to `to`,
	// serialized per comment id. When the comment's current state is not in
	// `from`, no write happens and the comment is returned with changed ==
	// false, so racing overrides resolve to one winner and the loser
	// observes the committed state. Returns (nil, false, nil) for unknown
	// or deleted ids.
	SetState(ctx context.Context, id string, from []models.CommentState, to models.CommentState) (cm *models.CommentModel, changed bool, err error)

	// ListVisible returns a post's visible comments in insertion order.
	ListVisible(ctx context.Context, postID string) ([]models.CommentModel, error)

	// ListHidden returns a post's hidden (auto or manual) comments in
	// insertion order.
	ListHidden(ctx context.Context, postID string) ([]models.CommentModel, error)

	// CountByState recomputes per-state counts from the authoritative
	// per-comment states. Deleted comments are never counted.
	CountByState(ctx context.Context, postID string) (map[models.CommentState]int64, error)

	// DeleteComment marks a comment deleted; terminal and idempotent. The
	// id stays retired. Returns changed == false when already deleted or
	// unknown.
	DeleteComment(ctx context.Context, id string) (changed bool, err error)

	// DeletePostCascade deletes a post and all its comments atomically.
	DeletePostCascade(ctx context.Context, postID string) (changed bool, err error)

	// LikeComment increments the like counter of a live comment, returning
	// the updated comment. Likes are independent of moderation state.
	LikeComment(ctx context.Context, id string) (*models.CommentModel, error)
}

// gormStore implements Store on MySQL via GORM. Per-comment serialization
// relies on SELECT ... FOR UPDATE inside a transaction.
type gormStore struct {
	db *gorm.DB
}

// NewStore returns the GORM-backed Store.
func NewStore(db *gorm.DB) Store { return &gormStore{db: db} }

func (s *gormStore) PostExists(ctx context.Context, postID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.PostModel{}).
		Where("id = ?", postID).Count(&count).Error
	return count > 0, err
}

func (s *gormStore) CreateComment(ctx context.Context, cm *models.CommentModel) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.PostModel{}).Where("id = ?", cm.PostID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errPostNotFound
		}
		return tx.Create(cm).Error
	})
}

func (s *gormStore) GetComment(ctx context.Context, id string) (*models.CommentModel, error) {
	var cm models.CommentModel
	err := s.db.WithContext(ctx).
		Where("state <> ?", models.CommentDeleted).
		First(&cm, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cm, nil
}

func (s *gormStore) SetState(ctx context.Context, id string, from []models.CommentState, to models.CommentState) (*models.CommentModel, bool, error) {
	var cm models.CommentModel
	changed := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&cm, "id = ?", id).Error; err != nil {
			return err
		}
		if cm.State == models.CommentDeleted {
			return gorm.ErrRecordNotFound
		}
		for _, f := range from {
			if cm.State == f {
				if err := tx.Model(&cm).Update("state", to).Error; err != nil {
					return err
				}
				cm.State = to
				changed = true
				break
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &cm, changed, nil
}

func (s *gormStore) ListVisible(ctx context.Context, postID string) ([]models.CommentModel, error) {
	return s.listByState(ctx, postID, []models.CommentState{models.CommentVisible})
}

func (s *gormStore) ListHidden(ctx context.Context, postID string) ([]models.CommentModel, error) {
	return s.listByState(ctx, postID, []models.CommentState{models.CommentHiddenAuto, models.CommentHiddenManual})
}

func (s *gormStore) listByState(ctx context.Context, postID string, states []models.CommentState) ([]models.CommentModel, error) {
	var comments []models.CommentModel
	err := s.db.WithContext(ctx).
		Where("post_id = ? AND state IN ?", postID, states).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (s *gormStore) CountByState(ctx context.Context, postID string) (map[models.CommentState]int64, error) {
	type row struct {
		State models.CommentState
		N     int64
	}
	var rows []row
	err := s.db.WithContext(ctx).Model(&models.CommentModel{}).
		Select("state, COUNT(*) AS n").
		Where("post_id = ? AND state <> ?", postID, models.CommentDeleted).
		Group("state").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[models.CommentState]int64, len(rows))
	for _, r := range rows {
		counts[r.State] = r.N
	}
	return counts, nil
}

func (s *gormStore) DeleteComment(ctx context.Context, id string) (bool, error) {
	changed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cm models.CommentModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&cm, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if cm.State == models.CommentDeleted {
			return nil
		}
		// State flip plus soft delete in one transaction: the row (and its
		// id) stays retired while vanishing from every read path.
		if err := tx.Model(&cm).Update("state", models.CommentDeleted).Error; err != nil {
			return err
		}
		if err := tx.Delete(&cm).Error; err != nil {
			return err
		}
		changed = true
		return nil
	})
	return changed, err
}

func (s *gormStore) DeletePostCascade(ctx context.Context, postID string) (bool, error) {
	changed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.PostModel{}, "id = ?", postID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Model(&models.CommentModel{}).
			Where("post_id = ? AND state <> ?", postID, models.CommentDeleted).
			Update("state", models.CommentDeleted).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.CommentModel{}).Error; err != nil {
			return err
		}
		changed = true
		return nil
	})
	return changed, err
}

func (s *gormStore) LikeComment(ctx context.Context, id string) (*models.CommentModel, error) {
	var cm models.CommentModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&cm, "id = ?", id).Error; err != nil {
			return err
		}
		if cm.State == models.CommentDeleted {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Model(&cm).UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
			return err
		}
		cm.LikeCount++
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cm, nil
}
