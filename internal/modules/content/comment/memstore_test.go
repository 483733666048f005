package comment

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/lensfeed/core/internal/models"
)

// memStore is an in-memory Store used by the service tests. It mirrors the
// MySQL store's contract, including id retirement after deletion.
type memStore struct {
	mu       sync.Mutex
	posts    map[string]bool
	comments []*models.CommentModel
	byID     map[string]*models.CommentModel
}

func newMemStore(postIDs ...string) *memStore {
	s := &memStore{
		posts: make(map[string]bool),
		byID:  make(map[string]*models.CommentModel),
	}
	for _, id := range postIDs {
		s.posts[id] = true
	}
	return s
}

func (s *memStore) PostExists(_ context.Context, postID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.posts[postID], nil
}

func (s *memStore) CreateComment(_ context.Context, cm *models.CommentModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.posts[cm.PostID] {
		return errPostNotFound
	}
	if cm.ID == "" {
		cm.ID = uuid.New().String()
	}
	s.comments = append(s.comments, cm)
	s.byID[cm.ID] = cm
	return nil
}

func (s *memStore) GetComment(_ context.Context, id string) (*models.CommentModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cm := s.byID[id]
	if cm == nil || cm.State == models.CommentDeleted {
		return nil, nil
	}
	return cm, nil
}

func (s *memStore) SetState(_ context.Context, id string, from []models.CommentState, to models.CommentState) (*models.CommentModel, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cm := s.byID[id]
	if cm == nil || cm.State == models.CommentDeleted {
		return nil, false, nil
	}
	for _, f := range from {
		if cm.State == f {
			cm.State = to
			return cm, true, nil
		}
	}
	return cm, false, nil
}

func (s *memStore) ListVisible(_ context.Context, postID string) ([]models.CommentModel, error) {
	return s.listByState(postID, models.CommentVisible)
}

func (s *memStore) ListHidden(_ context.Context, postID string) ([]models.CommentModel, error) {
	return s.listByState(postID, models.CommentHiddenAuto, models.CommentHiddenManual)
}

func (s *memStore) listByState(postID string, states ...models.CommentState) ([]models.CommentModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.CommentModel
	for _, cm := range s.comments {
		if cm.PostID != postID {
			continue
		}
		for _, st := range states {
			if cm.State == st {
				out = append(out, *cm)
				break
			}
		}
	}
	return out, nil
}

func (s *memStore) CountByState(_ context.Context, postID string) (map[models.CommentState]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[models.CommentState]int64)
	for _, cm := range s.comments {
		if cm.PostID == postID && cm.State != models.CommentDeleted {
			counts[cm.State]++
		}
	}
	return counts, nil
}

func (s *memStore) DeleteComment(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cm := s.byID[id]
	if cm == nil || cm.State == models.CommentDeleted {
		return false, nil
	}
	cm.State = models.CommentDeleted
	return true, nil
}

func (s *memStore) DeletePostCascade(_ context.Context, postID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.posts[postID] {
		return false, nil
	}
	delete(s.posts, postID)
	for _, cm := range s.comments {
		if cm.PostID == postID {
			cm.State = models.CommentDeleted
		}
	}
	return true, nil
}

func (s *memStore) LikeComment(_ context.Context, id string) (*models.CommentModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cm := s.byID[id]
	if cm == nil || cm.State == models.CommentDeleted {
		return nil, nil
	}
	cm.LikeCount++
	return cm, nil
}
