package comment

import (
	"context"
	"strings"

	"github.com/lensfeed/core/internal/models"
	"github.com/lensfeed/core/internal/modules/moderation"
)

const defaultAuthor = "Anonymous"

// Scorer produces a spam probability for raw comment text.
// *moderation.Engine is the production implementation.
type Scorer interface {
	ScoreText(text string) (moderation.Score, error)
}

// ThresholdSource yields the live moderation threshold at decision time.
// *settings.Service is the production implementation.
type ThresholdSource interface {
	Threshold() (float64, error)
}

// Service is the comment lifecycle manager. It owns the single path by which
// comments come into existence (scored, decided, and persisted before they
// are ever readable) and the override transitions operators apply
// afterwards. Override races are benign: the loser observes the committed
// state as a no-op, never an error.
type Service struct {
	store      Store
	scorer     Scorer
	thresholds ThresholdSource
}

func NewService(store Store, scorer Scorer, thresholds ThresholdSource) *Service {
	return &Service{store: store, scorer: scorer, thresholds: thresholds}
}

// Create scores a new comment and persists it with its initial state. The
// pipeline runs synchronously before the write; when it cannot produce a
// decision the creation fails, never defaulting to visible or hidden. The
// threshold is read here, at decision time, so threshold updates affect only
// future comments.
func (s *Service) Create(ctx context.Context, postID string, dto *CreateCommentDTO) (*models.CommentModel, moderation.Decision, error) {
	text := strings.TrimSpace(dto.Text)
	if text == "" {
		return nil, moderation.Decision{}, errEmptyText
	}
	author := strings.TrimSpace(dto.Author)
	if author == "" {
		author = defaultAuthor
	}

	exists, err := s.store.PostExists(ctx, postID)
	if err != nil {
		return nil, moderation.Decision{}, err
	}
	if !exists {
		return nil, moderation.Decision{}, errPostNotFound
	}

	score, err := s.scorer.ScoreText(text)
	if err != nil {
		return nil, moderation.Decision{}, err
	}
	threshold, err := s.thresholds.Threshold()
	if err != nil {
		return nil, moderation.Decision{}, err
	}

	decision := moderation.Decide(score.Probability, threshold)
	state := models.CommentVisible
	if decision.Action == moderation.ActionHidden {
		state = models.CommentHiddenAuto
	}

	cm := &models.CommentModel{
		PostID:          postID,
		Author:          author,
		Text:            text,
		NormalizedText:  score.NormalizedText,
		SpamProbability: score.Probability,
		State:           state,
	}
	if err := s.store.CreateComment(ctx, cm); err != nil {
		return nil, moderation.Decision{}, err
	}
	return cm, decision, nil
}

// Approve makes a hidden comment visible. The stored probability is left
// untouched: the original confidence stays as provenance for why the comment
// was flagged. Approving an already-visible comment is a no-op.
func (s *Service) Approve(ctx context.Context, id string) (*models.CommentModel, error) {
	cm, _, err := s.store.SetState(ctx, id,
		[]models.CommentState{models.CommentHiddenAuto, models.CommentHiddenManual},
		models.CommentVisible)
	if err != nil {
		return nil, err
	}
	if cm == nil {
		return nil, errCommentNotFound
	}
	return cm, nil
}

// Hide withholds a visible comment by operator action, regardless of its
// original probability. Hiding an already-hidden comment is a no-op that
// keeps its current hidden flavor.
func (s *Service) Hide(ctx context.Context, id string) (*models.CommentModel, error) {
	cm, _, err := s.store.SetState(ctx, id,
		[]models.CommentState{models.CommentVisible},
		models.CommentHiddenManual)
	if err != nil {
		return nil, err
	}
	if cm == nil {
		return nil, errCommentNotFound
	}
	return cm, nil
}

// Delete destroys a comment. Terminal: no operation is valid on a deleted
// comment and its id is never reused. Deleting twice is a benign no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.store.DeleteComment(ctx, id)
	return err
}

// Like increments the like counter; independent of moderation state.
func (s *Service) Like(ctx context.Context, id string) (*models.CommentModel, error) {
	cm, err := s.store.LikeComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if cm == nil {
		return nil, errCommentNotFound
	}
	return cm, nil
}

// ListVisible returns a post's visible comments in display order.
func (s *Service) ListVisible(ctx context.Context, postID string) ([]models.CommentModel, error) {
	return s.list(ctx, postID, s.store.ListVisible)
}

// ListHidden returns a post's withheld comments in display order.
func (s *Service) ListHidden(ctx context.Context, postID string) ([]models.CommentModel, error) {
	return s.list(ctx, postID, s.store.ListHidden)
}

func (s *Service) list(ctx context.Context, postID string, fn func(context.Context, string) ([]models.CommentModel, error)) ([]models.CommentModel, error) {
	exists, err := s.store.PostExists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errPostNotFound
	}
	return fn(ctx, postID)
}

// Counts derives the per-post visible and hidden counts from the
// authoritative per-comment states; the numbers cannot drift because nothing
// else stores them.
func (s *Service) Counts(ctx context.Context, postID string) (visible, hidden int64, err error) {
	counts, err := s.store.CountByState(ctx, postID)
	if err != nil {
		return 0, 0, err
	}
	visible = counts[models.CommentVisible]
	hidden = counts[models.CommentHiddenAuto] + counts[models.CommentHiddenManual]
	return visible, hidden, nil
}
