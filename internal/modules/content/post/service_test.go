package post

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lensfeed/core/internal/models"
	"github.com/lensfeed/core/internal/pkg/pagination"
	"github.com/lensfeed/core/internal/pkg/response"
)

// memPosts is an in-memory Store keeping insertion order; ListPosts reverses
// it to match the newest-first contract.
type memPosts struct {
	posts []*models.PostModel
}

func (s *memPosts) CreatePost(_ context.Context, p *models.PostModel) error {
	if p.ID == "" {
		p.ID = "post-" + string(rune('a'+len(s.posts)))
	}
	s.posts = append(s.posts, p)
	return nil
}

func (s *memPosts) GetPost(_ context.Context, id string) (*models.PostModel, error) {
	for _, p := range s.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (s *memPosts) ListPosts(_ context.Context, q pagination.Query) ([]models.PostModel, response.Pagination, error) {
	out := make([]models.PostModel, 0, len(s.posts))
	for i := len(s.posts) - 1; i >= 0; i-- {
		out = append(out, *s.posts[i])
	}
	start := (q.Page - 1) * q.Size
	if start > len(out) {
		start = len(out)
	}
	end := start + q.Size
	if end > len(out) {
		end = len(out)
	}
	page := response.Pagination{
		Total:       int64(len(s.posts)),
		CurrentPage: q.Page,
		Size:        q.Size,
	}
	return out[start:end], page, nil
}

// fakeComments tracks only what the post service touches: per-post state
// counts and cascade deletions.
type fakeComments struct {
	counts   map[string]map[models.CommentState]int64
	cascaded []string
}

func (f *fakeComments) PostExists(context.Context, string) (bool, error) { return true, nil }
func (f *fakeComments) CreateComment(context.Context, *models.CommentModel) error {
	return nil
}
func (f *fakeComments) GetComment(context.Context, string) (*models.CommentModel, error) {
	return nil, nil
}
func (f *fakeComments) SetState(context.Context, string, []models.CommentState, models.CommentState) (*models.CommentModel, bool, error) {
	return nil, false, nil
}
func (f *fakeComments) ListVisible(context.Context, string) ([]models.CommentModel, error) {
	return nil, nil
}
func (f *fakeComments) ListHidden(context.Context, string) ([]models.CommentModel, error) {
	return nil, nil
}
func (f *fakeComments) CountByState(_ context.Context, postID string) (map[models.CommentState]int64, error) {
	return f.counts[postID], nil
}
func (f *fakeComments) DeleteComment(context.Context, string) (bool, error) { return false, nil }
func (f *fakeComments) DeletePostCascade(_ context.Context, postID string) (bool, error) {
	f.cascaded = append(f.cascaded, postID)
	return true, nil
}
func (f *fakeComments) LikeComment(context.Context, string) (*models.CommentModel, error) {
	return nil, nil
}

func TestPostCreate_Validation(t *testing.T) {
	svc := NewService(&memPosts{}, &fakeComments{})

	_, err := svc.Create(context.Background(), &CreatePostDTO{Caption: "  "})
	assert.ErrorIs(t, err, errEmptyCaption)

	p, err := svc.Create(context.Background(), &CreatePostDTO{Caption: "golden hour"})
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", p.Author)
	assert.Equal(t, "golden hour", p.Caption)
}

func TestPostList_NewestFirst(t *testing.T) {
	svc := NewService(&memPosts{}, &fakeComments{})

	for _, caption := range []string{"first", "second", "third"} {
		_, err := svc.Create(context.Background(), &CreatePostDTO{Caption: caption})
		require.NoError(t, err)
	}

	posts, page, err := svc.List(context.Background(), pagination.Query{Page: 1, Size: 20})
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, "third", posts[0].Caption)
	assert.Equal(t, "first", posts[2].Caption)
}

func TestPostGet_Unknown(t *testing.T) {
	svc := NewService(&memPosts{}, &fakeComments{})
	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, errPostNotFound)
}

func TestPostDelete_Cascades(t *testing.T) {
	comments := &fakeComments{}
	svc := NewService(&memPosts{}, comments)

	p, err := svc.Create(context.Background(), &CreatePostDTO{Caption: "doomed"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), p.ID))
	assert.Equal(t, []string{p.ID}, comments.cascaded)
}

func TestPostCountsFor_DerivedFromStates(t *testing.T) {
	comments := &fakeComments{counts: map[string]map[models.CommentState]int64{
		"post-a": {
			models.CommentVisible:      3,
			models.CommentHiddenAuto:   2,
			models.CommentHiddenManual: 1,
		},
	}}
	svc := NewService(&memPosts{}, comments)

	visible, hidden, err := svc.CountsFor(context.Background(), "post-a")
	require.NoError(t, err)
	assert.Equal(t, int64(3), visible)
	assert.Equal(t, int64(3), hidden)

	visible, hidden, err = svc.CountsFor(context.Background(), "post-b")
	require.NoError(t, err)
	assert.Zero(t, visible)
	assert.Zero(t, hidden)
}
