package moderation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	spammyText   = "Check this out www.spam.example!!! 🔥🔥🔥 make money fast"
	cashSpamText = "Check this out www.spam.example!!! 🔥🔥🔥 make $$$ fast"
	benignText   = "Beautiful shot! The lighting is amazing"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(t.TempDir(), zap.NewNop())
	require.NoError(t, e.Init())
	return e
}

func TestEngine_ScoreWithoutInit(t *testing.T) {
	e := NewEngine(t.TempDir(), zap.NewNop())
	_, err := e.ScoreText("anything")
	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.Nil(t, e.Info())
}

func TestEngine_InitTrainsAndPersists(t *testing.T) {
	dir := t.TempDir()
	e := NewEngine(dir, zap.NewNop())
	require.NoError(t, e.Init())

	info := e.Info()
	require.NotNil(t, info)
	assert.Greater(t, info.Documents, 0)
	assert.Greater(t, info.VocabularySize, 0)
	assert.False(t, info.TrainedAt.IsZero())

	artifact, err := LoadArtifact(dir)
	require.NoError(t, err)
	require.NotNil(t, artifact)
}

func TestEngine_SeparatesSpamFromHam(t *testing.T) {
	e := newTestEngine(t)

	spam, err := e.ScoreText(spammyText)
	require.NoError(t, err)
	ham, err := e.ScoreText(benignText)
	require.NoError(t, err)

	assert.Greater(t, spam.Probability, 0.5, "spammy text should score above the default threshold")
	assert.Less(t, ham.Probability, 0.5, "benign text should score below the default threshold")
}

func TestEngine_AutoHidesSpamAtStrictThreshold(t *testing.T) {
	e := newTestEngine(t)
	const threshold = 0.8

	// Link/emoji/money-pattern text must clear a strict operator threshold,
	// not just the default one.
	for _, text := range []string{spammyText, cashSpamText} {
		score, err := e.ScoreText(text)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, score.Probability, threshold, "text %q", text)
		assert.Equal(t, ActionHidden, Decide(score.Probability, threshold).Action, "text %q", text)
	}

	ham, err := e.ScoreText(benignText)
	require.NoError(t, err)
	assert.Equal(t, ActionPublished, Decide(ham.Probability, threshold).Action)
}

func TestEngine_ScoreReturnsNormalizedText(t *testing.T) {
	e := newTestEngine(t)

	score, err := e.ScoreText(spammyText)
	require.NoError(t, err)
	assert.Equal(t, "check make money fast", score.NormalizedText)
}

func TestEngine_ScoreIsDeterministic(t *testing.T) {
	e := newTestEngine(t)

	first, err := e.ScoreText(spammyText)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := e.ScoreText(spammyText)
		require.NoError(t, err)
		assert.Equal(t, first.Probability, again.Probability)
	}
}

func TestEngine_ReloadScoresIdentically(t *testing.T) {
	dir := t.TempDir()

	a := NewEngine(dir, zap.NewNop())
	require.NoError(t, a.Init())
	before, err := a.ScoreText(spammyText)
	require.NoError(t, err)

	// Second engine loads the persisted artifact instead of retraining.
	b := NewEngine(dir, zap.NewNop())
	require.NoError(t, b.Init())
	after, err := b.ScoreText(spammyText)
	require.NoError(t, err)

	assert.Equal(t, before.Probability, after.Probability)
	assert.Equal(t, a.Info().TrainedAt, b.Info().TrainedAt)
}

func TestEngine_RetrainSwapsSnapshot(t *testing.T) {
	e := newTestEngine(t)
	before := e.Info()

	info, err := e.Retrain(context.Background())
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.False(t, info.TrainedAt.Before(before.TrainedAt))

	score, err := e.ScoreText(spammyText)
	require.NoError(t, err)
	assert.Greater(t, score.Probability, 0.5)
}

func TestEngine_RetrainHonorsCancelledContext(t *testing.T) {
	e := newTestEngine(t)
	before, err := e.ScoreText(spammyText)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Retrain(ctx)
	assert.Error(t, err)

	after, err := e.ScoreText(spammyText)
	require.NoError(t, err)
	assert.Equal(t, before.Probability, after.Probability)
}

func TestBundledSamples(t *testing.T) {
	samples, err := BundledSamples()
	require.NoError(t, err)
	require.NotEmpty(t, samples)

	var spam, ham int
	for _, s := range samples {
		if s.Spam {
			spam++
		} else {
			ham++
		}
	}
	assert.Greater(t, spam, 10)
	assert.Greater(t, ham, 10)
}

func TestArtifactRoundTrip(t *testing.T) {
	samples, err := BundledSamples()
	require.NoError(t, err)
	artifact, err := Train(samples)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, SaveArtifact(dir, artifact))

	loaded, err := LoadArtifact(dir)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, artifact.Documents, loaded.Documents)
	assert.Equal(t, artifact.Vectorizer.Vocabulary, loaded.Vectorizer.Vocabulary)
	assert.Equal(t, artifact.Classifier.Weights, loaded.Classifier.Weights)
	assert.Equal(t, artifact.Classifier.Bias, loaded.Classifier.Bias)
}

func TestLoadArtifact_MissingIsNotAnError(t *testing.T) {
	artifact, err := LoadArtifact(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, artifact)
}
