package moderation

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lensfeed/core/internal/modules/moderation/pipeline"
	"go.uber.org/zap"
)

// ErrModelUnavailable is returned when no usable model artifact is loaded.
// Callers must fail the request rather than guess a decision.
var ErrModelUnavailable = errors.New("moderation model unavailable")

// Score is the result of running one text through the moderation pipeline.
type Score struct {
	Probability    float64
	NormalizedText string
}

// ModelInfo describes the currently loaded artifact for the API.
type ModelInfo struct {
	TrainedAt      time.Time `json:"trained_at"`
	Documents      int       `json:"documents"`
	VocabularySize int       `json:"vocabulary_size"`
}

// Engine owns the model lifecycle. The fitted artifact lives behind an
// atomic pointer: classification reads the snapshot lock-free, and Retrain
// swaps the whole artifact at once, so an in-flight call always sees one
// consistent (vocabulary, coefficients) pair.
type Engine struct {
	modelsDir string
	logger    *zap.Logger
	snapshot  atomic.Pointer[Artifact]
}

// NewEngine creates an engine persisting artifacts under modelsDir.
func NewEngine(modelsDir string, logger *zap.Logger) *Engine {
	return &Engine{modelsDir: modelsDir, logger: logger.Named("ModerationEngine")}
}

// Init loads a previously persisted artifact, or trains one from the bundled
// corpus and persists it when none exists. Called once at startup.
func (e *Engine) Init() error {
	artifact, err := LoadArtifact(e.modelsDir)
	if err != nil {
		return err
	}
	if artifact != nil {
		e.snapshot.Store(artifact)
		e.logger.Info("loaded persisted model artifact",
			zap.Time("trained_at", artifact.TrainedAt),
			zap.Int("vocabulary", artifact.Vectorizer.Dim()),
		)
		return nil
	}

	e.logger.Info("no persisted artifact, training from bundled dataset")
	samples, err := BundledSamples()
	if err != nil {
		return err
	}
	artifact, err = Train(samples)
	if err != nil {
		return err
	}
	if err := SaveArtifact(e.modelsDir, artifact); err != nil {
		return err
	}
	e.snapshot.Store(artifact)
	e.logger.Info("trained initial model artifact",
		zap.Int("documents", artifact.Documents),
		zap.Int("vocabulary", artifact.Vectorizer.Dim()),
	)
	return nil
}

// ScoreText runs normalize → vectorize → classify against the current
// snapshot. Pure CPU work; never blocks.
func (e *Engine) ScoreText(text string) (Score, error) {
	artifact := e.snapshot.Load()
	if artifact == nil {
		return Score{}, ErrModelUnavailable
	}

	tokens := pipeline.Normalize(text)
	probability, err := artifact.Score(tokens)
	if err != nil {
		// Dimensionality faults mean the artifact is corrupt; refuse to
		// serve decisions from it rather than guess.
		e.logger.Error("pipeline fault, artifact unusable", zap.Error(err))
		return Score{}, errors.Join(ErrModelUnavailable, err)
	}

	return Score{
		Probability:    probability,
		NormalizedText: strings.Join(tokens, " "),
	}, nil
}

// Retrain fits a new artifact from the bundled corpus, persists it, and
// atomically swaps the snapshot. The old artifact keeps serving until the
// swap; it is never mutated in place.
func (e *Engine) Retrain(ctx context.Context) (*ModelInfo, error) {
	samples, err := BundledSamples()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := time.Now()
	artifact, err := Train(samples)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := SaveArtifact(e.modelsDir, artifact); err != nil {
		return nil, err
	}

	e.snapshot.Store(artifact)
	e.logger.Info("model retrained and swapped",
		zap.Int("documents", artifact.Documents),
		zap.Int("vocabulary", artifact.Vectorizer.Dim()),
		zap.Duration("took", time.Since(started)),
	)
	info := e.Info()
	return info, nil
}

// Info returns metadata for the loaded artifact, or nil when none is loaded.
func (e *Engine) Info() *ModelInfo {
	artifact := e.snapshot.Load()
	if artifact == nil {
		return nil
	}
	return &ModelInfo{
		TrainedAt:      artifact.TrainedAt,
		Documents:      artifact.Documents,
		VocabularySize: artifact.Vectorizer.Dim(),
	}
}
