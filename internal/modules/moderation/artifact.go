package moderation

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lensfeed/core/internal/modules/moderation/pipeline"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	artifactVersion  = 1
	artifactFilename = "spam_model.msgpack"
)

// Artifact is a fitted (vectorizer, classifier) pair. It is immutable once
// loaded: retraining produces a new Artifact and swaps the engine's snapshot
// reference, never patches an existing one.
type Artifact struct {
	Version    int                  `msgpack:"version"`
	TrainedAt  time.Time            `msgpack:"trained_at"`
	Documents  int                  `msgpack:"documents"`
	Vectorizer *pipeline.Vectorizer `msgpack:"vectorizer"`
	Classifier *pipeline.Classifier `msgpack:"classifier"`
}

// Score runs vectorize → classify for an already-normalized token sequence.
func (a *Artifact) Score(tokens []string) (float64, error) {
	vec, err := a.Vectorizer.Transform(tokens)
	if err != nil {
		return 0, err
	}
	return a.Classifier.PredictProba(vec)
}

func (a *Artifact) validate() error {
	if a.Vectorizer == nil || a.Classifier == nil {
		return fmt.Errorf("artifact is missing vectorizer or classifier")
	}
	if a.Vectorizer.Dim() != len(a.Classifier.Weights) {
		return fmt.Errorf("artifact vocabulary width %d does not match classifier width %d",
			a.Vectorizer.Dim(), len(a.Classifier.Weights))
	}
	return nil
}

// SaveArtifact persists the artifact to dir via a temp file and rename, so a
// reader never observes a half-written model.
func SaveArtifact(dir string, a *Artifact) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create models dir: %w", err)
	}

	data, err := msgpack.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}

	tmp, err := os.CreateTemp(dir, artifactFilename+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, artifactFilename)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("install artifact: %w", err)
	}
	return nil
}

// LoadArtifact reads a persisted artifact from dir. Returns (nil, nil) when
// no artifact has been persisted yet; a present-but-corrupt file is an error.
func LoadArtifact(dir string) (*Artifact, error) {
	data, err := os.ReadFile(filepath.Join(dir, artifactFilename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	var a Artifact
	if err := msgpack.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	// msgpack decodes timestamps in the local location; TrainedAt is always
	// written as UTC, so restore that on the way back in.
	a.TrainedAt = a.TrainedAt.UTC()
	if a.Version != artifactVersion {
		return nil, fmt.Errorf("artifact version %d is not supported", a.Version)
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return &a, nil
}
