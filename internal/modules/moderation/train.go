package moderation

import (
	"fmt"
	"time"

	"github.com/lensfeed/core/internal/modules/moderation/pipeline"
)

// Train fits a fresh artifact from labeled samples using the full pipeline:
// normalize every text, drop samples that normalize to nothing, fit the
// TF-IDF vectorizer on what remains, then fit the classifier. Training is
// deterministic for a given corpus.
func Train(samples []Sample) (*Artifact, error) {
	docs := make([][]string, 0, len(samples))
	labels := make([]int, 0, len(samples))
	for _, s := range samples {
		tokens := pipeline.Normalize(s.Text)
		if len(tokens) == 0 {
			continue
		}
		label := 0
		if s.Spam {
			label = 1
		}
		docs = append(docs, tokens)
		labels = append(labels, label)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no usable training samples after normalization")
	}

	vectorizer := pipeline.NewVectorizer()
	vectorizer.Fit(docs)
	if vectorizer.Dim() == 0 {
		return nil, fmt.Errorf("vectorizer learned an empty vocabulary")
	}

	rows := make([][]float64, len(docs))
	for i, doc := range docs {
		vec, err := vectorizer.Transform(doc)
		if err != nil {
			return nil, err
		}
		rows[i] = vec
	}

	classifier, err := pipeline.FitClassifier(rows, labels)
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Version:    artifactVersion,
		TrainedAt:  time.Now().UTC(),
		Documents:  len(docs),
		Vectorizer: vectorizer,
		Classifier: classifier,
	}, nil
}
