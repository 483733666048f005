package pipeline

import (
	"fmt"
	"math"
)

// Classifier is a fitted logistic regression model. Inference is a single
// dot product plus a sigmoid, deterministic and side-effect-free; the fitted
// coefficients are never mutated after training, so concurrent PredictProba
// calls need no synchronization. Fields are exported for the persisted
// model artifact.
type Classifier struct {
	Weights []float64 `msgpack:"weights"`
	Bias    float64   `msgpack:"bias"`
}

// Training hyperparameters. Fixed epoch count and in-order passes keep
// fitting fully deterministic for a given corpus.
const (
	trainEpochs       = 300
	trainLearningRate = 0.5
	trainL2           = 1e-4
)

// FitClassifier trains logistic regression with full-batch gradient descent.
// Labels are 0 (ham) or 1 (spam). Rows must share one width.
func FitClassifier(rows [][]float64, labels []int) (*Classifier, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty training set")
	}
	if len(rows) != len(labels) {
		return nil, fmt.Errorf("training set has %d rows but %d labels", len(rows), len(labels))
	}
	dim := len(rows[0])
	for i, row := range rows {
		if len(row) != dim {
			return nil, fmt.Errorf("row %d has width %d, want %d", i, len(row), dim)
		}
	}

	c := &Classifier{Weights: make([]float64, dim)}
	grad := make([]float64, dim)
	n := float64(len(rows))

	for epoch := 0; epoch < trainEpochs; epoch++ {
		for j := range grad {
			grad[j] = 0
		}
		var gradBias float64

		for i, row := range rows {
			p := sigmoid(dot(c.Weights, row) + c.Bias)
			residual := p - float64(labels[i])
			for j, x := range row {
				if x != 0 {
					grad[j] += residual * x
				}
			}
			gradBias += residual
		}

		for j := range c.Weights {
			c.Weights[j] -= trainLearningRate * (grad[j]/n + trainL2*c.Weights[j])
		}
		c.Bias -= trainLearningRate * gradBias / n
	}

	return c, nil
}

// PredictProba returns the spam probability for a feature vector. A width
// mismatch is a contract violation between vectorizer and classifier and
// marks the artifact unusable.
func (c *Classifier) PredictProba(vec []float64) (float64, error) {
	if len(vec) != len(c.Weights) {
		return 0, fmt.Errorf("feature vector has width %d, classifier expects %d", len(vec), len(c.Weights))
	}
	return sigmoid(dot(c.Weights, vec) + c.Bias), nil
}

func dot(a, b []float64) float64 {
	var sum float64
	for i, x := range a {
		if x != 0 && b[i] != 0 {
			sum += x * b[i]
		}
	}
	return sum
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
