package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitClassifier_SeparableData(t *testing.T) {
	// Feature 0 marks spam, feature 1 marks ham.
	rows := [][]float64{
		{1, 0}, {0.9, 0.1}, {0.8, 0},
		{0, 1}, {0.1, 0.9}, {0, 0.8},
	}
	labels := []int{1, 1, 1, 0, 0, 0}

	c, err := FitClassifier(rows, labels)
	require.NoError(t, err)

	spam, err := c.PredictProba([]float64{1, 0})
	require.NoError(t, err)
	ham, err := c.PredictProba([]float64{0, 1})
	require.NoError(t, err)

	assert.Greater(t, spam, 0.5)
	assert.Less(t, ham, 0.5)
	assert.Greater(t, spam, ham)
}

func TestFitClassifier_Deterministic(t *testing.T) {
	rows := [][]float64{{1, 0}, {0, 1}}
	labels := []int{1, 0}

	a, err := FitClassifier(rows, labels)
	require.NoError(t, err)
	b, err := FitClassifier(rows, labels)
	require.NoError(t, err)

	assert.Equal(t, a.Weights, b.Weights)
	assert.Equal(t, a.Bias, b.Bias)
}

func TestFitClassifier_InputValidation(t *testing.T) {
	_, err := FitClassifier(nil, nil)
	assert.Error(t, err)

	_, err = FitClassifier([][]float64{{1}}, []int{1, 0})
	assert.Error(t, err)

	_, err = FitClassifier([][]float64{{1, 0}, {1}}, []int{1, 0})
	assert.Error(t, err)
}

func TestPredictProba_WidthMismatch(t *testing.T) {
	c := &Classifier{Weights: []float64{0.5, -0.5}}
	_, err := c.PredictProba([]float64{1})
	assert.Error(t, err)
}

func TestPredictProba_ZeroVector(t *testing.T) {
	// A zero vector falls through to the bias alone.
	c := &Classifier{Weights: []float64{2, -3}, Bias: 0}
	p, err := c.PredictProba([]float64{0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-12)
}
