package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateThreshold(t *testing.T) {
	valid := []float64{0.001, 0.3, 0.5, 0.99, 1.0}
	for _, v := range valid {
		assert.NoError(t, ValidateThreshold(v), "threshold %v", v)
	}

	invalid := []float64{0, -0.1, -1, 1.0001, 2, 100}
	for _, v := range invalid {
		assert.ErrorIs(t, ValidateThreshold(v), ErrInvalidThreshold, "threshold %v", v)
	}
}

func TestSetThreshold_RejectsInvalidWithoutPersisting(t *testing.T) {
	// No database round-trip happens for an invalid value, so a nil DB is
	// safe here.
	svc := NewService(nil, 0.5)
	assert.ErrorIs(t, svc.SetThreshold(0), ErrInvalidThreshold)
	assert.ErrorIs(t, svc.SetThreshold(1.5), ErrInvalidThreshold)
}
