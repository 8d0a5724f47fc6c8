package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateRollingMax(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	// Window of 7 ending 3 entries before the last: values[2:9].
	got, err := CalculateRollingMax(values, 7, 3)
	require.NoError(t, err)
	assert.InDelta(t, 9, got, 1e-9)
}

func TestCalculateRollingMax_WindowEndsAtLastValue(t *testing.T) {
	got, err := CalculateRollingMax([]float64{5, 1, 9, 2, 4}, 3, 0)
	require.NoError(t, err)
	assert.InDelta(t, 9, got, 1e-9)
}

func TestCalculateRollingMax_InsufficientData(t *testing.T) {
	_, err := CalculateRollingMax([]float64{1, 2, 3}, 7, 3)
	assert.Error(t, err)

	_, err = CalculateRollingMax([]float64{1, 2, 3}, 2, -1)
	assert.Error(t, err)
}
