package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	// Identical points.
	assert.Equal(t, 0.0, HaversineKm(40.7128, -74.006, 40.7128, -74.006))

	// New York to Los Angeles is roughly 3936 km.
	nyToLA := HaversineKm(40.7128, -74.006, 34.0522, -118.2437)
	assert.InDelta(t, 3936, nyToLA, 30)

	// Downtown Manhattan to Central Park is under 10 km.
	short := HaversineKm(40.7128, -74.006, 40.785091, -73.968285)
	assert.True(t, short > 8 && short < 9.5, "got %f", short)

	// Symmetry.
	assert.InDelta(t, nyToLA, HaversineKm(34.0522, -118.2437, 40.7128, -74.006), 1e-9)

	// Antipodal-ish sanity: never exceeds half the circumference.
	far := HaversineKm(0, 0, 0, 180)
	assert.True(t, far <= math.Pi*6371+1)
}
