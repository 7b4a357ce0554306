package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	// Berlin Alexanderplatz -> München Marienplatz
	d := HaversineDistance(52.5219, 13.4132, 48.1374, 11.5755)
	assert.InDelta(t, 504.0, d, 2.0)

	assert.Equal(t, 0.0, HaversineDistance(50, 8, 50, 8))
}

func TestEstimateRoadDistance(t *testing.T) {
	straight := HaversineDistance(50.1109, 8.6821, 49.4875, 8.4660)
	assert.InDelta(t, straight*RoadDetourFactor, EstimateRoadDistance(50.1109, 8.6821, 49.4875, 8.4660), 1e-9)
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, ValidateCoordinates(90, 180))
	assert.True(t, ValidateCoordinates(-90, -180))
	assert.False(t, ValidateCoordinates(90.1, 0))
	assert.False(t, ValidateCoordinates(0, -180.5))
	assert.False(t, ValidateCoordinates(math.NaN(), 0))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 12.35, Round(12.345, 2))
	assert.Equal(t, 1.5, Round(1.46, 1))
}
