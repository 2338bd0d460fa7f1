package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceKmSamePoint(t *testing.T) {
	dist, err := DistanceKm(43.238949, 76.889709, 43.238949, 76.889709)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, dist, 1e-9)
}

func TestDistanceKmSymmetry(t *testing.T) {
	forward, err := DistanceKm(43.238949, 76.889709, 43.256700, 76.928520)
	require.NoError(t, err)
	backward, err := DistanceKm(43.256700, 76.928520, 43.238949, 76.889709)
	require.NoError(t, err)
	assert.InDelta(t, forward, backward, 1e-9)
}

func TestDistanceKmKnownValue(t *testing.T) {
	// Один градус долготы по экватору: 6371 * pi / 180
	dist, err := DistanceKm(0, 0, 0, 1)
	require.NoError(t, err)
	expected := earthRadiusKm * math.Pi / 180
	assert.InDelta(t, expected, dist, expected*0.001)
}

func TestDistanceKmInvalidCoordinates(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
	}{
		{"широта NaN", math.NaN(), 0, 0, 0},
		{"долгота Inf", 0, math.Inf(1), 0, 0},
		{"широта за пределами", 91, 0, 0, 0},
		{"долгота за пределами", 0, 0, 0, -181},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DistanceKm(tc.lat1, tc.lng1, tc.lat2, tc.lng2)
			assert.ErrorIs(t, err, ErrInvalidCoordinate)
		})
	}
}

func TestEnergyDrainKwh(t *testing.T) {
	assert.InDelta(t, 2.0, EnergyDrainKwh(10, "Nissan Leaf"), 1e-9)
	assert.InDelta(t, 0.0, EnergyDrainKwh(0, ""), 1e-9)
}

func TestSimulateNextLocationMovesNorth(t *testing.T) {
	lat, lng := SimulateNextLocation(43.2, 76.9, 60, 0)
	assert.Greater(t, lat, 43.2)
	assert.InDelta(t, 76.9, lng, 1e-9)
}

func TestSimulateNextLocationMovesEast(t *testing.T) {
	lat, lng := SimulateNextLocation(0, 0, 60, 90)
	assert.InDelta(t, 0.0, lat, 1e-6)
	assert.Greater(t, lng, 0.0)
}

func TestSimulateNextLocationZeroSpeed(t *testing.T) {
	lat, lng := SimulateNextLocation(43.2, 76.9, 0, 45)
	assert.InDelta(t, 43.2, lat, 1e-9)
	assert.InDelta(t, 76.9, lng, 1e-9)
}
