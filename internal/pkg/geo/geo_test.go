package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistanceZero(t *testing.T) {
	assert.Zero(t, HaversineDistance(-6.2088, 106.8456, -6.2088, 106.8456))
}

func TestHaversineDistanceKnownPairs(t *testing.T) {
	// Jakarta (Monas) to Bandung (Gedung Sate), roughly 119 km.
	d := HaversineDistance(-6.1754, 106.8272, -6.9025, 107.6186)
	assert.InDelta(t, 119080, d, 500)

	// One degree of latitude is about 111.2 km anywhere.
	d = HaversineDistance(0, 0, 1, 0)
	assert.InDelta(t, 111195, d, 100)
}

func TestHaversineDistanceSymmetric(t *testing.T) {
	a := HaversineDistance(-6.2, 106.8, -6.3, 106.9)
	b := HaversineDistance(-6.3, 106.9, -6.2, 106.8)
	assert.InDelta(t, a, b, 1e-9)
}
