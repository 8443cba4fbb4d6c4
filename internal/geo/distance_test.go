package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name      string
		a         Point
		b         Point
		expected  float64
		tolerance float64
	}{
		{
			name:      "same point is zero",
			a:         NewPoint(40.0, -74.0),
			b:         NewPoint(40.0, -74.0),
			expected:  0.0,
			tolerance: 0.001,
		},
		{
			name:      "one degree of longitude at the equator",
			a:         NewPoint(0, 0),
			b:         NewPoint(0, 1),
			expected:  111.19,
			tolerance: 0.5,
		},
		{
			name:      "two degrees of latitude across the equator",
			a:         NewPoint(-1.0, 100.0),
			b:         NewPoint(1.0, 100.0),
			expected:  222.4,
			tolerance: 5.0,
		},
		{
			name:      "across the 180th meridian",
			a:         NewPoint(0.0, 179.0),
			b:         NewPoint(0.0, -179.0),
			expected:  222.4,
			tolerance: 5.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, tt.tolerance)
		})
	}
}

func TestDistanceSymmetry(t *testing.T) {
	a := NewPoint(40.7128, -74.0060)
	b := NewPoint(51.5074, -0.1278)

	assert.Equal(t, Distance(a, b), Distance(b, a))
}

func TestDistanceUnknownCoordinates(t *testing.T) {
	known := NewPoint(40.0, -74.0)
	lat := 40.0

	tests := []struct {
		name string
		a    Point
		b    Point
	}{
		{"both nil", Point{}, Point{}},
		{"first missing longitude", Point{Latitude: &lat}, known},
		{"second missing both", known, Point{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, math.IsInf(Distance(tt.a, tt.b), 1))
		})
	}
}

func TestValidCoordinates(t *testing.T) {
	assert.True(t, ValidCoordinates(0, 0))
	assert.True(t, ValidCoordinates(-90, 180))
	assert.True(t, ValidCoordinates(90, -180))
	assert.False(t, ValidCoordinates(90.01, 0))
	assert.False(t, ValidCoordinates(0, -180.5))
}

func TestFinite(t *testing.T) {
	assert.True(t, Finite(1.5, -3.2, 0))
	assert.False(t, Finite(math.NaN()))
	assert.False(t, Finite(1, math.Inf(1)))
	assert.False(t, Finite(math.Inf(-1), 2))
}
