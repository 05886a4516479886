package imop

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlend_Modes(t *testing.T) {
	testCases := []struct {
		mode Mode
		a, b float64
		want float64
	}{
		{None, 0.2, 0.8, 0.2},
		{Darken, 0.2, 0.8, 0.2},
		{Lighten, 0.2, 0.8, 0.8},
		{Multiply, 0.5, 0.5, 0.25},
		{Screen, 0.5, 0.5, 0.75},
		{Overlay, 0.25, 0.5, 0.25},
		{Overlay, 0.75, 0.5, 0.75},
	}

	for _, tc := range testCases {
		t.Run(string(tc.mode), func(t *testing.T) {
			assert.InDelta(t, tc.want, tc.mode.blend(tc.a, tc.b), 1e-9)
		})
	}
}

func TestBlend_Draw(t *testing.T) {
	src := uniform(color.NRGBA{R: 255, G: 128, A: 255}, 2, 2)
	dst := uniform(color.NRGBA{R: 64, G: 255, B: 255, A: 255}, 2, 2)

	// Copy leaves the source color, multiplied with itself.
	out, err := Draw(src, dst, Copy, Multiply)
	require.NoError(t, err)
	c := out.NRGBAAt(0, 0)
	assert.Equal(t, uint8(255), c.R)
	assert.InDelta(t, 64, int(c.G), 1)
	assert.Equal(t, uint8(0), c.B)
}

func TestBlend_Parse(t *testing.T) {
	m, err := ParseMode("screen")
	require.NoError(t, err)
	assert.Equal(t, Screen, m)

	_, err = ParseMode("dodge")
	assert.Error(t, err)

	assert.NotContains(t, Modes(), None)
	assert.Len(t, Modes(), 5)
}
