package distort

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/esimov/distort/imop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilters_Grayscale(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	out, err := Grayscale{}.Apply(context.Background(), src)
	require.NoError(t, err)
	gray, ok := out.(*image.Gray)
	require.True(t, ok)
	assert.InDelta(t, 76, int(gray.GrayAt(0, 0).Y), 1)
	assert.InDelta(t, 255, int(gray.GrayAt(1, 0).Y), 1)

	again, err := Grayscale{}.Apply(context.Background(), gray)
	require.NoError(t, err)
	assert.Equal(t, gray.Pix, again.(*image.Gray).Pix)
}

func TestFilters_GrayscaleSubImage(t *testing.T) {
	sub := grayRamp(8, 8).SubImage(image.Rect(2, 2, 6, 6)).(*image.Gray)

	out, err := Grayscale{}.Apply(context.Background(), sub)
	require.NoError(t, err)
	gray := out.(*image.Gray)
	assert.Equal(t, sub.Bounds(), gray.Bounds())
	for y := 2; y < 6; y++ {
		for x := 2; x < 6; x++ {
			assert.Equal(t, uint8(y*8+x), gray.GrayAt(x, y).Y, "pixel (%d,%d)", x, y)
		}
	}
}

func TestFilters_Blur(t *testing.T) {
	src := checkerboard(16, 16, 1)
	out, err := Blur{Radius: 4}.Apply(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 4, Channels(out))
	assert.Equal(t, src.Bounds().Size(), out.Bounds().Size())

	// A fine checkerboard turns into mid gray.
	r, _, _, _ := out.At(8, 8).RGBA()
	assert.InDelta(t, 0x7fff, int(r), 0x3000)

	_, err = Blur{Radius: 2}.Apply(context.Background(), grayRamp(4, 4))
	assert.ErrorIs(t, err, ErrChannelMismatch)
}

func TestFilters_Adjust(t *testing.T) {
	src := gradient(8, 8)
	out, err := Adjust{Brightness: 0.5}.Apply(context.Background(), src)
	require.NoError(t, err)

	before := color.NRGBAModel.Convert(src.At(2, 2)).(color.NRGBA)
	after := color.NRGBAModel.Convert(out.At(2, 2)).(color.NRGBA)
	assert.Greater(t, after.G, before.G)
}

func TestFilters_Composite(t *testing.T) {
	src := gradient(8, 8)
	out, err := Composite{}.Apply(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, Fingerprint(src), Fingerprint(out))

	lw, err := NewLensWarp(FlipX, WithEmptyColor(color.Transparent))
	require.NoError(t, err)
	out, err = Composite{Effect: lw, Op: imop.DstOver}.Apply(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, Fingerprint(src), Fingerprint(out))

	_, err = Composite{}.Apply(context.Background(), grayRamp(2, 2))
	assert.ErrorIs(t, err, ErrChannelMismatch)
}

func TestFilters_SideBySide(t *testing.T) {
	src := gradient(10, 6)
	out, err := SideBySide{Effect: Grayscale{}}.Apply(context.Background(), src)
	require.NoError(t, err)

	nrgba := out.(*image.NRGBA)
	assert.Equal(t, image.Rect(0, 0, 20, 6), nrgba.Bounds())
	assert.Equal(t, src.NRGBAAt(3, 3), nrgba.NRGBAAt(3, 3))
	for y := 0; y < 6; y++ {
		assert.Equal(t, dividerColor, nrgba.NRGBAAt(10, y))
	}
	c := nrgba.NRGBAAt(15, 2)
	assert.True(t, c.R == c.G && c.G == c.B, "right half should be gray, got %v", c)
}

func TestOverlay_Grid(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 10, 7))
	g, err := NewGrid(4, 3, color.NRGBA{G: 255, A: 255})
	require.NoError(t, err)

	out, err := g.Apply(context.Background(), src)
	require.NoError(t, err)
	nrgba := out.(*image.NRGBA)

	line := color.NRGBA{G: 255, A: 255}
	for y := 0; y < 7; y++ {
		for x := 0; x < 10; x++ {
			onLine := x%4 == 0 || y%3 == 0
			assert.Equal(t, onLine, nrgba.NRGBAAt(x, y) == line, "pixel %d,%d", x, y)
		}
	}
	assert.Equal(t, color.NRGBA{}, src.NRGBAAt(0, 0), "source must stay untouched")

	_, err = NewGrid(0, 3, nil)
	assert.Error(t, err)
}

func TestOverlay_Text(t *testing.T) {
	src := grayRamp(60, 20)
	for i := range src.Pix {
		src.Pix[i] = 255
	}

	out, err := Text{At: image.Pt(2, 2), Text: "warp", Color: color.Black}.Apply(context.Background(), src)
	require.NoError(t, err)

	gray := out.(*image.Gray)
	dark := 0
	for _, v := range gray.Pix {
		if v < 128 {
			dark++
		}
	}
	assert.Positive(t, dark)
	// Glyphs stay below the baseline offset and right of the origin.
	for x := 0; x < 60; x++ {
		assert.Equal(t, uint8(255), gray.GrayAt(x, 0).Y)
	}
}
