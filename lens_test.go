package distort

import (
	"context"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLensWarp_IdentityGray(t *testing.T) {
	src := grayRamp(4, 4)
	lw, err := NewLensWarp(IdentityFormula, WithAntialias(1))
	require.NoError(t, err)

	out, err := lw.Apply(context.Background(), src)
	require.NoError(t, err)

	gray, ok := out.(*image.Gray)
	require.True(t, ok, "expected *image.Gray, got %T", out)
	assert.Equal(t, src.Pix, gray.Pix)
	assert.NotSame(t, src, gray)
}

func TestLensWarp_IdentitySupersampled(t *testing.T) {
	// Sub-samples sit at i + a/A, so with A = 2 each pixel averages itself
	// with its right and bottom neighbours. Samples past the last row or
	// column are excluded.
	src := grayRamp(4, 4)
	lw, err := NewLensWarp(IdentityFormula)
	require.NoError(t, err)

	out, err := lw.Apply(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, []uint8{
		2, 3, 4, 5,
		6, 7, 8, 9,
		10, 11, 12, 13,
		12, 13, 14, 15,
	}, out.(*image.Gray).Pix)
}

func TestLensWarp_IdentityKeepsModeAndBounds(t *testing.T) {
	rect := image.Rect(10, 20, 26, 32)
	testCases := []struct {
		name string
		img  image.Image
	}{
		{"gray", func() image.Image { g := image.NewGray(rect); copy(g.Pix, grayRamp(16, 12).Pix); return g }()},
		{"nrgba", makeNRGBAImage(rect, gradientColors(16*12))},
		{"rgba", makeRGBAImage(rect, gradientColors(16*12))},
	}

	lw, err := NewLensWarp(IdentityFormula, WithAntialias(1))
	require.NoError(t, err)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := lw.Apply(context.Background(), tc.img)
			require.NoError(t, err)
			assert.IsType(t, tc.img, out)
			assert.Equal(t, rect, out.Bounds())
			assert.Equal(t, Fingerprint(tc.img), Fingerprint(out))
		})
	}
}

func TestLensWarp_FlipX(t *testing.T) {
	src := grayRamp(4, 4)
	lw, err := NewLensWarp(FlipX, WithAntialias(1))
	require.NoError(t, err)

	out, err := lw.Apply(context.Background(), src)
	require.NoError(t, err)
	gray := out.(*image.Gray)

	// Column 0 maps onto x == width and gets the empty color.
	for y := 0; y < 4; y++ {
		want := []uint8{128, uint8(y*4 + 3), uint8(y*4 + 2), uint8(y*4 + 1)}
		assert.Equal(t, want, gray.Pix[y*gray.Stride:y*gray.Stride+4], "row %d", y)
	}
}

func TestLensWarp_AverageOrEmpty(t *testing.T) {
	src := columns(24, 16)
	empty := color.Gray{Y: 1}
	for _, f := range []Formula{SignSquare, Sine, Fisheye, FlipY} {
		lw, err := NewLensWarp(f, WithAntialias(3), WithEmptyColor(empty))
		require.NoError(t, err)

		out, err := lw.Apply(context.Background(), src)
		require.NoError(t, err)
		for _, v := range out.(*image.Gray).Pix {
			if v == empty.Y {
				continue
			}
			// Averages of column values stay within the source range.
			assert.GreaterOrEqual(t, v, uint8(5))
			assert.LessOrEqual(t, v, uint8(235))
		}
	}
}

func TestLensWarp_NonFiniteSamplesAreExcluded(t *testing.T) {
	src := gradient(8, 8)
	empty := color.NRGBA{R: 1, G: 2, B: 3, A: 255}

	testCases := map[string]Formula{
		"nan": func(x, y float64) (float64, float64) { return math.NaN(), y },
		"inf": func(x, y float64) (float64, float64) { return x, math.Inf(-1) },
	}
	for name, f := range testCases {
		t.Run(name, func(t *testing.T) {
			lw, err := NewLensWarp(f, WithEmptyColor(empty), WithOutOfRange(Clamp))
			require.NoError(t, err)
			out, err := lw.Apply(context.Background(), src)
			require.NoError(t, err)

			nrgba := out.(*image.NRGBA)
			for y := 0; y < 8; y++ {
				for x := 0; x < 8; x++ {
					assert.Equal(t, empty, nrgba.NRGBAAt(x, y))
				}
			}
		})
	}
}

func TestLensWarp_OutOfRangePolicy(t *testing.T) {
	src := columns(10, 4)
	zoomOut := func(x, y float64) (float64, float64) { return 3 * x, y }

	exclude, err := NewLensWarp(zoomOut, WithAntialias(1))
	require.NoError(t, err)
	out, err := exclude.Apply(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, uint8(128), out.(*image.Gray).GrayAt(0, 0).Y)

	clamp, err := NewLensWarp(zoomOut, WithAntialias(1), WithOutOfRange(Clamp))
	require.NoError(t, err)
	out, err = clamp.Apply(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, uint8(5), out.(*image.Gray).GrayAt(0, 0).Y)
	assert.Equal(t, uint8(95), out.(*image.Gray).GrayAt(9, 0).Y)
}

func TestLensWarp_ParallelMatchesSequential(t *testing.T) {
	src := gradient(64, 48)
	seq, err := NewLensWarp(Sine, WithStrategy(Sequential))
	require.NoError(t, err)
	par, err := NewLensWarp(Sine, WithStrategy(Parallel), WithWorkers(7))
	require.NoError(t, err)

	a, err := seq.Apply(context.Background(), src)
	require.NoError(t, err)
	b, err := par.Apply(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}

func TestLensWarp_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, s := range []Strategy{Sequential, Parallel} {
		lw, err := NewLensWarp(Sine, WithStrategy(s), WithWorkers(2))
		require.NoError(t, err)
		_, err = lw.Apply(ctx, gradient(16, 16))
		assert.ErrorIs(t, err, context.Canceled, s.String())
	}
}

func TestLensWarp_Errors(t *testing.T) {
	_, err := NewLensWarp(nil)
	assert.ErrorIs(t, err, ErrNilFormula)

	_, err = NewLensWarp(IdentityFormula, WithAntialias(0))
	assert.ErrorIs(t, err, ErrInvalidAntialias)

	_, err = NewLensWarp(IdentityFormula, WithWorkers(0))
	assert.ErrorIs(t, err, ErrInvalidWorkers)

	lw, err := NewLensWarp(IdentityFormula)
	require.NoError(t, err)
	_, err = lw.Apply(context.Background(), image.NewCMYK(image.Rect(0, 0, 2, 2)))
	assert.ErrorIs(t, err, ErrUnsupportedMode)
}

func TestPolarWarp(t *testing.T) {
	x, y := Polar(RadianSquare)(0.5, 0)
	assert.InDelta(t, 0.25, x, 1e-12)
	assert.InDelta(t, 0, y, 1e-12)

	x, y = Polar(RadianSqrt)(0, -0.25)
	assert.InDelta(t, 0, x, 1e-12)
	assert.InDelta(t, -0.5, y, 1e-12)

	src := grayRamp(8, 8)
	pw, err := NewPolarWarp(func(r, phi float64) (float64, float64) { return r, phi }, WithAntialias(1))
	require.NoError(t, err)
	out, err := pw.Apply(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, out.(*image.Gray).Pix)

	_, err = NewPolarWarp(nil)
	assert.ErrorIs(t, err, ErrNilFormula)
}

func TestFormulas(t *testing.T) {
	assert.Equal(t, []string{"fisheye", "flip-x", "flip-y", "identity", "sign-square", "sine"}, Formulas())
	assert.Equal(t, []string{"cosine", "sqrt", "square", "swirl"}, PolarFormulas())

	x, y := SignSquare(-0.5, 0.5)
	assert.Equal(t, -0.25, x)
	assert.Equal(t, 0.25, y)

	x, y = Sine(1, -1)
	assert.InDelta(t, 1, x, 1e-12)
	assert.InDelta(t, -1, y, 1e-12)

	r, _ := RadianCosine(1, 0)
	assert.InDelta(t, math.Cos(1), r, 1e-12)

	_, ok := LookupFormula("nope")
	assert.False(t, ok)
}

func gradientColors(n int) []color.Color {
	colors := make([]color.Color, n)
	for i := range colors {
		colors[i] = color.NRGBA{R: uint8(i), G: uint8(255 - i%256), B: uint8(i * 7), A: 255}
	}
	return colors
}
