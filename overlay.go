package distort

import (
	"context"
	"image"
	"image/color"
	"image/draw"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Grid draws one pixel wide lines every XStep columns and YStep rows,
// starting at the image origin.
type Grid struct {
	XStep, YStep int
	Color        color.Color
}

// NewGrid creates a grid overlay. Both steps must be positive.
func NewGrid(xstep, ystep int, c color.Color) (*Grid, error) {
	if xstep < 1 || ystep < 1 {
		return nil, errors.Errorf("distort: grid steps must be positive, got %dx%d", xstep, ystep)
	}
	if c == nil {
		c = color.Black
	}
	return &Grid{XStep: xstep, YStep: ystep, Color: c}, nil
}

// Apply returns a copy of img with the grid drawn over it.
func (g *Grid) Apply(_ context.Context, img image.Image) (image.Image, error) {
	out, err := cloneImage(img)
	if err != nil {
		return nil, err
	}
	dst, _ := newRaster(out)
	px := dst.pixel(g.Color)

	for x := 0; x < dst.width; x += g.XStep {
		for y := 0; y < dst.height; y++ {
			dst.set(x, y, px)
		}
	}
	for y := 0; y < dst.height; y += g.YStep {
		for x := 0; x < dst.width; x++ {
			dst.set(x, y, px)
		}
	}
	return out, nil
}

// Text writes a single line of text with its top left corner at At.
type Text struct {
	At    image.Point
	Text  string
	Color color.Color
}

// Apply returns a copy of img with the text drawn over it.
func (t Text) Apply(_ context.Context, img image.Image) (image.Image, error) {
	out, err := cloneImage(img)
	if err != nil {
		return nil, err
	}
	c := t.Color
	if c == nil {
		c = color.Black
	}

	face := basicfont.Face7x13
	b := out.Bounds()
	d := &font.Drawer{
		Dst:  out.(draw.Image),
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(b.Min.X+t.At.X, b.Min.Y+t.At.Y+face.Ascent),
	}
	d.DrawString(t.Text)
	return out, nil
}
