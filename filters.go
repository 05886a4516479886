package distort

import (
	"context"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
	"github.com/esimov/distort/imop"
	"github.com/pkg/errors"
)

// Grayscale converts the image to a single channel *image.Gray.
type Grayscale struct{}

// Apply converts img using the ITU-R 601 luma weights.
func (Grayscale) Apply(_ context.Context, img image.Image) (image.Image, error) {
	if _, ok := img.(*image.Gray); ok {
		return cloneImage(img)
	}

	bounds := img.Bounds()
	dst := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			lum := float32(r)*0.299 + float32(g)*0.587 + float32(b)*0.114
			dst.SetGray(x, y, color.Gray{Y: uint8(lum / 256)})
		}
	}
	return dst, nil
}

// Blur applies a gaussian blur of the given radius.
type Blur struct {
	Radius float64
}

// Channels reports that Blur works on four channel images only.
func (Blur) Channels() int { return 4 }

// Apply returns the blurred image as *image.RGBA.
func (bl Blur) Apply(_ context.Context, img image.Image) (image.Image, error) {
	if Channels(img) != 4 {
		return nil, errors.Wrapf(ErrChannelMismatch, "blur wants 4 channels, got %T", img)
	}
	return blur.Gaussian(img, bl.Radius), nil
}

// Adjust changes the brightness and contrast of an image. Both values are
// relative changes in the [-1, 1] range, zero meaning no change.
type Adjust struct {
	Brightness float64
	Contrast   float64
}

// Apply returns the adjusted image as *image.RGBA.
func (a Adjust) Apply(_ context.Context, img image.Image) (image.Image, error) {
	out := adjust.Brightness(img, a.Brightness)
	return adjust.Contrast(out, a.Contrast), nil
}

// Composite applies an inner effect and composites its output over the
// original image with a Porter-Duff operator and an optional blend mode.
type Composite struct {
	Effect Effect
	Op     imop.Op
	Mode   imop.Mode
}

// Channels reports that Composite needs an alpha channel.
func (Composite) Channels() int { return 4 }

// Apply returns the composited image as *image.NRGBA.
func (c Composite) Apply(ctx context.Context, img image.Image) (image.Image, error) {
	if Channels(img) != 4 {
		return nil, errors.Wrapf(ErrChannelMismatch, "composite wants 4 channels, got %T", img)
	}
	inner := c.Effect
	if inner == nil {
		inner = Identity{}
	}
	fg, err := inner.Apply(ctx, img)
	if err != nil {
		return nil, err
	}
	op := c.Op
	if op == "" {
		op = imop.SrcOver
	}
	return imop.Draw(ToNRGBA(fg), ToNRGBA(img), op, c.Mode)
}

// SideBySide places the original image and the output of an inner effect
// next to each other, separated by a red vertical line.
type SideBySide struct {
	Effect Effect
}

// dividerColor is the color of the line between the two halves.
var dividerColor = color.NRGBA{R: 255, A: 255}

// Apply returns an *image.NRGBA twice as wide as img.
func (s SideBySide) Apply(ctx context.Context, img image.Image) (image.Image, error) {
	inner := s.Effect
	if inner == nil {
		inner = Identity{}
	}
	out, err := inner.Apply(ctx, img)
	if err != nil {
		return nil, err
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	ow, oh := out.Bounds().Dx(), out.Bounds().Dy()
	canvas := imaging.New(w+ow, max(h, oh), color.Transparent)
	canvas = imaging.Paste(canvas, img, image.Pt(0, 0))
	canvas = imaging.Paste(canvas, out, image.Pt(w, 0))
	for y := 0; y < canvas.Bounds().Dy(); y++ {
		canvas.SetNRGBA(w, y, dividerColor)
	}
	return canvas, nil
}
