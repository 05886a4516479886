package distort

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
)

// raster gives direct channel access to the pixel buffer of the supported
// image modes. Coordinates are 0-based, relative to the image bounds.
type raster struct {
	pix    []uint8
	stride int
	width  int
	height int
	nband  int
	model  color.Model
}

func newRaster(img image.Image) (*raster, error) {
	b := img.Bounds()
	r := &raster{width: b.Dx(), height: b.Dy()}

	switch img := img.(type) {
	case *image.Gray:
		r.pix, r.stride, r.nband, r.model = img.Pix[img.PixOffset(b.Min.X, b.Min.Y):], img.Stride, 1, color.GrayModel
	case *image.NRGBA:
		r.pix, r.stride, r.nband, r.model = img.Pix[img.PixOffset(b.Min.X, b.Min.Y):], img.Stride, 4, color.NRGBAModel
	case *image.RGBA:
		r.pix, r.stride, r.nband, r.model = img.Pix[img.PixOffset(b.Min.X, b.Min.Y):], img.Stride, 4, color.RGBAModel
	default:
		return nil, errors.Wrapf(ErrUnsupportedMode, "%T", img)
	}
	if r.width < 1 || r.height < 1 {
		return nil, errors.Wrapf(ErrUnsupportedMode, "empty image %v", b)
	}
	return r, nil
}

// at returns the channels of the pixel at (x, y) as a slice into the buffer.
func (r *raster) at(x, y int) []uint8 {
	i := y*r.stride + x*r.nband
	return r.pix[i : i+r.nband : i+r.nband]
}

func (r *raster) set(x, y int, px []uint8) {
	copy(r.at(x, y), px)
}

// pixel converts c into the channel layout of the raster.
func (r *raster) pixel(c color.Color) []uint8 {
	switch c := r.model.Convert(c).(type) {
	case color.Gray:
		return []uint8{c.Y}
	case color.NRGBA:
		return []uint8{c.R, c.G, c.B, c.A}
	case color.RGBA:
		return []uint8{c.R, c.G, c.B, c.A}
	}
	return make([]uint8, r.nband)
}

func (r *raster) fill(px []uint8) {
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			r.set(x, y, px)
		}
	}
}

// Channels returns the number of channels of the image mode, or 0 when the
// mode is not supported by the warp kernels.
func Channels(img image.Image) int {
	switch img.(type) {
	case *image.Gray:
		return 1
	case *image.NRGBA, *image.RGBA:
		return 4
	}
	return 0
}

// newLike allocates an image with the same mode and bounds as img.
func newLike(img image.Image) (image.Image, error) {
	b := img.Bounds()
	switch img.(type) {
	case *image.Gray:
		return image.NewGray(b), nil
	case *image.NRGBA:
		return image.NewNRGBA(b), nil
	case *image.RGBA:
		return image.NewRGBA(b), nil
	}
	return nil, errors.Wrapf(ErrUnsupportedMode, "%T", img)
}

// cloneImage returns a deep copy of img keeping its pixel mode.
func cloneImage(img image.Image) (image.Image, error) {
	dst, err := newLike(img)
	if err != nil {
		return nil, err
	}
	src, err := newRaster(img)
	if err != nil {
		return nil, err
	}
	out, err := newRaster(dst)
	if err != nil {
		return nil, err
	}
	rowSize := src.width * src.nband
	for y := 0; y < src.height; y++ {
		copy(out.pix[y*out.stride:y*out.stride+rowSize], src.pix[y*src.stride:y*src.stride+rowSize])
	}
	return dst, nil
}
