package distort

import (
	"context"
	"image"
	"math"

	"github.com/pkg/errors"
)

// Wave displaces the pixels of a box vertically along a sine wave whose
// amplitude fades with the distance from the box center. Pixels outside
// the box are copied from the source. No supersampling is performed.
type Wave struct {
	vertical   float64
	horizontal float64
	cfg        config
	exec       executor
}

// NewWave creates a wave distortion. vertical is the amplitude as a
// fraction of the box height, horizontal adds periods across the box width.
// The default box leaves out the last column and row of the image.
func NewWave(vertical, horizontal float64, opts ...Option) (*Wave, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return &Wave{vertical: vertical, horizontal: horizontal, cfg: cfg, exec: newExecutor("wave", cfg)}, nil
}

// Apply returns a new image of the same size and mode as img.
func (wv *Wave) Apply(ctx context.Context, img image.Image) (image.Image, error) {
	src, err := newRaster(img)
	if err != nil {
		return nil, err
	}
	box, err := wv.cfg.region(src.width, src.height, image.Rect(0, 0, src.width-1, src.height-1))
	if err != nil {
		return nil, err
	}
	out, err := cloneImage(img)
	if err != nil {
		return nil, err
	}
	dst, _ := newRaster(out)
	empty := dst.pixel(wv.cfg.empty)

	left, top, right, bottom := box.Min.X, box.Min.Y, box.Max.X, box.Max.Y
	midX := float64(right+left) / 2
	midY := float64(top+bottom) / 2
	halfHeight := float64((bottom - top) / 2)
	amplitude := float64(bottom-top+1) * wv.vertical
	period := 2 * math.Pi / float64(right-left+1) * (wv.horizontal + 1)

	err = wv.exec.rows(ctx, top, bottom, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := left; x < right; x++ {
				dist := math.Hypot(float64(y)-midY, float64(x)-midX)
				h := math.Sin(float64(x)*period) * amplitude * (halfHeight - dist) / midY
				if math.IsNaN(h) || math.IsInf(h, 0) {
					dst.set(x, y, empty)
					continue
				}
				sy := y + int(math.Round(h))
				if sy < 0 || sy >= src.height {
					dst.set(x, y, empty)
					continue
				}
				dst.set(x, y, src.at(x, sy))
			}
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "wave")
	}
	return out, nil
}
