package distort

import (
	"context"
	"image"

	"github.com/pkg/errors"
)

// LensWarp remaps the whole frame through a formula working in normalized
// coordinates, where both axes span [-1, 1] regardless of the aspect ratio.
type LensWarp struct {
	formula Formula
	cfg     config
	exec    executor
}

// NewLensWarp creates a full-frame warp. The default antialias factor is 2.
func NewLensWarp(f Formula, opts ...Option) (*LensWarp, error) {
	if f == nil {
		return nil, ErrNilFormula
	}
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return &LensWarp{formula: f, cfg: cfg, exec: newExecutor("lens", cfg)}, nil
}

// Apply returns a new image of the same size and mode as img.
func (lw *LensWarp) Apply(ctx context.Context, img image.Image) (image.Image, error) {
	src, err := newRaster(img)
	if err != nil {
		return nil, err
	}
	out, err := newLike(img)
	if err != nil {
		return nil, err
	}
	dst, _ := newRaster(out)
	empty := dst.pixel(lw.cfg.empty)

	w, h := float64(src.width), float64(src.height)
	mapping := func(x, y float64) (float64, float64) {
		x2, y2 := lw.formula(2*x/w-1, 2*y/h-1)
		return 0.5 * w * (x2 + 1), 0.5 * h * (y2 + 1)
	}
	s := sampler{src: src, aa: lw.cfg.antialias, policy: lw.cfg.policy}

	err = lw.exec.rows(ctx, 0, src.height, func(y0, y1 int) {
		var acc accumulator
		for j := y0; j < y1; j++ {
			for i := 0; i < src.width; i++ {
				s.gather(&acc, i, j, mapping)
				if !acc.store(dst.at(i, j)) {
					dst.set(i, j, empty)
				}
			}
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "lens warp")
	}
	return out, nil
}

// PolarWarp is a LensWarp whose formula is expressed in polar coordinates
// around the frame center.
type PolarWarp struct {
	*LensWarp
}

// NewPolarWarp creates a full-frame warp from a polar formula.
func NewPolarWarp(f PolarFormula, opts ...Option) (*PolarWarp, error) {
	if f == nil {
		return nil, ErrNilFormula
	}
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	lw := &LensWarp{formula: Polar(f), cfg: cfg, exec: newExecutor("polar", cfg)}
	return &PolarWarp{LensWarp: lw}, nil
}
