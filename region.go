package distort

import (
	"context"
	"image"
	"math"

	"github.com/pkg/errors"
)

// RegionWarp remaps the pixels inside a box through a formula working in
// absolute pixel coordinates. Every destination pixel outside the box
// is set to the empty color.
type RegionWarp struct {
	formula Formula
	cfg     config
	exec    executor
}

// NewRegionWarp creates a region warp. The box defaults to the full image.
func NewRegionWarp(f Formula, opts ...Option) (*RegionWarp, error) {
	if f == nil {
		return nil, ErrNilFormula
	}
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return &RegionWarp{formula: f, cfg: cfg, exec: newExecutor("region", cfg)}, nil
}

// Apply returns a new image of the same size and mode as img.
func (rw *RegionWarp) Apply(ctx context.Context, img image.Image) (image.Image, error) {
	return rw.apply(ctx, img, rw.formula)
}

func (rw *RegionWarp) apply(ctx context.Context, img image.Image, f Formula) (image.Image, error) {
	src, err := newRaster(img)
	if err != nil {
		return nil, err
	}
	box, err := rw.cfg.region(src.width, src.height, image.Rect(0, 0, src.width, src.height))
	if err != nil {
		return nil, err
	}
	out, err := newLike(img)
	if err != nil {
		return nil, err
	}
	dst, _ := newRaster(out)
	dst.fill(dst.pixel(rw.cfg.empty))

	s := sampler{src: src, aa: rw.cfg.antialias, policy: rw.cfg.policy}
	err = rw.exec.rows(ctx, box.Min.Y, box.Max.Y, func(y0, y1 int) {
		var acc accumulator
		for j := y0; j < y1; j++ {
			for i := box.Min.X; i < box.Max.X; i++ {
				s.gather(&acc, i, j, f)
				acc.store(dst.at(i, j))
			}
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "region warp")
	}
	return out, nil
}

// GlobalWave displaces every column vertically along a sine wave spanning
// the image width. It is a RegionWarp and honors the same options.
type GlobalWave struct {
	region *RegionWarp
	dw, dh float64
}

// NewGlobalWave creates a sine displacement with dw periods over the image
// width and an amplitude of dh times half the image height.
func NewGlobalWave(dw, dh float64, opts ...Option) (*GlobalWave, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	rw := &RegionWarp{formula: IdentityFormula, cfg: cfg, exec: newExecutor("global-wave", cfg)}
	return &GlobalWave{region: rw, dw: dw, dh: dh}, nil
}

// Apply returns a new image of the same size and mode as img.
func (gw *GlobalWave) Apply(ctx context.Context, img image.Image) (image.Image, error) {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	phase := gw.region.cfg.phase
	f := func(x, y float64) (float64, float64) {
		return x, y + 0.5*math.Sin(2*math.Pi*(x+phase)/w*gw.dw)*h*gw.dh
	}
	return gw.region.apply(ctx, img, f)
}
