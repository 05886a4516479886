package distort

import (
	"context"
	"image"
	"math"

	"github.com/pkg/errors"
)

// localEpsilon keeps the local warp denominator away from zero.
const localEpsilon = 1e-10

// LocalWarp drags the content found at the center of a circle toward a
// target point. Pixels farther than the radius from the center are copied
// unchanged from the source.
type LocalWarp struct {
	center Point
	target Point
	radius float64
	cfg    config
	exec   executor
}

// NewLocalWarp creates a local warp moving center toward target inside radius.
func NewLocalWarp(center, target Point, radius float64, opts ...Option) (*LocalWarp, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, errors.Wrapf(ErrInvalidRadius, "got %v", radius)
	}
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return &LocalWarp{
		center: center,
		target: target,
		radius: radius,
		cfg:    cfg,
		exec:   newExecutor("local", cfg),
	}, nil
}

// formula returns the source position of the destination point (x, y).
func (lw *LocalWarp) formula(x, y float64) (float64, float64) {
	dx, dy := lw.target.X-lw.center.X, lw.target.Y-lw.center.Y
	rr := lw.radius * lw.radius
	dc := (x-lw.center.X)*(x-lw.center.X) + (y-lw.center.Y)*(y-lw.center.Y)
	dt := (x-lw.target.X)*(x-lw.target.X) + (y-lw.target.Y)*(y-lw.target.Y)

	div := rr - dc + dt
	if div == 0 {
		div = localEpsilon
	}
	factor := (rr - dc) / div
	factor *= factor
	return x - factor*dx, y - factor*dy
}

// Apply returns a new image of the same size and mode as img.
func (lw *LocalWarp) Apply(ctx context.Context, img image.Image) (image.Image, error) {
	src, err := newRaster(img)
	if err != nil {
		return nil, err
	}
	out, err := cloneImage(img)
	if err != nil {
		return nil, err
	}
	dst, _ := newRaster(out)

	// Only rows crossing the circle can change.
	top := max(0, int(math.Floor(lw.center.Y-lw.radius)))
	bottom := min(src.height, int(math.Ceil(lw.center.Y+lw.radius))+1)
	left := max(0, int(math.Floor(lw.center.X-lw.radius)))
	right := min(src.width, int(math.Ceil(lw.center.X+lw.radius))+1)
	if top >= bottom || left >= right {
		return out, ctx.Err()
	}

	s := sampler{src: src, aa: lw.cfg.antialias, policy: lw.cfg.policy}
	err = lw.exec.rows(ctx, top, bottom, func(y0, y1 int) {
		var acc accumulator
		for j := y0; j < y1; j++ {
			for i := left; i < right; i++ {
				if math.Hypot(float64(i)-lw.center.X, float64(j)-lw.center.Y) > lw.radius {
					continue
				}
				s.gather(&acc, i, j, lw.formula)
				acc.store(dst.at(i, j))
			}
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "local warp")
	}
	return out, nil
}
