package distort

import (
	"image"
	"image/color"
	"runtime"

	"github.com/pkg/errors"
)

// OutOfRange selects what happens to a sub-sample whose back-mapped
// coordinates fall outside the source image.
type OutOfRange int

const (
	// Exclude drops the sample from the average.
	Exclude OutOfRange = iota
	// Clamp snaps finite samples to the nearest edge pixel.
	Clamp
)

func (o OutOfRange) String() string {
	switch o {
	case Exclude:
		return "exclude"
	case Clamp:
		return "clamp"
	}
	return "unknown"
}

// Strategy selects how a kernel walks the destination rows.
type Strategy int

const (
	// Parallel splits the destination into row bands processed by a worker pool.
	Parallel Strategy = iota
	// Sequential processes every row on the calling goroutine.
	Sequential
)

func (s Strategy) String() string {
	switch s {
	case Parallel:
		return "parallel"
	case Sequential:
		return "sequential"
	}
	return "unknown"
}

// defaultAntialias is the supersampling factor used when none is given.
const defaultAntialias = 2

type config struct {
	antialias int
	empty     color.NRGBA
	box       image.Rectangle
	policy    OutOfRange
	strategy  Strategy
	workers   int
	phase     float64
}

// Option configures a warp kernel.
type Option func(*config)

// WithAntialias sets the supersampling factor. Each destination pixel
// averages up to n*n sub-samples.
func WithAntialias(n int) Option {
	return func(c *config) { c.antialias = n }
}

// WithEmptyColor sets the color written where no valid sample was found.
func WithEmptyColor(col color.Color) Option {
	return func(c *config) {
		c.empty = color.NRGBAModel.Convert(col).(color.NRGBA)
	}
}

// WithBox restricts the kernels supporting a region to r, given in 0-based
// pixel coordinates. A zero rectangle selects the kernel's default extent.
func WithBox(r image.Rectangle) Option {
	return func(c *config) { c.box = r }
}

// WithOutOfRange sets the out-of-range sample policy.
func WithOutOfRange(p OutOfRange) Option {
	return func(c *config) { c.policy = p }
}

// WithStrategy sets the execution strategy.
func WithStrategy(s Strategy) Option {
	return func(c *config) { c.strategy = s }
}

// WithWorkers sets the number of workers of the parallel strategy.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// WithPhase shifts the horizontal phase of GlobalWave by x pixels.
func WithPhase(x float64) Option {
	return func(c *config) { c.phase = x }
}

func newConfig(opts []Option) (config, error) {
	c := config{
		antialias: defaultAntialias,
		empty:     DefaultEmptyColor,
		policy:    Exclude,
		strategy:  Parallel,
		workers:   runtime.NumCPU(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	if c.antialias < 1 {
		return c, errors.Wrapf(ErrInvalidAntialias, "got %d", c.antialias)
	}
	if c.workers < 1 {
		return c, errors.Wrapf(ErrInvalidWorkers, "got %d", c.workers)
	}
	if c.box != (image.Rectangle{}) && c.box.Empty() {
		return c, errors.Wrapf(ErrInvalidBox, "zero area box %v", c.box)
	}
	if c.policy != Exclude && c.policy != Clamp {
		return c, errors.Errorf("distort: unknown out-of-range policy %d", c.policy)
	}
	if c.strategy != Parallel && c.strategy != Sequential {
		return c, errors.Errorf("distort: unknown strategy %d", c.strategy)
	}
	return c, nil
}

// region returns the explicit box clipped to a w×h image, or def when no box was set.
func (c config) region(w, h int, def image.Rectangle) (image.Rectangle, error) {
	if c.box == (image.Rectangle{}) {
		return def, nil
	}
	r := c.box.Intersect(image.Rect(0, 0, w, h))
	if r.Empty() {
		return r, errors.Wrapf(ErrInvalidBox, "box %v outside %dx%d image", c.box, w, h)
	}
	return r, nil
}
