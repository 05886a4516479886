package distort

import (
	"context"
	"image"
	"image/color"

	"github.com/pkg/errors"
)

// DefaultEmptyColor is written into destination pixels for which no valid source sample was found.
var DefaultEmptyColor = color.NRGBA{R: 128, G: 128, B: 128, A: 255}

var (
	ErrInvalidAntialias = errors.New("distort: antialias factor must be at least 1")
	ErrInvalidBox       = errors.New("distort: invalid region box")
	ErrInvalidRadius    = errors.New("distort: radius must be positive")
	ErrInvalidWorkers   = errors.New("distort: worker count must be positive")
	ErrNilFormula       = errors.New("distort: formula must not be nil")
	ErrUnsupportedMode  = errors.New("distort: unsupported image mode")
	ErrChannelMismatch  = errors.New("distort: channel count mismatch")
	ErrEmptyPipeline    = errors.New("distort: pop from empty pipeline")
	ErrEffectNotFound   = errors.New("distort: effect not found in pipeline")
	ErrIndexOutOfRange  = errors.New("distort: pipeline index out of range")
	ErrNilEffect        = errors.New("distort: nil effect")
	ErrUnknownEffect    = errors.New("distort: unknown effect")
)

// Effect is an image to image transformation.
// Apply must not modify img and must depend only on img and the
// effect's own configuration.
type Effect interface {
	Apply(ctx context.Context, img image.Image) (image.Image, error)
}

// ChannelRequirer is implemented by effects that only work on
// images with a fixed number of channels.
type ChannelRequirer interface {
	Channels() int
}

// EffectFunc adapts an ordinary function to the Effect interface.
type EffectFunc func(ctx context.Context, img image.Image) (image.Image, error)

// Apply calls f(ctx, img).
func (f EffectFunc) Apply(ctx context.Context, img image.Image) (image.Image, error) {
	return f(ctx, img)
}

// Identity is the pass-through effect.
type Identity struct{}

// Apply returns img unchanged.
func (Identity) Apply(_ context.Context, img image.Image) (image.Image, error) {
	return img, nil
}
