package distort

import (
	"context"
	"image"
	"reflect"

	"github.com/pkg/errors"
)

// Pipeline is an ordered list of effects applied one after the other.
// A Pipeline is itself an Effect, so pipelines can be nested.
// The zero value is an empty pipeline named "".
type Pipeline struct {
	Name    string
	effects []Effect
}

// NewPipeline creates a pipeline initialized with the given effects.
func NewPipeline(name string, effects ...Effect) *Pipeline {
	p := &Pipeline{Name: name}
	p.Append(effects...)
	return p
}

// Len returns the number of effects in the pipeline.
func (p *Pipeline) Len() int { return len(p.effects) }

// Effects returns a copy of the effect list.
func (p *Pipeline) Effects() []Effect {
	return append([]Effect(nil), p.effects...)
}

// Append adds effects to the end of the pipeline. Nil effects are skipped.
func (p *Pipeline) Append(effects ...Effect) {
	for _, e := range effects {
		if e != nil {
			p.effects = append(p.effects, e)
		}
	}
}

// Insert places e at index i, shifting the following effects.
// Valid indices are 0 to Len() inclusive.
func (p *Pipeline) Insert(i int, e Effect) error {
	if e == nil {
		return ErrNilEffect
	}
	if i < 0 || i > len(p.effects) {
		return errors.Wrapf(ErrIndexOutOfRange, "insert at %d, length %d", i, len(p.effects))
	}
	p.effects = append(p.effects, nil)
	copy(p.effects[i+1:], p.effects[i:])
	p.effects[i] = e
	return nil
}

// Remove deletes the first effect equal to e.
func (p *Pipeline) Remove(e Effect) error {
	for i, cur := range p.effects {
		if sameEffect(cur, e) {
			p.effects = append(p.effects[:i], p.effects[i+1:]...)
			return nil
		}
	}
	return ErrEffectNotFound
}

// Pop removes and returns the last effect.
func (p *Pipeline) Pop() (Effect, error) {
	n := len(p.effects)
	if n == 0 {
		return nil, ErrEmptyPipeline
	}
	e := p.effects[n-1]
	p.effects[n-1] = nil
	p.effects = p.effects[:n-1]
	return e, nil
}

// Apply threads img through every effect in order. An empty pipeline
// returns img unchanged.
func (p *Pipeline) Apply(ctx context.Context, img image.Image) (image.Image, error) {
	for i, e := range p.effects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if req, ok := e.(ChannelRequirer); ok {
			if got, want := Channels(img), req.Channels(); got != want {
				return nil, errors.Wrapf(ErrChannelMismatch,
					"pipeline %q stage %d (%T) wants %d channels, got %d", p.Name, i, e, want, got)
			}
		}
		out, err := e.Apply(ctx, img)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline %q stage %d", p.Name, i)
		}
		img = out
	}
	return img, nil
}

// sameEffect compares two effects with ==, treating uncomparable dynamic
// types (funcs, slices, maps) as never equal.
func sameEffect(a, b Effect) (same bool) {
	// Structs holding an uncomparable value in an interface field still panic.
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
