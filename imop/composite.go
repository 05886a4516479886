// Package imop implements the Porter-Duff composition operations
// used for mixing a graphic element with its backdrop.
// Porter and Duff presented in their paper 12 different composition operation,
// but the image/draw core package implements only the source-over-destination and source.
// This package is aimed to overcome the missing composite operations.
package imop

import (
	"image"
	"image/color"

	"github.com/esimov/distort/utils"
	"github.com/pkg/errors"
)

// Op is a Porter-Duff composition operator.
type Op string

// The supported composition operators.
const (
	Copy    Op = "copy"
	SrcOver Op = "src_over"
	DstOver Op = "dst_over"
	SrcIn   Op = "src_in"
	DstIn   Op = "dst_in"
	SrcOut  Op = "src_out"
	DstOut  Op = "dst_out"
	SrcAtop Op = "src_atop"
	DstAtop Op = "dst_atop"
	Xor     Op = "xor"
)

var ops = []Op{Copy, SrcOver, DstOver, SrcIn, DstIn, SrcOut, DstOut, SrcAtop, DstAtop, Xor}

// ParseOp returns the composition operator with the given name.
func ParseOp(name string) (Op, error) {
	if !utils.Contains(ops, Op(name)) {
		return "", errors.Errorf("imop: unknown composite operation %q", name)
	}
	return Op(name), nil
}

// Ops lists the supported composition operators.
func Ops() []Op {
	return append([]Op(nil), ops...)
}

// factors returns the Porter-Duff weights applied to the source and the backdrop.
func (op Op) factors(as, ab float64) (fs, fb float64) {
	switch op {
	case Copy:
		return 1, 0
	case SrcOver:
		return 1, 1 - as
	case DstOver:
		return 1 - ab, 1
	case SrcIn:
		return ab, 0
	case DstIn:
		return 0, as
	case SrcOut:
		return 1 - ab, 0
	case DstOut:
		return 0, 1 - as
	case SrcAtop:
		return ab, 1 - as
	case DstAtop:
		return 1 - ab, as
	case Xor:
		return 1 - ab, 1 - as
	}
	return 1, 1 - as
}

// Draw composites src over the backdrop with the op operator, then mixes the
// result with src using the blend mode. Both images must have the same size.
func Draw(src, backdrop *image.NRGBA, op Op, mode Mode) (*image.NRGBA, error) {
	if src.Bounds().Size() != backdrop.Bounds().Size() {
		return nil, errors.Errorf("imop: size mismatch %v and %v", src.Bounds().Size(), backdrop.Bounds().Size())
	}
	if !utils.Contains(ops, op) {
		return nil, errors.Errorf("imop: unknown composite operation %q", op)
	}

	var (
		sb  = src.Bounds()
		bb  = backdrop.Bounds()
		dst = image.NewNRGBA(image.Rect(0, 0, sb.Dx(), sb.Dy()))
	)

	for y := 0; y < sb.Dy(); y++ {
		for x := 0; x < sb.Dx(); x++ {
			s := src.NRGBAAt(sb.Min.X+x, sb.Min.Y+y)
			b := backdrop.NRGBAAt(bb.Min.X+x, bb.Min.Y+y)
			dst.SetNRGBA(x, y, composite(s, b, op, mode))
		}
	}
	return dst, nil
}

func composite(s, b color.NRGBA, op Op, mode Mode) color.NRGBA {
	cs := [3]float64{float64(s.R) / 255, float64(s.G) / 255, float64(s.B) / 255}
	cb := [3]float64{float64(b.R) / 255, float64(b.G) / 255, float64(b.B) / 255}
	as, ab := float64(s.A)/255, float64(b.A)/255

	fs, fb := op.factors(as, ab)
	ao := as*fs + ab*fb
	if ao == 0 {
		return color.NRGBA{}
	}

	var out [3]uint8
	for i := range cs {
		// Premultiplied composition, then back to straight alpha.
		c := (as*fs*cs[i] + ab*fb*cb[i]) / ao
		c = mode.blend(c, cs[i])
		out[i] = uint8(utils.Clamp(c, 0, 1)*255 + 0.5)
	}
	return color.NRGBA{R: out[0], G: out[1], B: out[2], A: uint8(utils.Clamp(ao, 0, 1)*255 + 0.5)}
}
