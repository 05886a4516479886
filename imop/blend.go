package imop

import (
	"github.com/esimov/distort/utils"
	"github.com/pkg/errors"
)

// Mode is a separable blend mode mixing two normalized channel values.
type Mode string

// The supported blend modes. None leaves the composited value untouched.
const (
	None     Mode = ""
	Darken   Mode = "darken"
	Lighten  Mode = "lighten"
	Multiply Mode = "multiply"
	Screen   Mode = "screen"
	Overlay  Mode = "overlay"
)

var modes = []Mode{None, Darken, Lighten, Multiply, Screen, Overlay}

// ParseMode returns the blend mode with the given name.
func ParseMode(name string) (Mode, error) {
	if !utils.Contains(modes, Mode(name)) {
		return None, errors.Errorf("imop: unknown blend mode %q", name)
	}
	return Mode(name), nil
}

// Modes lists the supported blend mode names.
func Modes() []Mode {
	return append([]Mode(nil), modes[1:]...)
}

// blend mixes the channel a with the backdrop channel b.
func (m Mode) blend(a, b float64) float64 {
	switch m {
	case Darken:
		return utils.Min(a, b)
	case Lighten:
		return utils.Max(a, b)
	case Multiply:
		return a * b
	case Screen:
		return 1 - (1-a)*(1-b)
	case Overlay:
		if a <= 0.5 {
			return 2 * a * b
		}
		return 1 - 2*(1-a)*(1-b)
	}
	return a
}
