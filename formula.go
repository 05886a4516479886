package distort

import (
	"math"
	"sort"
)

// Point is a position in continuous coordinates.
type Point struct {
	X, Y float64
}

// Formula maps destination coordinates to source coordinates.
// For LensWarp and PolarWarp both axes are normalized to [-1, 1];
// for RegionWarp they are absolute pixel coordinates.
// Returning NaN or an infinity marks the sample as invalid.
type Formula func(x, y float64) (float64, float64)

// PolarFormula maps polar coordinates (radius, angle) to polar coordinates.
type PolarFormula func(r, phi float64) (float64, float64)

// Polar turns a PolarFormula into a Cartesian Formula.
func Polar(f PolarFormula) Formula {
	return func(x, y float64) (float64, float64) {
		r, phi := math.Hypot(x, y), math.Atan2(y, x)
		r2, phi2 := f(r, phi)
		return r2 * math.Cos(phi2), r2 * math.Sin(phi2)
	}
}

// IdentityFormula returns its arguments unchanged.
func IdentityFormula(x, y float64) (float64, float64) { return x, y }

// FlipX mirrors the frame horizontally.
func FlipX(x, y float64) (float64, float64) { return -x, y }

// FlipY mirrors the frame vertically.
func FlipY(x, y float64) (float64, float64) { return x, -y }

// SignSquare pulls content toward the frame center.
func SignSquare(x, y float64) (float64, float64) {
	return sign(x) * x * x, sign(y) * y * y
}

// Sine pushes content toward the frame edges.
func Sine(x, y float64) (float64, float64) {
	return math.Sin(x * math.Pi / 2), math.Sin(y * math.Pi / 2)
}

// Fisheye bulges the frame center.
func Fisheye(x, y float64) (float64, float64) {
	r := math.Hypot(x, y)
	return x * r, y * r
}

// RadianSqrt maps r to √r.
func RadianSqrt(r, phi float64) (float64, float64) { return math.Sqrt(r), phi }

// RadianSquare maps r to r².
func RadianSquare(r, phi float64) (float64, float64) { return r * r, phi }

// RadianCosine maps r to r^1.5·cos(r).
func RadianCosine(r, phi float64) (float64, float64) { return math.Pow(r, 1.5) * math.Cos(r), phi }

// Swirl rotates the angle proportionally to the radius.
func Swirl(r, phi float64) (float64, float64) { return r, phi + r*math.Pi/2 }

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

var formulas = map[string]Formula{
	"identity":    IdentityFormula,
	"flip-x":      FlipX,
	"flip-y":      FlipY,
	"sign-square": SignSquare,
	"sine":        Sine,
	"fisheye":     Fisheye,
}

var polarFormulas = map[string]PolarFormula{
	"sqrt":   RadianSqrt,
	"square": RadianSquare,
	"cosine": RadianCosine,
	"swirl":  Swirl,
}

// LookupFormula returns the named Cartesian formula preset.
func LookupFormula(name string) (Formula, bool) {
	f, ok := formulas[name]
	return f, ok
}

// LookupPolarFormula returns the named polar formula preset.
func LookupPolarFormula(name string) (PolarFormula, bool) {
	f, ok := polarFormulas[name]
	return f, ok
}

// Formulas lists the Cartesian preset names in sorted order.
func Formulas() []string { return sortedKeys(formulas) }

// PolarFormulas lists the polar preset names in sorted order.
func PolarFormulas() []string { return sortedKeys(polarFormulas) }

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
