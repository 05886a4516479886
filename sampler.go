package distort

import "math"

// accumulator sums the channels of the samples gathered for one destination pixel.
type accumulator struct {
	sum   [4]int
	count int
}

func (a *accumulator) reset() {
	a.sum = [4]int{}
	a.count = 0
}

func (a *accumulator) add(px []uint8) {
	for i, v := range px {
		a.sum[i] += int(v)
	}
	a.count++
}

// store writes the truncated average into dst and reports whether any sample was gathered.
func (a *accumulator) store(dst []uint8) bool {
	if a.count == 0 {
		return false
	}
	for i := range dst {
		dst[i] = uint8(a.sum[i] / a.count)
	}
	return true
}

// resolve rounds the source coordinates (u, v) half away from zero and
// applies the out-of-range policy. Non-finite coordinates are never valid.
func (o OutOfRange) resolve(u, v float64, w, h int) (int, int, bool) {
	if math.IsNaN(u) || math.IsNaN(v) || math.IsInf(u, 0) || math.IsInf(v, 0) {
		return 0, 0, false
	}
	x, y := math.Round(u), math.Round(v)
	if o == Clamp {
		x = math.Max(0, math.Min(x, float64(w-1)))
		y = math.Max(0, math.Min(y, float64(h-1)))
	}
	if x < 0 || y < 0 || x >= float64(w) || y >= float64(h) {
		return 0, 0, false
	}
	return int(x), int(y), true
}

// sampler gathers the supersampled values of one destination pixel.
type sampler struct {
	src    *raster
	aa     int
	policy OutOfRange
}

// gather maps each sub-sample (i+ai/A, j+aj/A) through mapping and
// accumulates the source pixels it lands on.
func (s sampler) gather(acc *accumulator, i, j int, mapping func(x, y float64) (float64, float64)) {
	acc.reset()
	fa := float64(s.aa)
	for ai := 0; ai < s.aa; ai++ {
		x := float64(i) + float64(ai)/fa
		for aj := 0; aj < s.aa; aj++ {
			y := float64(j) + float64(aj)/fa
			u, v := mapping(x, y)
			if sx, sy, ok := s.policy.resolve(u, v, s.src.width, s.src.height); ok {
				acc.add(s.src.at(sx, sy))
			}
		}
	}
}
