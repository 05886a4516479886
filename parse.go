package distort

import (
	"image"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"github.com/esimov/distort/imop"
	"github.com/esimov/distort/utils"
	"github.com/pkg/errors"
)

// Parser builds effects from textual descriptions of the form
//
//	name[:key=value[,key=value...]]
//
// for example "lens:formula=sign-square,aa=3" or "wave:v=0.05,h=1".
// The keys aa, empty, policy, box, workers and strategy are accepted by
// every warp kernel; box is given as left:top:right:bottom.
type Parser struct {
	// Defaults are applied to every warp kernel before the parsed options.
	Defaults []Option
	// Faces is used by the face effect.
	Faces FaceFinder
}

// ParseEffect parses a single effect description with no defaults.
func ParseEffect(spec string) (Effect, error) {
	return (&Parser{}).Parse(spec)
}

// ParseEffects parses the descriptions into a pipeline.
func ParseEffects(specs []string) (*Pipeline, error) {
	return (&Parser{}).ParsePipeline("effects", specs)
}

// EffectNames lists the effect names understood by the parser.
func EffectNames() []string { return sortedKeys(builders) }

// ParsePipeline parses every description and chains the effects.
func (p *Parser) ParsePipeline(name string, specs []string) (*Pipeline, error) {
	pl := NewPipeline(name)
	for _, spec := range specs {
		e, err := p.Parse(spec)
		if err != nil {
			return nil, err
		}
		pl.Append(e)
	}
	return pl, nil
}

// Parse parses a single effect description.
func (p *Parser) Parse(spec string) (Effect, error) {
	name, args, _ := strings.Cut(strings.TrimSpace(spec), ":")
	build, ok := builders[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownEffect, "%q", name)
	}

	ps, err := parseParams(args)
	if err != nil {
		return nil, errors.Wrapf(err, "effect %q", name)
	}
	e, err := build(p, &ps)
	if err != nil {
		return nil, errors.Wrapf(err, "effect %q", name)
	}
	if err := ps.unused(); err != nil {
		return nil, errors.Wrapf(err, "effect %q", name)
	}
	return e, nil
}

type builder func(p *Parser, ps *params) (Effect, error)

var builders map[string]builder

func init() {
	builders = map[string]builder{
		"identity": func(*Parser, *params) (Effect, error) { return Identity{}, nil },
		"gray":     func(*Parser, *params) (Effect, error) { return Grayscale{}, nil },
		"lens":     buildLens,
		"polar":    buildPolar,
		"region":   buildRegion,
		"globalwave": func(p *Parser, ps *params) (Effect, error) {
			opts, err := p.options(ps)
			if err != nil {
				return nil, err
			}
			return NewGlobalWave(ps.float("dw", 1), ps.float("dh", 0.1), append(opts, WithPhase(ps.float("phase", 0)))...)
		},
		"local": func(p *Parser, ps *params) (Effect, error) {
			opts, err := p.options(ps)
			if err != nil {
				return nil, err
			}
			center := Point{X: ps.float("cx", 0), Y: ps.float("cy", 0)}
			target := Point{X: ps.float("tx", 0), Y: ps.float("ty", 0)}
			return NewLocalWarp(center, target, ps.float("r", 0), opts...)
		},
		"wave": func(p *Parser, ps *params) (Effect, error) {
			opts, err := p.options(ps)
			if err != nil {
				return nil, err
			}
			return NewWave(ps.float("v", 0.1), ps.float("h", 0), opts...)
		},
		"grid": func(_ *Parser, ps *params) (Effect, error) {
			c := ps.color("color", color.Black)
			return NewGrid(ps.int("w", 20), ps.int("h", 20), c)
		},
		"text": func(_ *Parser, ps *params) (Effect, error) {
			return Text{
				At:    image.Pt(ps.int("x", 0), ps.int("y", 0)),
				Text:  ps.str("text", ""),
				Color: ps.color("color", color.Black),
			}, nil
		},
		"blur": func(_ *Parser, ps *params) (Effect, error) {
			return Blur{Radius: ps.float("r", 2)}, nil
		},
		"adjust": func(_ *Parser, ps *params) (Effect, error) {
			return Adjust{Brightness: ps.float("brightness", 0), Contrast: ps.float("contrast", 0)}, nil
		},
		"composite": buildComposite,
		"face": func(p *Parser, ps *params) (Effect, error) {
			if p.Faces == nil {
				return nil, errors.New("face detection is not enabled")
			}
			opts, err := p.options(ps)
			if err != nil {
				return nil, err
			}
			return &FaceWarp{
				Finder:      p.Faces,
				Offset:      Point{X: ps.float("dx", 0), Y: ps.float("dy", 0)},
				RadiusScale: ps.float("scale", 1),
				Options:     opts,
			}, nil
		},
	}
}

func buildLens(p *Parser, ps *params) (Effect, error) {
	name := ps.str("formula", "identity")
	f, ok := LookupFormula(name)
	if !ok {
		return nil, errors.Errorf("unknown formula %q", name)
	}
	opts, err := p.options(ps)
	if err != nil {
		return nil, err
	}
	return NewLensWarp(f, opts...)
}

func buildPolar(p *Parser, ps *params) (Effect, error) {
	name := ps.str("formula", "sqrt")
	f, ok := LookupPolarFormula(name)
	if !ok {
		return nil, errors.Errorf("unknown polar formula %q", name)
	}
	opts, err := p.options(ps)
	if err != nil {
		return nil, err
	}
	return NewPolarWarp(f, opts...)
}

// buildRegion creates a region warp translating the box content by (dx, dy).
func buildRegion(p *Parser, ps *params) (Effect, error) {
	dx, dy := ps.float("dx", 0), ps.float("dy", 0)
	opts, err := p.options(ps)
	if err != nil {
		return nil, err
	}
	return NewRegionWarp(func(x, y float64) (float64, float64) { return x - dx, y - dy }, opts...)
}

// buildComposite composites a lens warp over the source image.
func buildComposite(p *Parser, ps *params) (Effect, error) {
	op, err := imop.ParseOp(ps.str("op", string(imop.SrcOver)))
	if err != nil {
		return nil, err
	}
	mode, err := imop.ParseMode(ps.str("mode", ""))
	if err != nil {
		return nil, err
	}
	inner, err := buildLens(p, ps)
	if err != nil {
		return nil, err
	}
	return Composite{Effect: inner, Op: op, Mode: mode}, nil
}

// options converts the common kernel keys into options, after the defaults.
func (p *Parser) options(ps *params) ([]Option, error) {
	opts := append([]Option(nil), p.Defaults...)
	if ps.has("aa") {
		opts = append(opts, WithAntialias(ps.int("aa", defaultAntialias)))
	}
	if ps.has("workers") {
		opts = append(opts, WithWorkers(ps.int("workers", 1)))
	}
	if ps.has("empty") {
		c, err := utils.HexToNRGBA(ps.str("empty", ""))
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithEmptyColor(c))
	}
	if ps.has("policy") {
		switch v := ps.str("policy", ""); v {
		case "exclude":
			opts = append(opts, WithOutOfRange(Exclude))
		case "clamp":
			opts = append(opts, WithOutOfRange(Clamp))
		default:
			return nil, errors.Errorf("unknown out-of-range policy %q", v)
		}
	}
	if ps.has("strategy") {
		switch v := ps.str("strategy", ""); v {
		case "parallel":
			opts = append(opts, WithStrategy(Parallel))
		case "sequential":
			opts = append(opts, WithStrategy(Sequential))
		default:
			return nil, errors.Errorf("unknown strategy %q", v)
		}
	}
	if ps.has("box") {
		box, err := parseBox(ps.str("box", ""))
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithBox(box))
	}
	return opts, ps.err
}

func parseBox(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return image.Rectangle{}, errors.Wrapf(ErrInvalidBox, "want left:top:right:bottom, got %q", s)
	}
	var v [4]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return image.Rectangle{}, errors.Wrapf(ErrInvalidBox, "%q", s)
		}
		v[i] = n
	}
	return image.Rect(v[0], v[1], v[2], v[3]), nil
}

// params holds the key=value pairs of an effect description and records
// the first conversion error and which keys have been read.
type params struct {
	values map[string]string
	used   map[string]bool
	err    error
}

func parseParams(s string) (params, error) {
	ps := params{values: map[string]string{}, used: map[string]bool{}}
	if s == "" {
		return ps, nil
	}
	for _, kv := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return ps, errors.Errorf("malformed parameter %q", kv)
		}
		ps.values[k] = strings.TrimSpace(v)
	}
	return ps, nil
}

func (ps *params) has(key string) bool {
	_, ok := ps.values[key]
	return ok
}

func (ps *params) str(key, def string) string {
	v, ok := ps.values[key]
	if !ok {
		return def
	}
	ps.used[key] = true
	return v
}

func (ps *params) float(key string, def float64) float64 {
	v, ok := ps.values[key]
	if !ok {
		return def
	}
	ps.used[key] = true
	f, err := strconv.ParseFloat(v, 64)
	if err != nil && ps.err == nil {
		ps.err = errors.Errorf("parameter %s: invalid number %q", key, v)
	}
	return f
}

func (ps *params) int(key string, def int) int {
	v, ok := ps.values[key]
	if !ok {
		return def
	}
	ps.used[key] = true
	n, err := strconv.Atoi(v)
	if err != nil && ps.err == nil {
		ps.err = errors.Errorf("parameter %s: invalid integer %q", key, v)
	}
	return n
}

func (ps *params) color(key string, def color.Color) color.Color {
	v, ok := ps.values[key]
	if !ok {
		return def
	}
	ps.used[key] = true
	c, err := utils.HexToNRGBA(v)
	if err != nil && ps.err == nil {
		ps.err = errors.Wrapf(err, "parameter %s", key)
	}
	return c
}

// unused reports conversion errors and keys the effect did not read.
func (ps *params) unused() error {
	if ps.err != nil {
		return ps.err
	}
	var keys []string
	for k := range ps.values {
		if !ps.used[k] {
			keys = append(keys, k)
		}
	}
	if len(keys) > 0 {
		sort.Strings(keys)
		return errors.Errorf("unknown parameters %s", strings.Join(keys, ", "))
	}
	return nil
}
