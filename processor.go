package distort

import (
	"context"
	"image"
	"io"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/esimov/distort/utils"
	"github.com/pkg/errors"
)

var _ Effect = (*Processor)(nil)

// Processor options
type Processor struct {
	// Effects holds the effect descriptions parsed into the pipeline,
	// see Parser for the syntax. Ignored when Pipeline is set.
	Effects []string
	// Pipeline is applied to every image when set.
	Pipeline *Pipeline

	Antialias  int
	EmptyColor string
	Workers    int
	Scale      float64
	Compare    bool
	FaceDetect bool
	Cascade    string
	FaceAngle  float64
	Spinner    *utils.Spinner

	mu       sync.Mutex
	pipeline *Pipeline
}

// Build parses the effect descriptions once and returns the resulting pipeline.
func (p *Processor) Build() (*Pipeline, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Pipeline != nil {
		return p.Pipeline, nil
	}
	if p.pipeline != nil {
		return p.pipeline, nil
	}

	parser := &Parser{}
	if p.Antialias != 0 {
		parser.Defaults = append(parser.Defaults, WithAntialias(p.Antialias))
	}
	if p.Workers != 0 {
		parser.Defaults = append(parser.Defaults, WithWorkers(p.Workers))
	}
	if p.EmptyColor != "" {
		c, err := utils.HexToNRGBA(p.EmptyColor)
		if err != nil {
			return nil, errors.Wrap(err, "invalid empty color")
		}
		parser.Defaults = append(parser.Defaults, WithEmptyColor(c))
	}
	if p.FaceDetect {
		params := DefaultFaceParams()
		params.Angle = p.FaceAngle
		fd, err := LoadFaceDetector(p.Cascade, params)
		if err != nil {
			return nil, err
		}
		parser.Faces = fd
	}

	pl, err := parser.ParsePipeline("processor", p.Effects)
	if err != nil {
		return nil, err
	}
	p.pipeline = pl
	return pl, nil
}

// Apply scales img when requested, then runs it through the pipeline.
// With Compare set the result is placed next to the scaled source.
func (p *Processor) Apply(ctx context.Context, img image.Image) (image.Image, error) {
	pl, err := p.Build()
	if err != nil {
		return nil, err
	}

	src := ToNRGBA(img)
	if p.Scale > 0 && p.Scale != 1 {
		w := int(float64(src.Bounds().Dx())*p.Scale + 0.5)
		src = imaging.Resize(src, utils.Max(w, 1), 0, imaging.Lanczos)
	}

	var effect Effect = pl
	if p.Compare {
		effect = SideBySide{Effect: pl}
	}
	out, err := effect.Apply(ctx, src)
	if err != nil {
		return nil, err
	}
	Logger().Info("distort: image processed",
		"width", out.Bounds().Dx(),
		"height", out.Bounds().Dy(),
		"effects", pl.Len(),
		"fingerprint", Fingerprint(out),
	)
	return out, nil
}

// Process decodes the image read from r, applies the effects and encodes
// the result into w. Files are encoded by their extension, other writers get PNG.
func (p *Processor) Process(r io.Reader, w io.Writer) error {
	return p.ProcessContext(context.Background(), r, w)
}

// ProcessContext is Process with a context canceling the warp kernels.
func (p *Processor) ProcessContext(ctx context.Context, r io.Reader, w io.Writer) error {
	src, err := decodeImg(r)
	if err != nil {
		return err
	}
	out, err := p.Apply(ctx, src)
	if err != nil {
		return err
	}
	return encodeImg(w, out)
}
