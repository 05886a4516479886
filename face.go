package distort

import (
	"context"
	"image"
	"os"
	"sort"

	"github.com/esimov/distort/utils"
	pigo "github.com/esimov/pigo/core"
	"github.com/pkg/errors"
)

// Face is a face detection result in pixel coordinates.
type Face struct {
	Center Point
	Size   int
	Score  float32
}

// FaceFinder locates faces in an image, strongest first.
type FaceFinder interface {
	Detect(img image.Image) []Face
}

// FaceParams holds the cascade classifier parameters.
type FaceParams struct {
	MinSize      int
	MaxSize      int // 0 means the largest image side
	ShiftFactor  float64
	ScaleFactor  float64
	Angle        float64 // in-plane rotation, 0.0 to 1.0
	IoUThreshold float64
	MinScore     float32
}

// DefaultFaceParams returns the parameters used by the command line tool.
func DefaultFaceParams() FaceParams {
	return FaceParams{
		MinSize:      20,
		ShiftFactor:  0.1,
		ScaleFactor:  1.1,
		IoUThreshold: 0.2,
		MinScore:     5.0,
	}
}

// FaceDetector is a FaceFinder backed by a pigo cascade classifier.
type FaceDetector struct {
	classifier *pigo.Pigo
	params     FaceParams
}

// NewFaceDetector unpacks a pigo cascade file.
func NewFaceDetector(cascade []byte, params FaceParams) (fd *FaceDetector, err error) {
	// Truncated cascade files make the unpacker index past the buffer.
	defer func() {
		if r := recover(); r != nil {
			fd, err = nil, errors.Errorf("error unpacking the cascade file: %v", r)
		}
	}()

	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, errors.Wrap(err, "error unpacking the cascade file")
	}
	return &FaceDetector{classifier: classifier, params: params}, nil
}

// LoadFaceDetector reads the cascade file at path.
func LoadFaceDetector(path string, params FaceParams) (*FaceDetector, error) {
	cascade, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read the cascade file")
	}
	return NewFaceDetector(cascade, params)
}

// Detect runs the classifier over img and returns the clustered detections
// scoring at least MinScore, strongest first.
func (fd *FaceDetector) Detect(img image.Image) []Face {
	src := ToNRGBA(img)
	dx, dy := src.Bounds().Dx(), src.Bounds().Dy()

	maxSize := fd.params.MaxSize
	if maxSize == 0 {
		maxSize = utils.Max(dx, dy)
	}
	cParams := pigo.CascadeParams{
		MinSize:     fd.params.MinSize,
		MaxSize:     maxSize,
		ShiftFactor: fd.params.ShiftFactor,
		ScaleFactor: fd.params.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: rgbToGrayscale(src),
			Rows:   dy,
			Cols:   dx,
			Dim:    dx,
		},
	}

	// The result contains quadruplets representing the row, column, scale and detection score.
	dets := fd.classifier.RunCascade(cParams, fd.params.Angle)
	dets = fd.classifier.ClusterDetections(dets, fd.params.IoUThreshold)

	faces := make([]Face, 0, len(dets))
	for _, d := range dets {
		if d.Q < fd.params.MinScore {
			continue
		}
		faces = append(faces, Face{
			Center: Point{X: float64(d.Col), Y: float64(d.Row)},
			Size:   d.Scale,
			Score:  d.Q,
		})
	}
	sort.SliceStable(faces, func(i, j int) bool { return faces[i].Score > faces[j].Score })
	return faces
}

// rgbToGrayscale converts an image to grayscale mode and
// returns the pixel values as an one dimensional array.
func rgbToGrayscale(src *image.NRGBA) []uint8 {
	width, height := src.Bounds().Dx(), src.Bounds().Dy()
	gray := make([]uint8, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := src.NRGBAAt(x, y)
			gray[y*width+x] = uint8(0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B))
		}
	}
	return gray
}

// FaceWarp is a LocalWarp anchored on the strongest face found in the image.
// The circle is centered on the face, its radius is RadiusScale times half the
// face size, and the content is dragged by Offset. Images without faces are
// returned unchanged.
type FaceWarp struct {
	Finder      FaceFinder
	Offset      Point
	RadiusScale float64
	Options     []Option
}

// Apply detects the face and runs the local warp around it.
func (fw *FaceWarp) Apply(ctx context.Context, img image.Image) (image.Image, error) {
	if fw.Finder == nil {
		return nil, errors.New("distort: face warp without a face finder")
	}
	faces := fw.Finder.Detect(img)
	if len(faces) == 0 {
		Logger().Debug("distort: no face detected, image left unchanged")
		return img, nil
	}

	lw, err := LocalWarpAtFace(faces[0], fw.Offset, fw.RadiusScale, fw.Options...)
	if err != nil {
		return nil, err
	}
	return lw.Apply(ctx, img)
}

// LocalWarpAtFace builds a LocalWarp centered on face.
func LocalWarpAtFace(face Face, offset Point, radiusScale float64, opts ...Option) (*LocalWarp, error) {
	if radiusScale == 0 {
		radiusScale = 1
	}
	Logger().Debug("distort: face anchor",
		"x", face.Center.X, "y", face.Center.Y, "size", face.Size, "score", face.Score)

	target := Point{X: face.Center.X + offset.X, Y: face.Center.Y + offset.Y}
	return NewLocalWarp(face.Center, target, float64(face.Size)/2*radiusScale, opts...)
}
