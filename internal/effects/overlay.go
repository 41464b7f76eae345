package effects

import (
	"image"
	"image/color"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"video-effects-chain/internal/core"
)

// filled is the thickness value OpenCV uses for solid shapes
const filled = -1

// ShapeParams sets the geometry of the heart overlay in pixels.
type ShapeParams struct {
	// Radius of the two lobes.
	Radius int
	// Padding widens the triangle beyond the lobes on each side.
	Padding int
	// Drop moves the triangle down relative to the lobes.
	Drop  int
	Color color.RGBA
}

// DefaultShapeParams returns the reference heart geometry
func DefaultShapeParams() ShapeParams {
	return ShapeParams{
		Radius:  40,
		Padding: 2,
		Drop:    2,
		Color:   color.RGBA{R: 255, A: 255},
	}
}

// Circle is a filled disc
type Circle struct {
	Center image.Point
	Radius int
}

// ShapeGeometry is the resolved overlay for one frame size.
type ShapeGeometry struct {
	Center   image.Point
	Radius   int
	Lobes    [2]Circle
	Triangle [3]image.Point
}

// Bounds returns the smallest rectangle covering the shape.
func (g ShapeGeometry) Bounds() image.Rectangle {
	r := image.Rectangle{Min: g.Triangle[0], Max: g.Triangle[0]}
	for _, p := range g.Triangle[1:] {
		r = r.Union(image.Rectangle{Min: p, Max: p})
	}
	for _, lobe := range g.Lobes {
		d := image.Pt(lobe.Radius, lobe.Radius)
		r = r.Union(image.Rectangle{Min: lobe.Center.Sub(d), Max: lobe.Center.Add(d)})
	}
	return r
}

// EffectiveRadius clamps the configured radius so the shape, which is
// 4r+2*padding wide and 4r+drop tall, fits into width x height.
func (p ShapeParams) EffectiveRadius(width, height int) int {
	r := p.Radius
	r = min(r, (width-2*p.Padding)/4)
	r = min(r, (height-p.Drop)/4)
	return max(r, 0)
}

// Geometry resolves the shape around the center of a width x height frame.
// ok is false when the frame is too small to draw anything.
func (p ShapeParams) Geometry(width, height int) (ShapeGeometry, bool) {
	r := p.EffectiveRadius(width, height)
	if r < 1 {
		return ShapeGeometry{}, false
	}

	cx, cy := width/2, height/2
	ty := cy + p.Drop
	return ShapeGeometry{
		Center: image.Pt(cx, cy),
		Radius: r,
		Lobes: [2]Circle{
			{Center: image.Pt(cx-r, cy-r), Radius: r},
			{Center: image.Pt(cx+r, cy-r), Radius: r},
		},
		Triangle: [3]image.Point{
			image.Pt(cx-2*r-p.Padding, ty-r),
			image.Pt(cx+2*r+p.Padding, ty-r),
			image.Pt(cx, ty+2*r),
		},
	}, true
}

// ShapeOverlay draws a solid heart at the frame center.
type ShapeOverlay struct {
	core.Named
	core.Fanout
	params ShapeParams
	logger logrus.FieldLogger
	warned bool
}

var _ core.Stage = (*ShapeOverlay)(nil)

func NewShapeOverlay(name string, params ShapeParams, logger logrus.FieldLogger, outputs ...core.Stage) *ShapeOverlay {
	return &ShapeOverlay{
		Named:  core.Named(name),
		Fanout: core.NewFanout(outputs...),
		params: params,
		logger: logger,
	}
}

// Params returns the configured geometry
func (s *ShapeOverlay) Params() ShapeParams {
	return s.params
}

func (s *ShapeOverlay) Process(frame *core.Frame) {
	out := frame.Clone()

	geom, ok := s.params.Geometry(frame.Width(), frame.Height())
	if !ok || geom.Radius != s.params.Radius {
		if !s.warned {
			s.warned = true
			s.logger.WithFields(logrus.Fields{
				"stage":      s.Name(),
				"radius":     s.params.Radius,
				"effective":  geom.Radius,
				"frame_size": frame.Size(),
			}).Debug("Overlay does not fit the frame, radius clamped")
		}
		if !ok {
			s.Emit(out)
			return
		}
	}

	mat := out.Mat()
	for _, lobe := range geom.Lobes {
		gocv.Circle(&mat, lobe.Center, lobe.Radius, s.params.Color, filled)
	}

	triangle := gocv.NewPointsVectorFromPoints([][]image.Point{geom.Triangle[:]})
	defer triangle.Close()
	gocv.FillPoly(&mat, triangle, s.params.Color)

	s.Emit(out)
}
