package sketch

import (
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/gogpu/sketch/internal/raster"
)

// Kind selects how pointer samples turn into pixels.
type Kind uint8

const (
	// KindPen draws an opaque line, optionally smoothed into quadratic curves.
	KindPen Kind = iota
	// KindMarker draws a wide, slightly translucent line with jittered ends.
	KindMarker
	// KindPaint blooms a faint disc at each sample.
	KindPaint
	// KindSpray scatters small squares around each sample.
	KindSpray
	// KindEraser removes pixels to transparency along the line.
	KindEraser

	kindCount
)

var kindNames = [kindCount]string{
	KindPen:    "pen",
	KindMarker: "marker",
	KindPaint:  "paint",
	KindSpray:  "spray",
	KindEraser: "eraser",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k < kindCount
}

// ParseKind returns the Kind with the given name, case-insensitively.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if strings.EqualFold(name, n) {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("sketch: unknown brush kind %q", name)
}

// Brush geometry and opacity per kind.
const (
	markerWidthFactor = 1.6
	markerOpacity     = 0.9
	markerJitter      = 0.1

	paintRadiusFactor = 1.5
	paintOpacity      = 0.12

	sprayMinDots = 10
	sprayDotSize = 1.5
)

// BrushConfig is the ambient brush state read on every sample.
// Changes take effect at the next sample, including mid-stroke.
type BrushConfig struct {
	Kind  Kind
	Color color.NRGBA
	// Size is the line width in logical pixels. Values below 1 are treated as 1.
	Size float64
	// Smoothing turns pen segments into quadratic curves through the
	// midpoints of consecutive samples.
	Smoothing bool
	// Eraser forces eraser composition regardless of Kind.
	Eraser bool
}

// DefaultBrushConfig returns a 6px black smoothed pen.
func DefaultBrushConfig() BrushConfig {
	return BrushConfig{
		Kind:      KindPen,
		Color:     color.NRGBA{A: 255},
		Size:      6,
		Smoothing: true,
	}
}

// effectiveKind resolves the eraser toggle: eraser wins whenever either
// the kind or the toggle says so.
func (c BrushConfig) effectiveKind() Kind {
	if c.Eraser {
		return KindEraser
	}
	return c.Kind
}

func (c BrushConfig) size() float64 {
	if !(c.Size >= 1) || math.IsInf(c.Size, 0) {
		return 1
	}
	return c.Size
}

// strokeState carries what a brush needs from earlier samples of the
// current stroke. It is reset at stroke start.
type strokeState struct {
	active bool
	last   Point
	mid    Point
}

func (st *strokeState) begin(p Point) {
	*st = strokeState{active: true, last: p, mid: p}
}

// brush mutates the surface once for a single pointer sample.
// Implementations must not touch history.
type brush interface {
	sample(s *Surface, st *strokeState, cfg BrushConfig, p Point, rng *rand.Rand)
}

// brushFor returns the handler for k, or nil for an undefined kind.
func brushFor(k Kind) brush {
	switch k {
	case KindPen:
		return penBrush{}
	case KindMarker:
		return markerBrush{}
	case KindPaint:
		return paintBrush{}
	case KindSpray:
		return sprayBrush{}
	case KindEraser:
		return eraserBrush{}
	}
	return nil
}

type penBrush struct{}

func (penBrush) sample(s *Surface, st *strokeState, cfg BrushConfig, p Point, _ *rand.Rand) {
	width := cfg.size() * s.scale
	var shape raster.Shape
	mid := midpoint(st.last, p)
	if cfg.Smoothing {
		pts := raster.FlattenQuad(s.toDevice(st.mid), s.toDevice(st.last), s.toDevice(mid), raster.Tolerance)
		shape.Polyline(pts, width)
	} else {
		shape.Capsule(s.toDevice(st.last), s.toDevice(p), width)
	}
	st.mid = mid
	s.fill(&shape, cfg.Color, 1, raster.OpSourceOver)
}

type markerBrush struct{}

func (markerBrush) sample(s *Surface, st *strokeState, cfg BrushConfig, p Point, rng *rand.Rand) {
	size := cfg.size()
	a := jitter(rng, st.last, markerJitter*size)
	b := jitter(rng, p, markerJitter*size)
	var shape raster.Shape
	shape.Capsule(s.toDevice(a), s.toDevice(b), size*markerWidthFactor*s.scale)
	s.fill(&shape, cfg.Color, markerOpacity, raster.OpSourceOver)
}

// jitter offsets p by an independent uniform amount in [-amount, amount)
// on each axis.
func jitter(rng *rand.Rand, p Point, amount float64) Point {
	return Point{
		X: p.X + (rng.Float64()*2-1)*amount,
		Y: p.Y + (rng.Float64()*2-1)*amount,
	}
}

type paintBrush struct{}

func (paintBrush) sample(s *Surface, _ *strokeState, cfg BrushConfig, p Point, _ *rand.Rand) {
	var shape raster.Shape
	shape.Disc(s.toDevice(p), cfg.size()*paintRadiusFactor*s.scale)
	s.fill(&shape, cfg.Color, paintOpacity, raster.OpSourceOver)
}

type sprayBrush struct{}

func (sprayBrush) sample(s *Surface, _ *strokeState, cfg BrushConfig, p Point, rng *rand.Rand) {
	dot := sprayDotSize * s.scale
	var shape raster.Shape
	for _, d := range sprayDots(rng, p, cfg.size()) {
		shape.Rect(s.toDevice(d), dot, dot)
	}
	s.fill(&shape, cfg.Color, 1, raster.OpSourceOver)
}

// sprayDots returns the top-left corners of the squares placed by one
// spray sample: max(10, floor(2*size)) points uniform in the disc of
// radius size around center.
func sprayDots(rng *rand.Rand, center Point, size float64) []Point {
	n := max(sprayMinDots, int(math.Floor(size*2)))
	dots := make([]Point, n)
	for i := range dots {
		r := size * math.Sqrt(rng.Float64())
		theta := 2 * math.Pi * rng.Float64()
		dots[i] = r2.Add(center, Point{X: r * math.Cos(theta), Y: r * math.Sin(theta)})
	}
	return dots
}

type eraserBrush struct{}

func (eraserBrush) sample(s *Surface, st *strokeState, cfg BrushConfig, p Point, _ *rand.Rand) {
	var shape raster.Shape
	shape.Capsule(s.toDevice(st.last), s.toDevice(p), cfg.size()*s.scale)
	s.fill(&shape, color.NRGBA{A: 255}, 1, raster.OpDestinationOut)
}
