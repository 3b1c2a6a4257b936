// Package raster turns brush geometry into coverage masks and composites
// them onto premultiplied RGBA buffers.
//
// Geometry is expressed in device pixels. Every outline added to a Shape is
// emitted with the same winding direction, so overlapping outlines within a
// single stamp merge instead of cancelling out in the accumulation buffer.
package raster

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/spatial/r2"
)

// arcTolerance is the maximum chord error, in device pixels, used when
// approximating circular arcs with line segments.
const arcTolerance = 0.1

const (
	minArcSegments = 8
	maxArcSegments = 512
)

// Shape collects the closed outlines of one brush stamp.
type Shape struct {
	polys    [][]r2.Vec
	min, max r2.Vec
}

// Empty reports whether no outline has been added.
func (s *Shape) Empty() bool {
	return len(s.polys) == 0
}

// Bounds returns the integer device rectangle covering every outline.
func (s *Shape) Bounds() image.Rectangle {
	if s.Empty() {
		return image.Rectangle{}
	}
	return image.Rect(
		int(math.Floor(s.min.X)), int(math.Floor(s.min.Y)),
		int(math.Ceil(s.max.X))+1, int(math.Ceil(s.max.Y))+1,
	)
}

func (s *Shape) add(poly []r2.Vec) {
	if len(poly) < 3 {
		return
	}
	for _, p := range poly {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return
		}
	}
	if s.Empty() {
		s.min, s.max = poly[0], poly[0]
	}
	for _, p := range poly {
		s.min.X = math.Min(s.min.X, p.X)
		s.min.Y = math.Min(s.min.Y, p.Y)
		s.max.X = math.Max(s.max.X, p.X)
		s.max.Y = math.Max(s.max.Y, p.Y)
	}
	s.polys = append(s.polys, poly)
}

// Capsule adds a segment from a to b with round caps. When a == b the
// capsule degenerates to a disc of diameter width.
func (s *Shape) Capsule(a, b r2.Vec, width float64) {
	r := width / 2
	if !(r > 0) {
		return
	}
	d := r2.Sub(b, a)
	theta := math.Atan2(d.Y, d.X)
	n := arcSegments(r) / 2

	poly := make([]r2.Vec, 0, 2*(n+1))
	for i := 0; i <= n; i++ {
		phi := theta + math.Pi/2 - math.Pi*float64(i)/float64(n)
		poly = append(poly, r2.Add(b, polar(r, phi)))
	}
	for i := 0; i <= n; i++ {
		phi := theta - math.Pi/2 - math.Pi*float64(i)/float64(n)
		poly = append(poly, r2.Add(a, polar(r, phi)))
	}
	s.add(poly)
}

// Polyline adds a capsule for every consecutive pair of points.
func (s *Shape) Polyline(pts []r2.Vec, width float64) {
	switch len(pts) {
	case 0:
		return
	case 1:
		s.Capsule(pts[0], pts[0], width)
		return
	}
	for i := 1; i < len(pts); i++ {
		s.Capsule(pts[i-1], pts[i], width)
	}
}

// Disc adds a filled circle.
func (s *Shape) Disc(c r2.Vec, radius float64) {
	if !(radius > 0) {
		return
	}
	n := arcSegments(radius)
	poly := make([]r2.Vec, 0, n)
	for i := 0; i < n; i++ {
		poly = append(poly, r2.Add(c, polar(radius, -2*math.Pi*float64(i)/float64(n))))
	}
	s.add(poly)
}

// Rect adds an axis-aligned rectangle whose top-left corner is p.
func (s *Shape) Rect(p r2.Vec, w, h float64) {
	if !(w > 0) || !(h > 0) {
		return
	}
	s.add([]r2.Vec{
		{X: p.X + w, Y: p.Y + h},
		{X: p.X + w, Y: p.Y},
		{X: p.X, Y: p.Y},
		{X: p.X, Y: p.Y + h},
	})
}

// Mask rasterizes the shape, clipped to clip, into an alpha coverage mask
// whose bounds are the clipped shape bounds. It returns nil when nothing
// of the shape falls inside clip.
func (s *Shape) Mask(clip image.Rectangle) *image.Alpha {
	r := s.Bounds().Intersect(clip)
	if r.Empty() {
		return nil
	}

	z := vector.NewRasterizer(r.Dx(), r.Dy())
	z.DrawOp = draw.Src
	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	for _, poly := range s.polys {
		z.MoveTo(float32(poly[0].X-ox), float32(poly[0].Y-oy))
		for _, p := range poly[1:] {
			z.LineTo(float32(p.X-ox), float32(p.Y-oy))
		}
		z.ClosePath()
	}

	mask := image.NewAlpha(r)
	z.Draw(mask, r, image.Opaque, image.Point{})
	return mask
}

func polar(r, phi float64) r2.Vec {
	return r2.Vec{X: r * math.Cos(phi), Y: r * math.Sin(phi)}
}

// arcSegments returns an even segment count for a full circle of radius r
// that keeps the chord error under arcTolerance.
func arcSegments(r float64) int {
	if r <= arcTolerance {
		return minArcSegments
	}
	n := int(math.Ceil(math.Pi / math.Acos(1-arcTolerance/r)))
	if n%2 == 1 {
		n++
	}
	return max(minArcSegments, min(n, maxArcSegments))
}
