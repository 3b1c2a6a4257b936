package raster

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Tolerance is the default maximum distance, in device pixels, between a
// curve and its flattened polyline.
const Tolerance = 0.1

// maxFlattenDepth bounds recursive subdivision for degenerate input.
const maxFlattenDepth = 16

// FlattenQuad converts the quadratic Bézier p0, p1 (control), p2 into a
// polyline. The result starts with p0 and ends with p2.
func FlattenQuad(p0, p1, p2 r2.Vec, tolerance float64) []r2.Vec {
	if !(tolerance > 0) {
		tolerance = Tolerance
	}
	points := []r2.Vec{p0}
	flattenQuadRec(p0, p1, p2, tolerance, 0, &points)
	return points
}

func flattenQuadRec(p0, p1, p2 r2.Vec, tolerance float64, depth int, points *[]r2.Vec) {
	if depth >= maxFlattenDepth || distanceToLine(p1, p0, p2) < tolerance {
		*points = append(*points, p2)
		return
	}

	q0 := lerp(p0, p1, 0.5)
	q1 := lerp(p1, p2, 0.5)
	q2 := lerp(q0, q1, 0.5)

	flattenQuadRec(p0, q0, q2, tolerance, depth+1, points)
	flattenQuadRec(q2, q1, p2, tolerance, depth+1, points)
}

func lerp(a, b r2.Vec, t float64) r2.Vec {
	return r2.Add(a, r2.Scale(t, r2.Sub(b, a)))
}

// distanceToLine returns the distance from p to the line through a and b,
// or to a itself when a and b coincide.
func distanceToLine(p, a, b r2.Vec) float64 {
	d := r2.Sub(b, a)
	l := r2.Norm(d)
	if l == 0 {
		return r2.Norm(r2.Sub(p, a))
	}
	return math.Abs(r2.Cross(d, r2.Sub(p, a))) / l
}
