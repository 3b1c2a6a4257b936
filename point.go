package sketch

import "gonum.org/v1/gonum/spatial/r2"

// Point is a 2D position in logical coordinates.
type Point = r2.Vec

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func midpoint(a, b Point) Point {
	return r2.Scale(0.5, r2.Add(a, b))
}
