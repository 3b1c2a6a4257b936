package raster

import (
	"image"
	"image/color"
)

// Op is a Porter-Duff operator applied through a coverage mask.
type Op uint8

const (
	// OpSourceOver paints the source over the destination: S + D*(1-Sa).
	OpSourceOver Op = iota
	// OpDestinationOut removes destination where the source is opaque: D*(1-Sa).
	OpDestinationOut
)

func (op Op) String() string {
	switch op {
	case OpSourceOver:
		return "SourceOver"
	case OpDestinationOut:
		return "DestinationOut"
	default:
		return "Unknown"
	}
}

// Composite applies a solid source color, scaled by opacity and by the mask
// coverage, onto dst. dst holds premultiplied pixels; c is non-premultiplied.
// Only the intersection of mask and dst bounds is touched.
//
// For OpDestinationOut the source color channels are irrelevant: only the
// coverage and opacity erase destination pixels.
func Composite(dst *image.RGBA, mask *image.Alpha, c color.NRGBA, opacity float64, op Op) {
	if mask == nil || opacity <= 0 {
		return
	}
	if opacity > 1 {
		opacity = 1
	}
	r := mask.Rect.Intersect(dst.Rect)
	if r.Empty() {
		return
	}

	var srcA float64
	switch op {
	case OpDestinationOut:
		srcA = opacity
	default:
		srcA = float64(c.A) / 255 * opacity
	}
	if srcA <= 0 {
		return
	}
	cr, cg, cb := float64(c.R), float64(c.G), float64(c.B)

	for y := r.Min.Y; y < r.Max.Y; y++ {
		mi := mask.PixOffset(r.Min.X, y)
		di := dst.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x, mi, di = x+1, mi+1, di+4 {
			m := mask.Pix[mi]
			if m == 0 {
				continue
			}
			a := srcA * float64(m) / 255
			px := dst.Pix[di : di+4 : di+4]
			switch op {
			case OpDestinationOut:
				destinationOut(px, a)
			default:
				sourceOver(px, cr, cg, cb, a)
			}
		}
	}
}

// sourceOver blends a straight color with effective alpha a onto a
// premultiplied pixel.
func sourceOver(px []uint8, r, g, b, a float64) {
	inv := 1 - a
	px[0] = clamp8(r*a + float64(px[0])*inv)
	px[1] = clamp8(g*a + float64(px[1])*inv)
	px[2] = clamp8(b*a + float64(px[2])*inv)
	px[3] = clamp8(255*a + float64(px[3])*inv)
}

// destinationOut scales a premultiplied pixel by 1-a.
func destinationOut(px []uint8, a float64) {
	inv := 1 - a
	px[0] = clamp8(float64(px[0]) * inv)
	px[1] = clamp8(float64(px[1]) * inv)
	px[2] = clamp8(float64(px[2]) * inv)
	px[3] = clamp8(float64(px[3]) * inv)
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}
