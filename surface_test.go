package sketch

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/gogpu/sketch/internal/raster"
)

var (
	opaqueWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	opaqueBlack = color.NRGBA{A: 255}
)

// near reports whether every channel of a and b differs by at most tol.
func near(a, b color.NRGBA, tol int) bool {
	d := func(x, y uint8) bool {
		v := int(x) - int(y)
		return v >= -tol && v <= tol
	}
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

// fillRect paints an opaque device rectangle directly onto s.
func fillRect(s *Surface, x, y, w, h float64, c color.NRGBA) {
	var shape raster.Shape
	shape.Rect(Point{X: x, Y: y}, w, h)
	s.fill(&shape, c, 1, raster.OpSourceOver)
}

func TestNewSurfaceSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h, scale  float64
		wantW, wantH int
		wantScale    float64
	}{
		{"plain", 800, 600, 1, 800, 600, 1},
		{"hidpi rounds up", 400.5, 300, 2, 801, 600, 2},
		{"fractional ratio", 100, 100, 1.25, 125, 125, 1.25},
		{"scale below one clamps", 10, 10, 0.5, 10, 10, 1},
		{"zero size", 0, 0, 1, 1, 1, 1},
		{"negative size", -5, 7, 1, 1, 7, 1},
		{"nan", math.NaN(), 5, math.NaN(), 1, 5, 1},
		{"inf scale", 5, 5, math.Inf(1), 5, 5, 1},
		{"capped", 1e9, 1, 1, MaxDeviceSize, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSurface(tt.w, tt.h, tt.scale)
			if s.Width() != tt.wantW || s.Height() != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", s.Width(), s.Height(), tt.wantW, tt.wantH)
			}
			if s.Scale() != tt.wantScale {
				t.Errorf("Scale() = %v, want %v", s.Scale(), tt.wantScale)
			}
		})
	}
}

func TestSurfaceClear(t *testing.T) {
	s := NewSurface(7, 5, 1)
	if got := s.DeviceAt(3, 3); got != (color.NRGBA{}) {
		t.Errorf("new surface pixel = %v, want transparent", got)
	}
	s.Clear()
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if got := s.DeviceAt(x, y); got != opaqueWhite {
				t.Fatalf("pixel (%d,%d) = %v after Clear, want opaque white", x, y, got)
			}
		}
	}
}

func TestSnapshotIsImmutable(t *testing.T) {
	s := NewSurface(10, 10, 1)
	s.Clear()
	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	fillRect(s, 0, 0, 10, 10, opaqueBlack)

	img := snap.Image()
	if got := img.RGBAAt(5, 5); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("snapshot pixel = %v after drawing, want white", got)
	}
	img.Pix[0] = 0
	again := snap.Image()
	if again.Pix[0] != 255 {
		t.Error("mutating Snapshot.Image() leaked into the snapshot")
	}
	if snap.Width() != 10 || snap.Height() != 10 || snap.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Errorf("snapshot geometry = %dx%d %v", snap.Width(), snap.Height(), snap.Bounds())
	}
}

func TestSnapshotReadbackLimit(t *testing.T) {
	s := NewSurface(10, 10, 1)
	s.SetMaxSnapshotBytes(10 * 10 * 4)
	if _, err := s.Snapshot(); err != nil {
		t.Fatalf("Snapshot() at limit error = %v", err)
	}
	s.SetMaxSnapshotBytes(100)
	snap, err := s.Snapshot()
	if !errors.Is(err, ErrSnapshotFailed) {
		t.Errorf("Snapshot() error = %v, want ErrSnapshotFailed", err)
	}
	if !snap.IsZero() {
		t.Error("failed Snapshot() returned pixels")
	}
}

func TestRestore(t *testing.T) {
	s := NewSurface(10, 10, 1)
	s.Clear()
	white, _ := s.Snapshot()
	fillRect(s, 2, 2, 4, 4, opaqueBlack)

	s.Restore(Snapshot{})
	if got := s.DeviceAt(3, 3); got != opaqueBlack {
		t.Errorf("Restore(zero) changed pixel to %v", got)
	}

	s.Restore(white)
	if got := s.DeviceAt(3, 3); got != opaqueWhite {
		t.Errorf("pixel after Restore = %v, want white", got)
	}
	now, _ := s.Snapshot()
	if !now.Equal(white) {
		t.Error("surface differs from the restored snapshot")
	}
}

func TestRestoreScalesOtherSize(t *testing.T) {
	s := NewSurface(4, 4, 1)
	fillRect(s, 0, 0, 4, 4, color.NRGBA{R: 255, A: 255})
	red, _ := s.Snapshot()

	s.Resize(8, 8, 1)
	s.Clear()
	s.Restore(red)

	for _, p := range []image.Point{{0, 0}, {4, 4}, {7, 7}} {
		if got := s.DeviceAt(p.X, p.Y); !near(got, color.NRGBA{R: 255, A: 255}, 3) {
			t.Errorf("pixel %v = %v, want red", p, got)
		}
	}
}

func TestResizePreservesContent(t *testing.T) {
	s := NewSurface(400, 300, 1)
	s.Clear()
	fillRect(s, 100, 100, 100, 100, opaqueBlack)

	s.Resize(800, 600, 1)
	if s.Width() != 800 || s.Height() != 600 {
		t.Fatalf("size = %dx%d, want 800x600", s.Width(), s.Height())
	}
	if got := s.DeviceAt(300, 300); !near(got, opaqueBlack, 2) {
		t.Errorf("scaled content pixel = %v, want black", got)
	}
	if got := s.DeviceAt(100, 100); !near(got, opaqueWhite, 2) {
		t.Errorf("background pixel = %v, want white", got)
	}
}

func TestResizeSameDeviceSizeKeepsPixels(t *testing.T) {
	s := NewSurface(10, 10, 1)
	s.Clear()
	fillRect(s, 1, 1, 2, 2, opaqueBlack)
	before, _ := s.Snapshot()

	s.Resize(9.5, 9.2, 1)
	after, _ := s.Snapshot()
	if !after.Equal(before) {
		t.Error("resize to the same device size altered pixels")
	}
	if w, h := s.LogicalSize(); w != 9.5 || h != 9.2 {
		t.Errorf("LogicalSize() = %v,%v, want 9.5,9.2", w, h)
	}
}

func TestFlattenOverWhite(t *testing.T) {
	s := NewSurface(4, 4, 1)
	fillRect(s, 0, 0, 2, 4, opaqueBlack)

	img := s.Flatten()
	if got := img.RGBAAt(3, 0); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("transparent pixel flattened to %v, want white", got)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{A: 255}) {
		t.Errorf("black pixel flattened to %v, want black", got)
	}
	if got := s.DeviceAt(3, 0); got.A != 0 {
		t.Error("Flatten modified the surface")
	}
}

func TestDrawImage(t *testing.T) {
	s := NewSurface(4, 4, 1)
	fillRect(s, 0, 0, 4, 4, opaqueBlack)

	src := image.NewNRGBA(image.Rect(10, 10, 14, 14))
	src.SetNRGBA(11, 12, color.NRGBA{B: 255, A: 255})
	s.DrawImage(src)

	if got := s.DeviceAt(1, 2); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("drawn pixel = %v, want blue", got)
	}
	if got := s.DeviceAt(0, 0); got != opaqueWhite {
		t.Errorf("transparent source pixel = %v, want white background", got)
	}
}

func TestAtUsesScale(t *testing.T) {
	s := NewSurface(10, 10, 2)
	s.Clear()
	fillRect(s, 8, 8, 2, 2, opaqueBlack)
	if got := s.At(4.2, 4.7); got != opaqueBlack {
		t.Errorf("At(4.2,4.7) = %v, want black at device (8,9)", got)
	}
	if got := s.At(2, 2); got != opaqueWhite {
		t.Errorf("At(2,2) = %v, want white", got)
	}
	if got := s.DeviceAt(-1, 0); got != (color.NRGBA{}) {
		t.Errorf("DeviceAt out of range = %v, want zero", got)
	}
}

func BenchmarkSnapshot(b *testing.B) {
	s := NewSurface(800, 600, 2)
	s.Clear()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = s.Snapshot()
	}
}
