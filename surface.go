package sketch

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/gogpu/sketch/internal/raster"
)

// MaxDeviceSize caps each device axis of a Surface.
const MaxDeviceSize = 16384

// white is an opaque premultiplied white pixel.
var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Surface is a premultiplied RGBA pixel buffer addressed in device pixels,
// with a logical-to-device scale factor.
//
// A Surface is not safe for concurrent use; Editor serializes access to
// the Surface it owns.
type Surface struct {
	img      *image.RGBA
	logicalW float64
	logicalH float64
	scale    float64

	// maxSnapshotBytes bounds Snapshot copies; zero means unlimited.
	maxSnapshotBytes int
}

// NewSurface creates a transparent surface of the given logical size.
// The device buffer is ceil(w*scale) x ceil(h*scale) pixels, at least 1x1.
func NewSurface(logicalW, logicalH, scale float64) *Surface {
	s := &Surface{}
	s.setGeometry(logicalW, logicalH, scale)
	s.img = image.NewRGBA(image.Rect(0, 0, s.deviceWidth(), s.deviceHeight()))
	return s
}

// Width returns the device width in pixels.
func (s *Surface) Width() int {
	return s.img.Rect.Dx()
}

// Height returns the device height in pixels.
func (s *Surface) Height() int {
	return s.img.Rect.Dy()
}

// Scale returns the logical-to-device scale factor.
func (s *Surface) Scale() float64 {
	return s.scale
}

// LogicalSize returns the logical dimensions the surface was sized for.
func (s *Surface) LogicalSize() (w, h float64) {
	return s.logicalW, s.logicalH
}

// Image returns the live premultiplied buffer. Callers must not retain it
// across calls that mutate or resize the surface.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// SetMaxSnapshotBytes limits the size of a snapshot copy. Zero disables
// the limit.
func (s *Surface) SetMaxSnapshotBytes(n int) {
	s.maxSnapshotBytes = max(0, n)
}

func (s *Surface) setGeometry(w, h, scale float64) {
	if !(scale >= 1) || math.IsInf(scale, 0) {
		scale = 1
	}
	s.logicalW = sanitizeLength(w)
	s.logicalH = sanitizeLength(h)
	s.scale = scale
}

func sanitizeLength(v float64) float64 {
	if !(v > 0) || math.IsInf(v, 0) {
		return 1
	}
	return v
}

func (s *Surface) deviceWidth() int  { return deviceSize(s.logicalW, s.scale) }
func (s *Surface) deviceHeight() int { return deviceSize(s.logicalH, s.scale) }

func deviceSize(logical, scale float64) int {
	n := math.Ceil(logical * scale)
	if !(n >= 1) {
		return 1
	}
	if n > MaxDeviceSize {
		return MaxDeviceSize
	}
	return int(n)
}

// Resize reallocates the buffer for a new logical size and scale and
// redraws the previous content stretched to the new device size.
func (s *Surface) Resize(logicalW, logicalH, scale float64) {
	old := s.img
	s.setGeometry(logicalW, logicalH, scale)
	r := image.Rect(0, 0, s.deviceWidth(), s.deviceHeight())
	if r == old.Rect {
		return
	}
	s.img = image.NewRGBA(r)
	scaleInto(s.img, old)
}

// scaleInto replaces dst with src stretched to cover all of dst.
func scaleInto(dst *image.RGBA, src image.Image) {
	if dst.Rect.Size() == src.Bounds().Size() {
		draw.Draw(dst, dst.Rect, src, src.Bounds().Min, draw.Src)
		return
	}
	draw.CatmullRom.Scale(dst, dst.Rect, src, src.Bounds(), draw.Src, nil)
}

// Snapshot returns an immutable copy of the full buffer.
// It fails with ErrSnapshotFailed when the copy exceeds the readback limit.
func (s *Surface) Snapshot() (Snapshot, error) {
	n := len(s.img.Pix)
	if s.maxSnapshotBytes > 0 && n > s.maxSnapshotBytes {
		return Snapshot{}, fmt.Errorf("%w: %d bytes exceeds readback limit of %d",
			ErrSnapshotFailed, n, s.maxSnapshotBytes)
	}
	pix := make([]uint8, n)
	copy(pix, s.img.Pix)
	return Snapshot{w: s.Width(), h: s.Height(), pix: pix}, nil
}

// Restore overwrites the buffer with snap. A zero Snapshot is ignored.
// A snapshot taken at a different device size is scaled to fit.
func (s *Surface) Restore(snap Snapshot) {
	if snap.IsZero() {
		return
	}
	if snap.w == s.Width() && snap.h == s.Height() {
		copy(s.img.Pix, snap.pix)
		return
	}
	scaleInto(s.img, snap.view())
}

// Clear resets every pixel to opaque white.
func (s *Surface) Clear() {
	fillRGBA(s.img, white)
}

func fillRGBA(img *image.RGBA, c color.RGBA) {
	if len(img.Pix) < 4 {
		return
	}
	img.Pix[0], img.Pix[1], img.Pix[2], img.Pix[3] = c.R, c.G, c.B, c.A
	for filled := 4; filled < len(img.Pix); filled *= 2 {
		copy(img.Pix[filled:], img.Pix[:filled])
	}
}

// DrawImage clears the surface to white and draws img stretched over the
// whole buffer. Transparent regions of img show the white background.
func (s *Surface) DrawImage(img image.Image) {
	s.Clear()
	b := img.Bounds()
	if b.Empty() {
		return
	}
	if b.Size() == s.img.Rect.Size() {
		draw.Draw(s.img, s.img.Rect, img, b.Min, draw.Over)
		return
	}
	draw.CatmullRom.Scale(s.img, s.img.Rect, img, b, draw.Over, nil)
}

// Flatten returns a copy of the surface composited over opaque white.
// Exports use it so erased regions never carry transparency.
func (s *Surface) Flatten() *image.RGBA {
	out := image.NewRGBA(s.img.Rect)
	fillRGBA(out, white)
	draw.Draw(out, out.Rect, s.img, s.img.Rect.Min, draw.Over)
	return out
}

// At returns the straight-alpha color at a logical coordinate.
func (s *Surface) At(x, y float64) color.NRGBA {
	return s.DeviceAt(int(math.Floor(x*s.scale)), int(math.Floor(y*s.scale)))
}

// DeviceAt returns the straight-alpha color of a device pixel.
// Out-of-range coordinates yield transparent black.
func (s *Surface) DeviceAt(x, y int) color.NRGBA {
	if !(image.Point{X: x, Y: y}.In(s.img.Rect)) {
		return color.NRGBA{}
	}
	return color.NRGBAModel.Convert(s.img.RGBAAt(x, y)).(color.NRGBA)
}

// toDevice maps a logical point through the current transform.
func (s *Surface) toDevice(p Point) Point {
	return Point{X: p.X * s.scale, Y: p.Y * s.scale}
}

// fill composites shape, given in device pixels, onto the buffer.
func (s *Surface) fill(shape *raster.Shape, c color.NRGBA, opacity float64, op raster.Op) {
	mask := shape.Mask(s.img.Rect)
	if mask == nil {
		return
	}
	raster.Composite(s.img, mask, c, opacity, op)
}

// Snapshot is an immutable copy of a Surface buffer at one instant.
// The zero Snapshot is empty and restoring it is a no-op.
type Snapshot struct {
	w, h int
	pix  []uint8
}

// Width returns the device width of the snapshot.
func (s Snapshot) Width() int { return s.w }

// Height returns the device height of the snapshot.
func (s Snapshot) Height() int { return s.h }

// Bounds returns the device rectangle of the snapshot.
func (s Snapshot) Bounds() image.Rectangle { return image.Rect(0, 0, s.w, s.h) }

// IsZero reports whether the snapshot holds no pixels.
func (s Snapshot) IsZero() bool { return len(s.pix) == 0 }

// Image returns a copy of the snapshot pixels.
func (s Snapshot) Image() *image.RGBA {
	img := image.NewRGBA(s.Bounds())
	copy(img.Pix, s.pix)
	return img
}

// Equal reports whether two snapshots hold identical pixels.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.w == o.w && s.h == o.h && bytes.Equal(s.pix, o.pix)
}

// view wraps the pixels without copying. The result must only be read.
func (s Snapshot) view() *image.RGBA {
	return &image.RGBA{Pix: s.pix, Stride: 4 * s.w, Rect: s.Bounds()}
}
