package sketch

import (
	"image"
	"image/color"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/message"
)

// InputHandler is the operation set an input router drives. Pointer,
// keyboard and resize wiring live outside this package and forward
// normalized events through it.
type InputHandler interface {
	// StrokeStart begins a stroke at a logical point. Nothing is drawn yet.
	StrokeStart(p Point)
	// StrokeSample applies the active brush once for a new logical point.
	StrokeSample(p Point)
	// StrokeEnd finishes the stroke and commits it to history.
	StrokeEnd()
	// Undo steps back one commit. It reports false at the floor state.
	Undo() bool
	// Redo re-applies the last undone commit. It reports false when there
	// is nothing to redo.
	Redo() bool
	// Clear fills the canvas with white and commits.
	Clear()
	// Resize adapts the surface to a new logical size and device ratio.
	Resize(w, h, scale float64)
}

var _ InputHandler = (*Editor)(nil)

// Editor is one drawing session: a Surface, its History and the active
// brush configuration.
//
// All methods are safe for concurrent use. Calls are serialized by an
// internal mutex, except image decoding, which runs unlocked and applies
// its result only if no newer import, restore or resize was issued.
type Editor struct {
	mu sync.Mutex

	id      string
	surface *Surface
	history *History
	brush   BrushConfig
	stroke  strokeState
	rng     *rand.Rand

	autosave bool
	store    Store
	notifier Notifier
	printer  *message.Printer
	now      func() time.Time

	decodes decodeSlot
}

// NewEditor creates an editor for a logical canvas of w x h, clears it to
// white and commits that state as the history floor.
//
// Example:
//
//	ed := sketch.NewEditor(800, 600, sketch.WithScale(2))
func NewEditor(w, h float64, opts ...EditorOption) *Editor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // brush jitter is not security sensitive
	}
	if o.store == nil {
		o.store = NewMemoryStore()
	}

	e := &Editor{
		id:       uuid.NewString(),
		surface:  NewSurface(w, h, o.scale),
		history:  NewHistory(o.historyLimit),
		brush:    o.brush,
		rng:      o.rng,
		store:    o.store,
		notifier: o.notifier,
		printer:  newPrinter(o.lang),
		now:      o.now,
	}
	e.surface.SetMaxSnapshotBytes(o.maxSnapshotBytes)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.surface.Clear()
	// The blank floor state must not overwrite an earlier session's autosave.
	_ = e.commitLocked()
	e.autosave = o.autosave
	e.log().Debug("editor: created",
		"width", e.surface.Width(), "height", e.surface.Height(), "scale", e.surface.Scale())
	return e
}

// log returns the package logger tagged with this session.
func (e *Editor) log() *slog.Logger {
	return Logger().With("session", e.id)
}

// ID returns the session identifier used in log records.
func (e *Editor) ID() string { return e.id }

// StrokeStart implements InputHandler.
func (e *Editor) StrokeStart(p Point) {
	if !finite(p) {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stroke.begin(p)
}

// StrokeSample implements InputHandler. Samples outside a stroke are
// ignored.
func (e *Editor) StrokeSample(p Point) {
	if !finite(p) {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.stroke.active {
		return
	}
	if b := brushFor(e.brush.effectiveKind()); b != nil {
		b.sample(e.surface, &e.stroke, e.brush, p, e.rng)
	}
	e.stroke.last = p
}

// StrokeEnd implements InputHandler.
func (e *Editor) StrokeEnd() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.stroke.active {
		return
	}
	e.stroke.active = false
	_ = e.commitLocked()
}

// Commit snapshots the surface onto the history and, when enabled, writes
// the autosave record. A failed snapshot leaves the history untouched and
// is returned wrapped in ErrSnapshotFailed. Autosave failures are logged
// only.
func (e *Editor) Commit() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commitLocked()
}

func (e *Editor) commitLocked() error {
	snap, err := e.surface.Snapshot()
	if err != nil {
		e.log().Warn("history: push skipped", "err", err)
		return err
	}
	e.history.Push(snap)
	e.log().Debug("history: commit", "undo", e.history.UndoLen())
	if e.autosave {
		_ = e.autosaveLocked()
	}
	return nil
}

// Undo implements InputHandler.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap, ok := e.history.Undo()
	if !ok {
		e.log().Debug("history: undo refused", "undo", e.history.UndoLen(), "redo", e.history.RedoLen())
		return false
	}
	e.surface.Restore(snap)
	e.log().Debug("history: undo", "undo", e.history.UndoLen(), "redo", e.history.RedoLen())
	return true
}

// Redo implements InputHandler.
func (e *Editor) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap, ok := e.history.Redo()
	if !ok {
		e.log().Debug("history: redo refused", "undo", e.history.UndoLen(), "redo", e.history.RedoLen())
		return false
	}
	e.surface.Restore(snap)
	e.log().Debug("history: redo", "undo", e.history.UndoLen(), "redo", e.history.RedoLen())
	return true
}

// Clear implements InputHandler.
func (e *Editor) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.surface.Clear()
	_ = e.commitLocked()
}

// Resize implements InputHandler. The previous content is redrawn
// stretched to the new device size, and any decode still in flight is
// superseded.
func (e *Editor) Resize(w, h, scale float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	gen := e.decodes.supersede()
	e.surface.Resize(w, h, scale)
	e.log().Debug("surface: resized", "generation", gen,
		"width", e.surface.Width(), "height", e.surface.Height(), "scale", e.surface.Scale())
}

// SetKind selects the brush kind. Undefined kinds are ignored.
func (e *Editor) SetKind(k Kind) {
	if !k.Valid() {
		e.log().Warn("brush: unknown kind ignored", "kind", k.String())
		return
	}
	e.mu.Lock()
	e.brush.Kind = k
	e.mu.Unlock()
}

// SetColor sets the foreground color from an sRGB hex string.
func (e *Editor) SetColor(hex string) error {
	c, err := ParseHex(hex)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.brush.Color = c
	e.mu.Unlock()
	return nil
}

// SetSize sets the brush size in logical pixels.
func (e *Editor) SetSize(size float64) {
	e.mu.Lock()
	e.brush.Size = size
	e.mu.Unlock()
}

// SetSmoothing toggles quadratic smoothing of pen strokes.
func (e *Editor) SetSmoothing(on bool) {
	e.mu.Lock()
	e.brush.Smoothing = on
	e.mu.Unlock()
}

// SetEraser toggles the eraser. While set, every kind erases.
func (e *Editor) SetEraser(on bool) {
	e.mu.Lock()
	e.brush.Eraser = on
	e.mu.Unlock()
}

// SetAutosave toggles writing the autosave record after each commit.
func (e *Editor) SetAutosave(on bool) {
	e.mu.Lock()
	e.autosave = on
	e.mu.Unlock()
}

// SetBrush replaces the whole brush configuration.
func (e *Editor) SetBrush(cfg BrushConfig) {
	e.mu.Lock()
	e.brush = cfg
	e.mu.Unlock()
}

// Brush returns the current brush configuration.
func (e *Editor) Brush() BrushConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.brush
}

// Width returns the device width of the surface.
func (e *Editor) Width() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.surface.Width()
}

// Height returns the device height of the surface.
func (e *Editor) Height() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.surface.Height()
}

// Scale returns the device pixel ratio of the surface.
func (e *Editor) Scale() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.surface.Scale()
}

// Pixel returns the color at a logical coordinate.
func (e *Editor) Pixel(x, y float64) color.NRGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.surface.At(x, y)
}

// Image returns a copy of the current premultiplied buffer, including any
// transparency left by the eraser.
func (e *Editor) Image() *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	src := e.surface.Image()
	img := image.NewRGBA(src.Rect)
	copy(img.Pix, src.Pix)
	return img
}

// UndoLen returns the number of undo entries, including the floor.
func (e *Editor) UndoLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.UndoLen()
}

// RedoLen returns the number of redo entries.
func (e *Editor) RedoLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.RedoLen()
}

func (e *Editor) notify(key message.Reference) {
	msg := e.printer.Sprintf(key)
	if e.notifier == nil {
		e.log().Info("notify", "msg", msg)
		return
	}
	e.notifier.Notify(msg)
}

func finite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
