// Package sketch provides a history-managed raster drawing core.
//
// # Overview
//
// sketch owns a pixel Surface, a set of freehand brushes that mutate it one
// pointer sample at a time, and a bounded undo/redo History of full raster
// snapshots. A persistence layer converts the Surface to and from PNG data
// URIs, a JSON project container, a single-slot autosave record and PDF.
//
// # Quick Start
//
//	import "github.com/gogpu/sketch"
//
//	ed := sketch.NewEditor(800, 600)
//
//	ed.SetKind(sketch.KindPen)
//	_ = ed.SetColor("#1e90ff")
//	ed.StrokeStart(sketch.Pt(10, 10))
//	ed.StrokeSample(sketch.Pt(100, 100))
//	ed.StrokeEnd()
//
//	ed.Undo()
//	ed.Redo()
//
//	f, _ := os.Create("drawing.png")
//	defer f.Close()
//	_ = ed.ExportImage(f)
//
// # Input
//
// Pointer and keyboard wiring lives outside this package. A router forwards
// normalized events through the [InputHandler] interface, which [*Editor]
// implements. All Editor methods are safe for concurrent use; calls are
// serialized by an internal mutex.
//
// # Coordinate System
//
// Brush input is given in logical coordinates. The Surface multiplies every
// logical coordinate by its scale factor (the device pixel ratio, at least 1)
// before touching pixels:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//
// # History
//
// Every completed stroke and every whole-canvas operation (clear, project
// import, autosave restore) commits one Snapshot. The undo stack keeps at
// most [DefaultHistoryLimit] entries and never drops its last one, so there
// is always a floor state to return to.
//
// # Decoding
//
// Image decodes run outside the editor lock. Each import, restore or resize
// takes a new generation number; a decode result is applied only if no newer
// request was issued in the meantime, otherwise it fails with [ErrSuperseded].
//
// # Logging
//
// sketch is silent by default. Call [SetLogger] to receive recoverable
// failures (snapshot readback, storage quota, malformed projects).
package sketch

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
