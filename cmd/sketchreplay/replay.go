package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gogpu/sketch"
)

// event is one recorded input. Fields are interpreted per Op.
type event struct {
	Op    string  `json:"op"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
	Scale float64 `json:"scale"`
	Size  float64 `json:"size"`
	On    bool    `json:"on"`
	Value string  `json:"value"`
	Path  string  `json:"path"`
}

func readScript(r io.Reader) ([]event, error) {
	var events []event
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	return events, nil
}

type replayer struct {
	ed   *sketch.Editor
	sink sketch.Sink
}

func (r *replayer) run(ctx context.Context, events []event) error {
	for i, ev := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.apply(ctx, ev); err != nil {
			return fmt.Errorf("event %d (%s): %w", i, ev.Op, err)
		}
	}
	return nil
}

func (r *replayer) apply(ctx context.Context, ev event) error {
	ed := r.ed
	switch ev.Op {
	case "start":
		ed.StrokeStart(sketch.Pt(ev.X, ev.Y))
	case "sample":
		ed.StrokeSample(sketch.Pt(ev.X, ev.Y))
	case "end":
		ed.StrokeEnd()
	case "undo":
		ed.Undo()
	case "redo":
		ed.Redo()
	case "clear":
		ed.Clear()
	case "resize":
		scale := ev.Scale
		if scale == 0 {
			scale = ed.Scale()
		}
		ed.Resize(ev.W, ev.H, scale)
	case "kind":
		k, err := sketch.ParseKind(ev.Value)
		if err != nil {
			return err
		}
		ed.SetKind(k)
	case "color":
		return ed.SetColor(ev.Value)
	case "size":
		ed.SetSize(ev.Size)
	case "smoothing":
		ed.SetSmoothing(ev.On)
	case "eraser":
		ed.SetEraser(ev.On)
	case "autosave":
		ed.SetAutosave(ev.On)
	case "save":
		return ed.SaveImage(r.sink)
	case "project":
		return ed.SaveProject(r.sink)
	case "pdf":
		return ed.SavePDF(r.sink)
	case "restore":
		if err := ed.RestoreAutosave(ctx); err != nil && !errors.Is(err, sketch.ErrNoAutosave) {
			return err
		}
	case "load":
		data, err := os.ReadFile(ev.Path)
		if err != nil {
			return err
		}
		return ed.ImportProject(ctx, data)
	case "import":
		f, err := os.Open(ev.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		return ed.ImportImage(ctx, f)
	case "key":
		return r.shortcut(ev.Value)
	default:
		return fmt.Errorf("unknown op %q", ev.Op)
	}
	return nil
}

// shortcut runs the editor action bound to a key chord such as "ctrl+z".
// Unbound chords are ignored.
func (r *replayer) shortcut(chord string) error {
	ed := r.ed
	switch strings.ToLower(chord) {
	case "ctrl+z", "meta+z":
		ed.Undo()
	case "ctrl+shift+z", "meta+shift+z", "ctrl+y":
		ed.Redo()
	case "ctrl+s", "meta+s":
		return ed.SaveImage(r.sink)
	case "ctrl+k", "meta+k":
		ed.Clear()
	case "p":
		ed.SetEraser(false)
		ed.SetKind(sketch.KindPen)
	case "e":
		ed.SetEraser(true)
	}
	return nil
}
