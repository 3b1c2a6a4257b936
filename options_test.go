package sketch

import (
	"bytes"
	"math/rand/v2"
	"testing"
	"time"
)

func TestDefaultOptions(t *testing.T) {
	e := NewEditor(40, 30)
	if e.Scale() != 1 {
		t.Errorf("Scale() = %v, want 1", e.Scale())
	}
	if e.Width() != 40 || e.Height() != 30 {
		t.Errorf("size = %dx%d, want 40x30", e.Width(), e.Height())
	}
	if e.history.Limit() != DefaultHistoryLimit {
		t.Errorf("history limit = %d, want %d", e.history.Limit(), DefaultHistoryLimit)
	}
	if e.Brush() != DefaultBrushConfig() {
		t.Errorf("Brush() = %+v, want defaults", e.Brush())
	}
	if e.autosave {
		t.Error("autosave enabled by default")
	}
	if _, ok := e.store.(*MemoryStore); !ok {
		t.Errorf("default store = %T, want *MemoryStore", e.store)
	}
	if e.ID() == "" {
		t.Error("ID() is empty")
	}
	if NewEditor(1, 1).ID() == e.ID() {
		t.Error("two editors share a session ID")
	}
}

func TestWithScale(t *testing.T) {
	tests := []struct {
		scale        float64
		wantScale    float64
		wantW, wantH int
	}{
		{2, 2, 80, 60},
		{1.5, 1.5, 60, 45},
		{0.5, 1, 40, 30},
	}
	for _, tt := range tests {
		e := NewEditor(40, 30, WithScale(tt.scale))
		if e.Scale() != tt.wantScale || e.Width() != tt.wantW || e.Height() != tt.wantH {
			t.Errorf("WithScale(%v): scale %v size %dx%d, want %v %dx%d",
				tt.scale, e.Scale(), e.Width(), e.Height(), tt.wantScale, tt.wantW, tt.wantH)
		}
	}
}

func TestWithHistoryLimit(t *testing.T) {
	e := newTestEditor(20, 20, WithHistoryLimit(3))
	for i := 0; i < 5; i++ {
		e.Clear()
	}
	if e.UndoLen() != 3 {
		t.Errorf("UndoLen() = %d, want 3", e.UndoLen())
	}
	if NewEditor(5, 5, WithHistoryLimit(0)).history.Limit() != DefaultHistoryLimit {
		t.Error("WithHistoryLimit(0) did not fall back to the default")
	}
}

func TestWithRandReproducible(t *testing.T) {
	stroke := func(seed uint64) []byte {
		e := NewEditor(60, 60, WithRand(rand.New(rand.NewPCG(seed, seed))))
		e.SetKind(KindSpray)
		e.SetSize(12)
		line(e, Pt(10, 30), Pt(50, 30))
		e.SetKind(KindMarker)
		line(e, Pt(30, 10), Pt(30, 50))
		return e.Image().Pix
	}
	if !bytes.Equal(stroke(7), stroke(7)) {
		t.Error("same seed produced different strokes")
	}
	if bytes.Equal(stroke(7), stroke(8)) {
		t.Error("different seeds produced identical strokes")
	}
}

func TestWithClock(t *testing.T) {
	at := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	e := NewEditor(5, 5, WithClock(func() time.Time { return at }), WithClock(nil))
	if _, ms := e.flattened(); ms != at.UnixMilli() {
		t.Errorf("timestamp = %d, want %d", ms, at.UnixMilli())
	}
}

func TestWithBrush(t *testing.T) {
	cfg := BrushConfig{Kind: KindPaint, Color: opaqueBlack, Size: 9}
	if got := NewEditor(5, 5, WithBrush(cfg)).Brush(); got != cfg {
		t.Errorf("Brush() = %+v, want %+v", got, cfg)
	}
}
