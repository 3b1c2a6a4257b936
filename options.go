package sketch

import (
	"math/rand/v2"
	"time"

	"golang.org/x/text/language"
)

// EditorOption configures an Editor during creation.
//
// Example:
//
//	// Defaults: scale 1, 50 history entries, in-memory autosave store.
//	ed := sketch.NewEditor(800, 600)
//
//	// HiDPI surface with autosave to the user config directory.
//	store, _ := sketch.DefaultFileStore()
//	ed := sketch.NewEditor(800, 600,
//	    sketch.WithScale(2),
//	    sketch.WithStore(store),
//	    sketch.WithAutosave(true),
//	)
type EditorOption func(*editorOptions)

type editorOptions struct {
	scale            float64
	historyLimit     int
	rng              *rand.Rand
	store            Store
	now              func() time.Time
	maxSnapshotBytes int
	notifier         Notifier
	lang             language.Tag
	autosave         bool
	brush            BrushConfig
}

func defaultOptions() editorOptions {
	return editorOptions{
		scale:        1,
		historyLimit: DefaultHistoryLimit,
		now:          time.Now,
		lang:         language.English,
		brush:        DefaultBrushConfig(),
	}
}

// WithScale sets the device pixel ratio of the surface.
// Values below 1 are clamped to 1.
func WithScale(scale float64) EditorOption {
	return func(o *editorOptions) {
		o.scale = scale
	}
}

// WithHistoryLimit sets the maximum number of undo snapshots.
// Values below 1 fall back to DefaultHistoryLimit.
func WithHistoryLimit(n int) EditorOption {
	return func(o *editorOptions) {
		o.historyLimit = n
	}
}

// WithRand sets the random source used by the marker and spray brushes.
// Tests use a fixed seed to get reproducible strokes.
func WithRand(r *rand.Rand) EditorOption {
	return func(o *editorOptions) {
		o.rng = r
	}
}

// WithStore sets where autosave records are kept.
// The default is a fresh MemoryStore.
func WithStore(s Store) EditorOption {
	return func(o *editorOptions) {
		o.store = s
	}
}

// WithClock sets the time source used for project and autosave timestamps.
func WithClock(now func() time.Time) EditorOption {
	return func(o *editorOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithMaxSnapshotBytes limits how many bytes a single snapshot may copy.
// Commits on a larger surface fail with ErrSnapshotFailed and leave the
// history untouched. Zero means no limit.
func WithMaxSnapshotBytes(n int) EditorOption {
	return func(o *editorOptions) {
		o.maxSnapshotBytes = n
	}
}

// WithNotifier sets the receiver of user-visible messages.
func WithNotifier(n Notifier) EditorOption {
	return func(o *editorOptions) {
		o.notifier = n
	}
}

// WithLanguage selects the language of user-visible messages.
func WithLanguage(tag language.Tag) EditorOption {
	return func(o *editorOptions) {
		o.lang = tag
	}
}

// WithAutosave enables writing an autosave record after every commit.
func WithAutosave(enabled bool) EditorOption {
	return func(o *editorOptions) {
		o.autosave = enabled
	}
}

// WithBrush sets the initial brush configuration.
func WithBrush(cfg BrushConfig) EditorOption {
	return func(o *editorOptions) {
		o.brush = cfg
	}
}
