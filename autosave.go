package sketch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// AutosaveKey is the single store key holding the autosave record.
const AutosaveKey = "sketch.autosave"

// autosaveRecord is the stored form of an autosave. TS is Unix milliseconds.
type autosaveRecord struct {
	Image string `json:"image"`
	TS    int64  `json:"ts"`
}

// Autosave writes the canvas, composited over white, to the store under
// AutosaveKey, replacing any previous record. Failures such as an exceeded
// quota are logged and returned; the canvas and history are unaffected.
func (e *Editor) Autosave() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.autosaveLocked()
}

func (e *Editor) autosaveLocked() error {
	url, err := encodeDataURL(e.surface.Flatten())
	if err != nil {
		e.log().Warn("autosave: encode failed", "err", err)
		return fmt.Errorf("sketch: autosave: %w", err)
	}
	data, err := json.Marshal(autosaveRecord{Image: url, TS: e.now().UnixMilli()})
	if err != nil {
		e.log().Warn("autosave: marshal failed", "err", err)
		return fmt.Errorf("sketch: autosave: %w", err)
	}
	if err := e.store.Save(AutosaveKey, data); err != nil {
		e.log().Warn("autosave: store failed", "bytes", len(data), "err", err)
		return fmt.Errorf("sketch: autosave: %w", err)
	}
	e.log().Debug("autosave: saved", "bytes", len(data))
	return nil
}

// RestoreAutosave replaces the canvas with the autosave record and commits.
//
// When no record exists the user is notified and ErrNoAutosave is
// returned; this is the normal empty state, not a failure. A corrupt
// record fails with ErrMalformedProject.
func (e *Editor) RestoreAutosave(ctx context.Context) error {
	data, err := e.store.Load(AutosaveKey)
	if errors.Is(err, ErrNotFound) {
		e.notify(msgNoAutosave)
		return ErrNoAutosave
	}
	if err != nil {
		e.log().Warn("autosave: load failed", "err", err)
		return fmt.Errorf("sketch: restore autosave: %w", err)
	}

	var rec autosaveRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return e.malformed("autosave", err)
	}
	if rec.Image == "" {
		return e.malformed("autosave", errors.New("missing image"))
	}
	if err := e.loadDataURL(ctx, "autosave", rec.Image); err != nil {
		return err
	}
	e.notify(msgAutosaveRestored)
	return nil
}
