package sketch

import "errors"

var (
	// ErrSnapshotFailed is returned when the surface pixels cannot be read
	// back. The history is left untouched.
	ErrSnapshotFailed = errors.New("sketch: snapshot failed")

	// ErrMalformedProject is returned for project or autosave payloads that
	// cannot be parsed or carry no image.
	ErrMalformedProject = errors.New("sketch: malformed project")

	// ErrNoAutosave is returned by RestoreAutosave when no record exists.
	ErrNoAutosave = errors.New("sketch: no autosave found")

	// ErrSuperseded is returned when a decode finished after a newer
	// import, restore or resize was issued. Its result is discarded.
	ErrSuperseded = errors.New("sketch: decode superseded")

	// ErrNotFound is returned by a Store for a missing key.
	ErrNotFound = errors.New("sketch: key not found")

	// ErrQuotaExceeded is returned by a Store that cannot hold the record.
	ErrQuotaExceeded = errors.New("sketch: storage quota exceeded")

	// ErrInvalidColor is returned for malformed hex colors.
	ErrInvalidColor = errors.New("sketch: invalid color")
)
