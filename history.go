package sketch

// DefaultHistoryLimit is the default maximum number of undo snapshots.
const DefaultHistoryLimit = 50

// History is a bounded linear undo/redo stack of snapshots.
//
// The top of the undo stack is the committed state of the surface. Undo
// never removes the last entry, so once anything has been pushed there is
// always a floor state to return to.
//
// History is not safe for concurrent use.
type History struct {
	undo  []Snapshot
	redo  []Snapshot
	limit int
}

// NewHistory creates an empty history holding at most limit undo entries.
// A limit below 1 selects DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Limit returns the maximum number of undo entries.
func (h *History) Limit() int { return h.limit }

// Push appends snap as the new committed state, evicts the oldest entries
// beyond the limit and clears the redo stack.
func (h *History) Push(snap Snapshot) {
	h.undo = append(h.undo, snap)
	if over := len(h.undo) - h.limit; over > 0 {
		n := copy(h.undo, h.undo[over:])
		clear(h.undo[n:])
		h.undo = h.undo[:n]
	}
	clear(h.redo)
	h.redo = h.redo[:0]
}

// Undo moves the current state onto the redo stack and returns the state
// beneath it. It reports false, changing nothing, when at most one entry
// remains.
func (h *History) Undo() (Snapshot, bool) {
	if len(h.undo) <= 1 {
		return Snapshot{}, false
	}
	n := len(h.undo) - 1
	h.redo = append(h.redo, h.undo[n])
	h.undo[n] = Snapshot{}
	h.undo = h.undo[:n]
	return h.undo[n-1], true
}

// Redo moves the most recently undone state back onto the undo stack and
// returns it. It reports false when there is nothing to redo.
func (h *History) Redo() (Snapshot, bool) {
	if len(h.redo) == 0 {
		return Snapshot{}, false
	}
	n := len(h.redo) - 1
	snap := h.redo[n]
	h.redo[n] = Snapshot{}
	h.redo = h.redo[:n]
	h.undo = append(h.undo, snap)
	return snap, true
}

// Top returns the committed state, or false when history is empty.
func (h *History) Top() (Snapshot, bool) {
	if len(h.undo) == 0 {
		return Snapshot{}, false
	}
	return h.undo[len(h.undo)-1], true
}

// UndoLen returns the number of undo entries, including the floor.
func (h *History) UndoLen() int { return len(h.undo) }

// RedoLen returns the number of redo entries.
func (h *History) RedoLen() int { return len(h.redo) }

// Reset drops every entry.
func (h *History) Reset() {
	clear(h.undo)
	clear(h.redo)
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}
