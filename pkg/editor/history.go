package editor

// DefaultHistoryCapacity is the number of snapshots kept for undo.
const DefaultHistoryCapacity = 50

// History is a bounded undo/redo stack of EditState snapshots.
// Pushing after an undo discards the redo branch. When full, the oldest
// snapshot is dropped.
type History struct {
	entries  []EditState
	cursor   int // index of the current snapshot, -1 when empty
	capacity int
}

// NewHistory creates a history holding at most capacity snapshots.
// A non-positive capacity uses DefaultHistoryCapacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{cursor: -1, capacity: capacity}
}

// Reset clears the history and records initial as the only snapshot.
func (h *History) Reset(initial EditState) {
	h.entries = append(h.entries[:0], initial)
	h.cursor = 0
}

// Push records s as the newest snapshot.
func (h *History) Push(s EditState) {
	h.entries = h.entries[:h.cursor+1]
	h.entries = append(h.entries, s)
	if len(h.entries) > h.capacity {
		h.entries = h.entries[len(h.entries)-h.capacity:]
	}
	h.cursor = len(h.entries) - 1
}

// Undo steps back one snapshot.
func (h *History) Undo() (EditState, bool) {
	if !h.CanUndo() {
		return EditState{}, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Redo steps forward one snapshot.
func (h *History) Redo() (EditState, bool) {
	if !h.CanRedo() {
		return EditState{}, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

// CanUndo reports whether an earlier snapshot exists.
func (h *History) CanUndo() bool {
	return h.cursor > 0
}

// CanRedo reports whether a later snapshot exists.
func (h *History) CanRedo() bool {
	return h.cursor >= 0 && h.cursor < len(h.entries)-1
}

// Len returns the number of stored snapshots.
func (h *History) Len() int {
	return len(h.entries)
}
