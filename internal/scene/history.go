package scene

// DefaultHistoryLimit bounds the number of undo steps kept.
const DefaultHistoryLimit = 100

// History is the local undo/redo stack. Each entry is the scene right after a
// committed mutation; baseline is the scene before the first one. The current
// scene always equals the top of past, or baseline when past is empty.
type History struct {
	limit    int
	baseline Snapshot
	past     []Snapshot
	future   []Snapshot
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Reset drops all entries and starts over from baseline, as on a room change.
func (h *History) Reset(baseline Snapshot) {
	h.baseline = clone(baseline)
	h.past = nil
	h.future = nil
}

// Commit records snap as the newest state and discards redo state. When the
// stack is full the oldest entry becomes the new baseline.
func (h *History) Commit(snap Snapshot) {
	h.past = append(h.past, clone(snap))
	h.future = nil
	if len(h.past) > h.limit {
		h.baseline = h.past[0]
		h.past = h.past[1:]
	}
}

// Undo moves the newest entry to the redo stack and returns the state to
// restore. ok is false when there is nothing to undo.
func (h *History) Undo() (Snapshot, bool) {
	if len(h.past) == 0 {
		return nil, false
	}
	top := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, top)
	return clone(h.current()), true
}

// Redo re-applies the most recently undone entry.
func (h *History) Redo() (Snapshot, bool) {
	if len(h.future) == 0 {
		return nil, false
	}
	top := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, top)
	return clone(top), true
}

func (h *History) CanUndo() bool { return len(h.past) > 0 }
func (h *History) CanRedo() bool { return len(h.future) > 0 }

func (h *History) current() Snapshot {
	if len(h.past) == 0 {
		return h.baseline
	}
	return h.past[len(h.past)-1]
}

func clone(snap Snapshot) Snapshot {
	if snap == nil {
		return Snapshot{}
	}
	out := make(Snapshot, len(snap))
	for i, sh := range snap {
		out[i] = sh.Clone()
	}
	return out
}
