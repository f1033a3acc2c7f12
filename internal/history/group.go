package history

import (
	"github.com/google/uuid"
)

// BeginGroup tags every entry pushed until EndGroup with one group id.
// Nested calls are ignored.
func (h *History) BeginGroup(name string) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.currentGroupID != "" {
		return h.currentGroupID
	}
	h.currentGroupID = uuid.NewString()
	h.currentGroupName = name
	return h.currentGroupID
}

// EndGroup closes the group opened by BeginGroup.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.currentGroupID = ""
	h.currentGroupName = ""
}

// InGroup reports whether an explicit group is open.
func (h *History) InGroup() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.currentGroupID != ""
}

// GroupScope closes an explicit group when End is called. Use with defer.
type GroupScope struct {
	history *History
	active  bool
}

// GroupScope opens a group named name. Inside an already open group it
// joins that group and End leaves it open.
func (h *History) GroupScope(name string) *GroupScope {
	if h.InGroup() {
		return &GroupScope{history: h}
	}
	h.BeginGroup(name)
	return &GroupScope{history: h, active: true}
}

// End is safe to call more than once.
func (g *GroupScope) End() {
	if g.active {
		g.history.EndGroup()
		g.active = false
	}
}

// UndoGroup moves the whole group at the top of the undo stack to the redo
// stack and returns the entries in the order they were moved, newest first.
// An ungrouped top entry moves alone.
func (h *History) UndoGroup() []Entry {
	first, ok := h.Undo()
	if !ok {
		return nil
	}
	out := []Entry{first}
	if first.GroupID == "" {
		return out
	}
	for {
		next, ok := h.PeekUndo()
		if !ok || next.GroupID != first.GroupID {
			return out
		}
		if err := h.CommitUndo(next.ID); err != nil {
			return out
		}
		out = append(out, next)
	}
}

// RedoGroup is the mirror of UndoGroup.
func (h *History) RedoGroup() []Entry {
	first, ok := h.Redo()
	if !ok {
		return nil
	}
	out := []Entry{first}
	if first.GroupID == "" {
		return out
	}
	for {
		next, ok := h.PeekRedo()
		if !ok || next.GroupID != first.GroupID {
			return out
		}
		if err := h.CommitRedo(next.ID); err != nil {
			return out
		}
		out = append(out, next)
	}
}
