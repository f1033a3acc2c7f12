package history

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Snapshot is a named bookmark at an undo-stack depth.
type Snapshot struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Timestamp  time.Time `json:"timestamp"`
	StackIndex int       `json:"stackIndex"`
}

// CreateSnapshot bookmarks the current undo depth.
func (h *History) CreateSnapshot(name string) Snapshot {
	h.mu.Lock()
	s := Snapshot{
		ID:         uuid.NewString(),
		Name:       name,
		Timestamp:  h.now(),
		StackIndex: len(h.undoStack),
	}
	h.snapshots = append(h.snapshots, s)
	ev := h.eventLocked(EventSnapshot)
	h.mu.Unlock()

	h.notify(ev)
	return s
}

// DeleteSnapshot removes a bookmark and reports whether it existed.
func (h *History) DeleteSnapshot(id string) bool {
	h.mu.Lock()
	i := slices.IndexFunc(h.snapshots, func(s Snapshot) bool { return s.ID == id })
	if i < 0 {
		h.mu.Unlock()
		return false
	}
	h.snapshots = slices.Delete(slices.Clone(h.snapshots), i, i+1)
	ev := h.eventLocked(EventSnapshot)
	h.mu.Unlock()

	h.notify(ev)
	return true
}

func (h *History) Snapshot(id string) (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.snapshots {
		if s.ID == id {
			return s, true
		}
	}
	return Snapshot{}, false
}

func (h *History) Snapshots() []Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.snapshots)
}

func (h *History) pruneSnapshotsLocked() {
	depth := len(h.undoStack)
	h.snapshots = slices.DeleteFunc(h.snapshots, func(s Snapshot) bool { return s.StackIndex > depth })
}

func (h *History) shiftSnapshotsLocked(n int) {
	kept := h.snapshots[:0]
	for _, s := range h.snapshots {
		s.StackIndex -= n
		if s.StackIndex >= 0 {
			kept = append(kept, s)
		}
	}
	h.snapshots = kept
}

// DisplayRow is one user-facing step: a single entry or a whole group.
type DisplayRow struct {
	EntryID   string    `json:"entryId"`
	Type      string    `json:"type"`
	GroupID   string    `json:"groupId,omitempty"`
	GroupName string    `json:"groupName,omitempty"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
	Current   bool      `json:"current"`
}

// DisplayHistory collapses consecutive entries of a group into one row and
// returns the rows oldest first. The row holding the top of the undo stack
// is marked current.
func (h *History) DisplayHistory() []DisplayRow {
	h.mu.Lock()
	defer h.mu.Unlock()

	var rows []DisplayRow
	for i := len(h.undoStack) - 1; i >= 0; i-- {
		e := h.undoStack[i]
		if n := len(rows); n > 0 && e.GroupID != "" && rows[n-1].GroupID == e.GroupID {
			rows[n-1].Count++
			rows[n-1].Timestamp = e.Timestamp
			continue
		}
		rows = append(rows, DisplayRow{
			EntryID:   e.ID,
			Type:      e.Action.Type,
			GroupID:   e.GroupID,
			GroupName: e.GroupName,
			Count:     1,
			Timestamp: e.Timestamp,
			Current:   i == len(h.undoStack)-1,
		})
	}
	slices.Reverse(rows)
	return rows
}
