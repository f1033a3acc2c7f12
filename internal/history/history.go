// Package history keeps the undo and redo stacks of executed actions.
//
// Entries are moved between the two stacks, never copied, so the stacks
// stay disjoint. Pushing a new entry discards the redo stack. Entries may be
// tagged with a group id, either explicitly between BeginGroup and EndGroup
// or automatically when actions of the same type arrive in quick succession,
// and the group operations undo or redo a whole group at once.
package history

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heimdex/heimdex-timeline/internal/action"
)

const (
	DefaultMaxSize         = 1000
	DefaultAutoGroupWindow = 100 * time.Millisecond
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
	ErrStaleEntry    = errors.New("history changed since entry was read")
)

// Entry pairs an executed action with the action that reverses it. Inverse
// is nil for irreversible actions.
type Entry struct {
	ID        string         `json:"id"`
	Action    action.Action  `json:"action"`
	Inverse   *action.Action `json:"inverseAction"`
	Timestamp time.Time      `json:"timestamp"`
	GroupID   string         `json:"groupId,omitempty"`
	GroupName string         `json:"groupName,omitempty"`

	// AutoGrouped marks group ids minted by time-window coalescing. Such
	// groups may be extended by later pushes; explicit groups may not.
	AutoGrouped bool `json:"autoGrouped,omitempty"`
}

// EventKind identifies what changed in an Event.
type EventKind string

const (
	EventPush     EventKind = "push"
	EventUndo     EventKind = "undo"
	EventRedo     EventKind = "redo"
	EventClear    EventKind = "clear"
	EventSnapshot EventKind = "snapshot"
)

// Event is delivered to subscribers after every change.
type Event struct {
	Kind      EventKind
	UndoDepth int
	RedoDepth int
}

// Options configures a History. Zero fields take the defaults.
type Options struct {
	MaxSize         int
	AutoGroupWindow time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// History is safe for concurrent use; the executor writes to it while UI
// bindings read from it.
type History struct {
	mu sync.Mutex

	undoStack []*Entry
	redoStack []*Entry
	snapshots []Snapshot

	currentGroupID   string
	currentGroupName string

	maxSize         int
	autoGroupWindow time.Duration
	now             func() time.Time

	subscribers map[int]func(Event)
	nextSubID   int
}

func New(opts Options) *History {
	h := &History{
		maxSize:         opts.MaxSize,
		autoGroupWindow: opts.AutoGroupWindow,
		now:             opts.Now,
		subscribers:     make(map[int]func(Event)),
	}
	if h.maxSize <= 0 {
		h.maxSize = DefaultMaxSize
	}
	if h.autoGroupWindow <= 0 {
		h.autoGroupWindow = DefaultAutoGroupWindow
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

// Push records an executed action and its inverse and returns the new entry.
func (h *History) Push(a action.Action, inverse *action.Action) Entry {
	h.mu.Lock()
	entry := h.pushLocked(a, inverse)
	ev := h.eventLocked(EventPush)
	h.mu.Unlock()

	h.notify(ev)
	return entry
}

func (h *History) pushLocked(a action.Action, inverse *action.Action) Entry {
	now := h.now()
	entry := &Entry{
		ID:        uuid.NewString(),
		Action:    a,
		Inverse:   inverse,
		Timestamp: now,
	}

	if h.currentGroupID != "" {
		entry.GroupID = h.currentGroupID
		entry.GroupName = h.currentGroupName
	} else if n := len(h.undoStack); n > 0 {
		prev := h.undoStack[n-1]
		if prev.Action.Type == a.Type && now.Sub(prev.Timestamp) <= h.autoGroupWindow {
			switch {
			case prev.GroupID == "":
				prev.GroupID = uuid.NewString()
				prev.AutoGrouped = true
				entry.GroupID = prev.GroupID
				entry.AutoGrouped = true
			case prev.AutoGrouped:
				entry.GroupID = prev.GroupID
				entry.AutoGrouped = true
			}
		}
	}

	h.undoStack = append(h.undoStack, entry)
	h.redoStack = nil
	h.pruneSnapshotsLocked()

	if len(h.undoStack) > h.maxSize {
		excess := len(h.undoStack) - h.maxSize
		h.undoStack = h.undoStack[excess:]
		h.shiftSnapshotsLocked(excess)
	}
	return *entry
}

// PeekUndo returns the entry Undo would move, without moving it.
func (h *History) PeekUndo() (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undoStack) == 0 {
		return Entry{}, false
	}
	return *h.undoStack[len(h.undoStack)-1], true
}

// PeekRedo returns the entry Redo would move, without moving it.
func (h *History) PeekRedo() (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.redoStack) == 0 {
		return Entry{}, false
	}
	return *h.redoStack[len(h.redoStack)-1], true
}

// CommitUndo moves the top undo entry onto the redo stack. entryID must name
// that entry, so a caller that applied a peeked entry cannot move a
// different one.
func (h *History) CommitUndo(entryID string) error {
	h.mu.Lock()
	n := len(h.undoStack)
	if n == 0 {
		h.mu.Unlock()
		return ErrNothingToUndo
	}
	top := h.undoStack[n-1]
	if top.ID != entryID {
		h.mu.Unlock()
		return ErrStaleEntry
	}
	h.undoStack = h.undoStack[:n-1]
	h.redoStack = append(h.redoStack, top)
	ev := h.eventLocked(EventUndo)
	h.mu.Unlock()

	h.notify(ev)
	return nil
}

// CommitRedo moves the top redo entry back onto the undo stack.
func (h *History) CommitRedo(entryID string) error {
	h.mu.Lock()
	n := len(h.redoStack)
	if n == 0 {
		h.mu.Unlock()
		return ErrNothingToRedo
	}
	top := h.redoStack[n-1]
	if top.ID != entryID {
		h.mu.Unlock()
		return ErrStaleEntry
	}
	h.redoStack = h.redoStack[:n-1]
	h.undoStack = append(h.undoStack, top)
	ev := h.eventLocked(EventRedo)
	h.mu.Unlock()

	h.notify(ev)
	return nil
}

// Undo moves the top entry to the redo stack and returns it. The caller
// applies entry.Inverse.
func (h *History) Undo() (Entry, bool) {
	e, ok := h.PeekUndo()
	if !ok {
		return Entry{}, false
	}
	if err := h.CommitUndo(e.ID); err != nil {
		return Entry{}, false
	}
	return e, true
}

// Redo moves the top redo entry back and returns it. The caller applies
// entry.Action.
func (h *History) Redo() (Entry, bool) {
	e, ok := h.PeekRedo()
	if !ok {
		return Entry{}, false
	}
	if err := h.CommitRedo(e.ID); err != nil {
		return Entry{}, false
	}
	return e, true
}

func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// UndoEntries returns the undo stack oldest first.
func (h *History) UndoEntries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return copyEntries(h.undoStack)
}

// RedoEntries returns the redo stack with the next entry to redo last.
func (h *History) RedoEntries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return copyEntries(h.redoStack)
}

// Clear drops both stacks, all bookmarks and any open group.
func (h *History) Clear() {
	h.mu.Lock()
	h.undoStack = nil
	h.redoStack = nil
	h.snapshots = nil
	h.currentGroupID = ""
	h.currentGroupName = ""
	ev := h.eventLocked(EventClear)
	h.mu.Unlock()

	h.notify(ev)
}

// Subscribe registers fn for every change and returns a function that
// removes it. fn runs on the goroutine that made the change, after the
// history lock is released.
func (h *History) Subscribe(fn func(Event)) (unsubscribe func()) {
	h.mu.Lock()
	id := h.nextSubID
	h.nextSubID++
	h.subscribers[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, id)
			h.mu.Unlock()
		})
	}
}

func (h *History) eventLocked(kind EventKind) Event {
	return Event{Kind: kind, UndoDepth: len(h.undoStack), RedoDepth: len(h.redoStack)}
}

func (h *History) notify(ev Event) {
	h.mu.Lock()
	subs := make([]func(Event), 0, len(h.subscribers))
	for _, fn := range h.subscribers {
		subs = append(subs, fn)
	}
	h.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

func copyEntries(stack []*Entry) []Entry {
	out := make([]Entry, len(stack))
	for i, e := range stack {
		out[i] = *e
	}
	return out
}
