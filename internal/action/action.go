// Package action defines the unit of edit intent exchanged with the engine:
// a typed, serializable Action, its parameter accessors, and the Result
// returned for every execute, undo and redo.
package action

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// LastAdded stands in for the id of an entity that did not exist yet when
// the inverse of its creation was generated.
const LastAdded = "__LAST_ADDED__"

// Category is the namespace before the slash in an action type.
type Category string

const (
	CategoryProject    Category = "project"
	CategoryMedia      Category = "media"
	CategoryTrack      Category = "track"
	CategoryClip       Category = "clip"
	CategoryEffect     Category = "effect"
	CategoryTransform  Category = "transform"
	CategoryKeyframe   Category = "keyframe"
	CategoryTransition Category = "transition"
	CategoryAudio      Category = "audio"
	CategorySubtitle   Category = "subtitle"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryProject, CategoryMedia, CategoryTrack, CategoryClip, CategoryEffect,
		CategoryTransform, CategoryKeyframe, CategoryTransition, CategoryAudio, CategorySubtitle:
		return true
	}
	return false
}

// Type builds "<category>/<verb>".
func (c Category) Type(verb string) string {
	return string(c) + "/" + verb
}

// Action is immutable once created. Copy-on-write helpers return new values.
type Action struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	Params    Params `json:"params"`
}

// New creates an action with a fresh id and the current time in unix
// milliseconds.
func New(typ string, params Params) Action {
	if params == nil {
		params = Params{}
	}
	return Action{
		ID:        uuid.NewString(),
		Type:      typ,
		Timestamp: time.Now().UnixMilli(),
		Params:    params,
	}
}

// ParseType splits an action type into its category and verb. ok is false
// when the category is unknown or either half is empty.
func ParseType(typ string) (Category, string, bool) {
	cat, verb, found := strings.Cut(typ, "/")
	if !found || cat == "" || verb == "" {
		return "", "", false
	}
	c := Category(cat)
	if !c.Valid() {
		return "", "", false
	}
	return c, verb, true
}

// Category returns the parsed category, or "" for malformed types.
func (a Action) Category() Category {
	c, _, _ := ParseType(a.Type)
	return c
}

// WithParam returns a copy of a whose params carry key=value. The receiver's
// map is left untouched.
func (a Action) WithParam(key string, value any) Action {
	p := make(Params, len(a.Params)+1)
	for k, v := range a.Params {
		p[k] = v
	}
	p[key] = value
	a.Params = p
	return a
}

// ReplaceValue returns a copy of a with every top-level param equal to old
// replaced by value. changed reports whether anything matched.
func (a Action) ReplaceValue(old, value string) (Action, bool) {
	changed := false
	p := make(Params, len(a.Params))
	for k, v := range a.Params {
		if s, ok := v.(string); ok && s == old {
			p[k] = value
			changed = true
			continue
		}
		p[k] = v
	}
	a.Params = p
	return a, changed
}

// HasPlaceholder reports whether any top-level param is LastAdded.
func (a Action) HasPlaceholder() bool {
	for _, v := range a.Params {
		if s, ok := v.(string); ok && s == LastAdded {
			return true
		}
	}
	return false
}
