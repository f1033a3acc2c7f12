// Package validate checks an action against the current project before it is
// applied. Structural problems stop validation at the first error; every
// other rule is checked and all violations are reported together.
package validate

import (
	"fmt"

	"github.com/heimdex/heimdex-timeline/internal/action"
	"github.com/heimdex/heimdex-timeline/internal/project"
)

// Result lists every violated rule. Valid is true when Errors is empty.
type Result struct {
	Valid  bool                     `json:"valid"`
	Errors []action.ValidationError `json:"errors,omitempty"`
}

// Validator has no state; the zero value is ready to use.
type Validator struct{}

func New() *Validator { return &Validator{} }

func (v *Validator) Validate(a action.Action, p *project.Project) Result {
	if a.Type == "" {
		return invalid(action.CodeInvalidType, "", "action type must be a non-empty string")
	}
	if a.Params == nil {
		return invalid(action.CodeInvalidParams, "params", "action params must be an object")
	}

	cat, verb, ok := action.ParseType(a.Type)
	if !ok {
		return invalid(action.CodeUnknownActionType, "type", fmt.Sprintf("unknown action type %q", a.Type))
	}

	c := &checker{params: a.Params, p: p}
	var known bool
	switch cat {
	case action.CategoryProject:
		known = c.project(verb)
	case action.CategoryMedia:
		known = c.media(verb)
	case action.CategoryTrack:
		known = c.track(verb)
	case action.CategoryClip:
		known = c.clip(verb)
	case action.CategoryEffect:
		known = c.effect(verb)
	case action.CategoryTransform:
		known = c.transform(verb)
	case action.CategoryKeyframe:
		known = c.keyframe(verb)
	case action.CategoryTransition:
		known = c.transition(verb)
	case action.CategoryAudio:
		known = c.audio(verb)
	case action.CategorySubtitle:
		known = c.subtitle(verb)
	}
	if !known {
		return invalid(action.CodeUnknownActionType, "type", fmt.Sprintf("unknown action type %q", a.Type))
	}

	return Result{Valid: len(c.errs) == 0, Errors: c.errs}
}

func invalid(code, path, msg string) Result {
	return Result{Errors: []action.ValidationError{{Code: code, Message: msg, Path: path}}}
}
