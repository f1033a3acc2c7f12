// Package inverse derives, from the project as it was before an action ran,
// the action that reverses it.
//
// Creations invert to a removal of action.LastAdded, since the new id is not
// known yet. Removals invert to a restore carrying deep copies of what was
// removed. Updates invert to the same verb carrying the prior values.
// project/create has no inverse.
package inverse

import (
	"github.com/google/uuid"

	"github.com/heimdex/heimdex-timeline/internal/action"
	"github.com/heimdex/heimdex-timeline/internal/project"
)

// Generator has no state; the zero value is ready to use.
type Generator struct{}

func New() *Generator { return &Generator{} }

// Generate returns the inverse of a against before, or nil when a cannot be
// reversed or refers to something missing from before. before must not be
// mutated by the caller afterwards if the result is kept, because restores
// may share data with it; the executor passes a private clone.
func (g *Generator) Generate(a action.Action, before *project.Project) *action.Action {
	cat, verb, ok := action.ParseType(a.Type)
	if !ok || before == nil {
		return nil
	}

	b := builder{orig: a, p: before}
	switch cat {
	case action.CategoryProject:
		return b.project(verb)
	case action.CategoryMedia:
		return b.media(verb)
	case action.CategoryTrack:
		return b.track(verb)
	case action.CategoryClip:
		return b.clip(verb)
	case action.CategoryEffect:
		return b.effect(verb)
	case action.CategoryTransform:
		return b.transform(verb)
	case action.CategoryKeyframe:
		return b.keyframe(verb)
	case action.CategoryTransition:
		return b.transition(verb)
	case action.CategoryAudio:
		return b.audio(verb)
	case action.CategorySubtitle:
		return b.subtitle(verb)
	}
	return nil
}

type builder struct {
	orig action.Action
	p    *project.Project
}

func (b builder) params() action.Params { return b.orig.Params }

// inverse builds an inverse action with a fresh id that shares the original's
// timestamp.
func (b builder) inverse(typ string, params action.Params) *action.Action {
	return &action.Action{
		ID:        uuid.NewString(),
		Type:      typ,
		Timestamp: b.orig.Timestamp,
		Params:    params,
	}
}

func (b builder) project(verb string) *action.Action {
	switch verb {
	case "rename":
		return b.inverse("project/rename", action.Params{"name": b.p.Name})
	case "updateSettings":
		var patch project.SettingsPatch
		if err := b.params().Decode("settings", &patch); err != nil {
			return nil
		}
		return b.inverse("project/updateSettings", action.Params{"settings": patch.Capture(b.p.Settings)})
	}
	return nil
}

func (b builder) media(verb string) *action.Action {
	switch verb {
	case "import":
		return b.inverse("media/delete", action.Params{"mediaId": action.LastAdded})
	case "delete":
		m, i, ok := b.p.FindMedia(b.params().GetString("mediaId"))
		if !ok {
			return nil
		}
		return b.inverse("media/restore", action.Params{"item": m.Clone(), "index": i})
	case "rename":
		m, _, ok := b.p.FindMedia(b.params().GetString("mediaId"))
		if !ok {
			return nil
		}
		return b.inverse("media/rename", action.Params{"mediaId": m.ID, "name": m.Name})
	case "restore":
		var item project.MediaItem
		if err := b.params().Decode("item", &item); err != nil {
			return nil
		}
		return b.inverse("media/delete", action.Params{"mediaId": item.ID})
	}
	return nil
}

func (b builder) track(verb string) *action.Action {
	switch verb {
	case "add":
		return b.inverse("track/remove", action.Params{"trackId": action.LastAdded})
	case "restore":
		var t project.Track
		if err := b.params().Decode("track", &t); err != nil {
			return nil
		}
		return b.inverse("track/remove", action.Params{"trackId": t.ID})
	}

	t, i, ok := b.p.FindTrack(b.params().GetString("trackId"))
	if !ok {
		return nil
	}
	switch verb {
	case "remove":
		return b.inverse("track/restore", action.Params{"track": t.Clone(), "index": i})
	case "reorder":
		return b.inverse("track/reorder", action.Params{"trackId": t.ID, "index": i})
	case "lock":
		return b.inverse("track/lock", action.Params{"trackId": t.ID, "locked": t.Locked})
	case "hide":
		return b.inverse("track/hide", action.Params{"trackId": t.ID, "hidden": t.Hidden})
	case "mute":
		return b.inverse("track/mute", action.Params{"trackId": t.ID, "muted": t.Muted})
	case "solo":
		return b.inverse("track/solo", action.Params{"trackId": t.ID, "solo": t.Solo})
	}
	return nil
}

// clipRef looks up the clip named by key along with its track.
func (b builder) clipRef(key string) (project.Clip, project.Track, bool) {
	c, ti, _, ok := b.p.FindClip(b.params().GetString(key))
	if !ok {
		return project.Clip{}, project.Track{}, false
	}
	return c, b.p.Timeline.Tracks[ti], true
}

func cloneTransitions(ts []project.Transition) []project.Transition {
	if len(ts) == 0 {
		return nil
	}
	out := make([]project.Transition, len(ts))
	for i, t := range ts {
		out[i] = t.Clone()
	}
	return out
}
