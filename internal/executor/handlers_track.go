package executor

import (
	"fmt"
	"strings"

	"github.com/heimdex/heimdex-timeline/internal/action"
	"github.com/heimdex/heimdex-timeline/internal/project"
)

func (e *Executor) applyTrack(p *project.Project, verb string, params action.Params) (outcome, error) {
	tracks := p.Timeline.Tracks

	switch verb {
	case "add":
		typ := params.GetString("trackType")
		t := project.Track{
			ID:   idParam(params, "id"),
			Type: typ,
			Name: params.GetString("name"),
		}
		if t.Name == "" {
			t.Name = defaultTrackName(tracks, typ)
		}
		p.Timeline.Tracks = project.Insert(tracks, indexParam(params, len(tracks)), t)
		return created(action.CategoryTrack, t.ID, "id"), nil

	case "restore":
		var t project.Track
		if err := params.Decode("track", &t); err != nil {
			return outcome{}, err
		}
		p.Timeline.Tracks = project.Insert(tracks, indexParam(params, len(tracks)), t.Clone())
		return outcome{}, nil
	}

	t, i, err := trackByID(p, params.GetString("trackId"))
	if err != nil {
		return outcome{}, err
	}
	switch verb {
	case "remove":
		p.Timeline.Tracks = project.RemoveAt(tracks, i)
	case "reorder":
		to, ok := params.Int("index")
		if !ok {
			return outcome{}, fmt.Errorf("%w: index", action.ErrMissingParam)
		}
		p.Timeline.Tracks = project.Move(tracks, i, to)
	case "lock":
		t.Locked = params.GetBool("locked")
		p.SetTrack(i, t)
	case "hide":
		t.Hidden = params.GetBool("hidden")
		p.SetTrack(i, t)
	case "mute":
		t.Muted = params.GetBool("muted")
		p.SetTrack(i, t)
	case "solo":
		t.Solo = params.GetBool("solo")
		p.SetTrack(i, t)
	default:
		return outcome{}, unknownVerb(action.CategoryTrack, verb)
	}
	return outcome{}, nil
}

// defaultTrackName numbers tracks per type, e.g. "Audio 2".
func defaultTrackName(tracks []project.Track, typ string) string {
	n := 1
	for _, t := range tracks {
		if t.Type == typ {
			n++
		}
	}
	label := typ
	if label != "" {
		label = strings.ToUpper(label[:1]) + label[1:]
	}
	return fmt.Sprintf("%s %d", label, n)
}
