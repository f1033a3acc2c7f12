package executor

import (
	"slices"

	"github.com/heimdex/heimdex-timeline/internal/action"
	"github.com/heimdex/heimdex-timeline/internal/project"
	"github.com/heimdex/heimdex-timeline/internal/subtitle"
)

func (e *Executor) applySubtitle(p *project.Project, verb string, params action.Params) (outcome, error) {
	subs := p.Timeline.Subtitles

	switch verb {
	case "add":
		s := project.Subtitle{
			ID:        idParam(params, "id"),
			Text:      params.GetString("text"),
			StartTime: params.GetFloat("startTime"),
			EndTime:   params.GetFloat("endTime"),
		}
		if params.Has("style") && params["style"] != nil {
			var style project.SubtitleStyle
			if err := params.Decode("style", &style); err != nil {
				return outcome{}, err
			}
			s.Style = &style
		}
		p.Timeline.Subtitles = project.SortedSubtitles(append(slices.Clone(subs), s))
		return created(action.CategorySubtitle, s.ID, "id"), nil

	case "restore":
		var s project.Subtitle
		if err := params.Decode("subtitle", &s); err != nil {
			return outcome{}, err
		}
		p.Timeline.Subtitles = project.SortedSubtitles(append(slices.Clone(subs), s.Clone()))
		return outcome{}, nil

	case "restoreAll":
		var all []project.Subtitle
		if params["subtitles"] != nil {
			if err := params.Decode("subtitles", &all); err != nil {
				return outcome{}, err
			}
		}
		p.Timeline.Subtitles = project.Timeline{Subtitles: all}.Clone().Subtitles
		return outcome{}, nil

	case "import":
		return importSubtitles(p, params)
	}

	s, i, ok := p.FindSubtitle(params.GetString("subtitleId"))
	if !ok {
		return outcome{}, notFound("subtitle", params.GetString("subtitleId"))
	}
	switch verb {
	case "remove":
		p.Timeline.Subtitles = project.RemoveAt(subs, i)
	case "update":
		patch := project.SubtitlePatch{
			StartTime: optionalFloat(params, "startTime"),
			EndTime:   optionalFloat(params, "endTime"),
		}
		if text, ok := params.String("text"); ok {
			patch.Text = &text
		}
		p.Timeline.Subtitles = project.SortedSubtitles(project.Replace(subs, i, patch.Apply(s)))
	case "setStyle":
		if params.GetBool("clear") {
			s.Style = nil
		} else {
			var style project.SubtitleStyle
			if err := params.Decode("style", &style); err != nil {
				return outcome{}, err
			}
			s.Style = &style
		}
		p.Timeline.Subtitles = project.Replace(subs, i, s)
	default:
		return outcome{}, unknownVerb(action.CategorySubtitle, verb)
	}
	return outcome{}, nil
}

// importSubtitles parses SRT text into subtitles, appending to or replacing
// the current list. The ids it assigns are pinned so a redo reuses them.
func importSubtitles(p *project.Project, params action.Params) (outcome, error) {
	cues := subtitle.Parse(params.GetString("srt"))

	var ids []string
	if params.Has("ids") && params["ids"] != nil {
		if err := params.Decode("ids", &ids); err != nil {
			return outcome{}, err
		}
	}

	var subs []project.Subtitle
	if !params.GetBool("replace") {
		subs = slices.Clone(p.Timeline.Subtitles)
	}
	assigned := make([]string, len(cues))
	for i, cue := range cues {
		id := project.NewID()
		if i < len(ids) && ids[i] != "" {
			id = ids[i]
		}
		assigned[i] = id
		subs = append(subs, project.Subtitle{
			ID:        id,
			Text:      cue.Text,
			StartTime: cue.StartTime,
			EndTime:   cue.EndTime,
		})
	}
	if len(subs) == 0 {
		p.Timeline.Subtitles = nil
	} else {
		p.Timeline.Subtitles = project.SortedSubtitles(subs)
	}
	return outcome{pins: action.Params{"ids": assigned}}, nil
}
