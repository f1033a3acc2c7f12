package executor

import (
	"fmt"

	"github.com/heimdex/heimdex-timeline/internal/action"
	"github.com/heimdex/heimdex-timeline/internal/project"
)

func (e *Executor) applyProject(p *project.Project, verb string, params action.Params) (outcome, error) {
	switch verb {
	case "rename":
		p.Name = params.GetString("name")
	case "updateSettings":
		var patch project.SettingsPatch
		if err := params.Decode("settings", &patch); err != nil {
			return outcome{}, err
		}
		p.Settings = patch.Apply(p.Settings)
	case "create":
		name := params.GetString("name")
		if name == "" {
			name = "Untitled Project"
		}
		fresh := project.New(name)
		if id := params.GetString("id"); id != "" {
			fresh.ID = id
		}
		*p = *fresh
		return outcome{pins: action.Params{"id": fresh.ID}}, nil
	default:
		return outcome{}, unknownVerb(action.CategoryProject, verb)
	}
	return outcome{}, nil
}

func (e *Executor) applyMedia(p *project.Project, verb string, params action.Params) (outcome, error) {
	switch verb {
	case "import":
		var file project.FileRef
		if err := params.Decode("file", &file); err != nil {
			return outcome{}, err
		}
		item := project.MediaItem{
			ID:           idParam(params, "id"),
			Name:         file.Name,
			Type:         project.MediaTypeFromMime(file.MimeType),
			ThumbnailURL: params.GetString("thumbnailUrl"),
			SourcePath:   file.Path,
		}
		if params.Has("metadata") {
			if err := params.Decode("metadata", &item.Metadata); err != nil {
				return outcome{}, err
			}
		}
		if item.Metadata.FileSize == 0 {
			item.Metadata.FileSize = file.Size
		}
		if params.Has("waveformData") {
			if err := params.Decode("waveformData", &item.WaveformData); err != nil {
				return outcome{}, err
			}
		}
		p.MediaLibrary.Items = project.Insert(p.MediaLibrary.Items, len(p.MediaLibrary.Items), item.Clone())
		return created(action.CategoryMedia, item.ID, "id"), nil

	case "delete":
		_, i, ok := p.FindMedia(params.GetString("mediaId"))
		if !ok {
			return outcome{}, notFound("media", params.GetString("mediaId"))
		}
		p.MediaLibrary.Items = project.RemoveAt(p.MediaLibrary.Items, i)

	case "rename":
		m, i, ok := p.FindMedia(params.GetString("mediaId"))
		if !ok {
			return outcome{}, notFound("media", params.GetString("mediaId"))
		}
		m.Name = params.GetString("name")
		p.MediaLibrary.Items = project.Replace(p.MediaLibrary.Items, i, m)

	case "restore":
		var item project.MediaItem
		if err := params.Decode("item", &item); err != nil {
			return outcome{}, err
		}
		at := indexParam(params, len(p.MediaLibrary.Items))
		p.MediaLibrary.Items = project.Insert(p.MediaLibrary.Items, at, item.Clone())

	default:
		return outcome{}, unknownVerb(action.CategoryMedia, verb)
	}
	return outcome{}, nil
}

// idParam returns the id pinned in params, or a fresh one.
func idParam(params action.Params, key string) string {
	if id := params.GetString(key); id != "" {
		return id
	}
	return project.NewID()
}

// indexParam returns the insertion position in params, or def.
func indexParam(params action.Params, def int) int {
	if i, ok := params.Int("index"); ok {
		return i
	}
	return def
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q not found", kind, id)
}

// clipByID locates a clip and its track index.
func clipByID(p *project.Project, id string) (project.Clip, int, error) {
	c, ti, _, ok := p.FindClip(id)
	if !ok {
		return project.Clip{}, -1, notFound("clip", id)
	}
	return c, ti, nil
}

func trackByID(p *project.Project, id string) (project.Track, int, error) {
	t, i, ok := p.FindTrack(id)
	if !ok {
		return project.Track{}, -1, notFound("track", id)
	}
	return t, i, nil
}

// optionalFloat returns a pointer to the number at key, or nil.
func optionalFloat(params action.Params, key string) *float64 {
	f, ok := params.Float(key)
	if !ok {
		return nil
	}
	return &f
}

// transitionsParam reads a whole-track transition list. present is false
// when the key is absent; a present nil value means no transitions.
func transitionsParam(params action.Params, key string) (ts []project.Transition, present bool, err error) {
	v, present := params[key]
	if !present {
		return nil, false, nil
	}
	if v == nil {
		return nil, true, nil
	}
	if err := params.Decode(key, &ts); err != nil {
		return nil, true, err
	}
	out := make([]project.Transition, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Clone())
	}
	if len(out) == 0 {
		return nil, true, nil
	}
	return out, true, nil
}
