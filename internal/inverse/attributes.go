package inverse

import (
	"github.com/heimdex/heimdex-timeline/internal/action"
	"github.com/heimdex/heimdex-timeline/internal/project"
)

func (b builder) effect(verb string) *action.Action {
	audio := b.params().GetBool("audio")
	clipID := b.params().GetString("clipId")

	switch verb {
	case "add":
		return b.inverse("effect/remove", action.Params{"clipId": clipID, "effectId": action.LastAdded, "audio": audio})
	case "restore":
		var e project.Effect
		if err := b.params().Decode("effect", &e); err != nil {
			return nil
		}
		return b.inverse("effect/remove", action.Params{"clipId": clipID, "effectId": e.ID, "audio": audio})
	}

	c, _, ok := b.clipRef("clipId")
	if !ok {
		return nil
	}
	e, i, ok := c.FindEffect(b.params().GetString("effectId"), audio)
	if !ok {
		return nil
	}
	switch verb {
	case "remove":
		return b.inverse("effect/restore", action.Params{"clipId": c.ID, "effect": e.Clone(), "index": i, "audio": audio})
	case "update":
		params := project.CloneParams(e.Params)
		if params == nil {
			params = map[string]any{}
		}
		return b.inverse("effect/update", action.Params{
			"clipId":        c.ID,
			"effectId":      e.ID,
			"audio":         audio,
			"params":        params,
			"replaceParams": true,
			"enabled":       e.Enabled,
		})
	case "reorder":
		return b.inverse("effect/reorder", action.Params{"clipId": c.ID, "effectId": e.ID, "index": i, "audio": audio})
	}
	return nil
}

func (b builder) transform(verb string) *action.Action {
	if verb != "update" {
		return nil
	}
	c, _, ok := b.clipRef("clipId")
	if !ok {
		return nil
	}
	var patch project.TransformPatch
	if err := b.params().Decode("transform", &patch); err != nil {
		return nil
	}
	return b.inverse("transform/update", action.Params{"clipId": c.ID, "transform": patch.Capture(c.Transform)})
}

func (b builder) keyframe(verb string) *action.Action {
	if verb == "add" {
		return b.inverse("keyframe/remove", action.Params{
			"clipId":     b.params().GetString("clipId"),
			"keyframeId": action.LastAdded,
		})
	}

	c, _, ok := b.clipRef("clipId")
	if !ok {
		return nil
	}
	k, _, ok := c.FindKeyframe(b.params().GetString("keyframeId"))
	if !ok {
		return nil
	}
	switch verb {
	case "remove":
		return b.inverse("keyframe/add", action.Params{
			"clipId":   c.ID,
			"id":       k.ID,
			"property": k.Property,
			"time":     k.Time,
			"value":    project.CloneValue(k.Value),
			"easing":   k.Easing,
		})
	case "update":
		return b.inverse("keyframe/update", action.Params{
			"clipId":     c.ID,
			"keyframeId": k.ID,
			"time":       k.Time,
			"value":      project.CloneValue(k.Value),
			"easing":     k.Easing,
		})
	}
	return nil
}

func (b builder) transition(verb string) *action.Action {
	switch verb {
	case "add":
		return b.inverse("transition/remove", action.Params{"transitionId": action.LastAdded})
	case "restore":
		var tr project.Transition
		if err := b.params().Decode("transition", &tr); err != nil {
			return nil
		}
		return b.inverse("transition/remove", action.Params{"transitionId": tr.ID})
	}

	tr, ti, i, ok := b.p.FindTransition(b.params().GetString("transitionId"))
	if !ok {
		return nil
	}
	switch verb {
	case "remove":
		return b.inverse("transition/restore", action.Params{
			"trackId":    b.p.Timeline.Tracks[ti].ID,
			"transition": tr.Clone(),
			"index":      i,
		})
	case "update":
		params := project.CloneParams(tr.Params)
		if params == nil {
			params = map[string]any{}
		}
		return b.inverse("transition/update", action.Params{
			"transitionId":   tr.ID,
			"transitionType": tr.Type,
			"duration":       tr.Duration,
			"params":         params,
		})
	}
	return nil
}

func (b builder) audio(verb string) *action.Action {
	c, _, ok := b.clipRef("clipId")
	if !ok {
		return nil
	}
	switch verb {
	case "setVolume":
		return b.inverse("audio/setVolume", action.Params{"clipId": c.ID, "volume": c.Volume})
	case "setFade":
		if c.Fade == nil {
			return b.inverse("audio/setFade", action.Params{"clipId": c.ID, "clear": true})
		}
		return b.inverse("audio/setFade", action.Params{"clipId": c.ID, "fadeIn": c.Fade.FadeIn, "fadeOut": c.Fade.FadeOut})
	case "addAutomation", "setAutomation":
		if c.Automation == nil {
			return b.inverse("audio/setAutomation", action.Params{"clipId": c.ID, "clear": true})
		}
		return b.inverse("audio/setAutomation", action.Params{
			"clipId": c.ID,
			"points": append([]project.AutomationPoint(nil), c.Automation.Volume...),
		})
	}
	return nil
}

func (b builder) subtitle(verb string) *action.Action {
	switch verb {
	case "add":
		return b.inverse("subtitle/remove", action.Params{"subtitleId": action.LastAdded})
	case "restore":
		var s project.Subtitle
		if err := b.params().Decode("subtitle", &s); err != nil {
			return nil
		}
		return b.inverse("subtitle/remove", action.Params{"subtitleId": s.ID})
	case "restoreAll", "import":
		return b.inverse("subtitle/restoreAll", action.Params{"subtitles": project.Timeline{Subtitles: b.p.Timeline.Subtitles}.Clone().Subtitles})
	}

	s, _, ok := b.p.FindSubtitle(b.params().GetString("subtitleId"))
	if !ok {
		return nil
	}
	switch verb {
	case "remove":
		return b.inverse("subtitle/restore", action.Params{"subtitle": s.Clone()})
	case "update":
		return b.inverse("subtitle/update", action.Params{
			"subtitleId": s.ID,
			"text":       s.Text,
			"startTime":  s.StartTime,
			"endTime":    s.EndTime,
		})
	case "setStyle":
		if s.Style == nil {
			return b.inverse("subtitle/setStyle", action.Params{"subtitleId": s.ID, "clear": true})
		}
		return b.inverse("subtitle/setStyle", action.Params{"subtitleId": s.ID, "style": *s.Style})
	}
	return nil
}
