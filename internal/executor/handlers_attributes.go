package executor

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/heimdex/heimdex-timeline/internal/action"
	"github.com/heimdex/heimdex-timeline/internal/project"
)

func (e *Executor) applyEffect(p *project.Project, verb string, params action.Params) (outcome, error) {
	c, ti, err := clipByID(p, params.GetString("clipId"))
	if err != nil {
		return outcome{}, err
	}
	audio := params.GetBool("audio")
	list := c.EffectList(audio)

	switch verb {
	case "add":
		fx := project.Effect{
			ID:      idParam(params, "id"),
			Type:    params.GetString("effectType"),
			Enabled: true,
		}
		if m, ok := params.Map("params"); ok {
			fx.Params = project.CloneParams(m)
		}
		if enabled, ok := params.Bool("enabled"); ok {
			fx.Enabled = enabled
		}
		list = project.Insert(list, indexParam(params, len(list)), fx)
		p.PutClip(ti, c.WithEffectList(audio, list))
		return created(action.CategoryEffect, fx.ID, "id"), nil

	case "restore":
		var fx project.Effect
		if err := params.Decode("effect", &fx); err != nil {
			return outcome{}, err
		}
		list = project.Insert(list, indexParam(params, len(list)), fx.Clone())
		p.PutClip(ti, c.WithEffectList(audio, list))
		return outcome{}, nil
	}

	fx, i, ok := c.FindEffect(params.GetString("effectId"), audio)
	if !ok {
		return outcome{}, notFound("effect", params.GetString("effectId"))
	}
	switch verb {
	case "remove":
		list = project.RemoveAt(list, i)
	case "update":
		patch := project.EffectPatch{ReplaceParams: params.GetBool("replaceParams")}
		if m, ok := params.Map("params"); ok {
			patch.Params = m
		}
		if enabled, ok := params.Bool("enabled"); ok {
			patch.Enabled = &enabled
		}
		list = project.Replace(list, i, patch.Apply(fx))
	case "reorder":
		to, ok := params.Int("index")
		if !ok {
			return outcome{}, fmt.Errorf("%w: index", action.ErrMissingParam)
		}
		list = project.Move(list, i, to)
	default:
		return outcome{}, unknownVerb(action.CategoryEffect, verb)
	}
	p.PutClip(ti, c.WithEffectList(audio, list))
	return outcome{}, nil
}

func (e *Executor) applyTransform(p *project.Project, verb string, params action.Params) (outcome, error) {
	if verb != "update" {
		return outcome{}, unknownVerb(action.CategoryTransform, verb)
	}
	c, ti, err := clipByID(p, params.GetString("clipId"))
	if err != nil {
		return outcome{}, err
	}
	var patch project.TransformPatch
	if err := params.Decode("transform", &patch); err != nil {
		return outcome{}, err
	}
	c.Transform = patch.Apply(c.Transform)
	p.PutClip(ti, c)
	return outcome{}, nil
}

func (e *Executor) applyKeyframe(p *project.Project, verb string, params action.Params) (outcome, error) {
	c, ti, err := clipByID(p, params.GetString("clipId"))
	if err != nil {
		return outcome{}, err
	}

	if verb == "add" {
		k := project.Keyframe{
			ID:       idParam(params, "id"),
			Time:     params.GetFloat("time"),
			Property: params.GetString("property"),
			Value:    project.CloneValue(params["value"]),
			Easing:   params.GetString("easing"),
		}
		if k.Easing == "" {
			k.Easing = "linear"
		}
		c.Keyframes = project.SortedKeyframes(append(slices.Clone(c.Keyframes), k))
		p.PutClip(ti, c)
		return created(action.CategoryKeyframe, k.ID, "id"), nil
	}

	k, i, ok := c.FindKeyframe(params.GetString("keyframeId"))
	if !ok {
		return outcome{}, notFound("keyframe", params.GetString("keyframeId"))
	}
	switch verb {
	case "remove":
		c.Keyframes = project.RemoveAt(c.Keyframes, i)
	case "update":
		patch := project.KeyframePatch{Time: optionalFloat(params, "time"), Value: params["value"]}
		if easing, ok := params.String("easing"); ok {
			patch.Easing = &easing
		}
		c.Keyframes = project.SortedKeyframes(project.Replace(c.Keyframes, i, patch.Apply(k)))
	default:
		return outcome{}, unknownVerb(action.CategoryKeyframe, verb)
	}
	p.PutClip(ti, c)
	return outcome{}, nil
}

func (e *Executor) applyTransition(p *project.Project, verb string, params action.Params) (outcome, error) {
	switch verb {
	case "add":
		a, ti, err := clipByID(p, params.GetString("clipAId"))
		if err != nil {
			return outcome{}, err
		}
		tr := project.Transition{
			ID:       idParam(params, "id"),
			ClipAID:  a.ID,
			ClipBID:  params.GetString("clipBId"),
			Type:     params.GetString("transitionType"),
			Duration: params.GetFloat("duration"),
		}
		if m, ok := params.Map("params"); ok {
			tr.Params = project.CloneParams(m)
		}
		track := p.Timeline.Tracks[ti]
		track.Transitions = append(slices.Clone(track.Transitions), tr)
		p.SetTrack(ti, track)
		return created(action.CategoryTransition, tr.ID, "id"), nil

	case "restore":
		track, ti, err := trackByID(p, params.GetString("trackId"))
		if err != nil {
			return outcome{}, err
		}
		var tr project.Transition
		if err := params.Decode("transition", &tr); err != nil {
			return outcome{}, err
		}
		track.Transitions = project.Insert(track.Transitions, indexParam(params, len(track.Transitions)), tr.Clone())
		p.SetTrack(ti, track)
		return outcome{}, nil
	}

	tr, ti, i, ok := p.FindTransition(params.GetString("transitionId"))
	if !ok {
		return outcome{}, notFound("transition", params.GetString("transitionId"))
	}
	track := p.Timeline.Tracks[ti]
	switch verb {
	case "remove":
		track.Transitions = project.RemoveAt(track.Transitions, i)
	case "update":
		patch := project.TransitionPatch{Duration: optionalFloat(params, "duration")}
		if typ, ok := params.String("transitionType"); ok {
			patch.Type = &typ
		}
		if m, ok := params.Map("params"); ok {
			patch.Params = m
		}
		track.Transitions = project.Replace(track.Transitions, i, patch.Apply(tr))
	default:
		return outcome{}, unknownVerb(action.CategoryTransition, verb)
	}
	p.SetTrack(ti, track)
	return outcome{}, nil
}

func (e *Executor) applyAudio(p *project.Project, verb string, params action.Params) (outcome, error) {
	c, ti, err := clipByID(p, params.GetString("clipId"))
	if err != nil {
		return outcome{}, err
	}

	switch verb {
	case "setVolume":
		c.Volume = params.GetFloat("volume")

	case "setFade":
		if params.GetBool("clear") {
			c.Fade = nil
			break
		}
		var f project.Fade
		if c.Fade != nil {
			f = *c.Fade
		}
		if in, ok := params.Float("fadeIn"); ok {
			f.FadeIn = in
		}
		if out, ok := params.Float("fadeOut"); ok {
			f.FadeOut = out
		}
		c.Fade = &f

	case "addAutomation":
		pt := project.AutomationPoint{Time: params.GetFloat("time"), Value: params.GetFloat("value")}
		var pts []project.AutomationPoint
		if c.Automation != nil {
			for _, o := range c.Automation.Volume {
				if o.Time != pt.Time {
					pts = append(pts, o)
				}
			}
		}
		c.Automation = &project.Automation{Volume: sortedPoints(append(pts, pt))}

	case "setAutomation":
		if params.GetBool("clear") {
			c.Automation = nil
			break
		}
		var pts []project.AutomationPoint
		if err := params.Decode("points", &pts); err != nil {
			return outcome{}, err
		}
		c.Automation = &project.Automation{Volume: sortedPoints(pts)}

	default:
		return outcome{}, unknownVerb(action.CategoryAudio, verb)
	}
	p.PutClip(ti, c)
	return outcome{}, nil
}

func sortedPoints(pts []project.AutomationPoint) []project.AutomationPoint {
	if len(pts) == 0 {
		return nil
	}
	out := slices.Clone(pts)
	slices.SortStableFunc(out, func(a, b project.AutomationPoint) int { return cmp.Compare(a.Time, b.Time) })
	return out
}
