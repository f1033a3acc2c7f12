package validate

import (
	"github.com/heimdex/heimdex-timeline/internal/action"
	"github.com/heimdex/heimdex-timeline/internal/project"
)

const (
	maxVolume  = 4.0
	maxOpacity = 1.0
)

func (c *checker) effect(verb string) bool {
	switch verb {
	case "add":
		c.editableClipRef("clipId")
		c.str("effectType")
		c.optObject("params")
		c.optBool("enabled")
		c.optBool("audio")
		c.optStr("id")
		c.optPosition("index")
	case "remove":
		c.effectRef()
	case "restore":
		c.editableClipRef("clipId")
		c.optBool("audio")
		var e project.Effect
		if c.decode("effect", &e) && e.ID == "" {
			c.fail(action.CodeInvalidParams, "effect.id", "effect.id is required")
		}
		c.optPosition("index")
	case "update":
		c.effectRef()
		c.optObject("params")
		c.optBool("enabled")
		c.optBool("replaceParams")
	case "reorder":
		clip, _, ok := c.effectRef()
		audio := c.params.GetBool("audio")
		if ok {
			c.index("index", len(clip.EffectList(audio)))
		} else {
			c.num("index")
		}
	default:
		return false
	}
	return true
}

// effectRef resolves clipId and effectId in the chain selected by audio.
func (c *checker) effectRef() (project.Clip, project.Effect, bool) {
	clip, ok := c.editableClipRef("clipId")
	audio, _ := c.optBool("audio")
	id, hasID := c.str("effectId")
	if !ok || !hasID {
		return clip, project.Effect{}, false
	}
	e, _, found := clip.FindEffect(id, audio)
	if !found {
		c.fail(action.CodeEffectNotFound, "effectId", "effect %q not found on clip %q", id, clip.ID)
		return clip, project.Effect{}, false
	}
	return clip, e, true
}

func (c *checker) transform(verb string) bool {
	if verb != "update" {
		return false
	}
	c.editableClipRef("clipId")
	var patch project.TransformPatch
	if !c.decode("transform", &patch) {
		return true
	}
	if patch.Opacity != nil {
		c.between("transform.opacity", *patch.Opacity, 0, maxOpacity)
	}
	return true
}

func (c *checker) keyframe(verb string) bool {
	switch verb {
	case "add":
		clip, ok := c.editableClipRef("clipId")
		prop, hasProp := c.str("property")
		at, hasTime := c.num("time")
		if !c.params.Has("value") {
			c.fail(action.CodeInvalidParams, "value", "value is required")
		}
		c.optStr("easing")
		c.optStr("id")
		if hasTime {
			c.keyframeTime(clip, ok, at)
		}
		if ok && hasProp && hasTime && clip.HasKeyframeAt(prop, at, "") {
			c.fail(action.CodeDuplicateKeyframe, "time", "clip %q already has a %s keyframe at %g", clip.ID, prop, at)
		}
	case "remove":
		c.keyframeRef()
	case "update":
		clip, k, ok := c.keyframeRef()
		at, hasTime := c.optNum("time")
		c.optStr("easing")
		if hasTime {
			c.keyframeTime(clip, ok, at)
			if ok && clip.HasKeyframeAt(k.Property, at, k.ID) {
				c.fail(action.CodeDuplicateKeyframe, "time", "clip %q already has a %s keyframe at %g", clip.ID, k.Property, at)
			}
		}
	default:
		return false
	}
	return true
}

func (c *checker) keyframeTime(clip project.Clip, haveClip bool, at float64) {
	c.nonNegative("time", at)
	if haveClip && at > clip.Duration+project.AdjacencyTolerance {
		c.fail(action.CodeOutOfBounds, "time", "keyframe time %g is past the clip duration %g", at, clip.Duration)
	}
}

func (c *checker) keyframeRef() (project.Clip, project.Keyframe, bool) {
	clip, ok := c.editableClipRef("clipId")
	id, hasID := c.str("keyframeId")
	if !ok || !hasID {
		return clip, project.Keyframe{}, false
	}
	k, _, found := clip.FindKeyframe(id)
	if !found {
		c.fail(action.CodeKeyframeNotFound, "keyframeId", "keyframe %q not found on clip %q", id, clip.ID)
		return clip, project.Keyframe{}, false
	}
	return clip, k, true
}

func (c *checker) transition(verb string) bool {
	switch verb {
	case "add":
		a, okA := c.editableClipRef("clipAId")
		b, okB := c.editableClipRef("clipBId")
		c.str("transitionType")
		c.optObject("params")
		c.optStr("id")
		if d, ok := c.num("duration"); ok {
			c.positive("duration", d)
		}
		if okA && okB {
			if a.TrackID != b.TrackID {
				c.fail(action.CodeClipsNotAdjacent, "clipBId", "clips %q and %q are on different tracks", a.ID, b.ID)
			} else if !project.ClipsAdjacent(a, b) {
				c.fail(action.CodeClipsNotAdjacent, "clipBId", "clips %q and %q are not adjacent", a.ID, b.ID)
			}
		}
	case "remove":
		c.transitionRef()
	case "restore":
		if t, ok := c.trackRef("trackId"); ok && t.Locked {
			c.fail(action.CodeTrackLocked, "trackId", "track %q is locked", t.ID)
		}
		var tr project.Transition
		if c.decode("transition", &tr) && tr.ID == "" {
			c.fail(action.CodeInvalidParams, "transition.id", "transition.id is required")
		}
		c.optPosition("index")
	case "update":
		c.transitionRef()
		c.optStr("transitionType")
		c.optObject("params")
		if d, ok := c.optNum("duration"); ok {
			c.positive("duration", d)
		}
	default:
		return false
	}
	return true
}

func (c *checker) transitionRef() (project.Transition, bool) {
	id, ok := c.str("transitionId")
	if !ok {
		return project.Transition{}, false
	}
	tr, ti, _, found := c.p.FindTransition(id)
	if !found {
		c.fail(action.CodeTransitionNotFound, "transitionId", "transition %q not found", id)
		return project.Transition{}, false
	}
	if c.p.Timeline.Tracks[ti].Locked {
		c.fail(action.CodeTrackLocked, "transitionId", "track %q is locked", c.p.Timeline.Tracks[ti].ID)
	}
	return tr, true
}

func (c *checker) audio(verb string) bool {
	switch verb {
	case "setVolume":
		c.editableClipRef("clipId")
		if v, ok := c.num("volume"); ok {
			c.between("volume", v, 0, maxVolume)
		}
	case "setFade":
		clip, ok := c.editableClipRef("clipId")
		reset, _ := c.optBool("clear")
		in, hasIn := c.optNum("fadeIn")
		out, hasOut := c.optNum("fadeOut")
		if !reset && !c.params.Has("fadeIn") && !c.params.Has("fadeOut") {
			c.fail(action.CodeInvalidParams, "fadeIn", "setFade requires fadeIn, fadeOut or clear")
		}
		if hasIn {
			c.fadeLength("fadeIn", in, clip, ok)
		}
		if hasOut {
			c.fadeLength("fadeOut", out, clip, ok)
		}
	case "addAutomation":
		c.editableClipRef("clipId")
		if t, ok := c.num("time"); ok {
			c.nonNegative("time", t)
		}
		if v, ok := c.num("value"); ok {
			c.between("value", v, 0, maxVolume)
		}
	case "setAutomation":
		c.editableClipRef("clipId")
		if reset, _ := c.optBool("clear"); reset {
			return true
		}
		var pts []project.AutomationPoint
		if !c.decode("points", &pts) {
			return true
		}
		for _, pt := range pts {
			c.nonNegative("points.time", pt.Time)
			c.between("points.value", pt.Value, 0, maxVolume)
		}
	default:
		return false
	}
	return true
}

func (c *checker) fadeLength(path string, v float64, clip project.Clip, haveClip bool) {
	c.nonNegative(path, v)
	if haveClip && v > clip.Duration {
		c.fail(action.CodeOutOfBounds, path, "%s %g is longer than the clip (%g)", path, v, clip.Duration)
	}
}

func (c *checker) subtitle(verb string) bool {
	switch verb {
	case "add":
		if _, ok := c.params.String("text"); !ok {
			c.fail(action.CodeInvalidParams, "text", "text is required and must be a string")
		}
		start, okS := c.num("startTime")
		end, okE := c.num("endTime")
		if okS {
			c.nonNegative("startTime", start)
		}
		if okS && okE {
			c.timeRange("endTime", start, end)
		}
		c.optObject("style")
		c.optStr("id")
	case "remove":
		c.subtitleRef("subtitleId")
	case "restore":
		var s project.Subtitle
		if c.decode("subtitle", &s) && s.ID == "" {
			c.fail(action.CodeInvalidParams, "subtitle.id", "subtitle.id is required")
		}
	case "restoreAll":
		var subs []project.Subtitle
		if !c.params.Has("subtitles") || c.params["subtitles"] == nil {
			return true
		}
		c.decode("subtitles", &subs)
	case "update":
		s, ok := c.subtitleRef("subtitleId")
		c.optStr("text")
		start, hasStart := c.optNum("startTime")
		end, hasEnd := c.optNum("endTime")
		if !ok {
			return true
		}
		if !hasStart {
			start = s.StartTime
		}
		if !hasEnd {
			end = s.EndTime
		}
		c.nonNegative("startTime", start)
		c.timeRange("endTime", start, end)
	case "setStyle":
		c.subtitleRef("subtitleId")
		if reset, _ := c.optBool("clear"); !reset {
			var style project.SubtitleStyle
			c.decode("style", &style)
		}
	case "import":
		c.str("srt")
		c.optBool("replace")
	default:
		return false
	}
	return true
}
