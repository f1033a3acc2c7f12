package inverse

import (
	"github.com/heimdex/heimdex-timeline/internal/action"
	"github.com/heimdex/heimdex-timeline/internal/project"
)

func (b builder) clip(verb string) *action.Action {
	switch verb {
	case "add":
		return b.inverse("clip/remove", action.Params{"clipId": action.LastAdded})
	case "restore", "rippleRestore":
		var c project.Clip
		if err := b.params().Decode("clip", &c); err != nil {
			return nil
		}
		if verb == "rippleRestore" {
			return b.inverse("clip/rippleDelete", action.Params{"clipId": c.ID})
		}
		return b.inverse("clip/remove", action.Params{"clipId": c.ID})
	case "roll":
		return b.clipRoll()
	}

	c, track, ok := b.clipRef("clipId")
	if !ok {
		return nil
	}
	switch verb {
	case "remove":
		return b.inverse("clip/restore", action.Params{
			"clip":             c.Clone(),
			"trackTransitions": cloneTransitions(track.Transitions),
		})
	case "rippleDelete":
		before, _ := track.RippleTimings(c)
		return b.inverse("clip/rippleRestore", action.Params{
			"clip":             c.Clone(),
			"trackTransitions": cloneTransitions(track.Transitions),
			"affectedClips":    before,
		})
	case "move":
		return b.inverse("clip/move", action.Params{
			"clipId":           c.ID,
			"startTime":        c.StartTime,
			"trackId":          c.TrackID,
			"trackTransitions": cloneTransitions(track.Transitions),
		})
	case "trim", "slip", "trimToPlayhead":
		typ := "clip/trim"
		if verb == "slip" {
			typ = "clip/slip"
		}
		return b.inverse(typ, action.Params{
			"clipId":  c.ID,
			"restore": []project.ClipTiming{c.Timing()},
		})
	case "split":
		return b.inverse("clip/merge", action.Params{
			"clipId":           c.ID,
			"rightClipId":      action.LastAdded,
			"originalClip":     c.Clone(),
			"trackTransitions": cloneTransitions(track.Transitions),
		})
	case "merge":
		right, _, ok := b.clipRef("rightClipId")
		if !ok {
			return nil
		}
		return b.inverse("clip/split", action.Params{
			"clipId":           c.ID,
			"time":             right.StartTime,
			"newClipId":        right.ID,
			"leftClip":         c.Clone(),
			"rightClip":        right.Clone(),
			"trackTransitions": cloneTransitions(track.Transitions),
		})
	case "slide":
		var ids []string
		if b.params().Has("restore") {
			var timings []project.ClipTiming
			if err := b.params().Decode("restore", &timings); err != nil {
				return nil
			}
			for _, t := range timings {
				ids = append(ids, t.ClipID)
			}
		} else {
			ids = track.SlideNeighborIDs(track.ClipIndex(c.ID))
		}
		return b.inverse("clip/slide", action.Params{
			"clipId":  c.ID,
			"restore": track.Timings(ids),
		})
	}
	return nil
}

func (b builder) clipRoll() *action.Action {
	left, track, ok := b.clipRef("leftClipId")
	if !ok {
		return nil
	}
	right, _, ok := b.clipRef("rightClipId")
	if !ok {
		return nil
	}
	return b.inverse("clip/roll", action.Params{
		"leftClipId":  left.ID,
		"rightClipId": right.ID,
		"restore":     track.Timings([]string{left.ID, right.ID}),
	})
}
