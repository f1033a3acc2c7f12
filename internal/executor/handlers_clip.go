package executor

import (
	"slices"

	"github.com/heimdex/heimdex-timeline/internal/action"
	"github.com/heimdex/heimdex-timeline/internal/project"
)

func (e *Executor) applyClip(p *project.Project, verb string, params action.Params) (outcome, error) {
	switch verb {
	case "add":
		return e.clipAdd(p, params)
	case "restore", "rippleRestore":
		return outcome{}, clipRestore(p, params, verb == "rippleRestore")
	case "roll":
		return outcome{}, clipRoll(p, params)
	}

	c, ti, err := clipByID(p, params.GetString("clipId"))
	if err != nil {
		return outcome{}, err
	}
	track := p.Timeline.Tracks[ti]

	switch verb {
	case "remove":
		track.Clips = project.RemoveAt(track.Clips, track.ClipIndex(c.ID))
		track.Transitions = dropTransitionsOf(track.Transitions, c.ID)
		p.SetTrack(ti, track)

	case "rippleDelete":
		_, after := track.RippleTimings(c)
		track.Clips = project.RemoveAt(track.Clips, track.ClipIndex(c.ID))
		track.Transitions = dropTransitionsOf(track.Transitions, c.ID)
		p.SetTrack(ti, track)
		p.ApplyTimings(ti, after)

	case "move":
		return outcome{}, e.clipMove(p, c, ti, params)

	case "trim":
		if ok, err := restoreTimings(p, ti, params); ok || err != nil {
			return outcome{}, err
		}
		t := c.Trim(optionalFloat(params, "inPoint"), optionalFloat(params, "outPoint"), optionalFloat(params, "startTime"))
		p.ApplyTimings(ti, []project.ClipTiming{t})

	case "split":
		return clipSplit(p, c, ti, params)

	case "merge":
		return outcome{}, clipMerge(p, c, ti, params)

	case "slip":
		if ok, err := restoreTimings(p, ti, params); ok || err != nil {
			return outcome{}, err
		}
		in, ok := params.Float("inPoint")
		if !ok {
			in = c.InPoint + params.GetFloat("offset")
		}
		p.ApplyTimings(ti, []project.ClipTiming{c.Slip(in)})

	case "slide":
		if ok, err := restoreTimings(p, ti, params); ok || err != nil {
			return outcome{}, err
		}
		p.ApplyTimings(ti, track.SlideTimings(track.ClipIndex(c.ID), params.GetFloat("delta")))

	case "trimToPlayhead":
		t := c.TrimToPlayhead(params.GetFloat("playhead"), params.GetString("side"))
		p.ApplyTimings(ti, []project.ClipTiming{t})

	default:
		return outcome{}, unknownVerb(action.CategoryClip, verb)
	}
	return outcome{}, nil
}

func (e *Executor) clipAdd(p *project.Project, params action.Params) (outcome, error) {
	track, ti, err := trackByID(p, params.GetString("trackId"))
	if err != nil {
		return outcome{}, err
	}
	in := params.GetFloat("inPoint")
	dur := params.GetFloat("duration")
	if out, ok := params.Float("outPoint"); ok {
		dur = out - in
	}
	start := e.resolver.Resolve(p.Timeline, track.ID, params.GetFloat("startTime"), dur, params.GetFloat("pixelsPerSecond"), "")

	c := project.Clip{
		ID:        idParam(params, "id"),
		MediaID:   params.GetString("mediaId"),
		TrackID:   track.ID,
		StartTime: start,
		Duration:  dur,
		InPoint:   in,
		OutPoint:  in + dur,
		Transform: project.DefaultTransform(),
		Volume:    1,
	}
	p.SetClips(ti, append(slices.Clone(track.Clips), c))
	return created(action.CategoryClip, c.ID, "id"), nil
}

func (e *Executor) clipMove(p *project.Project, c project.Clip, ti int, params action.Params) error {
	targetID := params.GetString("trackId")
	if targetID == "" {
		targetID = c.TrackID
	}
	target, tti, err := trackByID(p, targetID)
	if err != nil {
		return err
	}

	ts, restore, err := transitionsParam(params, "trackTransitions")
	if err != nil {
		return err
	}

	c.StartTime = e.resolver.Resolve(p.Timeline, target.ID, params.GetFloat("startTime"), c.Duration, params.GetFloat("pixelsPerSecond"), c.ID)
	if tti != ti {
		from := p.Timeline.Tracks[ti]
		p.SetClips(ti, project.RemoveAt(from.Clips, from.ClipIndex(c.ID)))
		c.TrackID = target.ID
	}
	p.PutClip(tti, c)

	track := p.Timeline.Tracks[tti]
	if restore {
		track.Transitions = ts
	} else {
		track.Transitions = dropDetachedTransitions(track, c.ID)
	}
	p.SetTrack(tti, track)
	return nil
}

func clipRestore(p *project.Project, params action.Params, ripple bool) error {
	var c project.Clip
	if err := params.Decode("clip", &c); err != nil {
		return err
	}
	_, ti, err := trackByID(p, c.TrackID)
	if err != nil {
		return err
	}

	if ripple {
		var affected []project.ClipTiming
		if params.Has("affectedClips") && params["affectedClips"] != nil {
			if err := params.Decode("affectedClips", &affected); err != nil {
				return err
			}
		}
		p.ApplyTimings(ti, affected)
	}

	track := p.Timeline.Tracks[ti]
	ts, present, err := transitionsParam(params, "trackTransitions")
	if err != nil {
		return err
	}
	if present {
		track.Transitions = ts
	}
	track.Clips = project.SortedClips(append(slices.Clone(track.Clips), c.Clone()))
	p.SetTrack(ti, track)
	return nil
}

func clipSplit(p *project.Project, c project.Clip, ti int, params action.Params) (outcome, error) {
	var left, right project.Clip
	if params.Has("leftClip") || params.Has("rightClip") {
		if err := params.Decode("leftClip", &left); err != nil {
			return outcome{}, err
		}
		if err := params.Decode("rightClip", &right); err != nil {
			return outcome{}, err
		}
		left, right = left.Clone(), right.Clone()
	} else {
		left, right = c.SplitAt(params.GetFloat("time"), idParam(params, "newClipId"))
	}

	track := p.Timeline.Tracks[ti]
	ts, present, err := transitionsParam(params, "trackTransitions")
	if err != nil {
		return outcome{}, err
	}
	if present {
		track.Transitions = ts
	} else {
		track.Transitions = retargetTransitions(track.Transitions, c.ID, right.ID)
	}
	clips := project.Replace(track.Clips, track.ClipIndex(c.ID), left)
	track.Clips = project.SortedClips(append(clips, right))
	p.SetTrack(ti, track)
	return created(action.CategoryClip, right.ID, "newClipId"), nil
}

func clipMerge(p *project.Project, left project.Clip, ti int, params action.Params) error {
	track := p.Timeline.Tracks[ti]
	ri := track.ClipIndex(params.GetString("rightClipId"))
	if ri < 0 {
		return notFound("clip", params.GetString("rightClipId"))
	}
	right := track.Clips[ri]

	var merged project.Clip
	if params.Has("originalClip") {
		if err := params.Decode("originalClip", &merged); err != nil {
			return err
		}
		merged = merged.Clone()
	} else {
		merged = project.Merge(left, right)
	}

	ts, present, err := transitionsParam(params, "trackTransitions")
	if err != nil {
		return err
	}
	if present {
		track.Transitions = ts
	} else {
		track.Transitions = retargetTransitions(track.Transitions, right.ID, left.ID)
	}

	clips := make([]project.Clip, 0, len(track.Clips)-1)
	for _, o := range track.Clips {
		switch o.ID {
		case left.ID:
			clips = append(clips, merged)
		case right.ID:
		default:
			clips = append(clips, o)
		}
	}
	track.Clips = project.SortedClips(clips)
	p.SetTrack(ti, track)
	return nil
}

func clipRoll(p *project.Project, params action.Params) error {
	left, ti, err := clipByID(p, params.GetString("leftClipId"))
	if err != nil {
		return err
	}
	right, _, err := clipByID(p, params.GetString("rightClipId"))
	if err != nil {
		return err
	}
	if ok, err := restoreTimings(p, ti, params); ok || err != nil {
		return err
	}
	l, r := project.RollTimings(left, right, params.GetFloat("delta"))
	p.ApplyTimings(ti, []project.ClipTiming{l, r})
	return nil
}

// restoreTimings applies an absolute "restore" timing list when params
// carry one.
func restoreTimings(p *project.Project, ti int, params action.Params) (bool, error) {
	if !params.Has("restore") {
		return false, nil
	}
	var timings []project.ClipTiming
	if err := params.Decode("restore", &timings); err != nil {
		return true, err
	}
	p.ApplyTimings(ti, timings)
	return true, nil
}

// dropTransitionsOf returns ts without the transitions that touch clipID.
func dropTransitionsOf(ts []project.Transition, clipID string) []project.Transition {
	var out []project.Transition
	for _, t := range ts {
		if t.ClipAID != clipID && t.ClipBID != clipID {
			out = append(out, t)
		}
	}
	return out
}

// dropDetachedTransitions returns the transitions of t, minus those that
// touch clipID and no longer join two adjacent clips.
func dropDetachedTransitions(t project.Track, clipID string) []project.Transition {
	var out []project.Transition
	for _, tr := range t.Transitions {
		if tr.ClipAID == clipID || tr.ClipBID == clipID {
			ai, bi := t.ClipIndex(tr.ClipAID), t.ClipIndex(tr.ClipBID)
			if ai < 0 || bi < 0 || !project.ClipsAdjacent(t.Clips[ai], t.Clips[bi]) {
				continue
			}
		}
		out = append(out, tr)
	}
	return out
}

// retargetTransitions moves transitions that leave from the clip `from` so
// they leave from `to` instead.
func retargetTransitions(ts []project.Transition, from, to string) []project.Transition {
	if len(ts) == 0 {
		return nil
	}
	out := make([]project.Transition, len(ts))
	for i, t := range ts {
		if t.ClipAID == from {
			t = t.Clone()
			t.ClipAID = to
		}
		out[i] = t
	}
	return out
}
