package project

import "math"

// The functions in this file compute the outcome of multi-field clip edits
// without touching a project, so validation, inverse generation and the
// apply handlers all agree on the result.

// Trim returns the timing after setting any of the in point, out point and
// start. When the in point moves and no start is given, the start follows
// it so the clip's tail stays in place on the timeline.
func (c Clip) Trim(inPoint, outPoint, startTime *float64) ClipTiming {
	t := c.Timing()
	if inPoint != nil {
		t.StartTime += *inPoint - c.InPoint
		t.InPoint = *inPoint
	}
	if outPoint != nil {
		t.OutPoint = *outPoint
	}
	if startTime != nil {
		t.StartTime = *startTime
	}
	t.Duration = t.OutPoint - t.InPoint
	return t
}

// TrimToPlayhead cuts the clip at playhead, discarding the part before it
// (side "start") or after it (any other side).
func (c Clip) TrimToPlayhead(playhead float64, side string) ClipTiming {
	offset := playhead - c.StartTime
	t := c.Timing()
	if side == "start" {
		return t.AdvanceStart(offset)
	}
	t.OutPoint = t.InPoint + offset
	t.Duration = offset
	return t
}

// Slip moves the source window to start at inPoint without moving the clip
// on the timeline.
func (c Clip) Slip(inPoint float64) ClipTiming {
	t := c.Timing()
	t.InPoint = inPoint
	t.OutPoint = inPoint + c.Duration
	return t
}

// SplitAt cuts c at the timeline time t. The left half keeps c's id; the
// right half takes rightID. Keyframes and automation points at or after the
// cut move to the right half, rebased to its start.
func (c Clip) SplitAt(t float64, rightID string) (left, right Clip) {
	offset := t - c.StartTime
	left = c.Clone()
	right = c.Clone()

	left.Duration = offset
	left.OutPoint = c.InPoint + offset

	right.ID = rightID
	right.StartTime = t
	right.InPoint = c.InPoint + offset
	right.Duration = c.Duration - offset

	left.Keyframes, right.Keyframes = nil, nil
	for _, k := range c.Keyframes {
		if k.Time < offset {
			left.Keyframes = append(left.Keyframes, k.Clone())
		} else {
			k = k.Clone()
			k.Time -= offset
			right.Keyframes = append(right.Keyframes, k)
		}
	}

	if c.Fade != nil {
		left.Fade = &Fade{FadeIn: math.Min(c.Fade.FadeIn, left.Duration)}
		right.Fade = &Fade{FadeOut: math.Min(c.Fade.FadeOut, right.Duration)}
	}
	if c.Automation != nil {
		var l, r []AutomationPoint
		for _, pt := range c.Automation.Volume {
			if pt.Time < offset {
				l = append(l, pt)
			} else {
				r = append(r, AutomationPoint{Time: pt.Time - offset, Value: pt.Value})
			}
		}
		left.Automation = &Automation{Volume: l}
		right.Automation = &Automation{Volume: r}
	}
	return left, right
}

// Merge joins right onto the end of left. The result keeps left's id and
// effects; right's keyframes and automation are rebased onto the joined
// clip, skipping keyframes that would collide with one of left's.
func Merge(left, right Clip) Clip {
	out := left.Clone()
	out.Duration = left.Duration + right.Duration
	out.OutPoint = right.OutPoint

	for _, k := range right.Keyframes {
		k = k.Clone()
		k.Time += left.Duration
		if out.HasKeyframeAt(k.Property, k.Time, "") {
			continue
		}
		out.Keyframes = append(out.Keyframes, k)
	}
	if len(out.Keyframes) > 0 {
		out.Keyframes = SortedKeyframes(out.Keyframes)
	}

	if left.Fade != nil || right.Fade != nil {
		f := Fade{}
		if left.Fade != nil {
			f.FadeIn = left.Fade.FadeIn
		}
		if right.Fade != nil {
			f.FadeOut = right.Fade.FadeOut
		}
		out.Fade = &f
	}
	if right.Automation != nil && len(right.Automation.Volume) > 0 {
		var pts []AutomationPoint
		if out.Automation != nil {
			pts = out.Automation.Volume
		}
		for _, pt := range right.Automation.Volume {
			pts = append(pts, AutomationPoint{Time: pt.Time + left.Duration, Value: pt.Value})
		}
		out.Automation = &Automation{Volume: pts}
	}
	return out
}

// RippleTimings returns the current and shifted timings of every clip on t
// that starts at or after the end of clip, which is about to be removed.
func (t Track) RippleTimings(clip Clip) (before, after []ClipTiming) {
	end := clip.EndTime()
	for _, o := range t.Clips {
		if o.ID == clip.ID || o.StartTime < end-AdjacencyTolerance {
			continue
		}
		before = append(before, o.Timing())
		after = append(after, o.Timing().Shift(-clip.Duration))
	}
	return before, after
}

// SlideTimings returns the timings after sliding the clip at ci by delta:
// the clip moves, the neighbour touching its head grows or shrinks at its
// tail, and the neighbour touching its tail grows or shrinks at its head.
// The moved clip comes first.
func (t Track) SlideTimings(ci int, delta float64) []ClipTiming {
	out := []ClipTiming{t.Clips[ci].Timing().Shift(delta)}
	left, right := t.Neighbors(ci)
	if left >= 0 {
		out = append(out, t.Clips[left].Timing().ExtendEnd(delta))
	}
	if right >= 0 {
		out = append(out, t.Clips[right].Timing().AdvanceStart(delta))
	}
	return out
}

// SlideNeighborIDs lists the clips a slide of the clip at ci would touch,
// the clip itself first.
func (t Track) SlideNeighborIDs(ci int) []string {
	ids := []string{t.Clips[ci].ID}
	left, right := t.Neighbors(ci)
	if left >= 0 {
		ids = append(ids, t.Clips[left].ID)
	}
	if right >= 0 {
		ids = append(ids, t.Clips[right].ID)
	}
	return ids
}

// RollTimings moves the boundary between two adjacent clips by delta.
func RollTimings(left, right Clip, delta float64) (ClipTiming, ClipTiming) {
	return left.Timing().ExtendEnd(delta), right.Timing().AdvanceStart(delta)
}

// Timings returns the current timings of the named clips on t, in order.
func (t Track) Timings(ids []string) []ClipTiming {
	out := make([]ClipTiming, 0, len(ids))
	for _, id := range ids {
		if i := t.ClipIndex(id); i >= 0 {
			out = append(out, t.Clips[i].Timing())
		}
	}
	return out
}

// ApplyTimings installs timings on the clips of track ti that they name and
// keeps the track ordered. Unknown clip ids are ignored.
func (p *Project) ApplyTimings(ti int, timings []ClipTiming) {
	t := p.Timeline.Tracks[ti]
	clips := make([]Clip, len(t.Clips))
	copy(clips, t.Clips)
	for _, tm := range timings {
		if i := t.ClipIndex(tm.ClipID); i >= 0 {
			clips[i] = clips[i].WithTiming(tm)
		}
	}
	p.SetClips(ti, clips)
}
