package validate

import (
	"math"

	"github.com/heimdex/heimdex-timeline/internal/action"
	"github.com/heimdex/heimdex-timeline/internal/placement"
	"github.com/heimdex/heimdex-timeline/internal/project"
)

func (c *checker) clip(verb string) bool {
	switch verb {
	case "add":
		c.clipAdd()
	case "remove", "rippleDelete":
		c.editableClipRef("clipId")
	case "restore", "rippleRestore":
		c.clipRestore(verb == "rippleRestore")
	case "move":
		c.clipMove()
	case "trim":
		c.clipTrim()
	case "split":
		c.clipSplit()
	case "merge":
		c.clipMerge()
	case "slip":
		c.clipSlip()
	case "slide":
		c.clipSlide()
	case "roll":
		c.clipRoll()
	case "trimToPlayhead":
		c.clipTrimToPlayhead()
	default:
		return false
	}
	return true
}

func (c *checker) clipAdd() {
	c.unlockedTrackRef("trackId")
	media, hasMedia := c.mediaRef("mediaId")
	c.optStr("id")

	if start, ok := c.num("startTime"); ok {
		c.nonNegative("startTime", start)
	}
	dur, hasDur := c.num("duration")
	if hasDur {
		c.positive("duration", dur)
	}
	in, hasIn := c.optNum("inPoint")
	if hasIn {
		c.nonNegative("inPoint", in)
	}
	out, hasOut := c.optNum("outPoint")
	if hasOut {
		c.timeRange("outPoint", in, out)
		if hasDur && math.Abs((out-in)-dur) > project.AdjacencyTolerance {
			c.fail(action.CodeInvalidTimeRange, "duration", "duration %g does not match outPoint - inPoint (%g)", dur, out-in)
		}
	} else {
		out = in + dur
	}
	if hasMedia {
		c.withinMedia(media.ID, out, "outPoint")
	}
	if pps, ok := c.optNum("pixelsPerSecond"); ok {
		c.nonNegative("pixelsPerSecond", pps)
	}
}

func (c *checker) clipRestore(ripple bool) {
	var clip project.Clip
	if c.decode("clip", &clip) {
		if clip.ID == "" {
			c.fail(action.CodeInvalidParams, "clip.id", "clip.id is required")
		}
		t, _, ok := c.p.FindTrack(clip.TrackID)
		switch {
		case !ok:
			c.fail(action.CodeTrackNotFound, "clip.trackId", "track %q not found", clip.TrackID)
		case t.Locked:
			c.fail(action.CodeTrackLocked, "clip.trackId", "track %q is locked", t.ID)
		}
		c.timeRange("clip.outPoint", clip.InPoint, clip.OutPoint)
	}
	var transitions []project.Transition
	c.optDecode("trackTransitions", &transitions)
	if ripple {
		var affected []project.ClipTiming
		c.optDecode("affectedClips", &affected)
	}
}

func (c *checker) clipMove() {
	clip, ok := c.editableClipRef("clipId")
	start, hasStart := c.num("startTime")
	if hasStart {
		c.nonNegative("startTime", start)
	}
	if pps, ok := c.optNum("pixelsPerSecond"); ok {
		c.nonNegative("pixelsPerSecond", pps)
	}
	var transitions []project.Transition
	c.optDecode("trackTransitions", &transitions)
	if !c.params.Has("trackId") {
		return
	}
	target, found := c.unlockedTrackRef("trackId")
	if !ok || !found || target.ID == clip.TrackID {
		return
	}
	for _, tr := range c.trackOf(clip).Transitions {
		if tr.ClipAID == clip.ID || tr.ClipBID == clip.ID {
			c.fail(action.CodeInvalidParams, "trackId", "clip %q has transitions and cannot change track", clip.ID)
			return
		}
	}
}

func (c *checker) clipTrim() {
	clip, ok := c.editableClipRef("clipId")
	if c.params.Has("restore") {
		c.timingsParam("restore")
		return
	}
	in, hasIn := c.optNum("inPoint")
	out, hasOut := c.optNum("outPoint")
	start, hasStart := c.optNum("startTime")
	if !c.params.Has("inPoint") && !c.params.Has("outPoint") && !c.params.Has("startTime") {
		c.fail(action.CodeInvalidParams, "", "trim requires inPoint, outPoint or startTime")
		return
	}
	if !ok {
		return
	}
	t := clip.Trim(optional(in, hasIn), optional(out, hasOut), optional(start, hasStart))
	c.nonNegative("inPoint", t.InPoint)
	c.nonNegative("startTime", t.StartTime)
	c.timeRange("outPoint", t.InPoint, t.OutPoint)
	c.withinMedia(clip.MediaID, t.OutPoint, "outPoint")
}

func (c *checker) clipSplit() {
	clip, ok := c.editableClipRef("clipId")
	c.optStr("newClipId")
	if at, has := c.num("time"); has && ok {
		if at <= clip.StartTime || at >= clip.EndTime() {
			c.fail(action.CodeOutOfBounds, "time", "split time %g must be inside (%g, %g)", at, clip.StartTime, clip.EndTime())
		}
	}
	if c.params.Has("leftClip") || c.params.Has("rightClip") {
		var left, right project.Clip
		if c.decode("leftClip", &left) && ok && left.ID != clip.ID {
			c.fail(action.CodeInvalidParams, "leftClip.id", "leftClip must keep id %q", clip.ID)
		}
		if c.decode("rightClip", &right) && right.ID == "" {
			c.fail(action.CodeInvalidParams, "rightClip.id", "rightClip.id is required")
		}
	}
}

func (c *checker) clipMerge() {
	left, okL := c.editableClipRef("clipId")
	right, okR := c.editableClipRef("rightClipId")
	if !okL || !okR {
		return
	}
	if left.TrackID != right.TrackID {
		c.fail(action.CodeInvalidParams, "rightClipId", "clips %q and %q are on different tracks", left.ID, right.ID)
		return
	}
	if c.params.Has("originalClip") {
		var orig project.Clip
		if c.decode("originalClip", &orig) && orig.ID != left.ID {
			c.fail(action.CodeInvalidParams, "originalClip.id", "originalClip must have id %q", left.ID)
		}
		return
	}
	if !project.Adjacent(left.EndTime(), right.StartTime) {
		c.fail(action.CodeClipsNotAdjacent, "rightClipId", "clip %q does not start where %q ends", right.ID, left.ID)
	}
	if left.MediaID != right.MediaID {
		c.fail(action.CodeInvalidParams, "rightClipId", "clips reference different media")
	} else if !project.Adjacent(left.OutPoint, right.InPoint) {
		c.fail(action.CodeInvalidParams, "rightClipId", "clips are not contiguous in the source media")
	}
	for _, tr := range c.trackOf(left).Transitions {
		if (tr.ClipAID == left.ID && tr.ClipBID == right.ID) || (tr.ClipAID == right.ID && tr.ClipBID == left.ID) {
			c.fail(action.CodeInvalidParams, "rightClipId", "transition %q joins the clips; remove it first", tr.ID)
		}
	}
}

func (c *checker) clipSlip() {
	clip, ok := c.editableClipRef("clipId")
	if c.params.Has("restore") {
		c.timingsParam("restore")
		return
	}
	in, hasIn := c.optNum("inPoint")
	offset, hasOffset := c.optNum("offset")
	if !c.params.Has("inPoint") && !c.params.Has("offset") {
		c.fail(action.CodeInvalidParams, "offset", "slip requires offset or inPoint")
		return
	}
	if !ok || (!hasIn && !hasOffset) {
		return
	}
	if !hasIn {
		in = clip.InPoint + offset
	}
	t := clip.Slip(in)
	c.nonNegative("inPoint", t.InPoint)
	c.withinMedia(clip.MediaID, t.OutPoint, "outPoint")
}

func (c *checker) clipSlide() {
	clip, ok := c.editableClipRef("clipId")
	if c.params.Has("restore") {
		c.timingsParam("restore")
		return
	}
	delta, hasDelta := c.num("delta")
	if !ok || !hasDelta {
		return
	}
	track := c.trackOf(clip)
	ci := track.ClipIndex(clip.ID)
	timings := track.SlideTimings(ci, delta)
	c.timingsInBounds(timings)
	if left, _ := track.Neighbors(ci); left >= 0 {
		c.withinMedia(track.Clips[left].MediaID, timings[1].OutPoint, "delta")
	}

	moved := timings[0]
	others := project.Track{ID: track.ID}
	exclude := map[string]bool{}
	for _, id := range track.SlideNeighborIDs(ci) {
		exclude[id] = true
	}
	for _, o := range track.Clips {
		if !exclude[o.ID] {
			others.Clips = append(others.Clips, o)
		}
	}
	if placement.Overlaps(others, moved.StartTime, moved.Duration, "") {
		c.fail(action.CodeOutOfBounds, "delta", "slide by %g would overlap another clip", delta)
	}
}

func (c *checker) clipRoll() {
	left, okL := c.editableClipRef("leftClipId")
	right, okR := c.editableClipRef("rightClipId")
	if okL && okR {
		if left.TrackID != right.TrackID || !project.Adjacent(left.EndTime(), right.StartTime) {
			c.fail(action.CodeClipsNotAdjacent, "rightClipId", "clip %q does not start where %q ends", right.ID, left.ID)
			okR = false
		}
	}
	if c.params.Has("restore") {
		c.timingsParam("restore")
		return
	}
	delta, hasDelta := c.num("delta")
	if !okL || !okR || !hasDelta {
		return
	}
	l, r := project.RollTimings(left, right, delta)
	c.timingsInBounds([]project.ClipTiming{l, r})
	c.withinMedia(left.MediaID, l.OutPoint, "delta")
}

func (c *checker) clipTrimToPlayhead() {
	clip, ok := c.editableClipRef("clipId")
	playhead, has := c.num("playhead")
	if side, present := c.optStr("side"); present && side != "start" && side != "end" {
		c.fail(action.CodeInvalidParams, "side", "side must be \"start\" or \"end\", got %q", side)
	}
	if ok && has && (playhead <= clip.StartTime || playhead >= clip.EndTime()) {
		c.fail(action.CodeOutOfBounds, "playhead", "playhead %g must be inside (%g, %g)", playhead, clip.StartTime, clip.EndTime())
	}
}

func (c *checker) timingsParam(key string) {
	var timings []project.ClipTiming
	if !c.decode(key, &timings) {
		return
	}
	for _, t := range timings {
		if _, _, _, ok := c.p.FindClip(t.ClipID); !ok {
			c.fail(action.CodeClipNotFound, key, "clip %q not found", t.ClipID)
		}
	}
	c.timingsInBounds(timings)
}

func (c *checker) timingsInBounds(timings []project.ClipTiming) {
	for _, t := range timings {
		if t.StartTime < 0 {
			c.fail(action.CodeOutOfBounds, "delta", "clip %q would start before zero", t.ClipID)
		}
		if t.InPoint < 0 {
			c.fail(action.CodeOutOfBounds, "delta", "clip %q would have a negative in point", t.ClipID)
		}
		if t.Duration <= 0 {
			c.fail(action.CodeOutOfBounds, "delta", "clip %q would have no duration", t.ClipID)
		}
	}
}

func (c *checker) trackOf(clip project.Clip) project.Track {
	_, ti, _, ok := c.p.FindClip(clip.ID)
	if !ok {
		return project.Track{}
	}
	return c.p.Timeline.Tracks[ti]
}

func optional(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}
