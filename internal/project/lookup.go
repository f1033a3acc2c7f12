package project

import (
	"cmp"
	"math"
	"slices"
)

func (p *Project) FindTrack(id string) (Track, int, bool) {
	for i, t := range p.Timeline.Tracks {
		if t.ID == id {
			return t, i, true
		}
	}
	return Track{}, -1, false
}

// FindClip locates a clip anywhere on the timeline and reports the indices of
// its track and of the clip within that track.
func (p *Project) FindClip(id string) (Clip, int, int, bool) {
	for ti, t := range p.Timeline.Tracks {
		for ci, c := range t.Clips {
			if c.ID == id {
				return c, ti, ci, true
			}
		}
	}
	return Clip{}, -1, -1, false
}

func (p *Project) FindTransition(id string) (Transition, int, int, bool) {
	for ti, t := range p.Timeline.Tracks {
		for i, tr := range t.Transitions {
			if tr.ID == id {
				return tr, ti, i, true
			}
		}
	}
	return Transition{}, -1, -1, false
}

func (p *Project) FindMedia(id string) (MediaItem, int, bool) {
	for i, m := range p.MediaLibrary.Items {
		if m.ID == id {
			return m, i, true
		}
	}
	return MediaItem{}, -1, false
}

func (p *Project) FindSubtitle(id string) (Subtitle, int, bool) {
	for i, s := range p.Timeline.Subtitles {
		if s.ID == id {
			return s, i, true
		}
	}
	return Subtitle{}, -1, false
}

// ClipTrackLocked reports whether the clip sits on a locked track. Unknown
// clips report false; existence is checked separately.
func (p *Project) ClipTrackLocked(clipID string) bool {
	_, ti, _, ok := p.FindClip(clipID)
	return ok && p.Timeline.Tracks[ti].Locked
}

func (t Track) ClipIndex(id string) int {
	for i, c := range t.Clips {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Neighbors returns the indices of the clips that touch the clip at i on its
// left and right edges, or -1 when there is none.
func (t Track) Neighbors(i int) (left, right int) {
	left, right = -1, -1
	c := t.Clips[i]
	for j, o := range t.Clips {
		if j == i {
			continue
		}
		if Adjacent(o.EndTime(), c.StartTime) {
			left = j
		}
		if Adjacent(c.EndTime(), o.StartTime) {
			right = j
		}
	}
	return left, right
}

// Adjacent reports whether two edge times coincide within AdjacencyTolerance.
func Adjacent(a, b float64) bool {
	return math.Abs(a-b) <= AdjacencyTolerance
}

// ClipsAdjacent reports whether a and b touch in either order.
func ClipsAdjacent(a, b Clip) bool {
	return Adjacent(a.EndTime(), b.StartTime) || Adjacent(b.EndTime(), a.StartTime)
}

func (c Clip) FindEffect(id string, audio bool) (Effect, int, bool) {
	for i, e := range c.EffectList(audio) {
		if e.ID == id {
			return e, i, true
		}
	}
	return Effect{}, -1, false
}

// EffectList returns the audio or video effect chain.
func (c Clip) EffectList(audio bool) []Effect {
	if audio {
		return c.AudioEffects
	}
	return c.Effects
}

// WithEffectList returns a copy of c with the selected chain replaced.
func (c Clip) WithEffectList(audio bool, effects []Effect) Clip {
	if audio {
		c.AudioEffects = effects
	} else {
		c.Effects = effects
	}
	return c
}

func (c Clip) FindKeyframe(id string) (Keyframe, int, bool) {
	for i, k := range c.Keyframes {
		if k.ID == id {
			return k, i, true
		}
	}
	return Keyframe{}, -1, false
}

// HasKeyframeAt reports whether a keyframe other than excludeID already
// animates property at time.
func (c Clip) HasKeyframeAt(property string, time float64, excludeID string) bool {
	for _, k := range c.Keyframes {
		if k.ID != excludeID && k.Property == property && k.Time == time {
			return true
		}
	}
	return false
}

// Replace returns a new slice with element i set to v.
func Replace[T any](s []T, i int, v T) []T {
	out := slices.Clone(s)
	out[i] = v
	return out
}

// Insert returns a new slice with v inserted at i, clamped to the bounds.
func Insert[T any](s []T, i int, v T) []T {
	i = max(0, min(i, len(s)))
	out := make([]T, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, v)
	return append(out, s[i:]...)
}

// RemoveAt returns a new slice without element i. An empty result is nil.
func RemoveAt[T any](s []T, i int) []T {
	if len(s) <= 1 {
		return nil
	}
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

// Move returns a new slice with the element at from relocated to to.
func Move[T any](s []T, from, to int) []T {
	v := s[from]
	rest := RemoveAt(s, from)
	return Insert(rest, to, v)
}

// SortedClips returns a new slice ordered by start time.
func SortedClips(clips []Clip) []Clip {
	out := slices.Clone(clips)
	slices.SortStableFunc(out, func(a, b Clip) int { return cmp.Compare(a.StartTime, b.StartTime) })
	return out
}

func SortedKeyframes(kfs []Keyframe) []Keyframe {
	out := slices.Clone(kfs)
	slices.SortStableFunc(out, func(a, b Keyframe) int {
		if c := cmp.Compare(a.Time, b.Time); c != 0 {
			return c
		}
		return cmp.Compare(a.Property, b.Property)
	})
	return out
}

func SortedSubtitles(subs []Subtitle) []Subtitle {
	out := slices.Clone(subs)
	slices.SortStableFunc(out, func(a, b Subtitle) int { return cmp.Compare(a.StartTime, b.StartTime) })
	return out
}

// SetTrack replaces the track at i on a fresh track slice.
func (p *Project) SetTrack(i int, t Track) {
	p.Timeline.Tracks = Replace(p.Timeline.Tracks, i, t)
}

// SetClips installs a new clip list on the track at ti, keeping start-time
// order.
func (p *Project) SetClips(ti int, clips []Clip) {
	t := p.Timeline.Tracks[ti]
	if len(clips) == 0 {
		t.Clips = nil
	} else {
		t.Clips = SortedClips(clips)
	}
	p.SetTrack(ti, t)
}

// PutClip replaces the clip with the same id on track ti.
func (p *Project) PutClip(ti int, c Clip) {
	t := p.Timeline.Tracks[ti]
	ci := t.ClipIndex(c.ID)
	if ci < 0 {
		p.SetClips(ti, append(slices.Clone(t.Clips), c))
		return
	}
	p.SetClips(ti, Replace(t.Clips, ci, c))
}
