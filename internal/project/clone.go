package project

// Clone functions copy every nested collection so the result shares no
// backing storage with the receiver. Empty collections come back as nil.

func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	return &Project{
		ID:       p.ID,
		Name:     p.Name,
		Settings: p.Settings,
		Timeline: p.Timeline.Clone(),
		MediaLibrary: MediaLibrary{
			Items: cloneSlice(p.MediaLibrary.Items, MediaItem.Clone),
		},
	}
}

func (t Timeline) Clone() Timeline {
	return Timeline{
		Tracks:    cloneSlice(t.Tracks, Track.Clone),
		Subtitles: cloneSlice(t.Subtitles, Subtitle.Clone),
	}
}

func (t Track) Clone() Track {
	t.Clips = cloneSlice(t.Clips, Clip.Clone)
	t.Transitions = cloneSlice(t.Transitions, Transition.Clone)
	return t
}

func (c Clip) Clone() Clip {
	c.Effects = cloneSlice(c.Effects, Effect.Clone)
	c.AudioEffects = cloneSlice(c.AudioEffects, Effect.Clone)
	c.Keyframes = cloneSlice(c.Keyframes, Keyframe.Clone)
	if c.Fade != nil {
		f := *c.Fade
		c.Fade = &f
	}
	if c.Automation != nil {
		c.Automation = &Automation{Volume: cloneSlice(c.Automation.Volume, identity[AutomationPoint])}
	}
	return c
}

func (e Effect) Clone() Effect {
	e.Params = CloneParams(e.Params)
	return e
}

func (k Keyframe) Clone() Keyframe {
	k.Value = CloneValue(k.Value)
	return k
}

func (t Transition) Clone() Transition {
	t.Params = CloneParams(t.Params)
	return t
}

func (s Subtitle) Clone() Subtitle {
	if s.Style != nil {
		st := *s.Style
		s.Style = &st
	}
	return s
}

func (m MediaItem) Clone() MediaItem {
	m.WaveformData = cloneSlice(m.WaveformData, identity[float64])
	return m
}

// CloneParams deep-copies a free-form parameter map.
func CloneParams(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies JSON-shaped values (maps, slices, scalars).
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = CloneValue(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = CloneValue(vv)
		}
		return out
	case []float64:
		return append([]float64(nil), t...)
	default:
		return v
	}
}

func cloneSlice[T any](in []T, clone func(T) T) []T {
	if len(in) == 0 {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = clone(v)
	}
	return out
}

func identity[T any](v T) T { return v }
