package project

// Patches name exactly the mutable fields of an entity. A nil field leaves
// the current value alone; a set field replaces it.

type TransformPatch struct {
	Position *Vec2    `json:"position,omitempty"`
	Scale    *Vec2    `json:"scale,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	Anchor   *Vec2    `json:"anchor,omitempty"`
	Opacity  *float64 `json:"opacity,omitempty"`
}

func (p TransformPatch) Apply(t Transform) Transform {
	if p.Position != nil {
		t.Position = *p.Position
	}
	if p.Scale != nil {
		t.Scale = *p.Scale
	}
	if p.Rotation != nil {
		t.Rotation = *p.Rotation
	}
	if p.Anchor != nil {
		t.Anchor = *p.Anchor
	}
	if p.Opacity != nil {
		t.Opacity = *p.Opacity
	}
	return t
}

// Capture returns a patch holding the current values of every field p sets.
func (p TransformPatch) Capture(t Transform) TransformPatch {
	var out TransformPatch
	if p.Position != nil {
		out.Position = ptr(t.Position)
	}
	if p.Scale != nil {
		out.Scale = ptr(t.Scale)
	}
	if p.Rotation != nil {
		out.Rotation = ptr(t.Rotation)
	}
	if p.Anchor != nil {
		out.Anchor = ptr(t.Anchor)
	}
	if p.Opacity != nil {
		out.Opacity = ptr(t.Opacity)
	}
	return out
}

type SettingsPatch struct {
	Width           *int     `json:"width,omitempty"`
	Height          *int     `json:"height,omitempty"`
	FrameRate       *float64 `json:"frameRate,omitempty"`
	SampleRate      *int     `json:"sampleRate,omitempty"`
	BackgroundColor *string  `json:"backgroundColor,omitempty"`
}

func (p SettingsPatch) Apply(s Settings) Settings {
	if p.Width != nil {
		s.Width = *p.Width
	}
	if p.Height != nil {
		s.Height = *p.Height
	}
	if p.FrameRate != nil {
		s.FrameRate = *p.FrameRate
	}
	if p.SampleRate != nil {
		s.SampleRate = *p.SampleRate
	}
	if p.BackgroundColor != nil {
		s.BackgroundColor = *p.BackgroundColor
	}
	return s
}

func (p SettingsPatch) Capture(s Settings) SettingsPatch {
	var out SettingsPatch
	if p.Width != nil {
		out.Width = ptr(s.Width)
	}
	if p.Height != nil {
		out.Height = ptr(s.Height)
	}
	if p.FrameRate != nil {
		out.FrameRate = ptr(s.FrameRate)
	}
	if p.SampleRate != nil {
		out.SampleRate = ptr(s.SampleRate)
	}
	if p.BackgroundColor != nil {
		out.BackgroundColor = ptr(s.BackgroundColor)
	}
	return out
}

// EffectPatch merges Params key by key unless ReplaceParams is set, in which
// case Params becomes the whole map.
type EffectPatch struct {
	Params        map[string]any `json:"params,omitempty"`
	ReplaceParams bool           `json:"replaceParams,omitempty"`
	Enabled       *bool          `json:"enabled,omitempty"`
}

func (p EffectPatch) Apply(e Effect) Effect {
	switch {
	case p.ReplaceParams:
		e.Params = CloneParams(p.Params)
	case len(p.Params) > 0:
		merged := CloneParams(e.Params)
		if merged == nil {
			merged = make(map[string]any, len(p.Params))
		}
		for k, v := range p.Params {
			merged[k] = CloneValue(v)
		}
		e.Params = merged
	}
	if p.Enabled != nil {
		e.Enabled = *p.Enabled
	}
	return e
}

type KeyframePatch struct {
	Time   *float64 `json:"time,omitempty"`
	Value  any      `json:"value,omitempty"`
	Easing *string  `json:"easing,omitempty"`
}

func (p KeyframePatch) Apply(k Keyframe) Keyframe {
	if p.Time != nil {
		k.Time = *p.Time
	}
	if p.Value != nil {
		k.Value = CloneValue(p.Value)
	}
	if p.Easing != nil {
		k.Easing = *p.Easing
	}
	return k
}

type TransitionPatch struct {
	Type     *string        `json:"type,omitempty"`
	Duration *float64       `json:"duration,omitempty"`
	Params   map[string]any `json:"params,omitempty"`
}

// Apply replaces Params wholesale when the patch carries any.
func (p TransitionPatch) Apply(t Transition) Transition {
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Duration != nil {
		t.Duration = *p.Duration
	}
	if p.Params != nil {
		t.Params = CloneParams(p.Params)
	}
	return t
}

type SubtitlePatch struct {
	Text      *string  `json:"text,omitempty"`
	StartTime *float64 `json:"startTime,omitempty"`
	EndTime   *float64 `json:"endTime,omitempty"`
}

func (p SubtitlePatch) Apply(s Subtitle) Subtitle {
	if p.Text != nil {
		s.Text = *p.Text
	}
	if p.StartTime != nil {
		s.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		s.EndTime = *p.EndTime
	}
	return s
}

func ptr[T any](v T) *T { return &v }
