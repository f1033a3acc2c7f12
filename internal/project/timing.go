package project

// ClipTiming is the placement of a clip on the timeline and in its source
// media. Edits that move several clips at once record and restore these.
type ClipTiming struct {
	ClipID    string  `json:"clipId"`
	StartTime float64 `json:"startTime"`
	Duration  float64 `json:"duration"`
	InPoint   float64 `json:"inPoint"`
	OutPoint  float64 `json:"outPoint"`
}

func (c Clip) Timing() ClipTiming {
	return ClipTiming{
		ClipID:    c.ID,
		StartTime: c.StartTime,
		Duration:  c.Duration,
		InPoint:   c.InPoint,
		OutPoint:  c.OutPoint,
	}
}

// WithTiming returns a copy of c placed at t. The clip id is not changed.
func (c Clip) WithTiming(t ClipTiming) Clip {
	c.StartTime = t.StartTime
	c.Duration = t.Duration
	c.InPoint = t.InPoint
	c.OutPoint = t.OutPoint
	return c
}

// Shift returns the timing moved by delta on the timeline only.
func (t ClipTiming) Shift(delta float64) ClipTiming {
	t.StartTime += delta
	return t
}

// ExtendEnd grows or shrinks the tail of the clip by delta, keeping its
// start and in-point.
func (t ClipTiming) ExtendEnd(delta float64) ClipTiming {
	t.Duration += delta
	t.OutPoint += delta
	return t
}

// AdvanceStart moves the head of the clip by delta on both the timeline and
// the source, keeping its end where it was.
func (t ClipTiming) AdvanceStart(delta float64) ClipTiming {
	t.StartTime += delta
	t.InPoint += delta
	t.Duration -= delta
	return t
}
