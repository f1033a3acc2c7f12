package validate

import (
	"fmt"

	"github.com/heimdex/heimdex-timeline/internal/action"
	"github.com/heimdex/heimdex-timeline/internal/project"
)

// checker accumulates violations for one action. Lookup helpers report a
// missing reference and return ok=false so callers can skip dependent
// checks without stopping the rest.
type checker struct {
	params action.Params
	p      *project.Project
	errs   []action.ValidationError
}

func (c *checker) fail(code, path, format string, args ...any) {
	c.errs = append(c.errs, action.ValidationError{Code: code, Message: fmt.Sprintf(format, args...), Path: path})
}

// str requires a non-empty string.
func (c *checker) str(key string) (string, bool) {
	s, ok := c.params.String(key)
	if !ok || s == "" {
		c.fail(action.CodeInvalidParams, key, "%s is required and must be a non-empty string", key)
		return "", false
	}
	return s, true
}

// optStr accepts a missing key; ok reports a present, well-typed value.
func (c *checker) optStr(key string) (string, bool) {
	if !c.params.Has(key) {
		return "", false
	}
	s, ok := c.params.String(key)
	if !ok {
		c.fail(action.CodeInvalidParams, key, "%s must be a string", key)
	}
	return s, ok
}

func (c *checker) num(key string) (float64, bool) {
	f, ok := c.params.Float(key)
	if !ok {
		c.fail(action.CodeInvalidParams, key, "%s is required and must be a number", key)
	}
	return f, ok
}

func (c *checker) optNum(key string) (float64, bool) {
	if !c.params.Has(key) {
		return 0, false
	}
	f, ok := c.params.Float(key)
	if !ok {
		c.fail(action.CodeInvalidParams, key, "%s must be a number", key)
	}
	return f, ok
}

func (c *checker) boolean(key string) (bool, bool) {
	b, ok := c.params.Bool(key)
	if !ok {
		c.fail(action.CodeInvalidParams, key, "%s is required and must be a boolean", key)
	}
	return b, ok
}

func (c *checker) optBool(key string) (bool, bool) {
	if !c.params.Has(key) {
		return false, false
	}
	b, ok := c.params.Bool(key)
	if !ok {
		c.fail(action.CodeInvalidParams, key, "%s must be a boolean", key)
	}
	return b, ok
}

// optObject accepts a missing key, a JSON object, or a typed struct value.
func (c *checker) optObject(key string) bool {
	v, present := c.params[key]
	if !present {
		return false
	}
	if _, ok := v.(map[string]any); ok || isStructLike(v) {
		return true
	}
	c.fail(action.CodeInvalidParams, key, "%s must be an object", key)
	return false
}

// decode requires key and decodes it into dst.
func (c *checker) decode(key string, dst any) bool {
	if err := c.params.Decode(key, dst); err != nil {
		c.fail(action.CodeInvalidParams, key, "%s is invalid: %v", key, err)
		return false
	}
	return true
}

// optDecode decodes key when present and not null.
func (c *checker) optDecode(key string, dst any) bool {
	if v, ok := c.params[key]; !ok || v == nil {
		return false
	}
	return c.decode(key, dst)
}

func (c *checker) nonNegative(path string, v float64) {
	if v < 0 {
		c.fail(action.CodeOutOfBounds, path, "%s must be >= 0, got %g", path, v)
	}
}

func (c *checker) positive(path string, v float64) {
	if v <= 0 {
		c.fail(action.CodeOutOfBounds, path, "%s must be > 0, got %g", path, v)
	}
}

func (c *checker) between(path string, v, lo, hi float64) {
	if v < lo || v > hi {
		c.fail(action.CodeOutOfBounds, path, "%s must be between %g and %g, got %g", path, lo, hi, v)
	}
}

// index requires an integer position in [0, n).
func (c *checker) index(key string, n int) (int, bool) {
	f, ok := c.num(key)
	if !ok {
		return 0, false
	}
	i := int(f)
	if float64(i) != f || i < 0 || i >= n {
		c.fail(action.CodeOutOfBounds, key, "%s must be an integer in [0, %d), got %g", key, n, f)
		return 0, false
	}
	return i, true
}

// optPosition accepts an insertion position; values past the end append.
func (c *checker) optPosition(key string) {
	if f, ok := c.optNum(key); ok {
		c.nonNegative(key, f)
	}
}

func (c *checker) trackRef(key string) (project.Track, bool) {
	id, ok := c.str(key)
	if !ok {
		return project.Track{}, false
	}
	t, _, found := c.p.FindTrack(id)
	if !found {
		c.fail(action.CodeTrackNotFound, key, "track %q not found", id)
		return project.Track{}, false
	}
	return t, true
}

// unlockedTrackRef also rejects locked tracks.
func (c *checker) unlockedTrackRef(key string) (project.Track, bool) {
	t, ok := c.trackRef(key)
	if ok && t.Locked {
		c.fail(action.CodeTrackLocked, key, "track %q is locked", t.ID)
	}
	return t, ok
}

func (c *checker) clipRef(key string) (project.Clip, bool) {
	id, ok := c.str(key)
	if !ok {
		return project.Clip{}, false
	}
	clip, _, _, found := c.p.FindClip(id)
	if !found {
		c.fail(action.CodeClipNotFound, key, "clip %q not found", id)
		return project.Clip{}, false
	}
	return clip, true
}

// editableClipRef resolves a clip and rejects it when its track is locked.
func (c *checker) editableClipRef(key string) (project.Clip, bool) {
	clip, ok := c.clipRef(key)
	if ok && c.p.ClipTrackLocked(clip.ID) {
		c.fail(action.CodeTrackLocked, key, "clip %q is on locked track %q", clip.ID, clip.TrackID)
	}
	return clip, ok
}

func (c *checker) mediaRef(key string) (project.MediaItem, bool) {
	id, ok := c.str(key)
	if !ok {
		return project.MediaItem{}, false
	}
	m, _, found := c.p.FindMedia(id)
	if !found {
		c.fail(action.CodeMediaNotFound, key, "media %q not found", id)
		return project.MediaItem{}, false
	}
	return m, true
}

func (c *checker) subtitleRef(key string) (project.Subtitle, bool) {
	id, ok := c.str(key)
	if !ok {
		return project.Subtitle{}, false
	}
	s, _, found := c.p.FindSubtitle(id)
	if !found {
		c.fail(action.CodeSubtitleNotFound, key, "subtitle %q not found", id)
		return project.Subtitle{}, false
	}
	return s, true
}

// timeRange requires end > start.
func (c *checker) timeRange(path string, start, end float64) {
	if end <= start {
		c.fail(action.CodeInvalidTimeRange, path, "end (%g) must be greater than start (%g)", end, start)
	}
}

// withinMedia rejects source out-points past the end of the media when its
// duration is known.
func (c *checker) withinMedia(mediaID string, outPoint float64, path string) {
	m, _, ok := c.p.FindMedia(mediaID)
	if !ok || m.Metadata.Duration <= 0 {
		return
	}
	if outPoint > m.Metadata.Duration+project.AdjacencyTolerance {
		c.fail(action.CodeOutOfBounds, path, "out point %g exceeds media duration %g", outPoint, m.Metadata.Duration)
	}
}

func isStructLike(v any) bool {
	switch v.(type) {
	case nil, string, bool, float64, float32, int, int64, int32, []any:
		return false
	}
	return true
}
