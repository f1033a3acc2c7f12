// Package placement decides where a clip lands on a track: it snaps a
// requested time to the grid or to neighbouring clip edges and then moves
// the clip to the nearest position that does not collide with anything.
package placement

import (
	"math"

	"github.com/heimdex/heimdex-timeline/internal/project"
)

const (
	DefaultGridSize        = 1.0
	DefaultSnapThresholdPx = 10.0

	// overlapEpsilon absorbs float noise when two clips merely touch.
	overlapEpsilon = 1e-9
)

// TargetKind names the family a snap candidate came from.
type TargetKind string

const (
	TargetGrid      TargetKind = "grid"
	TargetClipStart TargetKind = "clip-start"
	TargetClipEnd   TargetKind = "clip-end"
)

type SnapTarget struct {
	Kind   TargetKind `json:"kind"`
	ClipID string     `json:"clipId,omitempty"`
	Time   float64    `json:"time"`
}

type SnapResult struct {
	SnappedTime float64     `json:"snappedTime"`
	DidSnap     bool        `json:"didSnap"`
	Target      *SnapTarget `json:"snapTarget,omitempty"`
}

// Resolver holds the snapping configuration. The zero value never snaps to
// the grid and never snaps at all because the threshold is zero.
type Resolver struct {
	GridSize        float64
	SnapThresholdPx float64
}

func New(gridSize, snapThresholdPx float64) *Resolver {
	return &Resolver{GridSize: gridSize, SnapThresholdPx: snapThresholdPx}
}

// SnapToGrid returns the candidate closest to t within the pixel threshold.
// Candidates are tried grid first, then clip starts, then clip ends, and a
// later candidate only wins when it is strictly closer, so ties go to the
// earlier family.
func (r *Resolver) SnapToGrid(t float64, timeline project.Timeline, trackID string, pixelsPerSecond float64, excludeClipID string) SnapResult {
	unsnapped := SnapResult{SnappedTime: t}
	if pixelsPerSecond <= 0 || r.SnapThresholdPx <= 0 {
		return unsnapped
	}

	bestDist := r.SnapThresholdPx / pixelsPerSecond
	var best *SnapTarget
	consider := func(kind TargetKind, clipID string, candidate float64) {
		if d := math.Abs(t - candidate); d < bestDist {
			bestDist = d
			best = &SnapTarget{Kind: kind, ClipID: clipID, Time: candidate}
		}
	}

	if r.GridSize > 0 {
		consider(TargetGrid, "", math.Round(t/r.GridSize)*r.GridSize)
	}

	var clips []project.Clip
	for _, tr := range timeline.Tracks {
		if tr.ID == trackID {
			clips = tr.Clips
			break
		}
	}
	for _, c := range clips {
		if c.ID != excludeClipID {
			consider(TargetClipStart, c.ID, c.StartTime)
		}
	}
	for _, c := range clips {
		if c.ID != excludeClipID {
			consider(TargetClipEnd, c.ID, c.EndTime())
		}
	}

	if best == nil {
		return unsnapped
	}
	return SnapResult{SnappedTime: best.Time, DidSnap: true, Target: best}
}

// FindNonOverlappingPosition returns desiredStart when a clip of the given
// duration fits there. Otherwise it returns the nearest start among zero,
// the end of every other clip, and the start of every other clip minus
// duration, keeping only candidates that fit. When nothing fits the clip
// goes after the last clip on the track.
func FindNonOverlappingPosition(track project.Track, desiredStart, duration float64, excludeClipID string) float64 {
	others := make([]project.Clip, 0, len(track.Clips))
	for _, c := range track.Clips {
		if c.ID != excludeClipID {
			others = append(others, c)
		}
	}

	if !overlapsAny(others, desiredStart, duration) {
		return desiredStart
	}

	candidates := []float64{0}
	for _, c := range others {
		candidates = append(candidates, c.EndTime())
		if s := c.StartTime - duration; s >= 0 {
			candidates = append(candidates, s)
		}
	}

	best, bestDist, found := 0.0, math.Inf(1), false
	for _, c := range candidates {
		if overlapsAny(others, c, duration) {
			continue
		}
		if d := math.Abs(desiredStart - c); d < bestDist {
			best, bestDist, found = c, d, true
		}
	}
	if !found {
		// Only reachable when existing clips already overlap.
		for _, c := range others {
			best = math.Max(best, c.EndTime())
		}
	}
	return math.Max(0, best)
}

// Resolve snaps t and then moves the result off any collision.
func (r *Resolver) Resolve(timeline project.Timeline, trackID string, t, duration, pixelsPerSecond float64, excludeClipID string) float64 {
	snapped := r.SnapToGrid(t, timeline, trackID, pixelsPerSecond, excludeClipID).SnappedTime
	for _, tr := range timeline.Tracks {
		if tr.ID == trackID {
			return math.Max(0, FindNonOverlappingPosition(tr, snapped, duration, excludeClipID))
		}
	}
	return math.Max(0, snapped)
}

// Overlaps reports whether [start, start+duration) intersects any clip on
// the track other than excludeClipID.
func Overlaps(track project.Track, start, duration float64, excludeClipID string) bool {
	for _, c := range track.Clips {
		if c.ID != excludeClipID && intersects(c, start, duration) {
			return true
		}
	}
	return false
}

func overlapsAny(clips []project.Clip, start, duration float64) bool {
	for _, c := range clips {
		if intersects(c, start, duration) {
			return true
		}
	}
	return false
}

func intersects(c project.Clip, start, duration float64) bool {
	return start < c.EndTime()-overlapEpsilon && start+duration > c.StartTime+overlapEpsilon
}
