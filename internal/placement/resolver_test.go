package placement

import (
	"testing"

	"github.com/heimdex/heimdex-timeline/internal/project"
)

func clip(id string, start, dur float64) project.Clip {
	return project.Clip{ID: id, TrackID: "t1", StartTime: start, Duration: dur, OutPoint: dur}
}

func timelineWith(clips ...project.Clip) project.Timeline {
	return project.Timeline{Tracks: []project.Track{{ID: "t1", Type: project.TrackVideo, Clips: clips}}}
}

func TestSnapToGrid(t *testing.T) {
	r := New(1, 10)
	tl := timelineWith(clip("a", 2.3, 1.5), clip("b", 6.0, 2.0))

	tests := []struct {
		name       string
		time       float64
		pps        float64
		exclude    string
		wantTime   float64
		wantSnap   bool
		wantKind   TargetKind
		wantClipID string
	}{
		{name: "grid", time: 4.95, pps: 100, wantTime: 5, wantSnap: true, wantKind: TargetGrid},
		{name: "clip start", time: 2.32, pps: 100, wantTime: 2.3, wantSnap: true, wantKind: TargetClipStart, wantClipID: "a"},
		{name: "clip end", time: 3.82, pps: 100, wantTime: 3.8, wantSnap: true, wantKind: TargetClipEnd, wantClipID: "a"},
		{name: "out of threshold", time: 4.5, pps: 100, wantTime: 4.5},
		{name: "excluded clip ignored", time: 2.32, pps: 100, exclude: "a", wantTime: 2.32},
		{name: "grid wins tie with clip start", time: 6.05, pps: 100, wantTime: 6, wantSnap: true, wantKind: TargetGrid},
		{name: "no pixels per second", time: 4.95, pps: 0, wantTime: 4.95},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := r.SnapToGrid(tc.time, tl, "t1", tc.pps, tc.exclude)
			if got.DidSnap != tc.wantSnap {
				t.Fatalf("DidSnap = %v, want %v", got.DidSnap, tc.wantSnap)
			}
			if diff := got.SnappedTime - tc.wantTime; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("SnappedTime = %v, want %v", got.SnappedTime, tc.wantTime)
			}
			if !tc.wantSnap {
				if got.Target != nil {
					t.Fatalf("unexpected target %+v", got.Target)
				}
				return
			}
			if got.Target.Kind != tc.wantKind || got.Target.ClipID != tc.wantClipID {
				t.Fatalf("target = %+v, want %s/%s", got.Target, tc.wantKind, tc.wantClipID)
			}
		})
	}
}

func TestSnapToGrid_ThresholdIsExclusive(t *testing.T) {
	r := New(1, 10)
	// 10px at 20pps is 0.5s; a grid line exactly 0.5s away does not snap.
	got := r.SnapToGrid(4.9, project.Timeline{}, "t1", 80, "")
	if !got.DidSnap {
		t.Fatalf("expected snap within threshold")
	}
	got = r.SnapToGrid(4.5, project.Timeline{}, "t1", 20, "")
	if got.DidSnap {
		t.Fatalf("candidate at exactly the threshold should not snap: %+v", got)
	}
}

func TestFindNonOverlappingPosition(t *testing.T) {
	track := timelineWith(clip("a", 0, 5), clip("b", 10, 5)).Tracks[0]

	tests := []struct {
		name    string
		desired float64
		dur     float64
		exclude string
		want    float64
	}{
		{name: "free slot unchanged", desired: 5, dur: 5, want: 5},
		{name: "collides, nearest end", desired: 3, dur: 2, want: 5},
		{name: "collides, after clip", desired: 12, dur: 3, want: 15},
		{name: "start minus duration", desired: 9, dur: 2, want: 8},
		{name: "too long for gap goes after last", desired: 4, dur: 7, want: 15},
		{name: "excluded clip ignored", desired: 1, dur: 3, exclude: "a", want: 1},
		{name: "touching last clip end", desired: 15, dur: 1, want: 15},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FindNonOverlappingPosition(track, tc.desired, tc.dur, tc.exclude)
			if got != tc.want {
				t.Fatalf("FindNonOverlappingPosition(%v, %v) = %v, want %v", tc.desired, tc.dur, got, tc.want)
			}
			if Overlaps(track, got, tc.dur, tc.exclude) {
				t.Fatalf("result %v still overlaps", got)
			}
		})
	}
}

func TestResolve_SnapsThenAvoidsCollision(t *testing.T) {
	r := New(1, 10)
	tl := timelineWith(clip("a", 0, 5))

	// 4.97 snaps to the clip end at 5 (grid also at 5, grid wins) and 5 is free.
	if got := r.Resolve(tl, "t1", 4.97, 2, 100, ""); got != 5 {
		t.Fatalf("Resolve = %v, want 5", got)
	}
	// 2.02 snaps to the grid at 2, which collides; nearest free start is 5.
	if got := r.Resolve(tl, "t1", 2.02, 2, 100, ""); got != 5 {
		t.Fatalf("Resolve = %v, want 5", got)
	}
}
