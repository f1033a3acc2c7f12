package executor

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/heimdex/heimdex-timeline/internal/action"
	"github.com/heimdex/heimdex-timeline/internal/history"
	"github.com/heimdex/heimdex-timeline/internal/placement"
	"github.com/heimdex/heimdex-timeline/internal/project"
)

// fixture builds a project with one populated video track and one empty
// audio track:
//
//	track-1: clip-a [0,5) clip-b [5,10) clip-d [10,14) clip-c [20,25)
//	         tr-1 joins clip-a and clip-b
//	track-2: empty
func fixture() *project.Project {
	p := project.New("Fixture")
	p.ID = "proj-1"
	p.MediaLibrary.Items = []project.MediaItem{
		{ID: "media-1", Name: "a.mp4", Type: project.MediaVideo, Metadata: project.MediaMetadata{Duration: 60}},
		{ID: "media-2", Name: "b.wav", Type: project.MediaAudio, Metadata: project.MediaMetadata{Duration: 30}},
	}
	clip := func(id string, start, dur, in float64) project.Clip {
		return project.Clip{
			ID:        id,
			MediaID:   "media-1",
			TrackID:   "track-1",
			StartTime: start,
			Duration:  dur,
			InPoint:   in,
			OutPoint:  in + dur,
			Transform: project.DefaultTransform(),
			Volume:    1,
		}
	}
	a := clip("clip-a", 0, 5, 0)
	a.Effects = []project.Effect{
		{ID: "fx-1", Type: "blur", Params: map[string]any{"radius": 2.0}, Enabled: true},
		{ID: "fx-2", Type: "sharpen", Enabled: true},
	}
	a.Keyframes = []project.Keyframe{{ID: "kf-1", Time: 1, Property: "opacity", Value: 0.5, Easing: "linear"}}

	p.Timeline.Tracks = []project.Track{
		{
			ID:   "track-1",
			Type: project.TrackVideo,
			Name: "Video 1",
			Clips: []project.Clip{
				a,
				clip("clip-b", 5, 5, 5),
				clip("clip-d", 10, 4, 10),
				clip("clip-c", 20, 5, 0),
			},
			Transitions: []project.Transition{
				{ID: "tr-1", ClipAID: "clip-a", ClipBID: "clip-b", Type: "dissolve", Duration: 0.5},
			},
		},
		{ID: "track-2", Type: project.TrackAudio, Name: "Audio 1"},
	}
	p.Timeline.Subtitles = []project.Subtitle{{ID: "sub-1", Text: "Hi", StartTime: 1, EndTime: 2}}
	return p
}

func newExecutor() *Executor {
	return New(Options{})
}

func mustExecute(t *testing.T, e *Executor, p *project.Project, typ string, params action.Params) action.Result {
	t.Helper()
	res := e.Execute(context.Background(), action.New(typ, params), p)
	if !res.Success {
		t.Fatalf("%s failed: %s: %s", typ, res.Error.Code, res.Error.Message)
	}
	return res
}

func TestRoundTrip(t *testing.T) {
	const srt = "1\n00:00:03,000 --> 00:00:04,000\nHello\n\n2\n00:00:05,000 --> 00:00:06,500\nWorld\n"

	tests := []struct {
		name   string
		typ    string
		params action.Params
	}{
		{"project rename", "project/rename", action.Params{"name": "Renamed"}},
		{"project settings", "project/updateSettings", action.Params{"settings": map[string]any{"width": 1280.0, "frameRate": 24.0}}},
		{"media import", "media/import", action.Params{"file": map[string]any{"name": "c.wav", "mimeType": "audio/wav", "size": 10.0}}},
		{"media rename", "media/rename", action.Params{"mediaId": "media-2", "name": "renamed.wav"}},
		{"media delete", "media/delete", action.Params{"mediaId": "media-2"}},
		{"track add", "track/add", action.Params{"trackType": "text"}},
		{"track remove", "track/remove", action.Params{"trackId": "track-2"}},
		{"track reorder", "track/reorder", action.Params{"trackId": "track-2", "index": 0.0}},
		{"track lock", "track/lock", action.Params{"trackId": "track-1", "locked": true}},
		{"track hide", "track/hide", action.Params{"trackId": "track-1", "hidden": true}},
		{"track mute", "track/mute", action.Params{"trackId": "track-2", "muted": true}},
		{"track solo", "track/solo", action.Params{"trackId": "track-2", "solo": true}},
		{"clip add", "clip/add", action.Params{"trackId": "track-2", "mediaId": "media-2", "startTime": 0.0, "duration": 3.0}},
		{"clip remove", "clip/remove", action.Params{"clipId": "clip-a"}},
		{"clip ripple delete", "clip/rippleDelete", action.Params{"clipId": "clip-a"}},
		{"clip move", "clip/move", action.Params{"clipId": "clip-c", "startTime": 30.0}},
		{"clip move away from transition", "clip/move", action.Params{"clipId": "clip-b", "startTime": 30.0}},
		{"clip move across tracks", "clip/move", action.Params{"clipId": "clip-c", "startTime": 2.0, "trackId": "track-2"}},
		{"clip trim", "clip/trim", action.Params{"clipId": "clip-c", "inPoint": 1.0}},
		{"clip split", "clip/split", action.Params{"clipId": "clip-c", "time": 22.0}},
		{"clip split with transition", "clip/split", action.Params{"clipId": "clip-a", "time": 2.0}},
		{"clip merge", "clip/merge", action.Params{"clipId": "clip-b", "rightClipId": "clip-d"}},
		{"clip slip", "clip/slip", action.Params{"clipId": "clip-c", "offset": 1.0}},
		{"clip slide", "clip/slide", action.Params{"clipId": "clip-b", "delta": 0.5}},
		{"clip roll", "clip/roll", action.Params{"leftClipId": "clip-b", "rightClipId": "clip-d", "delta": 1.0}},
		{"clip trim to playhead", "clip/trimToPlayhead", action.Params{"clipId": "clip-c", "playhead": 22.0, "side": "end"}},
		{"effect add", "effect/add", action.Params{"clipId": "clip-a", "effectType": "grain", "params": map[string]any{"amount": 1.0}}},
		{"effect remove", "effect/remove", action.Params{"clipId": "clip-a", "effectId": "fx-1"}},
		{"effect update", "effect/update", action.Params{"clipId": "clip-a", "effectId": "fx-1", "params": map[string]any{"radius": 5.0}, "enabled": false}},
		{"effect reorder", "effect/reorder", action.Params{"clipId": "clip-a", "effectId": "fx-2", "index": 0.0}},
		{"transform update", "transform/update", action.Params{"clipId": "clip-a", "transform": map[string]any{"opacity": 0.5, "rotation": 90.0}}},
		{"keyframe add", "keyframe/add", action.Params{"clipId": "clip-a", "property": "opacity", "time": 2.0, "value": 1.0}},
		{"keyframe remove", "keyframe/remove", action.Params{"clipId": "clip-a", "keyframeId": "kf-1"}},
		{"keyframe update", "keyframe/update", action.Params{"clipId": "clip-a", "keyframeId": "kf-1", "time": 3.0, "easing": "easeIn"}},
		{"transition add", "transition/add", action.Params{"clipAId": "clip-b", "clipBId": "clip-d", "transitionType": "wipe", "duration": 0.5}},
		{"transition remove", "transition/remove", action.Params{"transitionId": "tr-1"}},
		{"transition update", "transition/update", action.Params{"transitionId": "tr-1", "duration": 1.0, "params": map[string]any{"dir": "left"}}},
		{"audio volume", "audio/setVolume", action.Params{"clipId": "clip-a", "volume": 0.5}},
		{"audio fade", "audio/setFade", action.Params{"clipId": "clip-a", "fadeIn": 1.0}},
		{"audio add automation", "audio/addAutomation", action.Params{"clipId": "clip-a", "time": 1.0, "value": 0.8}},
		{"audio set automation", "audio/setAutomation", action.Params{"clipId": "clip-a", "points": []any{map[string]any{"time": 0.0, "value": 1.0}}}},
		{"subtitle add", "subtitle/add", action.Params{"text": "New", "startTime": 3.0, "endTime": 4.0}},
		{"subtitle remove", "subtitle/remove", action.Params{"subtitleId": "sub-1"}},
		{"subtitle update", "subtitle/update", action.Params{"subtitleId": "sub-1", "text": "Changed", "endTime": 2.5}},
		{"subtitle style", "subtitle/setStyle", action.Params{"subtitleId": "sub-1", "style": map[string]any{"color": "#fff"}}},
		{"subtitle import", "subtitle/import", action.Params{"srt": srt}},
		{"subtitle import replace", "subtitle/import", action.Params{"srt": srt, "replace": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newExecutor()
			p := fixture()
			before := p.Clone()

			mustExecute(t, e, p, tt.typ, tt.params)
			after := p.Clone()
			if reflect.DeepEqual(before, after) {
				t.Fatal("action did not change the project")
			}

			if res := e.Undo(context.Background(), p); !res.Success {
				t.Fatalf("undo failed: %+v", res.Error)
			}
			if got := p.Clone(); !reflect.DeepEqual(before, got) {
				t.Errorf("undo did not restore the project\nwant %+v\ngot  %+v", before.Timeline, got.Timeline)
			}

			if res := e.Redo(context.Background(), p); !res.Success {
				t.Fatalf("redo failed: %+v", res.Error)
			}
			if got := p.Clone(); !reflect.DeepEqual(after, got) {
				t.Errorf("redo did not reproduce the edit\nwant %+v\ngot  %+v", after.Timeline, got.Timeline)
			}
		})
	}
}

func TestClipMoveDropsDetachedTransitions(t *testing.T) {
	tests := []struct {
		name  string
		start float64
		want  int
	}{
		{"still adjacent", 5.0, 1},
		{"gap opened", 30.0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newExecutor()
			p := fixture()
			mustExecute(t, e, p, "clip/move", action.Params{"clipId": "clip-b", "startTime": tt.start})

			track := p.Timeline.Tracks[0]
			if n := len(track.Transitions); n != tt.want {
				t.Fatalf("transitions = %d, want %d", n, tt.want)
			}
			for _, tr := range track.Transitions {
				a := track.Clips[track.ClipIndex(tr.ClipAID)]
				b := track.Clips[track.ClipIndex(tr.ClipBID)]
				if !project.ClipsAdjacent(a, b) {
					t.Errorf("transition %s joins clips that do not touch", tr.ID)
				}
			}

			if res := e.Undo(context.Background(), p); !res.Success {
				t.Fatalf("undo failed: %+v", res.Error)
			}
			if ts := p.Timeline.Tracks[0].Transitions; len(ts) != 1 || ts[0].ID != "tr-1" {
				t.Errorf("undo did not restore tr-1: %+v", ts)
			}
		})
	}
}

func TestClipAddThenUndo(t *testing.T) {
	e := newExecutor()
	p := project.New("Empty")
	p.MediaLibrary.Items = []project.MediaItem{{ID: "m1", Type: project.MediaVideo, Metadata: project.MediaMetadata{Duration: 10}}}
	p.Timeline.Tracks = []project.Track{{ID: "t1", Type: project.TrackVideo}}

	mustExecute(t, e, p, "clip/add", action.Params{"trackId": "t1", "mediaId": "m1", "startTime": 0.0, "duration": 5.0})

	clips := p.Timeline.Tracks[0].Clips
	if len(clips) != 1 {
		t.Fatalf("expected 1 clip, got %d", len(clips))
	}
	if clips[0].StartTime != 0 || clips[0].EndTime() != 5 {
		t.Errorf("clip spans [%g,%g), want [0,5)", clips[0].StartTime, clips[0].EndTime())
	}
	if id, ok := e.LastCreated(action.CategoryClip); !ok || id != clips[0].ID {
		t.Errorf("LastCreated = %q, %v; want %q", id, ok, clips[0].ID)
	}

	if res := e.Undo(context.Background(), p); !res.Success {
		t.Fatalf("undo failed: %+v", res.Error)
	}
	if n := len(p.Timeline.Tracks[0].Clips); n != 0 {
		t.Errorf("expected no clips after undo, got %d", n)
	}
}

func TestSplitThenMergeWithOriginalClip(t *testing.T) {
	e := newExecutor()
	p := project.New("Split")
	p.MediaLibrary.Items = []project.MediaItem{{ID: "m1", Type: project.MediaVideo, Metadata: project.MediaMetadata{Duration: 10}}}
	p.Timeline.Tracks = []project.Track{{ID: "t1", Type: project.TrackVideo}}
	mustExecute(t, e, p, "clip/add", action.Params{"trackId": "t1", "mediaId": "m1", "startTime": 0.0, "duration": 10.0, "id": "c1"})
	original := p.Timeline.Tracks[0].Clips[0].Clone()

	mustExecute(t, e, p, "clip/split", action.Params{"clipId": "c1", "time": 4.0})

	clips := p.Timeline.Tracks[0].Clips
	if len(clips) != 2 {
		t.Fatalf("expected 2 clips, got %d", len(clips))
	}
	if clips[0].ID != "c1" || clips[0].StartTime != 0 || clips[0].EndTime() != 4 {
		t.Errorf("left = %s [%g,%g), want c1 [0,4)", clips[0].ID, clips[0].StartTime, clips[0].EndTime())
	}
	if clips[1].ID == "c1" || clips[1].StartTime != 4 || clips[1].EndTime() != 10 {
		t.Errorf("right = %s [%g,%g), want new id [4,10)", clips[1].ID, clips[1].StartTime, clips[1].EndTime())
	}

	mustExecute(t, e, p, "clip/merge", action.Params{"clipId": "c1", "rightClipId": clips[1].ID, "originalClip": original})

	got := p.Timeline.Tracks[0].Clips
	if len(got) != 1 || !reflect.DeepEqual(got[0], original) {
		t.Errorf("merge did not restore the original clip: %+v", got)
	}
}

func TestTrackAddAutoGroupsAndUndoGroup(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := history.New(history.Options{Now: func() time.Time { return now }})
	e := New(Options{History: h})
	p := project.New("Group")

	mustExecute(t, e, p, "track/add", action.Params{"trackType": "video"})
	now = now.Add(50 * time.Millisecond)
	mustExecute(t, e, p, "track/add", action.Params{"trackType": "video"})

	if n := len(p.Timeline.Tracks); n != 2 {
		t.Fatalf("expected 2 tracks, got %d", n)
	}
	if p.Timeline.Tracks[0].Name != "Video 1" || p.Timeline.Tracks[1].Name != "Video 2" {
		t.Errorf("unexpected default names %q, %q", p.Timeline.Tracks[0].Name, p.Timeline.Tracks[1].Name)
	}

	results := e.UndoGroup(context.Background(), p)
	if len(results) != 2 {
		t.Fatalf("expected 2 undo results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Success {
			t.Errorf("undo in group failed: %+v", r.Error)
		}
	}
	if n := len(p.Timeline.Tracks); n != 0 {
		t.Errorf("expected both tracks removed, %d remain", n)
	}
	if h.CanUndo() {
		t.Error("expected empty undo stack")
	}

	redone := e.RedoGroup(context.Background(), p)
	if len(redone) != 2 || len(p.Timeline.Tracks) != 2 {
		t.Errorf("RedoGroup: %d results, %d tracks; want 2, 2", len(redone), len(p.Timeline.Tracks))
	}
}

func TestSubtitleImport(t *testing.T) {
	e := newExecutor()
	p := project.New("Subs")

	srt := "1\n00:00:01,000 --> 00:00:02,500\nHello\n\n2\n00:00:05,000 --> 00:00:02,000\nBackwards\n"
	mustExecute(t, e, p, "subtitle/import", action.Params{"srt": srt})

	subs := p.Timeline.Subtitles
	if len(subs) != 1 {
		t.Fatalf("expected 1 subtitle, got %d", len(subs))
	}
	if subs[0].StartTime != 1.0 || subs[0].EndTime != 2.5 || subs[0].Text != "Hello" {
		t.Errorf("got %+v", subs[0])
	}
}

func TestLockedTrackGuard(t *testing.T) {
	tests := []struct {
		typ    string
		params action.Params
	}{
		{"clip/move", action.Params{"clipId": "clip-c", "startTime": 30.0}},
		{"clip/remove", action.Params{"clipId": "clip-c"}},
		{"effect/add", action.Params{"clipId": "clip-a", "effectType": "blur"}},
		{"keyframe/add", action.Params{"clipId": "clip-a", "property": "scale", "time": 1.0, "value": 2.0}},
		{"transform/update", action.Params{"clipId": "clip-a", "transform": map[string]any{"rotation": 45.0}}},
		{"audio/setVolume", action.Params{"clipId": "clip-a", "volume": 0.2}},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			e := newExecutor()
			p := fixture()
			mustExecute(t, e, p, "track/lock", action.Params{"trackId": "track-1", "locked": true})
			before := p.Clone()

			res := e.Execute(context.Background(), action.New(tt.typ, tt.params), p)
			if res.Success {
				t.Fatal("expected failure on locked track")
			}
			if res.Error.Code != action.CodeInvalidParams {
				t.Errorf("code = %s, want %s", res.Error.Code, action.CodeInvalidParams)
			}
			if !slices.Contains(res.Error.DetailCodes(), action.CodeTrackLocked) {
				t.Errorf("details = %v, want %s", res.Error.DetailCodes(), action.CodeTrackLocked)
			}
			if !reflect.DeepEqual(before, p.Clone()) {
				t.Error("project changed after rejected action")
			}
			if n := e.History().UndoCount(); n != 1 {
				t.Errorf("rejected action was recorded, undo count %d", n)
			}
		})
	}
}

func TestPlacementNeverOverlaps(t *testing.T) {
	e := newExecutor()
	p := project.New("Overlap")
	p.MediaLibrary.Items = []project.MediaItem{{ID: "m1", Type: project.MediaVideo, Metadata: project.MediaMetadata{Duration: 100}}}
	p.Timeline.Tracks = []project.Track{{ID: "t1", Type: project.TrackVideo}}

	starts := []float64{0, 2, 3, 1, 10, 9.5, 0}
	for _, s := range starts {
		mustExecute(t, e, p, "clip/add", action.Params{"trackId": "t1", "mediaId": "m1", "startTime": s, "duration": 3.0, "pixelsPerSecond": 100.0})
	}
	first := p.Timeline.Tracks[0].Clips[0].ID
	mustExecute(t, e, p, "clip/move", action.Params{"clipId": first, "startTime": 4.0})

	clips := p.Timeline.Tracks[0].Clips
	for i := range clips {
		for j := i + 1; j < len(clips); j++ {
			a, b := clips[i], clips[j]
			if a.StartTime < b.EndTime()-1e-9 && b.StartTime < a.EndTime()-1e-9 {
				t.Errorf("clips %s [%g,%g) and %s [%g,%g) overlap", a.ID, a.StartTime, a.EndTime(), b.ID, b.StartTime, b.EndTime())
			}
		}
	}
}

func TestHistoryLinearity(t *testing.T) {
	e := newExecutor()
	p := fixture()
	steps := []struct {
		typ    string
		params action.Params
	}{
		{"clip/move", action.Params{"clipId": "clip-c", "startTime": 40.0}},
		{"effect/add", action.Params{"clipId": "clip-a", "effectType": "glow"}},
		{"clip/split", action.Params{"clipId": "clip-c", "time": 42.0}},
		{"subtitle/add", action.Params{"text": "x", "startTime": 5.0, "endTime": 6.0}},
		{"track/add", action.Params{"trackType": "graphics"}},
	}
	for _, s := range steps {
		mustExecute(t, e, p, s.typ, s.params)
	}
	final := p.Clone()

	const k = 3
	for i := 0; i < k; i++ {
		if res := e.Undo(context.Background(), p); !res.Success {
			t.Fatalf("undo %d failed: %+v", i, res.Error)
		}
	}
	if !e.History().CanRedo() {
		t.Fatal("expected CanRedo after undo")
	}
	for i := 0; i < k; i++ {
		if res := e.Redo(context.Background(), p); !res.Success {
			t.Fatalf("redo %d failed: %+v", i, res.Error)
		}
	}
	if e.History().CanRedo() {
		t.Error("expected redo stack drained")
	}
	if !reflect.DeepEqual(final, p.Clone()) {
		t.Error("redo did not restore the state reached by execute")
	}
}

func TestUndoErrors(t *testing.T) {
	e := newExecutor()
	p := project.New("Empty")

	if res := e.Undo(context.Background(), p); res.Success || res.Error.Code != action.CodeHistoryEmpty || res.Error.Message != "Nothing to undo" {
		t.Errorf("Undo on empty history = %+v", res)
	}
	if res := e.Redo(context.Background(), p); res.Success || res.Error.Code != action.CodeHistoryEmpty || res.Error.Message != "Nothing to redo" {
		t.Errorf("Redo on empty history = %+v", res)
	}

	mustExecute(t, e, p, "project/create", action.Params{"name": "Fresh"})
	if p.Name != "Fresh" {
		t.Errorf("name = %q, want Fresh", p.Name)
	}
	res := e.Undo(context.Background(), p)
	if res.Success || res.Error.Code != action.CodeNoInverse {
		t.Errorf("undo of project/create = %+v, want %s", res, action.CodeNoInverse)
	}
	if !e.History().CanUndo() {
		t.Error("failed undo should leave the entry in place")
	}
}

func TestExecuteManyStopsAtFirstFailure(t *testing.T) {
	e := newExecutor()
	p := fixture()
	actions := []action.Action{
		action.New("clip/move", action.Params{"clipId": "clip-c", "startTime": 40.0}),
		action.New("clip/move", action.Params{"clipId": "missing", "startTime": 1.0}),
		action.New("track/add", action.Params{"trackType": "video"}),
	}

	results := e.ExecuteMany(context.Background(), actions, p)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Success || results[1].Success {
		t.Errorf("unexpected results %+v", results)
	}
	if results[1].Error.Code != action.CodeInvalidParams {
		t.Errorf("code = %s, want %s", results[1].Error.Code, action.CodeInvalidParams)
	}
	if got := results[1].Error.DetailCodes(); !slices.Equal(got, []string{action.CodeClipNotFound}) {
		t.Errorf("details = %v, want [%s]", got, action.CodeClipNotFound)
	}
	if n := len(p.Timeline.Tracks); n != 2 {
		t.Errorf("third action should not run, have %d tracks", n)
	}
}

func TestValidationReportsAllErrors(t *testing.T) {
	e := newExecutor()
	p := fixture()
	res := e.Execute(context.Background(), action.New("clip/add", action.Params{
		"trackId":   "nope",
		"mediaId":   "nope",
		"startTime": -1.0,
		"duration":  0.0,
	}), p)
	if res.Success {
		t.Fatal("expected failure")
	}
	details, ok := res.Error.Details.([]action.ValidationError)
	if !ok {
		t.Fatalf("details has type %T", res.Error.Details)
	}
	if len(details) < 4 {
		t.Errorf("expected every violation reported, got %v", details)
	}
	if res.Error.Code != action.CodeInvalidParams {
		t.Errorf("code = %s, want %s", res.Error.Code, action.CodeInvalidParams)
	}
	if n := strings.Count(res.Error.Message, "; "); n != len(details)-1 {
		t.Errorf("message should join every violation: %q", res.Error.Message)
	}
}

func TestRedoReusesGeneratedIDs(t *testing.T) {
	e := newExecutor()
	p := fixture()
	mustExecute(t, e, p, "clip/split", action.Params{"clipId": "clip-c", "time": 22.0})
	right := p.Timeline.Tracks[0].Clips[4].ID

	e.Undo(context.Background(), p)
	e.Redo(context.Background(), p)

	if _, _, _, ok := p.FindClip(right); !ok {
		t.Errorf("redo created a different right half; %s missing", right)
	}

	entry, _ := e.History().PeekUndo()
	if entry.Action.Params.GetString("newClipId") != right {
		t.Errorf("recorded action does not pin newClipId: %v", entry.Action.Params)
	}
	if entry.Inverse.HasPlaceholder() {
		t.Error("recorded inverse still carries a placeholder")
	}
}

func TestUndoResolvesLeftoverPlaceholder(t *testing.T) {
	e := newExecutor()
	p := fixture()
	mustExecute(t, e, p, "subtitle/add", action.Params{"text": "a", "startTime": 3.0, "endTime": 4.0})
	id, _ := e.LastCreated(action.CategorySubtitle)

	inv := action.New("subtitle/remove", action.Params{"subtitleId": action.LastAdded})
	e.History().Push(action.New("subtitle/add", action.Params{"id": id}), &inv)

	if res := e.Undo(context.Background(), p); !res.Success {
		t.Fatalf("undo failed: %+v", res.Error)
	}
	if _, _, ok := p.FindSubtitle(id); ok {
		t.Error("placeholder was not resolved to the created subtitle")
	}
}

func TestUndoToSnapshot(t *testing.T) {
	e := newExecutor()
	p := fixture()
	mustExecute(t, e, p, "clip/move", action.Params{"clipId": "clip-c", "startTime": 40.0})
	snap := e.History().CreateSnapshot("after move")
	mark := p.Clone()
	mustExecute(t, e, p, "track/add", action.Params{"trackType": "text"})
	mustExecute(t, e, p, "subtitle/remove", action.Params{"subtitleId": "sub-1"})

	results := e.UndoToSnapshot(context.Background(), p, snap.ID)
	if len(results) != 2 {
		t.Fatalf("expected 2 undos, got %d", len(results))
	}
	if !reflect.DeepEqual(mark, p.Clone()) {
		t.Error("project does not match the snapshot state")
	}
}

type memJournal struct {
	mu   sync.Mutex
	recs []JournalRecord
	err  error
}

func (j *memJournal) Append(_ context.Context, rec JournalRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.recs = append(j.recs, rec)
	return j.err
}

func TestJournalRecordsOperations(t *testing.T) {
	j := &memJournal{}
	e := New(Options{Journal: j, Resolver: placement.New(0, 0)})
	p := fixture()

	mustExecute(t, e, p, "track/add", action.Params{"trackType": "text"})
	e.Execute(context.Background(), action.New("track/remove", action.Params{"trackId": "nope"}), p)
	e.Undo(context.Background(), p)

	if len(j.recs) != 3 {
		t.Fatalf("expected 3 journal records, got %d", len(j.recs))
	}
	ops := []Op{j.recs[0].Op, j.recs[1].Op, j.recs[2].Op}
	if !reflect.DeepEqual(ops, []Op{OpExecute, OpExecute, OpUndo}) {
		t.Errorf("ops = %v", ops)
	}
	if j.recs[1].Result.Success {
		t.Error("rejected action journaled as success")
	}

	j.err = errors.New("disk full")
	mustExecute(t, e, p, "track/add", action.Params{"trackType": "text"})
}

func TestCancelledContext(t *testing.T) {
	e := newExecutor()
	p := fixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := e.Execute(ctx, action.New("track/add", action.Params{"trackType": "video"}), p)
	if res.Success || res.Error.Code != action.CodeCancelled {
		t.Errorf("got %+v, want %s", res, action.CodeCancelled)
	}
}
