package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/heimdex/heimdex-timeline/internal/action"
	"github.com/heimdex/heimdex-timeline/internal/executor"
	"github.com/heimdex/heimdex-timeline/internal/playback"
	"github.com/heimdex/heimdex-timeline/internal/project"
	"github.com/heimdex/heimdex-timeline/internal/session"
	"github.com/heimdex/heimdex-timeline/internal/store"
)

const testToken = "test-token"

type testEnv struct {
	cfg    ServerConfig
	repo   *fakeRepo
	router *chi.Mux
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := newFakeRepo()
	repo.config[AuthTokenKey] = testToken

	const sessionID = "sess-api"
	exec := executor.New(executor.Options{
		Logger:  logger,
		Journal: store.NewJournal(repo, sessionID),
	})
	sess := session.New(session.Options{
		ID:       sessionID,
		Project:  project.New("API Test"),
		Executor: exec,
		Logger:   logger,
	})
	ctx, cancel := context.WithCancel(context.Background())
	go sess.Run(ctx)
	t.Cleanup(cancel)

	cfg := ServerConfig{
		Session:    sess,
		Repository: repo,
		Prober:     &fakeProber{meta: project.MediaMetadata{Duration: 5, Codec: "h264"}},
		Playback:   playback.NewServer(logger),
		Logger:     logger,
		StartTime:  time.Now().Add(-10 * time.Second),
		DeviceID:   "test-device",
	}
	return &testEnv{cfg: cfg, repo: repo, router: NewRouter(cfg)}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.RemoteAddr = "127.0.0.1:50000"
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decodeJSONBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v (%s)", err, rr.Body.String())
	}

	return body
}

func decodeResult(t *testing.T, rr *httptest.ResponseRecorder) action.Result {
	t.Helper()
	var res action.Result
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("failed to decode result: %v (%s)", err, rr.Body.String())
	}
	return res
}

func wireAction(t *testing.T, typ string, params action.Params) string {
	t.Helper()
	data, err := action.Marshal(action.New(typ, params))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	return string(data)
}

func TestHealthHandler(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}
	body := decodeJSONBody(t, rr)
	if body["session_id"] != "sess-api" || body["device_id"] != "test-device" {
		t.Errorf("unexpected health body %v", body)
	}
	if up, _ := body["uptime_s"].(float64); up < 10 {
		t.Errorf("uptime_s = %v, want >= 10", body["uptime_s"])
	}
}

func TestAuthMiddleware(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + testToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/project", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			env.router.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestAuthMiddleware_NoStoredToken(t *testing.T) {
	env := newTestEnv(t)
	delete(env.repo.config, AuthTokenKey)

	rr := env.do(t, http.MethodGet, "/project", "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestExecuteHandler(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/actions", wireAction(t, "track/add", action.Params{"trackType": "video", "id": "t1"}))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if res := decodeResult(t, rr); !res.Success || res.ActionID == "" {
		t.Errorf("result = %+v", res)
	}

	rr = env.do(t, http.MethodGet, "/project", "")
	var p project.Project
	if err := json.Unmarshal(rr.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode project: %v", err)
	}
	if len(p.Timeline.Tracks) != 1 || p.Timeline.Tracks[0].ID != "t1" {
		t.Errorf("tracks = %+v", p.Timeline.Tracks)
	}
}

func TestExecuteHandler_Failures(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name       string
		body       string
		wantCode   int
		wantErr    string
		wantDetail string
	}{
		{"malformed json", `{"type":`, http.StatusBadRequest, action.CodeInvalidType, ""},
		{"missing params", `{"id":"a","type":"track/add","timestamp":1}`, http.StatusBadRequest, action.CodeInvalidType, ""},
		{"unknown track", wireAction(t, "track/remove", action.Params{"trackId": "nope"}), http.StatusUnprocessableEntity, action.CodeInvalidParams, action.CodeTrackNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/actions", tt.body)
			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, tt.wantCode, rr.Body.String())
			}
			body := decodeJSONBody(t, rr)
			code, _ := body["code"].(string)
			var details []interface{}
			if errObj, ok := body["error"].(map[string]interface{}); ok {
				code, _ = errObj["code"].(string)
				details, _ = errObj["details"].([]interface{})
			}
			if code != tt.wantErr {
				t.Errorf("code = %q, want %q", code, tt.wantErr)
			}
			if tt.wantDetail == "" {
				return
			}
			if len(details) != 1 {
				t.Fatalf("details = %v, want one entry", details)
			}
			if d, _ := details[0].(map[string]interface{}); d["code"] != tt.wantDetail {
				t.Errorf("detail = %v, want code %q", details[0], tt.wantDetail)
			}
		})
	}
}

func TestExecuteBatchHandler(t *testing.T) {
	env := newTestEnv(t)

	batch := "[" + wireAction(t, "track/add", action.Params{"trackType": "audio", "id": "a1"}) + "," +
		wireAction(t, "track/remove", action.Params{"trackId": "ghost"}) + "," +
		wireAction(t, "track/add", action.Params{"trackType": "video"}) + "]"

	rr := env.do(t, http.MethodPost, "/actions/batch", batch)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rr.Code, rr.Body.String())
	}
	var resp BatchResponse
	json.Unmarshal(rr.Body.Bytes(), &resp)
	if len(resp.Results) != 2 {
		t.Fatalf("got %d results, want 2 (stop at first failure)", len(resp.Results))
	}
	if !resp.Results[0].Success || resp.Results[1].Success {
		t.Errorf("results = %+v", resp.Results)
	}

	rr = env.do(t, http.MethodPost, "/actions/batch", `{"not":"an array"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("non-array batch status = %d", rr.Code)
	}
}

func TestUndoRedoHandlers(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/history/undo", "")
	if rr.Code != http.StatusConflict || decodeResult(t, rr).Error.Code != action.CodeHistoryEmpty {
		t.Fatalf("undo on empty history = %d %s", rr.Code, rr.Body.String())
	}

	env.do(t, http.MethodPost, "/actions", wireAction(t, "project/rename", action.Params{"name": "Renamed"}))

	rr = env.do(t, http.MethodPost, "/history/undo", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("undo status = %d (%s)", rr.Code, rr.Body.String())
	}
	p, _ := env.cfg.Session.Project(context.Background())
	if p.Name != "API Test" {
		t.Errorf("name after undo = %q", p.Name)
	}

	rr = env.do(t, http.MethodPost, "/history/redo", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("redo status = %d", rr.Code)
	}
	p, _ = env.cfg.Session.Project(context.Background())
	if p.Name != "Renamed" {
		t.Errorf("name after redo = %q", p.Name)
	}

	rr = env.do(t, http.MethodPost, "/history/redo", "")
	if rr.Code != http.StatusConflict {
		t.Errorf("redo on empty redo stack = %d", rr.Code)
	}
}

func TestGroupHandlers(t *testing.T) {
	env := newTestEnv(t)

	// Two adds within the auto-group window form one group.
	env.do(t, http.MethodPost, "/actions/batch", "["+
		wireAction(t, "track/add", action.Params{"trackType": "video"})+","+
		wireAction(t, "track/add", action.Params{"trackType": "video"})+"]")

	rr := env.do(t, http.MethodPost, "/history/undo-group", "")
	var resp BatchResponse
	json.Unmarshal(rr.Body.Bytes(), &resp)
	if rr.Code != http.StatusOK || len(resp.Results) != 2 {
		t.Fatalf("undo-group = %d %+v", rr.Code, resp)
	}

	rr = env.do(t, http.MethodPost, "/history/redo-group", "")
	json.Unmarshal(rr.Body.Bytes(), &resp)
	if len(resp.Results) != 2 {
		t.Errorf("redo-group results = %+v", resp.Results)
	}
}

func TestExecuteBatchHandler_Group(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/actions/batch?group=Setup", "["+
		wireAction(t, "project/rename", action.Params{"name": "Grouped"})+","+
		wireAction(t, "track/add", action.Params{"trackType": "audio", "id": "a1"})+","+
		wireAction(t, "track/lock", action.Params{"trackId": "a1", "locked": true})+"]")

	h := env.cfg.Session.History()
	if h.InGroup() {
		t.Fatal("batch left the group open")
	}
	rows := h.DisplayHistory()
	if len(rows) != 1 || rows[0].GroupName != "Setup" || rows[0].Count != 3 {
		t.Fatalf("rows = %+v, want one Setup row of 3", rows)
	}

	rr := env.do(t, http.MethodPost, "/history/undo-group", "")
	var resp BatchResponse
	json.Unmarshal(rr.Body.Bytes(), &resp)
	if len(resp.Results) != 3 {
		t.Errorf("undo-group results = %+v", resp.Results)
	}
}

func TestHistoryAndSnapshotHandlers(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/actions", wireAction(t, "project/rename", action.Params{"name": "One"}))

	rr := env.do(t, http.MethodPost, "/history/snapshots", `{"name":"before two"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create snapshot status = %d", rr.Code)
	}
	snapID, _ := decodeJSONBody(t, rr)["id"].(string)

	env.do(t, http.MethodPost, "/actions", wireAction(t, "project/rename", action.Params{"name": "Two"}))

	rr = env.do(t, http.MethodGet, "/history", "")
	var hist HistoryResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &hist); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if !hist.CanUndo || hist.CanRedo || len(hist.Undo) != 2 || len(hist.Snapshots) != 1 {
		t.Fatalf("history = %+v", hist)
	}
	if hist.Undo[1].ActionType != "project/rename" || !hist.Undo[1].Reversible {
		t.Errorf("latest entry = %+v", hist.Undo[1])
	}
	if n := len(hist.Rows); n == 0 || !hist.Rows[n-1].Current {
		t.Errorf("rows = %+v, want the newest row marked current", hist.Rows)
	}

	rr = env.do(t, http.MethodPost, "/history/snapshots/"+snapID+"/restore", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("restore status = %d (%s)", rr.Code, rr.Body.String())
	}
	p, _ := env.cfg.Session.Project(context.Background())
	if p.Name != "One" {
		t.Errorf("name after restore = %q, want One", p.Name)
	}

	if rr := env.do(t, http.MethodPost, "/history/snapshots/missing/restore", ""); rr.Code != http.StatusNotFound {
		t.Errorf("restore missing = %d", rr.Code)
	}
	if rr := env.do(t, http.MethodDelete, "/history/snapshots/"+snapID, ""); rr.Code != http.StatusNoContent {
		t.Errorf("delete = %d", rr.Code)
	}
	if rr := env.do(t, http.MethodDelete, "/history/snapshots/"+snapID, ""); rr.Code != http.StatusNotFound {
		t.Errorf("second delete = %d", rr.Code)
	}
}

func TestSnapHandler(t *testing.T) {
	env := newTestEnv(t)
	seedTimeline(t, env)

	// 4.95s at 100px/s is 5px from the clip end at 5s.
	rr := env.do(t, http.MethodPost, "/placement/snap", `{"trackId":"t1","time":4.95,"duration":2,"pixelsPerSecond":100}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rr.Code, rr.Body.String())
	}
	var resp SnapResponse
	json.Unmarshal(rr.Body.Bytes(), &resp)
	if !resp.DidSnap || resp.SnappedTime != 5 || resp.ResolvedTime != 5 {
		t.Errorf("snap = %+v", resp)
	}

	rr = env.do(t, http.MethodPost, "/placement/snap", `{"trackId":"nope","time":1}`)
	if rr.Code != http.StatusNotFound {
		t.Errorf("missing track status = %d", rr.Code)
	}
	rr = env.do(t, http.MethodPost, "/placement/snap", `{"time":1}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing trackId status = %d", rr.Code)
	}
}

func TestImportMediaHandler(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "shot.mov")
	if err := os.WriteFile(path, []byte("moov"), 0o644); err != nil {
		t.Fatal(err)
	}

	rr := env.do(t, http.MethodPost, "/media/import", `{"path":`+jsonString(path)+`}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rr.Code, rr.Body.String())
	}
	var resp ImportMediaResponse
	json.Unmarshal(rr.Body.Bytes(), &resp)
	if !resp.Success || resp.MediaID == "" {
		t.Fatalf("response = %+v", resp)
	}

	p, _ := env.cfg.Session.Project(context.Background())
	m, _, ok := p.FindMedia(resp.MediaID)
	if !ok {
		t.Fatal("imported media missing from library")
	}
	if m.Name != "shot.mov" || m.Type != project.MediaVideo || m.Metadata.Duration != 5 || m.Metadata.FileSize != 4 || m.SourcePath != path {
		t.Errorf("media item = %+v", m)
	}
}

func TestImportMediaHandler_Rejects(t *testing.T) {
	env := newTestEnv(t)

	if rr := env.do(t, http.MethodPost, "/media/import", `{"path":"relative/file.mp4"}`); rr.Code != http.StatusBadRequest {
		t.Errorf("relative path status = %d", rr.Code)
	}
	if rr := env.do(t, http.MethodPost, "/media/import", `{"path":"/tmp/../etc/passwd"}`); rr.Code != http.StatusBadRequest {
		t.Errorf("unclean path status = %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/media/import", strings.NewReader(`{"path":"/tmp/x.mp4"}`))
	req.RemoteAddr = "10.0.0.5:4000"
	req.Header.Set("Authorization", "Bearer "+testToken)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("non-loopback status = %d", rr.Code)
	}
}

func TestMediaSourceHandler(t *testing.T) {
	env := newTestEnv(t)
	seedTimeline(t, env)
	path := filepath.Join(t.TempDir(), "shot.mov")
	if err := os.WriteFile(path, []byte("0123456789"), 0o644); err != nil {
		t.Fatal(err)
	}

	rr := env.do(t, http.MethodPost, "/media/import", `{"path":`+jsonString(path)+`}`)
	var imported ImportMediaResponse
	json.Unmarshal(rr.Body.Bytes(), &imported)
	if imported.MediaID == "" {
		t.Fatalf("import failed: %s", rr.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/media/"+imported.MediaID+"/source", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set("Range", "bytes=4-")
	rr = httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusPartialContent || rr.Body.String() != "456789" {
		t.Fatalf("ranged source = %d %q", rr.Code, rr.Body.String())
	}

	tests := []struct {
		name string
		path string
		want int
	}{
		{"unknown media", "/media/nope/source", http.StatusNotFound},
		{"media without a local file", "/media/m1/source", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rr := env.do(t, http.MethodGet, tt.path, ""); rr.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, tt.want, rr.Body.String())
			}
		})
	}

	os.Remove(path)
	if rr := env.do(t, http.MethodGet, "/media/"+imported.MediaID+"/source", ""); rr.Code != http.StatusNotFound {
		t.Errorf("deleted file status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestJournalHandler(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/actions", wireAction(t, "track/add", action.Params{"trackType": "video"}))
	env.do(t, http.MethodPost, "/actions", wireAction(t, "track/remove", action.Params{"trackId": "ghost"}))
	env.do(t, http.MethodPost, "/history/undo", "")

	rr := env.do(t, http.MethodGet, "/journal?limit=2", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp JournalResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 3 || len(resp.Entries) != 2 {
		t.Fatalf("journal = total %d, %d entries", resp.Total, len(resp.Entries))
	}
	if resp.Entries[0].Op != "undo" || resp.Entries[1].Success {
		t.Errorf("entries = %+v, %+v", resp.Entries[0], resp.Entries[1])
	}

	if rr := env.do(t, http.MethodGet, "/journal?limit=abc", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d", rr.Code)
	}
}

func TestResultStatus(t *testing.T) {
	tests := []struct {
		res  action.Result
		want int
	}{
		{action.Succeeded("a"), http.StatusOK},
		{action.Failed(action.CodeHistoryEmpty, "", nil), http.StatusConflict},
		{action.Failed(action.CodeNoInverse, "", nil), http.StatusConflict},
		{action.Failed(action.CodeCancelled, "", nil), http.StatusServiceUnavailable},
		{action.Failed(action.CodeClipNotFound, "", nil), http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		if got := resultStatus(tt.res); got != tt.want {
			t.Errorf("resultStatus(%+v) = %d, want %d", tt.res, got, tt.want)
		}
	}
}

// seedTimeline adds media m1, video track t1 and clip c1 at [0,5).
func seedTimeline(t *testing.T, env *testEnv) {
	t.Helper()
	batch := "[" +
		wireAction(t, "media/import", action.Params{
			"id":       "m1",
			"file":     map[string]any{"name": "beach.mp4", "mimeType": "video/mp4", "size": 100.0},
			"metadata": map[string]any{"duration": 30.0},
		}) + "," +
		wireAction(t, "track/add", action.Params{"trackType": "video", "id": "t1"}) + "," +
		wireAction(t, "clip/add", action.Params{
			"id": "c1", "trackId": "t1", "mediaId": "m1", "startTime": 0.0, "duration": 5.0, "inPoint": 2.0,
		}) + "]"

	rr := env.do(t, http.MethodPost, "/actions/batch", batch)
	var resp BatchResponse
	json.Unmarshal(rr.Body.Bytes(), &resp)
	if len(resp.Results) != 3 {
		t.Fatalf("seed failed: %s", rr.Body.String())
	}
	for i, res := range resp.Results {
		if !res.Success {
			t.Fatalf("seed action %d failed: %+v", i, res.Error)
		}
	}
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

type fakeProber struct {
	meta project.MediaMetadata
	err  error
}

func (f *fakeProber) Probe(ctx context.Context, path string) (project.MediaMetadata, error) {
	return f.meta, f.err
}

type fakeRepo struct {
	mu       sync.Mutex
	config   map[string]string
	sessions map[string]*store.Session
	entries  []*store.Entry
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{config: map[string]string{}, sessions: map[string]*store.Session{}}
}

func (f *fakeRepo) CreateSession(ctx context.Context, s *store.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeRepo) GetSession(ctx context.Context, id string) (*store.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[id], nil
}

func (f *fakeRepo) EndSession(ctx context.Context, id string) error {
	return nil
}

func (f *fakeRepo) AppendEntry(ctx context.Context, e *store.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.Seq = int64(len(f.entries) + 1)
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeRepo) ListEntries(ctx context.Context, sessionID string, limit int) ([]*store.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*store.Entry
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if f.entries[i].SessionID == sessionID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

func (f *fakeRepo) CountEntries(ctx context.Context, sessionID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.entries {
		if e.SessionID == sessionID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) GetConfig(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.config[key], nil
}

func (f *fakeRepo) SetConfig(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.config[key] = value
	return nil
}
