package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/heimdex/heimdex-timeline/internal/action"
	"github.com/heimdex/heimdex-timeline/internal/executor"
	"github.com/heimdex/heimdex-timeline/internal/media"
	"github.com/heimdex/heimdex-timeline/internal/playback"
	"github.com/heimdex/heimdex-timeline/internal/project"
	"github.com/heimdex/heimdex-timeline/internal/store"
)

// maxBodyBytes bounds action payloads. Subtitle imports carry whole files.
const maxBodyBytes = 8 << 20

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(CORSAllowlist())

	r.Get("/health", healthHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Repository, cfg.Logger))

		r.Get("/project", getProjectHandler(cfg))
		r.Post("/actions", executeHandler(cfg))
		r.Post("/actions/batch", executeBatchHandler(cfg))

		r.Get("/history", historyHandler(cfg))
		r.Post("/history/undo", undoHandler(cfg))
		r.Post("/history/redo", redoHandler(cfg))
		r.Post("/history/undo-group", undoGroupHandler(cfg))
		r.Post("/history/redo-group", redoGroupHandler(cfg))
		r.Post("/history/snapshots", createSnapshotHandler(cfg))
		r.Delete("/history/snapshots/{id}", deleteSnapshotHandler(cfg))
		r.Post("/history/snapshots/{id}/restore", restoreSnapshotHandler(cfg))

		r.Post("/placement/snap", snapHandler(cfg))
		r.Get("/journal", journalHandler(cfg))
		r.Get("/media/{id}/source", mediaSourceHandler(cfg))
		r.Head("/media/{id}/source", mediaSourceHandler(cfg))
		r.Get("/export/edl", exportEDLHandler(cfg))
		r.Get("/export/srt", exportSRTHandler(cfg))

		r.Group(func(r chi.Router) {
			// Both take local filesystem paths.
			r.Use(LoopbackGuard())
			r.Post("/media/import", importMediaHandler(cfg))
			r.Post("/export/edl", exportEDLFileHandler(cfg))
		})
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:    "ok",
			Version:   "0.1.0",
			UptimeS:   uptime,
			DeviceID:  cfg.DeviceID,
			SessionID: cfg.Session.ID(),
		})
	}
}

func getProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := cfg.Session.Project(r.Context())
		if err != nil {
			WriteError(w, http.StatusServiceUnavailable, err.Error(), action.CodeCancelled)
			return
		}
		WriteJSON(w, http.StatusOK, p)
	}
}

func executeHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := readBody(w, r)
		if !ok {
			return
		}
		a, err := action.Unmarshal(body)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), action.CodeInvalidType)
			return
		}
		res := cfg.Session.Execute(r.Context(), a)
		WriteJSON(w, resultStatus(res), res)
	}
}

func executeBatchHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := readBody(w, r)
		if !ok {
			return
		}
		actions, err := action.UnmarshalList(body)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), action.CodeInvalidType)
			return
		}
		var results []action.Result
		if group := r.URL.Query().Get("group"); group != "" {
			results = cfg.Session.ExecuteGroup(r.Context(), group, actions)
		} else {
			results = cfg.Session.ExecuteMany(r.Context(), actions)
		}
		WriteJSON(w, http.StatusOK, BatchResponse{Results: results})
	}
}

func historyHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := cfg.Session.History()
		WriteJSON(w, http.StatusOK, HistoryResponse{
			CanUndo:   h.CanUndo(),
			CanRedo:   h.CanRedo(),
			Undo:      entriesToResponse(h.UndoEntries()),
			Redo:      entriesToResponse(h.RedoEntries()),
			Snapshots: h.Snapshots(),
			Rows:      h.DisplayHistory(),
		})
	}
}

func undoHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := cfg.Session.Undo(r.Context())
		WriteJSON(w, resultStatus(res), res)
	}
}

func redoHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := cfg.Session.Redo(r.Context())
		WriteJSON(w, resultStatus(res), res)
	}
}

func undoGroupHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, BatchResponse{Results: cfg.Session.UndoGroup(r.Context())})
	}
}

func redoGroupHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, BatchResponse{Results: cfg.Session.RedoGroup(r.Context())})
	}
}

func createSnapshotHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSnapshotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.Name == "" {
			req.Name = time.Now().Format("15:04:05")
		}
		WriteJSON(w, http.StatusCreated, cfg.Session.History().CreateSnapshot(req.Name))
	}
}

func deleteSnapshotHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !cfg.Session.History().DeleteSnapshot(id) {
			WriteError(w, http.StatusNotFound, "snapshot not found", "NOT_FOUND")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func restoreSnapshotHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, ok := cfg.Session.History().Snapshot(id); !ok {
			WriteError(w, http.StatusNotFound, "snapshot not found", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, BatchResponse{Results: cfg.Session.UndoToSnapshot(r.Context(), id)})
	}
}

func snapHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SnapRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.TrackID == "" {
			WriteError(w, http.StatusBadRequest, "trackId is required", "BAD_REQUEST")
			return
		}

		var resp SnapResponse
		found := false
		err := cfg.Session.Do(r.Context(), func(p *project.Project, e *executor.Executor) {
			if _, _, found = p.FindTrack(req.TrackID); !found {
				return
			}
			res := e.Resolver()
			resp.SnapResult = res.SnapToGrid(req.Time, p.Timeline, req.TrackID, req.PixelsPerSecond, req.ExcludeClipID)
			resp.ResolvedTime = res.Resolve(p.Timeline, req.TrackID, req.Time, req.Duration, req.PixelsPerSecond, req.ExcludeClipID)
		})
		if err != nil {
			WriteError(w, http.StatusServiceUnavailable, err.Error(), action.CodeCancelled)
			return
		}
		if !found {
			WriteError(w, http.StatusNotFound, "track not found", action.CodeTrackNotFound)
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func importMediaHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ImportMediaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.Path == "" || !filepath.IsAbs(req.Path) || filepath.Clean(req.Path) != req.Path {
			WriteError(w, http.StatusBadRequest, "path must be a clean absolute path", "BAD_REQUEST")
			return
		}

		// Probing can be slow, so it runs before the action is queued.
		a, err := media.ImportAction(r.Context(), cfg.Prober, req.Path)
		if err != nil {
			if errors.Is(err, media.ErrProbeUnavailable) {
				WriteError(w, http.StatusServiceUnavailable, err.Error(), "PROBE_UNAVAILABLE")
				return
			}
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		if req.ThumbnailURL != "" {
			a = a.WithParam("thumbnailUrl", req.ThumbnailURL)
		}

		var resp ImportMediaResponse
		err = cfg.Session.Do(r.Context(), func(p *project.Project, e *executor.Executor) {
			resp.Result = e.Execute(r.Context(), a, p)
			if resp.Success {
				resp.MediaID, _ = e.LastCreated(action.CategoryMedia)
			}
		})
		if err != nil {
			WriteError(w, http.StatusServiceUnavailable, err.Error(), action.CodeCancelled)
			return
		}
		status := resultStatus(resp.Result)
		if status == http.StatusOK {
			status = http.StatusCreated
		}
		WriteJSON(w, status, resp)
	}
}

func mediaSourceHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var item project.MediaItem
		found := false
		err := cfg.Session.Do(r.Context(), func(p *project.Project, _ *executor.Executor) {
			item, _, found = p.FindMedia(id)
		})
		if err != nil {
			WriteError(w, http.StatusServiceUnavailable, err.Error(), action.CodeCancelled)
			return
		}
		if !found {
			WriteError(w, http.StatusNotFound, "media not found", action.CodeMediaNotFound)
			return
		}

		err = cfg.Playback.ServeMedia(w, r, item)
		switch {
		case err == nil:
		case errors.Is(err, playback.ErrNoSource), errors.Is(err, os.ErrNotExist):
			WriteError(w, http.StatusNotFound, err.Error(), "SOURCE_NOT_FOUND")
		default:
			cfg.Logger.Error("media stream failed", "media_id", id, "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to stream media", "INTERNAL_ERROR")
		}
	}
}

func journalHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := store.DefaultListLimit
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				WriteError(w, http.StatusBadRequest, "limit must be a positive integer", "BAD_REQUEST")
				return
			}
			limit = n
		}

		sessionID := cfg.Session.ID()
		entries, err := cfg.Repository.ListEntries(r.Context(), sessionID, limit)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list journal", "INTERNAL_ERROR")
			return
		}
		total, err := cfg.Repository.CountEntries(r.Context(), sessionID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to count journal", "INTERNAL_ERROR")
			return
		}
		if entries == nil {
			entries = []*store.Entry{}
		}
		WriteJSON(w, http.StatusOK, JournalResponse{SessionID: sessionID, Total: total, Entries: entries})
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		WriteError(w, http.StatusRequestEntityTooLarge, "request body too large", "BAD_REQUEST")
		return nil, false
	}
	return body, true
}

// resultStatus maps an engine result onto an HTTP status. The body is the
// result either way.
func resultStatus(res action.Result) int {
	if res.Success {
		return http.StatusOK
	}
	switch res.Error.Code {
	case action.CodeHistoryEmpty, action.CodeNoInverse:
		return http.StatusConflict
	case action.CodeCancelled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusUnprocessableEntity
	}
}
