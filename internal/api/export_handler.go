package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/heimdex/heimdex-timeline/internal/export"
	"github.com/heimdex/heimdex-timeline/internal/project"
	"github.com/heimdex/heimdex-timeline/internal/subtitle"
)

type edlResult struct {
	name       string
	body       string
	clipCount  int
	unresolved []string
}

// buildEDL renders one track of a copy of the live project.
func buildEDL(cfg ServerConfig, r *http.Request, trackID, title string, frameRate float64) (*edlResult, int, error) {
	if trackID == "" {
		return nil, http.StatusBadRequest, fmt.Errorf("track_id is required")
	}
	p, err := cfg.Session.Project(r.Context())
	if err != nil {
		return nil, http.StatusServiceUnavailable, err
	}

	clips, unresolved, err := export.Resolve(p, trackID)
	if err != nil {
		return nil, http.StatusNotFound, err
	}
	if len(clips) == 0 {
		return nil, http.StatusUnprocessableEntity, fmt.Errorf("no clips could be resolved")
	}

	if title == "" {
		title = p.Name
	}
	name := export.SanitizeName(title, 120)
	if name == "" {
		name = "heimdex_timeline"
	}
	if frameRate <= 0 {
		frameRate = p.Settings.FrameRate
	}

	return &edlResult{
		name:       name,
		body:       export.GenerateEDL(clips, name, frameRate),
		clipCount:  len(clips),
		unresolved: unresolved,
	}, http.StatusOK, nil
}

func exportEDLHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var fps float64
		if s := q.Get("fps"); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil || v <= 0 {
				WriteError(w, http.StatusBadRequest, "fps must be a positive number", "BAD_REQUEST")
				return
			}
			fps = v
		}

		res, status, err := buildEDL(cfg, r, q.Get("track_id"), q.Get("title"), fps)
		if err != nil {
			WriteError(w, status, err.Error(), errorCode(status))
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.name+".edl"))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(res.body))
	}
}

func exportEDLFileHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req export.ExportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if err := export.CheckOutputDir(req.OutputDir); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		res, status, err := buildEDL(cfg, r, req.TrackID, req.Title, req.FrameRate)
		if err != nil {
			WriteError(w, status, err.Error(), errorCode(status))
			return
		}

		outputPath := filepath.Join(req.OutputDir, res.name+".edl")
		if err := os.WriteFile(outputPath, []byte(res.body), 0o644); err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to write export file", "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusOK, export.ExportResponse{
			Status:          "ok",
			Format:          "edl",
			OutputPath:      outputPath,
			ClipCount:       res.clipCount,
			UnresolvedClips: res.unresolved,
		})
	}
}

// exportSRTHandler renders the live project's subtitles as SubRip text.
func exportSRTHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := cfg.Session.Project(r.Context())
		if err != nil {
			WriteError(w, http.StatusServiceUnavailable, err.Error(), errorCode(http.StatusServiceUnavailable))
			return
		}
		if len(p.Timeline.Subtitles) == 0 {
			WriteError(w, http.StatusNotFound, "project has no subtitles", errorCode(http.StatusNotFound))
			return
		}

		subs := project.SortedSubtitles(p.Timeline.Subtitles)
		cues := make([]subtitle.Cue, len(subs))
		for i, s := range subs {
			cues[i] = subtitle.Cue{Index: i + 1, StartTime: s.StartTime, EndTime: s.EndTime, Text: s.Text}
		}

		title := r.URL.Query().Get("title")
		if title == "" {
			title = p.Name
		}
		name := export.SanitizeName(title, 120)
		if name == "" {
			name = "heimdex_timeline"
		}

		w.Header().Set("Content-Type", "application/x-subrip; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".srt"))
		w.WriteHeader(http.StatusOK)
		if err := subtitle.Write(w, cues); err != nil {
			cfg.Logger.Warn("srt export truncated", "error", err)
		}
	}
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusUnprocessableEntity:
		return "UNRESOLVABLE_CLIPS"
	case http.StatusServiceUnavailable:
		return "UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}
