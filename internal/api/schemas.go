package api

import (
	"time"

	"github.com/heimdex/heimdex-timeline/internal/action"
	"github.com/heimdex/heimdex-timeline/internal/history"
	"github.com/heimdex/heimdex-timeline/internal/placement"
	"github.com/heimdex/heimdex-timeline/internal/store"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	UptimeS   int64  `json:"uptime_s"`
	DeviceID  string `json:"device_id"`
	SessionID string `json:"session_id"`
}

type BatchResponse struct {
	Results []action.Result `json:"results"`
}

type EntryResponse struct {
	ID         string `json:"id"`
	ActionID   string `json:"action_id"`
	ActionType string `json:"action_type"`
	Reversible bool   `json:"reversible"`
	GroupID    string `json:"group_id,omitempty"`
	GroupName  string `json:"group_name,omitempty"`
	Timestamp  string `json:"timestamp"`
}

type HistoryResponse struct {
	CanUndo   bool               `json:"can_undo"`
	CanRedo   bool               `json:"can_redo"`
	Undo      []EntryResponse    `json:"undo"`
	Redo      []EntryResponse    `json:"redo"`
	Snapshots []history.Snapshot `json:"snapshots"`
	// Rows groups the undo stack the way an editor's history panel shows it.
	Rows []history.DisplayRow `json:"rows"`
}

type CreateSnapshotRequest struct {
	Name string `json:"name"`
}

type SnapRequest struct {
	TrackID         string  `json:"trackId"`
	Time            float64 `json:"time"`
	Duration        float64 `json:"duration"`
	PixelsPerSecond float64 `json:"pixelsPerSecond"`
	ExcludeClipID   string  `json:"excludeClipId,omitempty"`
}

type SnapResponse struct {
	placement.SnapResult
	// ResolvedTime is the snapped time moved clear of other clips.
	ResolvedTime float64 `json:"resolvedTime"`
}

type ImportMediaRequest struct {
	Path         string `json:"path"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

type ImportMediaResponse struct {
	action.Result
	MediaID string `json:"mediaId,omitempty"`
}

type JournalResponse struct {
	SessionID string         `json:"session_id"`
	Total     int            `json:"total"`
	Entries   []*store.Entry `json:"entries"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func EntryToResponse(e history.Entry) EntryResponse {
	return EntryResponse{
		ID:         e.ID,
		ActionID:   e.Action.ID,
		ActionType: e.Action.Type,
		Reversible: e.Inverse != nil,
		GroupID:    e.GroupID,
		GroupName:  e.GroupName,
		Timestamp:  e.Timestamp.Format(time.RFC3339),
	}
}

func entriesToResponse(entries []history.Entry) []EntryResponse {
	out := make([]EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = EntryToResponse(e)
	}
	return out
}
