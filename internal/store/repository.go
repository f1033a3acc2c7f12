// Package store persists editing sessions, the action journal and small
// key/value settings in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/heimdex/heimdex-timeline/internal/action"
	"github.com/heimdex/heimdex-timeline/internal/executor"
)

const (
	SessionStatusOpen        = "open"
	SessionStatusClosed      = "closed"
	SessionStatusInterrupted = "interrupted"

	// DefaultListLimit caps journal listings when the caller gives no limit.
	DefaultListLimit = 100
)

type Session struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	ProjectName string     `json:"projectName"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"startedAt"`
	EndedAt     *time.Time `json:"endedAt,omitempty"`
}

// Entry is one journaled execute, undo or redo.
type Entry struct {
	Seq          int64           `json:"seq"`
	SessionID    string          `json:"sessionId"`
	Op           string          `json:"op"`
	ActionID     string          `json:"actionId"`
	ActionType   string          `json:"actionType"`
	Action       json.RawMessage `json:"action"`
	Success      bool            `json:"success"`
	ErrorCode    string          `json:"errorCode,omitempty"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type Repository interface {
	CreateSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, id string) (*Session, error)
	EndSession(ctx context.Context, id string) error

	AppendEntry(ctx context.Context, e *Entry) error
	ListEntries(ctx context.Context, sessionID string, limit int) ([]*Entry, error)
	CountEntries(ctx context.Context, sessionID string) (int, error)

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateSession(ctx context.Context, s *Session) error {
	if s.Status == "" {
		s.Status = SessionStatusOpen
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, project_id, project_name, status, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, s.ID, s.ProjectID, s.ProjectName, s.Status, s.StartedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (r *SQLiteRepository) GetSession(ctx context.Context, id string) (*Session, error) {
	var s Session
	var startedAt string
	var endedAt sql.NullString

	err := r.db.QueryRowContext(ctx, `
		SELECT id, project_id, project_name, status, started_at, ended_at
		FROM sessions WHERE id = ?
	`, id).Scan(&s.ID, &s.ProjectID, &s.ProjectName, &s.Status, &startedAt, &endedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
	if endedAt.Valid {
		if t, err := parseTime(endedAt.String); err == nil {
			s.EndedAt = &t
		}
	}
	return &s, nil
}

func (r *SQLiteRepository) EndSession(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET status = ?, ended_at = ? WHERE id = ?
	`, SessionStatusClosed, time.Now().UTC().Format(time.RFC3339Nano), id)
	return err
}

func (r *SQLiteRepository) AppendEntry(ctx context.Context, e *Entry) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO journal (session_id, op, action_id, action_type, action_json, success, error_code, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.SessionID, e.Op, e.ActionID, e.ActionType, string(e.Action), boolToInt(e.Success),
		nullString(e.ErrorCode), nullString(e.ErrorMessage), e.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return err
	}
	e.Seq, err = res.LastInsertId()
	return err
}

// ListEntries returns the most recent entries of a session, newest first.
func (r *SQLiteRepository) ListEntries(ctx context.Context, sessionID string, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT seq, session_id, op, action_id, action_type, action_json, success, error_code, error_message, created_at
		FROM journal WHERE session_id = ? ORDER BY seq DESC LIMIT ?
	`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		var actionJSON, createdAt string
		var success int
		var errorCode, errorMessage sql.NullString

		if err := rows.Scan(&e.Seq, &e.SessionID, &e.Op, &e.ActionID, &e.ActionType, &actionJSON, &success, &errorCode, &errorMessage, &createdAt); err != nil {
			return nil, err
		}
		e.Action = json.RawMessage(actionJSON)
		e.Success = success == 1
		e.ErrorCode = errorCode.String
		e.ErrorMessage = errorMessage.String
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (r *SQLiteRepository) CountEntries(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM journal WHERE session_id = ?", sessionID).Scan(&count)
	return count, err
}

func (r *SQLiteRepository) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (r *SQLiteRepository) SetConfig(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = datetime('now')
	`, key, value)
	return err
}

// Journal writes executor records into one session's journal.
type Journal struct {
	repo      Repository
	sessionID string
}

func NewJournal(repo Repository, sessionID string) *Journal {
	return &Journal{repo: repo, sessionID: sessionID}
}

func (j *Journal) Append(ctx context.Context, rec executor.JournalRecord) error {
	raw, err := json.Marshal(rec.Action)
	if err != nil {
		return fmt.Errorf("encode action %s: %w", rec.Action.ID, err)
	}
	e := &Entry{
		SessionID:  j.sessionID,
		Op:         string(rec.Op),
		ActionID:   rec.Action.ID,
		ActionType: rec.Action.Type,
		Action:     raw,
		Success:    rec.Result.Success,
		CreatedAt:  rec.At,
	}
	if rec.Result.Error != nil {
		e.ErrorCode = rec.Result.Error.Code
		e.ErrorMessage = rec.Result.Error.Message
	}
	if err := j.repo.AppendEntry(ctx, e); err != nil {
		return fmt.Errorf("append journal entry: %w", err)
	}
	return nil
}

// DecodeAction parses the stored action of an entry.
func (e *Entry) DecodeAction() (action.Action, error) {
	return action.Unmarshal(e.Action)
}

// parseTime accepts both RFC 3339 and the SQLite datetime() format.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
