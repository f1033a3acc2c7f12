// Package session owns one project and the executor editing it, and
// serializes every request onto a single goroutine so the engine itself
// needs no locking.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/heimdex/heimdex-timeline/internal/action"
	"github.com/heimdex/heimdex-timeline/internal/executor"
	"github.com/heimdex/heimdex-timeline/internal/history"
	"github.com/heimdex/heimdex-timeline/internal/logging"
	"github.com/heimdex/heimdex-timeline/internal/project"
)

var ErrClosed = errors.New("session closed")

const DefaultQueueSize = 64

type Options struct {
	ID        string
	Project   *project.Project
	Executor  *executor.Executor
	Logger    *slog.Logger
	QueueSize int
}

type Session struct {
	id      string
	project *project.Project
	exec    *executor.Executor
	logger  *slog.Logger

	requests chan func()
	done     chan struct{}
	running  atomic.Bool
}

func New(opts Options) *Session {
	s := &Session{
		id:      opts.ID,
		project: opts.Project,
		exec:    opts.Executor,
		logger:  opts.Logger,
		done:    make(chan struct{}),
	}
	if s.id == "" {
		s.id = project.NewID()
	}
	if s.project == nil {
		s.project = project.New("Untitled Project")
	}
	if s.exec == nil {
		s.exec = executor.New(executor.Options{Logger: opts.Logger})
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	s.logger = logging.WithSessionID(s.logger, s.id)

	size := opts.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}
	s.requests = make(chan func(), size)
	return s
}

func (s *Session) ID() string { return s.id }

// History is safe to read from any goroutine.
func (s *Session) History() *history.History { return s.exec.History() }

// Run processes requests until ctx is cancelled. Requests still queued at
// that point fail with ErrClosed.
func (s *Session) Run(ctx context.Context) {
	if s.running.Swap(true) {
		return
	}
	s.logger.Info("session started", "project_id", s.project.ID)

	for {
		select {
		case <-ctx.Done():
			close(s.done)
			s.logger.Info("session stopping")
			return
		case fn := <-s.requests:
			fn()
		}
	}
}

// Do runs fn on the session goroutine and waits for it to finish. fn must
// not retain p after it returns. A cancelled ctx only abandons fn while it is
// still queued; once fn has started, Do waits for it and returns nil.
func (s *Session) Do(ctx context.Context, fn func(p *project.Project, e *executor.Executor)) error {
	finished := make(chan struct{})
	var claimed atomic.Bool
	req := func() {
		if !claimed.CompareAndSwap(false, true) {
			return
		}
		defer close(finished)
		fn(s.project, s.exec)
	}

	select {
	case s.requests <- req:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-s.done:
		// The loop may have picked the request up just before stopping.
		if claimed.CompareAndSwap(false, true) {
			return ErrClosed
		}
	case <-ctx.Done():
		if claimed.CompareAndSwap(false, true) {
			return ctx.Err()
		}
	}
	<-finished
	return nil
}

func (s *Session) Execute(ctx context.Context, a action.Action) action.Result {
	var res action.Result
	if err := s.Do(ctx, func(p *project.Project, e *executor.Executor) {
		res = e.Execute(ctx, a, p)
	}); err != nil {
		return failed(err)
	}
	return res
}

func (s *Session) ExecuteMany(ctx context.Context, actions []action.Action) []action.Result {
	var res []action.Result
	if err := s.Do(ctx, func(p *project.Project, e *executor.Executor) {
		res = e.ExecuteMany(ctx, actions, p)
	}); err != nil {
		return []action.Result{failed(err)}
	}
	return res
}

func (s *Session) ExecuteGroup(ctx context.Context, name string, actions []action.Action) []action.Result {
	var res []action.Result
	if err := s.Do(ctx, func(p *project.Project, e *executor.Executor) {
		res = e.ExecuteGroup(ctx, name, actions, p)
	}); err != nil {
		return []action.Result{failed(err)}
	}
	return res
}

func (s *Session) Undo(ctx context.Context) action.Result {
	var res action.Result
	if err := s.Do(ctx, func(p *project.Project, e *executor.Executor) {
		res = e.Undo(ctx, p)
	}); err != nil {
		return failed(err)
	}
	return res
}

func (s *Session) Redo(ctx context.Context) action.Result {
	var res action.Result
	if err := s.Do(ctx, func(p *project.Project, e *executor.Executor) {
		res = e.Redo(ctx, p)
	}); err != nil {
		return failed(err)
	}
	return res
}

func (s *Session) UndoGroup(ctx context.Context) []action.Result {
	var res []action.Result
	if err := s.Do(ctx, func(p *project.Project, e *executor.Executor) {
		res = e.UndoGroup(ctx, p)
	}); err != nil {
		return []action.Result{failed(err)}
	}
	return res
}

func (s *Session) RedoGroup(ctx context.Context) []action.Result {
	var res []action.Result
	if err := s.Do(ctx, func(p *project.Project, e *executor.Executor) {
		res = e.RedoGroup(ctx, p)
	}); err != nil {
		return []action.Result{failed(err)}
	}
	return res
}

func (s *Session) UndoToSnapshot(ctx context.Context, snapshotID string) []action.Result {
	var res []action.Result
	if err := s.Do(ctx, func(p *project.Project, e *executor.Executor) {
		res = e.UndoToSnapshot(ctx, p, snapshotID)
	}); err != nil {
		return []action.Result{failed(err)}
	}
	return res
}

// Project returns a deep copy of the current project.
func (s *Session) Project(ctx context.Context) (*project.Project, error) {
	var out *project.Project
	err := s.Do(ctx, func(p *project.Project, _ *executor.Executor) {
		out = p.Clone()
	})
	return out, err
}

func failed(err error) action.Result {
	return action.Failed(action.CodeCancelled, err.Error(), nil)
}
