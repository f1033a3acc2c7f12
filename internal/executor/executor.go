// Package executor applies actions to a project and records them for undo.
//
// Execute validates an action, generates its inverse from a deep copy of the
// project, dispatches the action to the handler for its category and pushes
// the pair onto the history. Undo and redo replay the stored actions through
// the same handlers without validating them again.
//
// Handlers are not transactional. If one fails part way, the project may be
// left partially changed and nothing is recorded.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/heimdex/heimdex-timeline/internal/action"
	"github.com/heimdex/heimdex-timeline/internal/history"
	"github.com/heimdex/heimdex-timeline/internal/inverse"
	"github.com/heimdex/heimdex-timeline/internal/logging"
	"github.com/heimdex/heimdex-timeline/internal/placement"
	"github.com/heimdex/heimdex-timeline/internal/project"
	"github.com/heimdex/heimdex-timeline/internal/validate"
)

var (
	ErrUnknownVerb     = errors.New("unknown action verb")
	ErrHandlerPanicked = errors.New("action handler panicked")
)

// Created reports the entity a creation handler added.
type Created struct {
	Category action.Category
	ID       string
}

// outcome is what a handler reports besides success. pins are params that
// fix ids the handler generated, merged into the recorded action so a redo
// recreates the same entities.
type outcome struct {
	created *Created
	pins    action.Params
}

func created(cat action.Category, id string, pinKey string) outcome {
	return outcome{
		created: &Created{Category: cat, ID: id},
		pins:    action.Params{pinKey: id},
	}
}

// Op names the history operation a journal record describes.
type Op string

const (
	OpExecute Op = "execute"
	OpUndo    Op = "undo"
	OpRedo    Op = "redo"
)

// JournalRecord is one applied or rejected action.
type JournalRecord struct {
	Op     Op
	Action action.Action
	Result action.Result
	At     time.Time
}

// Journal persists an audit trail. Failures to record are logged and do not
// affect the outcome of the operation.
type Journal interface {
	Append(ctx context.Context, rec JournalRecord) error
}

type Options struct {
	History  *history.History
	Resolver *placement.Resolver
	Logger   *slog.Logger
	Journal  Journal
}

// Executor is not safe for concurrent use. Callers serialize access, see the
// session package.
type Executor struct {
	validator *validate.Validator
	inverter  *inverse.Generator
	history   *history.History
	resolver  *placement.Resolver
	logger    *slog.Logger
	journal   Journal

	lastCreated map[action.Category]string
}

func New(opts Options) *Executor {
	e := &Executor{
		validator:   validate.New(),
		inverter:    inverse.New(),
		history:     opts.History,
		resolver:    opts.Resolver,
		logger:      opts.Logger,
		journal:     opts.Journal,
		lastCreated: make(map[action.Category]string),
	}
	if e.history == nil {
		e.history = history.New(history.Options{})
	}
	if e.resolver == nil {
		e.resolver = placement.New(placement.DefaultGridSize, placement.DefaultSnapThresholdPx)
	}
	if e.logger == nil {
		e.logger = logging.Discard()
	}
	e.logger = logging.WithComponent(e.logger, "executor")
	return e
}

// History exposes the undo ledger for UI binding.
func (e *Executor) History() *history.History { return e.history }

func (e *Executor) Resolver() *placement.Resolver { return e.resolver }

// Validate runs the validator without applying anything.
func (e *Executor) Validate(a action.Action, p *project.Project) validate.Result {
	return e.validator.Validate(a, p)
}

// Execute validates and applies a, then records it with its inverse.
func (e *Executor) Execute(ctx context.Context, a action.Action, p *project.Project) action.Result {
	if err := ctx.Err(); err != nil {
		return action.Failed(action.CodeCancelled, err.Error(), nil)
	}
	log := logging.WithAction(e.logger, a.ID, a.Type)

	if v := e.validator.Validate(a, p); !v.Valid {
		msgs := make([]string, len(v.Errors))
		for i, ve := range v.Errors {
			msgs[i] = ve.Message
		}
		res := action.Failed(action.CodeInvalidParams, strings.Join(msgs, "; "), v.Errors)
		log.Debug("action rejected", "errors", len(v.Errors))
		e.record(ctx, OpExecute, a, res)
		return res
	}

	before := p.Clone()
	inv := e.inverter.Generate(a, before)

	out, err := e.apply(p, a)
	if err != nil {
		res := action.Failed(action.CodeInvalidParams, err.Error(), nil)
		log.Warn("action failed", "error", err)
		e.record(ctx, OpExecute, a, res)
		return res
	}

	recorded := a
	for k, v := range out.pins {
		recorded = recorded.WithParam(k, v)
	}
	if inv != nil && out.created != nil {
		bound, _ := inv.ReplaceValue(action.LastAdded, out.created.ID)
		inv = &bound
	}
	e.history.Push(recorded, inv)

	res := action.Succeeded(a.ID)
	log.Debug("action applied", "reversible", inv != nil)
	e.record(ctx, OpExecute, recorded, res)
	return res
}

// ExecuteMany applies actions in order and stops at the first failure. It
// returns the results gathered so far; earlier actions are not rolled back.
func (e *Executor) ExecuteMany(ctx context.Context, actions []action.Action, p *project.Project) []action.Result {
	results := make([]action.Result, 0, len(actions))
	for _, a := range actions {
		res := e.Execute(ctx, a, p)
		results = append(results, res)
		if !res.Success {
			break
		}
	}
	return results
}

// ExecuteGroup is ExecuteMany with every recorded entry in one explicit
// history group, so a single UndoGroup reverts the batch.
func (e *Executor) ExecuteGroup(ctx context.Context, name string, actions []action.Action, p *project.Project) []action.Result {
	scope := e.history.GroupScope(name)
	defer scope.End()
	return e.ExecuteMany(ctx, actions, p)
}

// Undo applies the inverse of the most recent entry. On failure the entry
// stays where it was.
func (e *Executor) Undo(ctx context.Context, p *project.Project) action.Result {
	if err := ctx.Err(); err != nil {
		return action.Failed(action.CodeCancelled, err.Error(), nil)
	}
	entry, ok := e.history.PeekUndo()
	if !ok {
		return action.Failed(action.CodeHistoryEmpty, "Nothing to undo", nil)
	}
	return e.undoEntry(ctx, entry, p)
}

// Redo re-applies the most recently undone action.
func (e *Executor) Redo(ctx context.Context, p *project.Project) action.Result {
	if err := ctx.Err(); err != nil {
		return action.Failed(action.CodeCancelled, err.Error(), nil)
	}
	entry, ok := e.history.PeekRedo()
	if !ok {
		return action.Failed(action.CodeHistoryEmpty, "Nothing to redo", nil)
	}
	return e.redoEntry(ctx, entry, p)
}

// UndoGroup undoes the top entry and, when it belongs to a group, every
// entry below it in the same group. It stops at the first failure.
func (e *Executor) UndoGroup(ctx context.Context, p *project.Project) []action.Result {
	first, ok := e.history.PeekUndo()
	if !ok {
		return []action.Result{action.Failed(action.CodeHistoryEmpty, "Nothing to undo", nil)}
	}
	var results []action.Result
	for {
		res := e.Undo(ctx, p)
		results = append(results, res)
		if !res.Success || first.GroupID == "" {
			return results
		}
		next, ok := e.history.PeekUndo()
		if !ok || next.GroupID != first.GroupID {
			return results
		}
	}
}

// RedoGroup is the mirror of UndoGroup.
func (e *Executor) RedoGroup(ctx context.Context, p *project.Project) []action.Result {
	first, ok := e.history.PeekRedo()
	if !ok {
		return []action.Result{action.Failed(action.CodeHistoryEmpty, "Nothing to redo", nil)}
	}
	var results []action.Result
	for {
		res := e.Redo(ctx, p)
		results = append(results, res)
		if !res.Success || first.GroupID == "" {
			return results
		}
		next, ok := e.history.PeekRedo()
		if !ok || next.GroupID != first.GroupID {
			return results
		}
	}
}

// UndoToSnapshot undoes entries until the undo stack is back at the
// bookmark's depth.
func (e *Executor) UndoToSnapshot(ctx context.Context, p *project.Project, snapshotID string) []action.Result {
	snap, ok := e.history.Snapshot(snapshotID)
	if !ok {
		return []action.Result{action.Failed(action.CodeInvalidParams, fmt.Sprintf("snapshot %q not found", snapshotID), nil)}
	}
	var results []action.Result
	for e.history.UndoCount() > snap.StackIndex {
		res := e.Undo(ctx, p)
		results = append(results, res)
		if !res.Success {
			break
		}
	}
	return results
}

func (e *Executor) undoEntry(ctx context.Context, entry history.Entry, p *project.Project) action.Result {
	log := logging.WithAction(e.logger, entry.Action.ID, entry.Action.Type)
	if entry.Inverse == nil {
		res := action.Failed(action.CodeNoInverse, "No inverse action available", nil)
		e.record(ctx, OpUndo, entry.Action, res)
		return res
	}

	inv := e.resolvePlaceholders(*entry.Inverse)
	if _, err := e.apply(p, inv); err != nil {
		res := action.Failed(action.CodeInvalidParams, err.Error(), nil)
		log.Warn("undo failed", "error", err)
		e.record(ctx, OpUndo, inv, res)
		return res
	}
	if err := e.history.CommitUndo(entry.ID); err != nil {
		log.Error("history changed during undo", "error", err)
	}

	res := action.Succeeded(entry.Action.ID)
	log.Debug("action undone")
	e.record(ctx, OpUndo, inv, res)
	return res
}

func (e *Executor) redoEntry(ctx context.Context, entry history.Entry, p *project.Project) action.Result {
	log := logging.WithAction(e.logger, entry.Action.ID, entry.Action.Type)

	a := e.resolvePlaceholders(entry.Action)
	if _, err := e.apply(p, a); err != nil {
		res := action.Failed(action.CodeInvalidParams, err.Error(), nil)
		log.Warn("redo failed", "error", err)
		e.record(ctx, OpRedo, a, res)
		return res
	}
	if err := e.history.CommitRedo(entry.ID); err != nil {
		log.Error("history changed during redo", "error", err)
	}

	res := action.Succeeded(entry.Action.ID)
	log.Debug("action redone")
	e.record(ctx, OpRedo, a, res)
	return res
}

// resolvePlaceholders substitutes the most recently created id of the
// action's category for any action.LastAdded param. Entries recorded by
// Execute never carry the marker; it only survives in hand-built or
// imported history.
func (e *Executor) resolvePlaceholders(a action.Action) action.Action {
	if !a.HasPlaceholder() {
		return a
	}
	id, ok := e.lastCreated[a.Category()]
	if !ok {
		return a
	}
	resolved, _ := a.ReplaceValue(action.LastAdded, id)
	return resolved
}

// LastCreated returns the id most recently created in cat.
func (e *Executor) LastCreated(cat action.Category) (string, bool) {
	id, ok := e.lastCreated[cat]
	return id, ok
}

// apply dispatches a to its category handler, converting a panic into an
// error.
func (e *Executor) apply(p *project.Project, a action.Action) (out outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrHandlerPanicked, a.Type, r)
		}
	}()

	cat, verb, ok := action.ParseType(a.Type)
	if !ok {
		return outcome{}, fmt.Errorf("%w: %q", ErrUnknownVerb, a.Type)
	}
	params := a.Params
	if params == nil {
		params = action.Params{}
	}

	switch cat {
	case action.CategoryProject:
		out, err = e.applyProject(p, verb, params)
	case action.CategoryMedia:
		out, err = e.applyMedia(p, verb, params)
	case action.CategoryTrack:
		out, err = e.applyTrack(p, verb, params)
	case action.CategoryClip:
		out, err = e.applyClip(p, verb, params)
	case action.CategoryEffect:
		out, err = e.applyEffect(p, verb, params)
	case action.CategoryTransform:
		out, err = e.applyTransform(p, verb, params)
	case action.CategoryKeyframe:
		out, err = e.applyKeyframe(p, verb, params)
	case action.CategoryTransition:
		out, err = e.applyTransition(p, verb, params)
	case action.CategoryAudio:
		out, err = e.applyAudio(p, verb, params)
	case action.CategorySubtitle:
		out, err = e.applySubtitle(p, verb, params)
	}
	if err != nil {
		return outcome{}, err
	}
	if out.created != nil {
		e.lastCreated[out.created.Category] = out.created.ID
	}
	return out, nil
}

func (e *Executor) record(ctx context.Context, op Op, a action.Action, res action.Result) {
	if e.journal == nil {
		return
	}
	rec := JournalRecord{Op: op, Action: a, Result: res, At: time.Now()}
	if err := e.journal.Append(context.WithoutCancel(ctx), rec); err != nil {
		e.logger.Warn("failed to journal action", "action_id", a.ID, "error", err)
	}
}

func unknownVerb(cat action.Category, verb string) error {
	return fmt.Errorf("%w: %s", ErrUnknownVerb, cat.Type(verb))
}
