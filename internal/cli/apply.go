package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/heimdex/heimdex-timeline/internal/action"
	"github.com/heimdex/heimdex-timeline/internal/config"
	"github.com/heimdex/heimdex-timeline/internal/executor"
	"github.com/heimdex/heimdex-timeline/internal/history"
	"github.com/heimdex/heimdex-timeline/internal/logging"
	"github.com/heimdex/heimdex-timeline/internal/project"
)

type applyOptions struct {
	ProjectPath string
	ActionsPath string
	OutPath     string
	KeepGoing   bool
	Undo        int
	Group       string
}

// ApplyReport is what one replay did to a project.
type ApplyReport struct {
	Actions   []action.Action
	Results   []action.Result
	Undone    []action.Result
	UndoDepth int
	RedoDepth int
	History   []history.DisplayRow
}

func (r *ApplyReport) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Success {
			n++
		}
	}
	for _, res := range r.Undone {
		if !res.Success {
			n++
		}
	}
	return n
}

func newApplyCmd() *cobra.Command {
	opts := applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Replay a batch of actions against a project file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.ProjectPath, "project", "", "Project file (default: a new empty project)")
	cmd.Flags().StringVar(&opts.ActionsPath, "actions", "", "JSON array of actions to replay")
	cmd.Flags().StringVar(&opts.OutPath, "out", "", "Write the resulting project here")
	cmd.Flags().BoolVar(&opts.KeepGoing, "keep-going", false, "Continue past failed actions")
	cmd.Flags().IntVar(&opts.Undo, "undo", 0, "Undo this many entries after replaying")
	cmd.Flags().StringVar(&opts.Group, "group", "", "Record the replayed actions as one named undo group")
	_ = cmd.MarkFlagRequired("actions")

	return cmd
}

func runApply(ctx context.Context, w, logw io.Writer, opts applyOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Undo < 0 {
		return fmt.Errorf("--undo must not be negative")
	}

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.New(logw, cfg.LogLevel())

	p, err := loadProject(opts.ProjectPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(opts.ActionsPath)
	if err != nil {
		return fmt.Errorf("read actions: %w", err)
	}
	actions, err := action.UnmarshalList(data)
	if err != nil {
		return fmt.Errorf("parse actions %s: %w", opts.ActionsPath, err)
	}

	report := Apply(ctx, newExecutor(cfg, logger, nil), p, actions, opts)
	renderReport(w, report)

	if opts.OutPath != "" {
		if err := writeProject(opts.OutPath, p); err != nil {
			return err
		}
	}

	if n := report.Failed(); n > 0 {
		return fmt.Errorf("%d operation(s) failed", n)
	}
	return nil
}

// Apply replays actions against p. Without KeepGoing it stops at the first
// failure, like a batch over the API. With Group set the replayed entries
// form one undo group. Undos stop at the first failure either way.
func Apply(ctx context.Context, e *executor.Executor, p *project.Project, actions []action.Action, opts applyOptions) *ApplyReport {
	report := &ApplyReport{Actions: actions}

	var scope *history.GroupScope
	if opts.Group != "" {
		scope = e.History().GroupScope(opts.Group)
	}
	if opts.KeepGoing {
		for _, a := range actions {
			report.Results = append(report.Results, e.Execute(ctx, a, p))
		}
	} else {
		report.Results = e.ExecuteMany(ctx, actions, p)
	}
	if scope != nil {
		scope.End()
	}

	for i := 0; i < opts.Undo; i++ {
		res := e.Undo(ctx, p)
		report.Undone = append(report.Undone, res)
		if !res.Success {
			break
		}
	}

	h := e.History()
	report.UndoDepth = h.UndoCount()
	report.RedoDepth = h.RedoCount()
	report.History = h.DisplayHistory()
	return report
}
