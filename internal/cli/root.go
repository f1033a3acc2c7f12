package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heimdex/heimdex-timeline/internal/config"
	"github.com/heimdex/heimdex-timeline/internal/executor"
	"github.com/heimdex/heimdex-timeline/internal/history"
	"github.com/heimdex/heimdex-timeline/internal/placement"
	"github.com/heimdex/heimdex-timeline/internal/project"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "timeline",
		Short:        "Heimdex timeline editing engine",
		Version:      config.Version,
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Run the local API (and the system tray unless HEIMDEX_HEADLESS is set)
  timeline serve

  # Replay a recorded batch of actions against a project file
  timeline apply --project cut.json --actions edits.json --out cut.edited.json
`),
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newApplyCmd())

	return cmd
}

// loadProject reads a project document. An empty path yields a new project.
func loadProject(path string) (*project.Project, error) {
	if path == "" {
		return project.New("Untitled Project"), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}
	var p project.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse project %s: %w", path, err)
	}
	if p.ID == "" {
		p.ID = project.NewID()
	}
	if p.Settings == (project.Settings{}) {
		p.Settings = project.DefaultSettings()
	}
	return &p, nil
}

func writeProject(path string, p *project.Project) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	return nil
}

// newExecutor builds an executor with the history and placement settings
// from cfg. journal may be nil.
func newExecutor(cfg config.Config, logger *slog.Logger, journal executor.Journal) *executor.Executor {
	return executor.New(executor.Options{
		History: history.New(history.Options{
			MaxSize:         cfg.HistoryMaxSize(),
			AutoGroupWindow: cfg.AutoGroupWindow(),
		}),
		Resolver: placement.New(cfg.GridSize(), cfg.SnapThresholdPx()),
		Logger:   logger,
		Journal:  journal,
	})
}
