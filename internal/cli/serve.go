package cli

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/heimdex/heimdex-timeline/internal/api"
	"github.com/heimdex/heimdex-timeline/internal/config"
	"github.com/heimdex/heimdex-timeline/internal/db"
	"github.com/heimdex/heimdex-timeline/internal/logging"
	"github.com/heimdex/heimdex-timeline/internal/media"
	"github.com/heimdex/heimdex-timeline/internal/playback"
	"github.com/heimdex/heimdex-timeline/internal/project"
	"github.com/heimdex/heimdex-timeline/internal/session"
	"github.com/heimdex/heimdex-timeline/internal/store"
	"github.com/heimdex/heimdex-timeline/internal/ui"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local editing API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(projectPath)
		},
	}
	cmd.Flags().StringVar(&projectPath, "project", "", "Project file to open (default: a new empty project)")
	return cmd
}

func runServe(projectPath string) error {
	startTime := time.Now()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting heimdex timeline", "version", config.Version, "data_dir", logging.SanitizePath(cfg.DataDir()))

	doc, err := loadProject(projectPath)
	if err != nil {
		return err
	}

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	repo := store.NewRepository(database.Conn())

	deviceID, err := ensureDeviceID(repo)
	if err != nil {
		return fmt.Errorf("failed to ensure device ID: %w", err)
	}

	authToken, err := ensureAuthToken(repo)
	if err != nil {
		return fmt.Errorf("failed to ensure auth token: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &store.Session{ID: project.NewID(), ProjectID: doc.ID, ProjectName: doc.Name}
	if err := repo.CreateSession(ctx, rec); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	exec := newExecutor(cfg, logger, store.NewJournal(repo, rec.ID))
	sess := session.New(session.Options{
		ID:       rec.ID,
		Project:  doc,
		Executor: exec,
		Logger:   logger,
	})
	go sess.Run(ctx)

	printBanner(cfg.Port(), authToken, deviceID, rec.ID)

	apiServer := api.NewServer(api.ServerConfig{
		Port:       cfg.Port(),
		Session:    sess,
		Repository: repo,
		Prober:     newProber(cfg, logger),
		Playback:   playback.NewServer(logger),
		Logger:     logger,
		StartTime:  startTime,
		DeviceID:   deviceID,
	})

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	quitCh := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			close(quitCh)
		case <-quitCh:
		}
	}()

	if cfg.Headless() {
		logger.Info("running in headless mode (no system tray)")
	} else {
		tray := ui.NewTray(ui.TrayConfig{
			Session: sess,
			Logger:  logger,
			OnQuit: func() {
				close(quitCh)
			},
		})
		go tray.Run()
	}

	<-quitCh

	logger.Info("initiating graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	// Stop the session only after in-flight requests have drained.
	cancel()

	if err := repo.EndSession(shutdownCtx, rec.ID); err != nil {
		logger.Error("failed to end session", "session_id", rec.ID, "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

func newProber(cfg config.Config, logger *slog.Logger) media.Prober {
	if cfg.FFProbeEnabled() && media.Available() {
		logger.Info("media probing via ffprobe", "timeout", cfg.ProbeTimeout())
		return media.NewFFProbe(cfg.ProbeTimeout(), logger)
	}
	logger.Warn("ffprobe unavailable, imported media gets file metadata only")
	return media.NewStubProber(logger)
}

func ensureDeviceID(repo store.Repository) (string, error) {
	return ensureSecret(repo, "device_id", 16)
}

func ensureAuthToken(repo store.Repository) (string, error) {
	return ensureSecret(repo, api.AuthTokenKey, 32)
}

// ensureSecret returns the stored value for key, generating and storing a
// random hex value of n bytes on first use.
func ensureSecret(repo store.Repository, key string, n int) (string, error) {
	ctx := context.Background()

	existing, err := repo.GetConfig(ctx, key)
	if err == nil && existing != "" {
		return existing, nil
	}

	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	value := hex.EncodeToString(buf)

	if err := repo.SetConfig(ctx, key, value); err != nil {
		return "", err
	}

	return value, nil
}
