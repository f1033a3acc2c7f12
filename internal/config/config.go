// Package config provides configuration management for Heimdex Timeline.
// Configuration is loaded from environment variables with sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// Default values
	DefaultPort              = 8788
	DefaultLogLevel          = "info"
	DefaultDataDir           = ".heimdex-timeline"
	DefaultHistoryMaxSize    = 1000
	DefaultAutoGroupWindowMs = 100
	DefaultGridSize          = 1.0
	DefaultSnapThresholdPx   = 10.0
	DefaultProbeTimeout      = 30 // seconds

	// Environment variable names
	EnvPort              = "HEIMDEX_PORT"
	EnvLogLevel          = "HEIMDEX_LOG_LEVEL"
	EnvDataDir           = "HEIMDEX_DATA_DIR"
	EnvHistoryMaxSize    = "HEIMDEX_HISTORY_MAX_SIZE"
	EnvAutoGroupWindowMs = "HEIMDEX_AUTO_GROUP_WINDOW_MS"
	EnvGridSize          = "HEIMDEX_GRID_SIZE"
	EnvSnapThresholdPx   = "HEIMDEX_SNAP_THRESHOLD_PX"
	EnvHeadless          = "HEIMDEX_HEADLESS"
	EnvFFProbe           = "HEIMDEX_FFPROBE"

	// Database filename
	DBFilename = "timeline.db"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	HistoryMaxSize() int
	AutoGroupWindow() time.Duration
	GridSize() float64
	SnapThresholdPx() float64
	Headless() bool
	FFProbeEnabled() bool
	ProbeTimeout() time.Duration
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port              int
	logLevel          string
	dataDir           string
	historyMaxSize    int
	autoGroupWindowMs int
	gridSize          float64
	snapThresholdPx   float64
	headless          bool
	ffprobe           bool
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:              DefaultPort,
		logLevel:          DefaultLogLevel,
		dataDir:           defaultDataDir(),
		historyMaxSize:    DefaultHistoryMaxSize,
		autoGroupWindowMs: DefaultAutoGroupWindowMs,
		gridSize:          DefaultGridSize,
		snapThresholdPx:   DefaultSnapThresholdPx,
		ffprobe:           true,
	}

	// Override port from environment
	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	// Override log level from environment
	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	// Override data directory from environment
	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	if err := positiveInt(EnvHistoryMaxSize, &cfg.historyMaxSize); err != nil {
		return nil, err
	}
	if err := positiveInt(EnvAutoGroupWindowMs, &cfg.autoGroupWindowMs); err != nil {
		return nil, err
	}
	if err := nonNegativeFloat(EnvGridSize, &cfg.gridSize); err != nil {
		return nil, err
	}
	if err := nonNegativeFloat(EnvSnapThresholdPx, &cfg.snapThresholdPx); err != nil {
		return nil, err
	}
	if err := boolEnv(EnvHeadless, &cfg.headless); err != nil {
		return nil, err
	}
	if err := boolEnv(EnvFFProbe, &cfg.ffprobe); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// HistoryMaxSize is the undo stack capacity.
func (c *EnvConfig) HistoryMaxSize() int {
	return c.historyMaxSize
}

// AutoGroupWindow is how close two same-typed actions must be to share an
// undo group.
func (c *EnvConfig) AutoGroupWindow() time.Duration {
	return time.Duration(c.autoGroupWindowMs) * time.Millisecond
}

func (c *EnvConfig) GridSize() float64 {
	return c.gridSize
}

func (c *EnvConfig) SnapThresholdPx() float64 {
	return c.snapThresholdPx
}

// Headless disables the system tray.
func (c *EnvConfig) Headless() bool {
	return c.headless
}

func (c *EnvConfig) FFProbeEnabled() bool {
	return c.ffprobe
}

func (c *EnvConfig) ProbeTimeout() time.Duration {
	return time.Duration(DefaultProbeTimeout) * time.Second
}

func positiveInt(env string, dst *int) error {
	s := os.Getenv(env)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", env, err)
	}
	if n < 1 {
		return fmt.Errorf("invalid %s: must be positive", env)
	}
	*dst = n
	return nil
}

func nonNegativeFloat(env string, dst *float64) error {
	s := os.Getenv(env)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", env, err)
	}
	if f < 0 {
		return fmt.Errorf("invalid %s: must not be negative", env)
	}
	*dst = f
	return nil
}

func boolEnv(env string, dst *bool) error {
	s := strings.TrimSpace(os.Getenv(env))
	if s == "" {
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", env, err)
	}
	*dst = b
	return nil
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
