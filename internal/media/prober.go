// Package media inspects local files before they enter the media library.
package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/heimdex/heimdex-timeline/internal/action"
	"github.com/heimdex/heimdex-timeline/internal/project"
)

// ErrProbeUnavailable is returned when no probing backend is installed.
var ErrProbeUnavailable = errors.New("media probe unavailable")

type Prober interface {
	Probe(ctx context.Context, path string) (project.MediaMetadata, error)
}

// StubProber reports nothing but the file size. Used when ffprobe is
// disabled.
type StubProber struct {
	logger *slog.Logger
}

func NewStubProber(logger *slog.Logger) *StubProber {
	return &StubProber{logger: logger}
}

func (s *StubProber) Probe(ctx context.Context, path string) (project.MediaMetadata, error) {
	s.logger.Debug("probe stub: metadata not extracted", "path", path)
	info, err := os.Stat(path)
	if err != nil {
		return project.MediaMetadata{}, err
	}
	return project.MediaMetadata{FileSize: info.Size()}, nil
}

// extraTypes covers container formats missing from common mime tables.
var extraTypes = map[string]string{
	".mkv":  "video/x-matroska",
	".mov":  "video/quicktime",
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".mxf":  "application/mxf",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".mp3":  "audio/mpeg",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// MimeFromPath guesses a mime type from the file extension.
func MimeFromPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := extraTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if i := strings.IndexByte(t, ';'); i >= 0 {
			t = t[:i]
		}
		return t
	}
	return "application/octet-stream"
}

func FileRefFromPath(path string) (project.FileRef, error) {
	info, err := os.Stat(path)
	if err != nil {
		return project.FileRef{}, err
	}
	if info.IsDir() {
		return project.FileRef{}, fmt.Errorf("%s is a directory", path)
	}
	return project.FileRef{
		Name:     filepath.Base(path),
		MimeType: MimeFromPath(path),
		Size:     info.Size(),
		Path:     path,
	}, nil
}

// ImportAction probes path and builds the media/import action for it.
func ImportAction(ctx context.Context, prober Prober, path string) (action.Action, error) {
	ref, err := FileRefFromPath(path)
	if err != nil {
		return action.Action{}, fmt.Errorf("stat media: %w", err)
	}
	meta, err := prober.Probe(ctx, path)
	if err != nil {
		return action.Action{}, fmt.Errorf("probe %s: %w", ref.Name, err)
	}
	if meta.FileSize == 0 {
		meta.FileSize = ref.Size
	}
	return action.New("media/import", action.Params{
		"file":     ref,
		"metadata": meta,
	}), nil
}
