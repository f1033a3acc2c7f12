package playback

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/heimdex/heimdex-timeline/internal/media"
	"github.com/heimdex/heimdex-timeline/internal/project"
)

// ErrNoSource is returned for media imported without a local file.
var ErrNoSource = errors.New("media has no local source")

// Streamer serves the source file behind a media item.
type Streamer interface {
	ServeMedia(w http.ResponseWriter, r *http.Request, item project.MediaItem) error
}

type Server struct {
	logger *slog.Logger
}

func NewServer(logger *slog.Logger) *Server {
	return &Server{logger: logger}
}

// ServeMedia writes the item's source file, or the first requested byte
// range of it. Errors are returned before anything is written; a missing
// file wraps os.ErrNotExist.
func (s *Server) ServeMedia(w http.ResponseWriter, r *http.Request, item project.MediaItem) error {
	if item.SourcePath == "" {
		return ErrNoSource
	}

	file, err := os.Open(item.SourcePath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if stat.IsDir() {
		return fmt.Errorf("open source: %w", os.ErrNotExist)
	}
	size := stat.Size()

	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Type", media.MimeFromPath(item.SourcePath))

	parsedRange, err := ParseRange(r.Header.Get("Range"), size)
	if errors.Is(err, ErrUnsatisfiable) {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		http.Error(w, "Range Not Satisfiable", http.StatusRequestedRangeNotSatisfiable)
		return nil
	}
	// A malformed Range header is ignored and the whole file is sent.

	if parsedRange == nil {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", size))
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			s.copy(w, file, size, item.ID)
		}
		return nil
	}

	if _, err := file.Seek(parsedRange.Start, io.SeekStart); err != nil {
		return fmt.Errorf("seek source: %w", err)
	}

	w.Header().Set("Content-Length", fmt.Sprintf("%d", parsedRange.ContentLength()))
	w.Header().Set("Content-Range", parsedRange.ContentRange(size))
	w.WriteHeader(http.StatusPartialContent)
	if r.Method != http.MethodHead {
		s.copy(w, file, parsedRange.ContentLength(), item.ID)
	}
	return nil
}

func (s *Server) copy(w io.Writer, r io.Reader, n int64, mediaID string) {
	// Clients routinely hang up mid-stream while scrubbing.
	if _, err := io.CopyN(w, r, n); err != nil {
		s.logger.Debug("media stream ended early", "media_id", mediaID, "error", err)
	}
}
