package media

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/heimdex/heimdex-timeline/internal/project"
)

const DefaultProbeTimeout = 30 * time.Second

// FFProbe extracts metadata by shelling out to ffprobe.
type FFProbe struct {
	timeout time.Duration
	logger  *slog.Logger
}

func NewFFProbe(timeout time.Duration, logger *slog.Logger) *FFProbe {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &FFProbe{timeout: timeout, logger: logger}
}

// Available reports whether an ffprobe binary is on PATH.
func Available() bool {
	_, err := exec.LookPath("ffprobe")
	return err == nil
}

func (f *FFProbe) Probe(ctx context.Context, path string) (project.MediaMetadata, error) {
	if !Available() {
		return project.MediaMetadata{}, ErrProbeUnavailable
	}
	if err := ctx.Err(); err != nil {
		return project.MediaMetadata{}, err
	}

	timeout := f.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	start := time.Now()
	out, err := ffmpeg.ProbeWithTimeout(path, timeout, ffmpeg.KwArgs{})
	if err != nil {
		return project.MediaMetadata{}, fmt.Errorf("ffprobe: %w", err)
	}
	meta, err := ParseProbe(out)
	if err != nil {
		return project.MediaMetadata{}, err
	}
	f.logger.Debug("probed media", "path", path, "duration", meta.Duration, "elapsed", time.Since(start))
	return meta, nil
}

// ParseProbe reads ffprobe's -show_format -show_streams JSON output.
func ParseProbe(out string) (project.MediaMetadata, error) {
	if !gjson.Valid(out) {
		return project.MediaMetadata{}, fmt.Errorf("ffprobe returned invalid JSON")
	}
	doc := gjson.Parse(out)

	var meta project.MediaMetadata
	meta.Duration = doc.Get("format.duration").Float()
	meta.FileSize = doc.Get("format.size").Int()

	video := doc.Get(`streams.#(codec_type=="video")`)
	audio := doc.Get(`streams.#(codec_type=="audio")`)

	if video.Exists() {
		meta.Codec = video.Get("codec_name").String()
		meta.Width = int(video.Get("width").Int())
		meta.Height = int(video.Get("height").Int())
		meta.FrameRate = parseRate(video.Get("avg_frame_rate").String())
		if meta.FrameRate == 0 {
			meta.FrameRate = parseRate(video.Get("r_frame_rate").String())
		}
		if meta.Duration == 0 {
			meta.Duration = video.Get("duration").Float()
		}
	}
	if audio.Exists() {
		if meta.Codec == "" {
			meta.Codec = audio.Get("codec_name").String()
		}
		meta.SampleRate = int(audio.Get("sample_rate").Int())
		meta.Channels = int(audio.Get("channels").Int())
		if meta.Duration == 0 {
			meta.Duration = audio.Get("duration").Float()
		}
	}
	if !video.Exists() && !audio.Exists() {
		return meta, fmt.Errorf("no audio or video streams")
	}
	return meta, nil
}

// parseRate turns "30000/1001" or "25" into frames per second.
func parseRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !ok {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
