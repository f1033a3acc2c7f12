package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/heimdex/heimdex-timeline/internal/project"
)

// Resolve turns the clips of a track into EDL events in timeline order.
// Clips whose media is missing from the library are reported by id and
// skipped.
func Resolve(p *project.Project, trackID string) (clips []ResolvedClip, unresolved []string, err error) {
	track, _, ok := p.FindTrack(trackID)
	if !ok {
		return nil, nil, fmt.Errorf("track %s not found", trackID)
	}

	channel := "V"
	if track.Type == project.TrackAudio {
		channel = "A"
	}

	unresolved = make([]string, 0)
	for _, c := range project.SortedClips(track.Clips) {
		m, _, ok := p.FindMedia(c.MediaID)
		if !ok {
			unresolved = append(unresolved, c.ID)
			continue
		}
		name := SanitizeName(m.Name, 160)
		if name == "" {
			name = c.ID
		}
		mediaPath := m.SourcePath
		if mediaPath == "" {
			mediaPath = m.Name
		}
		clips = append(clips, ResolvedClip{
			ClipID:    c.ID,
			ClipName:  name,
			MediaPath: mediaPath,
			Channel:   channel,
			SourceIn:  secondsToMs(c.InPoint),
			SourceOut: secondsToMs(c.InPoint + c.Duration),
			RecordIn:  secondsToMs(c.StartTime),
		})
	}
	return clips, unresolved, nil
}

func GenerateEDL(clips []ResolvedClip, title string, frameRate float64) string {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = 30
	}

	isDropFrame := math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01

	lines := []string{fmt.Sprintf("TITLE: %s", title)}
	if isDropFrame {
		lines = append(lines, "FCM: DROP FRAME")
	} else {
		lines = append(lines, "FCM: NON-DROP FRAME")
	}
	lines = append(lines, "")

	for i, clip := range clips {
		channel := clip.Channel
		if channel == "" {
			channel = "V"
		}
		durationMs := clip.SourceOut - clip.SourceIn
		srcIn := msToTimecode(clip.SourceIn, fps)
		srcOut := msToTimecode(clip.SourceOut, fps)
		recIn := msToTimecode(clip.RecordIn, fps)
		recOut := msToTimecode(clip.RecordIn+durationMs, fps)

		lines = append(lines,
			fmt.Sprintf("%03d  %-8s %-5s C        %s %s %s %s", i+1, "AX", channel, srcIn, srcOut, recIn, recOut),
			fmt.Sprintf("* FROM CLIP NAME:  %s", clip.ClipName),
			fmt.Sprintf("* MEDIA PATH:  %s", clip.MediaPath),
		)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func secondsToMs(s float64) int {
	return int(math.Round(s * 1000))
}

func msToTimecode(ms int, fps int) string {
	totalFrames := int(math.Round(float64(ms) * float64(fps) / 1000.0))
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, seconds, frames)
}
