// Package subtitle reads and writes SubRip (.srt) subtitle text.
package subtitle

import (
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Cue is one parsed subtitle block. Times are in seconds.
type Cue struct {
	Index     int
	StartTime float64
	EndTime   float64
	Text      string
}

var (
	blockSep    = regexp.MustCompile(`\n[ \t]*\n`)
	blockRe     = regexp.MustCompile(`^(\d+)[ \t]*\n(\d+:\d{2}:\d{2}[,.]\d{3})[ \t]*-->[ \t]*(\d+:\d{2}:\d{2}[,.]\d{3})[^\n]*\n([\s\S]+)$`)
	timestampRe = regexp.MustCompile(`^(\d+):(\d{2}):(\d{2})[,.](\d{3})$`)
)

// Parse extracts every well-formed block from SRT text in file order. Blocks
// that do not match the SRT shape, or that end at or before their start, are
// skipped without error.
func Parse(text string) []Cue {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimPrefix(text, "\ufeff")

	var cues []Cue
	for _, block := range blockSep.Split(strings.TrimSpace(text), -1) {
		m := blockRe.FindStringSubmatch(strings.TrimSpace(block))
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		start, err := ParseTimestamp(m[2])
		if err != nil {
			continue
		}
		end, err := ParseTimestamp(m[3])
		if err != nil || end <= start {
			continue
		}
		body := strings.TrimSpace(m[4])
		if body == "" {
			continue
		}
		cues = append(cues, Cue{Index: idx, StartTime: start, EndTime: end, Text: body})
	}
	return cues
}

// ParseTimestamp converts HH:MM:SS,mmm to seconds.
func ParseTimestamp(s string) (float64, error) {
	m := timestampRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("invalid SRT timestamp %q", s)
	}
	h, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	sec, _ := strconv.Atoi(m[3])
	ms, _ := strconv.Atoi(m[4])
	return float64(h*3600+mins*60+sec) + float64(ms)/1000, nil
}

// FormatTimestamp renders seconds as HH:MM:SS,mmm.
func FormatTimestamp(seconds float64) string {
	total := int64(math.Round(math.Max(0, seconds) * 1000))
	ms := total % 1000
	s := total / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", s/3600, (s/60)%60, s%60, ms)
}

// Write renders cues as SRT, numbering them from one.
func Write(w io.Writer, cues []Cue) error {
	for i, c := range cues {
		if _, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n",
			i+1, FormatTimestamp(c.StartTime), FormatTimestamp(c.EndTime), c.Text); err != nil {
			return err
		}
	}
	return nil
}
