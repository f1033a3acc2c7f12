package project

import "strings"

// FileRef describes an imported file. The bytes themselves are handled by
// the caller. Path is set only for files on this machine.
type FileRef struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	Path     string `json:"path,omitempty"`
}

// MediaTypeFromMime maps a mime type to a media type, defaulting to video.
func MediaTypeFromMime(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	switch {
	case strings.HasPrefix(mime, "audio/"):
		return MediaAudio
	case strings.HasPrefix(mime, "image/"):
		return MediaImage
	default:
		return MediaVideo
	}
}
