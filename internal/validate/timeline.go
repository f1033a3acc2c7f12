package validate

import (
	"github.com/heimdex/heimdex-timeline/internal/action"
	"github.com/heimdex/heimdex-timeline/internal/project"
)

func (c *checker) project(verb string) bool {
	switch verb {
	case "rename":
		c.str("name")
	case "updateSettings":
		var patch project.SettingsPatch
		if !c.decode("settings", &patch) {
			return true
		}
		if patch.Width != nil {
			c.positive("settings.width", float64(*patch.Width))
		}
		if patch.Height != nil {
			c.positive("settings.height", float64(*patch.Height))
		}
		if patch.FrameRate != nil {
			c.positive("settings.frameRate", *patch.FrameRate)
		}
		if patch.SampleRate != nil {
			c.positive("settings.sampleRate", float64(*patch.SampleRate))
		}
	case "create":
		c.optStr("name")
	default:
		return false
	}
	return true
}

func (c *checker) media(verb string) bool {
	switch verb {
	case "import":
		var file struct {
			Name     string  `json:"name"`
			MimeType string  `json:"mimeType"`
			Size     float64 `json:"size"`
		}
		if c.decode("file", &file) {
			if file.Name == "" {
				c.fail(action.CodeInvalidParams, "file.name", "file.name is required")
			}
			c.nonNegative("file.size", file.Size)
		}
		c.optStr("id")
		c.optStr("thumbnailUrl")
		if c.optObject("metadata") {
			var md project.MediaMetadata
			if c.decode("metadata", &md) {
				c.nonNegative("metadata.duration", md.Duration)
			}
		}
	case "delete":
		c.mediaRef("mediaId")
	case "rename":
		c.mediaRef("mediaId")
		c.str("name")
	case "restore":
		var item project.MediaItem
		if c.decode("item", &item) && item.ID == "" {
			c.fail(action.CodeInvalidParams, "item.id", "item.id is required")
		}
		c.optPosition("index")
	default:
		return false
	}
	return true
}

func (c *checker) track(verb string) bool {
	switch verb {
	case "add":
		if typ, ok := c.str("trackType"); ok && !project.TrackTypes[typ] {
			c.fail(action.CodeInvalidParams, "trackType", "unknown track type %q", typ)
		}
		c.optStr("name")
		c.optStr("id")
		c.optPosition("index")
	case "remove":
		c.unlockedTrackRef("trackId")
	case "restore":
		var t project.Track
		if c.decode("track", &t) {
			if t.ID == "" {
				c.fail(action.CodeInvalidParams, "track.id", "track.id is required")
			}
			if !project.TrackTypes[t.Type] {
				c.fail(action.CodeInvalidParams, "track.type", "unknown track type %q", t.Type)
			}
		}
		c.optPosition("index")
	case "reorder":
		if _, ok := c.trackRef("trackId"); ok {
			c.index("index", len(c.p.Timeline.Tracks))
		} else {
			c.num("index")
		}
	case "lock":
		c.trackRef("trackId")
		c.boolean("locked")
	case "hide":
		c.trackRef("trackId")
		c.boolean("hidden")
	case "mute":
		c.trackRef("trackId")
		c.boolean("muted")
	case "solo":
		c.trackRef("trackId")
		c.boolean("solo")
	default:
		return false
	}
	return true
}
