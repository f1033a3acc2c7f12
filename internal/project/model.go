// Package project defines the timeline document edited by the action engine.
// Handlers never mutate a node that is reachable from a live project; they
// build a replacement and assign it onto the parent.
package project

import "github.com/google/uuid"

const (
	TrackVideo    = "video"
	TrackAudio    = "audio"
	TrackImage    = "image"
	TrackText     = "text"
	TrackGraphics = "graphics"

	MediaVideo = "video"
	MediaAudio = "audio"
	MediaImage = "image"
)

// AdjacencyTolerance is how far apart two clip edges may be, in seconds, and
// still count as touching.
const AdjacencyTolerance = 0.001

var TrackTypes = map[string]bool{
	TrackVideo:    true,
	TrackAudio:    true,
	TrackImage:    true,
	TrackText:     true,
	TrackGraphics: true,
}

type Project struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Settings     Settings     `json:"settings"`
	Timeline     Timeline     `json:"timeline"`
	MediaLibrary MediaLibrary `json:"mediaLibrary"`
}

type Settings struct {
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	FrameRate       float64 `json:"frameRate"`
	SampleRate      int     `json:"sampleRate"`
	BackgroundColor string  `json:"backgroundColor"`
}

type Timeline struct {
	Tracks    []Track    `json:"tracks"`
	Subtitles []Subtitle `json:"subtitles"`
}

type MediaLibrary struct {
	Items []MediaItem `json:"items"`
}

type Track struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	Name        string       `json:"name"`
	Clips       []Clip       `json:"clips"`
	Transitions []Transition `json:"transitions"`
	Locked      bool         `json:"locked"`
	Hidden      bool         `json:"hidden"`
	Muted       bool         `json:"muted"`
	Solo        bool         `json:"solo"`
}

type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Transform struct {
	Position Vec2    `json:"position"`
	Scale    Vec2    `json:"scale"`
	Rotation float64 `json:"rotation"`
	Anchor   Vec2    `json:"anchor"`
	Opacity  float64 `json:"opacity"`
}

// DefaultTransform is the identity placement for a new clip.
func DefaultTransform() Transform {
	return Transform{
		Scale:   Vec2{X: 1, Y: 1},
		Anchor:  Vec2{X: 0.5, Y: 0.5},
		Opacity: 1,
	}
}

type Fade struct {
	FadeIn  float64 `json:"fadeIn"`
	FadeOut float64 `json:"fadeOut"`
}

type AutomationPoint struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

type Automation struct {
	Volume []AutomationPoint `json:"volume"`
}

type Clip struct {
	ID           string      `json:"id"`
	MediaID      string      `json:"mediaId"`
	TrackID      string      `json:"trackId"`
	StartTime    float64     `json:"startTime"`
	Duration     float64     `json:"duration"`
	InPoint      float64     `json:"inPoint"`
	OutPoint     float64     `json:"outPoint"`
	Effects      []Effect    `json:"effects"`
	AudioEffects []Effect    `json:"audioEffects"`
	Transform    Transform   `json:"transform"`
	Volume       float64     `json:"volume"`
	Fade         *Fade       `json:"fade,omitempty"`
	Automation   *Automation `json:"automation,omitempty"`
	Keyframes    []Keyframe  `json:"keyframes"`
}

// EndTime is the exclusive end of the clip on the timeline.
func (c Clip) EndTime() float64 {
	return c.StartTime + c.Duration
}

type Effect struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Params  map[string]any `json:"params"`
	Enabled bool           `json:"enabled"`
}

type Keyframe struct {
	ID       string  `json:"id"`
	Time     float64 `json:"time"`
	Property string  `json:"property"`
	Value    any     `json:"value"`
	Easing   string  `json:"easing"`
}

type Transition struct {
	ID       string         `json:"id"`
	ClipAID  string         `json:"clipAId"`
	ClipBID  string         `json:"clipBId"`
	Type     string         `json:"type"`
	Duration float64        `json:"duration"`
	Params   map[string]any `json:"params"`
}

type SubtitleStyle struct {
	FontFamily      string  `json:"fontFamily,omitempty"`
	FontSize        float64 `json:"fontSize,omitempty"`
	Color           string  `json:"color,omitempty"`
	BackgroundColor string  `json:"backgroundColor,omitempty"`
	Position        string  `json:"position,omitempty"`
}

type Subtitle struct {
	ID        string         `json:"id"`
	Text      string         `json:"text"`
	StartTime float64        `json:"startTime"`
	EndTime   float64        `json:"endTime"`
	Style     *SubtitleStyle `json:"style,omitempty"`
}

type MediaMetadata struct {
	Duration   float64 `json:"duration"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	FrameRate  float64 `json:"frameRate"`
	Codec      string  `json:"codec"`
	SampleRate int     `json:"sampleRate"`
	Channels   int     `json:"channels"`
	FileSize   int64   `json:"fileSize"`
}

type MediaItem struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Type         string        `json:"type"`
	Metadata     MediaMetadata `json:"metadata"`
	ThumbnailURL string        `json:"thumbnailUrl"`
	WaveformData []float64     `json:"waveformData,omitempty"`
	SourcePath   string        `json:"sourcePath,omitempty"`
}

// NewID returns a fresh entity identifier.
func NewID() string {
	return uuid.NewString()
}

// New returns an empty project with default settings.
func New(name string) *Project {
	return &Project{
		ID:       NewID(),
		Name:     name,
		Settings: DefaultSettings(),
	}
}

func DefaultSettings() Settings {
	return Settings{
		Width:           1920,
		Height:          1080,
		FrameRate:       30,
		SampleRate:      48000,
		BackgroundColor: "#000000",
	}
}
