package export

// ExportRequest asks for one track of the current timeline to be written as
// an EDL file into OutputDir.
type ExportRequest struct {
	TrackID   string  `json:"track_id"`
	Title     string  `json:"title"`
	FrameRate float64 `json:"frame_rate"`
	OutputDir string  `json:"output_dir"`
}

// ResolvedClip is one EDL event. Source times are media offsets, record
// times are timeline positions, all in milliseconds.
type ResolvedClip struct {
	ClipID    string
	ClipName  string
	MediaPath string
	Channel   string
	SourceIn  int
	SourceOut int
	RecordIn  int
}

type ExportResponse struct {
	Status          string   `json:"status"`
	Format          string   `json:"format"`
	OutputPath      string   `json:"output_path"`
	ClipCount       int      `json:"clip_count"`
	UnresolvedClips []string `json:"unresolved_clips"`
}
