package enrichment

import "context"

// TrackResult is one match from a track search provider.
type TrackResult struct {
	ExternalID      string         `json:"externalId"`
	Title           string         `json:"title"`
	Artists         []string       `json:"artists"`
	Album           string         `json:"album"`
	DurationSeconds int            `json:"durationSeconds"`
	ThumbnailURL    string         `json:"thumbnailUrl"`
	PreviewURL      string         `json:"previewUrl"`
	Popularity      int            `json:"popularity"`
	ReleaseDate     string         `json:"releaseDate"`
	Audio           *AudioFeatures `json:"audio,omitempty"`
}

// AudioFeatures carries key data when the provider exposes it. Key is a
// pitch class 0..11, Mode is 1 for major and 0 for minor.
type AudioFeatures struct {
	Key  int `json:"key"`
	Mode int `json:"mode"`
}

// SearchProvider finds track metadata in an external catalog.
type SearchProvider interface {
	Name() string
	IsEnabled() bool
	SearchTracks(ctx context.Context, query string, limit int) ([]TrackResult, error)
}

// LyricsStatus tells callers how a lyrics lookup ended.
type LyricsStatus string

const (
	LyricsFound          LyricsStatus = "found"
	LyricsNotFound       LyricsStatus = "not_found"
	LyricsTransportError LyricsStatus = "transport_error"
)

// LyricsResult is the outcome of one lyrics lookup. A transport error
// carries Err for logging but is never propagated as a failure.
type LyricsResult struct {
	Status     LyricsStatus
	Lyrics     string
	Source     string
	Confidence float64
	Err        error
}

// LyricsProvider fetches lyrics for a song.
type LyricsProvider interface {
	Name() string
	IsEnabled() bool
	GetLyrics(ctx context.Context, artist, title string) LyricsResult
}
