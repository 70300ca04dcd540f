package setlist

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Song is a single entry in a setlist: the band's working copy of a tune,
// with whatever lyrics, chords and performance notes the members keep on it.
type Song struct {
	ID           string
	BandID       string
	SetlistID    string
	CreatedBy    string
	Name         string
	Artist       string
	Album        string
	Lyrics       string // free text, may embed inline [Chord] markup
	Chords       string // generated progression, independent of Lyrics markup
	Notes        string
	ThumbnailURL string
	PreviewURL   string
	ExternalID   string // track-search provider id, if imported
	Duration     int    // seconds
	Tempo        int    // BPM
	Popularity   int
	Position     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate validates the song fields.
func (s *Song) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("song name cannot be empty")
	}
	if len(s.Name) > 500 {
		return fmt.Errorf("song name cannot exceed 500 characters, got %d: name -> %s", len(s.Name), s.Name)
	}
	if s.BandID == "" {
		return fmt.Errorf("song must belong to a band: name -> %s", s.Name)
	}
	if s.SetlistID == "" {
		return fmt.Errorf("song must belong to a setlist: name -> %s", s.Name)
	}
	if len(s.Artist) > 500 {
		return fmt.Errorf("artist cannot exceed 500 characters, got %d", len(s.Artist))
	}
	if len(s.Lyrics) > 15000 {
		return fmt.Errorf("lyrics cannot exceed 15000 characters, got %d", len(s.Lyrics))
	}
	if len(s.Notes) > 5000 {
		return fmt.Errorf("notes cannot exceed 5000 characters, got %d", len(s.Notes))
	}
	if len(s.ThumbnailURL) > 500 {
		return fmt.Errorf("thumbnail URL cannot exceed 500 characters, got %d", len(s.ThumbnailURL))
	}
	if len(s.PreviewURL) > 500 {
		return fmt.Errorf("preview URL cannot exceed 500 characters, got %d", len(s.PreviewURL))
	}
	if s.Duration < 0 {
		return fmt.Errorf("duration cannot be negative, got %d", s.Duration)
	}
	if s.Tempo < 0 {
		return fmt.Errorf("tempo cannot be negative, got %d", s.Tempo)
	}
	if s.Position < 0 {
		return fmt.Errorf("position cannot be negative, got %d", s.Position)
	}
	return nil
}

// SongFields is a partial update for a song's display fields. Nil members
// are left untouched. Position is deliberately absent: ordering mutations
// go through UpdateSongPosition only.
type SongFields struct {
	Name         *string
	Artist       *string
	Album        *string
	Lyrics       *string
	Chords       *string
	Notes        *string
	ThumbnailURL *string
	PreviewURL   *string
	Duration     *int
	Tempo        *int
}

// Empty reports whether the partial update carries no changes.
func (f SongFields) Empty() bool {
	return f.Name == nil && f.Artist == nil && f.Album == nil &&
		f.Lyrics == nil && f.Chords == nil && f.Notes == nil &&
		f.ThumbnailURL == nil && f.PreviewURL == nil &&
		f.Duration == nil && f.Tempo == nil
}

// GenerateSongID creates a UUID for a song.
func GenerateSongID() string {
	return uuid.New().String()
}

// FormatDuration renders a duration in seconds as M:SS for display.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0:00"
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
