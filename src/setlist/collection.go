package setlist

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Setlist is an ordered collection of songs owned by a band.
type Setlist struct {
	ID          string
	BandID      string
	Name        string
	Description string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Songs is populated on demand; it is not stored with the setlist row.
	Songs []*Song
}

// Validate validates the setlist fields.
func (s *Setlist) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("setlist name cannot be empty")
	}
	if len(s.Name) > 200 {
		return fmt.Errorf("setlist name cannot exceed 200 characters, got %d: name -> %s", len(s.Name), s.Name)
	}
	if len(s.Description) > 1000 {
		return fmt.Errorf("setlist description cannot exceed 1000 characters, got %d", len(s.Description))
	}
	if s.BandID == "" {
		return fmt.Errorf("setlist must belong to a band: name -> %s", s.Name)
	}
	return nil
}

// TotalDuration returns the summed duration of the loaded songs in seconds.
func (s *Setlist) TotalDuration() int {
	total := 0
	for _, song := range s.Songs {
		total += song.Duration
	}
	return total
}

// SongCount returns the number of loaded songs.
func (s *Setlist) SongCount() int {
	return len(s.Songs)
}

// GenerateSetlistID creates a UUID for a setlist.
func GenerateSetlistID() string {
	return uuid.New().String()
}
