package setlist

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Band groups users, setlists and songs. It is the scoping key for
// everything else in the system.
type Band struct {
	ID          string
	Name        string
	Description string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate validates the band fields.
func (b *Band) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("band name cannot be empty")
	}
	if len(b.Name) > 200 {
		return fmt.Errorf("band name cannot exceed 200 characters, got %d: name -> %s", len(b.Name), b.Name)
	}
	if len(b.Description) > 1000 {
		return fmt.Errorf("band description cannot exceed 1000 characters, got %d", len(b.Description))
	}
	return nil
}

// BandMember links a user to a band.
type BandMember struct {
	BandID   string
	UserID   string
	Role     string
	JoinedAt time.Time
}

// Profile is the per-user profile. The ID is the external auth subject.
type Profile struct {
	ID          string
	DisplayName string
	Instrument  string
	PhotoURL    string
	BandID      string // active band, empty if none
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate validates the profile fields.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("profile id cannot be empty")
	}
	if len(p.DisplayName) > 200 {
		return fmt.Errorf("display name cannot exceed 200 characters, got %d", len(p.DisplayName))
	}
	if len(p.Instrument) > 100 {
		return fmt.Errorf("instrument cannot exceed 100 characters, got %d", len(p.Instrument))
	}
	return nil
}

// GenerateBandID creates a UUID for a band.
func GenerateBandID() string {
	return uuid.New().String()
}
