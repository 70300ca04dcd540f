package setlist

import (
	"context"
)

// Store is the persistence interface for the setlist domain. All
// operations are row-scoped: there is no multi-row transaction primitive,
// which is what forces the ordering manager's reload-on-failure policy.
type Store interface {
	// Song methods
	AddSong(ctx context.Context, song *Song) error
	GetSong(ctx context.Context, id string) (*Song, error)
	// GetSongsBySetlist returns the songs of a setlist ordered by
	// position ascending, then created_at descending as a tie-break for
	// rows that predate explicit ordering.
	GetSongsBySetlist(ctx context.Context, setlistID string) ([]*Song, error)
	UpdateSong(ctx context.Context, id string, fields SongFields) (*Song, error)
	// UpdateSongPosition is the single-column position write used by
	// reorders. Each call targets exactly one row.
	UpdateSongPosition(ctx context.Context, id string, position int) error
	DeleteSong(ctx context.Context, id string) error

	// Setlist methods
	AddSetlist(ctx context.Context, sl *Setlist) error
	GetSetlist(ctx context.Context, id string) (*Setlist, error)
	GetSetlistsByBand(ctx context.Context, bandID string) ([]*Setlist, error)
	UpdateSetlist(ctx context.Context, sl *Setlist) error
	DeleteSetlist(ctx context.Context, id string) error

	// Band methods
	AddBand(ctx context.Context, band *Band) error
	GetBand(ctx context.Context, id string) (*Band, error)
	SearchBands(ctx context.Context, nameQuery string, limit int) ([]*Band, error)
	GetBandsForUser(ctx context.Context, userID string) ([]*Band, error)
	AddBandMember(ctx context.Context, member *BandMember) error
	RemoveBandMember(ctx context.Context, bandID, userID string) error

	// Profile methods
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	UpsertProfile(ctx context.Context, profile *Profile) error
}
