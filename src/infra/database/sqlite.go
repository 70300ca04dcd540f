package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/formantjeff/setlist/src/setlist"
	_ "github.com/mattn/go-sqlite3"
)

// SqliteStore is a SQLite implementation of the setlist.Store interface.
type SqliteStore struct {
	db *sql.DB
}

// NewSqliteStore creates a new SqliteStore.
func NewSqliteStore(path string) (*SqliteStore, error) {
	// WAL plus a busy timeout so the concurrent position writes of a
	// reorder don't trip over the write lock.
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &SqliteStore{db: db}, nil
}

// Close closes the underlying database handle.
func (d *SqliteStore) Close() error {
	return d.db.Close()
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS bands (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			created_by TEXT NOT NULL,
			created_at TEXT,
			updated_at TEXT
		);

		CREATE TABLE IF NOT EXISTS band_members (
			band_id TEXT,
			user_id TEXT,
			role TEXT,
			joined_at TEXT,
			PRIMARY KEY (band_id, user_id),
			FOREIGN KEY (band_id) REFERENCES bands(id)
		);

		CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			display_name TEXT,
			instrument TEXT,
			photo_url TEXT,
			band_id TEXT,
			created_at TEXT,
			updated_at TEXT
		);

		CREATE TABLE IF NOT EXISTS setlists (
			id TEXT PRIMARY KEY,
			band_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			created_by TEXT NOT NULL,
			created_at TEXT,
			updated_at TEXT,
			FOREIGN KEY (band_id) REFERENCES bands(id)
		);

		CREATE TABLE IF NOT EXISTS songs (
			id TEXT PRIMARY KEY,
			band_id TEXT NOT NULL,
			setlist_id TEXT NOT NULL,
			created_by TEXT,
			name TEXT NOT NULL,
			artist TEXT,
			album TEXT,
			lyrics TEXT,
			chords TEXT,
			notes TEXT,
			thumbnail_url TEXT,
			preview_url TEXT,
			external_id TEXT,
			duration INTEGER DEFAULT 0,
			tempo INTEGER DEFAULT 0,
			popularity INTEGER DEFAULT 0,
			position INTEGER DEFAULT 0,
			created_at TEXT,
			updated_at TEXT,
			FOREIGN KEY (setlist_id) REFERENCES setlists(id)
		);

		CREATE INDEX IF NOT EXISTS idx_songs_setlist ON songs(setlist_id);
		CREATE INDEX IF NOT EXISTS idx_setlists_band ON setlists(band_id);
		CREATE INDEX IF NOT EXISTS idx_band_members_user ON band_members(user_id);
	`)
	return err
}

const songColumns = `id, band_id, setlist_id, created_by, name, artist, album, lyrics, chords,
	notes, thumbnail_url, preview_url, external_id, duration, tempo, popularity, position,
	created_at, updated_at`

// AddSong adds a song to the database.
func (d *SqliteStore) AddSong(ctx context.Context, song *setlist.Song) error {
	if err := song.Validate(); err != nil {
		return err
	}
	now := time.Now()
	if song.CreatedAt.IsZero() {
		song.CreatedAt = now
	}
	song.UpdatedAt = now

	_, err := d.db.ExecContext(ctx, `
		INSERT INTO songs (`+songColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, song.ID, song.BandID, song.SetlistID, song.CreatedBy, song.Name, song.Artist, song.Album,
		song.Lyrics, song.Chords, song.Notes, song.ThumbnailURL, song.PreviewURL, song.ExternalID,
		song.Duration, song.Tempo, song.Popularity, song.Position,
		song.CreatedAt.Format(time.RFC3339Nano), song.UpdatedAt.Format(time.RFC3339Nano))
	return err
}

func scanSong(scanner interface{ Scan(...any) error }) (*setlist.Song, error) {
	var song setlist.Song
	var createdAt, updatedAt string
	err := scanner.Scan(&song.ID, &song.BandID, &song.SetlistID, &song.CreatedBy, &song.Name,
		&song.Artist, &song.Album, &song.Lyrics, &song.Chords, &song.Notes, &song.ThumbnailURL,
		&song.PreviewURL, &song.ExternalID, &song.Duration, &song.Tempo, &song.Popularity,
		&song.Position, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	song.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	song.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &song, nil
}

// GetSong retrieves a song by ID.
func (d *SqliteStore) GetSong(ctx context.Context, id string) (*setlist.Song, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+songColumns+` FROM songs WHERE id = ?`, id)
	song, err := scanSong(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("song %s: %w", id, setlist.ErrNotFound)
	}
	return song, err
}

// GetSongsBySetlist retrieves a setlist's songs in display order.
func (d *SqliteStore) GetSongsBySetlist(ctx context.Context, setlistID string) ([]*setlist.Song, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+songColumns+` FROM songs
		WHERE setlist_id = ?
		ORDER BY position ASC, created_at DESC
	`, setlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var songs []*setlist.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

// UpdateSong applies a partial update and returns the stored row.
func (d *SqliteStore) UpdateSong(ctx context.Context, id string, fields setlist.SongFields) (*setlist.Song, error) {
	var sets []string
	var args []any
	add := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if fields.Name != nil {
		add("name", *fields.Name)
	}
	if fields.Artist != nil {
		add("artist", *fields.Artist)
	}
	if fields.Album != nil {
		add("album", *fields.Album)
	}
	if fields.Lyrics != nil {
		add("lyrics", *fields.Lyrics)
	}
	if fields.Chords != nil {
		add("chords", *fields.Chords)
	}
	if fields.Notes != nil {
		add("notes", *fields.Notes)
	}
	if fields.ThumbnailURL != nil {
		add("thumbnail_url", *fields.ThumbnailURL)
	}
	if fields.PreviewURL != nil {
		add("preview_url", *fields.PreviewURL)
	}
	if fields.Duration != nil {
		add("duration", *fields.Duration)
	}
	if fields.Tempo != nil {
		add("tempo", *fields.Tempo)
	}
	if len(sets) > 0 {
		add("updated_at", time.Now().Format(time.RFC3339Nano))
		query := "UPDATE songs SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		args = append(args, id)
		result, err := d.db.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, fmt.Errorf("song %s: %w", id, setlist.ErrNotFound)
		}
	}
	return d.GetSong(ctx, id)
}

// UpdateSongPosition writes the position of one song.
func (d *SqliteStore) UpdateSongPosition(ctx context.Context, id string, position int) error {
	result, err := d.db.ExecContext(ctx, `
		UPDATE songs SET position = ?, updated_at = ? WHERE id = ?
	`, position, time.Now().Format(time.RFC3339Nano), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("song %s: %w", id, setlist.ErrNotFound)
	}
	return nil
}

// DeleteSong removes a song.
func (d *SqliteStore) DeleteSong(ctx context.Context, id string) error {
	result, err := d.db.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("song %s: %w", id, setlist.ErrNotFound)
	}
	return nil
}

// AddSetlist adds a setlist to the database.
func (d *SqliteStore) AddSetlist(ctx context.Context, sl *setlist.Setlist) error {
	if err := sl.Validate(); err != nil {
		return err
	}
	now := time.Now()
	if sl.CreatedAt.IsZero() {
		sl.CreatedAt = now
	}
	sl.UpdatedAt = now

	_, err := d.db.ExecContext(ctx, `
		INSERT INTO setlists (id, band_id, name, description, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, sl.ID, sl.BandID, sl.Name, sl.Description, sl.CreatedBy,
		sl.CreatedAt.Format(time.RFC3339Nano), sl.UpdatedAt.Format(time.RFC3339Nano))
	return err
}

func scanSetlist(scanner interface{ Scan(...any) error }) (*setlist.Setlist, error) {
	var sl setlist.Setlist
	var createdAt, updatedAt string
	err := scanner.Scan(&sl.ID, &sl.BandID, &sl.Name, &sl.Description, &sl.CreatedBy,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	sl.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	sl.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &sl, nil
}

// GetSetlist retrieves a setlist by ID. Songs are not populated.
func (d *SqliteStore) GetSetlist(ctx context.Context, id string) (*setlist.Setlist, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, band_id, name, description, created_by, created_at, updated_at
		FROM setlists WHERE id = ?
	`, id)
	sl, err := scanSetlist(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("setlist %s: %w", id, setlist.ErrNotFound)
	}
	return sl, err
}

// GetSetlistsByBand retrieves a band's setlists, newest first.
func (d *SqliteStore) GetSetlistsByBand(ctx context.Context, bandID string) ([]*setlist.Setlist, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, band_id, name, description, created_by, created_at, updated_at
		FROM setlists WHERE band_id = ?
		ORDER BY created_at DESC
	`, bandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var setlists []*setlist.Setlist
	for rows.Next() {
		sl, err := scanSetlist(rows)
		if err != nil {
			return nil, err
		}
		setlists = append(setlists, sl)
	}
	return setlists, rows.Err()
}

// UpdateSetlist updates a setlist's name and description.
func (d *SqliteStore) UpdateSetlist(ctx context.Context, sl *setlist.Setlist) error {
	if err := sl.Validate(); err != nil {
		return err
	}
	sl.UpdatedAt = time.Now()
	result, err := d.db.ExecContext(ctx, `
		UPDATE setlists SET name = ?, description = ?, updated_at = ? WHERE id = ?
	`, sl.Name, sl.Description, sl.UpdatedAt.Format(time.RFC3339Nano), sl.ID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("setlist %s: %w", sl.ID, setlist.ErrNotFound)
	}
	return nil
}

// DeleteSetlist removes a setlist and its songs.
func (d *SqliteStore) DeleteSetlist(ctx context.Context, id string) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM songs WHERE setlist_id = ?`, id); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM setlists WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("setlist %s: %w", id, setlist.ErrNotFound)
	}
	return tx.Commit()
}

// AddBand adds a band to the database.
func (d *SqliteStore) AddBand(ctx context.Context, band *setlist.Band) error {
	if err := band.Validate(); err != nil {
		return err
	}
	now := time.Now()
	if band.CreatedAt.IsZero() {
		band.CreatedAt = now
	}
	band.UpdatedAt = now

	_, err := d.db.ExecContext(ctx, `
		INSERT INTO bands (id, name, description, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, band.ID, band.Name, band.Description, band.CreatedBy,
		band.CreatedAt.Format(time.RFC3339Nano), band.UpdatedAt.Format(time.RFC3339Nano))
	return err
}

func scanBand(scanner interface{ Scan(...any) error }) (*setlist.Band, error) {
	var band setlist.Band
	var createdAt, updatedAt string
	err := scanner.Scan(&band.ID, &band.Name, &band.Description, &band.CreatedBy,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	band.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	band.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &band, nil
}

// GetBand retrieves a band by ID.
func (d *SqliteStore) GetBand(ctx context.Context, id string) (*setlist.Band, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, name, description, created_by, created_at, updated_at
		FROM bands WHERE id = ?
	`, id)
	band, err := scanBand(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("band %s: %w", id, setlist.ErrNotFound)
	}
	return band, err
}

// SearchBands finds bands whose name contains the query, case-insensitive.
func (d *SqliteStore) SearchBands(ctx context.Context, nameQuery string, limit int) ([]*setlist.Band, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, name, description, created_by, created_at, updated_at
		FROM bands WHERE name LIKE ? COLLATE NOCASE
		ORDER BY name LIMIT ?
	`, "%"+nameQuery+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bands []*setlist.Band
	for rows.Next() {
		band, err := scanBand(rows)
		if err != nil {
			return nil, err
		}
		bands = append(bands, band)
	}
	return bands, rows.Err()
}

// GetBandsForUser retrieves the bands a user is a member of.
func (d *SqliteStore) GetBandsForUser(ctx context.Context, userID string) ([]*setlist.Band, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT b.id, b.name, b.description, b.created_by, b.created_at, b.updated_at
		FROM bands b
		JOIN band_members m ON m.band_id = b.id
		WHERE m.user_id = ?
		ORDER BY b.name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bands []*setlist.Band
	for rows.Next() {
		band, err := scanBand(rows)
		if err != nil {
			return nil, err
		}
		bands = append(bands, band)
	}
	return bands, rows.Err()
}

// AddBandMember adds a membership row. Adding an existing member is not
// an error.
func (d *SqliteStore) AddBandMember(ctx context.Context, member *setlist.BandMember) error {
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now()
	}
	_, err := d.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO band_members (band_id, user_id, role, joined_at)
		VALUES (?, ?, ?, ?)
	`, member.BandID, member.UserID, member.Role, member.JoinedAt.Format(time.RFC3339Nano))
	return err
}

// RemoveBandMember removes a membership row.
func (d *SqliteStore) RemoveBandMember(ctx context.Context, bandID, userID string) error {
	result, err := d.db.ExecContext(ctx, `
		DELETE FROM band_members WHERE band_id = ? AND user_id = ?
	`, bandID, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("member %s of band %s: %w", userID, bandID, setlist.ErrNotFound)
	}
	return nil
}

// GetProfile retrieves a profile by user ID.
func (d *SqliteStore) GetProfile(ctx context.Context, userID string) (*setlist.Profile, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, display_name, instrument, photo_url, band_id, created_at, updated_at
		FROM profiles WHERE id = ?
	`, userID)
	var profile setlist.Profile
	var createdAt, updatedAt string
	err := row.Scan(&profile.ID, &profile.DisplayName, &profile.Instrument,
		&profile.PhotoURL, &profile.BandID, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile %s: %w", userID, setlist.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	profile.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	profile.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &profile, nil
}

// UpsertProfile inserts or replaces a profile.
func (d *SqliteStore) UpsertProfile(ctx context.Context, profile *setlist.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO profiles (id, display_name, instrument, photo_url, band_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			instrument = excluded.instrument,
			photo_url = excluded.photo_url,
			band_id = excluded.band_id,
			updated_at = excluded.updated_at
	`, profile.ID, profile.DisplayName, profile.Instrument, profile.PhotoURL, profile.BandID,
		profile.CreatedAt.Format(time.RFC3339Nano), profile.UpdatedAt.Format(time.RFC3339Nano))
	return err
}
