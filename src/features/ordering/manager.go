package ordering

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/formantjeff/setlist/src/features/metrics"
	"github.com/formantjeff/setlist/src/setlist"
)

// SongStore is the slice of the store the manager needs.
type SongStore interface {
	GetSongsBySetlist(ctx context.Context, setlistID string) ([]*setlist.Song, error)
	AddSong(ctx context.Context, song *setlist.Song) error
	UpdateSong(ctx context.Context, id string, fields setlist.SongFields) (*setlist.Song, error)
	UpdateSongPosition(ctx context.Context, id string, position int) error
	DeleteSong(ctx context.Context, id string) error
}

// Manager keeps the in-memory song sequence of one setlist consistent
// with the store. All operations are serialized on an internal mutex, so
// overlapping calls queue rather than interleave.
type Manager struct {
	store     SongStore
	metrics   *metrics.Metrics
	setlistID string

	mu    sync.Mutex
	songs []*setlist.Song
}

// NewManager creates a manager for one setlist. Call Load before the
// first read.
func NewManager(store SongStore, m *metrics.Metrics, setlistID string) *Manager {
	return &Manager{store: store, metrics: m, setlistID: setlistID}
}

// Load replaces the in-memory sequence with the store's current order.
// On failure the previous sequence is kept.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	slog.Debug("Load service called", "setlist", m.setlistID)

	songs, err := m.store.GetSongsBySetlist(ctx, m.setlistID)
	if err != nil {
		slog.Error("Failed to load setlist songs", "setlist", m.setlistID, "error", err)
		return &setlist.FetchError{SetlistID: m.setlistID, Err: err}
	}
	m.songs = songs
	return nil
}

// Songs returns a snapshot of the current sequence in display order.
// The elements are copies: a reorder renumbers its own records in place,
// so handing out the manager's pointers would race with readers.
func (m *Manager) Songs() []*setlist.Song {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*setlist.Song, len(m.songs))
	for i, song := range m.songs {
		cp := *song
		out[i] = &cp
	}
	return out
}

// Insert appends a song at the end of the sequence. The position is
// computed from the highest position currently held, so gaps left by
// removals are never reused. The write happens before the in-memory
// sequence changes.
func (m *Manager) Insert(ctx context.Context, song *setlist.Song) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	slog.Debug("Insert service called", "setlist", m.setlistID, "song", song.Name)

	song.SetlistID = m.setlistID
	song.Position = m.nextPosition()
	if err := m.store.AddSong(ctx, song); err != nil {
		slog.Error("Failed to insert song", "setlist", m.setlistID, "song", song.Name, "error", err)
		return &setlist.PersistError{Op: "insert", SongID: song.ID, Err: err}
	}
	m.songs = append(m.songs, song)
	return nil
}

// Remove deletes a song from the store and drops it from the sequence.
// Remaining positions are left untouched, so the sequence may carry gaps
// afterwards.
func (m *Manager) Remove(ctx context.Context, songID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	slog.Debug("Remove service called", "setlist", m.setlistID, "song", songID)

	idx := m.indexOf(songID)
	if idx < 0 {
		return fmt.Errorf("song %s not in setlist %s: %w", songID, m.setlistID, setlist.ErrNotFound)
	}
	if err := m.store.DeleteSong(ctx, songID); err != nil {
		slog.Error("Failed to remove song", "setlist", m.setlistID, "song", songID, "error", err)
		return &setlist.PersistError{Op: "remove", SongID: songID, Err: err}
	}
	m.songs = append(m.songs[:idx], m.songs[idx+1:]...)
	return nil
}

// UpdateFields applies a partial update to one song and replaces the
// in-memory record with what the store returned. Position is not
// reachable through fields.
func (m *Manager) UpdateFields(ctx context.Context, songID string, fields setlist.SongFields) (*setlist.Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slog.Debug("UpdateFields service called", "setlist", m.setlistID, "song", songID)

	idx := m.indexOf(songID)
	if idx < 0 {
		return nil, fmt.Errorf("song %s not in setlist %s: %w", songID, m.setlistID, setlist.ErrNotFound)
	}
	updated, err := m.store.UpdateSong(ctx, songID, fields)
	if err != nil {
		slog.Error("Failed to update song", "setlist", m.setlistID, "song", songID, "error", err)
		return nil, &setlist.PersistError{Op: "update", SongID: songID, Err: err}
	}
	m.songs[idx] = updated
	return updated, nil
}

// Reorder moves the song at index from to index to, renumbers the
// sequence densely and writes every changed position to the store. The
// in-memory move happens first, then the writes run concurrently. If any
// write fails, the sequence is reloaded from the store so the view
// matches whatever actually persisted, and a ReorderError is returned.
// If that reload fails too, the pre-reorder sequence is restored and a
// FetchError is returned.
func (m *Manager) Reorder(ctx context.Context, from, to int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	slog.Debug("Reorder service called", "setlist", m.setlistID, "from", from, "to", to)

	if from < 0 || from >= len(m.songs) || to < 0 || to >= len(m.songs) {
		return fmt.Errorf("reorder from=%d to=%d len=%d: %w", from, to, len(m.songs), setlist.ErrIndexOutOfRange)
	}
	if from == to {
		return nil
	}
	if m.metrics != nil {
		m.metrics.Reorders.Inc()
	}

	prev := make([]*setlist.Song, len(m.songs))
	for i, song := range m.songs {
		cp := *song
		prev[i] = &cp
	}

	moved := m.songs[from]
	m.songs = append(m.songs[:from], m.songs[from+1:]...)
	m.songs = append(m.songs[:to], append([]*setlist.Song{moved}, m.songs[to:]...)...)

	type change struct {
		id       string
		position int
	}
	var changes []change
	for i, song := range m.songs {
		if song.Position != i {
			song.Position = i
			changes = append(changes, change{id: song.ID, position: i})
		}
	}

	var wg sync.WaitGroup
	type writeErr struct {
		id  string
		err error
	}
	errCh := make(chan writeErr, len(changes))
	for _, c := range changes {
		wg.Add(1)
		go func(c change) {
			defer wg.Done()
			if err := m.store.UpdateSongPosition(ctx, c.id, c.position); err != nil {
				errCh <- writeErr{id: c.id, err: err}
			}
		}(c)
		if m.metrics != nil {
			m.metrics.PositionWrites.Inc()
		}
	}
	wg.Wait()
	close(errCh)

	var failedIDs []string
	var firstErr error
	for we := range errCh {
		failedIDs = append(failedIDs, we.id)
		if firstErr == nil {
			firstErr = we.err
		}
	}
	if firstErr == nil {
		return nil
	}

	slog.Error("Reorder writes failed, reloading from store",
		"setlist", m.setlistID, "failed", len(failedIDs), "error", firstErr)
	if m.metrics != nil {
		m.metrics.ReorderReverts.Inc()
	}
	songs, loadErr := m.store.GetSongsBySetlist(ctx, m.setlistID)
	if loadErr != nil {
		m.songs = prev
		slog.Error("Corrective reload failed, restoring previous order",
			"setlist", m.setlistID, "error", loadErr)
		return &setlist.FetchError{SetlistID: m.setlistID, Err: loadErr}
	}
	m.songs = songs
	return &setlist.ReorderError{SetlistID: m.setlistID, FailedIDs: failedIDs, Err: firstErr}
}

func (m *Manager) nextPosition() int {
	next := 0
	for _, song := range m.songs {
		if song.Position >= next {
			next = song.Position + 1
		}
	}
	return next
}

func (m *Manager) indexOf(songID string) int {
	for i, song := range m.songs {
		if song.ID == songID {
			return i
		}
	}
	return -1
}
