package ordering

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/formantjeff/setlist/src/setlist"
)

// MockSongStore is a mock implementation of SongStore with per-song
// failure injection.
type MockSongStore struct {
	mu            sync.Mutex
	songs         map[string]*setlist.Song
	failPosition  map[string]error
	failAdd       error
	failDelete    error
	failUpdate    error
	failList      error
	positionCalls int
}

func NewMockSongStore() *MockSongStore {
	return &MockSongStore{
		songs:        make(map[string]*setlist.Song),
		failPosition: make(map[string]error),
	}
}

func (m *MockSongStore) seed(setlistID string, names []string, positions []int) []*setlist.Song {
	out := make([]*setlist.Song, len(names))
	for i, name := range names {
		song := &setlist.Song{
			ID:        fmt.Sprintf("song-%s", name),
			SetlistID: setlistID,
			Name:      name,
			Position:  positions[i],
		}
		m.songs[song.ID] = song
		out[i] = song
	}
	return out
}

func (m *MockSongStore) GetSongsBySetlist(ctx context.Context, setlistID string) ([]*setlist.Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList != nil {
		return nil, m.failList
	}
	var out []*setlist.Song
	for _, song := range m.songs {
		if song.SetlistID == setlistID {
			cp := *song
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MockSongStore) AddSong(ctx context.Context, song *setlist.Song) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAdd != nil {
		return m.failAdd
	}
	cp := *song
	m.songs[song.ID] = &cp
	return nil
}

func (m *MockSongStore) UpdateSong(ctx context.Context, id string, fields setlist.SongFields) (*setlist.Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpdate != nil {
		return nil, m.failUpdate
	}
	song, ok := m.songs[id]
	if !ok {
		return nil, setlist.ErrNotFound
	}
	if fields.Name != nil {
		song.Name = *fields.Name
	}
	if fields.Notes != nil {
		song.Notes = *fields.Notes
	}
	cp := *song
	return &cp, nil
}

func (m *MockSongStore) UpdateSongPosition(ctx context.Context, id string, position int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positionCalls++
	if err, ok := m.failPosition[id]; ok {
		return err
	}
	song, ok := m.songs[id]
	if !ok {
		return setlist.ErrNotFound
	}
	song.Position = position
	return nil
}

func (m *MockSongStore) DeleteSong(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDelete != nil {
		return m.failDelete
	}
	if _, ok := m.songs[id]; !ok {
		return setlist.ErrNotFound
	}
	delete(m.songs, id)
	return nil
}

func (m *MockSongStore) storedPosition(t *testing.T, id string) int {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	song, ok := m.songs[id]
	if !ok {
		t.Fatalf("song %s not in store", id)
	}
	return song.Position
}

func names(songs []*setlist.Song) []string {
	out := make([]string, len(songs))
	for i, song := range songs {
		out[i] = song.Name
	}
	return out
}

func assertOrder(t *testing.T, songs []*setlist.Song, want []string) {
	t.Helper()
	got := names(songs)
	if len(got) != len(want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func loadedManager(t *testing.T, store *MockSongStore) *Manager {
	t.Helper()
	m := NewManager(store, nil, "setlist-1")
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return m
}

func TestReorder_MovesAndRenumbersDensely(t *testing.T) {
	store := NewMockSongStore()
	store.seed("setlist-1", []string{"X", "Y", "Z"}, []int{0, 1, 2})
	m := loadedManager(t, store)

	if err := m.Reorder(context.Background(), 2, 0); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	songs := m.Songs()
	assertOrder(t, songs, []string{"Z", "X", "Y"})
	for i, song := range songs {
		if song.Position != i {
			t.Errorf("expected song %s at position %d, got %d", song.Name, i, song.Position)
		}
	}
	if store.positionCalls != 3 {
		t.Errorf("expected 3 position writes, got %d", store.positionCalls)
	}
	if got := store.storedPosition(t, "song-Z"); got != 0 {
		t.Errorf("expected Z persisted at 0, got %d", got)
	}
	if got := store.storedPosition(t, "song-X"); got != 1 {
		t.Errorf("expected X persisted at 1, got %d", got)
	}
	if got := store.storedPosition(t, "song-Y"); got != 2 {
		t.Errorf("expected Y persisted at 2, got %d", got)
	}
}

func TestReorder_AdjacentSwapWritesOnlyChangedRows(t *testing.T) {
	store := NewMockSongStore()
	store.seed("setlist-1", []string{"A", "B", "C", "D"}, []int{0, 1, 2, 3})
	m := loadedManager(t, store)

	if err := m.Reorder(context.Background(), 0, 1); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	assertOrder(t, m.Songs(), []string{"B", "A", "C", "D"})
	if store.positionCalls != 2 {
		t.Errorf("expected 2 position writes, got %d", store.positionCalls)
	}
}

func TestSongs_SnapshotIsolatedFromReorder(t *testing.T) {
	store := NewMockSongStore()
	store.seed("setlist-1", []string{"A", "B", "C", "D"}, []int{0, 1, 2, 3})
	m := loadedManager(t, store)

	snapshot := m.Songs()
	if err := m.Reorder(context.Background(), 0, 3); err != nil {
		t.Fatalf("reorder failed: %v", err)
	}

	// The snapshot was taken before the move and must not see the
	// in-place renumbering.
	assertOrder(t, snapshot, []string{"A", "B", "C", "D"})
	for i, song := range snapshot {
		if song.Position != i {
			t.Errorf("expected snapshot position %d for %s, got %d", i, song.Name, song.Position)
		}
	}

	// Readers serializing snapshots concurrently with reorders must not
	// touch the same structs. Run with -race.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			if _, err := json.Marshal(m.Songs()); err != nil {
				t.Errorf("marshal failed: %v", err)
				return
			}
		}
	}()
	for i := 0; i < 100; i++ {
		if err := m.Reorder(context.Background(), 0, 3); err != nil {
			t.Errorf("reorder failed: %v", err)
			break
		}
		if err := m.Reorder(context.Background(), 3, 0); err != nil {
			t.Errorf("reorder failed: %v", err)
			break
		}
	}
	<-done
}

func TestReorder_SamePlaceIsNoOp(t *testing.T) {
	store := NewMockSongStore()
	store.seed("setlist-1", []string{"A", "B"}, []int{0, 1})
	m := loadedManager(t, store)

	if err := m.Reorder(context.Background(), 1, 1); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if store.positionCalls != 0 {
		t.Errorf("expected no position writes, got %d", store.positionCalls)
	}
}

func TestReorder_OutOfRangeIndex(t *testing.T) {
	store := NewMockSongStore()
	store.seed("setlist-1", []string{"A", "B"}, []int{0, 1})
	m := loadedManager(t, store)

	err := m.Reorder(context.Background(), 0, 5)
	if err == nil {
		t.Fatal("expected error for out-of-range index")
	}
	if !errors.Is(err, setlist.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := m.Reorder(context.Background(), -1, 0); !errors.Is(err, setlist.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange for negative index, got %v", err)
	}
	if store.positionCalls != 0 {
		t.Errorf("expected no position writes, got %d", store.positionCalls)
	}
}

func TestReorder_RenumbersSparsePositions(t *testing.T) {
	store := NewMockSongStore()
	store.seed("setlist-1", []string{"A", "B", "C"}, []int{0, 3, 7})
	m := loadedManager(t, store)

	if err := m.Reorder(context.Background(), 2, 0); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	songs := m.Songs()
	assertOrder(t, songs, []string{"C", "A", "B"})
	for i, song := range songs {
		if song.Position != i {
			t.Errorf("expected dense position %d for %s, got %d", i, song.Name, song.Position)
		}
	}
}

func TestReorder_PartialFailureReloadsFromStore(t *testing.T) {
	store := NewMockSongStore()
	store.seed("setlist-1", []string{"A", "B", "C", "D"}, []int{0, 1, 2, 3})
	store.failPosition["song-C"] = errors.New("write timeout")
	m := loadedManager(t, store)

	err := m.Reorder(context.Background(), 0, 2)
	if err == nil {
		t.Fatal("expected reorder error")
	}
	var reorderErr *setlist.ReorderError
	if !errors.As(err, &reorderErr) {
		t.Fatalf("expected ReorderError, got %T: %v", err, err)
	}
	if len(reorderErr.FailedIDs) != 1 || reorderErr.FailedIDs[0] != "song-C" {
		t.Errorf("expected failed IDs [song-C], got %v", reorderErr.FailedIDs)
	}

	// The view must match what the store actually holds, not the
	// optimistic order.
	fresh, loadErr := store.GetSongsBySetlist(context.Background(), "setlist-1")
	if loadErr != nil {
		t.Fatalf("fresh read failed: %v", loadErr)
	}
	assertOrder(t, m.Songs(), names(fresh))
}

func TestReorder_AllWritesFailingSnapsBackToServerOrder(t *testing.T) {
	store := NewMockSongStore()
	store.seed("setlist-1", []string{"A", "B", "C", "D"}, []int{0, 1, 2, 3})
	store.failPosition["song-A"] = errors.New("write timeout")
	store.failPosition["song-B"] = errors.New("write timeout")
	store.failPosition["song-C"] = errors.New("write timeout")
	m := loadedManager(t, store)

	err := m.Reorder(context.Background(), 0, 2)
	var reorderErr *setlist.ReorderError
	if !errors.As(err, &reorderErr) {
		t.Fatalf("expected ReorderError, got %T: %v", err, err)
	}
	if len(reorderErr.FailedIDs) != 3 {
		t.Errorf("expected 3 failed IDs, got %v", reorderErr.FailedIDs)
	}

	// Nothing persisted, so the view snaps back to the server's order.
	songs := m.Songs()
	assertOrder(t, songs, []string{"A", "B", "C", "D"})
	for i, song := range songs {
		if song.Position != i {
			t.Errorf("expected position %d for %s, got %d", i, song.Name, song.Position)
		}
	}
}

func TestReorder_ReloadFailureRestoresPreviousOrder(t *testing.T) {
	store := NewMockSongStore()
	store.seed("setlist-1", []string{"A", "B", "C"}, []int{0, 1, 2})
	m := loadedManager(t, store)

	store.failPosition["song-A"] = errors.New("write timeout")
	store.failList = errors.New("store unreachable")

	err := m.Reorder(context.Background(), 0, 2)
	if err == nil {
		t.Fatal("expected error")
	}
	var fetchErr *setlist.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %T: %v", err, err)
	}

	songs := m.Songs()
	assertOrder(t, songs, []string{"A", "B", "C"})
	for i, song := range songs {
		if song.Position != i {
			t.Errorf("expected restored position %d for %s, got %d", i, song.Name, song.Position)
		}
	}
}

func TestReorder_QueuedReordersUseLatestOrder(t *testing.T) {
	store := NewMockSongStore()
	store.seed("setlist-1", []string{"A", "B", "C"}, []int{0, 1, 2})
	m := loadedManager(t, store)

	if err := m.Reorder(context.Background(), 0, 2); err != nil {
		t.Fatalf("first reorder failed: %v", err)
	}
	// [B, C, A]
	if err := m.Reorder(context.Background(), 1, 0); err != nil {
		t.Fatalf("second reorder failed: %v", err)
	}
	assertOrder(t, m.Songs(), []string{"C", "B", "A"})
}

func TestInsert_EmptySetlistGetsPositionZero(t *testing.T) {
	store := NewMockSongStore()
	m := loadedManager(t, store)

	song := &setlist.Song{ID: "song-A", Name: "A"}
	if err := m.Insert(context.Background(), song); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if song.Position != 0 {
		t.Errorf("expected position 0, got %d", song.Position)
	}
	if song.SetlistID != "setlist-1" {
		t.Errorf("expected setlist ID to be set, got %q", song.SetlistID)
	}
}

func TestInsert_SparsePositionsAppendAfterMax(t *testing.T) {
	store := NewMockSongStore()
	store.seed("setlist-1", []string{"A", "B", "C"}, []int{0, 2, 5})
	m := loadedManager(t, store)

	song := &setlist.Song{ID: "song-D", Name: "D"}
	if err := m.Insert(context.Background(), song); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if song.Position != 6 {
		t.Errorf("expected position 6, got %d", song.Position)
	}
}

func TestInsert_StoreFailureLeavesSequenceUnchanged(t *testing.T) {
	store := NewMockSongStore()
	store.seed("setlist-1", []string{"A"}, []int{0})
	m := loadedManager(t, store)
	store.failAdd = errors.New("insert denied")

	err := m.Insert(context.Background(), &setlist.Song{ID: "song-B", Name: "B"})
	if err == nil {
		t.Fatal("expected error")
	}
	var persistErr *setlist.PersistError
	if !errors.As(err, &persistErr) {
		t.Fatalf("expected PersistError, got %T: %v", err, err)
	}
	if persistErr.Op != "insert" {
		t.Errorf("expected op insert, got %q", persistErr.Op)
	}
	assertOrder(t, m.Songs(), []string{"A"})
}

func TestRemove_KeepsGapsInRemainingPositions(t *testing.T) {
	store := NewMockSongStore()
	store.seed("setlist-1", []string{"A", "B", "C"}, []int{0, 1, 2})
	m := loadedManager(t, store)

	if err := m.Remove(context.Background(), "song-B"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	songs := m.Songs()
	assertOrder(t, songs, []string{"A", "C"})
	if songs[1].Position != 2 {
		t.Errorf("expected C to keep position 2, got %d", songs[1].Position)
	}
	if store.positionCalls != 0 {
		t.Errorf("expected no position rewrites on remove, got %d", store.positionCalls)
	}
}

func TestRemove_StoreFailureKeepsSong(t *testing.T) {
	store := NewMockSongStore()
	store.seed("setlist-1", []string{"A", "B"}, []int{0, 1})
	m := loadedManager(t, store)
	store.failDelete = errors.New("delete denied")

	if err := m.Remove(context.Background(), "song-A"); err == nil {
		t.Fatal("expected error")
	}
	assertOrder(t, m.Songs(), []string{"A", "B"})
}

func TestRemove_UnknownSong(t *testing.T) {
	store := NewMockSongStore()
	store.seed("setlist-1", []string{"A"}, []int{0})
	m := loadedManager(t, store)

	err := m.Remove(context.Background(), "song-missing")
	if !errors.Is(err, setlist.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoad_FailureKeepsPreviousSequence(t *testing.T) {
	store := NewMockSongStore()
	store.seed("setlist-1", []string{"A", "B"}, []int{0, 1})
	m := loadedManager(t, store)

	store.failList = errors.New("store unreachable")
	err := m.Load(context.Background())
	var fetchErr *setlist.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %T: %v", err, err)
	}
	assertOrder(t, m.Songs(), []string{"A", "B"})
}

func TestUpdateFields_ReplacesWithStoredRecord(t *testing.T) {
	store := NewMockSongStore()
	store.seed("setlist-1", []string{"A"}, []int{0})
	m := loadedManager(t, store)

	newName := "A (acoustic)"
	updated, err := m.UpdateFields(context.Background(), "song-A", setlist.SongFields{Name: &newName})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Name != newName {
		t.Errorf("expected updated name %q, got %q", newName, updated.Name)
	}
	if m.Songs()[0].Name != newName {
		t.Errorf("expected in-memory record replaced, got %q", m.Songs()[0].Name)
	}
	if updated.Position != 0 {
		t.Errorf("expected position untouched, got %d", updated.Position)
	}
}

func TestUpdateFields_StoreFailure(t *testing.T) {
	store := NewMockSongStore()
	store.seed("setlist-1", []string{"A"}, []int{0})
	m := loadedManager(t, store)
	store.failUpdate = errors.New("update denied")

	newName := "B"
	_, err := m.UpdateFields(context.Background(), "song-A", setlist.SongFields{Name: &newName})
	var persistErr *setlist.PersistError
	if !errors.As(err, &persistErr) {
		t.Fatalf("expected PersistError, got %T: %v", err, err)
	}
	if m.Songs()[0].Name != "A" {
		t.Errorf("expected name unchanged, got %q", m.Songs()[0].Name)
	}
}

func TestRegistry_SameManagerPerSetlist(t *testing.T) {
	store := NewMockSongStore()
	reg := NewRegistry(store, nil)

	a := reg.Manager("setlist-1")
	b := reg.Manager("setlist-1")
	if a != b {
		t.Error("expected same manager for same setlist")
	}
	if reg.Manager("setlist-2") == a {
		t.Error("expected distinct manager for other setlist")
	}

	reg.Drop("setlist-1")
	if reg.Manager("setlist-1") == a {
		t.Error("expected fresh manager after Drop")
	}
}
