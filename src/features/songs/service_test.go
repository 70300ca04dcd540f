package songs

import (
	"context"
	"errors"
	"testing"

	"github.com/formantjeff/setlist/src/features/config"
	"github.com/formantjeff/setlist/src/features/enrichment"
	"github.com/formantjeff/setlist/src/features/ordering"
	"github.com/formantjeff/setlist/src/setlist"
)

// MockStore is a mock implementation of setlist.Store
type MockStore struct {
	setlist.Store // Embed interface to avoid implementing all methods, will panic if unused methods called
	setlists      map[string]*setlist.Setlist
	songs         map[string]*setlist.Song
}

func NewMockStore() *MockStore {
	return &MockStore{
		setlists: make(map[string]*setlist.Setlist),
		songs:    make(map[string]*setlist.Song),
	}
}

func (m *MockStore) GetSetlist(ctx context.Context, id string) (*setlist.Setlist, error) {
	if sl, ok := m.setlists[id]; ok {
		return sl, nil
	}
	return nil, setlist.ErrNotFound
}

func (m *MockStore) GetSongsBySetlist(ctx context.Context, setlistID string) ([]*setlist.Song, error) {
	var out []*setlist.Song
	for _, song := range m.songs {
		if song.SetlistID == setlistID {
			out = append(out, song)
		}
	}
	return out, nil
}

func (m *MockStore) AddSong(ctx context.Context, song *setlist.Song) error {
	cp := *song
	m.songs[song.ID] = &cp
	return nil
}

type failingLyricsProvider struct{}

func (failingLyricsProvider) Name() string    { return "lyricsovh" }
func (failingLyricsProvider) IsEnabled() bool { return true }
func (failingLyricsProvider) GetLyrics(ctx context.Context, artist, title string) enrichment.LyricsResult {
	return enrichment.LyricsResult{Status: enrichment.LyricsTransportError, Err: errors.New("connection refused")}
}

func newTestService(store *MockStore) *Service {
	cfg := config.NewManager(&config.Config{
		Enrichment: config.Enrichment{TimeoutSeconds: 1},
	})
	enricher := enrichment.NewService(cfg, nil, nil, []enrichment.LyricsProvider{failingLyricsProvider{}})
	managers := ordering.NewRegistry(store, nil)
	return NewService(store, managers, enricher, nil, nil)
}

func TestCreateSong_AppendsAtEnd(t *testing.T) {
	store := NewMockStore()
	store.setlists["sl-1"] = &setlist.Setlist{ID: "sl-1", BandID: "band-1", Name: "Friday gig"}
	store.songs["existing"] = &setlist.Song{ID: "existing", SetlistID: "sl-1", Name: "Opener", Position: 0}
	service := newTestService(store)

	song, err := service.CreateSong(context.Background(), "sl-1", "Yesterday", "The Beatles", "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if song.Position != 1 {
		t.Errorf("expected position 1, got %d", song.Position)
	}
	if song.BandID != "band-1" {
		t.Errorf("expected band inherited from setlist, got %q", song.BandID)
	}
	if _, ok := store.songs[song.ID]; !ok {
		t.Error("song was not persisted")
	}
}

func TestCreateSong_LyricsFailureDoesNotBlockCreation(t *testing.T) {
	store := NewMockStore()
	store.setlists["sl-1"] = &setlist.Setlist{ID: "sl-1", BandID: "band-1", Name: "Friday gig"}
	service := newTestService(store)

	song, err := service.CreateSong(context.Background(), "sl-1", "Thunderstruck", "AC/DC", "user-1")
	if err != nil {
		t.Fatalf("expected creation to succeed despite lyrics failure, got %v", err)
	}
	if song.Lyrics != "" {
		t.Errorf("expected no lyrics, got %q", song.Lyrics)
	}
	if song.Chords == "" {
		t.Error("expected chords to be generated without provider help")
	}
}

func TestCreateSong_UnknownSetlist(t *testing.T) {
	service := newTestService(NewMockStore())

	_, err := service.CreateSong(context.Background(), "missing", "Song", "Artist", "user-1")
	if !errors.Is(err, setlist.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateSong_EmptyNameRejected(t *testing.T) {
	store := NewMockStore()
	store.setlists["sl-1"] = &setlist.Setlist{ID: "sl-1", BandID: "band-1", Name: "Friday gig"}
	service := newTestService(store)

	if _, err := service.CreateSong(context.Background(), "sl-1", "   ", "Artist", "user-1"); err == nil {
		t.Fatal("expected validation error for blank name")
	}
	if len(store.songs) != 0 {
		t.Error("expected nothing persisted")
	}
}

func TestImportFromSearch_CopiesTrackMetadata(t *testing.T) {
	store := NewMockStore()
	store.setlists["sl-1"] = &setlist.Setlist{ID: "sl-1", BandID: "band-1", Name: "Friday gig"}
	service := newTestService(store)

	track := enrichment.TrackResult{
		ExternalID:      "deezer:42",
		Title:           "Smooth Operator",
		Artists:         []string{"Sade"},
		Album:           "Diamond Life",
		DurationSeconds: 258,
		ThumbnailURL:    "https://cdn.example/cover.jpg",
		PreviewURL:      "https://cdn.example/preview.mp3",
		Popularity:      900000,
	}
	song, err := service.ImportFromSearch(context.Background(), "sl-1", "user-1", track)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if song.Name != "Smooth Operator" || song.Artist != "Sade" {
		t.Errorf("unexpected song identity: %q by %q", song.Name, song.Artist)
	}
	if song.Duration != 258 || song.ExternalID != "deezer:42" {
		t.Errorf("track metadata not copied: %+v", song)
	}
	// Artwork service is nil so the remote URL is kept.
	if song.ThumbnailURL != track.ThumbnailURL {
		t.Errorf("expected remote thumbnail kept, got %q", song.ThumbnailURL)
	}
	if song.Chords == "" {
		t.Error("expected chords generated on import")
	}
	if song.Position != 0 {
		t.Errorf("expected first position, got %d", song.Position)
	}
}
