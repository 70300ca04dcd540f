package enrichment

import (
	"context"
	"errors"
	"testing"

	"github.com/formantjeff/setlist/src/features/config"
	"github.com/formantjeff/setlist/src/setlist"
)

type MockLyricsProvider struct {
	name    string
	enabled bool
	result  LyricsResult
	calls   int
}

func (m *MockLyricsProvider) Name() string    { return m.name }
func (m *MockLyricsProvider) IsEnabled() bool { return m.enabled }
func (m *MockLyricsProvider) GetLyrics(ctx context.Context, artist, title string) LyricsResult {
	m.calls++
	return m.result
}

type MockSearchProvider struct {
	name    string
	enabled bool
	results []TrackResult
	err     error
}

func (m *MockSearchProvider) Name() string    { return m.name }
func (m *MockSearchProvider) IsEnabled() bool { return m.enabled }
func (m *MockSearchProvider) SearchTracks(ctx context.Context, query string, limit int) ([]TrackResult, error) {
	return m.results, m.err
}

func testConfig() *config.Manager {
	return config.NewManager(&config.Config{
		Enrichment: config.Enrichment{TimeoutSeconds: 1},
	})
}

func TestEnrich_LyricsAndChordsSet(t *testing.T) {
	provider := &MockLyricsProvider{
		name:    "lyricsovh",
		enabled: true,
		result:  LyricsResult{Status: LyricsFound, Lyrics: "la la la", Source: "lyrics.ovh", Confidence: 0.8},
	}
	service := NewService(testConfig(), nil, nil, []LyricsProvider{provider})

	song := &setlist.Song{Name: "Yesterday", Artist: "The Beatles"}
	service.Enrich(context.Background(), song, nil)

	if song.Lyrics != "la la la" {
		t.Errorf("expected lyrics set, got %q", song.Lyrics)
	}
	if song.Chords == "" {
		t.Error("expected chords to be generated")
	}
}

func TestEnrich_ProviderFailureStillSetsChords(t *testing.T) {
	provider := &MockLyricsProvider{
		name:    "lyricsovh",
		enabled: true,
		result:  LyricsResult{Status: LyricsTransportError, Err: errors.New("connection refused")},
	}
	service := NewService(testConfig(), nil, nil, []LyricsProvider{provider})

	song := &setlist.Song{Name: "Thunderstruck", Artist: "AC/DC"}
	service.Enrich(context.Background(), song, nil)

	if song.Lyrics != "" {
		t.Errorf("expected no lyrics, got %q", song.Lyrics)
	}
	if song.Chords != GenerateChords("E") {
		t.Errorf("expected rock heuristic chords, got %q", song.Chords)
	}
}

func TestEnrich_FirstFoundLyricsWin(t *testing.T) {
	first := &MockLyricsProvider{
		name:    "lyricsovh",
		enabled: true,
		result:  LyricsResult{Status: LyricsNotFound},
	}
	second := &MockLyricsProvider{
		name:    "genius",
		enabled: true,
		result:  LyricsResult{Status: LyricsFound, Lyrics: "Lyrics available on Genius: https://genius.com/x", Confidence: 0.7},
	}
	service := NewService(testConfig(), nil, nil, []LyricsProvider{first, second})

	song := &setlist.Song{Name: "Song", Artist: "Artist"}
	service.Enrich(context.Background(), song, nil)

	if first.calls != 1 || second.calls != 1 {
		t.Errorf("expected both providers tried once, got %d and %d", first.calls, second.calls)
	}
	if song.Lyrics != second.result.Lyrics {
		t.Errorf("expected fallback lyrics, got %q", song.Lyrics)
	}
}

func TestEnrich_DisabledProviderSkipped(t *testing.T) {
	disabled := &MockLyricsProvider{name: "genius", enabled: false,
		result: LyricsResult{Status: LyricsFound, Lyrics: "nope"}}
	service := NewService(testConfig(), nil, nil, []LyricsProvider{disabled})

	song := &setlist.Song{Name: "Song", Artist: "Artist"}
	service.Enrich(context.Background(), song, nil)

	if disabled.calls != 0 {
		t.Errorf("expected disabled provider untouched, got %d calls", disabled.calls)
	}
}

func TestEnrich_AudioFeaturesBeatHeuristic(t *testing.T) {
	service := NewService(testConfig(), nil, nil, nil)

	song := &setlist.Song{Name: "Blue Monday", Artist: "New Order"}
	track := &TrackResult{Audio: &AudioFeatures{Key: 7, Mode: 1}}
	service.Enrich(context.Background(), song, track)

	if song.Chords != GenerateChords("G") {
		t.Errorf("expected G chords from audio features, got %q", song.Chords)
	}
}

func TestEnrich_ExistingFieldsUntouched(t *testing.T) {
	provider := &MockLyricsProvider{
		name:    "lyricsovh",
		enabled: true,
		result:  LyricsResult{Status: LyricsFound, Lyrics: "new lyrics"},
	}
	service := NewService(testConfig(), nil, nil, []LyricsProvider{provider})

	song := &setlist.Song{Name: "Song", Artist: "Artist", Lyrics: "my lyrics", Chords: "my chords"}
	service.Enrich(context.Background(), song, nil)

	if song.Lyrics != "my lyrics" || song.Chords != "my chords" {
		t.Errorf("expected existing fields kept, got %q / %q", song.Lyrics, song.Chords)
	}
	if provider.calls != 0 {
		t.Errorf("expected no lyrics lookup, got %d calls", provider.calls)
	}
}

func TestSearch_UsesFirstEnabledProvider(t *testing.T) {
	disabled := &MockSearchProvider{name: "off", enabled: false}
	enabled := &MockSearchProvider{name: "deezer", enabled: true,
		results: []TrackResult{{Title: "Yesterday", Artists: []string{"The Beatles"}}}}
	service := NewService(testConfig(), nil, []SearchProvider{disabled, enabled}, nil)

	results, err := service.Search(context.Background(), "yesterday", 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results) != 1 || results[0].Title != "Yesterday" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestSearch_NoProviderEnabled(t *testing.T) {
	disabled := &MockSearchProvider{name: "deezer", enabled: false}
	service := NewService(testConfig(), nil, []SearchProvider{disabled}, nil)

	if _, err := service.Search(context.Background(), "anything", 5); err == nil {
		t.Fatal("expected error when no provider is enabled")
	}
}

func TestSearch_ProviderError(t *testing.T) {
	failing := &MockSearchProvider{name: "deezer", enabled: true, err: errors.New("rate limited")}
	service := NewService(testConfig(), nil, []SearchProvider{failing}, nil)

	if _, err := service.Search(context.Background(), "anything", 5); err == nil {
		t.Fatal("expected provider error to propagate")
	}
}
