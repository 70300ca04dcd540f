package enrichment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/formantjeff/setlist/src/features/config"
	"github.com/formantjeff/setlist/src/features/metrics"
	"github.com/formantjeff/setlist/src/setlist"
)

// Service runs search and lyrics providers and fills in song metadata.
type Service struct {
	config          *config.Manager
	metrics         *metrics.Metrics
	searchProviders []SearchProvider
	lyricsProviders []LyricsProvider
}

// NewService creates the enrichment service. Provider order matters for
// lyrics: the first provider that finds lyrics wins.
func NewService(cfg *config.Manager, m *metrics.Metrics, search []SearchProvider, lyrics []LyricsProvider) *Service {
	return &Service{config: cfg, metrics: m, searchProviders: search, lyricsProviders: lyrics}
}

func (s *Service) timeout() time.Duration {
	seconds := s.config.Get().Enrichment.TimeoutSeconds
	if seconds <= 0 {
		seconds = 5
	}
	return time.Duration(seconds) * time.Second
}

// Search queries the first enabled search provider.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]TrackResult, error) {
	slog.Debug("Search service called", "query", query, "limit", limit)
	for _, provider := range s.searchProviders {
		if !provider.IsEnabled() {
			continue
		}
		ctx, cancel := context.WithTimeout(ctx, s.timeout())
		results, err := provider.SearchTracks(ctx, query, limit)
		cancel()
		if err != nil {
			s.count(provider.Name(), "error")
			slog.Error("Track search failed", "provider", provider.Name(), "error", err)
			return nil, fmt.Errorf("searching tracks via %s: %w", provider.Name(), err)
		}
		s.count(provider.Name(), "ok")
		return results, nil
	}
	return nil, fmt.Errorf("no search provider enabled")
}

// Enrich fills lyrics and chords on a song. It never returns an error:
// a song is created with whatever metadata could be fetched, and
// provider failures only show up in the logs and counters. When track
// carries audio features the key comes from them, otherwise from a
// heuristic over the song's name and artist.
func (s *Service) Enrich(ctx context.Context, song *setlist.Song, track *TrackResult) {
	slog.Debug("Enrich service called", "song", song.Name, "artist", song.Artist)

	if song.Lyrics == "" {
		if result := s.lookupLyrics(ctx, song.Artist, song.Name); result.Status == LyricsFound {
			song.Lyrics = result.Lyrics
		}
	}
	if song.Chords == "" {
		key := ""
		if track != nil && track.Audio != nil {
			key = KeyName(track.Audio.Key, track.Audio.Mode)
		}
		if key == "" {
			key = DetectKey(song.Name, song.Artist)
		}
		song.Chords = GenerateChords(key)
	}
}

func (s *Service) lookupLyrics(ctx context.Context, artist, title string) LyricsResult {
	for _, provider := range s.lyricsProviders {
		if !provider.IsEnabled() {
			continue
		}
		ctx, cancel := context.WithTimeout(ctx, s.timeout())
		result := provider.GetLyrics(ctx, artist, title)
		cancel()
		switch result.Status {
		case LyricsFound:
			s.count(provider.Name(), "found")
			slog.Debug("Lyrics found", "provider", provider.Name(), "confidence", result.Confidence)
			return result
		case LyricsNotFound:
			s.count(provider.Name(), "not_found")
		case LyricsTransportError:
			s.count(provider.Name(), "error")
			slog.Error("Lyrics lookup failed", "provider", provider.Name(), "error", result.Err)
		}
	}
	return LyricsResult{Status: LyricsNotFound}
}

func (s *Service) count(provider, outcome string) {
	if s.metrics != nil {
		s.metrics.Enrichments.WithLabelValues(provider, outcome).Inc()
	}
}
