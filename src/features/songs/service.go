package songs

import (
	"context"
	"log/slog"
	"strings"

	"github.com/formantjeff/setlist/src/features/enrichment"
	"github.com/formantjeff/setlist/src/features/metrics"
	"github.com/formantjeff/setlist/src/features/ordering"
	"github.com/formantjeff/setlist/src/infra/artwork"
	"github.com/formantjeff/setlist/src/setlist"
)

// Service implements song management: creation, enrichment, import from
// track search, updates and removal. All membership mutations go
// through the setlist's ordering manager.
type Service struct {
	store    setlist.Store
	managers *ordering.Registry
	enricher *enrichment.Service
	artwork  *artwork.Service
	metrics  *metrics.Metrics
}

// NewService creates a new songs service.
func NewService(store setlist.Store, managers *ordering.Registry, enricher *enrichment.Service, art *artwork.Service, m *metrics.Metrics) *Service {
	return &Service{store: store, managers: managers, enricher: enricher, artwork: art, metrics: m}
}

// CreateSong adds a manually named song at the end of a setlist. The
// song is enriched with lyrics and chords before the write, but
// enrichment failures never block creation.
func (s *Service) CreateSong(ctx context.Context, setlistID, name, artist, userID string) (*setlist.Song, error) {
	slog.Debug("CreateSong service called", "setlist", setlistID, "name", name)

	sl, err := s.store.GetSetlist(ctx, setlistID)
	if err != nil {
		return nil, err
	}
	song := &setlist.Song{
		ID:        setlist.GenerateSongID(),
		BandID:    sl.BandID,
		SetlistID: setlistID,
		CreatedBy: userID,
		Name:      strings.TrimSpace(name),
		Artist:    strings.TrimSpace(artist),
	}
	if err := song.Validate(); err != nil {
		return nil, err
	}
	s.enricher.Enrich(ctx, song, nil)

	manager := s.managers.Manager(setlistID)
	if err := manager.Load(ctx); err != nil {
		return nil, err
	}
	if err := manager.Insert(ctx, song); err != nil {
		slog.Error("Failed to insert song", "setlist", setlistID, "error", err)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.SongsCreated.Inc()
	}
	slog.Debug("CreateSong completed", "song", song.ID, "position", song.Position)
	return song, nil
}

// ImportFromSearch creates a song from a track search result. The
// thumbnail is cached locally when possible; on failure the remote URL
// is kept.
func (s *Service) ImportFromSearch(ctx context.Context, setlistID, userID string, track enrichment.TrackResult) (*setlist.Song, error) {
	slog.Debug("ImportFromSearch service called", "setlist", setlistID, "track", track.Title)

	sl, err := s.store.GetSetlist(ctx, setlistID)
	if err != nil {
		return nil, err
	}
	song := &setlist.Song{
		ID:           setlist.GenerateSongID(),
		BandID:       sl.BandID,
		SetlistID:    setlistID,
		CreatedBy:    userID,
		Name:         track.Title,
		Artist:       strings.Join(track.Artists, ", "),
		Album:        track.Album,
		ThumbnailURL: track.ThumbnailURL,
		PreviewURL:   track.PreviewURL,
		ExternalID:   track.ExternalID,
		Duration:     track.DurationSeconds,
		Popularity:   track.Popularity,
	}
	if err := song.Validate(); err != nil {
		return nil, err
	}

	if s.artwork != nil && track.ThumbnailURL != "" {
		if cached, err := s.artwork.CacheThumbnail(ctx, track.ThumbnailURL); err != nil {
			slog.Warn("Thumbnail caching failed, keeping remote URL",
				"url", track.ThumbnailURL, "error", err)
		} else if cached != "" {
			song.ThumbnailURL = "/static/" + cached
		}
	}
	s.enricher.Enrich(ctx, song, &track)

	manager := s.managers.Manager(setlistID)
	if err := manager.Load(ctx); err != nil {
		return nil, err
	}
	if err := manager.Insert(ctx, song); err != nil {
		slog.Error("Failed to import song", "setlist", setlistID, "error", err)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.SongsCreated.Inc()
	}
	slog.Debug("ImportFromSearch completed", "song", song.ID, "position", song.Position)
	return song, nil
}

// Search proxies a track search to the enrichment providers.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]enrichment.TrackResult, error) {
	return s.enricher.Search(ctx, query, limit)
}

// GetSong retrieves one song.
func (s *Service) GetSong(ctx context.Context, id string) (*setlist.Song, error) {
	return s.store.GetSong(ctx, id)
}

// UpdateSong applies a partial update to a song's display fields.
func (s *Service) UpdateSong(ctx context.Context, setlistID, songID string, fields setlist.SongFields) (*setlist.Song, error) {
	slog.Debug("UpdateSong service called", "setlist", setlistID, "song", songID)

	manager := s.managers.Manager(setlistID)
	if err := manager.Load(ctx); err != nil {
		return nil, err
	}
	return manager.UpdateFields(ctx, songID, fields)
}

// DeleteSong removes a song from its setlist.
func (s *Service) DeleteSong(ctx context.Context, setlistID, songID string) error {
	slog.Debug("DeleteSong service called", "setlist", setlistID, "song", songID)

	manager := s.managers.Manager(setlistID)
	if err := manager.Load(ctx); err != nil {
		return err
	}
	if err := manager.Remove(ctx, songID); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.SongsDeleted.Inc()
	}
	return nil
}
