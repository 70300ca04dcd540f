package setlists

import (
	"context"
	"log/slog"

	"github.com/formantjeff/setlist/src/features/ordering"
	"github.com/formantjeff/setlist/src/setlist"
)

// Service implements setlist management on top of the store and the
// per-setlist ordering managers.
type Service struct {
	store    setlist.Store
	managers *ordering.Registry
}

// NewService creates a new setlists service.
func NewService(store setlist.Store, managers *ordering.Registry) *Service {
	return &Service{store: store, managers: managers}
}

// CreateSetlist creates an empty setlist for a band.
func (s *Service) CreateSetlist(ctx context.Context, bandID, name, description, userID string) (*setlist.Setlist, error) {
	slog.Debug("CreateSetlist service called", "band", bandID, "name", name)

	sl := &setlist.Setlist{
		ID:          setlist.GenerateSetlistID(),
		BandID:      bandID,
		Name:        name,
		Description: description,
		CreatedBy:   userID,
	}
	if err := s.store.AddSetlist(ctx, sl); err != nil {
		slog.Error("Failed to create setlist", "band", bandID, "error", err)
		return nil, err
	}
	slog.Debug("CreateSetlist completed", "setlist", sl.ID)
	return sl, nil
}

// GetSetlist retrieves a setlist with its songs in display order.
func (s *Service) GetSetlist(ctx context.Context, id string) (*setlist.Setlist, error) {
	slog.Debug("GetSetlist service called", "setlist", id)

	sl, err := s.store.GetSetlist(ctx, id)
	if err != nil {
		return nil, err
	}
	manager := s.managers.Manager(id)
	if err := manager.Load(ctx); err != nil {
		slog.Error("Failed to load setlist songs", "setlist", id, "error", err)
		return nil, err
	}
	sl.Songs = manager.Songs()
	return sl, nil
}

// GetSetlistsByBand lists a band's setlists without songs.
func (s *Service) GetSetlistsByBand(ctx context.Context, bandID string) ([]*setlist.Setlist, error) {
	slog.Debug("GetSetlistsByBand service called", "band", bandID)
	return s.store.GetSetlistsByBand(ctx, bandID)
}

// UpdateSetlist renames a setlist.
func (s *Service) UpdateSetlist(ctx context.Context, id, name, description string) (*setlist.Setlist, error) {
	slog.Debug("UpdateSetlist service called", "setlist", id)

	sl, err := s.store.GetSetlist(ctx, id)
	if err != nil {
		return nil, err
	}
	sl.Name = name
	sl.Description = description
	if err := s.store.UpdateSetlist(ctx, sl); err != nil {
		slog.Error("Failed to update setlist", "setlist", id, "error", err)
		return nil, err
	}
	return sl, nil
}

// DeleteSetlist removes a setlist with its songs and drops its manager.
func (s *Service) DeleteSetlist(ctx context.Context, id string) error {
	slog.Debug("DeleteSetlist service called", "setlist", id)

	if err := s.store.DeleteSetlist(ctx, id); err != nil {
		slog.Error("Failed to delete setlist", "setlist", id, "error", err)
		return err
	}
	s.managers.Drop(id)
	return nil
}

// Reorder moves a song between display indices in a setlist.
func (s *Service) Reorder(ctx context.Context, setlistID string, from, to int) ([]*setlist.Song, error) {
	slog.Debug("Reorder service called", "setlist", setlistID, "from", from, "to", to)

	manager := s.managers.Manager(setlistID)
	if len(manager.Songs()) == 0 {
		if err := manager.Load(ctx); err != nil {
			return nil, err
		}
	}
	err := manager.Reorder(ctx, from, to)
	// The manager's view is already corrected on failure, so the songs
	// are returned either way.
	return manager.Songs(), err
}

// Songs returns the current display order of a setlist.
func (s *Service) Songs(ctx context.Context, setlistID string) ([]*setlist.Song, error) {
	manager := s.managers.Manager(setlistID)
	if err := manager.Load(ctx); err != nil {
		return nil, err
	}
	return manager.Songs(), nil
}
