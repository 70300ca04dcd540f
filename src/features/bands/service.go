package bands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/formantjeff/setlist/src/setlist"
)

// Service implements band membership and profile management.
type Service struct {
	store setlist.Store
}

// NewService creates a new bands service.
func NewService(store setlist.Store) *Service {
	return &Service{store: store}
}

// CreateBand creates a band, makes the creator an admin member and
// points their profile at the new band.
func (s *Service) CreateBand(ctx context.Context, name, description, userID string) (*setlist.Band, error) {
	slog.Debug("CreateBand service called", "name", name, "user", userID)

	if userID == "" {
		return nil, fmt.Errorf("band creator cannot be empty")
	}
	band := &setlist.Band{
		ID:          setlist.GenerateBandID(),
		Name:        name,
		Description: description,
		CreatedBy:   userID,
	}
	if err := s.store.AddBand(ctx, band); err != nil {
		slog.Error("Failed to create band", "name", name, "error", err)
		return nil, err
	}
	member := &setlist.BandMember{
		BandID:   band.ID,
		UserID:   userID,
		Role:     "admin",
		JoinedAt: time.Now(),
	}
	if err := s.store.AddBandMember(ctx, member); err != nil {
		slog.Error("Failed to add creator as member", "band", band.ID, "error", err)
		return nil, err
	}
	if err := s.setActiveBand(ctx, userID, band.ID); err != nil {
		return nil, err
	}

	slog.Debug("CreateBand completed", "band", band.ID)
	return band, nil
}

// SearchBands finds bands by name.
func (s *Service) SearchBands(ctx context.Context, query string, limit int) ([]*setlist.Band, error) {
	slog.Debug("SearchBands service called", "query", query)
	return s.store.SearchBands(ctx, query, limit)
}

// GetBand retrieves a band.
func (s *Service) GetBand(ctx context.Context, id string) (*setlist.Band, error) {
	return s.store.GetBand(ctx, id)
}

// JoinBand makes a user a member of an existing band and points their
// profile at it.
func (s *Service) JoinBand(ctx context.Context, bandID, userID string) (*setlist.Band, error) {
	slog.Debug("JoinBand service called", "band", bandID, "user", userID)

	band, err := s.store.GetBand(ctx, bandID)
	if err != nil {
		return nil, err
	}
	member := &setlist.BandMember{
		BandID:   bandID,
		UserID:   userID,
		Role:     "member",
		JoinedAt: time.Now(),
	}
	if err := s.store.AddBandMember(ctx, member); err != nil {
		slog.Error("Failed to join band", "band", bandID, "user", userID, "error", err)
		return nil, err
	}
	if err := s.setActiveBand(ctx, userID, bandID); err != nil {
		return nil, err
	}

	slog.Debug("JoinBand completed", "band", bandID, "user", userID)
	return band, nil
}

// LeaveBand removes a membership. The user's profile is detached from
// the band if it was their active one.
func (s *Service) LeaveBand(ctx context.Context, bandID, userID string) error {
	slog.Debug("LeaveBand service called", "band", bandID, "user", userID)

	if err := s.store.RemoveBandMember(ctx, bandID, userID); err != nil {
		slog.Error("Failed to leave band", "band", bandID, "user", userID, "error", err)
		return err
	}
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		// No profile means nothing to detach.
		return nil
	}
	if profile.BandID == bandID {
		profile.BandID = ""
		if err := s.store.UpsertProfile(ctx, profile); err != nil {
			slog.Error("Failed to detach profile from band", "user", userID, "error", err)
			return err
		}
	}
	return nil
}

// GetBandsForUser lists the bands a user belongs to.
func (s *Service) GetBandsForUser(ctx context.Context, userID string) ([]*setlist.Band, error) {
	slog.Debug("GetBandsForUser service called", "user", userID)
	return s.store.GetBandsForUser(ctx, userID)
}

// GetProfile retrieves a user's profile.
func (s *Service) GetProfile(ctx context.Context, userID string) (*setlist.Profile, error) {
	return s.store.GetProfile(ctx, userID)
}

// UpdateProfile saves a user's display fields.
func (s *Service) UpdateProfile(ctx context.Context, profile *setlist.Profile) error {
	slog.Debug("UpdateProfile service called", "user", profile.ID)
	return s.store.UpsertProfile(ctx, profile)
}

func (s *Service) setActiveBand(ctx context.Context, userID, bandID string) error {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		profile = &setlist.Profile{ID: userID}
	}
	profile.BandID = bandID
	if err := s.store.UpsertProfile(ctx, profile); err != nil {
		slog.Error("Failed to set active band", "user", userID, "band", bandID, "error", err)
		return err
	}
	return nil
}
