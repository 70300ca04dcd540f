package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/formantjeff/setlist/src/features/enrichment"
)

type deezerSearchResponse struct {
	Data []deezerTrack `json:"data"`
}

type deezerTrack struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Duration int    `json:"duration"`
	Rank     int    `json:"rank"`
	Preview  string `json:"preview"`
	Artist   struct {
		Name string `json:"name"`
	} `json:"artist"`
	Album struct {
		Title       string `json:"title"`
		CoverMedium string `json:"cover_medium"`
		ReleaseDate string `json:"release_date"`
	} `json:"album"`
}

// DeezerProvider implements SearchProvider against the public Deezer
// search API. No authentication is required. Deezer does not expose key
// or mode, so Audio is always nil and callers fall back to heuristics.
type DeezerProvider struct {
	enabled bool
}

// NewDeezerProvider creates a new Deezer provider
func NewDeezerProvider(enabled bool) *DeezerProvider {
	return &DeezerProvider{enabled: enabled}
}

func (p *DeezerProvider) Name() string {
	return "deezer"
}

func (p *DeezerProvider) IsEnabled() bool {
	return p.enabled
}

func (p *DeezerProvider) SearchTracks(ctx context.Context, query string, limit int) ([]enrichment.TrackResult, error) {
	if limit <= 0 {
		limit = 10
	}
	requestURL := fmt.Sprintf("https://api.deezer.com/search?q=%s&limit=%d",
		url.QueryEscape(query), limit)

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("deezer API request failed with status %d", resp.StatusCode)
	}

	var body deezerSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]enrichment.TrackResult, 0, len(body.Data))
	for _, track := range body.Data {
		results = append(results, enrichment.TrackResult{
			ExternalID:      fmt.Sprintf("deezer:%d", track.ID),
			Title:           track.Title,
			Artists:         []string{track.Artist.Name},
			Album:           track.Album.Title,
			DurationSeconds: track.Duration,
			ThumbnailURL:    track.Album.CoverMedium,
			PreviewURL:      track.Preview,
			Popularity:      track.Rank,
			ReleaseDate:     track.Album.ReleaseDate,
		})
	}
	return results, nil
}
