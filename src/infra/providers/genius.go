package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/formantjeff/setlist/src/features/enrichment"
)

type geniusSearchResponse struct {
	Response struct {
		Hits []struct {
			Result struct {
				ID            int    `json:"id"`
				FullTitle     string `json:"full_title"`
				URL           string `json:"url"`
				PrimaryArtist struct {
					Name string `json:"name"`
				} `json:"primary_artist"`
			} `json:"result"`
		} `json:"hits"`
	} `json:"response"`
}

// GeniusProvider implements LyricsProvider against the Genius search
// API. Genius does not serve lyrics text through the API, so a hit
// yields a pointer to the song page instead.
type GeniusProvider struct {
	enabled     bool
	accessToken string
}

// NewGeniusProvider creates a new Genius provider
func NewGeniusProvider(enabled bool, accessToken string) *GeniusProvider {
	return &GeniusProvider{enabled: enabled, accessToken: accessToken}
}

func (p *GeniusProvider) Name() string {
	return "genius"
}

func (p *GeniusProvider) IsEnabled() bool {
	return p.enabled && p.accessToken != ""
}

func (p *GeniusProvider) GetLyrics(ctx context.Context, artist, title string) enrichment.LyricsResult {
	query := url.QueryEscape(fmt.Sprintf("%s %s", artist, title))
	requestURL := fmt.Sprintf("https://api.genius.com/search?q=%s", query)

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return enrichment.LyricsResult{Status: enrichment.LyricsTransportError, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+p.accessToken)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return enrichment.LyricsResult{Status: enrichment.LyricsTransportError, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return enrichment.LyricsResult{
			Status: enrichment.LyricsTransportError,
			Err:    fmt.Errorf("genius API request failed with status %d", resp.StatusCode),
		}
	}

	var body geniusSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return enrichment.LyricsResult{Status: enrichment.LyricsTransportError, Err: err}
	}
	if len(body.Response.Hits) == 0 {
		return enrichment.LyricsResult{Status: enrichment.LyricsNotFound}
	}

	hit := body.Response.Hits[0].Result
	return enrichment.LyricsResult{
		Status:     enrichment.LyricsFound,
		Lyrics:     fmt.Sprintf("Lyrics available on Genius: %s", hit.URL),
		Source:     "genius",
		Confidence: 0.7,
	}
}
