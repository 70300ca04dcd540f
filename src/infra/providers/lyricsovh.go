package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/formantjeff/setlist/src/features/enrichment"
)

type lyricsOvhResponse struct {
	Lyrics string `json:"lyrics"`
}

// LyricsOvhProvider implements LyricsProvider for lyrics.ovh
type LyricsOvhProvider struct {
	enabled bool
}

// NewLyricsOvhProvider creates a new lyrics.ovh provider
func NewLyricsOvhProvider(enabled bool) *LyricsOvhProvider {
	return &LyricsOvhProvider{enabled: enabled}
}

func (p *LyricsOvhProvider) Name() string {
	return "lyricsovh"
}

func (p *LyricsOvhProvider) IsEnabled() bool {
	return p.enabled
}

func (p *LyricsOvhProvider) GetLyrics(ctx context.Context, artist, title string) enrichment.LyricsResult {
	requestURL := fmt.Sprintf("https://api.lyrics.ovh/v1/%s/%s",
		url.PathEscape(artist), url.PathEscape(title))

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return enrichment.LyricsResult{Status: enrichment.LyricsTransportError, Err: err}
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return enrichment.LyricsResult{Status: enrichment.LyricsTransportError, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return enrichment.LyricsResult{Status: enrichment.LyricsNotFound}
	}
	if resp.StatusCode != http.StatusOK {
		return enrichment.LyricsResult{
			Status: enrichment.LyricsTransportError,
			Err:    fmt.Errorf("lyrics.ovh request failed with status %d", resp.StatusCode),
		}
	}

	var body lyricsOvhResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return enrichment.LyricsResult{Status: enrichment.LyricsTransportError, Err: err}
	}
	if body.Lyrics == "" {
		return enrichment.LyricsResult{Status: enrichment.LyricsNotFound}
	}

	return enrichment.LyricsResult{
		Status:     enrichment.LyricsFound,
		Lyrics:     body.Lyrics,
		Source:     "lyrics.ovh",
		Confidence: 0.8,
	}
}
