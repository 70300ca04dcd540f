package artwork

import (
	"context"
	"crypto/md5"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/formantjeff/setlist/src/features/config"
	"github.com/nfnt/resize"

	_ "golang.org/x/image/webp"
	_ "image/gif"
	_ "image/png"
)

// Service downloads song thumbnails and caches resized copies under the
// data path, where the hosting layer serves them statically.
type Service struct {
	config *config.Manager
}

// NewService creates a new artwork service
func NewService(config *config.Manager) *Service {
	return &Service{
		config: config,
	}
}

// CacheThumbnail downloads a thumbnail, resizes it to the configured
// size and stores it as JPEG. It returns the path relative to the data
// directory, suitable for the static file route.
func (s *Service) CacheThumbnail(ctx context.Context, url string) (string, error) {
	cfg := s.config.Get()
	if !cfg.Thumbnails.Enabled {
		return "", nil
	}
	if url == "" {
		return "", fmt.Errorf("empty thumbnail URL")
	}

	thumbDir := filepath.Join(cfg.DataPath, "thumbnails")
	if err := os.MkdirAll(thumbDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	hash := md5.Sum([]byte(url))
	relPath := filepath.Join("thumbnails", fmt.Sprintf("%x.jpg", hash))
	destPath := filepath.Join(cfg.DataPath, relPath)

	if _, err := os.Stat(destPath); err == nil {
		slog.Debug("Using cached thumbnail", "path", destPath)
		return relPath, nil
	}

	slog.Debug("Downloading thumbnail", "url", url)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download thumbnail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("thumbnail download failed with status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to decode thumbnail: %w", err)
	}

	size := cfg.Thumbnails.Size
	if size <= 0 {
		size = 300
	}
	quality := cfg.Thumbnails.Quality
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	resized := resize.Thumbnail(uint(size), uint(size), img, resize.Lanczos3)

	file, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create thumbnail file: %w", err)
	}
	defer file.Close()

	if err := jpeg.Encode(file, resized, &jpeg.Options{Quality: quality}); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	slog.Debug("Thumbnail cached", "path", destPath)
	return relPath, nil
}
