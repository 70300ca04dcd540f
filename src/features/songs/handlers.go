package songs

import (
	"errors"
	"log/slog"

	"github.com/formantjeff/setlist/src/features/enrichment"
	"github.com/formantjeff/setlist/src/setlist"
	"github.com/gofiber/fiber/v2"
)

// Handler handles HTTP requests for songs
type Handler struct {
	service *Service
}

// NewHandler creates a new songs handler
func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func userID(c *fiber.Ctx) string {
	if id, ok := c.Locals("userID").(string); ok {
		return id
	}
	return ""
}

type createSongRequest struct {
	SetlistID string `json:"setlistId"`
	Name      string `json:"name"`
	Artist    string `json:"artist"`
}

// CreateSong adds a manually named song to a setlist.
func (h *Handler) CreateSong(c *fiber.Ctx) error {
	slog.Debug("CreateSong handler called")

	var req createSongRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	song, err := h.service.CreateSong(c.Context(), req.SetlistID, req.Name, req.Artist, userID(c))
	if err != nil {
		if errors.Is(err, setlist.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Setlist not found",
			})
		}
		slog.Error("Failed to create song", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(song)
}

type importSongRequest struct {
	SetlistID string                 `json:"setlistId"`
	Track     enrichment.TrackResult `json:"track"`
}

// ImportSong creates a song from a track search result.
func (h *Handler) ImportSong(c *fiber.Ctx) error {
	slog.Debug("ImportSong handler called")

	var req importSongRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	song, err := h.service.ImportFromSearch(c.Context(), req.SetlistID, userID(c), req.Track)
	if err != nil {
		if errors.Is(err, setlist.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Setlist not found",
			})
		}
		slog.Error("Failed to import song", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(song)
}

// SearchTracks proxies a track search to the providers.
func (h *Handler) SearchTracks(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query parameter q is required",
		})
	}
	limit := c.QueryInt("limit", 10)

	results, err := h.service.Search(c.Context(), query, limit)
	if err != nil {
		slog.Error("Track search failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Track search failed",
		})
	}
	return c.JSON(fiber.Map{"results": results})
}

// GetSong returns one song.
func (h *Handler) GetSong(c *fiber.Ctx) error {
	song, err := h.service.GetSong(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, setlist.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Song not found",
			})
		}
		slog.Error("Failed to get song", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get song",
		})
	}
	return c.JSON(song)
}

type updateSongRequest struct {
	SetlistID    string  `json:"setlistId"`
	Name         *string `json:"name"`
	Artist       *string `json:"artist"`
	Album        *string `json:"album"`
	Lyrics       *string `json:"lyrics"`
	Chords       *string `json:"chords"`
	Notes        *string `json:"notes"`
	ThumbnailURL *string `json:"thumbnailUrl"`
	PreviewURL   *string `json:"previewUrl"`
	Duration     *int    `json:"duration"`
	Tempo        *int    `json:"tempo"`
}

// UpdateSong applies a partial update to a song's display fields.
// Position cannot be set here, reordering has its own endpoint.
func (h *Handler) UpdateSong(c *fiber.Ctx) error {
	slog.Debug("UpdateSong handler called", "song", c.Params("id"))

	var req updateSongRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	fields := setlist.SongFields{
		Name:         req.Name,
		Artist:       req.Artist,
		Album:        req.Album,
		Lyrics:       req.Lyrics,
		Chords:       req.Chords,
		Notes:        req.Notes,
		ThumbnailURL: req.ThumbnailURL,
		PreviewURL:   req.PreviewURL,
		Duration:     req.Duration,
		Tempo:        req.Tempo,
	}
	if req.SetlistID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "setlistId is required",
		})
	}
	if fields.Empty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No fields to update",
		})
	}
	song, err := h.service.UpdateSong(c.Context(), req.SetlistID, c.Params("id"), fields)
	if err != nil {
		if errors.Is(err, setlist.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Song not found",
			})
		}
		slog.Error("Failed to update song", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(song)
}

// DeleteSong removes a song from a setlist.
func (h *Handler) DeleteSong(c *fiber.Ctx) error {
	setlistID := c.Query("setlistId")
	if setlistID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query parameter setlistId is required",
		})
	}
	if err := h.service.DeleteSong(c.Context(), setlistID, c.Params("id")); err != nil {
		if errors.Is(err, setlist.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Song not found",
			})
		}
		slog.Error("Failed to delete song", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete song",
		})
	}
	return c.JSON(fiber.Map{"message": "Song deleted"})
}
