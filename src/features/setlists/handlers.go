package setlists

import (
	"errors"
	"log/slog"

	"github.com/formantjeff/setlist/src/setlist"
	"github.com/gofiber/fiber/v2"
)

// Handler handles HTTP requests for setlists
type Handler struct {
	service *Service
}

// NewHandler creates a new setlists handler
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

type setlistRequest struct {
	BandID      string `json:"bandId"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateSetlist creates a new setlist.
func (h *Handler) CreateSetlist(c *fiber.Ctx) error {
	slog.Debug("CreateSetlist handler called")

	var req setlistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	sl, err := h.service.CreateSetlist(c.Context(), req.BandID, req.Name, req.Description, userID(c))
	if err != nil {
		slog.Error("Failed to create setlist", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(sl)
}

// GetSetlist returns a setlist with its songs in order.
func (h *Handler) GetSetlist(c *fiber.Ctx) error {
	sl, err := h.service.GetSetlist(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, setlist.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Setlist not found",
			})
		}
		slog.Error("Failed to get setlist", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get setlist",
		})
	}
	return c.JSON(sl)
}

// GetSetlistsByBand lists a band's setlists.
func (h *Handler) GetSetlistsByBand(c *fiber.Ctx) error {
	setlists, err := h.service.GetSetlistsByBand(c.Context(), c.Query("bandId"))
	if err != nil {
		slog.Error("Failed to list setlists", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list setlists",
		})
	}
	return c.JSON(fiber.Map{"setlists": setlists})
}

// UpdateSetlist renames a setlist.
func (h *Handler) UpdateSetlist(c *fiber.Ctx) error {
	var req setlistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	sl, err := h.service.UpdateSetlist(c.Context(), c.Params("id"), req.Name, req.Description)
	if err != nil {
		if errors.Is(err, setlist.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Setlist not found",
			})
		}
		slog.Error("Failed to update setlist", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(sl)
}

// DeleteSetlist removes a setlist and its songs.
func (h *Handler) DeleteSetlist(c *fiber.Ctx) error {
	if err := h.service.DeleteSetlist(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, setlist.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Setlist not found",
			})
		}
		slog.Error("Failed to delete setlist", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete setlist",
		})
	}
	return c.JSON(fiber.Map{"message": "Setlist deleted"})
}

type reorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Reorder moves a song between display positions. On a persistence
// failure the response still carries the corrected order so clients can
// resync without a second request.
func (h *Handler) Reorder(c *fiber.Ctx) error {
	slog.Debug("Reorder handler called", "setlist", c.Params("id"))

	var req reorderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	songs, err := h.service.Reorder(c.Context(), c.Params("id"), req.From, req.To)
	if err != nil {
		var reorderErr *setlist.ReorderError
		if errors.As(err, &reorderErr) {
			slog.Error("Reorder reverted", "setlist", c.Params("id"), "error", err)
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Reorder could not be saved, order reverted",
				"songs": songs,
			})
		}
		if errors.Is(err, setlist.ErrIndexOutOfRange) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Reorder index out of range",
			})
		}
		slog.Error("Reorder failed", "setlist", c.Params("id"), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Reorder failed",
		})
	}
	return c.JSON(fiber.Map{"songs": songs})
}

// GetSongs returns the songs of a setlist in display order.
func (h *Handler) GetSongs(c *fiber.Ctx) error {
	songs, err := h.service.Songs(c.Context(), c.Params("id"))
	if err != nil {
		slog.Error("Failed to load songs", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load songs",
		})
	}
	return c.JSON(fiber.Map{"songs": songs})
}
