package bands

import (
	"errors"
	"log/slog"

	"github.com/formantjeff/setlist/src/setlist"
	"github.com/gofiber/fiber/v2"
)

// Handler handles HTTP requests for bands
type Handler struct {
	service *Service
}

// NewHandler creates a new bands handler
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

type bandRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateBand creates a new band owned by the calling user.
func (h *Handler) CreateBand(c *fiber.Ctx) error {
	slog.Debug("CreateBand handler called")

	var req bandRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	band, err := h.service.CreateBand(c.Context(), req.Name, req.Description, userID(c))
	if err != nil {
		slog.Error("Failed to create band", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(band)
}

// SearchBands finds bands by name.
func (h *Handler) SearchBands(c *fiber.Ctx) error {
	query := c.Query("q")
	limit := c.QueryInt("limit", 20)

	bands, err := h.service.SearchBands(c.Context(), query, limit)
	if err != nil {
		slog.Error("Failed to search bands", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to search bands",
		})
	}
	return c.JSON(fiber.Map{"bands": bands})
}

// GetBand returns a single band.
func (h *Handler) GetBand(c *fiber.Ctx) error {
	band, err := h.service.GetBand(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, setlist.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Band not found",
			})
		}
		slog.Error("Failed to get band", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get band",
		})
	}
	return c.JSON(band)
}

// JoinBand adds the calling user to a band.
func (h *Handler) JoinBand(c *fiber.Ctx) error {
	band, err := h.service.JoinBand(c.Context(), c.Params("id"), userID(c))
	if err != nil {
		if errors.Is(err, setlist.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Band not found",
			})
		}
		slog.Error("Failed to join band", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to join band",
		})
	}
	return c.JSON(band)
}

// LeaveBand removes the calling user from a band.
func (h *Handler) LeaveBand(c *fiber.Ctx) error {
	if err := h.service.LeaveBand(c.Context(), c.Params("id"), userID(c)); err != nil {
		if errors.Is(err, setlist.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Membership not found",
			})
		}
		slog.Error("Failed to leave band", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to leave band",
		})
	}
	return c.JSON(fiber.Map{"message": "Left band"})
}

// GetMyBands lists the calling user's bands.
func (h *Handler) GetMyBands(c *fiber.Ctx) error {
	bands, err := h.service.GetBandsForUser(c.Context(), userID(c))
	if err != nil {
		slog.Error("Failed to get bands", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get bands",
		})
	}
	return c.JSON(fiber.Map{"bands": bands})
}

// GetProfile returns the calling user's profile.
func (h *Handler) GetProfile(c *fiber.Ctx) error {
	profile, err := h.service.GetProfile(c.Context(), userID(c))
	if err != nil {
		if errors.Is(err, setlist.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Profile not found",
			})
		}
		slog.Error("Failed to get profile", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get profile",
		})
	}
	return c.JSON(profile)
}

type profileRequest struct {
	DisplayName string `json:"displayName"`
	Instrument  string `json:"instrument"`
	PhotoURL    string `json:"photoUrl"`
}

// UpdateProfile saves the calling user's profile fields.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	profile := &setlist.Profile{
		ID:          userID(c),
		DisplayName: req.DisplayName,
		Instrument:  req.Instrument,
		PhotoURL:    req.PhotoURL,
	}
	if existing, err := h.service.GetProfile(c.Context(), userID(c)); err == nil {
		profile.BandID = existing.BandID
	}
	if err := h.service.UpdateProfile(c.Context(), profile); err != nil {
		slog.Error("Failed to update profile", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(profile)
}
