package bands

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the bands feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	bands := app.Group("/bands")
	bands.Post("/", handler.CreateBand)
	bands.Get("/search", handler.SearchBands)
	bands.Get("/mine", handler.GetMyBands)
	bands.Get("/:id", handler.GetBand)
	bands.Post("/:id/join", handler.JoinBand)
	bands.Delete("/:id/members/me", handler.LeaveBand)

	profile := app.Group("/profile")
	profile.Get("/", handler.GetProfile)
	profile.Put("/", handler.UpdateProfile)
}
