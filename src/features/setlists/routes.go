package setlists

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the setlists feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	setlists := app.Group("/setlists")
	setlists.Post("/", handler.CreateSetlist)
	setlists.Get("/", handler.GetSetlistsByBand)
	setlists.Get("/:id", handler.GetSetlist)
	setlists.Put("/:id", handler.UpdateSetlist)
	setlists.Delete("/:id", handler.DeleteSetlist)
	setlists.Get("/:id/songs", handler.GetSongs)
	setlists.Put("/:id/reorder", handler.Reorder)
}
