package hosting

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/formantjeff/setlist/src/features/bands"
	"github.com/formantjeff/setlist/src/features/config"
	"github.com/formantjeff/setlist/src/features/setlists"
	"github.com/formantjeff/setlist/src/features/songs"
	"github.com/gofiber/fiber/v2"
)

// Server is the HTTP server for the application.
type Server struct {
	app  *fiber.App
	port uint32
}

// NewServer creates a new HTTP server.
func NewServer(cfg *config.Manager, bandService *bands.Service, setlistService *setlists.Service, songService *songs.Service) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("Internal Server Error", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
		AppName:               "Setlist",
		DisableStartupMessage: true,
		EnablePrintRoutes:     cfg.Get().Server.PrintRoutes,
	})

	app.Use(LogAllRequestsMiddleware())
	app.Use(UserContextMiddleware())

	// Cached thumbnails live under the data path.
	app.Static("/static", filepath.Clean(cfg.Get().DataPath))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	bands.RegisterRoutes(app, bandService)
	setlists.RegisterRoutes(app, setlistService)
	songs.RegisterRoutes(app, songService)
	config.RegisterRoutes(app, cfg)

	return &Server{app: app, port: cfg.Get().Server.Port}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.app.Listen(":" + fmt.Sprint(s.port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
