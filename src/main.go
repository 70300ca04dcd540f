package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/formantjeff/setlist/src/features/bands"
	"github.com/formantjeff/setlist/src/features/config"
	"github.com/formantjeff/setlist/src/features/enrichment"
	"github.com/formantjeff/setlist/src/features/hosting"
	"github.com/formantjeff/setlist/src/features/logging"
	"github.com/formantjeff/setlist/src/features/metrics"
	"github.com/formantjeff/setlist/src/features/ordering"
	"github.com/formantjeff/setlist/src/features/setlists"
	"github.com/formantjeff/setlist/src/features/songs"
	"github.com/formantjeff/setlist/src/infra/artwork"
	"github.com/formantjeff/setlist/src/infra/database"
	"github.com/formantjeff/setlist/src/infra/providers"
	"github.com/formantjeff/setlist/src/infra/watcher"
)

const configPath = "config.yaml"

func main() {
	// Load configuration
	cfgManager, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Setup default logger with slog
	logger := logging.SetupLogger(cfgManager)
	slog.SetDefault(logger)

	// Create the database store
	store, err := database.NewSqliteStore(cfgManager.Get().Database.Path)
	if err != nil {
		log.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	// Metrics registry and listener
	appMetrics := metrics.New()
	if cfgManager.Get().Metrics.Enabled {
		go func() {
			if err := appMetrics.Serve(cfgManager.Get().Metrics.Addr); err != nil {
				slog.Error("Metrics listener stopped", "error", err)
			}
		}()
	}

	// Enrichment providers
	searchCfg := cfgManager.Get().Enrichment.Search
	lyricsCfg := cfgManager.Get().Enrichment.Lyrics
	geniusSecret := ""
	if p, ok := lyricsCfg["genius"]; ok && p.Secret != nil {
		geniusSecret = *p.Secret
	}
	searchProviders := []enrichment.SearchProvider{
		providers.NewDeezerProvider(searchCfg["deezer"].Enabled),
	}
	lyricsProviders := []enrichment.LyricsProvider{
		providers.NewLyricsOvhProvider(lyricsCfg["lyricsovh"].Enabled),
		providers.NewGeniusProvider(lyricsCfg["genius"].Enabled, geniusSecret),
	}
	enrichmentService := enrichment.NewService(cfgManager, appMetrics, searchProviders, lyricsProviders)

	// Domain services
	managers := ordering.NewRegistry(store, appMetrics)
	artworkService := artwork.NewService(cfgManager)
	bandService := bands.NewService(store)
	setlistService := setlists.NewService(store, managers)
	songService := songs.NewService(store, managers, enrichmentService, artworkService, appMetrics)

	// Watch the config file for hot reloads
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	configWatcher, err := watcher.NewWatcher(cfgManager, configPath)
	if err != nil {
		slog.Error("Failed to create config watcher", "error", err)
	} else if err := configWatcher.Start(ctx); err != nil {
		slog.Error("Failed to start config watcher", "error", err)
	} else {
		defer configWatcher.Stop()
	}

	// Create and start the Telegram bot if enabled
	var telegramBot *hosting.TelegramBot
	if cfgManager.Get().Telegram.Enabled {
		var err error
		telegramBot, err = hosting.NewTelegramBot(cfgManager, setlistService)
		if err != nil {
			slog.Error("Failed to initialize Telegram bot", "error", err)
		} else {
			go telegramBot.Start()
			slog.Info("Telegram bot started")
		}
	}

	// Create and start the HTTP server
	server := hosting.NewServer(cfgManager, bandService, setlistService, songService)
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("server stopped", "error", err)
		}
	}()
	slog.Info("Server started. Press Ctrl+C to shut down.", "port", cfgManager.Get().Server.Port)

	// Wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	slog.Info("Shutting down server...")

	// Shutdown the Telegram bot
	if telegramBot != nil {
		telegramBot.Stop()
		slog.Info("Telegram bot stopped")
	}

	// Shutdown the server
	if err := server.Shutdown(); err != nil {
		log.Fatalf("failed to shutdown server: %v", err)
	}
	slog.Info("Server gracefully shut down.")
}
