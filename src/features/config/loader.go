package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// setProviderSecret sets the secret for a lyrics provider from an
// environment variable.
func setProviderSecret(cfg *Config, providerName, envVar string) {
	if key := os.Getenv(envVar); key != "" {
		if cfg.Enrichment.Lyrics == nil {
			cfg.Enrichment.Lyrics = make(map[string]Provider)
		}
		if provider, exists := cfg.Enrichment.Lyrics[providerName]; exists {
			provider.Secret = &key
			cfg.Enrichment.Lyrics[providerName] = provider
		} else {
			cfg.Enrichment.Lyrics[providerName] = Provider{Enabled: false, Secret: &key}
		}
	}
}

// Load reads a YAML file from the given path and returns a new Manager.
// If the file doesn't exist, creates a default configuration.
func Load(path string) (*Manager, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Info("Config file not found, creating default configuration", "path", path)
		defaultCfg := createDefaultConfig()

		if err := saveDefaultConfig(path, defaultCfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}

		manager := NewManager(defaultCfg)
		if err := manager.EnsureDirectories(); err != nil {
			return nil, err
		}
		return manager, nil
	}

	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}

	manager := NewManager(cfg)
	if err := manager.EnsureDirectories(); err != nil {
		return nil, err
	}

	return manager, nil
}

// Read parses and validates the config file at path without creating a
// Manager. The watcher uses it to reload on change.
func Read(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Override with environment variables if set
	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}
	setProviderSecret(&cfg, "genius", "GENIUS_ACCESS_TOKEN")

	return &cfg, nil
}

// createDefaultConfig creates a new Config with sensible default values.
func createDefaultConfig() *Config {
	return &Config{
		DataPath: "./data",
		Server: Server{
			PrintRoutes: false,
			Port:        3536,
		},
		Database: Database{
			Path: "./setlist.db",
		},
		Logger: Logger{
			Enabled: true,
			Level:   "info",
			Format:  "text",
		},
		Metrics: Metrics{
			Enabled: false,
			Addr:    ":9091",
		},
		Telegram: Telegram{
			Enabled:      false,
			Token:        "", // Can be obtained with https://t.me/BotFather
			AllowedUsers: []string{"user1"},
			BotHandle:    "@SetlistDemoBot",
		},
		Enrichment: Enrichment{
			Search: map[string]Provider{
				"deezer": {Enabled: true},
			},
			Lyrics: map[string]Provider{
				"lyricsovh": {Enabled: true},
				"genius":    {Enabled: false, Secret: nil},
			},
			TimeoutSeconds: 5,
		},
		Thumbnails: Thumbnails{
			Enabled: true,
			Size:    300,
			Quality: 85,
		},
	}
}

// saveDefaultConfig saves the default configuration to the specified file path.
func saveDefaultConfig(path string, cfg *Config) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()
	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	slog.Info("Default configuration saved", "path", path)
	return nil
}
