package config

// Config holds the application configuration.
type Config struct {
	DataPath   string     `yaml:"dataPath" validate:"required"`
	Server     Server     `yaml:"server"`
	Database   Database   `yaml:"database"`
	Logger     Logger     `yaml:"logger"`
	Metrics    Metrics    `yaml:"metrics"`
	Telegram   Telegram   `yaml:"telegram"`
	Enrichment Enrichment `yaml:"enrichment"`
	Thumbnails Thumbnails `yaml:"thumbnails"`
}

// Server holds the configuration for the Fiber server.
type Server struct {
	PrintRoutes bool   `yaml:"show_routes"`
	Port        uint32 `yaml:"port"`
}

// Database holds the configuration for the database.
type Database struct {
	Path string `yaml:"path" validate:"required"`
}

// Logger holds the configuration for the app logging.
type Logger struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
}

// Metrics holds the configuration for the Prometheus listener.
type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type Telegram struct {
	Enabled      bool     `yaml:"enabled"`
	Token        string   `yaml:"token"`
	AllowedUsers []string `yaml:"allowedUsers"`
	BotHandle    string   `yaml:"bot_handle"`
}

// Enrichment holds the configuration for the metadata providers used when
// importing songs from search results.
type Enrichment struct {
	Search         map[string]Provider `yaml:"search"`
	Lyrics         map[string]Provider `yaml:"lyrics"`
	TimeoutSeconds int                 `yaml:"timeout_seconds"`
}

// Provider holds configuration for an individual enrichment provider.
type Provider struct {
	Enabled bool    `yaml:"enabled"`
	Secret  *string `yaml:"secret,omitempty"`
}

// Thumbnails holds configuration for song thumbnail handling.
type Thumbnails struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	Quality int  `yaml:"quality"`
}
