package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Workspace  WorkspaceConfig  `toml:"workspace"`
	Thumbnails ThumbnailsConfig `toml:"thumbnails"`
	Database   DatabaseConfig   `toml:"database"`
	Server     ServerConfig     `toml:"server"`
	UI         UIConfig         `toml:"ui"`
	Log        LogConfig        `toml:"log"`
}

// WorkspaceConfig locates the image folder being labeled.
type WorkspaceConfig struct {
	Root       string   `toml:"root"`
	Extensions []string `toml:"extensions"`
}

// ThumbnailsConfig controls the thumbnail cache served by the API.
type ThumbnailsConfig struct {
	Dir  string `toml:"dir"`
	Size int    `toml:"size"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host      string  `toml:"host"`
	Port      int     `toml:"port"`
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	CellWidth     int `toml:"cell_width"`
	StatusSeconds int `toml:"status_seconds"`
}

// StatusDuration is how long a status message stays on screen.
func (u UIConfig) StatusDuration() time.Duration {
	if u.StatusSeconds <= 0 {
		return 3 * time.Second
	}
	return time.Duration(u.StatusSeconds) * time.Second
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks values that would otherwise fail much later.
func (c *Config) Validate() error {
	if c.Workspace.Root == "" {
		return fmt.Errorf("%w: workspace.root is required", ErrInvalidConfig)
	}
	if len(c.Workspace.Extensions) == 0 {
		return fmt.Errorf("%w: workspace.extensions must not be empty", ErrInvalidConfig)
	}
	if c.Thumbnails.Size <= 0 {
		return fmt.Errorf("%w: thumbnails.size must be positive, got %d", ErrInvalidConfig, c.Thumbnails.Size)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port out of range: %d", ErrInvalidConfig, c.Server.Port)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
