package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// DefaultPath is the settings file used when none is given.
const DefaultPath = "radiotracks.toml"

// Settings holds all configuration options.
type Settings struct {
	API     APISettings     `toml:"api"`
	Cache   CacheSettings   `toml:"cache"`
	Server  ServerSettings  `toml:"server"`
	Logging LoggingSettings `toml:"logging"`
}

// APISettings configures access to the station's listing endpoint.
type APISettings struct {
	BaseURL        string `toml:"base_url" env:"RADIOTRACKS_API_BASE_URL"`
	UserAgent      string `toml:"user_agent" env:"RADIOTRACKS_API_USER_AGENT"`
	TimeoutSeconds int    `toml:"timeout_seconds" env:"RADIOTRACKS_API_TIMEOUT_SECONDS"`
	MaxPages       int    `toml:"max_pages" env:"RADIOTRACKS_API_MAX_PAGES"`
}

// CacheSettings configures the local track cache.
type CacheSettings struct {
	Path string `toml:"path" env:"RADIOTRACKS_CACHE_PATH"`

	// RefreshInterval is how long a loaded dataset is reused before the
	// next incremental fetch, as a Go duration ("5m").
	RefreshInterval string `toml:"refresh_interval" env:"RADIOTRACKS_CACHE_REFRESH_INTERVAL"`
}

// ServerSettings configures the web UI.
type ServerSettings struct {
	Host string `toml:"host" env:"RADIOTRACKS_SERVER_HOST"`
	Port string `toml:"port" env:"RADIOTRACKS_SERVER_PORT"`

	// RefreshSchedule is a cron spec for background refreshes ("@every 15m").
	// Empty disables them.
	RefreshSchedule string `toml:"refresh_schedule" env:"RADIOTRACKS_SERVER_REFRESH_SCHEDULE"`

	ThumbnailSize  int `toml:"thumbnail_size" env:"RADIOTRACKS_SERVER_THUMBNAIL_SIZE"`
	CoverCacheSize int `toml:"cover_cache_size" env:"RADIOTRACKS_SERVER_COVER_CACHE_SIZE"`
}

// LoggingSettings configures the logger.
type LoggingSettings struct {
	Level  string `toml:"level" env:"RADIOTRACKS_LOG_LEVEL"`
	Format string `toml:"format" env:"RADIOTRACKS_LOG_FORMAT"` // text, json
	File   string `toml:"file" env:"RADIOTRACKS_LOG_FILE"`

	MaxSizeMB  int `toml:"max_size_mb" env:"RADIOTRACKS_LOG_MAX_SIZE_MB"`
	MaxBackups int `toml:"max_backups" env:"RADIOTRACKS_LOG_MAX_BACKUPS"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		API: APISettings{
			BaseURL:        "https://www.verticalradio.ch",
			UserAgent:      "radiotracks",
			TimeoutSeconds: 60,
			MaxPages:       1000,
		},
		Cache: CacheSettings{
			Path:            "vertical_radio_tracks.csv",
			RefreshInterval: "5m",
		},
		Server: ServerSettings{
			Host:            "0.0.0.0",
			Port:            "8080",
			RefreshSchedule: "@every 15m",
			ThumbnailSize:   100,
			CoverCacheSize:  256,
		},
		Logging: LoggingSettings{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load reads settings from a TOML file and applies environment overrides.
//
// A missing file is not an error: defaults are used. Variables from a .env
// file in the working directory are loaded first without overriding the
// process environment.
func Load(path string) (*Settings, error) {
	if err := LoadEnvFiles(".env"); err != nil {
		return nil, err
	}

	settings := DefaultSettings()
	if _, err := toml.DecodeFile(path, settings); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := env.Parse(settings); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return settings, nil
}

// LoadEnvFiles loads the given .env files, skipping those that don't exist.
func LoadEnvFiles(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Save writes settings to a TOML file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	header := `# radiotracks configuration
# Every value can be overridden with a RADIOTRACKS_* environment variable.

`
	if _, err := file.WriteString(header); err != nil {
		return fmt.Errorf("failed to write config header: %w", err)
	}

	if err := toml.NewEncoder(file).Encode(s); err != nil {
		return fmt.Errorf("failed to encode config to TOML: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (s *Settings) Validate() error {
	u, err := url.Parse(s.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api base url must be an absolute URL, got %q", s.API.BaseURL)
	}
	if s.API.TimeoutSeconds < 1 {
		return fmt.Errorf("api timeout must be at least 1 second")
	}
	if s.API.MaxPages < 1 {
		return fmt.Errorf("api max pages must be at least 1")
	}

	if s.Cache.Path == "" {
		return fmt.Errorf("cache path cannot be empty")
	}
	if _, err := time.ParseDuration(s.Cache.RefreshInterval); err != nil {
		return fmt.Errorf("invalid cache refresh interval %q: %w", s.Cache.RefreshInterval, err)
	}

	if s.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}
	if s.Server.ThumbnailSize < 1 {
		return fmt.Errorf("thumbnail size must be positive")
	}
	if s.Server.CoverCacheSize < 0 {
		return fmt.Errorf("cover cache size cannot be negative")
	}

	if _, err := logrus.ParseLevel(s.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", s.Logging.Level)
	}
	validLogFormats := map[string]bool{
		"text": true, "json": true,
	}
	if !validLogFormats[s.Logging.Format] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", s.Logging.Format)
	}

	return nil
}

// Timeout returns the per-request timeout of the API client.
func (a APISettings) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// Interval returns the parsed refresh interval, or zero if it is invalid.
func (c CacheSettings) Interval() time.Duration {
	d, _ := time.ParseDuration(c.RefreshInterval)
	return d
}

// Address returns the host:port the web UI listens on.
func (s ServerSettings) Address() string {
	return s.Host + ":" + s.Port
}
