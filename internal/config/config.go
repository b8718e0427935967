// Package config builds the typed configuration of lyricslink.
//
// Layers, lowest precedence first:
//
//  1. Default()
//  2. an optional YAML file
//  3. an optional .env file, exported into the process environment
//  4. LYRICSLINK_ environment variables, where "__" maps to "."
//     (LYRICSLINK_RESOLVER__FINAL_CHECK sets resolver.final_check)
//
// The merged tree is validated before it is returned.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LYRICSLINK_"

// DefaultFile is read when Load is given no path and the file exists.
const DefaultFile = "lyricslink.yaml"

// Spotify holds the credentials of the now-playing source.
type Spotify struct {
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	RefreshToken string `koanf:"refresh_token"`
	BaseURL      string `koanf:"base_url"  validate:"required,url"`
	TokenURL     string `koanf:"token_url" validate:"required,url"`
}

// Configured reports whether every credential is present.
func (s Spotify) Configured() bool {
	return s.ClientID != "" && s.ClientSecret != "" && s.RefreshToken != ""
}

// Genius holds the lyrics site settings.
type Genius struct {
	BaseURL    string `koanf:"base_url" validate:"required,url"`
	UserAgent  string `koanf:"user_agent"`
	FetchTitle bool   `koanf:"fetch_title"`
}

// HTTP tunes the outbound clients.
type HTTP struct {
	Timeout    time.Duration `koanf:"timeout"     validate:"gt=0"`
	MaxRetries int           `koanf:"max_retries" validate:"gte=1,lte=10"`
	Backoff    time.Duration `koanf:"backoff"     validate:"gte=0"`
}

// Resolver tunes the fallback chain.
type Resolver struct {
	FinalCheck    string `koanf:"final_check"     validate:"oneof=reuse fresh"`
	StopOnSuccess bool   `koanf:"stop_on_success"`
}

// Storage selects the history store. Driver "none" disables history and the
// cache.
type Storage struct {
	Driver string `koanf:"driver" validate:"oneof=sqlite3 mysql none"`
	DSN    string `koanf:"dsn"    validate:"required_unless=Driver none"`
}

// Cache reuses stored links younger than TTL. Zero disables it.
type Cache struct {
	TTL time.Duration `koanf:"ttl" validate:"gte=0"`
}

// Server holds web-server tunables.
type Server struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
}

// Watch tunes the now-playing watcher.
type Watch struct {
	Interval  time.Duration `koanf:"interval"   validate:"gte=1s"`
	Workers   int           `koanf:"workers"    validate:"gte=1"`
	QueueSize int           `koanf:"queue_size" validate:"gte=1"`
}

// Log configures the logger.
type Log struct {
	Level      string `koanf:"level" validate:"oneof=debug info warn error"`
	File       string `koanf:"file"`
	Console    bool   `koanf:"console"`
	MaxSizeMB  int    `koanf:"max_size_mb" validate:"gte=1"`
	MaxBackups int    `koanf:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `koanf:"max_age_days" validate:"gte=0"`
}

// Config is the whole configuration tree.
type Config struct {
	Spotify  Spotify  `koanf:"spotify"`
	Genius   Genius   `koanf:"genius"`
	HTTP     HTTP     `koanf:"http"`
	Resolver Resolver `koanf:"resolver"`
	Storage  Storage  `koanf:"storage"`
	Cache    Cache    `koanf:"cache"`
	Server   Server   `koanf:"server"`
	Watch    Watch    `koanf:"watch"`
	Log      Log      `koanf:"log"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Spotify: Spotify{
			BaseURL:  "https://api.spotify.com/v1",
			TokenURL: "https://accounts.spotify.com/api/token",
		},
		Genius: Genius{
			BaseURL: "https://genius.com",
		},
		HTTP: HTTP{
			Timeout:    10 * time.Second,
			MaxRetries: 3,
			Backoff:    500 * time.Millisecond,
		},
		Resolver: Resolver{FinalCheck: "reuse"},
		Storage: Storage{
			Driver: "sqlite3",
			DSN:    "lyricslink.db",
		},
		Cache:  Cache{TTL: 24 * time.Hour},
		Server: Server{ListenAddr: "127.0.0.1:8080"},
		Watch: Watch{
			Interval:  5 * time.Second,
			Workers:   2,
			QueueSize: 16,
		},
		Log: Log{
			Level:      "info",
			Console:    true,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

var validate = validator.New()

// Load merges the layers described in the package comment. path names the
// YAML file; when empty, DefaultFile is read if present. envFile names an
// optional dotenv file; a missing one is ignored.
func Load(path, envFile string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, EnvPrefix), "__", "."))
	}), nil); err != nil {
		return nil, fmt.Errorf("config: env overlay: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field rule.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
