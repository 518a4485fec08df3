// Package config loads layered configuration: struct defaults, then an
// optional YAML file, then environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, first hit wins.
var DefaultConfigPaths = []string{
	"bibliomatch.yaml",
	"bibliomatch.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "BIBLIOMATCH_CONFIG"

// Config is the full application configuration.
type Config struct {
	Recommender RecommenderConfig `koanf:"recommender"`
	Metadata    MetadataConfig    `koanf:"metadata"`
	Covers      CoversConfig      `koanf:"covers"`
	Shelf       ShelfConfig       `koanf:"shelf"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// RecommenderConfig configures the recommendation service client.
type RecommenderConfig struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout"`
}

// MetadataConfig configures the bibliographic metadata providers.
type MetadataConfig struct {
	Provider          string        `koanf:"provider" validate:"oneof=openlibrary googlebooks"`
	OpenLibraryURL    string        `koanf:"openlibrary_url" validate:"required,url"`
	GoogleBooksURL    string        `koanf:"googlebooks_url" validate:"required,url"`
	UserAgent         string        `koanf:"user_agent" validate:"required"`
	RequestsPerSecond int           `koanf:"requests_per_second" validate:"min=1"`
	Timeout           time.Duration `koanf:"timeout"`
}

// CoversConfig configures cover image resolution.
type CoversConfig struct {
	BaseURL        string `koanf:"base_url" validate:"required,url"`
	PlaceholderURL string `koanf:"placeholder_url" validate:"required,url"`
}

// ShelfConfig configures the durable collection store.
type ShelfConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level string `koanf:"level" validate:"oneof=trace debug info warn error"`
}

func defaultConfig() *Config {
	return &Config{
		Recommender: RecommenderConfig{
			BaseURL: "http://127.0.0.1:5000",
			Timeout: 10 * time.Second,
		},
		Metadata: MetadataConfig{
			Provider:          "openlibrary",
			OpenLibraryURL:    "https://openlibrary.org",
			GoogleBooksURL:    "https://www.googleapis.com",
			UserAgent:         "bibliomatch/0.1",
			RequestsPerSecond: 2,
			Timeout:           15 * time.Second,
		},
		Covers: CoversConfig{
			BaseURL:        "https://covers.openlibrary.org",
			PlaceholderURL: "https://placehold.co/150x240?text=No+Cover",
		},
		Shelf: ShelfConfig{
			Path: defaultShelfPath(),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func defaultShelfPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".bibliomatch", "shelf")
	}
	return filepath.Join("bibliomatch-data", "shelf")
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in increasing priority, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for coherent values.
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if c.Recommender.Timeout <= 0 {
		return fmt.Errorf("recommender timeout must be positive")
	}
	if c.Metadata.Timeout <= 0 {
		return fmt.Errorf("metadata timeout must be positive")
	}
	return nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envMappings maps environment variable names to config paths. Unmapped
// variables are skipped so the environment cannot pollute the config.
var envMappings = map[string]string{
	"recommender_url":     "recommender.base_url",
	"recommender_timeout": "recommender.timeout",
	"metadata_provider":   "metadata.provider",
	"openlibrary_url":     "metadata.openlibrary_url",
	"googlebooks_url":     "metadata.googlebooks_url",
	"metadata_user_agent": "metadata.user_agent",
	"metadata_rps":        "metadata.requests_per_second",
	"metadata_timeout":    "metadata.timeout",
	"covers_url":          "covers.base_url",
	"covers_placeholder":  "covers.placeholder_url",
	"shelf_path":          "shelf.path",
	"log_level":           "logging.level",
}

func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, "BIBLIOMATCH_"))
	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
