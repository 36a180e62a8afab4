// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Data sources for artist fact tables.
const (
	SourceFiles  = "files"
	SourceSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	DataDir            string
	DataSource         string
	DatabasePath       string
	ArtistsMetadata    string
	WatchData          bool
	DesktopNotify      bool
	AggregationWorkers int
	ReloadDebounce     time.Duration
	LogPath            string
	LogLevel           string
}

// Default values
const (
	defaultDataDir        = "artist_data"
	defaultReloadDebounce = 500 * time.Millisecond
	defaultLogLevel       = "info"
	metadataFileName      = "artists.yaml"
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	dataDir := getEnvString("DATA_DIR", defaultDataDir)
	cfg := &Config{
		DataDir:            dataDir,
		DataSource:         strings.ToLower(getEnvString("DATA_SOURCE", SourceFiles)),
		DatabasePath:       getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		ArtistsMetadata:    getEnvString("ARTISTS_METADATA", filepath.Join(dataDir, metadataFileName)),
		WatchData:          getEnvBool("WATCH_DATA", true),
		DesktopNotify:      getEnvBool("DESKTOP_NOTIFY", false),
		AggregationWorkers: getEnvInt("AGGREGATION_WORKERS", runtime.NumCPU()),
		ReloadDebounce:     getEnvDuration("RELOAD_DEBOUNCE", defaultReloadDebounce),
		LogPath:            getEnvString("LOG_PATH", getDefaultLogPath()),
		LogLevel:           strings.ToLower(getEnvString("LOG_LEVEL", defaultLogLevel)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.DataSource == SourceSQLite {
		if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
			return nil, err
		}
	}

	if cfg.LogPath != "" {
		if err := ensureDir(filepath.Dir(cfg.LogPath)); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks value domains.
func (c *Config) Validate() error {
	switch c.DataSource {
	case SourceFiles, SourceSQLite:
	default:
		return fmt.Errorf("DATA_SOURCE must be %q or %q, got %q", SourceFiles, SourceSQLite, c.DataSource)
	}
	if c.AggregationWorkers < 1 {
		return fmt.Errorf("AGGREGATION_WORKERS must be at least 1, got %d", c.AggregationWorkers)
	}
	if c.ReloadDebounce < 0 {
		return fmt.Errorf("RELOAD_DEBOUNCE must not be negative, got %v", c.ReloadDebounce)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	return nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "zai", ".env"),
			filepath.Join(home, ".zai", ".env"),
		)
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite fact store.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "facts.db"
	}
	return filepath.Join(home, ".config", "zai", "facts.db")
}

// getDefaultLogPath returns the default path for the log file.
func getDefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "zai.log"
	}
	return filepath.Join(home, ".config", "zai", "zai.log")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as milliseconds if no unit specified
		if ms, err := strconv.Atoi(value); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
