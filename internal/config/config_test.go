package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestGetEnvString(t *testing.T) {
	key := "TEST_ENV_STRING"
	t.Setenv(key, "test_value")

	if got := getEnvString(key, "default"); got != "test_value" {
		t.Errorf("getEnvString() = %q, want %q", got, "test_value")
	}

	if got := getEnvString("NON_EXISTENT", "default"); got != "default" {
		t.Errorf("getEnvString() = %q, want %q", got, "default")
	}
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_ENV_DURATION"

	tests := []struct {
		name       string
		envVal     string
		defaultVal time.Duration
		want       time.Duration
	}{
		{"ValidDuration", "1m", time.Second, time.Minute},
		{"ValidMillis", "250", time.Second, 250 * time.Millisecond},
		{"Invalid", "invalid", time.Second, time.Second},
		{"Empty", "", time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.envVal)
			if got := getEnvDuration(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_ENV_BOOL"

	tests := []struct {
		name       string
		envVal     string
		defaultVal bool
		want       bool
	}{
		{"True", "true", false, true},
		{"One", "1", false, true},
		{"Yes", "YES", false, true},
		{"False", "false", true, false},
		{"Off", "off", true, false},
		{"Garbage", "maybe", true, true},
		{"Empty", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.envVal)
			if got := getEnvBool(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_ENV_INT"

	tests := []struct {
		name   string
		envVal string
		want   int
	}{
		{"Valid", "8", 8},
		{"Negative", "-2", -2},
		{"Invalid", "eight", 4},
		{"Empty", "", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.envVal)
			if got := getEnvInt(key, 4); got != tt.want {
				t.Errorf("getEnvInt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "dir")

	if err := ensureDir(path); err != nil {
		t.Fatalf("ensureDir() failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("directory was not created")
	}

	if err := ensureDir(""); err != nil {
		t.Error("ensureDir(\"\") should not error")
	}
}

func TestGetDefaultPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Skipping test because user home dir cannot be found")
	}

	if got, want := getDefaultDatabasePath(), filepath.Join(home, ".config", "zai", "facts.db"); got != want {
		t.Errorf("getDefaultDatabasePath() = %q, want %q", got, want)
	}
	if got, want := getDefaultLogPath(), filepath.Join(home, ".config", "zai", "zai.log"); got != want {
		t.Errorf("getDefaultLogPath() = %q, want %q", got, want)
	}
}

func TestGetEnvPaths(t *testing.T) {
	paths := getEnvPaths()
	if len(paths) == 0 {
		t.Error("getEnvPaths() returned empty list")
	}

	cwd, _ := os.Getwd()
	found := false
	for _, p := range paths {
		if p == filepath.Join(cwd, ".env") {
			found = true
			break
		}
	}
	if !found {
		t.Error("getEnvPaths() missing current directory .env")
	}
}

// isolate points HOME and the working directory at an empty temp dir so no
// stray .env file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Chdir(tmpDir)
	for _, key := range []string{
		"DATA_DIR", "DATA_SOURCE", "DATABASE_PATH", "ARTISTS_METADATA", "WATCH_DATA",
		"DESKTOP_NOTIFY", "AGGREGATION_WORKERS", "RELOAD_DEBOUNCE", "LOG_PATH", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return tmpDir
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.DataDir != defaultDataDir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, defaultDataDir)
	}
	if cfg.DataSource != SourceFiles {
		t.Errorf("DataSource = %q, want %q", cfg.DataSource, SourceFiles)
	}
	if cfg.ArtistsMetadata != filepath.Join(defaultDataDir, metadataFileName) {
		t.Errorf("ArtistsMetadata = %q", cfg.ArtistsMetadata)
	}
	if !cfg.WatchData || cfg.DesktopNotify {
		t.Errorf("WatchData = %v, DesktopNotify = %v", cfg.WatchData, cfg.DesktopNotify)
	}
	if cfg.AggregationWorkers != runtime.NumCPU() {
		t.Errorf("AggregationWorkers = %d, want %d", cfg.AggregationWorkers, runtime.NumCPU())
	}
	if cfg.ReloadDebounce != defaultReloadDebounce {
		t.Errorf("ReloadDebounce = %v, want %v", cfg.ReloadDebounce, defaultReloadDebounce)
	}
	if cfg.LogPath != filepath.Join(home, ".config", "zai", "zai.log") {
		t.Errorf("LogPath = %q", cfg.LogPath)
	}
}

func TestLoad_FromEnvFile(t *testing.T) {
	dir := isolate(t)
	content := "DATA_DIR=/srv/zai\nDATA_SOURCE=SQLite\nDATABASE_PATH=" + filepath.Join(dir, "db", "facts.db") +
		"\nAGGREGATION_WORKERS=3\nDESKTOP_NOTIFY=true\nLOG_LEVEL=debug\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.DataDir != "/srv/zai" || cfg.DataSource != SourceSQLite {
		t.Errorf("DataDir = %q, DataSource = %q", cfg.DataDir, cfg.DataSource)
	}
	if cfg.AggregationWorkers != 3 || !cfg.DesktopNotify || cfg.LogLevel != "debug" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if _, err := os.Stat(filepath.Join(dir, "db")); err != nil {
		t.Errorf("database directory not created: %v", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"BadSource", "DATA_SOURCE", "postgres"},
		{"ZeroWorkers", "AGGREGATION_WORKERS", "0"},
		{"NegativeDebounce", "RELOAD_DEBOUNCE", "-1s"},
		{"BadLevel", "LOG_LEVEL", "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("Load() should fail for %s=%s", tt.key, tt.val)
			}
		})
	}
}
