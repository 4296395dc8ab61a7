// Package config loads runtime configuration from a TOML file with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultDBFileName  = ".bcms.db"
	DefaultBlobDirName = ".bcms-assets"
	DefaultLogLevel    = "warn"

	// DefaultAutosaveDelayMS is the content autosave quiet window.
	DefaultAutosaveDelayMS = 800

	DefaultListenAddr = "127.0.0.1:7411"

	configFileName  = ".bcms.toml"
	configDirEnvKey = "BCMS_CONFIG_DIR"
	dbPathEnvKey    = "BCMS_DB"
	blobDirEnvKey   = "BCMS_BLOB_DIR"
)

// Config defines runtime configuration for bcms.
type Config struct {
	DBPath          string `toml:"db_path"`
	BlobDir         string `toml:"blob_dir"`
	ExportDir       string `toml:"export_dir"`
	AutosaveDelayMS int    `toml:"autosave_delay_ms"`
	ListenAddr      string `toml:"listen_addr"`
	LogLevel        string `toml:"log_level"`
	CompressBlobs   bool   `toml:"compress_blobs"`

	// Path reports where the config was loaded from; empty when running
	// on defaults only.
	Path string `toml:"-"`
}

// Default returns default configuration values. The database and blob store
// live in the working directory so each project directory is its own
// isolated workspace.
func Default() Config {
	return Config{
		DBPath:          DefaultDBFileName,
		BlobDir:         DefaultBlobDirName,
		ExportDir:       ".",
		AutosaveDelayMS: DefaultAutosaveDelayMS,
		ListenAddr:      DefaultListenAddr,
		LogLevel:        DefaultLogLevel,
	}
}

// Load resolves configuration: defaults, then the first config file found
// (BCMS_CONFIG_DIR override, working directory, home directory), then
// environment overrides.
func Load() (Config, error) {
	cfg := Default()

	for _, path := range candidatePaths() {
		found, err := loadFileIfExists(path, &cfg)
		if err != nil {
			return Config{}, err
		}
		if found {
			cfg.Path = path
			break
		}
	}

	if db := strings.TrimSpace(os.Getenv(dbPathEnvKey)); db != "" {
		cfg.DBPath = db
	}
	if dir := strings.TrimSpace(os.Getenv(blobDirEnvKey)); dir != "" {
		cfg.BlobDir = dir
	}
	if cfg.AutosaveDelayMS <= 0 {
		cfg.AutosaveDelayMS = DefaultAutosaveDelayMS
	}

	return cfg, nil
}

func candidatePaths() []string {
	var paths []string
	if dir := strings.TrimSpace(os.Getenv(configDirEnvKey)); dir != "" {
		return []string{filepath.Join(dir, configFileName)}
	}
	paths = append(paths, configFileName)
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, configFileName))
	}
	return paths
}

func loadFileIfExists(path string, cfg *Config) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return false, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return true, nil
}
