// Package config resolves where cmdsaver keeps its data and how it behaves.
//
// Values come from, in order of precedence: command-line flags, CMDSAVER_*
// environment variables (a .env file in the working directory is loaded
// first), the YAML config file, and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "cmdsaver"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
	// DataDir holds the store and history under the home directory.
	DataDir = ".cmdsaver"

	StoreFile   = "commands.json"
	HistoryFile = "history.db"
	ExportFile  = "commands.md"
)

// DeleteBackup controls how many snapshots a delete takes.
type DeleteBackup string

const (
	// DeleteBackupDouble takes an explicit snapshot before the save's own.
	DeleteBackupDouble DeleteBackup = "double"
	// DeleteBackupSingle relies on the save's snapshot only.
	DeleteBackupSingle DeleteBackup = "single"
)

// Environment variable names.
const (
	EnvConfig       = "CMDSAVER_CONFIG"
	EnvStore        = "CMDSAVER_STORE"
	EnvHistory      = "CMDSAVER_HISTORY"
	EnvExport       = "CMDSAVER_EXPORT"
	EnvShell        = "CMDSAVER_SHELL"
	EnvDeleteBackup = "CMDSAVER_DELETE_BACKUP"
)

type Config struct {
	StorePath    string       `yaml:"store_path,omitempty"`
	HistoryPath  string       `yaml:"history_path,omitempty"`
	ExportPath   string       `yaml:"export_path,omitempty"`
	Shell        string       `yaml:"shell,omitempty"`
	DeleteBackup DeleteBackup `yaml:"delete_backup,omitempty"`
}

// Overrides are explicit values from the command line; empty means unset.
type Overrides struct {
	ConfigPath string
	StorePath  string
}

// Path returns the config file location, honoring XDG_CONFIG_HOME.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Defaults returns the built-in configuration.
func Defaults() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("finding home directory: %w", err)
	}
	dir := filepath.Join(home, DataDir)
	return &Config{
		StorePath:    filepath.Join(dir, StoreFile),
		HistoryPath:  filepath.Join(dir, HistoryFile),
		ExportPath:   ExportFile,
		Shell:        "sh",
		DeleteBackup: DeleteBackupDouble,
	}, nil
}

// LoadFile reads a YAML config. A missing file is an empty config.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// Resolve builds the effective configuration.
func Resolve(o Overrides) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	path := firstNonEmpty(o.ConfigPath, os.Getenv(EnvConfig), Path())
	file, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.merge(file)

	cfg.merge(&Config{
		StorePath:    os.Getenv(EnvStore),
		HistoryPath:  os.Getenv(EnvHistory),
		ExportPath:   os.Getenv(EnvExport),
		Shell:        os.Getenv(EnvShell),
		DeleteBackup: DeleteBackup(os.Getenv(EnvDeleteBackup)),
	})
	cfg.merge(&Config{StorePath: o.StorePath})

	cfg.StorePath = ExpandTilde(cfg.StorePath)
	cfg.HistoryPath = ExpandTilde(cfg.HistoryPath)
	cfg.ExportPath = ExpandTilde(cfg.ExportPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unknown enum values.
func (c *Config) Validate() error {
	switch c.DeleteBackup {
	case DeleteBackupDouble, DeleteBackupSingle:
	default:
		return fmt.Errorf("invalid delete_backup %q (want %q or %q)", c.DeleteBackup, DeleteBackupDouble, DeleteBackupSingle)
	}
	if c.StorePath == "" {
		return errors.New("store_path is empty")
	}
	return nil
}

// merge copies the non-empty fields of other into c.
func (c *Config) merge(other *Config) {
	if other.StorePath != "" {
		c.StorePath = other.StorePath
	}
	if other.HistoryPath != "" {
		c.HistoryPath = other.HistoryPath
	}
	if other.ExportPath != "" {
		c.ExportPath = other.ExportPath
	}
	if other.Shell != "" {
		c.Shell = other.Shell
	}
	if other.DeleteBackup != "" {
		c.DeleteBackup = other.DeleteBackup
	}
}

// ExpandTilde replaces a leading ~ with the home directory.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
