// Package config resolves prepdash settings from flags, the environment,
// an optional YAML file, and built-in defaults, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	appName         = "prepdash"
	progressFile    = "progress.json"
	DefaultEditor   = "vim"
	DefaultExt      = ".py"
	journalFileName = "journal.db"
	logFileName     = "prepdash.log"
)

// Environment variables consulted by Load.
const (
	EnvData    = "PREPDASH_DATA"
	EnvEditor  = "PREPDASH_EDITOR"
	EnvExt     = "PREPDASH_EXT"
	EnvJournal = "PREPDASH_JOURNAL"
	EnvLog     = "PREPDASH_LOG"
)

// Config is the resolved runtime configuration.
type Config struct {
	DataPath    string
	Editor      string
	Extension   string
	JournalPath string
	LogPath     string
}

// Overrides carries command-line values. Empty fields are ignored.
type Overrides struct {
	DataPath   string
	Editor     string
	ConfigPath string
}

type fileConfig struct {
	Data      string `yaml:"data"`
	Editor    string `yaml:"editor"`
	Extension string `yaml:"extension"`
	Journal   string `yaml:"journal"`
	Log       string `yaml:"log"`
}

// Load resolves the configuration. A missing YAML file is ignored; a
// malformed one is an error.
func Load(o Overrides) (Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return Config{}, err
	}

	path := o.ConfigPath
	if path == "" {
		path, err = DefaultFilePath()
		if err != nil {
			return Config{}, err
		}
	}
	fc, err := readFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg = cfg.merge(fc.Data, fc.Editor, fc.Extension, fc.Journal, fc.Log)

	cfg = FromEnv(cfg)

	cfg = cfg.merge(o.DataPath, o.Editor, "", "", "")
	return cfg, nil
}

// Defaults returns the built-in configuration: progress.json next to the
// executable, journal and log under the XDG data directory.
func Defaults() (Config, error) {
	exe, err := os.Executable()
	if err != nil {
		return Config{}, fmt.Errorf("resolve executable: %w", err)
	}
	dataDir, err := DataDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		DataPath:    filepath.Join(filepath.Dir(exe), progressFile),
		Editor:      DefaultEditor,
		Extension:   DefaultExt,
		JournalPath: filepath.Join(dataDir, journalFileName),
		LogPath:     filepath.Join(dataDir, logFileName),
	}, nil
}

// FromEnv overlays environment variables on base. The editor falls back to
// VISUAL and then EDITOR when PREPDASH_EDITOR is unset.
func FromEnv(base Config) Config {
	return base.merge(
		getEnv(EnvData),
		firstNonEmpty(getEnv(EnvEditor), getEnv("VISUAL"), getEnv("EDITOR")),
		getEnv(EnvExt),
		getEnv(EnvJournal),
		getEnv(EnvLog),
	)
}

// DataDir returns $XDG_DATA_HOME/prepdash or ~/.local/share/prepdash.
func DataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// DefaultFilePath returns $XDG_CONFIG_HOME/prepdash/config.yaml or
// ~/.config/prepdash/config.yaml.
func DefaultFilePath() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func xdgDir(env string, fallback ...string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(append([]string{home}, fallback...)...)
	}
	return filepath.Join(base, appName), nil
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fc, nil
	}
	if err != nil {
		return fc, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

func (c Config) merge(data, editor, ext, journal, log string) Config {
	if data != "" {
		c.DataPath = data
	}
	if editor != "" {
		c.Editor = editor
	}
	if ext != "" {
		c.Extension = ext
	}
	if journal != "" {
		c.JournalPath = journal
	}
	if log != "" {
		c.LogPath = log
	}
	return c
}

func getEnv(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
