package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lizconv/liztrack"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid config")

// Config is the main configuration structure
type Config struct {
	TrackDir  string `json:"trackDir"`
	SourceExt string `json:"sourceExt"`
	TargetExt string `json:"targetExt"`

	DryRun   bool   `json:"dryRun,omitempty"`
	Overflow string `json:"overflow,omitempty"`
	Strict   bool   `json:"strict,omitempty"` // abort the run on the first unreadable file
	Tracks   []int  `json:"tracks,omitempty"` // source tracks contributing notes; empty = all

	LogLevel string `json:"logLevel,omitempty"`
	DebugLog string `json:"debugLog,omitempty"` // category trace file, disabled when empty
	Palette  string `json:"palette,omitempty"`  // GIMP .gpl file for report colours
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		TrackDir:  "tracks",
		SourceExt: ".mid",
		TargetExt: ".liztrack",
		Overflow:  string(liztrack.Saturate),
		LogLevel:  "info",
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lizconv"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from the default location, or returns defaults if
// not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a config file. Fields missing from the file keep their
// default values.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the config to the default location
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := c.JSON()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// OverflowPolicy returns the parsed delay overflow policy
func (c *Config) OverflowPolicy() (liztrack.OverflowPolicy, error) {
	return liztrack.ParseOverflowPolicy(c.Overflow)
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks the fields a conversion run depends on
func (c *Config) Validate() error {
	if c.TrackDir == "" {
		return fmt.Errorf("%w: trackDir is empty", ErrInvalid)
	}
	if !strings.HasPrefix(c.SourceExt, ".") || !strings.HasPrefix(c.TargetExt, ".") {
		return fmt.Errorf("%w: extensions must start with a dot (%q, %q)", ErrInvalid, c.SourceExt, c.TargetExt)
	}
	if strings.EqualFold(c.SourceExt, c.TargetExt) {
		return fmt.Errorf("%w: source and target extension are both %q", ErrInvalid, c.SourceExt)
	}
	if _, err := c.OverflowPolicy(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.LogLevel != "" && !logLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalid, c.LogLevel)
	}
	for _, t := range c.Tracks {
		if t < 0 {
			return fmt.Errorf("%w: negative track index %d", ErrInvalid, t)
		}
	}
	return nil
}

// JSON returns the indented JSON form written by Save
func (c *Config) JSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
