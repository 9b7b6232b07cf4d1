// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

// Package config handles the wallet's configuration.
//
// Config is stored at $XDG_CONFIG_HOME/solar/config.yaml (defaults to
// ~/.config/solar/config.yaml). A missing file yields the defaults.
package config // import "solarwallet.io/go-solar/config"

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"solarwallet.io/go-solar/stellar"
	"solarwallet.io/go-solar/stellar/horizon"
	"solarwallet.io/go-solar/stellar/multisig"
)

// Platform holds the signals the platform implementation is resolved from.
type Platform struct {
	DesktopBridge bool   `yaml:"desktop_bridge"`
	BuildTarget   string `yaml:"build_target,omitempty"` // "android", "ios" or empty
	BrowserWindow bool   `yaml:"browser_window"`
}

// Bridge locates the host process of the desktop and cordova platforms.
type Bridge struct {
	// URL is a ws:// URL for the desktop bridge or a tcp:// or unix:// URL
	// for the cordova native host.
	URL string `yaml:"url,omitempty"`
	// Listen is the address `solar bridge` serves the desktop bridge on.
	Listen string `yaml:"listen,omitempty"`
}

// Worker locates an out-of-process net worker. An empty Address runs the
// worker in-process.
type Worker struct {
	Network string `yaml:"network,omitempty"`
	Address string `yaml:"address,omitempty"`
}

// Log configures logging.
type Log struct {
	Level      string `yaml:"level,omitempty"`
	Namespaces string `yaml:"namespaces,omitempty"`
}

// Config is the wallet configuration.
type Config struct {
	Platform             Platform `yaml:"platform"`
	Bridge               Bridge   `yaml:"bridge"`
	Worker               Worker   `yaml:"worker"`
	HorizonURL           string   `yaml:"horizon_url,omitempty"`
	Network              string   `yaml:"network,omitempty"`
	DataDir              string   `yaml:"data_dir,omitempty"`
	Log                  Log      `yaml:"log"`
	MultisigService      string   `yaml:"multisig_service,omitempty"`
	WellknownAccountsURL string   `yaml:"wellknown_accounts_url,omitempty"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() *Config {
	return &Config{
		Platform: Platform{BrowserWindow: true},
		Bridge:   Bridge{URL: "ws://127.0.0.1:7453/ipc", Listen: "127.0.0.1:7453"},
		Worker:   Worker{Network: "tcp"},
		Network:  stellar.Public,
		Log:      Log{Level: "info"},
	}
}

// Path returns the config file location. It respects XDG_CONFIG_HOME,
// falling back to ~/.config/solar/config.yaml.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".config", "solar", "config.yaml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "solar", "config.yaml")
}

// DefaultDataDir returns where the wallet stores its databases unless
// configured otherwise. It respects XDG_DATA_HOME.
func DefaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".local", "share", "solar")
		}
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "solar")
}

// Load reads the config file at Path.
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads the config file at path. Fields missing from the file keep
// their defaults. If the file does not exist, the defaults are returned.
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithMessagef(err, "invalid config %s", path)
	}
	return cfg, nil
}

// Save writes the config to Path.
func (c *Config) Save() error {
	return c.SaveFile(Path())
}

// SaveFile writes the config to path, creating directories as needed.
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating config dir")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "writing config")
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.Log.Level != "" {
		if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
			return errors.Wrap(err, "log.level")
		}
	}
	switch c.Platform.BuildTarget {
	case "", "android", "ios":
	default:
		return errors.Errorf("platform.build_target: unknown target %q", c.Platform.BuildTarget)
	}
	return nil
}

// LogLevel returns the configured log level, info if unset.
func (c *Config) LogLevel() logrus.Level {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// Passphrase returns the passphrase of the configured network.
func (c *Config) Passphrase() string {
	return stellar.Passphrase(c.Network)
}

// Horizon returns the configured Horizon URL, or the SDF Horizon server of
// the configured network.
func (c *Config) Horizon() string {
	if c.HorizonURL != "" {
		return c.HorizonURL
	}
	if stellar.IsTestnet(c.Network) {
		return horizon.TestnetURL
	}
	return horizon.PublicURL
}

// Data returns the data directory.
func (c *Config) Data() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return DefaultDataDir()
}

// Multisig returns the configured multisig coordination service URL.
func (c *Config) Multisig() string {
	if c.MultisigService != "" {
		return c.MultisigService
	}
	return multisig.DefaultServiceURL
}
