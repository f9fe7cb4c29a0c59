// Package config loads the YAML configuration, writing the embedded default
// file on first run.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/hostpilot/assets"
	"github.com/doeshing/hostpilot/internal/domain"
	"github.com/doeshing/hostpilot/internal/ports"
)

// EnvConfigPath overrides the default config location when set.
const EnvConfigPath = "HOSTPILOT_CONFIG"

// FileLoader implements ports.ConfigProvider over a YAML file.
type FileLoader struct {
	path string
}

// NewFileLoader resolves the config path: explicit argument, then the
// HOSTPILOT_CONFIG environment variable, then ~/.hostpilot/config.yaml.
func NewFileLoader(path string) *FileLoader {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		path = filepath.Join(homeDir(), ".hostpilot", "config.yaml")
	}
	return &FileLoader{path: path}
}

// Path returns the resolved config file location.
func (l *FileLoader) Path() string { return l.path }

// Load reads and parses the config, seeding the default file when missing.
func (l *FileLoader) Load(_ context.Context) (domain.Config, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		if seedErr := l.writeDefault(); seedErr != nil {
			return domain.Config{}, seedErr
		}
		data = assets.DefaultConfigYAML
	} else if err != nil {
		return domain.Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse config: %w", err)
	}
	hydrateDefaults(&cfg)
	return cfg, nil
}

func (l *FileLoader) writeDefault() error {
	if err := os.MkdirAll(filepath.Dir(l.path), domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(l.path, assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}

// hydrateDefaults fills zero values with the operational defaults so a
// hand-edited partial config keeps working.
func hydrateDefaults(cfg *domain.Config) {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Windows.CacheSeconds <= 0 {
		cfg.Windows.CacheSeconds = int(domain.DefaultCacheDuration.Seconds())
	}
	if cfg.Terminal.Title == "" {
		cfg.Terminal.Title = "AI Terminal"
	}
	if cfg.Terminal.CaptureTimeoutSeconds <= 0 {
		cfg.Terminal.CaptureTimeoutSeconds = int(domain.DefaultCaptureTimeout.Seconds())
	}
	if cfg.Notification.Title == "" {
		cfg.Notification.Title = "hostpilot"
	}
	if cfg.Security.RulesFile == "" {
		cfg.Security.RulesFile = filepath.Join(".hostpilot", "guardrail.yaml")
	}
	if cfg.History.Path == "" {
		cfg.History.Path = filepath.Join(".hostpilot", "history.db")
	}
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
