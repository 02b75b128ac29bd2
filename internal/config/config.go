package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/pelletier/go-toml/v2"

	"trialscope/internal/eventbus"
)

const (
	// BackendURLEnv overrides the backend base URL
	BackendURLEnv = "VITE_BACKEND_URL"
	// ConfigPathEnv overrides the config file location
	ConfigPathEnv = "TRIALSCOPE_CONFIG"
	// DefaultBackendURL is used when nothing else is configured
	DefaultBackendURL = "http://localhost:8000"
)

// Config represents the application configuration
type Config struct {
	Version int             `toml:"version"`
	Backend BackendSettings `toml:"backend"`
	UI      UISettings      `toml:"ui"`
	History HistorySettings `toml:"history"`
}

// BackendSettings describes how to reach the trials API
type BackendSettings struct {
	URL             string `toml:"url"`
	Timeout         string `toml:"timeout"` // Go duration; "0s" or empty means no timeout
	DetailCacheSize int    `toml:"detail_cache_size"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowIDIndex     bool `toml:"show_id_index"`
	SuggestionLimit int  `toml:"suggestion_limit"`
}

// HistorySettings holds the recent-search list
type HistorySettings struct {
	MaxEntries int      `toml:"max_entries"`
	Recent     []string `toml:"recent"`
}

// RequestTimeout parses Backend.Timeout; invalid or negative values mean no timeout
func (c *Config) RequestTimeout() time.Duration {
	if c.Backend.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Backend.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// ResolveBackendURL picks the backend base URL: explicit value, then the
// environment, then the config file, then DefaultBackendURL.
// An empty environment value counts as unset.
func (c *Config) ResolveBackendURL(explicit string, getenv func(string) string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}
	if getenv != nil {
		if v := strings.TrimSpace(getenv(BackendURLEnv)); v != "" {
			return v
		}
	}
	if c != nil && strings.TrimSpace(c.Backend.URL) != "" {
		return strings.TrimSpace(c.Backend.URL)
	}
	return DefaultBackendURL
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service for path, or the default
// location when path is empty
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

// DefaultPath returns $TRIALSCOPE_CONFIG or <user config dir>/trialscope/config.toml
func DefaultPath() string {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return p
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "."
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "trialscope", "config.toml")
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration, returning defaults when the file is missing
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			Path:       cs.filePath,
			BackendURL: cfg.Backend.URL,
		})
	}
	return cfg, nil
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path.
// Missing keys keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s: %w", path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) normalize() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Backend.DetailCacheSize <= 0 {
		c.Backend.DetailCacheSize = 128
	}
	if c.UI.SuggestionLimit <= 0 {
		c.UI.SuggestionLimit = 5
	}
	if c.History.MaxEntries <= 0 {
		c.History.MaxEntries = 20
	}
	if len(c.History.Recent) > c.History.MaxEntries {
		c.History.Recent = c.History.Recent[:c.History.MaxEntries]
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Backend: BackendSettings{
			URL:             DefaultBackendURL,
			Timeout:         "0s",
			DetailCacheSize: 128,
		},
		UI: UISettings{
			ShowIDIndex:     true,
			SuggestionLimit: 5,
		},
		History: HistorySettings{
			MaxEntries: 20,
			Recent:     []string{},
		},
	}
}
