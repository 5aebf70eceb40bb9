package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	configDir  = ".config/notetabs"
	configFile = "config.json"
)

// rawConfig is the JSON-unmarshaling intermediary. Pointer fields tell an
// explicit zero apart from an omitted setting.
type rawConfig struct {
	Storage    rawStorageConfig    `json:"storage"`
	Navigation rawNavigationConfig `json:"navigation"`
	UI         rawUIConfig         `json:"ui"`
}

type rawStorageConfig struct {
	Backend       string `json:"backend"`
	Path          string `json:"path"`
	Key           string `json:"key"`
	RedisAddr     string `json:"redisAddr"`
	RedisDB       *int   `json:"redisDB"`
	RedisPassword string `json:"redisPassword"`
	MongoURI      string `json:"mongoURI"`
	MongoDatabase string `json:"mongoDatabase"`
	Watch         *bool  `json:"watch"`
}

type rawNavigationConfig struct {
	SwipeFraction  *float64 `json:"swipeFraction"`
	FlingVelocity  *float64 `json:"flingVelocity"`
	SpringResponse string   `json:"springResponse"`
	SpringDamping  *float64 `json:"springDamping"`
	FPS            *int     `json:"fps"`
}

type rawUIConfig struct {
	Markdown        *bool  `json:"markdown"`
	AutoScrollDelay string `json:"autoScrollDelay"`
	StartCategory   string `json:"startCategory"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path.
// If path is empty, uses ~/.config/notetabs/config.json
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			cfg.Storage.Path = ExpandPath(cfg.Storage.Path)
			return cfg, nil
		}
		path = filepath.Join(home, configDir, configFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.Storage.Path = ExpandPath(cfg.Storage.Path)
			return cfg, nil
		}
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("could not parse config %s: %w", path, err)
	}

	if err := mergeConfig(cfg, &raw); err != nil {
		return nil, err
	}

	cfg.Storage.Path = ExpandPath(cfg.Storage.Path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// mergeConfig merges raw config values into the config.
func mergeConfig(cfg *Config, raw *rawConfig) error {
	// Storage
	if raw.Storage.Backend != "" {
		cfg.Storage.Backend = strings.ToLower(raw.Storage.Backend)
	}
	if raw.Storage.Path != "" {
		cfg.Storage.Path = raw.Storage.Path
	}
	if raw.Storage.Key != "" {
		cfg.Storage.Key = raw.Storage.Key
	}
	if raw.Storage.RedisAddr != "" {
		cfg.Storage.RedisAddr = raw.Storage.RedisAddr
	}
	if raw.Storage.RedisDB != nil {
		cfg.Storage.RedisDB = *raw.Storage.RedisDB
	}
	if raw.Storage.RedisPassword != "" {
		cfg.Storage.RedisPassword = raw.Storage.RedisPassword
	}
	if raw.Storage.MongoURI != "" {
		cfg.Storage.MongoURI = raw.Storage.MongoURI
	}
	if raw.Storage.MongoDatabase != "" {
		cfg.Storage.MongoDatabase = raw.Storage.MongoDatabase
	}
	if raw.Storage.Watch != nil {
		cfg.Storage.Watch = *raw.Storage.Watch
	}

	// Navigation
	if raw.Navigation.SwipeFraction != nil {
		cfg.Navigation.SwipeFraction = *raw.Navigation.SwipeFraction
	}
	if raw.Navigation.FlingVelocity != nil {
		cfg.Navigation.FlingVelocity = *raw.Navigation.FlingVelocity
	}
	if raw.Navigation.SpringResponse != "" {
		d, err := time.ParseDuration(raw.Navigation.SpringResponse)
		if err != nil {
			return fmt.Errorf("invalid springResponse %q: %w", raw.Navigation.SpringResponse, err)
		}
		cfg.Navigation.SpringResponse = d
	}
	if raw.Navigation.SpringDamping != nil {
		cfg.Navigation.SpringDamping = *raw.Navigation.SpringDamping
	}
	if raw.Navigation.FPS != nil {
		cfg.Navigation.FPS = *raw.Navigation.FPS
	}

	// UI
	if raw.UI.Markdown != nil {
		cfg.UI.Markdown = *raw.UI.Markdown
	}
	if raw.UI.AutoScrollDelay != "" {
		d, err := time.ParseDuration(raw.UI.AutoScrollDelay)
		if err != nil {
			return fmt.Errorf("invalid autoScrollDelay %q: %w", raw.UI.AutoScrollDelay, err)
		}
		cfg.UI.AutoScrollDelay = d
	}
	if raw.UI.StartCategory != "" {
		cfg.UI.StartCategory = raw.UI.StartCategory
	}
	return nil
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// Dir returns the default configuration directory.
func Dir() string {
	return ExpandPath("~/" + configDir)
}
