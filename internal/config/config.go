package config

import (
	"fmt"
	"time"
)

// Storage backends understood by kv.Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Config is the root configuration structure.
type Config struct {
	Storage    StorageConfig    `json:"storage"`
	Navigation NavigationConfig `json:"navigation"`
	UI         UIConfig         `json:"ui"`
}

// StorageConfig selects and configures the key-value store notes are kept in.
type StorageConfig struct {
	Backend       string `json:"backend"`
	Path          string `json:"path"` // directory for file, database file for sqlite
	Key           string `json:"key"`  // key the notes blob is stored under
	RedisAddr     string `json:"redisAddr"`
	RedisDB       int    `json:"redisDB"`
	RedisPassword string `json:"redisPassword,omitempty"`
	MongoURI      string `json:"mongoURI"`
	MongoDatabase string `json:"mongoDatabase"`
	Watch         bool   `json:"watch"` // reload when the file backend changes on disk
}

// NavigationConfig tunes swipe detection and the spring used for page and
// tab strip transitions.
type NavigationConfig struct {
	SwipeFraction  float64       `json:"swipeFraction"`
	FlingVelocity  float64       `json:"flingVelocity"` // cells per second
	SpringResponse time.Duration `json:"springResponse"`
	SpringDamping  float64       `json:"springDamping"`
	FPS            int           `json:"fps"`
}

// UIConfig configures rendering.
type UIConfig struct {
	Markdown        bool          `json:"markdown"`
	AutoScrollDelay time.Duration `json:"autoScrollDelay"`
	StartCategory   string        `json:"startCategory"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:       BackendFile,
			Path:          "~/.config/notetabs",
			Key:           "notes",
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "notetabs",
			Watch:         true,
		},
		Navigation: NavigationConfig{
			SwipeFraction:  0.2,
			FlingVelocity:  60,
			SpringResponse: 350 * time.Millisecond,
			SpringDamping:  0.8,
			FPS:            60,
		},
		UI: UIConfig{
			Markdown:        true,
			AutoScrollDelay: 120 * time.Millisecond,
			StartCategory:   "Inbox",
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendRedis, BackendMongo, BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage key cannot be empty")
	}
	if (c.Storage.Backend == BackendFile || c.Storage.Backend == BackendSQLite) && c.Storage.Path == "" {
		return fmt.Errorf("storage path is required for the %s backend", c.Storage.Backend)
	}
	if c.Navigation.SwipeFraction <= 0 || c.Navigation.SwipeFraction >= 1 {
		return fmt.Errorf("swipeFraction must be between 0 and 1, got %v", c.Navigation.SwipeFraction)
	}
	if c.Navigation.FlingVelocity <= 0 {
		return fmt.Errorf("flingVelocity must be positive, got %v", c.Navigation.FlingVelocity)
	}
	if c.Navigation.SpringResponse <= 0 {
		return fmt.Errorf("springResponse must be positive")
	}
	if c.Navigation.SpringDamping <= 0 {
		return fmt.Errorf("springDamping must be positive, got %v", c.Navigation.SpringDamping)
	}
	if c.Navigation.FPS <= 0 || c.Navigation.FPS > 240 {
		return fmt.Errorf("fps must be in 1..240, got %d", c.Navigation.FPS)
	}
	if c.UI.AutoScrollDelay < 0 {
		return fmt.Errorf("autoScrollDelay cannot be negative")
	}
	return nil
}
