// Package kv provides the key-value stores the notes blob is persisted in.
package kv

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/gabrielfornes/notetabs/internal/config"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("kv: key not found")

// Store is a byte-oriented key-value store. It has no transactions and no
// versioning: Set overwrites.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open creates the store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case config.BackendFile:
		s, err = NewFileStore(cfg.Path)
	case config.BackendSQLite:
		s, err = NewSQLiteStore(sqlitePath(cfg.Path))
	case config.BackendRedis:
		s, err = NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case config.BackendMongo:
		s, err = NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.BackendMemory:
		s = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}
	log.WithField("backend", cfg.Backend).Info("storage opened")
	return s, nil
}

// sqlitePath accepts either a database file or a directory to put
// notes.db into.
func sqlitePath(path string) string {
	if filepath.Ext(path) == "" {
		return filepath.Join(path, "notes.db")
	}
	return path
}
