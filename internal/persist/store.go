// Package persist stores small string values (the high score) in a
// pluggable key-value backend.
package persist

//go:generate go tool mockgen -destination=./mocks/store_mock.go -package=mocks . Store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"
)

// Store is a string key-value store.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Close releases the backend's resources.
	Close() error
}

// Raiser is implemented by stores that can raise an integer value in one
// step, so writers sharing the store never lower it.
type Raiser interface {
	// Raise stores value under key unless the stored value is at least as
	// high. A missing or malformed stored value counts as 0. It returns the
	// value held afterwards and whether value was written.
	Raise(ctx context.Context, key string, value int) (current int, raised bool, err error)
}

// parseScore reads a stored non-negative integer. Missing or malformed
// values count as 0.
func parseScore(raw string, ok bool) (int, bool) {
	if !ok {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Config selects and configures a store.
type Config struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"` // file backend
	DSN     string `toml:"dsn"`  // postgres backend

	// Migrate applies the embedded schema migrations before use (postgres).
	Migrate bool `toml:"migrate"`
}

// Open creates the store described by cfg.
func Open(ctx context.Context, cfg Config, logger *log.Logger) (Store, error) {
	if logger == nil {
		logger = log.Default()
	}

	switch cfg.Backend {
	case "", BackendMemory:
		logger.Debug("using in-memory storage")
		return NewMemoryStore(), nil

	case BackendFile:
		s, err := OpenFileStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		logger.Info("using file storage", "path", cfg.Path)
		return s, nil

	case BackendPostgres:
		if cfg.Migrate {
			if err := Migrate(ctx, cfg.DSN); err != nil {
				return nil, err
			}
			logger.Info("storage migrations applied")
		}
		s, err := OpenPostgresStore(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		logger.Info("using postgres storage")
		return s, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
