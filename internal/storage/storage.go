package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/quake-harvester/internal/domain"
)

// Package storage provides local DB/cache abstraction.

// Store tracks published earthquake keys and keeps the last decoded list per feed.
type Store interface {
	Close() error
	SeenQuake(key string) (bool, error)
	MarkQuake(key string) error
	SaveSnapshot(feedID string, quakes []domain.Earthquake) error
	LoadSnapshot(feedID string) (Snapshot, bool, error)
}

// Snapshot is the last list decoded for a feed, replaced wholesale on every poll.
type Snapshot struct {
	FeedID      string              `json:"feed_id"`
	SavedAt     time.Time           `json:"saved_at"`
	Earthquakes []domain.Earthquake `json:"earthquakes"`
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	QuakeTTL        time.Duration
	CleanupInterval time.Duration
	ReadOnly        bool
}

const (
	defaultQuakeTTL        = 7 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.QuakeTTL <= 0 {
		opts.QuakeTTL = defaultQuakeTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                                   { return nil }
func (noopStore) SeenQuake(string) (bool, error)                 { return false, nil }
func (noopStore) MarkQuake(string) error                         { return nil }
func (noopStore) SaveSnapshot(string, []domain.Earthquake) error { return nil }
func (noopStore) LoadSnapshot(string) (Snapshot, bool, error)    { return Snapshot{}, false, nil }
