package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/samvad-hq/quake-harvester/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const (
	quakeBucket      = "quakes"
	snapshotBucket   = "snapshots"
	expiryValueBytes = 8
)

// boltStore implements a Store backed by BoltDB.
type boltStore struct {
	db              *bolt.DB
	clock           clockwork.Clock
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	quakeTTL        time.Duration
	cleanupInterval time.Duration
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	store, err := openBoltWithClock(path, opts, clockwork.NewRealClock())
	if err != nil {
		return nil, err
	}
	return store, nil
}

func openBoltWithClock(path string, opts Options, clock clockwork.Clock) (*boltStore, error) {
	if !opts.ReadOnly {
		dir := filepath.Dir(path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create storage directory: %w", err)
			}
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second, ReadOnly: opts.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if !opts.ReadOnly {
		if err := db.Update(func(tx *bolt.Tx) error {
			for _, name := range []string{quakeBucket, snapshotBucket} {
				if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			db.Close()
			return nil, fmt.Errorf("init buckets: %w", err)
		}
	}

	store := &boltStore{
		db:              db,
		clock:           clock,
		quakeTTL:        opts.QuakeTTL,
		cleanupInterval: opts.CleanupInterval,
	}
	store.lastCleanup.Store(clock.Now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// SeenQuake reports whether key was marked and has not yet expired.
func (b *boltStore) SeenQuake(key string) (bool, error) {
	if b == nil || b.db == nil {
		return false, nil
	}

	now := b.clock.Now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return false, err
	}

	var exists bool
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(quakeBucket))
		if bucket == nil {
			return fmt.Errorf("quake bucket missing")
		}

		k := []byte(key)
		value := bucket.Get(k)
		if value == nil {
			exists = false
			return nil
		}

		expiry, ok := decodeExpiry(value)
		if !ok || !expiry.After(now) {
			exists = false
			return bucket.Delete(k)
		}

		exists = true
		return nil
	})
	return exists, err
}

// MarkQuake records key as published until the TTL elapses.
func (b *boltStore) MarkQuake(key string) error {
	if b == nil || b.db == nil {
		return nil
	}

	now := b.clock.Now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(quakeBucket))
		if bucket == nil {
			return fmt.Errorf("quake bucket missing")
		}
		buf := make([]byte, expiryValueBytes)
		binary.BigEndian.PutUint64(buf, uint64(now.Add(b.quakeTTL).Unix()))
		return bucket.Put([]byte(key), buf)
	})
}

// SaveSnapshot replaces the stored list for feedID.
func (b *boltStore) SaveSnapshot(feedID string, quakes []domain.Earthquake) error {
	if b == nil || b.db == nil {
		return nil
	}
	if quakes == nil {
		quakes = []domain.Earthquake{}
	}

	payload, err := json.Marshal(Snapshot{
		FeedID:      feedID,
		SavedAt:     b.clock.Now().UTC(),
		Earthquakes: quakes,
	})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(snapshotBucket))
		if bucket == nil {
			return fmt.Errorf("snapshot bucket missing")
		}
		return bucket.Put([]byte(feedID), payload)
	})
}

// LoadSnapshot returns the last list saved for feedID.
func (b *boltStore) LoadSnapshot(feedID string) (Snapshot, bool, error) {
	if b == nil || b.db == nil {
		return Snapshot{}, false, nil
	}

	var (
		snap  Snapshot
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(snapshotBucket))
		if bucket == nil {
			return nil
		}
		raw := bucket.Get([]byte(feedID))
		if raw == nil {
			return nil
		}
		if err := json.Unmarshal(raw, &snap); err != nil {
			return fmt.Errorf("decode snapshot %q: %w", feedID, err)
		}
		found = true
		return nil
	})
	if err != nil {
		return Snapshot{}, false, err
	}
	return snap, found, nil
}

// maybeCleanupExpired removes expired quake keys on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if b == nil || b.db == nil {
		return nil
	}

	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(quakeBucket))
		if bucket == nil {
			return fmt.Errorf("quake bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			expiry, ok := decodeExpiry(v)
			if !ok || !expiry.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

// decodeExpiry decodes the expiry time from the stored byte slice.
func decodeExpiry(value []byte) (time.Time, bool) {
	if len(value) != expiryValueBytes {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value))
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
