package storage

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	snapshotBucket = "snapshots"
	// expiry (unix seconds) followed by the episode count.
	entryValueBytes = 16
)

// boltStore implements a Store backed by BoltDB. Each process opens it once,
// so expired entries are purged at open time.
type boltStore struct {
	db          *bolt.DB
	snapshotTTL time.Duration
	now         func() time.Time
}

// openBolt opens the ledger and drops every entry that expired before now.
func openBolt(path string, opts Options, now time.Time) (*boltStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(snapshotBucket))
		if err != nil {
			return err
		}
		return purgeExpired(bucket, now)
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init ledger: %w", err)
	}

	return &boltStore{
		db:          db,
		snapshotTTL: opts.SnapshotTTL,
		now:         time.Now,
	}, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// LookupSnapshot returns the ledger entry for digest if it has not expired.
func (b *boltStore) LookupSnapshot(digest string) (Snapshot, bool, error) {
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
			return fmt.Errorf("snapshot bucket missing")
		}
		value := bucket.Get([]byte(digest))
		if value == nil {
			return nil
		}
		s, ok := decodeEntry(value)
		if !ok || !s.ExpiresAt.After(b.now()) {
			return nil
		}
		snap, found = s, true
		return nil
	})
	return snap, found, err
}

// MarkSnapshot records the snapshot digest with the number of episodes it produced.
func (b *boltStore) MarkSnapshot(digest string, episodes int) error {
	if b == nil || b.db == nil {
		return nil
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(snapshotBucket))
		if bucket == nil {
			return fmt.Errorf("snapshot bucket missing")
		}
		entry := Snapshot{Episodes: episodes, ExpiresAt: b.now().Add(b.snapshotTTL)}
		return bucket.Put([]byte(digest), encodeEntry(entry))
	})
}

// purgeExpired collects keys first; deleting under a live cursor can skip entries.
func purgeExpired(bucket *bolt.Bucket, now time.Time) error {
	var expired [][]byte
	err := bucket.ForEach(func(k, v []byte) error {
		if s, ok := decodeEntry(v); ok && s.ExpiresAt.After(now) {
			return nil
		}
		expired = append(expired, append([]byte(nil), k...))
		return nil
	})
	if err != nil {
		return err
	}
	for _, k := range expired {
		if err := bucket.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

func encodeEntry(s Snapshot) []byte {
	buf := make([]byte, entryValueBytes)
	binary.BigEndian.PutUint64(buf[:8], uint64(s.ExpiresAt.Unix()))
	binary.BigEndian.PutUint64(buf[8:], uint64(s.Episodes))
	return buf
}

func decodeEntry(value []byte) (Snapshot, bool) {
	if len(value) != entryValueBytes {
		return Snapshot{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:8]))
	if unix <= 0 {
		return Snapshot{}, false
	}
	return Snapshot{
		Episodes:  int(binary.BigEndian.Uint64(value[8:])),
		ExpiresAt: time.Unix(unix, 0),
	}, true
}
