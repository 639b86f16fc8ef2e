package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dbassistant/models"

	"github.com/dgraph-io/badger/v4"
)

const snapshotPrefix = "panel:"

// DB keeps panel snapshots so sessions survive a restart.
type DB struct {
	badgerDB *badger.DB
}

func New(dbPath string) (*DB, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Disable badger logging for cleaner output

	return open(opts)
}

// NewInMemory opens a store that lives only as long as the process.
func NewInMemory() (*DB, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	return open(opts)
}

func open(opts badger.Options) (*DB, error) {
	badgerDB, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &DB{badgerDB: badgerDB}, nil
}

func (d *DB) Close() error {
	return d.badgerDB.Close()
}

func snapshotKey(sessionID string) []byte {
	return []byte(snapshotPrefix + sessionID)
}

// SaveSnapshot stores the snapshot of a session; it expires after ttl.
func (d *DB) SaveSnapshot(sessionID string, snap models.PanelSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	return d.badgerDB.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(snapshotKey(sessionID), data)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
}

// LoadSnapshot returns the stored snapshot of a session, if any.
func (d *DB) LoadSnapshot(sessionID string) (models.PanelSnapshot, bool, error) {
	var snap models.PanelSnapshot
	err := d.badgerDB.View(func(txn *badger.Txn) error {
		item, err := txn.Get(snapshotKey(sessionID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return models.PanelSnapshot{}, false, nil
	}
	if err != nil {
		return models.PanelSnapshot{}, false, fmt.Errorf("failed to load snapshot %s: %w", sessionID, err)
	}
	return snap, true, nil
}

func (d *DB) DeleteSnapshot(sessionID string) error {
	return d.badgerDB.Update(func(txn *badger.Txn) error {
		return txn.Delete(snapshotKey(sessionID))
	})
}

// CountSnapshots returns the number of live snapshots.
func (d *DB) CountSnapshots() (int, error) {
	count := 0
	err := d.badgerDB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(snapshotPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
