// Package cache provides the persistent single-key blob store backing the
// record store. The whole normalized journal list is persisted as one blob
// under a fixed key, so a restart gets a usable catalog before the remote
// source answers.
package cache

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"

	"github.com/openscholar/journal-catalog-service/internal/domain"
)

// DefaultKey is the fixed logical name the journal snapshot is stored under.
const DefaultKey = "all_journals"

// Cache is a badger-backed blob store.
type Cache struct {
	db     *badger.DB
	logger zerolog.Logger
}

// Open opens (or creates) the cache database in dir.
func Open(dir string, logger zerolog.Logger) (*Cache, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache at %s: %w", dir, errors.Join(domain.ErrCacheUnavailable, err))
	}

	return &Cache{
		db:     db,
		logger: logger.With().Str("component", "cache").Logger(),
	}, nil
}

// Get returns the blob stored under key, or (nil, nil) when the key is
// absent.
func (c *Cache) Get(key string) ([]byte, error) {
	var blob []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		blob, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("read cache key %s: %w", key, errors.Join(domain.ErrCacheUnavailable, err))
	}
	return blob, nil
}

// Put stores blob under key, replacing any previous value.
func (c *Cache) Put(key string, blob []byte) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), blob)
	})
	if err != nil {
		return fmt.Errorf("write cache key %s: %w", key, errors.Join(domain.ErrCacheUnavailable, err))
	}
	return nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	if c.db == nil {
		c.logger.Warn().Msg("cache already closed")
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}
