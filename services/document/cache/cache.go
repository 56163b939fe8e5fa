// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package cache provides a BadgerDB-backed digest cache for documented files.
//
// The cache records, per file path, a SHA-256 digest of the file content
// concatenated with the active template configuration digest. A hit whose
// stored digest matches the current content means the file was left fully
// documented by a previous run and can be skipped without parsing. Any
// content change, or any template configuration change, misses.
//
// License: BadgerDB is Apache 2.0 licensed (github.com/dgraph-io/badger).
// This package follows Apache 2.0 guidelines for attribution and usage.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// keyPrefix namespaces digest records so future record types can share the DB.
const keyPrefix = "digest:v1:"

// Config holds configuration for the digest cache.
type Config struct {
	// Path is the directory for BadgerDB files.
	// Required unless InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	// Default: false; losing cache entries only costs a re-parse.
	SyncWrites bool

	// Logger is the logger for cache and BadgerDB operations.
	// If nil, BadgerDB's internal logging is disabled and cache
	// operations log through slog.Default().
	Logger *slog.Logger

	// GCInterval is how often to run value log garbage collection.
	// Default: 10 minutes. Set to 0 to disable.
	GCInterval time.Duration

	// GCDiscardRatio is the minimum ratio of discardable data before GC.
	// Default: 0.5.
	GCDiscardRatio float64
}

// DefaultConfig returns sensible defaults for persistent use.
//
// Outputs:
//
//	Config - Ready-to-use configuration. Set Path before calling Open.
func DefaultConfig() Config {
	return Config{
		SyncWrites:     false,
		GCInterval:     10 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// InMemoryConfig returns configuration optimized for testing.
//
// Outputs:
//
//	Config - In-memory mode, no disk I/O, GC disabled.
func InMemoryConfig() Config {
	return Config{
		InMemory:   true,
		SyncWrites: false,
		GCInterval: 0,
	}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Cache is a file-path keyed digest store backed by BadgerDB.
//
// Thread Safety: Safe for concurrent use from multiple goroutines.
type Cache struct {
	db     *badger.DB
	logger *slog.Logger
	stopCh chan struct{}
	doneCh chan struct{}
}

// Open creates and opens a digest cache with the given configuration.
//
// Description:
//
//	Opens a BadgerDB database at the configured path, or in memory if
//	InMemory is true. Creates the directory if it doesn't exist and
//	starts the GC loop when GCInterval is positive.
//
// Inputs:
//
//	cfg - Cache configuration. Path is required unless InMemory is true.
//
// Outputs:
//
//	*Cache - The opened cache. Caller must call Close() when done.
//	error - Non-nil if path is invalid or the database cannot be opened.
//
// Thread Safety: The returned *Cache is safe for concurrent use.
func Open(cfg Config) (*Cache, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent cache")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create cache directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites)
	opts = opts.WithNumVersionsToKeep(1)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
		opts = opts.WithLogger(nil)
	} else {
		opts = opts.WithLogger(&badgerLogger{logger: logger})
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	c := &Cache{
		db:     db,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	if cfg.GCInterval > 0 && !cfg.InMemory {
		go c.runGC(cfg.GCInterval, cfg.GCDiscardRatio)
	} else {
		close(c.doneCh)
	}

	return c, nil
}

// Digest computes the cache digest for file content under a template
// configuration.
//
// Description:
//
//	Returns the hex SHA-256 of the content bytes concatenated with the
//	configuration digest string. Changing either the file or the active
//	templates therefore produces a different digest, so a stored entry
//	only matches when both are unchanged.
//
// Inputs:
//
//	content - Raw file bytes.
//	configDigest - Digest of the effective template configuration.
//
// Outputs:
//
//	string - Hex-encoded SHA-256 digest.
func Digest(content []byte, configDigest string) string {
	h := sha256.New()
	h.Write(content)
	h.Write([]byte(configDigest))
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves the stored digest for a file path.
//
// Inputs:
//
//	ctx - Context for cancellation. Must not be nil.
//	path - File path key. Must not be empty.
//
// Outputs:
//
//	string - The stored digest, or "" when absent.
//	bool - True if an entry exists for path.
//	error - Non-nil if the lookup fails or the cache is closed.
//
// Thread Safety: Safe for concurrent use.
func (c *Cache) Get(ctx context.Context, path string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if path == "" {
		return "", false, ErrEmptyPath
	}
	if c.db.IsClosed() {
		return "", false, ErrCacheClosed
	}

	var digest string
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + path))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			digest = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get %s: %w", path, err)
	}
	return digest, true, nil
}

// Put stores the digest for a file path, replacing any previous entry.
//
// Inputs:
//
//	ctx - Context for cancellation. Must not be nil.
//	path - File path key. Must not be empty.
//	digest - Digest to store, typically from Digest().
//
// Outputs:
//
//	error - Non-nil if the write fails or the cache is closed.
//
// Thread Safety: Safe for concurrent use.
func (c *Cache) Put(ctx context.Context, path, digest string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if path == "" {
		return ErrEmptyPath
	}
	if c.db.IsClosed() {
		return ErrCacheClosed
	}

	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+path), []byte(digest))
	})
	if err != nil {
		return fmt.Errorf("cache put %s: %w", path, err)
	}

	c.logger.Debug("cache entry stored",
		slog.String("path", path),
		slog.String("digest", digest[:min(12, len(digest))]))
	return nil
}

// Delete removes the entry for a file path.
//
// Description:
//
//	Removing an absent key is not an error. Used when a documented file
//	is deleted from disk or when invalidating after a failed write.
//
// Inputs:
//
//	ctx - Context for cancellation. Must not be nil.
//	path - File path key. Must not be empty.
//
// Outputs:
//
//	error - Non-nil if the delete fails or the cache is closed.
//
// Thread Safety: Safe for concurrent use.
func (c *Cache) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if path == "" {
		return ErrEmptyPath
	}
	if c.db.IsClosed() {
		return ErrCacheClosed
	}

	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPrefix + path))
	})
	if err != nil {
		return fmt.Errorf("cache delete %s: %w", path, err)
	}
	return nil
}

// Close stops garbage collection and closes the database.
//
// Description:
//
//	Safe to call once. Further Get/Put/Delete calls return ErrCacheClosed.
//
// Outputs:
//
//	error - Non-nil if the database close fails.
func (c *Cache) Close() error {
	close(c.stopCh)
	<-c.doneCh
	return c.db.Close()
}

func (c *Cache) runGC(interval time.Duration, ratio float64) {
	defer close(c.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			// RunValueLogGC returns ErrNoRewrite when nothing needed collecting.
			err := c.db.RunValueLogGC(ratio)
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				c.logger.Warn("cache value log GC error",
					slog.String("error", err.Error()))
			}
		}
	}
}
