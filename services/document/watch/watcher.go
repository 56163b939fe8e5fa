// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package watch re-documents source files as they change on disk.
//
// A Watcher observes one or more root directories recursively, filters
// events down to the configured source extensions, debounces rapid edits
// per file, and invokes a handler for each settled file. A rate limiter
// bounds how fast handlers fire during bulk operations such as a branch
// switch. Pairing the handler with the digest cache makes events caused
// by the handler's own writes settle as no-ops.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// Handler is called once per settled file change.
//
// The path is absolute. A returned error is logged and does not stop
// the watcher.
type Handler func(ctx context.Context, path string) error

// Options configures a Watcher.
type Options struct {
	// Debounce is how long a file must stay quiet before the handler fires.
	// Default: 300ms.
	Debounce time.Duration

	// Extensions are the file extensions to act on, with leading dot.
	// Default: [".cs"].
	Extensions []string

	// IgnorePatterns are names or glob patterns for paths to skip.
	// Default: [".git", "bin", "obj", ".vs", "*.tmp", "*.swp"].
	IgnorePatterns []string

	// EventsPerSecond bounds how fast settled files are handed to the
	// handler. Default: 5.
	EventsPerSecond float64

	// Burst is the rate limiter burst size. Default: 10.
	Burst int

	// BufferSize is how many settled files may queue for the handler.
	// Default: 1000.
	BufferSize int

	// Logger for watcher events. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns sensible defaults for watching a source tree.
func DefaultOptions() Options {
	return Options{
		Debounce:        300 * time.Millisecond,
		Extensions:      []string{".cs"},
		IgnorePatterns:  []string{".git", "bin", "obj", ".vs", "*.tmp", "*.swp"},
		EventsPerSecond: 5,
		Burst:           10,
		BufferSize:      1000,
	}
}

// Watcher watches source directories and fires a handler per settled file.
//
// # Description
//
// Events for a file reset its debounce timer, so a burst of writes from an
// editor or a formatter produces a single handler call after the file goes
// quiet. Directories created under a watched root are registered as they
// appear, so files written into fresh subdirectories are still seen.
//
// # Thread Safety
//
// Safe for concurrent use. The handler is called from a single goroutine.
type Watcher struct {
	roots      []string
	handler    Handler
	fsw        *fsnotify.Watcher
	debounce   time.Duration
	extensions map[string]struct{}
	ignore     []string
	limiter    *rate.Limiter
	logger     *slog.Logger

	due  chan string
	done chan struct{}

	timerMu sync.Mutex
	timers  map[string]*time.Timer

	mu       sync.RWMutex
	watching bool
	stopOnce sync.Once
}

// NewWatcher creates a watcher over the given root directories.
//
// # Inputs
//
//   - roots: Directories to watch recursively. Must not be empty.
//   - handler: Called per settled file. Must not be nil.
//   - opts: Optional configuration (nil uses DefaultOptions).
//
// # Outputs
//
//   - *Watcher: Ready-to-use watcher (call Start to begin watching).
//   - error: Non-nil if inputs are invalid or fsnotify setup fails.
func NewWatcher(roots []string, handler Handler, opts *Options) (*Watcher, error) {
	if len(roots) == 0 {
		return nil, ErrNoRoots
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	if opts == nil {
		defaults := DefaultOptions()
		opts = &defaults
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".cs"}
	}
	if opts.EventsPerSecond <= 0 {
		opts.EventsPerSecond = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 10
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1000
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	extensions := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		extensions[strings.ToLower(ext)] = struct{}{}
	}

	return &Watcher{
		roots:      roots,
		handler:    handler,
		fsw:        fsw,
		debounce:   opts.Debounce,
		extensions: extensions,
		ignore:     opts.IgnorePatterns,
		limiter:    rate.NewLimiter(rate.Limit(opts.EventsPerSecond), opts.Burst),
		logger:     logger,
		due:        make(chan string, opts.BufferSize),
		done:       make(chan struct{}),
		timers:     make(map[string]*time.Timer),
	}, nil
}

// Start begins watching for file changes.
//
// # Description
//
// Registers every root recursively, then runs until Stop is called or the
// context is cancelled. Spawns two goroutines: an event processor that
// filters and debounces raw events, and a dispatcher that rate-limits
// settled files into the handler.
//
// # Inputs
//
//   - ctx: Context for cancellation. When cancelled, watching stops.
//
// # Outputs
//
//   - error: Non-nil if a root cannot be registered.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return nil
	}
	w.watching = true
	w.mu.Unlock()

	for _, root := range w.roots {
		if err := w.addRecursive(root); err != nil {
			return err
		}
	}

	go w.processEvents(ctx)
	go w.dispatch(ctx)

	w.logger.Info("watching for source changes",
		slog.Int("roots", len(w.roots)),
		slog.Duration("debounce", w.debounce))
	return nil
}

// Stop stops the watcher. Safe to call multiple times.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.fsw.Close()

		w.timerMu.Lock()
		for path, t := range w.timers {
			t.Stop()
			delete(w.timers, path)
		}
		w.timerMu.Unlock()

		w.mu.Lock()
		w.watching = false
		w.mu.Unlock()
	})
}

// IsWatching returns true if the watcher is currently active.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.watching
}

// addRecursive registers a directory and all subdirectories.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.shouldIgnore(path) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// shouldIgnore checks if a path matches any ignore pattern.
func (w *Watcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range w.ignore {
		if base == pattern {
			return true
		}
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
		if strings.Contains(path, string(filepath.Separator)+pattern+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// wantsFile reports whether the path has a configured source extension.
func (w *Watcher) wantsFile(path string) bool {
	_, ok := w.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// processEvents filters raw fsnotify events and schedules debounced files.
func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.shouldIgnore(event.Name) {
				continue
			}

			// Directories created under a watched root get registered so
			// files written into them are seen.
			if event.Has(fsnotify.Create) {
				if isDir(event.Name) {
					if err := w.addRecursive(event.Name); err != nil {
						w.logger.Warn("failed to watch new directory",
							slog.String("path", event.Name),
							slog.String("error", err.Error()))
					}
					continue
				}
			}

			if !w.wantsFile(event.Name) {
				continue
			}

			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.cancelPending(event.Name)
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}

			w.schedule(event.Name)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}

// schedule starts or resets the per-file debounce timer.
func (w *Watcher) schedule(path string) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.timerMu.Lock()
		delete(w.timers, path)
		w.timerMu.Unlock()

		select {
		case w.due <- path:
		case <-w.done:
		}
	})
}

// cancelPending drops the debounce timer for a removed or renamed file.
func (w *Watcher) cancelPending(path string) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
		delete(w.timers, path)
	}
}

// dispatch rate-limits settled files into the handler.
func (w *Watcher) dispatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case path := <-w.due:
			if err := w.limiter.Wait(ctx); err != nil {
				return
			}
			if err := w.handler(ctx, path); err != nil {
				w.logger.Warn("document on change failed",
					slog.String("path", path),
					slog.String("error", err.Error()))
				continue
			}
			w.logger.Debug("documented on change", slog.String("path", path))
		}
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
