// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/DocBuddy/pkg/ux"
	"github.com/AleutianAI/DocBuddy/services/document"
	"github.com/AleutianAI/DocBuddy/services/document/watch"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	watchDebounce     time.Duration // Quiet period before a changed file is documented
	watchTemplates    string        // Template override file
	watchExcludeKinds []string      // Never document these construct kinds
	watchNoCache      bool          // Disable the digest cache
	watchCacheDir     string        // Digest cache directory
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Watch sources and document files as they change",
	Long: `Watches the given directories and runs a documentation pass on every
C# file that changes, once the file has gone quiet for the debounce
period. The digest cache keeps DocBuddy's own writes from triggering a
second pass.

Examples:
  docbuddy watch ./src
  docbuddy watch --debounce 1s ./src ./tests`,
	Run: runWatchCommand,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond,
		"Quiet period before a changed file is documented")
	watchCmd.Flags().StringVar(&watchTemplates, "templates", "",
		"Template override file (YAML)")
	watchCmd.Flags().StringSliceVar(&watchExcludeKinds, "exclude-kinds", nil,
		"Never document these construct kinds")
	watchCmd.Flags().BoolVar(&watchNoCache, "no-cache", false,
		"Disable the digest cache")
	watchCmd.Flags().StringVar(&watchCacheDir, "cache-dir", "",
		"Digest cache directory (default: user cache dir)")

	rootCmd.AddCommand(watchCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

// runWatchCommand watches the roots until interrupted.
func runWatchCommand(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		args = []string{"."}
	}

	cfg := serviceConfig()
	if watchTemplates != "" {
		cfg.TemplatesPath = watchTemplates
	}
	cfg.ExcludeKinds = append(cfg.ExcludeKinds, watchExcludeKinds...)
	if watchNoCache {
		cfg.CacheEnabled = false
	}
	if watchCacheDir != "" {
		cfg.CacheDir = watchCacheDir
	}

	svc, err := document.NewService(cfg, logger.Slog())
	if err != nil {
		ux.Error(fmt.Sprintf("Starting service: %v", err))
		os.Exit(1)
	}
	defer svc.Close(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := func(ctx context.Context, path string) error {
		fr, err := svc.DocumentFile(ctx, path)
		if err != nil {
			ux.FileStatus(path, ux.IconError, truncateReason(err.Error(), 60))
			return err
		}
		icon, reason := fileBadge(fr)
		ux.FileStatus(fr.Path, icon, reason)
		return nil
	}

	opts := watch.DefaultOptions()
	opts.Debounce = watchDebounce
	opts.Extensions = svc.Extensions()
	opts.Logger = logger.Slog()

	watcher, err := watch.NewWatcher(args, handler, &opts)
	if err != nil {
		ux.Error(fmt.Sprintf("Starting watcher: %v", err))
		os.Exit(1)
	}
	if err := watcher.Start(ctx); err != nil {
		ux.Error(fmt.Sprintf("Starting watcher: %v", err))
		os.Exit(1)
	}
	defer watcher.Stop()

	ux.Info(fmt.Sprintf("Watching %s for changes, Ctrl+C to stop", strings.Join(args, ", ")))
	<-ctx.Done()
	ux.Info("Stopped watching")
}
