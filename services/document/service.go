// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package document provides the DocBuddy documentation service for C# source.
//
// The service exposes operations for:
//   - Documenting a single in-memory source
//   - Documenting files and directory trees on disk
//   - Inspecting which constructs carry documentation
//   - Serving the same operations over HTTP
package document

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/DocBuddy/services/document/ast"
	"github.com/AleutianAI/DocBuddy/services/document/cache"
	"github.com/AleutianAI/DocBuddy/services/document/config"
	"github.com/AleutianAI/DocBuddy/services/document/engine"
	"github.com/AleutianAI/DocBuddy/services/document/rewrite"
	"github.com/AleutianAI/DocBuddy/services/document/strategy"
	"github.com/AleutianAI/DocBuddy/services/document/telemetry"
)

// ServiceConfig holds configuration for the documentation service.
type ServiceConfig struct {
	// MaxFileSize is the maximum size of a file to document, in bytes.
	// Default: 10MB
	MaxFileSize int64

	// WarnFileSize is the size above which a file is logged as large.
	// Default: 1MB
	WarnFileSize int64

	// Parallelism bounds concurrent per-file runs during tree walks.
	// Default: runtime.GOMAXPROCS(0)
	Parallelism int

	// Extensions lists the file extensions picked up by discovery.
	// Default: [".cs"]
	Extensions []string

	// ExcludeDirs lists directory base names skipped during discovery.
	// Default: ["bin", "obj", "packages"]
	ExcludeDirs []string

	// ExcludeKinds lists construct kind names skipped entirely, merged
	// with the kinds excluded by the template configuration.
	ExcludeKinds []string

	// TemplatesPath is an optional template override file.
	TemplatesPath string

	// DryRun previews changes without writing any file.
	DryRun bool

	// CacheEnabled turns the digest cache on.
	CacheEnabled bool

	// CacheDir is the digest cache directory. Default: the user cache
	// directory under "docbuddy".
	CacheDir string
}

// DefaultServiceConfig returns sensible defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxFileSize:  10 * 1024 * 1024,
		WarnFileSize: 1024 * 1024,
		Parallelism:  runtime.GOMAXPROCS(0),
		Extensions:   []string{".cs"},
		ExcludeDirs:  []string{"bin", "obj", "packages"},
	}
}

// Service is the DocBuddy documentation service.
//
// Thread Safety:
//
//	Service is safe for concurrent use. Multiple goroutines can call any
//	combination of operations simultaneously.
type Service struct {
	config    ServiceConfig
	logger    *slog.Logger
	templates *config.TemplateConfig
	registry  *ast.ParserRegistry
	walker    *engine.Walker
	engine    *engine.Engine

	// strategies is kept for kind listings.
	strategies *strategy.Registry

	// digests is nil when the cache is disabled or failed to open.
	digests *cache.Cache

	mu     sync.RWMutex
	closed bool
}

// NewService creates a new documentation service.
//
// Description:
//
//	Loads and validates the template configuration, builds the strategy
//	registry and the C# parser, and opens the digest cache when enabled.
//	A cache that fails to open degrades the service to uncached operation
//	with a warning instead of failing construction.
//
// Inputs:
//
//	cfg - Service configuration. Zero fields take defaults.
//	logger - Structured logger. Nil falls back to slog.Default().
//
// Outputs:
//
//	*Service - The configured service. Nil on error.
//	error - Non-nil when templates, kinds, or the parser are invalid.
func NewService(cfg ServiceConfig, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultServiceConfig()
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = defaults.MaxFileSize
	}
	if cfg.WarnFileSize <= 0 {
		cfg.WarnFileSize = defaults.WarnFileSize
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = defaults.Parallelism
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = defaults.Extensions
	}
	if cfg.ExcludeDirs == nil {
		cfg.ExcludeDirs = defaults.ExcludeDirs
	}

	templates, err := config.Load(cfg.TemplatesPath)
	if err != nil {
		return nil, err
	}

	excludes, err := mergeExcludeKinds(templates.Options.ExcludeKinds, cfg.ExcludeKinds)
	if err != nil {
		return nil, err
	}

	strategies, err := strategy.NewRegistry(templates)
	if err != nil {
		return nil, err
	}
	walker := engine.NewWalker(excludes)
	eng, err := engine.NewEngine(strategies, walker, logger)
	if err != nil {
		return nil, err
	}

	registry := ast.NewParserRegistry()
	if err := registry.Register(ast.NewCSharpParser(ast.WithMaxFileSize(cfg.MaxFileSize))); err != nil {
		return nil, err
	}

	svc := &Service{
		config:     cfg,
		logger:     logger,
		templates:  templates,
		registry:   registry,
		walker:     walker,
		engine:     eng,
		strategies: strategies,
	}

	if cfg.CacheEnabled {
		svc.digests = openDigestCache(cfg, logger)
	}

	return svc, nil
}

// openDigestCache opens the badger-backed digest cache. Failures degrade to
// uncached operation rather than failing service construction.
func openDigestCache(cfg ServiceConfig, logger *slog.Logger) *cache.Cache {
	dir := cfg.CacheDir
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			logger.Warn("No user cache directory, continuing without digest cache", "error", err)
			return nil
		}
		dir = filepath.Join(base, "docbuddy", "digests")
	}

	ccfg := cache.DefaultConfig()
	ccfg.Path = dir
	ccfg.Logger = logger
	c, err := cache.Open(ccfg)
	if err != nil {
		logger.Warn("Digest cache unavailable, continuing without it",
			"path", dir, "error", err)
		return nil
	}
	return c
}

// mergeExcludeKinds validates and unions the configured kind exclusions.
func mergeExcludeKinds(fromTemplates, fromFlags []string) ([]ast.ConstructKind, error) {
	seen := make(map[ast.ConstructKind]struct{})
	var merged []ast.ConstructKind
	for _, name := range append(append([]string{}, fromTemplates...), fromFlags...) {
		kind, err := KindFromString(name)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[kind]; dup {
			continue
		}
		seen[kind] = struct{}{}
		merged = append(merged, kind)
	}
	return merged, nil
}

// KindFromString resolves a kind name to its construct kind.
//
// Outputs:
//
//	ast.ConstructKind - The matching kind.
//	error - ErrUnknownKind when the name matches no kind.
func KindFromString(name string) (ast.ConstructKind, error) {
	switch k := ast.ConstructKind(strings.ToLower(strings.TrimSpace(name))); k {
	case ast.KindType, ast.KindInterface, ast.KindEnumeration,
		ast.KindEnumerationMember, ast.KindConstructor,
		ast.KindRoutine, ast.KindProperty:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}

// Kinds returns the construct kinds with a registered strategy, sorted.
func (s *Service) Kinds() []string {
	kinds := s.strategies.Kinds()
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, string(k))
	}
	sort.Strings(names)
	return names
}

// Extensions returns the file extensions the parser registry claims.
func (s *Service) Extensions() []string {
	return s.registry.Extensions()
}

// TemplatesDigest returns the digest of the loaded template configuration.
func (s *Service) TemplatesDigest() string {
	return s.templates.Digest()
}

// DocumentSource runs one in-memory documentation pass.
//
// Description:
//
//	Parses the source, plans insertions for every undocumented construct
//	with a registered strategy, and applies the plan. The input is never
//	mutated. Constructs that cannot be documented are reported as
//	warnings, not errors.
//
// Inputs:
//
//	ctx - Context for cancellation and tracing. Must not be nil.
//	source - File content. Must not be empty.
//	path - File name for parser selection and diagnostics. Empty defaults
//	       to "source.cs".
//
// Outputs:
//
//	*Result - Output bytes, counts, warnings, and the edit plan.
//	error - Non-nil on validation, parse, or apply failure.
//
// Errors:
//
//	ErrNilContext - ctx is nil
//	ErrEmptySource - source is empty
//	ast.ErrUnsupportedFile - no parser claims the path's extension
//	ast.ErrFileTooLarge - source exceeds the configured size limit
//	ErrParseFailed - the parser rejected the source
func (s *Service) DocumentSource(ctx context.Context, source []byte, path string) (*Result, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if len(source) == 0 {
		return nil, ErrEmptySource
	}
	if path == "" {
		path = "source.cs"
	}
	if int64(len(source)) >= s.config.WarnFileSize {
		s.logger.Warn("Large source file", "file", path, "size_bytes", len(source))
	}

	parser, err := s.registry.ForFile(path)
	if err != nil {
		return nil, err
	}

	parsed, err := parser.Parse(ctx, source, path)
	if err != nil {
		switch {
		case errors.Is(err, ast.ErrFileTooLarge), errors.Is(err, ast.ErrInvalidContent):
			return nil, err
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		default:
			return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
		}
	}

	outcome, err := s.engine.Plan(ctx, source, parsed.Constructs)
	if err != nil {
		return nil, err
	}

	output := source
	if len(outcome.Edits) > 0 {
		output, err = rewrite.Apply(source, outcome.Edits)
		if err != nil {
			return nil, fmt.Errorf("applying insertion plan: %w", err)
		}
	}

	res := &Result{
		Output:     output,
		Edits:      outcome.Edits,
		Documented: outcome.Documented,
		Existing:   outcome.Existing,
		Skipped:    outcome.Skipped,
		Warnings:   outcome.Warnings,
		Changed:    outcome.Documented > 0,
	}

	s.logger.Debug("Documented source",
		"file", path,
		"documented", res.Documented,
		"existing", res.Existing,
		"skipped", res.Skipped)
	return res, nil
}

// DocumentFile documents one file on disk.
//
// Description:
//
//	Reads the file with a size guard, consults the digest cache, runs the
//	in-memory pass, and writes the result back atomically unless dry-run
//	is set. A cache hit whose digest matches the current content means a
//	previous run left the file fully documented, so the file is skipped
//	without parsing. Written outputs update the cache so the next run,
//	and the watcher's own write event, settle as hits.
//
// Inputs:
//
//	ctx - Context for cancellation. Must not be nil.
//	path - File to document. Must not be empty.
//
// Outputs:
//
//	*FileResult - Per-file counts and write/cache flags.
//	error - Non-nil on validation, read, parse, or write failure.
func (s *Service) DocumentFile(ctx context.Context, path string) (*FileResult, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, ErrEmptyPath
	}
	logger := telemetry.LoggerWithFile(ctx, s.logger, path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > s.config.MaxFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ast.ErrFileTooLarge, path, info.Size())
	}
	if info.Size() >= s.config.WarnFileSize {
		logger.Warn("Large file", "size_bytes", info.Size())
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	digest := ""
	if s.digests != nil {
		digest = cache.Digest(content, s.templates.Digest())
		stored, ok, err := s.digests.Get(ctx, path)
		if err != nil {
			logger.Warn("Digest lookup failed", "error", err)
		} else if ok && stored == digest {
			logger.Debug("Digest match, skipping")
			return &FileResult{Path: path, CacheHit: true}, nil
		}
	}

	res, err := s.DocumentSource(ctx, content, path)
	if err != nil {
		return nil, err
	}

	fr := &FileResult{
		Path:       path,
		Documented: res.Documented,
		Existing:   res.Existing,
		Skipped:    res.Skipped,
		Warnings:   res.Warnings,
		Changed:    res.Changed,
	}

	if !res.Changed {
		// Fully documented as-is. Remember that so the next run skips
		// the parse. Files with skipped constructs are not cached, so
		// their warnings resurface on every run.
		if s.digests != nil && res.Skipped == 0 {
			s.rememberDigest(ctx, logger, path, digest)
		}
		return fr, nil
	}

	if s.config.DryRun {
		logger.Info("Dry run, not writing",
			"documented", fr.Documented, "skipped", fr.Skipped)
		return fr, nil
	}

	if err := rewrite.WriteFileAtomic(path, res.Output); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	fr.Written = true
	if s.digests != nil && res.Skipped == 0 {
		s.rememberDigest(ctx, logger, path, cache.Digest(res.Output, s.templates.Digest()))
	}

	logger.Info("Documented file",
		"documented", fr.Documented,
		"existing", fr.Existing,
		"skipped", fr.Skipped)
	return fr, nil
}

// rememberDigest stores a digest, logging instead of failing the run.
func (s *Service) rememberDigest(ctx context.Context, logger *slog.Logger, path, digest string) {
	if err := s.digests.Put(ctx, path, digest); err != nil {
		logger.Warn("Digest store failed", "error", err)
	}
}

// DocumentTree documents every matching file under the given roots.
//
// Description:
//
//	Discovers files by extension, skipping hidden directories and the
//	configured exclude directories, then documents them with bounded
//	parallelism. Per-file failures are collected into the result rather
//	than aborting the run; cancellation aborts it.
//
// Inputs:
//
//	ctx - Context for cancellation. Must not be nil.
//	roots - Directories or files to walk. Must not be empty.
//
// Outputs:
//
//	*TreeResult - Aggregated counts with one entry per discovered file.
//	error - Non-nil on validation or discovery failure, or when the
//	        context is cancelled mid-run.
func (s *Service) DocumentTree(ctx context.Context, roots []string) (*TreeResult, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return nil, ErrNoRoots
	}

	runID := uuid.NewString()
	logger := telemetry.LoggerWithRun(ctx, s.logger, runID)
	start := time.Now()

	files, err := s.Discover(roots)
	if err != nil {
		return nil, err
	}
	logger.Info("Starting tree run",
		"roots", roots,
		"files", len(files),
		"parallelism", s.config.Parallelism,
		"dry_run", s.config.DryRun)

	tree := &TreeResult{
		RunID:        runID,
		Roots:        roots,
		Files:        make([]*FileResult, len(files)),
		FilesScanned: len(files),
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Parallelism)
	for i, path := range files {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			fr, err := s.DocumentFile(gCtx, path)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				logger.Warn("File failed", "file", path, "error", err)
				tree.Files[i] = &FileResult{Path: path, Err: err.Error()}
				return nil
			}
			tree.Files[i] = fr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, fr := range tree.Files {
		if fr.Err != "" {
			tree.FilesFailed++
			continue
		}
		if fr.CacheHit {
			tree.CacheHits++
		}
		if fr.Changed {
			tree.FilesChanged++
		}
		tree.Documented += fr.Documented
		tree.Skipped += fr.Skipped
	}
	tree.DurationMilli = time.Since(start).Milliseconds()

	logger.Info("Tree run complete",
		"files_scanned", tree.FilesScanned,
		"files_changed", tree.FilesChanged,
		"files_failed", tree.FilesFailed,
		"cache_hits", tree.CacheHits,
		"documented", tree.Documented,
		"skipped", tree.Skipped,
		"duration_ms", tree.DurationMilli)
	return tree, nil
}

// Inspect reports the documentation state of every construct in a source.
//
// Description:
//
//	Parses the source and reports each construct's kind, identifier,
//	line, and whether it already carries documentation. No comments are
//	synthesized and nothing is written.
func (s *Service) Inspect(ctx context.Context, source []byte, path string) ([]ConstructReport, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if len(source) == 0 {
		return nil, ErrEmptySource
	}
	if path == "" {
		path = "source.cs"
	}

	parser, err := s.registry.ForFile(path)
	if err != nil {
		return nil, err
	}
	parsed, err := parser.Parse(ctx, source, path)
	if err != nil {
		switch {
		case errors.Is(err, ast.ErrFileTooLarge), errors.Is(err, ast.ErrInvalidContent):
			return nil, err
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		default:
			return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
		}
	}

	reports := make([]ConstructReport, 0, len(parsed.Constructs))
	for _, c := range parsed.Constructs {
		reports = append(reports, ConstructReport{
			Kind:       c.Kind,
			Identifier: c.Identifier,
			Line:       int(c.StartLine),
			Documented: c.HasDocumentation,
			Excluded:   s.walker.Excluded(c.Kind),
		})
	}
	return reports, nil
}

// Discover walks the roots and returns matching files in discovery order.
//
// Description:
//
//	Applies the same extension and directory filters as DocumentTree, so
//	callers can plan or preview a run over exactly the files a tree run
//	would visit. Roots may be files. Duplicates across overlapping roots
//	are dropped.
func (s *Service) Discover(roots []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(path string) {
		if _, dup := seen[path]; dup {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			if s.wantsFile(root) {
				add(root)
			}
			continue
		}
		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && (strings.HasPrefix(d.Name(), ".") || s.excludedDir(d.Name())) {
					return filepath.SkipDir
				}
				return nil
			}
			if s.wantsFile(path) {
				add(path)
			}
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walking %s: %w", root, walkErr)
		}
	}
	return files, nil
}

// wantsFile reports whether a path matches the configured extensions.
// Matching is case-insensitive.
func (s *Service) wantsFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range s.config.Extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}

// excludedDir reports whether a directory base name is configured out.
func (s *Service) excludedDir(base string) bool {
	for _, skip := range s.config.ExcludeDirs {
		if base == skip {
			return true
		}
	}
	return false
}

// checkOpen fails operations on a closed service.
func (s *Service) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrServiceClosed
	}
	return nil
}

// Close releases the digest cache. Safe to call once.
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if s.digests != nil {
		return s.digests.Close()
	}
	return nil
}
