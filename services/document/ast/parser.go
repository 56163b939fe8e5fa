// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ast

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Parser is the contract for language-specific construct extraction.
//
// Description:
//
//	A Parser turns raw source bytes into the common ParseResult format:
//	the flat, pre-ordered list of documentable constructs with their
//	extracted facts. One grammar is handled per implementation; a deployment
//	registers the parsers it supports in a ParserRegistry and routes files
//	by extension.
//
//	Implementations are:
//	- Context-aware: cancellation is honored before and after the parse.
//	- Error-tolerant: syntax errors produce diagnostics in
//	  ParseResult.Errors, not a failed call, so partially valid files are
//	  still documented where possible.
//
// Thread Safety: implementations must be safe for concurrent use; Parse is
// called from parallel per-file workers.
type Parser interface {
	// Parse extracts constructs from source content.
	//
	// Returns a non-nil ParseResult on success, possibly with diagnostics
	// in Errors. A non-nil error means nothing usable was produced
	// (size limit, invalid UTF-8, cancellation).
	Parse(ctx context.Context, content []byte, filePath string) (*ParseResult, error)

	// Language returns the canonical lowercase language name.
	Language() string

	// Extensions returns the file extensions this parser handles,
	// with leading dots (".cs").
	Extensions() []string
}

// ParserRegistry routes files to parsers by extension.
//
// Thread Safety: safe for concurrent use.
type ParserRegistry struct {
	mu sync.RWMutex

	// byLanguage maps language names to parser instances.
	byLanguage map[string]Parser

	// byExtension maps file extensions to parser instances.
	byExtension map[string]Parser
}

// NewParserRegistry returns an empty registry.
func NewParserRegistry() *ParserRegistry {
	return &ParserRegistry{
		byLanguage:  make(map[string]Parser),
		byExtension: make(map[string]Parser),
	}
}

// Register adds a parser for its language and extensions.
//
// Returns ErrDuplicateExtension when another parser already claims one of
// the extensions; the registry is left unchanged in that case.
func (r *ParserRegistry) Register(parser Parser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range parser.Extensions() {
		if existing, ok := r.byExtension[strings.ToLower(ext)]; ok && existing != parser {
			return fmt.Errorf("%w: %s claimed by %s", ErrDuplicateExtension, ext, existing.Language())
		}
	}
	r.byLanguage[parser.Language()] = parser
	for _, ext := range parser.Extensions() {
		r.byExtension[strings.ToLower(ext)] = parser
	}
	return nil
}

// ForFile returns the parser for a file path, matched by extension.
func (r *ParserRegistry) ForFile(path string) (Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext := strings.ToLower(filepath.Ext(path))
	parser, ok := r.byExtension[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	}
	return parser, nil
}

// GetByLanguage returns the parser registered for a language name.
func (r *ParserRegistry) GetByLanguage(language string) (Parser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	parser, ok := r.byLanguage[strings.ToLower(language)]
	return parser, ok
}

// Extensions returns all registered extensions, sorted.
func (r *ParserRegistry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
