// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package document

import (
	"github.com/AleutianAI/DocBuddy/services/document/ast"
	"github.com/AleutianAI/DocBuddy/services/document/engine"
	"github.com/AleutianAI/DocBuddy/services/document/rewrite"
)

// Warning re-exports the per-construct skip record so callers do not need
// the engine package.
type Warning = engine.Warning

// Result is the outcome of one in-memory documentation pass.
type Result struct {
	// Output is the source with documentation comments inserted. Equal to
	// the input when nothing changed.
	Output []byte `json:"-"`

	// Edits is the insertion plan that produced Output, for diff
	// rendering. Empty when nothing changed.
	Edits []rewrite.Edit `json:"-"`

	// Documented is the number of constructs that received a comment.
	Documented int `json:"documented"`

	// Existing is the number of constructs that already carried
	// documentation.
	Existing int `json:"existing"`

	// Skipped is the number of undocumented constructs left untouched.
	Skipped int `json:"skipped"`

	// Warnings explains every skipped construct.
	Warnings []Warning `json:"warnings,omitempty"`

	// Changed is true when Output differs from the input.
	Changed bool `json:"changed"`
}

// FileResult is the outcome of documenting one file on disk.
type FileResult struct {
	// Path as supplied to DocumentFile.
	Path string `json:"path"`

	// Documented is the number of constructs that received a comment.
	Documented int `json:"documented"`

	// Existing is the number of constructs that already carried
	// documentation.
	Existing int `json:"existing"`

	// Skipped is the number of undocumented constructs left untouched.
	Skipped int `json:"skipped"`

	// Warnings explains every skipped construct.
	Warnings []Warning `json:"warnings,omitempty"`

	// Changed is true when the pass produced different content.
	Changed bool `json:"changed"`

	// Written is true when the new content was written back to disk.
	// False under dry-run and for unchanged files.
	Written bool `json:"written"`

	// CacheHit is true when the digest cache matched and the file was
	// skipped without parsing.
	CacheHit bool `json:"cache_hit"`

	// Err records a per-file failure during a tree run. Empty on success.
	Err string `json:"error,omitempty"`
}

// TreeResult aggregates the outcome of one recursive run.
type TreeResult struct {
	// RunID is the unique identifier for this run.
	RunID string `json:"run_id"`

	// Roots are the paths the run walked.
	Roots []string `json:"roots"`

	// Files holds one entry per discovered file, in discovery order.
	Files []*FileResult `json:"files"`

	// FilesScanned is the number of files discovered.
	FilesScanned int `json:"files_scanned"`

	// FilesChanged is the number of files whose content changed.
	FilesChanged int `json:"files_changed"`

	// FilesFailed is the number of files that errored.
	FilesFailed int `json:"files_failed"`

	// CacheHits is the number of files skipped on a digest match.
	CacheHits int `json:"cache_hits"`

	// Documented is the total number of constructs documented.
	Documented int `json:"documented"`

	// Skipped is the total number of constructs skipped with warnings.
	Skipped int `json:"skipped"`

	// DurationMilli is the wall time of the run in milliseconds.
	DurationMilli int64 `json:"duration_ms"`
}

// ConstructReport is one row of an inspection listing.
type ConstructReport struct {
	// Kind of the construct.
	Kind ast.ConstructKind `json:"kind"`

	// Identifier as written in the source.
	Identifier string `json:"identifier"`

	// Line is the 1-based line of the construct.
	Line int `json:"line"`

	// Documented is true when the construct already carries a
	// documentation comment.
	Documented bool `json:"documented"`

	// Excluded is true when the construct's kind is excluded by
	// configuration and would not be touched.
	Excluded bool `json:"excluded"`
}

// DocumentRequest is the request body for POST /v1/docbuddy/document.
type DocumentRequest struct {
	// Source is the file content to document. Required.
	Source string `json:"source" binding:"required"`

	// FilePath names the source for parser selection and diagnostics.
	// Default: "source.cs".
	FilePath string `json:"file_path"`

	// DryRun skips nothing but marks the response as a preview and
	// attaches a unified diff of the proposed insertions.
	DryRun bool `json:"dry_run"`
}

// DocumentResponse is the response for POST /v1/docbuddy/document.
type DocumentResponse struct {
	// Output is the documented source.
	Output string `json:"output"`

	// Documented is the number of constructs that received a comment.
	Documented int `json:"documented"`

	// Existing is the number of constructs already documented.
	Existing int `json:"existing"`

	// Skipped is the number of undocumented constructs left untouched.
	Skipped int `json:"skipped"`

	// Warnings explains every skipped construct.
	Warnings []Warning `json:"warnings,omitempty"`

	// Changed is true when Output differs from Source.
	Changed bool `json:"changed"`

	// Diff is the unified diff of the insertions. Only set for dry runs.
	Diff string `json:"diff,omitempty"`
}

// InspectRequest is the request body for POST /v1/docbuddy/inspect.
type InspectRequest struct {
	// Source is the file content to inspect. Required.
	Source string `json:"source" binding:"required"`

	// FilePath names the source for parser selection. Default:
	// "source.cs".
	FilePath string `json:"file_path"`
}

// InspectResponse is the response for POST /v1/docbuddy/inspect.
type InspectResponse struct {
	// FilePath echoes the inspected path.
	FilePath string `json:"file_path"`

	// Constructs lists every documentable construct in source order.
	Constructs []ConstructReport `json:"constructs"`

	// Total is the number of constructs found.
	Total int `json:"total"`

	// Documented is the number already carrying documentation.
	Documented int `json:"documented"`

	// Undocumented is the number missing documentation.
	Undocumented int `json:"undocumented"`
}

// KindsResponse is the response for GET /v1/docbuddy/kinds.
type KindsResponse struct {
	// Kinds lists the construct kinds with a registered strategy.
	Kinds []string `json:"kinds"`
}

// HealthResponse is the response for GET /v1/docbuddy/health.
type HealthResponse struct {
	// Status is "healthy" or "degraded".
	Status string `json:"status"`

	// Version is the service version.
	Version string `json:"version"`
}

// ReadyResponse is the response for GET /v1/docbuddy/ready.
type ReadyResponse struct {
	// Ready is true if the service is ready to accept requests.
	Ready bool `json:"ready"`

	// Kinds is the number of registered construct kinds.
	Kinds int `json:"kinds"`

	// Extensions lists the file extensions the parser registry claims.
	Extensions []string `json:"extensions"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is the error code (optional).
	Code string `json:"code,omitempty"`

	// Details provides additional error context (optional).
	Details string `json:"details,omitempty"`
}
