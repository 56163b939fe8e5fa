// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package comment

// Features is the immutable record of what a strategy extracted from a single
// construct, before assembly into a StructuredComment. Empty fields mean the
// section is absent, not rendered as a placeholder.
type Features struct {
	// Summary sentences. A processed construct always has at least one.
	Summary []string

	// TypeParams in declaration order.
	TypeParams []Param

	// Params in declaration order.
	Params []Param

	// Returns text. Empty suppresses the section.
	Returns string

	// Exceptions in extraction order; assembly sorts them.
	Exceptions []Exception

	// Value text for properties. Empty suppresses the section.
	Value string
}

// Assemble runs the features through a fresh Builder and returns the finished
// comment. Empty sections pass through as no-ops, so callers hand the whole
// record over unconditionally.
func (f Features) Assemble() (*StructuredComment, error) {
	return NewBuilder().
		WithSummary(f.Summary...).
		WithTypeParams(f.TypeParams).
		WithParams(f.Params).
		WithReturns(f.Returns).
		WithExceptions(f.Exceptions).
		WithValue(f.Value).
		Build()
}
