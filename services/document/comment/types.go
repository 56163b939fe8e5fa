// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package comment models synthesized documentation comments.
//
// A StructuredComment is the ordered set of sections a documentation strategy
// produces for one construct: Summary, TypeParams, Params, Returns,
// Exceptions, Value. Sections without content are omitted from rendering
// entirely rather than emitted as placeholders. Comments are assembled through
// the Builder, which enforces the section invariants, and rendered as
// triple-slash XML documentation lines.
package comment

import "sort"

// Param is one name/description pair for a parameter or type parameter.
// Order within a section always follows declaration order.
type Param struct {
	Name        string
	Description string
}

// Exception is one exception type with the message text it is thrown with.
type Exception struct {
	// Type is the exception type name as written in the source.
	Type string

	// Message is the first string literal passed to the exception
	// constructor, empty when the throw site carries none.
	Message string
}

// StructuredComment is the finished, immutable documentation block for a
// single construct. Instances are created by Builder.Build and never mutated
// afterwards.
type StructuredComment struct {
	// Summary sentences. Never empty for a built comment.
	Summary []string

	// TypeParams in declaration order.
	TypeParams []Param

	// Params in declaration order.
	Params []Param

	// Returns text, empty when the construct yields no value.
	Returns string

	// Exceptions sorted by message, then type.
	Exceptions []Exception

	// Value text for properties, empty otherwise.
	Value string
}

// sortExceptions orders exceptions by message, then type, in place.
// The comparator is total, so output order is stable across runs.
func sortExceptions(exs []Exception) {
	sort.SliceStable(exs, func(i, j int) bool {
		if exs[i].Message != exs[j].Message {
			return exs[i].Message < exs[j].Message
		}
		return exs[i].Type < exs[j].Type
	})
}
