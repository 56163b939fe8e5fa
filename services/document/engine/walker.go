// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import "github.com/AleutianAI/DocBuddy/services/document/ast"

// Walker partitions parsed constructs into documented and undocumented sets.
//
// Description:
//
//	The parser emits constructs in pre-order, nested declarations included,
//	so the walker is a pure partition over that sequence: a construct whose
//	preceding sibling is a recognized documentation comment lands in the
//	documented set, everything else in the undocumented set. Kinds excluded
//	by configuration land in neither. Visit has no side effects on the tree
//	or the constructs.
type Walker struct {
	excludes map[ast.ConstructKind]struct{}
}

// NewWalker builds a walker that skips the given kinds entirely.
func NewWalker(excludeKinds []ast.ConstructKind) *Walker {
	excludes := make(map[ast.ConstructKind]struct{}, len(excludeKinds))
	for _, k := range excludeKinds {
		excludes[k] = struct{}{}
	}
	return &Walker{excludes: excludes}
}

// Visit partitions constructs, preserving their pre-order positions.
func (w *Walker) Visit(constructs []*ast.Construct) (documented, undocumented []*ast.Construct) {
	for _, c := range constructs {
		if _, skip := w.excludes[c.Kind]; skip {
			continue
		}
		if c.HasDocumentation {
			documented = append(documented, c)
		} else {
			undocumented = append(undocumented, c)
		}
	}
	return documented, undocumented
}

// Excluded reports whether a kind is configured out of traversal.
func (w *Walker) Excluded(kind ast.ConstructKind) bool {
	_, skip := w.excludes[kind]
	return skip
}
