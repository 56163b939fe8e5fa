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

import (
	"testing"

	"github.com/AleutianAI/DocBuddy/services/document/ast"
)

func TestWalkerPartition(t *testing.T) {
	constructs := []*ast.Construct{
		{Kind: ast.KindType, Identifier: "A", HasDocumentation: true},
		{Kind: ast.KindRoutine, Identifier: "B"},
		{Kind: ast.KindProperty, Identifier: "C", HasDocumentation: true},
		{Kind: ast.KindRoutine, Identifier: "D"},
	}
	documented, undocumented := NewWalker(nil).Visit(constructs)

	if len(documented) != 2 || documented[0].Identifier != "A" || documented[1].Identifier != "C" {
		t.Errorf("documented = %v", identifiers(documented))
	}
	if len(undocumented) != 2 || undocumented[0].Identifier != "B" || undocumented[1].Identifier != "D" {
		t.Errorf("undocumented = %v", identifiers(undocumented))
	}
}

func TestWalkerKindExclusion(t *testing.T) {
	constructs := []*ast.Construct{
		{Kind: ast.KindType, Identifier: "A"},
		{Kind: ast.KindProperty, Identifier: "B"},
		{Kind: ast.KindProperty, Identifier: "C", HasDocumentation: true},
	}
	w := NewWalker([]ast.ConstructKind{ast.KindProperty})
	documented, undocumented := w.Visit(constructs)

	// Excluded kinds land in neither partition.
	for _, c := range append(documented, undocumented...) {
		if c.Kind == ast.KindProperty {
			t.Errorf("excluded property %q leaked into a partition", c.Identifier)
		}
	}
	if len(documented) != 0 || len(undocumented) != 1 {
		t.Errorf("partition sizes = %d documented, %d undocumented", len(documented), len(undocumented))
	}
	if !w.Excluded(ast.KindProperty) || w.Excluded(ast.KindType) {
		t.Error("Excluded() does not reflect configuration")
	}
}

func identifiers(constructs []*ast.Construct) []string {
	out := make([]string, 0, len(constructs))
	for _, c := range constructs {
		out = append(out, c.Identifier)
	}
	return out
}
