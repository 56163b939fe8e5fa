// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package strategy

import (
	"testing"

	"github.com/AleutianAI/DocBuddy/services/document/ast"
	"github.com/AleutianAI/DocBuddy/services/document/config"
)

func newRoutineStrategy(t *testing.T, bodyComments bool) *routineStrategy {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("config.Default() error = %v", err)
	}
	return &routineStrategy{templates: cfg.Templates, includeBodyComments: bodyComments}
}

func TestRoutineSummaryCascade(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		want       string
	}{
		{"leading verb", "GetUserById", "Gets the user by id."},
		{"verb only", "Refresh", "Refreshes this instance."},
		{"verb with sh suffix", "FlushBuffers", "Flushes the buffers."},
		{"is prefix", "IsReady", "Determines whether this instance is ready."},
		{"is prefix multiword", "IsCacheStale", "Determines whether this instance is cache stale."},
		{"noun phrase", "UserCount", "The user count."},
		{"lowercase is not a prefix", "Isolate", "The isolate."},
	}
	s := newRoutineStrategy(t, false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.summary(&ast.Construct{Kind: ast.KindRoutine, Identifier: tt.identifier})
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("summary(%q) = %v, want [%q]", tt.identifier, got, tt.want)
			}
		})
	}
}

func TestRoutineReturnsCascade(t *testing.T) {
	tests := []struct {
		name      string
		construct ast.Construct
		want      string
	}{
		{
			"boolean is prefix",
			ast.Construct{Kind: ast.KindRoutine, Identifier: "IsReady", ReturnTypeToken: "bool"},
			"true if this instance is [ready]; otherwise, false.",
		},
		{
			"last bare return identifier",
			ast.Construct{Kind: ast.KindRoutine, Identifier: "GetUser", ReturnTypeToken: "User",
				HasBlockBody: true, LastReturnIdentifier: "user"},
			"the user",
		},
		{
			"void suppressed",
			ast.Construct{Kind: ast.KindRoutine, Identifier: "Clear", ReturnTypeToken: "void"},
			"",
		},
		{
			"bare task suppressed",
			ast.Construct{Kind: ast.KindRoutine, Identifier: "SaveAsync", ReturnTypeToken: "Task"},
			"",
		},
		{
			"bare value task suppressed",
			ast.Construct{Kind: ast.KindRoutine, Identifier: "SaveAsync", ReturnTypeToken: "ValueTask"},
			"",
		},
		{
			"generic task",
			ast.Construct{Kind: ast.KindRoutine, Identifier: "GetUserAsync", ReturnTypeToken: "Task<User>"},
			"a Task representing the asynchronous operation.",
		},
		{
			"generic value task",
			ast.Construct{Kind: ast.KindRoutine, Identifier: "CountAsync", ReturnTypeToken: "ValueTask<int>"},
			"a ValueTask representing the asynchronous operation.",
		},
		{
			"array",
			ast.Construct{Kind: ast.KindRoutine, Identifier: "LoadAll", ReturnTypeToken: "User[]"},
			"an array of user",
		},
		{
			"generic wrapper",
			ast.Construct{Kind: ast.KindRoutine, Identifier: "GetMapping", ReturnTypeToken: "Mapping<Key, Value>"},
			"a mapping of key and value",
		},
		{
			"generic wrapper vowel article",
			ast.Construct{Kind: ast.KindRoutine, Identifier: "Stream", ReturnTypeToken: "IEnumerable<User>"},
			"an enumerable of user",
		},
		{
			"bare type name",
			ast.Construct{Kind: ast.KindRoutine, Identifier: "Owner", ReturnTypeToken: "User"},
			"the user",
		},
	}
	s := newRoutineStrategy(t, false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.returns(&tt.construct); got != tt.want {
				t.Errorf("returns(%s %s) = %q, want %q",
					tt.construct.Identifier, tt.construct.ReturnTypeToken, got, tt.want)
			}
		})
	}
}

func TestRoutineApplyParamsPreserveOrder(t *testing.T) {
	s := newRoutineStrategy(t, false)
	c := &ast.Construct{
		Kind:            ast.KindRoutine,
		Identifier:      "Merge",
		ReturnTypeToken: "void",
		Parameters: []ast.Parameter{
			{Name: "zebra", TypeToken: "int"},
			{Name: "apple", TypeToken: "int"},
			{Name: "mango", TypeToken: "int"},
		},
	}
	sc, err := s.Apply(c)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	wantOrder := []string{"zebra", "apple", "mango"}
	if len(sc.Params) != len(wantOrder) {
		t.Fatalf("params = %+v, want %d entries", sc.Params, len(wantOrder))
	}
	for i, want := range wantOrder {
		if sc.Params[i].Name != want {
			t.Errorf("Params[%d].Name = %q, want %q", i, sc.Params[i].Name, want)
		}
	}
	if sc.Params[0].Description != "The zebra." {
		t.Errorf("Params[0].Description = %q, want %q", sc.Params[0].Description, "The zebra.")
	}
	if sc.Returns != "" {
		t.Errorf("Returns = %q, want suppressed", sc.Returns)
	}
}

func TestRoutineApplyTypeParams(t *testing.T) {
	s := newRoutineStrategy(t, false)
	c := &ast.Construct{
		Kind:            ast.KindRoutine,
		Identifier:      "Convert",
		ReturnTypeToken: "TOut",
		TypeParameters:  []string{"TIn", "TOut"},
	}
	sc, err := s.Apply(c)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(sc.TypeParams) != 2 {
		t.Fatalf("type params = %+v", sc.TypeParams)
	}
	if sc.TypeParams[0].Name != "TIn" || sc.TypeParams[0].Description != "The in." {
		t.Errorf("TypeParams[0] = %+v", sc.TypeParams[0])
	}
	if sc.TypeParams[1].Name != "TOut" || sc.TypeParams[1].Description != "The out." {
		t.Errorf("TypeParams[1] = %+v", sc.TypeParams[1])
	}
}

func TestRoutineApplyExceptionsDedupAndSort(t *testing.T) {
	s := newRoutineStrategy(t, false)
	c := &ast.Construct{
		Kind:            ast.KindRoutine,
		Identifier:      "Validate",
		ReturnTypeToken: "void",
		ThrowSites: []ast.ThrowSite{
			{Type: "TypeA", Message: "zzz"},
			{Type: "TypeB", Message: "aaa"},
			{Type: "TypeA", Message: "zzz"},
		},
	}
	sc, err := s.Apply(c)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(sc.Exceptions) != 2 {
		t.Fatalf("exceptions = %+v, want duplicates collapsed", sc.Exceptions)
	}
	if sc.Exceptions[0].Type != "TypeB" || sc.Exceptions[0].Message != "aaa" {
		t.Errorf("Exceptions[0] = %+v, want TypeB/aaa first", sc.Exceptions[0])
	}
	if sc.Exceptions[1].Type != "TypeA" || sc.Exceptions[1].Message != "zzz" {
		t.Errorf("Exceptions[1] = %+v", sc.Exceptions[1])
	}
}

func TestRoutineApplyBodyComments(t *testing.T) {
	c := &ast.Construct{
		Kind:            ast.KindRoutine,
		Identifier:      "Compute",
		ReturnTypeToken: "int",
		HasBlockBody:    true,
		BodyComments:    []string{"fast path", "  "},
	}

	off := newRoutineStrategy(t, false)
	sc, err := off.Apply(c)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(sc.Summary) != 1 {
		t.Errorf("summary with toggle off = %v", sc.Summary)
	}

	on := newRoutineStrategy(t, true)
	sc, err = on.Apply(c)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	want := []string{"Computes this instance.", "Fast path."}
	if len(sc.Summary) != len(want) {
		t.Fatalf("summary with toggle on = %v, want %v", sc.Summary, want)
	}
	for i := range want {
		if sc.Summary[i] != want[i] {
			t.Errorf("Summary[%d] = %q, want %q", i, sc.Summary[i], want[i])
		}
	}
}

func TestRoutineApplyRejectsOtherKinds(t *testing.T) {
	s := newRoutineStrategy(t, false)
	if _, err := s.Apply(&ast.Construct{Kind: ast.KindProperty, Identifier: "Name"}); err == nil {
		t.Error("Apply() on a property should fail the kind contract")
	}
}
