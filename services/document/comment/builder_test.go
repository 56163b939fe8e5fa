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

import (
	"errors"
	"strings"
	"testing"
)

func TestBuilderHappyPath(t *testing.T) {
	sc, err := NewBuilder().
		WithSummary("Creates the user.").
		WithParams([]Param{{Name: "userId", Description: "The user id."}}).
		WithReturns("the user").
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(sc.Summary) != 1 || sc.Summary[0] != "Creates the user." {
		t.Errorf("Summary = %v", sc.Summary)
	}
	if sc.Returns != "the user" {
		t.Errorf("Returns = %q", sc.Returns)
	}
}

func TestBuilderRequiresSummary(t *testing.T) {
	_, err := NewBuilder().WithReturns("the user").Build()
	if !errors.Is(err, ErrEmptySummary) {
		t.Fatalf("Build() error = %v, want ErrEmptySummary", err)
	}
}

func TestBuilderSealedAfterBuild(t *testing.T) {
	b := NewBuilder().WithSummary("The widget.")
	if _, err := b.Build(); err != nil {
		t.Fatalf("first Build() error = %v", err)
	}
	if _, err := b.Build(); !errors.Is(err, ErrBuilderSealed) {
		t.Errorf("second Build() error = %v, want ErrBuilderSealed", err)
	}

	b2 := NewBuilder().WithSummary("The widget.")
	if _, err := b2.Build(); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	b2.WithReturns("late")
	if _, err := b2.Build(); !errors.Is(err, ErrBuilderSealed) {
		t.Errorf("With* after Build not rejected: %v", err)
	}
}

func TestBuilderEmptySectionsAreNoOps(t *testing.T) {
	sc, err := NewBuilder().
		WithSummary("The widget.").
		WithSummary("").
		WithReturns("").
		WithValue("").
		WithParams(nil).
		WithExceptions(nil).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if sc.Returns != "" || sc.Value != "" || sc.Params != nil || sc.Exceptions != nil {
		t.Errorf("empty sections leaked into comment: %+v", sc)
	}
}

func TestBuilderSortsExceptions(t *testing.T) {
	sc, err := NewBuilder().
		WithSummary("Runs this instance.").
		WithExceptions([]Exception{
			{Type: "TypeA", Message: "zzz"},
			{Type: "TypeB", Message: "aaa"},
		}).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if sc.Exceptions[0].Type != "TypeB" || sc.Exceptions[0].Message != "aaa" {
		t.Errorf("Exceptions[0] = %+v, want TypeB/aaa first", sc.Exceptions[0])
	}
	if sc.Exceptions[1].Type != "TypeA" {
		t.Errorf("Exceptions[1] = %+v, want TypeA second", sc.Exceptions[1])
	}
}

func TestBuilderTiesBreakOnType(t *testing.T) {
	sc, err := NewBuilder().
		WithSummary("Runs this instance.").
		WithExceptions([]Exception{
			{Type: "B", Message: "same"},
			{Type: "A", Message: "same"},
		}).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if sc.Exceptions[0].Type != "A" {
		t.Errorf("equal messages should order by type, got %+v", sc.Exceptions)
	}
}

func TestRenderSectionOrderAndShape(t *testing.T) {
	sc, err := NewBuilder().
		WithSummary("Creates the user.").
		WithTypeParams([]Param{{Name: "TKey", Description: "The key."}}).
		WithParams([]Param{
			{Name: "userId", Description: "The user id."},
			{Name: "name", Description: "The name."},
		}).
		WithReturns("the user").
		WithExceptions([]Exception{{Type: "ArgumentNullException", Message: "name is null"}}).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	got := sc.Render("    ")
	want := "" +
		"    /// <summary>\n" +
		"    /// Creates the user.\n" +
		"    /// </summary>\n" +
		"    /// <typeparam name=\"TKey\">The key.</typeparam>\n" +
		"    /// <param name=\"userId\">The user id.</param>\n" +
		"    /// <param name=\"name\">The name.</param>\n" +
		"    /// <returns>the user</returns>\n" +
		"    /// <exception cref=\"ArgumentNullException\">name is null</exception>\n"
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderEscapesReservedCharacters(t *testing.T) {
	sc, err := NewBuilder().
		WithSummary("The dictionary.").
		WithValue("The Dictionary<string, int>.").
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	got := sc.Render("")
	if !strings.Contains(got, "<value>The Dictionary&lt;string, int&gt;.</value>") {
		t.Errorf("value not escaped:\n%s", got)
	}
	if strings.Contains(got, "<value>The Dictionary<") {
		t.Errorf("raw angle bracket leaked:\n%s", got)
	}
}

func TestRenderOmitsEmptySections(t *testing.T) {
	sc, err := NewBuilder().WithSummary("The widget.").Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	got := sc.Render("")
	for _, tag := range []string{"<param", "<typeparam", "<returns>", "<exception", "<value>"} {
		if strings.Contains(got, tag) {
			t.Errorf("empty section %q rendered:\n%s", tag, got)
		}
	}
}
