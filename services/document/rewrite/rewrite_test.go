// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package rewrite

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestApplyInsertions(t *testing.T) {
	source := []byte("line one\nline two\nline three\n")
	edits := []Edit{
		Insertion(9, "// a\n"),
		Insertion(0, "// b\n"),
	}
	got, err := Apply(source, edits)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	want := "// b\nline one\n// a\nline two\nline three\n"
	if string(got) != want {
		t.Errorf("Apply() = %q, want %q", got, want)
	}
	if string(source) != "line one\nline two\nline three\n" {
		t.Errorf("Apply() mutated the source: %q", source)
	}
}

func TestApplyEqualOffsetInsertionsKeepPlanOrder(t *testing.T) {
	source := []byte("AB")
	got, err := Apply(source, []Edit{Insertion(1, "X"), Insertion(1, "Y")})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if string(got) != "AXYB" {
		t.Errorf("Apply() = %q, want AXYB", got)
	}
}

func TestApplyReplacement(t *testing.T) {
	source := []byte("hello cruel world")
	got, err := Apply(source, []Edit{{Offset: 6, Length: 6, Text: "kind"}})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if string(got) != "hello kind world" {
		t.Errorf("Apply() = %q", got)
	}
}

func TestApplyPreservesUntouchedBytes(t *testing.T) {
	source := []byte("alpha\nbeta\ngamma\n")
	inserted := "// doc\n"
	got, err := Apply(source, []Edit{Insertion(6, inserted)})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	stripped := append([]byte(nil), got[:6]...)
	stripped = append(stripped, got[6+len(inserted):]...)
	if !bytes.Equal(stripped, source) {
		t.Errorf("non-inserted bytes changed: %q", stripped)
	}
}

func TestApplyOutOfRange(t *testing.T) {
	source := []byte("short")
	for _, edit := range []Edit{
		{Offset: -1, Text: "x"},
		{Offset: 6, Text: "x"},
		{Offset: 3, Length: 10, Text: "x"},
	} {
		out, err := Apply(source, []Edit{edit})
		if !errors.Is(err, ErrEditOutOfRange) {
			t.Errorf("Apply(%+v) error = %v, want ErrEditOutOfRange", edit, err)
		}
		if out != nil {
			t.Errorf("Apply(%+v) produced output on error: %q", edit, out)
		}
	}
}

func TestApplyConflictingReplacements(t *testing.T) {
	source := []byte("0123456789")
	out, err := Apply(source, []Edit{
		{Offset: 2, Length: 4, Text: "x"},
		{Offset: 4, Length: 3, Text: "y"},
	})
	if !errors.Is(err, ErrEditConflict) {
		t.Errorf("Apply() error = %v, want ErrEditConflict", err)
	}
	if out != nil {
		t.Errorf("Apply() produced output on conflict: %q", out)
	}
}

func TestApplyInsertionInsideReplacement(t *testing.T) {
	source := []byte("0123456789")
	_, err := Apply(source, []Edit{
		{Offset: 2, Length: 4, Text: "x"},
		Insertion(3, "y"),
	})
	if !errors.Is(err, ErrEditConflict) {
		t.Errorf("Apply() error = %v, want ErrEditConflict", err)
	}
}

func TestApplyAdjacentReplacements(t *testing.T) {
	source := []byte("0123456789")
	got, err := Apply(source, []Edit{
		{Offset: 2, Length: 2, Text: "AA"},
		{Offset: 4, Length: 2, Text: "BB"},
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if string(got) != "01AABB6789" {
		t.Errorf("Apply() = %q", got)
	}
}

func TestApplyEmptyPlanCopies(t *testing.T) {
	source := []byte("unchanged")
	got, err := Apply(source, nil)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !bytes.Equal(got, source) {
		t.Errorf("Apply() = %q, want %q", got, source)
	}
	got[0] = 'X'
	if source[0] == 'X' {
		t.Error("Apply() returned the source slice instead of a copy")
	}
}

func TestLineStartAt(t *testing.T) {
	source := []byte("ab\ncd\nef")
	tests := []struct {
		offset int
		want   int
	}{
		{0, 0}, {1, 0}, {2, 0},
		{3, 3}, {4, 3},
		{6, 6}, {7, 6},
		{100, 6},
		{-5, 0},
	}
	for _, tt := range tests {
		if got := LineStartAt(source, tt.offset); got != tt.want {
			t.Errorf("LineStartAt(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}

func TestIndentationAt(t *testing.T) {
	source := []byte("none\n    four\n\ttab\n")
	tests := []struct {
		lineStart int
		want      string
	}{
		{0, ""},
		{5, "    "},
		{14, "\t"},
	}
	for _, tt := range tests {
		if got := IndentationAt(source, tt.lineStart); got != tt.want {
			t.Errorf("IndentationAt(%d) = %q, want %q", tt.lineStart, got, tt.want)
		}
	}
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.cs")
	if err := WriteFileAtomic(path, []byte("first")); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "first" {
		t.Errorf("content = %q", got)
	}

	if err := os.Chmod(path, 0o600); err != nil {
		t.Fatalf("Chmod() error = %v", err)
	}
	if err := WriteFileAtomic(path, []byte("second")); err != nil {
		t.Fatalf("WriteFileAtomic() rewrite error = %v", err)
	}
	got, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "second" {
		t.Errorf("rewritten content = %q", got)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600 preserved", info.Mode().Perm())
	}

	// Leftover temp files would mean a failed cleanup path.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory entries = %d, want only the target file", len(entries))
	}
}
