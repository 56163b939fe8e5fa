// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package diffview renders insertion plans as unified diffs.
//
// A documentation pass only ever inserts comment blocks, so every hunk is a
// pure addition: zero original lines, the insertion point named on the
// original side. Diffs are built directly from the edit plan rather than by
// comparing file snapshots, which keeps previews exact even before anything
// is written. Output is standard unified diff text, optionally colorized
// for terminal display.
package diffview

import (
	"bytes"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sourcegraph/go-diff/diff"

	"github.com/AleutianAI/DocBuddy/pkg/ux"
	"github.com/AleutianAI/DocBuddy/services/document/rewrite"
)

// Diff line styles, drawn from the shared terminal palette.
var (
	styleFileHeader = lipgloss.NewStyle().Bold(true)
	styleHunkHeader = lipgloss.NewStyle().Foreground(ux.ColorTealPrimary)
	styleAdded      = lipgloss.NewStyle().Foreground(ux.ColorSuccess)
	styleRemoved    = lipgloss.NewStyle().Foreground(ux.ColorError)
)

// Build constructs a FileDiff from an insertion plan against source.
//
// Description:
//
//	Sorts the plan by offset (plan order for equal offsets), groups
//	insertions landing on the same original line into one hunk, and
//	computes new-file line numbers from the cumulative insertion count.
//	Edits with empty text are skipped.
//
// Inputs:
//
//	path - File path used for the a/ and b/ diff headers.
//	source - Original file content the plan was computed against.
//	edits - Insertion plan. Every edit must have Length 0.
//
// Outputs:
//
//	*diff.FileDiff - Ready for Format or the review TUI.
//	error - ErrNotInsertion or ErrOffsetOutOfRange on a bad plan.
func Build(path string, source []byte, edits []rewrite.Edit) (*diff.FileDiff, error) {
	for _, e := range edits {
		if e.Length != 0 {
			return nil, ErrNotInsertion
		}
		if e.Offset < 0 || e.Offset > len(source) {
			return nil, ErrOffsetOutOfRange
		}
	}

	ordered := append([]rewrite.Edit(nil), edits...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Offset < ordered[j].Offset
	})

	fd := &diff.FileDiff{
		OrigName: "a/" + path,
		NewName:  "b/" + path,
	}

	added := 0
	for i := 0; i < len(ordered); {
		line := lineOf(source, ordered[i].Offset)

		// Insertions on the same original line share a hunk.
		j := i
		var body bytes.Buffer
		hunkLines := 0
		for ; j < len(ordered) && lineOf(source, ordered[j].Offset) == line; j++ {
			for _, ln := range splitLines(ordered[j].Text) {
				body.WriteByte('+')
				body.WriteString(ln)
				body.WriteByte('\n')
				hunkLines++
			}
		}
		i = j

		if hunkLines == 0 {
			continue
		}

		fd.Hunks = append(fd.Hunks, &diff.Hunk{
			OrigStartLine: int32(line),
			OrigLines:     0,
			NewStartLine:  int32(line + added + 1),
			NewLines:      int32(hunkLines),
			Body:          body.Bytes(),
		})
		added += hunkLines
	}

	return fd, nil
}

// Format serializes file diffs as unified diff text.
func Format(fds []*diff.FileDiff) (string, error) {
	out, err := diff.PrintMultiFileDiff(fds)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Unified builds and formats the diff for one file in a single step.
func Unified(path string, source []byte, edits []rewrite.Edit) (string, error) {
	fd, err := Build(path, source, edits)
	if err != nil {
		return "", err
	}
	return Format([]*diff.FileDiff{fd})
}

// Added returns the total number of inserted lines in a file diff.
func Added(fd *diff.FileDiff) int {
	n := 0
	for _, h := range fd.Hunks {
		n += int(h.NewLines)
	}
	return n
}

// Colorize styles unified diff text for terminal display.
//
// Description:
//
//	Applies per-line styling: file headers bold, hunk headers teal,
//	additions in the success color. Callers should only colorize when
//	writing to a terminal; piped output stays plain.
func Colorize(unified string) string {
	lines := strings.Split(unified, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "diff "),
			strings.HasPrefix(line, "--- "),
			strings.HasPrefix(line, "+++ "):
			lines[i] = styleFileHeader.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = styleHunkHeader.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = styleAdded.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = styleRemoved.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// lineOf returns the zero-based line index containing offset.
//
// For a line-start insertion this is the count of original lines before
// the insertion point, which is exactly the original-side hunk position.
func lineOf(source []byte, offset int) int {
	return bytes.Count(source[:offset], []byte{'\n'})
}

// splitLines splits text into lines without a trailing empty element.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
