// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package rewrite applies a batch of planned text edits to a source buffer.
//
// Description:
//
//	The whole edit plan for a file is validated up front and applied to a
//	copy of the source in one pass, so the result is all-or-nothing: a plan
//	either produces the complete output buffer or fails without producing
//	anything. Every byte outside the edited spans is preserved verbatim.
//
// Thread Safety:
//
//	All functions are pure over their inputs and safe for concurrent use.
package rewrite

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Edit is one planned substitution. A zero Length is a pure insertion; a
// positive Length replaces that many bytes starting at Offset.
type Edit struct {
	Offset int
	Length int
	Text   string
}

// Insertion builds a pure-insertion edit at offset.
func Insertion(offset int, text string) Edit {
	return Edit{Offset: offset, Text: text}
}

// Apply applies the full edit plan to a copy of source.
//
// Description:
//
//	Edits are validated against the source bounds and checked pairwise for
//	span conflicts before anything is applied, then spliced in descending
//	offset order. Insertions that share an offset land in plan order, so
//	plans stay deterministic even for nested constructs on one line.
//
// Outputs:
//
//	[]byte - The complete rewritten buffer. Nil on error.
//	error - ErrEditOutOfRange or ErrEditConflict. On error no output exists;
//	        the source slice is never modified either way.
func Apply(source []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return append([]byte(nil), source...), nil
	}

	for _, e := range edits {
		if e.Offset < 0 || e.Length < 0 || e.Offset+e.Length > len(source) {
			return nil, fmt.Errorf("%w: offset %d length %d in %d bytes",
				ErrEditOutOfRange, e.Offset, e.Length, len(source))
		}
	}
	for i := 0; i < len(edits); i++ {
		for j := i + 1; j < len(edits); j++ {
			if spansConflict(edits[i], edits[j]) {
				return nil, fmt.Errorf("%w: offsets %d and %d",
					ErrEditConflict, edits[i].Offset, edits[j].Offset)
			}
		}
	}

	// Descending offset keeps earlier offsets valid while later ones are
	// spliced. Reversing plan order between equal offsets makes the final
	// text read in plan order.
	order := make([]int, len(edits))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := edits[order[i]], edits[order[j]]
		if a.Offset != b.Offset {
			return a.Offset > b.Offset
		}
		return order[i] > order[j]
	})

	buf := append([]byte(nil), source...)
	for _, idx := range order {
		e := edits[idx]
		suffix := append([]byte(nil), buf[e.Offset+e.Length:]...)
		buf = append(append(buf[:e.Offset], []byte(e.Text)...), suffix...)
	}
	return buf, nil
}

// spansConflict reports whether two edits' spans overlap. Spans are half-open
// intervals [Offset, Offset+Length). Two insertions never conflict; an
// insertion inside a replaced span does; two replacements conflict on any
// overlap.
func spansConflict(a, b Edit) bool {
	aStart, aEnd := a.Offset, a.Offset+a.Length
	bStart, bEnd := b.Offset, b.Offset+b.Length

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart <= aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

// LineStartAt returns the offset of the first byte of the line containing
// offset.
func LineStartAt(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	if offset < 0 {
		return 0
	}
	i := offset
	for i > 0 && source[i-1] != '\n' {
		i--
	}
	return i
}

// IndentationAt returns the run of spaces and tabs at the start of the line
// beginning at lineStart.
func IndentationAt(source []byte, lineStart int) string {
	i := lineStart
	for i < len(source) && (source[i] == ' ' || source[i] == '\t') {
		i++
	}
	return string(source[lineStart:i])
}

// WriteFileAtomic writes data to path through a temp file and rename, so the
// destination is never observed half-written. The destination's existing mode
// is preserved; new files get 0644.
func WriteFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".docbuddy-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file in %s: %v", ErrWriteFailed, dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: writing %s: %v", ErrWriteFailed, path, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: setting mode on %s: %v", ErrWriteFailed, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: closing temp file for %s: %v", ErrWriteFailed, path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: replacing %s: %v", ErrWriteFailed, path, err)
	}
	return nil
}
