// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package diffview

import "errors"

var (
	// ErrNotInsertion is returned when a plan edit replaces existing bytes.
	ErrNotInsertion = errors.New("diff preview requires pure insertions")

	// ErrOffsetOutOfRange is returned when an edit lies outside the source.
	ErrOffsetOutOfRange = errors.New("edit offset out of range")
)
