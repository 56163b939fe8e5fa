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

import "errors"

var (
	// ErrEditOutOfRange indicates an edit addresses bytes outside the source.
	ErrEditOutOfRange = errors.New("edit span out of range")

	// ErrEditConflict indicates two edits in one plan touch overlapping spans.
	ErrEditConflict = errors.New("conflicting edits in plan")

	// ErrWriteFailed indicates the rewritten output could not be persisted.
	// The original file is left untouched.
	ErrWriteFailed = errors.New("writing rewritten output failed")
)
