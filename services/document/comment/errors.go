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

import "errors"

var (
	// ErrEmptySummary is returned by Build when no non-empty summary
	// sentence was supplied. Every documented construct must carry one.
	ErrEmptySummary = errors.New("comment: summary must not be empty")

	// ErrBuilderSealed is returned when a builder is used after Build.
	ErrBuilderSealed = errors.New("comment: builder already built")
)
