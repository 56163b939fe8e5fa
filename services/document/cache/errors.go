// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cache

import "errors"

var (
	// ErrCacheClosed is returned when operations are called on a closed cache.
	ErrCacheClosed = errors.New("cache is closed")

	// ErrEmptyPath is returned when a file path key is empty.
	ErrEmptyPath = errors.New("file path must not be empty")
)
