// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import "errors"

var (
	// ErrMissingTemplate indicates a required template string is absent or
	// blank after merging overrides.
	ErrMissingTemplate = errors.New("required template missing")

	// ErrUnknownPlaceholder indicates a template contains a placeholder that
	// is not recognized for its section.
	ErrUnknownPlaceholder = errors.New("unknown template placeholder")

	// ErrConfigTooLarge indicates an override file exceeds MaxConfigFileSize.
	ErrConfigTooLarge = errors.New("template config file too large")
)
