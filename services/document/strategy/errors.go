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

import "errors"

var (
	// ErrNilConfig indicates NewRegistry received a nil template config.
	ErrNilConfig = errors.New("template config must not be nil")

	// ErrDuplicateKind indicates two strategies claimed the same construct
	// kind during registry construction.
	ErrDuplicateKind = errors.New("duplicate strategy registration for kind")

	// ErrKindMismatch indicates Apply received a construct outside the
	// strategy's declared kinds.
	ErrKindMismatch = errors.New("construct kind not supported by strategy")
)
