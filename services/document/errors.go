// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package document

import "errors"

var (
	// ErrNilContext is returned when a nil context is passed to an
	// operation.
	ErrNilContext = errors.New("document: nil context")

	// ErrEmptySource is returned when an operation receives no source
	// bytes to work on.
	ErrEmptySource = errors.New("document: empty source")

	// ErrEmptyPath is returned when an operation requires a file path and
	// receives an empty string.
	ErrEmptyPath = errors.New("document: empty path")

	// ErrNoRoots is returned when a tree run is started without any root
	// paths.
	ErrNoRoots = errors.New("document: no roots given")

	// ErrParseFailed wraps parser failures that are not size or extension
	// rejections.
	ErrParseFailed = errors.New("document: parse failed")

	// ErrUnknownKind is returned when a kind name does not match any
	// registered construct kind.
	ErrUnknownKind = errors.New("document: unknown construct kind")

	// ErrServiceClosed is returned by operations after Close.
	ErrServiceClosed = errors.New("document: service closed")
)
