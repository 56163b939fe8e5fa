// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command docbuddy synthesizes XML documentation comments for C# source.
//
// Usage:
//
//	docbuddy document ./src
//	docbuddy document --dry-run --diff ./src
//	docbuddy document --review ./src
//	docbuddy watch ./src
//	docbuddy serve --port 8080
//	docbuddy kinds
package main

import (
	"os"
)

func main() {
	// Execute the root command. Cobra handles parsing the arguments and
	// has already printed the error by the time Execute returns one.
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
