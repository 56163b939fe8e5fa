// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package humanize

import "strings"

// ArrayElement strips one trailing array marker from a type token.
//
// Returns the element token and true for "User[]" style tokens, including
// jagged forms where the remaining token still carries markers. Rank
// separators inside the marker ("[,]") are treated the same as "[]".
func ArrayElement(token string) (string, bool) {
	t := strings.TrimSpace(token)
	if !strings.HasSuffix(t, "]") {
		return token, false
	}
	open := strings.LastIndex(t, "[")
	if open <= 0 {
		return token, false
	}
	inner := t[open+1 : len(t)-1]
	if strings.Trim(inner, ", ") != "" {
		return token, false
	}
	return strings.TrimSpace(t[:open]), true
}

// GenericParts decomposes a generic type token into its outer name and
// top-level argument tokens.
//
// Description:
//
//	Splits "Outer<A, B<C, D>>" into outer "Outer" and arguments
//	["A", "B<C, D>"]. Argument commas are only recognized at the top nesting
//	level, so nested generics stay intact as single argument tokens. Tokens
//	without a well-formed outer angle-bracket pair report ok=false.
//
// Inputs:
//
//	token - Type token, e.g. "Mapping<Key, Value>".
//
// Outputs:
//
//	outer - The wrapper name, e.g. "Mapping".
//	args - Top-level argument tokens in declaration order.
//	ok - False when the token is not a generic type.
func GenericParts(token string) (outer string, args []string, ok bool) {
	t := strings.TrimSpace(token)
	open := strings.Index(t, "<")
	if open <= 0 || !strings.HasSuffix(t, ">") {
		return "", nil, false
	}
	outer = strings.TrimSpace(t[:open])
	body := t[open+1 : len(t)-1]

	depth := 0
	start := 0
	for i, r := range body {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
			if depth < 0 {
				return "", nil, false
			}
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(body[start:i]))
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return "", nil, false
	}
	last := strings.TrimSpace(body[start:])
	if last == "" && len(args) == 0 {
		return "", nil, false
	}
	args = append(args, last)
	return outer, args, true
}
