// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package humanize turns source-code identifiers and type tokens into
// natural-language phrases.
//
// # Description
//
// Every transform in this package is a pure function: identical input always
// produces identical output, with no I/O, no randomness, and no state carried
// between calls. Documentation synthesis depends on that determinism to keep
// generated comments stable across runs.
//
// The transforms are deliberately mechanical. Article selection looks at the
// spelling of the first letter, not pronunciation, so "an hour" comes out as
// "a hour". That trade-off keeps the rules table-free and predictable.
//
// # Thread Safety
//
// All functions are safe for concurrent use.
package humanize

import (
	"strings"
	"unicode"
)

// vowels is the fixed set used for article selection. Spelling based, not
// phonetic.
const vowels = "aeiou"

// irregularVerbs maps verb roots whose third-person-singular form does not
// follow a spelling rule.
var irregularVerbs = map[string]string{
	"be":   "is",
	"do":   "does",
	"go":   "goes",
	"have": "has",
}

// actionVerbs is the set of identifier-leading words treated as verbs when
// synthesizing routine summaries. A leading word outside this set is treated
// as a noun phrase instead of being blindly conjugated.
var actionVerbs = map[string]struct{}{
	"add": {}, "append": {}, "apply": {}, "build": {}, "calculate": {},
	"check": {}, "clear": {}, "close": {}, "collect": {}, "compute": {},
	"convert": {}, "copy": {}, "count": {}, "create": {}, "delete": {},
	"describe": {}, "dispose": {}, "document": {}, "emit": {}, "ensure": {},
	"execute": {}, "fetch": {}, "filter": {}, "find": {}, "flush": {},
	"format": {}, "generate": {}, "get": {}, "handle": {}, "init": {},
	"initialize": {}, "insert": {}, "load": {}, "lookup": {}, "make": {},
	"merge": {}, "move": {}, "normalize": {}, "open": {}, "parse": {},
	"prepare": {}, "process": {}, "read": {}, "refresh": {}, "register": {},
	"remove": {}, "render": {}, "reset": {}, "resolve": {}, "restore": {},
	"run": {}, "save": {}, "scan": {}, "search": {}, "send": {}, "set": {},
	"sort": {}, "split": {}, "start": {}, "stop": {}, "try": {},
	"update": {}, "validate": {}, "visit": {}, "walk": {}, "write": {},
}

// Phrase converts an identifier or type token into a lower-case word phrase.
//
// Description:
//
//	Splits the token on casing humps, underscores, dots, and the brackets and
//	commas left over from generic type tokens, lower-cases every word that is
//	not an acronym (an all-caps run of two or more letters), and drops stray
//	single-character words produced by the split. Dropping single-character
//	words is what removes the "I" of interface names and bare type parameters
//	like "T". If dropping leaves nothing, the lower-cased original token is
//	returned so the result is never empty for non-empty input.
//
// Inputs:
//
//	token - Identifier or type token, e.g. "userId" or "Mapping<Key, Value>".
//
// Outputs:
//
//	string - Space-joined phrase, e.g. "user id" or "mapping key value".
//
// Example:
//
//	humanize.Phrase("IWidgetFactory") // "widget factory"
//	humanize.Phrase("HTTPServer")     // "HTTP server"
func Phrase(token string) string {
	words := SplitWords(token)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if len([]rune(w)) == 1 {
			continue
		}
		kept = append(kept, normalizeWord(w))
	}
	if len(kept) == 0 {
		return strings.ToLower(strings.TrimSpace(token))
	}
	return strings.Join(kept, " ")
}

// SplitWords splits an identifier or type token into its raw word parts.
//
// Boundaries: lower-to-upper transitions, the last capital of an acronym run
// followed by a lower-case letter (HTTPServer -> HTTP, Server), letter-digit
// transitions, and any non-alphanumeric separator.
func SplitWords(token string) []string {
	var words []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	runes := []rune(token)
	for i, r := range runes {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r):
			prevLower := i > 0 && unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			prevUpper := i > 0 && unicode.IsUpper(runes[i-1])
			prevDigit := i > 0 && unicode.IsDigit(runes[i-1])
			if prevLower || prevDigit || (prevUpper && nextLower) {
				flush()
			}
			cur = append(cur, r)
		case unicode.IsDigit(r):
			if i > 0 && unicode.IsLetter(runes[i-1]) {
				flush()
			}
			cur = append(cur, r)
		default:
			if i > 0 && unicode.IsDigit(runes[i-1]) {
				flush()
			}
			cur = append(cur, r)
		}
	}
	flush()
	return words
}

// normalizeWord lower-cases a word unless it is an acronym run.
func normalizeWord(w string) string {
	if len(w) > 1 && w == strings.ToUpper(w) && strings.IndexFunc(w, unicode.IsLetter) >= 0 {
		return w
	}
	return strings.ToLower(w)
}

// Conjugate returns the third-person-singular form of a bare verb root.
//
// Spelling rules: roots ending in s, x, z, ch, or sh take "es"; a consonant
// followed by "y" becomes "ies"; a small irregular table covers be, do, go,
// and have; everything else takes "s".
func Conjugate(verb string) string {
	v := strings.ToLower(verb)
	if v == "" {
		return v
	}
	if irr, ok := irregularVerbs[v]; ok {
		return irr
	}
	switch {
	case strings.HasSuffix(v, "s"), strings.HasSuffix(v, "x"), strings.HasSuffix(v, "z"),
		strings.HasSuffix(v, "ch"), strings.HasSuffix(v, "sh"):
		return v + "es"
	case len(v) > 1 && strings.HasSuffix(v, "y") && !strings.ContainsRune(vowels, rune(v[len(v)-2])):
		return v[:len(v)-1] + "ies"
	default:
		return v + "s"
	}
}

// IsActionVerb reports whether a humanized leading word should be treated as
// a verb when building a routine summary.
func IsActionVerb(word string) bool {
	_, ok := actionVerbs[strings.ToLower(word)]
	return ok
}

// Article returns "an" when the phrase starts with a vowel letter, else "a".
//
// This is a spelling heuristic over the fixed set "aeiou", kept intentionally
// non-phonetic so results never depend on a pronunciation table.
func Article(phrase string) string {
	for _, r := range phrase {
		if strings.ContainsRune(vowels, unicode.ToLower(r)) {
			return "an"
		}
		return "a"
	}
	return "a"
}

// FinishSentence upper-cases the first letter of a rendered sentence. The
// rest of the sentence is left untouched.
func FinishSentence(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}
