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

import (
	"strings"
	"unicode"

	"github.com/AleutianAI/DocBuddy/services/document/ast"
	"github.com/AleutianAI/DocBuddy/services/document/comment"
	"github.com/AleutianAI/DocBuddy/services/document/config"
	"github.com/AleutianAI/DocBuddy/services/document/humanize"
)

// routineStrategy documents methods.
type routineStrategy struct {
	templates           config.Templates
	includeBodyComments bool
}

var _ Strategy = (*routineStrategy)(nil)

func (s *routineStrategy) Kinds() []ast.ConstructKind {
	return []ast.ConstructKind{ast.KindRoutine}
}

func (s *routineStrategy) Apply(c *ast.Construct) (*comment.StructuredComment, error) {
	if err := checkKind(c, ast.KindRoutine); err != nil {
		return nil, err
	}
	f := comment.Features{
		Summary:    s.summary(c),
		TypeParams: typeParamDescriptions(s.templates.TypeParameter, c.TypeParameters),
		Params:     paramDescriptions(s.templates.Parameter, c.Parameters),
		Returns:    s.returns(c),
		Exceptions: exceptionDescriptions(c.ThrowSites),
	}
	return f.Assemble()
}

// summary produces the summary sentences. The lead sentence comes from the
// identifier cascade; body comments follow as extra sentences when enabled.
func (s *routineStrategy) summary(c *ast.Construct) []string {
	sentences := []string{summarySentence(c.Identifier)}
	if s.includeBodyComments {
		for _, note := range c.BodyComments {
			if trimmed := strings.TrimSpace(note); trimmed != "" {
				sentences = append(sentences, humanize.FinishSentence(ensurePeriod(trimmed)))
			}
		}
	}
	return sentences
}

// summarySentence applies the identifier cascade:
// an Is-prefixed name describes a predicate, a leading action verb conjugates
// against the rest of the phrase, anything else falls back to a noun phrase.
func summarySentence(identifier string) string {
	if suffix, ok := isPrefixed(identifier); ok {
		return humanize.FinishSentence(
			"determines whether this instance is " + humanize.Phrase(suffix) + ".")
	}
	phrase := humanize.Phrase(identifier)
	words := strings.Fields(phrase)
	if len(words) > 0 && humanize.IsActionVerb(words[0]) {
		verb := humanize.Conjugate(words[0])
		if len(words) == 1 {
			return humanize.FinishSentence(verb + " this instance.")
		}
		return humanize.FinishSentence(verb + " the " + strings.Join(words[1:], " ") + ".")
	}
	return humanize.FinishSentence("the " + phrase + ".")
}

// ensurePeriod appends a period to free-form text that lacks terminal
// punctuation, so body comments read as sentences.
func ensurePeriod(s string) string {
	switch s[len(s)-1] {
	case '.', '!', '?':
		return s
	}
	return s + "."
}

// returns renders the returns text. An empty result suppresses the section.
func (s *routineStrategy) returns(c *ast.Construct) string {
	token := strings.TrimSpace(c.ReturnTypeToken)

	if suffix, ok := isPrefixed(c.Identifier); ok && isBooleanToken(token) {
		return "true if this instance is [" + humanize.Phrase(suffix) + "]; otherwise, false."
	}

	if c.HasBlockBody && c.LastReturnIdentifier != "" {
		return fill(s.templates.ReturnsIdentifier,
			"{name}", humanize.Phrase(c.LastReturnIdentifier))
	}

	switch token {
	case "", "void", "Task", "ValueTask":
		return ""
	}

	if element, ok := humanize.ArrayElement(token); ok {
		phrase := "array of " + humanize.Phrase(element)
		return humanize.Article(phrase) + " " + phrase
	}

	if outer, args, ok := humanize.GenericParts(token); ok {
		if outer == "Task" || outer == "ValueTask" {
			return "a " + outer + " representing the asynchronous operation."
		}
		inners := make([]string, 0, len(args))
		for _, a := range args {
			inners = append(inners, humanize.Phrase(a))
		}
		phrase := humanize.Phrase(outer) + " of " + strings.Join(inners, " and ")
		return humanize.Article(phrase) + " " + phrase
	}

	return "the " + humanize.Phrase(token)
}

// isPrefixed reports whether the identifier carries the Is prefix followed by
// a capitalized remainder, and returns that remainder.
func isPrefixed(identifier string) (string, bool) {
	if len(identifier) <= 2 || !strings.HasPrefix(identifier, "Is") {
		return "", false
	}
	rest := identifier[2:]
	if !unicode.IsUpper(rune(rest[0])) {
		return "", false
	}
	return rest, true
}

// isBooleanToken matches boolean return tokens as written.
func isBooleanToken(token string) bool {
	return token == "bool" || token == "Boolean" || token == "System.Boolean"
}
