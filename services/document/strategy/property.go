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

	"github.com/AleutianAI/DocBuddy/services/document/ast"
	"github.com/AleutianAI/DocBuddy/services/document/comment"
	"github.com/AleutianAI/DocBuddy/services/document/config"
	"github.com/AleutianAI/DocBuddy/services/document/humanize"
)

// propertyStrategy documents property declarations.
type propertyStrategy struct {
	templates    config.Templates
	includeValue bool
}

var _ Strategy = (*propertyStrategy)(nil)

func (s *propertyStrategy) Kinds() []ast.ConstructKind {
	return []ast.ConstructKind{ast.KindProperty}
}

func (s *propertyStrategy) Apply(c *ast.Construct) (*comment.StructuredComment, error) {
	if err := checkKind(c, ast.KindProperty); err != nil {
		return nil, err
	}
	accessors := accessorPhrase(c.Accessors)
	name := humanize.Phrase(c.Identifier)
	f := comment.Features{
		Summary: []string{humanize.FinishSentence(
			fill(s.templates.PropertySummary, "{accessors}", accessors, "{name}", name))},
	}
	if s.includeValue {
		f.Value = s.value(c, accessors, name)
	}
	return f.Assemble()
}

// accessorPhrase conjugates accessor keywords to third-person singular and
// joins them. A property without an accessor list reads as a getter.
func accessorPhrase(accessors []string) string {
	if len(accessors) == 0 {
		return humanize.Conjugate("get")
	}
	parts := make([]string, 0, len(accessors))
	for _, a := range accessors {
		parts = append(parts, humanize.Conjugate(a))
	}
	return strings.Join(parts, " or ")
}

// value renders the <value> text from the declared type token, falling back
// to the accessor phrase when the token is missing.
func (s *propertyStrategy) value(c *ast.Construct, accessors, name string) string {
	token := strings.TrimSpace(c.ReturnTypeToken)
	if token != "" {
		return humanize.FinishSentence(
			fill(s.templates.PropertyValue, "{type}", humanize.Phrase(token)))
	}
	return humanize.FinishSentence(
		fill(s.templates.PropertyValueFallback, "{accessors}", accessors, "{name}", name))
}
