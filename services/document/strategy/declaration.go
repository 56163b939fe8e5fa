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

// typeStrategy documents class-like types and interfaces.
type typeStrategy struct {
	templates config.Templates
}

var _ Strategy = (*typeStrategy)(nil)

func (s *typeStrategy) Kinds() []ast.ConstructKind {
	return []ast.ConstructKind{ast.KindType, ast.KindInterface}
}

func (s *typeStrategy) Apply(c *ast.Construct) (*comment.StructuredComment, error) {
	if err := checkKind(c, s.Kinds()...); err != nil {
		return nil, err
	}
	template := s.templates.Type
	if c.Kind == ast.KindInterface {
		template = s.templates.Interface
	}
	f := comment.Features{
		Summary: []string{humanize.FinishSentence(
			fill(template, "{name}", humanize.Phrase(c.Identifier)))},
		TypeParams: typeParamDescriptions(s.templates.TypeParameter, c.TypeParameters),
	}
	return f.Assemble()
}

// enumStrategy documents enumerations and their members.
type enumStrategy struct {
	templates config.Templates
}

var _ Strategy = (*enumStrategy)(nil)

func (s *enumStrategy) Kinds() []ast.ConstructKind {
	return []ast.ConstructKind{ast.KindEnumeration, ast.KindEnumerationMember}
}

func (s *enumStrategy) Apply(c *ast.Construct) (*comment.StructuredComment, error) {
	if err := checkKind(c, s.Kinds()...); err != nil {
		return nil, err
	}
	template := s.templates.Enumeration
	if c.Kind == ast.KindEnumerationMember {
		template = s.templates.EnumerationMember
	}
	f := comment.Features{
		Summary: []string{humanize.FinishSentence(
			fill(template, "{name}", humanize.Phrase(c.Identifier)))},
	}
	return f.Assemble()
}

// constructorStrategy documents constructors. Parameterized constructors use
// the variant template that names the parameters in the summary.
type constructorStrategy struct {
	templates config.Templates
}

var _ Strategy = (*constructorStrategy)(nil)

func (s *constructorStrategy) Kinds() []ast.ConstructKind {
	return []ast.ConstructKind{ast.KindConstructor}
}

func (s *constructorStrategy) Apply(c *ast.Construct) (*comment.StructuredComment, error) {
	if err := checkKind(c, ast.KindConstructor); err != nil {
		return nil, err
	}
	name := humanize.Phrase(c.Identifier)
	var summary string
	if len(c.Parameters) == 0 {
		summary = fill(s.templates.Constructor, "{name}", name)
	} else {
		names := make([]string, 0, len(c.Parameters))
		for _, p := range c.Parameters {
			names = append(names, humanize.Phrase(p.Name))
		}
		summary = fill(s.templates.ConstructorWithParams,
			"{name}", name,
			"{params}", strings.Join(names, " and "))
	}
	f := comment.Features{
		Summary:    []string{humanize.FinishSentence(summary)},
		Params:     paramDescriptions(s.templates.Parameter, c.Parameters),
		Exceptions: exceptionDescriptions(c.ThrowSites),
	}
	return f.Assemble()
}
