// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package strategy maps construct kinds to documentation strategies.
//
// Description:
//
//	A strategy turns one kind of undocumented construct into a structured
//	comment, using the template snapshot frozen at registry construction and
//	the humanize text rules. Strategies hold no per-construct state, so a
//	registry is safe for concurrent use across files.
package strategy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AleutianAI/DocBuddy/services/document/ast"
	"github.com/AleutianAI/DocBuddy/services/document/comment"
	"github.com/AleutianAI/DocBuddy/services/document/config"
	"github.com/AleutianAI/DocBuddy/services/document/humanize"
)

// Strategy produces a structured documentation comment for one construct.
type Strategy interface {
	// Kinds lists the construct kinds this strategy documents.
	Kinds() []ast.ConstructKind

	// Apply extracts features from the construct and assembles the comment.
	// It is a pure function of the construct and the frozen templates, and
	// it fails only for constructs outside the strategy's declared kinds.
	Apply(construct *ast.Construct) (*comment.StructuredComment, error)
}

// Registry resolves construct kinds to strategies. Immutable after
// construction.
type Registry struct {
	byKind map[ast.ConstructKind]Strategy
}

// NewRegistry builds the registry from the fixed strategy set.
//
// Outputs:
//
//	*Registry - The registry covering every supported kind. Nil on error.
//	error - ErrNilConfig, or ErrDuplicateKind when two strategies claim the
//	        same kind.
func NewRegistry(cfg *config.TemplateConfig) (*Registry, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	// Value copies freeze the snapshot for the run.
	templates := cfg.Templates
	options := cfg.Options
	return newRegistryFrom(
		&typeStrategy{templates: templates},
		&enumStrategy{templates: templates},
		&constructorStrategy{templates: templates},
		&routineStrategy{templates: templates, includeBodyComments: options.IncludeBodyComments},
		&propertyStrategy{templates: templates, includeValue: options.IncludeValue},
	)
}

// newRegistryFrom indexes strategies by kind, rejecting double claims.
func newRegistryFrom(strategies ...Strategy) (*Registry, error) {
	byKind := make(map[ast.ConstructKind]Strategy)
	for _, s := range strategies {
		for _, kind := range s.Kinds() {
			if _, dup := byKind[kind]; dup {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateKind, kind)
			}
			byKind[kind] = s
		}
	}
	return &Registry{byKind: byKind}, nil
}

// Resolve returns the strategy for a kind. A false result is a soft
// condition: the caller logs a warning, leaves the construct untouched, and
// continues.
func (r *Registry) Resolve(kind ast.ConstructKind) (Strategy, bool) {
	s, ok := r.byKind[kind]
	return s, ok
}

// Kinds returns every registered kind in sorted order.
func (r *Registry) Kinds() []ast.ConstructKind {
	kinds := make([]ast.ConstructKind, 0, len(r.byKind))
	for k := range r.byKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// fill substitutes placeholder/value pairs into a template string.
func fill(template string, pairs ...string) string {
	return strings.NewReplacer(pairs...).Replace(template)
}

// checkKind validates the Apply contract.
func checkKind(c *ast.Construct, kinds ...ast.ConstructKind) error {
	if c == nil {
		return fmt.Errorf("%w: nil construct", ErrKindMismatch)
	}
	for _, k := range kinds {
		if c.Kind == k {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrKindMismatch, c.Kind)
}

// paramDescriptions renders parameter names through the parameter template,
// preserving declaration order.
func paramDescriptions(template string, params []ast.Parameter) []comment.Param {
	if len(params) == 0 {
		return nil
	}
	out := make([]comment.Param, 0, len(params))
	for _, p := range params {
		out = append(out, comment.Param{
			Name:        p.Name,
			Description: fill(template, "{name}", humanize.Phrase(p.Name)),
		})
	}
	return out
}

// typeParamDescriptions renders type parameter names through the
// type-parameter template, preserving declaration order.
func typeParamDescriptions(template string, names []string) []comment.Param {
	if len(names) == 0 {
		return nil
	}
	out := make([]comment.Param, 0, len(names))
	for _, n := range names {
		out = append(out, comment.Param{
			Name:        n,
			Description: fill(template, "{name}", humanize.Phrase(n)),
		})
	}
	return out
}

// exceptionDescriptions deduplicates throw sites into exception entries.
// Assembly sorts them by message, then type.
func exceptionDescriptions(sites []ast.ThrowSite) []comment.Exception {
	if len(sites) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(sites))
	out := make([]comment.Exception, 0, len(sites))
	for _, site := range sites {
		if site.Type == "" {
			continue
		}
		key := site.Type + "\x00" + site.Message
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, comment.Exception{Type: site.Type, Message: site.Message})
	}
	return out
}
