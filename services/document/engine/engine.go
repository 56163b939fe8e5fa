// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package engine orchestrates one documentation pass over a parsed file.
//
// Description:
//
//	The engine snapshots the undocumented construct set once, resolves a
//	strategy per construct, and turns each finished comment into a planned
//	insertion. It never writes anything itself; callers apply the returned
//	plan through the rewrite package so a file changes all at once or not
//	at all. Per-construct problems degrade to warnings and never abort the
//	rest of the pass.
//
// Thread Safety:
//
//	An Engine is immutable after construction and safe for concurrent use
//	across files.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/AleutianAI/DocBuddy/services/document/ast"
	"github.com/AleutianAI/DocBuddy/services/document/rewrite"
	"github.com/AleutianAI/DocBuddy/services/document/strategy"
)

// Warning codes for soft per-construct conditions.
const (
	// WarnUnresolvedStrategy means no strategy is registered for the kind.
	WarnUnresolvedStrategy = "unresolved_strategy"

	// WarnApplyFailed means the resolved strategy rejected the construct.
	WarnApplyFailed = "apply_failed"
)

// Warning records one construct left untouched and why.
type Warning struct {
	Code       string            `json:"code"`
	Kind       ast.ConstructKind `json:"kind"`
	Identifier string            `json:"identifier"`
	Line       int               `json:"line"`
	Message    string            `json:"message"`
}

// Outcome is the plan produced by one per-file pass.
type Outcome struct {
	// Edits is the full insertion plan, in construct pre-order.
	Edits []rewrite.Edit

	// Documented counts constructs that received a comment in this plan.
	Documented int

	// Existing counts constructs that already carried documentation.
	Existing int

	// Skipped counts undocumented constructs left untouched.
	Skipped int

	// Warnings explains every skipped construct, one entry per occurrence.
	Warnings []Warning
}

// Engine plans documentation insertions for parsed constructs.
type Engine struct {
	registry *strategy.Registry
	walker   *Walker
	logger   *slog.Logger
}

// NewEngine builds an engine.
//
// Inputs:
//
//	registry - Strategy registry. Must not be nil.
//	walker - Construct partitioner. Nil means no kind exclusions.
//	logger - Structured logger. Nil falls back to slog.Default().
func NewEngine(registry *strategy.Registry, walker *Walker, logger *slog.Logger) (*Engine, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}
	if walker == nil {
		walker = NewWalker(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{registry: registry, walker: walker, logger: logger}, nil
}

// Plan runs the classify, resolve, and apply steps for one file and returns
// the edit plan.
//
// Description:
//
//	The undocumented set is snapshotted before any planning, so comments
//	produced by this pass never feed back into classification. A construct
//	whose kind has no registered strategy, or whose strategy rejects it, is
//	skipped with one warning; processing always continues. Cancellation is
//	honored between files by the caller, not inside a pass, so Plan checks
//	the context only on entry.
//
// Inputs:
//
//	ctx - Context for tracing. Must not be nil.
//	source - The file content the constructs were parsed from.
//	constructs - Pre-order constructs from the parser.
//
// Outputs:
//
//	*Outcome - The insertion plan with counts and warnings. Never nil on
//	           success.
//	error - ErrNilContext or the context's error when already cancelled.
func (e *Engine) Plan(ctx context.Context, source []byte, constructs []*ast.Construct) (*Outcome, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := startPlanSpan(ctx, len(constructs))
	defer span.End()
	start := time.Now()

	documented, undocumented := e.walker.Visit(constructs)
	outcome := &Outcome{Existing: len(documented)}

	for _, c := range undocumented {
		strat, ok := e.registry.Resolve(c.Kind)
		if !ok {
			e.warn(outcome, c, WarnUnresolvedStrategy, "no strategy registered for kind")
			continue
		}
		sc, err := strat.Apply(c)
		if err != nil {
			e.warn(outcome, c, WarnApplyFailed, err.Error())
			continue
		}

		lineStart := rewrite.LineStartAt(source, int(c.StartByte))
		indent := rewrite.IndentationAt(source, lineStart)
		outcome.Edits = append(outcome.Edits, rewrite.Insertion(lineStart, sc.Render(indent)))
		outcome.Documented++
	}

	setPlanSpanResult(span, outcome)
	recordPlanMetrics(ctx, time.Since(start), outcome)
	return outcome, nil
}

// warn records one skipped construct and logs it.
func (e *Engine) warn(outcome *Outcome, c *ast.Construct, code, message string) {
	outcome.Skipped++
	outcome.Warnings = append(outcome.Warnings, Warning{
		Code:       code,
		Kind:       c.Kind,
		Identifier: c.Identifier,
		Line:       int(c.StartLine),
		Message:    message,
	})
	e.logger.Warn("Construct left undocumented",
		slog.String("code", code),
		slog.String("kind", string(c.Kind)),
		slog.String("identifier", c.Identifier),
		slog.Int("line", int(c.StartLine)),
		slog.String("reason", message))
}
