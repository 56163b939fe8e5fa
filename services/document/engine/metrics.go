// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for documentation planning.
var (
	tracer = otel.Tracer("docbuddy.engine")
	meter  = otel.Meter("docbuddy.engine")
)

// Metrics for per-file documentation passes.
var (
	planLatency          metric.Float64Histogram
	constructsDocumented metric.Int64Counter
	constructsSkipped    metric.Int64Counter
	planWarnings         metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		planLatency, err = meter.Float64Histogram(
			"docbuddy_plan_duration_seconds",
			metric.WithDescription("Duration of per-file documentation planning"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		constructsDocumented, err = meter.Int64Counter(
			"docbuddy_constructs_documented_total",
			metric.WithDescription("Total constructs that received a synthesized comment"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		constructsSkipped, err = meter.Int64Counter(
			"docbuddy_constructs_skipped_total",
			metric.WithDescription("Total undocumented constructs left untouched"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		planWarnings, err = meter.Int64Counter(
			"docbuddy_plan_warnings_total",
			metric.WithDescription("Total soft warnings raised during planning"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordPlanMetrics records metrics for one per-file pass.
func recordPlanMetrics(ctx context.Context, duration time.Duration, outcome *Outcome) {
	if err := initMetrics(); err != nil {
		return // Silently skip if metrics init failed
	}

	planLatency.Record(ctx, duration.Seconds())
	if outcome.Documented > 0 {
		constructsDocumented.Add(ctx, int64(outcome.Documented))
	}
	if outcome.Skipped > 0 {
		constructsSkipped.Add(ctx, int64(outcome.Skipped))
	}
	for _, w := range outcome.Warnings {
		planWarnings.Add(ctx, 1, metric.WithAttributes(
			attribute.String("code", w.Code),
			attribute.String("kind", string(w.Kind)),
		))
	}
}

// startPlanSpan creates a span for a per-file pass. The caller must call
// span.End().
func startPlanSpan(ctx context.Context, constructCount int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Engine.Plan",
		trace.WithAttributes(
			attribute.Int("engine.construct_count", constructCount),
		),
	)
}

// setPlanSpanResult sets the result attributes on a plan span.
func setPlanSpanResult(span trace.Span, outcome *Outcome) {
	span.SetAttributes(
		attribute.Int("engine.documented", outcome.Documented),
		attribute.Int("engine.existing", outcome.Existing),
		attribute.Int("engine.skipped", outcome.Skipped),
		attribute.Int("engine.warnings", len(outcome.Warnings)),
	)
}
