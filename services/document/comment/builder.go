// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package comment

// builderState tracks the builder lifecycle.
type builderState int

const (
	stateFresh builderState = iota
	statePopulated
	stateBuilt
)

// Builder accumulates comment sections and produces one StructuredComment.
//
// Description:
//
//	A builder moves Fresh -> Populated (via With* calls) -> Built (via Build).
//	With* calls after Build are rejected, and Build is callable exactly once.
//	With* calls with empty content are no-ops so callers can pass extraction
//	results through unconditionally; a section appears in the built comment
//	iff non-empty content was supplied for it.
//
// Example:
//
//	sc, err := comment.NewBuilder().
//	    WithSummary("Creates the user.").
//	    WithParams(params).
//	    WithReturns("the user").
//	    Build()
//
// Thread Safety: a Builder is not safe for concurrent use. Strategies create
// one per construct.
type Builder struct {
	state builderState
	err   error
	c     StructuredComment
}

// NewBuilder returns a fresh builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithSummary appends non-empty summary sentences.
func (b *Builder) WithSummary(sentences ...string) *Builder {
	if !b.writable() {
		return b
	}
	for _, s := range sentences {
		if s != "" {
			b.c.Summary = append(b.c.Summary, s)
			b.state = statePopulated
		}
	}
	return b
}

// WithTypeParams sets the type parameter section, preserving order.
func (b *Builder) WithTypeParams(tps []Param) *Builder {
	if !b.writable() || len(tps) == 0 {
		return b
	}
	b.c.TypeParams = append([]Param(nil), tps...)
	b.state = statePopulated
	return b
}

// WithParams sets the parameter section, preserving declaration order.
func (b *Builder) WithParams(ps []Param) *Builder {
	if !b.writable() || len(ps) == 0 {
		return b
	}
	b.c.Params = append([]Param(nil), ps...)
	b.state = statePopulated
	return b
}

// WithReturns sets the returns text.
func (b *Builder) WithReturns(text string) *Builder {
	if !b.writable() || text == "" {
		return b
	}
	b.c.Returns = text
	b.state = statePopulated
	return b
}

// WithExceptions sets the exception section. The copy is sorted by message,
// then type, so rendering order never depends on extraction order.
func (b *Builder) WithExceptions(exs []Exception) *Builder {
	if !b.writable() || len(exs) == 0 {
		return b
	}
	cp := append([]Exception(nil), exs...)
	sortExceptions(cp)
	b.c.Exceptions = cp
	b.state = statePopulated
	return b
}

// WithValue sets the value text.
func (b *Builder) WithValue(text string) *Builder {
	if !b.writable() || text == "" {
		return b
	}
	b.c.Value = text
	b.state = statePopulated
	return b
}

// Build seals the builder and returns the finished comment.
//
// Outputs:
//
//	*StructuredComment - The immutable comment. Nil on error.
//	error - ErrEmptySummary when no summary was supplied, ErrBuilderSealed
//	        when Build was already called, or the first error recorded by a
//	        rejected With* call.
func (b *Builder) Build() (*StructuredComment, error) {
	if b.state == stateBuilt {
		if b.err == nil {
			b.err = ErrBuilderSealed
		}
		return nil, b.err
	}
	b.state = stateBuilt
	if b.err != nil {
		return nil, b.err
	}
	if len(b.c.Summary) == 0 {
		b.err = ErrEmptySummary
		return nil, b.err
	}
	out := b.c
	return &out, nil
}

// writable records a sealed-use error and reports whether the builder still
// accepts sections.
func (b *Builder) writable() bool {
	if b.state == stateBuilt {
		if b.err == nil {
			b.err = ErrBuilderSealed
		}
		return false
	}
	return true
}
