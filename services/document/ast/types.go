// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ast parses source files and exposes their documentable constructs.
//
// # Description
//
// This package wraps tree-sitter parsing behind the Parser interface and
// flattens each documentable declaration into a Construct: a plain-data
// handle carrying everything the documentation strategies read (identifier,
// parameters, return type token, accessors, body-derived facts, existing
// documentation presence) plus the byte span needed to insert a comment.
// The tree itself is released before Parse returns, so Constructs are safe
// to hold, share, and process concurrently without tree lifetime concerns.
//
// The package never mutates source. Rewriting happens downstream from the
// byte offsets recorded here.
package ast

// ConstructKind identifies the kind of a documentable construct.
type ConstructKind string

// Construct kinds. The set is closed for a run: adding a kind means adding a
// documentation strategy and a registry entry for it.
const (
	// KindType covers class, struct, and record declarations.
	KindType ConstructKind = "type"

	// KindInterface is an interface declaration.
	KindInterface ConstructKind = "interface"

	// KindEnumeration is an enum declaration.
	KindEnumeration ConstructKind = "enumeration"

	// KindEnumerationMember is a single member inside an enum.
	KindEnumerationMember ConstructKind = "enumeration_member"

	// KindConstructor is a constructor declaration.
	KindConstructor ConstructKind = "constructor"

	// KindRoutine is a method declaration.
	KindRoutine ConstructKind = "routine"

	// KindProperty is a property declaration.
	KindProperty ConstructKind = "property"
)

// Kinds returns every construct kind, in declaration order.
func Kinds() []ConstructKind {
	return []ConstructKind{
		KindType,
		KindInterface,
		KindEnumeration,
		KindEnumerationMember,
		KindConstructor,
		KindRoutine,
		KindProperty,
	}
}

// Parameter is one declared parameter of a routine or constructor.
type Parameter struct {
	// Name as written in the declaration.
	Name string `json:"name"`

	// TypeToken is the declared type exactly as written, e.g. "List<int>".
	// Empty when the parameter carries no type annotation.
	TypeToken string `json:"type_token,omitempty"`
}

// ThrowSite is one exception construction found inside a block body.
//
// Sites are recorded in source order and may repeat; deduplication and
// ordering are applied during synthesis, not extraction.
type ThrowSite struct {
	// Type is the constructed exception type as written.
	Type string `json:"type"`

	// Message is the first string literal argument, quotes stripped.
	// Empty when the constructor takes none.
	Message string `json:"message,omitempty"`
}

// Construct is a flattened, immutable view of one documentable declaration.
//
// # Extraction gaps
//
// Fields describing the body are best-effort views of the source shape:
// an expression-bodied member has no block to scan, so ThrowSites,
// BodyComments, and LastReturnIdentifier stay empty for it. Consumers treat
// missing facts as "omit the section", never as errors.
type Construct struct {
	// Kind of the construct.
	Kind ConstructKind `json:"kind"`

	// Identifier as written, e.g. "GetUserById" or "ICache".
	Identifier string `json:"identifier"`

	// Modifiers in declaration order, e.g. ["public", "static"].
	Modifiers []string `json:"modifiers,omitempty"`

	// Parameters in declaration order. Routines and constructors only.
	Parameters []Parameter `json:"parameters,omitempty"`

	// TypeParameters in declaration order, e.g. ["TKey", "TValue"].
	TypeParameters []string `json:"type_parameters,omitempty"`

	// ReturnTypeToken is the declared return or property type as written.
	// Empty for constructs without one (types, constructors, enum members).
	ReturnTypeToken string `json:"return_type_token,omitempty"`

	// Accessors lists property accessor keywords in source order,
	// e.g. ["get", "set"]. Nil when the property has no accessor list.
	Accessors []string `json:"accessors,omitempty"`

	// HasBlockBody reports a brace-delimited body.
	HasBlockBody bool `json:"has_block_body,omitempty"`

	// HasExpressionBody reports an arrow expression body.
	HasExpressionBody bool `json:"has_expression_body,omitempty"`

	// ThrowSites found in the block body, source order, undeduplicated.
	ThrowSites []ThrowSite `json:"throw_sites,omitempty"`

	// BodyComments holds the text of single-line comments found in the
	// block body, comment markers stripped.
	BodyComments []string `json:"body_comments,omitempty"`

	// LastReturnIdentifier is set when the last return statement in the
	// block body returns a single bare identifier.
	LastReturnIdentifier string `json:"last_return_identifier,omitempty"`

	// HasDocumentation reports an existing documentation comment
	// immediately above the construct.
	HasDocumentation bool `json:"has_documentation"`

	// StartByte is the offset of the construct's first byte, including its
	// attributes. Documentation is inserted at the start of this line.
	StartByte uint32 `json:"start_byte"`

	// EndByte is the offset just past the construct.
	EndByte uint32 `json:"end_byte"`

	// StartLine is the 1-based line of the construct's first byte.
	StartLine uint32 `json:"start_line"`
}

// ParseResult is the outcome of parsing one source file.
type ParseResult struct {
	// FilePath as supplied to Parse.
	FilePath string `json:"file_path"`

	// Language is the canonical language name, e.g. "csharp".
	Language string `json:"language"`

	// Hash is the hex SHA-256 of the parsed content.
	Hash string `json:"hash"`

	// ParsedAtMilli is the parse time in Unix milliseconds.
	ParsedAtMilli int64 `json:"parsed_at_milli"`

	// Constructs in pre-order traversal order.
	Constructs []*Construct `json:"constructs"`

	// Errors holds non-fatal parse diagnostics, e.g. syntax error notices.
	Errors []string `json:"errors,omitempty"`
}
