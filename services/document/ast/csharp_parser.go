// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ast

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"
)

const (
	// DefaultMaxFileSize is the maximum file size the parser will accept (10MB).
	// Files larger than this are rejected to prevent memory exhaustion.
	DefaultMaxFileSize = 10 * 1024 * 1024

	// WarnFileSize is the threshold above which a warning is logged (1MB).
	WarnFileSize = 1024 * 1024
)

// CSharpParserOption configures a CSharpParser.
type CSharpParserOption func(*CSharpParser)

// WithMaxFileSize sets the maximum file size the parser will accept.
//
// Example:
//
//	parser := NewCSharpParser(WithMaxFileSize(5 * 1024 * 1024)) // 5MB limit
func WithMaxFileSize(bytes int64) CSharpParserOption {
	return func(p *CSharpParser) {
		if bytes > 0 {
			p.maxFileSize = bytes
		}
	}
}

// CSharpParser extracts documentable constructs from C# source files.
//
// Description:
//
//	The parser walks the tree-sitter parse tree once, in pre-order, and
//	flattens every class, struct, record, interface, enum, enum member,
//	constructor, method, and property declaration into a Construct. Body
//	facts the documentation strategies need later (throw sites, single-line
//	comments, the last returned identifier) are extracted in the same pass
//	so the tree can be released before Parse returns.
//
// Thread Safety: safe for concurrent use. A fresh tree-sitter parser is
// created per Parse call.
type CSharpParser struct {
	maxFileSize int64
}

// NewCSharpParser creates a parser with the given options applied.
func NewCSharpParser(opts ...CSharpParserOption) *CSharpParser {
	p := &CSharpParser{
		maxFileSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse extracts constructs from C# source content.
func (p *CSharpParser) Parse(ctx context.Context, content []byte, filePath string) (*ParseResult, error) {
	// Check context before starting
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}

	// Validate file size
	if int64(len(content)) > p.maxFileSize {
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(content), p.maxFileSize)
	}

	// Log warning for large files
	if len(content) > WarnFileSize {
		slog.Warn("parsing large file",
			slog.String("file", filePath),
			slog.Int("size_bytes", len(content)))
	}

	// Validate UTF-8
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrInvalidContent)
	}

	ctx, span := startParseSpan(ctx, "csharp", filePath, len(content))
	defer span.End()
	start := time.Now()

	// Compute hash before parsing (captures input)
	hash := sha256.Sum256(content)
	hashStr := hex.EncodeToString(hash[:])

	// Create tree-sitter parser (new instance per call for thread safety)
	parser := sitter.NewParser()
	parser.SetLanguage(csharp.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		recordParseMetrics(ctx, "csharp", time.Since(start), 0, false)
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	// Check context after parsing
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled after tree-sitter: %w", err)
	}

	result := &ParseResult{
		FilePath:      filePath,
		Language:      "csharp",
		Hash:          hashStr,
		ParsedAtMilli: time.Now().UnixMilli(),
		Constructs:    make([]*Construct, 0),
		Errors:        make([]string, 0),
	}

	rootNode := tree.RootNode()
	if rootNode == nil {
		result.Errors = append(result.Errors, "tree-sitter returned nil root node")
		return result, nil
	}
	if rootNode.HasError() {
		result.Errors = append(result.Errors, "source contains syntax errors")
	}

	p.walk(rootNode, content, result)

	recordParseMetrics(ctx, "csharp", time.Since(start), len(result.Constructs), true)
	setParseSpanResult(span, len(result.Constructs), len(result.Errors))
	return result, nil
}

// Language returns the canonical language name.
func (p *CSharpParser) Language() string {
	return "csharp"
}

// Extensions returns the file extensions this parser handles.
func (p *CSharpParser) Extensions() []string {
	return []string{".cs"}
}

// walk collects constructs from node's children in pre-order, recursing into
// namespaces and type bodies so nested declarations are found.
func (p *CSharpParser) walk(node *sitter.Node, content []byte, result *ParseResult) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "class_declaration", "struct_declaration", "record_declaration":
			result.Constructs = append(result.Constructs, p.processTypeLike(child, content, KindType))
			p.walk(child, content, result)
		case "interface_declaration":
			result.Constructs = append(result.Constructs, p.processTypeLike(child, content, KindInterface))
			p.walk(child, content, result)
		case "enum_declaration":
			result.Constructs = append(result.Constructs, p.processTypeLike(child, content, KindEnumeration))
			p.walk(child, content, result)
		case "enum_member_declaration":
			result.Constructs = append(result.Constructs, p.processEnumMember(child, content))
		case "constructor_declaration":
			result.Constructs = append(result.Constructs, p.processCallable(child, content, KindConstructor))
		case "method_declaration":
			result.Constructs = append(result.Constructs, p.processCallable(child, content, KindRoutine))
		case "property_declaration":
			result.Constructs = append(result.Constructs, p.processProperty(child, content))
		case "namespace_declaration", "file_scoped_namespace_declaration",
			"declaration_list", "enum_member_declaration_list", "global_statement":
			p.walk(child, content, result)
		}
	}
}

// processTypeLike handles class, struct, record, interface, and enum
// declarations. They share one shape: the name is the first direct
// identifier child.
func (p *CSharpParser) processTypeLike(node *sitter.Node, content []byte, kind ConstructKind) *Construct {
	c := p.newConstruct(node, content, kind)
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "modifier":
			c.Modifiers = append(c.Modifiers, text(child, content))
		case "identifier":
			if c.Identifier == "" {
				c.Identifier = text(child, content)
			}
		case "type_parameter_list":
			c.TypeParameters = p.extractTypeParameters(child, content)
		}
	}
	return c
}

// processEnumMember handles a single enum member declaration.
func (p *CSharpParser) processEnumMember(node *sitter.Node, content []byte) *Construct {
	c := p.newConstruct(node, content, KindEnumerationMember)
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "identifier" {
			c.Identifier = text(child, content)
			break
		}
	}
	return c
}

// processCallable handles constructor and method declarations.
//
// Name resolution works positionally: among the type-shaped children before
// the parameter list, the last is the name and the one before it is the
// return type. That covers "void Foo()", "User GetUser()", and explicit
// interface implementations like "void IFoo.Bar()" without relying on
// grammar field names.
func (p *CSharpParser) processCallable(node *sitter.Node, content []byte, kind ConstructKind) *Construct {
	c := p.newConstruct(node, content, kind)

	var typeish []*sitter.Node
collect:
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "modifier":
			c.Modifiers = append(c.Modifiers, text(child, content))
		case "identifier", "qualified_name", "generic_name", "predefined_type",
			"array_type", "nullable_type", "pointer_type", "tuple_type", "alias_qualified_name":
			typeish = append(typeish, child)
		case "type_parameter_list":
			c.TypeParameters = p.extractTypeParameters(child, content)
		case "parameter_list":
			c.Parameters = p.extractParameters(child, content)
			break collect
		}
	}
	if n := len(typeish); n > 0 {
		c.Identifier = text(typeish[n-1], content)
		if n > 1 && kind == KindRoutine {
			c.ReturnTypeToken = text(typeish[n-2], content)
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "block":
			c.HasBlockBody = true
			p.scanBlock(child, content, c)
		case "arrow_expression_clause":
			c.HasExpressionBody = true
		}
	}
	return c
}

// processProperty handles property declarations, including accessor lists
// and expression-bodied properties.
func (p *CSharpParser) processProperty(node *sitter.Node, content []byte) *Construct {
	c := p.newConstruct(node, content, KindProperty)

	var typeish []*sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "modifier":
			c.Modifiers = append(c.Modifiers, text(child, content))
		case "identifier", "qualified_name", "generic_name", "predefined_type",
			"array_type", "nullable_type", "tuple_type", "alias_qualified_name":
			typeish = append(typeish, child)
		case "accessor_list":
			c.Accessors = p.extractAccessors(child, content)
		case "arrow_expression_clause":
			c.HasExpressionBody = true
		}
	}
	if n := len(typeish); n > 0 {
		c.Identifier = text(typeish[n-1], content)
		if n > 1 {
			c.ReturnTypeToken = text(typeish[n-2], content)
		}
	}
	return c
}

// extractParameters pulls name/type pairs from a parameter_list in
// declaration order.
func (p *CSharpParser) extractParameters(list *sitter.Node, content []byte) []Parameter {
	var params []Parameter
	for i := 0; i < int(list.ChildCount()); i++ {
		child := list.Child(i)
		if child.Type() != "parameter" {
			continue
		}
		var typeish []*sitter.Node
		for j := 0; j < int(child.ChildCount()); j++ {
			pc := child.Child(j)
			switch pc.Type() {
			case "identifier", "qualified_name", "generic_name", "predefined_type",
				"array_type", "nullable_type", "tuple_type", "alias_qualified_name":
				typeish = append(typeish, pc)
			case "equals_value_clause":
				// Default values come after the name; stop here.
			}
		}
		if n := len(typeish); n > 0 {
			param := Parameter{Name: text(typeish[n-1], content)}
			if n > 1 {
				param.TypeToken = text(typeish[n-2], content)
			}
			params = append(params, param)
		}
	}
	return params
}

// extractTypeParameters pulls type parameter names in declaration order.
func (p *CSharpParser) extractTypeParameters(list *sitter.Node, content []byte) []string {
	var names []string
	for i := 0; i < int(list.ChildCount()); i++ {
		child := list.Child(i)
		if child.Type() != "type_parameter" {
			continue
		}
		// The name is the last identifier; variance keywords and
		// attributes come first.
		var name string
		for j := 0; j < int(child.ChildCount()); j++ {
			if tc := child.Child(j); tc.Type() == "identifier" {
				name = text(tc, content)
			}
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// extractAccessors pulls accessor keywords ("get", "set", "init", ...) in
// source order.
func (p *CSharpParser) extractAccessors(list *sitter.Node, content []byte) []string {
	var accessors []string
	for i := 0; i < int(list.ChildCount()); i++ {
		child := list.Child(i)
		if child.Type() != "accessor_declaration" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			switch kw := child.Child(j); kw.Type() {
			case "get", "set", "init", "add", "remove":
				accessors = append(accessors, kw.Type())
			}
		}
	}
	return accessors
}

// scanBlock walks a block body and records throw sites, single-line
// comments, and the last bare-identifier return. Nested local functions and
// lambdas are skipped: their bodies belong to a different scope.
func (p *CSharpParser) scanBlock(node *sitter.Node, content []byte, c *Construct) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "local_function_statement", "lambda_expression", "anonymous_method_expression":
			continue
		case "throw_statement", "throw_expression":
			if site, ok := p.extractThrowSite(child, content); ok {
				c.ThrowSites = append(c.ThrowSites, site)
			}
			p.scanBlock(child, content, c)
		case "return_statement":
			if ident, ok := bareReturnIdentifier(child); ok {
				c.LastReturnIdentifier = text(ident, content)
			}
			p.scanBlock(child, content, c)
		case "comment":
			raw := text(child, content)
			if strings.HasPrefix(raw, "//") && !strings.HasPrefix(raw, "///") {
				c.BodyComments = append(c.BodyComments, strings.TrimSpace(strings.TrimPrefix(raw, "//")))
			}
		default:
			p.scanBlock(child, content, c)
		}
	}
}

// extractThrowSite pulls the exception type and message from the object
// creation inside a throw. Bare rethrows ("throw;") report ok=false.
func (p *CSharpParser) extractThrowSite(throw *sitter.Node, content []byte) (ThrowSite, bool) {
	creation := findFirst(throw, "object_creation_expression")
	if creation == nil {
		return ThrowSite{}, false
	}

	var site ThrowSite
	for i := 0; i < int(creation.ChildCount()); i++ {
		child := creation.Child(i)
		switch child.Type() {
		case "identifier", "qualified_name", "generic_name", "predefined_type":
			if site.Type == "" {
				site.Type = text(child, content)
			}
		case "argument_list":
			site.Message = firstStringArgument(child, content)
		}
	}
	if site.Type == "" {
		return ThrowSite{}, false
	}
	return site, true
}

// firstStringArgument returns the unquoted text of the first plain or
// verbatim string literal argument, or "".
func firstStringArgument(args *sitter.Node, content []byte) string {
	for i := 0; i < int(args.ChildCount()); i++ {
		arg := args.Child(i)
		if arg.Type() != "argument" {
			continue
		}
		for j := 0; j < int(arg.ChildCount()); j++ {
			switch lit := arg.Child(j); lit.Type() {
			case "string_literal", "verbatim_string_literal":
				return unquote(text(lit, content))
			}
		}
	}
	return ""
}

// bareReturnIdentifier reports whether a return statement returns exactly
// one bare identifier.
func bareReturnIdentifier(ret *sitter.Node) (*sitter.Node, bool) {
	if ret.NamedChildCount() != 1 {
		return nil, false
	}
	child := ret.NamedChild(0)
	if child.Type() != "identifier" {
		return nil, false
	}
	return child, true
}

// findFirst returns the first descendant of the given type, depth first.
func findFirst(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == nodeType {
			return child
		}
		if found := findFirst(child, nodeType); found != nil {
			return found
		}
	}
	return nil
}

// newConstruct fills the span and documentation fields shared by all kinds.
func (p *CSharpParser) newConstruct(node *sitter.Node, content []byte, kind ConstructKind) *Construct {
	return &Construct{
		Kind:             kind,
		HasDocumentation: hasPrecedingDoc(node, content),
		StartByte:        node.StartByte(),
		EndByte:          node.EndByte(),
		StartLine:        node.StartPoint().Row + 1,
	}
}

// hasPrecedingDoc reports whether a documentation comment sits immediately
// above the declaration. Only the recognized formats count: triple-slash
// lines and "/**" blocks. A plain "//" note above a declaration is not
// documentation.
func hasPrecedingDoc(node *sitter.Node, content []byte) bool {
	prev := node.PrevSibling()
	if prev == nil || prev.Type() != "comment" {
		return false
	}
	raw := text(prev, content)
	return strings.HasPrefix(raw, "///") || strings.HasPrefix(raw, "/**")
}

// text slices a node's source text.
func text(node *sitter.Node, content []byte) string {
	return string(content[node.StartByte():node.EndByte()])
}

// unquote strips verbatim markers and surrounding quotes from a string
// literal token.
func unquote(s string) string {
	s = strings.TrimPrefix(s, "@")
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return s
}

// Compile-time interface check
var _ Parser = (*CSharpParser)(nil)
