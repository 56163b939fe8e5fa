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

import "strings"

// contentEscaper escapes XML-reserved characters in element content.
var contentEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// attrEscaper additionally escapes quotes for attribute values.
var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// Render serializes the comment as triple-slash XML documentation lines.
//
// Description:
//
//	Sections render in the fixed order Summary, TypeParams, Params, Returns,
//	Exceptions, Value. The summary spans three lines (open tag, text, close
//	tag); every other section is a single line. Each line starts with the
//	given indentation followed by "/// " and ends with a newline, so the
//	result can be inserted verbatim in front of a construct's first line.
//
// Inputs:
//
//	indent - Leading whitespace copied from the construct's own line.
//
// Outputs:
//
//	string - The rendered block, ending with a newline. Empty sections are
//	         omitted entirely.
func (c *StructuredComment) Render(indent string) string {
	var sb strings.Builder
	line := func(text string) {
		sb.WriteString(indent)
		sb.WriteString("/// ")
		sb.WriteString(text)
		sb.WriteByte('\n')
	}

	line("<summary>")
	line(contentEscaper.Replace(strings.Join(c.Summary, " ")))
	line("</summary>")

	for _, tp := range c.TypeParams {
		line(`<typeparam name="` + attrEscaper.Replace(tp.Name) + `">` +
			contentEscaper.Replace(tp.Description) + "</typeparam>")
	}
	for _, p := range c.Params {
		line(`<param name="` + attrEscaper.Replace(p.Name) + `">` +
			contentEscaper.Replace(p.Description) + "</param>")
	}
	if c.Returns != "" {
		line("<returns>" + contentEscaper.Replace(c.Returns) + "</returns>")
	}
	for _, ex := range c.Exceptions {
		line(`<exception cref="` + attrEscaper.Replace(ex.Type) + `">` +
			contentEscaper.Replace(ex.Message) + "</exception>")
	}
	if c.Value != "" {
		line("<value>" + contentEscaper.Replace(c.Value) + "</value>")
	}
	return sb.String()
}
