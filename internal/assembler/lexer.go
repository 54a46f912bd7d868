// Copyright 2024 The TealVM Authors
// This file is part of TealVM.
//
// TealVM is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// TealVM is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with TealVM. If not, see <http://www.gnu.org/licenses/>.

// Package assembler turns line-oriented source text into a bytecode
// program the teal engine can execute, and back again.
package assembler

import (
	"strings"
)

// sourceLine is one physical line of source, already stripped of comments
// and leading/trailing whitespace, split into whitespace-separated fields.
// line is 1-based for error reporting.
type sourceLine struct {
	line   int
	fields []string
}

// lexLines splits src into sourceLines, dropping blank lines and // line
// comments. It does not interpret quoting beyond keeping a double-quoted
// byte-string literal (an operand of pushbytes, bytecblock and pushbytess)
// as one field.
func lexLines(src string) []sourceLine {
	var out []sourceLine
	for i, raw := range strings.Split(src, "\n") {
		text := stripComment(raw)
		fields := splitFields(text)
		if len(fields) == 0 {
			continue
		}
		out = append(out, sourceLine{line: i + 1, fields: fields})
	}
	return out
}

// stripComment removes a trailing // comment, respecting double-quoted
// strings so a // inside a string literal is not treated as a comment.
func stripComment(s string) string {
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' && (i == 0 || s[i-1] != '\\'):
			inQuote = !inQuote
		case c == '/' && !inQuote && i+1 < len(s) && s[i+1] == '/':
			return s[:i]
		}
	}
	return s
}

// splitFields tokenizes a line on whitespace, keeping a double-quoted
// string (with escapes) as a single field including its quotes.
func splitFields(s string) []string {
	var fields []string
	var cur strings.Builder
	inQuote := false
	flush := func() {
		if cur.Len() > 0 {
			fields = append(fields, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			cur.WriteByte(c)
			if i > 0 && s[i-1] == '\\' {
				continue
			}
			inQuote = !inQuote
		case (c == ' ' || c == '\t') && !inQuote:
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return fields
}
