// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bufio"
	"bytes"
	"log"
	"strings"

	"github.com/lassandro/asm12/pkg/assembler"
)

type diagnostics struct {
	logger *log.Logger
	lines  []string
	color  bool
}

func newDiagnostics(logger *log.Logger, source []byte, color bool) *diagnostics {
	lines := make([]string, 0)
	scanner := bufio.NewScanner(bytes.NewReader(source))

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	return &diagnostics{logger: logger, lines: lines, color: color}
}

// Marks the token under cursor, keeping tabs so the marker lines up with the
// source as printed.
func underline(line string, cursor assembler.Cursor) string {
	column := cursor.Column

	if column < 1 {
		column = 1
	} else if column > len(line)+1 {
		column = len(line) + 1
	}

	size := cursor.Size

	if size < 1 {
		size = 1
	}

	var builder strings.Builder

	for i := 0; i < column-1; i++ {
		if line[i] == '\t' {
			builder.WriteByte('\t')
		} else {
			builder.WriteByte(' ')
		}
	}

	builder.WriteByte('^')
	builder.WriteString(strings.Repeat("~", size-1))

	return builder.String()
}

// Prints err followed by the offending source line when err has a position.
func (diag *diagnostics) Report(err error) {
	tokenErr, ok := err.(assembler.TokenError)

	if !ok {
		diag.logger.Println(err)
		return
	}

	cursor := tokenErr.GetPosition()

	if cursor.Line < 1 || cursor.Line > len(diag.lines) {
		diag.logger.Println(err)
		return
	}

	line := diag.lines[cursor.Line-1]
	marker := underline(line, cursor)

	if diag.color {
		marker = "\033[31m" + marker + "\033[0m"
	}

	diag.logger.Printf("%s\n%s\n%s", err, line, marker)
}
