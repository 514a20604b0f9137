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

package assembler

import "strings"

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}

	return false
}

// A space in delims stands for any whitespace character.
func isDelim(c byte, delims string) bool {
	for i := 0; i < len(delims); i++ {
		if delims[i] == ' ' {
			if isSpace(c) {
				return true
			}
		} else if delims[i] == c {
			return true
		}
	}

	return false
}

func ClassifyLine(line string) LineType {
	for i := 0; i < len(line); i++ {
		if line[i] == ';' {
			return LINE_COMMENT
		}

		if !isSpace(line[i]) {
			return LINE_CONTENT
		}
	}

	return LINE_BLANK
}

func scanToken(line string, delims string) (start, end, consumed int) {
	for start < len(line) && isSpace(line[start]) {
		start++
	}

	end = start

	for end < len(line) && !isDelim(line[end], delims) {
		end++
	}

	consumed = end

	if end < len(line) {
		consumed++
	}

	return
}

// Extracts the text between the first non-space character of line and the
// next character in delims. The returned count covers the skipped
// whitespace, the token and the delimiter, so line[consumed:] resumes right
// after the delimiter.
func NextToken(line string, delims string) (token string, consumed int) {
	start, end, consumed := scanToken(line, delims)
	return line[start:end], consumed
}

// Cursor over a single source line.
type lineScanner struct {
	number int
	line   string
	pos    int
}

func newLineScanner(number int, line string) *lineScanner {
	return &lineScanner{number: number, line: line}
}

func (scanner *lineScanner) cursor(start, end int) Cursor {
	return Cursor{Line: scanner.number, Column: start + 1, Size: end - start}
}

// Reads the next token and reports the delimiter that ended it, or 0 at the
// end of the line.
func (scanner *lineScanner) next(delims string) (string, byte, Cursor) {
	rest := scanner.line[scanner.pos:]
	start, end, consumed := scanToken(rest, delims)

	var delim byte

	if end < len(rest) {
		delim = rest[end]
	}

	position := scanner.cursor(scanner.pos+start, scanner.pos+end)
	token := rest[start:end]
	scanner.pos += consumed

	return token, delim, position
}

func (scanner *lineScanner) skipSpace() {
	for scanner.pos < len(scanner.line) && isSpace(scanner.line[scanner.pos]) {
		scanner.pos++
	}
}

func (scanner *lineScanner) peek() byte {
	if scanner.pos < len(scanner.line) {
		return scanner.line[scanner.pos]
	}

	return 0
}

// Remaining text with surrounding whitespace removed, and where it starts.
func (scanner *lineScanner) rest() (string, Cursor) {
	scanner.skipSpace()

	start := scanner.pos
	text := strings.TrimRight(scanner.line[start:], " \t\n\v\f\r")
	scanner.pos = len(scanner.line)

	return text, scanner.cursor(start, start+len(text))
}

// Column at which the line ends, used for errors about missing text.
func (scanner *lineScanner) end() Cursor {
	end := len(strings.TrimRight(scanner.line, " \t\n\v\f\r"))
	return scanner.cursor(end, end+1)
}
