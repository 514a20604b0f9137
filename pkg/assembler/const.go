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

import "github.com/lassandro/asm12/pkg/encoding"

const (
	// First address of the instruction image
	LOAD_ADDRESS = 100

	// Significant characters allowed on a source line
	MAX_LINE_LENGTH = 80

	MAX_SYMBOL_LENGTH = 31

	// Words addressable by a 12-bit operand
	MEMORY_SIZE = 1 << encoding.WORD_SIZE
)

const (
	LINE_BLANK LineType = iota
	LINE_COMMENT
	LINE_CONTENT
)

const (
	DIRECTIVE_INVALID DirectiveType = iota
	DIRECTIVE_DATA
	DIRECTIVE_STRING
	DIRECTIVE_ENTRY
	DIRECTIVE_EXTERN
)

const (
	RELOCATION_ABSOLUTE    Relocation = 'A'
	RELOCATION_RELOCATABLE Relocation = 'R'
	RELOCATION_EXTERNAL    Relocation = 'E'
)

const (
	// Fail if the name is already taken
	INSTALL_NEW InstallMode = iota
	// Overwrite whatever is stored under the name
	INSTALL_REPLACE
)

// Reserved words that may not name a symbol, besides mnemonics and registers.
var keywords = [...]string{"entry", "extern", "data", "string"}
