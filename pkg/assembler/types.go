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

import (
	"fmt"

	"github.com/lassandro/asm12/pkg/encoding"
	"github.com/lassandro/asm12/pkg/isa"
)

type LineType uint
type DirectiveType uint
type Relocation byte
type InstallMode uint

// Location of a token in the source. Line and Column are 1-based; Size is
// the token length in bytes.
type Cursor struct {
	Line   int
	Column int
	Size   int
}

type Symbol struct {
	Name  string
	Value int

	IsCode     bool
	IsData     bool
	IsEntry    bool
	IsExternal bool

	// Addresses referencing an external symbol, in the order they were seen
	Usages []int
}

// Payload is either Encoded or Unresolved.
type Payload interface {
	isPayload()
}

type Encoded struct {
	Bits encoding.Word
}

// A symbol reference that can only be encoded once every symbol is known.
type Unresolved struct {
	Name     string
	Relative bool
}

func (Encoded) isPayload()    {}
func (Unresolved) isPayload() {}

type Word struct {
	Address    int
	Payload    Payload
	Relocation Relocation
	Position   Cursor
}

// Bits of a resolved word. Unresolved words report false.
func (word *Word) Bits() (encoding.Word, bool) {
	if encoded, ok := word.Payload.(Encoded); ok {
		return encoded.Bits, true
	}

	return 0, false
}

// A .entry statement kept from the first pass for the second.
type EntryDirective struct {
	Position Cursor
	Name     string
	Trailing string
	TrailPos Cursor
}

type Program struct {
	LoadAddress int

	Code []Word
	Data []Word

	// Final instruction and data counters
	ICF int
	DCF int

	Symbols *SymbolTable
	Entries []EntryDirective
}

type TokenError interface {
	GetPosition() Cursor
}

type LineTooLongError struct {
	Position Cursor
	Received int
}

func (err *LineTooLongError) GetPosition() Cursor {
	return err.Position
}

func (err *LineTooLongError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Line exceeds allowed length\n\twant:%d\n\thave:%d",
		err.Position.Line,
		err.Position.Column,
		MAX_LINE_LENGTH,
		err.Received,
	)
}

type MalformedLabelError struct {
	Position Cursor
	Received string
}

func (err *MalformedLabelError) GetPosition() Cursor {
	return err.Position
}

func (err *MalformedLabelError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Illegal symbol name '%s'\n"+
			"\tsymbols begin with a letter, contain only letters and digits, "+
			"are at most %d characters long and are not reserved words",
		err.Position.Line,
		err.Position.Column,
		err.Received,
		MAX_SYMBOL_LENGTH,
	)
}

type UnexpectedCharacterError struct {
	Position Cursor
	Received rune
}

func (err *UnexpectedCharacterError) GetPosition() Cursor {
	return err.Position
}

func (err *UnexpectedCharacterError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unexpected character %c",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type EmptyLabelError struct {
	Position Cursor
	Received string
}

func (err *EmptyLabelError) GetPosition() Cursor {
	return err.Position
}

func (err *EmptyLabelError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Label '%s' labels nothing",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type DuplicateSymbolError struct {
	Position Cursor
	Received string
}

func (err *DuplicateSymbolError) GetPosition() Cursor {
	return err.Position
}

func (err *DuplicateSymbolError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Redeclaration of symbol '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type UnknownMnemonicError struct {
	Position Cursor
	Received string
}

func (err *UnknownMnemonicError) GetPosition() Cursor {
	return err.Position
}

func (err *UnknownMnemonicError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unknown instruction '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type InvalidAddressingModeError struct {
	Position Cursor
	Required isa.ModeSet
	Received isa.AddressingMode
}

func (err *InvalidAddressingModeError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidAddressingModeError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid addressing method\n\twant:%s\n\thave:%s",
		err.Position.Line,
		err.Position.Column,
		err.Required,
		err.Received,
	)
}

type InvalidRelativeTargetError struct {
	Position Cursor
	Received string
	External bool
}

func (err *InvalidRelativeTargetError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidRelativeTargetError) Error() string {
	kind := "a non-code"

	if err.External {
		kind = "an external"
	}

	return fmt.Sprintf(
		"%02d:%02d: Relative addressing cannot target %s symbol '%s'",
		err.Position.Line,
		err.Position.Column,
		kind,
		err.Received,
	)
}

type IllegalOperandError struct {
	Position Cursor
	Received string
}

func (err *IllegalOperandError) GetPosition() Cursor {
	return err.Position
}

func (err *IllegalOperandError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Illegal operand '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type OversizedLiteralError struct {
	Position Cursor
	Received int
}

func (err *OversizedLiteralError) GetPosition() Cursor {
	return err.Position
}

func (err *OversizedLiteralError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Literal exceeds allowed size\n\twant:[%d, %d]\n\thave:%d",
		err.Position.Line,
		err.Position.Column,
		encoding.WORD_MIN,
		encoding.WORD_MAX,
		err.Received,
	)
}

type MissingOperandError struct {
	Position Cursor
}

func (err *MissingOperandError) GetPosition() Cursor {
	return err.Position
}

func (err *MissingOperandError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Missing operand",
		err.Position.Line,
		err.Position.Column,
	)
}

type MissingCommaError struct {
	Position Cursor
}

func (err *MissingCommaError) GetPosition() Cursor {
	return err.Position
}

func (err *MissingCommaError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Missing comma between operands",
		err.Position.Line,
		err.Position.Column,
	)
}

type UnterminatedStringError struct {
	Position Cursor
}

func (err *UnterminatedStringError) GetPosition() Cursor {
	return err.Position
}

func (err *UnterminatedStringError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid string literal",
		err.Position.Line,
		err.Position.Column,
	)
}

type EmptyDirectiveError struct {
	Position  Cursor
	Directive string
}

func (err *EmptyDirectiveError) GetPosition() Cursor {
	return err.Position
}

func (err *EmptyDirectiveError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Empty %s directive",
		err.Position.Line,
		err.Position.Column,
		err.Directive,
	)
}

type TrailingTextError struct {
	Position Cursor
	Received string
}

func (err *TrailingTextError) GetPosition() Cursor {
	return err.Position
}

func (err *TrailingTextError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unrecognized extra text '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type TrailingCommaError struct {
	Position Cursor
}

func (err *TrailingCommaError) GetPosition() Cursor {
	return err.Position
}

func (err *TrailingCommaError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: .data cannot end with a comma",
		err.Position.Line,
		err.Position.Column,
	)
}

type UndefinedSymbolError struct {
	Position Cursor
	Received string
}

func (err *UndefinedSymbolError) GetPosition() Cursor {
	return err.Position
}

func (err *UndefinedSymbolError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unknown symbol '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type EntryExternConflictError struct {
	Position Cursor
	Received string
}

func (err *EntryExternConflictError) GetPosition() Cursor {
	return err.Position
}

func (err *EntryExternConflictError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Symbol '%s' cannot be both .entry and .extern",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type ExternalRedeclarationError struct {
	Position Cursor
	Received string
	External bool
}

func (err *ExternalRedeclarationError) GetPosition() Cursor {
	return err.Position
}

func (err *ExternalRedeclarationError) Error() string {
	if err.External {
		return fmt.Sprintf(
			"%02d:%02d: External symbol '%s' is declared twice",
			err.Position.Line,
			err.Position.Column,
			err.Received,
		)
	}

	return fmt.Sprintf(
		"%02d:%02d: Symbol '%s' is already defined in this file",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type EncodingFailureError struct {
	Position Cursor
	Received int
}

func (err *EncodingFailureError) GetPosition() Cursor {
	return err.Position
}

func (err *EncodingFailureError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Program exceeds addressable memory\n\twant:%d\n\thave:%d",
		err.Position.Line,
		err.Position.Column,
		MEMORY_SIZE,
		err.Received,
	)
}

// Not an error: a label in front of .entry or .extern is accepted but
// carries no address.
type IgnoredLabelWarning struct {
	Position  Cursor
	Received  string
	Directive string
}

func (err *IgnoredLabelWarning) GetPosition() Cursor {
	return err.Position
}

func (err *IgnoredLabelWarning) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Warning: label '%s' before %s is meaningless",
		err.Position.Line,
		err.Position.Column,
		err.Received,
		err.Directive,
	)
}

type OversizedCharacterError struct {
	Position Cursor
}

func (err *OversizedCharacterError) GetPosition() Cursor {
	return err.Position
}

func (err *OversizedCharacterError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Character exceeds ASCII limit",
		err.Position.Line,
		err.Position.Column,
	)
}
