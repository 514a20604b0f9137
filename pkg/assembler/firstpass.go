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
	"strings"
	"unicode"

	"github.com/golang/glog"

	"github.com/lassandro/asm12/pkg/encoding"
	"github.com/lassandro/asm12/pkg/isa"
)

func parseDirective(token string) DirectiveType {
	switch token {
	case ".data":
		return DIRECTIVE_DATA
	case ".string":
		return DIRECTIVE_STRING
	case ".entry":
		return DIRECTIVE_ENTRY
	case ".extern":
		return DIRECTIVE_EXTERN
	}

	return DIRECTIVE_INVALID
}

// Reports whether text holds two words separated by whitespace.
func hasSpaceBetweenWords(text string) bool {
	return len(strings.Fields(text)) > 1
}

// State of the first pass over one source file.
//
// Every call to ScanLine advances IC and DC by the number of words the line
// emits. Lines with errors emit nothing; their errors are kept in Errors and
// scanning may continue so that one run reports as much as possible.
type FirstPass struct {
	LoadAddress int

	// Instruction and data counters
	IC int
	DC int

	Code []Word
	Data []Word

	Symbols *SymbolTable
	Entries []EntryDirective

	Errors   []error
	Warnings []error

	// Set once an error leaves nothing worth scanning for
	Fatal bool

	commands *isa.CommandTable
	program  *Program
}

func NewFirstPass(commands *isa.CommandTable, loadAddress int) *FirstPass {
	return &FirstPass{
		LoadAddress: loadAddress,
		IC:          loadAddress,
		Symbols:     NewSymbolTable(),
		commands:    commands,
	}
}

// Assembles one line of source. number is the 1-based line number used in
// diagnostics. The returned error, if any, has also been recorded in Errors.
func (pass *FirstPass) ScanLine(number int, line string) error {
	err := pass.scanLine(number, line)

	if err != nil {
		pass.Errors = append(pass.Errors, err)
	}

	return err
}

func (pass *FirstPass) scanLine(number int, line string) error {
	if length := len(strings.TrimRightFunc(line, unicode.IsSpace)); length > MAX_LINE_LENGTH {
		return &LineTooLongError{
			Cursor{number, MAX_LINE_LENGTH + 1, length - MAX_LINE_LENGTH},
			length,
		}
	}

	if ClassifyLine(line) != LINE_CONTENT {
		return nil
	}

	scanner := newLineScanner(number, line)
	token, delim, position := scanner.next(" :")

	var label *Symbol
	var labelPos Cursor

	if delim == ':' {
		if !LegalSymbol(token, pass.commands) {
			return &MalformedLabelError{position, token}
		}

		if c := scanner.peek(); c != 0 && !isSpace(c) {
			return &UnexpectedCharacterError{
				Cursor{number, scanner.pos + 1, 1}, rune(c),
			}
		}

		if ClassifyLine(line[scanner.pos:]) != LINE_CONTENT {
			return &EmptyLabelError{position, token}
		}

		label = &Symbol{Name: token}
		labelPos = position

		if err := pass.Symbols.Install(label, INSTALL_NEW); err != nil {
			return &DuplicateSymbolError{position, token}
		}

		token, _, position = scanner.next(" ")
	}

	switch parseDirective(token) {
	case DIRECTIVE_DATA:
		return pass.scanData(scanner, label, position)

	case DIRECTIVE_STRING:
		return pass.scanString(scanner, label, position)

	case DIRECTIVE_ENTRY:
		if label != nil {
			pass.warn(&IgnoredLabelWarning{labelPos, label.Name, token})
		}

		name, _, namePos := scanner.next(" ")
		trailing, trailPos := scanner.rest()

		if name == "" {
			namePos = scanner.end()
		}

		pass.Entries = append(pass.Entries, EntryDirective{
			Position: namePos,
			Name:     name,
			Trailing: trailing,
			TrailPos: trailPos,
		})

		return nil

	case DIRECTIVE_EXTERN:
		if label != nil {
			pass.warn(&IgnoredLabelWarning{labelPos, label.Name, token})
		}

		return pass.scanExtern(scanner)
	}

	return pass.scanInstruction(scanner, label, token, position)
}

func (pass *FirstPass) warn(warning error) {
	pass.Warnings = append(pass.Warnings, warning)
}

func (pass *FirstPass) trailing(scanner *lineScanner) error {
	if text, position := scanner.rest(); text != "" {
		return &TrailingTextError{position, text}
	}

	return nil
}

// Fails the whole translation once the images no longer fit in memory.
func (pass *FirstPass) checkCapacity(position Cursor) error {
	if size := pass.IC + pass.DC; size > MEMORY_SIZE {
		pass.Fatal = true
		return &EncodingFailureError{position, size}
	}

	return nil
}

func (pass *FirstPass) emitData(words []Word, position Cursor) error {
	for i := range words {
		words[i].Address = pass.DC
		words[i].Relocation = RELOCATION_ABSOLUTE
		pass.DC++
	}

	pass.Data = append(pass.Data, words...)
	return pass.checkCapacity(position)
}

// .data 4, -3, 7
func (pass *FirstPass) scanData(
	scanner *lineScanner, label *Symbol, keyword Cursor,
) error {
	if label != nil {
		label.IsData = true
		label.Value = pass.DC
	}

	if ClassifyLine(scanner.line[scanner.pos:]) == LINE_BLANK {
		return &EmptyDirectiveError{keyword, ".data"}
	}

	var words []Word
	var comma Cursor

	for {
		item, delim, position := scanner.next(",")

		if item == "" {
			if delim == 0 && len(words) > 0 {
				return &TrailingCommaError{comma}
			}

			return &MissingOperandError{position}
		}

		if !LegalScalar(item) {
			return &IllegalOperandError{position, strings.TrimSpace(item)}
		}

		value, err := parseScalar(item)

		if err != nil || !encoding.Fits(value) {
			return &OversizedLiteralError{position, value}
		}

		words = append(words, Word{
			Payload:  Encoded{encoding.EncodeScalar(value)},
			Position: position,
		})

		if delim == 0 {
			break
		}

		comma = Cursor{scanner.number, scanner.pos, 1}
	}

	return pass.emitData(words, keyword)
}

// .string "abc"
func (pass *FirstPass) scanString(
	scanner *lineScanner, label *Symbol, keyword Cursor,
) error {
	if label != nil {
		label.IsData = true
		label.Value = pass.DC
	}

	scanner.skipSpace()

	open := scanner.pos

	switch scanner.peek() {
	case 0:
		return &EmptyDirectiveError{keyword, ".string"}
	case '"':
	default:
		text, position := scanner.rest()
		return &IllegalOperandError{position, text}
	}

	body := scanner.line[open+1:]
	end := strings.IndexByte(body, '"')

	if end < 0 {
		return &UnterminatedStringError{
			scanner.cursor(open, len(strings.TrimRightFunc(scanner.line, unicode.IsSpace))),
		}
	}

	text := body[:end]
	scanner.pos = open + 1 + end + 1

	if text == "" {
		return &EmptyDirectiveError{scanner.cursor(open, scanner.pos), ".string"}
	}

	words := make([]Word, 0, len(text)+1)

	for i := 0; i < len(text); i++ {
		position := scanner.cursor(open+1+i, open+2+i)

		if text[i] > unicode.MaxASCII {
			return &OversizedCharacterError{position}
		}

		words = append(words, Word{
			Payload:  Encoded{encoding.EncodeChar(text[i])},
			Position: position,
		})
	}

	if err := pass.trailing(scanner); err != nil {
		return err
	}

	words = append(words, Word{
		Payload:  Encoded{encoding.EncodeChar(0)},
		Position: scanner.cursor(scanner.pos-1, scanner.pos),
	})

	return pass.emitData(words, keyword)
}

// .extern NAME
func (pass *FirstPass) scanExtern(scanner *lineScanner) error {
	name, _, position := scanner.next(" ")

	if name == "" {
		return &MissingOperandError{scanner.end()}
	}

	if !LegalSymbol(name, pass.commands) {
		return &MalformedLabelError{position, name}
	}

	if existing, exists := pass.Symbols.Lookup(name); exists {
		return &ExternalRedeclarationError{position, name, existing.IsExternal}
	}

	if err := pass.trailing(scanner); err != nil {
		return err
	}

	glog.V(2).Infof("Declaring external %q", name)

	return pass.Symbols.Install(&Symbol{
		Name:       name,
		IsExternal: true,
		Usages:     []int{},
	}, INSTALL_REPLACE)
}

type operand struct {
	Text     string
	Mode     isa.AddressingMode
	Allowed  isa.ModeSet
	Position Cursor
}

// Word following the command word for op. Direct and relative operands stay
// unresolved until the second pass.
func (pass *FirstPass) operandWord(op *operand) (Word, error) {
	word := Word{Relocation: RELOCATION_ABSOLUTE, Position: op.Position}

	switch op.Mode {
	case isa.MODE_IMMEDIATE:
		value, err := parseScalar(op.Text[1:])

		if err != nil || !encoding.Fits(value) {
			return word, &OversizedLiteralError{op.Position, value}
		}

		word.Payload = Encoded{encoding.EncodeScalar(value)}

	case isa.MODE_REGISTER:
		reg, _ := parseRegister(op.Text)
		word.Payload = Encoded{encoding.EncodeRegister(reg)}

	case isa.MODE_RELATIVE:
		word.Payload = Unresolved{Name: op.Text[1:], Relative: true}

	default:
		word.Payload = Unresolved{Name: op.Text}
		word.Relocation = RELOCATION_RELOCATABLE
	}

	return word, nil
}

func (pass *FirstPass) scanInstruction(
	scanner *lineScanner, label *Symbol, token string, keyword Cursor,
) error {
	command, exists := pass.commands.Lookup(token)

	if !exists {
		return &UnknownMnemonicError{keyword, token}
	}

	if label != nil {
		label.IsCode = true
		label.Value = pass.IC
		glog.V(2).Infof("Defining %q at %d", label.Name, pass.IC)
	}

	operands := make([]operand, 0, command.Operands)

	switch command.Operands {
	case 1:
		text, _, position := scanner.next(" ")

		if text == "" {
			return &MissingOperandError{scanner.end()}
		}

		operands = append(operands, operand{
			Text:     text,
			Allowed:  command.Destination,
			Position: position,
		})

	case 2:
		first, delim, firstPos := scanner.next(",")

		if delim != ',' && hasSpaceBetweenWords(first) {
			return &MissingCommaError{firstPos}
		}

		first = strings.TrimRightFunc(first, unicode.IsSpace)
		firstPos.Size = len(first)

		second, _, secondPos := scanner.next(" ")

		if first == "" {
			return &MissingOperandError{firstPos}
		}

		if second == "" {
			return &MissingOperandError{scanner.end()}
		}

		operands = append(operands,
			operand{
				Text:     first,
				Allowed:  command.Source,
				Position: firstPos,
			},
			operand{
				Text:     second,
				Allowed:  command.Destination,
				Position: secondPos,
			},
		)
	}

	for i := range operands {
		op := &operands[i]
		op.Mode = AddressingModeOf(op.Text)

		if !op.Allowed.Has(op.Mode) {
			return &InvalidAddressingModeError{op.Position, op.Allowed, op.Mode}
		}
	}

	for i := range operands {
		op := &operands[i]

		if !LegalOperand(op.Text, op.Mode, pass.commands) {
			return &IllegalOperandError{op.Position, op.Text}
		}
	}

	if err := pass.trailing(scanner); err != nil {
		return err
	}

	var src, dst isa.AddressingMode

	switch len(operands) {
	case 1:
		dst = operands[0].Mode
	case 2:
		src = operands[0].Mode
		dst = operands[1].Mode
	}

	words := make([]Word, 0, len(operands)+1)
	words = append(words, Word{
		Payload: Encoded{encoding.EncodeCommand(
			command.Opcode, command.Funct, uint(src), uint(dst),
		)},
		Relocation: RELOCATION_ABSOLUTE,
		Position:   keyword,
	})

	for i := range operands {
		word, err := pass.operandWord(&operands[i])

		if err != nil {
			return err
		}

		words = append(words, word)
	}

	for i := range words {
		words[i].Address = pass.IC
		pass.IC++
	}

	pass.Code = append(pass.Code, words...)
	return pass.checkCapacity(keyword)
}

// Completes the pass. On success the data image and data symbols are moved
// behind the instruction image and the program is ready for the second pass;
// otherwise the accumulated errors are returned and no program is built.
func (pass *FirstPass) Finish() (*Program, []error) {
	if len(pass.Errors) > 0 {
		return nil, pass.Errors
	}

	if pass.program != nil {
		return pass.program, nil
	}

	icf := pass.IC

	for i := range pass.Data {
		pass.Data[i].Address += icf
	}

	pass.Symbols.Rebase(icf)

	pass.program = &Program{
		LoadAddress: pass.LoadAddress,
		Code:        pass.Code,
		Data:        pass.Data,
		ICF:         icf,
		DCF:         pass.DC,
		Symbols:     pass.Symbols,
		Entries:     pass.Entries,
	}

	return pass.program, nil
}
