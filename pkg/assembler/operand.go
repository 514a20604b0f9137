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
	"strconv"
	"strings"

	"github.com/lassandro/asm12/pkg/isa"
)

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Decimal integer with an optional sign, optionally surrounded by whitespace.
func LegalScalar(text string) bool {
	text = strings.TrimLeft(text, " \t\n\v\f\r")

	if len(text) > 0 && (text[0] == '-' || text[0] == '+') {
		text = text[1:]
	}

	digits := 0

	for digits < len(text) && isDigit(text[digits]) {
		digits++
	}

	if digits == 0 {
		return false
	}

	for i := digits; i < len(text); i++ {
		if !isSpace(text[i]) {
			return false
		}
	}

	return true
}

// Value of a scalar accepted by LegalScalar.
func parseScalar(text string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(text))
}

// Register index named by text, which must be r0 through r7. Anything else,
// r8 included, is an ordinary name.
func parseRegister(text string) (uint, bool) {
	if len(text) < 2 || text[0] != 'r' || !LegalScalar(text[1:]) {
		return 0, false
	}

	reg, err := parseScalar(text[1:])

	if err != nil || reg < 0 || reg >= isa.NUM_REGISTERS {
		return 0, false
	}

	return uint(reg), true
}

func AddressingModeOf(text string) isa.AddressingMode {
	if strings.HasPrefix(text, "#") {
		return isa.MODE_IMMEDIATE
	} else if strings.HasPrefix(text, "%") {
		return isa.MODE_RELATIVE
	}

	if _, ok := parseRegister(text); ok {
		return isa.MODE_REGISTER
	}

	return isa.MODE_DIRECT
}

// Reports whether name is a mnemonic, a directive keyword or a register.
func isReserved(name string, commands *isa.CommandTable) bool {
	if _, exists := commands.Lookup(name); exists {
		return true
	}

	for _, keyword := range keywords {
		if name == keyword {
			return true
		}
	}

	_, ok := parseRegister(name)
	return ok
}

func LegalSymbol(name string, commands *isa.CommandTable) bool {
	if len(name) == 0 || len(name) > MAX_SYMBOL_LENGTH || !isLetter(name[0]) {
		return false
	}

	for i := 1; i < len(name); i++ {
		if !isLetter(name[i]) && !isDigit(name[i]) {
			return false
		}
	}

	return !isReserved(name, commands)
}

// Checks the form of an operand; whether a referenced symbol exists is left
// to the second pass.
func LegalOperand(
	text string, mode isa.AddressingMode, commands *isa.CommandTable,
) bool {
	switch mode {
	case isa.MODE_IMMEDIATE:
		return strings.HasPrefix(text, "#") && LegalScalar(text[1:])
	case isa.MODE_REGISTER:
		_, ok := parseRegister(text)
		return ok
	case isa.MODE_RELATIVE:
		return strings.HasPrefix(text, "%") && LegalSymbol(text[1:], commands)
	}

	return LegalSymbol(text, commands)
}
