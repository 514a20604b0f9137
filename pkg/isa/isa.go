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

// Package isa describes the instruction set accepted by the assembler: the
// mnemonics, their opcode and funct fields, and which addressing modes each
// operand position takes.
package isa

import (
	"fmt"
	"strings"
)

type AddressingMode uint

// Values are the 2-bit codes written into a command word.
const (
	MODE_IMMEDIATE AddressingMode = 0
	MODE_DIRECT    AddressingMode = 1
	MODE_RELATIVE  AddressingMode = 2
	MODE_REGISTER  AddressingMode = 3
)

const NUM_REGISTERS = 8

func (mode AddressingMode) String() string {
	switch mode {
	case MODE_IMMEDIATE:
		return "Immediate"
	case MODE_DIRECT:
		return "Direct"
	case MODE_RELATIVE:
		return "Relative"
	case MODE_REGISTER:
		return "Register"
	}

	return "<invalid>"
}

// Set of addressing modes, one bit per AddressingMode.
type ModeSet uint8

func Modes(modes ...AddressingMode) ModeSet {
	var set ModeSet

	for _, mode := range modes {
		set |= 1 << mode
	}

	return set
}

func (set ModeSet) Has(mode AddressingMode) bool {
	return set&(1<<mode) != 0
}

func (set ModeSet) String() string {
	names := make([]string, 0, 4)

	for mode := MODE_IMMEDIATE; mode <= MODE_REGISTER; mode++ {
		if set.Has(mode) {
			names = append(names, mode.String())
		}
	}

	if len(names) == 0 {
		return "none"
	}

	return strings.Join(names, ", ")
}

type Command struct {
	Name        string
	Opcode      uint
	Funct       uint
	Operands    int
	Source      ModeSet
	Destination ModeSet
}

// Read-only lookup of commands by mnemonic.
type CommandTable struct {
	commands map[string]*Command
	order    []string
}

func NewCommandTable(commands ...Command) (*CommandTable, error) {
	table := &CommandTable{
		commands: make(map[string]*Command, len(commands)),
		order:    make([]string, 0, len(commands)),
	}

	for i := range commands {
		command := commands[i]

		if command.Operands < 0 || command.Operands > 2 {
			return nil, fmt.Errorf(
				"command %s: invalid operand count %d",
				command.Name,
				command.Operands,
			)
		}

		if command.Operands < 2 && command.Source != 0 {
			return nil, fmt.Errorf(
				"command %s: source modes given without a source operand",
				command.Name,
			)
		}

		if _, exists := table.commands[command.Name]; exists {
			return nil, fmt.Errorf("command %s declared twice", command.Name)
		}

		table.commands[command.Name] = &command
		table.order = append(table.order, command.Name)
	}

	return table, nil
}

func (table *CommandTable) Lookup(name string) (*Command, bool) {
	command, exists := table.commands[name]
	return command, exists
}

func (table *CommandTable) Names() []string {
	return append([]string(nil), table.order...)
}

var (
	srcAny    = Modes(MODE_IMMEDIATE, MODE_DIRECT, MODE_REGISTER)
	dstStore  = Modes(MODE_DIRECT, MODE_REGISTER)
	dstJump   = Modes(MODE_DIRECT, MODE_RELATIVE)
	dstRead   = Modes(MODE_IMMEDIATE, MODE_DIRECT, MODE_REGISTER)
	srcLabel  = Modes(MODE_DIRECT)
	noOperand = ModeSet(0)
)

// The standard instruction set.
var DefaultCommands = mustCommandTable(
	Command{"mov", 0, 0, 2, srcAny, dstStore},
	Command{"cmp", 1, 0, 2, srcAny, dstRead},
	Command{"add", 2, 10, 2, srcAny, dstStore},
	Command{"sub", 2, 11, 2, srcAny, dstStore},
	Command{"lea", 4, 0, 2, srcLabel, dstStore},
	Command{"clr", 5, 10, 1, noOperand, dstStore},
	Command{"not", 5, 11, 1, noOperand, dstStore},
	Command{"inc", 5, 12, 1, noOperand, dstStore},
	Command{"dec", 5, 13, 1, noOperand, dstStore},
	Command{"jmp", 9, 10, 1, noOperand, dstJump},
	Command{"bne", 9, 11, 1, noOperand, dstJump},
	Command{"jsr", 9, 12, 1, noOperand, dstJump},
	Command{"red", 12, 0, 1, noOperand, dstStore},
	Command{"prn", 13, 0, 1, noOperand, dstRead},
	Command{"rts", 14, 0, 0, noOperand, noOperand},
	Command{"stop", 15, 0, 0, noOperand, noOperand},
)

func mustCommandTable(commands ...Command) *CommandTable {
	table, err := NewCommandTable(commands...)

	if err != nil {
		panic(err)
	}

	return table
}
