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
	"github.com/golang/glog"

	"github.com/lassandro/asm12/pkg/encoding"
)

// Resolves the symbol references left behind by the first pass.
type SecondPass struct {
	Program *Program
	Errors  []error
}

func NewSecondPass(program *Program) *SecondPass {
	return &SecondPass{Program: program}
}

func (pass *SecondPass) fail(err error) {
	pass.Errors = append(pass.Errors, err)
}

// Marks every symbol named by a .entry statement.
func (pass *SecondPass) MarkEntries() {
	for _, entry := range pass.Program.Entries {
		if entry.Name == "" {
			pass.fail(&MissingOperandError{entry.Position})
			continue
		}

		symbol, exists := pass.Program.Symbols.Lookup(entry.Name)

		if !exists {
			pass.fail(&UndefinedSymbolError{entry.Position, entry.Name})
			continue
		}

		if symbol.IsExternal {
			pass.fail(&EntryExternConflictError{entry.Position, entry.Name})
			continue
		}

		if entry.Trailing != "" {
			pass.fail(&TrailingTextError{entry.TrailPos, entry.Trailing})
			continue
		}

		symbol.IsEntry = true
		glog.V(2).Infof("Exporting %q at %d", symbol.Name, symbol.Value)
	}
}

// Encodes every unresolved word in the instruction image. Direct references
// to external symbols are recorded as usages of that symbol.
func (pass *SecondPass) Resolve() {
	for i := range pass.Program.Code {
		word := &pass.Program.Code[i]
		ref, ok := word.Payload.(Unresolved)

		if !ok {
			continue
		}

		symbol, exists := pass.Program.Symbols.Lookup(ref.Name)

		if !exists {
			pass.fail(&UndefinedSymbolError{word.Position, ref.Name})
			continue
		}

		if ref.Relative {
			// Relative targets must label an instruction
			if !symbol.IsCode {
				pass.fail(&InvalidRelativeTargetError{
					word.Position, ref.Name, symbol.IsExternal,
				})
				continue
			}

			distance := symbol.Value - word.Address
			word.Payload = Encoded{encoding.EncodeScalar(distance)}
			word.Relocation = RELOCATION_ABSOLUTE
			continue
		}

		word.Payload = Encoded{encoding.EncodeScalar(symbol.Value)}

		if symbol.IsExternal {
			word.Relocation = RELOCATION_EXTERNAL
			symbol.Usages = append(symbol.Usages, word.Address)
		} else {
			word.Relocation = RELOCATION_RELOCATABLE
		}
	}
}

func (pass *SecondPass) Run() []error {
	pass.MarkEntries()
	pass.Resolve()
	return pass.Errors
}
