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
	"bufio"
	"io"

	"github.com/golang/glog"

	"github.com/lassandro/asm12/pkg/isa"
)

type Assembler struct {
	Commands    *isa.CommandTable
	LoadAddress int

	// Called for every warning in source order. Warnings never fail a
	// translation.
	Warn func(error)
}

func NewAssembler() *Assembler {
	return &Assembler{
		Commands:    isa.DefaultCommands,
		LoadAddress: LOAD_ADDRESS,
	}
}

// Runs both passes over input. A non-empty error list means no program was
// produced; errors are in source order within each pass, and the second pass
// only runs once the first succeeded.
func (asm *Assembler) Assemble(input io.Reader) (program *Program, errs []error) {
	first := NewFirstPass(asm.Commands, asm.LoadAddress)
	scanner := bufio.NewScanner(input)

	glog.V(1).Info("Beginning first pass")

	for number := 1; scanner.Scan(); number++ {
		first.ScanLine(number, scanner.Text())

		if first.Fatal {
			break
		}
	}

	if asm.Warn != nil {
		for _, warning := range first.Warnings {
			asm.Warn(warning)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, append(first.Errors, err)
	}

	program, errs = first.Finish()

	if len(errs) > 0 {
		glog.V(1).Infof("First pass failed with %d errors", len(errs))
		return nil, errs
	}

	glog.V(1).Infof(
		"First pass complete: ICF=%d DCF=%d symbols=%d",
		program.ICF, program.DCF, program.Symbols.Len(),
	)

	glog.V(1).Info("Beginning second pass")

	if errs = NewSecondPass(program).Run(); len(errs) > 0 {
		glog.V(1).Infof("Second pass failed with %d errors", len(errs))
		return nil, errs
	}

	return program, nil
}

// Assembles input with the standard instruction set loaded at LOAD_ADDRESS.
func AssembleSource(input io.Reader) (*Program, []error) {
	return NewAssembler().Assemble(input)
}
