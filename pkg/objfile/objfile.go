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

// Text artifacts produced from an assembled program.
package objfile

import (
	"bufio"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lassandro/asm12/pkg/assembler"
)

const (
	EXT_SOURCE    = ".as"
	EXT_OBJECT    = ".ob"
	EXT_ENTRIES   = ".ent"
	EXT_EXTERNALS = ".ext"
	EXT_SYMBOLS   = ".sym"
)

var ErrUnresolved = errors.New("program contains unresolved words")

// Header holding the code and data lengths, then one line per word with its
// address, its three hex digits and its relocation tag.
//
//	\t5 2
//	0100 00F A
func WriteObject(out io.Writer, program *assembler.Program) error {
	writer := bufio.NewWriter(out)

	fmt.Fprintf(
		writer, "\t%d %d\n", program.ICF-program.LoadAddress, program.DCF,
	)

	for _, image := range [][]assembler.Word{program.Code, program.Data} {
		for i := range image {
			bits, ok := image[i].Bits()

			if !ok {
				return fmt.Errorf("%04d: %w", image[i].Address, ErrUnresolved)
			}

			fmt.Fprintf(
				writer, "%04d %s %c\n",
				image[i].Address, bits.Hex(), image[i].Relocation,
			)
		}
	}

	return writer.Flush()
}

func HasEntries(program *assembler.Program) bool {
	return len(program.Symbols.Entries()) > 0
}

func HasExternals(program *assembler.Program) bool {
	for _, symbol := range program.Symbols.Externals() {
		if len(symbol.Usages) > 0 {
			return true
		}
	}

	return false
}

func WriteEntries(out io.Writer, program *assembler.Program) error {
	writer := bufio.NewWriter(out)

	for _, symbol := range program.Symbols.Entries() {
		fmt.Fprintf(writer, "%s %04d\n", symbol.Name, symbol.Value)
	}

	return writer.Flush()
}

// One line per usage site, grouped by symbol.
func WriteExternals(out io.Writer, program *assembler.Program) error {
	writer := bufio.NewWriter(out)

	for _, symbol := range program.Symbols.Externals() {
		for _, address := range symbol.Usages {
			fmt.Fprintf(writer, "%s %04d\n", symbol.Name, address)
		}
	}

	return writer.Flush()
}

// Debugging information stored next to the object file.
type SymbolTable struct {
	Source      string
	LoadAddress int
	ICF         int
	DCF         int
	Symbols     []assembler.Symbol
}

func NewSymbolTable(source string, program *assembler.Program) *SymbolTable {
	return &SymbolTable{
		Source:      source,
		LoadAddress: program.LoadAddress,
		ICF:         program.ICF,
		DCF:         program.DCF,
		Symbols:     program.Symbols.Symbols(),
	}
}

func WriteSymbols(out io.Writer, table *SymbolTable) error {
	if err := gob.NewEncoder(out).Encode(table); err != nil {
		return fmt.Errorf("encoding symbol table: %w", err)
	}

	return nil
}

func ReadSymbols(in io.Reader) (*SymbolTable, error) {
	var table SymbolTable

	if err := gob.NewDecoder(in).Decode(&table); err != nil {
		return nil, fmt.Errorf("decoding symbol table: %w", err)
	}

	return &table, nil
}

// Base name of an input path with any source extension removed.
func BaseName(path string) string {
	if filepath.Ext(path) == EXT_SOURCE {
		return path[:len(path)-len(EXT_SOURCE)]
	}

	return path
}

// Input file for a path given with or without its source extension.
func SourcePath(path string) string {
	return BaseName(path) + EXT_SOURCE
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)

	if err != nil {
		return err
	}

	if err := write(file); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err := file.Close(); err != nil {
		os.Remove(path)
		return err
	}

	return nil
}

type Options struct {
	// Directory receiving the artifacts. Empty means next to the source.
	OutDir string

	// Also write the gob symbol table
	Debug bool
}

func removeAll(paths []string) {
	for _, path := range paths {
		os.Remove(path)
	}
}

// Writes every artifact program calls for and returns the paths written.
// The entries and externals files are only produced when they would have
// content; copies left by an earlier run are removed. On error nothing
// written by this call is left behind.
func WriteArtifacts(
	source string, program *assembler.Program, opts Options,
) ([]string, error) {
	base := BaseName(source)

	if opts.OutDir != "" {
		base = filepath.Join(opts.OutDir, filepath.Base(base))
	}

	type artifact struct {
		Ext   string
		Write func(io.Writer) error
		Want  bool
	}

	artifacts := []artifact{
		{
			EXT_OBJECT,
			func(out io.Writer) error { return WriteObject(out, program) },
			true,
		},
		{
			EXT_ENTRIES,
			func(out io.Writer) error { return WriteEntries(out, program) },
			HasEntries(program),
		},
		{
			EXT_EXTERNALS,
			func(out io.Writer) error { return WriteExternals(out, program) },
			HasExternals(program),
		},
		{
			EXT_SYMBOLS,
			func(out io.Writer) error {
				abs, err := filepath.Abs(source)

				if err != nil {
					abs = source
				}

				return WriteSymbols(out, NewSymbolTable(abs, program))
			},
			opts.Debug,
		},
	}

	written := make([]string, 0, len(artifacts))

	for _, a := range artifacts {
		path := base + a.Ext

		if !a.Want {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				removeAll(written)
				return nil, fmt.Errorf("removing stale %s: %w", path, err)
			}

			continue
		}

		if err := writeFile(path, a.Write); err != nil {
			removeAll(written)
			return nil, err
		}

		written = append(written, path)
	}

	return written, nil
}
