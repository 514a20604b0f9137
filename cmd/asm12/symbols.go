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
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lassandro/asm12/pkg/objfile"
)

func newSymbolsCommand(stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symbols file.sym...",
		Short: "Print the symbol tables written by --debug",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				table, err := readSymbolTable(path)

				if err != nil {
					return err
				}

				if err := printSymbols(stdout, table); err != nil {
					return err
				}
			}

			return nil
		},
	}

	return cmd
}

func readSymbolTable(path string) (*objfile.SymbolTable, error) {
	file, err := os.Open(path)

	if err != nil {
		return nil, err
	}

	defer file.Close()

	table, err := objfile.ReadSymbols(file)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return table, nil
}

// Header naming the source and image sizes, then one line per symbol:
//
//	; /src/prog.as
//	; load 0100 code 2 data 0
//	MAIN 0100 code,entry
//	W 0000 external 0101
func printSymbols(out io.Writer, table *objfile.SymbolTable) error {
	writer := bufio.NewWriter(out)

	fmt.Fprintf(writer, "; %s\n", table.Source)
	fmt.Fprintf(
		writer, "; load %04d code %d data %d\n",
		table.LoadAddress, table.ICF-table.LoadAddress, table.DCF,
	)

	for _, symbol := range table.Symbols {
		kinds := make([]string, 0, 3)

		if symbol.IsCode {
			kinds = append(kinds, "code")
		}

		if symbol.IsData {
			kinds = append(kinds, "data")
		}

		if symbol.IsEntry {
			kinds = append(kinds, "entry")
		}

		if symbol.IsExternal {
			kinds = append(kinds, "external")
		}

		fmt.Fprintf(
			writer, "%s %04d %s", symbol.Name, symbol.Value,
			strings.Join(kinds, ","),
		)

		for _, address := range symbol.Usages {
			fmt.Fprintf(writer, " %04d", address)
		}

		fmt.Fprintln(writer)
	}

	return writer.Flush()
}
