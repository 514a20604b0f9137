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

// Symbols of one translation. Traversal visits symbols in the order they
// were first installed.
type SymbolTable struct {
	symbols map[string]*Symbol
	order   []string
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

func (table *SymbolTable) Lookup(name string) (*Symbol, bool) {
	symbol, exists := table.symbols[name]
	return symbol, exists
}

// Stores symbol under its name. With INSTALL_NEW an existing name is left
// untouched and a *DuplicateSymbolError is returned; with INSTALL_REPLACE the
// stored symbol is overwritten and keeps its place in the traversal order.
func (table *SymbolTable) Install(symbol *Symbol, mode InstallMode) error {
	if _, exists := table.symbols[symbol.Name]; exists {
		if mode == INSTALL_NEW {
			return &DuplicateSymbolError{Received: symbol.Name}
		}
	} else {
		table.order = append(table.order, symbol.Name)
	}

	table.symbols[symbol.Name] = symbol
	return nil
}

func (table *SymbolTable) ForEach(f func(*Symbol)) {
	for _, name := range table.order {
		f(table.symbols[name])
	}
}

func (table *SymbolTable) Len() int {
	return len(table.order)
}

// Moves every data symbol by offset.
func (table *SymbolTable) Rebase(offset int) {
	table.ForEach(func(symbol *Symbol) {
		if symbol.IsData {
			symbol.Value += offset
		}
	})
}

func (table *SymbolTable) Entries() []*Symbol {
	entries := make([]*Symbol, 0)

	table.ForEach(func(symbol *Symbol) {
		if symbol.IsEntry {
			entries = append(entries, symbol)
		}
	})

	return entries
}

func (table *SymbolTable) Externals() []*Symbol {
	externals := make([]*Symbol, 0)

	table.ForEach(func(symbol *Symbol) {
		if symbol.IsExternal {
			externals = append(externals, symbol)
		}
	})

	return externals
}

// Copies of every symbol in traversal order, safe to hand to callers that
// should not mutate the table.
func (table *SymbolTable) Symbols() []Symbol {
	symbols := make([]Symbol, 0, len(table.order))

	table.ForEach(func(symbol *Symbol) {
		copied := *symbol
		copied.Usages = append([]int(nil), symbol.Usages...)
		symbols = append(symbols, copied)
	})

	return symbols
}
