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

package objfile_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lassandro/asm12/pkg/assembler"
	"github.com/lassandro/asm12/pkg/objfile"
)

const source = `; sample
.entry MAIN
.extern W
MAIN: mov r3, LIST
LOOP: jsr W
      bne %LOOP
      prn W
      stop
LIST: .data 6, -9
STR:  .string "a"
`

const wantObject = "\t10 4\n" +
	"0100 00D A\n" +
	"0101 008 A\n" +
	"0102 06E R\n" +
	"0103 9C1 A\n" +
	"0104 000 E\n" +
	"0105 9B2 A\n" +
	"0106 FFD A\n" +
	"0107 D01 A\n" +
	"0108 000 E\n" +
	"0109 F00 A\n" +
	"0110 006 A\n" +
	"0111 FF7 A\n" +
	"0112 061 A\n" +
	"0113 000 A\n"

func assemble(t *testing.T, input string) *assembler.Program {
	program, errs := assembler.AssembleSource(strings.NewReader(input))

	if len(errs) > 0 {
		t.Fatal(errs[0])
	}

	return program
}

func TestWriteObject(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, objfile.WriteObject(&out, assemble(t, source)))
	require.Equal(t, wantObject, out.String())
}

func TestWriteObjectUnresolved(t *testing.T) {
	program := &assembler.Program{
		LoadAddress: 100,
		ICF:         101,
		Code: []assembler.Word{{
			Address: 100,
			Payload: assembler.Unresolved{Name: "X"},
		}},
		Symbols: assembler.NewSymbolTable(),
	}

	err := objfile.WriteObject(&bytes.Buffer{}, program)
	require.True(t, errors.Is(err, objfile.ErrUnresolved))
}

func TestWriteEntries(t *testing.T) {
	var out bytes.Buffer
	program := assemble(t, source)

	require.True(t, objfile.HasEntries(program))
	require.NoError(t, objfile.WriteEntries(&out, program))
	require.Equal(t, "MAIN 0100\n", out.String())
}

func TestWriteExternals(t *testing.T) {
	var out bytes.Buffer
	program := assemble(t, source)

	require.True(t, objfile.HasExternals(program))
	require.NoError(t, objfile.WriteExternals(&out, program))
	require.Equal(t, "W 0104\nW 0108\n", out.String())
}

func TestUnusedExternal(t *testing.T) {
	program := assemble(t, ".extern W\nstop\n")

	require.False(t, objfile.HasEntries(program))
	require.False(t, objfile.HasExternals(program))
}

func TestSymbolsRoundTrip(t *testing.T) {
	var buffer bytes.Buffer
	program := assemble(t, source)

	table := objfile.NewSymbolTable("sample.as", program)
	require.NoError(t, objfile.WriteSymbols(&buffer, table))

	decoded, err := objfile.ReadSymbols(&buffer)
	require.NoError(t, err)
	require.Equal(t, table, decoded)

	names := make([]string, 0, len(decoded.Symbols))
	for _, symbol := range decoded.Symbols {
		names = append(names, symbol.Name)
	}

	require.Equal(t, []string{"W", "MAIN", "LOOP", "LIST", "STR"}, names)
	require.Equal(t, 110, decoded.ICF)

	_, err = objfile.ReadSymbols(strings.NewReader("not gob"))
	require.Error(t, err)
}

func TestPaths(t *testing.T) {
	require.Equal(t, "prog", objfile.BaseName("prog.as"))
	require.Equal(t, "prog", objfile.BaseName("prog"))
	require.Equal(t, "dir/prog.txt", objfile.BaseName("dir/prog.txt"))
	require.Equal(t, "prog.as", objfile.SourcePath("prog"))
	require.Equal(t, "prog.as", objfile.SourcePath("prog.as"))
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	program := assemble(t, source)

	written, err := objfile.WriteArtifacts(
		"src/sample.as", program, objfile.Options{OutDir: dir, Debug: true},
	)
	require.NoError(t, err)

	base := filepath.Join(dir, "sample")
	require.Equal(t, []string{
		base + ".ob", base + ".ent", base + ".ext", base + ".sym",
	}, written)

	object, err := os.ReadFile(base + ".ob")
	require.NoError(t, err)
	require.Equal(t, wantObject, string(object))

	file, err := os.Open(base + ".sym")
	require.NoError(t, err)
	defer file.Close()

	table, err := objfile.ReadSymbols(file)
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(table.Source))
}

func TestWriteArtifactsMinimal(t *testing.T) {
	dir := t.TempDir()
	program := assemble(t, "stop\n")

	written, err := objfile.WriteArtifacts(
		filepath.Join(dir, "min.as"), program, objfile.Options{},
	)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "min.ob")}, written)

	_, err = os.Stat(filepath.Join(dir, "min.ent"))
	require.True(t, os.IsNotExist(err))
}

func TestWriteArtifactsRemovesStale(t *testing.T) {
	dir := t.TempDir()

	for _, ext := range []string{".ent", ".ext", ".sym"} {
		path := filepath.Join(dir, "min"+ext)
		require.NoError(t, os.WriteFile(path, []byte("old\n"), 0666))
	}

	_, err := objfile.WriteArtifacts(
		filepath.Join(dir, "min.as"), assemble(t, "stop\n"), objfile.Options{},
	)
	require.NoError(t, err)

	for _, ext := range []string{".ent", ".ext", ".sym"} {
		_, err = os.Stat(filepath.Join(dir, "min"+ext))
		require.True(t, os.IsNotExist(err), ext)
	}
}

func TestWriteArtifactsFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()

	// A directory where the entries file belongs cannot be created
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sample.ent"), 0777))

	written, err := objfile.WriteArtifacts(
		"sample.as", assemble(t, source), objfile.Options{OutDir: dir},
	)
	require.Error(t, err)
	require.Empty(t, written)

	for _, ext := range []string{".ob", ".ext", ".sym"} {
		_, err = os.Stat(filepath.Join(dir, "sample"+ext))
		require.True(t, os.IsNotExist(err), ext)
	}

	require.DirExists(t, filepath.Join(dir, "sample.ent"))
}

func TestWriteArtifactsUnresolved(t *testing.T) {
	dir := t.TempDir()
	program := &assembler.Program{
		LoadAddress: 100,
		ICF:         101,
		Code: []assembler.Word{{
			Address: 100,
			Payload: assembler.Unresolved{Name: "X"},
		}},
		Symbols: assembler.NewSymbolTable(),
	}

	_, err := objfile.WriteArtifacts(
		filepath.Join(dir, "x.as"), program, objfile.Options{},
	)
	require.True(t, errors.Is(err, objfile.ErrUnresolved))

	_, err = os.Stat(filepath.Join(dir, "x.ob"))
	require.True(t, os.IsNotExist(err))
}
