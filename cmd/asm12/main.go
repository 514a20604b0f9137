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
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/golang/glog"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lassandro/asm12/pkg/assembler"
	"github.com/lassandro/asm12/pkg/objfile"
)

var errFailed = errors.New("one or more files failed to assemble")

type options struct {
	outDir      string
	debug       bool
	dump        bool
	loadAddress int
	jobs        int
	color       bool
}

func newRootCommand(stdout, stderr io.Writer, color bool) *cobra.Command {
	opts := options{color: color}

	cmd := &cobra.Command{
		Use:   "asm12 [flags] file...",
		Short: "Two-pass assembler for the 12-bit instruction set",
		Long: `Asm12 translates each source file into an object file (.ob), plus an
entries file (.ent) when the source exports symbols and an externals file
(.ext) when it references external ones.

Files may be named with or without their .as extension. Each file is
translated independently; the exit status is non-zero if any of them
failed. The symbols command prints the tables written with --debug.
`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// glog refuses to log before the Go flag set has been parsed
			flag.CommandLine.Parse([]string{})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !assembleAll(args, &opts, stderr) {
				return errFailed
			}

			return nil
		},
	}

	cmd.SetOut(stderr)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVarP(
		&opts.outDir, "out-dir", "o", "",
		"Directory receiving the output files instead of the source directory",
	)
	flags.BoolVar(
		&opts.debug, "debug", false,
		"Also write the symbol table as debugging information, using the "+
			"output filename with extension '.sym'",
	)
	flags.BoolVar(
		&opts.dump, "dump", false,
		"Print the assembled images and symbol table",
	)
	flags.IntVar(
		&opts.loadAddress, "load-address", assembler.LOAD_ADDRESS,
		"Address of the first instruction word",
	)
	flags.IntVarP(
		&opts.jobs, "jobs", "j", runtime.NumCPU(),
		"Number of files assembled in parallel",
	)

	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	symbols := newSymbolsCommand(stdout)
	symbols.SetErr(stderr)
	cmd.AddCommand(symbols)

	return cmd
}

// Assembles every file, printing each file's diagnostics as one block in
// argument order. Reports whether all of them succeeded.
func assembleAll(paths []string, opts *options, stderr io.Writer) bool {
	outputs := make([]bytes.Buffer, len(paths))
	results := make([]bool, len(paths))

	var group errgroup.Group

	if opts.jobs > 0 {
		group.SetLimit(opts.jobs)
	}

	for i := range paths {
		i := i
		group.Go(func() error {
			results[i] = assembleFile(paths[i], opts, &outputs[i])
			return nil
		})
	}

	group.Wait()

	ok := true

	for i := range paths {
		stderr.Write(outputs[i].Bytes())
		ok = ok && results[i]
	}

	return ok
}

func assembleFile(path string, opts *options, out io.Writer) bool {
	source := objfile.SourcePath(path)
	filename := filepath.Base(source)

	logger := log.New(out, filename+":", 0)

	if opts.color {
		logger.SetPrefix(fmt.Sprintf("\033[1m%s:\033[0m", filename))
	}

	content, err := os.ReadFile(source)

	if err != nil {
		logger.Println(err)
		return false
	}

	glog.V(1).Infof("Assembling %s", source)

	diag := newDiagnostics(logger, content, opts.color)

	asm := assembler.NewAssembler()
	asm.LoadAddress = opts.loadAddress
	asm.Warn = diag.Report

	program, errs := asm.Assemble(bytes.NewReader(content))

	if len(errs) > 0 {
		for _, err := range errs {
			diag.Report(err)
		}

		return false
	}

	if opts.dump {
		printer := pp.New()
		printer.SetOutput(out)
		printer.SetColoringEnabled(opts.color)
		printer.Println(program.Code)
		printer.Println(program.Data)
		printer.Println(program.Symbols.Symbols())
	}

	written, err := objfile.WriteArtifacts(source, program, objfile.Options{
		OutDir: opts.outDir,
		Debug:  opts.debug,
	})

	if err != nil {
		logger.Println("Error writing output files")
		logger.Println(err)
		return false
	}

	glog.V(1).Infof("Wrote %v", written)

	return true
}

func asm12(args []string, stdout, stderr io.Writer, color bool) int {
	defer glog.Flush()

	cmd := newRootCommand(stdout, stderr, color)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(stderr, err)
			fmt.Fprintln(stderr, cmd.UsageString())
		}

		return 1
	}

	return 0
}

func main() {
	os.Exit(asm12(os.Args[1:], os.Stdout, os.Stderr, isTerminal(os.Stderr.Fd())))
}
