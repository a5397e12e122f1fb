package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/ezrec/iss/emulator"
)

// Config is the vm command line configuration.
type Config struct {
	Verbose    bool   // Verbose tracing.
	MaxSteps   int    // Step limit; 0 is unlimited.
	Language   string // Diagnostic language tag.
	Source     string // Toy source of the binary, for fault line numbers.
	Dump       bool   // Dump registers and memory after the run.
	DumpAddr   uint   // Start of the memory dump.
	DumpLength int    // Bytes of memory to dump.
	Arch       string // Architecture name.
	Path       string // Binary to run.
}

// parseArgs parses the command line into a Config.
// Any problem with the arguments is an emulator.ErrUsage.
func parseArgs(name string, args []string, output io.Writer) (config Config, err error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)

	fs.BoolVar(&config.Verbose, "v", false, "Verbose mode")
	fs.IntVar(&config.MaxSteps, "max-steps", emulator.DEFAULT_MAX_STEPS, "Maximum instructions to execute, 0 for unlimited")
	fs.StringVar(&config.Language, "lang", "", "Language tag for diagnostics")
	fs.StringVar(&config.Source, "src", "", "Toy assembly source of the binary, for fault line numbers")
	fs.BoolVar(&config.Dump, "dump", false, "Dump registers and memory after the run")
	fs.UintVar(&config.DumpAddr, "dump-addr", 0, "Start address of the memory dump")
	fs.IntVar(&config.DumpLength, "dump-len", emulator.DUMP_LENGTH, "Bytes of memory to dump")

	fs.Usage = func() {
		var archs []string
		for arch := range emulator.Archs() {
			archs = append(archs, arch.String())
		}
		fmt.Fprintf(fs.Output(), "usage: %v [options] <arch> <binary>\n", name)
		fmt.Fprintf(fs.Output(), "  arch: %v\n", strings.Join(archs, ", "))
		fs.PrintDefaults()
	}

	err = fs.Parse(args)
	if err != nil {
		err = fmt.Errorf("%w: %w", emulator.ErrUsage, err)
		return
	}

	if fs.NArg() != 2 {
		fs.Usage()
		err = fmt.Errorf("%w: expected <arch> <binary>, got %d arguments", emulator.ErrUsage, fs.NArg())
		return
	}

	if config.MaxSteps < 0 {
		err = fmt.Errorf("%w: -max-steps %d", emulator.ErrUsage, config.MaxSteps)
		return
	}

	if config.DumpAddr > math.MaxUint32 || config.DumpLength < 0 {
		err = fmt.Errorf("%w: -dump-addr 0x%x -dump-len %d", emulator.ErrUsage, config.DumpAddr, config.DumpLength)
		return
	}

	config.Arch = fs.Arg(0)
	config.Path = fs.Arg(1)

	return
}
