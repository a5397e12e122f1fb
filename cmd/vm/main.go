// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/tebeka/atexit"

	"github.com/ezrec/iss/emulator"
	"github.com/ezrec/iss/toy"
	"github.com/ezrec/iss/translate"
)

// listing re-assembles the Toy source of a binary, so that faults can be
// reported by source line. The source must assemble to the binary exactly.
func listing(arch emulator.Arch, source string, binary string) (prog *toy.Program, err error) {
	if arch != emulator.ARCH_TOY {
		err = fmt.Errorf("%w: -src requires the %v architecture", emulator.ErrUsage, emulator.ARCH_TOY)
		return
	}

	data, err := os.ReadFile(binary)
	if err != nil {
		err = &emulator.ErrLoad{Arch: arch, Path: binary, Err: err}
		return
	}

	hdr, err := toy.ReadHeader(bytes.NewReader(data))
	if err != nil {
		err = &emulator.ErrLoad{Arch: arch, Path: binary, Err: err}
		return
	}

	inf, err := os.Open(source)
	if err != nil {
		err = fmt.Errorf("%w: %w", emulator.ErrUsage, err)
		return
	}
	defer inf.Close()

	asm := &toy.Assembler{Base: hdr.DataBase}
	for key, value := range emulator.Defines() {
		asm.Predefine(key, value)
	}

	prog, err = asm.Parse(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", source, err)
		return
	}

	if !bytes.Equal(prog.Binary(), data) {
		prog = nil
		err = fmt.Errorf("%w: %v does not assemble to %v", emulator.ErrUsage, source, binary)
		return
	}

	return
}

// run executes the configured binary, returning the process exit status.
// The dump, if requested, is written to output after the run.
func run(config Config, input io.Reader, output io.Writer) (status int, err error) {
	defer func() {
		if err != nil {
			status = emulator.Status(err)
		}
	}()

	if len(config.Language) != 0 {
		err = translate.SetLanguage(config.Language)
		if err != nil {
			err = fmt.Errorf("%w: %w", emulator.ErrUsage, err)
			return
		}
	}

	arch, err := emulator.ParseArch(config.Arch)
	if err != nil {
		return
	}

	emu := &emulator.Emulator{
		Verbose:  config.Verbose,
		MaxSteps: config.MaxSteps,
		Input:    input,
		Output:   output,
	}

	if len(config.Source) != 0 {
		emu.Listing, err = listing(arch, config.Source, config.Path)
		if err != nil {
			return
		}
	}

	m, err := emu.Load(arch, config.Path)
	if err != nil {
		return
	}

	status, err = emu.Run(m)

	if config.Dump {
		derr := emulator.Dump(output, m, uint32(config.DumpAddr), config.DumpLength)
		if derr != nil && err == nil {
			err = fmt.Errorf("%w: dump: %w", emulator.ErrUsage, derr)
		}
	}

	return
}

func main() {
	log.SetFlags(0)
	log.SetPrefix(os.Args[0] + ": ")

	config, err := parseArgs(os.Args[0], os.Args[1:], os.Stderr)
	if err != nil {
		log.Print(err)
		atexit.Exit(emulator.Status(err))
	}

	output := bufio.NewWriter(os.Stdout)
	atexit.Register(func() { output.Flush() })

	status, err := run(config, bufio.NewReader(os.Stdin), output)
	if err != nil {
		log.Print(err)
	}

	atexit.Exit(status)
}
