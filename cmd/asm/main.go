// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/tebeka/atexit"

	"github.com/ezrec/iss/emulator"
	"github.com/ezrec/iss/toy"
	"github.com/ezrec/iss/translate"
)

// assemble compiles the configured source, writing the binary only on
// success. The listing, if requested, goes to listing.
func assemble(config Config, listing io.Writer) (err error) {
	if len(config.Language) != 0 {
		err = translate.SetLanguage(config.Language)
		if err != nil {
			err = fmt.Errorf("%w: %w", emulator.ErrUsage, err)
			return
		}
	}

	inf, err := os.Open(config.Source)
	if err != nil {
		err = fmt.Errorf("%w: %w", emulator.ErrUsage, err)
		return
	}
	defer inf.Close()

	asm := &toy.Assembler{
		Verbose: config.Verbose,
		Base:    uint16(config.Base),
	}

	for key, value := range emulator.Defines() {
		asm.Predefine(key, value)
	}

	for key, value := range config.Defines {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", config.Source, err)
		return
	}

	err = os.WriteFile(config.Output, prog.Binary(), 0o644)
	if err != nil {
		err = fmt.Errorf("%w: %w", emulator.ErrUsage, err)
		return
	}

	if config.Listing {
		err = prog.Listing(listing)
		if err != nil {
			return
		}
	}

	return
}

func main() {
	log.SetFlags(0)
	log.SetPrefix(os.Args[0] + ": ")

	config, err := parseArgs(os.Args[0], os.Args[1:], os.Stderr)
	if err == nil {
		err = assemble(config, os.Stdout)
	}

	if err != nil {
		log.Print(err)
	}

	atexit.Exit(emulator.Status(err))
}
