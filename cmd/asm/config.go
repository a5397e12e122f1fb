package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/ezrec/iss/emulator"
)

// defineFlag collects repeated -D NAME=VALUE options.
type defineFlag map[string]string

func (df defineFlag) String() string {
	var defs []string
	for key, value := range df {
		defs = append(defs, key+"="+value)
	}
	return strings.Join(defs, ",")
}

func (df defineFlag) Set(text string) (err error) {
	key, value, ok := strings.Cut(text, "=")
	if !ok || len(key) == 0 {
		err = fmt.Errorf("expected NAME=VALUE, got %q", text)
		return
	}
	df[key] = value
	return
}

// Config is the asm command line configuration.
type Config struct {
	Verbose  bool              // Verbose assembly.
	Listing  bool              // Print a listing to the standard output.
	Base     uint              // Data segment base address.
	Language string            // Diagnostic language tag.
	Defines  map[string]string // Command line equates.
	Source   string            // Input assembly file.
	Output   string            // Output binary file.
}

// parseArgs parses the command line into a Config.
// Any problem with the arguments is an emulator.ErrUsage.
func parseArgs(name string, args []string, output io.Writer) (config Config, err error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)

	config.Defines = map[string]string{}

	fs.BoolVar(&config.Verbose, "v", false, "Verbose mode")
	fs.BoolVar(&config.Listing, "l", false, "Print a listing")
	fs.UintVar(&config.Base, "base", 0, "Data segment base address")
	fs.StringVar(&config.Language, "lang", "", "Language tag for diagnostics")
	fs.Var(defineFlag(config.Defines), "D", "Define an equate, as NAME=VALUE")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: %v [options] <source.asm> <output.bin>\n", name)
		fs.PrintDefaults()
	}

	err = fs.Parse(args)
	if err != nil {
		err = fmt.Errorf("%w: %w", emulator.ErrUsage, err)
		return
	}

	if fs.NArg() != 2 {
		fs.Usage()
		err = fmt.Errorf("%w: expected <source> <output>, got %d arguments", emulator.ErrUsage, fs.NArg())
		return
	}

	if config.Base > 0xffff {
		err = fmt.Errorf("%w: -base 0x%x", emulator.ErrUsage, config.Base)
		return
	}

	config.Source = fs.Arg(0)
	config.Output = fs.Arg(1)

	return
}
