// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"os"

	"github.com/ezrec/iss/internal"
	"github.com/ezrec/iss/toy"
)

const (
	DEFAULT_MAX_STEPS = 10_000_000 // Step limit used by the command line.
)

var _emulator_defines = map[string]string{
	"ARCH_TOY":  fmt.Sprintf("%d", ARCH_TOY),
	"ARCH_RV32": fmt.Sprintf("%d", ARCH_RV32),
}

// Machine is the execution state of one architecture.
type Machine interface {
	Step() error            // Execute one instruction.
	Halted() bool           // True once the program has terminated.
	ExitStatus() int        // Exit status, valid once halted.
	ProgramCounter() uint32 // Address of the next instruction.
	String() string         // Register dump.

	Bytes(addr uint32, size int) ([]byte, error) // Copy of a memory range.
}

// Emulator loads binaries and drives their run loop.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	MaxSteps int          // Maximum instructions per run; 0 is unlimited.
	Input    io.Reader    // Byte input port, where supported.
	Output   io.Writer    // Byte output port, where supported.
	Listing  *toy.Program // Optional listing for source line numbers.

	Steps int // Instructions executed by the last run.
}

// Defines returns an iterator over the defines of every architecture.
func Defines() iter.Seq2[string, string] {
	seqs := []iter.Seq2[string, string]{maps.All(_emulator_defines)}
	for arch := range Archs() {
		seqs = append(seqs, arch.Defines())
	}
	return internal.Concat2(seqs...)
}

// LoadImage creates the execution state for an in-memory binary.
func (emu *Emulator) LoadImage(arch Arch, data []byte) (m Machine, err error) {
	info, ok := archTable[arch]
	if !ok {
		err = ErrArch(arch.String())
		return
	}

	m, err = info.load(emu, data)
	if err != nil {
		m = nil
		err = &ErrLoad{Arch: arch, Err: err}
		return
	}

	if emu.Verbose {
		log.Printf("%v: loaded %d bytes, pc %08x", arch, len(data), m.ProgramCounter())
	}

	return
}

// Load creates the execution state for a binary file.
func (emu *Emulator) Load(arch Arch, path string) (m Machine, err error) {
	_, ok := archTable[arch]
	if !ok {
		err = ErrArch(arch.String())
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		err = &ErrLoad{Arch: arch, Path: path, Err: err}
		return
	}

	m, err = emu.LoadImage(arch, data)
	var load *ErrLoad
	if errors.As(err, &load) {
		load.Path = path
	}

	return
}

// lineNo returns the listing source line for a PC, or 0.
func (emu *Emulator) lineNo(pc uint32) int {
	if emu.Listing == nil || pc > 0xffff {
		return 0
	}
	return emu.Listing.LineNo(uint16(pc))
}

// Run steps the machine until it halts, faults or exceeds MaxSteps.
func (emu *Emulator) Run(m Machine) (status int, err error) {
	emu.Steps = 0

	defer func() {
		if err != nil && emu.Verbose {
			log.Printf("%v\n%v", err, m.String())
		}
	}()

	for !m.Halted() {
		if emu.MaxSteps > 0 && emu.Steps >= emu.MaxSteps {
			pc := m.ProgramCounter()
			err = &ErrRuntime{Pc: pc, LineNo: emu.lineNo(pc), Steps: emu.Steps, Err: ErrStepLimit}
			return
		}

		pc := m.ProgramCounter()
		err = m.Step()
		if err != nil {
			err = &ErrRuntime{Pc: pc, LineNo: emu.lineNo(pc), Steps: emu.Steps, Err: err}
			return
		}
		emu.Steps++
	}

	status = m.ExitStatus()

	if emu.Verbose {
		log.Printf("halted after %d steps, status %d", emu.Steps, status)
	}

	return
}

// RunFile selects an architecture by name, loads the binary and runs it.
// The returned status is the program exit status on a clean halt, and the
// fault category from Status otherwise.
func (emu *Emulator) RunFile(name string, path string) (status int, err error) {
	defer func() {
		if err != nil {
			status = Status(err)
		}
	}()

	arch, err := ParseArch(name)
	if err != nil {
		return
	}

	m, err := emu.Load(arch, path)
	if err != nil {
		return
	}

	return emu.Run(m)
}
