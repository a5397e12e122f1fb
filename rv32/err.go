package rv32

import (
	"errors"

	"github.com/ezrec/iss/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted     = errors.New(f("cpu halted"))
	ErrBreakpoint = errors.New(f("breakpoint"))

	// Loader errors
	ErrImageEmpty = errors.New(f("image empty"))
	ErrImageSize  = errors.New(f("image size is not a multiple of 4"))
)

// ErrAddress is a memory access beyond the end of memory.
type ErrAddress struct {
	Addr uint32
	Size int
}

func (err ErrAddress) Error() string {
	return f("address 0x%08x+%d out of range", err.Addr, err.Size)
}

// ErrMisaligned is a control transfer to an address that is not a multiple of 4.
type ErrMisaligned uint32

func (err ErrMisaligned) Error() string {
	return f("pc 0x%08x misaligned", uint32(err))
}

// ErrUnimplemented is an instruction word outside the supported subset.
type ErrUnimplemented Instruction

func (err ErrUnimplemented) Error() string {
	return f("unimplemented instruction 0x%08x (opcode 0x%02x)", uint32(err), Instruction(err).Opcode())
}

// ErrInstruction identifies the instruction that faulted.
type ErrInstruction struct {
	Pc  uint32
	Ins Instruction
}

func (err ErrInstruction) Error() string {
	return f("%08x: %v", err.Pc, err.Ins)
}
