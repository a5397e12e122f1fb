package toy

import (
	"errors"

	"github.com/ezrec/iss/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrStackEmpty   = errors.New(f("stack empty"))
	ErrStackFull    = errors.New(f("stack full"))
	ErrDivideByZero = errors.New(f("divide by zero"))
	ErrHalted       = errors.New(f("cpu halted"))

	// Loader errors
	ErrHeaderShort   = errors.New(f("header truncated"))
	ErrLengthInvalid = errors.New(f("code length does not match file size"))
	ErrSegmentLayout = errors.New(f("segment layout invalid"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrValueRange         = errors.New(f("value out of range"))
	ErrSegmentOverflow    = errors.New(f("program exceeds memory"))
)

// ErrOpcode is an opcode byte that is not part of the instruction set.
type ErrOpcode struct {
	Pc uint16
	Op Opcode
}

func (err ErrOpcode) Error() string {
	return f("%04x: bad opcode 0x%02x", err.Pc, byte(err.Op))
}

// ErrAddress is a memory access beyond the 64KB address space.
type ErrAddress struct {
	Addr int
	Size int
}

func (err ErrAddress) Error() string {
	return f("address 0x%04x+%d out of range", err.Addr, err.Size)
}

// ErrInstruction identifies the instruction that faulted.
type ErrInstruction Instruction

func (err ErrInstruction) Error() string {
	return f("%04x: %v", err.Pc, Instruction(err).String())
}

func (err ErrInstruction) Is(target error) (ok bool) {
	_, ok = target.(ErrInstruction)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrLabelDuplicate string

func (el ErrLabelDuplicate) Error() string {
	return f("label %v duplicated", string(el))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseOperand string

func (err ErrParseOperand) Error() string {
	return f("'%v' is not a valid operand", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrSyntax locates an assembler error in the source text.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
