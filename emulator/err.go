package emulator

import (
	"errors"

	"github.com/ezrec/iss/toy"
	"github.com/ezrec/iss/translate"
)

var f = translate.From

var (
	ErrUsage     = errors.New(f("usage error"))
	ErrStepLimit = errors.New(f("step limit exceeded"))
)

// Exit status of a run, by fault category.
const (
	STATUS_OK         = 0
	STATUS_USAGE      = 1
	STATUS_LOAD       = 2
	STATUS_RUNTIME    = 3
	STATUS_STEP_LIMIT = 4
	STATUS_COMPILE    = 5
)

// ErrArch is an unknown architecture name.
type ErrArch string

func (err ErrArch) Error() string {
	return f("unknown architecture '%v'", string(err))
}

func (err ErrArch) Is(target error) bool {
	return target == ErrUsage
}

// ErrLoad indicates a binary that could not be loaded.
type ErrLoad struct {
	Arch Arch
	Path string
	Err  error
}

func (err *ErrLoad) Error() string {
	return f("%v: %v: %v", err.Arch, err.Path, err.Err)
}

func (err *ErrLoad) Unwrap() error {
	return err.Err
}

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc     uint32 // PC of the faulting instruction.
	LineNo int    // Source line, if a listing is available.
	Steps  int    // Instructions completed before the fault.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo > 0 {
		return f("line %d pc %08x: %v", err.LineNo, err.Pc, err.Err)
	}
	return f("pc %08x: %v", err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// Status maps an error to the process exit status of its category.
func Status(err error) (status int) {
	var load *ErrLoad
	var syntax *toy.ErrSyntax

	switch {
	case err == nil:
		status = STATUS_OK
	case errors.Is(err, ErrUsage):
		status = STATUS_USAGE
	case errors.Is(err, ErrStepLimit):
		status = STATUS_STEP_LIMIT
	case errors.As(err, &load):
		status = STATUS_LOAD
	case errors.As(err, &syntax):
		status = STATUS_COMPILE
	default:
		status = STATUS_RUNTIME
	}

	return
}
