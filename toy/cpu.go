// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package toy

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"strings"
)

// Flags are the comparison results recorded by cmp.
type Flags uint8

const (
	FLAG_ZERO  = Flags(1 << 0) // Operands were equal.
	FLAG_LESS  = Flags(1 << 1) // First operand less than second, signed.
	FLAG_BELOW = Flags(1 << 2) // First operand less than second, unsigned.
)

func (fl Flags) String() string {
	var out []string
	for _, flag := range []struct {
		Flags
		name string
	}{{FLAG_ZERO, "z"}, {FLAG_LESS, "l"}, {FLAG_BELOW, "b"}} {
		if fl&flag.Flags != 0 {
			out = append(out, flag.name)
		} else {
			out = append(out, "-")
		}
	}
	return strings.Join(out, "")
}

var _toy_defines = map[string]string{
	"TOY_MEMORY_SIZE": fmt.Sprintf("%d", MEMORY_SIZE),
	"TOY_REGISTERS":   fmt.Sprintf("%d", REGISTER_COUNT),
	"TOY_STACK_LIMIT": fmt.Sprintf("%d", STACK_LIMIT),
}

// Defines returns the architecture constants made available to the assembler.
func Defines() iter.Seq2[string, string] {
	return maps.All(_toy_defines)
}

// Cpu is the execution state of one Toy run.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Input  io.Reader // Source for the in instruction.
	Output io.Writer // Destination for the out instruction.

	Memory   Memory                 // Flat memory.
	Register [REGISTER_COUNT]uint16 // Register bank.
	Pc       uint16                 // Program counter.
	Flags    Flags                  // Comparison flags.
	Calls    Stack                  // Return addresses.
	Data     Stack                  // push/pop values.

	DataBase uint16 // Start of the data segment.
	CodeBase uint16 // Start of the code segment.

	Stopped bool // Set once halt has executed.
	Status  int  // Exit status, valid once stopped.
	Ticks   int  // Instructions executed since reset.
}

// NewCpu creates a CPU with cleared state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	return
}

// Reset clears registers, memory, stacks and flags, and rewinds the PC to
// the start of the code segment.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("toy: reset")
	}

	clear(cpu.Memory[:])
	clear(cpu.Register[:])
	cpu.Calls.Reset()
	cpu.Data.Reset()
	cpu.Flags = 0
	cpu.Pc = cpu.CodeBase
	cpu.Stopped = false
	cpu.Status = 0
	cpu.Ticks = 0
}

// Halted returns true once the program has executed halt.
func (cpu *Cpu) Halted() bool {
	return cpu.Stopped
}

// ExitStatus returns the exit status of a halted program.
func (cpu *Cpu) ExitStatus() int {
	return cpu.Status
}

// ProgramCounter returns the current PC.
func (cpu *Cpu) ProgramCounter() uint32 {
	return uint32(cpu.Pc)
}

// Bytes returns a copy of size bytes of memory starting at addr.
func (cpu *Cpu) Bytes(addr uint32, size int) (data []byte, err error) {
	return cpu.Memory.Bytes(int(addr), size)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("%6s: %04x\n", "pc", cpu.Pc)
	text += fmt.Sprintf("%6s: %v\n", "flags", cpu.Flags)
	text += fmt.Sprintf("%6s: %d\n", "calls", len(cpu.Calls.Data))
	text += fmt.Sprintf("%6s: %d\n", "data", len(cpu.Data.Data))
	for n, value := range cpu.Register {
		if value != 0 {
			text += fmt.Sprintf("%6s: %04x\n", fmt.Sprintf("r%d", n), value)
		}
	}

	return
}

// Step fetches, decodes and executes a single instruction.
func (cpu *Cpu) Step() (err error) {
	if cpu.Stopped {
		err = ErrHalted
		return
	}

	ins, err := Decode(&cpu.Memory, cpu.Pc)
	if err != nil {
		return
	}

	err = cpu.Execute(ins)
	if err != nil {
		return
	}

	cpu.Ticks++

	return
}

// Run steps until halt or a fault, returning the exit status.
func (cpu *Cpu) Run() (status int, err error) {
	for !cpu.Stopped {
		err = cpu.Step()
		if err != nil {
			return
		}
	}

	status = cpu.Status
	return
}

// Execute executes a single decoded instruction, then advances the PC past
// it unless the instruction transferred control.
func (cpu *Cpu) Execute(ins Instruction) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrInstruction(ins), err)
		}
	}()

	if cpu.Verbose {
		log.Printf("%04x: %v", ins.Pc, ins)
	}

	info, ok := ins.Op.Info()
	if !ok {
		err = ErrOpcode{Pc: ins.Pc, Op: ins.Op}
		return
	}
	if len(ins.Operands) != len(info.Operands) {
		err = ErrOpcodeValueMissing
		return
	}
	for n, kind := range info.Operands {
		if kind == OPERAND_REG && ins.Operands[n] >= REGISTER_COUNT {
			err = ErrRegisterInvalid
			return
		}
	}

	next := int(ins.Pc) + ins.Size()
	args := ins.Operands
	reg := &cpu.Register
	mem := &cpu.Memory

	branch := func(taken bool) {
		if taken {
			next = int(args[0])
		}
	}

	switch ins.Op {
	case OP_HALT:
		cpu.Stopped = true
		cpu.Status = 0
		return
	case OP_DATA, OP_NOP:
		// Skip operand bytes.
	case OP_LOAD:
		reg[args[0]] = args[1]
	case OP_LDW:
		reg[args[0]], err = mem.U16(int(args[1]))
	case OP_LDB:
		reg[args[0]], err = mem.U8(int(args[1]))
	case OP_STW:
		err = mem.SetU16(int(args[1]), reg[args[0]])
	case OP_STB:
		err = mem.SetU8(int(args[1]), reg[args[0]])
	case OP_MOV:
		reg[args[0]] = reg[args[1]]
	case OP_LDR:
		reg[args[0]], err = mem.U16(int(reg[args[1]]))
	case OP_STR:
		err = mem.SetU16(int(reg[args[1]]), reg[args[0]])
	case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_MOD, OP_AND, OP_OR, OP_XOR, OP_SHL, OP_SHR, OP_SAR:
		reg[args[0]], err = alu(ins.Op, reg[args[1]], reg[args[2]])
	case OP_NOT:
		reg[args[0]] = ^reg[args[1]]
	case OP_NEG:
		reg[args[0]] = -reg[args[1]]
	case OP_INC:
		reg[args[0]]++
	case OP_DEC:
		reg[args[0]]--
	case OP_ADDI:
		reg[args[0]] += args[1]
	case OP_CMP:
		a, b := reg[args[0]], reg[args[1]]
		cpu.Flags = 0
		if a == b {
			cpu.Flags |= FLAG_ZERO
		}
		if int16(a) < int16(b) {
			cpu.Flags |= FLAG_LESS
		}
		if a < b {
			cpu.Flags |= FLAG_BELOW
		}
	case OP_JMP:
		branch(true)
	case OP_JE:
		branch(cpu.Flags&FLAG_ZERO != 0)
	case OP_JNE:
		branch(cpu.Flags&FLAG_ZERO == 0)
	case OP_JL:
		branch(cpu.Flags&FLAG_LESS != 0)
	case OP_JG:
		branch(cpu.Flags&(FLAG_LESS|FLAG_ZERO) == 0)
	case OP_JLE:
		branch(cpu.Flags&(FLAG_LESS|FLAG_ZERO) != 0)
	case OP_JGE:
		branch(cpu.Flags&FLAG_LESS == 0)
	case OP_JB:
		branch(cpu.Flags&FLAG_BELOW != 0)
	case OP_JA:
		branch(cpu.Flags&(FLAG_BELOW|FLAG_ZERO) == 0)
	case OP_CALL:
		err = cpu.Calls.Push(uint16(next))
		branch(true)
	case OP_RET:
		var addr uint16
		addr, err = cpu.Calls.Pop()
		next = int(addr)
	case OP_PUSH:
		err = cpu.Data.Push(reg[args[0]])
	case OP_POP:
		reg[args[0]], err = cpu.Data.Pop()
	case OP_IN:
		reg[args[0]], err = cpu.portRead()
	case OP_OUT:
		err = cpu.portWrite(reg[args[0]])
	default:
		err = ErrOpcode{Pc: ins.Pc, Op: ins.Op}
	}

	if err != nil {
		return
	}

	if next >= MEMORY_SIZE {
		err = ErrAddress{Addr: next, Size: 1}
		return
	}

	cpu.Pc = uint16(next)

	return
}

// alu computes a three register operation with 16-bit wraparound.
func alu(op Opcode, a, b uint16) (value uint16, err error) {
	switch op {
	case OP_ADD:
		value = a + b
	case OP_SUB:
		value = a - b
	case OP_MUL:
		value = a * b
	case OP_DIV:
		if b == 0 {
			err = ErrDivideByZero
			return
		}
		value = a / b
	case OP_MOD:
		if b == 0 {
			err = ErrDivideByZero
			return
		}
		value = a % b
	case OP_AND:
		value = a & b
	case OP_OR:
		value = a | b
	case OP_XOR:
		value = a ^ b
	case OP_SHL:
		value = a << b
	case OP_SHR:
		value = a >> b
	case OP_SAR:
		value = uint16(int16(a) >> b)
	}
	return
}

// portRead reads a byte from the input port; end of input reads as 0xffff.
func (cpu *Cpu) portRead() (value uint16, err error) {
	value = 0xffff
	if cpu.Input == nil {
		return
	}

	var one [1]byte
	_, err = io.ReadFull(cpu.Input, one[:])
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = nil
		return
	}
	if err != nil {
		return
	}

	value = uint16(one[0])
	return
}

// portWrite writes the low byte of value to the output port.
func (cpu *Cpu) portWrite(value uint16) (err error) {
	if cpu.Output == nil {
		return
	}

	_, err = cpu.Output.Write([]byte{byte(value)})
	return
}
