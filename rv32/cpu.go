// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package rv32

import (
	"encoding/binary"
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
)

const (
	DEFAULT_MEMORY_SIZE = 64 * 1024 // Minimum memory size.
	REGISTER_COUNT      = 32        // Number of integer registers.

	REG_ZERO = 0 // Hardwired zero.
	REG_RA   = 1 // Return address.
	REG_SP   = 2 // Stack pointer.
)

var _rv32_defines = map[string]string{
	"RV32_MEMORY_SIZE": fmt.Sprintf("%d", DEFAULT_MEMORY_SIZE),
	"RV32_REGISTERS":   fmt.Sprintf("%d", REGISTER_COUNT),
}

// Defines returns the architecture constants made available to the assembler.
func Defines() iter.Seq2[string, string] {
	return maps.All(_rv32_defines)
}

// Cpu is the execution state of one RV32 run.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Register [REGISTER_COUNT]uint32 // Integer registers. Register 0 is never written.
	Pc       uint32                 // Program counter.
	Memory   []byte                 // Flat memory, starting at address 0.

	Stopped bool // Set once ecall has executed.
	Status  int  // Exit status, valid once stopped.
	Ticks   int  // Instructions executed since reset.
}

// NewCpu creates a CPU with at least size bytes of memory.
func NewCpu(size int) (cpu *Cpu) {
	cpu = &Cpu{
		Memory: make([]byte, max(size, DEFAULT_MEMORY_SIZE)),
	}
	cpu.Reset()
	return
}

// Reset clears the registers and rewinds the PC to 0. Memory is unchanged.
// The stack pointer starts at the top of memory.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("rv32: reset")
	}

	clear(cpu.Register[:])
	cpu.Register[REG_SP] = uint32(len(cpu.Memory))
	cpu.Pc = 0
	cpu.Stopped = false
	cpu.Status = 0
	cpu.Ticks = 0
}

// Halted returns true once the program has executed ecall.
func (cpu *Cpu) Halted() bool {
	return cpu.Stopped
}

// ExitStatus returns the exit status of a halted program.
func (cpu *Cpu) ExitStatus() int {
	return cpu.Status
}

// ProgramCounter returns the current PC.
func (cpu *Cpu) ProgramCounter() uint32 {
	return cpu.Pc
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("%6s: %08x\n", "pc", cpu.Pc)
	for n, value := range cpu.Register {
		if value != 0 {
			text += fmt.Sprintf("%6s: %08x\n", fmt.Sprintf("x%d", n), value)
		}
	}

	return
}

// GetRegister returns the value of a register. Register 0 always reads 0.
func (cpu *Cpu) GetRegister(r uint32) uint32 {
	if r == REG_ZERO {
		return 0
	}
	return cpu.Register[r&0x1f]
}

// SetRegister writes a register. Writes to register 0 are discarded.
func (cpu *Cpu) SetRegister(r uint32, value uint32) {
	if r == REG_ZERO {
		return
	}
	cpu.Register[r&0x1f] = value
}

func (cpu *Cpu) check(addr uint32, size int) (err error) {
	if uint64(addr)+uint64(size) > uint64(len(cpu.Memory)) {
		err = ErrAddress{Addr: addr, Size: size}
	}
	return
}

// Load reads a little-endian value of 1, 2 or 4 bytes.
func (cpu *Cpu) Load(addr uint32, size int) (value uint32, err error) {
	err = cpu.check(addr, size)
	if err != nil {
		return
	}

	mem := cpu.Memory[addr:]
	switch size {
	case 1:
		value = uint32(mem[0])
	case 2:
		value = uint32(binary.LittleEndian.Uint16(mem))
	default:
		value = binary.LittleEndian.Uint32(mem)
	}

	return
}

// Store writes the low size bytes of value, little-endian.
func (cpu *Cpu) Store(addr uint32, size int, value uint32) (err error) {
	err = cpu.check(addr, size)
	if err != nil {
		return
	}

	mem := cpu.Memory[addr:]
	switch size {
	case 1:
		mem[0] = byte(value)
	case 2:
		binary.LittleEndian.PutUint16(mem, uint16(value))
	default:
		binary.LittleEndian.PutUint32(mem, value)
	}

	return
}

// Bytes returns a copy of size bytes of memory starting at addr.
func (cpu *Cpu) Bytes(addr uint32, size int) (data []byte, err error) {
	err = cpu.check(addr, size)
	if err != nil {
		return
	}

	data = make([]byte, size)
	copy(data, cpu.Memory[addr:])
	return
}

// Fetch reads the instruction word at the PC.
func (cpu *Cpu) Fetch() (ins Instruction, err error) {
	if cpu.Pc%4 != 0 {
		err = ErrMisaligned(cpu.Pc)
		return
	}

	word, err := cpu.Load(cpu.Pc, 4)
	if err != nil {
		return
	}

	ins = Instruction(word)
	return
}

// Step fetches, decodes and executes a single instruction.
func (cpu *Cpu) Step() (err error) {
	if cpu.Stopped {
		err = ErrHalted
		return
	}

	ins, err := cpu.Fetch()
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

// Run steps until ecall or a fault, returning the exit status.
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

// loadSize maps a load or store width to its byte count and signedness.
func loadSize(f3 uint32) (size int, signed bool) {
	switch f3 {
	case FUNCT3_B:
		return 1, true
	case FUNCT3_H:
		return 2, true
	case FUNCT3_BU:
		return 1, false
	case FUNCT3_HU:
		return 2, false
	}
	return 4, false
}

// Execute executes a single instruction at the current PC.
func (cpu *Cpu) Execute(ins Instruction) (err error) {
	pc := cpu.Pc

	defer func() {
		if err != nil {
			err = errors.Join(ErrInstruction{Pc: pc, Ins: ins}, err)
		}
	}()

	if cpu.Verbose {
		log.Printf("%08x: %v", pc, ins)
	}

	_, ok := ins.Name()
	if !ok {
		err = ErrUnimplemented(ins)
		return
	}

	next := pc + 4
	rd := ins.Rd()
	a := cpu.GetRegister(ins.Rs1())
	b := cpu.GetRegister(ins.Rs2())

	switch ins.Opcode() {
	case OPCODE_LUI:
		cpu.SetRegister(rd, uint32(ins.ImmU()))
	case OPCODE_AUIPC:
		cpu.SetRegister(rd, pc+uint32(ins.ImmU()))
	case OPCODE_JAL:
		cpu.SetRegister(rd, next)
		next = pc + uint32(ins.ImmJ())
	case OPCODE_JALR:
		target := (a + uint32(ins.ImmI())) &^ 1
		cpu.SetRegister(rd, next)
		next = target
	case OPCODE_BRANCH:
		var taken bool
		switch ins.Funct3() {
		case FUNCT3_BEQ:
			taken = a == b
		case FUNCT3_BNE:
			taken = a != b
		case FUNCT3_BLT:
			taken = int32(a) < int32(b)
		case FUNCT3_BGE:
			taken = int32(a) >= int32(b)
		case FUNCT3_BLTU:
			taken = a < b
		case FUNCT3_BGEU:
			taken = a >= b
		}
		if taken {
			next = pc + uint32(ins.ImmB())
		}
	case OPCODE_LOAD:
		size, signed := loadSize(ins.Funct3())
		var value uint32
		value, err = cpu.Load(a+uint32(ins.ImmI()), size)
		if err != nil {
			return
		}
		if signed {
			shift := 32 - 8*size
			value = uint32(int32(value<<shift) >> shift)
		}
		cpu.SetRegister(rd, value)
	case OPCODE_STORE:
		size, _ := loadSize(ins.Funct3())
		err = cpu.Store(a+uint32(ins.ImmS()), size, b)
		if err != nil {
			return
		}
	case OPCODE_OP_IMM:
		imm := uint32(ins.ImmI())
		if ins.Funct3() == FUNCT3_SLL || ins.Funct3() == FUNCT3_SR {
			imm = ins.Rs2()
		}
		cpu.SetRegister(rd, alu(ins.Funct3(), ins.Funct7(), a, imm))
	case OPCODE_OP:
		if ins.Funct3() == FUNCT3_ADD && ins.Funct7() == FUNCT7_ALT {
			cpu.SetRegister(rd, a-b)
		} else {
			cpu.SetRegister(rd, alu(ins.Funct3(), ins.Funct7(), a, b))
		}
	case OPCODE_MISC_MEM:
		// Single hart; fence has nothing to order.
	case OPCODE_SYSTEM:
		if ins == WORD_EBREAK {
			err = ErrBreakpoint
			return
		}
		cpu.Stopped = true
		cpu.Status = 0
		return
	}

	if next%4 != 0 {
		err = ErrMisaligned(next)
		return
	}

	cpu.Pc = next

	return
}

// alu computes an OP or OP-IMM result with 32-bit wraparound.
func alu(f3, f7 uint32, a, b uint32) (value uint32) {
	switch f3 {
	case FUNCT3_ADD:
		value = a + b
	case FUNCT3_SLL:
		value = a << (b & 0x1f)
	case FUNCT3_SLT:
		if int32(a) < int32(b) {
			value = 1
		}
	case FUNCT3_SLTU:
		if a < b {
			value = 1
		}
	case FUNCT3_XOR:
		value = a ^ b
	case FUNCT3_SR:
		if f7 == FUNCT7_ALT {
			value = uint32(int32(a) >> (b & 0x1f))
		} else {
			value = a >> (b & 0x1f)
		}
	case FUNCT3_OR:
		value = a | b
	case FUNCT3_AND:
		value = a & b
	}
	return
}
