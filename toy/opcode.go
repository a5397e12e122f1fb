// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package toy

import (
	"fmt"
)

// Opcode is a Toy operation code byte.
type Opcode byte

// Known opcodes.
const (
	OP_HALT = Opcode(0x00)
	OP_DATA = Opcode(0x01)
	OP_NOP  = Opcode(0x02)

	OP_LOAD = Opcode(0x10)
	OP_LDW  = Opcode(0x11)
	OP_LDB  = Opcode(0x12)
	OP_STW  = Opcode(0x13)
	OP_STB  = Opcode(0x14)
	OP_MOV  = Opcode(0x15)
	OP_LDR  = Opcode(0x16)
	OP_STR  = Opcode(0x17)

	OP_ADD = Opcode(0x20)
	OP_SUB = Opcode(0x21)
	OP_MUL = Opcode(0x22)
	OP_DIV = Opcode(0x23)
	OP_MOD = Opcode(0x24)
	OP_AND = Opcode(0x25)
	OP_OR  = Opcode(0x26)
	OP_XOR = Opcode(0x27)
	OP_SHL = Opcode(0x28)
	OP_SHR = Opcode(0x29)
	OP_SAR = Opcode(0x2a)

	OP_NOT  = Opcode(0x30)
	OP_NEG  = Opcode(0x31)
	OP_INC  = Opcode(0x32)
	OP_DEC  = Opcode(0x33)
	OP_ADDI = Opcode(0x34)
	OP_CMP  = Opcode(0x38)

	OP_JMP = Opcode(0x40)
	OP_JE  = Opcode(0x41)
	OP_JNE = Opcode(0x42)
	OP_JL  = Opcode(0x43)
	OP_JG  = Opcode(0x44)
	OP_JLE = Opcode(0x45)
	OP_JGE = Opcode(0x46)
	OP_JB  = Opcode(0x47)
	OP_JA  = Opcode(0x48)

	OP_CALL = Opcode(0x50)
	OP_RET  = Opcode(0x51)
	OP_PUSH = Opcode(0x52)
	OP_POP  = Opcode(0x53)

	OP_IN  = Opcode(0x60)
	OP_OUT = Opcode(0x61)
)

// Operand is the kind of an instruction operand.
type Operand int

const (
	OPERAND_REG  = Operand(0) // One byte register index.
	OPERAND_IMM  = Operand(1) // Two byte immediate value.
	OPERAND_ADDR = Operand(2) // Two byte memory address.
)

// Size returns the number of code bytes the operand occupies.
func (o Operand) Size() int {
	if o == OPERAND_REG {
		return 1
	}
	return 2
}

// OpInfo describes the name and operand layout of an opcode.
type OpInfo struct {
	Name     string
	Operands []Operand
}

// Arity returns the number of operand bytes following the opcode byte.
func (info OpInfo) Arity() (size int) {
	for _, o := range info.Operands {
		size += o.Size()
	}
	return
}

var (
	opNone    = []Operand{}
	opR       = []Operand{OPERAND_REG}
	opRR      = []Operand{OPERAND_REG, OPERAND_REG}
	opRRR     = []Operand{OPERAND_REG, OPERAND_REG, OPERAND_REG}
	opRI      = []Operand{OPERAND_REG, OPERAND_IMM}
	opRA      = []Operand{OPERAND_REG, OPERAND_ADDR}
	opI       = []Operand{OPERAND_IMM}
	opA       = []Operand{OPERAND_ADDR}
	opInfoMap = map[Opcode]OpInfo{
		OP_HALT: {"halt", opNone},
		OP_DATA: {"data", opI},
		OP_NOP:  {"nop", opNone},

		OP_LOAD: {"load", opRI},
		OP_LDW:  {"ldw", opRA},
		OP_LDB:  {"ldb", opRA},
		OP_STW:  {"stw", opRA},
		OP_STB:  {"stb", opRA},
		OP_MOV:  {"mov", opRR},
		OP_LDR:  {"ldr", opRR},
		OP_STR:  {"str", opRR},

		OP_ADD: {"add", opRRR},
		OP_SUB: {"sub", opRRR},
		OP_MUL: {"mul", opRRR},
		OP_DIV: {"div", opRRR},
		OP_MOD: {"mod", opRRR},
		OP_AND: {"and", opRRR},
		OP_OR:  {"or", opRRR},
		OP_XOR: {"xor", opRRR},
		OP_SHL: {"shl", opRRR},
		OP_SHR: {"shr", opRRR},
		OP_SAR: {"sar", opRRR},

		OP_NOT:  {"not", opRR},
		OP_NEG:  {"neg", opRR},
		OP_INC:  {"inc", opR},
		OP_DEC:  {"dec", opR},
		OP_ADDI: {"addi", opRI},
		OP_CMP:  {"cmp", opRR},

		OP_JMP: {"jmp", opA},
		OP_JE:  {"je", opA},
		OP_JNE: {"jne", opA},
		OP_JL:  {"jl", opA},
		OP_JG:  {"jg", opA},
		OP_JLE: {"jle", opA},
		OP_JGE: {"jge", opA},
		OP_JB:  {"jb", opA},
		OP_JA:  {"ja", opA},

		OP_CALL: {"call", opA},
		OP_RET:  {"ret", opNone},
		OP_PUSH: {"push", opR},
		OP_POP:  {"pop", opR},

		OP_IN:  {"in", opR},
		OP_OUT: {"out", opR},
	}
	opNameMap = func() map[string]Opcode {
		names := make(map[string]Opcode, len(opInfoMap))
		for op, info := range opInfoMap {
			names[info.Name] = op
		}
		return names
	}()
)

// Info returns the operand layout of the opcode.
// Returns false if the opcode is not part of the instruction set.
func (op Opcode) Info() (info OpInfo, ok bool) {
	info, ok = opInfoMap[op]
	return
}

// String returns the mnemonic of the opcode.
func (op Opcode) String() string {
	info, ok := opInfoMap[op]
	if !ok {
		return fmt.Sprintf("op(0x%02x)", byte(op))
	}
	return info.Name
}

// LookupOpcode returns the opcode for the given mnemonic.
// Returns false if the name is not recognized.
func LookupOpcode(name string) (op Opcode, ok bool) {
	op, ok = opNameMap[name]
	return
}
