package rv32

import (
	"fmt"
)

// Instruction is a single 32-bit instruction word.
type Instruction uint32

// Major opcodes, bits [6:0].
const (
	OPCODE_LOAD     = uint32(0x03)
	OPCODE_MISC_MEM = uint32(0x0f)
	OPCODE_OP_IMM   = uint32(0x13)
	OPCODE_AUIPC    = uint32(0x17)
	OPCODE_STORE    = uint32(0x23)
	OPCODE_OP       = uint32(0x33)
	OPCODE_LUI      = uint32(0x37)
	OPCODE_BRANCH   = uint32(0x63)
	OPCODE_JALR     = uint32(0x67)
	OPCODE_JAL      = uint32(0x6f)
	OPCODE_SYSTEM   = uint32(0x73)
)

// OP and OP-IMM function selectors, bits [14:12].
const (
	FUNCT3_ADD  = uint32(0)
	FUNCT3_SLL  = uint32(1)
	FUNCT3_SLT  = uint32(2)
	FUNCT3_SLTU = uint32(3)
	FUNCT3_XOR  = uint32(4)
	FUNCT3_SR   = uint32(5)
	FUNCT3_OR   = uint32(6)
	FUNCT3_AND  = uint32(7)
)

// Branch conditions.
const (
	FUNCT3_BEQ  = uint32(0)
	FUNCT3_BNE  = uint32(1)
	FUNCT3_BLT  = uint32(4)
	FUNCT3_BGE  = uint32(5)
	FUNCT3_BLTU = uint32(6)
	FUNCT3_BGEU = uint32(7)
)

// Load and store widths.
const (
	FUNCT3_B  = uint32(0)
	FUNCT3_H  = uint32(1)
	FUNCT3_W  = uint32(2)
	FUNCT3_BU = uint32(4)
	FUNCT3_HU = uint32(5)
)

const (
	FUNCT7_ALT = uint32(0x20) // sub, sra and srai.

	WORD_ECALL  = Instruction(0x00000073)
	WORD_EBREAK = Instruction(0x00100073)
)

func (ins Instruction) Opcode() uint32 { return uint32(ins) & 0x7f }
func (ins Instruction) Rd() uint32     { return (uint32(ins) >> 7) & 0x1f }
func (ins Instruction) Funct3() uint32 { return (uint32(ins) >> 12) & 0x7 }
func (ins Instruction) Rs1() uint32    { return (uint32(ins) >> 15) & 0x1f }
func (ins Instruction) Rs2() uint32    { return (uint32(ins) >> 20) & 0x1f }
func (ins Instruction) Funct7() uint32 { return (uint32(ins) >> 25) & 0x7f }

// ImmI returns the sign extended I-type immediate.
func (ins Instruction) ImmI() int32 {
	return int32(ins) >> 20
}

// ImmS returns the sign extended S-type immediate.
func (ins Instruction) ImmS() int32 {
	return (int32(ins)>>25)<<5 | int32((uint32(ins)>>7)&0x1f)
}

// ImmB returns the sign extended B-type branch offset.
func (ins Instruction) ImmB() int32 {
	return (int32(ins)>>31)<<12 |
		int32((uint32(ins)>>7)&0x1)<<11 |
		int32((uint32(ins)>>25)&0x3f)<<5 |
		int32((uint32(ins)>>8)&0xf)<<1
}

// ImmU returns the U-type immediate, already shifted into the upper bits.
func (ins Instruction) ImmU() int32 {
	return int32(uint32(ins) & 0xfffff000)
}

// ImmJ returns the sign extended J-type jump offset.
func (ins Instruction) ImmJ() int32 {
	return (int32(ins)>>31)<<20 |
		int32((uint32(ins)>>12)&0xff)<<12 |
		int32((uint32(ins)>>20)&0x1)<<11 |
		int32((uint32(ins)>>21)&0x3ff)<<1
}

var (
	opName = map[[2]uint32]string{
		{0, FUNCT3_ADD}:          "add",
		{FUNCT7_ALT, FUNCT3_ADD}: "sub",
		{0, FUNCT3_SLL}:          "sll",
		{0, FUNCT3_SLT}:          "slt",
		{0, FUNCT3_SLTU}:         "sltu",
		{0, FUNCT3_XOR}:          "xor",
		{0, FUNCT3_SR}:           "srl",
		{FUNCT7_ALT, FUNCT3_SR}:  "sra",
		{0, FUNCT3_OR}:           "or",
		{0, FUNCT3_AND}:          "and",
	}
	opImmName = map[uint32]string{
		FUNCT3_ADD:  "addi",
		FUNCT3_SLT:  "slti",
		FUNCT3_SLTU: "sltiu",
		FUNCT3_XOR:  "xori",
		FUNCT3_OR:   "ori",
		FUNCT3_AND:  "andi",
	}
	branchName = map[uint32]string{
		FUNCT3_BEQ:  "beq",
		FUNCT3_BNE:  "bne",
		FUNCT3_BLT:  "blt",
		FUNCT3_BGE:  "bge",
		FUNCT3_BLTU: "bltu",
		FUNCT3_BGEU: "bgeu",
	}
	loadName = map[uint32]string{
		FUNCT3_B:  "lb",
		FUNCT3_H:  "lh",
		FUNCT3_W:  "lw",
		FUNCT3_BU: "lbu",
		FUNCT3_HU: "lhu",
	}
	storeName = map[uint32]string{
		FUNCT3_B: "sb",
		FUNCT3_H: "sh",
		FUNCT3_W: "sw",
	}
)

// Name returns the mnemonic of the instruction.
// Returns false if the encoding is not part of the supported subset.
func (ins Instruction) Name() (name string, ok bool) {
	f3 := ins.Funct3()
	f7 := ins.Funct7()

	switch ins.Opcode() {
	case OPCODE_LUI:
		name, ok = "lui", true
	case OPCODE_AUIPC:
		name, ok = "auipc", true
	case OPCODE_JAL:
		name, ok = "jal", true
	case OPCODE_JALR:
		name, ok = "jalr", f3 == 0
	case OPCODE_BRANCH:
		name, ok = branchName[f3]
	case OPCODE_LOAD:
		name, ok = loadName[f3]
	case OPCODE_STORE:
		name, ok = storeName[f3]
	case OPCODE_OP_IMM:
		switch {
		case f3 == FUNCT3_SLL && f7 == 0:
			name, ok = "slli", true
		case f3 == FUNCT3_SR && f7 == 0:
			name, ok = "srli", true
		case f3 == FUNCT3_SR && f7 == FUNCT7_ALT:
			name, ok = "srai", true
		case f3 != FUNCT3_SLL && f3 != FUNCT3_SR:
			name, ok = opImmName[f3]
		}
	case OPCODE_OP:
		name, ok = opName[[2]uint32{f7, f3}]
	case OPCODE_MISC_MEM:
		name, ok = "fence", f3 == 0
	case OPCODE_SYSTEM:
		switch ins {
		case WORD_ECALL:
			name, ok = "ecall", true
		case WORD_EBREAK:
			name, ok = "ebreak", true
		}
	}

	if !ok {
		name = ""
	}

	return
}

// String returns the disassembly of the instruction.
func (ins Instruction) String() string {
	name, ok := ins.Name()
	if !ok {
		return fmt.Sprintf(".word 0x%08x", uint32(ins))
	}

	rd, rs1, rs2 := ins.Rd(), ins.Rs1(), ins.Rs2()

	switch ins.Opcode() {
	case OPCODE_LUI, OPCODE_AUIPC:
		return fmt.Sprintf("%s x%d, 0x%x", name, rd, uint32(ins.ImmU())>>12)
	case OPCODE_JAL:
		return fmt.Sprintf("%s x%d, %d", name, rd, ins.ImmJ())
	case OPCODE_JALR, OPCODE_LOAD:
		return fmt.Sprintf("%s x%d, %d(x%d)", name, rd, ins.ImmI(), rs1)
	case OPCODE_BRANCH:
		return fmt.Sprintf("%s x%d, x%d, %d", name, rs1, rs2, ins.ImmB())
	case OPCODE_STORE:
		return fmt.Sprintf("%s x%d, %d(x%d)", name, rs2, ins.ImmS(), rs1)
	case OPCODE_OP_IMM:
		if ins.Funct3() == FUNCT3_SLL || ins.Funct3() == FUNCT3_SR {
			return fmt.Sprintf("%s x%d, x%d, %d", name, rd, rs1, rs2)
		}
		return fmt.Sprintf("%s x%d, x%d, %d", name, rd, rs1, ins.ImmI())
	case OPCODE_OP:
		return fmt.Sprintf("%s x%d, x%d, x%d", name, rd, rs1, rs2)
	}

	return name
}

func makeR(opcode, rd, f3, rs1, rs2, f7 uint32) Instruction {
	return Instruction(f7<<25 | (rs2&0x1f)<<20 | (rs1&0x1f)<<15 | f3<<12 | (rd&0x1f)<<7 | opcode)
}

func makeI(opcode, rd, f3, rs1 uint32, imm int32) Instruction {
	return Instruction((uint32(imm)&0xfff)<<20 | (rs1&0x1f)<<15 | f3<<12 | (rd&0x1f)<<7 | opcode)
}

func makeS(opcode, f3, rs1, rs2 uint32, imm int32) Instruction {
	u := uint32(imm)
	return Instruction(((u>>5)&0x7f)<<25 | (rs2&0x1f)<<20 | (rs1&0x1f)<<15 | f3<<12 | (u&0x1f)<<7 | opcode)
}

func makeB(opcode, f3, rs1, rs2 uint32, imm int32) Instruction {
	u := uint32(imm)
	return Instruction(((u>>12)&0x1)<<31 | ((u>>5)&0x3f)<<25 | (rs2&0x1f)<<20 | (rs1&0x1f)<<15 |
		f3<<12 | ((u>>1)&0xf)<<8 | ((u>>11)&0x1)<<7 | opcode)
}

func makeU(opcode, rd uint32, imm20 uint32) Instruction {
	return Instruction((imm20&0xfffff)<<12 | (rd&0x1f)<<7 | opcode)
}

func makeJ(opcode, rd uint32, imm int32) Instruction {
	u := uint32(imm)
	return Instruction(((u>>20)&0x1)<<31 | ((u>>1)&0x3ff)<<21 | ((u>>11)&0x1)<<20 |
		((u>>12)&0xff)<<12 | (rd&0x1f)<<7 | opcode)
}

// MakeOp encodes a register-register operation.
func MakeOp(f3, f7, rd, rs1, rs2 uint32) Instruction {
	return makeR(OPCODE_OP, rd, f3, rs1, rs2, f7)
}

// MakeOpImm encodes a register-immediate operation.
// For shifts, imm holds the shift amount ORed with FUNCT7_ALT<<5 for srai.
func MakeOpImm(f3, rd, rs1 uint32, imm int32) Instruction {
	return makeI(OPCODE_OP_IMM, rd, f3, rs1, imm)
}

// MakeLoad encodes a load of rd from imm(rs1).
func MakeLoad(f3, rd, rs1 uint32, imm int32) Instruction {
	return makeI(OPCODE_LOAD, rd, f3, rs1, imm)
}

// MakeStore encodes a store of rs2 to imm(rs1).
func MakeStore(f3, rs1, rs2 uint32, imm int32) Instruction {
	return makeS(OPCODE_STORE, f3, rs1, rs2, imm)
}

// MakeBranch encodes a conditional branch to pc+imm.
func MakeBranch(f3, rs1, rs2 uint32, imm int32) Instruction {
	return makeB(OPCODE_BRANCH, f3, rs1, rs2, imm)
}

// MakeJal encodes a jump to pc+imm, linking rd.
func MakeJal(rd uint32, imm int32) Instruction {
	return makeJ(OPCODE_JAL, rd, imm)
}

// MakeJalr encodes an indirect jump to rs1+imm, linking rd.
func MakeJalr(rd, rs1 uint32, imm int32) Instruction {
	return makeI(OPCODE_JALR, rd, 0, rs1, imm)
}

// MakeLui encodes a load of imm20 into the upper bits of rd.
func MakeLui(rd uint32, imm20 uint32) Instruction {
	return makeU(OPCODE_LUI, rd, imm20)
}

// MakeAuipc encodes rd = pc + (imm20 << 12).
func MakeAuipc(rd uint32, imm20 uint32) Instruction {
	return makeU(OPCODE_AUIPC, rd, imm20)
}

// MakeAdd encodes rd = rs1 + rs2.
func MakeAdd(rd, rs1, rs2 uint32) Instruction {
	return MakeOp(FUNCT3_ADD, 0, rd, rs1, rs2)
}

// MakeXor encodes rd = rs1 ^ rs2.
func MakeXor(rd, rs1, rs2 uint32) Instruction {
	return MakeOp(FUNCT3_XOR, 0, rd, rs1, rs2)
}

// MakeSlt encodes a signed rs1 < rs2 comparison into rd.
func MakeSlt(rd, rs1, rs2 uint32) Instruction {
	return MakeOp(FUNCT3_SLT, 0, rd, rs1, rs2)
}

// MakeAddi encodes rd = rs1 + imm.
func MakeAddi(rd, rs1 uint32, imm int32) Instruction {
	return MakeOpImm(FUNCT3_ADD, rd, rs1, imm)
}

// MakeEcall encodes an environment call.
func MakeEcall() Instruction {
	return WORD_ECALL
}

// MakeEbreak encodes a breakpoint.
func MakeEbreak() Instruction {
	return WORD_EBREAK
}
