package toy

import (
	"fmt"
	"strings"
)

// Instruction is a decoded Toy instruction.
type Instruction struct {
	Pc       uint16   // Address of the opcode byte.
	Op       Opcode   // Operation.
	Operands []uint16 // Operand values, in encoding order.
}

// Size returns the number of bytes the instruction occupies.
func (ins Instruction) Size() int {
	info, _ := ins.Op.Info()
	return 1 + info.Arity()
}

// Bytes encodes the instruction.
func (ins Instruction) Bytes() (code []byte) {
	info, ok := ins.Op.Info()
	if !ok {
		return []byte{byte(ins.Op)}
	}

	code = make([]byte, 0, 1+info.Arity())
	code = append(code, byte(ins.Op))
	for n, kind := range info.Operands {
		var value uint16
		if n < len(ins.Operands) {
			value = ins.Operands[n]
		}
		if kind == OPERAND_REG {
			code = append(code, byte(value))
		} else {
			code = append(code, byte(value), byte(value>>8))
		}
	}

	return
}

// String returns the assembly language representation of the instruction.
func (ins Instruction) String() string {
	info, ok := ins.Op.Info()
	if !ok {
		return ins.Op.String()
	}

	if ins.Op == OP_DATA && len(ins.Operands) == 1 {
		return fmt.Sprintf("data %d", ins.Operands[0])
	}

	words := []string{info.Name}
	for n, kind := range info.Operands {
		if n >= len(ins.Operands) {
			break
		}
		value := ins.Operands[n]
		switch kind {
		case OPERAND_REG:
			words = append(words, fmt.Sprintf("$%d", value))
		case OPERAND_IMM:
			words = append(words, fmt.Sprintf("#%d", value))
		case OPERAND_ADDR:
			words = append(words, fmt.Sprintf("*0x%04x", value))
		}
	}

	return strings.Join(words, " ")
}

// Decode reads the instruction at pc without modifying any state.
// The opcode byte selects the operand layout; operand bytes are read only
// after the opcode is known.
func Decode(mem *Memory, pc uint16) (ins Instruction, err error) {
	op, err := mem.U8(int(pc))
	if err != nil {
		return
	}

	ins.Pc = pc
	ins.Op = Opcode(op)

	info, ok := ins.Op.Info()
	if !ok {
		err = ErrOpcode{Pc: pc, Op: ins.Op}
		return
	}

	cursor := int(pc) + 1
	ins.Operands = make([]uint16, len(info.Operands))
	for n, kind := range info.Operands {
		var value uint16
		if kind == OPERAND_REG {
			value, err = mem.U8(cursor)
		} else {
			value, err = mem.U16(cursor)
		}
		if err != nil {
			return
		}
		ins.Operands[n] = value
		cursor += kind.Size()
	}

	return
}
