package rv32

import (
	"github.com/pkg/errors"
)

// Load creates the initial execution state for a flat RV32 image.
// The image is a sequence of little-endian instruction words loaded at
// address 0; the PC starts at 0.
func Load(data []byte) (cpu *Cpu, err error) {
	if len(data) == 0 {
		err = ErrImageEmpty
		return
	}

	if len(data)%4 != 0 {
		err = errors.Wrapf(ErrImageSize, "%d bytes", len(data))
		return
	}

	cpu = NewCpu(len(data))
	copy(cpu.Memory, data)

	return
}

// Image encodes instructions into a flat image.
func Image(code ...Instruction) (data []byte) {
	data = make([]byte, 0, 4*len(code))
	for _, ins := range code {
		data = append(data, byte(ins), byte(ins>>8), byte(ins>>16), byte(ins>>24))
	}
	return
}
