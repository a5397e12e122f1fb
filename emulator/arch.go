package emulator

import (
	"iter"
	"strings"

	"github.com/ezrec/iss/rv32"
	"github.com/ezrec/iss/toy"
)

//go:generate go tool stringer -linecomment -type=Arch

// Arch is a supported instruction set architecture.
type Arch int

const (
	ARCH_TOY  Arch = iota // toy
	ARCH_RV32             // rv32
)

// archInfo binds an architecture to its loader and assembler defines.
type archInfo struct {
	load    func(emu *Emulator, data []byte) (Machine, error)
	defines func() iter.Seq2[string, string]
}

var archTable = map[Arch]archInfo{
	ARCH_TOY:  {load: loadToy, defines: toy.Defines},
	ARCH_RV32: {load: loadRv32, defines: rv32.Defines},
}

var archAlias = map[string]Arch{
	"toy":   ARCH_TOY,
	"rv32":  ARCH_RV32,
	"rv":    ARCH_RV32,
	"riscv": ARCH_RV32,
}

// Archs returns the supported architectures, in order.
func Archs() iter.Seq[Arch] {
	return func(yield func(Arch) bool) {
		for arch := ARCH_TOY; arch <= ARCH_RV32; arch++ {
			if !yield(arch) {
				return
			}
		}
	}
}

// ParseArch returns the architecture for a name or alias.
// An unknown name is a usage error.
func ParseArch(name string) (arch Arch, err error) {
	arch, ok := archAlias[strings.ToLower(name)]
	if !ok {
		err = ErrArch(name)
		return
	}
	return
}

// Defines returns the assembler defines of the architecture.
func (arch Arch) Defines() iter.Seq2[string, string] {
	info, ok := archTable[arch]
	if !ok {
		return func(yield func(string, string) bool) {}
	}
	return info.defines()
}

func loadToy(emu *Emulator, data []byte) (m Machine, err error) {
	cpu, err := toy.Load(data)
	if err != nil {
		return
	}

	cpu.Verbose = emu.Verbose
	cpu.Input = emu.Input
	cpu.Output = emu.Output

	m = cpu
	return
}

func loadRv32(emu *Emulator, data []byte) (m Machine, err error) {
	cpu, err := rv32.Load(data)
	if err != nil {
		return
	}

	cpu.Verbose = emu.Verbose

	m = cpu
	return
}
