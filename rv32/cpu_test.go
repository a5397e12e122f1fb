package rv32_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ezrec/iss/rv32"
)

// run loads the instructions as an image and runs them to completion.
func run(code ...rv32.Instruction) (cpu *rv32.Cpu, status int, err error) {
	cpu, err = rv32.Load(rv32.Image(code...))
	Expect(err).NotTo(HaveOccurred())

	status, err = cpu.Run()
	return
}

var _ = Describe("Cpu", func() {
	Context("Arithmetic Instructions", func() {
		It("should add registers", func() {
			cpu, status, err := run(
				rv32.MakeAddi(1, 0, 10),
				rv32.MakeAddi(2, 0, 20),
				rv32.MakeAdd(3, 1, 2),
				rv32.MakeEcall(),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(0))
			Expect(cpu.Register[3]).To(Equal(uint32(30)))
			Expect(cpu.Halted()).To(BeTrue())
		})

		It("should wrap around on overflow", func() {
			cpu, _, err := run(
				rv32.MakeAddi(1, 0, -1),
				rv32.MakeAddi(2, 0, 2),
				rv32.MakeAdd(3, 1, 2),
				rv32.MakeLui(4, 0x80000),
				rv32.MakeAdd(5, 4, 4),
				rv32.MakeAddi(6, 1, 1),
				rv32.MakeEcall(),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(cpu.Register[1]).To(Equal(uint32(0xffffffff)))
			Expect(cpu.Register[3]).To(Equal(uint32(1)))
			Expect(cpu.Register[4]).To(Equal(uint32(0x80000000)))
			Expect(cpu.Register[5]).To(Equal(uint32(0)))
			Expect(cpu.Register[6]).To(Equal(uint32(0)))
		})

		It("should compare signed and unsigned", func() {
			cpu, _, err := run(
				rv32.MakeAddi(1, 0, 10),
				rv32.MakeAddi(2, 0, 20),
				rv32.MakeSlt(4, 1, 2),
				rv32.MakeSlt(5, 2, 1),
				rv32.MakeAddi(6, 0, -1),
				rv32.MakeSlt(7, 6, 1),
				rv32.MakeOp(rv32.FUNCT3_SLTU, 0, 8, 6, 1),
				rv32.MakeOpImm(rv32.FUNCT3_SLT, 9, 6, 0),
				rv32.MakeOpImm(rv32.FUNCT3_SLTU, 10, 1, -1),
				rv32.MakeEcall(),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(cpu.Register[4]).To(Equal(uint32(1)))
			Expect(cpu.Register[5]).To(Equal(uint32(0)))
			Expect(cpu.Register[7]).To(Equal(uint32(1)))
			Expect(cpu.Register[8]).To(Equal(uint32(0)))
			Expect(cpu.Register[9]).To(Equal(uint32(1)))
			Expect(cpu.Register[10]).To(Equal(uint32(1)))
		})

		It("should perform logical operations", func() {
			cpu, _, err := run(
				rv32.MakeAddi(1, 0, 12),
				rv32.MakeAddi(2, 0, 10),
				rv32.MakeXor(3, 1, 2),
				rv32.MakeOp(rv32.FUNCT3_OR, 0, 4, 1, 2),
				rv32.MakeOp(rv32.FUNCT3_AND, 0, 5, 1, 2),
				rv32.MakeOp(rv32.FUNCT3_ADD, rv32.FUNCT7_ALT, 6, 2, 1),
				rv32.MakeOpImm(rv32.FUNCT3_XOR, 7, 1, -1),
				rv32.MakeOpImm(rv32.FUNCT3_OR, 8, 1, 3),
				rv32.MakeOpImm(rv32.FUNCT3_AND, 9, 1, 4),
				rv32.MakeEcall(),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(cpu.Register[3]).To(Equal(uint32(6)))
			Expect(cpu.Register[4]).To(Equal(uint32(14)))
			Expect(cpu.Register[5]).To(Equal(uint32(8)))
			Expect(cpu.Register[6]).To(Equal(uint32(0xfffffffe)))
			Expect(cpu.Register[7]).To(Equal(uint32(0xfffffff3)))
			Expect(cpu.Register[8]).To(Equal(uint32(15)))
			Expect(cpu.Register[9]).To(Equal(uint32(4)))
		})

		It("should shift", func() {
			cpu, _, err := run(
				rv32.MakeAddi(1, 0, -16),
				rv32.MakeOpImm(rv32.FUNCT3_SR, 2, 1, int32(rv32.FUNCT7_ALT<<5|2)),
				rv32.MakeOpImm(rv32.FUNCT3_SR, 3, 1, 28),
				rv32.MakeOpImm(rv32.FUNCT3_SLL, 4, 1, 4),
				rv32.MakeAddi(5, 0, 36),
				rv32.MakeOp(rv32.FUNCT3_SLL, 0, 6, 1, 5),
				rv32.MakeOp(rv32.FUNCT3_SR, 0, 7, 1, 5),
				rv32.MakeOp(rv32.FUNCT3_SR, rv32.FUNCT7_ALT, 8, 1, 5),
				rv32.MakeEcall(),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(cpu.Register[2]).To(Equal(uint32(0xfffffffc)))
			Expect(cpu.Register[3]).To(Equal(uint32(0xf)))
			Expect(cpu.Register[4]).To(Equal(uint32(0xffffff00)))
			Expect(cpu.Register[6]).To(Equal(uint32(0xffffff00)))
			Expect(cpu.Register[7]).To(Equal(uint32(0x0fffffff)))
			Expect(cpu.Register[8]).To(Equal(uint32(0xffffffff)))
		})

		It("should load upper immediates", func() {
			cpu, _, err := run(
				rv32.MakeLui(1, 0x12345),
				rv32.MakeAuipc(2, 1),
				rv32.MakeEcall(),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(cpu.Register[1]).To(Equal(uint32(0x12345000)))
			Expect(cpu.Register[2]).To(Equal(uint32(0x1004)))
		})
	})

	Context("Register Zero", func() {
		It("should discard writes", func() {
			cpu, _, err := run(
				rv32.MakeAddi(1, 0, 7),
				rv32.MakeAddi(0, 0, 5),
				rv32.MakeAdd(0, 1, 1),
				rv32.MakeLui(0, 1),
				rv32.MakeJal(0, 4),
				rv32.MakeAdd(2, 0, 0),
				rv32.MakeEcall(),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(cpu.Register[0]).To(Equal(uint32(0)))
			Expect(cpu.GetRegister(0)).To(Equal(uint32(0)))
			Expect(cpu.Register[2]).To(Equal(uint32(0)))
		})

		It("should ignore SetRegister", func() {
			cpu := rv32.NewCpu(0)
			cpu.SetRegister(0, 99)
			cpu.SetRegister(31, 99)
			Expect(cpu.GetRegister(0)).To(Equal(uint32(0)))
			Expect(cpu.GetRegister(31)).To(Equal(uint32(99)))
		})
	})

	Context("Control Flow", func() {
		It("should loop with a backwards branch", func() {
			cpu, _, err := run(
				rv32.MakeAddi(1, 0, 0),
				rv32.MakeAddi(2, 0, 5),
				rv32.MakeAdd(1, 1, 2),
				rv32.MakeAddi(2, 2, -1),
				rv32.MakeBranch(rv32.FUNCT3_BNE, 2, 0, -8),
				rv32.MakeEcall(),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(cpu.Register[1]).To(Equal(uint32(15)))
			Expect(cpu.Ticks).To(Equal(2 + 5*3 + 1))
		})

		DescribeTable("conditional branches",
			func(f3 uint32, a, b int32, taken bool) {
				cpu, _, err := run(
					rv32.MakeAddi(1, 0, a),
					rv32.MakeAddi(2, 0, b),
					rv32.MakeBranch(f3, 1, 2, 8),
					rv32.MakeAddi(3, 0, 1),
					rv32.MakeEcall(),
				)
				Expect(err).NotTo(HaveOccurred())
				if taken {
					Expect(cpu.Register[3]).To(Equal(uint32(0)))
				} else {
					Expect(cpu.Register[3]).To(Equal(uint32(1)))
				}
			},
			Entry("beq taken", rv32.FUNCT3_BEQ, int32(3), int32(3), true),
			Entry("beq not taken", rv32.FUNCT3_BEQ, int32(3), int32(4), false),
			Entry("bne taken", rv32.FUNCT3_BNE, int32(3), int32(4), true),
			Entry("blt signed", rv32.FUNCT3_BLT, int32(-1), int32(1), true),
			Entry("bltu unsigned", rv32.FUNCT3_BLTU, int32(-1), int32(1), false),
			Entry("bge equal", rv32.FUNCT3_BGE, int32(2), int32(2), true),
			Entry("bge less", rv32.FUNCT3_BGE, int32(-2), int32(2), false),
			Entry("bgeu unsigned", rv32.FUNCT3_BGEU, int32(-2), int32(2), true),
		)

		It("should call and return", func() {
			cpu, _, err := run(
				rv32.MakeJal(1, 12),
				rv32.MakeAddi(5, 0, 9),
				rv32.MakeEcall(),
				rv32.MakeAddi(6, 0, 3),
				rv32.MakeJalr(0, 1, 0),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(cpu.Register[1]).To(Equal(uint32(4)))
			Expect(cpu.Register[5]).To(Equal(uint32(9)))
			Expect(cpu.Register[6]).To(Equal(uint32(3)))
			Expect(cpu.Pc).To(Equal(uint32(8)))
		})

		It("should fault on a misaligned target", func() {
			cpu, _, err := run(
				rv32.MakeJal(0, 2),
			)
			var misaligned rv32.ErrMisaligned
			Expect(errors.As(err, &misaligned)).To(BeTrue())
			Expect(misaligned).To(Equal(rv32.ErrMisaligned(2)))
			Expect(cpu.Pc).To(Equal(uint32(0)))
			Expect(cpu.Halted()).To(BeFalse())
		})

		It("should refuse to step after ecall", func() {
			cpu, _, err := run(rv32.MakeEcall())
			Expect(err).NotTo(HaveOccurred())
			Expect(cpu.Step()).To(MatchError(rv32.ErrHalted))
		})
	})

	Context("Memory Instructions", func() {
		It("should load and store", func() {
			cpu, _, err := run(
				rv32.MakeAddi(1, 0, 0x100),
				rv32.MakeLui(2, 0x12345),
				rv32.MakeAddi(2, 2, 0x678),
				rv32.MakeStore(rv32.FUNCT3_W, 1, 2, 0),
				rv32.MakeLoad(rv32.FUNCT3_W, 3, 1, 0),
				rv32.MakeLoad(rv32.FUNCT3_B, 4, 1, 0),
				rv32.MakeLoad(rv32.FUNCT3_H, 5, 1, 2),
				rv32.MakeAddi(6, 0, -1),
				rv32.MakeStore(rv32.FUNCT3_B, 1, 6, 8),
				rv32.MakeLoad(rv32.FUNCT3_B, 7, 1, 8),
				rv32.MakeLoad(rv32.FUNCT3_BU, 8, 1, 8),
				rv32.MakeStore(rv32.FUNCT3_H, 1, 6, 12),
				rv32.MakeLoad(rv32.FUNCT3_HU, 9, 1, 12),
				rv32.MakeLoad(rv32.FUNCT3_H, 10, 1, 12),
				rv32.MakeEcall(),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(cpu.Memory[0x100:0x104]).To(Equal([]byte{0x78, 0x56, 0x34, 0x12}))
			Expect(cpu.Register[3]).To(Equal(uint32(0x12345678)))
			Expect(cpu.Register[4]).To(Equal(uint32(0x78)))
			Expect(cpu.Register[5]).To(Equal(uint32(0x1234)))
			Expect(cpu.Memory[0x108]).To(Equal(byte(0xff)))
			Expect(cpu.Memory[0x109]).To(Equal(byte(0x00)))
			Expect(cpu.Register[7]).To(Equal(uint32(0xffffffff)))
			Expect(cpu.Register[8]).To(Equal(uint32(0xff)))
			Expect(cpu.Register[9]).To(Equal(uint32(0xffff)))
			Expect(cpu.Register[10]).To(Equal(uint32(0xffffffff)))
		})

		It("should fault out of bounds", func() {
			var addr rv32.ErrAddress

			_, _, err := run(
				rv32.MakeLoad(rv32.FUNCT3_W, 1, 0, -4),
			)
			Expect(errors.As(err, &addr)).To(BeTrue())
			Expect(addr.Addr).To(Equal(uint32(0xfffffffc)))

			_, _, err = run(
				rv32.MakeLui(1, 0x10),
				rv32.MakeStore(rv32.FUNCT3_W, 1, 0, 0),
			)
			Expect(errors.As(err, &addr)).To(BeTrue())
			Expect(addr.Addr).To(Equal(uint32(rv32.DEFAULT_MEMORY_SIZE)))

			var ins rv32.ErrInstruction
			Expect(errors.As(err, &ins)).To(BeTrue())
			Expect(ins.Pc).To(Equal(uint32(4)))
		})

		It("should place the stack pointer at the top of memory", func() {
			cpu, err := rv32.Load(rv32.Image(rv32.MakeEcall()))
			Expect(err).NotTo(HaveOccurred())
			Expect(cpu.Register[rv32.REG_SP]).To(Equal(uint32(rv32.DEFAULT_MEMORY_SIZE)))
			Expect(cpu.Pc).To(Equal(uint32(0)))
		})

		It("should copy memory ranges", func() {
			cpu, err := rv32.Load(rv32.Image(rv32.MakeEcall()))
			Expect(err).NotTo(HaveOccurred())

			data, err := cpu.Bytes(0, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(Equal([]byte{0x73, 0x00, 0x00, 0x00}))

			data[0] = 0
			Expect(cpu.Memory[0]).To(Equal(byte(0x73)))

			var addr rv32.ErrAddress
			_, err = cpu.Bytes(rv32.DEFAULT_MEMORY_SIZE-2, 4)
			Expect(errors.As(err, &addr)).To(BeTrue())
			Expect(addr.Addr).To(Equal(uint32(rv32.DEFAULT_MEMORY_SIZE - 2)))
		})

		It("should size memory to the image", func() {
			cpu := rv32.NewCpu(rv32.DEFAULT_MEMORY_SIZE * 2)
			Expect(len(cpu.Memory)).To(Equal(rv32.DEFAULT_MEMORY_SIZE * 2))
		})
	})

	Context("Faults", func() {
		It("should fault on unimplemented instructions", func() {
			for _, word := range []rv32.Instruction{
				0x00000000,
				0xffffffff,
				rv32.MakeOp(rv32.FUNCT3_ADD, 1, 1, 2, 3),
				rv32.MakeOpImm(rv32.FUNCT3_SLL, 1, 2, 0x400),
				rv32.MakeLoad(3, 1, 0, 0),
			} {
				cpu, _, err := run(word)
				var bad rv32.ErrUnimplemented
				Expect(errors.As(err, &bad)).To(BeTrue(), word.String())
				Expect(bad).To(Equal(rv32.ErrUnimplemented(word)))
				Expect(cpu.Ticks).To(Equal(0))
			}
		})

		It("should fault on running off the end of the program", func() {
			cpu, _, err := run(rv32.MakeAddi(1, 0, 1))
			var bad rv32.ErrUnimplemented
			Expect(errors.As(err, &bad)).To(BeTrue())
			Expect(cpu.Pc).To(Equal(uint32(4)))
		})

		It("should fault on ebreak", func() {
			_, _, err := run(rv32.MakeEbreak())
			Expect(err).To(MatchError(rv32.ErrBreakpoint))
		})

		It("should treat fence as a no-op", func() {
			cpu, status, err := run(rv32.Instruction(rv32.OPCODE_MISC_MEM), rv32.MakeEcall())
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(0))
			Expect(cpu.Pc).To(Equal(uint32(4)))
		})
	})
})

var _ = Describe("Load", func() {
	It("should reject an empty image", func() {
		cpu, err := rv32.Load(nil)
		Expect(cpu).To(BeNil())
		Expect(err).To(MatchError(rv32.ErrImageEmpty))
	})

	It("should reject a partial word", func() {
		cpu, err := rv32.Load([]byte{0x73, 0, 0, 0, 0})
		Expect(cpu).To(BeNil())
		Expect(errors.Is(err, rv32.ErrImageSize)).To(BeTrue())
	})

	It("should export its constants", func() {
		defines := map[string]string{}
		for key, value := range rv32.Defines() {
			defines[key] = value
		}
		Expect(defines).To(HaveKeyWithValue("RV32_REGISTERS", "32"))
	})
})
