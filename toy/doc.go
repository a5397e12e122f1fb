// Package toy implements the Toy teaching architecture: its execution
// state, its decoder/executor, its loader binary format, and the two-pass
// assembler that produces that format.
//
// The Toy CPU has 256 sixteen-bit registers (r0-r255), 64KB of byte
// addressable memory holding a data segment and a code segment, three
// comparison flags, a bounded call stack, and a bounded data stack.
//
// Every opcode is a single byte followed by a fixed number of operand bytes.
// Register operands are one byte; immediate and address operands are two
// bytes, little-endian.
package toy
