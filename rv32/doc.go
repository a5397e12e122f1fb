// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package rv32 emulates the integer subset of the 32-bit RISC-V instruction
// set.
//
// Programs are flat little-endian instruction words loaded at address 0.
// There is no halt instruction: a run ends on ecall (exit status 0) or on
// a fault such as an unimplemented encoding or an out of bounds access.
package rv32
