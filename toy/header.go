// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package toy

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"
)

const (
	HEADER_SIZE = 6 // Bytes of header preceding the image.
)

// Header is the Toy loader binary header.
//
// Both segment fields are base addresses. The CodeLength bytes that follow
// the header are the memory image starting at DataBase; execution begins at
// CodeBase, which must lie within that image.
type Header struct {
	DataBase   uint16 `struc:"uint16"`
	CodeBase   uint16 `struc:"uint16"`
	CodeLength uint16 `struc:"uint16"`
}

// ReadHeader decodes a header from r.
func ReadHeader(r io.Reader) (hdr Header, err error) {
	err = struc.UnpackWithOrder(r, &hdr, binary.LittleEndian)
	if err != nil {
		err = errors.Wrapf(ErrHeaderShort, "%v", err)
	}
	return
}

// Write encodes the header to w.
func (hdr *Header) Write(w io.Writer) (err error) {
	return struc.PackWithOrder(w, hdr, binary.LittleEndian)
}

// Validate checks that the segment layout fits the address space.
func (hdr Header) Validate() (err error) {
	end := int(hdr.DataBase) + int(hdr.CodeLength)
	switch {
	case hdr.CodeBase < hdr.DataBase:
		err = errors.Wrapf(ErrSegmentLayout, "code base 0x%04x below data base 0x%04x", hdr.CodeBase, hdr.DataBase)
	case int(hdr.CodeBase) > end:
		err = errors.Wrapf(ErrSegmentLayout, "code base 0x%04x beyond image end 0x%04x", hdr.CodeBase, end)
	case end > MEMORY_SIZE:
		err = errors.Wrapf(ErrSegmentLayout, "image end 0x%05x beyond memory", end)
	}
	return
}

// Load creates the initial execution state for a Toy binary.
// The declared code length must match the bytes following the header
// exactly; nothing is executed.
func Load(data []byte) (cpu *Cpu, err error) {
	if len(data) < HEADER_SIZE {
		err = errors.Wrapf(ErrHeaderShort, "%d bytes", len(data))
		return
	}

	hdr, err := ReadHeader(bytes.NewReader(data[:HEADER_SIZE]))
	if err != nil {
		return
	}

	image := data[HEADER_SIZE:]
	if int(hdr.CodeLength) != len(image) {
		err = errors.Wrapf(ErrLengthInvalid, "declared %d, present %d", hdr.CodeLength, len(image))
		return
	}

	err = hdr.Validate()
	if err != nil {
		return
	}

	cpu = NewCpu()
	cpu.DataBase = hdr.DataBase
	cpu.CodeBase = hdr.CodeBase
	cpu.Reset()

	copy(cpu.Memory[hdr.DataBase:], image)

	return
}
