package emulator

import (
	"fmt"
	"io"
)

const (
	DUMP_WIDTH  = 16 // Bytes per memory dump line.
	DUMP_LENGTH = 32 // Default memory dump length.
)

// Dump writes the machine registers, followed by a hex dump of size bytes
// of memory starting at addr.
func Dump(w io.Writer, m Machine, addr uint32, size int) (err error) {
	_, err = io.WriteString(w, m.String())
	if err != nil || size == 0 {
		return
	}

	data, err := m.Bytes(addr, size)
	if err != nil {
		return
	}

	for n := 0; n < len(data); n += DUMP_WIDTH {
		line := data[n:min(n+DUMP_WIDTH, len(data))]
		_, err = fmt.Fprintf(w, "%08x: % x\n", addr+uint32(n), line)
		if err != nil {
			return
		}
	}

	return
}
