package toy

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ezrec/iss/internal"
)

// Segment identifies where a statement is placed.
type Segment int

const (
	SEGMENT_DATA = Segment(0)
	SEGMENT_CODE = Segment(1)
)

// Statement is one assembled source line.
type Statement struct {
	LineNo  int      // Source line number.
	Line    string   // Source text, comment removed.
	Words   []string // Source words, labels removed.
	Segment Segment  // Segment holding the statement.
	Addr    uint16   // Absolute address of the first byte.
	Bytes   []byte   // Encoded bytes.
}

// Program is an assembled Toy program.
type Program struct {
	Header     Header
	Data       []byte            // Data segment image.
	Code       []byte            // Code segment image.
	Symbols    map[string]uint16 // Resolved labels.
	Statements []Statement       // Listing, in source order.
}

// Image returns the memory image described by the header.
func (prog *Program) Image() (image []byte) {
	image = make([]byte, 0, len(prog.Data)+len(prog.Code))
	image = append(image, prog.Data...)
	image = append(image, prog.Code...)
	return
}

// WriteTo writes the loader binary: header followed by the image.
func (prog *Program) WriteTo(w io.Writer) (n int64, err error) {
	buff := &bytes.Buffer{}
	err = prog.Header.Write(buff)
	if err != nil {
		return
	}
	buff.Write(prog.Image())

	return buff.WriteTo(w)
}

// Binary returns the loader binary.
func (prog *Program) Binary() []byte {
	buff := &bytes.Buffer{}
	_, _ = prog.WriteTo(buff)
	return buff.Bytes()
}

// Statement returns the statement whose bytes contain addr.
func (prog *Program) Statement(addr uint16) (stmt *Statement, ok bool) {
	for n := range prog.Statements {
		st := &prog.Statements[n]
		if addr >= st.Addr && int(addr) < int(st.Addr)+len(st.Bytes) {
			return st, true
		}
	}
	return
}

// LineNo returns the source line of the statement at addr, or 0.
func (prog *Program) LineNo(addr uint16) int {
	st, ok := prog.Statement(addr)
	if !ok {
		return 0
	}
	return st.LineNo
}

// Listing writes a human-readable listing of the program.
func (prog *Program) Listing(w io.Writer) (err error) {
	_, err = fmt.Fprintf(w, "data 0x%04x code 0x%04x length %d\n",
		prog.Header.DataBase, prog.Header.CodeBase, prog.Header.CodeLength)
	if err != nil {
		return
	}

	for _, st := range prog.Statements {
		_, err = fmt.Fprintf(w, "%04x  %-12x %4d: %v\n", st.Addr, st.Bytes, st.LineNo, st.Line)
		if err != nil {
			return
		}
	}

	for name, addr := range internal.Sorted2(prog.Symbols) {
		_, err = fmt.Fprintf(w, "%04x  %v\n", addr, name)
		if err != nil {
			return
		}
	}

	return
}
