// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package toy

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Assembler is a two pass assembler for the Toy instruction set.
//
// Pass one lays out every statement and records label addresses. Pass two
// resolves operands against the completed symbol table and encodes them.
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Base    uint16 // Address of the data segment.

	predefine map[string]string // Predefines
	Label     map[string]uint16 // Map of labels to addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

var reSymbol = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)

// isSymbol returns true if word could name a label or equate.
func isSymbol(word string) bool {
	return reSymbol.MatchString(word)
}

// splitWords splits a line on whitespace and commas, keeping $(...)
// expressions intact.
func splitWords(line string) (words []string) {
	var word strings.Builder
	depth := 0

	flush := func() {
		if word.Len() > 0 {
			words = append(words, word.String())
			word.Reset()
		}
	}

	for n := 0; n < len(line); n++ {
		ch := line[n]
		switch {
		case depth == 0 && strings.HasPrefix(line[n:], "$("):
			word.WriteString("$(")
			depth = 1
			n++
			continue
		case depth > 0 && ch == '(':
			depth++
		case depth > 0 && ch == ')':
			depth--
		case depth == 0 && (ch == ' ' || ch == '\t' || ch == ','):
			flush()
			continue
		}
		word.WriteByte(ch)
	}
	flush()

	return
}

// parseNumber parses a numeric literal into a 16-bit word.
// Negative values wrap to their two's complement representation.
func parseNumber(word string) (value uint16, err error) {
	if len(word) >= 3 && word[0] == '\'' && word[len(word)-1] == '\'' {
		ch, _, tail, qerr := strconv.UnquoteChar(word[1:len(word)-1], '\'')
		if qerr != nil || len(tail) != 0 || ch > 0xffff {
			err = ErrParseNumber(word)
			return
		}
		value = uint16(ch)
		return
	}

	v64, err := strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 < -0x8000 || v64 > 0xffff {
		err = fmt.Errorf("%w: %v", ErrValueRange, word)
		return
	}

	value = uint16(v64)
	return
}

// valueOf resolves a term: an equate, a $(...) expression, a label or a
// number.
func (asm *Assembler) valueOf(word string) (value uint16, err error) {
	for range len(asm.Equate) + 1 {
		equate, ok := asm.Equate[word]
		if !ok {
			break
		}
		word = equate
	}

	if strings.HasPrefix(word, "$(") {
		if !strings.HasSuffix(word, ")") {
			err = ErrParseExpression(word[2:])
			return
		}
		return asm.parenEval(word[2 : len(word)-1])
	}

	addr, ok := asm.Label[word]
	if ok {
		value = addr
		return
	}

	value, err = parseNumber(word)
	if err != nil && isSymbol(word) {
		err = ErrLabelMissing(word)
	}

	return
}

// parenEval does compile-time $(...) evaluations.
func (asm *Assembler) parenEval(expr string) (value uint16, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		if !isSymbol(key) {
			continue
		}
		var num uint16
		num, err = parseNumber(str)
		if err != nil {
			// Ignore non-integer equates.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt(int(num))
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(int(addr))
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < -0x8000 || st_int64 > 0xffff {
		err = fmt.Errorf("%w: $(%v)", ErrValueRange, expr)
		return
	}

	value = uint16(st_int64)
	return
}

// operand resolves one operand word of the given kind.
func (asm *Assembler) operand(kind Operand, word string) (value uint16, err error) {
	switch kind {
	case OPERAND_REG:
		if len(word) < 2 || word[0] != '$' || strings.HasPrefix(word, "$(") {
			err = ErrParseOperand(word)
			return
		}
		value, err = asm.valueOf(word[1:])
		if err != nil {
			return
		}
		if value >= REGISTER_COUNT {
			err = fmt.Errorf("%w: %v", ErrRegisterInvalid, word)
			return
		}
	case OPERAND_IMM, OPERAND_ADDR:
		term := word
		switch {
		case strings.HasPrefix(term, "#"):
			term = term[1:]
		case kind == OPERAND_ADDR && strings.HasPrefix(term, "*"):
			term = term[1:]
		case strings.HasPrefix(term, "$") && !strings.HasPrefix(term, "$("):
			err = ErrParseOperand(word)
			return
		}
		if len(term) == 0 {
			err = ErrParseOperand(word)
			return
		}
		value, err = asm.valueOf(term)
	}

	return
}

// layout places a statement during the first pass, returning its size.
func (asm *Assembler) layout(stmt *Statement) (size int, err error) {
	words := stmt.Words
	if words[0] == "data" {
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(words) > 2 {
			err = ErrOpcodeExtraArgs
			return
		}
		stmt.Segment = SEGMENT_DATA
		size = 2
		return
	}

	op, ok := LookupOpcode(words[0])
	if !ok {
		err = fmt.Errorf("%w: %v", ErrInstructionInvalid, words[0])
		return
	}

	info, _ := op.Info()
	switch {
	case len(words)-1 < len(info.Operands):
		err = ErrOpcodeValueMissing
		return
	case len(words)-1 > len(info.Operands):
		err = ErrOpcodeExtraArgs
		return
	}

	stmt.Segment = SEGMENT_CODE
	size = 1 + info.Arity()
	return
}

// encode generates the bytes of a statement during the second pass.
func (asm *Assembler) encode(stmt *Statement) (err error) {
	words := stmt.Words
	if stmt.Segment == SEGMENT_DATA {
		var value uint16
		value, err = asm.operand(OPERAND_IMM, words[1])
		if err != nil {
			return
		}
		stmt.Bytes = []byte{byte(value), byte(value >> 8)}
		return
	}

	op, _ := LookupOpcode(words[0])
	info, _ := op.Info()

	ins := Instruction{Pc: stmt.Addr, Op: op, Operands: make([]uint16, len(info.Operands))}
	for n, kind := range info.Operands {
		ins.Operands[n], err = asm.operand(kind, words[1+n])
		if err != nil {
			return
		}
	}

	stmt.Bytes = ins.Bytes()

	if asm.Verbose {
		log.Printf("%04x: %v", stmt.Addr, ins)
	}

	return
}

// location is a label position relative to its segment.
type location struct {
	segment Segment
	offset  int
}

// Parse assembles an input stream into a Program.
// On any error the returned program is nil.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			prog = nil
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = map[string]uint16{}
	asm.Equate = maps.Clone(asm.predefine)
	if asm.Equate == nil {
		asm.Equate = map[string]string{}
	}

	// Pass one: layout and symbol definitions.
	var stmts []Statement
	var labels []string
	offset := [2]int{}
	where := map[string]location{}

	// Labels bind to the statement that follows them.
	bind := func(segment Segment) {
		for _, label := range labels {
			where[label] = location{segment: segment, offset: offset[segment]}
		}
		labels = labels[:0]
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.SplitN(text, ";", 2)
		line = strings.TrimSpace(text_comment[0])
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		words := splitWords(line)

		for len(words) > 0 && strings.HasSuffix(words[0], ":") {
			label := words[0][:len(words[0])-1]
			if !isSymbol(label) {
				err = ErrParseOperand(words[0])
				return
			}
			_, ok := where[label]
			_, equ := asm.Equate[label]
			if ok || equ || slices.Contains(labels, label) {
				err = ErrLabelDuplicate(label)
				return
			}
			labels = append(labels, label)
			words = words[1:]
		}

		if len(words) == 0 {
			continue
		}

		// .equ CONST VALUE
		if words[0] == ".equ" {
			if len(words) != 3 || !isSymbol(words[1]) {
				err = ErrEquateSyntax
				return
			}
			_, ok := asm.Equate[words[1]]
			_, label := where[words[1]]
			if ok || label || slices.Contains(labels, words[1]) {
				err = fmt.Errorf("%w: %v", ErrEquateDuplicate, words[1])
				return
			}
			asm.Equate[words[1]] = words[2]
			continue
		}

		stmt := Statement{LineNo: lineno, Line: line, Words: words}
		var size int
		size, err = asm.layout(&stmt)
		if err != nil {
			return
		}

		bind(stmt.Segment)
		stmt.Addr = uint16(offset[stmt.Segment])
		offset[stmt.Segment] += size
		stmts = append(stmts, stmt)
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Trailing labels mark the end of the code segment.
	bind(SEGMENT_CODE)

	data_len := offset[SEGMENT_DATA]
	code_len := offset[SEGMENT_CODE]
	if int(asm.Base)+data_len+code_len > MEMORY_SIZE || int(asm.Base)+data_len > 0xffff || data_len+code_len > 0xffff {
		lineno = 0
		line = ""
		err = ErrSegmentOverflow
		return
	}

	base := [2]int{int(asm.Base), int(asm.Base) + data_len}
	for name, loc := range where {
		asm.Label[name] = uint16(base[loc.segment] + loc.offset)
	}

	// Pass two: resolve and encode.
	prog = &Program{
		Header: Header{
			DataBase:   asm.Base,
			CodeBase:   uint16(base[SEGMENT_CODE]),
			CodeLength: uint16(data_len + code_len),
		},
		Data: make([]byte, 0, data_len),
		Code: make([]byte, 0, code_len),
	}

	for n := range stmts {
		stmt := &stmts[n]
		stmt.Addr = uint16(base[stmt.Segment] + int(stmt.Addr))
		lineno = stmt.LineNo
		line = stmt.Line

		err = asm.encode(stmt)
		if err != nil {
			return
		}

		if stmt.Segment == SEGMENT_DATA {
			prog.Data = append(prog.Data, stmt.Bytes...)
		} else {
			prog.Code = append(prog.Code, stmt.Bytes...)
		}
	}

	prog.Symbols = maps.Clone(asm.Label)
	prog.Statements = stmts

	return
}
