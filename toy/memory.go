package toy

const (
	MEMORY_SIZE    = 0x10000 // Size of the flat address space.
	REGISTER_COUNT = 256     // Number of general purpose registers.
)

// Memory is the Toy flat 64KB memory. Words are stored little-endian.
type Memory [MEMORY_SIZE]byte

func (m *Memory) check(addr, size int) (err error) {
	if addr < 0 || size < 0 || addr+size > MEMORY_SIZE {
		err = ErrAddress{Addr: addr, Size: size}
	}
	return
}

// U8 returns the byte at the given address.
func (m *Memory) U8(addr int) (value uint16, err error) {
	err = m.check(addr, 1)
	if err != nil {
		return
	}
	value = uint16(m[addr])
	return
}

// SetU8 stores the low byte of value at the given address.
func (m *Memory) SetU8(addr int, value uint16) (err error) {
	err = m.check(addr, 1)
	if err != nil {
		return
	}
	m[addr] = byte(value)
	return
}

// U16 returns the word at the given address.
func (m *Memory) U16(addr int) (value uint16, err error) {
	err = m.check(addr, 2)
	if err != nil {
		return
	}
	value = uint16(m[addr]) | uint16(m[addr+1])<<8
	return
}

// SetU16 stores a word at the given address.
func (m *Memory) SetU16(addr int, value uint16) (err error) {
	err = m.check(addr, 2)
	if err != nil {
		return
	}
	m[addr] = byte(value)
	m[addr+1] = byte(value >> 8)
	return
}

// Bytes returns a copy of size bytes starting at addr.
func (m *Memory) Bytes(addr, size int) (data []byte, err error) {
	err = m.check(addr, size)
	if err != nil {
		return
	}
	data = make([]byte, size)
	copy(data, m[addr:addr+size])
	return
}
