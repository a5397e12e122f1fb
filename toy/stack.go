package toy

const (
	STACK_LIMIT = 256 // Maximum depth of the call and data stacks.
)

// Stack is a bounded LIFO of words, used for return addresses and for push/pop.
type Stack struct {
	Data []uint16
}

// Push adds a value, failing if the stack is full.
func (s *Stack) Push(value uint16) (err error) {
	if s.Full() {
		err = ErrStackFull
		return
	}
	s.Data = append(s.Data, value)
	return
}

// Pop removes the top value, failing if the stack is empty.
func (s *Stack) Pop() (value uint16, err error) {
	value, ok := s.Peek()
	if !ok {
		err = ErrStackEmpty
		return
	}
	s.Data = s.Data[:len(s.Data)-1]
	return
}

func (s *Stack) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack) Full() bool {
	return len(s.Data) == STACK_LIMIT
}

func (s *Stack) Peek() (value uint16, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

func (s *Stack) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
}
