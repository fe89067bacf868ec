package collections

// Stack is a LIFO of values.
type Stack[T any] []T

// IsEmpty checks if the stack is empty
func (s *Stack[T]) IsEmpty() bool {
	return len(*s) == 0
}

// Push a new value onto the stack
func (s *Stack[T]) Push(x T) {
	*s = append(*s, x)
}

// Pop removes and returns the top element of the stack, returning false if
// the stack is empty.
func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	if s.IsEmpty() {
		return zero, false
	}
	i := len(*s) - 1
	x := (*s)[i]
	(*s)[i] = zero
	*s = (*s)[:i]
	return x, true
}

// Peek returns the top element of the stack, returning false if the stack is
// empty.
func (s *Stack[T]) Peek() (T, bool) {
	var zero T
	if s.IsEmpty() {
		return zero, false
	}
	return (*s)[len(*s)-1], true
}
