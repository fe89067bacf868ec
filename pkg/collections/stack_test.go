package collections

import "testing"

func TestStack(t *testing.T) {
	var s Stack[string]
	if !s.IsEmpty() {
		t.Fatal("new stack should be empty")
	}
	if _, ok := s.Pop(); ok {
		t.Fatal("pop on empty stack should fail")
	}
	s.Push("a")
	s.Push("b")
	if top, _ := s.Peek(); top != "b" {
		t.Errorf("Peek() = %q, want b", top)
	}
	if x, _ := s.Pop(); x != "b" {
		t.Errorf("Pop() = %q, want b", x)
	}
	if x, _ := s.Pop(); x != "a" {
		t.Errorf("Pop() = %q, want a", x)
	}
	if !s.IsEmpty() {
		t.Error("stack should be empty after popping everything")
	}
}
