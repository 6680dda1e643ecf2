// Package observe is a minimal synchronous observer list. Listeners run on
// the goroutine that calls Notify, in subscription order, so every change is
// visible to all of them before the mutating call returns.
package observe

import "sync"

type entry[T any] struct {
	id int
	fn func(T)
}

// Subject fans a value out to its listeners. The zero value is ready to use.
type Subject[T any] struct {
	mu      sync.Mutex
	nextID  int
	entries []entry[T]
}

// Subscribe registers fn and returns a function that removes it again.
func (s *Subject[T]) Subscribe(fn func(T)) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.entries = append(s.entries, entry[T]{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, e := range s.entries {
			if e.id == id {
				s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
				return
			}
		}
	}
}

func (s *Subject[T]) Notify(value T) {
	s.mu.Lock()
	entries := append([]entry[T](nil), s.entries...)
	s.mu.Unlock()

	for _, e := range entries {
		e.fn(value)
	}
}
