// Package observer provides change notification for in-memory stores.
package observer

import (
	"slices"
	"sync"
)

// Set is a collection of change callbacks. The zero value is ready to use.
// Callbacks run synchronously on the notifying goroutine, in registration
// order, with no lock held.
type Set struct {
	mu   sync.Mutex
	next int
	fns  map[int]func()
	ids  []int
}

// Add registers fn and returns a function that removes it. The returned
// function may be called more than once.
func (s *Set) Add(fn func()) (remove func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fns == nil {
		s.fns = make(map[int]func())
	}
	id := s.next
	s.next++
	s.fns[id] = fn
	s.ids = append(s.ids, id)

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Set) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.fns, id)
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
	}
}

// Len returns the number of registered callbacks.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Notify runs every registered callback.
func (s *Set) Notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.ids))
	for _, id := range s.ids {
		fns = append(fns, s.fns[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
