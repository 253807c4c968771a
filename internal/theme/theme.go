// Package theme holds the active light/dark theme as an observable value.
package theme

import (
	"fmt"
	"sync"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Parse validates a theme name.
func Parse(s string) (Theme, error) {
	switch Theme(s) {
	case Light, Dark:
		return Theme(s), nil
	default:
		return "", fmt.Errorf("unknown theme %q (use light or dark)", s)
	}
}

// Store is safe for concurrent use. Subscribers receive every change; setting
// the current value again is not broadcast.
type Store struct {
	mu     sync.Mutex
	value  Theme
	subs   map[int]chan Theme
	nextID int
}

func NewStore(initial Theme) *Store {
	if initial != Dark {
		initial = Light
	}
	return &Store{value: initial, subs: make(map[int]chan Theme)}
}

func (s *Store) Get() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set changes the theme and reports whether it changed.
func (s *Store) Set(t Theme) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(t)
}

func (s *Store) setLocked(t Theme) bool {
	if t == s.value {
		return false
	}
	s.value = t
	for _, ch := range s.subs {
		// Slow subscribers only need the latest value.
		select {
		case <-ch:
		default:
		}
		ch <- t
	}
	return true
}

// Toggle switches between light and dark and returns the new value.
func (s *Store) Toggle() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := Dark
	if s.value == Dark {
		next = Light
	}
	s.setLocked(next)
	return next
}

// Subscribe returns a channel of theme changes and a cancel func that closes it.
func (s *Store) Subscribe() (<-chan Theme, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Theme, 1)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}
