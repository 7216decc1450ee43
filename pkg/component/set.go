// SPDX-License-Identifier: MPL-2.0

package component

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/exp/slices"
)

// ErrDuplicateMember is returned by Set.Add for a name already present.
var ErrDuplicateMember = errors.New("member already registered")

// Set is the startup registry of members by qualified name.
type Set struct {
	mu      sync.RWMutex
	members map[string]*Member
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{members: make(map[string]*Member)}
}

// Add registers m under its name.
func (s *Set) Add(m *Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.members[m.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateMember, m.Name())
	}
	s.members[m.Name()] = m
	return nil
}

// Get returns the member called name.
func (s *Set) Get(name string) (*Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[name]
	return m, ok
}

// Names returns the registered member names, sorted.
func (s *Set) Names() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.members))
	for name := range s.members {
		names = append(names, name)
	}
	s.mu.RUnlock()

	slices.Sort(names)
	return names
}
