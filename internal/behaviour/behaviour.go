// Package behaviour answers which callbacks a behaviour unit declares.
//
// Units are published here only once they are finalized, so the store never
// exposes a unit that is still being compiled.
package behaviour

import (
	"slices"
	"sync"
)

// Callback is one declared callback of a behaviour.
type Callback struct {
	Name     string `msgpack:"name"`
	Arity    int    `msgpack:"arity"`
	Optional bool   `msgpack:"optional"`
	Macro    bool   `msgpack:"macro"`
}

// Contract is the callback set of a compiled unit, in declaration order.
type Contract struct {
	Module    string     `msgpack:"module"`
	Callbacks []Callback `msgpack:"callbacks"`
}

// Resolver looks up the contract of a compiled unit. ok is false when the
// unit was never compiled.
type Resolver interface {
	Contract(module string) (Contract, bool)
}

// Store is a Resolver safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	contracts map[string]Contract
	reserved  map[string]bool
	fallback  Resolver
}

// NewStore returns an empty store. fallback, when non-nil, answers for
// modules never published to the store.
func NewStore(fallback Resolver) *Store {
	return &Store{contracts: make(map[string]Contract), reserved: make(map[string]bool), fallback: fallback}
}

// Reserve marks modules that only Publish may answer for, so the fallback
// never stands in for a unit that has yet to compile.
func (s *Store) Reserve(modules ...string) {
	s.mu.Lock()
	for _, m := range modules {
		s.reserved[m] = true
	}
	s.mu.Unlock()
}

// Publish records the contract of a finalized unit, replacing an earlier one.
func (s *Store) Publish(c Contract) {
	c.Callbacks = slices.Clone(c.Callbacks)
	s.mu.Lock()
	s.contracts[c.Module] = c
	s.mu.Unlock()
}

// Contract implements Resolver.
func (s *Store) Contract(module string) (Contract, bool) {
	s.mu.RLock()
	c, ok := s.contracts[module]
	reserved := s.reserved[module]
	s.mu.RUnlock()
	if ok {
		return c, true
	}
	if s.fallback != nil && !reserved {
		return s.fallback.Contract(module)
	}
	return Contract{}, false
}

// Modules lists published modules in sorted order.
func (s *Store) Modules() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.contracts))
	for name := range s.contracts {
		out = append(out, name)
	}
	s.mu.RUnlock()
	slices.Sort(out)
	return out
}

// Static is a fixed Resolver, handy for tests and single-unit tools.
type Static map[string]Contract

// Contract implements Resolver.
func (m Static) Contract(module string) (Contract, bool) {
	c, ok := m[module]
	return c, ok
}
