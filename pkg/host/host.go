// SPDX-License-Identifier: MPL-2.0

// Package host is a minimal runtime symbol table with resolution hooks.
//
// Units are defined under their qualified names. When Lookup misses, the
// first registered hook whose predicate claims the identifier is given one
// chance to define it, after which the symbol table is consulted again. Hooks
// run synchronously on the calling goroutine.
package host

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/nsload/nsload/pkg/unit"
)

var (
	// ErrUndefined is the sentinel error wrapped by UndefinedError.
	ErrUndefined = errors.New("identifier is not defined")
	// ErrAlreadyDefined is returned by Define for duplicate names.
	ErrAlreadyDefined = errors.New("identifier is already defined")
)

type (
	// HookID identifies a registered resolution hook.
	HookID int

	// ClaimFunc reports whether a hook is responsible for id.
	ClaimFunc func(id string) bool

	// MissFunc is invoked for a claimed identifier that is not defined. It
	// reports whether it handled the miss; an error aborts the lookup.
	MissFunc func(ctx context.Context, id string) (bool, error)

	// Runtime holds defined units and resolution hooks. It is safe for
	// concurrent use.
	Runtime struct {
		mu      sync.RWMutex
		symbols map[string]*unit.Unit
		hooks   []hook
		nextID  HookID
	}

	// UndefinedError reports an identifier no hook could define.
	UndefinedError struct {
		ID string
		// Claimed is true when a hook claimed the identifier but did not
		// define it.
		Claimed bool
	}

	hook struct {
		id     HookID
		claims ClaimFunc
		onMiss MissFunc
	}
)

// Error implements the error interface.
func (e *UndefinedError) Error() string {
	if e.Claimed {
		return fmt.Sprintf("undefined identifier %q (claimed by a resolution hook but not resolved)", e.ID)
	}
	return fmt.Sprintf("undefined identifier %q", e.ID)
}

// Unwrap returns ErrUndefined for errors.Is() compatibility.
func (e *UndefinedError) Unwrap() error { return ErrUndefined }

// NewRuntime creates an empty Runtime.
func NewRuntime() *Runtime {
	return &Runtime{symbols: make(map[string]*unit.Unit)}
}

// RegisterResolutionHook appends a hook. Hooks are consulted in registration
// order and only the first one claiming an identifier is invoked.
func (r *Runtime) RegisterResolutionHook(claims ClaimFunc, onMiss MissFunc) HookID {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	r.hooks = append(r.hooks, hook{id: r.nextID, claims: claims, onMiss: onMiss})
	return r.nextID
}

// Hooks returns the number of registered hooks.
func (r *Runtime) Hooks() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hooks)
}

// Define adds u to the symbol table under u.Name.
func (r *Runtime) Define(u *unit.Unit) error {
	if u == nil || u.Name == "" {
		return errors.New("define: unit has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.symbols[u.Name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyDefined, u.Name)
	}
	r.symbols[u.Name] = u
	return nil
}

// Execute adapts Define to the loader executor signature.
func (r *Runtime) Execute(_ context.Context, u *unit.Unit) error {
	return r.Define(u)
}

// Defined reports whether id is in the symbol table. It never runs hooks.
func (r *Runtime) Defined(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.symbols[id]
	return ok
}

// Symbols returns the defined identifiers, sorted.
func (r *Runtime) Symbols() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.symbols))
	for id := range r.symbols {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

// Lookup returns the unit defined as id, running the claiming hook on a miss.
func (r *Runtime) Lookup(ctx context.Context, id string) (*unit.Unit, error) {
	if u, ok := r.symbol(id); ok {
		return u, nil
	}

	h, ok := r.claimant(id)
	if !ok {
		return nil, &UndefinedError{ID: id}
	}

	if _, err := h.onMiss(ctx, id); err != nil {
		return nil, err
	}

	if u, ok := r.symbol(id); ok {
		return u, nil
	}
	return nil, &UndefinedError{ID: id, Claimed: true}
}

func (r *Runtime) symbol(id string) (*unit.Unit, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.symbols[id]
	return u, ok
}

// claimant runs predicates outside the lock so they may call back into the
// runtime.
func (r *Runtime) claimant(id string) (hook, bool) {
	r.mu.RLock()
	hooks := slices.Clone(r.hooks)
	r.mu.RUnlock()

	for _, h := range hooks {
		if h.claims(id) {
			return h, true
		}
	}
	return hook{}, false
}
