// SPDX-License-Identifier: MPL-2.0

// Package lazy provides a registry of deferred initializers keyed by name.
//
// Each entry holds a thunk that is forced at most once. The result of that
// single run, value or error, is memoized with the entry and returned to every
// later caller; a failed thunk is never retried.
package lazy

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/exp/slices"
)

// ErrUnknownKey is the sentinel error wrapped by UnknownKeyError.
var ErrUnknownKey = errors.New("lazy: unknown key")

type (
	// Thunk produces the value of an entry. It runs at most once per entry.
	Thunk[T any] func(ctx context.Context) (T, error)

	// Registry maps keys to lazily forced thunks. It is safe for concurrent use.
	Registry[T any] struct {
		mu      sync.Mutex
		entries map[string]*entry[T]
	}

	// UnknownKeyError is returned by Force for keys that were never registered.
	UnknownKeyError struct {
		Key string
	}

	entry[T any] struct {
		once  sync.Once
		thunk Thunk[T]

		mu    sync.Mutex
		done  bool
		value T
		err   error
	}
)

// Error implements the error interface.
func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("lazy: no entry registered for %q", e.Key)
}

// Unwrap returns ErrUnknownKey for errors.Is() compatibility.
func (e *UnknownKeyError) Unwrap() error { return ErrUnknownKey }

// New creates an empty Registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{entries: make(map[string]*entry[T])}
}

// Register adds a thunk under key. It reports false, leaving the existing
// entry untouched, when key is already registered.
func (r *Registry[T]) Register(key string, thunk Thunk[T]) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[key]; exists {
		return false
	}
	r.entries[key] = &entry[T]{thunk: thunk}
	return true
}

// Registered reports whether key has an entry, forced or not.
func (r *Registry[T]) Registered(key string) bool {
	_, ok := r.lookup(key)
	return ok
}

// Force runs the thunk for key if it has not run yet and returns its memoized
// result. The boolean is true only for the call that actually ran the thunk.
// Concurrent callers block until the single run finishes.
func (r *Registry[T]) Force(ctx context.Context, key string) (T, bool, error) {
	e, ok := r.lookup(key)
	if !ok {
		var zero T
		return zero, false, &UnknownKeyError{Key: key}
	}

	ran := false
	e.once.Do(func() {
		ran = true
		v, err := e.thunk(ctx)

		e.mu.Lock()
		e.value, e.err, e.done = v, err, true
		e.mu.Unlock()
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value, ran, e.err
}

// Forced reports whether the thunk for key has completed, successfully or not.
func (r *Registry[T]) Forced(key string) bool {
	e, ok := r.lookup(key)
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done
}

// Succeeded reports whether the thunk for key has completed without error.
func (r *Registry[T]) Succeeded(key string) bool {
	e, ok := r.lookup(key)
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done && e.err == nil
}

// Keys returns the registered keys in sorted order.
func (r *Registry[T]) Keys() []string {
	r.mu.Lock()
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	r.mu.Unlock()

	slices.Sort(keys)
	return keys
}

// Len returns the number of registered entries.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry[T]) lookup(key string) (*entry[T], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	return e, ok
}
