package rl

import (
	"sync"
)

// Store is the storage backing a ValueFunction.
type Store[S, A comparable] interface {
	// Get returns the stored Value for k, if any.
	Get(k Key[S, A]) (Value, bool)
	// Put stores v under k.
	Put(k Key[S, A], v Value)
	// Range calls fn for every stored key until fn returns false.
	// Iteration order is unspecified.
	Range(fn func(k Key[S, A], v Value) bool)
	// Len returns the number of stored keys.
	Len() int
}

// MapStore is an in-memory Store.
type MapStore[S, A comparable] map[Key[S, A]]Value

// NewMapStore returns an empty MapStore.
func NewMapStore[S, A comparable]() MapStore[S, A] {
	return make(MapStore[S, A])
}

func (m MapStore[S, A]) Get(k Key[S, A]) (Value, bool) {
	v, ok := m[k]
	return v, ok
}

func (m MapStore[S, A]) Put(k Key[S, A], v Value) {
	m[k] = v
}

func (m MapStore[S, A]) Range(fn func(Key[S, A], Value) bool) {
	for k, v := range m {
		if !fn(k, v) {
			return
		}
	}
}

func (m MapStore[S, A]) Len() int {
	return len(m)
}

// ThreadSafeStore wraps a Store and is safe to use from multiple goroutines.
//
// Note that a ValueFunction update is a read followed by a write, so
// concurrent learners sharing one table may still lose updates.
type ThreadSafeStore[S, A comparable] struct {
	mu    sync.Mutex
	store Store[S, A]
}

// NewThreadSafeStore wraps store.
func NewThreadSafeStore[S, A comparable](store Store[S, A]) *ThreadSafeStore[S, A] {
	return &ThreadSafeStore[S, A]{store: store}
}

func (ts *ThreadSafeStore[S, A]) Get(k Key[S, A]) (Value, bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.store.Get(k)
}

func (ts *ThreadSafeStore[S, A]) Put(k Key[S, A], v Value) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.store.Put(k, v)
}

// Range holds the lock for the whole iteration, so fn must not call
// back into the store.
func (ts *ThreadSafeStore[S, A]) Range(fn func(Key[S, A], Value) bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.store.Range(fn)
}

func (ts *ThreadSafeStore[S, A]) Len() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.store.Len()
}
