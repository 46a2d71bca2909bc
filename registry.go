package morph

import (
	"context"
	"reflect"
	"sync"
)

// pairKey identifies a directed mapping.
type pairKey struct {
	src reflect.Type
	dst reflect.Type
}

// entry is one registered mapping. Entries are never mutated; registering
// the same pair again replaces the entry.
type entry struct {
	key         pairKey
	source      Type
	destination Type
	fields      Fields
	options     Options
}

// compiledFunc populates a new destination from src and returns a pointer to it.
type compiledFunc func(ctx context.Context, src any) (any, error)

// registry stores entries and their compiled closures.
type registry struct {
	mu      sync.RWMutex
	entries []*entry
	index   map[pairKey]*entry
	sync    map[pairKey]compiledFunc
	async   map[pairKey]compiledFunc
}

func newRegistry() *registry {
	return &registry{
		index: make(map[pairKey]*entry),
		sync:  make(map[pairKey]compiledFunc),
		async: make(map[pairKey]compiledFunc),
	}
}

// put stores e with its sync closure, replacing any entry for the same pair
// and dropping the previous closures.
func (r *registry) put(e *entry, fn compiledFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	replaced := false
	for i, existing := range r.entries {
		if existing.key == e.key {
			r.entries[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		r.entries = append(r.entries, e)
	}
	r.index[e.key] = e
	r.sync[e.key] = fn
	delete(r.async, e.key)
}

// find returns the entry for key. The index is authoritative; the linear
// scan only covers an entry that was stored but not indexed.
func (r *registry) find(key pairKey) (*entry, bool) {
	r.mu.RLock()
	if e, ok := r.index[key]; ok {
		r.mu.RUnlock()
		return e, true
	}
	var found *entry
	for _, e := range r.entries {
		if e.key == key {
			found = e
			break
		}
	}
	r.mu.RUnlock()

	if found == nil {
		return nil, false
	}
	r.mu.Lock()
	r.index[key] = found
	r.mu.Unlock()
	return found, true
}

// syncFunc returns the closure compiled for e at registration.
func (r *registry) syncFunc(e *entry) (compiledFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.sync[e.key]
	return fn, ok
}

// asyncFunc returns the async closure for e, compiling it on first use.
// A closure compiled for a replaced entry is discarded.
func (r *registry) asyncFunc(e *entry, compile func(*entry) compiledFunc) compiledFunc {
	r.mu.RLock()
	fn, ok := r.async[e.key]
	current := r.index[e.key] == e
	r.mu.RUnlock()
	if ok && current {
		return fn
	}

	fn = compile(e)

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.async[e.key]; ok && r.index[e.key] == e {
		return existing
	}
	if r.index[e.key] == e {
		r.async[e.key] = fn
	}
	return fn
}

// list returns the entries in registration order.
func (r *registry) list() []*entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// reset drops every entry and closure.
func (r *registry) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
	r.index = make(map[pairKey]*entry)
	r.sync = make(map[pairKey]compiledFunc)
	r.async = make(map[pairKey]compiledFunc)
}
