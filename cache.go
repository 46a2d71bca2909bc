package morph

import (
	"reflect"
	"sync"
)

// instanceCache memoises results per source object identity. Keys are weak
// pointers, so the cache never keeps a source alive; an entry is dropped by
// a cleanup once its source is collected.
//
// A cached result that itself references the source keeps the source alive
// and its entry with it.
type instanceCache struct {
	mu      sync.Mutex
	entries map[any]map[reflect.Type]any
}

func newInstanceCache() *instanceCache {
	return &instanceCache{entries: make(map[any]map[reflect.Type]any)}
}

// get returns the result cached for src and dst. Sources t cannot identify
// (values, nil pointers) always miss.
func (c *instanceCache) get(t Type, src any, dst reflect.Type) (any, bool) {
	if t.identify == nil {
		return nil, false
	}
	id, ok := t.identify(src)
	if !ok {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[id][dst]
	return v, ok
}

// put stores a result for src and dst.
func (c *instanceCache) put(t Type, src any, dst reflect.Type, v any) {
	if t.identify == nil {
		return
	}
	id, ok := t.identify(src)
	if !ok {
		return
	}
	c.mu.Lock()
	results, exists := c.entries[id]
	if !exists {
		results = make(map[reflect.Type]any)
		c.entries[id] = results
	}
	results[dst] = v
	c.mu.Unlock()

	if !exists {
		t.watch(src, c.drop)
	}
}

func (c *instanceCache) drop(id any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// len reports the number of cached sources.
func (c *instanceCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *instanceCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[any]map[reflect.Type]any)
}
