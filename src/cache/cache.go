// Package cache implements fixed-size object caches for driver records.
// A cache holds a bounded number of objects allocated up front; Alloc
// hands out zeroed objects and Free returns them. Exhaustion is reported
// to the caller, never a panic.
package cache

import "sync"

/// Cache_t is a pool of nobj records of type T.
type Cache_t[T any] struct {
	sync.Mutex
	name string
	objs []T
	free []*T
	out  map[*T]bool
}

/// MkCache creates a cache named name holding nobj objects.
func MkCache[T any](name string, nobj int) *Cache_t[T] {
	if nobj <= 0 {
		panic("cache: bad object count")
	}
	c := &Cache_t[T]{}
	c.name = name
	c.objs = make([]T, nobj)
	c.free = make([]*T, 0, nobj)
	c.out = make(map[*T]bool)
	for i := nobj - 1; i >= 0; i-- {
		c.free = append(c.free, &c.objs[i])
	}
	return c
}

/// Alloc returns a zeroed object, or false if the cache is exhausted.
func (c *Cache_t[T]) Alloc() (*T, bool) {
	c.Lock()
	defer c.Unlock()
	if len(c.free) == 0 {
		return nil, false
	}
	o := c.free[len(c.free)-1]
	c.free = c.free[:len(c.free)-1]
	c.out[o] = true
	var zero T
	*o = zero
	return o, true
}

/// Free returns an object to the cache. Freeing an object that is not
/// checked out of this cache is a caller bug.
func (c *Cache_t[T]) Free(o *T) {
	c.Lock()
	defer c.Unlock()
	if !c.out[o] {
		panic("cache: free of object not allocated from " + c.name)
	}
	delete(c.out, o)
	c.free = append(c.free, o)
}

/// Nfree reports how many objects remain available.
func (c *Cache_t[T]) Nfree() int {
	c.Lock()
	defer c.Unlock()
	return len(c.free)
}
