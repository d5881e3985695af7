package cache

import "sync"

// Record is anything held by a Collection: a remotely persisted entity
// identified by its store-assigned id.
type Record interface {
	RecordID() string
}

// Collection is an ordered in-memory sequence of records, newest first.
// It is the local side of the reconciling cache: mutations land here
// only after the remote store has confirmed them, and remote-origin
// change events are merged in by id.
type Collection[T Record] struct {
	mu    sync.RWMutex
	items []T
}

func NewCollection[T Record]() *Collection[T] {
	return &Collection[T]{}
}

// Seed replaces the whole collection with the given records, keeping
// their order. Used by the startup bulk read.
func (c *Collection[T]) Seed(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T(nil), items...)
}

// Prepend puts the record at the head of the iteration order.
func (c *Collection[T]) Prepend(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T{item}, c.items...)
}

// ReplaceByID swaps the first record whose id matches. Returns false,
// leaving the collection untouched, when no record matches.
func (c *Collection[T]) ReplaceByID(item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].RecordID() == item.RecordID() {
			c.items[i] = item
			return true
		}
	}
	return false
}

// RemoveByID removes the first record whose id matches. Returns false
// when no record matches.
func (c *Collection[T]) RemoveByID(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].RecordID() == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// GetByID is a pure local lookup; it never touches the remote store.
func (c *Collection[T]) GetByID(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.items {
		if c.items[i].RecordID() == id {
			return c.items[i], true
		}
	}
	var zero T
	return zero, false
}

// Snapshot returns a copy of the collection in iteration order.
func (c *Collection[T]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T(nil), c.items...)
}

// Len returns the number of records currently held.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
