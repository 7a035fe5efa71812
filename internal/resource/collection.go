package resource

import (
	"sync"

	"github.com/VoxDroid/taxis/internal/taxi"
)

// Collection holds the last-known list of taxis for the rest of the
// application to read without re-querying.
//
// It is not a consistency-guaranteeing cache: there is no invalidation, no
// TTL and no deduplication of concurrent list queries. The contents are
// whatever the last successful List wrote, plus any local edits made
// through Append, Upsert or RemoveID.
type Collection struct {
	mu    sync.RWMutex
	items []taxi.Taxi

	subMu  sync.Mutex
	subs   map[int]func([]taxi.Taxi)
	nextID int
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{subs: make(map[int]func([]taxi.Taxi))}
}

// Snapshot returns a copy of the current contents in order.
func (c *Collection) Snapshot() []taxi.Taxi {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneAll(c.items)
}

// Len returns the number of taxis held.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Replace swaps the contents wholesale.
func (c *Collection) Replace(items []taxi.Taxi) {
	c.mu.Lock()
	c.items = cloneAll(items)
	c.mu.Unlock()
	c.notify()
}

// Append adds taxis to the end of the collection.
func (c *Collection) Append(items ...taxi.Taxi) {
	if len(items) == 0 {
		return
	}
	c.mu.Lock()
	for _, t := range items {
		c.items = append(c.items, t.Clone())
	}
	c.mu.Unlock()
	c.notify()
}

// Upsert replaces the taxi with the same id in place, or appends it when no
// such taxi is held. Taxis without an id are always appended.
func (c *Collection) Upsert(t taxi.Taxi) {
	c.mu.Lock()
	replaced := false
	if t.ID != 0 {
		for i := range c.items {
			if c.items[i].ID == t.ID {
				c.items[i] = t.Clone()
				replaced = true
				break
			}
		}
	}
	if !replaced {
		c.items = append(c.items, t.Clone())
	}
	c.mu.Unlock()
	c.notify()
}

// RemoveID drops every taxi with the given id and reports whether any was
// removed.
func (c *Collection) RemoveID(id taxi.ID) bool {
	c.mu.Lock()
	kept := c.items[:0]
	removed := false
	for _, t := range c.items {
		if t.ID == id {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	c.items = kept
	c.mu.Unlock()
	if removed {
		c.notify()
	}
	return removed
}

// Subscribe registers fn to be called with a snapshot after every change.
// The returned function removes the subscription.
func (c *Collection) Subscribe(fn func([]taxi.Taxi)) (unsubscribe func()) {
	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.subMu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			c.subMu.Unlock()
		})
	}
}

// notify runs outside c.mu so subscribers may read the collection.
func (c *Collection) notify() {
	c.subMu.Lock()
	fns := make([]func([]taxi.Taxi), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()
	if len(fns) == 0 {
		return
	}
	snap := c.Snapshot()
	for _, fn := range fns {
		fn(snap)
	}
}

func cloneAll(in []taxi.Taxi) []taxi.Taxi {
	out := make([]taxi.Taxi, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}
