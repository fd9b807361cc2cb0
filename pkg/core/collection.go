package core

import (
	"context"
	"fmt"
	"sync"
)

// DefaultFloor is the minimum collection size: the informational entry plus
// one user entry.
const DefaultFloor = 2

// ChangeType identifies a collection mutation.
type ChangeType string

const (
	ChangeAdd    ChangeType = "add"
	ChangeUpdate ChangeType = "update"
	ChangeRename ChangeType = "rename"
	ChangeRemove ChangeType = "remove"
	ChangeReset  ChangeType = "reset"
)

// Change is delivered to subscribers after every mutation.
type Change struct {
	Type    ChangeType
	Index   int // position in the collection, -1 for ChangeReset
	Record  Record
	OldName string // set for ChangeRename
}

// Collection is the ordered in-memory set of records the UI edits.
//
// Persistent names are unique, and Add and Rename never reuse any name in the
// collection. Only Seed can load a persistent record named like an
// informational one; lookups by name then resolve the persistent record. Subscribers are called on the mutating goroutine,
// in mutation order, after the internal lock is released; they must not
// mutate the collection themselves.
type Collection struct {
	mu      sync.RWMutex
	records []Record
	floor   int

	subMu  sync.Mutex
	subs   map[int]func(Change)
	subSeq int
	// serializes delivery so subscribers observe changes in order
	emitMu sync.Mutex
}

// NewCollection creates an empty collection with the default floor.
func NewCollection() *Collection {
	return &Collection{floor: DefaultFloor, subs: make(map[int]func(Change))}
}

// SetFloor overrides the minimum size enforced by Remove.
func (c *Collection) SetFloor(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.floor = n
}

// Subscribe registers fn for change notifications and returns a function that
// removes it.
func (c *Collection) Subscribe(fn func(Change)) (unsubscribe func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.subSeq
	c.subSeq++
	c.subs[id] = fn
	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Collection) emit(changes ...Change) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.subMu.Lock()
	fns := make([]func(Change), 0, len(c.subs))
	// registration order
	for i := 0; i < c.subSeq; i++ {
		if fn, ok := c.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	c.subMu.Unlock()

	for _, ch := range changes {
		for _, fn := range fns {
			fn(ch)
		}
	}
}

// Seed resets the collection: defaults first (always informational), then the
// loaded records in the given order. A loaded record whose name is already
// taken by an earlier persistent record is skipped; skipped records are
// reported as a *BatchError wrapping ErrNameCollision.
func (c *Collection) Seed(defaults, loaded []Record) error {
	c.mu.Lock()
	records := make([]Record, 0, len(defaults)+len(loaded))
	for _, r := range defaults {
		r.Persistent = false
		records = append(records, r)
	}

	var skipped []ItemError
	seen := make(map[string]bool, len(loaded))
	for _, r := range loaded {
		if r.Name == "" {
			skipped = append(skipped, ItemError{ID: "(unnamed)", Err: ErrInvalidName})
			continue
		}
		if seen[r.Name] {
			skipped = append(skipped, ItemError{ID: r.Name, Err: ErrNameCollision})
			continue
		}
		seen[r.Name] = true
		r.Persistent = true
		records = append(records, r)
	}
	c.records = records
	c.mu.Unlock()

	c.emit(Change{Type: ChangeReset, Index: -1})

	if len(skipped) > 0 {
		return &BatchError{Op: "seed", Failures: skipped}
	}
	return nil
}

// Add appends a record. If its name is taken by any record, informational
// ones included, the name is disambiguated as "name (N)", N starting at the
// current number of persistent records (at least 1). The stored record is
// returned.
func (c *Collection) Add(r Record) (Record, error) {
	if r.Name == "" {
		return Record{}, ErrInvalidName
	}

	c.mu.Lock()
	if c.indexOfName(r.Name) >= 0 {
		n := max(c.persistentCount(), 1)
		for {
			candidate := fmt.Sprintf("%s (%d)", r.Name, n)
			if c.indexOfName(candidate) < 0 {
				r.Name = candidate
				break
			}
			n++
		}
	}
	c.records = append(c.records, r)
	idx := len(c.records) - 1
	c.mu.Unlock()

	c.emit(Change{Type: ChangeAdd, Index: idx, Record: r})
	return r, nil
}

// Get returns the record with the given name.
func (c *Collection) Get(name string) (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	idx := c.find(name)
	if idx < 0 {
		return Record{}, false
	}
	return c.records[idx], true
}

// UpdateContent replaces the content of the named record in place.
// It never touches the disk.
func (c *Collection) UpdateContent(name, content string) error {
	c.mu.Lock()
	idx := c.find(name)
	if idx < 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	c.records[idx].Content = content
	r := c.records[idx]
	c.mu.Unlock()

	c.emit(Change{Type: ChangeUpdate, Index: idx, Record: r})
	return nil
}

// Rename changes the name of a persistent record after checking for
// collisions. Persistence is left to the caller.
func (c *Collection) Rename(name, newName string) error {
	if newName == "" {
		return ErrInvalidName
	}

	c.mu.Lock()
	idx := c.find(name)
	if idx < 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if !c.records[idx].Persistent {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrReadOnly, name)
	}
	if name == newName {
		c.mu.Unlock()
		return nil
	}
	if c.indexOfName(newName) >= 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNameCollision, newName)
	}
	c.records[idx].Name = newName
	r := c.records[idx]
	c.mu.Unlock()

	c.emit(Change{Type: ChangeRename, Index: idx, Record: r, OldName: name})
	return nil
}

// Remove deletes the named record from memory. The removal is refused (false)
// when the collection would drop to its floor or lose its last persistent or
// its last informational record.
func (c *Collection) Remove(name string) bool {
	c.mu.Lock()
	idx := c.find(name)
	if idx < 0 || len(c.records) <= c.floor {
		c.mu.Unlock()
		return false
	}
	r := c.records[idx]
	if r.Persistent && c.persistentCount() <= 1 {
		c.mu.Unlock()
		return false
	}
	if !r.Persistent && len(c.records)-c.persistentCount() <= 1 {
		c.mu.Unlock()
		return false
	}
	c.records = append(c.records[:idx], c.records[idx+1:]...)
	c.mu.Unlock()

	c.emit(Change{Type: ChangeRemove, Index: idx, Record: r})
	return true
}

// Records returns a snapshot of the collection in order.
func (c *Collection) Records() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Persistent returns a snapshot of the persistent records in order.
func (c *Collection) Persistent() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Record
	for _, r := range c.records {
		if r.Persistent {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of records, informational ones included.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// SaveOneTo saves the named record through repo.
func (c *Collection) SaveOneTo(ctx context.Context, name string, repo Repository) error {
	r, ok := c.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return repo.Save(ctx, r)
}

// SaveAllTo saves every persistent record through repo.
func (c *Collection) SaveAllTo(ctx context.Context, repo Repository) error {
	return repo.SaveMany(ctx, c.Persistent())
}

// find must be called with c.mu held.
func (c *Collection) find(name string) int {
	if idx := c.indexOfPersistent(name); idx >= 0 {
		return idx
	}
	return c.indexOfName(name)
}

func (c *Collection) indexOfPersistent(name string) int {
	for i, r := range c.records {
		if r.Persistent && r.Name == name {
			return i
		}
	}
	return -1
}

func (c *Collection) indexOfName(name string) int {
	for i, r := range c.records {
		if r.Name == name {
			return i
		}
	}
	return -1
}

func (c *Collection) persistentCount() int {
	n := 0
	for _, r := range c.records {
		if r.Persistent {
			n++
		}
	}
	return n
}
