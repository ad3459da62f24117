// Package variant holds the session cache of AI-generated prompt variants
// and persists them back into the project as reusable templates.
package variant

import (
	"reflect"
	"sync"
	"time"
)

// Entry is one generated variant held in the session cache.
type Entry struct {
	Variant     string
	Action      string
	Persona     string
	Content     string
	GeneratedAt time.Time
	Metadata    map[string]any
}

// Cache is a session-scoped in-memory store of generated variants. MCP tool
// handlers can run concurrently, so access is mutex-guarded. The cache is
// unbounded and dies with the process.
type Cache struct {
	mu      sync.Mutex
	entries []Entry
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Add appends an entry to the cache.
func (c *Cache) Add(e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
}

// All returns a copy of every cached entry.
func (c *Cache) All() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// ByAction returns entries for the given action name.
func (c *Cache) ByAction(action string) []Entry {
	return c.filter(func(e Entry) bool { return e.Action == action })
}

// ByVariant returns entries for the given variant name.
func (c *Cache) ByVariant(variant string) []Entry {
	return c.filter(func(e Entry) bool { return e.Variant == variant })
}

// Lookup returns the cached entry matching the full (variant, action,
// persona, metadata) key, if present.
func (c *Cache) Lookup(variant, action, persona string, metadata map[string]any) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.Variant == variant && e.Action == action && e.Persona == persona && metadataEqual(e.Metadata, metadata) {
			return e, true
		}
	}
	return Entry{}, false
}

// Clear drops every cached entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
}

// Count returns the number of cached entries.
func (c *Cache) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) filter(keep func(Entry) bool) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Entry
	for _, e := range c.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func metadataEqual(a, b map[string]any) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}
