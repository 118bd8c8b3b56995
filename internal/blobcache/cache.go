package blobcache

import (
	"io/fs"
	"sync"

	"github.com/gogpu/shaderpack"
)

// DefaultCapacity is the number of blobs kept when New is given zero.
const DefaultCapacity = 128

// Key identifies one version of a blob file.
type Key struct {
	Path    string
	Size    int64
	ModTime int64 // UnixNano
}

// KeyOf returns the key for the file at path described by info.
func KeyOf(path string, info fs.FileInfo) Key {
	return Key{Path: path, Size: info.Size(), ModTime: info.ModTime().UnixNano()}
}

type entry struct {
	blob *shaderpack.Blob
	node *lruNode
}

// Cache is a thread-safe LRU cache of decoded blobs with a hard capacity.
type Cache struct {
	mu       sync.Mutex
	entries  map[Key]*entry
	lru      lruList
	capacity int

	hits      uint64
	misses    uint64
	evictions uint64
}

// New creates a cache holding at most capacity blobs. Zero or negative
// selects DefaultCapacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		entries:  make(map[Key]*entry),
		capacity: capacity,
	}
}

// Get returns the blob stored under key and marks it most recently used.
func (c *Cache) Get(key Key) (*shaderpack.Blob, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.lru.MoveToFront(e.node)
	return e.blob, true
}

// Put stores blob under key. Older versions of the same path are dropped,
// and the least recently used blob is evicted once capacity is exceeded.
func (c *Cache) Put(key Key, blob *shaderpack.Blob) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.blob = blob
		c.lru.MoveToFront(e.node)
		return
	}
	for k, e := range c.entries {
		if k.Path == key.Path {
			c.lru.Remove(e.node)
			delete(c.entries, k)
		}
	}

	c.entries[key] = &entry{blob: blob, node: c.lru.PushFront(key)}
	for len(c.entries) > c.capacity {
		oldest, ok := c.lru.RemoveOldest()
		if !ok {
			break
		}
		delete(c.entries, oldest)
		c.evictions++
	}
}

// Remove drops every version of path.
func (c *Cache) Remove(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		if k.Path == path {
			c.lru.Remove(e.node)
			delete(c.entries, k)
		}
	}
}

// Clear removes all entries. Statistics are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[Key]*entry)
	c.lru = lruList{}
}

// Len returns the number of cached blobs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats contains cache statistics.
type Stats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	// HitRate is hits / (hits + misses), 0.0 to 1.0.
	HitRate float64
}

// Stats returns cache statistics.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Len:       len(c.entries),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}
