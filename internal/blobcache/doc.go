// Package blobcache keeps recently decoded shader blobs in memory.
//
// Entries are keyed by file path, size and modification time, so a blob
// rewritten on disk misses the cache instead of returning stale variants:
//
//	c := blobcache.New(64)
//	key := blobcache.KeyOf(path, info)
//	if b, ok := c.Get(key); ok {
//		return b
//	}
//	c.Put(key, decoded)
//
// # Thread Safety
//
// Cache is safe for concurrent use. It must not be copied after creation
// (it contains a mutex). Cached blobs are shared between callers and must
// be treated as read-only.
package blobcache
