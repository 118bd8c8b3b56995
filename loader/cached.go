package loader

import (
	"os"

	"github.com/gogpu/shaderpack"
	"github.com/gogpu/shaderpack/internal/blobcache"
)

// Loader loads blob files for one device, keeping decoded blobs in an LRU
// cache. Safe for concurrent use.
type Loader struct {
	dev   Device
	cache *blobcache.Cache
}

// New returns a Loader for dev caching up to capacity decoded blobs.
// A capacity of zero selects the cache default; negative disables caching.
func New(dev Device, capacity int) *Loader {
	l := &Loader{dev: dev}
	if capacity >= 0 {
		l.cache = blobcache.New(capacity)
	}
	return l
}

// Device returns the device resources are created on.
func (l *Loader) Device() Device { return l.dev }

// Blob returns the decoded blob at path, from the cache when the file has
// not changed since it was last decoded.
func (l *Loader) Blob(path string) (*shaderpack.Blob, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	key := blobcache.KeyOf(path, info)
	if l.cache != nil {
		if b, ok := l.cache.Get(key); ok {
			return b, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	b, err := shaderpack.Decode(data)
	if err != nil {
		return nil, err
	}
	if l.cache != nil {
		l.cache.Put(key, b)
	}
	return b, nil
}

// LoadShader loads the vertex or fragment blob at path.
func (l *Loader) LoadShader(path string) (Shader, error) {
	b, err := l.Blob(path)
	if err != nil {
		return nil, err
	}
	return CreateShader(l.dev, b)
}

// LoadComputePipeline loads the compute blob at path.
func (l *Loader) LoadComputePipeline(path string) (ComputePipeline, error) {
	b, err := l.Blob(path)
	if err != nil {
		return nil, err
	}
	return CreateComputePipeline(l.dev, b)
}

// Forget drops path from the cache.
func (l *Loader) Forget(path string) {
	if l.cache != nil {
		l.cache.Remove(path)
	}
}

// CacheStats returns the cache statistics, or zero stats when caching is
// disabled.
func (l *Loader) CacheStats() blobcache.Stats {
	if l.cache == nil {
		return blobcache.Stats{}
	}
	return l.cache.Stats()
}
