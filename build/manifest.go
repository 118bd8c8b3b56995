package build

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"io/fs"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/gogpu/shaderpack"
)

// Current schema version - increment when the manifest format changes.
const manifestSchemaVersion uint16 = 1

// DefaultManifestName is the manifest file name used by the CLI.
const DefaultManifestName = ".shaderpack-manifest"

// Digest identifies a source together with the options it was built with.
type Digest [sha256.Size]byte

// ManifestEntry records how a target was last built.
type ManifestEntry struct {
	Source  string
	Digest  Digest
	Formats uint32
	Built   time.Time
}

type manifestPayload struct {
	// Schema version for safe invalidation when format changes
	Schema  uint16
	Entries map[string]ManifestEntry
}

// Manifest remembers the digest each target was built from, so a change
// of formats or entry point rebuilds a target whose file is newer than its
// source. A nil *Manifest is valid and records nothing.
// Safe for concurrent use.
type Manifest struct {
	mu      sync.Mutex
	fsys    FileSystem
	path    string
	entries map[string]ManifestEntry
	dirty   bool
}

// OpenManifest loads the manifest at path. A missing file, a file written
// by another schema version, or an unreadable payload yields an empty
// manifest; only file system errors other than non-existence are returned.
func OpenManifest(fsys FileSystem, path string) (*Manifest, error) {
	m := &Manifest{fsys: fsys, path: path, entries: make(map[string]ManifestEntry)}
	data, err := fsys.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, err
	}

	var payload manifestPayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		shaderpack.Logger().Warn("build: discarding unreadable manifest", "path", path, "err", err)
		return m, nil
	}
	if payload.Schema != manifestSchemaVersion {
		shaderpack.Logger().Debug("build: manifest schema changed", "path", path,
			"have", payload.Schema, "want", manifestSchemaVersion)
		return m, nil
	}
	if payload.Entries != nil {
		m.entries = payload.Entries
	}
	return m, nil
}

// Path returns the manifest file path.
func (m *Manifest) Path() string {
	if m == nil {
		return ""
	}
	return m.path
}

// Lookup returns the entry recorded for target.
func (m *Manifest) Lookup(target string) (ManifestEntry, bool) {
	if m == nil {
		return ManifestEntry{}, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[target]
	return e, ok
}

// Record stores the entry for target.
func (m *Manifest) Record(target string, e ManifestEntry) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[target] = e
	m.dirty = true
}

// Len returns the number of recorded targets.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Save writes the manifest if anything was recorded since it was opened.
// The payload goes to a temporary file first and is renamed into place.
func (m *Manifest) Save() error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.dirty {
		return nil
	}

	data, err := msgpack.Marshal(&manifestPayload{Schema: manifestSchemaVersion, Entries: m.entries})
	if err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	if err := saveFile(m.fsys, tmp, data); err != nil {
		return err
	}
	// Atomic replace
	if err := m.fsys.Rename(tmp, m.path); err != nil {
		return &WriteError{Path: m.path, Err: err}
	}
	m.dirty = false
	return nil
}

// DigestOf hashes a source together with the options that shape its blob.
func DigestOf(code []byte, t Target, cfg Config, toolchain string) Digest {
	h := sha256.New()
	var hdr [12]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(cfg.Formats))
	binary.LittleEndian.PutUint32(hdr[4:], uint32(t.Stage))
	binary.LittleEndian.PutUint32(hdr[8:], uint32(t.Language))
	h.Write(hdr[:])
	for _, s := range []string{cfg.EntryPoint, toolchain} {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	h.Write(code)

	var d Digest
	h.Sum(d[:0])
	return d
}
