package backend

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Toolchain names.
const (
	NameNaga        = "naga"
	NameShaderCross = "shadercross"
)

// Factory creates a new toolchain instance.
type Factory func() Toolchain

// registry holds registered toolchains.
var (
	registryMu sync.RWMutex
	toolchains = make(map[string]Factory)
	// Priority order for Default (earlier entries are tried first).
	// The in-process compiler goes before external executables.
	toolchainPriority = []string{NameNaga, NameShaderCross}
)

// Register registers a toolchain factory with the given name.
// This is typically called from init() functions in toolchain packages.
// If a toolchain with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	toolchains[name] = factory
}

// Unregister removes a toolchain from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(toolchains, name)
}

// Available returns the registered toolchain names in priority order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return orderedNames()
}

// orderedNames lists registered names, priority entries first and the rest
// sorted. Callers hold registryMu.
func orderedNames() []string {
	names := make([]string, 0, len(toolchains))
	for _, name := range toolchainPriority {
		if _, ok := toolchains[name]; ok {
			names = append(names, name)
		}
	}
	var rest []string
	for name := range toolchains {
		if !slices.Contains(toolchainPriority, name) {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	return append(names, rest...)
}

// IsRegistered checks if a toolchain with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := toolchains[name]
	return ok
}

// Get returns a toolchain instance by name.
// Returns nil if the toolchain is not registered.
func Get(name string) Toolchain {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := toolchains[name]
	if !ok {
		return nil
	}
	return factory()
}

// Default returns a Chain of every registered toolchain in priority order.
// Returns nil if no toolchains are registered.
func Default() Toolchain {
	registryMu.RLock()
	defer registryMu.RUnlock()

	var chain Chain
	for _, name := range orderedNames() {
		if t := toolchains[name](); t != nil {
			chain = append(chain, t)
		}
	}
	if len(chain) == 0 {
		return nil
	}
	return chain
}

// MustDefault returns the default toolchain or panics.
func MustDefault() Toolchain {
	t := Default()
	if t == nil {
		panic("backend: no toolchain available")
	}
	return t
}

// Select returns a Chain of the named toolchains in the given order.
// A comma-separated list is accepted; "auto" or an empty list selects
// Default.
func Select(list string) (Toolchain, error) {
	var names []string
	for _, n := range strings.Split(list, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 || (len(names) == 1 && names[0] == "auto") {
		if t := Default(); t != nil {
			return t, nil
		}
		return nil, ErrNotAvailable
	}

	chain := make(Chain, 0, len(names))
	for _, name := range names {
		t := Get(name)
		if t == nil {
			return nil, fmt.Errorf("%w: toolchain %q (registered: %s)", ErrNotAvailable, name, strings.Join(Available(), ", "))
		}
		chain = append(chain, t)
	}
	return chain, nil
}
