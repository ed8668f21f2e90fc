// Package registry implements the process-wide name service mapping
// (spider, key) pairs to table handles, so stages can locate shared
// tables without threading references through their options bundles.
//
// Entries live only in memory: they are created during Engine setup,
// removed by Unpublish when the Engine is terminated (or with the process),
// and never persisted to disk.
package registry

import (
	"fmt"
	"sync"

	"github.com/spidercore/engine/internal/table"
)

// Key identifies a registry entry by spider and a role-derived name.
type Key struct {
	Spider string
	Name   string
}

// Registry is a concurrent (spider, key) -> table.Handle directory.
type Registry struct {
	mu      sync.RWMutex
	entries map[Key]table.Handle
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[Key]table.Handle)}
}

// Publish registers a handle under (spider, name), replacing any existing
// entry for the same key.
func (r *Registry) Publish(spider, name string, handle table.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[Key{Spider: spider, Name: name}] = handle
}

// Lookup retrieves the handle registered under (spider, name).
func (r *Registry) Lookup(spider, name string) (table.Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.entries[Key{Spider: spider, Name: name}]
	return h, ok
}

// Unpublish removes every entry for a spider. Called when the spider's
// engine terminates; safe to call even if nothing was ever published.
func (r *Registry) Unpublish(spider string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.entries {
		if k.Spider == spider {
			delete(r.entries, k)
		}
	}
}

// Names returns the registered key names for a spider, primarily for
// diagnostics and tests.
func (r *Registry) Names(spider string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for k := range r.entries {
		if k.Spider == spider {
			names = append(names, k.Name)
		}
	}
	return names
}

// TableName derives the registry key name for a table role, e.g.
// "downloader_tid" for table.RoleDownloader.
func TableName(role table.Role) string {
	return fmt.Sprintf("%s_tid", role)
}
