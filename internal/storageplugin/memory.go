// Package storageplugin ships concrete StoragePlugin implementations
// resolvable from the ItemProcessor bundle's "storage" option.
package storageplugin

import (
	"github.com/spidercore/engine/internal/callback"
	"github.com/spidercore/engine/internal/plugin"
)

// MemoryID is the identifier the default, no-op storage plugin registers
// under.
const MemoryID = "memory"

type memoryPlugin struct{}

// NewMemory constructs the default StoragePlugin: it contributes nothing
// to the bundle and exists so "storage" can be omitted without a nil
// resolution.
func NewMemory() plugin.Plugin {
	return &memoryPlugin{}
}

func (m *memoryPlugin) Metadata() plugin.Metadata {
	return plugin.Metadata{ID: MemoryID, Kind: "storage"}
}

var _ plugin.StartPreparer = (*memoryPlugin)(nil)

func (m *memoryPlugin) PrepareForStart(_ map[string]any, options callback.Bundle) (callback.Bundle, error) {
	return options, nil
}

// Register adds the memory plugin to reg under MemoryID.
func Register(reg *plugin.Registry) {
	reg.Register(MemoryID, func() plugin.Plugin { return NewMemory() })
}
