package storageplugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spidercore/engine/internal/callback"
	"github.com/spidercore/engine/internal/plugin"
)

func TestMemoryPluginRegistersAndResolves(t *testing.T) {
	reg := plugin.NewRegistry()
	Register(reg)

	p, err := reg.Resolve(MemoryID)
	require.NoError(t, err)
	assert.Equal(t, MemoryID, p.Metadata().ID)
}

func TestMemoryPluginPrepareForStartIsNoOp(t *testing.T) {
	p := NewMemory().(plugin.StartPreparer)
	out, err := p.PrepareForStart(nil, callback.Bundle{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, callback.Bundle{"a": 1}, out)
}
