package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spidercore/engine/internal/callback"
)

type fakeRequester struct{ id string }

func (f *fakeRequester) Metadata() Metadata { return Metadata{ID: f.id, Kind: "requester"} }

func (f *fakeRequester) PrepareForStart(args map[string]any, options callback.Bundle) (callback.Bundle, error) {
	out := options.Clone()
	out["prepared_with"] = args
	return out, nil
}

type plainStorage struct{ id string }

func (p *plainStorage) Metadata() Metadata { return Metadata{ID: p.id, Kind: "storage"} }

func newTestRegistry() *Registry {
	reg := NewRegistry()
	reg.Register("http", func() Plugin { return &fakeRequester{id: "http"} })
	reg.Register("s3", func() Plugin { return &plainStorage{id: "s3"} })
	reg.Register(DefaultRequesterID, NewDefaultRequester)
	return reg
}

func TestParseSpecVariants(t *testing.T) {
	spec, err := ParseSpec(nil)
	require.NoError(t, err)
	assert.Nil(t, spec)

	spec, err = ParseSpec("http")
	require.NoError(t, err)
	assert.Equal(t, "http", spec.ID)
	assert.Empty(t, spec.Args)

	spec, err = ParseSpec(map[string]any{"id": "http", "args": map[string]any{"timeout": 5}})
	require.NoError(t, err)
	assert.Equal(t, "http", spec.ID)
	assert.Equal(t, 5, spec.Args["timeout"])

	_, err = ParseSpec(map[string]any{})
	assert.Error(t, err)
}

func TestResolveAbsentOptionFallsBackToDefault(t *testing.T) {
	reg := newTestRegistry()
	bundle := callback.Bundle{"spider": "s1"}

	out, resolved, err := Resolve(reg, bundle, "requester", "requester", DefaultRequesterID)
	require.NoError(t, err)
	assert.True(t, resolved)

	ctx := out["context"].(map[string]any)
	assert.Equal(t, DefaultRequesterID, ctx["requester"])
}

func TestResolveAbsentOptionWithNoDefaultLeavesBundleUnchanged(t *testing.T) {
	reg := newTestRegistry()
	bundle := callback.Bundle{"spider": "s1"}

	out, resolved, err := Resolve(reg, bundle, "requester", "requester", "")
	require.NoError(t, err)
	assert.False(t, resolved)
	assert.Equal(t, bundle, out)
}

func TestResolveBareIdentifierInjectsContext(t *testing.T) {
	reg := newTestRegistry()
	bundle := callback.Bundle{"requester": "http"}

	out, resolved, err := Resolve(reg, bundle, "requester", "requester", DefaultRequesterID)
	require.NoError(t, err)
	assert.True(t, resolved)

	ctx := out["context"].(map[string]any)
	assert.Equal(t, "http", ctx["requester"])
	assert.Equal(t, map[string]any{}, out["prepared_with"])
}

func TestResolveUnknownIdentifierErrors(t *testing.T) {
	reg := newTestRegistry()
	bundle := callback.Bundle{"requester": "unknown"}

	_, _, err := Resolve(reg, bundle, "requester", "requester", DefaultRequesterID)
	assert.Error(t, err)
}

func TestResolveStorageMergesOptions(t *testing.T) {
	reg := newTestRegistry()
	bundle := callback.Bundle{"storage": map[string]any{"id": "s3", "args": map[string]any{"bucket": "crawl"}}}

	out, resolved, err := ResolveStorage(reg, bundle, "s3")
	require.NoError(t, err)
	assert.True(t, resolved)

	ctx := out["context"].(map[string]any)
	assert.Equal(t, "s3", ctx["storage"])
	assert.Equal(t, map[string]any{"bucket": "crawl"}, ctx["storage_options"])
}

func TestResolveStorageAbsentOptionFallsBackToDefault(t *testing.T) {
	reg := newTestRegistry()
	bundle := callback.Bundle{"spider": "s1"}

	out, resolved, err := ResolveStorage(reg, bundle, "s3")
	require.NoError(t, err)
	assert.True(t, resolved)

	ctx := out["context"].(map[string]any)
	assert.Equal(t, "s3", ctx["storage"])
}
