package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableSetGetDelete(t *testing.T) {
	tb := New(RoleSpider)

	_, ok := tb.Get("missing")
	assert.False(t, ok)

	tb.Set("url", "https://example.com")
	v, ok := tb.Get("url")
	assert.True(t, ok)
	assert.Equal(t, "https://example.com", v)

	tb.Delete("url")
	_, ok = tb.Get("url")
	assert.False(t, ok)
}

func TestTableSnapshotIsCopy(t *testing.T) {
	tb := New(RoleDownloader)
	tb.Set("a", "1")

	snap := tb.Snapshot()
	snap["a"] = "mutated"

	v, _ := tb.Get("a")
	assert.Equal(t, "1", v)
}

func TestRoleReadConcurrent(t *testing.T) {
	assert.True(t, RoleCommonPipeline.ReadConcurrent())
	assert.True(t, RoleDownloaderPipeline.ReadConcurrent())
	assert.True(t, RoleSpiderPipeline.ReadConcurrent())
	assert.True(t, RoleItemProcessorPipeline.ReadConcurrent())
	assert.False(t, RoleDownloader.ReadConcurrent())
	assert.False(t, RoleSpider.ReadConcurrent())
	assert.False(t, RoleItemProcessor.ReadConcurrent())
}

func TestHandleValidity(t *testing.T) {
	var zero Handle
	assert.False(t, zero.Valid())

	h := HandleFor(New(RoleSpider))
	assert.True(t, h.Valid())
}
