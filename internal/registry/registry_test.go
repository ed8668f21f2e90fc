package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spidercore/engine/internal/table"
)

func TestPublishAndLookup(t *testing.T) {
	r := New()
	h := table.HandleFor(table.New(table.RoleSpider))

	_, ok := r.Lookup("s1", TableName(table.RoleSpider))
	assert.False(t, ok)

	r.Publish("s1", TableName(table.RoleSpider), h)

	got, ok := r.Lookup("s1", TableName(table.RoleSpider))
	assert.True(t, ok)
	assert.Equal(t, h, got)
}

func TestPublishOverwrites(t *testing.T) {
	r := New()
	h1 := table.HandleFor(table.New(table.RoleDownloader))
	h2 := table.HandleFor(table.New(table.RoleDownloader))

	r.Publish("s1", "downloader_tid", h1)
	r.Publish("s1", "downloader_tid", h2)

	got, ok := r.Lookup("s1", "downloader_tid")
	assert.True(t, ok)
	assert.Equal(t, h2, got)
}

func TestUnpublishRemovesOnlyThatSpider(t *testing.T) {
	r := New()
	r.Publish("s1", "spider_tid", table.HandleFor(table.New(table.RoleSpider)))
	r.Publish("s2", "spider_tid", table.HandleFor(table.New(table.RoleSpider)))

	r.Unpublish("s1")

	_, ok := r.Lookup("s1", "spider_tid")
	assert.False(t, ok)
	_, ok = r.Lookup("s2", "spider_tid")
	assert.True(t, ok)
}

func TestTwoSpidersDoNotCollide(t *testing.T) {
	r := New()
	r.Publish("s1", "common_pipeline_tid", table.HandleFor(table.New(table.RoleCommonPipeline)))
	r.Publish("s2", "common_pipeline_tid", table.HandleFor(table.New(table.RoleCommonPipeline)))

	names := r.Names("s1")
	assert.Len(t, names, 1)
}
