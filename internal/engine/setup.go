package engine

import (
	"context"
	"fmt"

	"github.com/spidercore/engine/internal/callback"
	apperrors "github.com/spidercore/engine/internal/errors"
	"github.com/spidercore/engine/internal/plugin"
	"github.com/spidercore/engine/internal/ports"
	"github.com/spidercore/engine/internal/registry"
	"github.com/spidercore/engine/internal/stage"
	"github.com/spidercore/engine/internal/storageplugin"
	"github.com/spidercore/engine/internal/table"
)

// handleStartComponents runs the eight-step setup protocol described by
// the Engine Lifecycle Controller. Any failure is fatal: it crashes the
// actor rather than leaving status stuck at preparing.
func (a *actor) handleStartComponents() {
	ctx := context.Background()
	a.publish(ctx, ports.EventEngineSetupStarted, map[string]interface{}{"spider": a.state.spider})
	a.logInfo(ctx, "engine setup starting", "spider", a.state.spider)

	if err := a.setupTables(); err != nil {
		a.crash(ctx, err)
		return
	}

	a.publishTablesToRegistry()

	downloaderBundle, err := a.assembleBundle("downloader")
	if err != nil {
		a.crash(ctx, err)
		return
	}
	spiderBundle, err := a.assembleBundle("spider")
	if err != nil {
		a.crash(ctx, err)
		return
	}
	itemProcessorBundle, err := a.assembleBundle("item_processor")
	if err != nil {
		a.crash(ctx, err)
		return
	}

	requesterPlugins := a.state.opts.RequesterPlugins
	if requesterPlugins == nil {
		requesterPlugins = plugin.NewRegistry()
		requesterPlugins.Register(plugin.DefaultRequesterID, plugin.NewDefaultRequester)
	}
	resolvedDownloader, _, err := plugin.Resolve(requesterPlugins, downloaderBundle, "requester", "requester", plugin.DefaultRequesterID)
	if err != nil {
		a.crash(ctx, apperrors.NewConfigurationError("requester", err.Error()))
		return
	}
	downloaderBundle = resolvedDownloader

	storagePlugins := a.state.opts.StoragePlugins
	if storagePlugins == nil {
		storagePlugins = plugin.NewRegistry()
		storagePlugins.Register(storageplugin.MemoryID, storageplugin.NewMemory)
	}
	resolvedItemProcessor, _, err := plugin.ResolveStorage(storagePlugins, itemProcessorBundle, storageplugin.MemoryID)
	if err != nil {
		a.crash(ctx, apperrors.NewConfigurationError("storage", err.Error()))
		return
	}
	itemProcessorBundle = resolvedItemProcessor

	hooks := callback.Probe(a.state.opts.SpiderCallbacks)
	a.state.hooks = hooks

	downloaderBundle, err = hooks.RunStartComponent("downloader", downloaderBundle)
	if err != nil {
		a.crash(ctx, apperrors.NewStageStartError("downloader", err))
		return
	}
	spiderBundle, err = hooks.RunStartComponent("spider", spiderBundle)
	if err != nil {
		a.crash(ctx, apperrors.NewStageStartError("spider", err))
		return
	}
	itemProcessorBundle, err = hooks.RunStartComponent("item_processor", itemProcessorBundle)
	if err != nil {
		a.crash(ctx, apperrors.NewStageStartError("item_processor", err))
		return
	}

	downloaderHandle, err := a.startStage("downloader", a.state.opts.DownloaderRunner, downloaderBundle)
	if err != nil {
		a.crash(ctx, err)
		return
	}
	a.state.downloaderHandle = downloaderHandle
	spiderHandle, err := a.startStage("spider", a.state.opts.SpiderRunner, spiderBundle)
	if err != nil {
		a.crash(ctx, err)
		return
	}
	a.state.spiderHandle = spiderHandle
	itemProcessorHandle, err := a.startStage("item_processor", a.state.opts.ItemProcessorRunner, itemProcessorBundle)
	if err != nil {
		a.crash(ctx, err)
		return
	}
	a.state.itemProcessorHandle = itemProcessorHandle

	a.state.downloaderOpts = downloaderBundle
	a.state.spiderOpts = spiderBundle
	a.state.itemProcessorOpts = itemProcessorBundle
	a.state.status = StatusRunning

	newState, err := hooks.RunStart(a.state.callbackState)
	if err != nil {
		a.crash(ctx, apperrors.NewStageStartError("spider_callbacks", err))
		return
	}
	a.state.callbackState = newState

	a.logInfo(ctx, "engine setup complete", "spider", a.state.spider)
	a.publish(ctx, ports.EventEngineRunning, map[string]interface{}{"spider": a.state.spider})
}

func (a *actor) setupTables() error {
	if a.state.opts.LoadFromFile != "" {
		loaded, err := table.LoadAll(a.state.opts.LoadFromFile)
		if err != nil {
			return err
		}
		a.state.tables = loaded
		return nil
	}

	for _, role := range table.Roles {
		a.state.tables[role] = table.HandleFor(table.New(role))
	}
	return nil
}

func (a *actor) publishTablesToRegistry() {
	reg := a.state.opts.Registry
	if reg == nil {
		return
	}
	publishedRoles := []table.Role{
		table.RoleCommonPipeline,
		table.RoleDownloader,
		table.RoleSpider,
		table.RoleItemProcessor,
	}
	for _, role := range publishedRoles {
		reg.Publish(a.state.spider, registry.TableName(role), a.state.tables[role])
	}
}

// assembleBundle builds a stage's option bundle by concatenating the
// framework-supplied prefix (spider, this stage's tid, the next stage's
// tid if any, and the two pipeline table handles) with the user-supplied
// overrides. Framework keys win on conflict.
func (a *actor) assembleBundle(component string) (callback.Bundle, error) {
	var role, pipelineRole table.Role
	var nextTid table.Handle
	hasNext := false

	switch component {
	case "downloader":
		role = table.RoleDownloader
		pipelineRole = table.RoleDownloaderPipeline
		nextTid, hasNext = a.state.tables[table.RoleSpider], true
	case "spider":
		role = table.RoleSpider
		pipelineRole = table.RoleSpiderPipeline
		nextTid, hasNext = a.state.tables[table.RoleItemProcessor], true
	case "item_processor":
		role = table.RoleItemProcessor
		pipelineRole = table.RoleItemProcessorPipeline
	default:
		return nil, fmt.Errorf("assembleBundle: unknown component %q", component)
	}

	framework := callback.Bundle{
		"spider":              a.state.spider,
		"tid":                 a.state.tables[role],
		"common_pipeline_tid": a.state.tables[table.RoleCommonPipeline],
		"pipeline_tid":        a.state.tables[pipelineRole],
	}
	if hasNext {
		framework["next_tid"] = nextTid
	}

	var overrides callback.Bundle
	switch component {
	case "downloader":
		overrides = bundleOrEmpty(a.state.opts.DownloaderOptions)
	case "spider":
		overrides = bundleOrEmpty(a.state.opts.SpiderOptions)
	case "item_processor":
		overrides = bundleOrEmpty(a.state.opts.ItemProcessorOptions)
	}

	out := framework.Clone()
	for k, v := range overrides {
		if _, exists := out[k]; !exists {
			out[k] = v
		}
	}
	return out, nil
}

func (a *actor) startStage(component string, runner stage.Runner, bundle callback.Bundle) (stage.Handle, error) {
	if runner == nil {
		return stage.Handle{}, apperrors.NewStageStartError(component, fmt.Errorf("no runner configured"))
	}
	h, err := runner.Start(bundle)
	if err != nil {
		return stage.Handle{}, apperrors.NewStageStartError(component, err)
	}
	return h, nil
}

func (a *actor) crash(ctx context.Context, err error) {
	duringSetup := a.state.status == StatusPreparing
	a.state.crashReason = err
	a.state.status = StatusTerminating
	a.state.crashed = true
	a.logError(ctx, "engine crashed", "spider", a.state.spider, "error", err)
	if duringSetup {
		a.publish(ctx, ports.EventEngineSetupFailed, map[string]interface{}{"spider": a.state.spider, "error": err.Error()})
	}
}
