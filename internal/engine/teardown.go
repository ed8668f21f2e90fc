package engine

import (
	"context"
	"time"

	"github.com/spidercore/engine/internal/callback"
	"github.com/spidercore/engine/internal/ports"
	"github.com/spidercore/engine/internal/stage"
)

// handleTerminate runs the teardown sequence (§4.4) and returns
// immediately after scheduling the asynchronous stop: the actor's own
// return deadline is tight, while child shutdown proceeds on its own
// timeline bounded by the shutdown budget.
func (a *actor) handleTerminate(reason error) {
	ctx := context.Background()
	a.state.status = StatusTerminating

	if reason != nil {
		a.logWarn(ctx, "engine terminating", "spider", a.state.spider, "reason", reason)
	} else {
		a.logInfo(ctx, "engine terminating", "spider", a.state.spider)
	}
	a.publish(ctx, ports.EventEngineTerminating, map[string]interface{}{"spider": a.state.spider})

	pipelineHook := callback.ProbePipelineStopHook(a.state.opts.PipelineHooks)

	stages := []struct {
		component  string
		bundle     callback.Bundle
		handle     stage.Handle
		middleware []string
	}{
		{"downloader", a.state.downloaderOpts, a.state.downloaderHandle, a.state.opts.DownloaderMiddleware},
		{"spider", a.state.spiderOpts, a.state.spiderHandle, a.state.opts.SpiderMiddleware},
		{"item_processor", a.state.itemProcessorOpts, a.state.itemProcessorHandle, a.state.opts.ItemProcessorMiddleware},
	}

	for _, s := range stages {
		if err := a.state.hooks.RunStopComponent(s.component, s.bundle); err != nil {
			a.logWarn(ctx, "stop component hook failed", "spider", a.state.spider, "stage", s.component, "error", err)
		}
		if pipelineHook != nil {
			if err := pipelineHook.PrepareForStop(s.component, s.middleware); err != nil {
				a.logWarn(ctx, "pipeline stop hook failed", "spider", a.state.spider, "stage", s.component, "error", err)
			}
		}
	}

	if err := a.state.hooks.RunStop(a.state.callbackState); err != nil {
		a.logWarn(ctx, "stop hook failed", "spider", a.state.spider, "error", err)
	}

	if a.state.opts.Registry != nil {
		a.state.opts.Registry.Unpublish(a.state.spider)
	}

	budget := a.state.opts.shutdownBudget()
	go stopStages(budget, stages)
}

func stopStages(budget time.Duration, stages []struct {
	component  string
	bundle     callback.Bundle
	handle     stage.Handle
	middleware []string
}) {
	deadline := time.After(budget)
	for _, s := range stages {
		if s.handle.Control == nil {
			continue
		}
		closeControlSafely(s.handle.Control)
	}
	for _, s := range stages {
		if s.handle.Stopped == nil {
			continue
		}
		select {
		case <-s.handle.Stopped:
		case <-deadline:
			return
		}
	}
}

func closeControlSafely(control chan<- stage.Signal) {
	defer func() { _ = recover() }()
	close(control)
}

// stopCrashedStages tears down whatever stages were started before a
// setup or control-contract crash, bounded by the shutdown budget, without
// running the SpiderCallbacks/PipelineHooks teardown sequence: those
// hooks assume a clean stop, not a crash.
func (a *actor) stopCrashedStages() {
	stages := []struct {
		component  string
		bundle     callback.Bundle
		handle     stage.Handle
		middleware []string
	}{
		{"downloader", a.state.downloaderOpts, a.state.downloaderHandle, nil},
		{"spider", a.state.spiderOpts, a.state.spiderHandle, nil},
		{"item_processor", a.state.itemProcessorOpts, a.state.itemProcessorHandle, nil},
	}
	budget := a.state.opts.shutdownBudget()
	go stopStages(budget, stages)
}
