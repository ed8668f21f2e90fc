package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spidercore/engine/internal/config"
	"github.com/spidercore/engine/internal/engine"
	"github.com/spidercore/engine/internal/plugin"
	"github.com/spidercore/engine/internal/stage/refstage"
	"github.com/spidercore/engine/internal/storageplugin"
)

// startEngineFromConfig parses the spider config at path, starts an Engine
// for it using the in-process reference stage runners, and waits until
// setup either reaches StatusRunning or the engine crashes, whichever
// comes first.
func startEngineFromConfig(ctx context.Context, app *AppContext, path string) (*engine.Handle, *config.SpiderConfig, error) {
	cfg, err := config.ParseSpiderConfig(path)
	if err != nil {
		return nil, nil, err
	}

	storagePlugins := plugin.NewRegistry()
	storageplugin.Register(storagePlugins)
	storageplugin.RegisterGit(storagePlugins)

	requesterPlugins := plugin.NewRegistry()
	requesterPlugins.Register(plugin.DefaultRequesterID, plugin.NewDefaultRequester)

	opts := engine.StartOptions{
		Spider:               cfg.Spider,
		DownloaderOptions:    config.Bundle(cfg.DownloaderOptions),
		SpiderOptions:        config.Bundle(cfg.SpiderOptions),
		ItemProcessorOptions: config.Bundle(cfg.ItemProcessorOptions),
		LoadFromFile:         cfg.LoadFromFile,
		DownloaderRunner:     refstage.New("downloader"),
		SpiderRunner:         refstage.New("spider"),
		ItemProcessorRunner:  refstage.New("item_processor"),
		StoragePlugins:       storagePlugins,
		RequesterPlugins:     requesterPlugins,
		Registry:             app.Registry,
		Logger:               app.LoggerFor("engine." + cfg.Spider),
		Publisher:            app.Events,
	}

	h, err := engine.Start(ctx, opts)
	if err != nil {
		return nil, cfg, err
	}

	if err := waitForTerminalSetup(h, 10*time.Second); err != nil {
		return h, cfg, err
	}
	return h, cfg, nil
}

// waitForTerminalSetup polls Status until it reports StatusRunning, the
// engine's Done channel closes (a setup crash), or timeout elapses.
func waitForTerminalSetup(h *engine.Handle, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		select {
		case <-h.Done():
			if err := h.Err(); err != nil {
				return fmt.Errorf("engine setup failed: %w", err)
			}
			return fmt.Errorf("engine terminated during setup")
		default:
		}
		if h.Status() == engine.StatusRunning {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return fmt.Errorf("timed out waiting for engine setup to complete")
}
