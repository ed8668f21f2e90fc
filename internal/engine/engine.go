// Package engine implements the Engine actor: a single long-lived
// supervised worker per spider that owns lifecycle, the seven shared
// tables, and the suspend/continue/dump/teardown control surface.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/spidercore/engine/internal/callback"
	apperrors "github.com/spidercore/engine/internal/errors"
	"github.com/spidercore/engine/internal/ports"
	"github.com/spidercore/engine/internal/stage"
	"github.com/spidercore/engine/internal/table"
)

// engineState is owned exclusively by the actor goroutine; the only access
// from outside run() is Handle.Err reading crashReason after the goroutine
// has exited.
type engineState struct {
	opts   StartOptions
	spider string
	status Status

	tables map[table.Role]table.Handle

	downloaderOpts    callback.Bundle
	spiderOpts        callback.Bundle
	itemProcessorOpts callback.Bundle

	downloaderHandle    stage.Handle
	spiderHandle        stage.Handle
	itemProcessorHandle stage.Handle

	hooks         callback.Hooks
	callbackState callback.State

	crashReason error
	crashed     bool
}

// actor drives engineState from its mailbox goroutine.
type actor struct {
	mailbox chan command
	state   engineState
	done    chan struct{}
}

// Handle is the caller-facing reference to a running Engine actor.
type Handle struct {
	spider  string
	mailbox chan<- command
	done    <-chan struct{}
	a       *actor
}

// Start launches the mailbox goroutine and enqueues the internal
// startComponents command as the very first mailbox item, then returns a
// Handle immediately. Setup itself runs as a deferred continuation, so
// Start does not block on it.
func Start(ctx context.Context, opts StartOptions) (*Handle, error) {
	if opts.Spider == "" {
		return nil, apperrors.NewConfigurationError("spider", "must not be empty")
	}

	a := &actor{
		mailbox: make(chan command, 16),
		done:    make(chan struct{}),
		state: engineState{
			opts:   opts,
			spider: opts.Spider,
			status: StatusPreparing,
			tables: make(map[table.Role]table.Handle),
		},
	}

	go a.run()
	a.mailbox <- cmdStartComponents{}

	return &Handle{spider: opts.Spider, mailbox: a.mailbox, done: a.done, a: a}, nil
}

func (a *actor) run() {
	defer close(a.done)
	for cmd := range a.mailbox {
		switch c := cmd.(type) {
		case cmdStartComponents:
			a.handleStartComponents()
		case cmdStatus:
			c.reply <- a.state.status
		case cmdSuspend:
			c.reply <- a.handleSuspend(c.timeout)
		case cmdContinue:
			c.reply <- a.handleContinue(c.timeout)
		case cmdDump:
			c.reply <- a.handleDump(c.fileBase, c.force, c.timeout)
		case cmdTerminate:
			a.handleTerminate(c.reason)
			return
		}
		if a.state.crashed {
			a.stopCrashedStages()
			return
		}
	}
}

func (a *actor) logger() ports.Logger {
	return a.state.opts.Logger
}

func (a *actor) logInfo(ctx context.Context, msg string, fields ...interface{}) {
	if l := a.logger(); l != nil {
		l.Info(ctx, msg, fields...)
	}
}

func (a *actor) logWarn(ctx context.Context, msg string, fields ...interface{}) {
	if l := a.logger(); l != nil {
		l.Warn(ctx, msg, fields...)
	}
}

func (a *actor) logError(ctx context.Context, msg string, fields ...interface{}) {
	if l := a.logger(); l != nil {
		l.Error(ctx, msg, fields...)
	}
}

func (a *actor) publish(ctx context.Context, eventType string, payload map[string]interface{}) {
	pub := a.state.opts.Publisher
	if pub == nil {
		return
	}
	_ = pub.Publish(ctx, lifecycleEvent{eventType: eventType, payload: payload})
}

// Status returns the actor's current status. It never blocks on stage
// activity: the mailbox read is serialized behind at most the commands
// already queued ahead of it.
func (h *Handle) Status() Status {
	reply := make(chan Status, 1)
	select {
	case h.mailbox <- cmdStatus{reply: reply}:
	case <-h.done:
		return StatusTerminating
	}
	select {
	case s := <-reply:
		return s
	case <-h.done:
		return StatusTerminating
	}
}

// Suspend blocks until all three stages acknowledge or timeout elapses.
// Idempotent: suspending an already-suspended engine returns nil.
func (h *Handle) Suspend(ctx context.Context, timeout time.Duration) error {
	return h.call(ctx, func(reply chan<- error) command {
		return cmdSuspend{timeout: timeout, reply: reply}
	})
}

// Continue is symmetric to Suspend.
func (h *Handle) Continue(ctx context.Context, timeout time.Duration) error {
	return h.call(ctx, func(reply chan<- error) command {
		return cmdContinue{timeout: timeout, reply: reply}
	})
}

// DumpToFile requires the engine to be in StatusSuspend; otherwise it
// returns a *errors.StatusError without touching the filesystem.
func (h *Handle) DumpToFile(ctx context.Context, fileBase string, timeout time.Duration) error {
	return h.call(ctx, func(reply chan<- error) command {
		return cmdDump{fileBase: fileBase, force: false, timeout: timeout, reply: reply}
	})
}

// DumpToFileForce is identical to DumpToFile: the interactive confirmation
// DumpToFile's non-forced callers expect is a user-facing wrapper's
// responsibility (see cmd/enginectl), not part of the core contract.
func (h *Handle) DumpToFileForce(ctx context.Context, fileBase string, timeout time.Duration) error {
	return h.call(ctx, func(reply chan<- error) command {
		return cmdDump{fileBase: fileBase, force: true, timeout: timeout, reply: reply}
	})
}

// Terminate asks the actor to run teardown and stop. It does not block
// until teardown completes; use Done to wait for that.
func (h *Handle) Terminate(reason error) {
	select {
	case h.mailbox <- cmdTerminate{reason: reason}:
	case <-h.done:
	}
}

// Done reports when the actor's mailbox loop has exited, after teardown
// has been scheduled.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err returns the reason the engine crashed, or nil if it has not.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.a.state.crashReason
	default:
		return nil
	}
}

func (h *Handle) call(ctx context.Context, build func(chan<- error) command) error {
	reply := make(chan error, 1)
	cmd := build(reply)

	select {
	case h.mailbox <- cmd:
	case <-h.done:
		return fmt.Errorf("engine %s: terminated", h.spider)
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-h.done:
		return fmt.Errorf("engine %s: terminated", h.spider)
	case <-ctx.Done():
		return ctx.Err()
	}
}

type lifecycleEvent struct {
	eventType string
	payload   map[string]interface{}
}

func (e lifecycleEvent) EventType() string    { return e.eventType }
func (e lifecycleEvent) Payload() interface{} { return e.payload }
