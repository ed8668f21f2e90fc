package engine

import (
	"context"
	"strconv"
	"time"

	apperrors "github.com/spidercore/engine/internal/errors"
	"github.com/spidercore/engine/internal/ports"
	"github.com/spidercore/engine/internal/stage"
	"github.com/spidercore/engine/internal/storageplugin"
	"github.com/spidercore/engine/internal/table"
)

// handleSuspend broadcasts suspend to all three stages and waits for all
// three acknowledgements, or timeout. A stage that replies with anything
// other than stage.AckOK is a control contract violation and crashes the
// engine. suspend-after-suspend is a no-op returning nil.
func (a *actor) handleSuspend(timeout time.Duration) error {
	if a.state.status == StatusSuspend {
		return nil
	}
	if a.state.status != StatusRunning {
		return apperrors.NewStatusError(string(StatusRunning), string(a.state.status))
	}

	if err := a.broadcast(stage.SignalSuspend, timeout); err != nil {
		return err
	}
	a.state.status = StatusSuspend
	a.publish(context.Background(), ports.EventEngineSuspended, map[string]interface{}{"spider": a.state.spider})
	return nil
}

// handleContinue is symmetric to handleSuspend.
func (a *actor) handleContinue(timeout time.Duration) error {
	if a.state.status == StatusRunning {
		return nil
	}
	if a.state.status != StatusSuspend {
		return apperrors.NewStatusError(string(StatusSuspend), string(a.state.status))
	}

	if err := a.broadcast(stage.SignalContinue, timeout); err != nil {
		return err
	}
	a.state.status = StatusRunning
	a.publish(context.Background(), ports.EventEngineResumed, map[string]interface{}{"spider": a.state.spider})
	return nil
}

func (a *actor) broadcast(signal stage.Signal, timeout time.Duration) error {
	handles := []struct {
		component string
		handle    stage.Handle
	}{
		{"downloader", a.state.downloaderHandle},
		{"spider", a.state.spiderHandle},
		{"item_processor", a.state.itemProcessorHandle},
	}

	var timer <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}

	for _, h := range handles {
		var ackTimer <-chan time.Time
		if d := a.state.opts.ControlAckTimeout; d > 0 {
			t := time.NewTimer(d)
			defer t.Stop()
			ackTimer = t.C
		}

		select {
		case h.handle.Control <- signal:
		case <-timer:
			return apperrors.NewControlViolationError(h.component, signal.String(), "timeout sending signal")
		case <-ackTimer:
			return apperrors.NewControlViolationError(h.component, signal.String(), "timeout sending signal")
		}

		select {
		case ack := <-h.handle.Ack:
			if !ack.OK {
				err := apperrors.NewControlViolationError(h.component, signal.String(), ack.Value)
				a.publish(context.Background(), ports.EventEngineStageCrashed, map[string]interface{}{
					"spider": a.state.spider, "stage": h.component, "op": signal.String(),
				})
				a.crash(context.Background(), err)
				return err
			}
		case <-timer:
			err := apperrors.NewControlViolationError(h.component, signal.String(), "timeout waiting for ack")
			return err
		case <-ackTimer:
			return apperrors.NewControlViolationError(h.component, signal.String(), "timeout waiting for ack")
		}
	}
	return nil
}

// handleDump requires status == suspend; otherwise it returns a
// *errors.StatusError without touching the filesystem. force is currently
// inert at this layer: the interactive confirmation it bypasses lives in
// the CLI wrapper, not here.
func (a *actor) handleDump(fileBase string, force bool, timeout time.Duration) error {
	if a.state.status != StatusSuspend {
		return apperrors.NewStatusError(string(StatusSuspend), string(a.state.status))
	}

	base := fileBase
	if base == "" {
		base = defaultDumpBase(a.state.spider)
	}

	done := make(chan error, 1)
	go func() {
		done <- table.DumpAll(base, a.state.tables)
	}()

	var timer <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}

	select {
	case err := <-done:
		if err != nil {
			return err
		}
	case <-timer:
		return apperrors.NewLoadError(base, context.DeadlineExceeded)
	}

	a.publish(context.Background(), ports.EventEngineDumped, map[string]interface{}{"spider": a.state.spider, "base": base})
	a.maybeCommitToGitHistory(base)
	return nil
}

// maybeCommitToGitHistory commits the dump snapshot into the git-backed
// storage plugin's repository, if the ItemProcessor bundle's context
// resolved "storage" to the git plugin. Failure is logged, not returned:
// the dump itself already succeeded.
func (a *actor) maybeCommitToGitHistory(base string) {
	ctxValues, _ := a.state.itemProcessorOpts["context"].(map[string]any)
	if ctxValues == nil {
		return
	}
	storageID, _ := ctxValues["storage"].(string)
	if storageID != "git" {
		return
	}
	repoDir, _ := a.state.itemProcessorOpts["git_repo_dir"].(string)
	if repoDir == "" {
		return
	}
	if err := storageplugin.CommitDump(repoDir, "dump "+a.state.spider+" at "+base); err != nil {
		a.logWarn(context.Background(), "git history commit failed", "spider", a.state.spider, "error", err)
	}
}

func defaultDumpBase(spider string) string {
	return "./data/" + spider + "_" + strconv.FormatInt(time.Now().Unix(), 10)
}
