// Package refstage is a trivial in-process stage.Runner used by the
// Engine's own tests and by cmd/enginectl's demo mode. It does no real
// fetching, parsing, or storing: it only honors the control contract
// (suspend/continue -> ok) so the Engine can be exercised end-to-end
// without a real Downloader/Spider/ItemProcessor implementation.
package refstage

import (
	"github.com/spidercore/engine/internal/stage"
)

// Stage is a reference stage.Runner. Name is used only for diagnostics.
type Stage struct {
	Name string
}

// New creates a reference stage with the given diagnostic name.
func New(name string) *Stage {
	return &Stage{Name: name}
}

// Start launches the stage's control loop goroutine and returns once that
// goroutine is running, per the synchronous-start contract.
func (s *Stage) Start(opts stage.Options) (stage.Handle, error) {
	control := make(chan stage.Signal)
	ack := make(chan stage.Ack)
	stopped := make(chan struct{})

	started := make(chan struct{})
	go s.run(control, ack, stopped, started)
	<-started

	return stage.Handle{
		Control: control,
		Ack:     ack,
		Stopped: stopped,
	}, nil
}

func (s *Stage) run(control <-chan stage.Signal, ack chan<- stage.Ack, stopped chan<- struct{}, started chan<- struct{}) {
	defer close(stopped)
	close(started)

	for sig := range control {
		switch sig {
		case stage.SignalSuspend, stage.SignalContinue:
			ack <- stage.AckOK
		default:
			ack <- stage.Ack{OK: false, Value: "unrecognized signal"}
		}
	}
}
