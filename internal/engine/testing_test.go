package engine

import (
	"github.com/spidercore/engine/internal/callback"
	"github.com/spidercore/engine/internal/stage"
)

// vetoStage is a stage.Runner that acknowledges every signal except
// suspend, which it refuses whenever vetoSuspend is set; used to exercise
// the control-contract-violation crash path (E6).
type vetoStage struct {
	vetoSuspend bool
}

func (v *vetoStage) Start(opts stage.Options) (stage.Handle, error) {
	control := make(chan stage.Signal)
	ack := make(chan stage.Ack)
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		for sig := range control {
			if sig == stage.SignalSuspend && v.vetoSuspend {
				ack <- stage.Ack{OK: false, Value: "refused"}
				continue
			}
			ack <- stage.AckOK
		}
	}()

	return stage.Handle{Control: control, Ack: ack, Stopped: stopped}, nil
}

// slowStage acknowledges every signal but only after release() is called,
// used to exercise the "must block the caller until acknowledgement"
// boundary.
type slowStage struct {
	release chan struct{}
}

func newSlowStage() *slowStage {
	return &slowStage{release: make(chan struct{})}
}

func (s *slowStage) Start(opts stage.Options) (stage.Handle, error) {
	control := make(chan stage.Signal)
	ack := make(chan stage.Ack)
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		for range control {
			<-s.release
			ack <- stage.AckOK
		}
	}()

	return stage.Handle{Control: control, Ack: ack, Stopped: stopped}, nil
}

// recordingSpiderCallbacks implements all four SpiderCallbacks hooks and
// counts invocations, for E5.
type recordingSpiderCallbacks struct {
	startCalls          int
	startComponentCalls int
	stopCalls           int
	stopComponentCalls  int
}

func (r *recordingSpiderCallbacks) PrepareForStart(state callback.State) (callback.State, error) {
	r.startCalls++
	return state, nil
}

func (r *recordingSpiderCallbacks) PrepareForStartComponent(component string, options callback.Bundle) (callback.Bundle, error) {
	r.startComponentCalls++
	return options, nil
}

func (r *recordingSpiderCallbacks) PrepareForStop(state callback.State) error {
	r.stopCalls++
	return nil
}

func (r *recordingSpiderCallbacks) PrepareForStopComponent(component string, options callback.Bundle) error {
	r.stopComponentCalls++
	return nil
}
