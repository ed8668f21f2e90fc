// Package stage defines the external StageRunner contract the Engine
// consumes: a supervised start taking an options bundle and a control
// channel accepting suspend/continue and acknowledging ok.
package stage

import "github.com/spidercore/engine/internal/callback"

// Options is the bundle of key/value options a stage is started with.
type Options = callback.Bundle

// Signal is a control message sent to a running stage.
type Signal int

// The two control signals the Engine ever sends.
const (
	SignalSuspend Signal = iota
	SignalContinue
)

func (s Signal) String() string {
	switch s {
	case SignalSuspend:
		return "suspend"
	case SignalContinue:
		return "continue"
	default:
		return "unknown"
	}
}

// Ack is a stage's reply to a control Signal. Anything other than AckOK is
// a contract violation: the Engine must treat it as fatal.
type Ack struct {
	OK    bool
	Value string // diagnostic value when OK is false
}

// AckOK is the only acknowledgement that does not violate the contract.
var AckOK = Ack{OK: true, Value: "ok"}

// Handle is what a started stage exposes back to the Engine: a control
// channel to send signals on and an ack channel to receive replies from.
// Runner implementations must not mutate their own Tid or any downstream
// NextTid once started, suspended or not.
type Handle struct {
	Control chan<- Signal
	Ack     <-chan Ack
	Stopped <-chan struct{}
}

// Runner is the contract a Downloader, Spider, or ItemProcessor
// implementation satisfies. Start must be synchronous: it returns only
// once the stage is actually running, or with an error if it could not
// start.
type Runner interface {
	Start(opts Options) (Handle, error)
}
