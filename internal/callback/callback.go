// Package callback defines the optional per-spider lifecycle hooks the
// Engine probes for via type assertion and calls only when implemented,
// mirroring the capability-probing pattern used for optional plugin
// interfaces elsewhere in the stack.
package callback

// Bundle is the key/value option bundle handed to a stage at start, and
// the same bundle the matching stop hook receives.
type Bundle map[string]any

// Clone returns a shallow copy of the bundle.
func (b Bundle) Clone() Bundle {
	out := make(Bundle, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// State is the opaque per-spider state threaded through PrepareForStart and
// PrepareForStop.
type State map[string]any

// Clone returns a shallow copy of the state.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// StartCallback is probed via type assertion; implement it to observe and
// transform the spider's state once setup has started all three stages.
type StartCallback interface {
	PrepareForStart(state State) (State, error)
}

// StartComponentCallback is probed via type assertion; implement it to
// observe or transform a single stage's option bundle during setup.
type StartComponentCallback interface {
	PrepareForStartComponent(component string, options Bundle) (Bundle, error)
}

// StopCallback is probed via type assertion; implement it to run cleanup
// logic against the spider's final state during teardown.
type StopCallback interface {
	PrepareForStop(state State) error
}

// StopComponentCallback is probed via type assertion; implement it to run
// per-stage cleanup logic against the bundle that stage was started with.
type StopComponentCallback interface {
	PrepareForStopComponent(component string, options Bundle) error
}

// PipelineStopHook is the external collaborator's per-stage middleware
// lifecycle hook. Engine-owned code probes for it via type assertion and
// runs it once per stage during teardown, after any SpiderCallbacks
// StopComponent hook.
type PipelineStopHook interface {
	PrepareForStop(component string, middleware []string) error
}

// ProbePipelineStopHook type-asserts an arbitrary collaborator value
// against PipelineStopHook, returning nil when absent.
func ProbePipelineStopHook(v any) PipelineStopHook {
	h, _ := v.(PipelineStopHook)
	return h
}

// Hooks bundles the optional callbacks for a single spider. Any field may
// be nil; the Engine calls each only when non-nil.
type Hooks struct {
	Start          StartCallback
	StartComponent StartComponentCallback
	Stop           StopCallback
	StopComponent  StopComponentCallback
}

// Probe builds a Hooks value by type-asserting each optional interface
// against the given spider value, so callers may pass any spider-defined
// type and only the callbacks it actually implements take effect.
func Probe(spider any) Hooks {
	var h Hooks
	if v, ok := spider.(StartCallback); ok {
		h.Start = v
	}
	if v, ok := spider.(StartComponentCallback); ok {
		h.StartComponent = v
	}
	if v, ok := spider.(StopCallback); ok {
		h.Stop = v
	}
	if v, ok := spider.(StopComponentCallback); ok {
		h.StopComponent = v
	}
	return h
}

// RunStart invokes PrepareForStart if defined, otherwise returns state
// unchanged.
func (h Hooks) RunStart(state State) (State, error) {
	if h.Start == nil {
		return state, nil
	}
	return h.Start.PrepareForStart(state)
}

// RunStartComponent invokes PrepareForStartComponent if defined, otherwise
// returns options unchanged.
func (h Hooks) RunStartComponent(component string, options Bundle) (Bundle, error) {
	if h.StartComponent == nil {
		return options, nil
	}
	return h.StartComponent.PrepareForStartComponent(component, options)
}

// RunStop invokes PrepareForStop if defined, otherwise is a no-op.
func (h Hooks) RunStop(state State) error {
	if h.Stop == nil {
		return nil
	}
	return h.Stop.PrepareForStop(state)
}

// RunStopComponent invokes PrepareForStopComponent if defined, otherwise is
// a no-op.
func (h Hooks) RunStopComponent(component string, options Bundle) error {
	if h.StopComponent == nil {
		return nil
	}
	return h.StopComponent.PrepareForStopComponent(component, options)
}
