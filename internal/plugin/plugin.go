// Package plugin implements resolution of the RequesterPlugin and
// StoragePlugin contracts: small identifier-keyed registries that let a
// Downloader or ItemProcessor bundle pull in a named implementation at
// setup time, generalized from the dependency-graph package-plugin
// registry pattern down to the identifier -> constructor shape the
// Engine actually needs.
package plugin

import (
	"fmt"
	"sync"

	"github.com/spidercore/engine/internal/callback"
)

// Plugin is the contract a RequesterPlugin or StoragePlugin implementation
// satisfies. PrepareForStart is optional; implement StartPreparer to
// receive it.
type Plugin interface {
	Metadata() Metadata
}

// Metadata describes a resolvable plugin's stable identity.
type Metadata struct {
	ID   string
	Kind string
}

// StartPreparer is probed via type assertion; a plugin implementing it
// gets to adjust the stage's option bundle before it is passed to the
// stage constructor.
type StartPreparer interface {
	PrepareForStart(args map[string]any, options callback.Bundle) (callback.Bundle, error)
}

// Constructor builds a Plugin instance.
type Constructor func() Plugin

// DefaultRequesterID is the identifier Resolve falls back to when a
// Downloader bundle's "requester" option is absent, satisfying the "use
// the framework default requester" clause of RequesterPlugin resolution.
// It contributes nothing to the bundle: concrete RequesterPlugin
// implementations beyond this stand-in are out of scope.
const DefaultRequesterID = "default"

type defaultRequesterPlugin struct{}

func (defaultRequesterPlugin) Metadata() Metadata {
	return Metadata{ID: DefaultRequesterID, Kind: "requester"}
}

// NewDefaultRequester constructs the framework default RequesterPlugin.
func NewDefaultRequester() Plugin {
	return defaultRequesterPlugin{}
}

// Registry is an identifier -> constructor directory for requester and
// storage plugins.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// Register adds a constructor under the given identifier, overwriting any
// existing registration for that id.
func (r *Registry) Register(id string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[id] = ctor
}

// Resolve builds a new Plugin instance for the given identifier.
func (r *Registry) Resolve(id string) (Plugin, error) {
	r.mu.RLock()
	ctor, ok := r.constructors[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("plugin %q: not registered", id)
	}
	return ctor(), nil
}

// Spec is the parsed form of the "requester" / "storage" bundle option:
// absent, a bare identifier, or an (identifier, args) pair.
type Spec struct {
	ID   string
	Args map[string]any
}

// ParseSpec interprets the raw value of a bundle's "requester" or
// "storage" option per the resolution contract: absent (nil) means no
// spec, a string means a bare identifier with empty args, and a
// map[string]any with an "id" key means an (identifier, args) pair.
func ParseSpec(raw any) (*Spec, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return &Spec{ID: v, Args: map[string]any{}}, nil
	case Spec:
		return &v, nil
	case *Spec:
		return v, nil
	case map[string]any:
		id, ok := v["id"].(string)
		if !ok || id == "" {
			return nil, fmt.Errorf("plugin spec: missing \"id\"")
		}
		args, _ := v["args"].(map[string]any)
		if args == nil {
			args = map[string]any{}
		}
		return &Spec{ID: id, Args: args}, nil
	default:
		return nil, fmt.Errorf("plugin spec: unsupported type %T", raw)
	}
}

// specFor returns the Spec to resolve for optionKey in bundle: the
// bundle's own value when present, or defaultID as a bare identifier when
// the option is absent or explicitly nil. An empty defaultID preserves
// the "no option, no resolution" behavior for callers that have no
// framework default to fall back to.
func specFor(bundle callback.Bundle, optionKey, defaultID string) (*Spec, error) {
	raw, present := bundle[optionKey]
	if !present {
		if defaultID == "" {
			return nil, nil
		}
		return &Spec{ID: defaultID, Args: map[string]any{}}, nil
	}

	spec, err := ParseSpec(raw)
	if err != nil {
		return nil, err
	}
	if spec == nil {
		if defaultID == "" {
			return nil, nil
		}
		return &Spec{ID: defaultID, Args: map[string]any{}}, nil
	}
	return spec, nil
}

// Resolve resolves the "requester" or "storage" option inside a bundle,
// injects the resolved identifier into the bundle's context map under
// contextKey, runs the plugin's PrepareForStart hook if implemented, and
// returns the (possibly unchanged) bundle. When the option is absent,
// defaultID is resolved instead, so the framework default is still
// injected into context; pass an empty defaultID to leave the bundle
// untouched on absence instead.
func Resolve(reg *Registry, bundle callback.Bundle, optionKey, contextKey, defaultID string) (callback.Bundle, bool, error) {
	spec, err := specFor(bundle, optionKey, defaultID)
	if err != nil {
		return bundle, false, err
	}
	if spec == nil {
		return bundle, false, nil
	}

	p, err := reg.Resolve(spec.ID)
	if err != nil {
		return bundle, false, err
	}

	out := bundle.Clone()
	ctx, _ := out["context"].(map[string]any)
	cloned := make(map[string]any, len(ctx)+1)
	for k, v := range ctx {
		cloned[k] = v
	}
	cloned[contextKey] = spec.ID
	out["context"] = cloned

	if preparer, ok := p.(StartPreparer); ok {
		out, err = preparer.PrepareForStart(spec.Args, out)
		if err != nil {
			return bundle, true, err
		}
	}

	return out, true, nil
}

// ResolveStorage resolves the ItemProcessor bundle's "storage" option
// (symmetric to Resolve, defaulting to defaultID when absent) and
// additionally merges {storage, storage_options} into the bundle's
// context map, per the StoragePlugin resolution contract.
func ResolveStorage(reg *Registry, bundle callback.Bundle, defaultID string) (callback.Bundle, bool, error) {
	spec, err := specFor(bundle, "storage", defaultID)
	if err != nil {
		return bundle, false, err
	}
	if spec == nil {
		return bundle, false, nil
	}

	out, _, err := Resolve(reg, bundle, "storage", "storage", defaultID)
	if err != nil {
		return bundle, true, err
	}

	ctx, _ := out["context"].(map[string]any)
	cloned := make(map[string]any, len(ctx)+2)
	for k, v := range ctx {
		cloned[k] = v
	}
	cloned["storage"] = spec.ID
	cloned["storage_options"] = spec.Args
	out = out.Clone()
	out["context"] = cloned

	return out, true, nil
}
