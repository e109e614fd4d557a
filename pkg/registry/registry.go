// Package registry maps (action, phase) pairs to interceptor handlers and
// holds the catalog of named handler implementations that configuration
// records can reference.
package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/priceflex/intercept/pkg/capability"
	"github.com/priceflex/intercept/pkg/domain"
)

// Handler is a user-supplied interceptor. It receives the execution context
// assembled for the invocation and returns the value the protocol inspects:
// from PRE, literal false cancels the action and any other value becomes its
// input; from POST, the return value becomes the final outcome. Side-effect
// only PRE handlers return api.Input() to leave the input untouched.
type Handler func(ctx context.Context, api *capability.Context) (any, error)

// ConflictPolicy decides what Bind does when the (action, phase) slot is
// already taken.
type ConflictPolicy int

const (
	// LastWins silently replaces the previous handler. This matches record
	// activation order semantics: the last enabled record wins.
	LastWins ConflictPolicy = iota

	// ErrorOnConflict refuses the second bind with a KindConflict error.
	// Hosts that want explicit rebinding unbind first.
	ErrorOnConflict
)

// Binding describes one occupied (action, phase) slot.
type Binding struct {
	Action domain.Action `json:"action"`
	Phase  domain.Phase  `json:"phase"`

	// Ref is the catalog ref the handler was bound through, or "" for
	// handlers bound directly as Go values.
	Ref string `json:"ref,omitempty"`
}

type bindingKey struct {
	action domain.Action
	phase  domain.Phase
}

type boundHandler struct {
	fn  Handler
	ref string
}

// Registry maps (action, phase) to at most one handler. Safe for concurrent
// use.
type Registry struct {
	mu       sync.RWMutex
	policy   ConflictPolicy
	bindings map[bindingKey]boundHandler
}

// Option configures a Registry.
type Option func(*Registry)

// WithConflictPolicy sets the duplicate-binding policy. Default LastWins.
func WithConflictPolicy(p ConflictPolicy) Option {
	return func(r *Registry) { r.policy = p }
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		policy:   LastWins,
		bindings: make(map[bindingKey]boundHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Bind installs a handler for (action, phase).
func (r *Registry) Bind(action domain.Action, phase domain.Phase, fn Handler) error {
	return r.bind(action, phase, "", fn)
}

// BindRef installs a handler under its catalog ref, keeping the ref visible
// in Bindings for introspection and validation.
func (r *Registry) BindRef(action domain.Action, phase domain.Phase, ref string, fn Handler) error {
	return r.bind(action, phase, ref, fn)
}

func (r *Registry) bind(action domain.Action, phase domain.Phase, ref string, fn Handler) error {
	if fn == nil {
		return domain.New(domain.KindBadRecord, "handler must not be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := bindingKey{action: action, phase: phase}
	if _, taken := r.bindings[key]; taken && r.policy == ErrorOnConflict {
		return domain.Newf(domain.KindConflict, "%s/%s is already bound", action, phase)
	}
	r.bindings[key] = boundHandler{fn: fn, ref: ref}
	return nil
}

// Lookup returns the handler bound to (action, phase).
func (r *Registry) Lookup(action domain.Action, phase domain.Phase) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[bindingKey{action: action, phase: phase}]
	return b.fn, ok
}

// Unbind removes a binding, reporting whether one existed.
func (r *Registry) Unbind(action domain.Action, phase domain.Phase) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := bindingKey{action: action, phase: phase}
	_, ok := r.bindings[key]
	delete(r.bindings, key)
	return ok
}

// Clear drops all bindings. Used when re-applying records after a reload.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings = make(map[bindingKey]boundHandler)
}

// Bindings lists occupied slots ordered by action then phase (PRE first).
func (r *Registry) Bindings() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Binding, 0, len(r.bindings))
	for key, b := range r.bindings {
		out = append(out, Binding{Action: key.action, Phase: key.phase, Ref: b.ref})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Action != out[j].Action {
			return out[i].Action < out[j].Action
		}
		return out[i].Phase == domain.PhasePre && out[j].Phase == domain.PhasePost
	})
	return out
}
