// Package runtime drives the interception sequence: PRE handler, built-in
// action, POST handler, with strict-false cancellation and typed failure
// propagation.
package runtime

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/priceflex/intercept/internal/logging"
	"github.com/priceflex/intercept/pkg/capability"
	"github.com/priceflex/intercept/pkg/domain"
	"github.com/priceflex/intercept/pkg/ports"
	"github.com/priceflex/intercept/pkg/registry"
)

// Dispatcher executes triggers. It holds no per-trigger state, so concurrent
// triggers are safe; within one trigger the phases run strictly one at a
// time.
type Dispatcher struct {
	actions  *domain.ActionSet
	registry *registry.Registry
	builder  *capability.Builder
	runners  map[domain.Action]ports.ActionRunner
	fallback ports.ActionRunner
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// Config wires a Dispatcher. Registry and Builder are required; the runner
// table may stay empty for vocabularies served entirely by Fallback.
type Config struct {
	// Actions is the recognized vocabulary. Nil means the compiled-in default.
	Actions *domain.ActionSet

	// Registry resolves (action, phase) to handlers.
	Registry *registry.Registry

	// Builder assembles the execution context per invocation.
	Builder *capability.Builder

	// Runners maps actions to their built-in implementations.
	Runners map[domain.Action]ports.ActionRunner

	// Fallback runs actions absent from Runners. Nil means such triggers fail
	// with KindNoRunner.
	Fallback ports.ActionRunner

	Hooks  domain.LifecycleHooks
	Logger *slog.Logger
}

// NewDispatcher creates a Dispatcher. The runner table is fixed from here on.
func NewDispatcher(cfg Config) *Dispatcher {
	actions := cfg.Actions
	if actions == nil {
		actions = domain.DefaultActions()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	runners := make(map[domain.Action]ports.ActionRunner, len(cfg.Runners))
	for a, r := range cfg.Runners {
		runners[a] = r
	}
	return &Dispatcher{
		actions:  actions,
		registry: cfg.Registry,
		builder:  cfg.Builder,
		runners:  runners,
		fallback: cfg.Fallback,
		hooks:    cfg.Hooks,
		logger:   logger,
	}
}

// Trigger runs the full interception sequence for one action. The returned
// Result always describes the outcome; the error is non-nil only for the
// typed failure families (unknown action, missing runner, handler failure,
// action failure, context cancellation).
func (d *Dispatcher) Trigger(ctx context.Context, sess *domain.Session, action domain.Action, input any) (domain.Result, error) {
	if !d.actions.Contains(action) {
		d.logger.Warn("trigger refused", "action", action, "reason", "unknown action")
		return domain.Result{Status: domain.StatusFailed},
			domain.Newf(domain.KindUnknownAction, "unknown action %q", action)
	}
	runner, ok := d.resolveRunner(action)
	if !ok {
		d.logger.Warn("trigger refused", "action", action, "reason", "no runner")
		return domain.Result{Status: domain.StatusFailed},
			domain.Newf(domain.KindNoRunner, "no runner installed for action %q", action)
	}

	input = d.builder.Normalize(action, input)

	started := time.Now()
	d.fireTriggerStart(ctx, sess, action)
	res, err := d.run(ctx, sess, action, runner, input)
	d.fireTriggerEnd(ctx, sess, action, res.Status, time.Since(started), err)

	if err != nil {
		d.logger.Error("trigger failed", "action", action, "status", res.Status, "err", err)
	} else {
		d.logger.Debug("trigger done", "action", action, "status", res.Status,
			"took", time.Since(started))
	}
	return res, err
}

// run walks the PRE -> action -> POST sequence. Each step checks the context
// first; there is no handler timeout, a hung handler hangs the trigger.
func (d *Dispatcher) run(ctx context.Context, sess *domain.Session, action domain.Action, runner ports.ActionRunner, input any) (domain.Result, error) {
	failed := domain.Result{Status: domain.StatusFailed}

	// PRE phase.
	if err := ctx.Err(); err != nil {
		return failed, fmt.Errorf("trigger %s: %w", action, err)
	}
	pre, bound := d.registry.Lookup(action, domain.PhasePre)
	if bound {
		v, took, err := d.invoke(ctx, sess, action, domain.PhasePre, input, nil, pre)
		if err != nil {
			d.firePhase(ctx, sess, action, domain.PhasePre, true, false, took, err)
			return failed, domain.Wrap(domain.KindHandlerFailure,
				fmt.Sprintf("%s handler failed", domain.BindingName(action, domain.PhasePre)), err)
		}
		pr := domain.ResultOf(v)
		d.firePhase(ctx, sess, action, domain.PhasePre, true, pr.Canceled, took, nil)
		if pr.Canceled {
			d.logger.Info("action canceled by handler", "action", action)
			return domain.Result{Status: domain.StatusCanceled}, nil
		}
		input = pr.Value
	} else {
		d.firePhase(ctx, sess, action, domain.PhasePre, false, false, 0, nil)
	}

	// Built-in action.
	if err := ctx.Err(); err != nil {
		return failed, fmt.Errorf("trigger %s: %w", action, err)
	}
	actionStart := time.Now()
	out, err := runner.Run(ctx, action, input)
	d.fireActionExecute(ctx, sess, action, time.Since(actionStart), err)
	if err != nil {
		return failed, domain.Wrap(domain.KindActionFailure,
			fmt.Sprintf("action %s failed", action), err)
	}

	// POST phase.
	if err := ctx.Err(); err != nil {
		return failed, fmt.Errorf("trigger %s: %w", action, err)
	}
	post, bound := d.registry.Lookup(action, domain.PhasePost)
	if !bound {
		d.firePhase(ctx, sess, action, domain.PhasePost, false, false, 0, nil)
		return domain.Result{Status: domain.StatusCompleted, Value: out}, nil
	}
	v, took, err := d.invoke(ctx, sess, action, domain.PhasePost, input, out, post)
	d.firePhase(ctx, sess, action, domain.PhasePost, true, false, took, err)
	if err != nil {
		// The action already ran; hand its unaltered result back with the
		// failure so the host can apply its own recovery.
		return domain.Result{Status: domain.StatusFailed, Value: out},
			domain.Wrap(domain.KindHandlerFailure,
				fmt.Sprintf("%s handler failed", domain.BindingName(action, domain.PhasePost)), err)
	}
	return domain.Result{Status: domain.StatusCompleted, Value: v}, nil
}

// invoke builds the execution context and calls one handler. Panics are
// folded into errors so a misbehaving handler cannot take the process down.
func (d *Dispatcher) invoke(ctx context.Context, sess *domain.Session, action domain.Action, phase domain.Phase, input, result any, fn registry.Handler) (v any, took time.Duration, err error) {
	api, err := d.builder.Build(capability.Invocation{
		Action:  action,
		Phase:   phase,
		Input:   input,
		Result:  result,
		Session: sess,
	})
	if err != nil {
		return nil, 0, err
	}

	started := time.Now()
	defer func() {
		took = time.Since(started)
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	v, err = fn(ctx, api)
	return
}

func (d *Dispatcher) resolveRunner(action domain.Action) (ports.ActionRunner, bool) {
	if r, ok := d.runners[action]; ok {
		return r, true
	}
	if d.fallback != nil {
		return d.fallback, true
	}
	return nil, false
}
