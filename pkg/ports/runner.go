package ports

import (
	"context"

	"github.com/priceflex/intercept/pkg/domain"
)

// ActionRunner executes a built-in platform action. The host injects one
// runner per action it exposes; the protocol treats the runner as opaque and
// only routes input and output around it.
type ActionRunner interface {
	// Run performs the action with the (possibly handler-substituted) input
	// and returns the raw action result.
	Run(ctx context.Context, action domain.Action, input any) (any, error)
}

// RunnerFunc adapts a plain function to the ActionRunner interface.
type RunnerFunc func(ctx context.Context, action domain.Action, input any) (any, error)

// Run implements ActionRunner.
func (f RunnerFunc) Run(ctx context.Context, action domain.Action, input any) (any, error) {
	return f(ctx, action, input)
}
