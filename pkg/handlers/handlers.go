// Package handlers provides decorators for interceptor handlers: typed input
// decoding, a middleware chain, and protocol shorthands like Veto.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/priceflex/intercept/pkg/capability"
	"github.com/priceflex/intercept/pkg/registry"
)

// Typed wraps a handler that wants its input as a concrete struct. Map and
// document inputs are decoded with mapstructure; an input that is already a
// *T passes through live. A decoded value is a copy, so substituting the
// input still means returning the new value from PRE.
func Typed[T any](fn func(ctx context.Context, api *capability.Context, input *T) (any, error)) registry.Handler {
	return func(ctx context.Context, api *capability.Context) (any, error) {
		var v T
		switch in := api.Input().(type) {
		case nil:
		case *T:
			return fn(ctx, api, in)
		default:
			if err := mapstructure.Decode(in, &v); err != nil {
				return nil, fmt.Errorf("decoding input: %w", err)
			}
		}
		return fn(ctx, api, &v)
	}
}

// Middleware decorates a handler with cross-cutting behavior.
type Middleware func(registry.Handler) registry.Handler

// Chain applies middleware so the first listed runs outermost.
func Chain(h registry.Handler, mw ...Middleware) registry.Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

// WithLogging logs every invocation with its duration and outcome.
func WithLogging(logger *slog.Logger) Middleware {
	return func(next registry.Handler) registry.Handler {
		return func(ctx context.Context, api *capability.Context) (any, error) {
			start := time.Now()
			out, err := next(ctx, api)
			if err != nil {
				logger.Error("handler failed",
					"action", api.Action(), "phase", api.Phase(),
					"duration", time.Since(start), "error", err)
				return out, err
			}
			logger.Debug("handler done",
				"action", api.Action(), "phase", api.Phase(),
				"duration", time.Since(start))
			return out, nil
		}
	}
}

// WithTimeout bounds an invocation. Cancellation is cooperative: the handler
// must honor ctx for the bound to hold.
func WithTimeout(d time.Duration) Middleware {
	return func(next registry.Handler) registry.Handler {
		return func(ctx context.Context, api *capability.Context) (any, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(ctx, api)
		}
	}
}

// Veto builds a PRE handler from a predicate: true cancels the action, false
// leaves the input untouched.
func Veto(pred func(ctx context.Context, api *capability.Context) (bool, error)) registry.Handler {
	return func(ctx context.Context, api *capability.Context) (any, error) {
		veto, err := pred(ctx, api)
		if err != nil {
			return nil, err
		}
		if veto {
			return false, nil
		}
		return api.Input(), nil
	}
}
