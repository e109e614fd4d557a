/*
Package intercept implements the PRE/POST interception protocol of the
PriceFlex platform: hosts expose built-in actions (submitting a quote,
recalculating a price, searching accounts) and customers bind handlers that
run before or after each one.

# Concept

Every user-visible operation is an Action from a fixed vocabulary. Firing an
action is a trigger, and a trigger runs a strict sequence: the PRE handler
(which may veto the action or rewrite its input), the built-in action itself,
then the POST handler (whose return value becomes the final outcome). The
engine owns the sequencing, cancellation and failure semantics; the host owns
the built-in action implementations and all I/O.

# Key Features

  - Strict cancellation: only a PRE handler returning literal false cancels
    the action, and cancellation is a normal outcome, not an error.
  - Input substitution: any other PRE return value, nil included, becomes the
    built-in action's input.
  - Typed failures: handler errors, action errors, unknown actions and
    missing runners each carry their own error Kind.
  - Capability contexts: handlers receive session, configuration, CRM and
    document APIs scoped to the triggering invocation.
  - Record-driven binding: interceptor configuration documents
    (pfxInterceptor_*) bind catalog handlers without code changes, with hot
    reload.

# Usage

Construct an Engine, install the built-in action runners, bind handlers, and
fire triggers:

	package main

	import (
		"context"
		"log"

		"github.com/priceflex/intercept"
		"github.com/priceflex/intercept/pkg/capability"
		"github.com/priceflex/intercept/pkg/domain"
		"github.com/priceflex/intercept/pkg/ports"
	)

	func main() {
		eng, err := intercept.New(
			intercept.WithRunner(ports.RunnerFunc(
				func(ctx context.Context, action domain.Action, input any) (any, error) {
					// The host's built-in implementation.
					return input, nil
				})),
		)
		if err != nil {
			log.Fatal(err)
		}

		// Veto quote submissions above the configured ceiling.
		err = eng.Pre(domain.QuotesDetailSubmit,
			func(ctx context.Context, api *capability.Context) (any, error) {
				quote := api.Quote()
				ceiling := api.RetrieveConfig(ctx, "quotes.submitCeiling", 100000.0)
				if v, ok := quote.HeaderValue("totalValue"); ok {
					if total, ok := v.(float64); ok && total > ceiling.(float64) {
						return false, nil // cancel the submission
					}
				}
				return api.Input(), nil
			})
		if err != nil {
			log.Fatal(err)
		}

		res, err := eng.Trigger(context.Background(), "session-1",
			domain.QuotesDetailSubmit, map[string]any{
				"typedId": "1234.Q",
				"header":  map[string]any{"totalValue": 250000.0},
			})
		if err != nil {
			log.Fatal(err)
		}
		log.Println("status:", res.Status) // "canceled"
	}
*/
package intercept
