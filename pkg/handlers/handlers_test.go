package handlers

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/priceflex/intercept/pkg/capability"
	"github.com/priceflex/intercept/pkg/domain"
	"github.com/priceflex/intercept/pkg/registry"
)

type orderInput struct {
	TypedID string  `mapstructure:"typedId"`
	Total   float64 `mapstructure:"total"`
}

func buildContext(t *testing.T, action domain.Action, phase domain.Phase, input any) *capability.Context {
	t.Helper()
	b := capability.NewBuilder(capability.BuilderConfig{})
	api, err := b.Build(capability.Invocation{Action: action, Phase: phase, Input: b.Normalize(action, input)})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return api
}

func TestTypedDecodesMapInput(t *testing.T) {
	h := Typed(func(ctx context.Context, api *capability.Context, in *orderInput) (any, error) {
		return in.TypedID, nil
	})

	api := buildContext(t, domain.OrderSubmit, domain.PhasePre, map[string]any{
		"typedId": "1042.Q",
		"total":   99.5,
	})
	out, err := h(context.Background(), api)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if out != "1042.Q" {
		t.Errorf("expected decoded typedId, got %v", out)
	}
}

func TestTypedPassesPointerThrough(t *testing.T) {
	want := &orderInput{TypedID: "7.O"}
	h := Typed(func(ctx context.Context, api *capability.Context, in *orderInput) (any, error) {
		if in != want {
			t.Error("expected the live pointer, got a copy")
		}
		return nil, nil
	})

	api := buildContext(t, domain.OrderSubmit, domain.PhasePre, want)
	if _, err := h(context.Background(), api); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestTypedNilInputYieldsZeroValue(t *testing.T) {
	h := Typed(func(ctx context.Context, api *capability.Context, in *orderInput) (any, error) {
		if in == nil {
			t.Fatal("expected a zero value, got nil")
		}
		return in.Total, nil
	})

	api := buildContext(t, domain.OrderSubmit, domain.PhasePre, nil)
	out, err := h(context.Background(), api)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if out != float64(0) {
		t.Errorf("expected zero total, got %v", out)
	}
}

func TestChainOrder(t *testing.T) {
	var calls []string
	tag := func(name string) Middleware {
		return func(next registry.Handler) registry.Handler {
			return func(ctx context.Context, api *capability.Context) (any, error) {
				calls = append(calls, name)
				return next(ctx, api)
			}
		}
	}

	h := Chain(func(ctx context.Context, api *capability.Context) (any, error) {
		calls = append(calls, "handler")
		return nil, nil
	}, tag("outer"), tag("inner"))

	api := buildContext(t, domain.OrderSubmit, domain.PhasePre, nil)
	if _, err := h(context.Background(), api); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	want := []string{"outer", "inner", "handler"}
	if strings.Join(calls, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, calls)
	}
}

func TestVetoCancels(t *testing.T) {
	h := Veto(func(ctx context.Context, api *capability.Context) (bool, error) {
		return true, nil
	})

	api := buildContext(t, domain.OrderSubmit, domain.PhasePre, map[string]any{"total": 1.0})
	out, err := h(context.Background(), api)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if out != false {
		t.Errorf("expected literal false, got %v", out)
	}
}

func TestVetoPassesInputThrough(t *testing.T) {
	h := Veto(func(ctx context.Context, api *capability.Context) (bool, error) {
		return false, nil
	})

	input := map[string]any{"total": 1.0}
	api := buildContext(t, domain.OrderSubmit, domain.PhasePre, input)
	out, err := h(context.Background(), api)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if _, ok := out.(map[string]any); !ok {
		t.Errorf("expected the input back, got %T", out)
	}
}

func TestVetoPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	h := Veto(func(ctx context.Context, api *capability.Context) (bool, error) {
		return false, boom
	})

	api := buildContext(t, domain.OrderSubmit, domain.PhasePre, nil)
	if _, err := h(context.Background(), api); !errors.Is(err, boom) {
		t.Errorf("expected the predicate error, got %v", err)
	}
}

func TestWithTimeout(t *testing.T) {
	h := Chain(func(ctx context.Context, api *capability.Context) (any, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Second):
			return "too late", nil
		}
	}, WithTimeout(10*time.Millisecond))

	api := buildContext(t, domain.OrderSubmit, domain.PhasePre, nil)
	_, err := h(context.Background(), api)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h := Chain(func(ctx context.Context, api *capability.Context) (any, error) {
		return "ok", nil
	}, WithLogging(logger))

	api := buildContext(t, domain.OrderSubmit, domain.PhasePost, nil)
	if _, err := h(context.Background(), api); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(buf.String(), "handler done") {
		t.Errorf("expected a completion log, got: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "orderSubmit") {
		t.Errorf("expected the action in the log, got: %s", buf.String())
	}
}
