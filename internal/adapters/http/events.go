package http

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/priceflex/intercept/pkg/domain"
)

// EventStream fans trigger lifecycle events out to SSE subscribers.
//
// Hooks run on the trigger goroutine, so publishes never block: slow
// subscribers lose events instead of stalling triggers.
type EventStream struct {
	mu   sync.Mutex
	subs map[chan []byte]struct{}
}

// NewEventStream creates an empty stream.
func NewEventStream() *EventStream {
	return &EventStream{subs: make(map[chan []byte]struct{})}
}

// Subscribe registers a subscriber that receives JSON-encoded events until
// ctx is done.
func (es *EventStream) Subscribe(ctx context.Context) <-chan []byte {
	ch := make(chan []byte, 16)
	es.mu.Lock()
	es.subs[ch] = struct{}{}
	es.mu.Unlock()

	go func() {
		<-ctx.Done()
		es.mu.Lock()
		delete(es.subs, ch)
		es.mu.Unlock()
	}()

	return ch
}

// Hooks returns lifecycle hooks that publish every event to the stream.
func (es *EventStream) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTriggerStart:  func(_ context.Context, ev *domain.TriggerEvent) { es.publish(ev) },
		OnPhase:         func(_ context.Context, ev *domain.PhaseEvent) { es.publish(ev) },
		OnActionExecute: func(_ context.Context, ev *domain.ActionEvent) { es.publish(ev) },
		OnTriggerEnd:    func(_ context.Context, ev *domain.TriggerEvent) { es.publish(ev) },
	}
}

func (es *EventStream) publish(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	es.mu.Lock()
	defer es.mu.Unlock()
	for ch := range es.subs {
		select {
		case ch <- data:
		default:
		}
	}
}
