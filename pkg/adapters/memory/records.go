package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/priceflex/intercept/pkg/domain"
)

// Records implements ports.RecordSource (and ports.Watchable) over an
// in-memory map. Mutations notify watchers, which makes it the natural
// source for hot-reload tests and embedded hosts that manage records in
// code.
type Records struct {
	mu   sync.RWMutex
	recs map[string]domain.InterceptorRecord
	subs []chan struct{}
}

// NewRecords creates a source seeded with the given records.
func NewRecords(recs ...domain.InterceptorRecord) *Records {
	r := &Records{recs: make(map[string]domain.InterceptorRecord, len(recs))}
	for _, rec := range recs {
		r.recs[rec.Name] = rec
	}
	return r
}

// List returns all records in lexical name order, disabled ones included.
func (r *Records) List(ctx context.Context) ([]domain.InterceptorRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.InterceptorRecord, 0, len(r.recs))
	for _, rec := range r.recs {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Put upserts a record and signals watchers.
func (r *Records) Put(rec domain.InterceptorRecord) {
	r.mu.Lock()
	r.recs[rec.Name] = rec
	r.mu.Unlock()
	r.notify()
}

// Remove deletes a record by name and signals watchers. Absent names are a
// no-op.
func (r *Records) Remove(name string) {
	r.mu.Lock()
	delete(r.recs, name)
	r.mu.Unlock()
	r.notify()
}

// Watch returns a channel signaled on every mutation. The subscription ends
// with the context.
func (r *Records) Watch(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)
	r.mu.Lock()
	r.subs = append(r.subs, ch)
	r.mu.Unlock()

	go func() {
		<-ctx.Done()
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, sub := range r.subs {
			if sub == ch {
				r.subs = append(r.subs[:i], r.subs[i+1:]...)
				break
			}
		}
	}()
	return ch, nil
}

// notify wakes all watchers without blocking; a watcher that is already
// signaled coalesces the wakeups.
func (r *Records) notify() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ch := range r.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
