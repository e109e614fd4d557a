package ports

import (
	"context"

	"github.com/priceflex/intercept/pkg/domain"
)

// RecordSource loads interceptor configuration records. Record storage is an
// external system; the engine only reads the documents that follow the
// pfxInterceptor_ naming convention.
type RecordSource interface {
	// List returns all interceptor records, disabled ones included, in
	// lexical name order.
	List(ctx context.Context) ([]domain.InterceptorRecord, error)
}

// Watchable marks record sources that can notify about backend changes,
// typically for hot-reload.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying records
	// change. It abstracts away event details, signaling only that a reload
	// is required.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
