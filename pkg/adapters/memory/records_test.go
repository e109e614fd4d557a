package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priceflex/intercept/pkg/adapters/memory"
	"github.com/priceflex/intercept/pkg/domain"
)

func TestRecordsListOrder(t *testing.T) {
	src := memory.NewRecords(
		domain.InterceptorRecord{Name: "pfxInterceptor_zeta", Enabled: true},
		domain.InterceptorRecord{Name: "pfxInterceptor_alpha", Enabled: true},
		domain.InterceptorRecord{Name: "pfxInterceptor_mid", Enabled: false},
	)

	recs, err := src.List(context.Background())
	require.NoError(t, err)

	names := make([]string, len(recs))
	for i, r := range recs {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"pfxInterceptor_alpha", "pfxInterceptor_mid", "pfxInterceptor_zeta"}, names,
		"records come back in lexical name order, disabled ones included")
}

func TestRecordsWatch(t *testing.T) {
	src := memory.NewRecords()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := src.Watch(ctx)
	require.NoError(t, err)

	src.Put(domain.InterceptorRecord{Name: "pfxInterceptor_new", Enabled: true})

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("watcher was not signaled after Put")
	}

	// Coalescing: several mutations without a read collapse to one signal.
	src.Put(domain.InterceptorRecord{Name: "pfxInterceptor_a", Enabled: true})
	src.Remove("pfxInterceptor_a")

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("watcher was not signaled after Remove")
	}
}
