package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priceflex/intercept/internal/testutils"
	"github.com/priceflex/intercept/pkg/domain"
)

func newSource(t *testing.T, docs map[string]string) *Source {
	t.Helper()
	_, repo := testutils.SetupTestRepo(t)
	for filename, body := range docs {
		testutils.SeedDocument(t, repo, filename, body)
	}
	return New(loam.NewTypedRepository[RecordMetadata](repo))
}

func TestListRecords(t *testing.T) {
	src := newSource(t, map[string]string{
		"pfxInterceptor_quoteGuards.md": `---
bindings:
  quotesDetailSubmitPre: quoteGuard
  quotesDetailSubmit: quoteAudit
description: Guards quote submissions.
---
Operator documentation for the quote guard record.`,
		"pfxInterceptor_disabledHook.md": `---
enabled: false
bindings:
  orderSubmit: auditTrail
---
Disabled experiment.`,
		"README.md": `---
description: not a record
---
Plain content, must be ignored.`,
	})

	recs, err := src.List(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2, "non-record documents are skipped")

	// Lexical name order.
	assert.Equal(t, "pfxInterceptor_disabledHook", recs[0].Name)
	assert.Equal(t, "pfxInterceptor_quoteGuards", recs[1].Name)

	disabled, guards := recs[0], recs[1]

	assert.False(t, disabled.Enabled)
	assert.Equal(t, "Disabled experiment.", disabled.Description,
		"body stands in for a missing description")

	assert.True(t, guards.Enabled, "a missing enabled key means enabled")
	assert.Equal(t, "Guards quote submissions.", guards.Description)
	assert.Equal(t, map[string]string{
		"quotesDetailSubmitPre": "quoteGuard",
		"quotesDetailSubmit":    "quoteAudit",
	}, guards.Bindings)
}

func TestListedNamesParseAsBindings(t *testing.T) {
	src := newSource(t, map[string]string{
		"pfxInterceptor_orderHooks.md": `---
bindings:
  orderSubmitPre: orderGate
---
`,
	})

	recs, err := src.List(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)

	actions := domain.DefaultActions()
	for binding := range recs[0].Bindings {
		action, phase, err := actions.ParseBindingName(binding)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderSubmit, action)
		assert.Equal(t, domain.PhasePre, phase)
	}
	assert.Equal(t, "orderHooks", recs[0].Suffix())
}
