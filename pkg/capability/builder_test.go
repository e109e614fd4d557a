package capability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priceflex/intercept/pkg/capability"
	"github.com/priceflex/intercept/pkg/config"
	"github.com/priceflex/intercept/pkg/crm"
	"github.com/priceflex/intercept/pkg/domain"
)

func TestQuoteActionBindsQuoteCapability(t *testing.T) {
	b := capability.NewBuilder(capability.BuilderConfig{})

	input := b.Normalize(domain.QuotesDetailSubmit, map[string]any{
		"typedId": "1042.Q",
		"label":   "Q4 volume deal",
		"header":  map[string]any{"currency": "USD"},
	})
	obj, ok := input.(*domain.BusinessObject)
	require.True(t, ok, "document input should decode to a business object")
	assert.Equal(t, "1042.Q", obj.TypedID)

	api, err := b.Build(capability.Invocation{
		Action: domain.QuotesDetailSubmit,
		Phase:  domain.PhasePre,
		Input:  input,
	})
	require.NoError(t, err)

	require.NotNil(t, api.Quote())
	assert.Nil(t, api.Contract())
	assert.Nil(t, api.RebateAgreement())
	assert.Nil(t, api.CompensationPlan())

	v, ok := api.Quote().HeaderValue("currency")
	require.True(t, ok)
	assert.Equal(t, "USD", v)

	// Writes land on the same object the action will receive.
	api.Quote().SetHeaderValue("discount", 0.12)
	assert.Equal(t, 0.12, obj.Header["discount"])
	assert.Same(t, obj, api.Input())
}

func TestOrderSubmitCarriesNoDocument(t *testing.T) {
	b := capability.NewBuilder(capability.BuilderConfig{})

	raw := map[string]any{"quoteId": "1042.Q"}
	input := b.Normalize(domain.OrderSubmit, raw)
	assert.Equal(t, raw, input, "actions without a document keep their input shape")

	api, err := b.Build(capability.Invocation{
		Action: domain.OrderSubmit,
		Phase:  domain.PhasePre,
		Input:  input,
	})
	require.NoError(t, err)

	assert.Nil(t, api.Quote())
	assert.Nil(t, api.Contract())
	assert.Nil(t, api.RebateAgreement())
	assert.Nil(t, api.CompensationPlan())
}

func TestUndecodableDocumentStaysRaw(t *testing.T) {
	b := capability.NewBuilder(capability.BuilderConfig{})

	raw := map[string]any{"typedId": 42}
	input := b.Normalize(domain.QuotesDetailOpen, raw)
	assert.Equal(t, raw, input)

	api, err := b.Build(capability.Invocation{
		Action: domain.QuotesDetailOpen,
		Phase:  domain.PhasePre,
		Input:  input,
	})
	require.NoError(t, err)
	assert.Nil(t, api.Quote())
}

func TestSearchText(t *testing.T) {
	b := capability.NewBuilder(capability.BuilderConfig{})

	cases := []struct {
		name   string
		action domain.Action
		input  any
		want   string
	}{
		{"string input", domain.QuotesListSearch, "acme", "acme"},
		{"map input", domain.CRMAccountSearch, map[string]any{"searchText": "north"}, "north"},
		{"map without text", domain.CRMAccountSearch, map[string]any{"page": 2}, ""},
		{"non-search action", domain.OrderSubmit, "acme", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api, err := b.Build(capability.Invocation{
				Action: tc.action,
				Phase:  domain.PhasePre,
				Input:  b.Normalize(tc.action, tc.input),
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, api.SearchText())
		})
	}
}

func TestBuildUnknownAction(t *testing.T) {
	b := capability.NewBuilder(capability.BuilderConfig{})

	_, err := b.Build(capability.Invocation{Action: "mergePurchaseOrders", Phase: domain.PhasePre})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindUnknownAction))
}

func TestResultOnlyInPost(t *testing.T) {
	b := capability.NewBuilder(capability.BuilderConfig{})

	pre, err := b.Build(capability.Invocation{Action: domain.OrderSubmit, Phase: domain.PhasePre})
	require.NoError(t, err)
	assert.Nil(t, pre.Result())

	post, err := b.Build(capability.Invocation{
		Action: domain.OrderSubmit,
		Phase:  domain.PhasePost,
		Result: map[string]any{"orderId": "ORD-77"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"orderId": "ORD-77"}, post.Result())
}

func TestConfigPlumbing(t *testing.T) {
	svc := config.NewService(config.NewMapSource(map[string]any{
		"quoting": map[string]any{"defaultCurrency": "EUR"},
	}))
	b := capability.NewBuilder(capability.BuilderConfig{Config: svc})
	ctx := context.Background()

	sess := domain.NewSession("s-1", domain.User{Login: "ada"})
	api, err := b.Build(capability.Invocation{
		Action:  domain.QuotesDetailNew,
		Phase:   domain.PhasePre,
		Session: sess,
	})
	require.NoError(t, err)

	assert.Equal(t, "EUR", api.RetrieveConfig(ctx, "quoting.defaultCurrency", "USD"))
	assert.Equal(t, "fallback", api.RetrieveConfig(ctx, "quoting.noSuchKey", "fallback"))

	require.NoError(t, api.OverrideConfig("quoting.defaultCurrency", "CHF"))
	assert.Equal(t, "CHF", api.RetrieveConfig(ctx, "quoting.defaultCurrency", "USD"))

	// Another session keeps seeing the base value.
	other, err := b.Build(capability.Invocation{
		Action:  domain.QuotesDetailNew,
		Phase:   domain.PhasePre,
		Session: domain.NewSession("s-2", domain.User{Login: "bob"}),
	})
	require.NoError(t, err)
	assert.Equal(t, "EUR", other.RetrieveConfig(ctx, "quoting.defaultCurrency", "USD"))
}

func TestRetrieveWithoutConfigServiceYieldsDefault(t *testing.T) {
	b := capability.NewBuilder(capability.BuilderConfig{})

	api, err := b.Build(capability.Invocation{Action: domain.OrderSubmit, Phase: domain.PhasePre})
	require.NoError(t, err)
	assert.Equal(t, 30, api.RetrieveConfig(context.Background(), "anything", 30))
	assert.Error(t, api.OverrideConfig("anything", 1))
}

func TestCRMBoundToSessionPage(t *testing.T) {
	mgr, err := crm.New(domain.BackendSalesforce, crm.Config{BaseURL: "https://corp.example"})
	require.NoError(t, err)
	b := capability.NewBuilder(capability.BuilderConfig{CRM: mgr})

	sess := domain.NewSession("s-1", domain.User{Login: "ada"})
	sess.Page = domain.PageContext{ObjectType: "Account", RecordID: "001xx0001"}

	api, err := b.Build(capability.Invocation{
		Action:  domain.CRMAccountSearch,
		Phase:   domain.PhasePre,
		Input:   "acme",
		Session: sess,
	})
	require.NoError(t, err)

	require.NotNil(t, api.CRM())
	assert.Equal(t, domain.BackendSalesforce, api.CRM().Backend())
	assert.True(t, api.CRM().IsAccountPage())
	assert.False(t, api.CRM().IsOpportunityPage())

	// Sessionless triggers get the capability without a page.
	bare, err := b.Build(capability.Invocation{Action: domain.CRMAccountSearch, Phase: domain.PhasePre})
	require.NoError(t, err)
	assert.False(t, bare.CRM().IsAccountPage())
}

func TestUserFromSession(t *testing.T) {
	b := capability.NewBuilder(capability.BuilderConfig{})

	sess := domain.NewSession("s-1", domain.User{Login: "ada", Group: "sales"})
	api, err := b.Build(capability.Invocation{Action: domain.OrderSubmit, Phase: domain.PhasePre, Session: sess})
	require.NoError(t, err)
	assert.Equal(t, "ada", api.User().Login)

	bare, err := b.Build(capability.Invocation{Action: domain.OrderSubmit, Phase: domain.PhasePre})
	require.NoError(t, err)
	assert.Zero(t, bare.User())
	assert.Nil(t, bare.Session())
}
