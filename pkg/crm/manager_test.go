package crm

import (
	"context"
	"strings"
	"testing"

	"github.com/priceflex/intercept/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport records the last request and replies with a canned response.
type fakeTransport struct {
	method string
	path   string
	body   any
	resp   any
	err    error
	calls  int
}

func (f *fakeTransport) Do(ctx context.Context, method, path string, body any) (any, error) {
	f.calls++
	f.method, f.path, f.body = method, path, body
	return f.resp, f.err
}

// fakeCache is a map-backed CacheStore.
type fakeCache struct {
	data map[string]any
}

func newFakeCache() *fakeCache { return &fakeCache{data: make(map[string]any)} }

func (f *fakeCache) Put(ctx context.Context, key string, value any) error {
	f.data[key] = value
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string) (any, bool, error) {
	v, ok := f.data[key]
	return v, ok, nil
}

func TestSalesforceFindByQuery(t *testing.T) {
	tr := &fakeTransport{resp: map[string]any{
		"totalSize": 1,
		"records": []any{
			map[string]any{"Id": "001xx0001", "Name": "ACME"},
		},
	}}
	m := NewSalesforce(Config{BaseURL: "https://acme.my.salesforce.com", Transport: tr})

	records, err := m.FindByQuery(context.Background(), "SELECT Id, Name FROM Account WHERE Industry = 'Energy'")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ACME", records[0]["Name"])

	assert.Equal(t, "GET", tr.method)
	assert.True(t, strings.HasPrefix(tr.path, "/services/data/v61.0/query?q="), "path = %s", tr.path)
	assert.Contains(t, tr.path, "SELECT+Id%2C+Name+FROM+Account")
}

func TestSugarRejectsNonEquality(t *testing.T) {
	tr := &fakeTransport{}
	m := NewSugarCRM(Config{BaseURL: "https://sugar.example.com", Transport: tr})

	_, err := m.FindByQuery(context.Background(), "SELECT id FROM Accounts WHERE employees != 10")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindUnsupportedOnBackend), "got %v", err)
	assert.Zero(t, tr.calls, "no request may be sent for a rejected query")
}

func TestSugarEqualityQueryPosts(t *testing.T) {
	tr := &fakeTransport{resp: map[string]any{"records": []any{
		map[string]any{"id": "a1", "name": "ACME"},
	}}}
	m := NewSugarCRM(Config{Transport: tr})

	records, err := m.FindByQuery(context.Background(), "SELECT id, name FROM Accounts WHERE industry = 'Banking'")
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "POST", tr.method)
	assert.Equal(t, "/rest/v11/Accounts/filter", tr.path)
	body, ok := tr.body.(map[string]any)
	require.True(t, ok, "body type %T", tr.body)
	assert.Equal(t, "id,name", body["fields"])
	assert.NotNil(t, body["filter"])
}

func TestFindByQuerySyntaxErrorSkipsTransport(t *testing.T) {
	tr := &fakeTransport{}
	m := NewSalesforce(Config{Transport: tr})

	_, err := m.FindByQuery(context.Background(), "SELECT FROM WHERE")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindQuerySyntax), "got %v", err)
	assert.Zero(t, tr.calls)
}

func TestC4CEnvelopeUnwrap(t *testing.T) {
	tr := &fakeTransport{resp: map[string]any{
		"d": map[string]any{
			"results": []any{
				map[string]any{"AccountID": "1001", "BusinessPartnerFormattedName": "ACME AG"},
			},
		},
	}}
	m := NewC4C(Config{Transport: tr})

	records, err := m.FindByQuery(context.Background(),
		"SELECT AccountID FROM CorporateAccountCollection WHERE LifeCycleStatusCode != '4'")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1001", records[0]["AccountID"])

	assert.Contains(t, tr.path, "/sap/c4c/odata/v1/c4codataapi/CorporateAccountCollection?")
	assert.Contains(t, tr.path, "%24filter=LifeCycleStatusCode+ne+%274%27")
}

func TestDynamicsEnvelopeUnwrap(t *testing.T) {
	tr := &fakeTransport{resp: map[string]any{
		"value": []any{
			map[string]any{"accountid": "guid-1", "name": "ACME"},
		},
	}}
	m := NewDynamics(Config{Transport: tr})

	records, err := m.FindByQuery(context.Background(), "SELECT name FROM accounts WHERE revenue >= 100000")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Contains(t, tr.path, "/api/data/v9.2/accounts?")
}

func TestStandaloneRejectsEverything(t *testing.T) {
	m := NewStandalone()
	ctx := context.Background()

	_, err := m.FindByQuery(ctx, "SELECT a FROM b")
	assert.True(t, domain.IsKind(err, domain.KindUnsupportedOnBackend), "query: %v", err)

	_, err = m.CurrentUser(ctx)
	assert.True(t, domain.IsKind(err, domain.KindUnsupportedOnBackend), "currentUser: %v", err)

	_, err = m.Payload(ctx, domain.PageContext{ObjectType: "Account", RecordID: "1"})
	assert.True(t, domain.IsKind(err, domain.KindUnsupportedOnBackend), "payload: %v", err)

	assert.False(t, m.IsAccountPage(domain.PageContext{ObjectType: "Account"}))
	assert.Equal(t, domain.BackendStandalone, m.Backend())
}

func TestPayloadCaching(t *testing.T) {
	tr := &fakeTransport{resp: map[string]any{"Id": "001xx0001", "Name": "ACME"}}
	cache := newFakeCache()
	m := NewSalesforce(Config{Transport: tr, Cache: cache})
	page := domain.PageContext{ObjectType: "Account", RecordID: "001xx0001"}
	ctx := context.Background()

	first, err := m.Payload(ctx, page)
	require.NoError(t, err)
	assert.Equal(t, "ACME", first["Name"])
	assert.Equal(t, 1, tr.calls)
	assert.Equal(t, "/services/data/v61.0/sobjects/Account/001xx0001", tr.path)

	// Second fetch is served from the cache.
	second, err := m.Payload(ctx, page)
	require.NoError(t, err)
	assert.Equal(t, "ACME", second["Name"])
	assert.Equal(t, 1, tr.calls)
}

func TestAssociatedValue(t *testing.T) {
	tr := &fakeTransport{resp: map[string]any{"Id": "001", "AnnualRevenue": 5000000.0}}
	m := NewSalesforce(Config{Transport: tr})
	page := domain.PageContext{ObjectType: "Account", RecordID: "001"}

	v, err := m.AssociatedValue(context.Background(), page, "annualRevenue")
	require.NoError(t, err)
	assert.Equal(t, 5000000.0, v)

	_, err = m.AssociatedValue(context.Background(), page, "favoriteColor")
	assert.True(t, domain.IsKind(err, domain.KindUnsupportedOnBackend), "got %v", err)
}

func TestFieldNameTables(t *testing.T) {
	tests := []struct {
		mgr     Manager
		object  string
		logical string
		want    string
	}{
		{NewSalesforce(Config{}), "Account", "annualRevenue", "AnnualRevenue"},
		{NewC4C(Config{}), "CorporateAccount", "name", "BusinessPartnerFormattedName"},
		{NewDynamics(Config{}), "account", "annualRevenue", "revenue"},
		{NewSugarCRM(Config{}), "Accounts", "annualRevenue", "annual_revenue"},
	}
	for _, tt := range tests {
		got, err := tt.mgr.FieldName(tt.object, tt.logical)
		if assert.NoError(t, err, "%s %s.%s", tt.mgr.Backend(), tt.object, tt.logical) {
			assert.Equal(t, tt.want, got)
		}
	}

	_, err := NewSalesforce(Config{}).FieldName("Lead", "name")
	assert.True(t, domain.IsKind(err, domain.KindUnsupportedOnBackend), "unknown object: %v", err)
}

func TestRecordURLShapes(t *testing.T) {
	sf := NewSalesforce(Config{BaseURL: "https://acme.lightning.force.com"})
	u, err := sf.RecordURL("Account", "001xx0001")
	require.NoError(t, err)
	assert.Equal(t, "https://acme.lightning.force.com/lightning/r/Account/001xx0001/view", u)

	dyn := NewDynamics(Config{BaseURL: "https://org.crm.dynamics.com"})
	u, err = dyn.RecordURL("account", "guid-1")
	require.NoError(t, err)
	assert.Contains(t, u, "https://org.crm.dynamics.com/main.aspx?")
	assert.Contains(t, u, "etn=account")
	assert.Contains(t, u, "pagetype=entityrecord")

	sugar := NewSugarCRM(Config{BaseURL: "https://sugar.example.com"})
	u, err = sugar.RecordURL("Accounts", "a1")
	require.NoError(t, err)
	assert.Equal(t, "https://sugar.example.com/#Accounts/a1", u)
}

func TestWebServiceURL(t *testing.T) {
	m := NewSalesforce(Config{BaseURL: "https://acme.my.salesforce.com/"})
	u, err := m.WebServiceURL("query")
	require.NoError(t, err)
	assert.Equal(t, "https://acme.my.salesforce.com/services/data/v61.0/query", u)
}

func TestPagePredicates(t *testing.T) {
	sf := NewSalesforce(Config{})
	assert.True(t, sf.IsAccountPage(domain.PageContext{ObjectType: "Account"}))
	assert.False(t, sf.IsAccountPage(domain.PageContext{ObjectType: "Opportunity"}))
	assert.True(t, sf.IsOpportunityPage(domain.PageContext{ObjectType: "Opportunity"}))
	assert.False(t, sf.IsAccountPage(domain.PageContext{}))

	c4c := NewC4C(Config{})
	assert.True(t, c4c.IsAccountPage(domain.PageContext{ObjectType: "CorporateAccount"}))
	assert.False(t, c4c.IsAccountPage(domain.PageContext{ObjectType: "Account"}))
}

func TestUpdateCache(t *testing.T) {
	ctx := context.Background()

	// Without a cache the write is a documented no-op.
	m := NewSalesforce(Config{})
	assert.NoError(t, m.UpdateCache(ctx, "quotes.Q-1.header", map[string]any{"x": 1}))

	cache := newFakeCache()
	m = NewSalesforce(Config{Cache: cache})
	require.NoError(t, m.UpdateCache(ctx, "quotes.Q-1.header", "v"))
	v, ok, _ := cache.Get(ctx, "quotes.Q-1.header")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestCurrentUserVariants(t *testing.T) {
	ctx := context.Background()

	sugarTr := &fakeTransport{resp: map[string]any{
		"current_user": map[string]any{"user_name": "jdoe", "full_name": "Jane Doe"},
	}}
	sugar := NewSugarCRM(Config{Transport: sugarTr})
	u, err := sugar.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", u.Login)
	assert.Equal(t, "/rest/v11/me", sugarTr.path)

	// c4codataapi has no identity endpoint.
	c4c := NewC4C(Config{Transport: &fakeTransport{}})
	_, err = c4c.CurrentUser(ctx)
	assert.True(t, domain.IsKind(err, domain.KindUnsupportedOnBackend), "got %v", err)
}

func TestNewFactory(t *testing.T) {
	for _, b := range domain.Backends() {
		m, err := New(b, Config{})
		require.NoError(t, err, "backend %s", b)
		assert.Equal(t, b, m.Backend())
	}
	_, err := New("filemaker", Config{})
	assert.Error(t, err)
}
