package capability

import (
	"context"

	"github.com/priceflex/intercept/pkg/crm"
	"github.com/priceflex/intercept/pkg/domain"
)

// CRM is the CRM capability bound to the invocation's session. Page-scoped
// calls read the session's page context, so handlers never pass it around.
type CRM struct {
	mgr  crm.Manager
	page domain.PageContext
}

// Backend identifies the CRM deployment the engine is embedded in.
func (c *CRM) Backend() domain.Backend { return c.mgr.Backend() }

// CurrentUser fetches the CRM-side identity of the caller.
func (c *CRM) CurrentUser(ctx context.Context) (domain.User, error) {
	return c.mgr.CurrentUser(ctx)
}

// IsAccountPage reports whether the session is on an account page.
func (c *CRM) IsAccountPage() bool { return c.mgr.IsAccountPage(c.page) }

// IsOpportunityPage reports whether the session is on an opportunity page.
func (c *CRM) IsOpportunityPage() bool { return c.mgr.IsOpportunityPage(c.page) }

// Payload fetches the record behind the session's page.
func (c *CRM) Payload(ctx context.Context) (map[string]any, error) {
	return c.mgr.Payload(ctx, c.page)
}

// AssociatedValue resolves a logical field name against the page record,
// e.g. "annualRevenue" on an account page.
func (c *CRM) AssociatedValue(ctx context.Context, logical string) (any, error) {
	return c.mgr.AssociatedValue(ctx, c.page, logical)
}

// FieldName translates a logical field name to the backend's physical one.
func (c *CRM) FieldName(object, logical string) (string, error) {
	return c.mgr.FieldName(object, logical)
}

// RecordURL builds a deep link to a CRM record in the backend's UI.
func (c *CRM) RecordURL(object, id string) (string, error) {
	return c.mgr.RecordURL(object, id)
}

// WebServiceURL builds an absolute URL for a backend web service path.
func (c *CRM) WebServiceURL(path string) (string, error) {
	return c.mgr.WebServiceURL(path)
}

// Call performs a raw request against the backend's web service API.
func (c *CRM) Call(ctx context.Context, method, path string, body any) (any, error) {
	return c.mgr.Call(ctx, method, path, body)
}

// FindByQuery runs a query in the engine's query language against the
// backend, translated to the backend's native dialect.
func (c *CRM) FindByQuery(ctx context.Context, q string) ([]map[string]any, error) {
	return c.mgr.FindByQuery(ctx, q)
}

// UpdateCache replaces a cached CRM value.
func (c *CRM) UpdateCache(ctx context.Context, path string, value any) error {
	return c.mgr.UpdateCache(ctx, path, value)
}
