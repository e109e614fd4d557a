package crm

import (
	"context"

	"github.com/priceflex/intercept/pkg/domain"
)

// standalone is the no-CRM variant: the platform runs on its own, so every
// CRM capability is absent and fails explicitly.
type standalone struct{}

// NewStandalone creates the standalone variant.
func NewStandalone() Manager {
	return standalone{}
}

func (standalone) Backend() domain.Backend { return domain.BackendStandalone }

func (standalone) unsupported(op string) error {
	return domain.Newf(domain.KindUnsupportedOnBackend, "%s is not available in standalone deployments", op)
}

func (s standalone) CurrentUser(ctx context.Context) (domain.User, error) {
	return domain.User{}, s.unsupported("currentUser")
}

func (standalone) IsAccountPage(page domain.PageContext) bool     { return false }
func (standalone) IsOpportunityPage(page domain.PageContext) bool { return false }

func (s standalone) Payload(ctx context.Context, page domain.PageContext) (map[string]any, error) {
	return nil, s.unsupported("payload")
}

func (s standalone) AssociatedValue(ctx context.Context, page domain.PageContext, logical string) (any, error) {
	return nil, s.unsupported("associatedValue")
}

func (s standalone) FieldName(object, logical string) (string, error) {
	return "", s.unsupported("fieldName")
}

func (s standalone) RecordURL(object, id string) (string, error) {
	return "", s.unsupported("recordURL")
}

func (s standalone) WebServiceURL(path string) (string, error) {
	return "", s.unsupported("webServiceURL")
}

func (s standalone) Call(ctx context.Context, method, path string, body any) (any, error) {
	return nil, s.unsupported("web service call")
}

func (s standalone) FindByQuery(ctx context.Context, src string) ([]map[string]any, error) {
	return nil, s.unsupported("query")
}

func (s standalone) UpdateCache(ctx context.Context, path string, value any) error {
	return s.unsupported("cache update")
}
