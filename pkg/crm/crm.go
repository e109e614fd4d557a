// Package crm exposes the surrounding CRM to interceptor handlers through
// one Manager interface with a variant per supported backend.
//
// Capabilities differ per backend. An operation a backend cannot provide
// fails with a KindUnsupportedOnBackend error; it never silently no-ops.
// Standalone deployments get the Standalone variant, where every CRM
// operation fails that way.
package crm

import (
	"context"

	"log/slog"

	"github.com/priceflex/intercept/internal/logging"
	"github.com/priceflex/intercept/pkg/domain"
	"github.com/priceflex/intercept/pkg/ports"
)

// Manager is the backend-polymorphic CRM surface. Object names are the
// backend's own: a Salesforce page reports "Account" while a Sugar page
// reports "Accounts", and FindByQuery FROM clauses name the backend's
// collection verbatim.
type Manager interface {
	// Backend identifies the active variant.
	Backend() domain.Backend

	// CurrentUser asks the CRM who the integration user is.
	CurrentUser(ctx context.Context) (domain.User, error)

	// Payload fetches the CRM record of the page the platform is embedded
	// on. Results are served from the payload cache when one is configured.
	Payload(ctx context.Context, page domain.PageContext) (map[string]any, error)

	// IsAccountPage and IsOpportunityPage report whether the embedding page
	// shows the backend's account or opportunity object.
	IsAccountPage(page domain.PageContext) bool
	IsOpportunityPage(page domain.PageContext) bool

	// AssociatedValue resolves a logical field name against the embedding
	// page's payload, going through the backend field table.
	AssociatedValue(ctx context.Context, page domain.PageContext, logical string) (any, error)

	// FieldName translates a logical field name to the backend's physical
	// field for the given object.
	FieldName(object, logical string) (string, error)

	// RecordURL builds a user-facing deep link to a CRM record.
	RecordURL(object, id string) (string, error)

	// WebServiceURL builds an absolute URL for the backend's web service API.
	WebServiceURL(path string) (string, error)

	// Call performs a raw web service request against the backend API.
	Call(ctx context.Context, method, path string, body any) (any, error)

	// FindByQuery runs a restricted-grammar query and returns the matching
	// records with the envelope already unwrapped.
	FindByQuery(ctx context.Context, src string) ([]map[string]any, error)

	// UpdateCache writes a value under an opaque dot-delimited key path in
	// the payload cache. Best effort: no consistency guarantee is made
	// between this write and later reads.
	UpdateCache(ctx context.Context, path string, value any) error
}

// Config carries the deployment-level wiring shared by all variants.
type Config struct {
	// BaseURL is the CRM's user-facing origin, e.g.
	// "https://acme.lightning.force.com". Record links and web service URLs
	// are built from it.
	BaseURL string

	// Transport carries outbound API calls. Required for every variant
	// except Standalone.
	Transport ports.CRMTransport

	// Cache is the payload cache. Optional; without it Payload always hits
	// the transport and UpdateCache becomes a no-op.
	Cache ports.CacheStore

	Logger *slog.Logger
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logging.NewNop()
}

// New constructs the Manager variant for a backend.
func New(backend domain.Backend, cfg Config) (Manager, error) {
	switch backend {
	case domain.BackendSalesforce:
		return NewSalesforce(cfg), nil
	case domain.BackendC4C:
		return NewC4C(cfg), nil
	case domain.BackendDynamics:
		return NewDynamics(cfg), nil
	case domain.BackendSugarCRM:
		return NewSugarCRM(cfg), nil
	case domain.BackendStandalone:
		return NewStandalone(), nil
	}
	return nil, domain.Newf(domain.KindUnknown, "unknown backend %q", backend)
}
