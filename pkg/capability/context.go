// Package capability assembles the execution context handed to interceptor
// handlers: the trigger's input and result, the platform capability
// (user, configuration), the CRM capability for the active backend, and the
// domain capability for the business object the action operates on.
package capability

import (
	"context"

	"log/slog"

	"github.com/priceflex/intercept/pkg/domain"
)

// Context is the single argument every handler receives (besides the Go
// context). It is assembled per invocation and must not be retained after
// the handler returns.
type Context struct {
	action domain.Action
	info   domain.ActionInfo
	phase  domain.Phase

	input      any
	result     any
	searchText string

	sess   *domain.Session
	retrv  retriever
	crm    *CRM
	logger *slog.Logger

	quote    *Quote
	contract *Contract
	rebate   *RebateAgreement
	comp     *CompensationPlan
}

// retriever is the slice of the configuration service the context needs.
type retriever interface {
	Retrieve(ctx context.Context, sess *domain.Session, path string, def any) any
	Override(sess *domain.Session, path string, value any) error
}

// Action names the intercepted built-in action.
func (c *Context) Action() domain.Action { return c.action }

// Phase reports which side of the action this invocation runs on.
func (c *Context) Phase() domain.Phase { return c.phase }

// Input returns the action input. For document actions triggered with a
// plain map the input has already been decoded, so this is the same live
// *domain.BusinessObject the domain capability mutates.
func (c *Context) Input() any { return c.input }

// Result returns the raw result of the built-in action. Nil during PRE.
func (c *Context) Result() any { return c.result }

// SearchText returns the search text for search actions, "" otherwise.
func (c *Context) SearchText() string { return c.searchText }

// Session returns the client session, nil for sessionless triggers.
func (c *Context) Session() *domain.Session { return c.sess }

// User returns the platform user the trigger runs for.
func (c *Context) User() domain.User {
	if c.sess == nil {
		return domain.User{}
	}
	return c.sess.User
}

// Logger returns a logger scoped to the invocation.
func (c *Context) Logger() *slog.Logger { return c.logger }

// RetrieveConfig resolves a dot-delimited configuration path. The session
// overlay shadows the base tree; a path that resolves nowhere yields def.
// Handlers never see a configuration error through this call.
func (c *Context) RetrieveConfig(ctx context.Context, path string, def any) any {
	if c.retrv == nil {
		return def
	}
	return c.retrv.Retrieve(ctx, c.sess, path, def)
}

// OverrideConfig writes value into the current session's configuration
// overlay. The server-side base tree is never touched; other sessions never
// see the value.
func (c *Context) OverrideConfig(path string, value any) error {
	if c.retrv == nil {
		return domain.New(domain.KindConfigPathNotFound, "no configuration service bound")
	}
	return c.retrv.Override(c.sess, path, value)
}

// CRM returns the CRM capability for the active backend. In standalone
// deployments the capability is present but every operation fails with
// KindUnsupportedOnBackend.
func (c *Context) CRM() *CRM { return c.crm }

// Quote returns the quote capability, non-nil only for quote actions.
func (c *Context) Quote() *Quote { return c.quote }

// Contract returns the contract capability, non-nil only for contract
// actions.
func (c *Context) Contract() *Contract { return c.contract }

// RebateAgreement returns the rebate agreement capability, non-nil only for
// rebate agreement actions.
func (c *Context) RebateAgreement() *RebateAgreement { return c.rebate }

// CompensationPlan returns the compensation plan capability, non-nil only
// for compensation plan actions.
func (c *Context) CompensationPlan() *CompensationPlan { return c.comp }
