package capability

import (
	"log/slog"

	"github.com/mitchellh/mapstructure"
	"github.com/priceflex/intercept/internal/logging"
	"github.com/priceflex/intercept/pkg/crm"
	"github.com/priceflex/intercept/pkg/domain"
)

// Builder assembles execution contexts. One Builder serves the whole engine;
// Build is safe for concurrent use.
type Builder struct {
	actions *domain.ActionSet
	retrv   retriever
	crm     crm.Manager
	logger  *slog.Logger
}

// BuilderConfig carries the engine collaborators a Builder hands to every
// context it assembles.
type BuilderConfig struct {
	// Actions is the action vocabulary. Nil means the compiled-in default.
	Actions *domain.ActionSet
	// Config resolves RetrieveConfig and OverrideConfig. Nil is legal;
	// retrievals then always yield the caller default.
	Config retriever
	// CRM is the backend manager bound into each context. Nil is legal and
	// leaves CRM() nil.
	CRM crm.Manager
	// Logger is the base logger; contexts get it scoped per invocation.
	Logger *slog.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(cfg BuilderConfig) *Builder {
	actions := cfg.Actions
	if actions == nil {
		actions = domain.DefaultActions()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Builder{
		actions: actions,
		retrv:   cfg.Config,
		crm:     cfg.CRM,
		logger:  logger,
	}
}

// Invocation names one handler call the dispatcher is about to make.
type Invocation struct {
	Action  domain.Action
	Phase   domain.Phase
	Input   any
	Result  any
	Session *domain.Session
}

// Normalize prepares a trigger input for dispatch. Document actions
// triggered with a plain map are decoded into a *domain.BusinessObject so
// the handlers and the built-in action share one live object; every other
// input passes through untouched.
func (b *Builder) Normalize(action domain.Action, input any) any {
	info, ok := b.actions.Info(action)
	if !ok || info.Object == domain.ObjectNone {
		return input
	}
	switch in := input.(type) {
	case *domain.BusinessObject:
		return in
	case domain.BusinessObject:
		return &in
	case map[string]any:
		var obj domain.BusinessObject
		if err := mapstructure.Decode(in, &obj); err != nil {
			b.logger.Warn("document input left undecoded",
				"action", action, "error", err)
			return input
		}
		return &obj
	default:
		return input
	}
}

// Build assembles the context for one handler invocation. The input is
// expected to have gone through Normalize already.
func (b *Builder) Build(inv Invocation) (*Context, error) {
	info, ok := b.actions.Info(inv.Action)
	if !ok {
		return nil, domain.Newf(domain.KindUnknownAction, "unknown action %q", inv.Action)
	}

	c := &Context{
		action: inv.Action,
		info:   info,
		phase:  inv.Phase,
		input:  inv.Input,
		result: inv.Result,
		sess:   inv.Session,
		retrv:  b.retrv,
		logger: b.logger.With("action", inv.Action, "phase", inv.Phase),
	}

	if info.Search {
		c.searchText = searchText(inv.Input)
	}
	if b.crm != nil {
		view := &CRM{mgr: b.crm}
		if inv.Session != nil {
			view.page = inv.Session.Page
		}
		c.crm = view
	}
	if obj, ok := inv.Input.(*domain.BusinessObject); ok {
		bindDocument(c, info.Object, obj)
	}
	return c, nil
}

// searchText extracts the search text from a search action's input.
func searchText(input any) string {
	switch in := input.(type) {
	case string:
		return in
	case map[string]any:
		if s, ok := in["searchText"].(string); ok {
			return s
		}
	}
	return ""
}

// bindDocument attaches the domain capability matching the action's object
// type. At most one of the four is ever non-nil.
func bindDocument(c *Context, object domain.ObjectType, obj *domain.BusinessObject) {
	doc := Document{obj: obj}
	switch object {
	case domain.ObjectQuote:
		c.quote = &Quote{doc}
	case domain.ObjectContract:
		c.contract = &Contract{doc}
	case domain.ObjectRebateAgreement:
		c.rebate = &RebateAgreement{doc}
	case domain.ObjectCompensationPlan:
		c.comp = &CompensationPlan{doc}
	}
}
