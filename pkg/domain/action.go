package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Action names a built-in platform operation that handlers can intercept.
// The vocabulary is fixed at engine construction; actions are never derived
// from runtime name introspection.
type Action string

// Built-in action vocabulary.
const (
	QuotesDetailNew         Action = "quotesDetailNew"
	QuotesDetailOpen        Action = "quotesDetailOpen"
	QuotesDetailSubmit      Action = "quotesDetailSubmit"
	QuotesDetailRecalculate Action = "quotesDetailRecalculate"

	ContractsDetailNew    Action = "contractsDetailNew"
	ContractsDetailOpen   Action = "contractsDetailOpen"
	ContractsDetailSubmit Action = "contractsDetailSubmit"

	RebateAgreementsDetailNew    Action = "rebateAgreementsDetailNew"
	RebateAgreementsDetailOpen   Action = "rebateAgreementsDetailOpen"
	RebateAgreementsDetailSubmit Action = "rebateAgreementsDetailSubmit"

	CompensationPlansDetailNew    Action = "compensationPlansDetailNew"
	CompensationPlansDetailOpen   Action = "compensationPlansDetailOpen"
	CompensationPlansDetailSubmit Action = "compensationPlansDetailSubmit"

	OrderSubmit Action = "orderSubmit"

	QuotesListSearch Action = "quotesListSearch"
	CRMAccountSearch Action = "crmAccountSearch"
)

// preSuffix marks the PRE variant in binding names (e.g. "quotesDetailSubmitPre").
// A bare action name binds the POST phase.
const preSuffix = "Pre"

// ObjectType identifies the business-object family an action operates on.
type ObjectType string

const (
	ObjectNone             ObjectType = ""
	ObjectQuote            ObjectType = "quote"
	ObjectContract         ObjectType = "contract"
	ObjectRebateAgreement  ObjectType = "rebateAgreement"
	ObjectCompensationPlan ObjectType = "compensationPlan"
)

// ActionInfo describes one member of the vocabulary.
type ActionInfo struct {
	Name Action

	// Object is the business-object family the action carries, or ObjectNone
	// for actions without a bound document (e.g. OrderSubmit).
	Object ObjectType

	// Search marks actions whose input is a search text rather than a document.
	Search bool

	// Description is the one-line reference text shown by tooling.
	Description string
}

// ActionSet is the vocabulary an engine recognizes. The zero value is unusable;
// construct with DefaultActions and extend with Add.
type ActionSet struct {
	infos map[Action]ActionInfo
}

// DefaultActions returns the built-in vocabulary.
func DefaultActions() *ActionSet {
	s := &ActionSet{infos: make(map[Action]ActionInfo, len(builtins))}
	for _, info := range builtins {
		s.infos[info.Name] = info
	}
	return s
}

var builtins = []ActionInfo{
	{Name: QuotesDetailNew, Object: ObjectQuote, Description: "A new quote is created on the detail page."},
	{Name: QuotesDetailOpen, Object: ObjectQuote, Description: "An existing quote is opened on the detail page."},
	{Name: QuotesDetailSubmit, Object: ObjectQuote, Description: "A quote is submitted for approval."},
	{Name: QuotesDetailRecalculate, Object: ObjectQuote, Description: "A quote is recalculated."},
	{Name: ContractsDetailNew, Object: ObjectContract, Description: "A new contract is created on the detail page."},
	{Name: ContractsDetailOpen, Object: ObjectContract, Description: "An existing contract is opened on the detail page."},
	{Name: ContractsDetailSubmit, Object: ObjectContract, Description: "A contract is submitted for approval."},
	{Name: RebateAgreementsDetailNew, Object: ObjectRebateAgreement, Description: "A new rebate agreement is created on the detail page."},
	{Name: RebateAgreementsDetailOpen, Object: ObjectRebateAgreement, Description: "An existing rebate agreement is opened on the detail page."},
	{Name: RebateAgreementsDetailSubmit, Object: ObjectRebateAgreement, Description: "A rebate agreement is submitted for approval."},
	{Name: CompensationPlansDetailNew, Object: ObjectCompensationPlan, Description: "A new compensation plan is created on the detail page."},
	{Name: CompensationPlansDetailOpen, Object: ObjectCompensationPlan, Description: "An existing compensation plan is opened on the detail page."},
	{Name: CompensationPlansDetailSubmit, Object: ObjectCompensationPlan, Description: "A compensation plan is submitted for approval."},
	{Name: OrderSubmit, Description: "A quote is converted into an order."},
	{Name: QuotesListSearch, Object: ObjectQuote, Search: true, Description: "The quote list is filtered by a search text."},
	{Name: CRMAccountSearch, Search: true, Description: "CRM accounts are searched by a search text."},
}

// Add registers a host-defined action. Re-adding an existing name replaces
// its info.
func (s *ActionSet) Add(info ActionInfo) error {
	if info.Name == "" {
		return New(KindUnknownAction, "action name must not be empty")
	}
	s.infos[info.Name] = info
	return nil
}

// Contains reports whether a is part of the vocabulary.
func (s *ActionSet) Contains(a Action) bool {
	_, ok := s.infos[a]
	return ok
}

// Info returns the metadata for a.
func (s *ActionSet) Info(a Action) (ActionInfo, bool) {
	info, ok := s.infos[a]
	return info, ok
}

// Names returns the vocabulary in lexical order.
func (s *ActionSet) Names() []Action {
	names := make([]Action, 0, len(s.infos))
	for a := range s.infos {
		names = append(names, a)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// ParseBindingName resolves a record-surface binding name to its (action,
// phase) pair. A trailing "Pre" selects the PRE phase; the bare action name
// selects POST. An exact vocabulary match wins over suffix stripping, so an
// action literally named "fooPre" stays addressable.
func (s *ActionSet) ParseBindingName(name string) (Action, Phase, error) {
	if s.Contains(Action(name)) {
		return Action(name), PhasePost, nil
	}
	if base, ok := strings.CutSuffix(name, preSuffix); ok && s.Contains(Action(base)) {
		return Action(base), PhasePre, nil
	}
	return "", "", New(KindUnknownAction, fmt.Sprintf("binding %q does not match any known action", name))
}

// BindingName renders the record-surface name for an (action, phase) pair.
func BindingName(a Action, p Phase) string {
	if p == PhasePre {
		return string(a) + preSuffix
	}
	return string(a)
}
