package capability

import "github.com/priceflex/intercept/pkg/domain"

// Document gives handlers read/write access to the business object bound to
// the invocation. All four document capabilities share this surface; writes
// land on the same object the built-in action receives.
type Document struct {
	obj *domain.BusinessObject
}

// TypedID returns the document identifier, e.g. "1234.QD".
func (d *Document) TypedID() string { return d.obj.TypedID }

// Label returns the human-readable document label.
func (d *Document) Label() string { return d.obj.Label }

// HeaderValue reads a header field by name.
func (d *Document) HeaderValue(name string) (any, bool) {
	return d.obj.HeaderValue(name)
}

// SetHeaderValue writes a header field. The built-in action sees the write.
func (d *Document) SetHeaderValue(name string, value any) {
	d.obj.SetHeaderValue(name, value)
}

// Output reads a calculation output cell by name.
func (d *Document) Output(name string) (any, bool) {
	return d.obj.Output(name)
}

// SetOutput writes a calculation output cell, replacing an existing cell of
// the same name.
func (d *Document) SetOutput(name string, result any) {
	d.obj.SetOutput(name, result)
}

// Object returns the underlying business object.
func (d *Document) Object() *domain.BusinessObject { return d.obj }

// Quote is the domain capability bound for quote actions.
type Quote struct{ Document }

// Contract is the domain capability bound for contract actions.
type Contract struct{ Document }

// RebateAgreement is the domain capability bound for rebate agreement
// actions.
type RebateAgreement struct{ Document }

// CompensationPlan is the domain capability bound for compensation plan
// actions.
type CompensationPlan struct{ Document }
