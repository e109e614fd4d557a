package domain

import "fmt"

// Backend identifies the CRM the platform is embedded in. BackendStandalone
// marks a deployment without a surrounding CRM; CRM capabilities are absent
// there and fail explicitly rather than no-op.
type Backend string

const (
	BackendSalesforce Backend = "salesforce"
	BackendC4C        Backend = "c4c"
	BackendDynamics   Backend = "dynamics"
	BackendSugarCRM   Backend = "sugarCRM"
	BackendStandalone Backend = "standalone"
)

// Backends lists all supported deployment targets.
func Backends() []Backend {
	return []Backend{
		BackendSalesforce,
		BackendC4C,
		BackendDynamics,
		BackendSugarCRM,
		BackendStandalone,
	}
}

// ParseBackend validates a backend name from configuration.
func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case BackendSalesforce, BackendC4C, BackendDynamics, BackendSugarCRM, BackendStandalone:
		return Backend(s), nil
	}
	return "", fmt.Errorf("unknown backend %q", s)
}

// String implements fmt.Stringer.
func (b Backend) String() string { return string(b) }
