package domain

import "time"

// PageContext describes where in the surrounding CRM the platform is
// embedded for this session: the host object type and record the user is
// looking at. Empty in standalone deployments.
type PageContext struct {
	// ObjectType is the CRM object name, e.g. "Account" or "Opportunity".
	ObjectType string `json:"objectType,omitempty" mapstructure:"objectType"`

	// RecordID is the CRM record identifier the page is bound to.
	RecordID string `json:"recordId,omitempty" mapstructure:"recordId"`
}

// Session is one client session: the user, the CRM page the platform is
// embedded on, and the session-scoped configuration overlay.
type Session struct {
	ID   string      `json:"id"`
	User User        `json:"user"`
	Page PageContext `json:"page,omitempty"`

	// Overrides is the configuration overlay tree. Values written here shadow
	// the base configuration for this session only; the base tree is never
	// touched.
	Overrides map[string]any `json:"overrides,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// NewSession creates a session with an allocated overlay.
func NewSession(id string, user User) *Session {
	return &Session{
		ID:        id,
		User:      user,
		Overrides: make(map[string]any),
		CreatedAt: time.Now().UTC(),
	}
}
