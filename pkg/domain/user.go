package domain

// User describes the platform user on whose behalf a trigger runs.
type User struct {
	Login string   `json:"login" mapstructure:"login"`
	Name  string   `json:"name,omitempty" mapstructure:"name"`
	Email string   `json:"email,omitempty" mapstructure:"email"`
	Group string   `json:"group,omitempty" mapstructure:"group"`
	Roles []string `json:"roles,omitempty" mapstructure:"roles"`
}

// HasRole reports whether the user carries the named role.
func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
