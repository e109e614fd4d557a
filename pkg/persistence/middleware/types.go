// Package middleware provides session-store decorators for hosted
// deployments: at-rest encryption of session snapshots and PII masking of
// the persisted configuration overlay. Middlewares compose around any
// ports.SessionStore.
package middleware

import "github.com/priceflex/intercept/pkg/ports"

// Middleware wraps a SessionStore to add behavior.
type Middleware func(ports.SessionStore) ports.SessionStore
