package ports

import "context"

// CRMTransport carries outbound requests to the surrounding CRM's web
// service API. Implementations own base URLs, authentication and JSON
// codec; callers pass API-relative paths.
type CRMTransport interface {
	// Do executes one request and returns the decoded JSON response body.
	// A nil body sends no payload.
	Do(ctx context.Context, method, path string, body any) (any, error)
}
