package middleware

import (
	"context"
	"regexp"

	"github.com/priceflex/intercept/pkg/domain"
	"github.com/priceflex/intercept/pkg/ports"
)

type piiMiddleware struct {
	next     ports.SessionStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware returns a middleware that masks override values whose key
// matches one of the patterns before the session is persisted. Handlers keep
// seeing the live values; only the stored copy is masked.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, sess *domain.Session) error {
	// Clone before masking so the in-memory session the engine holds is
	// untouched.
	cloned := *sess
	cloned.Overrides = deepCopyTree(sess.Overrides)
	maskTree(cloned.Overrides, m.patterns)

	return m.next.Save(ctx, &cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, id string) (*domain.Session, error) {
	return m.next.Load(ctx, id)
}

func (m *piiMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func deepCopyTree(tree map[string]any) map[string]any {
	out := make(map[string]any, len(tree))
	for k, v := range tree {
		if sub, ok := v.(map[string]any); ok {
			out[k] = deepCopyTree(sub)
		} else {
			out[k] = v
		}
	}
	return out
}

func maskTree(tree map[string]any, patterns []*regexp.Regexp) {
	for k, v := range tree {
		for _, p := range patterns {
			if p.MatchString(k) {
				tree[k] = "***"
				break
			}
		}
		if sub, ok := v.(map[string]any); ok {
			maskTree(sub, patterns)
		}
	}
}
