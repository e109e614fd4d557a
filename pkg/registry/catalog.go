package registry

import (
	"sort"
	"sync"

	"github.com/priceflex/intercept/pkg/domain"
)

// Catalog holds the named handler implementations host code registers at
// startup. Configuration records bind actions to these refs; the catalog is
// the only place a record's handler ref can resolve against.
type Catalog struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{handlers: make(map[string]Handler)}
}

// Register adds a handler under ref. Registering a duplicate ref is a
// programming error and fails with KindConflict.
func (c *Catalog) Register(ref string, fn Handler) error {
	if ref == "" {
		return domain.New(domain.KindBadRecord, "handler ref must not be empty")
	}
	if fn == nil {
		return domain.Newf(domain.KindBadRecord, "handler %q must not be nil", ref)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.handlers[ref]; exists {
		return domain.Newf(domain.KindConflict, "handler ref %q is already registered", ref)
	}
	c.handlers[ref] = fn
	return nil
}

// Resolve looks up a handler by ref.
func (c *Catalog) Resolve(ref string) (Handler, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn, ok := c.handlers[ref]
	return fn, ok
}

// Refs lists registered refs in lexical order.
func (c *Catalog) Refs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	refs := make([]string, 0, len(c.handlers))
	for ref := range c.handlers {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}
