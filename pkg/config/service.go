package config

import (
	"context"
	"sync"

	"github.com/priceflex/intercept/pkg/domain"
	"github.com/priceflex/intercept/pkg/ports"
)

// Service resolves configuration paths for handlers: the session overlay is
// consulted first, then the base source. Overrides only ever touch the
// overlay; the base tree is read-only here.
type Service struct {
	base ports.ConfigSource
}

// NewService creates a Service over a base source. A nil base is legal and
// resolves nothing, leaving only session overrides.
func NewService(base ports.ConfigSource) *Service {
	return &Service{base: base}
}

// Lookup resolves path strictly: a missing path yields a
// KindConfigPathNotFound error.
func (s *Service) Lookup(ctx context.Context, sess *domain.Session, path string) (any, error) {
	if path == "" {
		return nil, domain.New(domain.KindConfigPathNotFound, "empty configuration path")
	}
	if sess != nil && sess.Overrides != nil {
		if v, ok := Walk(sess.Overrides, path); ok {
			return v, nil
		}
	}
	if s.base != nil {
		v, ok, err := s.base.Lookup(ctx, path)
		if err != nil {
			return nil, err
		}
		if ok {
			return v, nil
		}
	}
	return nil, domain.Newf(domain.KindConfigPathNotFound, "configuration path %q not found", path)
}

// Retrieve resolves path with a caller default: any lookup failure, missing
// path included, resolves to def. Handlers never see a configuration error
// through this call.
func (s *Service) Retrieve(ctx context.Context, sess *domain.Session, path string, def any) any {
	v, err := s.Lookup(ctx, sess, path)
	if err != nil {
		return def
	}
	return v
}

// Override writes value into the session overlay at path. The base source is
// never touched; other sessions never see the value.
func (s *Service) Override(sess *domain.Session, path string, value any) error {
	if sess == nil {
		return domain.New(domain.KindSessionNotFound, "no session bound")
	}
	if path == "" {
		return domain.New(domain.KindConfigPathNotFound, "empty configuration path")
	}
	if sess.Overrides == nil {
		sess.Overrides = make(map[string]any)
	}
	Set(sess.Overrides, path, value)
	return nil
}

// MapSource is a ConfigSource over an in-memory nested tree. Used by tests
// and embedding hosts that assemble configuration in code.
type MapSource struct {
	mu   sync.RWMutex
	tree map[string]any
}

// NewMapSource wraps a nested tree. The tree is used as-is; callers hand over
// ownership.
func NewMapSource(tree map[string]any) *MapSource {
	if tree == nil {
		tree = make(map[string]any)
	}
	return &MapSource{tree: tree}
}

// Lookup implements ports.ConfigSource.
func (s *MapSource) Lookup(ctx context.Context, path string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := Walk(s.tree, path)
	return v, ok, nil
}

// Put writes a base value at path. Intended for test and host setup, not for
// handler-visible mutation.
func (s *MapSource) Put(path string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	Set(s.tree, path, value)
}
