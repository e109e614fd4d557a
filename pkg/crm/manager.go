package crm

import (
	"context"
	"fmt"
	"strings"

	"log/slog"

	"github.com/priceflex/intercept/pkg/crm/query"
	"github.com/priceflex/intercept/pkg/domain"
	"github.com/priceflex/intercept/pkg/ports"
)

// profile captures everything that differs between CRM backends: object
// names, field tables, URL shapes, the query dialect and response envelopes.
type profile struct {
	backend           domain.Backend
	accountObject     string
	opportunityObject string

	// fields maps object -> logical name -> physical field.
	fields map[string]map[string]string

	// currentUserPath is the API path answering "who am I", "" when the
	// backend has no such endpoint.
	currentUserPath string
	userFrom        func(resp any) (domain.User, error)

	recordPath func(object, id string) string
	recordURL  func(base, object, id string) string
	serviceURL func(base, path string) string

	allowedOps  map[query.Operator]bool
	findRequest func(q *query.Query) (method, path string, body any)
	unwrapList  func(resp any) ([]map[string]any, error)
	unwrapOne   func(resp any) (map[string]any, error)
}

// manager implements Manager for all CRM-backed variants; only the profile
// differs between them.
type manager struct {
	p         profile
	baseURL   string
	transport ports.CRMTransport
	cache     ports.CacheStore
	logger    *slog.Logger
}

func newManager(p profile, cfg Config) *manager {
	return &manager{
		p:         p,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		transport: cfg.Transport,
		cache:     cfg.Cache,
		logger:    cfg.logger(),
	}
}

func (m *manager) Backend() domain.Backend { return m.p.backend }

func (m *manager) unsupported(op string) error {
	return domain.Newf(domain.KindUnsupportedOnBackend, "%s is not available on %s", op, m.p.backend)
}

func (m *manager) CurrentUser(ctx context.Context) (domain.User, error) {
	if m.p.currentUserPath == "" {
		return domain.User{}, m.unsupported("currentUser")
	}
	resp, err := m.Call(ctx, "GET", m.p.currentUserPath, nil)
	if err != nil {
		return domain.User{}, fmt.Errorf("current user: %w", err)
	}
	return m.p.userFrom(resp)
}

func (m *manager) IsAccountPage(page domain.PageContext) bool {
	return page.ObjectType != "" && page.ObjectType == m.p.accountObject
}

func (m *manager) IsOpportunityPage(page domain.PageContext) bool {
	return page.ObjectType != "" && page.ObjectType == m.p.opportunityObject
}

func (m *manager) Payload(ctx context.Context, page domain.PageContext) (map[string]any, error) {
	if page.ObjectType == "" || page.RecordID == "" {
		return nil, domain.New(domain.KindUnsupportedOnBackend, "no embedding page in this session")
	}

	cacheKey := fmt.Sprintf("crm.%s.payload.%s.%s", m.p.backend, page.ObjectType, page.RecordID)
	if m.cache != nil {
		if v, ok, err := m.cache.Get(ctx, cacheKey); err == nil && ok {
			if payload, ok := v.(map[string]any); ok {
				return payload, nil
			}
		}
	}

	resp, err := m.Call(ctx, "GET", m.p.recordPath(page.ObjectType, page.RecordID), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch payload: %w", err)
	}
	payload, err := m.p.unwrapOne(resp)
	if err != nil {
		return nil, err
	}

	if m.cache != nil {
		if err := m.cache.Put(ctx, cacheKey, payload); err != nil {
			m.logger.Warn("payload cache write failed", "key", cacheKey, "err", err)
		}
	}
	return payload, nil
}

func (m *manager) AssociatedValue(ctx context.Context, page domain.PageContext, logical string) (any, error) {
	physical, err := m.FieldName(page.ObjectType, logical)
	if err != nil {
		return nil, err
	}
	payload, err := m.Payload(ctx, page)
	if err != nil {
		return nil, err
	}
	return payload[physical], nil
}

func (m *manager) FieldName(object, logical string) (string, error) {
	table, ok := m.p.fields[object]
	if !ok {
		return "", domain.Newf(domain.KindUnsupportedOnBackend, "%s has no field table for object %q", m.p.backend, object)
	}
	physical, ok := table[logical]
	if !ok {
		return "", domain.Newf(domain.KindUnsupportedOnBackend, "%s does not map logical field %q on %q", m.p.backend, logical, object)
	}
	return physical, nil
}

func (m *manager) RecordURL(object, id string) (string, error) {
	if object == "" || id == "" {
		return "", fmt.Errorf("record url needs object and id")
	}
	return m.p.recordURL(m.baseURL, object, id), nil
}

func (m *manager) WebServiceURL(path string) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return m.p.serviceURL(m.baseURL, path), nil
}

func (m *manager) Call(ctx context.Context, method, path string, body any) (any, error) {
	if m.transport == nil {
		return nil, m.unsupported("web service call")
	}
	return m.transport.Do(ctx, method, path, body)
}

func (m *manager) FindByQuery(ctx context.Context, src string) ([]map[string]any, error) {
	q, err := query.Parse(src)
	if err != nil {
		return nil, err
	}
	for _, op := range q.Operators() {
		if !m.p.allowedOps[op] {
			return nil, domain.Newf(domain.KindUnsupportedOnBackend,
				"operator %q is not supported on %s", op, m.p.backend)
		}
	}

	method, path, body := m.p.findRequest(q)
	m.logger.Debug("crm query", "backend", m.p.backend, "object", q.Object, "path", path)

	resp, err := m.Call(ctx, method, path, body)
	if err != nil {
		return nil, fmt.Errorf("%s query: %w", m.p.backend, err)
	}
	return m.p.unwrapList(resp)
}

func (m *manager) UpdateCache(ctx context.Context, path string, value any) error {
	if m.cache == nil {
		return nil
	}
	return m.cache.Put(ctx, path, value)
}

// envelope helpers shared by the profiles.

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// listUnder unwraps {key: [ {...}, ... ]} response envelopes.
func listUnder(key string) func(any) ([]map[string]any, error) {
	return func(resp any) ([]map[string]any, error) {
		env, ok := asMap(resp)
		if !ok {
			return nil, fmt.Errorf("unexpected response shape %T", resp)
		}
		raw, ok := env[key].([]any)
		if !ok {
			return nil, fmt.Errorf("response envelope has no %q list", key)
		}
		out := make([]map[string]any, 0, len(raw))
		for _, item := range raw {
			rec, ok := asMap(item)
			if !ok {
				return nil, fmt.Errorf("non-object record in %q list", key)
			}
			out = append(out, rec)
		}
		return out, nil
	}
}

func identityRecord(resp any) (map[string]any, error) {
	rec, ok := asMap(resp)
	if !ok {
		return nil, fmt.Errorf("unexpected record shape %T", resp)
	}
	return rec, nil
}

var allComparisons = map[query.Operator]bool{
	query.OpEq: true, query.OpNe: true,
	query.OpLt: true, query.OpGt: true,
	query.OpLe: true, query.OpGe: true,
}
