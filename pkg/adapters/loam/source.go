// Package loam adapts a Loam document repository to the record source port:
// interceptor configuration lives in pfxInterceptor_* documents with YAML
// frontmatter, editable as plain files and hot-reloadable.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/priceflex/intercept/pkg/domain"
)

// Source implements ports.RecordSource and ports.Watchable over a Loam
// repository. Documents whose name does not carry the pfxInterceptor_
// prefix are ignored, so records can live next to other content.
type Source struct {
	repo *loam.TypedRepository[RecordMetadata]
}

// New creates a Source over an existing typed repository.
func New(repo *loam.TypedRepository[RecordMetadata]) *Source {
	return &Source{repo: repo}
}

// Open initializes a read-only Loam repository at path and wraps it. Strict
// mode keeps numeric frontmatter types consistent across document formats.
func Open(path string) (*Source, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid record path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("initialize record repository: %w", err)
	}
	return New(loam.NewTypedRepository[RecordMetadata](repo)), nil
}

// List returns all interceptor records in lexical name order, disabled ones
// included.
func (s *Source) List(ctx context.Context) ([]domain.InterceptorRecord, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	out := make([]domain.InterceptorRecord, 0, len(docs))
	for _, doc := range docs {
		name := trimExtension(doc.ID)
		if !domain.IsRecordName(name) {
			continue
		}
		description := doc.Data.Description
		if description == "" {
			description = strings.TrimSpace(doc.Content)
		}
		out = append(out, domain.InterceptorRecord{
			Name:        name,
			Enabled:     doc.Data.enabled(),
			Bindings:    doc.Data.Bindings,
			Description: description,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Watch implements ports.Watchable. Change details are collapsed into bare
// reload signals; bursts coalesce.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	events, err := s.repo.Watch(ctx, domain.RecordPrefix+"*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("start record watcher: %w", err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()
	return ch, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
