package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/priceflex/intercept/pkg/domain"
)

func baseSource() *MapSource {
	return NewMapSource(map[string]any{
		"environmentSettings": map[string]any{
			"salesforce": map[string]any{
				"displayLocation": map[string]any{
					"Aura": map[string]any{
						"autoGrow": true,
					},
				},
			},
		},
		"quoting": map[string]any{
			"defaultCurrency": "EUR",
		},
	})
}

func TestRetrieveHitsAndDefaults(t *testing.T) {
	svc := NewService(baseSource())
	ctx := context.Background()

	got := svc.Retrieve(ctx, nil, "environmentSettings.salesforce.displayLocation.Aura.autoGrow", false)
	if got != true {
		t.Errorf("deep path = %v, want true", got)
	}

	// Unset path resolves to the caller default, never an error.
	got = svc.Retrieve(ctx, nil, "environmentSettings.dynamics.theme", "default")
	if got != "default" {
		t.Errorf("missing path = %v, want default", got)
	}

	// A path that runs through a scalar also misses.
	got = svc.Retrieve(ctx, nil, "quoting.defaultCurrency.symbol", "?")
	if got != "?" {
		t.Errorf("path through scalar = %v, want ?", got)
	}
}

func TestLookupReportsMissingPath(t *testing.T) {
	svc := NewService(baseSource())

	_, err := svc.Lookup(context.Background(), nil, "nope.nope")
	if !domain.IsKind(err, domain.KindConfigPathNotFound) {
		t.Fatalf("error = %v, want config_path_not_found", err)
	}
}

func TestOverrideShadowsBasePerSession(t *testing.T) {
	svc := NewService(baseSource())
	ctx := context.Background()

	sessA := domain.NewSession("sess-a", domain.User{Login: "ann"})
	sessB := domain.NewSession("sess-b", domain.User{Login: "bob"})

	if err := svc.Override(sessA, "quoting.defaultCurrency", "USD"); err != nil {
		t.Fatal(err)
	}

	if got := svc.Retrieve(ctx, sessA, "quoting.defaultCurrency", ""); got != "USD" {
		t.Errorf("session A sees %v, want its override USD", got)
	}
	if got := svc.Retrieve(ctx, sessB, "quoting.defaultCurrency", ""); got != "EUR" {
		t.Errorf("session B sees %v, want base EUR", got)
	}
	if got := svc.Retrieve(ctx, nil, "quoting.defaultCurrency", ""); got != "EUR" {
		t.Errorf("no session sees %v, want base EUR", got)
	}
}

func TestOverrideNeverTouchesBase(t *testing.T) {
	base := baseSource()
	svc := NewService(base)
	sess := domain.NewSession("sess-1", domain.User{})

	if err := svc.Override(sess, "quoting.approvalLevels", 3); err != nil {
		t.Fatal(err)
	}

	if _, ok, _ := base.Lookup(context.Background(), "quoting.approvalLevels"); ok {
		t.Error("override leaked into the base source")
	}
}

func TestOverrideRequiresSession(t *testing.T) {
	svc := NewService(baseSource())
	err := svc.Override(nil, "a.b", 1)
	if !domain.IsKind(err, domain.KindSessionNotFound) {
		t.Fatalf("error = %v, want session_not_found", err)
	}
}

func TestWalkDoesNotCreateNodes(t *testing.T) {
	tree := map[string]any{"a": map[string]any{}}
	if _, ok := Walk(tree, "a.b.c"); ok {
		t.Fatal("Walk found a value on a missing path")
	}
	inner := tree["a"].(map[string]any)
	if len(inner) != 0 {
		t.Errorf("read created phantom nodes: %v", inner)
	}
}

func TestWalkMixedMapShapes(t *testing.T) {
	// yaml.v3 can hand back map[any]any below the top level.
	tree := map[string]any{
		"a": map[any]any{
			"b": map[string]any{"c": 7},
		},
	}
	v, ok := Walk(tree, "a.b.c")
	if !ok || v != 7 {
		t.Errorf("Walk mixed maps = (%v, %v), want (7, true)", v, ok)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "intercept.yaml")
	content := []byte("crm:\n  backend: salesforce\n  baseURL: https://example.my.salesforce.com\nquoting:\n  defaultCurrency: GBP\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	v, ok, _ := src.Lookup(context.Background(), "crm.backend")
	if !ok || v != "salesforce" {
		t.Errorf("crm.backend = (%v, %v)", v, ok)
	}
	v, ok, _ = src.Lookup(context.Background(), "quoting.defaultCurrency")
	if !ok || v != "GBP" {
		t.Errorf("quoting.defaultCurrency = (%v, %v)", v, ok)
	}

	if _, err := LoadFile(filepath.Join(dir, "absent.yaml")); err == nil {
		t.Error("LoadFile of a missing file should fail")
	}
}
