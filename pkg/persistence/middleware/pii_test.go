package middleware_test

import (
	"context"
	"testing"

	"github.com/priceflex/intercept/pkg/adapters/memory"
	"github.com/priceflex/intercept/pkg/domain"
	"github.com/priceflex/intercept/pkg/persistence/middleware"
)

func TestPIIMiddleware_MasksMatchingKeys(t *testing.T) {
	inner := memory.NewSessionStore()
	mw := middleware.NewPIIMiddleware([]string{"(?i)token", "(?i)password"})
	store := mw(inner)

	ctx := context.Background()
	sess := domain.NewSession("pii-session", domain.User{Login: "ada"})
	sess.Overrides["apiToken"] = "tok-12345"
	sess.Overrides["crm"] = map[string]any{
		"password": "hunter2",
		"baseUrl":  "https://crm.example.com",
	}

	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// The live session the engine holds stays unmasked.
	if sess.Overrides["apiToken"] != "tok-12345" {
		t.Errorf("live session was mutated: %v", sess.Overrides["apiToken"])
	}

	stored, err := inner.Load(ctx, "pii-session")
	if err != nil {
		t.Fatalf("inner load failed: %v", err)
	}
	if stored.Overrides["apiToken"] != "***" {
		t.Errorf("apiToken = %v, want masked", stored.Overrides["apiToken"])
	}
	crm, ok := stored.Overrides["crm"].(map[string]any)
	if !ok {
		t.Fatalf("crm subtree missing: %v", stored.Overrides["crm"])
	}
	if crm["password"] != "***" {
		t.Errorf("nested password = %v, want masked", crm["password"])
	}
	if crm["baseUrl"] != "https://crm.example.com" {
		t.Errorf("non-matching key was masked: %v", crm["baseUrl"])
	}
}

func TestPIIMiddleware_LoadAndDeletePassThrough(t *testing.T) {
	inner := memory.NewSessionStore()
	store := middleware.NewPIIMiddleware([]string{"secret"})(inner)

	ctx := context.Background()
	sess := domain.NewSession("pass-session", domain.User{Login: "ada"})
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(ctx, "pass-session")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.User.Login != "ada" {
		t.Errorf("Login = %q, want ada", loaded.User.Login)
	}

	if err := store.Delete(ctx, "pass-session"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Load(ctx, "pass-session"); err == nil {
		t.Error("expected load after delete to fail")
	}
}
