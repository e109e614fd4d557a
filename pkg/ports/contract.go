package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priceflex/intercept/pkg/domain"
)

// RunSessionStoreContract verifies that a SessionStore implementation adheres
// to the interface contract. Adapter tests call it against their store.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	id := "contract-session-" + time.Now().Format("20060102150405")

	t.Run("save and load", func(t *testing.T) {
		sess := domain.NewSession(id, domain.User{Login: "ada", Group: "sales"})
		sess.Page = domain.PageContext{ObjectType: "Account", RecordID: "001xx0001"}
		sess.Overrides["quoting"] = map[string]any{"defaultCurrency": "CHF"}
		sess.Overrides["limit"] = 42

		require.NoError(t, store.Save(ctx, sess))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, sess.ID, loaded.ID)
		assert.Equal(t, "ada", loaded.User.Login)
		assert.Equal(t, "Account", loaded.Page.ObjectType)
		quoting, ok := loaded.Overrides["quoting"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "CHF", quoting["defaultCurrency"])
		// Serializing stores may come back with float64 here; only presence
		// is part of the contract.
		assert.NotNil(t, loaded.Overrides["limit"])
	})

	t.Run("load missing", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+id)
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindSessionNotFound))
	})

	t.Run("save replaces", func(t *testing.T) {
		sess := domain.NewSession(id, domain.User{Login: "ada"})
		sess.Overrides["v"] = "first"
		require.NoError(t, store.Save(ctx, sess))

		sess.Overrides["v"] = "second"
		require.NoError(t, store.Save(ctx, sess))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "second", loaded.Overrides["v"])
	})

	t.Run("loads are isolated", func(t *testing.T) {
		sess := domain.NewSession(id, domain.User{Login: "ada"})
		sess.Overrides["tree"] = map[string]any{"leaf": "original"}
		require.NoError(t, store.Save(ctx, sess))

		first, err := store.Load(ctx, id)
		require.NoError(t, err)
		first.Overrides["tree"].(map[string]any)["leaf"] = "mutated"

		second, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "original", second.Overrides["tree"].(map[string]any)["leaf"],
			"mutating one loaded session must not leak into the store")
	})

	t.Run("delete", func(t *testing.T) {
		sess := domain.NewSession(id, domain.User{Login: "ada"})
		require.NoError(t, store.Save(ctx, sess))
		require.NoError(t, store.Delete(ctx, id))

		_, err := store.Load(ctx, id)
		assert.True(t, domain.IsKind(err, domain.KindSessionNotFound))

		assert.NoError(t, store.Delete(ctx, id), "deleting an absent session is not an error")
	})
}

// RunCacheStoreContract verifies that a CacheStore implementation adheres to
// the interface contract.
func RunCacheStoreContract(t *testing.T, cache CacheStore) {
	ctx := context.Background()
	key := "contract-cache-" + time.Now().Format("20060102150405")

	t.Run("put and get", func(t *testing.T) {
		require.NoError(t, cache.Put(ctx, key, map[string]any{"Name": "Acme"}))

		v, ok, err := cache.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		payload, ok := v.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Acme", payload["Name"])
	})

	t.Run("get missing", func(t *testing.T) {
		_, ok, err := cache.Get(ctx, "missing-"+key)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("put replaces", func(t *testing.T) {
		require.NoError(t, cache.Put(ctx, key, "one"))
		require.NoError(t, cache.Put(ctx, key, "two"))

		v, ok, err := cache.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "two", v)
	})
}
