package file_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priceflex/intercept/pkg/adapters/file"
	"github.com/priceflex/intercept/pkg/domain"
	"github.com/priceflex/intercept/pkg/ports"
)

func TestStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, file.New(t.TempDir()))
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := t.Context()

	sess := domain.NewSession("s-1", domain.User{Login: "ada"})
	require.NoError(t, store.Save(ctx, sess))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "s-1.json", entries[0].Name())
}

func TestRejectsPathEscapingIDs(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := t.Context()

	for _, id := range []string{"", "..", "a/b", "../outside"} {
		sess := domain.NewSession(id, domain.User{})
		assert.Error(t, store.Save(ctx, sess), "id %q", id)
		_, err := store.Load(ctx, id)
		assert.Error(t, err, "id %q", id)
	}

	// Nothing may have been written outside the store directory.
	parent, err := os.ReadDir(filepath.Dir(dir))
	require.NoError(t, err)
	for _, entry := range parent {
		assert.False(t, strings.HasSuffix(entry.Name(), ".json"),
			"unexpected session file %s outside the store", entry.Name())
	}
}

func TestDefaultDirectory(t *testing.T) {
	t.Chdir(t.TempDir())

	store := file.New("")
	ctx := t.Context()

	require.NoError(t, store.Save(ctx, domain.NewSession("s-9", domain.User{})))
	_, err := os.Stat(filepath.Join(".priceflex", "sessions", "s-9.json"))
	assert.NoError(t, err)
}
