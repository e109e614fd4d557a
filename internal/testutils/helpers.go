package testutils

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// SetupTestRepo creates a temporary directory and initializes a Loam
// repository in it. It returns the absolute path to the temp dir and the
// initialized repository, failing the test immediately on error.
func SetupTestRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	tmpDir := t.TempDir()

	// Loam prefers absolute paths; t.TempDir usually returns one already.
	absPath, err := filepath.Abs(tmpDir)
	require.NoError(t, err, "failed to get absolute path for temp dir")

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "failed to init loam repo")

	return absPath, repo
}

// SeedDocument writes a document into the repository. The body is the full
// file content, frontmatter included.
func SeedDocument(t *testing.T, repo core.Repository, filename, body string) {
	t.Helper()
	require.NoError(t, repo.Save(context.Background(), core.Document{
		ID:      filename,
		Content: body,
	}), "failed to seed document %s", filename)
}
