// Package file provides a file-backed session store: one JSON document per
// session in a flat directory. Suited to single-node deployments that want
// sessions to survive restarts without running a Redis.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/priceflex/intercept/pkg/domain"
)

// Store implements ports.SessionStore on the local filesystem.
type Store struct {
	dir string
}

// New creates a store rooted at dir. An empty dir defaults to
// ".priceflex/sessions".
func New(dir string) *Store {
	if dir == "" {
		dir = filepath.Join(".priceflex", "sessions")
	}
	return &Store{dir: dir}
}

func (s *Store) path(id string) string { return filepath.Join(s.dir, id+".json") }

// Save persists the session atomically: write to a temp file in the same
// directory, fsync, rename over the destination. A crash mid-save leaves the
// previous snapshot intact.
func (s *Store) Save(ctx context.Context, sess *domain.Session) error {
	if err := checkID(sess.ID); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("ensure session directory: %w", err)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	// Same directory, so the rename stays on one filesystem.
	tmp, err := os.CreateTemp(s.dir, "tmp-"+sess.ID+"-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path(sess.ID)); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

// Load retrieves a session by ID.
func (s *Store) Load(ctx context.Context, id string) (*domain.Session, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.Newf(domain.KindSessionNotFound, "session %q not found", id)
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

// Delete removes the session file. Absent IDs are a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete session file: %w", err)
	}
	return nil
}

// Session IDs become file names. Anything that does not survive
// filepath.Base unchanged could escape the store directory and is rejected.
func checkID(id string) error {
	if id == "" {
		return fmt.Errorf("empty session id")
	}
	if filepath.Base(id) != id || id == "." || id == ".." {
		return fmt.Errorf("session id %q is not a file name", id)
	}
	return nil
}
