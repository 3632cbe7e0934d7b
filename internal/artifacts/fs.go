// Package artifacts implements the on-disk artifact store: one JSON record
// per document slug, written atomically.
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/weavehq/weave/internal/apperr"
	"github.com/weavehq/weave/internal/models"
)

// FS stores artifact records as {slug}.json files under a root directory.
type FS struct {
	root string
}

// NewFS creates an FS store rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("artifacts: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("artifacts: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("artifacts: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// path validates that slug is a plain name (no separators, no traversal)
// and returns the absolute record path.
func (f *FS) path(slug string) (string, error) {
	if slug == "" {
		return "", fmt.Errorf("artifacts: slug is required")
	}
	cleaned := filepath.Clean(slug)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("artifacts: invalid slug: %s", slug)
	}
	return filepath.Join(f.root, cleaned+".json"), nil
}

// Load reads the artifact record for slug. Returns apperr.ErrNotFound when
// no record exists; other failures carry apperr.ErrStorage.
func (f *FS) Load(slug string) (*models.Artifact, error) {
	abs, err := f.path(slug)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("artifacts: load %s: %w: %w", slug, apperr.ErrStorage, err)
	}
	var a models.Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("artifacts: decode %s: %w: %w", slug, apperr.ErrStorage, err)
	}
	return &a, nil
}

// Save writes the artifact record atomically: tmp file → fsync → rename.
func (f *FS) Save(a *models.Artifact) error {
	abs, err := f.path(a.Slug)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("artifacts: encode %s: %w: %w", a.Slug, apperr.ErrStorage, err)
	}

	tmp, err := os.CreateTemp(f.root, ".weave-tmp-*")
	if err != nil {
		return fmt.Errorf("artifacts: create temp: %w: %w", apperr.ErrStorage, err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("artifacts: write temp: %w: %w", apperr.ErrStorage, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("artifacts: fsync: %w: %w", apperr.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("artifacts: close temp: %w: %w", apperr.ErrStorage, err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("artifacts: rename: %w: %w", apperr.ErrStorage, err)
	}
	success = true
	return nil
}

// Delete removes the artifact record for slug. Missing records are not an
// error.
func (f *FS) Delete(slug string) error {
	abs, err := f.path(slug)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("artifacts: delete %s: %w: %w", slug, apperr.ErrStorage, err)
	}
	return nil
}

// Slugs returns every slug with a stored artifact record.
func (f *FS) Slugs() ([]string, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("artifacts: list: %w: %w", apperr.ErrStorage, err)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ".json"))
	}
	return out, nil
}
