// Package cache decides whether a document needs reprocessing by comparing
// a fingerprint of its fully rendered output against the stored artifact.
package cache

import (
	"errors"

	"github.com/weavehq/weave/internal/apperr"
	"github.com/weavehq/weave/internal/checksum"
	"github.com/weavehq/weave/internal/models"
)

// Store persists one artifact record per document slug. Implementations
// return apperr.ErrNotFound from Load when no record exists and wrap other
// failures with apperr.ErrStorage.
type Store interface {
	Load(slug string) (*models.Artifact, error)
	Save(a *models.Artifact) error
	Delete(slug string) error
}

// Fingerprint returns the stable digest of rendered content.
func Fingerprint(content string) string {
	return checksum.Sum([]byte(content))
}

// NeedsReprocessing reports whether the document must be reprocessed: always
// when forced, when no prior artifact exists, or when the fingerprint of the
// new content differs from the stored one. Storage failures propagate.
func NeedsReprocessing(store Store, slug, content string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	prior, err := store.Load(slug)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	return prior.Hash != Fingerprint(content), nil
}

// Persist overwrites the artifact for slug wholesale: new fingerprint, full
// rendered content, and metadata snapshot.
func Persist(store Store, slug, content string, meta models.Metadata) error {
	return store.Save(&models.Artifact{
		Slug:     slug,
		Hash:     Fingerprint(content),
		HTML:     content,
		Metadata: meta,
	})
}
