// Package storage defines the posts-directory file-system abstraction.
package storage

import "github.com/weavehq/weave/internal/models"

// Provider is the interface for source document file operations.
type Provider interface {
	// List returns metadata for every .md file under dir (relative to the posts root).
	List(dir string) ([]models.DocumentInfo, error)
	// Read returns the raw bytes of the file at path (relative to the posts root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to the posts root).
	Write(path string, content []byte) error
	// Delete removes the file at path (relative to the posts root).
	Delete(path string) error
	// Move renames oldPath to newPath (both relative to the posts root).
	Move(oldPath, newPath string) error
}
