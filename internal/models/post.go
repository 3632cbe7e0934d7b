// Package models defines the domain types for Weave.
package models

import "time"

// Metadata holds the key/value header fields of a document. Values are
// either a scalar string or an ordered []string (list-valued keys such as
// tags). Built once per document and never mutated afterwards.
type Metadata map[string]any

// String returns the scalar value for key, or fallback when the key is
// absent or not a scalar.
func (m Metadata) String(key, fallback string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}

// List returns the list value for key, or nil when the key is absent or
// holds a scalar.
func (m Metadata) List(key string) []string {
	if v, ok := m[key]; ok {
		if l, ok := v.([]string); ok {
			return l
		}
	}
	return nil
}

// Artifact is the cached processing record for one document slug. It is
// overwritten wholesale on every successful reprocessing.
type Artifact struct {
	Slug     string   `json:"slug"`
	Hash     string   `json:"hash"`
	HTML     string   `json:"html"`
	Metadata Metadata `json:"metadata"`
}

// DocumentInfo is a lightweight representation returned by list operations
// over the posts directory.
type DocumentInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
