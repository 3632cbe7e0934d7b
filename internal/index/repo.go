package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/weavehq/weave/internal/apperr"
)

// PostRow represents a row in the posts table.
type PostRow struct {
	Slug        string
	Title       string
	SourcePath  string
	Checksum    string
	Description string
	Tags        []string
	ProcessedAt time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Slug    string
	Title   string
	Snippet string
}

// UpsertPost inserts or replaces a post and its FTS entry within a transaction.
func (db *DB) UpsertPost(p PostRow, body string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	tagsJSON, _ := json.Marshal(p.Tags)

	// Upsert posts table (includes body for fallback search).
	_, err = tx.Exec(`
		INSERT INTO posts (slug, title, source_path, checksum, description, tags, body, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			title        = excluded.title,
			source_path  = excluded.source_path,
			checksum     = excluded.checksum,
			description  = excluded.description,
			tags         = excluded.tags,
			body         = excluded.body,
			processed_at = excluded.processed_at
	`, p.Slug, p.Title, p.SourcePath, p.Checksum, p.Description, string(tagsJSON), body, p.ProcessedAt)
	if err != nil {
		return fmt.Errorf("index: upsert post: %w", err)
	}

	// FTS upsert (no-op when FTS5 tag is absent).
	if err := ftsUpsert(tx, p.Slug, p.Title, body, p.Tags); err != nil {
		return err
	}

	return tx.Commit()
}

// DeletePost removes a post and its FTS entry.
func (db *DB) DeletePost(slug string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, slug)
	_, _ = tx.Exec(`DELETE FROM posts WHERE slug = ?`, slug)

	return tx.Commit()
}

// DeleteBySourcePath removes the post indexed for the given source file and
// returns its slug, or apperr.ErrNotFound when none is indexed.
func (db *DB) DeleteBySourcePath(path string) (string, error) {
	slug, err := db.SlugForPath(path)
	if err != nil {
		return "", err
	}
	return slug, db.DeletePost(slug)
}

// SlugForPath returns the slug indexed for the given source file.
func (db *DB) SlugForPath(path string) (string, error) {
	var slug string
	err := db.conn.QueryRow(`SELECT slug FROM posts WHERE source_path = ?`, path).Scan(&slug)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("index: slug for path: %w", err)
	}
	return slug, nil
}

// GetPost returns the indexed row for slug, or apperr.ErrNotFound.
func (db *DB) GetPost(slug string) (*PostRow, error) {
	var p PostRow
	var tagsJSON string
	err := db.conn.QueryRow(`
		SELECT slug, title, source_path, checksum, description, tags, processed_at
		FROM posts WHERE slug = ?
	`, slug).Scan(&p.Slug, &p.Title, &p.SourcePath, &p.Checksum, &p.Description, &tagsJSON, &p.ProcessedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get post: %w", err)
	}
	_ = json.Unmarshal([]byte(tagsJSON), &p.Tags)
	return &p, nil
}

// ListPosts returns paginated posts with an optional tag filter.
// sort must be one of processed_at, title, slug (default processed_at desc).
func (db *DB) ListPosts(limit, offset int, tag, sort string) ([]PostRow, int, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	orderBy := "processed_at DESC"
	switch sort {
	case "title":
		orderBy = "title ASC"
	case "slug":
		orderBy = "slug ASC"
	case "", "processed_at":
	default:
		return nil, 0, fmt.Errorf("index: invalid sort: %s", sort)
	}

	where := ""
	args := []any{}
	if tag != "" {
		// Tags are stored as a JSON array of strings.
		where = `WHERE tags LIKE ?`
		args = append(args, `%"`+tag+`"%`)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM posts `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count posts: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT slug, title, source_path, checksum, description, tags, processed_at
		FROM posts %s ORDER BY %s LIMIT ? OFFSET ?
	`, where, orderBy)
	args = append(args, limit, offset)

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list posts: %w", err)
	}
	defer rows.Close()

	var out []PostRow
	for rows.Next() {
		var p PostRow
		var tagsJSON string
		if err := rows.Scan(&p.Slug, &p.Title, &p.SourcePath, &p.Checksum, &p.Description, &tagsJSON, &p.ProcessedAt); err != nil {
			return nil, 0, err
		}
		_ = json.Unmarshal([]byte(tagsJSON), &p.Tags)
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// AllChecksums returns the source checksum for every indexed post, keyed by
// source path.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT source_path, checksum FROM posts`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}
