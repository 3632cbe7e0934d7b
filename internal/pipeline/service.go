// Package pipeline orchestrates document processing: read a Markdown source,
// extract its metadata header, render styled HTML, decide via the content
// cache whether downstream work is needed, and persist artifact + index.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/weavehq/weave/internal/apperr"
	"github.com/weavehq/weave/internal/cache"
	"github.com/weavehq/weave/internal/checksum"
	"github.com/weavehq/weave/internal/frontmatter"
	"github.com/weavehq/weave/internal/index"
	"github.com/weavehq/weave/internal/markdown"
	"github.com/weavehq/weave/internal/models"
	"github.com/weavehq/weave/internal/storage"
	"github.com/weavehq/weave/internal/style"
)

// Service coordinates storage, rendering, cache, and index operations.
type Service struct {
	store     storage.Provider
	artifacts cache.Store
	db        index.PostIndex
	parser    *markdown.Parser
	logger    *slog.Logger
}

// NewService creates a processing service. A nil styles table selects the
// built-in defaults; a nil logger discards nothing and defaults to slog.
func NewService(store storage.Provider, artifactStore cache.Store, db index.PostIndex, styles style.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     store,
		artifacts: artifactStore,
		db:        db,
		parser:    markdown.New(styles),
		logger:    logger,
	}
}

// Result describes the outcome of processing one document.
type Result struct {
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Tags        []string        `json:"tags"`
	HTML        string          `json:"html"`
	Metadata    models.Metadata `json:"metadata"`
	Skipped     bool            `json:"skipped"`
}

// ProcessFile processes a single source document. The rendered output is
// persisted and indexed unless the content cache reports it unchanged (and
// force is unset), in which case the result is marked Skipped. Storage
// failures from the artifact store propagate unhandled.
func (s *Service) ProcessFile(_ context.Context, path string, force bool) (*Result, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	meta, body := frontmatter.Extract(string(data))

	stem := strings.TrimSuffix(filepath.Base(path), ".md")
	title := meta.String("title", stem)
	slug := meta.String("slug", slugify(stem))
	description := meta.String("description", "")
	tags := meta.List("tags")
	if tags == nil {
		tags = []string{}
	}

	html := s.parser.RenderCard(body)

	// The index row is refreshed on every pass so listings stay accurate
	// even when the artifact is unchanged.
	row := index.PostRow{
		Slug:        slug,
		Title:       title,
		SourcePath:  path,
		Checksum:    checksum.Sum(data),
		Description: description,
		Tags:        tags,
		ProcessedAt: time.Now(),
	}
	if err := s.db.UpsertPost(row, body); err != nil {
		return nil, err
	}

	res := &Result{
		Slug:        slug,
		Title:       title,
		Description: description,
		Tags:        tags,
		HTML:        html,
	}

	need, err := cache.NeedsReprocessing(s.artifacts, slug, html, force)
	if err != nil {
		return nil, err
	}
	if !need {
		res.Skipped = true
		s.logger.Debug("pipeline: skipped unchanged", slog.String("slug", slug))
		return res, nil
	}

	snapshot := models.Metadata{
		"title":       title,
		"slug":        slug,
		"description": description,
		"tags":        tags,
		"source_file": filepath.Base(path),
	}
	if err := cache.Persist(s.artifacts, slug, html, snapshot); err != nil {
		return nil, err
	}
	res.Metadata = snapshot

	s.logger.Info("pipeline: processed", slog.String("slug", slug), slog.String("path", path))
	return res, nil
}

// RemoveSource drops the index row and artifact for a source file that no
// longer exists. Returns the removed slug, or apperr.ErrNotFound when the
// path was never indexed.
func (s *Service) RemoveSource(path string) (string, error) {
	slug, err := s.db.DeleteBySourcePath(path)
	if err != nil {
		return "", err
	}
	if err := s.artifacts.Delete(slug); err != nil {
		return slug, err
	}
	return slug, nil
}

// Render converts raw Markdown to the card-wrapped HTML without touching
// storage, cache, or index. Used for ad-hoc previews.
func (s *Service) Render(content string) (models.Metadata, string) {
	meta, body := frontmatter.Extract(content)
	return meta, s.parser.RenderCard(body)
}

// Sync processes every .md file in the posts directory and removes index
// entries whose source files are gone. Per-file failures are logged and do
// not abort the run. Returns the results of all freshly processed (not
// skipped) documents.
func (s *Service) Sync(ctx context.Context, force bool) ([]*Result, error) {
	metas, err := s.store.List("")
	if err != nil {
		return nil, err
	}

	indexed, err := s.db.AllChecksums()
	if err != nil {
		return nil, err
	}

	disk := make(map[string]struct{}, len(metas))
	var processed []*Result
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		res, err := s.ProcessFile(ctx, m.Path, force)
		if err != nil {
			s.logger.Warn("sync: process failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if !res.Skipped {
			processed = append(processed, res)
		}
	}

	// Remove stale entries.
	for p := range indexed {
		if _, ok := disk[p]; !ok {
			if slug, err := s.RemoveSource(p); err != nil {
				s.logger.Warn("sync: remove stale failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				s.logger.Debug("sync: removed stale", slog.String("slug", slug))
			}
		}
	}

	return processed, nil
}

// slugify derives a URL-safe slug from a file name stem.
func slugify(stem string) string {
	return strings.ReplaceAll(strings.ToLower(stem), " ", "-")
}
