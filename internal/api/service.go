package api

import (
	"context"
	"time"

	"github.com/weavehq/weave/internal/cache"
	"github.com/weavehq/weave/internal/index"
	"github.com/weavehq/weave/internal/models"
	"github.com/weavehq/weave/internal/pipeline"
)

// Service coordinates the pipeline, index, and artifact store for the API layer.
type Service struct {
	pipe      *pipeline.Service
	db        index.PostIndex
	artifacts cache.Store
}

// NewService creates a new API service.
func NewService(pipe *pipeline.Service, db index.PostIndex, artifacts cache.Store) *Service {
	return &Service{pipe: pipe, db: db, artifacts: artifacts}
}

// PostDetail is the response payload for a single post.
type PostDetail struct {
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Tags        []string        `json:"tags"`
	HTML        string          `json:"html"`
	Hash        string          `json:"hash"`
	Metadata    models.Metadata `json:"metadata,omitempty"`
	SourcePath  string          `json:"source_path"`
	ProcessedAt time.Time       `json:"processed_at"`
}

// PostListItem is a lightweight item in a list response.
type PostListItem struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags"`
	ProcessedAt time.Time `json:"processed_at"`
}

// GetPost looks up an indexed post and joins it with its rendered artifact.
func (s *Service) GetPost(_ context.Context, slug string) (*PostDetail, error) {
	row, err := s.db.GetPost(slug)
	if err != nil {
		return nil, err
	}
	art, err := s.artifacts.Load(slug)
	if err != nil {
		return nil, err
	}
	tags := row.Tags
	if tags == nil {
		tags = []string{}
	}
	return &PostDetail{
		Slug:        row.Slug,
		Title:       row.Title,
		Description: row.Description,
		Tags:        tags,
		HTML:        art.HTML,
		Hash:        art.Hash,
		Metadata:    art.Metadata,
		SourcePath:  row.SourcePath,
		ProcessedAt: row.ProcessedAt,
	}, nil
}

// ListPosts returns a page of indexed posts plus the total count.
func (s *Service) ListPosts(_ context.Context, limit, offset int, tag, sort string) ([]PostListItem, int, error) {
	rows, total, err := s.db.ListPosts(limit, offset, tag, sort)
	if err != nil {
		return nil, 0, err
	}
	items := make([]PostListItem, 0, len(rows))
	for _, row := range rows {
		tags := row.Tags
		if tags == nil {
			tags = []string{}
		}
		items = append(items, PostListItem{
			Slug:        row.Slug,
			Title:       row.Title,
			Description: row.Description,
			Tags:        tags,
			ProcessedAt: row.ProcessedAt,
		})
	}
	return items, total, nil
}

// Process re-runs the pipeline for the post's source file.
func (s *Service) Process(ctx context.Context, slug string, force bool) (*pipeline.Result, error) {
	row, err := s.db.GetPost(slug)
	if err != nil {
		return nil, err
	}
	return s.pipe.ProcessFile(ctx, row.SourcePath, force)
}

// ProcessPath runs the pipeline for a source path directly.
func (s *Service) ProcessPath(ctx context.Context, path string, force bool) (*pipeline.Result, error) {
	return s.pipe.ProcessFile(ctx, path, force)
}

// Render converts raw Markdown to styled HTML without touching storage.
func (s *Service) Render(_ context.Context, content string) (models.Metadata, string) {
	return s.pipe.Render(content)
}

// Search runs a full-text query against the post index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	results, err := s.db.Search(query, limit)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []index.SearchResult{}
	}
	return results, nil
}
