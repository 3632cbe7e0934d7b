package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/weavehq/weave/internal/apperr"
	"github.com/weavehq/weave/internal/testutil"
)

func testService(t *testing.T) *Service {
	t.Helper()
	_, store := testutil.TestPosts(t)
	return NewService(store, testutil.TestArtifacts(t), testutil.TestDB(t), nil, nil)
}

const samplePost = `---
title: My First Post
slug: first-post
description: An introduction
tags: [go, web]
---
# Welcome

Some **bold** text.
`

func TestProcessFile_FullRun(t *testing.T) {
	svc := testService(t)
	if err := svc.store.Write("first.md", []byte(samplePost)); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := svc.ProcessFile(context.Background(), "first.md", false)
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if res.Skipped {
		t.Error("first run must not be skipped")
	}
	if res.Slug != "first-post" || res.Title != "My First Post" {
		t.Errorf("result = %+v", res)
	}
	if len(res.Tags) != 2 {
		t.Errorf("tags = %v", res.Tags)
	}
	if !strings.Contains(res.HTML, "<h1 ") || !strings.Contains(res.HTML, "<strong") {
		t.Errorf("rendered html incomplete:\n%s", res.HTML)
	}

	// Artifact persisted.
	a, err := svc.artifacts.Load("first-post")
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	if a.HTML != res.HTML {
		t.Error("artifact html differs from result")
	}
	if a.Metadata.String("source_file", "") != "first.md" {
		t.Errorf("metadata = %v", a.Metadata)
	}

	// Indexed.
	row, err := svc.db.GetPost("first-post")
	if err != nil {
		t.Fatalf("index row missing: %v", err)
	}
	if row.SourcePath != "first.md" {
		t.Errorf("source path = %q", row.SourcePath)
	}
}

func TestProcessFile_SkipsUnchanged(t *testing.T) {
	svc := testService(t)
	_ = svc.store.Write("post.md", []byte(samplePost))

	first, err := svc.ProcessFile(context.Background(), "post.md", false)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := svc.ProcessFile(context.Background(), "post.md", false)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.Skipped || !second.Skipped {
		t.Errorf("skipped = %v then %v, want false then true", first.Skipped, second.Skipped)
	}
}

func TestProcessFile_ForceOverridesCache(t *testing.T) {
	svc := testService(t)
	_ = svc.store.Write("post.md", []byte(samplePost))

	_, _ = svc.ProcessFile(context.Background(), "post.md", false)
	res, err := svc.ProcessFile(context.Background(), "post.md", true)
	if err != nil {
		t.Fatalf("forced: %v", err)
	}
	if res.Skipped {
		t.Error("forced run must not be skipped")
	}
}

func TestProcessFile_ChangedContentReprocessed(t *testing.T) {
	svc := testService(t)
	_ = svc.store.Write("post.md", []byte(samplePost))
	_, _ = svc.ProcessFile(context.Background(), "post.md", false)

	_ = svc.store.Write("post.md", []byte(samplePost+"\nAnother paragraph.\n"))
	res, err := svc.ProcessFile(context.Background(), "post.md", false)
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if res.Skipped {
		t.Error("changed content must be reprocessed")
	}
}

func TestProcessFile_DefaultsFromFilename(t *testing.T) {
	svc := testService(t)
	_ = svc.store.Write("My Fancy Post.md", []byte("no frontmatter body"))

	res, err := svc.ProcessFile(context.Background(), "My Fancy Post.md", false)
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if res.Title != "My Fancy Post" {
		t.Errorf("title = %q", res.Title)
	}
	if res.Slug != "my-fancy-post" {
		t.Errorf("slug = %q", res.Slug)
	}
}

func TestProcessFile_Missing(t *testing.T) {
	svc := testService(t)
	_, err := svc.ProcessFile(context.Background(), "ghost.md", false)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRemoveSource(t *testing.T) {
	svc := testService(t)
	_ = svc.store.Write("post.md", []byte(samplePost))
	_, _ = svc.ProcessFile(context.Background(), "post.md", false)

	slug, err := svc.RemoveSource("post.md")
	if err != nil {
		t.Fatalf("RemoveSource: %v", err)
	}
	if slug != "first-post" {
		t.Errorf("slug = %q", slug)
	}
	if _, err := svc.db.GetPost("first-post"); !errors.Is(err, apperr.ErrNotFound) {
		t.Error("index row should be gone")
	}
	if _, err := svc.artifacts.Load("first-post"); !errors.Is(err, apperr.ErrNotFound) {
		t.Error("artifact should be gone")
	}
}

func TestRender_Preview(t *testing.T) {
	svc := testService(t)
	meta, html := svc.Render("---\ntitle: Draft\n---\n# Hi")
	if meta.String("title", "") != "Draft" {
		t.Errorf("meta = %v", meta)
	}
	if !strings.Contains(html, "<h1 ") {
		t.Errorf("html = %s", html)
	}
}

func TestSync_ProcessesAllAndRemovesStale(t *testing.T) {
	svc := testService(t)
	_ = svc.store.Write("a.md", []byte("---\nslug: a\n---\nAlpha"))
	_ = svc.store.Write("b.md", []byte("---\nslug: b\n---\nBravo"))

	results, err := svc.Sync(context.Background(), false)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}

	// Second sync: nothing changed, nothing returned.
	results, err = svc.Sync(context.Background(), false)
	if err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want 0 on unchanged rerun", len(results))
	}

	// Remove a source file; sync drops it from the index.
	_ = svc.store.Delete("b.md")
	if _, err = svc.Sync(context.Background(), false); err != nil {
		t.Fatalf("third Sync: %v", err)
	}
	if _, err := svc.db.GetPost("b"); !errors.Is(err, apperr.ErrNotFound) {
		t.Error("stale post should be removed from index")
	}
}

func TestSync_ForceReturnsEverything(t *testing.T) {
	svc := testService(t)
	_ = svc.store.Write("a.md", []byte("Alpha"))
	_, _ = svc.Sync(context.Background(), false)

	results, err := svc.Sync(context.Background(), true)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("results = %d, want 1 under force", len(results))
	}
}
