package artifacts

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/weavehq/weave/internal/apperr"
	"github.com/weavehq/weave/internal/models"
)

func tempStore(t *testing.T) *FS {
	t.Helper()
	s, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return s
}

func TestSaveAndLoad(t *testing.T) {
	s := tempStore(t)
	in := &models.Artifact{
		Slug: "hello-world",
		Hash: "abc123",
		HTML: "<div>hi</div>",
		Metadata: models.Metadata{
			"title": "Hello",
			"tags":  []string{"go", "web"},
		},
	}
	if err := s.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load("hello-world")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Slug != in.Slug || got.Hash != in.Hash || got.HTML != in.HTML {
		t.Errorf("loaded = %+v", got)
	}
	if got.Metadata.String("title", "") != "Hello" {
		t.Errorf("metadata title = %v", got.Metadata["title"])
	}
}

func TestLoad_Missing(t *testing.T) {
	s := tempStore(t)
	_, err := s.Load("nope")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSave_Overwrites(t *testing.T) {
	s := tempStore(t)
	_ = s.Save(&models.Artifact{Slug: "p", Hash: "one", HTML: "a"})
	if err := s.Save(&models.Artifact{Slug: "p", Hash: "two", HTML: "b"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load("p")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Hash != "two" || got.HTML != "b" {
		t.Errorf("record not overwritten: %+v", got)
	}
}

func TestRecordFormat(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	_ = s.Save(&models.Artifact{
		Slug:     "fmt-check",
		Hash:     "deadbeef",
		HTML:     "<div/>",
		Metadata: models.Metadata{"tags": []string{"a"}},
	})

	data, err := os.ReadFile(filepath.Join(dir, "fmt-check.json"))
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("record is not valid JSON: %v", err)
	}
	for _, key := range []string{"slug", "hash", "html", "metadata"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("record missing %q field", key)
		}
	}
	meta := raw["metadata"].(map[string]any)
	if _, ok := meta["tags"].([]any); !ok {
		t.Errorf("tags not serialized as a list: %v", meta["tags"])
	}
}

func TestDelete(t *testing.T) {
	s := tempStore(t)
	_ = s.Save(&models.Artifact{Slug: "gone", Hash: "h", HTML: "x"})
	if err := s.Delete("gone"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load("gone"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after delete", err)
	}
	// Deleting again is not an error.
	if err := s.Delete("gone"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestInvalidSlugRejected(t *testing.T) {
	s := tempStore(t)
	for _, slug := range []string{"", "../escape", "a/b"} {
		if _, err := s.Load(slug); err == nil {
			t.Errorf("Load(%q) should fail", slug)
		}
	}
}

func TestSlugs(t *testing.T) {
	s := tempStore(t)
	_ = s.Save(&models.Artifact{Slug: "one", Hash: "h", HTML: "x"})
	_ = s.Save(&models.Artifact{Slug: "two", Hash: "h", HTML: "x"})
	slugs, err := s.Slugs()
	if err != nil {
		t.Fatalf("Slugs: %v", err)
	}
	if len(slugs) != 2 {
		t.Errorf("slugs = %v, want 2 entries", slugs)
	}
}
