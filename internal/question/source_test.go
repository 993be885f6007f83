package question

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestBundleSource(t *testing.T) {
	dir := t.TempDir()
	bank := `[{"id":"q1","text":"Q","options":["x","y"],"answer":"a"}]`
	if err := os.WriteFile(filepath.Join(dir, "nav-1.json"), []byte(bank), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	src := NewBundleSource(dir)

	qs, err := src.FetchQuestions(context.Background(), "nav-1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(qs) != 1 || qs[0].ID != "q1" {
		t.Fatalf("questions = %+v", qs)
	}
}

func TestBundleSourceMissingPaper(t *testing.T) {
	src := NewBundleSource(t.TempDir())
	if _, err := src.FetchQuestions(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing paper should be ErrNotFound, got %v", err)
	}
}

func TestBundleSourceEmptySetIsNotFound(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "empty.json"), []byte(`[]`), 0o644)
	src := NewBundleSource(dir)
	if _, err := src.FetchQuestions(context.Background(), "empty"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty set should be ErrNotFound, got %v", err)
	}
}

func TestBundleSourceRejectsTraversal(t *testing.T) {
	src := NewBundleSource(t.TempDir())
	for _, key := range []string{"../secrets", "/etc/passwd", "."} {
		if _, err := src.FetchQuestions(context.Background(), key); !errors.Is(err, ErrNotFound) {
			t.Fatalf("key %q should be rejected as not-found, got %v", key, err)
		}
	}
}
