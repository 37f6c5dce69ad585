package content

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/kapu/mathsprint-site-go/pkg/errors"
)

func writePage(t *testing.T, dir, section, name, body string) {
	t.Helper()
	sectionDir := filepath.Join(dir, section)
	if err := os.MkdirAll(sectionDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sectionDir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestStore(t *testing.T, dir string) *Store {
	t.Helper()
	store, err := NewStore(dir, slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestStoreGet(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "services", "web-development.md", `---
title: Web Development
summary: Custom web applications.
order: 1
---
We build web applications.`)

	store := newTestStore(t, dir)

	t.Run("existing page", func(t *testing.T) {
		page, err := store.Get("services", "web-development")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if page.Title != "Web Development" {
			t.Fatalf("title = %q", page.Title)
		}
		if page.Body != "We build web applications." {
			t.Fatalf("body = %q", page.Body)
		}
	})

	t.Run("unknown slug", func(t *testing.T) {
		_, err := store.Get("services", "missing")
		var notFound *apperrors.NotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("err = %v, want NotFoundError", err)
		}
	})

	t.Run("unknown section", func(t *testing.T) {
		_, err := store.Get("nope", "anything")
		var notFound *apperrors.NotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("err = %v, want NotFoundError", err)
		}
	})
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "blog", "second.md", "---\ntitle: Second\norder: 2\n---\nbody")
	writePage(t, dir, "blog", "first.md", "---\ntitle: First\norder: 1\n---\nbody")
	writePage(t, dir, "blog", "hidden.md", "---\ntitle: Hidden\ndraft: true\n---\nbody")

	store := newTestStore(t, dir)

	pages, err := store.List("blog")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("len = %d, want 2 (drafts excluded)", len(pages))
	}
	if pages[0].Slug != "first" || pages[1].Slug != "second" {
		t.Fatalf("order = [%s %s], want [first second]", pages[0].Slug, pages[1].Slug)
	}
}

func TestStoreMissingDirectory(t *testing.T) {
	store := newTestStore(t, filepath.Join(t.TempDir(), "does-not-exist"))

	pages, err := store.List("services")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pages) != 0 {
		t.Fatalf("len = %d, want 0", len(pages))
	}
}

func TestStorePageWithoutFrontMatter(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "legal", "Privacy Policy.md", "Plain body text.")

	store := newTestStore(t, dir)

	page, err := store.Get("legal", "privacy-policy")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if page.Title != "Privacy Policy" {
		t.Fatalf("title = %q", page.Title)
	}
	if page.Body != "Plain body text." {
		t.Fatalf("body = %q", page.Body)
	}
}
