package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"charstream/internal/scancache"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunDetectsTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "plain.txt"), []byte("hello world\n"))
	writeFile(t, filepath.Join(root, "nested", "bom.txt"), []byte{0xFF, 0xFE, 'h', 0, 'i', 0})
	writeFile(t, filepath.Join(root, "nested", "deep", "utf8.txt"), []byte("日本語テキスト\n"))

	results, summary, err := Run(context.Background(), root, Options{Workers: 3})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Files != 3 {
		t.Fatalf("files = %d, want 3", summary.Files)
	}
	if summary.Failed != 0 {
		t.Fatalf("failed = %d, want 0", summary.Failed)
	}

	byPath := make(map[string]FileResult, len(results))
	for _, r := range results {
		byPath[filepath.Base(r.Path)] = r
	}
	if got := byPath["plain.txt"].Result.Encoding; got != "utf-8" {
		t.Errorf("plain.txt encoding = %q", got)
	}
	if r := byPath["bom.txt"]; r.Result.Encoding != "utf-16le" || !r.Result.BOMPresent {
		t.Errorf("bom.txt result = %+v", r.Result)
	}
	if got := byPath["utf8.txt"].Result.Encoding; got != "utf-8" {
		t.Errorf("utf8.txt encoding = %q", got)
	}

	// Results come back sorted regardless of worker completion order.
	for i := 1; i < len(results); i++ {
		if results[i-1].Path > results[i].Path {
			t.Fatalf("results unsorted: %q before %q", results[i-1].Path, results[i].Path)
		}
	}
}

func TestRunUsesCacheOnSecondPass(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), []byte("alpha\n"))
	writeFile(t, filepath.Join(root, "b.txt"), []byte("beta\n"))

	cache, err := scancache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	opts := Options{Workers: 2, Cache: cache}
	ctx := context.Background()

	_, first, err := Run(ctx, root, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.FromCache != 0 {
		t.Errorf("first pass from_cache = %d, want 0", first.FromCache)
	}

	results, second, err := Run(ctx, root, opts)
	if err != nil {
		t.Fatal(err)
	}
	if second.FromCache != 2 {
		t.Errorf("second pass from_cache = %d, want 2", second.FromCache)
	}
	for _, r := range results {
		if r.Result.Encoding != "utf-8" {
			t.Errorf("%s encoding = %q", r.Path, r.Result.Encoding)
		}
	}
}

func TestRunInvalidatesChangedFile(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "a.txt")
	writeFile(t, target, []byte("alpha\n"))

	cache, err := scancache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	ctx := context.Background()
	opts := Options{Cache: cache}
	if _, _, err := Run(ctx, root, opts); err != nil {
		t.Fatal(err)
	}

	writeFile(t, target, []byte("rewritten with more bytes\n"))
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(target, past, past); err != nil {
		t.Fatal(err)
	}

	_, summary, err := Run(ctx, root, opts)
	if err != nil {
		t.Fatal(err)
	}
	if summary.FromCache != 0 {
		t.Errorf("changed file served from cache: %+v", summary)
	}
}

func TestRunReportsPerFileErrors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ok.txt"), []byte("fine\n"))
	// A dangling symlink stats fine via Lstat in the walker but fails on read.
	if err := os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "broken")); err != nil {
		t.Skipf("symlink not supported: %v", err)
	}

	results, summary, err := Run(context.Background(), root, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Failed != 0 {
		// Dangling symlinks are not regular files and are skipped entirely.
		t.Errorf("failed = %d, want 0", summary.Failed)
	}
	if len(results) != 1 {
		t.Errorf("results = %d, want 1", len(results))
	}
}

func TestRunCanceledContext(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 20; i++ {
		writeFile(t, filepath.Join(root, "f"+string(rune('a'+i))+".txt"), []byte("data\n"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Run(ctx, root, Options{Workers: 2})
	if err == nil {
		t.Fatal("expected walk error after cancellation")
	}
}
