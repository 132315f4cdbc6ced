package scancache

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return store
}

func TestRecordAndLookup(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	entry := Entry{
		Path:       "/data/report.txt",
		Size:       1024,
		MTimeNanos: 1700000000000000000,
		Encoding:   "windows-1252",
		Confidence: 0.82,
		BOMPresent: false,
		Newlines:   "CRLF",
	}
	if err := store.Record(ctx, entry); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, ok, err := store.Lookup(ctx, entry.Path, entry.Size, entry.MTimeNanos)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok {
		t.Fatal("entry not found")
	}
	if got.Encoding != "windows-1252" || got.Confidence != 0.82 || got.Newlines != "CRLF" {
		t.Errorf("unexpected entry: %+v", got)
	}
	if got.DetectedAt.IsZero() {
		t.Error("DetectedAt not populated")
	}
}

func TestLookupMissesOnChange(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	entry := Entry{Path: "/data/a.txt", Size: 10, MTimeNanos: 100, Encoding: "utf-8", Confidence: 1}
	if err := store.Record(ctx, entry); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		path  string
		size  int64
		mtime int64
	}{
		{"different size", "/data/a.txt", 11, 100},
		{"different mtime", "/data/a.txt", 10, 101},
		{"unknown path", "/data/b.txt", 10, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := store.Lookup(ctx, tt.path, tt.size, tt.mtime)
			if err != nil {
				t.Fatal(err)
			}
			if ok {
				t.Error("stale entry returned")
			}
		})
	}
}

func TestRecordReplacesExisting(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := Entry{Path: "/data/a.txt", Size: 10, MTimeNanos: 100, Encoding: "iso-8859-1", Confidence: 0.4, DetectedAt: time.Now().UTC()}
	if err := store.Record(ctx, first); err != nil {
		t.Fatal(err)
	}
	second := first
	second.Size = 20
	second.MTimeNanos = 200
	second.Encoding = "utf-8"
	second.Confidence = 1
	second.BOMPresent = true
	if err := store.Record(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, ok, err := store.Lookup(ctx, "/data/a.txt", 20, 200)
	if err != nil || !ok {
		t.Fatalf("Lookup after replace: ok=%v err=%v", ok, err)
	}
	if got.Encoding != "utf-8" || !got.BOMPresent {
		t.Errorf("replacement not applied: %+v", got)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestForgetAndPurge(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, path := range []string{"/a", "/b", "/c"} {
		if err := store.Record(ctx, Entry{Path: path, Size: 1, MTimeNanos: 1, Encoding: "utf-8", Confidence: 1}); err != nil {
			t.Fatal(err)
		}
	}

	if err := store.Forget(ctx, "/b"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := store.Lookup(ctx, "/b", 1, 1); ok {
		t.Error("forgotten entry still present")
	}

	removed, err := store.Purge(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Errorf("purged %d entries, want 2", removed)
	}
	count, err := store.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("count after purge = %d", count)
	}
}

func TestConcurrentRecords(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- store.Record(ctx, Entry{
				Path:       fmt.Sprintf("/data/%d.txt", i),
				Size:       int64(i),
				MTimeNanos: int64(i),
				Encoding:   "utf-8",
				Confidence: 1,
			})
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Record: %v", err)
		}
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != writers {
		t.Errorf("count = %d, want %d", count, writers)
	}
	for i := 0; i < writers; i++ {
		_, ok, err := store.Lookup(ctx, fmt.Sprintf("/data/%d.txt", i), int64(i), int64(i))
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Errorf("entry %d missing after concurrent writes", i)
		}
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.db")
	ctx := context.Background()

	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Record(ctx, Entry{Path: "/a", Size: 5, MTimeNanos: 7, Encoding: "euc-kr", Confidence: 0.9}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, ok, err := reopened.Lookup(ctx, "/a", 5, 7)
	if err != nil || !ok {
		t.Fatalf("Lookup after reopen: ok=%v err=%v", ok, err)
	}
	if got.Encoding != "euc-kr" {
		t.Errorf("encoding = %q", got.Encoding)
	}
}
