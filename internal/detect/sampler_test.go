package detect

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.txt")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSamplePrefix(t *testing.T) {
	data := []byte(strings.Repeat("0123456789", 100))
	path := writeTempFile(t, data)

	got, err := Sample(path, 64)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data[:64]) {
		t.Errorf("Sample returned %d bytes, want the 64-byte prefix", len(got))
	}
}

func TestSampleSmallFile(t *testing.T) {
	data := []byte("tiny")
	path := writeTempFile(t, data)

	got, err := Sample(path, 1024)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("Sample = %q, want %q", got, data)
	}
}

func TestSampleMissingFile(t *testing.T) {
	if _, err := Sample(filepath.Join(t.TempDir(), "nope.txt"), 1024); err == nil {
		t.Fatal("Sample on missing file succeeded")
	}
}

func TestStrategicSampleSmallFileReadWhole(t *testing.T) {
	data := []byte("entire file fits in the budget")
	path := writeTempFile(t, data)

	got, err := StrategicSample(path, 1024)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("StrategicSample = %q, want whole file", got)
	}
}

func TestStrategicSampleCoversTail(t *testing.T) {
	// A large file that is ASCII up front and marked at the very end; a
	// prefix sample would miss the tail marker.
	head := bytes.Repeat([]byte("a"), 8000)
	tail := []byte("TAIL-MARKER")
	path := writeTempFile(t, append(head, tail...))

	got, err := StrategicSample(path, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) > 1100 {
		t.Errorf("sample size %d exceeds budget margin", len(got))
	}
	if !bytes.Contains(got, tail) {
		t.Error("strategic sample does not include the file tail")
	}
	if !bytes.Contains(got, []byte("aaaa")) {
		t.Error("strategic sample does not include the file head")
	}
}
