package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandlerRendersComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	scoped := NewComponentLogger(logger, "detector")
	scoped.Info("detection complete",
		String("encoding", "utf-8"),
		Float64("confidence", 1),
		Int64("bytes", 42),
	)

	line := buf.String()
	if !strings.Contains(line, " INFO detector: detection complete") {
		t.Errorf("line missing component header: %q", line)
	}
	for _, want := range []string{"encoding=utf-8", "confidence=1", "bytes=42"} {
		if !strings.Contains(line, want) {
			t.Errorf("line missing %q: %q", want, line)
		}
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("converted", String("path", "my file.txt"))
	if !strings.Contains(buf.String(), `path="my file.txt"`) {
		t.Errorf("unquoted value: %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record passed a warn-level logger: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestJSONHandlerFieldNames(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.Error("conversion failed", Error(errors.New("disk full")))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if record["level"] != "error" {
		t.Errorf("level = %v, want error", record["level"])
	}
	if record["msg"] != "conversion failed" {
		t.Errorf("msg = %v", record["msg"])
	}
	if _, ok := record["ts"]; !ok {
		t.Error("missing ts field")
	}
	if record["error"] != "disk full" {
		t.Errorf("error = %v, want disk full", record["error"])
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	logger.Info("discarded", String("key", "value"))
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("nop logger reports enabled")
	}
}
