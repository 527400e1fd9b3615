package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewWritesJSONAtLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", &buf)

	log.InfoObj("hidden", "k", 1)
	log.WarnObj("shown", "episodes_meta", map[string]any{"count": 2})
	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "shown" {
		t.Fatalf("msg = %v", entry["msg"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("missing ts field: %v", entry)
	}
	meta, ok := entry["episodes_meta"].(map[string]any)
	if !ok || meta["count"] != float64(2) {
		t.Fatalf("episodes_meta = %#v", entry["episodes_meta"])
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if got := parseLevel("verbose"); got.String() != "info" {
		t.Fatalf("parseLevel(verbose) = %s", got)
	}
	if got := parseLevel("warning"); got.String() != "warn" {
		t.Fatalf("parseLevel(warning) = %s", got)
	}
}

func TestPackageHelpersUseInstalledLogger(t *testing.T) {
	S = nil
	DebugObj("dropped", "k", 1)

	var buf bytes.Buffer
	New("debug", &buf)
	DebugObj("starting", "config", map[string]any{"export_path": "/tmp/x.sql"})
	ErrorObj("failed", "error", "boom")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("helper logged before a logger was installed: %q", out)
	}
	for _, want := range []string{`"msg":"starting"`, `"export_path":"/tmp/x.sql"`, `"msg":"failed"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %s: %q", want, out)
		}
	}
}
