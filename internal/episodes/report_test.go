package episodes

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestWriteReportTSV(t *testing.T) {
	res, err := Extract(export(
		row(uuidA, "2025-09-09", "es", "20", "Zeta"),
		row(uuidB, "2025-01-01", "es", "10", "Alpha"),
	))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteReport(&buf, res, FormatTSV); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}

	want := "Found 2 ES episodes\n\n" +
		"2025-01-01\t10\tAlpha\n" +
		"2025-09-09\t20\tZeta\n"
	if buf.String() != want {
		t.Fatalf("report mismatch\n got: %q\nwant: %q", buf.String(), want)
	}
}

func TestWriteReportEmpty(t *testing.T) {
	res, err := Extract("")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	for _, format := range []string{"", FormatTSV, FormatTable} {
		var buf bytes.Buffer
		if err := WriteReport(&buf, res, format); err != nil {
			t.Fatalf("WriteReport(%q): %v", format, err)
		}
		if buf.String() != "Found 0 ES episodes\n\n" {
			t.Fatalf("format %q: got %q", format, buf.String())
		}
	}
}

func TestWriteReportTable(t *testing.T) {
	res, err := Extract(export(row(uuidA, "2025-01-01", "es", "10", "Alpha")))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteReport(&buf, res, FormatTable); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Found 1 ES episodes", "SLUG", "TITLE", "2025-01-01", "Alpha"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteReportUnknownFormatWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, &Result{}, "csv"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestWriteReportPropagatesWriteError(t *testing.T) {
	if err := WriteReport(failingWriter{}, &Result{}, FormatTSV); err == nil {
		t.Fatalf("expected write error")
	}
}
