package display

import (
	"bytes"
	"strings"
	"testing"
)

func TestWarningDisplayFull(t *testing.T) {
	var buf bytes.Buffer
	Warning{
		Title:      "unreadable entries",
		Message:    "2 entries could not be read and were skipped",
		Paths:      []string{"secrets", "tmp/socket"},
		Suggestion: "check permissions",
	}.Display(&buf)

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), out)
	}
	if lines[0] != "\x1b[33mwarning: unreadable entries\x1b[0m" {
		t.Errorf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "  2 entries could not be read and were skipped" {
		t.Errorf("unexpected message line: %q", lines[1])
	}
	if lines[2] != "    - secrets" || lines[3] != "    - tmp/socket" {
		t.Errorf("unexpected path lines: %q, %q", lines[2], lines[3])
	}
	if lines[4] != "  check permissions" {
		t.Errorf("unexpected suggestion line: %q", lines[4])
	}
}

func TestWarningTitleOnly(t *testing.T) {
	var buf bytes.Buffer
	Warning{Title: "just a heads up"}.Display(&buf)

	out := buf.String()
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected a single line, got: %q", out)
	}
	if !strings.Contains(out, "warning: just a heads up") {
		t.Errorf("missing title: %q", out)
	}
}

func TestWarningColorFramesHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	Warning{Title: "t", Paths: []string{"one"}}.Display(&buf)

	out := buf.String()
	if strings.Count(out, "\x1b[33m") != 1 || strings.Count(out, "\x1b[0m") != 1 {
		t.Errorf("expected color on the header line only: %q", out)
	}
	if !strings.Contains(out, "    - one") {
		t.Errorf("expected plain bulleted path: %q", out)
	}
}

func TestWarnScanErrors(t *testing.T) {
	w := WarnScanErrors(3, []string{"a", "b", "c"})
	if w.Title != "unreadable entries" {
		t.Errorf("unexpected title %q", w.Title)
	}
	if w.Message != "3 entries could not be read and were skipped" {
		t.Errorf("unexpected message %q", w.Message)
	}
	if len(w.Paths) != 3 {
		t.Errorf("expected 3 paths, got %d", len(w.Paths))
	}
}

func TestWarnScanErrorsTruncatedSample(t *testing.T) {
	w := WarnScanErrors(14, []string{"a", "b"})
	if !strings.Contains(w.Message, "first 2 shown") {
		t.Errorf("expected truncation notice, got %q", w.Message)
	}
}
