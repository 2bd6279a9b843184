package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSessionLog(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseSessionLog(t *testing.T) {
	path := writeSessionLog(t, []string{
		`{"type":"message","timestamp":"2026-08-01T10:00:00Z","content":"hi"}`,
		`not json at all`,
		`{"type":"tool_call","timestamp":"2026-08-01T10:00:05Z"}`,
		`["an","array"]`,
	})
	entries, truncated, _, err := ParseSessionLog(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if truncated {
		t.Error("small log reported truncated")
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (malformed lines skipped): %+v", len(entries), entries)
	}
	if entries[0].Type != "message" || entries[0].Line != 1 {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].Type != "tool_call" || entries[1].Line != 3 {
		t.Errorf("entries[1] = %+v", entries[1])
	}
}

func TestParseSessionLogLineCap(t *testing.T) {
	var lines []string
	for i := 0; i < 1500; i++ {
		lines = append(lines, `{"type":"message"}`)
	}
	path := writeSessionLog(t, lines)

	entries, truncated, _, err := ParseSessionLog(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if !truncated {
		t.Error("default mode should report truncation past the line cap")
	}
	if len(entries) != sessionMaxLines {
		t.Errorf("got %d entries, want %d", len(entries), sessionMaxLines)
	}

	entries, truncated, _, err = ParseSessionLog(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if truncated {
		t.Error("deep mode must not truncate")
	}
	if len(entries) != 1500 {
		t.Errorf("deep mode got %d entries, want 1500", len(entries))
	}
}

func TestParseSessionLogByteCap(t *testing.T) {
	big := `{"type":"message","content":"` + strings.Repeat("x", 4096) + `"}`
	var lines []string
	for i := 0; i < 300; i++ {
		lines = append(lines, big)
	}
	path := writeSessionLog(t, lines)

	entries, truncated, size, err := ParseSessionLog(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if !truncated {
		t.Error("oversized log should report truncation")
	}
	if int64(len(entries))*int64(len(big)) > sessionMaxBytes {
		t.Errorf("read past the byte cap: %d entries", len(entries))
	}
	if size <= sessionMaxBytes {
		t.Errorf("size = %d, want the true on-disk size", size)
	}
}

func TestParseSessionLogGiantLine(t *testing.T) {
	// One 3 MiB entry with no trailing newline must not be held whole in
	// default mode.
	line := `{"type":"message","content":"` + strings.Repeat("x", 3<<20) + `"}`
	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte(line), 0o600); err != nil {
		t.Fatal(err)
	}

	entries, truncated, size, err := ParseSessionLog(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if !truncated {
		t.Error("oversized single line should report truncation")
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries from a line past the cap, want 0", len(entries))
	}
	if size != int64(len(line)) {
		t.Errorf("size = %d, want %d", size, len(line))
	}

	entries, truncated, _, err = ParseSessionLog(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if truncated || len(entries) != 1 {
		t.Errorf("deep mode: truncated=%v entries=%d, want full parse", truncated, len(entries))
	}
}

func TestParseSessionLogMissing(t *testing.T) {
	_, _, _, err := ParseSessionLog(filepath.Join(t.TempDir(), "absent.jsonl"), false)
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
