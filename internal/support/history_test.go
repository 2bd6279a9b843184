package support

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestAppendHistory(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 3; i++ {
		err := AppendHistory(dir, HistoryEntry{ReportID: "r", Score: 100 - i, Grade: "A+"})
		if err != nil {
			t.Fatal(err)
		}
	}

	f, err := os.Open(filepath.Join(dir, "audit-history.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var entries []HistoryEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e HistoryEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("line not valid JSON: %v", err)
		}
		entries = append(entries, e)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[2].Score != 98 || entries[0].TimestampUtc == "" {
		t.Errorf("entries = %+v", entries)
	}
}
