package support

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// HistoryEntry is one line of the append-only scan history kept inside the
// installation directory. It carries outcome counters only, never finding
// text, so the history file can not leak secrets.
type HistoryEntry struct {
	TimestampUtc string `json:"timestampUtc"`
	ReportID     string `json:"reportId"`
	Score        int    `json:"score"`
	Grade        string `json:"grade"`
	Findings     int    `json:"findings"`
	Suggestions  int    `json:"suggestions"`
	ChecksRun    int    `json:"checksRun"`
	DurationMS   int64  `json:"durationMs"`
}

// AppendHistory appends one entry to <installDir>/audit-history.jsonl.
func AppendHistory(installDir string, entry HistoryEntry) error {
	entry.TimestampUtc = time.Now().UTC().Format(time.RFC3339)
	path := filepath.Join(installDir, "audit-history.jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}
