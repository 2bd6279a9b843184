package audit

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strings"
)

// Session-log reads are bounded in the default mode so a scan never loads an
// unbounded transcript into memory. Deep mode lifts both caps.
const (
	sessionMaxBytes = int64(1 << 20)
	sessionMaxLines = 1000
)

// SessionEntry is one parsed line of a newline-delimited JSON session log.
// Raw keeps the line text for secret scanning.
type SessionEntry struct {
	Line      int
	Raw       string
	Type      string
	Timestamp string
}

// ParseSessionLog reads a JSONL session log. Malformed lines are skipped
// silently. The returned flag is true when either the byte or the line cap
// bound the read; the int64 is the true on-disk size.
func ParseSessionLog(path string, deep bool) ([]SessionEntry, bool, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, 0, err
	}
	defer f.Close()

	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	var entries []SessionEntry
	// The limit bounds memory even for a single newline-less giant line,
	// which ReadString would otherwise buffer whole.
	var src io.Reader = f
	if !deep {
		src = io.LimitReader(f, sessionMaxBytes+1)
	}
	r := bufio.NewReader(src)
	var read int64
	lineNo := 0
	truncated := false
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			read += int64(len(line))
			lineNo++
			if !deep && (read > sessionMaxBytes || lineNo > sessionMaxLines) {
				truncated = true
				break
			}
			if e, ok := parseSessionLine(line, lineNo); ok {
				entries = append(entries, e)
			}
		}
		if err != nil {
			if err != io.EOF {
				return entries, truncated, size, err
			}
			break
		}
	}
	if !deep && size > sessionMaxBytes {
		truncated = true
	}
	return entries, truncated, size, nil
}

func parseSessionLine(line string, lineNo int) (SessionEntry, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return SessionEntry{}, false
	}
	var probe struct {
		Type      string `json:"type"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal([]byte(trimmed), &probe); err != nil {
		return SessionEntry{}, false
	}
	return SessionEntry{Line: lineNo, Raw: trimmed, Type: probe.Type, Timestamp: probe.Timestamp}, true
}
