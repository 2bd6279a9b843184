package audit

import "strings"

// EnvVar is one KEY=value line from the agent's .env file.
type EnvVar struct {
	Key   string
	Value string
	Line  int // 1-based
}

// ParseEnvFile splits the file into KEY=value pairs. Blank lines and lines
// starting with '#' are skipped; the split is on the first '='; one layer of
// matching surrounding quotes is stripped from the value. No variable
// substitution or escape processing happens here: the scanner must see the
// bytes exactly as the agent's loader would.
func ParseEnvFile(data []byte) []EnvVar {
	var vars []EnvVar
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		eq := strings.Index(trimmed, "=")
		if eq < 0 {
			continue
		}
		key := strings.TrimSpace(trimmed[:eq])
		value := strings.TrimSpace(trimmed[eq+1:])
		if key == "" {
			continue
		}
		vars = append(vars, EnvVar{Key: key, Value: unquote(value), Line: i + 1})
	}
	return vars
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
