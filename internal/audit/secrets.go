package audit

import (
	"regexp"
	"strings"
)

// SecretMatch is one hit from the secret-shape catalog. Preview is masked;
// the raw matched text is never retained.
type SecretMatch struct {
	Pattern string
	Line    int // 1-based
	Preview string
}

type secretPattern struct {
	name string
	re   *regexp.Regexp
}

// secretPatterns is the fixed catalog shared by the markdown scanner, the
// env/config/session-log checks, and the sanitizer. Order matters: provider
// formats before the generic assignment shape so previews name the provider.
var secretPatterns = []secretPattern{
	{"anthropic-api-key", regexp.MustCompile(`sk-ant-[A-Za-z0-9_\-]{24,}`)},
	{"openai-api-key", regexp.MustCompile(`sk-[A-Za-z0-9]{32,}`)},
	{"aws-access-key-id", regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`)},
	{"github-token", regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{36,}\b`)},
	{"slack-token", regexp.MustCompile(`\bxox[baprs]-[A-Za-z0-9-]{10,}\b`)},
	{"google-api-key", regexp.MustCompile(`\bAIza[0-9A-Za-z_\-]{35}\b`)},
	{"private-key-block", regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH |PGP )?PRIVATE KEY(?: BLOCK)?-----`)},
	{"bearer-token", regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9_\-.=+/]{20,}`)},
	{"hex-secret", regexp.MustCompile(`\b[0-9a-fA-F]{64}\b`)},
	{"generic-assignment", regexp.MustCompile(`(?i)\b(?:api[_-]?key|secret|token|password)["']?\s*[:=]\s*["']?[A-Za-z0-9_\-./+]{16,}`)},
}

// ScanTextForSecrets runs the catalog line by line over free text. Each
// pattern reports at most one match per line.
func ScanTextForSecrets(text string) []SecretMatch {
	var matches []SecretMatch
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		for _, p := range secretPatterns {
			m := p.re.FindString(line)
			if m == "" {
				continue
			}
			matches = append(matches, SecretMatch{
				Pattern: p.name,
				Line:    i + 1,
				Preview: maskSecret(m),
			})
		}
	}
	return matches
}

// maskSecret keeps the first 8 and last 4 characters of longer matches so a
// finding is actionable without leaking the credential.
func maskSecret(s string) string {
	if len(s) > 12 {
		return s[:8] + "…" + s[len(s)-4:]
	}
	return "****"
}

// matchesAnySecret reports whether s contains any secret-shaped substring.
func matchesAnySecret(s string) bool {
	for _, p := range secretPatterns {
		if p.re.MatchString(s) {
			return true
		}
	}
	return false
}
