package audit

// redactedMarker deliberately matches none of the secret patterns, which
// makes sanitization idempotent.
const redactedMarker = "[REDACTED]"

// SanitizeText replaces every secret-shaped substring with the redaction
// marker. Already-sanitized text passes through unchanged.
func SanitizeText(s string) string {
	for _, p := range secretPatterns {
		s = p.re.ReplaceAllString(s, redactedMarker)
	}
	return s
}

func sanitizeFinding(f Finding) Finding {
	f.Title = SanitizeText(f.Title)
	f.Description = SanitizeText(f.Description)
	f.Risk = SanitizeText(f.Risk)
	f.Remediation = SanitizeText(f.Remediation)
	return f
}

// sanitizeResult scrubs every free-text field before the result leaves the
// process boundary.
func sanitizeResult(r *ScanResult) {
	for i, f := range r.Findings {
		r.Findings[i] = sanitizeFinding(f)
	}
	for i, f := range r.Suggestions {
		r.Suggestions[i] = sanitizeFinding(f)
	}
	for i, w := range r.Warnings {
		r.Warnings[i] = SanitizeText(w)
	}
}
