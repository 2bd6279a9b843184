package audit

// Score computes the deterministic 0-100 score from scored findings.
// Suggestions never reach this function. Any Critical finding caps the score
// at 40: a critical exposure bounds the grade even when nothing else is wrong.
func Score(findings []Finding) int {
	score := 100
	critical := false
	for _, f := range findings {
		score -= severityPenalty[f.Severity]
		if f.Severity == SeverityCritical {
			critical = true
		}
	}
	if score < 0 {
		score = 0
	}
	if critical && score > 40 {
		score = 40
	}
	return score
}

// Grade maps a score to its letter grade and label.
func Grade(score int) (string, string) {
	switch {
	case score >= 90:
		return "A+", "Excellent"
	case score >= 75:
		return "A", "Good"
	case score >= 60:
		return "B", "Fair"
	case score >= 45:
		return "C", "Lacking"
	case score >= 30:
		return "D", "Poor"
	default:
		return "F", "Critical"
	}
}
