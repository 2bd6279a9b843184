package audit

import "testing"

func TestScoreEmpty(t *testing.T) {
	if got := Score(nil); got != 100 {
		t.Fatalf("Score(nil) = %d, want 100", got)
	}
}

func TestScorePenalties(t *testing.T) {
	cases := []struct {
		name     string
		findings []Finding
		want     int
	}{
		{"one high", []Finding{{Severity: SeverityHigh}}, 92},
		{"one medium", []Finding{{Severity: SeverityMedium}}, 97},
		{"one low", []Finding{{Severity: SeverityLow}}, 99},
		{"mixed", []Finding{{Severity: SeverityHigh}, {Severity: SeverityMedium}, {Severity: SeverityLow}}, 88},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(tc.findings); got != tc.want {
				t.Errorf("Score = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestScoreCriticalCap(t *testing.T) {
	one := []Finding{{Severity: SeverityCritical}}
	if got := Score(one); got != 40 {
		t.Fatalf("single critical: Score = %d, want 40", got)
	}

	// Two criticals plus a few mediums land below the cap on penalties alone.
	many := []Finding{
		{Severity: SeverityCritical},
		{Severity: SeverityCritical},
		{Severity: SeverityHigh},
		{Severity: SeverityHigh},
		{Severity: SeverityHigh},
		{Severity: SeverityHigh},
	}
	if got := Score(many); got != 38 {
		t.Fatalf("stacked findings: Score = %d, want 38", got)
	}
}

func TestScoreFloorsAtZero(t *testing.T) {
	var findings []Finding
	for i := 0; i < 20; i++ {
		findings = append(findings, Finding{Severity: SeverityHigh})
	}
	if got := Score(findings); got != 0 {
		t.Fatalf("Score = %d, want 0", got)
	}
}

func TestGradeBands(t *testing.T) {
	cases := []struct {
		score int
		grade string
		label string
	}{
		{100, "A+", "Excellent"},
		{90, "A+", "Excellent"},
		{89, "A", "Good"},
		{75, "A", "Good"},
		{60, "B", "Fair"},
		{45, "C", "Lacking"},
		{40, "D", "Poor"},
		{30, "D", "Poor"},
		{29, "F", "Critical"},
		{0, "F", "Critical"},
	}
	for _, tc := range cases {
		grade, label := Grade(tc.score)
		if grade != tc.grade || label != tc.label {
			t.Errorf("Grade(%d) = %s/%s, want %s/%s", tc.score, grade, label, tc.grade, tc.label)
		}
	}
}
