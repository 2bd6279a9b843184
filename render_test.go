package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/clawsec/openclaw-audit/internal/audit"
)

func TestRenderText(t *testing.T) {
	color.NoColor = true
	result := &audit.ScanResult{
		ReportID:   "r-1",
		Score:      40,
		Grade:      "D",
		GradeLabel: "Poor",
		Findings: []audit.Finding{
			{ID: "gateway-bind-all", Severity: audit.SeverityCritical, Title: "Gateway bound to all interfaces", AutoFixable: true, FixType: audit.FixSafe},
			{ID: "gateway-no-tls", Severity: audit.SeverityMedium, Title: "No TLS on a non-loopback gateway"},
		},
		Suggestions: []audit.Finding{
			{ID: "key-rotation-reminder", Title: "No key-rotation evidence"},
		},
		Warnings: []string{"symlink escapes installation root: a -> b"},
	}

	var buf bytes.Buffer
	renderText(&buf, result)
	out := buf.String()

	for _, want := range []string{
		"Score: 40/100  Grade: D (Poor)",
		"CRITICAL (1)",
		"MEDIUM (1)",
		"gateway-bind-all",
		"auto-fixable (safe)",
		"Suggestions (1)",
		"WARNING: symlink escapes",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	renderJSON(&buf, &audit.ScanResult{ReportID: "r-2", Grade: "A+", GradeLabel: "Excellent", Score: 100})
	out := buf.String()
	if !strings.Contains(out, `"reportId": "r-2"`) || !strings.Contains(out, `"score": 100`) {
		t.Errorf("json output:\n%s", out)
	}
}

func TestRenderFixResults(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	renderFixResults(&buf, []audit.FixResult{
		{Finding: audit.Finding{ID: "gateway-bind-all"}, Applied: true, Description: "bind the gateway to 127.0.0.1", BackupPath: "/tmp/openclaw.json.bak.x"},
		{Finding: audit.Finding{ID: "dm-policy-open"}, Description: "normalize open DM policies", SkipReason: "user declined"},
	})
	out := buf.String()
	if !strings.Contains(out, "applied  gateway-bind-all") {
		t.Errorf("applied line missing:\n%s", out)
	}
	if !strings.Contains(out, "skipped  dm-policy-open") || !strings.Contains(out, "user declined") {
		t.Errorf("skipped line missing:\n%s", out)
	}
	if !strings.Contains(out, "1 of 2 fixes applied") {
		t.Errorf("summary missing:\n%s", out)
	}
}
