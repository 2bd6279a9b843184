package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/clawsec/openclaw-audit/internal/audit"
)

var severityOrder = []audit.Severity{
	audit.SeverityCritical,
	audit.SeverityHigh,
	audit.SeverityMedium,
	audit.SeverityLow,
}

var severityColors = map[audit.Severity]*color.Color{
	audit.SeverityCritical: color.New(color.FgRed, color.Bold),
	audit.SeverityHigh:     color.New(color.FgRed),
	audit.SeverityMedium:   color.New(color.FgYellow),
	audit.SeverityLow:      color.New(color.FgCyan),
}

func renderJSON(w io.Writer, result *audit.ScanResult) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(result)
}

func renderText(w io.Writer, result *audit.ScanResult) {
	bold := color.New(color.Bold)

	fmt.Fprintln(w)
	bold.Fprintf(w, "OpenClaw Security Audit\n")
	fmt.Fprintf(w, "Report %s", result.ReportID)
	if result.Version != "" {
		fmt.Fprintf(w, "  (openclaw %s)", result.Version)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Scanned %d files, ran %d checks (%d passed) in %dms\n",
		result.FilesScanned, result.ChecksRun, result.ChecksPassed, result.DurationMS)
	fmt.Fprintln(w)

	gradeColor := gradeColorFor(result.Grade)
	gradeColor.Fprintf(w, "Score: %d/100  Grade: %s (%s)\n", result.Score, result.Grade, result.GradeLabel)

	for _, warn := range result.Warnings {
		color.New(color.FgYellow).Fprintf(w, "WARNING: %s\n", warn)
	}

	if len(result.Findings) == 0 {
		color.New(color.FgGreen).Fprintln(w, "\nNo security issues found.")
	}
	for _, sev := range severityOrder {
		group := findingsBySeverity(result.Findings, sev)
		if len(group) == 0 {
			continue
		}
		fmt.Fprintln(w)
		severityColors[sev].Fprintf(w, "%s (%d)\n", strings.ToUpper(string(sev)), len(group))
		for _, f := range group {
			renderFinding(w, f)
		}
	}

	if len(result.Suggestions) > 0 {
		fmt.Fprintln(w)
		bold.Fprintf(w, "Suggestions (%d)\n", len(result.Suggestions))
		for _, f := range result.Suggestions {
			fmt.Fprintf(w, "  - %s: %s\n", f.ID, f.Title)
			if f.Remediation != "" {
				fmt.Fprintf(w, "      %s\n", f.Remediation)
			}
		}
	}
	fmt.Fprintln(w)
}

func renderFinding(w io.Writer, f audit.Finding) {
	fmt.Fprintf(w, "  [%s] %s\n", f.ID, f.Title)
	fmt.Fprintf(w, "      %s\n", f.Description)
	if f.Risk != "" {
		fmt.Fprintf(w, "      Risk: %s\n", f.Risk)
	}
	if f.Remediation != "" {
		fmt.Fprintf(w, "      Fix: %s\n", f.Remediation)
	}
	if f.File != "" {
		loc := f.File
		if f.Line > 0 {
			loc = fmt.Sprintf("%s:%d", f.File, f.Line)
		}
		fmt.Fprintf(w, "      File: %s\n", loc)
	}
	if f.AutoFixable {
		color.New(color.FgGreen).Fprintf(w, "      auto-fixable (%s); run with --fix\n", f.FixType)
	}
}

func renderFixResults(w io.Writer, fixes []audit.FixResult) {
	if len(fixes) == 0 {
		fmt.Fprintln(w, "No auto-fixable findings.")
		return
	}
	applied := 0
	fmt.Fprintln(w)
	color.New(color.Bold).Fprintln(w, "Fixes")
	for _, fr := range fixes {
		if fr.Applied {
			applied++
			color.New(color.FgGreen).Fprintf(w, "  applied  %s: %s\n", fr.Finding.ID, fr.Description)
			if fr.BackupPath != "" {
				fmt.Fprintf(w, "           backup: %s\n", fr.BackupPath)
			}
		} else {
			color.New(color.FgYellow).Fprintf(w, "  skipped  %s: %s (%s)\n", fr.Finding.ID, fr.Description, fr.SkipReason)
		}
	}
	fmt.Fprintf(w, "%d of %d fixes applied\n", applied, len(fixes))
}

func findingsBySeverity(findings []audit.Finding, sev audit.Severity) []audit.Finding {
	var out []audit.Finding
	for _, f := range findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}

func gradeColorFor(grade string) *color.Color {
	switch grade {
	case "A+", "A":
		return color.New(color.FgGreen, color.Bold)
	case "B":
		return color.New(color.FgGreen)
	case "C":
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}
