// Package audit implements the security audit pipeline for a local OpenClaw
// installation: file discovery, defensive parsing, a catalog of independent
// checks, deterministic scoring, secret redaction, and an auto-fix engine.
package audit

import "time"

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// severityPenalty drives the deterministic score. A Critical finding
// additionally caps the total score (see Score).
var severityPenalty = map[Severity]int{
	SeverityCritical: 15,
	SeverityHigh:     8,
	SeverityMedium:   3,
	SeverityLow:      1,
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

type FixType string

const (
	FixSafe       FixType = "safe"
	FixBehavioral FixType = "behavioral"
)

const (
	CategoryIdentity = "identity"
	CategoryNetwork  = "network"
	CategorySandbox  = "sandbox"
	CategorySecrets  = "secrets"
	CategoryModel    = "model"
	CategoryPlatform = "platform"
)

// Finding is a single security issue. Confidence "low" demotes it to a
// Suggestion, which is reported but never scored. AutoFixable implies
// FixType is set.
type Finding struct {
	ID          string     `json:"id"`
	Severity    Severity   `json:"severity"`
	Confidence  Confidence `json:"confidence"`
	Category    string     `json:"category"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Risk        string     `json:"risk"`
	Remediation string     `json:"remediation"`
	AutoFixable bool       `json:"autoFixable"`
	FixType     FixType    `json:"fixType,omitempty"`
	File        string     `json:"file,omitempty"`
	Line        int        `json:"line,omitempty"`
}

// IsSuggestion reports whether the finding is advisory only.
func (f Finding) IsSuggestion() bool {
	return f.Confidence == ConfidenceLow
}

// DiscoveredFiles is the immutable per-scan snapshot of the installation.
// Paths are absolute. A missing optional file is the empty string or an
// absent list entry, never an error.
type DiscoveredFiles struct {
	InstallDir      string   `json:"installDir"`
	ConfigPath      string   `json:"configPath,omitempty"`
	EnvPath         string   `json:"envPath,omitempty"`
	CredentialFiles []string `json:"credentialFiles,omitempty"`
	AuthProfiles    []string `json:"authProfiles,omitempty"`
	SessionLogs     []string `json:"sessionLogs,omitempty"`
	WorkspaceFiles  []string `json:"workspaceFiles,omitempty"`
	SkillFiles      []string `json:"skillFiles,omitempty"`
	WorkspaceDir    string   `json:"workspaceDir,omitempty"`

	// BoundaryWarnings records symlinks whose targets escape the
	// installation (or workspace) root. The files themselves are excluded
	// from every list above.
	BoundaryWarnings []string `json:"boundaryWarnings,omitempty"`
}

// ScanResult is created once per scan invocation and read-only afterwards.
type ScanResult struct {
	ReportID     string    `json:"reportId"`
	Timestamp    time.Time `json:"timestamp"`
	Version      string    `json:"version,omitempty"`
	Score        int       `json:"score"`
	Grade        string    `json:"grade"`
	GradeLabel   string    `json:"gradeLabel"`
	Findings     []Finding `json:"findings"`
	Suggestions  []Finding `json:"suggestions"`
	FilesScanned int       `json:"filesScanned"`
	ChecksRun    int       `json:"checksRun"`
	ChecksPassed int       `json:"checksPassed"`
	DurationMS   int64     `json:"durationMs"`
	Platform     string    `json:"platform"`
	Warnings     []string  `json:"warnings,omitempty"`
}

// HasCritical reports whether any scored finding is Critical. The CLI maps
// this to its exit status.
func (r *ScanResult) HasCritical() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// FixResult records the outcome of one attempted fix. Only the fix engine
// creates these.
type FixResult struct {
	Finding     Finding `json:"finding"`
	Applied     bool    `json:"applied"`
	BackupPath  string  `json:"backupPath,omitempty"`
	Description string  `json:"description"`
	SkipReason  string  `json:"skipReason,omitempty"`
}

// Options is the bundle handed in by the CLI layer.
type Options struct {
	InstallPath   string
	WorkspacePath string
	Deep          bool
	Upload        bool
}
