package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestRunCriticalInstall(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "openclaw.json"),
		`{"gateway": {"bind": "0.0.0.0", "auth": {"mode": "off"}}}`)

	result, err := Run(context.Background(), Options{InstallPath: dir})
	if err != nil {
		t.Fatal(err)
	}
	if !result.HasCritical() {
		t.Fatal("expected critical findings")
	}
	if len(findByID(result.Findings, "gateway-bind-all")) != 1 {
		t.Errorf("gateway-bind-all missing: %+v", result.Findings)
	}
	if len(findByID(result.Findings, "gateway-auth-disabled")) != 1 {
		t.Errorf("gateway-auth-disabled missing: %+v", result.Findings)
	}
	if result.Score != 40 {
		t.Errorf("Score = %d, want the critical cap 40", result.Score)
	}
	if result.Grade != "D" || result.GradeLabel != "Poor" {
		t.Errorf("grade = %s/%s, want D/Poor", result.Grade, result.GradeLabel)
	}
	if result.ReportID == "" {
		t.Error("report ID not set")
	}
	if result.ChecksRun == 0 || result.FilesScanned == 0 {
		t.Errorf("counters not populated: %+v", result)
	}
}

func TestRunHealthyInstall(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "openclaw.json"), `{
		// relaxed syntax is the product's own dialect
		"gateway": {"bind": "127.0.0.1", "auth": {"mode": "token", "token": "${OPENCLAW_GATEWAY_TOKEN}"}},
		"sandbox": {"mode": "non-main", "workspaceAccess": "ro"},
		"pairing": {"ttlSeconds": 600},
	}`)

	result, err := Run(context.Background(), Options{InstallPath: dir})
	if err != nil {
		t.Fatal(err)
	}
	if result.HasCritical() {
		t.Fatalf("unexpected critical findings: %+v", result.Findings)
	}
	if result.Score != 100 {
		t.Errorf("Score = %d, want 100: %+v", result.Score, result.Findings)
	}
	if len(result.Suggestions) == 0 {
		t.Error("always-on suggestions missing")
	}
}

func TestRunMissingInstallation(t *testing.T) {
	_, err := Run(context.Background(), Options{InstallPath: filepath.Join(t.TempDir(), "nope")})
	if err == nil {
		t.Fatal("expected ErrNoInstallation")
	}
}

func TestRunDisabledCheck(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "openclaw.json"), `{"gateway": {"bind": "0.0.0.0"}}`)
	mustWrite(t, filepath.Join(dir, "audit.yaml"), "disabled_checks:\n  - gateway-bind-all\n")

	result, err := Run(context.Background(), Options{InstallPath: dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(findByID(result.Findings, "gateway-bind-all")) != 0 {
		t.Errorf("disabled check still fired: %+v", result.Findings)
	}
}

func TestRunSanitizesOutput(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "openclaw.json"), "{}")
	mustWrite(t, filepath.Join(dir, ".env"), "ANTHROPIC_API_KEY="+fakeAnthropicKey+"\n")
	if err := os.Chmod(filepath.Join(dir, ".env"), 0o600); err != nil {
		t.Fatal(err)
	}

	result, err := Run(context.Background(), Options{InstallPath: dir})
	if err != nil {
		t.Fatal(err)
	}
	envFindings := findByID(result.Findings, "secret-in-env")
	if len(envFindings) == 0 {
		t.Fatal("env secret not detected")
	}
	for _, f := range envFindings {
		for _, field := range []string{f.Title, f.Description, f.Risk, f.Remediation} {
			if containsSecret(field) {
				t.Errorf("finding field leaks the secret: %q", field)
			}
		}
	}
}

func containsSecret(s string) bool {
	return len(s) > 0 && matchesAnySecret(s)
}
