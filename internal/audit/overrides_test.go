package audit

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	content := "disabled_checks:\n  - gateway-no-tls\n  - key-rotation-reminder\n"
	if err := os.WriteFile(filepath.Join(dir, "audit.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s := LoadSettings(dir)
	if len(s.DisabledChecks) != 2 {
		t.Fatalf("DisabledChecks = %v", s.DisabledChecks)
	}
	set := s.disabledSet()
	if !set["gateway-no-tls"] || !set["key-rotation-reminder"] {
		t.Errorf("disabledSet = %v", set)
	}
}

func TestLoadSettingsMissingOrMalformed(t *testing.T) {
	if s := LoadSettings(t.TempDir()); len(s.DisabledChecks) != 0 || s.disabledSet() != nil {
		t.Errorf("missing file: %+v", s)
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "audit.yaml"), []byte("{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if s := LoadSettings(dir); len(s.DisabledChecks) != 0 {
		t.Errorf("malformed file: %+v", s)
	}
}
