package audit

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings are the auditor's own optional knobs, read from audit.yaml inside
// the installation directory. A missing or malformed file means defaults.
type Settings struct {
	DisabledChecks []string `yaml:"disabled_checks"`
}

// LoadSettings never fails; parse problems yield empty settings.
func LoadSettings(installDir string) Settings {
	var s Settings
	data, err := os.ReadFile(filepath.Join(installDir, "audit.yaml"))
	if err != nil {
		return s
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}
	}
	return s
}

func (s Settings) disabledSet() map[string]bool {
	if len(s.DisabledChecks) == 0 {
		return nil
	}
	out := make(map[string]bool, len(s.DisabledChecks))
	for _, id := range s.DisabledChecks {
		out[id] = true
	}
	return out
}
