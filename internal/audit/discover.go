package audit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/clawsec/openclaw-audit/internal/logging"
)

// ErrNoInstallation is the single fatal discovery error: no readable
// installation directory could be located.
var ErrNoInstallation = errors.New("no OpenClaw installation found")

// workspaceMarkdown is the fixed set of agent workspace files scanned for
// leaked secrets.
var workspaceMarkdown = []string{
	"AGENTS.md", "SOUL.md", "IDENTITY.md", "USER.md", "MEMORY.md", "TOOLS.md",
}

// ResolveInstallDir resolves the installation directory from an explicit path
// (a leading "~" expands to the home directory) or from the platform's
// candidate locations. The first readable directory wins.
func ResolveInstallDir(explicit string) (string, error) {
	if explicit != "" {
		dir := expandHome(explicit)
		if isReadableDir(dir) {
			return dir, nil
		}
		return "", fmt.Errorf("%w: %s is not a readable directory", ErrNoInstallation, dir)
	}
	for _, dir := range candidateInstallDirs() {
		if dir != "" && isReadableDir(dir) {
			return dir, nil
		}
	}
	return "", ErrNoInstallation
}

func candidateInstallDirs() []string {
	if runtime.GOOS == "windows" {
		var dirs []string
		if appData := os.Getenv("APPDATA"); appData != "" {
			dirs = append(dirs, filepath.Join(appData, "OpenClaw"))
		}
		if profile := os.Getenv("USERPROFILE"); profile != "" {
			dirs = append(dirs, filepath.Join(profile, ".openclaw"))
		}
		return dirs
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(home, ".openclaw")}
}

func expandHome(p string) string {
	if p == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return p
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}

func isReadableDir(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	_, err = os.ReadDir(dir)
	return err == nil
}

// Discover enumerates the candidate files of an installation (and optional
// workspace). Every stat/list failure is treated as "absent". Symlinks whose
// resolved targets fall outside the installation or workspace root are
// excluded and recorded as boundary warnings, never scanned.
func Discover(installDir, workspaceDir string) *DiscoveredFiles {
	d := &DiscoveredFiles{InstallDir: installDir, WorkspaceDir: workspaceDir}

	roots := resolveRoots(installDir, workspaceDir)
	admit := func(path string) string {
		info, err := os.Lstat(path)
		if err != nil {
			return ""
		}
		if info.Mode()&os.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				return ""
			}
			if !withinRoots(target, roots) {
				warn := fmt.Sprintf("symlink escapes installation root: %s -> %s", path, target)
				d.BoundaryWarnings = append(d.BoundaryWarnings, warn)
				logging.Logger.Warnw("excluding symlinked file", "path", path, "target", target)
				return ""
			}
		}
		return path
	}

	if p := admit(filepath.Join(installDir, "openclaw.json")); p != "" {
		d.ConfigPath = p
	}
	if p := admit(filepath.Join(installDir, ".env")); p != "" {
		d.EnvPath = p
	}

	if entries, err := os.ReadDir(filepath.Join(installDir, "credentials")); err == nil {
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			if p := admit(filepath.Join(installDir, "credentials", e.Name())); p != "" {
				d.CredentialFiles = append(d.CredentialFiles, p)
			}
		}
	}

	d.AuthProfiles = admitGlob(admit, filepath.Join(installDir, "auth-profiles", "*.json"))
	d.SessionLogs = admitGlob(admit, filepath.Join(installDir, "sessions", "*.jsonl"))
	d.SkillFiles = admitGlob(admit, filepath.Join(installDir, "skills", "*", "SKILL.md"))

	if workspaceDir != "" {
		for _, name := range workspaceMarkdown {
			if p := admit(filepath.Join(workspaceDir, name)); p != "" {
				d.WorkspaceFiles = append(d.WorkspaceFiles, p)
			}
		}
		d.WorkspaceFiles = append(d.WorkspaceFiles,
			admitGlob(admit, filepath.Join(workspaceDir, "memory", "*.md"))...)
		d.SkillFiles = append(d.SkillFiles,
			admitGlob(admit, filepath.Join(workspaceDir, "skills", "*", "SKILL.md"))...)
	}
	return d
}

func admitGlob(admit func(string) string, pattern string) []string {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil
	}
	var out []string
	for _, m := range matches {
		if p := admit(m); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// resolveRoots canonicalises the allowed roots so a symlinked temp dir (for
// example /var -> /private/var) does not produce false boundary violations.
func resolveRoots(dirs ...string) []string {
	var roots []string
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			roots = append(roots, resolved)
		} else {
			roots = append(roots, dir)
		}
	}
	return roots
}

// withinRoots does a case-insensitive, separator-aware prefix comparison.
func withinRoots(path string, roots []string) bool {
	p := strings.ToLower(filepath.Clean(path))
	for _, root := range roots {
		r := strings.ToLower(filepath.Clean(root))
		if p == r || strings.HasPrefix(p, r+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
