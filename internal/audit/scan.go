package audit

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/clawsec/openclaw-audit/internal/logging"
	"github.com/clawsec/openclaw-audit/internal/support"
)

// Run executes one scan invocation: discovery, parsing, checks, scoring and
// sanitization, strictly in that order. The only fatal error is a missing
// installation; everything else degrades per file.
func Run(ctx context.Context, opts Options) (*ScanResult, error) {
	start := time.Now()

	installDir, err := ResolveInstallDir(opts.InstallPath)
	if err != nil {
		return nil, err
	}
	logging.Logger.Debugw("scanning installation", "dir", installDir)

	workspace := ""
	if opts.WorkspacePath != "" {
		workspace = expandHome(opts.WorkspacePath)
	}
	files := Discover(installDir, workspace)
	settings := LoadSettings(installDir)

	cctx := &checkContext{
		Files:    files,
		Platform: runtime.GOOS,
		Markdown: map[string]string{},
		Sessions: map[string][]SessionEntry{},
	}
	filesScanned := 0

	if files.ConfigPath != "" {
		if data, err := os.ReadFile(files.ConfigPath); err == nil {
			cctx.RawConfig = string(data)
			cctx.Config = ParseAgentConfig(data)
			filesScanned++
			if cctx.Config == nil {
				logging.Logger.Warnw("config did not parse; structural checks degrade to raw-text scanning",
					"path", files.ConfigPath)
			}
		}
	}
	if files.EnvPath != "" {
		if data, err := os.ReadFile(files.EnvPath); err == nil {
			cctx.Env = ParseEnvFile(data)
			filesScanned++
		}
	}
	for _, p := range files.WorkspaceFiles {
		if data, err := os.ReadFile(p); err == nil {
			cctx.Markdown[p] = string(data)
			filesScanned++
		}
	}
	for _, p := range files.SkillFiles {
		if data, err := os.ReadFile(p); err == nil {
			cctx.Markdown[p] = string(data)
			filesScanned++
		}
	}
	for _, p := range files.SessionLogs {
		entries, truncated, size, err := ParseSessionLog(p, opts.Deep)
		if err != nil {
			continue
		}
		cctx.Sessions[p] = entries
		filesScanned++
		if truncated {
			logging.Logger.Debugw("session log truncated", "path", p, "size", size)
		}
	}
	// Credential and auth-profile files are permission-checked, not read.
	filesScanned += len(files.CredentialFiles) + len(files.AuthProfiles)

	findings, suggestions, run, passed := runChecks(cctx, settings.disabledSet())

	result := &ScanResult{
		ReportID:     uuid.NewString(),
		Timestamp:    start.UTC(),
		Version:      DetectVersion(ctx),
		Score:        Score(findings),
		Findings:     findings,
		Suggestions:  suggestions,
		FilesScanned: filesScanned,
		ChecksRun:    run,
		ChecksPassed: passed,
		DurationMS:   time.Since(start).Milliseconds(),
		Platform:     runtime.GOOS,
		Warnings:     files.BoundaryWarnings,
	}
	result.Grade, result.GradeLabel = Grade(result.Score)
	sanitizeResult(result)

	if err := support.AppendHistory(installDir, support.HistoryEntry{
		ReportID:    result.ReportID,
		Score:       result.Score,
		Grade:       result.Grade,
		Findings:    len(result.Findings),
		Suggestions: len(result.Suggestions),
		ChecksRun:   result.ChecksRun,
		DurationMS:  result.DurationMS,
	}); err != nil {
		logging.Logger.Debugw("history append failed", "err", err)
	}
	return result, nil
}
