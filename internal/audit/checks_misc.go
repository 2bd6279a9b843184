package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func checkModelPinned(ctx *checkContext) []Finding {
	if ctx.Config == nil || ctx.Config.Model == nil {
		return nil
	}
	m := ctx.Config.Model
	if strVal(m.Name) == "" || strVal(m.PinnedVersion) != "" {
		return nil
	}
	return []Finding{newFinding("model-unpinned", CategoryModel, SeverityLow,
		"Model version not pinned",
		fmt.Sprintf("model.name is %q with no pinnedVersion.", strVal(m.Name)),
		"Provider-side model swaps silently change agent behavior and safety posture.",
		"Pin an explicit model version and review upgrades deliberately.")}
}

func checkReasoningExposed(ctx *checkContext) []Finding {
	if ctx.Config == nil || ctx.Config.Model == nil || !boolVal(ctx.Config.Model.BroadcastReasoning) {
		return nil
	}
	return []Finding{newFinding("reasoning-exposed", CategoryModel, SeverityMedium,
		"Reasoning broadcast to channels",
		"model.broadcastReasoning sends raw reasoning traces into chat channels.",
		"Reasoning traces can quote credentials, file contents, and other private context.",
		"Disable broadcastReasoning outside local debugging.")}
}

// cloudSyncMarkers are path fragments of the common sync products, compared
// case-insensitively against the installation path.
var cloudSyncMarkers = []string{
	"dropbox", "onedrive", "google drive", "googledrive", "icloud", "mobile documents", "box sync",
}

func checkCloudSync(ctx *checkContext) []Finding {
	if ctx.Files == nil || ctx.Files.InstallDir == "" {
		return nil
	}
	lower := strings.ToLower(filepath.ToSlash(ctx.Files.InstallDir))
	for _, marker := range cloudSyncMarkers {
		if strings.Contains(lower, marker) {
			return []Finding{newFinding("install-dir-cloud-synced", CategoryPlatform, SeverityHigh,
				"Installation directory is cloud-synced",
				fmt.Sprintf("The installation path %s sits inside a cloud-sync folder.", ctx.Files.InstallDir),
				"Credentials and session transcripts replicate to every synced device and the sync provider.",
				"Move the installation out of the synced folder or exclude it from sync.")}
		}
	}
	return nil
}

func checkIgnoreFile(ctx *checkContext) []Finding {
	if ctx.Files == nil || ctx.Files.WorkspaceDir == "" {
		return nil
	}
	ignorePath := filepath.Join(ctx.Files.WorkspaceDir, ".gitignore")
	var existing string
	if data, err := os.ReadFile(ignorePath); err == nil {
		existing = string(data)
	}
	missing := missingIgnoreEntries(existing)
	if len(missing) == 0 {
		return nil
	}
	f := newFinding("ignore-file-incomplete", CategoryPlatform, SeverityLow,
		"Workspace ignore file misses secret paths",
		fmt.Sprintf("%s does not exclude: %s.", ignorePath, strings.Join(missing, ", ")),
		"Credential material in the workspace can end up committed and pushed.",
		"Add the missing entries to the workspace .gitignore.")
	f.File = ignorePath
	return []Finding{withFix(f, FixSafe)}
}
