package audit

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

const versionProbeTimeout = 5 * time.Second

// DetectVersion asks the installed product for its version. Any failure or
// timeout degrades to "" (version unknown), never an error.
func DetectVersion(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, versionProbeTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, "openclaw", "--version").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
