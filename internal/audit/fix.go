package audit

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/clawsec/openclaw-audit/internal/support"
)

// Approver decides one behavioral fix. Safe fixes never consult it. The CLI
// installs an interactive prompt; tests and --yes install fixed policies.
type Approver func(Finding) bool

func ApproveAll(Finding) bool { return true }
func DeclineAll(Finding) bool { return false }

type FixOptions struct {
	ConfigPath   string
	InstallDir   string
	WorkspaceDir string
	Platform     string // defaults to runtime.GOOS
	Approve      Approver
}

// requiredIgnoreEntries must appear in the workspace .gitignore; the fix
// appends only the missing subset.
var requiredIgnoreEntries = []string{".env", "credentials/", "auth-profiles/", "*.pem"}

type configMutation struct {
	describe string
	apply    func(cfg map[string]interface{}) bool // reports whether anything changed
}

// configMutations keys finding IDs to idempotent edits of the parsed config.
// The map is generic (not the typed model) so unknown keys survive the
// rewrite.
var configMutations = map[string]configMutation{
	"gateway-bind-all": {
		describe: "bind the gateway to 127.0.0.1",
		apply: func(cfg map[string]interface{}) bool {
			return setValue(ensurePath(cfg, "gateway"), "bind", "127.0.0.1")
		},
	},
	"gateway-auth-disabled": {
		describe: "enable token auth with a freshly generated token",
		apply: func(cfg map[string]interface{}) bool {
			auth := ensurePath(cfg, "gateway", "auth")
			changed := setValue(auth, "mode", "token")
			if changed {
				auth["token"] = newGatewayToken()
			}
			return changed
		},
	},
	"gateway-token-common": {
		describe: "replace the gateway token with a freshly generated one",
		apply:    regenerateToken,
	},
	"gateway-token-weak": {
		describe: "replace the gateway token with a freshly generated one",
		apply:    regenerateToken,
	},
	"gateway-insecure-auth": {
		describe: "clear gateway.insecureAuth",
		apply: func(cfg map[string]interface{}) bool {
			return setValue(ensurePath(cfg, "gateway"), "insecureAuth", false)
		},
	},
	"gateway-device-bypass": {
		describe: "clear gateway.dangerouslyDisableDeviceAuth",
		apply: func(cfg map[string]interface{}) bool {
			return setValue(ensurePath(cfg, "gateway"), "dangerouslyDisableDeviceAuth", false)
		},
	},
	"pairing-ttl-missing": {
		describe: "set pairing.ttlSeconds to 600",
		apply: func(cfg map[string]interface{}) bool {
			pairing := ensurePath(cfg, "pairing")
			if _, ok := pairing["ttlSeconds"]; ok {
				return false
			}
			pairing["ttlSeconds"] = 600
			return true
		},
	},
	"command-access-groups-off": {
		describe: "enable commands.useAccessGroups",
		apply: func(cfg map[string]interface{}) bool {
			return setValue(ensurePath(cfg, "commands"), "useAccessGroups", true)
		},
	},
	"sandbox-off": {
		describe: "set sandbox.mode to \"non-main\"",
		apply: func(cfg map[string]interface{}) bool {
			return setValue(ensurePath(cfg, "sandbox"), "mode", "non-main")
		},
	},
	"workspace-readwrite": {
		describe: "set sandbox.workspaceAccess to \"ro\"",
		apply: func(cfg map[string]interface{}) bool {
			return setValue(ensurePath(cfg, "sandbox"), "workspaceAccess", "ro")
		},
	},
	"docker-network-enabled": {
		describe: "set sandbox.docker.network to \"none\"",
		apply: func(cfg map[string]interface{}) bool {
			return setValue(ensurePath(cfg, "sandbox", "docker"), "network", "none")
		},
	},
	"docker-socket-mounted": {
		describe: "unmount the container control socket",
		apply: func(cfg map[string]interface{}) bool {
			return setValue(ensurePath(cfg, "sandbox", "docker"), "mountDockerSocket", false)
		},
	},
	"browser-host-control": {
		describe: "disable host browser control for sandboxed sessions",
		apply: func(cfg map[string]interface{}) bool {
			return setValue(ensurePath(cfg, "sandbox", "browser"), "allowHostControl", false)
		},
	},
	"dm-policy-open": {
		describe: "normalize open DM policies to \"pairing\"",
		apply: func(cfg map[string]interface{}) bool {
			return normalizeChannelPolicy(cfg, "dmPolicy", "pairing")
		},
	},
	"group-policy-open": {
		describe: "normalize open group policies to \"allowlist\"",
		apply: func(cfg map[string]interface{}) bool {
			return normalizeChannelPolicy(cfg, "groupPolicy", "allowlist")
		},
	},
	"group-mention-gating-off": {
		describe: "require mentions in group conversations",
		apply: func(cfg map[string]interface{}) bool {
			changed := false
			for _, ch := range channelMaps(cfg) {
				if v, ok := ch["requireMention"].(bool); ok && !v {
					ch["requireMention"] = true
					changed = true
				}
			}
			return changed
		},
	},
}

// ApplyFixes partitions auto-fixable findings into config mutations,
// permission fixes and the ignore-file fix, then applies them. Safe fixes run
// unconditionally; behavioral fixes go through the Approver one by one. Every
// attempted fix yields a FixResult, and one failure never blocks the rest.
func ApplyFixes(findings []Finding, opts FixOptions) []FixResult {
	if opts.Platform == "" {
		opts.Platform = runtime.GOOS
	}
	if opts.Approve == nil {
		opts.Approve = DeclineAll
	}

	var configFindings, permFindings, ignoreFindings []Finding
	var results []FixResult
	for _, f := range findings {
		if !f.AutoFixable {
			continue
		}
		switch {
		case hasConfigMutation(f.ID):
			configFindings = append(configFindings, f)
		case f.ID == "cred-file-permissions":
			permFindings = append(permFindings, f)
		case f.ID == "ignore-file-incomplete":
			ignoreFindings = append(ignoreFindings, f)
		default:
			results = append(results, FixResult{
				Finding:     f,
				Description: "no automatic fix registered",
				SkipReason:  "no fix handler for " + f.ID,
			})
		}
	}

	results = append(results, applyConfigFixes(configFindings, opts)...)
	results = append(results, applyPermissionFixes(permFindings, opts)...)
	results = append(results, applyIgnoreFix(ignoreFindings, opts)...)
	return results
}

func hasConfigMutation(id string) bool {
	_, ok := configMutations[id]
	return ok
}

// applyConfigFixes runs the batch state machine: Read -> Backup -> Mutate(all
// approved) -> Write-once. There is no rollback beyond the backup; a logical
// no-op is reported as "already satisfied" without a write.
func applyConfigFixes(findings []Finding, opts FixOptions) []FixResult {
	if len(findings) == 0 {
		return nil
	}
	skipAll := func(reason string) []FixResult {
		out := make([]FixResult, 0, len(findings))
		for _, f := range findings {
			out = append(out, FixResult{
				Finding:     f,
				Description: configMutations[f.ID].describe,
				SkipReason:  reason,
			})
		}
		return out
	}

	if opts.ConfigPath == "" {
		return skipAll("config file not found")
	}
	data, err := os.ReadFile(opts.ConfigPath)
	if err != nil {
		return skipAll("config read failed: " + err.Error())
	}
	cfg, err := parseConfigMap(data)
	if err != nil {
		return skipAll("config parse failure")
	}

	var results []FixResult
	var approved []Finding
	for _, f := range findings {
		mut := configMutations[f.ID]
		if f.FixType == FixBehavioral && !opts.Approve(f) {
			results = append(results, FixResult{
				Finding:     f,
				Description: mut.describe,
				SkipReason:  "user declined",
			})
			continue
		}
		approved = append(approved, f)
	}
	if len(approved) == 0 {
		return results
	}

	backup, err := support.BackupFile(opts.ConfigPath)
	if err != nil {
		for _, f := range approved {
			results = append(results, FixResult{
				Finding:     f,
				Description: configMutations[f.ID].describe,
				SkipReason:  "backup failed: " + err.Error(),
			})
		}
		return results
	}

	wrote := false
	for _, f := range approved {
		mut := configMutations[f.ID]
		if !mut.apply(cfg) {
			results = append(results, FixResult{
				Finding:     f,
				Description: mut.describe,
				SkipReason:  "already satisfied",
			})
			continue
		}
		wrote = true
		results = append(results, FixResult{
			Finding:     f,
			Applied:     true,
			BackupPath:  backup,
			Description: mut.describe,
		})
	}
	if !wrote {
		return results
	}

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err == nil {
		err = support.WriteFileAtomic(opts.ConfigPath, append(out, '\n'))
	}
	if err != nil {
		for i := range results {
			if results[i].Applied {
				results[i].Applied = false
				results[i].SkipReason = "config write failed: " + err.Error()
			}
		}
	}
	return results
}

func applyPermissionFixes(findings []Finding, opts FixOptions) []FixResult {
	var results []FixResult
	for _, f := range findings {
		res := FixResult{Finding: f, Description: "restrict to owner-only access"}
		switch {
		case opts.Platform == "windows":
			res.SkipReason = "unsupported platform"
		case f.File == "":
			res.SkipReason = "no target file recorded"
		default:
			info, err := os.Stat(f.File)
			if err != nil {
				res.SkipReason = "stat failed: " + err.Error()
				break
			}
			want := os.FileMode(0o600)
			if info.IsDir() {
				want = 0o700
			}
			if info.Mode().Perm() == want {
				res.SkipReason = "already satisfied"
				break
			}
			if err := os.Chmod(f.File, want); err != nil {
				res.SkipReason = "permission change failed: " + err.Error()
				break
			}
			res.Applied = true
			res.Description = fmt.Sprintf("changed %s to %04o", f.File, want)
		}
		results = append(results, res)
	}
	return results
}

// applyIgnoreFix appends the missing required entries to the workspace
// .gitignore. The file is backed up only when it pre-existed.
func applyIgnoreFix(findings []Finding, opts FixOptions) []FixResult {
	var results []FixResult
	for _, f := range findings {
		res := FixResult{Finding: f, Description: "add secret paths to the workspace ignore file"}
		if opts.WorkspaceDir == "" {
			res.SkipReason = "workspace not provided"
			results = append(results, res)
			continue
		}
		ignorePath := filepath.Join(opts.WorkspaceDir, ".gitignore")
		existing := ""
		preExisted := false
		if data, err := os.ReadFile(ignorePath); err == nil {
			existing = string(data)
			preExisted = true
		}
		missing := missingIgnoreEntries(existing)
		if len(missing) == 0 {
			res.SkipReason = "already satisfied"
			results = append(results, res)
			continue
		}
		if preExisted {
			backup, err := support.BackupFile(ignorePath)
			if err != nil {
				res.SkipReason = "backup failed: " + err.Error()
				results = append(results, res)
				continue
			}
			res.BackupPath = backup
		}
		updated := existing
		if updated != "" && !strings.HasSuffix(updated, "\n") {
			updated += "\n"
		}
		updated += strings.Join(missing, "\n") + "\n"
		if err := support.WriteFileAtomic(ignorePath, []byte(updated)); err != nil {
			res.SkipReason = "write failed: " + err.Error()
			results = append(results, res)
			continue
		}
		res.Applied = true
		res.Description = "added " + strings.Join(missing, ", ")
		results = append(results, res)
	}
	return results
}

func missingIgnoreEntries(existing string) []string {
	present := map[string]bool{}
	for _, line := range strings.Split(existing, "\n") {
		present[strings.TrimSpace(line)] = true
	}
	var missing []string
	for _, entry := range requiredIgnoreEntries {
		if !present[entry] {
			missing = append(missing, entry)
		}
	}
	return missing
}

func newGatewayToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(b)
}

func regenerateToken(cfg map[string]interface{}) bool {
	auth := ensurePath(cfg, "gateway", "auth")
	token, _ := auth["token"].(string)
	_, common := weakTokens[strings.ToLower(token)]
	if token != "" && len(token) >= 32 && !common {
		return false
	}
	auth["token"] = newGatewayToken()
	return true
}

func ensurePath(cfg map[string]interface{}, keys ...string) map[string]interface{} {
	cur := cfg
	for _, key := range keys {
		next, ok := cur[key].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			cur[key] = next
		}
		cur = next
	}
	return cur
}

func setValue(m map[string]interface{}, key string, v interface{}) bool {
	if existing, ok := m[key]; ok && existing == v {
		return false
	}
	m[key] = v
	return true
}

func channelMaps(cfg map[string]interface{}) []map[string]interface{} {
	channels, ok := cfg["channels"].(map[string]interface{})
	if !ok {
		return nil
	}
	var out []map[string]interface{}
	for _, raw := range channels {
		if ch, ok := raw.(map[string]interface{}); ok {
			out = append(out, ch)
		}
	}
	return out
}

func normalizeChannelPolicy(cfg map[string]interface{}, key, replacement string) bool {
	changed := false
	for _, ch := range channelMaps(cfg) {
		if v, ok := ch[key].(string); ok && v == "open" {
			ch[key] = replacement
			changed = true
		}
		if key != "dmPolicy" {
			continue
		}
		if accounts, ok := ch["accounts"].(map[string]interface{}); ok {
			for _, raw := range accounts {
				if acct, ok := raw.(map[string]interface{}); ok {
					if v, ok := acct[key].(string); ok && v == "open" {
						acct[key] = replacement
						changed = true
					}
				}
			}
		}
	}
	return changed
}
