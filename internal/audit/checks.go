package audit

import "sort"

// checkContext carries everything a check may inspect. Checks are pure over
// this snapshot: no I/O, no mutation, and a missing precondition yields an
// empty result rather than an error.
type checkContext struct {
	Config    *AgentConfig
	RawConfig string
	Env       []EnvVar
	Files     *DiscoveredFiles
	Platform  string // runtime.GOOS value
	Markdown  map[string]string
	Sessions  map[string][]SessionEntry
}

type checkDef struct {
	ID       string
	Category string
	Run      func(*checkContext) []Finding
}

// checkTable is the ordered catalog. Individual entries can be disabled by ID
// through audit.yaml without touching control flow.
var checkTable = []checkDef{
	// identity & access
	{"dm-policy-open", CategoryIdentity, checkDMPolicyOpen},
	{"group-policy-open", CategoryIdentity, checkGroupPolicyOpen},
	{"allowlist-wildcard", CategoryIdentity, checkAllowlistWildcard},
	{"group-mention-gating-off", CategoryIdentity, checkMentionGating},
	{"mention-pattern-generic", CategoryIdentity, checkMentionPatterns},
	{"pairing-ttl-missing", CategoryIdentity, checkPairingTTL},
	{"multi-account-shared-session", CategoryIdentity, checkMultiAccountSession},
	{"multi-account-no-dm-policy", CategoryIdentity, checkMultiAccountDMPolicy},
	{"command-access-groups-off", CategoryIdentity, checkCommandAccessGroups},
	{"token-in-config", CategoryIdentity, checkTokenInConfig},
	{"cred-file-permissions", CategoryIdentity, checkCredentialPermissions},
	{"identity-links-present", CategoryIdentity, checkIdentityLinks},
	{"key-rotation-reminder", CategoryIdentity, checkKeyRotation},

	// network exposure
	{"gateway-bind-all", CategoryNetwork, checkGatewayBind},
	{"gateway-auth-disabled", CategoryNetwork, checkGatewayAuthDisabled},
	{"gateway-token-common", CategoryNetwork, checkGatewayTokenCommon},
	{"gateway-token-weak", CategoryNetwork, checkGatewayTokenWeak},
	{"gateway-no-trusted-proxies", CategoryNetwork, checkTrustedProxies},
	{"gateway-insecure-auth", CategoryNetwork, checkInsecureAuth},
	{"gateway-device-bypass", CategoryNetwork, checkDeviceBypass},
	{"port-exposed", CategoryNetwork, checkPortExposed},
	{"gateway-no-tls", CategoryNetwork, checkGatewayTLS},

	// sandbox configuration
	{"sandbox-off", CategorySandbox, checkSandboxOff},
	{"sandbox-unconfigured", CategorySandbox, checkSandboxUnconfigured},
	{"workspace-readwrite", CategorySandbox, checkWorkspaceAccess},
	{"elevated-tools-many", CategorySandbox, checkElevatedToolsMany},
	{"elevated-tools-review", CategorySandbox, checkElevatedToolsReview},
	{"docker-network-enabled", CategorySandbox, checkDockerNetwork},
	{"docker-socket-mounted", CategorySandbox, checkDockerSocket},
	{"browser-host-control", CategorySandbox, checkBrowserHostControl},

	// secret scanning
	{"secret-in-config", CategorySecrets, checkSecretsInConfig},
	{"secret-in-env", CategorySecrets, checkSecretsInEnv},
	{"secret-in-markdown", CategorySecrets, checkSecretsInMarkdown},
	{"secret-in-session-log", CategorySecrets, checkSecretsInSessionLogs},

	// model security
	{"model-unpinned", CategoryModel, checkModelPinned},
	{"reasoning-exposed", CategoryModel, checkReasoningExposed},

	// cloud sync / platform
	{"install-dir-cloud-synced", CategoryPlatform, checkCloudSync},
	{"ignore-file-incomplete", CategoryPlatform, checkIgnoreFile},
}

// runChecks evaluates the catalog and splits results into scored findings and
// advisory suggestions. A check "passes" when it emits no scored finding.
func runChecks(ctx *checkContext, disabled map[string]bool) (findings, suggestions []Finding, run, passed int) {
	for _, def := range checkTable {
		if disabled[def.ID] {
			continue
		}
		run++
		scored := 0
		for _, f := range def.Run(ctx) {
			if f.IsSuggestion() {
				suggestions = append(suggestions, f)
				continue
			}
			scored++
			findings = append(findings, f)
		}
		if scored == 0 {
			passed++
		}
	}
	return findings, suggestions, run, passed
}

func newFinding(id, category string, sev Severity, title, description, risk, remediation string) Finding {
	return Finding{
		ID:          id,
		Category:    category,
		Severity:    sev,
		Confidence:  ConfidenceHigh,
		Title:       title,
		Description: description,
		Risk:        risk,
		Remediation: remediation,
	}
}

func withFix(f Finding, t FixType) Finding {
	f.AutoFixable = true
	f.FixType = t
	return f
}

func suggestion(f Finding) Finding {
	f.Confidence = ConfidenceLow
	return f
}

func sortedChannelNames(channels map[string]*ChannelConfig) []string {
	names := make([]string, 0, len(channels))
	for name := range channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func boolVal(p *bool) bool {
	return p != nil && *p
}
