package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

func checkDMPolicyOpen(ctx *checkContext) []Finding {
	if ctx.Config == nil {
		return nil
	}
	var findings []Finding
	for _, name := range sortedChannelNames(ctx.Config.Channels) {
		ch := ctx.Config.Channels[name]
		if ch == nil {
			continue
		}
		open := strVal(ch.DMPolicy) == "open"
		for _, acct := range sortedAccountNames(ch.Accounts) {
			if strVal(ch.Accounts[acct].DMPolicy) == "open" {
				open = true
			}
		}
		if !open {
			continue
		}
		f := newFinding("dm-policy-open", CategoryIdentity, SeverityCritical,
			"Direct messages fully open",
			fmt.Sprintf("Channel %q accepts direct messages from anyone (dmPolicy: open).", name),
			"Any account that can reach the channel can issue instructions to the agent.",
			"Set dmPolicy to \"pairing\" or \"allowlist\" for this channel.")
		findings = append(findings, withFix(f, FixBehavioral))
	}
	return findings
}

func checkGroupPolicyOpen(ctx *checkContext) []Finding {
	if ctx.Config == nil {
		return nil
	}
	var findings []Finding
	for _, name := range sortedChannelNames(ctx.Config.Channels) {
		ch := ctx.Config.Channels[name]
		if ch == nil || strVal(ch.GroupPolicy) != "open" {
			continue
		}
		f := newFinding("group-policy-open", CategoryIdentity, SeverityHigh,
			"Group messages fully open",
			fmt.Sprintf("Channel %q processes group messages from any member (groupPolicy: open).", name),
			"Anyone added to a shared group can drive the agent.",
			"Set groupPolicy to \"allowlist\" and enumerate trusted senders.")
		findings = append(findings, withFix(f, FixBehavioral))
	}
	return findings
}

func checkAllowlistWildcard(ctx *checkContext) []Finding {
	if ctx.Config == nil {
		return nil
	}
	var findings []Finding
	for _, name := range sortedChannelNames(ctx.Config.Channels) {
		ch := ctx.Config.Channels[name]
		if ch == nil {
			continue
		}
		for _, entry := range ch.AllowFrom {
			if entry == "*" || strings.EqualFold(entry, "all") {
				findings = append(findings, newFinding("allowlist-wildcard", CategoryIdentity, SeverityHigh,
					"Allow-list contains a wildcard",
					fmt.Sprintf("Channel %q allow-list contains %q, which admits every sender.", name, entry),
					"The allow-list no longer restricts anything.",
					"Replace the wildcard with explicit account identifiers."))
				break
			}
		}
	}
	return findings
}

func checkMentionGating(ctx *checkContext) []Finding {
	if ctx.Config == nil {
		return nil
	}
	var findings []Finding
	for _, name := range sortedChannelNames(ctx.Config.Channels) {
		ch := ctx.Config.Channels[name]
		if ch == nil || ch.RequireMention == nil || *ch.RequireMention {
			continue
		}
		f := newFinding("group-mention-gating-off", CategoryIdentity, SeverityMedium,
			"Mention gating disabled in groups",
			fmt.Sprintf("Channel %q responds to group messages without requiring a mention.", name),
			"The agent reacts to every message in the group, including ones not meant for it.",
			"Set requireMention to true for group conversations.")
		findings = append(findings, withFix(f, FixBehavioral))
	}
	return findings
}

func checkMentionPatterns(ctx *checkContext) []Finding {
	if ctx.Config == nil {
		return nil
	}
	var findings []Finding
	for _, name := range sortedChannelNames(ctx.Config.Channels) {
		ch := ctx.Config.Channels[name]
		if ch == nil {
			continue
		}
		for _, pat := range ch.MentionPatterns {
			if len(strings.TrimSpace(pat)) < 3 {
				findings = append(findings, newFinding("mention-pattern-generic", CategoryIdentity, SeverityMedium,
					"Mention pattern too generic",
					fmt.Sprintf("Channel %q uses mention pattern %q, short enough to trigger accidentally.", name, pat),
					"Ordinary conversation can invoke the agent unintentionally.",
					"Use a distinctive mention pattern of at least three characters."))
				break
			}
		}
	}
	return findings
}

func checkPairingTTL(ctx *checkContext) []Finding {
	if ctx.Config == nil {
		return nil
	}
	if ctx.Config.Pairing != nil && ctx.Config.Pairing.TTLSeconds != nil {
		return nil
	}
	f := newFinding("pairing-ttl-missing", CategoryIdentity, SeverityMedium,
		"Pairing codes never expire",
		"No pairing TTL is configured, so issued pairing codes stay valid indefinitely.",
		"A leaked pairing code grants access until it is manually revoked.",
		"Set pairing.ttlSeconds (600 is a reasonable default).")
	return []Finding{withFix(f, FixSafe)}
}

func checkMultiAccountSession(ctx *checkContext) []Finding {
	if ctx.Config == nil {
		return nil
	}
	var findings []Finding
	for _, name := range sortedChannelNames(ctx.Config.Channels) {
		ch := ctx.Config.Channels[name]
		if ch == nil || len(ch.Accounts) < 2 {
			continue
		}
		isolated := strVal(ch.SessionScope) == "per-peer"
		for _, acct := range sortedAccountNames(ch.Accounts) {
			if strVal(ch.Accounts[acct].SessionScope) == "per-peer" {
				isolated = true
			}
		}
		if isolated {
			continue
		}
		findings = append(findings, newFinding("multi-account-shared-session", CategoryIdentity, SeverityMedium,
			"Multi-account channel shares one session",
			fmt.Sprintf("Channel %q carries %d accounts without per-peer session isolation.", name, len(ch.Accounts)),
			"Conversation state and context leak between unrelated peers.",
			"Set sessionScope to \"per-peer\" on the channel or its accounts."))
	}
	return findings
}

func checkMultiAccountDMPolicy(ctx *checkContext) []Finding {
	if ctx.Config == nil {
		return nil
	}
	var findings []Finding
	for _, name := range sortedChannelNames(ctx.Config.Channels) {
		ch := ctx.Config.Channels[name]
		if ch == nil || len(ch.Accounts) < 2 || ch.DMPolicy != nil {
			continue
		}
		explicit := false
		for _, acct := range sortedAccountNames(ch.Accounts) {
			if ch.Accounts[acct].DMPolicy != nil {
				explicit = true
			}
		}
		if explicit {
			continue
		}
		findings = append(findings, newFinding("multi-account-no-dm-policy", CategoryIdentity, SeverityMedium,
			"Multi-account channel lacks a DM policy",
			fmt.Sprintf("Channel %q carries multiple accounts but no explicit DM policy.", name),
			"Each account silently inherits whatever the product default happens to be.",
			"Declare dmPolicy explicitly for the channel or each account."))
	}
	return findings
}

func checkCommandAccessGroups(ctx *checkContext) []Finding {
	if ctx.Config == nil || ctx.Config.Commands == nil {
		return nil
	}
	if ctx.Config.Commands.UseAccessGroups == nil || *ctx.Config.Commands.UseAccessGroups {
		return nil
	}
	f := newFinding("command-access-groups-off", CategoryIdentity, SeverityMedium,
		"Command access groups disabled",
		"commands.useAccessGroups is false, so every sender may run every command.",
		"Privileged commands are reachable by anyone the channel policy admits.",
		"Re-enable commands.useAccessGroups.")
	return []Finding{withFix(f, FixBehavioral)}
}

func checkTokenInConfig(ctx *checkContext) []Finding {
	if ctx.Config == nil || ctx.Config.Gateway == nil || ctx.Config.Gateway.Auth == nil {
		return nil
	}
	token := strVal(ctx.Config.Gateway.Auth.Token)
	if token == "" || strings.HasPrefix(token, "${") {
		return nil
	}
	f := newFinding("token-in-config", CategoryIdentity, SeverityCritical,
		"Gateway token stored in config",
		"gateway.auth.token holds a literal credential instead of an environment reference.",
		"Anything that can read the config file (backups, sync, support bundles) holds the token.",
		"Move the token to the env file and reference it as ${OPENCLAW_GATEWAY_TOKEN}.")
	if ctx.Files != nil {
		f.File = ctx.Files.ConfigPath
	}
	return []Finding{f}
}

func checkCredentialPermissions(ctx *checkContext) []Finding {
	if ctx.Files == nil {
		return nil
	}
	paths := append([]string{}, ctx.Files.CredentialFiles...)
	paths = append(paths, ctx.Files.AuthProfiles...)
	if ctx.Files.EnvPath != "" {
		paths = append(paths, ctx.Files.EnvPath)
	}
	if len(ctx.Files.CredentialFiles) > 0 && ctx.Files.InstallDir != "" {
		paths = append(paths, filepath.Join(ctx.Files.InstallDir, "credentials"))
	}
	if len(paths) == 0 {
		return nil
	}
	if ctx.Platform == "windows" {
		// ACL inspection is unavailable; informational only.
		f := newFinding("cred-file-permissions", CategoryIdentity, SeverityLow,
			"Credential file permissions not verified",
			"Windows ACLs on credential files are not inspected by this tool.",
			"Overly broad ACLs would expose stored credentials to other local users.",
			"Review ACLs on the credentials directory manually.")
		return []Finding{suggestion(f)}
	}
	var findings []Finding
	sort.Strings(paths)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if info.Mode().Perm()&0o077 == 0 {
			continue
		}
		remediation := "Restrict the file to owner-only access (0600)."
		if info.IsDir() {
			remediation = "Restrict the directory to owner-only access (0700)."
		}
		f := newFinding("cred-file-permissions", CategoryIdentity, SeverityHigh,
			"Credential file readable by other users",
			fmt.Sprintf("%s has mode %04o; group or world bits are set.", p, info.Mode().Perm()),
			"Any local user can read stored credentials.",
			remediation)
		f.File = p
		findings = append(findings, withFix(f, FixSafe))
	}
	return findings
}

func checkIdentityLinks(ctx *checkContext) []Finding {
	if ctx.Config == nil || ctx.Config.Identity == nil || len(ctx.Config.Identity.Links) == 0 {
		return nil
	}
	f := newFinding("identity-links-present", CategoryIdentity, SeverityLow,
		"Identity links configured",
		fmt.Sprintf("%d identity link(s) join accounts across channels.", len(ctx.Config.Identity.Links)),
		"A compromised linked account inherits the trust of every account it is linked to.",
		"Review each link and remove any that are no longer needed.")
	return []Finding{suggestion(f)}
}

func checkKeyRotation(ctx *checkContext) []Finding {
	// Always-on informational nudge; there is no signal for rotation age.
	f := newFinding("key-rotation-reminder", CategoryIdentity, SeverityLow,
		"No key-rotation evidence",
		"This tool cannot determine when API keys and tokens were last rotated.",
		"Long-lived credentials widen the window of any undetected leak.",
		"Rotate gateway tokens and provider API keys on a regular schedule.")
	return []Finding{suggestion(f)}
}

func sortedAccountNames(accounts map[string]*ChannelAccount) []string {
	names := make([]string, 0, len(accounts))
	for name, acct := range accounts {
		if acct != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
