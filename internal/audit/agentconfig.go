package audit

import (
	"encoding/json"

	"github.com/tailscale/hujson"

	"github.com/clawsec/openclaw-audit/internal/support"
)

// AgentConfig mirrors the monitored agent's openclaw.json. Every group and
// field is optional; unknown keys are accepted and ignored here. The fix
// engine re-parses the file into a generic map so unknown keys survive a
// rewrite.
type AgentConfig struct {
	Gateway  *GatewayConfig            `json:"gateway,omitempty"`
	Channels map[string]*ChannelConfig `json:"channels,omitempty"`
	Sandbox  *SandboxConfig            `json:"sandbox,omitempty"`
	Tools    *ToolsConfig              `json:"tools,omitempty"`
	Pairing  *PairingConfig            `json:"pairing,omitempty"`
	Commands *CommandsConfig           `json:"commands,omitempty"`
	Model    *ModelConfig              `json:"model,omitempty"`
	Identity *IdentityConfig           `json:"identity,omitempty"`
	Canvas   *CanvasConfig             `json:"canvas,omitempty"`
}

type GatewayConfig struct {
	Bind           *string        `json:"bind,omitempty"`
	Port           *int           `json:"port,omitempty"`
	Auth           *GatewayAuth   `json:"auth,omitempty"`
	TrustedProxies []string       `json:"trustedProxies,omitempty"`
	InsecureAuth   *bool          `json:"insecureAuth,omitempty"`
	DisableDevice  *bool          `json:"dangerouslyDisableDeviceAuth,omitempty"`
	TLS            *TLSConfig     `json:"tls,omitempty"`
}

type GatewayAuth struct {
	Mode  *string `json:"mode,omitempty"`
	Token *string `json:"token,omitempty"`
}

type TLSConfig struct {
	Enabled *bool   `json:"enabled,omitempty"`
	Cert    *string `json:"cert,omitempty"`
	Key     *string `json:"key,omitempty"`
}

// ChannelConfig is the per-channel access policy. Accounts holds the
// per-account overrides when one channel carries several accounts.
type ChannelConfig struct {
	DMPolicy        *string                    `json:"dmPolicy,omitempty"`
	GroupPolicy     *string                    `json:"groupPolicy,omitempty"`
	AllowFrom       []string                   `json:"allowFrom,omitempty"`
	RequireMention  *bool                      `json:"requireMention,omitempty"`
	MentionPatterns []string                   `json:"mentionPatterns,omitempty"`
	SessionScope    *string                    `json:"sessionScope,omitempty"`
	Accounts        map[string]*ChannelAccount `json:"accounts,omitempty"`
}

type ChannelAccount struct {
	DMPolicy     *string `json:"dmPolicy,omitempty"`
	SessionScope *string `json:"sessionScope,omitempty"`
}

type SandboxConfig struct {
	Mode            *string         `json:"mode,omitempty"`
	Scope           *string         `json:"scope,omitempty"`
	WorkspaceAccess *string         `json:"workspaceAccess,omitempty"`
	Docker          *DockerSandbox  `json:"docker,omitempty"`
	Browser         *BrowserSandbox `json:"browser,omitempty"`
}

type DockerSandbox struct {
	Network         *string `json:"network,omitempty"`
	MountDockerSock *bool   `json:"mountDockerSocket,omitempty"`
}

type BrowserSandbox struct {
	AllowHostControl *bool `json:"allowHostControl,omitempty"`
}

type ToolsConfig struct {
	Elevated []string `json:"elevated,omitempty"`
}

type PairingConfig struct {
	TTLSeconds *int `json:"ttlSeconds,omitempty"`
}

type CommandsConfig struct {
	UseAccessGroups *bool `json:"useAccessGroups,omitempty"`
}

type ModelConfig struct {
	Provider           *string `json:"provider,omitempty"`
	Name               *string `json:"name,omitempty"`
	PinnedVersion      *string `json:"pinnedVersion,omitempty"`
	BroadcastReasoning *bool   `json:"broadcastReasoning,omitempty"`
}

type IdentityConfig struct {
	Links []IdentityLink `json:"links,omitempty"`
}

type IdentityLink struct {
	Channel string `json:"channel,omitempty"`
	Account string `json:"account,omitempty"`
}

type CanvasConfig struct {
	Host *string `json:"host,omitempty"`
	Port *int    `json:"port,omitempty"`
}

// ParseAgentConfig parses the relaxed-JSON dialect the agent uses (comments
// and trailing commas permitted). Returns nil on any failure; the raw text is
// kept separately by the caller for secret scanning.
func ParseAgentConfig(data []byte) *AgentConfig {
	std, err := hujson.Standardize(support.StripBOM(data))
	if err != nil {
		return nil
	}
	var cfg AgentConfig
	if err := json.Unmarshal(std, &cfg); err != nil {
		return nil
	}
	return &cfg
}

// parseConfigMap parses the config into a generic map for the fix engine so
// a rewrite preserves keys this tool does not interpret.
func parseConfigMap(data []byte) (map[string]interface{}, error) {
	std, err := hujson.Standardize(support.StripBOM(data))
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(std, &m); err != nil {
		return nil, err
	}
	return m, nil
}
