package audit

import (
	"fmt"
	"strings"
)

// weakTokens are values seen in real installs and default documentation.
// Membership trumps length: a common token is flagged regardless of size.
var weakTokens = map[string]struct{}{
	"changeme":   {},
	"password":   {},
	"secret":     {},
	"token":      {},
	"admin":      {},
	"test":       {},
	"openclaw":   {},
	"letmein":    {},
	"12345678":   {},
	"qwerty":     {},
	"gateway":    {},
	"dev":        {},
	"0000000000": {},
}

func isLoopback(bind string) bool {
	switch strings.ToLower(bind) {
	case "", "127.0.0.1", "localhost", "::1", "[::1]", "loopback":
		return true
	}
	return strings.HasPrefix(bind, "127.")
}

func bindAll(bind string) bool {
	switch bind {
	case "0.0.0.0", "::", "[::]", "*":
		return true
	}
	return false
}

func gatewayOf(ctx *checkContext) *GatewayConfig {
	if ctx.Config == nil {
		return nil
	}
	return ctx.Config.Gateway
}

func checkGatewayBind(ctx *checkContext) []Finding {
	gw := gatewayOf(ctx)
	if gw == nil || !bindAll(strVal(gw.Bind)) {
		return nil
	}
	f := newFinding("gateway-bind-all", CategoryNetwork, SeverityCritical,
		"Gateway bound to all interfaces",
		fmt.Sprintf("gateway.bind is %q, exposing the control port on every network interface.", strVal(gw.Bind)),
		"Anyone who can reach the host on the network can talk to the agent gateway.",
		"Bind the gateway to 127.0.0.1 and front it with a reverse proxy if remote access is needed.")
	return []Finding{withFix(f, FixSafe)}
}

func checkGatewayAuthDisabled(ctx *checkContext) []Finding {
	gw := gatewayOf(ctx)
	if gw == nil || gw.Auth == nil {
		return nil
	}
	switch strings.ToLower(strVal(gw.Auth.Mode)) {
	case "off", "none", "disabled":
	default:
		return nil
	}
	f := newFinding("gateway-auth-disabled", CategoryNetwork, SeverityCritical,
		"Gateway authentication disabled",
		fmt.Sprintf("gateway.auth.mode is %q; requests are accepted without credentials.", strVal(gw.Auth.Mode)),
		"Any process or peer that can reach the port has full agent control.",
		"Set gateway.auth.mode to \"token\" and configure a strong token.")
	return []Finding{withFix(f, FixSafe)}
}

func checkGatewayTokenCommon(ctx *checkContext) []Finding {
	gw := gatewayOf(ctx)
	if gw == nil || gw.Auth == nil {
		return nil
	}
	token := strVal(gw.Auth.Token)
	if token == "" || strings.HasPrefix(token, "${") {
		return nil
	}
	if _, common := weakTokens[strings.ToLower(token)]; !common {
		return nil
	}
	f := newFinding("gateway-token-common", CategoryNetwork, SeverityCritical,
		"Gateway token is a well-known value",
		"gateway.auth.token matches a dictionary of common placeholder tokens.",
		"The token offers no protection against even casual guessing.",
		"Generate a random token of at least 32 characters.")
	return []Finding{withFix(f, FixSafe)}
}

func checkGatewayTokenWeak(ctx *checkContext) []Finding {
	gw := gatewayOf(ctx)
	if gw == nil || gw.Auth == nil {
		return nil
	}
	// Env references are resolved elsewhere; their length says nothing.
	token := strVal(gw.Auth.Token)
	if token == "" || len(token) >= 32 || strings.HasPrefix(token, "${") {
		return nil
	}
	if _, common := weakTokens[strings.ToLower(token)]; common {
		return nil // the common-token check already covers it
	}
	f := newFinding("gateway-token-weak", CategoryNetwork, SeverityHigh,
		"Gateway token is too short",
		fmt.Sprintf("gateway.auth.token is %d characters; fewer than 32.", len(token)),
		"Short tokens are feasible to brute-force against a listening gateway.",
		"Generate a random token of at least 32 characters.")
	return []Finding{withFix(f, FixSafe)}
}

func checkTrustedProxies(ctx *checkContext) []Finding {
	gw := gatewayOf(ctx)
	if gw == nil || isLoopback(strVal(gw.Bind)) || len(gw.TrustedProxies) > 0 {
		return nil
	}
	return []Finding{newFinding("gateway-no-trusted-proxies", CategoryNetwork, SeverityMedium,
		"No trusted proxies configured",
		"The gateway is bound beyond loopback without a trustedProxies list.",
		"Client identity derived from forwarded headers can be spoofed by any peer.",
		"List the reverse proxies allowed to set forwarding headers, or bind to loopback.")}
}

func checkInsecureAuth(ctx *checkContext) []Finding {
	gw := gatewayOf(ctx)
	if gw == nil || !boolVal(gw.InsecureAuth) {
		return nil
	}
	f := newFinding("gateway-insecure-auth", CategoryNetwork, SeverityHigh,
		"Insecure auth mode enabled",
		"gateway.insecureAuth is true, relaxing credential checks.",
		"Downgraded authentication accepts connections a production gateway should refuse.",
		"Set gateway.insecureAuth to false.")
	return []Finding{withFix(f, FixSafe)}
}

func checkDeviceBypass(ctx *checkContext) []Finding {
	gw := gatewayOf(ctx)
	if gw == nil || !boolVal(gw.DisableDevice) {
		return nil
	}
	f := newFinding("gateway-device-bypass", CategoryNetwork, SeverityHigh,
		"Device authentication bypassed",
		"gateway.dangerouslyDisableDeviceAuth is true.",
		"New devices can attach to the gateway without completing device pairing.",
		"Remove the flag; it exists only for short-lived local debugging.")
	return []Finding{withFix(f, FixSafe)}
}

func checkPortExposed(ctx *checkContext) []Finding {
	if ctx.Config == nil || ctx.Config.Canvas == nil {
		return nil
	}
	host := strVal(ctx.Config.Canvas.Host)
	if !bindAll(host) {
		return nil
	}
	return []Finding{newFinding("port-exposed", CategoryNetwork, SeverityMedium,
		"Canvas port exposed on all interfaces",
		fmt.Sprintf("canvas.host is %q; the canvas HTTP port is reachable from the network.", host),
		"The canvas surface leaks session content to anyone on the network.",
		"Bind the canvas host to 127.0.0.1.")}
}

func checkGatewayTLS(ctx *checkContext) []Finding {
	gw := gatewayOf(ctx)
	if gw == nil || isLoopback(strVal(gw.Bind)) {
		return nil
	}
	if gw.TLS != nil && (boolVal(gw.TLS.Enabled) || strVal(gw.TLS.Cert) != "" || strVal(gw.TLS.Key) != "") {
		return nil
	}
	return []Finding{newFinding("gateway-no-tls", CategoryNetwork, SeverityMedium,
		"No TLS on a non-loopback gateway",
		"The gateway listens beyond loopback and no TLS keys are configured.",
		"Tokens and session content cross the network in cleartext.",
		"Terminate TLS at the gateway or at a fronting proxy.")}
}
