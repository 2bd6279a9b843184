package audit

import "fmt"

func sandboxOf(ctx *checkContext) *SandboxConfig {
	if ctx.Config == nil {
		return nil
	}
	return ctx.Config.Sandbox
}

func checkSandboxOff(ctx *checkContext) []Finding {
	sb := sandboxOf(ctx)
	if sb == nil || strVal(sb.Mode) != "off" {
		return nil
	}
	f := newFinding("sandbox-off", CategorySandbox, SeverityHigh,
		"Sandbox disabled",
		"sandbox.mode is \"off\"; agent tools run directly on the host.",
		"A prompt-injected or misbehaving tool call executes with the user's full privileges.",
		"Set sandbox.mode to \"non-main\" so non-primary sessions run contained.")
	return []Finding{withFix(f, FixBehavioral)}
}

func checkSandboxUnconfigured(ctx *checkContext) []Finding {
	if ctx.Config == nil || ctx.Config.Sandbox != nil {
		return nil
	}
	return []Finding{newFinding("sandbox-unconfigured", CategorySandbox, SeverityMedium,
		"No sandbox configuration",
		"The config has no sandbox block; execution falls through to product defaults.",
		"Whether tools are contained depends on defaults that change between releases.",
		"Add an explicit sandbox block with mode and workspace access settings.")}
}

func checkWorkspaceAccess(ctx *checkContext) []Finding {
	sb := sandboxOf(ctx)
	if sb == nil || strVal(sb.WorkspaceAccess) != "rw" {
		return nil
	}
	f := newFinding("workspace-readwrite", CategorySandbox, SeverityMedium,
		"Sandboxed sessions can write the workspace",
		"sandbox.workspaceAccess is \"rw\".",
		"A contained session can still modify workspace memory and skill files read by later sessions.",
		"Set workspaceAccess to \"ro\" unless a workflow genuinely writes files.")
	return []Finding{withFix(f, FixBehavioral)}
}

func checkElevatedToolsMany(ctx *checkContext) []Finding {
	if ctx.Config == nil || ctx.Config.Tools == nil || len(ctx.Config.Tools.Elevated) <= 5 {
		return nil
	}
	return []Finding{newFinding("elevated-tools-many", CategorySandbox, SeverityMedium,
		"Large elevated-tool list",
		fmt.Sprintf("%d tools bypass the sandbox (more than 5).", len(ctx.Config.Tools.Elevated)),
		"Every elevated tool is a separate hole in the containment boundary.",
		"Trim the elevated list to the tools that truly need host access.")}
}

func checkElevatedToolsReview(ctx *checkContext) []Finding {
	if ctx.Config == nil || ctx.Config.Tools == nil || len(ctx.Config.Tools.Elevated) == 0 {
		return nil
	}
	f := newFinding("elevated-tools-review", CategorySandbox, SeverityLow,
		"Elevated tools configured",
		fmt.Sprintf("%d tool(s) run outside the sandbox.", len(ctx.Config.Tools.Elevated)),
		"Undocumented elevation tends to outlive the need that justified it.",
		"Document why each elevated tool needs host access.")
	return []Finding{suggestion(f)}
}

func checkDockerNetwork(ctx *checkContext) []Finding {
	sb := sandboxOf(ctx)
	if sb == nil || sb.Docker == nil {
		return nil
	}
	network := strVal(sb.Docker.Network)
	if network == "" || network == "none" {
		return nil
	}
	f := newFinding("docker-network-enabled", CategorySandbox, SeverityMedium,
		"Sandbox containers have network access",
		fmt.Sprintf("sandbox.docker.network is %q instead of \"none\".", network),
		"A compromised sandboxed session can exfiltrate data or reach internal services.",
		"Set sandbox.docker.network to \"none\".")
	return []Finding{withFix(f, FixBehavioral)}
}

func checkDockerSocket(ctx *checkContext) []Finding {
	sb := sandboxOf(ctx)
	if sb == nil || sb.Docker == nil || !boolVal(sb.Docker.MountDockerSock) {
		return nil
	}
	f := newFinding("docker-socket-mounted", CategorySandbox, SeverityHigh,
		"Container control socket mounted into sandbox",
		"sandbox.docker.mountDockerSocket is true.",
		"Access to the container control socket is equivalent to root on the host.",
		"Remove the socket mount; use a constrained API proxy if containers must be managed.")
	return []Finding{withFix(f, FixBehavioral)}
}

func checkBrowserHostControl(ctx *checkContext) []Finding {
	sb := sandboxOf(ctx)
	if sb == nil || sb.Browser == nil || !boolVal(sb.Browser.AllowHostControl) {
		return nil
	}
	f := newFinding("browser-host-control", CategorySandbox, SeverityMedium,
		"Sandbox may drive the host browser",
		"sandbox.browser.allowHostControl is true.",
		"A sandboxed session can act in the user's logged-in browser profile.",
		"Set allowHostControl to false and give the sandbox its own browser profile.")
	return []Finding{withFix(f, FixBehavioral)}
}
