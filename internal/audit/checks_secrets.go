package audit

import (
	"fmt"
	"sort"
)

func secretFinding(id, path string, m SecretMatch) Finding {
	f := newFinding(id, CategorySecrets, SeverityHigh,
		fmt.Sprintf("Secret-shaped value (%s)", m.Pattern),
		fmt.Sprintf("Matched %s at %s:%d (preview %s).", m.Pattern, path, m.Line, m.Preview),
		"Leaked credentials grant whatever access the secret carries.",
		"Move the value into a credential store or env reference, then rotate it.")
	f.File = path
	f.Line = m.Line
	return f
}

func checkSecretsInConfig(ctx *checkContext) []Finding {
	if ctx.RawConfig == "" || ctx.Files == nil || ctx.Files.ConfigPath == "" {
		return nil
	}
	var findings []Finding
	for _, m := range ScanTextForSecrets(ctx.RawConfig) {
		findings = append(findings, secretFinding("secret-in-config", ctx.Files.ConfigPath, m))
	}
	return findings
}

func checkSecretsInEnv(ctx *checkContext) []Finding {
	if len(ctx.Env) == 0 || ctx.Files == nil || ctx.Files.EnvPath == "" {
		return nil
	}
	var findings []Finding
	for _, v := range ctx.Env {
		for _, m := range ScanTextForSecrets(v.Key + "=" + v.Value) {
			m.Line = v.Line
			findings = append(findings, secretFinding("secret-in-env", ctx.Files.EnvPath, m))
		}
	}
	return findings
}

func checkSecretsInMarkdown(ctx *checkContext) []Finding {
	if len(ctx.Markdown) == 0 {
		return nil
	}
	paths := make([]string, 0, len(ctx.Markdown))
	for p := range ctx.Markdown {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	var findings []Finding
	for _, p := range paths {
		for _, m := range ScanTextForSecrets(ctx.Markdown[p]) {
			findings = append(findings, secretFinding("secret-in-markdown", p, m))
		}
	}
	return findings
}

func checkSecretsInSessionLogs(ctx *checkContext) []Finding {
	if len(ctx.Sessions) == 0 {
		return nil
	}
	paths := make([]string, 0, len(ctx.Sessions))
	for p := range ctx.Sessions {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	var findings []Finding
	for _, p := range paths {
		for _, entry := range ctx.Sessions[p] {
			for _, m := range ScanTextForSecrets(entry.Raw) {
				m.Line = entry.Line
				findings = append(findings, secretFinding("secret-in-session-log", p, m))
			}
		}
	}
	return findings
}
