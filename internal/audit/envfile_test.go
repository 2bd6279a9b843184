package audit

import "testing"

func TestParseEnvFile(t *testing.T) {
	data := []byte("# provider keys\n" +
		"\n" +
		"OPENCLAW_GATEWAY_TOKEN=abc123\n" +
		"QUOTED=\"hello world\"\n" +
		"SINGLE='value'\n" +
		"WITH_EQUALS=a=b=c\n" +
		"  PADDED = padded value \n" +
		"NOEQUALS\n" +
		"=novalue\n")
	vars := ParseEnvFile(data)
	want := []EnvVar{
		{Key: "OPENCLAW_GATEWAY_TOKEN", Value: "abc123", Line: 3},
		{Key: "QUOTED", Value: "hello world", Line: 4},
		{Key: "SINGLE", Value: "value", Line: 5},
		{Key: "WITH_EQUALS", Value: "a=b=c", Line: 6},
		{Key: "PADDED", Value: "padded value", Line: 7},
	}
	if len(vars) != len(want) {
		t.Fatalf("got %d vars, want %d: %+v", len(vars), len(want), vars)
	}
	for i, w := range want {
		if vars[i] != w {
			t.Errorf("vars[%d] = %+v, want %+v", i, vars[i], w)
		}
	}
}

func TestParseEnvFileNoExpansion(t *testing.T) {
	vars := ParseEnvFile([]byte("PATH_REF=${HOME}/keys\n"))
	if len(vars) != 1 {
		t.Fatalf("got %d vars, want 1", len(vars))
	}
	if vars[0].Value != "${HOME}/keys" {
		t.Errorf("value = %q; variable references must stay literal", vars[0].Value)
	}
}

func TestParseEnvFileCRLF(t *testing.T) {
	vars := ParseEnvFile([]byte("A=1\r\nB=2\r\n"))
	if len(vars) != 2 || vars[0].Value != "1" || vars[1].Value != "2" {
		t.Fatalf("CRLF parse failed: %+v", vars)
	}
}
