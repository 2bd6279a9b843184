package audit

import "testing"

func TestParseAgentConfigRelaxed(t *testing.T) {
	data := []byte(`{
		// local dev override
		"gateway": {
			"bind": "0.0.0.0",
			"port": 8090,
			"auth": {"mode": "token", "token": "abc"},
		},
		"sandbox": {"mode": "off"},
	}`)
	cfg := ParseAgentConfig(data)
	if cfg == nil {
		t.Fatal("relaxed JSON did not parse")
	}
	if cfg.Gateway == nil || strVal(cfg.Gateway.Bind) != "0.0.0.0" {
		t.Errorf("gateway = %+v", cfg.Gateway)
	}
	if cfg.Gateway.Port == nil || *cfg.Gateway.Port != 8090 {
		t.Errorf("port = %v", cfg.Gateway.Port)
	}
	if cfg.Sandbox == nil || strVal(cfg.Sandbox.Mode) != "off" {
		t.Errorf("sandbox = %+v", cfg.Sandbox)
	}
}

func TestParseAgentConfigBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"pairing": {"ttlSeconds": 300}}`)...)
	cfg := ParseAgentConfig(data)
	if cfg == nil || cfg.Pairing == nil || cfg.Pairing.TTLSeconds == nil || *cfg.Pairing.TTLSeconds != 300 {
		t.Fatalf("BOM-prefixed config: %+v", cfg)
	}
}

func TestParseAgentConfigInvalid(t *testing.T) {
	for _, data := range []string{`{"gateway": `, `not json`, `[1, 2, 3]`} {
		if cfg := ParseAgentConfig([]byte(data)); cfg != nil {
			t.Errorf("ParseAgentConfig(%q) = %+v, want nil", data, cfg)
		}
	}
}

func TestParseAgentConfigUnknownKeys(t *testing.T) {
	cfg := ParseAgentConfig([]byte(`{"futureFeature": {"x": 1}, "gateway": {"bind": "::"}}`))
	if cfg == nil || cfg.Gateway == nil {
		t.Fatal("unknown keys must not break parsing")
	}
}

func TestParseConfigMap(t *testing.T) {
	m, err := parseConfigMap([]byte(`{"a": 1, /* c */ "nested": {"b": true},}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m["a"]; !ok {
		t.Error("key a missing")
	}
	nested, ok := m["nested"].(map[string]interface{})
	if !ok || nested["b"] != true {
		t.Errorf("nested = %v", m["nested"])
	}
}
