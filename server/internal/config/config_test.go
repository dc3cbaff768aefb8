package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "statcard.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_Defaults(t *testing.T) {
	p := writeConfig(t, "server:\n  options_file: \"\"\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != DefaultHTTPPort {
		t.Errorf("http_port: got %d, want %d", cfg.Server.HTTPPort, DefaultHTTPPort)
	}
	if cfg.Server.Panels.TTL != DefaultPanelTTL {
		t.Errorf("panels.ttl: got %v, want %v", cfg.Server.Panels.TTL, DefaultPanelTTL)
	}
	if cfg.Server.Stream.Interval != DefaultStreamInterval {
		t.Errorf("stream.interval: got %v, want %v", cfg.Server.Stream.Interval, DefaultStreamInterval)
	}
	if cfg.Server.Auth.EffectiveHeader() != DefaultAuthHeader {
		t.Errorf("auth header: got %q", cfg.Server.Auth.EffectiveHeader())
	}
}

func TestLoad_FullServer(t *testing.T) {
	p := writeConfig(t, `
server:
  http_port: 9090
  auth:
    mode: apikey
    key_env: STATCARD_TEST_KEY
    header: x-statcard-key
  panels:
    ttl: 2m
  stream:
    interval: 1s
  options_file: /etc/statcard/options.yaml
`)
	t.Setenv("STATCARD_TEST_KEY", "s3cret")

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := cfg.Server
	if s.HTTPPort != 9090 {
		t.Errorf("http_port: got %d", s.HTTPPort)
	}
	if s.Auth.Mode != "apikey" || s.Auth.Key() != "s3cret" {
		t.Errorf("auth: got mode=%q key=%q", s.Auth.Mode, s.Auth.Key())
	}
	if s.Auth.EffectiveHeader() != "x-statcard-key" {
		t.Errorf("auth header: got %q", s.Auth.EffectiveHeader())
	}
	if s.Panels.TTL != 2*time.Minute {
		t.Errorf("panels.ttl: got %v", s.Panels.TTL)
	}
	if s.Stream.Interval != time.Second {
		t.Errorf("stream.interval: got %v", s.Stream.Interval)
	}
	if s.OptionsFile != "/etc/statcard/options.yaml" {
		t.Errorf("options_file: got %q", s.OptionsFile)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	p := writeConfig(t, "server:\n  http_port: 9090\n")
	t.Setenv("STATCARD_SERVER_HTTP_PORT", "7070")

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != 7070 {
		t.Errorf("http_port: got %d, want 7070", cfg.Server.HTTPPort)
	}
}

func TestLoad_NoPathNoFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load without a config file: %v", err)
	}
	if cfg.Server.HTTPPort != DefaultHTTPPort {
		t.Errorf("http_port: got %d, want %d", cfg.Server.HTTPPort, DefaultHTTPPort)
	}
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"port out of range", "server:\n  http_port: 70000\n"},
		{"unknown auth mode", "server:\n  auth:\n    mode: mtls\n"},
		{"negative ttl", "server:\n  panels:\n    ttl: -1m\n"},
		{"zero interval", "server:\n  stream:\n    interval: 0s\n"},
		{"bad yaml", "server: [\n"},
		{"unnamed rule", "server:\n  alerts:\n    rules:\n      - condition: average > 90\n"},
		{"unknown severity", "server:\n  alerts:\n    rules:\n      - name: hot\n        condition: average > 90\n        severity: urgent\n"},
		{"unknown webhook", "server:\n  alerts:\n    webhooks:\n      - type: pagerduty\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.content)); err == nil {
				t.Errorf("expected error for %s", tc.name)
			}
		})
	}
}

func TestAuthConfig_Key_Empty(t *testing.T) {
	if got := (AuthConfig{Mode: "apikey"}).Key(); got != "" {
		t.Errorf("Key() with no KeyEnv: got %q, want empty", got)
	}
}

func TestLoad_Alerts(t *testing.T) {
	p := writeConfig(t, `
server:
  alerts:
    rules:
      - name: hot
        condition: average > 90
        severity: critical
        cooldown: 30s
      - name: spiky
        condition: anomalies > 0
    webhooks:
      - type: slack
        url_env: STATCARD_TEST_SLACK
`)
	t.Setenv("STATCARD_TEST_SLACK", "https://hooks.example/slack")

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	a := cfg.Server.Alerts
	if len(a.Rules) != 2 {
		t.Fatalf("rules: got %d, want 2", len(a.Rules))
	}
	if a.Rules[0].Name != "hot" || a.Rules[0].Condition != "average > 90" || a.Rules[0].Severity != "critical" {
		t.Errorf("rules[0]: got %+v", a.Rules[0])
	}
	if a.Rules[0].Cooldown != 30*time.Second {
		t.Errorf("rules[0].cooldown: got %v", a.Rules[0].Cooldown)
	}
	if a.Rules[1].Severity != "" || a.Rules[1].Cooldown != 0 {
		t.Errorf("rules[1]: got %+v", a.Rules[1])
	}
	if len(a.Webhooks) != 1 || a.Webhooks[0].URL() != "https://hooks.example/slack" {
		t.Errorf("webhooks: got %+v", a.Webhooks)
	}
}
