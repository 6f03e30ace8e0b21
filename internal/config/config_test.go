package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsZeroConfig(t *testing.T) {
	loader := &DefaultLoader{Path: filepath.Join(t.TempDir(), "config.yaml")}

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AWS.DefaultProfile != "" || cfg.Audit.DaysBack != 0 {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestLoad_ParsesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
aws:
  default_profile: prod
  default_region: eu-west-1
audit:
  policy_path: /etc/fa/policy.yaml
  days_back: 14
llm:
  provider: anthropic
  model: claude-sonnet-4-5
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := (&DefaultLoader{Path: path}).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AWS.DefaultProfile != "prod" || cfg.AWS.DefaultRegion != "eu-west-1" {
		t.Errorf("unexpected AWS defaults: %+v", cfg.AWS)
	}
	if cfg.Audit.PolicyPath != "/etc/fa/policy.yaml" || cfg.Audit.DaysBack != 14 {
		t.Errorf("unexpected audit defaults: %+v", cfg.Audit)
	}
	if cfg.LLM.Provider != "anthropic" {
		t.Errorf("unexpected LLM config: %+v", cfg.LLM)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("aws: [broken\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := (&DefaultLoader{Path: path}).Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestConfigPath_Override(t *testing.T) {
	loader := &DefaultLoader{Path: "/tmp/custom.yaml"}
	if got := loader.ConfigPath(); got != "/tmp/custom.yaml" {
		t.Errorf("expected override path, got %q", got)
	}
}
