package policy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writePolicyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fa.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write policy file: %v", err)
	}
	return path
}

func TestLoadPolicy_OverlaysDefaults(t *testing.T) {
	path := writePolicyFile(t, `
version: 1
audit:
  idle_threshold: 0.25
  rules:
    COMPUTE_IDLE:
      severity: LOW
`)

	cfg, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.IdleThreshold != 0.25 {
		t.Errorf("expected idle_threshold 0.25, got %v", cfg.IdleThreshold)
	}
	// Fields absent from the file keep the baseline.
	if cfg.UtilizationThreshold != 0.8 {
		t.Errorf("expected default utilization_threshold 0.8, got %v", cfg.UtilizationThreshold)
	}
	if cfg.HeadroomFactor != 1.25 {
		t.Errorf("expected default headroom_factor 1.25, got %v", cfg.HeadroomFactor)
	}
	if cfg.Rules["COMPUTE_IDLE"].Severity != "LOW" {
		t.Errorf("expected severity override LOW, got %q", cfg.Rules["COMPUTE_IDLE"].Severity)
	}
}

func TestLoadPolicy_AbsentMapsKeepDefaults(t *testing.T) {
	path := writePolicyFile(t, `
version: 1
audit:
  idle_threshold: 0.2
`)

	cfg, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.RightsizingTiers["vcpu"]) == 0 {
		t.Error("expected default vcpu ladder to survive")
	}
	if cfg.StorageClassPriceRatios["archive"] != 0.18 {
		t.Errorf("expected default archive ratio 0.18, got %v", cfg.StorageClassPriceRatios["archive"])
	}
}

func TestLoadPolicy_DeclaredMapsReplaceWholesale(t *testing.T) {
	path := writePolicyFile(t, `
version: 1
audit:
  storage_class_price_ratios:
    standard: 1.0
    nearline: 0.5
  rightsizing_tiers:
    vcpu: [2, 8, 32]
`)

	cfg, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cfg.StorageClassPriceRatios["archive"]; ok {
		t.Error("expected declared ratio table to replace defaults, archive survived")
	}
	if cfg.StorageClassPriceRatios["nearline"] != 0.5 {
		t.Errorf("expected nearline 0.5, got %v", cfg.StorageClassPriceRatios["nearline"])
	}
	if len(cfg.RightsizingTiers["vcpu"]) != 3 {
		t.Errorf("expected 3-step vcpu ladder, got %v", cfg.RightsizingTiers["vcpu"])
	}
	if _, ok := cfg.RightsizingTiers["memory_mb"]; ok {
		t.Error("expected declared tier table to replace defaults, memory_mb survived")
	}
}

func TestLoadPolicy_UnsupportedVersionRejected(t *testing.T) {
	path := writePolicyFile(t, `
version: 2
audit:
  idle_threshold: 0.2
`)

	if _, err := LoadPolicy(path); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}

func TestLoadPolicy_MissingFile(t *testing.T) {
	if _, err := LoadPolicy(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadPolicy_MalformedYAML(t *testing.T) {
	path := writePolicyFile(t, "version: [1\n")

	if _, err := LoadPolicy(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadPolicy_InvalidConfigSurfacesProblems(t *testing.T) {
	path := writePolicyFile(t, `
version: 1
audit:
  idle_threshold: 3.5
  headroom_factor: 0.5
`)

	_, err := LoadPolicy(path)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigurationError, got %T", err)
	}
	if len(cfgErr.Problems) != 2 {
		t.Errorf("expected 2 problems, got %d: %v", len(cfgErr.Problems), cfgErr.Problems)
	}
}
