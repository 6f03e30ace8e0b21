package policy

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// policyFile is the on-disk shape of a policy document. Only fields present
// in the file override the defaults; absent fields keep their baseline.
type policyFile struct {
	Version int         `yaml:"version"`
	Audit   AuditConfig `yaml:"audit"`
}

// LoadPolicy reads a version-1 policy file from path, overlays it on the
// default configuration, and validates the result. The returned config is
// ready to hand to the audit core; a validation failure is returned as
// *ConfigurationError.
func LoadPolicy(path string) (*AuditConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	base := DefaultAuditConfig()

	var file policyFile
	// Start the overlay from the defaults so absent YAML fields keep them.
	file.Audit = base
	// Maps would be merged key-by-key by the YAML decoder; a policy that
	// declares a ladder or ratio table replaces it wholesale instead.
	file.Audit.StorageClassPriceRatios = nil
	file.Audit.RightsizingTiers = nil

	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse policy file %q: %w", path, err)
	}

	if file.Version != 1 {
		return nil, errors.New("unsupported policy version")
	}

	if file.Audit.StorageClassPriceRatios == nil {
		file.Audit.StorageClassPriceRatios = base.StorageClassPriceRatios
	}
	if file.Audit.RightsizingTiers == nil {
		file.Audit.RightsizingTiers = base.RightsizingTiers
	}

	cfg := file.Audit
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
