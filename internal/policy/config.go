package policy

// AuditConfig carries every tunable the audit core reads: classification
// thresholds, savings parameters, rightsizing tier ladders, and the
// aggregator concurrency limit. Values are configuration, never constants
// inside rules, because they track provider pricing and operational taste.
//
// The zero value is not usable; start from DefaultAuditConfig and overlay
// a policy file via LoadPolicy.
type AuditConfig struct {
	// IdleThreshold is the traffic-rate ceiling (requests, invocations or
	// connections per hour) at or below which a resource is classified IDLE.
	IdleThreshold float64 `yaml:"idle_threshold"`

	// UtilizationThreshold is the sustained-utilization ratio above which a
	// resource is UNDERSIZED (risk flag) or a reservation candidate.
	UtilizationThreshold float64 `yaml:"utilization_threshold"`

	// OversizedThreshold is the utilization ratio below which a resource is
	// OVERSIZED (paying for unused capacity).
	OversizedThreshold float64 `yaml:"oversized_threshold"`

	// ColdStartRateThreshold is the cold-starts-per-hour rate above which a
	// serverless function is COLD_START_HEAVY.
	ColdStartRateThreshold float64 `yaml:"cold_start_rate_threshold"`

	// HeadroomFactor is the safety margin multiplied into observed peak
	// demand when computing a rightsizing target. Must be >= 1.
	HeadroomFactor float64 `yaml:"headroom_factor"`

	// StorageClassPriceRatios maps a storage class name to its price relative
	// to the standard class (standard = 1.0).
	StorageClassPriceRatios map[string]float64 `yaml:"storage_class_price_ratios"`

	// CommittedUseDiscountRate is the fraction of on-demand cost saved under
	// a committed-use plan. 0 (the default) means reservation findings carry
	// no savings claim.
	CommittedUseDiscountRate float64 `yaml:"committed_use_discount_rate"`

	// ConcurrencyLimit bounds how many per-kind auditors run in parallel.
	// 0 means one worker per kind present in the input.
	ConcurrencyLimit int `yaml:"concurrency_limit"`

	// RightsizingTiers maps an allocated-capacity metric name (vcpu,
	// memory_mb, disk_gb) to the ascending ladder of standard provisioning
	// sizes used to pick a rightsizing target.
	RightsizingTiers map[string][]float64 `yaml:"rightsizing_tiers"`

	// Rules holds optional per-rule overrides keyed by rule ID.
	Rules map[string]RuleConfig `yaml:"rules"`
}

// RuleConfig is the per-rule override block of a policy file.
type RuleConfig struct {
	// Enabled disables the rule entirely when set to false. Nil means enabled.
	Enabled *bool `yaml:"enabled,omitempty"`

	// Severity forces every finding from this rule to the given severity.
	Severity string `yaml:"severity,omitempty"`

	// Params overrides named numeric thresholds for this rule only.
	Params map[string]float64 `yaml:"params,omitempty"`
}

// DefaultAuditConfig returns the baseline configuration used when no policy
// file is loaded. Tier ladders and price ratios follow common provider
// catalogs; adjust via policy file as pricing changes.
func DefaultAuditConfig() AuditConfig {
	return AuditConfig{
		IdleThreshold:          0.1,
		UtilizationThreshold:   0.8,
		OversizedThreshold:     0.2,
		ColdStartRateThreshold: 10,
		HeadroomFactor:         1.25,
		StorageClassPriceRatios: map[string]float64{
			"standard":   1.0,
			"infrequent": 0.55,
			"archive":    0.18,
		},
		CommittedUseDiscountRate: 0,
		ConcurrencyLimit:         0,
		RightsizingTiers: map[string][]float64{
			"vcpu":      {1, 2, 4, 8, 16, 32, 64, 96},
			"memory_mb": {512, 1024, 2048, 4096, 8192, 16384, 32768, 65536},
			"disk_gb":   {10, 50, 100, 250, 500, 1000, 2000, 4000},
		},
	}
}

// RuleEnabled reports whether the rule with the given ID is enabled under
// cfg. Safe to call with cfg == nil (everything enabled).
func RuleEnabled(ruleID string, cfg *AuditConfig) bool {
	if cfg == nil {
		return true
	}
	rc, ok := cfg.Rules[ruleID]
	if !ok || rc.Enabled == nil {
		return true
	}
	return *rc.Enabled
}
