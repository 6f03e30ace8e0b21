package policy

import (
	"fmt"
	"sort"
	"strings"
)

// validSeverities is the set of allowed severity override strings
// (upper-case canonical form).
var validSeverities = map[string]struct{}{
	"HIGH":   {},
	"MEDIUM": {},
	"LOW":    {},
}

// ConfigurationError reports an AuditConfig that failed validation.
// It is fatal for the whole invocation: no auditor runs with a bad config.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid audit config: %s", strings.Join(e.Problems, "; "))
}

// Validate checks cfg for semantic correctness once, eagerly, before any
// audit work begins. All problems are collected before returning; Validate
// never stops at the first error. A nil return means the config is valid.
//
// Checks performed:
//   - idle, utilization, oversized and discount thresholds in [0,1]
//   - oversized_threshold strictly below utilization_threshold
//   - cold_start_rate_threshold non-negative
//   - headroom_factor >= 1
//   - concurrency_limit non-negative
//   - storage class price ratios in (0,1]
//   - rightsizing tier ladders non-empty, positive, strictly ascending
//   - rule severity overrides one of HIGH, MEDIUM, LOW
func Validate(cfg *AuditConfig) error {
	if cfg == nil {
		return &ConfigurationError{Problems: []string{"config is nil"}}
	}

	var problems []string

	checkUnit := func(name string, v float64) {
		if v < 0 || v > 1 {
			problems = append(problems, fmt.Sprintf("%s: %v outside [0,1]", name, v))
		}
	}
	checkUnit("idle_threshold", cfg.IdleThreshold)
	checkUnit("utilization_threshold", cfg.UtilizationThreshold)
	checkUnit("oversized_threshold", cfg.OversizedThreshold)
	checkUnit("committed_use_discount_rate", cfg.CommittedUseDiscountRate)

	if cfg.OversizedThreshold >= cfg.UtilizationThreshold {
		problems = append(problems, fmt.Sprintf(
			"oversized_threshold %v must be below utilization_threshold %v",
			cfg.OversizedThreshold, cfg.UtilizationThreshold))
	}
	if cfg.ColdStartRateThreshold < 0 {
		problems = append(problems, fmt.Sprintf("cold_start_rate_threshold: %v is negative", cfg.ColdStartRateThreshold))
	}
	if cfg.HeadroomFactor < 1 {
		problems = append(problems, fmt.Sprintf("headroom_factor: %v must be >= 1", cfg.HeadroomFactor))
	}
	if cfg.ConcurrencyLimit < 0 {
		problems = append(problems, fmt.Sprintf("concurrency_limit: %d is negative", cfg.ConcurrencyLimit))
	}

	// Map iteration order is random; sort keys so repeated validation of the
	// same bad config reports problems in the same order.
	for _, class := range sortedKeys(cfg.StorageClassPriceRatios) {
		ratio := cfg.StorageClassPriceRatios[class]
		if ratio <= 0 || ratio > 1 {
			problems = append(problems, fmt.Sprintf("storage_class_price_ratios.%s: %v outside (0,1]", class, ratio))
		}
	}

	for _, name := range sortedKeys(cfg.RightsizingTiers) {
		ladder := cfg.RightsizingTiers[name]
		if len(ladder) == 0 {
			problems = append(problems, fmt.Sprintf("rightsizing_tiers.%s: empty ladder", name))
			continue
		}
		prev := 0.0
		for i, tier := range ladder {
			if tier <= prev {
				problems = append(problems, fmt.Sprintf(
					"rightsizing_tiers.%s[%d]: %v must be positive and ascending", name, i, tier))
				break
			}
			prev = tier
		}
	}

	for _, ruleID := range sortedKeys(cfg.Rules) {
		rc := cfg.Rules[ruleID]
		if rc.Severity == "" {
			continue
		}
		if _, ok := validSeverities[strings.ToUpper(rc.Severity)]; !ok {
			problems = append(problems, fmt.Sprintf(
				"rules.%s.severity: invalid value %q; valid values: HIGH, MEDIUM, LOW", ruleID, rc.Severity))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return &ConfigurationError{Problems: problems}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
