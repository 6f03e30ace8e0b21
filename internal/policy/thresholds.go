package policy

// Threshold returns the effective float64 parameter value for a rule:
// the per-rule override from the policy file when present, the supplied
// baseline otherwise. Safe to call with cfg == nil.
//
// Lookup order:
//  1. cfg == nil → baseline
//  2. cfg.Rules[ruleID] absent → baseline
//  3. cfg.Rules[ruleID].Params[key] absent → baseline
//  4. Otherwise → configured value
func Threshold(ruleID, key string, baseline float64, cfg *AuditConfig) float64 {
	if cfg == nil {
		return baseline
	}
	rc, ok := cfg.Rules[ruleID]
	if !ok {
		return baseline
	}
	v, ok := rc.Params[key]
	if !ok {
		return baseline
	}
	return v
}
