package policy

import (
	"strings"

	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
)

// ResolveSeverity returns the severity a finding from ruleID should carry:
// the policy override when one is configured, the rule's computed severity
// otherwise. Safe to call with cfg == nil.
func ResolveSeverity(ruleID string, computed models.Severity, cfg *AuditConfig) models.Severity {
	if cfg == nil {
		return computed
	}
	rc, ok := cfg.Rules[ruleID]
	if !ok || rc.Severity == "" {
		return computed
	}
	override := models.Severity(strings.ToUpper(rc.Severity))
	if models.SeverityRank(override) == 0 {
		// Unknown override values are rejected by Validate; treat a stray
		// one as no-op rather than emitting an unrankable severity.
		return computed
	}
	return override
}
