package rules

import (
	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/policy"
)

// RuleContext carries everything a rule needs to evaluate one resource.
// Rules must never make network calls or read external state: the metric is
// already normalized and the config is already validated.
type RuleContext struct {
	// Metric is the canonical, unit-normalized resource under evaluation.
	Metric models.ResourceMetric

	// Config holds the active thresholds and per-rule overrides. May be nil;
	// rules must treat nil as "use their baseline defaults".
	Config *policy.AuditConfig
}

// Rule is a single deterministic classification rule for one resource kind.
// Rules must be stateless, pure, and safe to call concurrently.
//
// A rule returns zero or more findings for the metric in ctx, and must never
// emit two findings with the same classification for the same resource.
// Findings leave the rule with PotentialMonthlySavings unset; the auditor
// attaches savings afterwards so that all savings math lives in one place.
type Rule interface {
	// ID returns the unique, stable identifier for this rule (e.g. "COMPUTE_IDLE").
	ID() string

	// Kind returns the resource kind this rule applies to.
	Kind() models.ResourceKind

	// Evaluate inspects the metric in ctx and returns zero or more findings.
	// An empty slice means no issue was detected. A metric that lacks the
	// measurements this rule needs is skipped silently: other rules may
	// still succeed on the same resource.
	Evaluate(ctx RuleContext) []models.Finding
}

// newFinding assembles a finding for the metric in ctx, applying any policy
// severity override for ruleID. Savings are attached later by the auditor.
func newFinding(
	ctx RuleContext,
	ruleID string,
	class models.Classification,
	severity models.Severity,
	recommendation string,
	evidence map[string]float64,
) models.Finding {
	return models.Finding{
		ResourceID:     ctx.Metric.ResourceID,
		Kind:           ctx.Metric.Kind,
		Region:         ctx.Metric.Region,
		Classification: class,
		Severity:       policy.ResolveSeverity(ruleID, severity, ctx.Config),
		Recommendation: recommendation,
		Evidence:       evidence,
	}
}

// idleSeverity grades an idle-traffic finding: a resource with literally
// zero traffic over the whole window is HIGH, anything else at or below the
// threshold is MEDIUM.
func idleSeverity(rate float64) models.Severity {
	if rate == 0 {
		return models.SeverityHigh
	}
	return models.SeverityMedium
}

// deficitSeverity grades an under-utilization finding by how far below the
// threshold the observed value sits: at or below half the threshold is HIGH,
// otherwise MEDIUM.
func deficitSeverity(value, threshold float64) models.Severity {
	if value <= threshold/2 {
		return models.SeverityHigh
	}
	return models.SeverityMedium
}

// The cfg* helpers return account-wide baseline thresholds, falling back to
// the shipped defaults when no config is loaded. Rules pass these as the
// baseline to policy.Threshold so per-rule params can still override them.

func cfgIdleThreshold(cfg *policy.AuditConfig) float64 {
	if cfg == nil {
		return policy.DefaultAuditConfig().IdleThreshold
	}
	return cfg.IdleThreshold
}

func cfgUtilizationThreshold(cfg *policy.AuditConfig) float64 {
	if cfg == nil {
		return policy.DefaultAuditConfig().UtilizationThreshold
	}
	return cfg.UtilizationThreshold
}

func cfgOversizedThreshold(cfg *policy.AuditConfig) float64 {
	if cfg == nil {
		return policy.DefaultAuditConfig().OversizedThreshold
	}
	return cfg.OversizedThreshold
}

func cfgColdStartRateThreshold(cfg *policy.AuditConfig) float64 {
	if cfg == nil {
		return policy.DefaultAuditConfig().ColdStartRateThreshold
	}
	return cfg.ColdStartRateThreshold
}
