package rules

import (
	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/policy"
)

const computeIdleRuleID = "COMPUTE_IDLE"

// ComputeIdleRule flags compute resources receiving negligible traffic over
// the lookback window.
//
// The traffic signal is request_rate when the collector measured one (load
// balancers, gateways); instances without a request stream fall back to
// cpu_avg as the idleness proxy. A resource where neither was measured is
// skipped: absence of data is never evidence of idleness.
type ComputeIdleRule struct{}

func (ComputeIdleRule) ID() string               { return computeIdleRuleID }
func (ComputeIdleRule) Kind() models.ResourceKind { return models.KindCompute }

func (ComputeIdleRule) Evaluate(ctx RuleContext) []models.Finding {
	m := ctx.Metric
	threshold := policy.Threshold(computeIdleRuleID, "idle_threshold", cfgIdleThreshold(ctx.Config), ctx.Config)

	metricName := models.MetricRequestRate
	rate, ok := m.Util(metricName)
	if !ok {
		metricName = models.MetricCPUAvg
		rate, ok = m.Util(metricName)
	}
	if !ok || rate > threshold {
		return nil
	}

	return []models.Finding{newFinding(ctx, computeIdleRuleID,
		models.ClassIdle,
		idleSeverity(rate),
		"Stop or delete this instance; it has received negligible traffic over the lookback window.",
		map[string]float64{
			metricName:       rate,
			"idle_threshold": threshold,
		},
	)}
}
