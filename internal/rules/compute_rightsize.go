package rules

import "github.com/pankaj-dahiya-devops/finops-audit/internal/models"

const computeRightsizeRuleID = "COMPUTE_RIGHTSIZE"

// ComputeRightsizeRule classifies compute instances whose average CPU
// utilization sits outside the configured band: OVERSIZED below the low
// bound, UNDERSIZED above the ceiling. See rightsizeFindings for the shared
// policy.
type ComputeRightsizeRule struct{}

func (ComputeRightsizeRule) ID() string                { return computeRightsizeRuleID }
func (ComputeRightsizeRule) Kind() models.ResourceKind { return models.KindCompute }

func (ComputeRightsizeRule) Evaluate(ctx RuleContext) []models.Finding {
	return rightsizeFindings(ctx, computeRightsizeRuleID, models.MetricCPUAvg)
}
