package rules

import (
	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/policy"
)

// ReservationOpportunityRule flags steady, predictable load billed at
// on-demand rates: the window minimum (cpu_sustained) never dropped below
// the utilization ceiling, so the same capacity would cost less under a
// committed-use plan.
//
// The rule is kind-parameterized because the same signal applies to compute
// instances and managed databases; each rulepack registers its own instance
// with a distinct ID.
type ReservationOpportunityRule struct {
	RuleID       string
	ResourceKind models.ResourceKind
}

func (r ReservationOpportunityRule) ID() string                { return r.RuleID }
func (r ReservationOpportunityRule) Kind() models.ResourceKind { return r.ResourceKind }

func (r ReservationOpportunityRule) Evaluate(ctx RuleContext) []models.Finding {
	m := ctx.Metric
	if m.Labels[models.LabelPricing] != models.PricingOnDemand {
		return nil
	}
	sustained, ok := m.Util(models.MetricCPUSustained)
	if !ok {
		return nil
	}

	floor := policy.Threshold(r.RuleID, "utilization_threshold", cfgUtilizationThreshold(ctx.Config), ctx.Config)
	if sustained < floor {
		return nil
	}

	return []models.Finding{newFinding(ctx, r.RuleID,
		models.ClassReservationOpportunity,
		models.SeverityMedium,
		"Load is steady for the full window; move this on-demand resource to a committed-use plan.",
		map[string]float64{
			models.MetricCPUSustained: sustained,
			"utilization_threshold":   floor,
		},
	)}
}
