package rules

import (
	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/policy"
)

const serverlessColdStartRuleID = "SERVERLESS_COLD_START"

// ServerlessColdStartRule flags functions paying a heavy cold-start tax:
// the cold-start rate over the window exceeds the configured ceiling.
// This is a latency/architecture finding, not a savings claim — provisioned
// capacity usually costs more, not less.
type ServerlessColdStartRule struct{}

func (ServerlessColdStartRule) ID() string                { return serverlessColdStartRuleID }
func (ServerlessColdStartRule) Kind() models.ResourceKind { return models.KindServerless }

func (ServerlessColdStartRule) Evaluate(ctx RuleContext) []models.Finding {
	rate, ok := ctx.Metric.Util(models.MetricColdStartRate)
	if !ok {
		return nil
	}
	threshold := policy.Threshold(serverlessColdStartRuleID, "cold_start_rate_threshold", cfgColdStartRateThreshold(ctx.Config), ctx.Config)
	if rate <= threshold {
		return nil
	}

	severity := models.SeverityMedium
	if rate >= 2*threshold {
		severity = models.SeverityHigh
	}

	return []models.Finding{newFinding(ctx, serverlessColdStartRuleID,
		models.ClassColdStartHeavy,
		severity,
		"Reduce cold starts: keep a minimum instance warm or trim the function's startup path.",
		map[string]float64{
			models.MetricColdStartRate:  rate,
			"cold_start_rate_threshold": threshold,
		},
	)}
}
