package rules

import (
	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/policy"
)

const serverlessIdleRuleID = "SERVERLESS_IDLE"

// ServerlessIdleRule flags functions with negligible invocations over the
// lookback window. Functions whose invocation rate was not measured are
// skipped rather than treated as idle.
type ServerlessIdleRule struct{}

func (ServerlessIdleRule) ID() string                { return serverlessIdleRuleID }
func (ServerlessIdleRule) Kind() models.ResourceKind { return models.KindServerless }

func (ServerlessIdleRule) Evaluate(ctx RuleContext) []models.Finding {
	rate, ok := ctx.Metric.Util(models.MetricInvocationRate)
	if !ok {
		return nil
	}
	threshold := policy.Threshold(serverlessIdleRuleID, "idle_threshold", cfgIdleThreshold(ctx.Config), ctx.Config)
	if rate > threshold {
		return nil
	}

	return []models.Finding{newFinding(ctx, serverlessIdleRuleID,
		models.ClassIdle,
		idleSeverity(rate),
		"Delete or archive this function; it is effectively uninvoked.",
		map[string]float64{
			models.MetricInvocationRate: rate,
			"idle_threshold":            threshold,
		},
	)}
}
