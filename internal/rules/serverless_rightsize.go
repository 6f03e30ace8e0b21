package rules

import "github.com/pankaj-dahiya-devops/finops-audit/internal/models"

const serverlessRightsizeRuleID = "SERVERLESS_RIGHTSIZE"

// ServerlessRightsizeRule classifies functions by their average memory
// utilization against allocated memory: OVERSIZED when most of the
// allocation is never touched, UNDERSIZED when usage crowds the limit.
type ServerlessRightsizeRule struct{}

func (ServerlessRightsizeRule) ID() string                { return serverlessRightsizeRuleID }
func (ServerlessRightsizeRule) Kind() models.ResourceKind { return models.KindServerless }

func (ServerlessRightsizeRule) Evaluate(ctx RuleContext) []models.Finding {
	return rightsizeFindings(ctx, serverlessRightsizeRuleID, models.MetricMemoryAvgRatio)
}
