package rules

import "github.com/pankaj-dahiya-devops/finops-audit/internal/models"

const databaseRightsizeRuleID = "DATABASE_RIGHTSIZE"

// DatabaseRightsizeRule classifies database instances whose average CPU
// utilization sits outside the configured band. Shares the rightsizing
// policy with the compute variant; only the kind and rule ID differ.
type DatabaseRightsizeRule struct{}

func (DatabaseRightsizeRule) ID() string                { return databaseRightsizeRuleID }
func (DatabaseRightsizeRule) Kind() models.ResourceKind { return models.KindDatabase }

func (DatabaseRightsizeRule) Evaluate(ctx RuleContext) []models.Finding {
	return rightsizeFindings(ctx, databaseRightsizeRuleID, models.MetricCPUAvg)
}
