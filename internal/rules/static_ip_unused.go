package rules

import (
	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
)

const staticIPUnusedRuleID = "STATIC_IP_UNUSED"

// StaticIPUnusedRule flags reserved static IP addresses with zero
// associations. Providers bill reserved-but-unassociated addresses, so the
// whole charge is recoverable by releasing the address.
type StaticIPUnusedRule struct{}

func (StaticIPUnusedRule) ID() string                { return staticIPUnusedRuleID }
func (StaticIPUnusedRule) Kind() models.ResourceKind { return models.KindStaticIP }

func (StaticIPUnusedRule) Evaluate(ctx RuleContext) []models.Finding {
	associations, ok := ctx.Metric.Util(models.MetricAssociations)
	if !ok || associations > 0 {
		return nil
	}

	return []models.Finding{newFinding(ctx, staticIPUnusedRuleID,
		models.ClassUnused,
		models.SeverityMedium,
		"Release this static IP; it is reserved but not associated with any resource.",
		map[string]float64{
			models.MetricAssociations: associations,
		},
	)}
}
