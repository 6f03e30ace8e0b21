package rules

import (
	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/policy"
)

const databaseIdleRuleID = "DATABASE_IDLE"

// DatabaseIdleRule flags database instances with a negligible average
// connection count over the window. An instance nobody connects to is
// almost always a decommissioning candidate or a snapshot-and-stop case.
type DatabaseIdleRule struct{}

func (DatabaseIdleRule) ID() string                { return databaseIdleRuleID }
func (DatabaseIdleRule) Kind() models.ResourceKind { return models.KindDatabase }

func (DatabaseIdleRule) Evaluate(ctx RuleContext) []models.Finding {
	conns, ok := ctx.Metric.Util(models.MetricConnectionsAvg)
	if !ok {
		return nil
	}
	threshold := policy.Threshold(databaseIdleRuleID, "idle_threshold", cfgIdleThreshold(ctx.Config), ctx.Config)
	if conns > threshold {
		return nil
	}

	return []models.Finding{newFinding(ctx, databaseIdleRuleID,
		models.ClassIdle,
		idleSeverity(conns),
		"Snapshot and stop this database instance; it has effectively no client connections.",
		map[string]float64{
			models.MetricConnectionsAvg: conns,
			"idle_threshold":            threshold,
		},
	)}
}
