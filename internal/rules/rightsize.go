package rules

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/policy"
)

// rightsizeFindings implements the shared rightsizing policy used by the
// compute, database, and serverless rightsize rules: classify the resource
// OVERSIZED when the named utilization ratio sits below the oversized
// threshold, UNDERSIZED when it sits above the utilization ceiling.
//
// OVERSIZED requires allocation data so a concrete downsizing target can be
// computed later; without it the classification is skipped for this
// resource. UNDERSIZED is a pure risk flag (throttling, saturation) and is
// emitted regardless — it never claims savings.
func rightsizeFindings(ctx RuleContext, ruleID, utilName string) []models.Finding {
	m := ctx.Metric
	util, ok := m.Util(utilName)
	if !ok {
		return nil
	}

	oversized := policy.Threshold(ruleID, "oversized_threshold", cfgOversizedThreshold(ctx.Config), ctx.Config)
	ceiling := policy.Threshold(ruleID, "utilization_threshold", cfgUtilizationThreshold(ctx.Config), ctx.Config)

	switch {
	case util < oversized:
		if len(m.Allocated) == 0 {
			// No allocation figures, no credible downsizing target.
			return nil
		}
		evidence := map[string]float64{
			utilName:              util,
			"oversized_threshold": oversized,
		}
		for name, v := range m.Allocated {
			evidence["allocated_"+name] = v
		}
		return []models.Finding{newFinding(ctx, ruleID,
			models.ClassOversized,
			deficitSeverity(util, oversized),
			fmt.Sprintf("Downsize this resource; %s is %.0f%% against provisioned capacity.", utilName, util*100),
			evidence,
		)}

	case util > ceiling:
		return []models.Finding{newFinding(ctx, ruleID,
			models.ClassUndersized,
			models.SeverityHigh,
			fmt.Sprintf("Scale up this resource; sustained %s of %.0f%% risks throttling.", utilName, util*100),
			map[string]float64{
				utilName:                util,
				"utilization_threshold": ceiling,
			},
		)}
	}
	return nil
}
