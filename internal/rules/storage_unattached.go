package rules

import (
	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
)

const storageUnattachedRuleID = "STORAGE_UNATTACHED"

// StorageUnattachedRule flags storage volumes with zero attachments:
// disks billed every month while no instance references them. The entire
// cost is recoverable, so severity is HIGH.
//
// Volumes whose attachment count was not collected are skipped; only a
// measured zero counts as unattached.
type StorageUnattachedRule struct{}

func (StorageUnattachedRule) ID() string                { return storageUnattachedRuleID }
func (StorageUnattachedRule) Kind() models.ResourceKind { return models.KindStorage }

func (StorageUnattachedRule) Evaluate(ctx RuleContext) []models.Finding {
	attachments, ok := ctx.Metric.Util(models.MetricAttachments)
	if !ok || attachments > 0 {
		return nil
	}

	return []models.Finding{newFinding(ctx, storageUnattachedRuleID,
		models.ClassUnused,
		models.SeverityHigh,
		"Delete this unattached volume, or snapshot it first if the data must be retained.",
		map[string]float64{
			models.MetricAttachments: attachments,
		},
	)}
}
