package rules

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/policy"
)

const storageClassMismatchRuleID = "STORAGE_CLASS_MISMATCH"

// StorageClassMismatchRule flags buckets and volumes kept on the standard
// (full-price) storage class while their access frequency sits below the
// configured rate — cold data paying the hot-tier premium.
//
// The rule only fires for classes listed in the configured price-ratio
// table at ratio 1.0; cheaper classes are already where the data belongs.
type StorageClassMismatchRule struct{}

func (StorageClassMismatchRule) ID() string                { return storageClassMismatchRuleID }
func (StorageClassMismatchRule) Kind() models.ResourceKind { return models.KindStorage }

func (StorageClassMismatchRule) Evaluate(ctx RuleContext) []models.Finding {
	m := ctx.Metric
	class := m.Labels[models.LabelStorageClass]
	if class == "" {
		return nil
	}
	ratios := cfgStorageClassRatios(ctx.Config)
	if ratios[class] < 1.0 {
		// Unknown class or already on a discounted tier.
		return nil
	}

	access, ok := m.Util(models.MetricAccessRate)
	if !ok {
		return nil
	}
	threshold := policy.Threshold(storageClassMismatchRuleID, "access_rate_threshold", cfgIdleThreshold(ctx.Config), ctx.Config)
	if access >= threshold {
		return nil
	}

	return []models.Finding{newFinding(ctx, storageClassMismatchRuleID,
		models.ClassStorageClassMismatch,
		deficitSeverity(access, threshold),
		fmt.Sprintf("Move rarely accessed data off the %q class to a colder storage tier.", class),
		map[string]float64{
			models.MetricAccessRate: access,
			"access_rate_threshold": threshold,
			"current_price_ratio":   ratios[class],
		},
	)}
}

func cfgStorageClassRatios(cfg *policy.AuditConfig) map[string]float64 {
	if cfg == nil {
		return policy.DefaultAuditConfig().StorageClassPriceRatios
	}
	return cfg.StorageClassPriceRatios
}
