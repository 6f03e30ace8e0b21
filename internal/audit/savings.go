package audit

import (
	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/policy"
)

// ComputeSavings returns the potential monthly savings for one classified
// finding on the given metric. It is pure and shared by every auditor so
// that savings math stays consistent across kinds.
//
// The result is always in [0, monthly_cost]. A resource with no attributed
// cost yields 0 regardless of classification — a finding is still worth
// emitting as informational, but a dollar figure is never invented.
func ComputeSavings(class models.Classification, m models.ResourceMetric, cfg *policy.AuditConfig) float64 {
	if !m.CostKnown() {
		return 0
	}
	cost := m.Cost()

	var savings float64
	switch class {
	case models.ClassIdle, models.ClassUnused:
		// Eliminate the resource entirely.
		savings = cost

	case models.ClassOversized:
		savings = cost * rightsizingExcess(m, cfg)

	case models.ClassStorageClassMismatch:
		savings = cost * storageClassExcess(m, cfg)

	case models.ClassReservationOpportunity:
		savings = cost * discountRate(cfg)

	default:
		// UNDERSIZED and COLD_START_HEAVY are risk/architecture flags,
		// not savings claims.
		savings = 0
	}

	return clamp(savings, 0, cost)
}

// rightsizingExcess computes the fraction of spend recoverable by downsizing
// to the nearest standard tier that still covers observed peak demand plus
// headroom:
//
//	target = smallest tier >= peak_utilization * current_allocation * headroom
//	excess = 1 - target/current_allocation
//
// The primary allocation dimension is vcpu when provisioned, then memory,
// then disk. Without allocation data, a utilization basis, or a configured
// tier ladder the excess is 0: no target, no claim.
func rightsizingExcess(m models.ResourceMetric, cfg *policy.AuditConfig) float64 {
	name, current, util, ok := rightsizingBasis(m)
	if !ok {
		return 0
	}

	ladder := tierLadder(name, cfg)
	if len(ladder) == 0 {
		return 0
	}

	demand := util * current * headroomFactor(cfg)
	target := ladder[len(ladder)-1]
	for _, tier := range ladder {
		if tier >= demand {
			target = tier
			break
		}
	}
	if target >= current {
		// Already on the smallest adequate tier.
		return 0
	}
	return 1 - target/current
}

// rightsizingBasis picks the allocation dimension and its matching peak
// utilization ratio. CPU dimensions use the worse of average and peak so a
// bursty workload is never sized below its spikes.
func rightsizingBasis(m models.ResourceMetric) (name string, current, util float64, ok bool) {
	if current, ok = m.Allocated[models.AllocVCPU]; ok {
		avg, haveAvg := m.Util(models.MetricCPUAvg)
		peak, havePeak := m.Util(models.MetricCPUPeak)
		if !haveAvg && !havePeak {
			return "", 0, 0, false
		}
		return models.AllocVCPU, current, max(avg, peak), true
	}
	if current, ok = m.Allocated[models.AllocMemoryMB]; ok {
		avg, have := m.Util(models.MetricMemoryAvgRatio)
		if !have {
			return "", 0, 0, false
		}
		return models.AllocMemoryMB, current, avg, true
	}
	if current, ok = m.Allocated[models.AllocDiskGB]; ok {
		avg, have := m.Util(models.MetricAccessRate)
		if !have {
			return "", 0, 0, false
		}
		return models.AllocDiskGB, current, clamp(avg, 0, 1), true
	}
	return "", 0, 0, false
}

// storageClassExcess computes the fraction of spend recoverable by moving
// the resource from its current storage class to the next cheaper class in
// the configured price-ratio table:
//
//	excess = 1 - target_ratio/current_ratio
func storageClassExcess(m models.ResourceMetric, cfg *policy.AuditConfig) float64 {
	ratios := classRatios(cfg)
	current, ok := ratios[m.Labels[models.LabelStorageClass]]
	if !ok || current <= 0 {
		return 0
	}

	// Next cheaper class: the largest ratio strictly below the current one.
	target := 0.0
	for _, ratio := range ratios {
		if ratio < current && ratio > target {
			target = ratio
		}
	}
	if target == 0 {
		// Already the cheapest class in the table.
		return 0
	}
	return 1 - target/current
}

func tierLadder(name string, cfg *policy.AuditConfig) []float64 {
	if cfg == nil {
		return policy.DefaultAuditConfig().RightsizingTiers[name]
	}
	return cfg.RightsizingTiers[name]
}

func headroomFactor(cfg *policy.AuditConfig) float64 {
	if cfg == nil {
		return policy.DefaultAuditConfig().HeadroomFactor
	}
	return cfg.HeadroomFactor
}

func discountRate(cfg *policy.AuditConfig) float64 {
	if cfg == nil {
		return 0
	}
	return cfg.CommittedUseDiscountRate
}

func classRatios(cfg *policy.AuditConfig) map[string]float64 {
	if cfg == nil {
		return policy.DefaultAuditConfig().StorageClassPriceRatios
	}
	return cfg.StorageClassPriceRatios
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
