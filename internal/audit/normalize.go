package audit

import (
	"math"

	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
)

// Provider-shaped sample names accepted by Normalize, mapped to canonical
// utilization metric names. Percent samples arrive in [0,100] and are
// converted to [0,1] ratios; rate and count samples pass through unchanged.
var (
	percentSamples = map[string]string{
		"cpu_percent_avg":       models.MetricCPUAvg,
		"cpu_percent_peak":      models.MetricCPUPeak,
		"cpu_percent_sustained": models.MetricCPUSustained,
		"memory_percent_avg":    models.MetricMemoryAvgRatio,
	}

	rateSamples = map[string]string{
		"requests_per_hour":    models.MetricRequestRate,
		"invocations_per_hour": models.MetricInvocationRate,
		"cold_starts_per_hour": models.MetricColdStartRate,
		"connections_avg":      models.MetricConnectionsAvg,
		"reads_per_hour":       models.MetricAccessRate,
		"attachment_count":     models.MetricAttachments,
		"association_count":    models.MetricAssociations,
	}

	allocatedSamples = map[string]string{
		"allocated_vcpu":      models.AllocVCPU,
		"allocated_memory_mb": models.AllocMemoryMB,
		"allocated_disk_gb":   models.AllocDiskGB,
	}

	// Byte-denominated allocation samples and their canonical target plus
	// conversion divisor.
	allocatedByteSamples = map[string]struct {
		name    string
		divisor float64
	}{
		"allocated_memory_bytes": {models.AllocMemoryMB, 1 << 20},
		"allocated_disk_bytes":   {models.AllocDiskGB, 1 << 30},
	}
)

// Normalize converts one provider-shaped raw resource into the canonical
// ResourceMetric consumed by rule evaluation.
//
// Identity fields (id, kind, region) are required; a resource missing any of
// them fails with *NormalizationError and is excluded from the batch.
// Measurement samples are optional: a sample the provider did not report is
// simply absent from the result, never zero-filled, because a fabricated
// zero is indistinguishable from measured-zero usage and corrupts
// classification. Unrecognised sample names are dropped.
//
// The attributed monthly cost is looked up in costByResource; ids without a
// usable (finite, non-negative) cost row stay cost-unknown.
func Normalize(raw models.RawResource, costByResource map[string]float64) (models.ResourceMetric, error) {
	var missing []string
	if raw.ID == "" {
		missing = append(missing, "resource_id")
	}
	if !models.ValidKind(raw.Kind) {
		missing = append(missing, "kind")
	}
	if raw.Region == "" {
		missing = append(missing, "region")
	}
	if len(missing) > 0 {
		return models.ResourceMetric{}, &NormalizationError{ResourceID: raw.ID, MissingFields: missing}
	}

	m := models.ResourceMetric{
		ResourceID: raw.ID,
		Kind:       raw.Kind,
		Region:     raw.Region,
	}

	for name, v := range raw.Samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		switch {
		case percentSamples[name] != "":
			m.Utilization = putMetric(m.Utilization, percentSamples[name], clampRatio(v/100))
		case rateSamples[name] != "":
			if v < 0 {
				v = 0
			}
			m.Utilization = putMetric(m.Utilization, rateSamples[name], v)
		case allocatedSamples[name] != "":
			if v > 0 {
				m.Allocated = putMetric(m.Allocated, allocatedSamples[name], v)
			}
		default:
			if conv, ok := allocatedByteSamples[name]; ok && v > 0 {
				m.Allocated = putMetric(m.Allocated, conv.name, v/conv.divisor)
			}
		}
	}

	if len(raw.Labels) > 0 {
		m.Labels = make(map[string]string, len(raw.Labels))
		for k, v := range raw.Labels {
			m.Labels[k] = v
		}
	}

	if cost, ok := costByResource[raw.ID]; ok && !math.IsNaN(cost) && !math.IsInf(cost, 0) && cost >= 0 {
		c := cost
		m.MonthlyCost = &c
	}

	return m, nil
}

func putMetric(m map[string]float64, name string, v float64) map[string]float64 {
	if m == nil {
		m = make(map[string]float64)
	}
	m[name] = v
	return m
}

// clampRatio bounds a ratio metric to [0,1]. Providers occasionally report
// slightly-over-100% CPU; the canonical model keeps the invariant strict.
func clampRatio(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
