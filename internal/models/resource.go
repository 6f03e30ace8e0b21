package models

// ResourceKind identifies the category of cloud resource being audited.
// The set is closed: every auditor, rulepack, and evaluator is keyed by one
// of these values, and the aggregator iterates exactly this set.
type ResourceKind string

const (
	KindCompute    ResourceKind = "COMPUTE"
	KindServerless ResourceKind = "SERVERLESS"
	KindDatabase   ResourceKind = "DATABASE"
	KindStorage    ResourceKind = "STORAGE"
	KindStaticIP   ResourceKind = "STATIC_IP"
)

// AllKinds returns every recognised ResourceKind in canonical order.
// The order is stable and drives deterministic iteration in the aggregator.
func AllKinds() []ResourceKind {
	return []ResourceKind{
		KindCompute,
		KindServerless,
		KindDatabase,
		KindStorage,
		KindStaticIP,
	}
}

// ValidKind reports whether k is a member of the closed kind set.
func ValidKind(k ResourceKind) bool {
	switch k {
	case KindCompute, KindServerless, KindDatabase, KindStorage, KindStaticIP:
		return true
	default:
		return false
	}
}

// RawResource is the provider-shaped input to the audit core: one resource
// as returned by an inventory collector, before normalization.
//
// Samples carries named numeric measurements in whatever units the provider
// reported them (percentages, counts, bytes). Labels carries non-numeric
// attributes relevant to classification (storage class, pricing model).
// A sample that could not be measured must be absent from the map, never
// zero-filled: rules treat "absent" and "measured zero" very differently.
type RawResource struct {
	ID      string             `json:"id"`
	Kind    ResourceKind       `json:"kind"`
	Region  string             `json:"region"`
	Samples map[string]float64 `json:"samples,omitempty"`
	Labels  map[string]string  `json:"labels,omitempty"`
}

// Canonical utilization metric names produced by the normalizer.
// Ratio-valued metrics are always in [0,1]; rate metrics are absolute
// per-hour rates over the lookback window.
const (
	MetricCPUAvg         = "cpu_avg"
	MetricCPUPeak        = "cpu_peak"
	MetricCPUSustained   = "cpu_sustained" // window minimum; floor for reservation signal
	MetricMemoryAvgRatio = "memory_avg_ratio"
	MetricRequestRate    = "request_rate"
	MetricInvocationRate = "invocation_rate"
	MetricColdStartRate  = "cold_start_rate"
	MetricConnectionsAvg = "connections_avg"
	MetricAccessRate     = "access_rate"
	MetricAttachments    = "attachment_count"
	MetricAssociations   = "association_count"
)

// Canonical allocated-capacity metric names.
const (
	AllocVCPU     = "vcpu"
	AllocMemoryMB = "memory_mb"
	AllocDiskGB   = "disk_gb"
)

// Label keys carried from RawResource.Labels through normalization.
const (
	LabelStorageClass = "storage_class"
	LabelPricing      = "pricing"
)

// PricingOnDemand is the Labels[LabelPricing] value signalling that the
// resource is billed at on-demand rates (reservation opportunity applies).
const PricingOnDemand = "on_demand"

// ResourceMetric is the canonical, unit-normalized shape of one audited
// resource. It is the sole input to rule evaluation and savings math.
//
// Utilization entries with ratio semantics are normalized to [0,1];
// rate entries are absolute. Missing measurements are absent keys.
// MonthlyCost is nil when no cost row could be attributed to the resource;
// rules must then emit informational findings with zero savings rather
// than inventing a cost basis.
type ResourceMetric struct {
	ResourceID  string             `json:"resource_id"`
	Kind        ResourceKind       `json:"kind"`
	Region      string             `json:"region"`
	Utilization map[string]float64 `json:"utilization,omitempty"`
	Allocated   map[string]float64 `json:"allocated,omitempty"`
	Labels      map[string]string  `json:"labels,omitempty"`
	MonthlyCost *float64           `json:"monthly_cost,omitempty"`
}

// CostKnown reports whether a cost figure was attributed to this resource.
func (m ResourceMetric) CostKnown() bool {
	return m.MonthlyCost != nil
}

// Cost returns the attributed monthly cost, or 0 when unknown.
// Callers deciding whether to claim savings must check CostKnown first.
func (m ResourceMetric) Cost() float64 {
	if m.MonthlyCost == nil {
		return 0
	}
	return *m.MonthlyCost
}

// Util returns the named utilization metric and whether it was measured.
func (m ResourceMetric) Util(name string) (float64, bool) {
	v, ok := m.Utilization[name]
	return v, ok
}
