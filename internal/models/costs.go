package models

// ServiceCost holds the aggregated billing cost for a single cloud service.
type ServiceCost struct {
	Service string  `json:"service"`
	CostUSD float64 `json:"cost_usd"`
}

// CostSummary holds account-level billing data for the lookback period.
// It is collected by the billing collaborator and attached to the report
// header; the audit core never reads it.
type CostSummary struct {
	PeriodStart      string        `json:"period_start"`
	PeriodEnd        string        `json:"period_end"`
	TotalCostUSD     float64       `json:"total_cost_usd"`
	ServiceBreakdown []ServiceCost `json:"service_breakdown"`
}
