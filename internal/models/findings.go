package models

import "time"

// Severity represents how far a finding's evidence deviates from its
// threshold. It is qualitative magnitude, independent of dollar savings.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// severityRank orders severities for sorting and comparisons.
// HIGH (3) > MEDIUM (2) > LOW (1).
var severityRank = map[Severity]int{
	SeverityHigh:   3,
	SeverityMedium: 2,
	SeverityLow:    1,
}

// SeverityRank returns the numeric rank of s, or 0 for unknown values.
func SeverityRank(s Severity) int {
	return severityRank[s]
}

// Classification identifies the optimization issue a finding describes.
type Classification string

const (
	ClassIdle                   Classification = "IDLE"
	ClassOversized              Classification = "OVERSIZED"
	ClassUndersized             Classification = "UNDERSIZED"
	ClassColdStartHeavy         Classification = "COLD_START_HEAVY"
	ClassUnused                 Classification = "UNUSED"
	ClassStorageClassMismatch   Classification = "STORAGE_CLASS_MISMATCH"
	ClassReservationOpportunity Classification = "RESERVATION_OPPORTUNITY"
)

// Finding is a single detected optimization opportunity on one resource.
// It is the atomic output unit of the rule engine.
//
// Evidence holds the specific metric values that triggered the
// classification, so every finding can be audited and unit-tested against
// its inputs. PotentialMonthlySavings is always >= 0 and never exceeds the
// resource's attributed monthly cost for cost-elimination classes.
type Finding struct {
	ResourceID              string             `json:"resource_id"`
	Kind                    ResourceKind       `json:"kind"`
	Region                  string             `json:"region"`
	Classification          Classification     `json:"classification"`
	Severity                Severity           `json:"severity"`
	Recommendation          string             `json:"recommendation"`
	PotentialMonthlySavings float64            `json:"potential_monthly_savings_usd"`
	Evidence                map[string]float64 `json:"evidence,omitempty"`
}

// ResourceError records one resource that was skipped during an audit
// because its data was insufficient to evaluate. Skips never abort a batch.
type ResourceError struct {
	ResourceID string `json:"resource_id,omitempty"`
	Reason     string `json:"reason"`
}

// AuditResult is the complete audit output for one resource kind.
//
// TotalCount always equals the number of input resources, regardless of how
// many were skipped. Findings retain evaluation order; global ranking is the
// aggregator's job, not the auditor's.
type AuditResult struct {
	Kind                    ResourceKind    `json:"kind"`
	TotalCount              int             `json:"total_count"`
	Findings                []Finding       `json:"findings"`
	PotentialMonthlySavings float64         `json:"potential_monthly_savings_usd"`
	Errors                  []ResourceError `json:"errors,omitempty"`
}

// DashboardAuditSummary is the final merged audit artifact.
//
// AllFindings is sorted by savings descending, ties broken by severity
// descending then resource ID ascending — a deterministic total order,
// independent of auditor completion order. The summary is frozen once
// built: consumers only format it, they never recompute.
type DashboardAuditSummary struct {
	ByKind                       map[ResourceKind]AuditResult `json:"by_kind"`
	AllFindings                  []Finding                    `json:"all_findings"`
	TotalPotentialMonthlySavings float64                      `json:"total_potential_monthly_savings_usd"`
	GeneratedAt                  time.Time                    `json:"generated_at"`
}

// AuditReport is the top-level output of a full audit run: the frozen core
// summary plus run identity and the account-level billing context.
type AuditReport struct {
	ReportID    string                 `json:"report_id"`
	GeneratedAt time.Time              `json:"generated_at"`
	Profile     string                 `json:"profile"`
	AccountID   string                 `json:"account_id"`
	Regions     []string               `json:"regions"`
	Summary     *DashboardAuditSummary `json:"summary"`
	CostSummary *CostSummary           `json:"cost_summary,omitempty"`
}
