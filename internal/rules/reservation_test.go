package rules

import (
	"testing"

	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
)

func steadyOnDemandMetric(sustained float64, pricing string) models.ResourceMetric {
	m := models.ResourceMetric{
		ResourceID:  "i-0steady",
		Kind:        models.KindCompute,
		Region:      "us-east-1",
		Utilization: map[string]float64{models.MetricCPUSustained: sustained},
	}
	if pricing != "" {
		m.Labels = map[string]string{models.LabelPricing: pricing}
	}
	return m
}

func TestReservationOpportunityRule_SteadyOnDemand_Flagged(t *testing.T) {
	r := ReservationOpportunityRule{RuleID: "COMPUTE_RESERVATION_OPPORTUNITY", ResourceKind: models.KindCompute}

	findings := r.Evaluate(RuleContext{Metric: steadyOnDemandMetric(0.85, models.PricingOnDemand)})
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	f := findings[0]
	if f.Classification != models.ClassReservationOpportunity {
		t.Errorf("expected RESERVATION_OPPORTUNITY, got %s", f.Classification)
	}
	if f.Severity != models.SeverityMedium {
		t.Errorf("expected MEDIUM, got %s", f.Severity)
	}
}

func TestReservationOpportunityRule_SpikyLoad_NotFlagged(t *testing.T) {
	// The window minimum dipped below the ceiling: load is not steady.
	r := ReservationOpportunityRule{RuleID: "COMPUTE_RESERVATION_OPPORTUNITY", ResourceKind: models.KindCompute}

	findings := r.Evaluate(RuleContext{Metric: steadyOnDemandMetric(0.3, models.PricingOnDemand)})
	if len(findings) != 0 {
		t.Errorf("expected 0 findings for spiky load, got %d", len(findings))
	}
}

func TestReservationOpportunityRule_AlreadyReserved_NotFlagged(t *testing.T) {
	r := ReservationOpportunityRule{RuleID: "COMPUTE_RESERVATION_OPPORTUNITY", ResourceKind: models.KindCompute}

	findings := r.Evaluate(RuleContext{Metric: steadyOnDemandMetric(0.9, "reserved")})
	if len(findings) != 0 {
		t.Errorf("expected 0 findings for already-reserved pricing, got %d", len(findings))
	}
}

func TestReservationOpportunityRule_NoPricingLabel_NotFlagged(t *testing.T) {
	r := ReservationOpportunityRule{RuleID: "COMPUTE_RESERVATION_OPPORTUNITY", ResourceKind: models.KindCompute}

	findings := r.Evaluate(RuleContext{Metric: steadyOnDemandMetric(0.9, "")})
	if len(findings) != 0 {
		t.Errorf("expected 0 findings without a pricing label, got %d", len(findings))
	}
}

func TestReservationOpportunityRule_NoSustainedMetric_Skipped(t *testing.T) {
	r := ReservationOpportunityRule{RuleID: "DATABASE_RESERVATION_OPPORTUNITY", ResourceKind: models.KindDatabase}

	findings := r.Evaluate(RuleContext{Metric: models.ResourceMetric{
		ResourceID: "prod-db",
		Kind:       models.KindDatabase,
		Region:     "us-east-1",
		Labels:     map[string]string{models.LabelPricing: models.PricingOnDemand},
	}})
	if len(findings) != 0 {
		t.Errorf("expected 0 findings without cpu_sustained, got %d", len(findings))
	}
}
