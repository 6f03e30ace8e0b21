package rules

import (
	"testing"

	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/policy"
)

func TestComputeRightsizeRule_WithinBand_NotFlagged(t *testing.T) {
	findings := ComputeRightsizeRule{}.Evaluate(RuleContext{
		Metric: models.ResourceMetric{
			ResourceID:  "i-0ok",
			Kind:        models.KindCompute,
			Region:      "us-east-1",
			Utilization: map[string]float64{models.MetricCPUAvg: 0.5},
			Allocated:   map[string]float64{models.AllocVCPU: 4},
		},
	})
	if len(findings) != 0 {
		t.Errorf("expected 0 findings in the healthy band, got %d", len(findings))
	}
}

func TestComputeRightsizeRule_Oversized_Flagged(t *testing.T) {
	findings := ComputeRightsizeRule{}.Evaluate(RuleContext{
		Metric: models.ResourceMetric{
			ResourceID:  "i-0big",
			Kind:        models.KindCompute,
			Region:      "us-east-1",
			Utilization: map[string]float64{models.MetricCPUAvg: 0.05},
			Allocated:   map[string]float64{models.AllocVCPU: 8},
		},
	})
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	f := findings[0]
	if f.Classification != models.ClassOversized {
		t.Errorf("expected OVERSIZED, got %s", f.Classification)
	}
	if f.Severity != models.SeverityHigh {
		t.Errorf("expected HIGH at under half the threshold, got %s", f.Severity)
	}
	if f.Evidence["allocated_vcpu"] != 8 {
		t.Errorf("expected allocated_vcpu 8 in evidence, got %f", f.Evidence["allocated_vcpu"])
	}
}

func TestComputeRightsizeRule_OversizedNearThreshold_Medium(t *testing.T) {
	// 0.15 is below the 0.2 default but above half of it.
	findings := ComputeRightsizeRule{}.Evaluate(RuleContext{
		Metric: models.ResourceMetric{
			ResourceID:  "i-0mid",
			Kind:        models.KindCompute,
			Region:      "us-east-1",
			Utilization: map[string]float64{models.MetricCPUAvg: 0.15},
			Allocated:   map[string]float64{models.AllocVCPU: 4},
		},
	})
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Severity != models.SeverityMedium {
		t.Errorf("expected MEDIUM near the threshold, got %s", findings[0].Severity)
	}
}

func TestComputeRightsizeRule_OversizedWithoutAllocation_Skipped(t *testing.T) {
	// No allocation figures: no credible downsizing target, no finding.
	// The idle rule still covers this resource if it is truly dormant.
	findings := ComputeRightsizeRule{}.Evaluate(RuleContext{
		Metric: computeMetric(map[string]float64{models.MetricCPUAvg: 0.02}),
	})
	if len(findings) != 0 {
		t.Errorf("expected 0 findings without allocation data, got %d", len(findings))
	}
}

func TestComputeRightsizeRule_Undersized_Flagged(t *testing.T) {
	findings := ComputeRightsizeRule{}.Evaluate(RuleContext{
		Metric: computeMetric(map[string]float64{models.MetricCPUAvg: 0.93}),
	})
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	f := findings[0]
	if f.Classification != models.ClassUndersized {
		t.Errorf("expected UNDERSIZED, got %s", f.Classification)
	}
	if f.Severity != models.SeverityHigh {
		t.Errorf("expected HIGH for saturation risk, got %s", f.Severity)
	}
}

func TestComputeRightsizeRule_NoUtilization_Skipped(t *testing.T) {
	findings := ComputeRightsizeRule{}.Evaluate(RuleContext{
		Metric: models.ResourceMetric{
			ResourceID: "i-0blind",
			Kind:       models.KindCompute,
			Region:     "us-east-1",
			Allocated:  map[string]float64{models.AllocVCPU: 4},
		},
	})
	if len(findings) != 0 {
		t.Errorf("expected 0 findings without cpu_avg, got %d", len(findings))
	}
}

func TestDatabaseRightsizeRule_SharesPolicy(t *testing.T) {
	findings := DatabaseRightsizeRule{}.Evaluate(RuleContext{
		Metric: models.ResourceMetric{
			ResourceID:  "prod-db",
			Kind:        models.KindDatabase,
			Region:      "eu-west-1",
			Utilization: map[string]float64{models.MetricCPUAvg: 0.04},
			Allocated:   map[string]float64{models.AllocDiskGB: 500},
		},
	})
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Classification != models.ClassOversized {
		t.Errorf("expected OVERSIZED, got %s", findings[0].Classification)
	}
	if findings[0].Kind != models.KindDatabase {
		t.Errorf("expected DATABASE kind on the finding, got %s", findings[0].Kind)
	}
}

func TestRightsize_SeverityOverrideApplied(t *testing.T) {
	cfg := policy.DefaultAuditConfig()
	cfg.Rules = map[string]policy.RuleConfig{
		"COMPUTE_RIGHTSIZE": {Severity: "LOW"},
	}

	findings := ComputeRightsizeRule{}.Evaluate(RuleContext{
		Metric: models.ResourceMetric{
			ResourceID:  "i-0low",
			Kind:        models.KindCompute,
			Region:      "us-east-1",
			Utilization: map[string]float64{models.MetricCPUAvg: 0.05},
			Allocated:   map[string]float64{models.AllocVCPU: 8},
		},
		Config: &cfg,
	})
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Severity != models.SeverityLow {
		t.Errorf("expected policy-overridden LOW severity, got %s", findings[0].Severity)
	}
}
